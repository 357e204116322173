package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"stipendia/internal/store"
	"stipendia/internal/utils"
	"stipendia/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/k0kubun/pp"
)

var fakeApplicantNames = []string{
	"Amara Okafor",
	"Daniel Reyes",
	"Leila Haddad",
	"Tomas Varga",
	"Priya Raman",
	"Yusuf Diallo",
	"Ines Carvalho",
	"Marcus Bell",
	"Hana Suzuki",
	"Elena Petrova",
}

var fakeSchools = []string{
	"Riverside Community College",
	"St. Augustine Technical Institute",
	"Northgate University",
	"Calloway State College",
	"Trinity Vocational Academy",
}

var fakePrograms = []string{
	"Nursing",
	"Software Engineering",
	"Agricultural Science",
	"Accounting",
	"Electrical Installation",
	"Early Childhood Education",
}

type weightedCaseStatus struct {
	Status types.CaseStatus
	Weight int
}

var weightedStatuses = []weightedCaseStatus{
	{Status: types.CaseStatusPending, Weight: 40},
	{Status: types.CaseStatusAccepted, Weight: 45},
	{Status: types.CaseStatusRejected, Weight: 15},
}

func pickWeightedStatus(rng *rand.Rand) types.CaseStatus {
	total := 0
	for _, w := range weightedStatuses {
		total += w.Weight
	}
	roll := rng.Intn(total)
	for _, w := range weightedStatuses {
		if roll < w.Weight {
			return w.Status
		}
		roll -= w.Weight
	}
	return types.CaseStatusPending
}

type seedSummary struct {
	Cases       int
	Assignments int
	FeeEntries  int
}

// SeedFakeCases generates applicant cases across the review lifecycle.
// Accepted cases also get a sponsor assignment and a handful of fee
// entries so the sponsor dashboard and verification queue have data to
// show. Seeded rows are tagged with a "[seed] " name prefix so reset can
// find them.
func SeedFakeCases(
	ctx context.Context,
	pool *pgxpool.Pool,
	caseRepo *store.CaseRepository,
	sponsorRepo *store.SponsorRepository,
	feeRepo *store.FeeRepository,
	count int,
	reset bool,
) error {
	if count <= 0 {
		fmt.Println("Skipping fake case seed because count <= 0")
		return nil
	}

	if reset {
		result, err := pool.Exec(ctx, `DELETE FROM stipendia.cases WHERE applicant_name LIKE '[seed] %'`)
		if err != nil {
			return fmt.Errorf("failed to reset seeded fake cases: %w", err)
		}
		fmt.Printf("Reset seeded fake cases: %d deleted\n", result.RowsAffected())
	}

	sponsorIDs := seedSponsorIDs()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	summary := seedSummary{}

	for i := 0; i < count; i++ {
		status := pickWeightedStatus(rng)
		name := fakeApplicantNames[rng.Intn(len(fakeApplicantNames))]
		applicantID := utils.NanoID()
		contact := fmt.Sprintf("%s.%d@students.example.org",
			strings.ToLower(strings.ReplaceAll(name, " ", ".")), rng.Intn(1000))

		c := &types.Case{
			ID:               utils.NanoID(),
			ApplicantID:      applicantID,
			ApplicantContact: contact,
			ApplicantName:    fmt.Sprintf("[seed] %s", name),
			School:           fakeSchools[rng.Intn(len(fakeSchools))],
			Program:          fakePrograms[rng.Intn(len(fakePrograms))],
			DocumentKeys:     []string{fmt.Sprintf("evidence/%032x", rng.Uint64())},
			Status:           status,
			CreatedAt:        now.Add(-time.Duration(rng.Intn(30*24)) * time.Hour),
			UpdatedAt:        now,
		}

		if status.Terminal() {
			c.ReviewedBy = utils.StringPtr(sponsorIDs[0])
			c.ReviewedAt = utils.TimePtr(now.Add(-time.Duration(rng.Intn(7*24)) * time.Hour))
		}
		if status == types.CaseStatusRejected {
			c.RejectReason = utils.StringPtr("Enrollment documents could not be verified")
		}

		if err := caseRepo.Create(ctx, c); err != nil {
			return fmt.Errorf("failed to create fake case %d: %w", i+1, err)
		}
		summary.Cases++

		if status != types.CaseStatusAccepted {
			continue
		}

		rec := &types.AssignmentRecord{
			ID:               utils.NanoID(),
			SponsorID:        sponsorIDs[rng.Intn(len(sponsorIDs))],
			ApplicantID:      applicantID,
			ApplicantContact: contact,
			CreatedAt:        now,
		}
		if err := sponsorRepo.AppendAssignment(ctx, rec); err != nil {
			return fmt.Errorf("failed to assign fake applicant %s: %w", applicantID, err)
		}
		summary.Assignments++

		feeCount := rng.Intn(3) + 1
		for j := 0; j < feeCount; j++ {
			entry := &types.FeeEntry{
				ID:               utils.NanoID(),
				ApplicantContact: contact,
				InvoiceRef:       fmt.Sprintf("INV-%04d-%02d", rng.Intn(10000), j+1),
				DisclosedOn:      now.Add(-time.Duration(rng.Intn(14*24)) * time.Hour),
				DueDate:          utils.TimePtr(now.Add(time.Duration(rng.Intn(30*24)) * time.Hour)),
				ReceiptKey:       fmt.Sprintf("evidence/%032x", rng.Uint64()),
				Status:           types.FeeStatusPending,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if rng.Intn(100) < 25 {
				entry.Status = types.FeeStatusAccepted
			}
			if err := feeRepo.Create(ctx, entry); err != nil {
				return fmt.Errorf("failed to create fake fee entry for %s: %w", contact, err)
			}
			summary.FeeEntries++
		}
	}

	pp.Println(summary)

	return nil
}
