package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stipendia/internal/metrics"
	"stipendia/internal/utils"
	"stipendia/pkg/types"

	"github.com/sirupsen/logrus"
)

// AssignmentService binds sponsors to applicants whose cases have been
// accepted.
type AssignmentService struct {
	logger     *logrus.Logger
	sponsors   SponsorStore
	cases      CaseStore
	fees       FeeStore
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
}

func NewAssignmentService(
	logger *logrus.Logger,
	sponsors SponsorStore,
	cases CaseStore,
	fees FeeStore,
	dispatcher *Dispatcher,
	m *metrics.Metrics,
) *AssignmentService {
	return &AssignmentService{
		logger:     logger,
		sponsors:   sponsors,
		cases:      cases,
		fees:       fees,
		dispatcher: dispatcher,
		metrics:    m,
	}
}

// Assign appends the applicant to the sponsor's list. The applicant's
// current case must be accepted. One applicant may be assigned to
// several sponsors (shared sponsorship is the observed product
// behavior); only the exact same sponsor/applicant pair is rejected.
// Sponsors may assign to themselves, reviewers to anyone.
func (s *AssignmentService) Assign(ctx context.Context, actor types.Actor, sponsorID, applicantContact string) (*types.AssignmentRecord, error) {
	switch actor.Role {
	case types.RoleReviewer:
	case types.RoleSponsor:
		if actor.ID != sponsorID {
			return nil, &types.AuthorizationError{Role: actor.Role, Op: "assign applicants to another sponsor"}
		}
	default:
		return nil, &types.AuthorizationError{Role: actor.Role, Op: "assign applicants"}
	}

	sponsor, err := s.sponsors.Get(ctx, sponsorID)
	if errors.Is(err, types.ErrSponsorNotFound) {
		return nil, &types.NotFoundError{Entity: "sponsor", ID: sponsorID}
	}
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch sponsor")
	}

	c, err := s.cases.LatestByContact(ctx, applicantContact)
	if errors.Is(err, types.ErrCaseNotFound) {
		return nil, &types.NotFoundError{Entity: "applicant case", ID: applicantContact}
	}
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch applicant case")
	}

	if c.Status != types.CaseStatusAccepted {
		return nil, &types.PreconditionError{
			Reason: fmt.Sprintf("applicant case is %s, not accepted", c.Status),
		}
	}

	rec := &types.AssignmentRecord{
		ID:               utils.NanoID(),
		SponsorID:        sponsor.ID,
		ApplicantID:      c.ApplicantID,
		ApplicantContact: applicantContact,
		CreatedAt:        time.Now(),
	}

	err = s.sponsors.AppendAssignment(ctx, rec)
	if errors.Is(err, types.ErrDuplicateAssignment) {
		return nil, &types.PreconditionError{Reason: "applicant is already assigned to this sponsor"}
	}
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to append assignment")
	}

	s.metrics.AssignmentsTotal.Inc()

	link := fmt.Sprintf("/sponsors/%s/assignments", sponsor.ID)
	s.dispatcher.dispatch(ctx, sponsor.Contact, fmt.Sprintf("You were assigned applicant %s", applicantContact), &link)
	s.dispatcher.dispatch(ctx, applicantContact, fmt.Sprintf("Sponsor %s will cover your fees", sponsor.Name), nil)

	return rec, nil
}

// ListAssigned returns the sponsor's assignments enriched with each
// applicant's current case and fee entries for display.
func (s *AssignmentService) ListAssigned(ctx context.Context, sponsorID string) ([]*types.AssignedApplicant, error) {
	if _, err := s.sponsors.Get(ctx, sponsorID); err != nil {
		if errors.Is(err, types.ErrSponsorNotFound) {
			return nil, &types.NotFoundError{Entity: "sponsor", ID: sponsorID}
		}
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch sponsor")
	}

	records, err := s.sponsors.AssignmentsBySponsor(ctx, sponsorID)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to list assignments")
	}

	assigned := make([]*types.AssignedApplicant, 0, len(records))
	for _, rec := range records {
		view := &types.AssignedApplicant{Assignment: *rec, FeeEntries: []*types.FeeEntry{}}

		c, err := s.cases.LatestByContact(ctx, rec.ApplicantContact)
		if err != nil && !errors.Is(err, types.ErrCaseNotFound) {
			return nil, utils.ErrorWrapOrNil(err, "failed to fetch applicant case")
		}
		view.Case = c

		entries, err := s.fees.ListByApplicant(ctx, rec.ApplicantContact)
		if err != nil {
			return nil, utils.ErrorWrapOrNil(err, "failed to list applicant fees")
		}
		view.FeeEntries = entries

		assigned = append(assigned, view)
	}

	return assigned, nil
}
