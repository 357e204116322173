package workflow

import (
	"context"
	"io"
	"testing"
	"time"

	"stipendia/internal/metrics"
	"stipendia/internal/store"
	"stipendia/internal/utils"
	"stipendia/pkg/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	cases       *CaseService
	assignments *AssignmentService
	fees        *FeeService
	proofs      *ProofService
	dispatcher  *Dispatcher

	caseStore         *store.MemoryCaseStore
	sponsorStore      *store.MemorySponsorStore
	feeStore          *store.MemoryFeeStore
	proofStore        *store.MemoryProofStore
	notificationStore *store.MemoryNotificationStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	m := metrics.New(prometheus.NewRegistry())

	feeStore := store.NewMemoryFeeStore()
	env := &testEnv{
		caseStore:         store.NewMemoryCaseStore(),
		sponsorStore:      store.NewMemorySponsorStore(),
		feeStore:          feeStore,
		proofStore:        store.NewMemoryProofStore(feeStore),
		notificationStore: store.NewMemoryNotificationStore(),
	}

	env.dispatcher = NewDispatcher(logger, env.notificationStore, m)
	env.cases = NewCaseService(logger, env.caseStore, env.dispatcher, m)
	env.assignments = NewAssignmentService(logger, env.sponsorStore, env.caseStore, env.feeStore, env.dispatcher, m)
	env.fees = NewFeeService(logger, env.feeStore, env.dispatcher, m)
	env.proofs = NewProofService(logger, env.proofStore, env.feeStore, env.sponsorStore, env.dispatcher, m)

	return env
}

var (
	testReviewer = types.Actor{ID: "reviewer-1", Contact: "reviewer@example.org", Role: types.RoleReviewer}
	testSponsor  = types.Actor{ID: "sponsor-1", Contact: "sponsor@example.org", Role: types.RoleSponsor}
	testStudent  = types.Actor{ID: "student-1", Contact: "student@example.org", Role: types.RoleApplicant}
)

func (env *testEnv) createSponsor(t *testing.T, actor types.Actor, name string) *types.Sponsor {
	t.Helper()

	sponsor := &types.Sponsor{
		ID:        actor.ID,
		Name:      name,
		Contact:   actor.Contact,
		CreatedAt: time.Now(),
	}
	require.NoError(t, env.sponsorStore.Create(context.Background(), sponsor))
	return sponsor
}

func (env *testEnv) submitCase(t *testing.T, applicant types.Actor) *types.Case {
	t.Helper()

	c, err := env.cases.Submit(context.Background(), applicant, SubmitCaseInput{
		ApplicantName: "Test Applicant",
		School:        "Northgate University",
		Program:       "Nursing",
		DocumentKeys:  []string{"evidence/abc123"},
	})
	require.NoError(t, err)
	return c
}

func (env *testEnv) acceptedCase(t *testing.T, applicant types.Actor) *types.Case {
	t.Helper()

	c := env.submitCase(t, applicant)
	reviewed, err := env.cases.Review(context.Background(), testReviewer, c.ID, types.CaseStatusAccepted, "")
	require.NoError(t, err)
	return reviewed
}

func (env *testEnv) addFee(t *testing.T, applicant types.Actor) *types.FeeEntry {
	t.Helper()

	entry, err := env.fees.Add(context.Background(), applicant, AddFeeInput{
		InvoiceRef: "INV-" + utils.NanoID()[:8],
		ReceiptKey: "evidence/receipt-1",
	})
	require.NoError(t, err)
	return entry
}
