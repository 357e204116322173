package workflow

import (
	"context"
	"errors"
	"testing"

	"stipendia/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// proofFixture wires the full path a proof submission depends on: an
// accepted case, a sponsor assignment, and a pending fee entry.
type proofFixture struct {
	sponsor *types.Sponsor
	entry   *types.FeeEntry
}

func newProofFixture(t *testing.T, env *testEnv) *proofFixture {
	t.Helper()

	sponsor := env.createSponsor(t, testSponsor, "Harbor Light Foundation")
	env.acceptedCase(t, testStudent)

	_, err := env.assignments.Assign(context.Background(), testReviewer, sponsor.ID, testStudent.Contact)
	require.NoError(t, err)

	return &proofFixture{
		sponsor: sponsor,
		entry:   env.addFee(t, testStudent),
	}
}

func (f *proofFixture) submitInput() SubmitProofInput {
	return SubmitProofInput{
		SponsorID:   f.sponsor.ID,
		ApplicantID: testStudent.ID,
		FeeEntryID:  f.entry.ID,
		EvidenceKey: "evidence/wire-transfer-march",
		Title:       "March tuition payment",
		Description: "Bank transfer receipt",
	}
}

func TestSubmitProof(t *testing.T) {
	env := newTestEnv(t)
	f := newProofFixture(t, env)

	proof, err := env.proofs.Submit(context.Background(), testSponsor, f.submitInput())
	require.NoError(t, err)

	assert.Equal(t, types.ProofStatusPendingApproval, proof.Status)
	assert.Equal(t, f.sponsor.ID, proof.SponsorID)
	assert.Equal(t, f.entry.ID, proof.FeeEntryID)
	assert.Equal(t, "March tuition payment", proof.Title)
	assert.Nil(t, proof.ReviewedBy)
}

func TestSubmitProofSponsorIdentityIsServerSide(t *testing.T) {
	env := newTestEnv(t)
	f := newProofFixture(t, env)

	// a sponsor cannot submit on behalf of another sponsor; the acting
	// sponsor's id wins over whatever the payload says
	input := f.submitInput()
	input.SponsorID = "some-other-sponsor"

	proof, err := env.proofs.Submit(context.Background(), testSponsor, input)
	require.NoError(t, err)
	assert.Equal(t, testSponsor.ID, proof.SponsorID)
}

func TestSubmitProofMissingFields(t *testing.T) {
	env := newTestEnv(t)
	newProofFixture(t, env)

	_, err := env.proofs.Submit(context.Background(), testReviewer, SubmitProofInput{})
	require.Error(t, err)

	var verr *types.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{"sponsor_id", "applicant_id", "fee_entry_id", "evidence_key", "title"}, verr.Fields)
}

func TestSubmitProofWithoutAssignment(t *testing.T) {
	env := newTestEnv(t)
	f := newProofFixture(t, env)

	input := f.submitInput()
	input.ApplicantID = "unassigned-student"

	_, err := env.proofs.Submit(context.Background(), testSponsor, input)
	assert.True(t, types.IsValidation(err))
}

func TestSubmitProofFeeBelongsToOtherApplicant(t *testing.T) {
	env := newTestEnv(t)
	f := newProofFixture(t, env)

	other := types.Actor{ID: "student-2", Contact: "student2@example.org", Role: types.RoleApplicant}
	otherEntry := env.addFee(t, other)

	input := f.submitInput()
	input.FeeEntryID = otherEntry.ID

	_, err := env.proofs.Submit(context.Background(), testSponsor, input)
	assert.True(t, types.IsPrecondition(err))
}

func TestSubmitProofForSettledFee(t *testing.T) {
	env := newTestEnv(t)
	f := newProofFixture(t, env)

	accepted := types.FeeStatusAccepted
	_, err := env.fees.Update(context.Background(), testReviewer, f.entry.ID, UpdateFeeInput{Status: &accepted})
	require.NoError(t, err)

	_, err = env.proofs.Submit(context.Background(), testSponsor, f.submitInput())
	assert.True(t, types.IsPrecondition(err))
}

func TestApproveProofSettlesFee(t *testing.T) {
	env := newTestEnv(t)
	f := newProofFixture(t, env)

	proof, err := env.proofs.Submit(context.Background(), testSponsor, f.submitInput())
	require.NoError(t, err)

	approved, err := env.proofs.Approve(context.Background(), testReviewer, proof.ID)
	require.NoError(t, err)

	assert.Equal(t, types.ProofStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, testReviewer.ID, *approved.ReviewedBy)

	entry, err := env.feeStore.Get(context.Background(), f.entry.ID)
	require.NoError(t, err)
	assert.Equal(t, types.FeeStatusAccepted, entry.Status)

	sponsorInbox, err := env.dispatcher.ListUnread(context.Background(), f.sponsor.Contact)
	require.NoError(t, err)
	var found bool
	for _, n := range sponsorInbox {
		if n.Message == `Your payment proof "March tuition payment" was approved` {
			found = true
		}
	}
	assert.True(t, found, "sponsor should be notified of the approval")
}

func TestApproveProofTwice(t *testing.T) {
	env := newTestEnv(t)
	f := newProofFixture(t, env)

	proof, err := env.proofs.Submit(context.Background(), testSponsor, f.submitInput())
	require.NoError(t, err)

	_, err = env.proofs.Approve(context.Background(), testReviewer, proof.ID)
	require.NoError(t, err)

	_, err = env.proofs.Approve(context.Background(), testReviewer, proof.ID)
	require.Error(t, err)

	var terr *types.InvalidTransitionError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, string(types.ProofStatusApproved), terr.Status)
}

func TestApproveProofRequiresReviewer(t *testing.T) {
	env := newTestEnv(t)
	f := newProofFixture(t, env)

	proof, err := env.proofs.Submit(context.Background(), testSponsor, f.submitInput())
	require.NoError(t, err)

	_, err = env.proofs.Approve(context.Background(), testSponsor, proof.ID)
	assert.True(t, types.IsAuthorization(err))

	_, err = env.proofs.Reject(context.Background(), testSponsor, proof.ID, "not valid")
	assert.True(t, types.IsAuthorization(err))
}

func TestApproveProofNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.proofs.Approve(context.Background(), testReviewer, "missing")
	assert.True(t, types.IsNotFound(err))
}

func TestRejectProofLeavesFeeUntouched(t *testing.T) {
	env := newTestEnv(t)
	f := newProofFixture(t, env)

	proof, err := env.proofs.Submit(context.Background(), testSponsor, f.submitInput())
	require.NoError(t, err)

	rejected, err := env.proofs.Reject(context.Background(), testReviewer, proof.ID, "receipt is illegible")
	require.NoError(t, err)

	assert.Equal(t, types.ProofStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectReason)
	assert.Equal(t, "receipt is illegible", *rejected.RejectReason)

	entry, err := env.feeStore.Get(context.Background(), f.entry.ID)
	require.NoError(t, err)
	assert.Equal(t, types.FeeStatusPending, entry.Status)

	// rejection is terminal, a later approval attempt must fail
	_, err = env.proofs.Approve(context.Background(), testReviewer, proof.ID)
	assert.True(t, types.IsInvalidTransition(err))
}

func TestRejectProofRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	f := newProofFixture(t, env)

	proof, err := env.proofs.Submit(context.Background(), testSponsor, f.submitInput())
	require.NoError(t, err)

	_, err = env.proofs.Reject(context.Background(), testReviewer, proof.ID, "   ")
	assert.True(t, types.IsValidation(err))
}

func TestListPendingProofs(t *testing.T) {
	env := newTestEnv(t)
	f := newProofFixture(t, env)

	first, err := env.proofs.Submit(context.Background(), testSponsor, f.submitInput())
	require.NoError(t, err)

	secondEntry := env.addFee(t, testStudent)
	input := f.submitInput()
	input.FeeEntryID = secondEntry.ID
	second, err := env.proofs.Submit(context.Background(), testSponsor, input)
	require.NoError(t, err)

	_, err = env.proofs.Approve(context.Background(), testReviewer, first.ID)
	require.NoError(t, err)

	pending, err := env.proofs.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}
