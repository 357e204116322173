package workflow

import (
	"context"
	"testing"

	"stipendia/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignByReviewer(t *testing.T) {
	env := newTestEnv(t)

	sponsor := env.createSponsor(t, testSponsor, "Harbor Light Foundation")
	env.acceptedCase(t, testStudent)

	rec, err := env.assignments.Assign(context.Background(), testReviewer, sponsor.ID, testStudent.Contact)
	require.NoError(t, err)

	assert.Equal(t, sponsor.ID, rec.SponsorID)
	assert.Equal(t, testStudent.ID, rec.ApplicantID)
	assert.Equal(t, testStudent.Contact, rec.ApplicantContact)

	sponsorInbox, err := env.dispatcher.ListUnread(context.Background(), sponsor.Contact)
	require.NoError(t, err)
	require.Len(t, sponsorInbox, 1)
	assert.Contains(t, sponsorInbox[0].Message, testStudent.Contact)

	// the applicant already has the case decision notification plus the
	// assignment one
	applicantInbox, err := env.dispatcher.ListUnread(context.Background(), testStudent.Contact)
	require.NoError(t, err)
	require.Len(t, applicantInbox, 2)
	assert.Contains(t, applicantInbox[1].Message, sponsor.Name)
}

func TestAssignSponsorSelfOnly(t *testing.T) {
	env := newTestEnv(t)

	sponsor := env.createSponsor(t, testSponsor, "Harbor Light Foundation")
	env.acceptedCase(t, testStudent)

	_, err := env.assignments.Assign(context.Background(), testSponsor, sponsor.ID, testStudent.Contact)
	require.NoError(t, err)

	_, err = env.assignments.Assign(context.Background(), testSponsor, "some-other-sponsor", testStudent.Contact)
	assert.True(t, types.IsAuthorization(err))

	_, err = env.assignments.Assign(context.Background(), testStudent, sponsor.ID, testStudent.Contact)
	assert.True(t, types.IsAuthorization(err))
}

func TestAssignRequiresAcceptedCase(t *testing.T) {
	env := newTestEnv(t)

	sponsor := env.createSponsor(t, testSponsor, "Harbor Light Foundation")
	env.submitCase(t, testStudent)

	_, err := env.assignments.Assign(context.Background(), testReviewer, sponsor.ID, testStudent.Contact)
	assert.True(t, types.IsPrecondition(err))
}

func TestAssignDuplicatePair(t *testing.T) {
	env := newTestEnv(t)

	sponsor := env.createSponsor(t, testSponsor, "Harbor Light Foundation")
	env.acceptedCase(t, testStudent)

	_, err := env.assignments.Assign(context.Background(), testReviewer, sponsor.ID, testStudent.Contact)
	require.NoError(t, err)

	_, err = env.assignments.Assign(context.Background(), testReviewer, sponsor.ID, testStudent.Contact)
	assert.True(t, types.IsPrecondition(err))
}

func TestAssignSameApplicantToSecondSponsor(t *testing.T) {
	env := newTestEnv(t)

	first := env.createSponsor(t, testSponsor, "Harbor Light Foundation")
	secondActor := types.Actor{ID: "sponsor-2", Contact: "sponsor2@example.org", Role: types.RoleSponsor}
	second := env.createSponsor(t, secondActor, "Meridian Scholars Fund")
	env.acceptedCase(t, testStudent)

	_, err := env.assignments.Assign(context.Background(), testReviewer, first.ID, testStudent.Contact)
	require.NoError(t, err)

	rec, err := env.assignments.Assign(context.Background(), testReviewer, second.ID, testStudent.Contact)
	require.NoError(t, err)
	assert.Equal(t, second.ID, rec.SponsorID)
}

func TestAssignUnknownSponsor(t *testing.T) {
	env := newTestEnv(t)

	env.acceptedCase(t, testStudent)

	_, err := env.assignments.Assign(context.Background(), testReviewer, "missing", testStudent.Contact)
	assert.True(t, types.IsNotFound(err))
}

func TestAssignApplicantWithoutCase(t *testing.T) {
	env := newTestEnv(t)

	sponsor := env.createSponsor(t, testSponsor, "Harbor Light Foundation")

	_, err := env.assignments.Assign(context.Background(), testReviewer, sponsor.ID, "nobody@example.org")
	assert.True(t, types.IsNotFound(err))
}

func TestListAssigned(t *testing.T) {
	env := newTestEnv(t)

	sponsor := env.createSponsor(t, testSponsor, "Harbor Light Foundation")
	c := env.acceptedCase(t, testStudent)

	_, err := env.assignments.Assign(context.Background(), testReviewer, sponsor.ID, testStudent.Contact)
	require.NoError(t, err)

	entry := env.addFee(t, testStudent)

	assigned, err := env.assignments.ListAssigned(context.Background(), sponsor.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)

	view := assigned[0]
	require.NotNil(t, view.Case)
	assert.Equal(t, c.ID, view.Case.ID)
	require.Len(t, view.FeeEntries, 1)
	assert.Equal(t, entry.ID, view.FeeEntries[0].ID)
}

func TestListAssignedUnknownSponsor(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.assignments.ListAssigned(context.Background(), "missing")
	assert.True(t, types.IsNotFound(err))
}
