package workflow

import (
	"context"
	"errors"
	"io"
	"testing"

	"stipendia/internal/metrics"
	"stipendia/pkg/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyAndListUnread(t *testing.T) {
	env := newTestEnv(t)

	link := "/cases/abc"
	n, err := env.dispatcher.Notify(context.Background(), testStudent.Contact, "Your scholarship application was accepted", &link)
	require.NoError(t, err)
	assert.False(t, n.Viewed)

	_, err = env.dispatcher.Notify(context.Background(), "other@example.org", "unrelated", nil)
	require.NoError(t, err)

	unread, err := env.dispatcher.ListUnread(context.Background(), testStudent.Contact)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, n.ID, unread[0].ID)
}

func TestMarkViewed(t *testing.T) {
	env := newTestEnv(t)

	n, err := env.dispatcher.Notify(context.Background(), testStudent.Contact, "hello", nil)
	require.NoError(t, err)

	require.NoError(t, env.dispatcher.MarkViewed(context.Background(), n.ID))

	unread, err := env.dispatcher.ListUnread(context.Background(), testStudent.Contact)
	require.NoError(t, err)
	assert.Empty(t, unread)

	// marking again is a no-op, not an error
	require.NoError(t, env.dispatcher.MarkViewed(context.Background(), n.ID))
}

func TestMarkViewedUnknown(t *testing.T) {
	env := newTestEnv(t)

	err := env.dispatcher.MarkViewed(context.Background(), "missing")
	assert.True(t, types.IsNotFound(err))
}

// failingNotificationStore rejects every append so tests can exercise
// the best-effort dispatch path.
type failingNotificationStore struct{}

func (failingNotificationStore) Create(context.Context, *types.Notification) error {
	return errors.New("inbox unavailable")
}

func (failingNotificationStore) MarkViewed(context.Context, string) error {
	return errors.New("inbox unavailable")
}

func (failingNotificationStore) ListUnread(context.Context, string) ([]*types.Notification, error) {
	return nil, errors.New("inbox unavailable")
}

func TestReviewSucceedsWhenNotificationFails(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env := newTestEnv(t)
	m := metrics.New(prometheus.NewRegistry())

	// swap in a dispatcher whose store always fails
	broken := NewDispatcher(logger, failingNotificationStore{}, m)
	cases := NewCaseService(logger, env.caseStore, broken, m)

	c, err := cases.Submit(context.Background(), testStudent, SubmitCaseInput{
		ApplicantName: "Amara Okafor",
		School:        "Northgate University",
		Program:       "Nursing",
	})
	require.NoError(t, err)

	reviewed, err := cases.Review(context.Background(), testReviewer, c.ID, types.CaseStatusAccepted, "")
	require.NoError(t, err)
	assert.Equal(t, types.CaseStatusAccepted, reviewed.Status)
}
