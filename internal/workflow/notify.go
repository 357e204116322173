package workflow

import (
	"context"
	"errors"
	"time"

	"stipendia/internal/metrics"
	"stipendia/internal/utils"
	"stipendia/pkg/types"

	"github.com/sirupsen/logrus"
)

// Dispatcher appends inbox notifications for workflow recipients.
// Dispatch is best-effort bookkeeping: a failed append never fails the
// transition that triggered it.
type Dispatcher struct {
	logger  *logrus.Logger
	store   NotificationStore
	metrics *metrics.Metrics
}

func NewDispatcher(logger *logrus.Logger, store NotificationStore, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		logger:  logger,
		store:   store,
		metrics: m,
	}
}

func (d *Dispatcher) Notify(ctx context.Context, recipientContact, message string, link *string) (*types.Notification, error) {
	notification := &types.Notification{
		ID:               utils.NanoID(),
		RecipientContact: recipientContact,
		Message:          message,
		Link:             link,
		Viewed:           false,
		CreatedAt:        time.Now(),
	}

	if err := d.store.Create(ctx, notification); err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to append notification")
	}

	d.metrics.NotificationsSent.Inc()

	return notification, nil
}

// dispatch is the fire-and-forget path used by the other services after
// a transition commits. Failures are logged and counted, never returned.
func (d *Dispatcher) dispatch(ctx context.Context, recipientContact, message string, link *string) {
	if _, err := d.Notify(ctx, recipientContact, message, link); err != nil {
		d.metrics.NotificationsDropped.Inc()
		d.logger.WithError(err).WithFields(logrus.Fields{
			"recipient": recipientContact,
			"message":   message,
		}).Warn("dropped notification")
	}
}

func (d *Dispatcher) MarkViewed(ctx context.Context, notificationID string) error {
	err := d.store.MarkViewed(ctx, notificationID)
	if errors.Is(err, types.ErrNotificationNotFound) {
		return &types.NotFoundError{Entity: "notification", ID: notificationID}
	}

	return utils.ErrorWrapOrNil(err, "failed to mark notification viewed")
}

func (d *Dispatcher) ListUnread(ctx context.Context, recipientContact string) ([]*types.Notification, error) {
	unread, err := d.store.ListUnread(ctx, recipientContact)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to list unread notifications")
	}

	return unread, nil
}
