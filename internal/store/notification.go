package store

import (
	"context"
	"fmt"

	"stipendia/internal/utils"
	"stipendia/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notificationTableName = "stipendia.notifications"

var notificationColumns = utils.StructTagValues(types.Notification{})

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *types.Notification) error {

	notificationMap := utils.StructToMap(n)

	query, args, err := psql().Insert(notificationTableName).SetMap(notificationMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert notification query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create notification")

}

// MarkViewed sets viewed=true; repeating the call on an already-viewed
// notification matches the row again and stays a no-op.
func (r *NotificationRepository) MarkViewed(ctx context.Context, notificationID string) error {

	query, args, err := psql().Update(notificationTableName).
		Set("viewed", true).
		Where(sq.Eq{"id": notificationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate mark viewed query for notification %s: %w", notificationID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return utils.ErrorWrapOrNil(err, "failed to mark notification viewed")
	}

	if tag.RowsAffected() == 0 {
		return types.ErrNotificationNotFound
	}

	return nil
}

func (r *NotificationRepository) ListUnread(ctx context.Context, recipientContact string) ([]*types.Notification, error) {

	query, args, err := psql().Select(notificationColumns...).From(notificationTableName).
		Where(sq.Eq{"recipient_contact": recipientContact, "viewed": false}).
		OrderBy("created_at asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate unread notifications query: %w", err)
	}

	var notifications = make([]*types.Notification, 0)
	err = pgxscan.Select(ctx, r.pool, &notifications, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to list unread notifications")
	}

	return notifications, nil
}
