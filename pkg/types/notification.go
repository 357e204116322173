package types

import "time"

// Notification is an async inbox message pushed to a recipient as a side
// effect of a workflow transition. Viewed only ever flips false -> true.
type Notification struct {
	ID               string    `db:"id"`
	RecipientContact string    `db:"recipient_contact"`
	Message          string    `db:"message"`
	Link             *string   `db:"link"`
	Viewed           bool      `db:"viewed"`
	CreatedAt        time.Time `db:"created_at"`
}
