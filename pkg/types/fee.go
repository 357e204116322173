package types

import "time"

type FeeStatus string

const (
	FeeStatusPending  FeeStatus = "PENDING"
	FeeStatusAccepted FeeStatus = "ACCEPTED"
	FeeStatusRejected FeeStatus = "REJECTED"
)

func (s FeeStatus) Valid() bool {
	switch s {
	case FeeStatusPending, FeeStatusAccepted, FeeStatusRejected:
		return true
	}
	return false
}

// FeeEntry is one recurring fee disclosure for an applicant. Status is
// settled either by an approved proof submission or directly by a
// reviewer correction.
type FeeEntry struct {
	ID               string     `db:"id"`
	ApplicantContact string     `db:"applicant_contact"`
	InvoiceRef       string     `db:"invoice_ref"`
	DisclosedOn      time.Time  `db:"disclosed_on"`
	DueDate          *time.Time `db:"due_date"`
	ReceiptKey       string     `db:"receipt_key"`
	Status           FeeStatus  `db:"status"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}
