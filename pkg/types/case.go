package types

import "time"

type CaseStatus string

const (
	CaseStatusPending  CaseStatus = "PENDING"
	CaseStatusAccepted CaseStatus = "ACCEPTED"
	CaseStatusRejected CaseStatus = "REJECTED"
)

func (s CaseStatus) Valid() bool {
	switch s {
	case CaseStatusPending, CaseStatusAccepted, CaseStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further review transition applies.
func (s CaseStatus) Terminal() bool {
	return s == CaseStatusAccepted || s == CaseStatusRejected
}

// Case is an applicant's scholarship application record. Status moves
// PENDING -> ACCEPTED | REJECTED exactly once; the record itself is never
// deleted.
type Case struct {
	ID               string     `db:"id"`
	ApplicantID      string     `db:"applicant_id"`
	ApplicantContact string     `db:"applicant_contact"`
	ApplicantName    string     `db:"applicant_name"`
	School           string     `db:"school"`
	Program          string     `db:"program"`
	DocumentKeys     []string   `db:"document_keys"` // text[] of storage keys
	Status           CaseStatus `db:"status"`
	RejectReason     *string    `db:"reject_reason"`
	ReviewedBy       *string    `db:"reviewed_by"`
	ReviewedAt       *time.Time `db:"reviewed_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}
