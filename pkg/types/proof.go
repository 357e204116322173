package types

import "time"

type ProofStatus string

const (
	ProofStatusPendingApproval ProofStatus = "PENDING_APPROVAL"
	ProofStatusApproved        ProofStatus = "APPROVED"
	ProofStatusRejected        ProofStatus = "REJECTED"
)

// ProofSubmission is sponsor-submitted evidence that a fee entry was
// paid. PENDING_APPROVAL -> APPROVED settles the linked fee entry in the
// same transaction; PENDING_APPROVAL -> REJECTED records a reason and
// leaves the fee entry untouched. Both outcomes are terminal.
type ProofSubmission struct {
	ID           string      `db:"id"`
	SponsorID    string      `db:"sponsor_id"`
	ApplicantID  string      `db:"applicant_id"`
	FeeEntryID   string      `db:"fee_entry_id"`
	EvidenceKey  string      `db:"evidence_key"`
	Title        string      `db:"title"`
	Description  string      `db:"description"`
	Status       ProofStatus `db:"status"`
	RejectReason *string     `db:"reject_reason"`
	ReviewedBy   *string     `db:"reviewed_by"`
	ReviewedAt   *time.Time  `db:"reviewed_at"`
	CreatedAt    time.Time   `db:"created_at"`
}
