package workflow

import (
	"context"
	"time"

	"stipendia/pkg/types"
)

// Store interfaces are declared on the consumer side so the services run
// identically over the postgres repositories and the in-memory stores.
// Implementations return the pkg/types sentinels; services translate
// them into the caller-facing error taxonomy.

type CaseStore interface {
	Create(ctx context.Context, c *types.Case) error
	Get(ctx context.Context, caseID string) (*types.Case, error)
	ListByStatus(ctx context.Context, status types.CaseStatus) ([]*types.Case, error)
	// ActiveByApplicant returns the applicant's pending or accepted case,
	// or ErrCaseNotFound when none exists.
	ActiveByApplicant(ctx context.Context, applicantID string) (*types.Case, error)
	// LatestByContact returns the newest case for an applicant contact.
	LatestByContact(ctx context.Context, applicantContact string) (*types.Case, error)
	// Transition applies a compare-and-set status change: it fails with
	// ErrStatusChanged when the row is no longer in the from status, and
	// ErrCaseNotFound when the id does not resolve.
	Transition(ctx context.Context, caseID string, from, to types.CaseStatus, reviewerID string, reason *string, at time.Time) error
}

type SponsorStore interface {
	Create(ctx context.Context, s *types.Sponsor) error
	Get(ctx context.Context, sponsorID string) (*types.Sponsor, error)
	// AppendAssignment inserts the record, or returns
	// ErrDuplicateAssignment when the sponsor/applicant pair exists.
	AppendAssignment(ctx context.Context, rec *types.AssignmentRecord) error
	AssignmentsBySponsor(ctx context.Context, sponsorID string) ([]*types.AssignmentRecord, error)
	Assignment(ctx context.Context, sponsorID, applicantID string) (*types.AssignmentRecord, error)
}

type FeeStore interface {
	Create(ctx context.Context, entry *types.FeeEntry) error
	Get(ctx context.Context, entryID string) (*types.FeeEntry, error)
	Update(ctx context.Context, entry *types.FeeEntry) error
	ListByApplicant(ctx context.Context, applicantContact string) ([]*types.FeeEntry, error)
}

type ProofStore interface {
	Create(ctx context.Context, p *types.ProofSubmission) error
	Get(ctx context.Context, proofID string) (*types.ProofSubmission, error)
	ListPending(ctx context.Context) ([]*types.ProofSubmission, error)
	// ApproveAndSettle flips the proof to APPROVED and the linked fee
	// entry to ACCEPTED in one transaction, guarded on the proof still
	// being PENDING_APPROVAL. Partial application is not permitted.
	ApproveAndSettle(ctx context.Context, proofID, feeEntryID, reviewerID string, at time.Time) error
	// Reject flips the proof to REJECTED with a reason, guarded the same
	// way. The fee entry is untouched.
	Reject(ctx context.Context, proofID, reviewerID, reason string, at time.Time) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *types.Notification) error
	// MarkViewed is idempotent; marking an already-viewed notification is
	// a no-op.
	MarkViewed(ctx context.Context, notificationID string) error
	ListUnread(ctx context.Context, recipientContact string) ([]*types.Notification, error)
}
