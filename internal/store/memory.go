package store

import (
	"context"
	"sync"
	"time"

	"stipendia/pkg/types"
)

// In-memory implementations of the workflow store interfaces, used by
// the unit tests and by `serve` when no database is configured. Slices
// preserve insertion order; every transition check happens under the
// store lock so the compare-and-set semantics match the SQL guards.

type MemoryCaseStore struct {
	mu    sync.RWMutex
	cases []*types.Case
}

func NewMemoryCaseStore() *MemoryCaseStore {
	return &MemoryCaseStore{}
}

func (s *MemoryCaseStore) Create(_ context.Context, c *types.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *c
	s.cases = append(s.cases, &clone)
	return nil
}

func (s *MemoryCaseStore) Get(_ context.Context, caseID string) (*types.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.cases {
		if c.ID == caseID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, types.ErrCaseNotFound
}

func (s *MemoryCaseStore) ListByStatus(_ context.Context, status types.CaseStatus) ([]*types.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Case, 0)
	for _, c := range s.cases {
		if c.Status == status {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *MemoryCaseStore) ActiveByApplicant(_ context.Context, applicantID string) (*types.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.cases) - 1; i >= 0; i-- {
		c := s.cases[i]
		if c.ApplicantID == applicantID && c.Status != types.CaseStatusRejected {
			clone := *c
			return &clone, nil
		}
	}
	return nil, types.ErrCaseNotFound
}

func (s *MemoryCaseStore) LatestByContact(_ context.Context, applicantContact string) (*types.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.cases) - 1; i >= 0; i-- {
		if s.cases[i].ApplicantContact == applicantContact {
			clone := *s.cases[i]
			return &clone, nil
		}
	}
	return nil, types.ErrCaseNotFound
}

func (s *MemoryCaseStore) Transition(_ context.Context, caseID string, from, to types.CaseStatus, reviewerID string, reason *string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.cases {
		if c.ID != caseID {
			continue
		}
		if c.Status != from {
			return types.ErrStatusChanged
		}
		c.Status = to
		c.ReviewedBy = &reviewerID
		c.ReviewedAt = &at
		c.RejectReason = reason
		c.UpdatedAt = at
		return nil
	}
	return types.ErrCaseNotFound
}

type MemorySponsorStore struct {
	mu          sync.RWMutex
	sponsors    []*types.Sponsor
	assignments []*types.AssignmentRecord
}

func NewMemorySponsorStore() *MemorySponsorStore {
	return &MemorySponsorStore{}
}

func (s *MemorySponsorStore) Create(_ context.Context, sponsor *types.Sponsor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *sponsor
	s.sponsors = append(s.sponsors, &clone)
	return nil
}

func (s *MemorySponsorStore) Get(_ context.Context, sponsorID string) (*types.Sponsor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sponsor := range s.sponsors {
		if sponsor.ID == sponsorID {
			clone := *sponsor
			return &clone, nil
		}
	}
	return nil, types.ErrSponsorNotFound
}

func (s *MemorySponsorStore) AppendAssignment(_ context.Context, rec *types.AssignmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.assignments {
		if existing.SponsorID == rec.SponsorID && existing.ApplicantID == rec.ApplicantID {
			return types.ErrDuplicateAssignment
		}
	}

	clone := *rec
	s.assignments = append(s.assignments, &clone)
	return nil
}

func (s *MemorySponsorStore) AssignmentsBySponsor(_ context.Context, sponsorID string) ([]*types.AssignmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.AssignmentRecord, 0)
	for _, rec := range s.assignments {
		if rec.SponsorID == sponsorID {
			clone := *rec
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *MemorySponsorStore) Assignment(_ context.Context, sponsorID, applicantID string) (*types.AssignmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.assignments {
		if rec.SponsorID == sponsorID && rec.ApplicantID == applicantID {
			clone := *rec
			return &clone, nil
		}
	}
	return nil, types.ErrAssignmentNotFound
}

type MemoryFeeStore struct {
	mu      sync.RWMutex
	entries []*types.FeeEntry
}

func NewMemoryFeeStore() *MemoryFeeStore {
	return &MemoryFeeStore{}
}

func (s *MemoryFeeStore) Create(_ context.Context, entry *types.FeeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *entry
	s.entries = append(s.entries, &clone)
	return nil
}

func (s *MemoryFeeStore) Get(_ context.Context, entryID string) (*types.FeeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.find(entryID)
}

func (s *MemoryFeeStore) find(entryID string) (*types.FeeEntry, error) {
	for _, entry := range s.entries {
		if entry.ID == entryID {
			clone := *entry
			return &clone, nil
		}
	}
	return nil, types.ErrFeeEntryNotFound
}

func (s *MemoryFeeStore) Update(_ context.Context, entry *types.FeeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.entries {
		if existing.ID == entry.ID {
			clone := *entry
			s.entries[i] = &clone
			return nil
		}
	}
	return types.ErrFeeEntryNotFound
}

func (s *MemoryFeeStore) ListByApplicant(_ context.Context, applicantContact string) ([]*types.FeeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.FeeEntry, 0)
	for _, entry := range s.entries {
		if entry.ApplicantContact == applicantContact {
			clone := *entry
			out = append(out, &clone)
		}
	}
	return out, nil
}

// settle is used by the proof store's approve cascade. It takes the fee
// lock while the caller already holds the proof lock; lock order is
// always proof then fee.
func (s *MemoryFeeStore) settle(entryID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		if entry.ID == entryID {
			entry.Status = types.FeeStatusAccepted
			entry.UpdatedAt = at
			return nil
		}
	}
	return types.ErrFeeEntryNotFound
}

type MemoryProofStore struct {
	mu     sync.RWMutex
	proofs []*types.ProofSubmission
	fees   *MemoryFeeStore
}

// NewMemoryProofStore needs the fee store so approval can settle the
// linked entry under the proof lock, mirroring the SQL transaction.
func NewMemoryProofStore(fees *MemoryFeeStore) *MemoryProofStore {
	return &MemoryProofStore{fees: fees}
}

func (s *MemoryProofStore) Create(_ context.Context, p *types.ProofSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *p
	s.proofs = append(s.proofs, &clone)
	return nil
}

func (s *MemoryProofStore) Get(_ context.Context, proofID string) (*types.ProofSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.proofs {
		if p.ID == proofID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, types.ErrProofNotFound
}

func (s *MemoryProofStore) ListPending(_ context.Context) ([]*types.ProofSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.ProofSubmission, 0)
	for _, p := range s.proofs {
		if p.Status == types.ProofStatusPendingApproval {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *MemoryProofStore) ApproveAndSettle(_ context.Context, proofID, feeEntryID, reviewerID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.proofs {
		if p.ID != proofID {
			continue
		}
		if p.Status != types.ProofStatusPendingApproval {
			return types.ErrStatusChanged
		}

		if err := s.fees.settle(feeEntryID, at); err != nil {
			return err
		}

		p.Status = types.ProofStatusApproved
		p.ReviewedBy = &reviewerID
		p.ReviewedAt = &at
		return nil
	}
	return types.ErrProofNotFound
}

func (s *MemoryProofStore) Reject(_ context.Context, proofID, reviewerID, reason string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.proofs {
		if p.ID != proofID {
			continue
		}
		if p.Status != types.ProofStatusPendingApproval {
			return types.ErrStatusChanged
		}
		p.Status = types.ProofStatusRejected
		p.RejectReason = &reason
		p.ReviewedBy = &reviewerID
		p.ReviewedAt = &at
		return nil
	}
	return types.ErrProofNotFound
}

type MemoryNotificationStore struct {
	mu            sync.RWMutex
	notifications []*types.Notification
}

func NewMemoryNotificationStore() *MemoryNotificationStore {
	return &MemoryNotificationStore{}
}

func (s *MemoryNotificationStore) Create(_ context.Context, n *types.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *n
	s.notifications = append(s.notifications, &clone)
	return nil
}

func (s *MemoryNotificationStore) MarkViewed(_ context.Context, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		if n.ID == notificationID {
			n.Viewed = true
			return nil
		}
	}
	return types.ErrNotificationNotFound
}

func (s *MemoryNotificationStore) ListUnread(_ context.Context, recipientContact string) ([]*types.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Notification, 0)
	for _, n := range s.notifications {
		if n.RecipientContact == recipientContact && !n.Viewed {
			clone := *n
			out = append(out, &clone)
		}
	}
	return out, nil
}
