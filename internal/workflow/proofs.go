package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stipendia/internal/metrics"
	"stipendia/internal/utils"
	"stipendia/pkg/types"

	"github.com/sirupsen/logrus"
)

// ProofService runs the payment-proof queue: sponsor submissions and
// reviewer approve/reject decisions. Approval settles the linked fee
// entry in the same transaction so the two records never disagree.
type ProofService struct {
	logger     *logrus.Logger
	proofs     ProofStore
	fees       FeeStore
	sponsors   SponsorStore
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
}

func NewProofService(
	logger *logrus.Logger,
	proofs ProofStore,
	fees FeeStore,
	sponsors SponsorStore,
	dispatcher *Dispatcher,
	m *metrics.Metrics,
) *ProofService {
	return &ProofService{
		logger:     logger,
		proofs:     proofs,
		fees:       fees,
		sponsors:   sponsors,
		dispatcher: dispatcher,
		metrics:    m,
	}
}

type SubmitProofInput struct {
	SponsorID   string `form:"sponsor_id" json:"sponsorId"`
	ApplicantID string `form:"applicant_id" json:"applicantId"`
	FeeEntryID  string `form:"fee_entry_id" json:"feeEntryId"`
	EvidenceKey string `form:"evidence_key" json:"evidenceKey"`
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
}

// Submit queues payment evidence for review. The sponsor/applicant pair
// must resolve to an existing assignment and the fee entry must belong
// to that applicant and still be unsettled.
func (s *ProofService) Submit(ctx context.Context, actor types.Actor, input SubmitProofInput) (*types.ProofSubmission, error) {
	sponsorID := strings.TrimSpace(input.SponsorID)
	if actor.Role == types.RoleSponsor {
		sponsorID = actor.ID
	}

	var missing []string
	if sponsorID == "" {
		missing = append(missing, "sponsor_id")
	}
	if strings.TrimSpace(input.ApplicantID) == "" {
		missing = append(missing, "applicant_id")
	}
	if strings.TrimSpace(input.FeeEntryID) == "" {
		missing = append(missing, "fee_entry_id")
	}
	if strings.TrimSpace(input.EvidenceKey) == "" {
		missing = append(missing, "evidence_key")
	}
	if strings.TrimSpace(input.Title) == "" {
		missing = append(missing, "title")
	}
	if len(missing) > 0 {
		return nil, &types.ValidationError{Fields: missing}
	}

	if !validStorageKey(input.EvidenceKey) {
		return nil, &types.ValidationError{Fields: []string{"evidence_key"}}
	}

	rec, err := s.sponsors.Assignment(ctx, sponsorID, input.ApplicantID)
	if errors.Is(err, types.ErrAssignmentNotFound) {
		return nil, &types.ValidationError{Fields: []string{"sponsor_id", "applicant_id"}}
	}
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to resolve assignment")
	}

	entry, err := s.fees.Get(ctx, input.FeeEntryID)
	if errors.Is(err, types.ErrFeeEntryNotFound) {
		return nil, &types.NotFoundError{Entity: "fee entry", ID: input.FeeEntryID}
	}
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch fee entry")
	}

	if entry.ApplicantContact != rec.ApplicantContact {
		return nil, &types.PreconditionError{Reason: "fee entry does not belong to the assigned applicant"}
	}
	if entry.Status == types.FeeStatusAccepted {
		return nil, &types.PreconditionError{Reason: "fee entry is already settled"}
	}

	proof := &types.ProofSubmission{
		ID:          utils.NanoID(),
		SponsorID:   sponsorID,
		ApplicantID: input.ApplicantID,
		FeeEntryID:  entry.ID,
		EvidenceKey: input.EvidenceKey,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      types.ProofStatusPendingApproval,
		CreatedAt:   time.Now(),
	}

	if err := s.proofs.Create(ctx, proof); err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to create proof submission")
	}

	return proof, nil
}

// Approve settles the proof and its fee entry atomically, then notifies
// both parties. A second approval attempt fails on the status guard
// rather than producing duplicate notifications or fee acceptance.
func (s *ProofService) Approve(ctx context.Context, actor types.Actor, proofID string) (*types.ProofSubmission, error) {
	if !actor.IsReviewer() {
		return nil, &types.AuthorizationError{Role: actor.Role, Op: "approve proof submissions"}
	}

	proof, err := s.proofs.Get(ctx, proofID)
	if errors.Is(err, types.ErrProofNotFound) {
		return nil, &types.NotFoundError{Entity: "proof submission", ID: proofID}
	}
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch proof submission")
	}

	err = s.proofs.ApproveAndSettle(ctx, proofID, proof.FeeEntryID, actor.ID, time.Now())
	switch {
	case errors.Is(err, types.ErrProofNotFound):
		return nil, &types.NotFoundError{Entity: "proof submission", ID: proofID}
	case errors.Is(err, types.ErrStatusChanged):
		return nil, s.transitionError(ctx, proofID)
	case err != nil:
		return nil, utils.ErrorWrapOrNil(err, "failed to approve proof submission")
	}

	approved, err := s.proofs.Get(ctx, proofID)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to load approved proof")
	}

	s.metrics.ProofDecisions.WithLabelValues("approved").Inc()
	s.notifyDecision(ctx, approved, "approved")

	return approved, nil
}

// Reject is the terminal refusal path, symmetric to case rejection. The
// fee entry stays as it was.
func (s *ProofService) Reject(ctx context.Context, actor types.Actor, proofID, reason string) (*types.ProofSubmission, error) {
	if !actor.IsReviewer() {
		return nil, &types.AuthorizationError{Role: actor.Role, Op: "reject proof submissions"}
	}

	if strings.TrimSpace(reason) == "" {
		return nil, &types.ValidationError{Fields: []string{"reason"}}
	}

	err := s.proofs.Reject(ctx, proofID, actor.ID, strings.TrimSpace(reason), time.Now())
	switch {
	case errors.Is(err, types.ErrProofNotFound):
		return nil, &types.NotFoundError{Entity: "proof submission", ID: proofID}
	case errors.Is(err, types.ErrStatusChanged):
		return nil, s.transitionError(ctx, proofID)
	case err != nil:
		return nil, utils.ErrorWrapOrNil(err, "failed to reject proof submission")
	}

	rejected, err := s.proofs.Get(ctx, proofID)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to load rejected proof")
	}

	s.metrics.ProofDecisions.WithLabelValues("rejected").Inc()
	s.notifyDecision(ctx, rejected, "rejected")

	return rejected, nil
}

// ListPending is the reviewer queue view, insertion order.
func (s *ProofService) ListPending(ctx context.Context) ([]*types.ProofSubmission, error) {
	pending, err := s.proofs.ListPending(ctx)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to list pending proofs")
	}

	return pending, nil
}

func (s *ProofService) transitionError(ctx context.Context, proofID string) error {
	current, err := s.proofs.Get(ctx, proofID)
	if err != nil {
		return &types.InvalidTransitionError{Entity: "proof submission", ID: proofID, Status: "not pending approval"}
	}
	return &types.InvalidTransitionError{Entity: "proof submission", ID: proofID, Status: string(current.Status)}
}

func (s *ProofService) notifyDecision(ctx context.Context, proof *types.ProofSubmission, outcome string) {
	link := fmt.Sprintf("/proofs/%s", proof.ID)

	entry, err := s.fees.Get(ctx, proof.FeeEntryID)
	if err != nil {
		s.logger.WithError(err).WithField("proof_id", proof.ID).Warn("could not resolve applicant for notification")
	} else if outcome == "approved" {
		s.dispatcher.dispatch(ctx, entry.ApplicantContact,
			fmt.Sprintf("Payment for invoice %s was verified", entry.InvoiceRef), &link)
	}

	sponsor, err := s.sponsors.Get(ctx, proof.SponsorID)
	if err != nil {
		s.logger.WithError(err).WithField("proof_id", proof.ID).Warn("could not resolve sponsor for notification")
		return
	}

	message := fmt.Sprintf("Your payment proof %q was %s", proof.Title, outcome)
	if outcome == "rejected" && proof.RejectReason != nil {
		message = fmt.Sprintf("%s: %s", message, *proof.RejectReason)
	}
	s.dispatcher.dispatch(ctx, sponsor.Contact, message, &link)
}
