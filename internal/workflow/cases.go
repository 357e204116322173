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

// maxStorageKeyLen bounds document and evidence references. Anything
// longer is an inline-encoded payload smuggled into the record, which
// belongs in the blob store instead.
const maxStorageKeyLen = 256

func validStorageKey(key string) bool {
	if key == "" || len(key) > maxStorageKeyLen {
		return false
	}
	return !strings.Contains(key, ";base64,")
}

// CaseService owns the application case lifecycle: intake, one-shot
// reviewer decisions, and eligibility listing.
type CaseService struct {
	logger     *logrus.Logger
	cases      CaseStore
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
}

func NewCaseService(logger *logrus.Logger, cases CaseStore, dispatcher *Dispatcher, m *metrics.Metrics) *CaseService {
	return &CaseService{
		logger:     logger,
		cases:      cases,
		dispatcher: dispatcher,
		metrics:    m,
	}
}

type SubmitCaseInput struct {
	ApplicantName string   `form:"applicant_name" json:"applicantName"`
	School        string   `form:"school" json:"school"`
	Program       string   `form:"program" json:"program"`
	DocumentKeys  []string `form:"document_keys" json:"documentKeys"`
}

// Submit creates a pending case for the acting applicant. An applicant
// with a pending or accepted case may not open another one; a rejected
// case frees them to re-apply. No notification fires on intake.
func (s *CaseService) Submit(ctx context.Context, actor types.Actor, input SubmitCaseInput) (*types.Case, error) {
	var missing []string
	if strings.TrimSpace(input.ApplicantName) == "" {
		missing = append(missing, "applicant_name")
	}
	if strings.TrimSpace(input.School) == "" {
		missing = append(missing, "school")
	}
	if strings.TrimSpace(input.Program) == "" {
		missing = append(missing, "program")
	}
	if len(missing) > 0 {
		return nil, &types.ValidationError{Fields: missing}
	}

	for _, key := range input.DocumentKeys {
		if !validStorageKey(key) {
			return nil, &types.ValidationError{Fields: []string{"document_keys"}}
		}
	}

	existing, err := s.cases.ActiveByApplicant(ctx, actor.ID)
	if err != nil && !errors.Is(err, types.ErrCaseNotFound) {
		return nil, utils.ErrorWrapOrNil(err, "failed to check for active case")
	}
	if existing != nil {
		return nil, &types.PreconditionError{
			Reason: fmt.Sprintf("applicant already has a %s case", strings.ToLower(string(existing.Status))),
		}
	}

	now := time.Now()
	c := &types.Case{
		ID:               utils.NanoID(),
		ApplicantID:      actor.ID,
		ApplicantContact: actor.Contact,
		ApplicantName:    strings.TrimSpace(input.ApplicantName),
		School:           strings.TrimSpace(input.School),
		Program:          strings.TrimSpace(input.Program),
		DocumentKeys:     input.DocumentKeys,
		Status:           types.CaseStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.cases.Create(ctx, c); err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to create case")
	}

	return c, nil
}

// Review applies the one-shot accept/reject decision. The transition is
// a compare-and-set on PENDING; a second review of the same case fails
// with an invalid-transition error regardless of outcome.
func (s *CaseService) Review(ctx context.Context, actor types.Actor, caseID string, decision types.CaseStatus, reason string) (*types.Case, error) {
	if !actor.IsReviewer() {
		return nil, &types.AuthorizationError{Role: actor.Role, Op: "review cases"}
	}

	if !decision.Terminal() {
		return nil, &types.ValidationError{Fields: []string{"decision"}}
	}

	var rejectReason *string
	if decision == types.CaseStatusRejected && strings.TrimSpace(reason) != "" {
		rejectReason = utils.StringPtr(strings.TrimSpace(reason))
	}

	err := s.cases.Transition(ctx, caseID, types.CaseStatusPending, decision, actor.ID, rejectReason, time.Now())
	switch {
	case errors.Is(err, types.ErrCaseNotFound):
		return nil, &types.NotFoundError{Entity: "case", ID: caseID}
	case errors.Is(err, types.ErrStatusChanged):
		current, getErr := s.cases.Get(ctx, caseID)
		if getErr != nil {
			return nil, &types.InvalidTransitionError{Entity: "case", ID: caseID, Status: "not pending"}
		}
		return nil, &types.InvalidTransitionError{Entity: "case", ID: caseID, Status: string(current.Status)}
	case err != nil:
		return nil, utils.ErrorWrapOrNil(err, "failed to review case")
	}

	reviewed, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to load reviewed case")
	}

	s.metrics.CaseReviews.WithLabelValues(strings.ToLower(string(decision))).Inc()

	message := "Your scholarship application was accepted"
	if decision == types.CaseStatusRejected {
		message = "Your scholarship application was rejected"
		if rejectReason != nil {
			message = fmt.Sprintf("%s: %s", message, *rejectReason)
		}
	}
	link := fmt.Sprintf("/cases/%s", caseID)
	s.dispatcher.dispatch(ctx, reviewed.ApplicantContact, message, &link)

	return reviewed, nil
}

// ListByStatus surfaces cases in insertion order; sponsors browse the
// accepted ones.
func (s *CaseService) ListByStatus(ctx context.Context, status types.CaseStatus) ([]*types.Case, error) {
	if !status.Valid() {
		return nil, &types.ValidationError{Fields: []string{"status"}}
	}

	cases, err := s.cases.ListByStatus(ctx, status)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to list cases")
	}

	return cases, nil
}

func (s *CaseService) Get(ctx context.Context, caseID string) (*types.Case, error) {
	c, err := s.cases.Get(ctx, caseID)
	if errors.Is(err, types.ErrCaseNotFound) {
		return nil, &types.NotFoundError{Entity: "case", ID: caseID}
	}
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch case")
	}

	return c, nil
}
