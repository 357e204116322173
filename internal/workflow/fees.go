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

// FeeService keeps the per-applicant ledger of recurring fee
// disclosures.
type FeeService struct {
	logger     *logrus.Logger
	fees       FeeStore
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
}

func NewFeeService(logger *logrus.Logger, fees FeeStore, dispatcher *Dispatcher, m *metrics.Metrics) *FeeService {
	return &FeeService{
		logger:     logger,
		fees:       fees,
		dispatcher: dispatcher,
		metrics:    m,
	}
}

type AddFeeInput struct {
	ApplicantContact string     `form:"applicant_contact" json:"applicantContact"`
	InvoiceRef       string     `form:"invoice_ref" json:"invoiceRef"`
	DisclosedOn      time.Time  `form:"disclosed_on" json:"disclosedOn"`
	DueDate          *time.Time `form:"due_date" json:"dueDate"`
	ReceiptKey       string     `form:"receipt_key" json:"receiptKey"`
}

// Add appends a pending fee disclosure. Applicants disclose their own
// fees; a reviewer may disclose on any applicant's behalf. Sponsors do
// not write the ledger, they only submit payment proofs against it.
func (s *FeeService) Add(ctx context.Context, actor types.Actor, input AddFeeInput) (*types.FeeEntry, error) {
	if actor.Role == types.RoleSponsor {
		return nil, &types.AuthorizationError{Role: actor.Role, Op: "disclose fee entries"}
	}

	contact := strings.TrimSpace(input.ApplicantContact)
	if actor.Role == types.RoleApplicant {
		contact = actor.Contact
	}

	var missing []string
	if contact == "" {
		missing = append(missing, "applicant_contact")
	}
	if strings.TrimSpace(input.InvoiceRef) == "" {
		missing = append(missing, "invoice_ref")
	}
	if strings.TrimSpace(input.ReceiptKey) == "" {
		missing = append(missing, "receipt_key")
	}
	if len(missing) > 0 {
		return nil, &types.ValidationError{Fields: missing}
	}

	if !validStorageKey(input.ReceiptKey) {
		return nil, &types.ValidationError{Fields: []string{"receipt_key"}}
	}

	disclosedOn := input.DisclosedOn
	if disclosedOn.IsZero() {
		disclosedOn = time.Now()
	}

	now := time.Now()
	entry := &types.FeeEntry{
		ID:               utils.NanoID(),
		ApplicantContact: contact,
		InvoiceRef:       strings.TrimSpace(input.InvoiceRef),
		DisclosedOn:      disclosedOn,
		DueDate:          input.DueDate,
		ReceiptKey:       input.ReceiptKey,
		Status:           types.FeeStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.fees.Create(ctx, entry); err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to create fee entry")
	}

	s.metrics.FeeEntriesTotal.Inc()

	link := fmt.Sprintf("/fees/%s", entry.ID)
	s.dispatcher.dispatch(ctx, contact, fmt.Sprintf("Fee disclosure %s recorded", entry.InvoiceRef), &link)

	return entry, nil
}

type UpdateFeeInput struct {
	InvoiceRef *string          `json:"invoiceRef"`
	DueDate    *time.Time       `json:"dueDate"`
	ReceiptKey *string          `json:"receiptKey"`
	Status     *types.FeeStatus `json:"status"`
}

// Update edits an entry's fields. Direct status changes are a reviewer
// correction path; the normal settlement route is proof approval.
func (s *FeeService) Update(ctx context.Context, actor types.Actor, entryID string, input UpdateFeeInput) (*types.FeeEntry, error) {
	entry, err := s.fees.Get(ctx, entryID)
	if errors.Is(err, types.ErrFeeEntryNotFound) {
		return nil, &types.NotFoundError{Entity: "fee entry", ID: entryID}
	}
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch fee entry")
	}

	if input.Status != nil {
		if !actor.IsReviewer() {
			return nil, &types.AuthorizationError{Role: actor.Role, Op: "change fee status"}
		}
		if !input.Status.Valid() {
			return nil, &types.ValidationError{Fields: []string{"status"}}
		}
		entry.Status = *input.Status
	}

	if input.InvoiceRef != nil {
		if strings.TrimSpace(*input.InvoiceRef) == "" {
			return nil, &types.ValidationError{Fields: []string{"invoice_ref"}}
		}
		entry.InvoiceRef = strings.TrimSpace(*input.InvoiceRef)
	}

	if input.ReceiptKey != nil {
		if !validStorageKey(*input.ReceiptKey) {
			return nil, &types.ValidationError{Fields: []string{"receipt_key"}}
		}
		entry.ReceiptKey = *input.ReceiptKey
	}

	if input.DueDate != nil {
		entry.DueDate = input.DueDate
	}

	entry.UpdatedAt = time.Now()

	if err := s.fees.Update(ctx, entry); err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to update fee entry")
	}

	return entry, nil
}

// ListByApplicant returns the applicant's entries in insertion order.
func (s *FeeService) ListByApplicant(ctx context.Context, applicantContact string) ([]*types.FeeEntry, error) {
	if strings.TrimSpace(applicantContact) == "" {
		return nil, &types.ValidationError{Fields: []string{"applicant_contact"}}
	}

	entries, err := s.fees.ListByApplicant(ctx, applicantContact)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to list fee entries")
	}

	return entries, nil
}
