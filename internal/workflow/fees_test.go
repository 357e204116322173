package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"stipendia/internal/utils"
	"stipendia/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFeeApplicantUsesOwnContact(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.fees.Add(context.Background(), testStudent, AddFeeInput{
		ApplicantContact: "someone-else@example.org",
		InvoiceRef:       "INV-2026-001",
		ReceiptKey:       "evidence/receipt-1",
	})
	require.NoError(t, err)

	assert.Equal(t, testStudent.Contact, entry.ApplicantContact)
	assert.Equal(t, types.FeeStatusPending, entry.Status)
	assert.False(t, entry.DisclosedOn.IsZero())
}

func TestAddFeeReviewerOnBehalf(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.fees.Add(context.Background(), testReviewer, AddFeeInput{
		ApplicantContact: testStudent.Contact,
		InvoiceRef:       "INV-2026-002",
		ReceiptKey:       "evidence/receipt-2",
	})
	require.NoError(t, err)
	assert.Equal(t, testStudent.Contact, entry.ApplicantContact)
}

func TestAddFeeSponsorForbidden(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.fees.Add(context.Background(), testSponsor, AddFeeInput{
		ApplicantContact: testStudent.Contact,
		InvoiceRef:       "INV-2026-099",
		ReceiptKey:       "evidence/receipt-99",
	})
	assert.True(t, types.IsAuthorization(err))
}

func TestAddFeeMissingFields(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.fees.Add(context.Background(), testReviewer, AddFeeInput{})
	require.Error(t, err)

	var verr *types.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{"applicant_contact", "invoice_ref", "receipt_key"}, verr.Fields)
}

func TestAddFeeRejectsInlineReceipt(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.fees.Add(context.Background(), testStudent, AddFeeInput{
		InvoiceRef: "INV-2026-003",
		ReceiptKey: "data:image/jpeg;base64,/9j/4AAQ",
	})
	assert.True(t, types.IsValidation(err))
}

func TestAddFeeKeepsProvidedDisclosedOn(t *testing.T) {
	env := newTestEnv(t)

	disclosed := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	entry, err := env.fees.Add(context.Background(), testStudent, AddFeeInput{
		InvoiceRef:  "INV-2026-004",
		ReceiptKey:  "evidence/receipt-4",
		DisclosedOn: disclosed,
	})
	require.NoError(t, err)
	assert.True(t, entry.DisclosedOn.Equal(disclosed))
}

func TestUpdateFeeFields(t *testing.T) {
	env := newTestEnv(t)

	entry := env.addFee(t, testStudent)

	due := time.Now().Add(14 * 24 * time.Hour)
	updated, err := env.fees.Update(context.Background(), testStudent, entry.ID, UpdateFeeInput{
		InvoiceRef: utils.StringPtr("  INV-CORRECTED  "),
		DueDate:    &due,
		ReceiptKey: utils.StringPtr("evidence/receipt-corrected"),
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-CORRECTED", updated.InvoiceRef)
	assert.Equal(t, "evidence/receipt-corrected", updated.ReceiptKey)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, types.FeeStatusPending, updated.Status)
}

func TestUpdateFeeStatusRequiresReviewer(t *testing.T) {
	env := newTestEnv(t)

	entry := env.addFee(t, testStudent)

	accepted := types.FeeStatusAccepted
	_, err := env.fees.Update(context.Background(), testStudent, entry.ID, UpdateFeeInput{Status: &accepted})
	assert.True(t, types.IsAuthorization(err))

	updated, err := env.fees.Update(context.Background(), testReviewer, entry.ID, UpdateFeeInput{Status: &accepted})
	require.NoError(t, err)
	assert.Equal(t, types.FeeStatusAccepted, updated.Status)
}

func TestUpdateFeeInvalidStatus(t *testing.T) {
	env := newTestEnv(t)

	entry := env.addFee(t, testStudent)

	bad := types.FeeStatus("SETTLED")
	_, err := env.fees.Update(context.Background(), testReviewer, entry.ID, UpdateFeeInput{Status: &bad})
	assert.True(t, types.IsValidation(err))
}

func TestUpdateFeeNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.fees.Update(context.Background(), testReviewer, "missing", UpdateFeeInput{})
	assert.True(t, types.IsNotFound(err))
}

func TestListFeesByApplicant(t *testing.T) {
	env := newTestEnv(t)

	first := env.addFee(t, testStudent)
	second := env.addFee(t, testStudent)

	entries, err := env.fees.ListByApplicant(context.Background(), testStudent.Contact)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, second.ID, entries[1].ID)

	_, err = env.fees.ListByApplicant(context.Background(), "  ")
	assert.True(t, types.IsValidation(err))
}
