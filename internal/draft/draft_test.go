package draft_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oscarfh/bizdesk/internal/document"
	"github.com/oscarfh/bizdesk/internal/draft"
	"github.com/oscarfh/bizdesk/internal/pricing"
)

func editingDraft(t *testing.T) *draft.Draft {
	t.Helper()

	d := draft.New(document.KindInvoice)
	d.SetNumber("INV-042")
	d.SetParty(document.Party{
		Name:    "Acme",
		Address: document.NewFreeformAddress("12 High St"),
	})

	li := pricing.NewLineItem()
	li.Name = "Widget"
	require.NoError(t, d.AddItem(li))
	require.NoError(t, d.UpdateItem(0, pricing.FieldUnitPrice, "100"))
	require.NoError(t, d.UpdateItem(0, pricing.FieldQuantity, "2"))

	return d
}

func TestDraft_AddRemoveTransitions(t *testing.T) {
	d := draft.New(document.KindQuotation)
	assert.Equal(t, draft.StateEmpty, d.State())

	require.NoError(t, d.AddItem(pricing.NewLineItem()))
	assert.Equal(t, draft.StateEditing, d.State())

	require.NoError(t, d.AddItem(pricing.NewLineItem()))
	assert.Equal(t, 2, d.ItemCount())

	require.NoError(t, d.RemoveItem(1))
	assert.Equal(t, draft.StateEditing, d.State())

	require.NoError(t, d.RemoveItem(0))
	assert.Equal(t, draft.StateEmpty, d.State())
	assert.Equal(t, 0, d.ItemCount())
}

func TestDraft_UpdateItem(t *testing.T) {
	d := editingDraft(t)

	require.NoError(t, d.UpdateItem(0, pricing.FieldDiscountPercent, "10"))
	require.NoError(t, d.UpdateItem(0, pricing.FieldTaxPercent, "18"))

	li, err := d.Item(0)
	require.NoError(t, err)
	assert.Equal(t, "212.40", li.NetAmount().StringFixed(2))

	totals := d.Totals()
	assert.Equal(t, "212.40", totals.TotalAmount.StringFixed(2))
	assert.Equal(t, "200.00", totals.Subtotal.StringFixed(2))
}

func TestDraft_UpdateItem_BadIndex(t *testing.T) {
	d := editingDraft(t)

	assert.ErrorIs(t, d.UpdateItem(5, pricing.FieldQuantity, "1"), draft.ErrNoSuchItem)
	assert.ErrorIs(t, d.RemoveItem(-1), draft.ErrNoSuchItem)
	assert.ErrorIs(t, d.RenameItem(2, "x"), draft.ErrNoSuchItem)
}

func TestDraft_UpdateItem_RejectedEditLeavesRowIntact(t *testing.T) {
	d := editingDraft(t)

	err := d.UpdateItem(0, pricing.FieldQuantity, "-3")
	require.ErrorIs(t, err, pricing.ErrInvalidFieldValue)

	li, _ := d.Item(0)
	assert.Equal(t, "200.00", li.NetAmount().StringFixed(2))
	assert.Equal(t, draft.StateEditing, d.State())
}

func TestDraft_TotalsRecomputeOnRead(t *testing.T) {
	d := editingDraft(t)
	before := d.Totals()

	li := pricing.NewLineItem()
	li.Name = "Gadget"
	require.NoError(t, d.AddItem(li))
	require.NoError(t, d.UpdateItem(1, pricing.FieldUnitPrice, "50"))

	after := d.Totals()
	assert.True(t, after.TotalAmount.Sub(before.TotalAmount).Equal(pricing.ParseDecimal("50")))
}

func TestDraft_SubmitAfterRemovingOnlyItem(t *testing.T) {
	d := editingDraft(t)
	require.NoError(t, d.RemoveItem(0))
	assert.Equal(t, draft.StateEmpty, d.State())

	_, err := d.BeginSubmit()
	require.ErrorIs(t, err, draft.ErrInvalidTransition)
	assert.NotEqual(t, draft.StateSubmitting, d.State())
}

func TestDraft_Validate(t *testing.T) {
	type testCase struct {
		name      string
		mutate    func(t *testing.T, d *draft.Draft)
		wantField string
	}

	tests := []testCase{
		{
			name: "unnamed item",
			mutate: func(t *testing.T, d *draft.Draft) {
				require.NoError(t, d.RenameItem(0, "   "))
			},
			wantField: "items[0].description",
		},
		{
			name: "missing number",
			mutate: func(t *testing.T, d *draft.Draft) {
				d.SetNumber("")
			},
			wantField: "number",
		},
		{
			name: "missing party name",
			mutate: func(t *testing.T, d *draft.Draft) {
				d.SetParty(document.Party{Address: document.NewFreeformAddress("12 High St")})
			},
			wantField: "party.name",
		},
		{
			name: "missing address",
			mutate: func(t *testing.T, d *draft.Draft) {
				d.SetParty(document.Party{Name: "Acme"})
			},
			wantField: "party.address",
		},
		{
			name: "blank structured address",
			mutate: func(t *testing.T, d *draft.Draft) {
				d.SetParty(document.Party{
					Name:    "Acme",
					Address: document.NewStructuredAddress("", "", "", "", ""),
				})
			},
			wantField: "party.address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := editingDraft(t)
			tt.mutate(t, d)

			errs := d.Validate()
			require.NotEmpty(t, errs)

			fields := make([]string, len(errs))
			for i, e := range errs {
				fields[i] = e.Field
			}

			assert.Contains(t, fields, tt.wantField)

			// Validation never moves the machine.
			_, err := d.BeginSubmit()
			require.Error(t, err)
			assert.Equal(t, draft.StateEditing, d.State())
		})
	}
}

func TestDraft_ValidationErrorMessage(t *testing.T) {
	d := draft.New(document.KindInvoice)
	require.NoError(t, d.AddItem(pricing.NewLineItem()))

	_, err := d.BeginSubmit()
	require.Error(t, err)

	var errs draft.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.Error(), "item description required")
}

func TestDraft_SubmitSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := editingDraft(t)
	id := uuid.New()

	submitter := draft.NewMockSubmitter(ctrl)
	submitter.EXPECT().
		CreateDocument(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req document.CreateRequest) (document.Response, error) {
			assert.Equal(t, "INV-042", req.Number)
			assert.Len(t, req.Items, 1)
			assert.Equal(t, "200.00", req.Items[0].NetAmount.StringFixed(2))

			return document.Response{ID: id, Number: req.Number}, nil
		})

	require.NoError(t, d.Submit(context.Background(), submitter))
	assert.Equal(t, draft.StateSaved, d.State())
	require.NotNil(t, d.SavedRef())
	assert.Equal(t, id, d.SavedRef().ID)
}

func TestDraft_SubmitFailureRetainsEverything(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := editingDraft(t)

	submitter := draft.NewMockSubmitter(ctrl)
	submitter.EXPECT().
		CreateDocument(gomock.Any(), gomock.Any()).
		Return(document.Response{}, errors.New("Duplicate invoice number"))

	err := d.Submit(context.Background(), submitter)
	require.Error(t, err)

	assert.Equal(t, draft.StateFailed, d.State())
	assert.Equal(t, "Duplicate invoice number", d.FailReason())
	assert.Equal(t, 1, d.ItemCount())
	assert.Equal(t, "INV-042", d.Number())
	assert.Equal(t, "Acme", d.Party().Name)

	// Retry without re-entering anything.
	require.NoError(t, d.Reopen())
	assert.Equal(t, draft.StateEditing, d.State())
	assert.Empty(t, d.FailReason())

	submitter.EXPECT().
		CreateDocument(gomock.Any(), gomock.Any()).
		Return(document.Response{ID: uuid.New(), Number: "INV-042"}, nil)

	require.NoError(t, d.Submit(context.Background(), submitter))
	assert.Equal(t, draft.StateSaved, d.State())
}

func TestDraft_StaleCompletionIgnored(t *testing.T) {
	d := editingDraft(t)

	token, err := d.BeginSubmit()
	require.NoError(t, err)

	// The user navigated away; the draft was reset and resubmitted.
	d.CompleteSubmit(token, document.Response{}, errors.New("timeout"))
	require.NoError(t, d.Reopen())

	token2, err := d.BeginSubmit()
	require.NoError(t, err)

	// The first attempt's late response must not flip the new state.
	d.CompleteSubmit(token, document.Response{ID: uuid.New()}, nil)
	assert.Equal(t, draft.StateSubmitting, d.State())

	d.CompleteSubmit(token2, document.Response{ID: uuid.New(), Number: "INV-042"}, nil)
	assert.Equal(t, draft.StateSaved, d.State())
}

func TestDraft_NoEditsWhileSubmitting(t *testing.T) {
	d := editingDraft(t)

	_, err := d.BeginSubmit()
	require.NoError(t, err)

	assert.ErrorIs(t, d.AddItem(pricing.NewLineItem()), draft.ErrInvalidTransition)
	assert.ErrorIs(t, d.UpdateItem(0, pricing.FieldQuantity, "3"), draft.ErrInvalidTransition)
	assert.ErrorIs(t, d.RemoveItem(0), draft.ErrInvalidTransition)
}

func TestDraft_HydrateRoundTrip(t *testing.T) {
	d := editingDraft(t)
	require.NoError(t, d.UpdateItem(0, pricing.FieldDiscountPercent, "10"))
	require.NoError(t, d.UpdateItem(0, pricing.FieldTaxPercent, "18"))

	due := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	d.SetDates(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), &due)

	req := d.Request()
	resp := document.Response{
		Kind:      req.Kind,
		Number:    req.Number,
		Party:     req.Party,
		IssueDate: req.IssueDate,
		DueDate:   req.DueDate,
		Notes:     req.Notes,
		Items:     req.Items,
	}

	back := draft.Hydrate(resp)
	assert.Equal(t, draft.StateEditing, back.State())
	assert.Equal(t, d.Number(), back.Number())
	assert.Equal(t, d.Party().Address.Display(), back.Party().Address.Display())

	want, _ := d.Item(0)
	got, err := back.Item(0)
	require.NoError(t, err)
	assert.True(t, got.NetAmount().Equal(want.NetAmount()))
}
