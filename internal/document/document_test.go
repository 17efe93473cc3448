package document_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oscarfh/bizdesk/internal/document"
	"github.com/oscarfh/bizdesk/internal/pricing"
)

func TestAddress_Display(t *testing.T) {
	type testCase struct {
		name string
		addr document.Address
		want string
	}

	tests := []testCase{
		{
			name: "freeform",
			addr: document.NewFreeformAddress("  12 High St, Springfield  "),
			want: "12 High St, Springfield",
		},
		{
			name: "structured full",
			addr: document.NewStructuredAddress("12 High St", "Springfield", "OR", "97477", "US"),
			want: "12 High St, Springfield, OR, 97477, US",
		},
		{
			name: "structured skips blanks",
			addr: document.NewStructuredAddress("12 High St", "", "OR", "", ""),
			want: "12 High St, OR",
		},
		{
			name: "empty freeform",
			addr: document.NewFreeformAddress("   "),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.addr.Display())
			assert.Equal(t, tt.want == "", tt.addr.IsZero())
		})
	}
}

func TestWire_ItemsRoundTripPreservesNetAmount(t *testing.T) {
	items := make([]pricing.LineItem, 3)

	specs := []struct{ name, qty, price, disc, tax string }{
		{"Widget", "2", "100", "10", "18"},
		{"Gadget", "0.5", "19.99", "0", "23"},
		{"Service fee", "1", "350", "12.5", "0"},
	}

	for i, s := range specs {
		li := pricing.NewLineItem()
		li.Name = s.name
		li, _ = li.Apply(pricing.FieldQuantity, s.qty)
		li, _ = li.Apply(pricing.FieldUnitPrice, s.price)
		li, _ = li.Apply(pricing.FieldDiscountPercent, s.disc)
		li, _ = li.Apply(pricing.FieldTaxPercent, s.tax)
		items[i] = li
	}

	payload := document.ItemsToPayload(items)

	// Push it through the same JSON boundary the API uses.
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded []document.LineItemPayload
	require.NoError(t, json.Unmarshal(raw, &decoded))

	back := document.ItemsFromPayload(decoded)
	require.Len(t, back, len(items))

	for i := range items {
		assert.Equal(t, items[i].Name, back[i].Name)
		assert.True(t, back[i].NetAmount().Equal(items[i].NetAmount()),
			"item %d: got %s want %s", i, back[i].NetAmount(), items[i].NetAmount())
	}
}

func TestWire_PayloadNetAmountIsRounded(t *testing.T) {
	li := pricing.NewLineItem()
	li.Name = "Gadget"
	li, _ = li.Apply(pricing.FieldQuantity, "0.5")
	li, _ = li.Apply(pricing.FieldUnitPrice, "19.99")
	li, _ = li.Apply(pricing.FieldTaxPercent, "23")

	payload := document.ItemsToPayload([]pricing.LineItem{li})
	require.Len(t, payload, 1)

	// 0.5 * 19.99 * 1.23 = 12.29385, rounded for the wire.
	assert.Equal(t, "12.29", payload[0].NetAmount.StringFixed(2))
}

func TestWire_AddressDefaultsToFreeform(t *testing.T) {
	addr := document.AddressFromPayload(document.AddressPayload{Freeform: "somewhere"})

	assert.Equal(t, document.AddressFreeform, addr.Kind)
	assert.Equal(t, "somewhere", addr.Display())
}

func TestDocument_TotalsTrackItems(t *testing.T) {
	li := pricing.NewLineItem()
	li.Name = "Widget"
	li, _ = li.Apply(pricing.FieldUnitPrice, "100")

	doc := document.Document{Items: []pricing.LineItem{li}}
	assert.Equal(t, "100.00", doc.Totals().TotalAmount.StringFixed(2))

	doc.Items = append(doc.Items, li)
	assert.Equal(t, "200.00", doc.Totals().TotalAmount.StringFixed(2))

	doc.Items = nil
	assert.True(t, doc.Totals().TotalAmount.IsZero())
}
