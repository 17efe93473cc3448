package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidFieldValue is returned when a field edit falls outside its
// domain (negative quantity or unit price, unknown field name).
var ErrInvalidFieldValue = errors.New("invalid field value")

// Field names an editable numeric attribute of a line item.
type Field string

const (
	FieldQuantity        Field = "quantity"
	FieldUnitPrice       Field = "unit_price"
	FieldDiscountPercent Field = "discount_percent"
	FieldTaxPercent      Field = "tax_percent"
)

var (
	hundred    = decimal.NewFromInt(100)
	one        = decimal.NewFromInt(1)
	percentMax = hundred
)

// LineItem is one billable row. The monetary and percent fields are the
// only inputs; every amount is derived from them on demand, so a line
// can never carry a stale net amount.
type LineItem struct {
	Name            string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

// NewLineItem returns a fresh row: quantity 1, everything else zero.
func NewLineItem() LineItem {
	return LineItem{Quantity: one}
}

// Gross is quantity times unit price before any adjustment.
func (li LineItem) Gross() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// DiscountAmount is the discount applied to the gross.
func (li LineItem) DiscountAmount() decimal.Decimal {
	return li.Gross().Mul(li.DiscountPercent).Div(hundred)
}

// TaxableAmount is the gross after discount.
func (li LineItem) TaxableAmount() decimal.Decimal {
	return li.Gross().Sub(li.DiscountAmount())
}

// TaxAmount is the tax levied on the taxable amount.
func (li LineItem) TaxAmount() decimal.Decimal {
	return li.TaxableAmount().Mul(li.TaxPercent).Div(hundred)
}

// NetAmount is the final amount for the row: taxable plus tax.
func (li LineItem) NetAmount() decimal.Decimal {
	return li.TaxableAmount().Add(li.TaxAmount())
}

// ParseDecimal converts raw form input into a decimal. Anything that
// does not parse as a number becomes zero so the form stays computable;
// this mirrors the historical UI behaviour and is the single place to
// change if that choice is revisited.
func ParseDecimal(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}

	return d
}

// Apply returns a copy of the item with one field changed. Negative
// quantities and unit prices are rejected; percent fields are clamped
// to [0,100]; non-numeric input coerces to zero before either rule.
func (li LineItem) Apply(field Field, raw string) (LineItem, error) {
	value := ParseDecimal(raw)

	switch field {
	case FieldQuantity:
		if value.IsNegative() {
			return li, fmt.Errorf("%w: quantity must not be negative", ErrInvalidFieldValue)
		}

		li.Quantity = value
	case FieldUnitPrice:
		if value.IsNegative() {
			return li, fmt.Errorf("%w: unit price must not be negative", ErrInvalidFieldValue)
		}

		li.UnitPrice = value
	case FieldDiscountPercent:
		li.DiscountPercent = clampPercent(value)
	case FieldTaxPercent:
		li.TaxPercent = clampPercent(value)
	default:
		return li, fmt.Errorf("%w: unknown field %q", ErrInvalidFieldValue, field)
	}

	return li, nil
}

func clampPercent(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	if d.GreaterThan(percentMax) {
		return percentMax
	}

	return d
}

// Totals aggregates a sequence of line items.
type Totals struct {
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	TaxableAmount decimal.Decimal
	TotalTax      decimal.Decimal
	TotalAmount   decimal.Decimal
}

// Aggregate folds the items into document totals. It is a pure
// function of the slice contents: order does not matter and an empty
// slice yields all zeros.
func Aggregate(items []LineItem) Totals {
	var t Totals

	for _, li := range items {
		t.Subtotal = t.Subtotal.Add(li.Gross())
		t.TotalDiscount = t.TotalDiscount.Add(li.DiscountAmount())
		t.TotalTax = t.TotalTax.Add(li.TaxAmount())
	}

	t.TaxableAmount = t.Subtotal.Sub(t.TotalDiscount)
	t.TotalAmount = t.TaxableAmount.Add(t.TotalTax)

	return t
}

// Round2 rounds a value to two decimal places for display or
// serialization. Intermediate arithmetic never rounds.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
