package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oscarfh/bizdesk/internal/pricing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}

	return d
}

func item(qty, price, disc, tax string) pricing.LineItem {
	return pricing.LineItem{
		Name:            "item",
		Quantity:        dec(qty),
		UnitPrice:       dec(price),
		DiscountPercent: dec(disc),
		TaxPercent:      dec(tax),
	}
}

func TestNewLineItem_Defaults(t *testing.T) {
	li := pricing.NewLineItem()

	assert.True(t, li.Quantity.Equal(dec("1")))
	assert.True(t, li.UnitPrice.IsZero())
	assert.True(t, li.DiscountPercent.IsZero())
	assert.True(t, li.TaxPercent.IsZero())
	assert.True(t, li.NetAmount().IsZero())
}

func TestLineItem_DerivedAmounts(t *testing.T) {
	type testCase struct {
		name                                   string
		item                                   pricing.LineItem
		gross, discount, taxable, taxAmt, nett string
	}

	tests := []testCase{
		{
			name:     "discount and tax",
			item:     item("2", "100", "10", "18"),
			gross:    "200",
			discount: "20",
			taxable:  "180",
			taxAmt:   "32.4",
			nett:     "212.4",
		},
		{
			name:     "no adjustments",
			item:     item("1", "50", "0", "0"),
			gross:    "50",
			discount: "0",
			taxable:  "50",
			taxAmt:   "0",
			nett:     "50",
		},
		{
			name:     "half discount",
			item:     item("3", "20", "50", "10"),
			gross:    "60",
			discount: "30",
			taxable:  "30",
			taxAmt:   "3",
			nett:     "33",
		},
		{
			name:     "fractional quantity",
			item:     item("0.5", "19.99", "0", "23"),
			gross:    "9.995",
			discount: "0",
			taxable:  "9.995",
			taxAmt:   "2.29885",
			nett:     "12.29385",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.item.Gross().Equal(dec(tt.gross)), "gross = %s", tt.item.Gross())
			assert.True(t, tt.item.DiscountAmount().Equal(dec(tt.discount)), "discount = %s", tt.item.DiscountAmount())
			assert.True(t, tt.item.TaxableAmount().Equal(dec(tt.taxable)), "taxable = %s", tt.item.TaxableAmount())
			assert.True(t, tt.item.TaxAmount().Equal(dec(tt.taxAmt)), "tax = %s", tt.item.TaxAmount())
			assert.True(t, tt.item.NetAmount().Equal(dec(tt.nett)), "net = %s", tt.item.NetAmount())
		})
	}
}

func TestLineItem_NetFormula(t *testing.T) {
	// net = gross * (1 - disc/100) * (1 + tax/100), checked across a
	// grid of representative values.
	quantities := []string{"0", "1", "2.5", "1000"}
	prices := []string{"0", "0.01", "99.99", "1234.56"}
	percents := []string{"0", "12.5", "50", "100"}

	hundred := dec("100")

	for _, q := range quantities {
		for _, p := range prices {
			for _, d := range percents {
				for _, x := range percents {
					li := item(q, p, d, x)

					gross := dec(q).Mul(dec(p))
					want := gross.
						Mul(hundred.Sub(dec(d))).Div(hundred).
						Mul(hundred.Add(dec(x))).Div(hundred)

					diff := li.NetAmount().Sub(want).Abs()
					assert.True(t, diff.LessThan(dec("0.000000001")),
						"qty=%s price=%s disc=%s tax=%s: got %s want %s", q, p, d, x, li.NetAmount(), want)
				}
			}
		}
	}
}

func TestLineItem_Apply(t *testing.T) {
	type testCase struct {
		name    string
		field   pricing.Field
		raw     string
		wantErr bool
		check   func(t *testing.T, li pricing.LineItem)
	}

	tests := []testCase{
		{
			name:  "quantity updates",
			field: pricing.FieldQuantity,
			raw:   "4",
			check: func(t *testing.T, li pricing.LineItem) {
				assert.True(t, li.Quantity.Equal(dec("4")))
			},
		},
		{
			name:    "negative quantity rejected",
			field:   pricing.FieldQuantity,
			raw:     "-1",
			wantErr: true,
		},
		{
			name:    "negative price rejected",
			field:   pricing.FieldUnitPrice,
			raw:     "-0.01",
			wantErr: true,
		},
		{
			name:  "discount above range clamps to 100",
			field: pricing.FieldDiscountPercent,
			raw:   "150",
			check: func(t *testing.T, li pricing.LineItem) {
				assert.True(t, li.DiscountPercent.Equal(dec("100")))
			},
		},
		{
			name:  "tax below range clamps to 0",
			field: pricing.FieldTaxPercent,
			raw:   "-5",
			check: func(t *testing.T, li pricing.LineItem) {
				assert.True(t, li.TaxPercent.IsZero())
			},
		},
		{
			name:  "non-numeric coerces to zero",
			field: pricing.FieldQuantity,
			raw:   "abc",
			check: func(t *testing.T, li pricing.LineItem) {
				assert.True(t, li.Quantity.IsZero())
				assert.True(t, li.NetAmount().IsZero())
			},
		},
		{
			name:    "unknown field rejected",
			field:   pricing.Field("colour"),
			raw:     "1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := item("2", "10", "0", "0")

			got, err := base.Apply(tt.field, tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, pricing.ErrInvalidFieldValue)
				// A rejected edit leaves the item untouched.
				assert.True(t, got.NetAmount().Equal(base.NetAmount()))

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestAggregate(t *testing.T) {
	items := []pricing.LineItem{
		item("1", "50", "0", "0"),
		item("3", "20", "50", "10"),
	}

	totals := pricing.Aggregate(items)

	assert.True(t, totals.Subtotal.Equal(dec("110")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.TotalDiscount.Equal(dec("30")), "discount = %s", totals.TotalDiscount)
	assert.True(t, totals.TaxableAmount.Equal(dec("80")), "taxable = %s", totals.TaxableAmount)
	assert.True(t, totals.TotalTax.Equal(dec("3")), "tax = %s", totals.TotalTax)
	assert.True(t, totals.TotalAmount.Equal(dec("83")), "total = %s", totals.TotalAmount)
}

func TestAggregate_SingleItemMatchesLine(t *testing.T) {
	li := item("2", "100", "10", "18")
	totals := pricing.Aggregate([]pricing.LineItem{li})

	assert.True(t, totals.Subtotal.Equal(li.Gross()))
	assert.True(t, totals.TotalDiscount.Equal(li.DiscountAmount()))
	assert.True(t, totals.TaxableAmount.Equal(li.TaxableAmount()))
	assert.True(t, totals.TotalTax.Equal(li.TaxAmount()))
	assert.True(t, totals.TotalAmount.Equal(li.NetAmount()))
}

func TestAggregate_Empty(t *testing.T) {
	totals := pricing.Aggregate(nil)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TotalDiscount.IsZero())
	assert.True(t, totals.TaxableAmount.IsZero())
	assert.True(t, totals.TotalTax.IsZero())
	assert.True(t, totals.TotalAmount.IsZero())
}

func TestAggregate_OrderIndependent(t *testing.T) {
	a := item("2", "100", "10", "18")
	b := item("1", "50", "0", "0")
	c := item("7", "3.33", "25", "5")

	forward := pricing.Aggregate([]pricing.LineItem{a, b, c})
	reversed := pricing.Aggregate([]pricing.LineItem{c, b, a})
	shuffled := pricing.Aggregate([]pricing.LineItem{b, c, a})

	for _, got := range []pricing.Totals{reversed, shuffled} {
		assert.True(t, got.Subtotal.Equal(forward.Subtotal))
		assert.True(t, got.TotalDiscount.Equal(forward.TotalDiscount))
		assert.True(t, got.TaxableAmount.Equal(forward.TaxableAmount))
		assert.True(t, got.TotalTax.Equal(forward.TotalTax))
		assert.True(t, got.TotalAmount.Equal(forward.TotalAmount))
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	items := []pricing.LineItem{
		item("2", "100", "10", "18"),
		item("1", "50", "0", "0"),
	}

	first := pricing.Aggregate(items)
	second := pricing.Aggregate(items)

	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
}

func TestAggregate_InvariantsHoldExactly(t *testing.T) {
	items := []pricing.LineItem{
		item("0.3", "0.1", "33.33", "7.77"),
		item("19", "2.49", "1", "18"),
		item("1", "0.07", "99.99", "100"),
	}

	totals := pricing.Aggregate(items)

	assert.True(t, totals.TaxableAmount.Equal(totals.Subtotal.Sub(totals.TotalDiscount)))
	assert.True(t, totals.TotalAmount.Equal(totals.TaxableAmount.Add(totals.TotalTax)))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, "212.40", pricing.Round2(item("2", "100", "10", "18").NetAmount()).StringFixed(2))
	assert.Equal(t, "12.29", pricing.Round2(dec("12.29385")).StringFixed(2))
}

func TestParseDecimal(t *testing.T) {
	assert.True(t, pricing.ParseDecimal(" 12.5 ").Equal(dec("12.5")))
	assert.True(t, pricing.ParseDecimal("").IsZero())
	assert.True(t, pricing.ParseDecimal("twelve").IsZero())
}
