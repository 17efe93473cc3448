package view

import (
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with two decimal places, which is the
// only precision shown to users even though the engine carries more.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
