// Package moneyfmt renders exact decimal amounts for human-readable output.
package moneyfmt

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Format renders amount with the symbol and grouping rules of the given
// currency, e.g. "$1,234.50". Codes go-money does not know (security codes,
// test currencies) fall back to "<amount> <code>".
func Format(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	units := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(units.IntPart(), currency).Display()
}
