package ledger

import "github.com/shopspring/decimal"

// convertedAmounts is the result of resolving a split's currency
// combination: the amounts posted to the left and right lines, each in its
// own account's currency, and whether a trading account must bridge them.
type convertedAmounts struct {
	left         decimal.Decimal
	right        decimal.Decimal
	needsTrading bool
}

// resolveConversion classifies the three currencies of a proposed split
// (transaction, left account, right account) against the base currency.
//
// A transaction may involve at most two currencies: the base currency and
// the transaction's declared foreign currency. The exchange rate is defined
// as base per foreign (the cost in base currency of one unit of the foreign
// currency) regardless of which currency the transaction is denominated in.
// The valid combinations are:
//
//	1   L == R == T == B    no conversion
//	2   L == R == T == F    wholly foreign, amounts already correct
//	3a  L == R == B, T == F both sides converted to base
//	3b  L == R == F, T == B both sides converted to foreign
//	4a  L == F, R == B, T == B   left side converted to foreign
//	4b  L == B, R == F, T == B   right side converted to foreign
//	4c  L == F, R == B, T == F   right side converted to base
//	4d  L == B, R == F, T == F   left side converted to base
//
// Anything else (a third currency, or a missing foreign currency or
// exchange rate) is rejected with a DomainError. A trading account is
// required exactly when the two posting currencies differ (cases 4a-4d).
func resolveConversion(ctx Context, txnCurrency, foreignCurrency string, rate decimal.Decimal, left, right *Account, amount decimal.Decimal) (convertedAmounts, error) {
	conv := convertedAmounts{left: amount, right: amount}

	b := ctx.BaseCurrency
	l := left.Currency
	r := right.Currency
	t := txnCurrency
	f := foreignCurrency

	isForeign := l != b || r != b || t != b
	if isForeign {
		if f == "" {
			return conv, domainf(
				"transaction foreign currency must be assigned before adding a split in a foreign currency")
		}
		if rate.IsZero() {
			return conv, domainf(
				"transaction exchange rate must be assigned before adding a split in a foreign currency")
		}

		switch {
		case l == t && r == t && t == f:
			// Case 2: amounts are already in the (foreign) posting currency.

		case l == b && r == b && t == f:
			// Case 3a: convert both sides to base.
			conv.left = amount.Mul(rate)
			conv.right = conv.left

		case l == f && r == f && t == b:
			// Case 3b: convert both sides to foreign.
			conv.left = amount.Div(rate)
			conv.right = conv.left

		case l == f && r == b && t == b:
			// Case 4a
			conv.left = amount.Div(rate)

		case l == b && r == f && t == b:
			// Case 4b
			conv.right = amount.Div(rate)

		case l == f && r == b && t == f:
			// Case 4c
			conv.right = amount.Mul(rate)

		case l == b && r == f && t == f:
			// Case 4d
			conv.left = amount.Mul(rate)

		default:
			return conv, domainf(
				"invalid currency combination (transaction %s, left %s, right %s, base %s, foreign %s): only the base currency and the transaction foreign currency may appear",
				t, l, r, b, f)
		}
	}

	conv.needsTrading = l != r
	return conv, nil
}
