package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountSigns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		accountType AccountType
		inflow      int
		side        int
	}{
		{AccountTypeAsset, 1, 1},
		{AccountTypeLiability, -1, 1},
		{AccountTypeCapital, 1, -1},
		{AccountTypeIncome, 1, -1},
		{AccountTypeExpense, -1, -1},
		{AccountTypeTrading, 1, -1},
	}

	for _, tc := range tests {
		t.Run(string(tc.accountType), func(t *testing.T) {
			t.Parallel()

			inflow, side := AccountSigns(tc.accountType)
			assert.Equal(t, tc.inflow, inflow)
			assert.Equal(t, tc.side, side)
			assert.Equal(t, tc.inflow, InflowSign(tc.accountType))
		})
	}
}

func TestAccountSignsUnknownTypePanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { AccountSigns(AccountType("X")) })
}

func TestOpposingSign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b AccountType
		want int
	}{
		{"asset vs expense", AccountTypeAsset, AccountTypeExpense, -1},
		{"asset vs income", AccountTypeAsset, AccountTypeIncome, 1},
		{"asset vs asset", AccountTypeAsset, AccountTypeAsset, -1},
		{"asset vs liability", AccountTypeAsset, AccountTypeLiability, 1},
		{"asset vs trading", AccountTypeAsset, AccountTypeTrading, 1},
		{"liability vs expense", AccountTypeLiability, AccountTypeExpense, 1},
		{"liability vs income", AccountTypeLiability, AccountTypeIncome, -1},
		{"liability vs capital", AccountTypeLiability, AccountTypeCapital, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, OpposingSign(tc.a, tc.b))
		})
	}
}

// OpposingSign is symmetric: swapping the two account types never changes
// the sign, since the product of all four signs is unchanged.
func TestOpposingSignSymmetric(t *testing.T) {
	t.Parallel()

	types := []AccountType{
		AccountTypeAsset, AccountTypeLiability, AccountTypeIncome,
		AccountTypeExpense, AccountTypeCapital, AccountTypeTrading,
	}
	for _, a := range types {
		for _, b := range types {
			assert.Equal(t, OpposingSign(a, b), OpposingSign(b, a), "%s vs %s", a, b)
		}
	}
}
