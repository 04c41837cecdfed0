package ledger

import "fmt"

// AccountSigns returns the inflow and side signs for an account type.
//
// The inflow sign is the sign of a balance change that increases net worth:
// +1 for Asset, Capital, Income and Trading accounts, -1 for Liability and
// Expense accounts. The side sign is +1 for the left side of the accounting
// equation (Asset, Liability) and -1 for the right side (Capital, Income,
// Expense, Trading); it corrects the opposing line of a double-entry pair so
// an increase in net worth on one side matches the other.
func AccountSigns(t AccountType) (inflowSign, sideSign int) {
	switch t {
	case AccountTypeAsset:
		return 1, 1
	case AccountTypeLiability:
		return -1, 1
	case AccountTypeCapital, AccountTypeIncome, AccountTypeTrading:
		return 1, -1
	case AccountTypeExpense:
		return -1, -1
	}
	// Unknown types indicate a corrupted account record, not user input.
	panic(fmt.Sprintf("ledger: unknown account type %q", string(t)))
}

// InflowSign returns only the inflow sign for an account type.
func InflowSign(t AccountType) int {
	inflow, _ := AccountSigns(t)
	return inflow
}

// OpposingSign returns the sign to apply to the opposing line amount of a
// double-entry pair between an account of type a and one of type b, keeping
// the accounting equation balanced.
func OpposingSign(a, b AccountType) int {
	ai, as := AccountSigns(a)
	bi, bs := AccountSigns(b)
	return -1 * ai * as * bi * bs
}
