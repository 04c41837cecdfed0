package constants

// Well-known system account names, created once per ledger by
// EnsureSystemAccounts and hidden from account listings.
const (
	SystemAccountInitial   = "_initial"
	SystemAccountOBIncome  = "_ob_income"
	SystemAccountOBExpense = "_ob_expense"
	SystemAccountTrading   = "_trading"
)

const (
	InitialPayeeName   = "Starting Balance"
	OpeningBalanceMemo = "Opening Balance"
)

const MaxNameLen = 100
