package ledger

// AccountType classifies an account within the accounting equation
//
//	Assets - Liabilities = Capital + Income - Expenses
//
// The set is closed: the sign resolver and the currency conversion resolver
// switch exhaustively over it, so adding a type forces a review of both.
type AccountType string

const (
	AccountTypeAsset     AccountType = "A"
	AccountTypeLiability AccountType = "L"
	AccountTypeIncome    AccountType = "I"
	AccountTypeExpense   AccountType = "E"
	AccountTypeCapital   AccountType = "C"
	AccountTypeTrading   AccountType = "T"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeIncome,
		AccountTypeExpense, AccountTypeCapital, AccountTypeTrading:
		return true
	}
	return false
}

// AccountRole categorizes an account's place in the budgeting flow.
// System accounts are hidden bookkeeping accounts (opening balances,
// off-budget income/expense, the currency trading account); Personal
// accounts are the user's bank/institution accounts; Budget accounts are the
// income/expense accounts belonging to a budget; Trading accounts absorb
// currency conversion differences.
type AccountRole string

const (
	RoleSystem   AccountRole = "system"
	RolePersonal AccountRole = "personal"
	RoleBudget   AccountRole = "budget"
	RoleTrading  AccountRole = "trading"
)

func (r AccountRole) Valid() bool {
	switch r {
	case RoleSystem, RolePersonal, RoleBudget, RoleTrading:
		return true
	}
	return false
}

// TransactionType describes the direction of a split relative to the
// transaction's source account. Transfers move funds between two Personal
// accounts; System splits are generated internally (opening balances).
type TransactionType string

const (
	TransactionInflow   TransactionType = "inflow"
	TransactionOutflow  TransactionType = "outflow"
	TransactionTransfer TransactionType = "transfer"
	TransactionSystem   TransactionType = "system"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionInflow, TransactionOutflow, TransactionTransfer, TransactionSystem:
		return true
	}
	return false
}
