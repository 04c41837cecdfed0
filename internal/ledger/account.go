package ledger

// Account is the basic container for transaction lines. Each account holds a
// single currency, identified by its ISO 4217 code (or another security code
// up to eight characters). Role, type and currency are fixed once the
// account is referenced by postings; only Active may change afterwards.
type Account struct {
	ID       int64
	Name     string
	Role     AccountRole
	Type     AccountType
	Currency string
	Active   bool

	// BudgetID links Budget-role accounts to their budget; nil otherwise.
	BudgetID *int64

	DisplayOrder int
}

// Signs returns the account's (inflow, side) signs.
func (a *Account) Signs() (int, int) { return AccountSigns(a.Type) }

// InflowSign returns the sign of a balance change that increases net worth.
func (a *Account) InflowSign() int { return InflowSign(a.Type) }
