package store

// Budget groups categories and owns the per-budget Income/Expense accounts.
type Budget struct {
	ID       int64
	Name     string
	Currency string
}

// Category is a node in a budget's category tree. Groups carry no
// transactions themselves; only leaf categories may be assigned to splits.
type Category struct {
	ID           int64
	BudgetID     int64
	ParentID     *int64
	Name         string
	IsGroup      bool
	Hidden       bool
	DisplayOrder int
}

type Payee struct {
	ID   int64
	Name string
	Memo string
}
