package store

import (
	"time"

	"github.com/tallybook/tally/internal/ledger"
)

type Repository interface {
	// Account Operations
	CreateAccount(acc *ledger.Account) (int64, error)
	GetAllAccounts() ([]*ledger.Account, error)
	GetAccountByName(name string) (*ledger.Account, error)
	GetAccountByID(id int64) (*ledger.Account, error)
	GetAccountsByRole(role ledger.AccountRole) ([]*ledger.Account, error)
	GetSystemAccount(role ledger.AccountRole, atype ledger.AccountType, name string) (*ledger.Account, error)
	GetBudgetAccount(budgetID int64, atype ledger.AccountType) (*ledger.Account, error)
	AccountExists(name string) (bool, error)
	SetAccountActive(id int64, active bool) error

	// Transaction Operations
	SaveTransaction(txn *ledger.Transaction) (int64, error)
	ReplaceTransaction(txn *ledger.Transaction) error
	GetTransactionByID(txID int64) (*ledger.Transaction, error)
	GetTransactionByExternalID(externalID string) (*ledger.Transaction, error)
	GetTransactionsByAccount(accountID int64) ([]*ledger.Transaction, error)
	GetTransactionsByDateRange(from, to time.Time) ([]*ledger.Transaction, error)
	GetAllTransactions(limit int) ([]*ledger.Transaction, error)
	UpdateLineState(line *ledger.Line) error
	DeleteTransaction(txID int64) error
	ListEntries(filter EntryFilter) ([]EntryRecord, error)

	// Budget / Category / Payee Operations
	CreateBudget(name, currency string) (int64, error)
	GetBudgetByID(id int64) (*Budget, error)
	GetBudgetByName(name string) (*Budget, error)
	CreateCategory(c *Category) (int64, error)
	GetCategoryByID(id int64) (*Category, error)
	GetCategoriesByBudget(budgetID int64) ([]*Category, error)
	GetOrCreatePayee(name string) (*Payee, error)
	GetPayeeByID(id int64) (*Payee, error)
	GetAllPayees() ([]*Payee, error)

	ExecTx(fn func(Repository) error) error
	Close() error
}
