package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybook/tally/internal/config"
	"github.com/tallybook/tally/internal/constants"
	"github.com/tallybook/tally/internal/ledger"
	"github.com/tallybook/tally/internal/store"
)

func newTestService(t *testing.T) (*Service, store.Repository) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "tally.db")
	repo, err := store.NewStore(dbPath, os.DirFS("../.."))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Close()
	})

	cfg := config.NewDefault()
	cfg.Defaults.Currency = "USD"

	svc := NewService(repo, cfg)
	require.NoError(t, svc.Account.EnsureSystemAccounts())
	return svc, repo
}

func createCheckingAccount(t *testing.T, svc *Service, name string, balance string) *ledger.Account {
	t.Helper()

	acc, err := svc.Account.CreateAccount(CreateAccountInput{
		Name:        name,
		Type:        ledger.AccountTypeAsset,
		Balance:     decimal.RequireFromString(balance),
		BalanceDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return acc
}

func TestEnsureSystemAccountsIdempotent(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService(t)

	// A second run must not fail or duplicate anything.
	require.NoError(t, svc.Account.EnsureSystemAccounts())

	system, err := repo.GetAccountsByRole(ledger.RoleSystem)
	require.NoError(t, err)
	assert.Len(t, system, 4)

	trading, err := repo.GetSystemAccount(ledger.RoleSystem, ledger.AccountTypeTrading, constants.SystemAccountTrading)
	require.NoError(t, err)
	assert.Equal(t, "USD", trading.Currency)
}

func TestCreateAccountWithOpeningBalance(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	createCheckingAccount(t, svc, "Checking", "1000")

	balance, err := svc.Account.AccountBalance("Checking")
	require.NoError(t, err)
	assert.Equal(t, "1000", balance.String())

	txns, err := svc.Ledger.GetRecentTransactions(10)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, ledger.TransactionSystem, txns[0].Splits[0].Type)
	assert.Equal(t, "Starting Balance", svc.Ledger.PayeeName(txns[0].PayeeID))
}

func TestCreateAccountRejectsBadInput(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	_, err := svc.Account.CreateAccount(CreateAccountInput{Name: "Cash", Type: ledger.AccountTypeIncome})
	assert.Error(t, err)

	_, err = svc.Account.CreateAccount(CreateAccountInput{Name: "", Type: ledger.AccountTypeAsset})
	assert.Error(t, err)

	// Foreign currency opening balance without a rate.
	_, err = svc.Account.CreateAccount(CreateAccountInput{
		Name:        "EUR Wallet",
		Type:        ledger.AccountTypeAsset,
		Currency:    "EUR",
		Balance:     decimal.RequireFromString("100"),
		BalanceDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Error(t, err)
}

func TestCreateForeignCurrencyAccount(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	_, err := svc.Account.CreateAccount(CreateAccountInput{
		Name:         "EUR Wallet",
		Type:         ledger.AccountTypeAsset,
		Currency:     "EUR",
		Balance:      decimal.RequireFromString("100"),
		BalanceDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ExchangeRate: decimal.RequireFromString("1.25"),
	})
	require.NoError(t, err)

	balance, err := svc.Account.AccountBalance("EUR Wallet")
	require.NoError(t, err)
	assert.Equal(t, "100", balance.String())

	// The opening posts through the trading account: four entries.
	txns, err := svc.Ledger.GetTransactionHistory("EUR Wallet")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Len(t, txns[0].Entries, 4)
	assert.Equal(t, "EUR", txns[0].ForeignCurrency)
	assert.Equal(t, "1.25", txns[0].ForeignRate.String())
}

func TestCreateTransactionUncategorizedOutflow(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService(t)
	createCheckingAccount(t, svc, "Checking", "1000")

	txn, err := svc.Ledger.CreateTransaction(TransactionInput{
		AccountName: "Checking",
		Date:        time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Payee:       "Grocer",
		Amount:      decimal.RequireFromString("-42.5"),
		Splits:      []SplitInput{{Amount: decimal.RequireFromString("-42.5")}},
	})
	require.NoError(t, err)
	require.Len(t, txn.Splits, 1)
	assert.Equal(t, ledger.TransactionOutflow, txn.Splits[0].Type)

	// The opposing line lands on the off-budget expense account.
	obExpense, err := repo.GetSystemAccount(ledger.RoleSystem, ledger.AccountTypeExpense, constants.SystemAccountOBExpense)
	require.NoError(t, err)
	require.NotNil(t, txn.LineForAccount(obExpense.ID))

	balance, err := svc.Account.AccountBalance("Checking")
	require.NoError(t, err)
	assert.Equal(t, "957.5", balance.String())
}

func TestCreateTransactionTransfer(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	createCheckingAccount(t, svc, "Checking", "1000")
	createCheckingAccount(t, svc, "Savings", "0")

	txn, err := svc.Ledger.CreateTransaction(TransactionInput{
		AccountName: "Checking",
		Date:        time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("-100"),
		Splits:      []SplitInput{{Amount: decimal.RequireFromString("-100"), TransferAccount: "Savings"}},
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.TransactionTransfer, txn.Splits[0].Type)

	checking, err := svc.Account.AccountBalance("Checking")
	require.NoError(t, err)
	assert.Equal(t, "900", checking.String())

	savings, err := svc.Account.AccountBalance("Savings")
	require.NoError(t, err)
	assert.Equal(t, "100", savings.String())
}

func TestCreateTransactionRejections(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService(t)
	createCheckingAccount(t, svc, "Checking", "1000")

	budgetID, err := repo.CreateBudget("Household", "USD")
	require.NoError(t, err)
	group := &store.Category{BudgetID: budgetID, Name: "Everyday", IsGroup: true}
	_, err = repo.CreateCategory(group)
	require.NoError(t, err)
	child := &store.Category{BudgetID: budgetID, ParentID: &group.ID, Name: "Food"}
	_, err = repo.CreateCategory(child)
	require.NoError(t, err)

	// A transfer split may not carry a category.
	_, err = svc.Ledger.CreateTransaction(TransactionInput{
		AccountName: "Checking",
		Date:        time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("-10"),
		Splits:      []SplitInput{{Amount: decimal.RequireFromString("-10"), TransferAccount: "Checking", CategoryID: &child.ID}},
	})
	assert.True(t, ledger.IsDomainError(err))

	// Checking is off-budget, so categorized splits are refused.
	_, err = svc.Ledger.CreateTransaction(TransactionInput{
		AccountName: "Checking",
		Date:        time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("-10"),
		Splits:      []SplitInput{{Amount: decimal.RequireFromString("-10"), CategoryID: &child.ID}},
	})
	assert.True(t, ledger.IsDomainError(err))

	// Split amounts must sum to the transaction total.
	_, err = svc.Ledger.CreateTransaction(TransactionInput{
		AccountName: "Checking",
		Date:        time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("-30"),
		Splits: []SplitInput{
			{Amount: decimal.RequireFromString("-10")},
			{Amount: decimal.RequireFromString("-10")},
		},
	})
	assert.True(t, ledger.IsDomainError(err))
}

func TestCreateTransactionCategorized(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService(t)

	budgetID, err := repo.CreateBudget("Household", "USD")
	require.NoError(t, err)

	incomeAcc := &ledger.Account{Name: "_household_income", Role: ledger.RoleBudget, Type: ledger.AccountTypeIncome, Currency: "USD", Active: true, BudgetID: &budgetID}
	_, err = repo.CreateAccount(incomeAcc)
	require.NoError(t, err)
	expenseAcc := &ledger.Account{Name: "_household_expense", Role: ledger.RoleBudget, Type: ledger.AccountTypeExpense, Currency: "USD", Active: true, BudgetID: &budgetID}
	_, err = repo.CreateAccount(expenseAcc)
	require.NoError(t, err)

	incomeGroup := &store.Category{BudgetID: budgetID, Name: "_income", IsGroup: true}
	_, err = repo.CreateCategory(incomeGroup)
	require.NoError(t, err)
	salary := &store.Category{BudgetID: budgetID, ParentID: &incomeGroup.ID, Name: "Salary"}
	_, err = repo.CreateCategory(salary)
	require.NoError(t, err)

	everydayGroup := &store.Category{BudgetID: budgetID, Name: "Everyday", IsGroup: true}
	_, err = repo.CreateCategory(everydayGroup)
	require.NoError(t, err)
	food := &store.Category{BudgetID: budgetID, ParentID: &everydayGroup.ID, Name: "Food"}
	_, err = repo.CreateCategory(food)
	require.NoError(t, err)

	_, err = svc.Account.CreateAccount(CreateAccountInput{
		Name:     "Budget Checking",
		Type:     ledger.AccountTypeAsset,
		BudgetID: &budgetID,
	})
	require.NoError(t, err)

	// A split under the '_income' group opposes the budget income account.
	txn, err := svc.Ledger.CreateTransaction(TransactionInput{
		AccountName: "Budget Checking",
		Date:        time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("2500"),
		Splits:      []SplitInput{{Amount: decimal.RequireFromString("2500"), CategoryID: &salary.ID}},
	})
	require.NoError(t, err)
	require.NotNil(t, txn.LineForAccount(incomeAcc.ID))
	require.NotNil(t, txn.Splits[0].CategoryID)
	assert.Equal(t, salary.ID, *txn.Splits[0].CategoryID)

	// Any other group opposes the budget expense account; splits may mix.
	txn, err = svc.Ledger.CreateTransaction(TransactionInput{
		AccountName: "Budget Checking",
		Date:        time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("-60"),
		Splits: []SplitInput{
			{Amount: decimal.RequireFromString("-40"), CategoryID: &food.ID},
			{Amount: decimal.RequireFromString("-20")},
		},
	})
	require.NoError(t, err)
	assert.Len(t, txn.Splits, 2)
	require.NotNil(t, txn.LineForAccount(expenseAcc.ID))

	// Category groups themselves can't take transactions.
	_, err = svc.Ledger.CreateTransaction(TransactionInput{
		AccountName: "Budget Checking",
		Date:        time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("-10"),
		Splits:      []SplitInput{{Amount: decimal.RequireFromString("-10"), CategoryID: &everydayGroup.ID}},
	})
	assert.True(t, ledger.IsDomainError(err))
}

func TestUpdateTransaction(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	createCheckingAccount(t, svc, "Checking", "0")

	txn, err := svc.Ledger.CreateTransaction(TransactionInput{
		AccountName: "Checking",
		Date:        time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Payee:       "Grocer",
		Amount:      decimal.RequireFromString("-42.5"),
		Splits:      []SplitInput{{Amount: decimal.RequireFromString("-42.5")}},
	})
	require.NoError(t, err)

	memo := "weekly shop"
	newDate := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Ledger.UpdateTransaction(UpdateTransactionInput{
		TransactionID: txn.ID,
		Date:          &newDate,
		Memo:          &memo,
		Amount:        decimal.RequireFromString("-50"),
		Splits:        []SplitInput{{Amount: decimal.RequireFromString("-50")}},
	})
	require.NoError(t, err)
	assert.Equal(t, memo, updated.Memo)
	assert.Equal(t, newDate, updated.Date)

	balance, err := svc.Account.AccountBalance("Checking")
	require.NoError(t, err)
	assert.Equal(t, "-50", balance.String())

	// Clearing the payee detaches it.
	empty := ""
	updated, err = svc.Ledger.UpdateTransaction(UpdateTransactionInput{
		TransactionID: txn.ID,
		Payee:         &empty,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.PayeeID)
}

func TestClearAndReconcileFlow(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	createCheckingAccount(t, svc, "Checking", "0")

	mkTxn := func(day int, amount string) *ledger.Transaction {
		txn, err := svc.Ledger.CreateTransaction(TransactionInput{
			AccountName: "Checking",
			Date:        time.Date(2025, 2, day, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString(amount),
			Splits:      []SplitInput{{Amount: decimal.RequireFromString(amount)}},
		})
		require.NoError(t, err)
		return txn
	}

	cleared := mkTxn(1, "-10")
	pending := mkTxn(2, "-20")

	require.NoError(t, svc.Ledger.SetCleared(cleared.ID, "Checking", true))

	statementDate := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)

	// A mismatching statement changes nothing.
	_, err := svc.Ledger.ReconcileAccount("Checking", statementDate, decimal.RequireFromString("-15"))
	assert.True(t, ledger.IsDomainError(err))

	reloaded, err := svc.Ledger.GetTransactionByID(cleared.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.HasReconciledLine())

	// The matching statement flips the cleared line to reconciled.
	result, err := svc.Ledger.ReconcileAccount("Checking", statementDate, decimal.RequireFromString("-10"))
	require.NoError(t, err)
	require.Len(t, result.Reconciled, 1)
	assert.Equal(t, cleared.ID, result.Reconciled[0].ID)

	reloaded, err = svc.Ledger.GetTransactionByID(cleared.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.HasReconciledLine())

	// Reconciled transactions refuse deletion and split edits.
	err = svc.Ledger.DeleteTransaction(cleared.ID)
	assert.True(t, ledger.IsDomainError(err))

	_, err = svc.Ledger.UpdateTransaction(UpdateTransactionInput{
		TransactionID: cleared.ID,
		Amount:        decimal.RequireFromString("-99"),
		Splits:        []SplitInput{{Amount: decimal.RequireFromString("-99")}},
	})
	assert.Error(t, err)

	// The pending transaction is untouched and still deletable.
	require.NoError(t, svc.Ledger.DeleteTransaction(pending.ID))
}

func TestAccountLinesRunningBalance(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	createCheckingAccount(t, svc, "Checking", "1000")

	for day, amount := range map[int]string{10: "-60", 20: "-40"} {
		_, err := svc.Ledger.CreateTransaction(TransactionInput{
			AccountName: "Checking",
			Date:        time.Date(2025, 2, day, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString(amount),
			Splits:      []SplitInput{{Amount: decimal.RequireFromString(amount)}},
		})
		require.NoError(t, err)
	}

	rows, err := svc.Ledger.AccountLines("Checking", false)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "1000", rows[0].Balance.String())
	assert.Equal(t, "940", rows[1].Balance.String())
	assert.Equal(t, "900", rows[2].Balance.String())

	reversed, err := svc.Ledger.AccountLines("Checking", true)
	require.NoError(t, err)
	require.Len(t, reversed, 3)
	assert.Equal(t, "900", reversed[0].Balance.String())
	assert.Equal(t, "1000", reversed[2].Balance.String())
}

func TestSetClearedUnknownLine(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	createCheckingAccount(t, svc, "Checking", "0")
	createCheckingAccount(t, svc, "Savings", "0")

	txn, err := svc.Ledger.CreateTransaction(TransactionInput{
		AccountName: "Checking",
		Date:        time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("-10"),
		Splits:      []SplitInput{{Amount: decimal.RequireFromString("-10")}},
	})
	require.NoError(t, err)

	// Savings has no line on this transaction.
	err = svc.Ledger.SetCleared(txn.ID, "Savings", true)
	assert.True(t, ledger.IsDomainError(err))
}
