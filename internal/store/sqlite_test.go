package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybook/tally/internal/ledger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "tally.db")
	s, err := NewStore(dbPath, os.DirFS("../.."))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func createTestAccount(t *testing.T, s *Store, name string, role ledger.AccountRole, atype ledger.AccountType, currency string) *ledger.Account {
	t.Helper()

	acc := &ledger.Account{
		Name:     name,
		Role:     role,
		Type:     atype,
		Currency: currency,
		Active:   true,
	}
	_, err := s.CreateAccount(acc)
	require.NoError(t, err)
	return acc
}

func buildTestTransaction(t *testing.T, left, right *ledger.Account, externalID string, date time.Time, amount string) *ledger.Transaction {
	t.Helper()

	txn, err := ledger.NewTransaction(left, date)
	require.NoError(t, err)
	txn.ExternalID = externalID

	ctx := ledger.Context{BaseCurrency: "USD"}
	_, err = txn.AddSplit(ctx, right, decimal.RequireFromString(amount), ledger.SplitParams{})
	require.NoError(t, err)
	return txn
}

func TestAccountRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	acc := createTestAccount(t, s, "Checking", ledger.RolePersonal, ledger.AccountTypeAsset, "USD")
	require.NotZero(t, acc.ID)

	byName, err := s.GetAccountByName("Checking")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, byName.ID)
	assert.Equal(t, ledger.AccountTypeAsset, byName.Type)
	assert.True(t, byName.Active)

	byID, err := s.GetAccountByID(acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checking", byID.Name)

	exists, err := s.AccountExists("Checking")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = s.GetAccountByName("Savings")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestCreateAccountDuplicateName(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	createTestAccount(t, s, "Checking", ledger.RolePersonal, ledger.AccountTypeAsset, "USD")

	_, err := s.CreateAccount(&ledger.Account{
		Name: "Checking", Role: ledger.RolePersonal, Type: ledger.AccountTypeAsset, Currency: "USD", Active: true,
	})
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestGetSystemAccount(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	createTestAccount(t, s, "_trading", ledger.RoleSystem, ledger.AccountTypeTrading, "USD")

	acc, err := s.GetSystemAccount(ledger.RoleSystem, ledger.AccountTypeTrading, "_trading")
	require.NoError(t, err)
	assert.Equal(t, "_trading", acc.Name)

	_, err = s.GetSystemAccount(ledger.RoleSystem, ledger.AccountTypeCapital, "_initial")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestSetAccountActive(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	acc := createTestAccount(t, s, "Old Wallet", ledger.RolePersonal, ledger.AccountTypeAsset, "USD")

	require.NoError(t, s.SetAccountActive(acc.ID, false))

	reloaded, err := s.GetAccountByID(acc.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Active)

	assert.ErrorIs(t, s.SetAccountActive(9999, false), ErrRecordNotFound)
}

func TestSaveTransactionRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	checking := createTestAccount(t, s, "Checking", ledger.RolePersonal, ledger.AccountTypeAsset, "USD")
	expense := createTestAccount(t, s, "_ob_expense", ledger.RoleSystem, ledger.AccountTypeExpense, "USD")

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txn := buildTestTransaction(t, checking, expense, "ext-1", date, "-42.5")
	txn.Memo = "groceries"

	id, err := s.SaveTransaction(txn)
	require.NoError(t, err)
	require.NotZero(t, id)

	loaded, err := s.GetTransactionByID(id)
	require.NoError(t, err)
	assert.Equal(t, "ext-1", loaded.ExternalID)
	assert.Equal(t, "groceries", loaded.Memo)
	assert.Equal(t, date, loaded.Date)
	assert.Equal(t, checking.ID, loaded.Account.ID)
	require.Len(t, loaded.Lines, 2)
	require.Len(t, loaded.Splits, 1)
	require.Len(t, loaded.Entries, 2)

	// The aggregate's local ids were remapped in place to the stored ones.
	assert.Equal(t, txn.Lines[0].ID, loaded.Lines[0].ID)

	left := loaded.LineForAccount(checking.ID)
	require.NotNil(t, left)
	assert.Equal(t, "-42.5", loaded.LineAmount(left.ID).String())

	right := loaded.LineForAccount(expense.ID)
	require.NotNil(t, right)
	assert.Equal(t, "42.5", loaded.LineAmount(right.ID).String())

	byExternal, err := s.GetTransactionByExternalID("ext-1")
	require.NoError(t, err)
	assert.Equal(t, id, byExternal.ID)
}

func TestSaveTransactionDuplicateExternalID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	checking := createTestAccount(t, s, "Checking", ledger.RolePersonal, ledger.AccountTypeAsset, "USD")
	expense := createTestAccount(t, s, "_ob_expense", ledger.RoleSystem, ledger.AccountTypeExpense, "USD")

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := s.SaveTransaction(buildTestTransaction(t, checking, expense, "ext-dup", date, "-10"))
	require.NoError(t, err)

	_, err = s.SaveTransaction(buildTestTransaction(t, checking, expense, "ext-dup", date, "-20"))
	assert.ErrorIs(t, err, ErrDuplicateExternalID)
}

func TestReplaceTransaction(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	checking := createTestAccount(t, s, "Checking", ledger.RolePersonal, ledger.AccountTypeAsset, "USD")
	expense := createTestAccount(t, s, "_ob_expense", ledger.RoleSystem, ledger.AccountTypeExpense, "USD")

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txn := buildTestTransaction(t, checking, expense, "ext-edit", date, "-42.5")
	_, err := s.SaveTransaction(txn)
	require.NoError(t, err)

	txn.Memo = "edited"
	txn.Date = date.AddDate(0, 0, 1)
	require.NoError(t, s.ReplaceTransaction(txn))

	loaded, err := s.GetTransactionByID(txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", loaded.Memo)
	assert.Equal(t, date.AddDate(0, 0, 1), loaded.Date)
	assert.Len(t, loaded.Lines, 2)
	assert.Len(t, loaded.Entries, 2)

	missing := buildTestTransaction(t, checking, expense, "ext-missing", date, "-1")
	missing.ID = 9999
	assert.ErrorIs(t, s.ReplaceTransaction(missing), ErrRecordNotFound)
}

func TestUpdateLineState(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	checking := createTestAccount(t, s, "Checking", ledger.RolePersonal, ledger.AccountTypeAsset, "USD")
	expense := createTestAccount(t, s, "_ob_expense", ledger.RoleSystem, ledger.AccountTypeExpense, "USD")

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txn := buildTestTransaction(t, checking, expense, "ext-clear", date, "-42.5")
	_, err := s.SaveTransaction(txn)
	require.NoError(t, err)

	line := txn.LineForAccount(checking.ID)
	require.NoError(t, txn.SetCleared(line.ID, true, time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, s.UpdateLineState(line))

	loaded, err := s.GetTransactionByID(txn.ID)
	require.NoError(t, err)
	reloadedLine := loaded.LineForAccount(checking.ID)
	require.NotNil(t, reloadedLine)
	assert.True(t, reloadedLine.Cleared)
	require.NotNil(t, reloadedLine.ClearedAt)
	assert.Equal(t, time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC).Unix(), reloadedLine.ClearedAt.Unix())
}

func TestDeleteTransactionCascades(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	checking := createTestAccount(t, s, "Checking", ledger.RolePersonal, ledger.AccountTypeAsset, "USD")
	expense := createTestAccount(t, s, "_ob_expense", ledger.RoleSystem, ledger.AccountTypeExpense, "USD")

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txn := buildTestTransaction(t, checking, expense, "ext-del", date, "-42.5")
	_, err := s.SaveTransaction(txn)
	require.NoError(t, err)

	require.NoError(t, s.DeleteTransaction(txn.ID))

	_, err = s.GetTransactionByID(txn.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	entries, err := s.ListEntries(EntryFilter{AccountID: checking.ID})
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, s.DeleteTransaction(txn.ID), ErrRecordNotFound)
}

func TestExecTxRollsBackOnError(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	err := s.ExecTx(func(repo Repository) error {
		if _, err := repo.CreateAccount(&ledger.Account{
			Name: "Doomed", Role: ledger.RolePersonal, Type: ledger.AccountTypeAsset, Currency: "USD", Active: true,
		}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	exists, err := s.AccountExists("Doomed")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetOrCreatePayee(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	first, err := s.GetOrCreatePayee("Grocer")
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	again, err := s.GetOrCreatePayee("Grocer")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	byID, err := s.GetPayeeByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grocer", byID.Name)
}

func TestBudgetAndCategories(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	budgetID, err := s.CreateBudget("Household", "USD")
	require.NoError(t, err)

	_, err = s.CreateBudget("Household", "USD")
	assert.ErrorIs(t, err, ErrConstraintViolation)

	incomeAcc := &ledger.Account{
		Name: "_budget_income", Role: ledger.RoleBudget, Type: ledger.AccountTypeIncome,
		Currency: "USD", Active: true, BudgetID: &budgetID,
	}
	_, err = s.CreateAccount(incomeAcc)
	require.NoError(t, err)

	found, err := s.GetBudgetAccount(budgetID, ledger.AccountTypeIncome)
	require.NoError(t, err)
	assert.Equal(t, incomeAcc.ID, found.ID)

	group := &Category{BudgetID: budgetID, Name: "_income", IsGroup: true}
	_, err = s.CreateCategory(group)
	require.NoError(t, err)

	child := &Category{BudgetID: budgetID, ParentID: &group.ID, Name: "Salary"}
	_, err = s.CreateCategory(child)
	require.NoError(t, err)

	loaded, err := s.GetCategoryByID(child.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.ParentID)
	assert.Equal(t, group.ID, *loaded.ParentID)

	all, err := s.GetCategoriesByBudget(budgetID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListEntriesFilters(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	checking := createTestAccount(t, s, "Checking", ledger.RolePersonal, ledger.AccountTypeAsset, "USD")
	savings := createTestAccount(t, s, "Savings", ledger.RolePersonal, ledger.AccountTypeAsset, "USD")
	expense := createTestAccount(t, s, "_ob_expense", ledger.RoleSystem, ledger.AccountTypeExpense, "USD")

	march := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	_, err := s.SaveTransaction(buildTestTransaction(t, checking, expense, "e-1", march, "-10"))
	require.NoError(t, err)
	_, err = s.SaveTransaction(buildTestTransaction(t, savings, expense, "e-2", april, "-20"))
	require.NoError(t, err)

	byAccount, err := s.ListEntries(EntryFilter{AccountID: checking.ID})
	require.NoError(t, err)
	require.Len(t, byAccount, 1)
	assert.Equal(t, "-10", byAccount[0].Amount.String())

	byRange, err := s.ListEntries(EntryFilter{From: april.AddDate(0, 0, -1)})
	require.NoError(t, err)
	// Both sides of the April transaction fall in range.
	assert.Len(t, byRange, 2)

	all, err := s.ListEntries(EntryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
