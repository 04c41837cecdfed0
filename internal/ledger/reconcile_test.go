package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCleared(t *testing.T) {
	t.Parallel()

	ctx := Context{BaseCurrency: "USD"}
	checking := testAccount(1, "checking", RolePersonal, AccountTypeAsset, "USD")
	groceries := testAccount(2, "groceries", RoleBudget, AccountTypeExpense, "USD")

	txn := newOutflow(t, ctx, 1, testDate, checking, groceries, "-50")
	ln := txn.LineForAccount(checking.ID)

	require.NoError(t, txn.SetCleared(ln.ID, true, testDate))
	assert.True(t, ln.Cleared)
	require.NotNil(t, ln.ClearedAt)
	assert.True(t, ln.ClearedAt.Equal(testDate))

	// Clearing again is a no-op and keeps the original timestamp.
	later := testDate.AddDate(0, 0, 5)
	require.NoError(t, txn.SetCleared(ln.ID, true, later))
	assert.True(t, ln.ClearedAt.Equal(testDate))

	require.NoError(t, txn.SetCleared(ln.ID, false, later))
	assert.False(t, ln.Cleared)
	assert.Nil(t, ln.ClearedAt)

	err := txn.SetCleared(999, true, testDate)
	require.Error(t, err)
	assert.True(t, IsDomainError(err))
}

func TestReconcileAccount(t *testing.T) {
	t.Parallel()

	ctx := Context{BaseCurrency: "USD"}
	checking := testAccount(1, "checking", RolePersonal, AccountTypeAsset, "USD")
	groceries := testAccount(2, "groceries", RoleBudget, AccountTypeExpense, "USD")

	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	day3 := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	statementDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	deposit := newOutflow(t, ctx, 1, day1, checking, groceries, "600")
	spent := newOutflow(t, ctx, 2, day2, checking, groceries, "-20")
	pending := newOutflow(t, ctx, 3, day2, checking, groceries, "-5")
	future := newOutflow(t, ctx, 4, day3, checking, groceries, "-100")

	clear := func(txn *Transaction) {
		ln := txn.LineForAccount(checking.ID)
		require.NoError(t, txn.SetCleared(ln.ID, true, txn.Date))
	}
	clear(deposit)
	clear(spent)
	clear(future) // cleared but dated after the statement, so not selected

	txns := []*Transaction{deposit, spent, pending, future}

	newly, err := ReconcileAccount(checking, txns, statementDate, dec("580"))
	require.NoError(t, err)
	require.Len(t, newly, 2)

	for _, txn := range []*Transaction{deposit, spent} {
		ln := txn.LineForAccount(checking.ID)
		assert.True(t, ln.Reconciled, "txn %d", txn.ID)
		require.NotNil(t, ln.ReconciledAt)
		assert.True(t, ln.ReconciledAt.Equal(statementDate))
	}
	assert.False(t, pending.LineForAccount(checking.ID).Reconciled)
	assert.False(t, future.LineForAccount(checking.ID).Reconciled)
}

func TestReconcileAccountMismatchChangesNothing(t *testing.T) {
	t.Parallel()

	ctx := Context{BaseCurrency: "USD"}
	checking := testAccount(1, "checking", RolePersonal, AccountTypeAsset, "USD")
	groceries := testAccount(2, "groceries", RoleBudget, AccountTypeExpense, "USD")

	deposit := newOutflow(t, ctx, 1, testDate, checking, groceries, "600")
	spent := newOutflow(t, ctx, 2, testDate, checking, groceries, "-20")
	for _, txn := range []*Transaction{deposit, spent} {
		ln := txn.LineForAccount(checking.ID)
		require.NoError(t, txn.SetCleared(ln.ID, true, testDate))
	}

	newly, err := ReconcileAccount(checking, []*Transaction{deposit, spent}, testDate, dec("579"))
	require.Error(t, err)
	assert.True(t, IsDomainError(err))
	assert.Nil(t, newly)

	for _, txn := range []*Transaction{deposit, spent} {
		ln := txn.LineForAccount(checking.ID)
		assert.True(t, ln.Cleared)
		assert.False(t, ln.Reconciled)
		assert.Nil(t, ln.ReconciledAt)
	}
}

func TestReconcileAccountSkipsAlreadyReconciled(t *testing.T) {
	t.Parallel()

	ctx := Context{BaseCurrency: "USD"}
	checking := testAccount(1, "checking", RolePersonal, AccountTypeAsset, "USD")
	groceries := testAccount(2, "groceries", RoleBudget, AccountTypeExpense, "USD")

	first := newOutflow(t, ctx, 1, testDate, checking, groceries, "600")
	ln := first.LineForAccount(checking.ID)
	require.NoError(t, first.SetCleared(ln.ID, true, testDate))

	newly, err := ReconcileAccount(checking, []*Transaction{first}, testDate, dec("600"))
	require.NoError(t, err)
	require.Len(t, newly, 1)
	firstReconciledAt := *first.LineForAccount(checking.ID).ReconciledAt

	// A later statement covering the same period re-selects the reconciled
	// line for the sum but only flips lines that are still unreconciled.
	laterDate := testDate.AddDate(0, 1, 0)
	second := newOutflow(t, ctx, 2, laterDate, checking, groceries, "-100")
	ln2 := second.LineForAccount(checking.ID)
	require.NoError(t, second.SetCleared(ln2.ID, true, laterDate))

	newly, err = ReconcileAccount(checking, []*Transaction{first, second}, laterDate, dec("500"))
	require.NoError(t, err)
	require.Len(t, newly, 1)
	assert.Equal(t, int64(2), newly[0].ID)
	assert.True(t, first.LineForAccount(checking.ID).ReconciledAt.Equal(firstReconciledAt))
}

func TestReconciledLineIsImmutable(t *testing.T) {
	t.Parallel()

	ctx := Context{BaseCurrency: "USD"}
	checking := testAccount(1, "checking", RolePersonal, AccountTypeAsset, "USD")
	groceries := testAccount(2, "groceries", RoleBudget, AccountTypeExpense, "USD")

	txn := newOutflow(t, ctx, 1, testDate, checking, groceries, "-50")
	ln := txn.LineForAccount(checking.ID)
	require.NoError(t, txn.SetCleared(ln.ID, true, testDate))

	_, err := ReconcileAccount(checking, []*Transaction{txn}, testDate, dec("-50"))
	require.NoError(t, err)
	require.True(t, ln.Reconciled)

	// Neither direction of SetCleared may touch a reconciled line.
	err = txn.SetCleared(ln.ID, false, testDate)
	require.Error(t, err)
	assert.True(t, IsDomainError(err))
	err = txn.SetCleared(ln.ID, true, testDate)
	require.Error(t, err)
	assert.True(t, IsDomainError(err))

	assert.True(t, ln.Cleared)
	assert.True(t, txn.HasReconciledLine())
}
