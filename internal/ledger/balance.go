package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BalanceLine is one row of the running-balance view: the amount a
// transaction posted to an account and the inclusive cumulative balance of
// that account up to and including the row.
type BalanceLine struct {
	AccountID     int64
	TransactionID int64
	LineID        int64
	Amount        decimal.Decimal
	Balance       decimal.Decimal
	Currency      string
}

// RunningBalances derives per-account running balances from the
// transactions' entries. Rows are partitioned by account and ordered by
// (transaction date, amount, transaction id) ascending, or the exact
// reverse, and each partition carries an inclusive cumulative sum.
//
// The same ordering is used everywhere balances are derived, so two
// computations over the same set of transactions always agree. The function
// is read-only and safe for concurrent callers given a consistent snapshot.
func RunningBalances(txns []*Transaction, reverse bool) []BalanceLine {
	var rows []BalanceLine
	for _, txn := range txns {
		for _, ln := range txn.Lines {
			entries := txn.LineEntries(ln.ID)
			if len(entries) == 0 {
				continue
			}
			rows = append(rows, BalanceLine{
				AccountID:     ln.AccountID,
				TransactionID: txn.ID,
				LineID:        ln.ID,
				Amount:        txn.LineAmount(ln.ID),
				Currency:      entries[0].Currency,
			})
		}
	}

	dates := make(map[int64]int64, len(txns))
	for _, txn := range txns {
		dates[txn.ID] = txn.Date.Unix()
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.AccountID != b.AccountID {
			return a.AccountID < b.AccountID
		}
		if da, db := dates[a.TransactionID], dates[b.TransactionID]; da != db {
			return da < db
		}
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c < 0
		}
		return a.TransactionID < b.TransactionID
	})

	sum := decimal.Zero
	var account int64
	start := 0
	for i := range rows {
		if rows[i].AccountID != account || i == 0 {
			if reverse && i > 0 {
				reverseRows(rows[start:i])
			}
			account = rows[i].AccountID
			sum = decimal.Zero
			start = i
		}
		sum = sum.Add(rows[i].Amount)
		rows[i].Balance = sum
	}
	if reverse && len(rows) > 0 {
		reverseRows(rows[start:])
	}

	return rows
}

func reverseRows(rows []BalanceLine) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// AccountBalance sums every entry posted to the account across the given
// transactions and applies the account's inflow sign, so a growing Asset
// and a growing Liability both report a positive balance.
func AccountBalance(account *Account, txns []*Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, txn := range txns {
		if ln := txn.LineForAccount(account.ID); ln != nil {
			sum = sum.Add(txn.LineAmount(ln.ID))
		}
	}
	return mulSign(account.InflowSign(), sum)
}
