package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/internal/moneyfmt"
)

// Line states: Uncleared (cleared=false) -> Cleared (cleared=true) ->
// Reconciled (cleared and reconciled). Reconciled is terminal: there is no
// un-reconcile operation.

// SetCleared transitions a line between Uncleared and Cleared. Clearing an
// already-cleared line is a no-op; changing the cleared status of a
// reconciled line in either direction fails and leaves the line untouched.
func (t *Transaction) SetCleared(lineID int64, cleared bool, at time.Time) error {
	ln := t.Line(lineID)
	if ln == nil {
		return domainf("line %d does not exist in transaction %d", lineID, t.ID)
	}
	if ln.Reconciled {
		return domainf("cannot change the cleared status of a reconciled line")
	}

	if cleared && !ln.Cleared {
		ln.Cleared = true
		d := at
		ln.ClearedAt = &d
	}
	if !cleared {
		ln.Cleared = false
		ln.ClearedAt = nil
	}
	return nil
}

// ReconcileAccount matches the account's cleared lines dated on or before
// statementDate against an external statement balance. On a match every
// selected line that is not yet reconciled transitions to Reconciled with
// reconciled_at = statementDate, and the transactions owning those lines are
// returned. On a mismatch nothing changes and a DomainError reports both
// balances: the check and the act form one atomic unit.
//
// The caller must give ReconcileAccount a stable snapshot of the account's
// transactions (e.g. run it inside the store transaction that will persist
// the flipped lines).
func ReconcileAccount(account *Account, txns []*Transaction, statementDate time.Time, statementBalance decimal.Decimal) ([]*Transaction, error) {
	type selected struct {
		txn    *Transaction
		lineID int64
	}

	var lines []selected
	clearedSum := decimal.Zero
	for _, txn := range txns {
		ln := txn.LineForAccount(account.ID)
		if ln == nil || !ln.Cleared || txn.Date.After(statementDate) {
			continue
		}
		lines = append(lines, selected{txn: txn, lineID: ln.ID})
		clearedSum = clearedSum.Add(txn.LineAmount(ln.ID))
	}

	if !clearedSum.Equal(statementBalance) {
		return nil, domainf("statement balance of %s does not match cleared balance of %s",
			moneyfmt.Format(statementBalance, account.Currency),
			moneyfmt.Format(clearedSum, account.Currency))
	}

	var newly []*Transaction
	for _, sel := range lines {
		ln := sel.txn.Line(sel.lineID)
		if ln.Reconciled {
			continue
		}
		ln.Reconciled = true
		d := statementDate
		ln.ReconciledAt = &d
		newly = append(newly, sel.txn)
	}
	return newly, nil
}
