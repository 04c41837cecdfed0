package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Line is the per-account view of a Transaction: the sum of all entries a
// transaction posts to one account, plus the clearing/reconciliation state
// of that posting. At most one Line exists per (Transaction, Account).
type Line struct {
	ID        int64
	AccountID int64

	Cleared      bool
	ClearedAt    *time.Time
	Reconciled   bool
	ReconciledAt *time.Time
}

// Split is one categorized or transferred amount within a Transaction. It
// references exactly two lines: the left line is always the transaction's
// own account, the right line the opposing account.
type Split struct {
	ID          int64
	Type        TransactionType
	Memo        string
	CategoryID  *int64
	LeftLineID  int64
	RightLineID int64
}

// Entry is the atomic signed posting, always in the currency of the account
// its line belongs to. Entries are never created singly: the split engine
// appends them in balanced groups of two (same-currency split) or four
// (currency-bridged split through a trading account).
type Entry struct {
	ID       int64
	LineID   int64
	SplitID  int64
	Amount   decimal.Decimal
	Currency string
}

// Transaction is the aggregate for a single movement of funds out of (or
// into) one Personal account, possibly split across several categories or
// transfers. Lines, splits and entries are value slices addressed by
// aggregate-local integer ids; entries point at their parents by id.
//
// The aggregate is not safe for concurrent mutation: callers must serialize
// AddSplit/ReplaceSplits/SetCleared calls on one transaction.
type Transaction struct {
	ID         int64
	ExternalID string
	Date       time.Time
	PayeeID    *int64
	Memo       string
	CheckNo    string

	// Currency is fixed by the first successful AddSplit call.
	Currency string

	// ForeignCurrency and ForeignRate are set when a second currency
	// participates. The rate is base-per-foreign.
	ForeignCurrency string
	ForeignRate     decimal.Decimal

	// Account is the source account; must be a Personal Asset or Liability.
	Account *Account

	Lines   []Line
	Splits  []Split
	Entries []Entry
}

// NewTransaction starts an empty aggregate bound to a source account.
func NewTransaction(account *Account, date time.Time) (*Transaction, error) {
	if account == nil {
		return nil, fmt.Errorf("transaction account must be set")
	}
	if account.Role != RolePersonal {
		return nil, domainf("transactions must be associated with Personal accounts")
	}
	if account.Type != AccountTypeAsset && account.Type != AccountTypeLiability {
		return nil, domainf("transaction account type must be Asset or Liability")
	}
	return &Transaction{Account: account, Date: date}, nil
}

// SplitParams carries the optional arguments to AddSplit.
type SplitParams struct {
	// Currency of the amount; defaults to the source account currency.
	Currency string
	// CategoryID is the budget category for a categorized split.
	CategoryID *int64
	// Trading is the currency trading account, required whenever the two
	// posting currencies differ.
	Trading *Account
	// Type overrides the inferred transaction type.
	Type TransactionType
	Memo string
}

// SplitResult reports what AddSplit appended to the aggregate.
type SplitResult struct {
	Split    Split
	NewLines []Line
	Entries  []Entry
}

// AddSplit adds one categorized or transferred amount to the transaction.
//
// For a same-currency split this appends two entries, one per side of the
// double-entry pair. When the posting currencies differ the trading account
// bridges them with two linked pairs (four entries), so that every pair is
// single-currency. All validation happens before any mutation: on error the
// aggregate is unchanged.
func (t *Transaction) AddSplit(ctx Context, opposing *Account, amount decimal.Decimal, p SplitParams) (*SplitResult, error) {
	if t.Account == nil {
		return nil, fmt.Errorf("transaction account must be set before adding splits")
	}
	if opposing == nil {
		return nil, fmt.Errorf("opposing account must be set")
	}
	if !t.Account.Active {
		return nil, domainf("transaction source account %q is not active", t.Account.Name)
	}
	if !opposing.Active {
		return nil, domainf("transaction opposing account %q is not active", opposing.Name)
	}

	ttype := p.Type
	if ttype == "" {
		ttype = TransactionInflow
		if amount.Mul(decimal.NewFromInt(int64(t.Account.InflowSign()))).IsNegative() {
			ttype = TransactionOutflow
		}
		if opposing.Role == RolePersonal {
			ttype = TransactionTransfer
		}
	}

	currency := p.Currency
	if currency == "" {
		currency = t.Account.Currency
	}
	if t.Currency != "" && currency != t.Currency {
		return nil, fmt.Errorf("all transaction splits must use the transaction currency %s, got %s", t.Currency, currency)
	}

	conv, err := resolveConversion(ctx, currency, t.ForeignCurrency, t.ForeignRate, t.Account, opposing, amount)
	if err != nil {
		return nil, err
	}

	if conv.needsTrading {
		if p.Trading == nil {
			return nil, fmt.Errorf("trading account must be provided for a multi-currency transaction")
		}
		if p.Trading.Type != AccountTypeTrading {
			return nil, domainf("trading account must be of type Trading")
		}
		if !p.Trading.Active {
			return nil, domainf("trading account %q is not active", p.Trading.Name)
		}
	}

	// Validation is complete; everything below only appends.
	t.Currency = currency

	res := &SplitResult{}
	leftLine := t.ensureLine(t.Account.ID, res)
	rightLine := t.ensureLine(opposing.ID, res)

	split := Split{
		ID:          t.nextSplitID(),
		Type:        ttype,
		Memo:        p.Memo,
		CategoryID:  p.CategoryID,
		LeftLineID:  leftLine,
		RightLineID: rightLine,
	}

	oppSign := OpposingSign(t.Account.Type, opposing.Type)

	if !conv.needsTrading {
		t.appendEntries(split.ID, res,
			Entry{LineID: leftLine, Amount: conv.left, Currency: t.Account.Currency},
			Entry{LineID: rightLine, Amount: mulSign(oppSign, conv.right), Currency: opposing.Currency},
		)
	} else {
		tradingLine := t.ensureLine(p.Trading.ID, res)
		tradeSign := OpposingSign(t.Account.Type, p.Trading.Type)

		t.appendEntries(split.ID, res,
			Entry{LineID: leftLine, Amount: conv.left, Currency: t.Account.Currency},
			Entry{LineID: tradingLine, Amount: mulSign(tradeSign, conv.left), Currency: t.Account.Currency},
			Entry{LineID: tradingLine, Amount: mulSign(-tradeSign, conv.right), Currency: opposing.Currency},
			Entry{LineID: rightLine, Amount: mulSign(oppSign, conv.right), Currency: opposing.Currency},
		)
	}

	t.Splits = append(t.Splits, split)
	res.Split = split
	return res, nil
}

func mulSign(sign int, d decimal.Decimal) decimal.Decimal {
	if sign < 0 {
		return d.Neg()
	}
	return d
}

// ensureLine finds the line for an account or appends a new uncleared one.
func (t *Transaction) ensureLine(accountID int64, res *SplitResult) int64 {
	if ln := t.LineForAccount(accountID); ln != nil {
		return ln.ID
	}
	ln := Line{ID: t.nextLineID(), AccountID: accountID}
	t.Lines = append(t.Lines, ln)
	res.NewLines = append(res.NewLines, ln)
	return ln.ID
}

func (t *Transaction) appendEntries(splitID int64, res *SplitResult, entries ...Entry) {
	id := t.nextEntryID()
	for _, e := range entries {
		e.ID = id
		id++
		e.SplitID = splitID
		t.Entries = append(t.Entries, e)
		res.Entries = append(res.Entries, e)
	}
}

func (t *Transaction) nextLineID() int64 {
	var max int64
	for _, ln := range t.Lines {
		if ln.ID > max {
			max = ln.ID
		}
	}
	return max + 1
}

func (t *Transaction) nextSplitID() int64 {
	var max int64
	for _, sp := range t.Splits {
		if sp.ID > max {
			max = sp.ID
		}
	}
	return max + 1
}

func (t *Transaction) nextEntryID() int64 {
	var max int64
	for _, e := range t.Entries {
		if e.ID > max {
			max = e.ID
		}
	}
	return max + 1
}

// Line returns the line with the given id, or nil.
func (t *Transaction) Line(id int64) *Line {
	for i := range t.Lines {
		if t.Lines[i].ID == id {
			return &t.Lines[i]
		}
	}
	return nil
}

// LineForAccount returns the transaction's line for an account, or nil.
func (t *Transaction) LineForAccount(accountID int64) *Line {
	for i := range t.Lines {
		if t.Lines[i].AccountID == accountID {
			return &t.Lines[i]
		}
	}
	return nil
}

// Split returns the split with the given id, or nil.
func (t *Transaction) Split(id int64) *Split {
	for i := range t.Splits {
		if t.Splits[i].ID == id {
			return &t.Splits[i]
		}
	}
	return nil
}

// LineAmount sums a line's entries. All entries on a line share the
// currency of the line's account, so the sum is in account-currency units.
func (t *Transaction) LineAmount(lineID int64) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range t.Entries {
		if e.LineID == lineID {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

// LineEntries returns the entries posted to one line.
func (t *Transaction) LineEntries(lineID int64) []Entry {
	var out []Entry
	for _, e := range t.Entries {
		if e.LineID == lineID {
			out = append(out, e)
		}
	}
	return out
}

// SplitAmount computes a split's amount in the transaction currency: the sum
// of the split's entries on the left line, converted through the foreign
// exchange rate when the left account currency is not the transaction
// currency.
func (t *Transaction) SplitAmount(splitID int64) decimal.Decimal {
	sp := t.Split(splitID)
	if sp == nil || t.Account == nil {
		return decimal.Zero
	}

	sum := decimal.Zero
	for _, e := range t.Entries {
		if e.SplitID == splitID && e.LineID == sp.LeftLineID {
			sum = sum.Add(e.Amount)
		}
	}

	leftCurrency := t.Account.Currency
	if leftCurrency == t.Currency {
		return sum
	}
	rate := t.ForeignRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	if leftCurrency == t.ForeignCurrency {
		return sum.Mul(rate)
	}
	// The left account must be in the base currency.
	return sum.Div(rate)
}

// Amount is the transaction total: the sum of its split amounts, in the
// transaction currency.
func (t *Transaction) Amount() decimal.Decimal {
	sum := decimal.Zero
	for _, sp := range t.Splits {
		sum = sum.Add(t.SplitAmount(sp.ID))
	}
	return sum
}

// IsSplit reports whether the transaction has more than one split.
func (t *Transaction) IsSplit() bool { return len(t.Splits) > 1 }

// HasReconciledLine reports whether any line has been reconciled; such
// transactions may no longer be edited or deleted.
func (t *Transaction) HasReconciledLine() bool {
	for _, ln := range t.Lines {
		if ln.Reconciled {
			return true
		}
	}
	return false
}
