package ledger

import "github.com/shopspring/decimal"

// SplitRequest describes one split for ReplaceSplits.
type SplitRequest struct {
	Opposing   *Account
	Amount     decimal.Decimal
	CategoryID *int64
	Type       TransactionType
	Memo       string
}

// ReplaceSplits rebuilds the transaction's lines, splits and entries from a
// fresh set of split requests. The new set is constructed on a scratch
// aggregate and swapped in only once every split has succeeded, so a failing
// request leaves the transaction exactly as it was. Clearing state does not
// survive the rebuild; transactions with a reconciled line cannot be
// rebuilt at all.
func (t *Transaction) ReplaceSplits(ctx Context, trading *Account, reqs []SplitRequest) error {
	if t.HasReconciledLine() {
		return domainf("cannot modify a reconciled transaction")
	}

	scratch := Transaction{
		ID:              t.ID,
		ExternalID:      t.ExternalID,
		Date:            t.Date,
		PayeeID:         t.PayeeID,
		Memo:            t.Memo,
		CheckNo:         t.CheckNo,
		Currency:        t.Currency,
		ForeignCurrency: t.ForeignCurrency,
		ForeignRate:     t.ForeignRate,
		Account:         t.Account,
	}

	for _, req := range reqs {
		_, err := scratch.AddSplit(ctx, req.Opposing, req.Amount, SplitParams{
			Currency:   t.Currency,
			CategoryID: req.CategoryID,
			Trading:    trading,
			Type:       req.Type,
			Memo:       req.Memo,
		})
		if err != nil {
			return err
		}
	}

	t.Currency = scratch.Currency
	t.Lines = scratch.Lines
	t.Splits = scratch.Splits
	t.Entries = scratch.Entries
	return nil
}
