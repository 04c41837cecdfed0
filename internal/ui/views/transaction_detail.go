package views

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/tallybook/tally/internal/constants"
	"github.com/tallybook/tally/internal/ledger"
	"github.com/tallybook/tally/internal/moneyfmt"
	"github.com/tallybook/tally/internal/ui"
)

// RenderTransactionDetail prints the whole aggregate: the header, each
// split, and the per-account lines with their clearing state.
func RenderTransactionDetail(txn *ledger.Transaction, payee string, accountNames map[int64]string) error {
	if payee == "" {
		payee = "-"
	}
	memo := txn.Memo
	if memo == "" {
		memo = "-"
	}

	pterm.Println()
	ui.PrintL2Title("Transaction Info")
	infoData := pterm.TableData{
		{"Field", "Value"},
		{"ID", fmt.Sprintf("%d", txn.ID)},
		{"Date", txn.Date.Format(constants.DateFormat)},
		{"Payee", payee},
		{"Memo", memo},
		{"Account", txn.Account.Name},
		{"Amount", moneyfmt.Format(txn.Amount(), txn.Currency)},
	}
	if txn.CheckNo != "" {
		infoData = append(infoData, []string{"Check No", txn.CheckNo})
	}
	if txn.ForeignCurrency != "" {
		rate := fmt.Sprintf("%s (%s per 1 %s)", txn.ForeignRate.String(), baseOf(txn), txn.ForeignCurrency)
		infoData = append(infoData, []string{"Exchange Rate", rate})
	}
	if err := pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(infoData).
		Render(); err != nil {
		return err
	}

	pterm.Println()
	ui.PrintL2Title("Splits")
	splitsData := pterm.TableData{
		{"#", "Opposing Account", "Amount", "Type", "Memo"},
	}

	for i, split := range txn.Splits {
		rightLine := txn.Line(split.RightLineID)
		opposing := "-"
		if rightLine != nil {
			opposing = nameFor(accountNames, rightLine.AccountID)
		}

		splitMemo := split.Memo
		if splitMemo == "" {
			splitMemo = "-"
		}

		splitsData = append(splitsData, []string{
			fmt.Sprintf("%d", i+1),
			opposing,
			moneyfmt.Format(txn.SplitAmount(split.ID), txn.Currency),
			string(split.Type),
			splitMemo,
		})
	}

	if err := pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(splitsData).
		Render(); err != nil {
		return err
	}

	pterm.Println()
	ui.PrintL2Title("Lines")
	linesData := pterm.TableData{
		{"Account", "Amount", "Status"},
	}

	for _, ln := range txn.Lines {
		entries := txn.LineEntries(ln.ID)
		currency := txn.Currency
		if len(entries) > 0 {
			currency = entries[0].Currency
		}

		linesData = append(linesData, []string{
			nameFor(accountNames, ln.AccountID),
			moneyfmt.Format(txn.LineAmount(ln.ID), currency),
			LineStatus(ln),
		})
	}

	return pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(linesData).
		Render()
}

// LineStatus renders a line's clearing state.
func LineStatus(ln ledger.Line) string {
	switch {
	case ln.Reconciled:
		return "Reconciled"
	case ln.Cleared:
		return "Cleared"
	default:
		return "Pending"
	}
}

func nameFor(accountNames map[int64]string, id int64) string {
	if name, ok := accountNames[id]; ok {
		return name
	}
	return fmt.Sprintf("[ID: %d]", id)
}

// baseOf infers the non-foreign currency of the pair for rate display.
func baseOf(txn *ledger.Transaction) string {
	if txn.Account != nil && txn.Account.Currency != txn.ForeignCurrency {
		return txn.Account.Currency
	}
	return "base"
}
