package views

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/tallybook/tally/internal/constants"
	"github.com/tallybook/tally/internal/ledger"
	"github.com/tallybook/tally/internal/moneyfmt"
	"github.com/tallybook/tally/internal/ui"
)

func RenderTransactionDeletePreview(txn *ledger.Transaction, payee string) {
	if payee == "" {
		payee = "-"
	}

	pterm.Warning.Printf("About to delete transaction #%d:\n", txn.ID)

	deletionInfo := pterm.TableData{
		{"Date", txn.Date.Format(constants.DateFormat)},
		{"Account", txn.Account.Name},
		{"Payee", payee},
		{"Amount", moneyfmt.Format(txn.Amount(), txn.Currency)},
		{"Splits", fmt.Sprint(len(txn.Splits))},
	}

	pterm.DefaultTable.WithData(deletionInfo).Render()
	pterm.Warning.Println("This action cannot be undone!")
}

func RenderTransactionDeleteSuccess(id int64) {
	pterm.Success.Printf("Transaction #%d deleted successfully\n", id)
	ui.Separator()
}
