package views

import (
	"github.com/pterm/pterm"
)

// TransactionSummaryItem is the pre-save confirmation view of a transaction.
type TransactionSummaryItem struct {
	Account  string
	Date     string
	Payee    string
	Memo     string
	Amount   string
	Currency string
	// Splits are (label, amount) pairs, one per requested split.
	Splits [][2]string
}

func RenderTransactionSummary(data TransactionSummaryItem) {
	pterm.DefaultSection.Println("Transaction Summary")

	payee := data.Payee
	if payee == "" {
		payee = "-"
	}
	memo := data.Memo
	if memo == "" {
		memo = "-"
	}

	tableData := pterm.TableData{
		{"Field", "Value"},
		{"Account", data.Account},
		{"Date", data.Date},
		{"Payee", payee},
		{"Memo", memo},
		{"Amount", data.Amount},
		{"Currency", data.Currency},
	}

	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()

	if len(data.Splits) <= 1 {
		return
	}

	pterm.DefaultSection.Println("Splits")

	splitsData := pterm.TableData{
		{"Category / Transfer", "Amount"},
	}
	for _, sp := range data.Splits {
		splitsData = append(splitsData, []string{sp[0], sp[1]})
	}

	pterm.DefaultTable.WithHasHeader().WithData(splitsData).Render()
}
