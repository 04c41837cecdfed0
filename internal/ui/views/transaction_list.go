package views

import (
	"fmt"

	"github.com/pterm/pterm"
)

type TransactionListItem struct {
	ID      int64
	Date    string
	Payee   string
	Memo    string
	Amount  string
	Balance string
	Status  string
}

type TransactionListView struct{}

func NewTransactionListView() *TransactionListView {
	return &TransactionListView{}
}

// Render prints the register for one account: each row a transaction's
// posting to the account with the running balance after it.
func (v *TransactionListView) Render(accountName string, items []TransactionListItem) error {
	if len(items) == 0 {
		pterm.Warning.Println("No transactions found")
		return nil
	}

	pterm.DefaultSection.Printf("Register: %s", accountName)

	tableData := pterm.TableData{
		{"ID", "Date", "Payee", "Memo", "Amount", "Balance", "Status"},
	}

	for _, item := range items {
		amount := item.Amount
		if len(amount) > 0 && amount[0] == '-' {
			amount = pterm.Red(amount)
		} else {
			amount = pterm.Green(amount)
		}

		status := item.Status
		switch status {
		case "Reconciled":
			status = pterm.Gray(status)
		case "Cleared":
			status = pterm.Green(status)
		}

		tableData = append(tableData, []string{
			fmt.Sprintf("%d", item.ID),
			item.Date,
			item.Payee,
			item.Memo,
			amount,
			item.Balance,
			status,
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d transactions\n", len(items))
	return nil
}

// RenderRecent prints the cross-account view of the most recent
// transactions.
func (v *TransactionListView) RenderRecent(items []TransactionListItem, limit int) error {
	if len(items) == 0 {
		pterm.Warning.Println("No transactions found")
		return nil
	}

	pterm.DefaultSection.Printf("Showing recent transactions (limit: %d)", limit)

	tableData := pterm.TableData{
		{"ID", "Date", "Payee", "Memo", "Amount", "Status"},
	}

	for _, item := range items {
		tableData = append(tableData, []string{
			fmt.Sprintf("%d", item.ID),
			item.Date,
			item.Payee,
			item.Memo,
			item.Amount,
			item.Status,
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d transactions\n", len(items))
	return nil
}
