package views

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/tallybook/tally/internal/ui"
)

type AccountSummaryItem struct {
	Name     string
	Type     string
	Currency string
	Balance  string
	Memo     string
}

func RenderAccountSummary(data AccountSummaryItem) error {
	ui.Separator()

	memo := data.Memo
	if memo == "" {
		memo = "None"
	}

	tableData := pterm.TableData{
		{pterm.Blue("Name"), data.Name},
		{pterm.Blue("Type"), data.Type},
		{pterm.Blue("Currency"), data.Currency},
		{pterm.Blue("Opening Balance"), data.Balance},
		{pterm.Blue("Memo"), memo},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}

func RenderAccountSuccess(id int64, name string) error {
	ui.Separator()

	tableData := pterm.TableData{
		{pterm.Blue("Account ID"), fmt.Sprintf("%d", id)},
		{pterm.Blue("Name"), name},
	}

	if err := pterm.DefaultTable.WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Success.Print("Account created successfully!\n")

	return nil
}
