package views

import (
	"github.com/pterm/pterm"

	"github.com/tallybook/tally/internal/ledger"
)

type AccountListView struct{}

func NewAccountListView() *AccountListView {
	return &AccountListView{}
}

func (v *AccountListView) Render(accounts []*ledger.Account, balanceGetter func(string) (string, error)) error {
	headers := []string{"Name", "Type", "Currency", "Balance"}
	tableData := pterm.TableData{headers}

	for _, acc := range accounts {
		balance, err := balanceGetter(acc.Name)
		if err != nil {
			balance = "-"
		}

		var coloredAccount, coloredType, coloredBalance string
		switch acc.Type {
		case ledger.AccountTypeAsset:
			coloredType = pterm.Green(string(acc.Type))
			coloredBalance = pterm.Green(balance)
			coloredAccount = pterm.Green(acc.Name)
		case ledger.AccountTypeLiability:
			coloredType = pterm.Red(string(acc.Type))
			coloredBalance = pterm.Red(balance)
			coloredAccount = pterm.Red(acc.Name)
		default:
			coloredType = string(acc.Type)
			coloredBalance = balance
			coloredAccount = acc.Name
		}
		tableData = append(tableData, []string{coloredAccount, coloredType, acc.Currency, coloredBalance})
	}

	pterm.DefaultSection.Printf("Account List")
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Info.Printf("Total: %d accounts\n", len(accounts))

	return nil
}
