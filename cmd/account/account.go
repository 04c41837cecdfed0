package account

import (
	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/service"
)

func NewAccountCmd(svc *service.Service) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
		Long:  `Create accounts, list them with their balances, and reconcile them against bank statements.`,
	}

	accountCmd.AddCommand(NewCreateCmd(svc))
	accountCmd.AddCommand(NewListCmd(svc))
	accountCmd.AddCommand(NewReconcileCmd(svc))
	accountCmd.AddCommand(NewHideCmd(svc))

	return accountCmd
}
