package transaction

import (
	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/service"
)

func NewTransactionCmd(svc *service.Service) *cobra.Command {
	transactionCmd := &cobra.Command{
		Use:   "transaction",
		Short: "Manage transactions",
		Long:  `Record, list, edit and delete transactions, and mark them as cleared.`,
	}

	transactionCmd.AddCommand(NewAddCmd(svc))
	transactionCmd.AddCommand(NewListCmd(svc))
	transactionCmd.AddCommand(NewShowCmd(svc))
	transactionCmd.AddCommand(NewEditCmd(svc))
	transactionCmd.AddCommand(NewDeleteCmd(svc))
	transactionCmd.AddCommand(NewClearCmd(svc))

	return transactionCmd
}
