package transaction

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/service"
	"github.com/tallybook/tally/internal/ui"
)

// NewClearCmd marks a transaction's line on one account as cleared, meaning
// it has shown up on the bank's side. --undo reverts an accidental clear as
// long as the line is not yet reconciled.
func NewClearCmd(svc *service.Service) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:          "clear <transaction-id> [account-name]",
		Short:        "Mark a transaction as cleared",
		Long:         `Mark a transaction's posting on an account as cleared. The account defaults to the transaction's own account.`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var txID int64
			if _, err := fmt.Sscanf(args[0], "%d", &txID); err != nil {
				return fmt.Errorf("invalid transaction ID: %s", args[0])
			}

			accountName := ""
			if len(args) == 2 {
				accountName = args[1]
			} else {
				txn, err := svc.Ledger.GetTransactionByID(txID)
				if err != nil {
					pterm.Error.Printf("Failed to get transaction: %v\n", err)
					return nil
				}
				accountName = txn.Account.Name
			}

			if err := svc.Ledger.SetCleared(txID, accountName, !undo); err != nil {
				pterm.Error.Printf("Failed to update transaction: %v\n", err)
				return nil
			}

			if undo {
				pterm.Success.Printf("Transaction #%d on %s marked as pending\n", txID, accountName)
			} else {
				pterm.Success.Printf("Transaction #%d on %s marked as cleared\n", txID, accountName)
			}
			ui.Separator()
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Revert a cleared line back to pending")

	return cmd
}
