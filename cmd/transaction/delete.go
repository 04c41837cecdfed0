package transaction

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/service"
	tallyui "github.com/tallybook/tally/internal/ui"
	"github.com/tallybook/tally/internal/ui/views"
)

type DeleteCommandRunner struct {
	svc *service.Service
}

func NewDeleteCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Long:  `Delete a transaction and all its lines, splits and entries. Reconciled transactions cannot be deleted. This action cannot be undone.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &DeleteCommandRunner{
				svc: svc,
			}
			return runner.Run(args)
		},
	}
}

func (r *DeleteCommandRunner) Run(args []string) error {
	var txID int64
	if _, err := fmt.Sscanf(args[0], "%d", &txID); err != nil {
		return fmt.Errorf("invalid transaction ID: %s", args[0])
	}

	txn, err := r.svc.Ledger.GetTransactionByID(txID)
	if err != nil {
		pterm.Error.Printf("Failed to delete transaction: %v\n", err)
		return nil
	}

	views.RenderTransactionDeletePreview(txn, r.svc.Ledger.PayeeName(txn.PayeeID))

	var confirmation bool
	confirmPrompt := &survey.Confirm{
		Message: "Do you want to delete this transaction?",
		Default: false,
	}
	if err := survey.AskOne(confirmPrompt, &confirmation, tallyui.IconOption()); err != nil {
		return err
	}

	if !confirmation {
		pterm.Info.Println("Deletion cancelled")
		return nil
	}

	if err := r.svc.Ledger.DeleteTransaction(txID); err != nil {
		pterm.Error.Printf("Failed to delete transaction: %v\n", err)
		return nil
	}

	views.RenderTransactionDeleteSuccess(txID)
	return nil
}
