package transaction

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/service"
	"github.com/tallybook/tally/internal/ui/views"
)

type editFlags struct {
	Date     string
	Payee    string
	Memo     string
	CheckNo  string
	Amount   string
	Transfer string
	Category int64
}

type EditCommandRunner struct {
	svc   *service.Service
	flags *editFlags
}

func NewEditCmd(svc *service.Service) *cobra.Command {
	flags := &editFlags{}

	cmd := &cobra.Command{
		Use:   "edit <transaction-id>",
		Short: "Edit a transaction",
		Long: `Edit a stored transaction. Header fields (date, payee, memo, check
number) may always change. Passing --amount rebuilds the transaction's
split against the new amount; this is refused once the transaction has
been reconciled.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &EditCommandRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run(cmd, args)
		},
	}

	cmd.Flags().StringVarP(&flags.Date, "date", "d", "", "New transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&flags.Payee, "payee", "p", "", "New payee name (empty string removes the payee)")
	cmd.Flags().StringVarP(&flags.Memo, "memo", "m", "", "New memo")
	cmd.Flags().StringVar(&flags.CheckNo, "check", "", "New check number")
	cmd.Flags().StringVar(&flags.Amount, "amount", "", "New transaction amount (rebuilds the split)")
	cmd.Flags().StringVar(&flags.Transfer, "transfer", "", "Opposing account for the rebuilt split")
	cmd.Flags().Int64Var(&flags.Category, "category", 0, "Budget category id for the rebuilt split")

	return cmd
}

func (r *EditCommandRunner) Run(cmd *cobra.Command, args []string) error {
	var txID int64
	if _, err := fmt.Sscanf(args[0], "%d", &txID); err != nil {
		return fmt.Errorf("invalid transaction ID: %s", args[0])
	}

	input := service.UpdateTransactionInput{TransactionID: txID}
	changed := false

	if cmd.Flags().Changed("date") {
		date, err := parseDateOrToday(r.flags.Date)
		if err != nil {
			return err
		}
		input.Date = &date
		changed = true
	}
	if cmd.Flags().Changed("payee") {
		input.Payee = &r.flags.Payee
		changed = true
	}
	if cmd.Flags().Changed("memo") {
		input.Memo = &r.flags.Memo
		changed = true
	}
	if cmd.Flags().Changed("check") {
		input.CheckNo = &r.flags.CheckNo
		changed = true
	}

	if cmd.Flags().Changed("amount") {
		amount, err := decimal.NewFromString(strings.TrimSpace(r.flags.Amount))
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}

		split := service.SplitInput{
			Amount:          amount,
			TransferAccount: r.flags.Transfer,
		}
		if cmd.Flags().Changed("category") {
			split.CategoryID = &r.flags.Category
		}

		input.Amount = amount
		input.Splits = []service.SplitInput{split}
		changed = true
	}

	if !changed {
		pterm.Info.Println("Nothing to change; pass at least one of --date, --payee, --memo, --check, --amount")
		return nil
	}

	txn, err := r.svc.Ledger.UpdateTransaction(input)
	if err != nil {
		pterm.Error.Printf("Failed to update transaction: %v\n", err)
		return nil
	}

	pterm.Success.Printf("Transaction #%d updated\n", txID)

	names, err := r.svc.Ledger.AccountNameIndex()
	if err != nil {
		return err
	}
	return views.RenderTransactionDetail(txn, r.svc.Ledger.PayeeName(txn.PayeeID), names)
}
