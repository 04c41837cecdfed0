package transaction

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/constants"
	"github.com/tallybook/tally/internal/ledger"
	"github.com/tallybook/tally/internal/moneyfmt"
	"github.com/tallybook/tally/internal/service"
	"github.com/tallybook/tally/internal/ui/views"
)

type listFlags struct {
	Account string
	Limit   int
	Oldest  bool
}

type listRunner struct {
	svc   *service.Service
	flags *listFlags
}

func NewListCmd(svc *service.Service) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "l"},
		Short:   "List transactions",
		Long: `List recent transactions, or the full register of one account with
running balances when --account is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &listRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run()
		},
	}

	cmd.Flags().StringVarP(&flags.Account, "account", "a", "", "Show the register for one account")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 20, "Maximum number of transactions to display")
	cmd.Flags().BoolVar(&flags.Oldest, "oldest-first", false, "Order the register oldest first")

	return cmd
}

func (r *listRunner) Run() error {
	if r.flags.Account != "" {
		return r.renderRegister()
	}
	return r.renderRecent()
}

// renderRegister prints one account's rows with their running balances.
func (r *listRunner) renderRegister() error {
	rows, err := r.svc.Ledger.AccountLines(r.flags.Account, !r.flags.Oldest)
	if err != nil {
		return fmt.Errorf("failed to get register: %w", err)
	}

	txns, err := r.svc.Ledger.GetTransactionHistory(r.flags.Account)
	if err != nil {
		return fmt.Errorf("failed to get transactions: %w", err)
	}
	byID := make(map[int64]*ledger.Transaction, len(txns))
	for _, txn := range txns {
		byID[txn.ID] = txn
	}

	var items []views.TransactionListItem
	for _, row := range rows {
		txn := byID[row.TransactionID]
		if txn == nil {
			continue
		}

		status := "Pending"
		if ln := txn.Line(row.LineID); ln != nil {
			status = views.LineStatus(*ln)
		}

		items = append(items, views.TransactionListItem{
			ID:      txn.ID,
			Date:    txn.Date.Format(constants.DateFormat),
			Payee:   r.svc.Ledger.PayeeName(txn.PayeeID),
			Memo:    txn.Memo,
			Amount:  moneyfmt.Format(row.Amount, row.Currency),
			Balance: moneyfmt.Format(row.Balance, row.Currency),
			Status:  status,
		})
	}

	return views.NewTransactionListView().Render(r.flags.Account, items)
}

func (r *listRunner) renderRecent() error {
	txns, err := r.svc.Ledger.GetRecentTransactions(r.flags.Limit)
	if err != nil {
		return fmt.Errorf("failed to get transactions: %w", err)
	}

	var items []views.TransactionListItem
	for _, txn := range txns {
		status := "Pending"
		if ln := txn.LineForAccount(txn.Account.ID); ln != nil {
			status = views.LineStatus(*ln)
		}

		items = append(items, views.TransactionListItem{
			ID:     txn.ID,
			Date:   txn.Date.Format(constants.DateFormat),
			Payee:  r.svc.Ledger.PayeeName(txn.PayeeID),
			Memo:   txn.Memo,
			Amount: fmt.Sprintf("%s (%s)", moneyfmt.Format(txn.Amount(), txn.Currency), txn.Account.Name),
			Status: status,
		})
	}

	if err := views.NewTransactionListView().RenderRecent(items, r.flags.Limit); err != nil {
		return err
	}

	if len(items) == 0 {
		pterm.Info.Println("Record your first transaction with 'tally transaction add'")
	}
	return nil
}
