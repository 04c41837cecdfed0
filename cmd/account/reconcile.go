package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/constants"
	"github.com/tallybook/tally/internal/moneyfmt"
	"github.com/tallybook/tally/internal/service"
	"github.com/tallybook/tally/internal/ui"
	"github.com/tallybook/tally/internal/ui/prompts"
	"github.com/tallybook/tally/internal/validation"
)

type reconcileFlags struct {
	Date    string
	Balance string
}

type ReconcileCommandRunner struct {
	svc   *service.Service
	flags *reconcileFlags
}

func NewReconcileCmd(svc *service.Service) *cobra.Command {
	flags := &reconcileFlags{}

	cmd := &cobra.Command{
		Use:   "reconcile [account-name]",
		Short: "Reconcile an account against a bank statement",
		Long: `Check the account's cleared transactions up to the statement date
against the statement ending balance. When they match, the cleared
transactions become reconciled and can no longer be edited or deleted.
When they don't match, nothing changes.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ReconcileCommandRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run(args)
		},
	}

	cmd.Flags().StringVarP(&flags.Date, "date", "d", "", "Statement date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVarP(&flags.Balance, "balance", "b", "", "Statement ending balance")

	return cmd
}

func (r *ReconcileCommandRunner) Run(args []string) error {
	accountName, err := r.resolveAccount(args)
	if err != nil {
		return err
	}

	account, err := r.svc.Account.GetAccountByName(accountName)
	if err != nil {
		return err
	}

	statementDate, err := r.resolveDate()
	if err != nil {
		return err
	}

	statementBalance, err := r.resolveBalance(account.Currency)
	if err != nil {
		return err
	}

	result, err := r.svc.Ledger.ReconcileAccount(accountName, statementDate, statementBalance)
	if err != nil {
		pterm.Error.Printf("Reconciliation failed: %v\n", err)
		return nil
	}

	pterm.Success.Printf("Reconciled %s against statement balance %s\n",
		accountName, moneyfmt.Format(result.StatementBalance, account.Currency))
	pterm.Info.Printf("%d transactions marked as reconciled\n", len(result.Reconciled))
	ui.Separator()
	return nil
}

func (r *ReconcileCommandRunner) resolveAccount(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	accounts, err := r.svc.Account.GetPersonalAccounts()
	if err != nil {
		return "", fmt.Errorf("failed to get accounts: %w", err)
	}

	return prompts.PromptAccountSelection(accounts, "Select account to reconcile:", func(name string) (string, error) {
		acc, err := r.svc.Account.GetAccountByName(name)
		if err != nil {
			return "", err
		}
		balance, err := r.svc.Account.AccountBalance(name)
		if err != nil {
			return "", err
		}
		return moneyfmt.Format(balance, acc.Currency), nil
	})
}

func (r *ReconcileCommandRunner) resolveDate() (time.Time, error) {
	input := r.flags.Date
	if input == "" {
		var err error
		input, err = prompts.PromptStatementDate()
		if err != nil {
			return time.Time{}, err
		}
	}

	input = strings.TrimSpace(input)
	if input == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	date, err := time.Parse(constants.DateFormat, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format")
	}
	return date, nil
}

func (r *ReconcileCommandRunner) resolveBalance(currency string) (decimal.Decimal, error) {
	input := r.flags.Balance
	if input == "" {
		var err error
		input, err = prompts.PromptStatementBalance(currency, validation.ValidateAmount)
		if err != nil {
			return decimal.Zero, err
		}
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid statement balance: must be a number")
	}
	return balance, nil
}
