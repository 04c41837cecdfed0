package transaction

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/constants"
	"github.com/tallybook/tally/internal/ledger"
	"github.com/tallybook/tally/internal/moneyfmt"
	"github.com/tallybook/tally/internal/service"
	"github.com/tallybook/tally/internal/ui/prompts"
	"github.com/tallybook/tally/internal/ui/views"
	"github.com/tallybook/tally/internal/validation"
)

type addFlags struct {
	Account  string
	Amount   string
	Payee    string
	Date     string
	Memo     string
	CheckNo  string
	Currency string
	Rate     string
	Transfer string
	Category int64
}

type AddCommandRunner struct {
	svc   *service.Service
	flags *addFlags
}

func NewAddCmd(svc *service.Service) *cobra.Command {
	flags := &addFlags{}

	cmd := &cobra.Command{
		Use:     "add",
		Aliases: []string{"a"},
		Short:   "Record a transaction",
		Long: `Record a transaction on one of your accounts. Negative amounts are
outflows on Asset accounts; on Liability accounts a positive amount grows
the debt. Use --transfer to move funds between your own accounts, or
--category to book against a budget category.

Example: tally transaction add -a Checking --amount -42.50 -p "Grocer"`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &AddCommandRunner{
				svc:   svc,
				flags: flags,
			}

			if cmd.Flags().Changed("account") || cmd.Flags().Changed("amount") {
				return runner.FlagsMode(cmd)
			}
			return runner.InteractiveMode()
		},
	}

	cmd.Flags().StringVarP(&flags.Account, "account", "a", "", "Source account name")
	cmd.Flags().StringVar(&flags.Amount, "amount", "", "Transaction amount (signed)")
	cmd.Flags().StringVarP(&flags.Payee, "payee", "p", "", "Payee name")
	cmd.Flags().StringVarP(&flags.Date, "date", "d", "", "Transaction date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVarP(&flags.Memo, "memo", "m", "", "Memo (optional)")
	cmd.Flags().StringVar(&flags.CheckNo, "check", "", "Check number (optional)")
	cmd.Flags().StringVar(&flags.Currency, "currency", "", "Transaction currency (defaults to the account currency)")
	cmd.Flags().StringVarP(&flags.Rate, "rate", "r", "", "Exchange rate, base per 1 unit of the transaction currency")
	cmd.Flags().StringVar(&flags.Transfer, "transfer", "", "Opposing account for a transfer")
	cmd.Flags().Int64Var(&flags.Category, "category", 0, "Budget category id")

	return cmd
}

// FlagsMode records a single-split transaction from flags.
func (r *AddCommandRunner) FlagsMode(cmd *cobra.Command) error {
	if r.flags.Account == "" || r.flags.Amount == "" {
		return fmt.Errorf("both --account and --amount are required in flag mode")
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(r.flags.Amount))
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	date, err := parseDateOrToday(r.flags.Date)
	if err != nil {
		return err
	}

	split := service.SplitInput{
		Amount:          amount,
		TransferAccount: r.flags.Transfer,
		Memo:            r.flags.Memo,
	}
	if cmd.Flags().Changed("category") {
		split.CategoryID = &r.flags.Category
	}

	input := service.TransactionInput{
		AccountName: r.flags.Account,
		Date:        date,
		Payee:       r.flags.Payee,
		Memo:        r.flags.Memo,
		CheckNo:     r.flags.CheckNo,
		Amount:      amount,
		Currency:    strings.ToUpper(strings.TrimSpace(r.flags.Currency)),
		Splits:      []service.SplitInput{split},
	}

	if r.flags.Rate != "" {
		rate, err := decimal.NewFromString(strings.TrimSpace(r.flags.Rate))
		if err != nil {
			return fmt.Errorf("invalid exchange rate: %w", err)
		}
		input.ExchangeRate = rate
	}

	return r.save(input)
}

// InteractiveMode walks through the prompts and records the transaction.
func (r *AddCommandRunner) InteractiveMode() error {
	accounts, err := r.svc.Account.GetPersonalAccounts()
	if err != nil {
		return fmt.Errorf("failed to get accounts: %w", err)
	}
	if len(accounts) == 0 {
		return fmt.Errorf("no accounts exist yet; create one with 'tally account create'")
	}

	accountName, err := prompts.PromptAccountSelection(accounts, "Select account:", r.formattedBalance)
	if err != nil {
		return err
	}
	account, err := r.svc.Account.GetAccountByName(accountName)
	if err != nil {
		return err
	}

	kind, err := prompts.PromptTransactionKind()
	if err != nil {
		return err
	}

	amountStr, err := prompts.PromptAmount("Amount:", "Enter a positive number", validation.ValidateAmount)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(amountStr))
	if err != nil {
		return fmt.Errorf("invalid amount: must be a number")
	}
	amount = amount.Abs()

	// The raw entry amount is signed relative to the account: an expense
	// moves funds against the account's inflow direction.
	inflow := decimal.NewFromInt(int64(account.InflowSign()))
	split := service.SplitInput{}
	switch kind {
	case "Record Expense":
		amount = amount.Mul(inflow).Neg()
	case "Record Income":
		amount = amount.Mul(inflow)
	case "Transfer":
		amount = amount.Mul(inflow).Neg()

		target, err := prompts.PromptAccountSelection(
			withoutAccount(accounts, accountName),
			"Transfer to:",
			r.formattedBalance,
		)
		if err != nil {
			return err
		}
		split.TransferAccount = target
	}
	split.Amount = amount

	payee, err := prompts.PromptPayee()
	if err != nil {
		return err
	}

	dateStr, err := prompts.PromptTransactionDate()
	if err != nil {
		return err
	}
	date, err := parseDateOrToday(dateStr)
	if err != nil {
		return err
	}

	memo, err := prompts.PromptDescription("Memo (optional):", false)
	if err != nil {
		return err
	}
	split.Memo = memo

	input := service.TransactionInput{
		AccountName: accountName,
		Date:        date,
		Payee:       payee,
		Memo:        memo,
		Amount:      amount,
		Splits:      []service.SplitInput{split},
	}

	views.RenderTransactionSummary(views.TransactionSummaryItem{
		Account:  accountName,
		Date:     date.Format(constants.DateFormat),
		Payee:    payee,
		Memo:     memo,
		Amount:   moneyfmt.Format(amount, account.Currency),
		Currency: account.Currency,
	})

	confirm, err := prompts.PromptConfirm("Record this transaction?", true)
	if err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("transaction cancelled")
	}

	return r.save(input)
}

func (r *AddCommandRunner) save(input service.TransactionInput) error {
	txn, err := r.svc.Ledger.CreateTransaction(input)
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	names, err := r.svc.Ledger.AccountNameIndex()
	if err != nil {
		return err
	}
	return views.RenderTransactionDetail(txn, r.svc.Ledger.PayeeName(txn.PayeeID), names)
}

func (r *AddCommandRunner) formattedBalance(name string) (string, error) {
	acc, err := r.svc.Account.GetAccountByName(name)
	if err != nil {
		return "", err
	}
	balance, err := r.svc.Account.AccountBalance(name)
	if err != nil {
		return "", err
	}
	return moneyfmt.Format(balance, acc.Currency), nil
}

func withoutAccount(accounts []*ledger.Account, name string) []*ledger.Account {
	var out []*ledger.Account
	for _, acc := range accounts {
		if acc.Name != name {
			out = append(out, acc)
		}
	}
	return out
}

func parseDateOrToday(input string) (time.Time, error) {
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
