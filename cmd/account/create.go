package account

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

type createFlags struct {
	Name     string
	Type     string
	Currency string
	Balance  string
	Date     string
	Rate     string
	Memo     string
}

// AccountCreator collects the account parameters from flags or prompts and
// hands them to the service.
type AccountCreator struct {
	svc       *service.Service
	validator *validation.AccountValidator

	input service.CreateAccountInput
}

func NewCreateCmd(svc *service.Service) *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new account",
		Long: `Create a Personal Asset or Liability account. An optional opening
balance is recorded as a system transaction against the initial balance
account. Foreign currency accounts need an exchange rate for the opening
balance.

Example: tally account create -t A -n Checking -b 1000`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			creator := &AccountCreator{
				svc:       svc,
				validator: validation.NewAccountValidator(svc.Account),
			}

			if cmd.Flags().Changed("name") || cmd.Flags().Changed("type") {
				return creator.FlagsMode(flags)
			}
			return creator.InteractiveMode()
		},
	}

	cmd.Flags().StringVarP(&flags.Name, "name", "n", "", "Account name")
	cmd.Flags().StringVarP(&flags.Type, "type", "t", "", "Account type: A (Asset) or L (Liability)")
	cmd.Flags().StringVar(&flags.Currency, "currency", "", "Currency code (defaults to the base currency)")
	cmd.Flags().StringVarP(&flags.Balance, "balance", "b", "", "Opening balance")
	cmd.Flags().StringVarP(&flags.Date, "date", "d", "", "Opening balance date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVarP(&flags.Rate, "rate", "r", "", "Exchange rate, base per 1 unit of the account currency")
	cmd.Flags().StringVarP(&flags.Memo, "memo", "m", "", "Opening balance memo (optional)")

	return cmd
}

// FlagsMode builds an account from command-line flags.
func (ac *AccountCreator) FlagsMode(flags *createFlags) error {
	if flags.Name == "" || flags.Type == "" {
		return fmt.Errorf("both --name and --type are required in flag mode")
	}
	if err := ac.validator.ValidateNewAccountName(flags.Name); err != nil {
		return fmt.Errorf("invalid account name: %w", err)
	}

	atype := ledger.AccountType(strings.ToUpper(strings.TrimSpace(flags.Type)))
	if atype != ledger.AccountTypeAsset && atype != ledger.AccountTypeLiability {
		return fmt.Errorf("account type must be A (Asset) or L (Liability)")
	}

	if err := validation.ValidateCurrency(flags.Currency); err != nil {
		return err
	}

	ac.input = service.CreateAccountInput{
		Name:     strings.TrimSpace(flags.Name),
		Type:     atype,
		Currency: strings.ToUpper(strings.TrimSpace(flags.Currency)),
		Memo:     flags.Memo,
	}

	if flags.Balance != "" {
		if err := validation.ValidateInitialBalance(flags.Balance); err != nil {
			return err
		}
		balance, err := decimal.NewFromString(strings.TrimSpace(flags.Balance))
		if err != nil {
			return fmt.Errorf("invalid balance: %w", err)
		}
		ac.input.Balance = balance

		date, err := parseDateOrToday(flags.Date)
		if err != nil {
			return err
		}
		ac.input.BalanceDate = date

		if flags.Rate != "" {
			rate, err := decimal.NewFromString(strings.TrimSpace(flags.Rate))
			if err != nil {
				return fmt.Errorf("invalid exchange rate: %w", err)
			}
			ac.input.ExchangeRate = rate
		}
	}

	return ac.save()
}

// InteractiveMode builds an account through prompts.
func (ac *AccountCreator) InteractiveMode() error {
	atype, err := prompts.PromptAccountType()
	if err != nil {
		return err
	}

	name, err := prompts.PromptAccountName(ac.validator.ValidateNewAccountName)
	if err != nil {
		return err
	}

	currency, err := prompts.PromptCurrency(ac.svc.Account.BaseCurrency(), validation.ValidateCurrency)
	if err != nil {
		return err
	}

	balanceInput, err := prompts.PromptInitialBalance(validation.ValidateInitialBalance)
	if err != nil {
		return err
	}

	ac.input = service.CreateAccountInput{
		Name:     strings.TrimSpace(name),
		Type:     atype,
		Currency: currency,
	}

	balanceInput = strings.TrimSpace(balanceInput)
	if balanceInput != "" && balanceInput != "0" {
		balance, err := decimal.NewFromString(balanceInput)
		if err != nil {
			return fmt.Errorf("invalid balance input: must be a number")
		}
		ac.input.Balance = balance

		dateInput, err := prompts.PromptDate("Opening balance date (YYYY-MM-DD):",
			time.Now().Format(constants.DateFormat), "Press Enter for today")
		if err != nil {
			return err
		}
		date, err := parseDateOrToday(dateInput)
		if err != nil {
			return err
		}
		ac.input.BalanceDate = date

		if currency != ac.svc.Account.BaseCurrency() {
			rateInput, err := prompts.PromptExchangeRate(ac.svc.Account.BaseCurrency(), currency,
				validation.ValidateExchangeRate)
			if err != nil {
				return err
			}
			rate, err := decimal.NewFromString(strings.TrimSpace(rateInput))
			if err != nil {
				return fmt.Errorf("invalid exchange rate: must be a number")
			}
			ac.input.ExchangeRate = rate
		}
	}

	memo, err := prompts.PromptDescription("Memo (optional):", false)
	if err != nil {
		return err
	}
	ac.input.Memo = memo

	if err := ac.displaySummary(); err != nil {
		return err
	}

	confirm, err := prompts.PromptConfirm("Proceed with account creation?", true)
	if err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("account creation cancelled")
	}

	return ac.save()
}

func (ac *AccountCreator) displaySummary() error {
	currency := ac.input.Currency
	if currency == "" {
		currency = ac.svc.Account.BaseCurrency()
	}

	return views.RenderAccountSummary(views.AccountSummaryItem{
		Name:     ac.input.Name,
		Type:     typeLabel(ac.input.Type),
		Currency: currency,
		Balance:  moneyfmt.Format(ac.input.Balance, currency),
		Memo:     ac.input.Memo,
	})
}

func (ac *AccountCreator) save() error {
	acc, err := ac.svc.Account.CreateAccount(ac.input)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	if err := views.RenderAccountSuccess(acc.ID, acc.Name); err != nil {
		return err
	}
	return nil
}

func typeLabel(t ledger.AccountType) string {
	switch t {
	case ledger.AccountTypeAsset:
		return "Asset"
	case ledger.AccountTypeLiability:
		return "Liability"
	default:
		return string(t)
	}
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
