package account

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/ledger"
	"github.com/tallybook/tally/internal/moneyfmt"
	"github.com/tallybook/tally/internal/service"
	"github.com/tallybook/tally/internal/ui/views"
)

type listFlags struct {
	All        bool
	ShowHidden bool
}

type ListCommandRunner struct {
	svc   *service.Service
	flags *listFlags
}

func NewListCmd(svc *service.Service) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts with their balances",
		Long: `List your accounts with their current balances. By default only
active Personal accounts are shown; --all includes the system and budget
accounts, --show-hidden includes deactivated accounts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ListCommandRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run()
		},
	}

	cmd.Flags().BoolVar(&flags.All, "all", false, "Include system and budget accounts")
	cmd.Flags().BoolVar(&flags.ShowHidden, "show-hidden", false, "Show deactivated accounts")

	return cmd
}

func (r *ListCommandRunner) Run() error {
	var accounts []*ledger.Account
	var err error

	if r.flags.All {
		accounts, err = r.svc.Account.GetAllAccounts()
	} else {
		accounts, err = r.svc.Account.GetPersonalAccounts()
	}
	if err != nil {
		return fmt.Errorf("failed to get accounts: %w", err)
	}

	if !r.flags.ShowHidden {
		accounts = filterInactive(accounts)
	}

	return views.NewAccountListView().Render(accounts, r.formattedBalance)
}

func (r *ListCommandRunner) formattedBalance(name string) (string, error) {
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

func filterInactive(accounts []*ledger.Account) []*ledger.Account {
	var filtered []*ledger.Account
	for _, acc := range accounts {
		if acc.Active {
			filtered = append(filtered, acc)
		}
	}
	return filtered
}
