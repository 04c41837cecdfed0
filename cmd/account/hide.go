package account

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/service"
)

// NewHideCmd deactivates or reactivates an account. Inactive accounts keep
// their history but refuse new transactions and disappear from listings.
func NewHideCmd(svc *service.Service) *cobra.Command {
	var restore bool

	cmd := &cobra.Command{
		Use:          "hide <account-name>",
		Short:        "Deactivate an account (use --restore to reactivate)",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := svc.Account.SetAccountActive(args[0], restore); err != nil {
				pterm.Error.Printf("Failed to update account: %v\n", err)
				return nil
			}

			if restore {
				pterm.Success.Printf("Account %q restored\n", args[0])
			} else {
				pterm.Success.Printf("Account %q hidden\n", args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&restore, "restore", false, "Reactivate a hidden account")

	return cmd
}
