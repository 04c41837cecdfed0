package prompts

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/tallybook/tally/internal/constants"
	"github.com/tallybook/tally/internal/ledger"
)

// PromptTransactionKind prompts for the kind of transaction to record.
func PromptTransactionKind() (string, error) {
	options := []string{
		"Record Expense",
		"Record Income",
		"Transfer",
	}

	return PromptSelect("Choose the transaction type:", options, "Record Expense")
}

// PromptTransactionDate prompts for a transaction date, defaulting to today.
func PromptTransactionDate() (string, error) {
	defaultDate := time.Now().Format(constants.DateFormat)
	return PromptDate(
		"Transaction Date (YYYY-MM-DD):",
		defaultDate,
		"Press Enter for today",
	)
}

// PromptPayee prompts for the payee name.
func PromptPayee() (string, error) {
	return PromptInput("Payee:", "", nil)
}

// PromptStatementDate prompts for the bank statement date used during
// reconciliation.
func PromptStatementDate() (string, error) {
	defaultDate := time.Now().Format(constants.DateFormat)
	return PromptDate(
		"Statement Date (YYYY-MM-DD):",
		defaultDate,
		"Cleared transactions up to this date are checked against the statement",
	)
}

// PromptStatementBalance prompts for the statement ending balance.
func PromptStatementBalance(currency string, validator func(string) error) (string, error) {
	message := fmt.Sprintf("Statement ending balance (%s):", currency)
	return PromptAmount(message, "The balance printed on the bank statement", validator)
}

// PromptAccountSelection prompts for one of the given accounts, optionally
// showing each account's balance in the option label.
func PromptAccountSelection(
	accounts []*ledger.Account,
	message string,
	balanceGetter func(string) (string, error),
) (string, error) {
	var visible []*ledger.Account
	for _, acc := range accounts {
		if acc.Active {
			visible = append(visible, acc)
		}
	}

	if len(visible) == 0 {
		return "", fmt.Errorf("no available accounts")
	}

	var opts []huh.Option[string]
	accountMap := make(map[string]string) // display -> actual name

	for _, acc := range visible {
		displayName := acc.Name

		if balanceGetter != nil {
			balance, err := balanceGetter(acc.Name)
			if err == nil {
				displayName = fmt.Sprintf("%s (Balance: %s)", acc.Name, balance)
			}
		}

		opts = append(opts, huh.NewOption(displayName, displayName))
		accountMap[displayName] = acc.Name
	}

	var selectedDisplay string

	err := huh.NewSelect[string]().
		Title(message).
		Options(opts...).
		Value(&selectedDisplay).
		Height(15).
		Run()

	if err != nil {
		return "", err
	}

	return accountMap[selectedDisplay], nil
}
