package prompts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/tallybook/tally/internal/ledger"
)

// PromptAccountType prompts for account type selection. Personal accounts
// can only be Assets or Liabilities; the other types belong to the system.
func PromptAccountType() (ledger.AccountType, error) {
	options := []string{
		"A - Asset (bank, cash, savings)",
		"L - Liability (credit card, loan)",
	}

	selected, err := PromptSelect("Account Type:", options, options[0])
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}

	return ledger.AccountType(strings.Split(selected, " ")[0]), nil
}

// PromptSelectAccount prompts for one of the given accounts by name.
func PromptSelectAccount(title string, accounts []*ledger.Account) (*ledger.Account, error) {
	accountMap := make(map[string]*ledger.Account)
	var options []huh.Option[string]

	for _, acc := range accounts {
		accountMap[acc.Name] = acc
		options = append(options, huh.NewOption(acc.Name, acc.Name))
	}

	var selected string

	err := huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(&selected).
		Height(10).
		Run()

	if err != nil {
		return nil, fmt.Errorf("input cancelled: %w", err)
	}

	return accountMap[selected], nil
}

// PromptAccountName prompts for account name with validation
func PromptAccountName(validator func(string) error) (string, error) {
	return PromptInput("Account Name:", "", validator)
}

// PromptCurrency prompts for currency selection with common options
func PromptCurrency(defaultCurrency string, customValidator func(string) error) (string, error) {
	commonCurrencies := []string{
		"USD - US Dollar",
		"EUR - Euro",
		"GBP - British Pound",
		"JPY - Japanese Yen",
		"CNY - Chinese Yuan",
		"TWD - Taiwan Dollar",
		"HKD - Hong Kong Dollar",
		"SGD - Singapore Dollar",
		"Other (Custom)",
	}

	message := fmt.Sprintf("Currency (default: %s):", defaultCurrency)

	selected, err := PromptSelect(message, commonCurrencies, defaultCurrency)
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}

	if selected == "Other (Custom)" {
		customCurrency, err := PromptInput("Enter currency code:", "", customValidator)
		if err != nil {
			return "", fmt.Errorf("input cancelled: %w", err)
		}
		return strings.ToUpper(strings.TrimSpace(customCurrency)), nil
	}

	currencyCode := strings.Split(selected, " ")[0]
	return currencyCode, nil
}

// PromptInitialBalance prompts for initial balance with validation
func PromptInitialBalance(validator func(string) error) (string, error) {
	return PromptInput("Initial Balance (press Enter for 0):", "0", validator)
}

// PromptExchangeRate prompts for a base-per-foreign exchange rate.
func PromptExchangeRate(baseCurrency, foreignCurrency string, validator func(string) error) (string, error) {
	message := fmt.Sprintf("Exchange rate (%s per 1 %s):", baseCurrency, foreignCurrency)
	return PromptInput(message, "", validator)
}
