package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/internal/constants"
)

// AccountChecker is the slice of the account service the validators need.
// Keeps this package free of a service dependency cycle.
type AccountChecker interface {
	CheckAccountExists(name string) (bool, error)
}

// AccountValidator bundles the validators the account prompts and flags use.
type AccountValidator struct {
	checker AccountChecker
}

func NewAccountValidator(checker AccountChecker) *AccountValidator {
	return &AccountValidator{checker: checker}
}

// ValidateAccountName checks the name format only.
func (v *AccountValidator) ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("account name can't be empty")
	}

	// Leading underscores are reserved for system accounts like '_initial'.
	if strings.HasPrefix(name, "_") {
		return fmt.Errorf("account names starting with '_' are reserved")
	}

	if len(name) > constants.MaxNameLen {
		return fmt.Errorf("account name too long (max %d characters)", constants.MaxNameLen)
	}
	return nil
}

// ValidateNewAccountName checks the name format and that no account with
// that name exists yet.
func (v *AccountValidator) ValidateNewAccountName(name string) error {
	if err := v.ValidateAccountName(name); err != nil {
		return err
	}

	exists, err := v.checker.CheckAccountExists(strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("failed to check account: %w", err)
	}
	if exists {
		return fmt.Errorf("account '%s' already exists", strings.TrimSpace(name))
	}
	return nil
}

// ValidateCurrency checks an ISO 4217 style 3-letter code. Empty input is
// allowed; callers substitute their default.
func ValidateCurrency(currency string) error {
	currency = strings.TrimSpace(strings.ToUpper(currency))

	if currency == "" {
		return nil
	}

	if len(currency) != 3 {
		return fmt.Errorf("currency code must be 3 characters (e.g. USD)")
	}

	for _, c := range currency {
		if c < 'A' || c > 'Z' {
			return fmt.Errorf("currency code must contain only letters")
		}
	}

	return nil
}

// ValidateAmount checks a decimal amount string. Empty input is allowed.
func ValidateAmount(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if _, err := decimal.NewFromString(input); err != nil {
		return fmt.Errorf("invalid number format")
	}
	return nil
}

// ValidateInitialBalance checks an opening balance: a decimal, not negative.
func ValidateInitialBalance(input string) error {
	input = strings.TrimSpace(input)
	if input == "" || input == "0" {
		return nil
	}

	balance, err := decimal.NewFromString(input)
	if err != nil {
		return fmt.Errorf("invalid number format")
	}
	if balance.IsNegative() {
		return fmt.Errorf("initial balance can't be negative")
	}
	return nil
}

// ValidateExchangeRate checks a base-per-foreign rate: a decimal, strictly
// positive.
func ValidateExchangeRate(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("exchange rate is required")
	}

	rate, err := decimal.NewFromString(input)
	if err != nil {
		return fmt.Errorf("invalid number format")
	}
	if !rate.IsPositive() {
		return fmt.Errorf("exchange rate must be greater than zero")
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD date string. Empty input is allowed;
// callers substitute today.
func ValidateDate(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if _, err := time.Parse(constants.DateFormat, input); err != nil {
		return fmt.Errorf("date must be in YYYY-MM-DD format")
	}
	return nil
}
