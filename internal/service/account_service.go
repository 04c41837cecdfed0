package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/internal/config"
	"github.com/tallybook/tally/internal/constants"
	"github.com/tallybook/tally/internal/ledger"
	"github.com/tallybook/tally/internal/store"
)

type AccountService struct {
	repo   store.Repository
	config *config.Config
}

func NewAccountService(repo store.Repository, cfg *config.Config) *AccountService {
	return &AccountService{repo: repo, config: cfg}
}

func (as *AccountService) baseCurrency() string {
	return as.config.Defaults.Currency
}

// BaseCurrency exposes the configured base currency to the CLI layer.
func (as *AccountService) BaseCurrency() string {
	return as.baseCurrency()
}

// EnsureSystemAccounts creates the well-known accounts every ledger needs:
// the '_initial' Capital account for opening balances, the '_ob_income' and
// '_ob_expense' accounts for off-budget transactions, and the '_trading'
// account that bridges multi-currency splits. Safe to call repeatedly.
func (as *AccountService) EnsureSystemAccounts() error {
	currency := as.baseCurrency()

	wanted := []*ledger.Account{
		{Name: constants.SystemAccountInitial, Role: ledger.RoleSystem, Type: ledger.AccountTypeCapital, Currency: currency, Active: true},
		{Name: constants.SystemAccountOBIncome, Role: ledger.RoleSystem, Type: ledger.AccountTypeIncome, Currency: currency, Active: true},
		{Name: constants.SystemAccountOBExpense, Role: ledger.RoleSystem, Type: ledger.AccountTypeExpense, Currency: currency, Active: true},
		{Name: constants.SystemAccountTrading, Role: ledger.RoleSystem, Type: ledger.AccountTypeTrading, Currency: currency, Active: true},
	}

	return as.repo.ExecTx(func(repo store.Repository) error {
		for _, acc := range wanted {
			_, err := repo.GetSystemAccount(acc.Role, acc.Type, acc.Name)
			if err == nil {
				continue
			}
			if _, err := repo.CreateAccount(acc); err != nil {
				return fmt.Errorf("failed to create system account '%s': %w", acc.Name, err)
			}
		}
		return nil
	})
}

func (as *AccountService) GetAllAccounts() ([]*ledger.Account, error) {
	return as.repo.GetAllAccounts()
}

func (as *AccountService) GetAccountByName(name string) (*ledger.Account, error) {
	return as.repo.GetAccountByName(name)
}

// GetPersonalAccounts lists the user-visible accounts; system and budget
// accounts stay hidden.
func (as *AccountService) GetPersonalAccounts() ([]*ledger.Account, error) {
	return as.repo.GetAccountsByRole(ledger.RolePersonal)
}

func (as *AccountService) CheckAccountExists(name string) (bool, error) {
	return as.repo.AccountExists(name)
}

func (as *AccountService) SetAccountActive(name string, active bool) error {
	acc, err := as.repo.GetAccountByName(name)
	if err != nil {
		return err
	}
	return as.repo.SetAccountActive(acc.ID, active)
}

// AccountBalance loads every transaction touching the account and applies
// the inflow sign, so a growing Asset reports a positive balance.
func (as *AccountService) AccountBalance(name string) (decimal.Decimal, error) {
	acc, err := as.repo.GetAccountByName(name)
	if err != nil {
		return decimal.Zero, err
	}
	txns, err := as.repo.GetTransactionsByAccount(acc.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.AccountBalance(acc, txns), nil
}

// CreateAccountInput carries the arguments to CreateAccount. Balance may be
// zero, in which case no opening transaction is written. ExchangeRate is
// required when the account currency differs from the base currency and an
// opening balance is set; it is quoted base-per-foreign.
type CreateAccountInput struct {
	Name         string
	Type         ledger.AccountType
	Currency     string
	Balance      decimal.Decimal
	BalanceDate  time.Time
	ExchangeRate decimal.Decimal
	BudgetID     *int64
	Memo         string
}

// CreateAccount creates a Personal Asset or Liability account and, when an
// opening balance is given, a system-typed opening transaction against the
// '_initial' Capital account.
func (as *AccountService) CreateAccount(in CreateAccountInput) (*ledger.Account, error) {
	if in.Type != ledger.AccountTypeAsset && in.Type != ledger.AccountTypeLiability {
		return nil, fmt.Errorf("account type must be Asset or Liability")
	}
	if in.Name == "" || len(in.Name) > constants.MaxNameLen {
		return nil, fmt.Errorf("account name must be between 1 and %d characters", constants.MaxNameLen)
	}
	if in.Currency == "" {
		in.Currency = as.baseCurrency()
	}
	if in.BudgetID != nil {
		if _, err := as.repo.GetBudgetByID(*in.BudgetID); err != nil {
			return nil, err
		}
	}

	acc := &ledger.Account{
		Name:     in.Name,
		Role:     ledger.RolePersonal,
		Type:     in.Type,
		Currency: in.Currency,
		Active:   true,
		BudgetID: in.BudgetID,
	}

	err := as.repo.ExecTx(func(repo store.Repository) error {
		personal, err := repo.GetAccountsByRole(ledger.RolePersonal)
		if err != nil {
			return err
		}
		acc.DisplayOrder = len(personal)

		if _, err := repo.CreateAccount(acc); err != nil {
			return err
		}

		if in.Balance.IsZero() {
			return nil
		}
		return as.createOpeningBalance(repo, acc, in)
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (as *AccountService) createOpeningBalance(repo store.Repository, acc *ledger.Account, in CreateAccountInput) error {
	balanceDate := in.BalanceDate
	if balanceDate.IsZero() {
		return fmt.Errorf("balance date must be provided for an opening balance")
	}

	initial, err := repo.GetSystemAccount(ledger.RoleSystem, ledger.AccountTypeCapital, constants.SystemAccountInitial)
	if err != nil {
		return fmt.Errorf("failed to load initial balance account: %w", err)
	}

	payee, err := repo.GetOrCreatePayee(constants.InitialPayeeName)
	if err != nil {
		return err
	}

	txn, err := ledger.NewTransaction(acc, balanceDate)
	if err != nil {
		return err
	}
	txn.ExternalID = newExternalID()
	txn.PayeeID = &payee.ID
	txn.Memo = in.Memo
	if txn.Memo == "" {
		txn.Memo = constants.OpeningBalanceMemo
	}

	ctx := ledger.Context{BaseCurrency: as.baseCurrency()}
	var trading *ledger.Account
	if acc.Currency != ctx.BaseCurrency {
		if in.ExchangeRate.IsZero() {
			return fmt.Errorf("exchange rate must be provided for foreign currency account balances")
		}
		txn.ForeignCurrency = acc.Currency
		txn.ForeignRate = quantizeRate(in.ExchangeRate)
		trading, err = repo.GetSystemAccount(ledger.RoleSystem, ledger.AccountTypeTrading, constants.SystemAccountTrading)
		if err != nil {
			return fmt.Errorf("failed to load currency trading account: %w", err)
		}
	}

	_, err = txn.AddSplit(ctx, initial, quantizeAmount(in.Balance), ledger.SplitParams{
		Currency: acc.Currency,
		Trading:  trading,
		Type:     ledger.TransactionSystem,
		Memo:     txn.Memo,
	})
	if err != nil {
		return err
	}

	_, err = repo.SaveTransaction(txn)
	return err
}
