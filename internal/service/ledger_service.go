package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/internal/config"
	"github.com/tallybook/tally/internal/constants"
	"github.com/tallybook/tally/internal/ledger"
	"github.com/tallybook/tally/internal/moneyfmt"
	"github.com/tallybook/tally/internal/store"
)

// LedgerService owns every mutation of the transaction ledger: creating and
// editing transactions, clearing lines and reconciling accounts. All writes
// run inside a store transaction so the aggregate commits atomically.
type LedgerService struct {
	repo   store.Repository
	config *config.Config
}

func NewLedgerService(repo store.Repository, cfg *config.Config) *LedgerService {
	return &LedgerService{repo: repo, config: cfg}
}

func (ls *LedgerService) ledgerContext() ledger.Context {
	return ledger.Context{BaseCurrency: ls.config.Defaults.Currency}
}

// SplitInput is one requested split: either a transfer to another Personal
// account or a (possibly uncategorized) in/outflow.
type SplitInput struct {
	Amount decimal.Decimal
	// TransferAccount names the opposing Personal account for a transfer.
	TransferAccount string
	// CategoryID links the split to a budget category.
	CategoryID *int64
	Memo       string
}

// TransactionInput carries the arguments to CreateTransaction.
type TransactionInput struct {
	AccountName string
	Date        time.Time
	Payee       string
	Memo        string
	CheckNo     string
	// Amount is the transaction total; the split amounts must sum to it.
	Amount decimal.Decimal
	// Currency of the transaction; defaults to the account currency.
	Currency string
	// ExchangeRate (base-per-foreign) is required when Currency is not the
	// base currency.
	ExchangeRate decimal.Decimal
	Splits       []SplitInput
}

type resolvedSplit struct {
	ttype      ledger.TransactionType
	opposing   *ledger.Account
	categoryID *int64
	amount     decimal.Decimal
	memo       string
}

// CreateTransaction validates the input, resolves each split's opposing
// account, builds the aggregate through the split engine and saves it in a
// single store transaction.
func (ls *LedgerService) CreateTransaction(in TransactionInput) (*ledger.Transaction, error) {
	if len(in.Splits) == 0 {
		return nil, fmt.Errorf("transaction must have at least one split")
	}

	account, err := ls.repo.GetAccountByName(in.AccountName)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC().Truncate(24 * time.Hour)
	}

	txn, err := ledger.NewTransaction(account, date)
	if err != nil {
		return nil, err
	}
	txn.ExternalID = newExternalID()
	txn.Memo = in.Memo
	txn.CheckNo = in.CheckNo

	if in.Payee != "" {
		payee, err := ls.repo.GetOrCreatePayee(in.Payee)
		if err != nil {
			return nil, err
		}
		txn.PayeeID = &payee.ID
	}

	currency := in.Currency
	if currency == "" {
		currency = account.Currency
	}

	ctx := ls.ledgerContext()
	trading, err := ls.prepareForeign(txn, currency, in.ExchangeRate)
	if err != nil {
		return nil, err
	}

	splits, err := ls.parseSplits(account, quantizeAmount(in.Amount), currency, in.Splits)
	if err != nil {
		return nil, err
	}

	for _, sp := range splits {
		_, err := txn.AddSplit(ctx, sp.opposing, sp.amount, ledger.SplitParams{
			Currency:   currency,
			CategoryID: sp.categoryID,
			Trading:    trading,
			Type:       sp.ttype,
			Memo:       sp.memo,
		})
		if err != nil {
			return nil, err
		}
	}

	err = ls.repo.ExecTx(func(repo store.Repository) error {
		_, err := repo.SaveTransaction(txn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// prepareForeign records the foreign currency header fields when the
// transaction currency is not the base currency, and loads the trading
// account that multi-currency splits will post through.
func (ls *LedgerService) prepareForeign(txn *ledger.Transaction, currency string, rate decimal.Decimal) (*ledger.Account, error) {
	if currency == ls.config.Defaults.Currency {
		return nil, nil
	}
	if rate.IsZero() {
		return nil, fmt.Errorf("exchange rate must be provided for a foreign currency transaction")
	}

	txn.ForeignCurrency = currency
	txn.ForeignRate = quantizeRate(rate)

	trading, err := ls.repo.GetSystemAccount(ledger.RoleSystem, ledger.AccountTypeTrading, constants.SystemAccountTrading)
	if err != nil {
		return nil, fmt.Errorf("failed to load currency trading account: %w", err)
	}
	return trading, nil
}

// parseSplits resolves each split's type and opposing account, then checks
// that the split amounts sum to the transaction total.
func (ls *LedgerService) parseSplits(account *ledger.Account, amount decimal.Decimal, currency string, inputs []SplitInput) ([]resolvedSplit, error) {
	var splits []resolvedSplit
	sum := decimal.Zero

	for i, in := range inputs {
		sp, err := ls.resolveSplit(account, in)
		if err != nil {
			return nil, fmt.Errorf("split #%d: %w", i+1, err)
		}
		splits = append(splits, sp)
		sum = sum.Add(sp.amount)
	}

	if !sum.Equal(amount) {
		return nil, ledger.Domainf("sum of transaction split amounts does not equal total transaction amount %s != %s",
			moneyfmt.Format(sum, currency), moneyfmt.Format(amount, currency))
	}
	return splits, nil
}

// resolveSplit determines the transaction type, opposing account and
// category for one split, mirroring how funds flow: transfers oppose another
// Personal account, categorized splits oppose the budget's Income or Expense
// account, and uncategorized splits on off-budget accounts fall back to the
// '_ob_income'/'_ob_expense' system accounts.
func (ls *LedgerService) resolveSplit(account *ledger.Account, in SplitInput) (resolvedSplit, error) {
	sp := resolvedSplit{
		amount: quantizeAmount(in.Amount),
		memo:   in.Memo,
	}

	if in.TransferAccount != "" {
		if in.CategoryID != nil {
			return sp, ledger.Domainf("transfer transactions may not have a category")
		}
		opp, err := ls.repo.GetAccountByName(in.TransferAccount)
		if err != nil {
			return sp, err
		}
		if opp.Role != ledger.RolePersonal {
			return sp, fmt.Errorf("transfer account role must be Personal")
		}
		if opp.Type != ledger.AccountTypeAsset && opp.Type != ledger.AccountTypeLiability {
			return sp, fmt.Errorf("transfer account type must be Asset or Liability")
		}
		sp.ttype = ledger.TransactionTransfer
		sp.opposing = opp
		return sp, nil
	}

	sp.ttype = ledger.TransactionInflow
	if sp.amount.Mul(decimal.NewFromInt(int64(account.InflowSign()))).IsNegative() {
		sp.ttype = ledger.TransactionOutflow
	}

	if in.CategoryID == nil {
		// Off-budget flow against the system income/expense accounts.
		name := constants.SystemAccountOBIncome
		atype := ledger.AccountTypeIncome
		if sp.ttype == ledger.TransactionOutflow {
			name = constants.SystemAccountOBExpense
			atype = ledger.AccountTypeExpense
		}
		opp, err := ls.repo.GetSystemAccount(ledger.RoleSystem, atype, name)
		if err != nil {
			return sp, fmt.Errorf("failed to load opposing account: %w", err)
		}
		sp.opposing = opp
		return sp, nil
	}

	if account.BudgetID == nil {
		return sp, ledger.Domainf("transactions from off-budget accounts may not be linked to categories")
	}

	category, err := ls.repo.GetCategoryByID(*in.CategoryID)
	if err != nil {
		return sp, err
	}
	if category.IsGroup || category.ParentID == nil {
		return sp, ledger.Domainf("transactions may not be linked to category groups")
	}
	sp.categoryID = &category.ID

	parent, err := ls.repo.GetCategoryByID(*category.ParentID)
	if err != nil {
		return sp, err
	}

	atype := ledger.AccountTypeExpense
	if parent.Name == "_income" {
		atype = ledger.AccountTypeIncome
	}
	opp, err := ls.repo.GetBudgetAccount(category.BudgetID, atype)
	if err != nil {
		return sp, fmt.Errorf("failed to load opposing account: %w", err)
	}
	sp.opposing = opp
	return sp, nil
}

func newExternalID() string { return uuid.NewString() }

func quantizeAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(constants.AmountPlaces)
}

func quantizeRate(d decimal.Decimal) decimal.Decimal {
	return d.Round(constants.RatePlaces)
}
