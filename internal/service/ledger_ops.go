package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/internal/constants"
	"github.com/tallybook/tally/internal/ledger"
	"github.com/tallybook/tally/internal/store"
)

func (ls *LedgerService) GetTransactionByID(txID int64) (*ledger.Transaction, error) {
	return ls.repo.GetTransactionByID(txID)
}

func (ls *LedgerService) GetRecentTransactions(limit int) ([]*ledger.Transaction, error) {
	return ls.repo.GetAllTransactions(limit)
}

// GetTransactionHistory loads the full aggregate set for one account,
// oldest first.
func (ls *LedgerService) GetTransactionHistory(accountName string) ([]*ledger.Transaction, error) {
	account, err := ls.repo.GetAccountByName(accountName)
	if err != nil {
		return nil, err
	}
	return ls.repo.GetTransactionsByAccount(account.ID)
}

// AccountLines returns the running-balance ledger view for one account.
func (ls *LedgerService) AccountLines(accountName string, reverse bool) ([]ledger.BalanceLine, error) {
	account, err := ls.repo.GetAccountByName(accountName)
	if err != nil {
		return nil, err
	}
	txns, err := ls.repo.GetTransactionsByAccount(account.ID)
	if err != nil {
		return nil, err
	}

	var rows []ledger.BalanceLine
	for _, row := range ledger.RunningBalances(txns, reverse) {
		if row.AccountID == account.ID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// Entries exposes the filtered entry stream that reports consume.
func (ls *LedgerService) Entries(filter store.EntryFilter) ([]store.EntryRecord, error) {
	return ls.repo.ListEntries(filter)
}

// PayeeName resolves a payee id for display; nil and lookup failures render
// as an empty string.
func (ls *LedgerService) PayeeName(id *int64) string {
	if id == nil {
		return ""
	}
	payee, err := ls.repo.GetPayeeByID(*id)
	if err != nil {
		return ""
	}
	return payee.Name
}

// AccountNameIndex returns an id-to-name map over all accounts, for views
// that render lines and entries.
func (ls *LedgerService) AccountNameIndex() (map[int64]string, error) {
	accounts, err := ls.repo.GetAllAccounts()
	if err != nil {
		return nil, err
	}
	index := make(map[int64]string, len(accounts))
	for _, acc := range accounts {
		index[acc.ID] = acc.Name
	}
	return index, nil
}

// UpdateTransactionInput carries a partial update; nil pointer fields keep
// the stored value. When Splits is non-nil the whole split set is replaced
// and Amount must be the new transaction total.
type UpdateTransactionInput struct {
	TransactionID int64
	Date          *time.Time
	Payee         *string
	Memo          *string
	CheckNo       *string
	Amount        decimal.Decimal
	Splits        []SplitInput
}

// UpdateTransaction edits a stored transaction. Header fields may always
// change; replacing splits is refused once any line is reconciled. The edit
// is atomic: the aggregate is rebuilt in memory and swapped in one store
// transaction.
func (ls *LedgerService) UpdateTransaction(in UpdateTransactionInput) (*ledger.Transaction, error) {
	var updated *ledger.Transaction

	err := ls.repo.ExecTx(func(repo store.Repository) error {
		txn, err := repo.GetTransactionByID(in.TransactionID)
		if err != nil {
			return err
		}

		if in.Date != nil {
			txn.Date = *in.Date
		}
		if in.Payee != nil {
			if *in.Payee == "" {
				txn.PayeeID = nil
			} else {
				payee, err := repo.GetOrCreatePayee(*in.Payee)
				if err != nil {
					return err
				}
				txn.PayeeID = &payee.ID
			}
		}
		if in.Memo != nil {
			txn.Memo = *in.Memo
		}
		if in.CheckNo != nil {
			txn.CheckNo = *in.CheckNo
		}

		if in.Splits != nil {
			if err := ls.replaceSplits(repo, txn, in); err != nil {
				return err
			}
		}

		if err := repo.ReplaceTransaction(txn); err != nil {
			return err
		}
		updated = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (ls *LedgerService) replaceSplits(repo store.Repository, txn *ledger.Transaction, in UpdateTransactionInput) error {
	splits, err := ls.parseSplits(txn.Account, quantizeAmount(in.Amount), txn.Currency, in.Splits)
	if err != nil {
		return err
	}

	var trading *ledger.Account
	if txn.ForeignCurrency != "" {
		trading, err = repo.GetSystemAccount(ledger.RoleSystem, ledger.AccountTypeTrading, constants.SystemAccountTrading)
		if err != nil {
			return fmt.Errorf("failed to load currency trading account: %w", err)
		}
	}

	reqs := make([]ledger.SplitRequest, 0, len(splits))
	for _, sp := range splits {
		reqs = append(reqs, ledger.SplitRequest{
			Opposing:   sp.opposing,
			Amount:     sp.amount,
			CategoryID: sp.categoryID,
			Type:       sp.ttype,
			Memo:       sp.memo,
		})
	}
	return txn.ReplaceSplits(ls.ledgerContext(), trading, reqs)
}

// DeleteTransaction removes a transaction unless any of its lines has been
// reconciled.
func (ls *LedgerService) DeleteTransaction(txID int64) error {
	return ls.repo.ExecTx(func(repo store.Repository) error {
		txn, err := repo.GetTransactionByID(txID)
		if err != nil {
			return err
		}
		if txn.HasReconciledLine() {
			return ledger.Domainf("transaction #%d has been reconciled and cannot be deleted", txID)
		}
		return repo.DeleteTransaction(txID)
	})
}

// SetCleared marks a transaction's line on one account as cleared or
// uncleared.
func (ls *LedgerService) SetCleared(txID int64, accountName string, cleared bool) error {
	account, err := ls.repo.GetAccountByName(accountName)
	if err != nil {
		return err
	}

	return ls.repo.ExecTx(func(repo store.Repository) error {
		txn, err := repo.GetTransactionByID(txID)
		if err != nil {
			return err
		}
		line := txn.LineForAccount(account.ID)
		if line == nil {
			return ledger.Domainf("line for account %q does not exist in transaction %d", accountName, txID)
		}
		if err := txn.SetCleared(line.ID, cleared, time.Now().UTC()); err != nil {
			return err
		}
		return repo.UpdateLineState(line)
	})
}

// ReconcileResult reports the outcome of a reconciliation.
type ReconcileResult struct {
	StatementDate    time.Time
	StatementBalance decimal.Decimal
	Reconciled       []*ledger.Transaction
}

// ReconcileAccount checks the account's cleared lines against an external
// statement balance and, on a match, flips them to reconciled. The whole
// batch runs in one store transaction so the check and the act see a stable
// snapshot.
func (ls *LedgerService) ReconcileAccount(accountName string, statementDate time.Time, statementBalance decimal.Decimal) (*ReconcileResult, error) {
	account, err := ls.repo.GetAccountByName(accountName)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{
		StatementDate:    statementDate,
		StatementBalance: quantizeAmount(statementBalance),
	}

	err = ls.repo.ExecTx(func(repo store.Repository) error {
		txns, err := repo.GetTransactionsByAccount(account.ID)
		if err != nil {
			return err
		}

		newly, err := ledger.ReconcileAccount(account, txns, statementDate, result.StatementBalance)
		if err != nil {
			return err
		}

		for _, txn := range newly {
			line := txn.LineForAccount(account.ID)
			if err := repo.UpdateLineState(line); err != nil {
				return err
			}
		}
		result.Reconciled = newly
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
