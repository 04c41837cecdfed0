package store

import (
	"database/sql"
	"errors"
	"fmt"

	sqlite "github.com/mattn/go-sqlite3"

	"github.com/tallybook/tally/internal/ledger"
)

const accountColumns = "id, name, role, type, currency, active, budget_id, display_order"

func (s *Store) CreateAccount(acc *ledger.Account) (int64, error) {
	stmt, err := s.db.Prepare(`
        INSERT INTO accounts (name, role, type, currency, active, budget_id, display_order)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        RETURNING id;
    `)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare SQL: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	var newID int64

	err = stmt.QueryRow(
		acc.Name, string(acc.Role), string(acc.Type),
		acc.Currency, acc.Active, acc.BudgetID, acc.DisplayOrder,
	).Scan(&newID)

	if err != nil {
		var sqliteErr sqlite.Error
		if errors.As(err, &sqliteErr) {
			if errors.Is(sqliteErr.Code, sqlite.ErrConstraint) || errors.Is(sqliteErr.ExtendedCode, sqlite.ErrConstraintUnique) {
				return 0, fmt.Errorf("failed to create account '%s': %w", acc.Name, ErrAccountExists)
			}
		}
		return 0, fmt.Errorf("failed to executing SQL insertion: %w", err)
	}

	acc.ID = newID
	return newID, nil
}

func (s *Store) GetAccountByID(id int64) (*ledger.Account, error) {
	row := s.db.QueryRow("SELECT "+accountColumns+" FROM accounts WHERE id = ?", id)

	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account with ID %d: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query account with ID %d: %w", id, err)
	}
	return acc, nil
}

func (s *Store) GetAccountByName(name string) (*ledger.Account, error) {
	row := s.db.QueryRow("SELECT "+accountColumns+" FROM accounts WHERE name = ?", name)

	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account '%s': %w", name, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query account '%s': %w", name, err)
	}
	return acc, nil
}

// GetSystemAccount looks up one of the well-known accounts by role, type and
// name (for example the '_trading' System Trading account).
func (s *Store) GetSystemAccount(role ledger.AccountRole, atype ledger.AccountType, name string) (*ledger.Account, error) {
	row := s.db.QueryRow(
		"SELECT "+accountColumns+" FROM accounts WHERE role = ? AND type = ? AND name = ?",
		string(role), string(atype), name,
	)

	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("system account '%s' (%s/%s): %w", name, role, atype, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query system account '%s': %w", name, err)
	}
	return acc, nil
}

// GetBudgetAccount returns the Budget-role account of the given type owned
// by one budget. Every budget has exactly one Income and one Expense account.
func (s *Store) GetBudgetAccount(budgetID int64, atype ledger.AccountType) (*ledger.Account, error) {
	row := s.db.QueryRow(
		"SELECT "+accountColumns+" FROM accounts WHERE role = ? AND type = ? AND budget_id = ?",
		string(ledger.RoleBudget), string(atype), budgetID,
	)

	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("budget %d has no %s account: %w", budgetID, atype, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query budget account: %w", err)
	}
	return acc, nil
}

func (s *Store) GetAllAccounts() ([]*ledger.Account, error) {
	rows, err := s.db.Query(`
        SELECT ` + accountColumns + `
        FROM accounts
        ORDER BY display_order, name
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanAccounts(rows)
}

func (s *Store) GetAccountsByRole(role ledger.AccountRole) ([]*ledger.Account, error) {
	rows, err := s.db.Query(`
        SELECT `+accountColumns+`
        FROM accounts
        WHERE role = ?
        ORDER BY display_order, name
    `, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanAccounts(rows)
}

func (s *Store) AccountExists(name string) (bool, error) {
	var exists bool
	row := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM accounts WHERE name = ?)", name)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}

// SetAccountActive hides or unhides an account. Role, type and currency are
// immutable once an account exists; active is the only mutable flag.
func (s *Store) SetAccountActive(id int64, active bool) error {
	result, err := s.db.Exec("UPDATE accounts SET active = ? WHERE id = ?", active, id)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account with ID %d: %w", id, ErrRecordNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*ledger.Account, error) {
	acc := &ledger.Account{}
	var role, atype string
	var budgetID sql.NullInt64

	err := row.Scan(
		&acc.ID, &acc.Name, &role, &atype,
		&acc.Currency, &acc.Active, &budgetID, &acc.DisplayOrder,
	)
	if err != nil {
		return nil, err
	}

	acc.Role = ledger.AccountRole(role)
	acc.Type = ledger.AccountType(atype)
	if budgetID.Valid {
		acc.BudgetID = &budgetID.Int64
	}
	return acc, nil
}

func scanAccounts(rows *sql.Rows) ([]*ledger.Account, error) {
	var accounts []*ledger.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}
