package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/internal/ledger"
)

// SaveTransaction inserts a whole transaction aggregate: header, lines,
// splits and entries. The aggregate's local ids are rewritten in place to the
// database ids the rows received, so the returned aggregate can be mutated
// and saved again.
func (s *Store) SaveTransaction(txn *ledger.Transaction) (int64, error) {
	stmt, err := s.db.Prepare(`
        INSERT INTO transactions (external_id, account_id, date, payee_id, memo, check_no, currency, foreign_currency, foreign_rate)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        RETURNING id;
    `)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare transaction SQL: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	var newID int64
	err = stmt.QueryRow(
		txn.ExternalID, txn.Account.ID, txn.Date.Unix(), txn.PayeeID,
		txn.Memo, txn.CheckNo, txn.Currency,
		nullString(txn.ForeignCurrency), nullDecimal(txn.ForeignRate),
	).Scan(&newID)
	if err != nil {
		var sqliteErr sqlite.Error
		if errors.As(err, &sqliteErr) {
			if errors.Is(sqliteErr.ExtendedCode, sqlite.ErrConstraintUnique) {
				return 0, fmt.Errorf("external id '%s': %w", txn.ExternalID, ErrDuplicateExternalID)
			}
		}
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}

	txn.ID = newID
	if err := s.insertChildren(txn); err != nil {
		return 0, err
	}
	return newID, nil
}

// ReplaceTransaction rewrites a stored aggregate from its in-memory state:
// the header is updated and every child row is replaced. Meant to run inside
// ExecTx together with whatever check gated the edit.
func (s *Store) ReplaceTransaction(txn *ledger.Transaction) error {
	result, err := s.db.Exec(`
        UPDATE transactions
        SET date = ?, payee_id = ?, memo = ?, check_no = ?, currency = ?, foreign_currency = ?, foreign_rate = ?
        WHERE id = ?
    `, txn.Date.Unix(), txn.PayeeID, txn.Memo, txn.CheckNo, txn.Currency,
		nullString(txn.ForeignCurrency), nullDecimal(txn.ForeignRate), txn.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("transaction with ID %d: %w", txn.ID, ErrRecordNotFound)
	}

	// Entries and splits cascade from their lines.
	if _, err := s.db.Exec("DELETE FROM transaction_lines WHERE transaction_id = ?", txn.ID); err != nil {
		return fmt.Errorf("failed to delete transaction lines: %w", err)
	}
	return s.insertChildren(txn)
}

func (s *Store) insertChildren(txn *ledger.Transaction) error {
	lineIDs := make(map[int64]int64, len(txn.Lines))
	splitIDs := make(map[int64]int64, len(txn.Splits))

	stmtLine, err := s.db.Prepare(`
        INSERT INTO transaction_lines (transaction_id, account_id, cleared, cleared_at, reconciled, reconciled_at)
        VALUES (?, ?, ?, ?, ?, ?)
        RETURNING id;
    `)
	if err != nil {
		return fmt.Errorf("failed to prepare line SQL: %w", err)
	}
	defer func() {
		_ = stmtLine.Close()
	}()

	for i := range txn.Lines {
		ln := &txn.Lines[i]
		var dbID int64
		err = stmtLine.QueryRow(
			txn.ID, ln.AccountID, ln.Cleared, nullTime(ln.ClearedAt),
			ln.Reconciled, nullTime(ln.ReconciledAt),
		).Scan(&dbID)
		if err != nil {
			return fmt.Errorf("failed to insert transaction line: %w", err)
		}
		lineIDs[ln.ID] = dbID
	}

	stmtSplit, err := s.db.Prepare(`
        INSERT INTO transaction_splits (transaction_id, type, memo, category_id, left_line_id, right_line_id)
        VALUES (?, ?, ?, ?, ?, ?)
        RETURNING id;
    `)
	if err != nil {
		return fmt.Errorf("failed to prepare split SQL: %w", err)
	}
	defer func() {
		_ = stmtSplit.Close()
	}()

	for i := range txn.Splits {
		sp := &txn.Splits[i]
		var dbID int64
		err = stmtSplit.QueryRow(
			txn.ID, string(sp.Type), sp.Memo, sp.CategoryID,
			lineIDs[sp.LeftLineID], lineIDs[sp.RightLineID],
		).Scan(&dbID)
		if err != nil {
			return fmt.Errorf("failed to insert transaction split: %w", err)
		}
		splitIDs[sp.ID] = dbID
	}

	stmtEntry, err := s.db.Prepare(`
        INSERT INTO transaction_entries (transaction_id, line_id, split_id, amount, currency)
        VALUES (?, ?, ?, ?, ?)
        RETURNING id;
    `)
	if err != nil {
		return fmt.Errorf("failed to prepare entry SQL: %w", err)
	}
	defer func() {
		_ = stmtEntry.Close()
	}()

	for i := range txn.Entries {
		e := &txn.Entries[i]
		var dbID int64
		err = stmtEntry.QueryRow(
			txn.ID, lineIDs[e.LineID], splitIDs[e.SplitID],
			e.Amount.String(), e.Currency,
		).Scan(&dbID)
		if err != nil {
			return fmt.Errorf("failed to insert transaction entry: %w", err)
		}
		e.ID = dbID
		e.LineID = lineIDs[e.LineID]
		e.SplitID = splitIDs[e.SplitID]
	}

	for i := range txn.Lines {
		txn.Lines[i].ID = lineIDs[txn.Lines[i].ID]
	}
	for i := range txn.Splits {
		sp := &txn.Splits[i]
		sp.LeftLineID = lineIDs[sp.LeftLineID]
		sp.RightLineID = lineIDs[sp.RightLineID]
		sp.ID = splitIDs[sp.ID]
	}
	return nil
}

func (s *Store) GetTransactionByID(txID int64) (*ledger.Transaction, error) {
	row := s.db.QueryRow(`
        SELECT id, external_id, account_id, date, payee_id, memo, check_no, currency, foreign_currency, foreign_rate
        FROM transactions
        WHERE id = ?
    `, txID)

	txn, err := s.scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction with ID %d: %w", txID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	if err := s.loadChildren(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *Store) GetTransactionByExternalID(externalID string) (*ledger.Transaction, error) {
	row := s.db.QueryRow(`
        SELECT id, external_id, account_id, date, payee_id, memo, check_no, currency, foreign_currency, foreign_rate
        FROM transactions
        WHERE external_id = ?
    `, externalID)

	txn, err := s.scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction '%s': %w", externalID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	if err := s.loadChildren(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// GetTransactionsByAccount loads every aggregate with a line on the account,
// oldest first. Reconciliation and balance views both start here.
func (s *Store) GetTransactionsByAccount(accountID int64) ([]*ledger.Transaction, error) {
	return s.queryTransactions(`
        SELECT DISTINCT t.id, t.external_id, t.account_id, t.date, t.payee_id, t.memo, t.check_no, t.currency, t.foreign_currency, t.foreign_rate
        FROM transactions t
        INNER JOIN transaction_lines l ON t.id = l.transaction_id
        WHERE l.account_id = ?
        ORDER BY t.date, t.id
    `, accountID)
}

func (s *Store) GetTransactionsByDateRange(from, to time.Time) ([]*ledger.Transaction, error) {
	return s.queryTransactions(`
        SELECT id, external_id, account_id, date, payee_id, memo, check_no, currency, foreign_currency, foreign_rate
        FROM transactions
        WHERE date >= ? AND date <= ?
        ORDER BY date, id
    `, from.Unix(), to.Unix())
}

func (s *Store) GetAllTransactions(limit int) ([]*ledger.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.queryTransactions(`
        SELECT id, external_id, account_id, date, payee_id, memo, check_no, currency, foreign_currency, foreign_rate
        FROM transactions
        ORDER BY date DESC, id DESC
        LIMIT ?
    `, limit)
}

func (s *Store) queryTransactions(query string, args ...any) ([]*ledger.Transaction, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var txns []*ledger.Transaction
	for rows.Next() {
		txn, err := s.scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, txn := range txns {
		if err := s.loadChildren(txn); err != nil {
			return nil, err
		}
	}
	return txns, nil
}

func (s *Store) scanTransaction(row rowScanner) (*ledger.Transaction, error) {
	txn := &ledger.Transaction{}
	var accountID, date int64
	var payeeID sql.NullInt64
	var foreignCurrency, foreignRate sql.NullString

	err := row.Scan(
		&txn.ID, &txn.ExternalID, &accountID, &date, &payeeID,
		&txn.Memo, &txn.CheckNo, &txn.Currency, &foreignCurrency, &foreignRate,
	)
	if err != nil {
		return nil, err
	}

	txn.Date = time.Unix(date, 0).UTC()
	if payeeID.Valid {
		txn.PayeeID = &payeeID.Int64
	}
	if foreignCurrency.Valid {
		txn.ForeignCurrency = foreignCurrency.String
	}
	if foreignRate.Valid {
		rate, err := decimal.NewFromString(foreignRate.String)
		if err != nil {
			return nil, fmt.Errorf("invalid foreign rate '%s': %w", foreignRate.String, err)
		}
		txn.ForeignRate = rate
	}

	acc, err := s.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	txn.Account = acc
	return txn, nil
}

func (s *Store) loadChildren(txn *ledger.Transaction) error {
	rows, err := s.db.Query(`
        SELECT id, account_id, cleared, cleared_at, reconciled, reconciled_at
        FROM transaction_lines
        WHERE transaction_id = ?
        ORDER BY id
    `, txn.ID)
	if err != nil {
		return fmt.Errorf("failed to query transaction lines: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	txn.Lines = nil
	for rows.Next() {
		var ln ledger.Line
		var clearedAt, reconciledAt sql.NullInt64
		err := rows.Scan(&ln.ID, &ln.AccountID, &ln.Cleared, &clearedAt, &ln.Reconciled, &reconciledAt)
		if err != nil {
			return fmt.Errorf("failed to scan transaction line: %w", err)
		}
		if clearedAt.Valid {
			d := time.Unix(clearedAt.Int64, 0).UTC()
			ln.ClearedAt = &d
		}
		if reconciledAt.Valid {
			d := time.Unix(reconciledAt.Int64, 0).UTC()
			ln.ReconciledAt = &d
		}
		txn.Lines = append(txn.Lines, ln)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	splitRows, err := s.db.Query(`
        SELECT id, type, memo, category_id, left_line_id, right_line_id
        FROM transaction_splits
        WHERE transaction_id = ?
        ORDER BY id
    `, txn.ID)
	if err != nil {
		return fmt.Errorf("failed to query transaction splits: %w", err)
	}
	defer func() {
		_ = splitRows.Close()
	}()

	txn.Splits = nil
	for splitRows.Next() {
		var sp ledger.Split
		var stype string
		var categoryID sql.NullInt64
		err := splitRows.Scan(&sp.ID, &stype, &sp.Memo, &categoryID, &sp.LeftLineID, &sp.RightLineID)
		if err != nil {
			return fmt.Errorf("failed to scan transaction split: %w", err)
		}
		sp.Type = ledger.TransactionType(stype)
		if categoryID.Valid {
			sp.CategoryID = &categoryID.Int64
		}
		txn.Splits = append(txn.Splits, sp)
	}
	if err := splitRows.Err(); err != nil {
		return err
	}

	entryRows, err := s.db.Query(`
        SELECT id, line_id, split_id, amount, currency
        FROM transaction_entries
        WHERE transaction_id = ?
        ORDER BY id
    `, txn.ID)
	if err != nil {
		return fmt.Errorf("failed to query transaction entries: %w", err)
	}
	defer func() {
		_ = entryRows.Close()
	}()

	txn.Entries = nil
	for entryRows.Next() {
		var e ledger.Entry
		var amount string
		err := entryRows.Scan(&e.ID, &e.LineID, &e.SplitID, &amount, &e.Currency)
		if err != nil {
			return fmt.Errorf("failed to scan transaction entry: %w", err)
		}
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return fmt.Errorf("invalid entry amount '%s': %w", amount, err)
		}
		txn.Entries = append(txn.Entries, e)
	}
	return entryRows.Err()
}

// UpdateLineState persists the clearing/reconciliation flags of one line.
func (s *Store) UpdateLineState(line *ledger.Line) error {
	result, err := s.db.Exec(`
        UPDATE transaction_lines
        SET cleared = ?, cleared_at = ?, reconciled = ?, reconciled_at = ?
        WHERE id = ?
    `, line.Cleared, nullTime(line.ClearedAt), line.Reconciled, nullTime(line.ReconciledAt), line.ID)
	if err != nil {
		return fmt.Errorf("failed to update line state: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("line with ID %d: %w", line.ID, ErrRecordNotFound)
	}
	return nil
}

// DeleteTransaction removes a transaction; lines, splits and entries cascade.
func (s *Store) DeleteTransaction(txID int64) error {
	result, err := s.db.Exec("DELETE FROM transactions WHERE id = ?", txID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("transaction with ID %d: %w", txID, ErrRecordNotFound)
	}
	return nil
}

// EntryFilter narrows ListEntries. Zero values mean "any".
type EntryFilter struct {
	AccountID  int64
	CategoryID int64
	From       time.Time
	To         time.Time
}

// EntryRecord is a flattened entry row for reports: the posting joined with
// its transaction date and its split's category.
type EntryRecord struct {
	EntryID       int64
	TransactionID int64
	LineID        int64
	AccountID     int64
	CategoryID    *int64
	Date          time.Time
	Amount        decimal.Decimal
	Currency      string
}

func (s *Store) ListEntries(filter EntryFilter) ([]EntryRecord, error) {
	query := `
        SELECT e.id, e.transaction_id, e.line_id, l.account_id, s.category_id, t.date, e.amount, e.currency
        FROM transaction_entries e
        INNER JOIN transaction_lines l ON e.line_id = l.id
        INNER JOIN transaction_splits s ON e.split_id = s.id
        INNER JOIN transactions t ON e.transaction_id = t.id
        WHERE 1=1
    `
	var args []any
	if filter.AccountID != 0 {
		query += " AND l.account_id = ?"
		args = append(args, filter.AccountID)
	}
	if filter.CategoryID != 0 {
		query += " AND s.category_id = ?"
		args = append(args, filter.CategoryID)
	}
	if !filter.From.IsZero() {
		query += " AND t.date >= ?"
		args = append(args, filter.From.Unix())
	}
	if !filter.To.IsZero() {
		query += " AND t.date <= ?"
		args = append(args, filter.To.Unix())
	}
	query += " ORDER BY t.date, t.id, e.id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []EntryRecord
	for rows.Next() {
		var rec EntryRecord
		var categoryID sql.NullInt64
		var date int64
		var amount string
		err := rows.Scan(&rec.EntryID, &rec.TransactionID, &rec.LineID, &rec.AccountID, &categoryID, &date, &amount, &rec.Currency)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if categoryID.Valid {
			rec.CategoryID = &categoryID.Int64
		}
		rec.Date = time.Unix(date, 0).UTC()
		rec.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid entry amount '%s': %w", amount, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDecimal(d decimal.Decimal) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}
