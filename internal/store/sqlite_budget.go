package store

import (
	"database/sql"
	"errors"
	"fmt"

	sqlite "github.com/mattn/go-sqlite3"
)

func (s *Store) CreateBudget(name, currency string) (int64, error) {
	stmt, err := s.db.Prepare(`
        INSERT INTO budgets (name, currency)
        VALUES (?, ?)
        RETURNING id;
    `)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare SQL: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	var newID int64
	if err := stmt.QueryRow(name, currency).Scan(&newID); err != nil {
		var sqliteErr sqlite.Error
		if errors.As(err, &sqliteErr) && errors.Is(sqliteErr.ExtendedCode, sqlite.ErrConstraintUnique) {
			return 0, fmt.Errorf("budget '%s': %w", name, ErrConstraintViolation)
		}
		return 0, fmt.Errorf("failed to insert budget: %w", err)
	}
	return newID, nil
}

func (s *Store) GetBudgetByID(id int64) (*Budget, error) {
	row := s.db.QueryRow("SELECT id, name, currency FROM budgets WHERE id = ?", id)

	b := &Budget{}
	if err := row.Scan(&b.ID, &b.Name, &b.Currency); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("budget with ID %d: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}
	return b, nil
}

func (s *Store) GetBudgetByName(name string) (*Budget, error) {
	row := s.db.QueryRow("SELECT id, name, currency FROM budgets WHERE name = ?", name)

	b := &Budget{}
	if err := row.Scan(&b.ID, &b.Name, &b.Currency); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("budget '%s': %w", name, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}
	return b, nil
}

func (s *Store) CreateCategory(c *Category) (int64, error) {
	stmt, err := s.db.Prepare(`
        INSERT INTO categories (budget_id, parent_id, name, is_group, hidden, display_order)
        VALUES (?, ?, ?, ?, ?, ?)
        RETURNING id;
    `)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare SQL: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	var newID int64
	err = stmt.QueryRow(c.BudgetID, c.ParentID, c.Name, c.IsGroup, c.Hidden, c.DisplayOrder).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert category: %w", err)
	}
	c.ID = newID
	return newID, nil
}

func (s *Store) GetCategoryByID(id int64) (*Category, error) {
	row := s.db.QueryRow(`
        SELECT id, budget_id, parent_id, name, is_group, hidden, display_order
        FROM categories
        WHERE id = ?
    `, id)

	c := &Category{}
	var parentID sql.NullInt64
	err := row.Scan(&c.ID, &c.BudgetID, &parentID, &c.Name, &c.IsGroup, &c.Hidden, &c.DisplayOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category with ID %d: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	if parentID.Valid {
		c.ParentID = &parentID.Int64
	}
	return c, nil
}

func (s *Store) GetCategoriesByBudget(budgetID int64) ([]*Category, error) {
	rows, err := s.db.Query(`
        SELECT id, budget_id, parent_id, name, is_group, hidden, display_order
        FROM categories
        WHERE budget_id = ?
        ORDER BY display_order, name
    `, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var categories []*Category
	for rows.Next() {
		c := &Category{}
		var parentID sql.NullInt64
		err := rows.Scan(&c.ID, &c.BudgetID, &parentID, &c.Name, &c.IsGroup, &c.Hidden, &c.DisplayOrder)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		if parentID.Valid {
			c.ParentID = &parentID.Int64
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetOrCreatePayee finds a payee by exact name or creates it.
func (s *Store) GetOrCreatePayee(name string) (*Payee, error) {
	row := s.db.QueryRow("SELECT id, name, memo FROM payees WHERE name = ?", name)

	p := &Payee{}
	err := row.Scan(&p.ID, &p.Name, &p.Memo)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query payee '%s': %w", name, err)
	}

	stmt, err := s.db.Prepare(`
        INSERT INTO payees (name, memo)
        VALUES (?, '')
        RETURNING id;
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare SQL: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	p = &Payee{Name: name}
	if err := stmt.QueryRow(name).Scan(&p.ID); err != nil {
		return nil, fmt.Errorf("failed to insert payee: %w", err)
	}
	return p, nil
}

func (s *Store) GetPayeeByID(id int64) (*Payee, error) {
	row := s.db.QueryRow("SELECT id, name, memo FROM payees WHERE id = ?", id)

	p := &Payee{}
	if err := row.Scan(&p.ID, &p.Name, &p.Memo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payee with ID %d: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query payee: %w", err)
	}
	return p, nil
}

func (s *Store) GetAllPayees() ([]*Payee, error) {
	rows, err := s.db.Query("SELECT id, name, memo FROM payees ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query payees: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var payees []*Payee
	for rows.Next() {
		p := &Payee{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Memo); err != nil {
			return nil, fmt.Errorf("failed to scan payee: %w", err)
		}
		payees = append(payees, p)
	}
	return payees, rows.Err()
}
