package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/smarttax/smarttax_backend/models"
)

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// List returns the caller's expenses joined with their category name,
// newest first. Every clause is scoped by user_id.
func (r *ExpenseRepository) List(ctx context.Context, userID int64, filter models.ExpenseFilter) ([]models.Expense, error) {
	query := `
        SELECT e.id, e.user_id, e.category_id, c.name, e.amount, e.description, e.date, e.receipt_url, e.created_at
        FROM expenses e
        JOIN tax_categories c ON e.category_id = c.id
        WHERE e.user_id = $1
    `
	args := []interface{}{userID}

	if filter.CategoryID > 0 {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND e.category_id = $%d", len(args))
	}
	if filter.StartDate != "" {
		args = append(args, filter.StartDate)
		query += fmt.Sprintf(" AND e.date >= $%d", len(args))
	}
	if filter.EndDate != "" {
		args = append(args, filter.EndDate)
		query += fmt.Sprintf(" AND e.date <= $%d", len(args))
	}
	if filter.MinAmount > 0 {
		args = append(args, filter.MinAmount)
		query += fmt.Sprintf(" AND e.amount >= $%d", len(args))
	}
	if filter.MaxAmount > 0 {
		args = append(args, filter.MaxAmount)
		query += fmt.Sprintf(" AND e.amount <= $%d", len(args))
	}

	query += " ORDER BY e.date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func scanExpenses(rows *sql.Rows) ([]models.Expense, error) {
	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.CategoryID, &e.CategoryName,
			&e.Amount, &e.Description, &e.Date, &e.ReceiptURL, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// Get returns one expense owned by the caller.
func (r *ExpenseRepository) Get(ctx context.Context, userID, id int64) (*models.Expense, error) {
	query := `
        SELECT e.id, e.user_id, e.category_id, c.name, e.amount, e.description, e.date, e.receipt_url, e.created_at
        FROM expenses e
        JOIN tax_categories c ON e.category_id = c.id
        WHERE e.id = $1 AND e.user_id = $2
    `
	var e models.Expense
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&e.ID, &e.UserID, &e.CategoryID, &e.CategoryName,
		&e.Amount, &e.Description, &e.Date, &e.ReceiptURL, &e.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, userID int64, req *models.ExpenseRequest) (int64, error) {
	query := `
        INSERT INTO expenses (user_id, category_id, amount, description, date, receipt_url)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		userID, req.CategoryID, req.Amount, req.Description, req.Date, req.ReceiptURL,
	).Scan(&id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return 0, ErrCategoryNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, userID, id int64, req *models.ExpenseRequest) error {
	query := `
        UPDATE expenses SET category_id = $1, amount = $2, description = $3, date = $4, receipt_url = $5
        WHERE id = $6 AND user_id = $7
    `
	result, err := r.db.ExecContext(ctx, query,
		req.CategoryID, req.Amount, req.Description, req.Date, req.ReceiptURL, id, userID)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ErrCategoryNotFound
		}
		return err
	}
	return requireAffected(result, ErrExpenseNotFound)
}

func (r *ExpenseRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrExpenseNotFound)
}

// SetReceipt stores the uploaded receipt URL on an owned expense.
func (r *ExpenseRepository) SetReceipt(ctx context.Context, userID, id int64, url string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET receipt_url = $1 WHERE id = $2 AND user_id = $3`, url, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrExpenseNotFound)
}

// Summary builds the per-user dashboard projection.
func (r *ExpenseRepository) Summary(ctx context.Context, userID int64) (*models.DashboardSummary, error) {
	summary := models.DashboardSummary{RecentExpenses: []models.Expense{}}

	totalsQuery := `
        SELECT COUNT(*), COALESCE(SUM(amount), 0), MAX(date)::text
        FROM expenses WHERE user_id = $1
    `
	var lastDate sql.NullString
	err := r.db.QueryRowContext(ctx, totalsQuery, userID).Scan(
		&summary.ExpenseCount, &summary.TotalExpenses, &lastDate)
	if err != nil {
		return nil, err
	}
	if lastDate.Valid {
		summary.LastExpenseDate = &lastDate.String
	}

	topQuery := `
        SELECT c.name
        FROM tax_categories c
        LEFT JOIN expenses e ON e.category_id = c.id AND e.user_id = $1
        GROUP BY c.id, c.name
        ORDER BY COUNT(e.id) DESC
        LIMIT 1
    `
	var top sql.NullString
	err = r.db.QueryRowContext(ctx, topQuery, userID).Scan(&top)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if top.Valid {
		summary.TopCategory = &top.String
	}

	deductionsQuery := `
        SELECT COALESCE(SUM(LEAST(t.spent, COALESCE(t.cap, t.spent)) * t.pct / 100), 0)
        FROM (
            SELECT SUM(e.amount) AS spent, c.max_deduction AS cap, c.tax_percentage AS pct
            FROM expenses e
            JOIN tax_categories c ON e.category_id = c.id
            WHERE e.user_id = $1
            GROUP BY c.id, c.max_deduction, c.tax_percentage
        ) t
    `
	if err := r.db.QueryRowContext(ctx, deductionsQuery, userID).Scan(&summary.TotalDeductions); err != nil {
		return nil, err
	}

	recentQuery := `
        SELECT e.id, e.user_id, e.category_id, c.name, e.amount, e.description, e.date, e.receipt_url, e.created_at
        FROM expenses e
        JOIN tax_categories c ON e.category_id = c.id
        WHERE e.user_id = $1
        ORDER BY e.date DESC
        LIMIT 5
    `
	rows, err := r.db.QueryContext(ctx, recentQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recent, err := scanExpenses(rows)
	if err != nil {
		return nil, err
	}
	summary.RecentExpenses = recent

	return &summary, nil
}
