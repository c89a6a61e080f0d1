package repositories

import (
	"context"
	"database/sql"

	"github.com/smarttax/smarttax_backend/models"
)

type TaxReturnRepository struct {
	db *sql.DB
}

func NewTaxReturnRepository(db *sql.DB) *TaxReturnRepository {
	return &TaxReturnRepository{db: db}
}

// File creates a return for the given year from the user's expenses in that
// year. Per category the deductible amount is capped by max_deduction; the
// tax owed back is the capped amount times the category rate. One return
// per user and year.
func (r *TaxReturnRepository) File(ctx context.Context, userID int64, year int) (*models.TaxReturn, error) {
	query := `
        INSERT INTO tax_returns (user_id, year, status, total_expenses, total_deductions, tax_owed)
        SELECT $1, $2, 'filed',
            COALESCE(SUM(t.spent), 0),
            COALESCE(SUM(LEAST(t.spent, COALESCE(t.cap, t.spent))), 0),
            COALESCE(SUM(LEAST(t.spent, COALESCE(t.cap, t.spent)) * t.pct / 100), 0)
        FROM (
            SELECT SUM(e.amount) AS spent, c.max_deduction AS cap, c.tax_percentage AS pct
            FROM expenses e
            JOIN tax_categories c ON e.category_id = c.id
            WHERE e.user_id = $1 AND EXTRACT(YEAR FROM e.date) = $2
            GROUP BY c.id, c.max_deduction, c.tax_percentage
        ) t
        RETURNING id, user_id, year, status, total_expenses, total_deductions, tax_owed, tax_paid, created_at
    `
	var ret models.TaxReturn
	err := r.db.QueryRowContext(ctx, query, userID, year).Scan(
		&ret.ID, &ret.UserID, &ret.Year, &ret.Status,
		&ret.TotalExpenses, &ret.TotalDeductions, &ret.TaxOwed, &ret.TaxPaid, &ret.CreatedAt,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return nil, ErrReturnAlreadyFiled
		}
		return nil, err
	}
	return &ret, nil
}

// ListByUser returns the caller's filed returns, newest year first.
func (r *TaxReturnRepository) ListByUser(ctx context.Context, userID int64) ([]models.TaxReturn, error) {
	query := `
        SELECT id, user_id, year, status, total_expenses, total_deductions, tax_owed, tax_paid, created_at
        FROM tax_returns WHERE user_id = $1 ORDER BY year DESC
    `
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	returns := []models.TaxReturn{}
	for rows.Next() {
		var ret models.TaxReturn
		if err := rows.Scan(&ret.ID, &ret.UserID, &ret.Year, &ret.Status,
			&ret.TotalExpenses, &ret.TotalDeductions, &ret.TaxOwed, &ret.TaxPaid, &ret.CreatedAt); err != nil {
			return nil, err
		}
		returns = append(returns, ret)
	}
	return returns, rows.Err()
}

// SetStatus updates a return's status and paid amount (admin action).
func (r *TaxReturnRepository) SetStatus(ctx context.Context, id int64, status string, taxPaid float64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tax_returns SET status = $1, tax_paid = $2 WHERE id = $3`, status, taxPaid, id)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrReturnNotFound)
}
