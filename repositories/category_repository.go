package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/smarttax/smarttax_backend/models"
)

// Postgres error codes the category repository cares about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns categories, optionally only the active ones.
func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]models.TaxCategory, error) {
	query := `SELECT id, name, description, tax_percentage, max_deduction, is_active FROM tax_categories`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.TaxCategory{}
	for rows.Next() {
		var c models.TaxCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.TaxPercentage, &c.MaxDeduction, &c.IsActive); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Create(ctx context.Context, req *models.CategoryRequest) (*models.TaxCategory, error) {
	query := `
        INSERT INTO tax_categories (name, description, tax_percentage, max_deduction)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	category := models.TaxCategory{
		Name:          req.Name,
		Description:   req.Description,
		TaxPercentage: req.TaxPercentage,
		MaxDeduction:  req.MaxDeduction,
		IsActive:      true,
	}
	err := r.db.QueryRowContext(ctx, query, req.Name, req.Description, req.TaxPercentage, req.MaxDeduction).Scan(&category.ID)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return nil, ErrCategoryNameTaken
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id int64, req *models.CategoryRequest) error {
	query := `
        UPDATE tax_categories SET name = $1, description = $2, tax_percentage = $3, max_deduction = $4
        WHERE id = $5
    `
	result, err := r.db.ExecContext(ctx, query, req.Name, req.Description, req.TaxPercentage, req.MaxDeduction, id)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return ErrCategoryNameTaken
		}
		return err
	}
	return requireAffected(result, ErrCategoryNotFound)
}

// SetActive soft-disables or re-enables a category.
func (r *CategoryRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tax_categories SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrCategoryNotFound)
}

// Delete hard-deletes a category. Categories still referenced by expenses
// are protected by the FK and reported as ErrCategoryInUse.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tax_categories WHERE id = $1`, id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ErrCategoryInUse
		}
		return err
	}
	return requireAffected(result, ErrCategoryNotFound)
}

func isPgError(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

func requireAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
