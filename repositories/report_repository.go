package repositories

import (
	"context"
	"database/sql"

	"github.com/smarttax/smarttax_backend/models"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// UserReport aggregates users by role with approved/pending counts.
func (r *ReportRepository) UserReport(ctx context.Context) ([]models.UserReportRow, error) {
	query := `
        SELECT role,
            COUNT(*) AS total,
            SUM(CASE WHEN is_approved THEN 1 ELSE 0 END) AS approved,
            SUM(CASE WHEN is_approved THEN 0 ELSE 1 END) AS pending
        FROM users
        GROUP BY role
        ORDER BY role
    `
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := []models.UserReportRow{}
	for rows.Next() {
		var row models.UserReportRow
		if err := rows.Scan(&row.Role, &row.Total, &row.Approved, &row.Pending); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

// FilingReport aggregates tax returns by year and status.
func (r *ReportRepository) FilingReport(ctx context.Context) ([]models.FilingReportRow, error) {
	query := `
        SELECT year, status, COUNT(*), COALESCE(SUM(tax_owed), 0), COALESCE(SUM(tax_paid), 0)
        FROM tax_returns
        GROUP BY year, status
        ORDER BY year DESC, status
    `
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := []models.FilingReportRow{}
	for rows.Next() {
		var row models.FilingReportRow
		if err := rows.Scan(&row.Year, &row.Status, &row.Count, &row.TotalTaxOwed, &row.TotalTaxPaid); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
