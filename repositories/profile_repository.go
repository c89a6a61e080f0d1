package repositories

import (
	"context"
	"database/sql"

	"github.com/smarttax/smarttax_backend/models"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get returns the caller's tax profile, or ErrProfileNotFound when none has
// been saved yet.
func (r *ProfileRepository) Get(ctx context.Context, userID int64) (*models.TaxProfile, error) {
	query := `
        SELECT id, user_id, tax_id, first_name, last_name, date_of_birth, address, filing_status, updated_at
        FROM tax_profiles WHERE user_id = $1
    `
	var p models.TaxProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.TaxID, &p.FirstName, &p.LastName,
		&p.DateOfBirth, &p.Address, &p.FilingStatus, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Upsert creates the profile on first save and updates it afterwards.
func (r *ProfileRepository) Upsert(ctx context.Context, userID int64, req *models.TaxProfileRequest) error {
	query := `
        INSERT INTO tax_profiles (user_id, tax_id, first_name, last_name, date_of_birth, address, filing_status, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, now())
        ON CONFLICT (user_id) DO UPDATE SET
            tax_id = EXCLUDED.tax_id,
            first_name = EXCLUDED.first_name,
            last_name = EXCLUDED.last_name,
            date_of_birth = EXCLUDED.date_of_birth,
            address = EXCLUDED.address,
            filing_status = EXCLUDED.filing_status,
            updated_at = now()
    `
	_, err := r.db.ExecContext(ctx, query,
		userID, req.TaxID, req.FirstName, req.LastName, req.DateOfBirth, req.Address, req.FilingStatus)
	return err
}
