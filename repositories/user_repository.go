package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/smarttax/smarttax_backend/models"
)

const userColumns = `id, username, email, password_hash, role, is_approved, admin_notes,
	full_name, contact_number, gender, nationality, id_number, address, created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CheckUserExists reports a duplicate username or email as a sentinel error.
func (r *UserRepository) CheckUserExists(ctx context.Context, username, email string) error {
	query := `
        SELECT
            EXISTS(SELECT 1 FROM users WHERE username = $1) AS username_exists,
            EXISTS(SELECT 1 FROM users WHERE email = $2) AS email_exists
    `
	var usernameExists, emailExists bool
	err := r.db.QueryRowContext(ctx, query, username, email).Scan(&usernameExists, &emailExists)
	if err != nil {
		return err
	}

	switch {
	case usernameExists:
		return ErrUsernameAlreadyExists
	case emailExists:
		return ErrEmailAlreadyExists
	default:
		return nil
	}
}

// Create inserts a new user row and returns its id.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	query := `
        INSERT INTO users (username, email, password_hash, role, is_approved,
            full_name, contact_number, gender, nationality, id_number, address)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.Role, u.IsApproved,
		u.FullName, u.ContactNumber, u.Gender, u.Nationality, u.IDNumber, u.Address,
	).Scan(&id)
	if err != nil {
		// A registration racing past CheckUserExists still hits the unique
		// constraints; report it as the same duplicate, not a server error.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			if strings.Contains(pqErr.Constraint, "email") {
				return 0, ErrEmailAlreadyExists
			}
			return 0, ErrUsernameAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsApproved, &u.AdminNotes,
		&u.FullName, &u.ContactNumber, &u.Gender, &u.Nationality, &u.IDNumber, &u.Address,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByEmail returns the full user row for a login lookup.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// FindByID returns the live user row for the per-request re-check.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// List returns the public projection of every user, newest first.
func (r *UserRepository) List(ctx context.Context) ([]models.PublicUser, error) {
	query := `
        SELECT id, username, email, full_name, role, is_approved, created_at
        FROM users ORDER BY created_at DESC
    `
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.PublicUser{}
	for rows.Next() {
		var u models.PublicUser
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Role, &u.IsApproved, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetApproval flips a user's approval flag. The WHERE clause makes the
// update a no-op when the flag already holds the target value, so
// re-approving an approved user mutates zero rows. Returns whether a row
// changed; ErrUserNotFound when the id does not exist.
func (r *UserRepository) SetApproval(ctx context.Context, id int64, approved bool, notes string) (bool, error) {
	query := `
        UPDATE users SET is_approved = $1, admin_notes = $2, updated_at = now()
        WHERE id = $3 AND is_approved IS DISTINCT FROM $1
    `
	result, err := r.db.ExecContext(ctx, query, approved, notes, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		return true, nil
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrUserNotFound
	}
	return false, nil
}

// EnsureAdmin creates the bootstrap admin account if no admin exists yet.
func (r *UserRepository) EnsureAdmin(ctx context.Context, username, email, passwordHash string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE role = 'admin')`).Scan(&exists)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	query := `
        INSERT INTO users (username, email, password_hash, role, is_approved)
        VALUES ($1, $2, $3, 'admin', TRUE)
    `
	if _, err := r.db.ExecContext(ctx, query, username, email, passwordHash); err != nil {
		return false, err
	}
	return true, nil
}
