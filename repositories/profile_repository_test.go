package repositories_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttax/smarttax_backend/models"
	"github.com/smarttax/smarttax_backend/repositories"
)

func setupProfileRepo(t *testing.T) (*repositories.ProfileRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Error mocking DB")

	cleanup := func() {
		assert.NoError(t, mock.ExpectationsWereMet(), "Expectations were not met")
		db.Close()
	}
	return repositories.NewProfileRepository(db), mock, cleanup
}

func TestGetProfile(t *testing.T) {
	t.Parallel()

	getQuery := regexp.QuoteMeta("FROM tax_profiles WHERE user_id = $1")

	t.Run("Profile found", func(t *testing.T) {
		t.Parallel()

		repo, mock, cleanup := setupProfileRepo(t)
		defer cleanup()

		mock.ExpectQuery(getQuery).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id", "tax_id", "first_name", "last_name", "date_of_birth", "address", "filing_status", "updated_at",
			}).AddRow(int64(1), int64(2), "TAX-123", "Jo", "Doe", "1990-04-02", "12 Main St", "single", time.Now()))

		profile, err := repo.Get(context.Background(), 2)

		assert.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, "TAX-123", profile.TaxID)
		assert.Equal(t, "single", profile.FilingStatus)
	})

	t.Run("No profile saved yet", func(t *testing.T) {
		t.Parallel()

		repo, mock, cleanup := setupProfileRepo(t)
		defer cleanup()

		mock.ExpectQuery(getQuery).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		profile, err := repo.Get(context.Background(), 2)

		assert.ErrorIs(t, err, repositories.ErrProfileNotFound)
		assert.Nil(t, profile)
	})
}

func TestUpsertProfile(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := setupProfileRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id) DO UPDATE SET")).
		WithArgs(int64(2), "TAX-123", "Jo", "Doe", "1990-04-02", "12 Main St", "single").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Upsert(context.Background(), 2, &models.TaxProfileRequest{
		TaxID:        "TAX-123",
		FirstName:    "Jo",
		LastName:     "Doe",
		DateOfBirth:  "1990-04-02",
		Address:      "12 Main St",
		FilingStatus: "single",
	})

	assert.NoError(t, err)
}
