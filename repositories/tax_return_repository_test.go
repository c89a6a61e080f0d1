package repositories_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttax/smarttax_backend/models"
	"github.com/smarttax/smarttax_backend/repositories"
)

type returnRepoDeps struct {
	repo    *repositories.TaxReturnRepository
	mock    sqlmock.Sqlmock
	cleanup func()
}

func setupReturnRepo(t *testing.T) *returnRepoDeps {
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Error mocking DB")

	return &returnRepoDeps{
		repo: repositories.NewTaxReturnRepository(db),
		mock: mock,
		cleanup: func() {
			assert.NoError(t, mock.ExpectationsWereMet(), "Expectations were not met")
			db.Close()
		},
	}
}

func returnRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "year", "status", "total_expenses", "total_deductions", "tax_owed", "tax_paid", "created_at",
	})
}

func TestFileReturn(t *testing.T) {
	t.Parallel()

	insertQuery := regexp.QuoteMeta("INSERT INTO tax_returns")

	t.Run("Filing freezes the computed totals", func(t *testing.T) {
		t.Parallel()

		td := setupReturnRepo(t)
		defer td.cleanup()

		td.mock.ExpectQuery(insertQuery).
			WithArgs(int64(2), 2025).
			WillReturnRows(returnRows().
				AddRow(int64(1), int64(2), 2025, models.ReturnStatusFiled, 900.0, 700.0, 84.0, 0.0, time.Now()))

		ret, err := td.repo.File(context.Background(), 2, 2025)

		assert.NoError(t, err)
		require.NotNil(t, ret)
		assert.Equal(t, models.ReturnStatusFiled, ret.Status)
		assert.Equal(t, 900.0, ret.TotalExpenses)
		assert.Equal(t, 700.0, ret.TotalDeductions)
		assert.Equal(t, 84.0, ret.TaxOwed)
	})

	t.Run("Filing twice for the same year is rejected", func(t *testing.T) {
		t.Parallel()

		td := setupReturnRepo(t)
		defer td.cleanup()

		td.mock.ExpectQuery(insertQuery).
			WithArgs(int64(2), 2025).
			WillReturnError(&pq.Error{Code: "23505"})

		ret, err := td.repo.File(context.Background(), 2, 2025)

		assert.ErrorIs(t, err, repositories.ErrReturnAlreadyFiled)
		assert.Nil(t, ret)
	})
}

func TestListReturnsByUser(t *testing.T) {
	t.Parallel()

	td := setupReturnRepo(t)
	defer td.cleanup()

	td.mock.ExpectQuery(regexp.QuoteMeta("FROM tax_returns WHERE user_id = $1 ORDER BY year DESC")).
		WithArgs(int64(2)).
		WillReturnRows(returnRows().
			AddRow(int64(2), int64(2), 2025, models.ReturnStatusFiled, 900.0, 700.0, 84.0, 0.0, time.Now()).
			AddRow(int64(1), int64(2), 2024, models.ReturnStatusPaid, 400.0, 400.0, 40.0, 40.0, time.Now()))

	returns, err := td.repo.ListByUser(context.Background(), 2)

	assert.NoError(t, err)
	require.Len(t, returns, 2)
	assert.Equal(t, 2025, returns[0].Year)
	assert.Equal(t, models.ReturnStatusPaid, returns[1].Status)
}

func TestSetReturnStatus(t *testing.T) {
	t.Parallel()

	updateQuery := regexp.QuoteMeta("UPDATE tax_returns SET status = $1, tax_paid = $2 WHERE id = $3")

	t.Run("Marks a return paid", func(t *testing.T) {
		t.Parallel()

		td := setupReturnRepo(t)
		defer td.cleanup()

		td.mock.ExpectExec(updateQuery).
			WithArgs(models.ReturnStatusPaid, 84.0, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := td.repo.SetStatus(context.Background(), 1, models.ReturnStatusPaid, 84.0)
		assert.NoError(t, err)
	})

	t.Run("Unknown return id", func(t *testing.T) {
		t.Parallel()

		td := setupReturnRepo(t)
		defer td.cleanup()

		td.mock.ExpectExec(updateQuery).
			WithArgs(models.ReturnStatusPaid, 84.0, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := td.repo.SetStatus(context.Background(), 1, models.ReturnStatusPaid, 84.0)
		assert.ErrorIs(t, err, repositories.ErrReturnNotFound)
	})
}
