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

type expenseRepoDeps struct {
	repo    *repositories.ExpenseRepository
	mock    sqlmock.Sqlmock
	cleanup func()
}

func setupExpenseRepo(t *testing.T) *expenseRepoDeps {
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Error mocking DB")

	return &expenseRepoDeps{
		repo: repositories.NewExpenseRepository(db),
		mock: mock,
		cleanup: func() {
			assert.NoError(t, mock.ExpectationsWereMet(), "Expectations were not met")
			db.Close()
		},
	}
}

func expenseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "category_id", "name", "amount", "description", "date", "receipt_url", "created_at",
	})
}

func TestListExpenses(t *testing.T) {
	t.Parallel()

	now := time.Now()

	t.Run("No filters", func(t *testing.T) {
		t.Parallel()

		td := setupExpenseRepo(t)
		defer td.cleanup()

		td.mock.ExpectQuery(regexp.QuoteMeta("WHERE e.user_id = $1")).
			WithArgs(int64(2)).
			WillReturnRows(expenseRows().
				AddRow(int64(10), int64(2), int64(1), "Medical", 120.50, "Checkup", now, "", now))

		expenses, err := td.repo.List(context.Background(), 2, models.ExpenseFilter{})

		assert.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.Equal(t, "Medical", expenses[0].CategoryName)
		assert.Equal(t, 120.50, expenses[0].Amount)
	})

	t.Run("All filters applied in order", func(t *testing.T) {
		t.Parallel()

		td := setupExpenseRepo(t)
		defer td.cleanup()

		td.mock.ExpectQuery(
			regexp.QuoteMeta("AND e.category_id = $2 AND e.date >= $3 AND e.date <= $4 AND e.amount >= $5 AND e.amount <= $6")).
			WithArgs(int64(2), int64(1), "2025-01-01", "2025-12-31", 10.0, 500.0).
			WillReturnRows(expenseRows())

		expenses, err := td.repo.List(context.Background(), 2, models.ExpenseFilter{
			CategoryID: 1,
			StartDate:  "2025-01-01",
			EndDate:    "2025-12-31",
			MinAmount:  10.0,
			MaxAmount:  500.0,
		})

		assert.NoError(t, err)
		assert.Empty(t, expenses)
	})
}

func TestCreateExpenseUnknownCategory(t *testing.T) {
	t.Parallel()

	td := setupExpenseRepo(t)
	defer td.cleanup()

	td.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO expenses")).
		WithArgs(int64(2), int64(99), 50.0, "Lunch", "2025-06-01", "").
		WillReturnError(&pq.Error{Code: "23503"})

	id, err := td.repo.Create(context.Background(), 2, &models.ExpenseRequest{
		CategoryID:  99,
		Amount:      50.0,
		Description: "Lunch",
		Date:        "2025-06-01",
	})

	assert.ErrorIs(t, err, repositories.ErrCategoryNotFound)
	assert.Zero(t, id)
}

func TestUpdateExpenseOwnerScoped(t *testing.T) {
	t.Parallel()

	td := setupExpenseRepo(t)
	defer td.cleanup()

	// Expense 10 belongs to another user; the scoped UPDATE touches no rows.
	td.mock.ExpectExec(regexp.QuoteMeta("WHERE id = $6 AND user_id = $7")).
		WithArgs(int64(1), 50.0, "Lunch", "2025-06-01", "", int64(10), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := td.repo.Update(context.Background(), 2, 10, &models.ExpenseRequest{
		CategoryID:  1,
		Amount:      50.0,
		Description: "Lunch",
		Date:        "2025-06-01",
	})

	assert.ErrorIs(t, err, repositories.ErrExpenseNotFound)
}

func TestDeleteExpenseOwnerScoped(t *testing.T) {
	t.Parallel()

	td := setupExpenseRepo(t)
	defer td.cleanup()

	td.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM expenses WHERE id = $1 AND user_id = $2")).
		WithArgs(int64(10), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := td.repo.Delete(context.Background(), 2, 10)
	assert.ErrorIs(t, err, repositories.ErrExpenseNotFound)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	now := time.Now()

	td := setupExpenseRepo(t)
	defer td.cleanup()

	td.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(SUM(amount), 0), MAX(date)::text")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "max"}).
			AddRow(int64(3), 450.0, "2025-06-01"))

	td.mock.ExpectQuery(regexp.QuoteMeta("ORDER BY COUNT(e.id) DESC")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Medical"))

	td.mock.ExpectQuery(regexp.QuoteMeta("LEAST(t.spent, COALESCE(t.cap, t.spent))")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(42.5))

	td.mock.ExpectQuery(regexp.QuoteMeta("ORDER BY e.date DESC\n        LIMIT 5")).
		WithArgs(int64(2)).
		WillReturnRows(expenseRows().
			AddRow(int64(10), int64(2), int64(1), "Medical", 120.50, "Checkup", now, "", now))

	summary, err := td.repo.Summary(context.Background(), 2)

	assert.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 3, summary.ExpenseCount)
	assert.Equal(t, 450.0, summary.TotalExpenses)
	require.NotNil(t, summary.LastExpenseDate)
	assert.Equal(t, "2025-06-01", *summary.LastExpenseDate)
	require.NotNil(t, summary.TopCategory)
	assert.Equal(t, "Medical", *summary.TopCategory)
	assert.Equal(t, 42.5, summary.TotalDeductions)
	require.Len(t, summary.RecentExpenses, 1)
}
