package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smarttax/smarttax_backend/models"
	"github.com/smarttax/smarttax_backend/repositories"
	"github.com/smarttax/smarttax_backend/utils"
)

type ExpenseController struct {
	Expenses *repositories.ExpenseRepository
}

func NewExpenseController(expenses *repositories.ExpenseRepository) *ExpenseController {
	return &ExpenseController{Expenses: expenses}
}

func expenseFilterFromQuery(c echo.Context) models.ExpenseFilter {
	var filter models.ExpenseFilter
	if v := c.QueryParam("category_id"); v != "" {
		filter.CategoryID, _ = strconv.ParseInt(v, 10, 64)
	}
	filter.StartDate = c.QueryParam("start_date")
	filter.EndDate = c.QueryParam("end_date")
	if v := c.QueryParam("min_amount"); v != "" {
		filter.MinAmount, _ = strconv.ParseFloat(v, 64)
	}
	if v := c.QueryParam("max_amount"); v != "" {
		filter.MaxAmount, _ = strconv.ParseFloat(v, 64)
	}
	return filter
}

// GetExpenses lists the caller's expenses with optional filters.
func (ec *ExpenseController) GetExpenses(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := utils.UserFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	expenses, err := ec.Expenses.List(ctx, user.ID, expenseFilterFromQuery(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve expenses",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Expenses retrieved successfully",
		Data:    expenses,
	})
}

// GetExpense returns a single owned expense.
func (ec *ExpenseController) GetExpense(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := utils.UserFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid expense id",
		})
	}

	expense, err := ec.Expenses.Get(ctx, user.ID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrExpenseNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Expense not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve expense",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Expense retrieved successfully",
		Data:    expense,
	})
}

func (ec *ExpenseController) bindExpenseRequest(c echo.Context) (*models.ExpenseRequest, error) {
	var req models.ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return nil, errors.New("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return nil, errors.New("Validation failed: " + err.Error())
	}
	req.Description = utils.SanitizeInput(req.Description)
	return &req, nil
}

// CreateExpense records an expense owned by the caller.
func (ec *ExpenseController) CreateExpense(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := utils.UserFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	req, err := ec.bindExpenseRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	id, err := ec.Expenses.Create(ctx, user.ID, req)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Referenced category does not exist",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create expense",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Expense created successfully",
		Data:    map[string]interface{}{"id": id},
	})
}

// UpdateExpense edits an expense; the WHERE clause keeps it owner-scoped,
// so another user's expense id behaves like a missing row.
func (ec *ExpenseController) UpdateExpense(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := utils.UserFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid expense id",
		})
	}

	req, err := ec.bindExpenseRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if err := ec.Expenses.Update(ctx, user.ID, id, req); err != nil {
		switch {
		case errors.Is(err, repositories.ErrExpenseNotFound):
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Expense not found",
			})
		case errors.Is(err, repositories.ErrCategoryNotFound):
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Referenced category does not exist",
			})
		default:
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to update expense",
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Expense updated successfully",
	})
}

// DeleteExpense removes an owned expense.
func (ec *ExpenseController) DeleteExpense(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := utils.UserFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid expense id",
		})
	}

	if err := ec.Expenses.Delete(ctx, user.ID, id); err != nil {
		if errors.Is(err, repositories.ErrExpenseNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Expense not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete expense",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Expense deleted successfully",
	})
}

// UploadReceipt stores a receipt file for an owned expense and records its
// URL on the row.
func (ec *ExpenseController) UploadReceipt(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := utils.UserFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid expense id",
		})
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Receipt file is required",
		})
	}

	if err := utils.ValidateReceiptFile(file.Filename, file.Size); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read receipt file",
		})
	}
	defer src.Close()

	fileData, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read receipt file",
		})
	}

	url, err := utils.SaveReceipt(fileData, file.Filename)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if err := ec.Expenses.SetReceipt(ctx, user.ID, id, url); err != nil {
		if errors.Is(err, repositories.ErrExpenseNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Expense not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store receipt",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Receipt uploaded successfully",
		Data:    map[string]interface{}{"receiptUrl": url},
	})
}
