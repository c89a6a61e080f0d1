package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smarttax/smarttax_backend/models"
	"github.com/smarttax/smarttax_backend/repositories"
	"github.com/smarttax/smarttax_backend/utils"
)

type DashboardController struct {
	Expenses *repositories.ExpenseRepository
}

func NewDashboardController(expenses *repositories.ExpenseRepository) *DashboardController {
	return &DashboardController{Expenses: expenses}
}

// GetSummary returns the caller's dashboard: totals, top category,
// deductions with the per-category cap applied, and recent expenses.
func (dc *DashboardController) GetSummary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := utils.UserFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	summary, err := dc.Expenses.Summary(ctx, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build dashboard summary",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard summary retrieved successfully",
		Data:    summary,
	})
}
