package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smarttax/smarttax_backend/models"
	"github.com/smarttax/smarttax_backend/repositories"
)

// ReportController serves the admin aggregate reports.
type ReportController struct {
	Reports *repositories.ReportRepository
}

func NewReportController(reports *repositories.ReportRepository) *ReportController {
	return &ReportController{Reports: reports}
}

// GetUserReport aggregates users by role with approved/pending counts.
func (rc *ReportController) GetUserReport(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	report, err := rc.Reports.UserReport(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build user report",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User report retrieved successfully",
		Data:    report,
	})
}

// GetFilingReport aggregates tax returns by year and status.
func (rc *ReportController) GetFilingReport(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	report, err := rc.Reports.FilingReport(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build tax filing report",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tax filing report retrieved successfully",
		Data:    report,
	})
}
