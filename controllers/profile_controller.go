package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smarttax/smarttax_backend/models"
	"github.com/smarttax/smarttax_backend/repositories"
	"github.com/smarttax/smarttax_backend/utils"
)

type ProfileController struct {
	Profiles *repositories.ProfileRepository
}

func NewProfileController(profiles *repositories.ProfileRepository) *ProfileController {
	return &ProfileController{Profiles: profiles}
}

// GetProfile returns the caller's tax profile. A user who has never saved
// one gets an empty object, not a 404.
func (pc *ProfileController) GetProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := utils.UserFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	profile, err := pc.Profiles.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return c.JSON(http.StatusOK, models.Response{
				Status:  http.StatusOK,
				Message: "No tax profile saved yet",
				Data:    map[string]interface{}{},
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve tax profile",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tax profile retrieved successfully",
		Data:    profile,
	})
}

// UpdateProfile upserts the caller's tax profile.
func (pc *ProfileController) UpdateProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := utils.UserFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	var req models.TaxProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	req.TaxID = utils.SanitizeInput(req.TaxID)
	req.FirstName = utils.SanitizeInput(req.FirstName)
	req.LastName = utils.SanitizeInput(req.LastName)
	req.Address = utils.SanitizeInput(req.Address)

	if err := pc.Profiles.Upsert(ctx, user.ID, &req); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save tax profile",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile updated successfully",
	})
}
