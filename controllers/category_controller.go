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

type CategoryController struct {
	Categories *repositories.CategoryRepository
}

func NewCategoryController(categories *repositories.CategoryRepository) *CategoryController {
	return &CategoryController{Categories: categories}
}

// GetCategories lists tax categories. Non-admin callers only see active
// ones; admins may pass ?all=true to include disabled categories.
func (cc *CategoryController) GetCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	activeOnly := true
	if user, err := utils.UserFromContext(c); err == nil &&
		user.Role == models.RoleAdmin && c.QueryParam("all") == "true" {
		activeOnly = false
	}

	categories, err := cc.Categories.List(ctx, activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve categories",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Categories retrieved successfully",
		Data:    categories,
	})
}

func (cc *CategoryController) bindCategoryRequest(c echo.Context) (*models.CategoryRequest, error) {
	var req models.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return nil, errors.New("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return nil, errors.New("Validation failed: " + err.Error())
	}
	req.Name = utils.SanitizeInput(req.Name)
	req.Description = utils.SanitizeInput(req.Description)
	return &req, nil
}

// CreateCategory creates a new tax category (admin only).
func (cc *CategoryController) CreateCategory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := cc.bindCategoryRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	category, err := cc.Categories.Create(ctx, req)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNameTaken) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Category with this name already exists",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create category",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Category created successfully",
		Data:    category,
	})
}

// UpdateCategory updates an existing tax category (admin only).
func (cc *CategoryController) UpdateCategory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category id",
		})
	}

	req, err := cc.bindCategoryRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if err := cc.Categories.Update(ctx, id, req); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCategoryNotFound):
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Category not found",
			})
		case errors.Is(err, repositories.ErrCategoryNameTaken):
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Category with this name already exists",
			})
		default:
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to update category",
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category updated successfully",
	})
}

// SetCategoryStatus soft-disables or re-enables a category (admin only).
// This is the preferred "deactivation" path; DELETE is reserved for
// categories no expense references.
func (cc *CategoryController) SetCategoryStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category id",
		})
	}

	var req models.CategoryStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := cc.Categories.SetActive(ctx, id, req.IsActive); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Category not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update category status",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category status updated",
	})
}

// DeleteCategory hard-deletes a category (admin only). Categories that are
// referenced by expenses cannot be deleted, only disabled.
func (cc *CategoryController) DeleteCategory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category id",
		})
	}

	if err := cc.Categories.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCategoryNotFound):
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Category not found",
			})
		case errors.Is(err, repositories.ErrCategoryInUse):
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Category is referenced by expenses; disable it instead",
			})
		default:
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to delete category",
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category deleted successfully",
	})
}
