package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smarttax/smarttax_backend/middleware"
	"github.com/smarttax/smarttax_backend/models"
	"github.com/smarttax/smarttax_backend/repositories"
	"github.com/smarttax/smarttax_backend/utils"
)

// AuthController contains authentication logic
type AuthController struct {
	Users  *repositories.UserRepository
	logger *log.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(users *repositories.UserRepository) *AuthController {
	return &AuthController{
		Users:  users,
		logger: log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
	}
}

// Register creates a pending taxpayer account. No token is issued; the
// account stays unusable until an admin approves it.
func (ac *AuthController) Register(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.RegisterRequest
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

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}
	req.Email = email

	// Sanitize free-text fields
	req.Username = utils.SanitizeInput(req.Username)
	req.FullName = utils.SanitizeInput(req.FullName)
	req.ContactNumber = utils.SanitizeInput(req.ContactNumber)
	req.Gender = utils.SanitizeInput(req.Gender)
	req.Nationality = utils.SanitizeInput(req.Nationality)
	req.IDNumber = utils.SanitizeInput(req.IDNumber)
	req.Address = utils.SanitizeInput(req.Address)

	if err := ac.Users.CheckUserExists(ctx, req.Username, req.Email); err != nil {
		if errors.Is(err, repositories.ErrUsernameAlreadyExists) || errors.Is(err, repositories.ErrEmailAlreadyExists) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Username or email already exists",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing users",
		})
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	user := &models.User{
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  hash,
		Role:          models.RoleTaxpayer,
		IsApproved:    false,
		FullName:      req.FullName,
		ContactNumber: req.ContactNumber,
		Gender:        req.Gender,
		Nationality:   req.Nationality,
		IDNumber:      req.IDNumber,
		Address:       req.Address,
	}

	id, err := ac.Users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repositories.ErrUsernameAlreadyExists) || errors.Is(err, repositories.ErrEmailAlreadyExists) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Username or email already exists",
			})
		}
		ac.logger.Printf("Failed to create user: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to register user",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "User registered. Waiting for admin approval.",
		Data:    map[string]interface{}{"id": id},
	})
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password produce the same message so accounts cannot be enumerated.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	user, err := ac.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid credentials",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find user",
		})
	}

	if err := utils.CheckPassword(req.Password, user.PasswordHash); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	// Approval gate, with the bootstrap-admin exception
	if !user.IsApproved && user.Role != models.RoleAdmin {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Account pending admin approval",
		})
	}

	token, err := middleware.GenerateJWT(user.ID, user.Role)
	if err != nil {
		ac.logger.Printf("Failed to generate token for user %d: %v", user.ID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.LoginData{
			Token: token,
			User:  user.Public(),
		},
	})
}
