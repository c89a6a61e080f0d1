// utils/auth.go
package utils

import (
	"errors"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/smarttax/smarttax_backend/models"
)

// ContextUserKey is the echo context key the JWT middleware stores the live
// user row under.
const ContextUserKey = "authUser"

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// UserFromContext returns the authenticated user attached by the JWT
// middleware. Handlers behind the middleware can assume it is present.
func UserFromContext(c echo.Context) (*models.User, error) {
	user, ok := c.Get(ContextUserKey).(*models.User)
	if !ok || user == nil {
		return nil, errors.New("no authenticated user in context")
	}
	return user, nil
}
