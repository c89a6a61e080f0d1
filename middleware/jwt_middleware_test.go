package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttax/smarttax_backend/middleware"
	"github.com/smarttax/smarttax_backend/models"
	"github.com/smarttax/smarttax_backend/repositories"
	"github.com/smarttax/smarttax_backend/utils"
)

func userRow(u models.User) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "role", "is_approved", "admin_notes",
		"full_name", "contact_number", "gender", "nationality", "id_number", "address",
		"created_at", "updated_at",
	}).AddRow(
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.IsApproved, "",
		u.FullName, "", "", "", "", "", now, now,
	)
}

func expiredToken(t *testing.T, userID int64, role string) string {
	claims := &middleware.JwtCustomClaims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Add(-2 * time.Hour).Unix(),
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(middleware.GetJWTSecret()))
	require.NoError(t, err)
	return token
}

func TestJWTMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	findByID := regexp.QuoteMeta("FROM users WHERE id = $1")

	okHandler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	run := func(t *testing.T, authHeader string, mockSetup func(sqlmock.Sqlmock)) (*httptest.ResponseRecorder, echo.Context) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err, "Error mocking DB")
		t.Cleanup(func() {
			assert.NoError(t, mock.ExpectationsWereMet(), "Expectations were not met")
			db.Close()
		})

		if mockSetup != nil {
			mockSetup(mock)
		}

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
		if authHeader != "" {
			req.Header.Set(echo.HeaderAuthorization, authHeader)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		users := repositories.NewUserRepository(db)
		handler := middleware.JWTMiddleware(users)(okHandler)
		require.NoError(t, handler(c))
		return rec, c
	}

	t.Run("Missing header", func(t *testing.T) {
		rec, _ := run(t, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Malformed header", func(t *testing.T) {
		rec, _ := run(t, "Token abc", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Expired token", func(t *testing.T) {
		rec, _ := run(t, "Bearer "+expiredToken(t, 4, models.RoleTaxpayer), nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Token signed with a different secret", func(t *testing.T) {
		claims := &middleware.JwtCustomClaims{UserID: 4, Role: models.RoleTaxpayer,
			StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()}}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		require.NoError(t, err)

		rec, _ := run(t, "Bearer "+forged, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Valid token for a deleted user", func(t *testing.T) {
		token, err := middleware.GenerateJWT(4, models.RoleTaxpayer)
		require.NoError(t, err)

		rec, _ := run(t, "Bearer "+token, func(m sqlmock.Sqlmock) {
			m.ExpectQuery(findByID).WithArgs(int64(4)).
				WillReturnRows(sqlmock.NewRows([]string{"id"}))
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Valid token for a de-approved user", func(t *testing.T) {
		// Token issued while approved; approval was revoked afterwards.
		token, err := middleware.GenerateJWT(4, models.RoleTaxpayer)
		require.NoError(t, err)

		rec, _ := run(t, "Bearer "+token, func(m sqlmock.Sqlmock) {
			m.ExpectQuery(findByID).WithArgs(int64(4)).
				WillReturnRows(userRow(models.User{
					ID: 4, Username: "user", Email: "user@test.com",
					Role: models.RoleTaxpayer, IsApproved: false,
				}))
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Approved user passes and is attached to the context", func(t *testing.T) {
		token, err := middleware.GenerateJWT(4, models.RoleTaxpayer)
		require.NoError(t, err)

		rec, c := run(t, "Bearer "+token, func(m sqlmock.Sqlmock) {
			m.ExpectQuery(findByID).WithArgs(int64(4)).
				WillReturnRows(userRow(models.User{
					ID: 4, Username: "user", Email: "user@test.com",
					Role: models.RoleTaxpayer, IsApproved: true,
				}))
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		user, err := utils.UserFromContext(c)
		require.NoError(t, err)
		assert.Equal(t, int64(4), user.ID)
	})

	t.Run("Valid token for a de-approved admin", func(t *testing.T) {
		// De-approval revokes access for every role, admins included.
		token, err := middleware.GenerateJWT(1, models.RoleAdmin)
		require.NoError(t, err)

		rec, _ := run(t, "Bearer "+token, func(m sqlmock.Sqlmock) {
			m.ExpectQuery(findByID).WithArgs(int64(1)).
				WillReturnRows(userRow(models.User{
					ID: 1, Username: "admin", Email: "admin@test.com",
					Role: models.RoleAdmin, IsApproved: false,
				}))
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	okHandler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	newContext := func(user *models.User) (echo.Context, *httptest.ResponseRecorder) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if user != nil {
			c.Set(utils.ContextUserKey, user)
		}
		return c, rec
	}

	t.Run("Allowed role passes", func(t *testing.T) {
		c, rec := newContext(&models.User{ID: 1, Role: models.RoleAdmin})
		handler := middleware.RequireRole(models.RoleAdmin)(okHandler)
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Disallowed role is rejected", func(t *testing.T) {
		c, rec := newContext(&models.User{ID: 4, Role: models.RoleTaxpayer})
		handler := middleware.RequireRole(models.RoleAdmin)(okHandler)
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Missing user is rejected", func(t *testing.T) {
		c, rec := newContext(nil)
		handler := middleware.RequireRole(models.RoleAdmin)(okHandler)
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
