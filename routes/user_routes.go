package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/smarttax/smarttax_backend/controllers"
	"github.com/smarttax/smarttax_backend/middleware"
	"github.com/smarttax/smarttax_backend/models"
	"github.com/smarttax/smarttax_backend/repositories"
)

// RegisterUserRoutes sets up the authenticated taxpayer/admin routes
func RegisterUserRoutes(
	e *echo.Echo,
	users *repositories.UserRepository,
	userController *controllers.UserController,
	categoryController *controllers.CategoryController,
	expenseController *controllers.ExpenseController,
	profileController *controllers.ProfileController,
	dashboardController *controllers.DashboardController,
	taxReturnController *controllers.TaxReturnController,
) {
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware(users))
	r.Use(middleware.RequireRole(models.RoleTaxpayer, models.RoleAdmin))

	// Self-service account state
	r.PUT("/users/deactivate", userController.DeactivateSelf)

	// Tax profile
	r.GET("/profile", profileController.GetProfile)
	r.PUT("/profile", profileController.UpdateProfile)

	// Expenses (owner-scoped)
	r.GET("/expenses", expenseController.GetExpenses)
	r.POST("/expenses", expenseController.CreateExpense)
	r.GET("/expenses/:id", expenseController.GetExpense)
	r.PUT("/expenses/:id", expenseController.UpdateExpense)
	r.DELETE("/expenses/:id", expenseController.DeleteExpense)
	r.POST("/expenses/:id/receipt", expenseController.UploadReceipt)

	// Category listing is readable by any authenticated user
	r.GET("/tax-categories", categoryController.GetCategories)

	// Dashboard
	r.GET("/dashboard/summary", dashboardController.GetSummary)

	// Tax returns
	r.GET("/tax-returns", taxReturnController.GetReturns)
	r.POST("/tax-returns", taxReturnController.FileReturn)
}
