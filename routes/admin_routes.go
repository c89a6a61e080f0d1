package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/smarttax/smarttax_backend/controllers"
	"github.com/smarttax/smarttax_backend/middleware"
	"github.com/smarttax/smarttax_backend/models"
	"github.com/smarttax/smarttax_backend/repositories"
)

// RegisterAdminRoutes sets up all admin-only routes
func RegisterAdminRoutes(
	e *echo.Echo,
	users *repositories.UserRepository,
	userController *controllers.UserController,
	categoryController *controllers.CategoryController,
	taxReturnController *controllers.TaxReturnController,
	reportController *controllers.ReportController,
) {
	admin := e.Group("/api")
	admin.Use(middleware.JWTMiddleware(users))
	admin.Use(middleware.RequireRole(models.RoleAdmin))

	// User management
	admin.GET("/users", userController.GetAllUsers)
	admin.PATCH("/users/approve/:id", userController.ApproveUser)
	admin.PATCH("/users/cancel-approval/:id", userController.CancelApproval)

	// Tax category management. Deactivation and deletion are distinct:
	// status toggles keep history intact, DELETE only works for unused rows.
	admin.POST("/tax-categories", categoryController.CreateCategory)
	admin.PUT("/tax-categories/:id", categoryController.UpdateCategory)
	admin.PUT("/tax-categories/:id/status", categoryController.SetCategoryStatus)
	admin.DELETE("/tax-categories/:id", categoryController.DeleteCategory)

	// Tax return management
	admin.PATCH("/tax-returns/:id/status", taxReturnController.UpdateReturnStatus)

	// Aggregate reports
	admin.GET("/admin/reports/users", reportController.GetUserReport)
	admin.GET("/admin/reports/tax-filings", reportController.GetFilingReport)
}
