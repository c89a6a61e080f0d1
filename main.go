package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/smarttax/smarttax_backend/config"
	"github.com/smarttax/smarttax_backend/controllers"
	"github.com/smarttax/smarttax_backend/middleware"
	"github.com/smarttax/smarttax_backend/repositories"
	"github.com/smarttax/smarttax_backend/routes"
	"github.com/smarttax/smarttax_backend/utils"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to database
	db := config.ConnectDB()
	defer db.Close()

	// Ensure upload directories exist before anything can write receipts
	if err := utils.InitializeStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(middleware.SecurityHeaders())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "SmartTax Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		if err := db.Ping(); err != nil {
			return c.JSON(503, map[string]string{
				"status":   "unhealthy",
				"database": "unreachable",
			})
		}
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Serve uploaded receipts and thumbnails
	e.Static("/uploads", "uploads")

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	expenseRepo := repositories.NewExpenseRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	taxReturnRepo := repositories.NewTaxReturnRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// Initialize controllers
	authController := controllers.NewAuthController(userRepo)
	userController := controllers.NewUserController(userRepo)
	categoryController := controllers.NewCategoryController(categoryRepo)
	expenseController := controllers.NewExpenseController(expenseRepo)
	profileController := controllers.NewProfileController(profileRepo)
	dashboardController := controllers.NewDashboardController(expenseRepo)
	taxReturnController := controllers.NewTaxReturnController(taxReturnRepo)
	reportController := controllers.NewReportController(reportRepo)

	// Register routes
	routes.RegisterAuthRoutes(e, authController)
	routes.RegisterUserRoutes(e, userRepo, userController, categoryController,
		expenseController, profileController, dashboardController, taxReturnController)
	routes.RegisterAdminRoutes(e, userRepo, userController, categoryController,
		taxReturnController, reportController)

	// Seed the bootstrap admin so a fresh deployment can approve users
	bootstrapAdmin(userRepo)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}

// bootstrapAdmin creates the initial admin account if no admin-role user
// exists yet. Credentials come from ADMIN_EMAIL/ADMIN_PASSWORD; startup
// fails if a taxpayer already holds that username or email.
func bootstrapAdmin(users *repositories.UserRepository) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("Warning: ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin bootstrap")
		return
	}
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := users.EnsureAdmin(ctx, username, email, hash)
	if err != nil {
		log.Fatalf("Failed to bootstrap admin account: %v", err)
	}
	if created {
		log.Printf("Bootstrap admin account created for %s", email)
	}
}
