package main

import (
	"log"
	"medequip_app_go/config"
	"medequip_app_go/db"
	"medequip_app_go/handlers"
	"medequip_app_go/middleware"
	"medequip_app_go/models"
	"medequip_app_go/services"
	"medequip_app_go/services/jobs"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.User{}, &models.Session{}, &models.Customer{}, &models.Equipment{}, &models.MaintenanceRecord{}, &models.Visit{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize export archive storage (R2 with local fallback)
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes (no authentication required)
	e.POST("/api/login", handlers.LoginHandler)

	// Protected routes
	protected := e.Group("/api")
	protected.Use(middleware.RequireAuth())
	{
		protected.POST("/logout", handlers.LogoutHandler)
		protected.GET("/me", handlers.GetCurrentUserHandler)
		protected.GET("/session", handlers.GetSessionHandler)

		protected.GET("/customers", handlers.GetCustomersHandler)
		protected.POST("/customers", handlers.CreateCustomerHandler)
		protected.PUT("/customers/:id", handlers.UpdateCustomerHandler)

		protected.GET("/equipment", handlers.GetEquipmentHandler)
		protected.POST("/equipment", handlers.CreateEquipmentHandler)
		protected.PUT("/equipment/:id", handlers.UpdateEquipmentHandler)

		protected.GET("/maintenance", handlers.ListMaintenanceRecordsHandler)
		protected.POST("/maintenance", handlers.CreateMaintenanceRecordHandler)
		protected.GET("/maintenance/:id", handlers.GetMaintenanceRecordHandler)
		protected.PUT("/maintenance/:id", handlers.UpdateMaintenanceRecordHandler)
		protected.GET("/maintenance/:id/renewal-draft", handlers.GetRenewalDraftHandler)

		protected.POST("/maintenance/:id/visits", handlers.CreateVisitHandler)
		protected.PUT("/maintenance/:id/visits/:visitId", handlers.UpdateVisitHandler)

		protected.GET("/export", handlers.ExportHandler)

		// Admin-only routes: deletes are destructive and role-gated
		adminRoutes := protected.Group("")
		adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adminRoutes.DELETE("/customers/:id", handlers.DeleteCustomerHandler)
			adminRoutes.DELETE("/equipment/:id", handlers.DeleteEquipmentHandler)
			adminRoutes.DELETE("/maintenance/:id", handlers.DeleteMaintenanceRecordHandler)
			adminRoutes.DELETE("/maintenance/:id/visits/:visitId", handlers.DeleteVisitHandler)
		}
	}

	// Start background cleanup job (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Schedule the daily contract reminder job
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ReminderCron, func() {
		jobs.SendContractReminders(db.DB, cfg)
	}); err != nil {
		log.Fatalf("Failed to schedule reminder job: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
