package router

import (
	"log"

	"github.com/google/uuid"
	"github.com/kwizera-dev/docufind/backend/internal/authz"
	"github.com/kwizera-dev/docufind/backend/internal/handlers"
	"github.com/kwizera-dev/docufind/backend/internal/middleware"
	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/repositories"
	"github.com/kwizera-dev/docufind/backend/internal/services"
	"github.com/kwizera-dev/docufind/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.RequestIDWithConfig(eMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, cfg *config.Config) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.DocumentReport{},
		&models.ClaimRequest{},
		&models.Notification{},
		&models.Handover{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	documentRepo := repositories.NewPostgresDocumentRepository(pgdb)
	claimRepo := repositories.NewPostgresClaimRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	activityRepo := repositories.NewMongoActivityLogRepository(mgClient.Database(cfg.MongoDBName))
	handoverRepo := repositories.NewPostgresHandoverRepository(pgdb)

	// --- Initialize services ---
	activityService := services.NewActivityService(activityRepo)
	notificationService := services.NewNotificationService(notificationRepo, activityService)
	authorizer := authz.NewRoleAuthorizer()
	claimService := services.NewClaimService(claimRepo, documentRepo, userRepo, notificationService, activityService, authorizer)

	api := e.Group("/api/v1")

	// User routes
	userHandler := handlers.NewUserHandler(userRepo, activityService)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	// Document routes
	documentHandler := handlers.NewDocumentHandler(documentRepo, userRepo, authorizer)
	documentHandler.RegisterDocumentRoutes(api)
	log.Println("Document routes configured.")

	// Claim routes
	claimHandler := handlers.NewClaimHandler(claimService, userRepo)
	claimHandler.RegisterClaimRoutes(api)
	log.Println("Claim routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// --- Staff routes (require JWT authentication) ---
	staff := e.Group("/api/v1")
	staff.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	claimHandler.RegisterStaffClaimRoutes(staff)
	documentHandler.RegisterStaffDocumentRoutes(staff)
	handoverHandler := handlers.NewHandoverHandler(handoverRepo, documentRepo)
	handoverHandler.RegisterHandoverRoutes(staff)
	log.Println("Staff routes configured with JWT authentication.")

	log.Println("All routes configured.")
}
