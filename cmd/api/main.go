package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"bondmatch/internal/bondref"
	"bondmatch/internal/config"
	"bondmatch/internal/database"
	"bondmatch/internal/handlers"
	"bondmatch/internal/logger"
	"bondmatch/internal/middleware"
	"bondmatch/internal/services"
	"bondmatch/internal/tokenstore"
	"bondmatch/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "bondmatch/internal/docs" // Import swagger docs
)

// @title           Bondmatch API
// @version         1.0
// @description     Bondmatch finds potential buyers for a bond by listing every fund and fund company that has held bonds from the same issuer, with their contacts.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.RunMigrations(database.DefaultMigrationsSource); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	lookup, err := newBondLookup(appConfig)
	if err != nil {
		return err
	}
	log.Infow("Bond reference lookup configured", "provider", lookup.Name())

	resetCodes := tokenstore.New(appConfig.ResetCodeTTL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go purgeResetCodes(ctx, resetCodes, appConfig.ResetCodeTTL)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	resetService := services.NewPasswordResetService(userService, resetCodes, services.LogNotifier{})
	bondService := services.NewBondService(db, lookup)
	issuerService := services.NewIssuerService(db)
	holdingService := services.NewHoldingService(db, services.ParseIssuerMatch(appConfig.IssuerMatch))
	contactService := services.NewContactService(db)
	historyService := services.NewSearchHistoryService(db, appConfig.SearchHistoryLimit)
	matchService := services.NewMatchService(db, bondService, holdingService, contactService, historyService,
		services.ParseHoldingScope(appConfig.HoldingScope))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, resetService, auditService)
	bondHandler := handlers.NewBondHandler(matchService, bondService)
	issuerHandler := handlers.NewIssuerHandler(issuerService)
	historyHandler := handlers.NewSearchHistoryHandler(historyService)
	pipelineHandler := handlers.NewPipelineHandler(bondService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.POST("/request-password-reset", authHandler.RequestPasswordReset)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// Pipeline routes (API key, no user auth)
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey))
	pipeline.POST("/bonds/:code/refresh", pipelineHandler.RefreshBond)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Bond routes
	bonds := protected.Group("/bonds")
	bonds.POST("/match", bondHandler.Match)
	bonds.GET("/lookup", bondHandler.Lookup)
	bonds.GET("/:code", bondHandler.GetBond)

	protected.GET("/issuers", issuerHandler.ListIssuers)

	history := protected.Group("/search-history")
	history.GET("", historyHandler.GetHistory)
	history.POST("", historyHandler.RecordSearch)

	log.Infof("Starting Bondmatch server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// newBondLookup picks the reference provider named by BONDREF_PROVIDER.
func newBondLookup(cfg *config.Config) (bondref.Lookup, error) {
	switch cfg.BondRefProvider {
	case "static", "":
		return bondref.NewDefaultStaticProvider(), nil
	case "http":
		if cfg.BondRefBaseURL == "" {
			return nil, fmt.Errorf("BONDREF_BASE_URL is required when BONDREF_PROVIDER=http")
		}
		return bondref.NewHTTPProvider(cfg.BondRefBaseURL,
			bondref.WithAPIKey(cfg.BondRefAPIKey),
			bondref.WithTimeout(cfg.BondRefTimeout),
			bondref.WithRateLimit(cfg.BondRefRateLimit),
		), nil
	default:
		return nil, fmt.Errorf("unknown BONDREF_PROVIDER %q (use static or http)", cfg.BondRefProvider)
	}
}

// purgeResetCodes drops expired reset codes until ctx is done.
func purgeResetCodes(ctx context.Context, store *tokenstore.Store, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Purge(); n > 0 {
				logger.Get().Debugw("purged expired reset codes", "count", n)
			}
		}
	}
}
