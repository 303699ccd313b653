package main

import (
	"fmt"
	"os"

	"ledger/internal/config"
	"ledger/internal/database"
	"ledger/internal/logger"
	"ledger/internal/server"
	"ledger/internal/validator"

	"github.com/gin-gonic/gin"
)

// @title           Transactions API
// @version         1.0
// @description     API documentation for transaction management
// @host      localhost:3333
// @BasePath  /

// @securityDefinitions.apikey SessionCookie
// @in header
// @name Cookie
// @description sessionId=<token>, issued by POST /transactions.

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
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()
	router := server.NewRouter(dbManager.DB(), appConfig)

	log.Infow("Starting transactions server", "port", appConfig.Port, "db_driver", dbConfig.Driver)
	log.Infof("Swagger documentation available at http://localhost:%s/docs/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
