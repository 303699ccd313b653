// Package server assembles the Gin engine: middleware, documentation, and
// the transaction routes.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"ledger/internal/config"
	_ "ledger/internal/docs" // Import swagger docs
	"ledger/internal/handlers"
	"ledger/internal/middleware"
	"ledger/internal/services"
)

// NewRouter wires services and handlers over db and returns the engine.
func NewRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	transactionService := services.NewTransactionService(db)
	session := middleware.NewSessionConfig(cfg)
	transactionHandler := handlers.NewTransactionHandler(transactionService, session)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors(cfg.CORSAllowedOrigin))

	// Swagger documentation
	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	transactions := router.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)

	// Everything else needs an existing session
	scoped := transactions.Group("", middleware.RequireSession(session))
	scoped.GET("", transactionHandler.ListTransactions)
	scoped.GET("/summary", transactionHandler.GetSummary)
	scoped.GET("/:id", transactionHandler.GetTransaction)
	scoped.PUT("/:id", transactionHandler.UpdateTransaction)
	scoped.DELETE("/:id", transactionHandler.DeleteTransaction)

	return router
}

// cors allows browser clients on another origin. Cookies are only sent
// cross-origin when a concrete origin is configured.
func cors(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if allowedOrigin != "*" {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
