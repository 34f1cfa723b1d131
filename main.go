package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samukadias/contract-management-system/config"
	"github.com/samukadias/contract-management-system/db"
	"github.com/samukadias/contract-management-system/handler"
	"github.com/samukadias/contract-management-system/middleware"
	"github.com/samukadias/contract-management-system/model"
	"github.com/samukadias/contract-management-system/pkg/logger"
	"github.com/samukadias/contract-management-system/service"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Connect to the database and run migrations
	gormDB, err := db.Connect(&cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	contractStore := service.NewContractStore(gormDB)
	termoStore := service.NewTermoStore(gormDB)
	userStore := service.NewUserStore(gormDB)

	// CSV archiving is optional; skipped when no endpoint is configured
	var storage *service.ObjectStorage
	if cfg.Storage.Endpoint != "" {
		storage, err = service.NewObjectStorage(&cfg.Storage)
		if err != nil {
			slog.Error("failed to initialize object storage", "error", err)
			os.Exit(1)
		}
		if err := storage.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure storage bucket", "error", err)
			os.Exit(1)
		}
		slog.Info("csv archiving enabled", "bucket", cfg.Storage.Bucket)
	} else {
		slog.Info("csv archiving disabled, no storage endpoint configured")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg, userStore)
	userHandler := handler.NewUserHandler(userStore)
	contractHandler := handler.NewContractHandler(contractStore, storage)
	termHandler := handler.NewTermHandler(termoStore)
	analysisHandler := handler.NewAnalysisHandler(contractStore)
	archiveHandler := handler.NewArchiveHandler(storage)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	router.Use(middleware.RequestID())     // Request ID for tracing
	router.Use(middleware.Recovery())      // Panic recovery
	router.Use(middleware.RequestLogger()) // Access logging
	router.Use(corsMiddleware())           // CORS

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes. Login is throttled by client IP, the only key
	// available before authentication
	api := router.Group("/api")
	{
		api.POST("/auth/login", middleware.RateLimit(20, time.Minute), authHandler.Login)
	}

	// Protected routes. The rate limiter sits after the auth middleware
	// so it keys by user id, keeping users behind a shared office IP
	// from starving each other
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	protected.Use(middleware.RateLimit(100, time.Minute))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)

		// Account management is reserved for gestores
		users := protected.Group("/users")
		users.Use(middleware.RequireProfiles(model.PerfilGestor))
		{
			users.GET("", userHandler.List)
			users.POST("", userHandler.Create)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}

		// Archived import/export artifacts, likewise gestor only
		archives := protected.Group("/archives")
		archives.Use(middleware.RequireProfiles(model.PerfilGestor))
		{
			archives.GET("", archiveHandler.List)
			archives.GET("/url", archiveHandler.DownloadURL)
			archives.DELETE("", archiveHandler.Delete)
		}

		// Reads are open to every perfil; CLIENTE accounts are scoped
		// to their own client inside the handlers
		protected.GET("/contracts", contractHandler.List)
		protected.GET("/contracts/stage-options", contractHandler.StageOptions)
		protected.GET("/contracts/export", contractHandler.Export)
		protected.GET("/contracts/template", contractHandler.Template)
		protected.GET("/contracts/:id", contractHandler.Get)
		protected.GET("/termos", termHandler.List)
		protected.GET("/termos/:id", termHandler.Get)

		protected.GET("/dashboard", analysisHandler.Dashboard)
		protected.GET("/analysis/health", analysisHandler.Health)
		protected.GET("/analysis/clients", analysisHandler.Clients)
		protected.GET("/analysis/profitability", analysisHandler.Profitability)
		protected.GET("/analysis/expiry", analysisHandler.Expiry)
		protected.GET("/stage-control", analysisHandler.StageControl)

		// Mutations require an internal perfil
		writers := protected.Group("/")
		writers.Use(middleware.RequireProfiles(model.PerfilGestor, model.PerfilAnalista))
		{
			writers.POST("/contracts", contractHandler.Create)
			writers.POST("/contracts/import", contractHandler.Import)
			writers.PUT("/contracts/:id", contractHandler.Update)
			writers.DELETE("/contracts/:id", contractHandler.Delete)

			writers.POST("/termos", termHandler.Create)
			writers.PUT("/termos/:id", termHandler.Update)
			writers.DELETE("/termos/:id", termHandler.Delete)
		}
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
