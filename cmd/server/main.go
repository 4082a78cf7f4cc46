package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/skylinehq/skyline/api/internal/config"
	"github.com/skylinehq/skyline/api/internal/database"
	"github.com/skylinehq/skyline/api/internal/handlers"
	"github.com/skylinehq/skyline/api/internal/llm"
	"github.com/skylinehq/skyline/api/internal/logger"
	"github.com/skylinehq/skyline/api/internal/metrics"
	"github.com/skylinehq/skyline/api/internal/middleware"
	"github.com/skylinehq/skyline/api/internal/opendata"
	"github.com/skylinehq/skyline/api/internal/repository"
	"github.com/skylinehq/skyline/api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load .env if present, then configuration from environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting Skyline API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create database connection pool and ensure the projects table exists
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to run store migration", err, nil)
	}

	log.Info("Project store ready", map[string]interface{}{
		"host":     cfg.Database.Host,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Query interpreter: a missing GEMINI_API_KEY is reported per query,
	// not here, so the rest of the API stays usable without one.
	interpreter, err := llm.NewGeminiInterpreter(ctx, cfg.LLM, log)
	if err != nil {
		log.Fatal("Failed to create query interpreter", err, nil)
	}
	if cfg.LLM.APIKey == "" {
		log.Warn("GEMINI_API_KEY is not set; query endpoint will reject requests", nil)
	}

	source := opendata.NewClient(cfg.OpenData, log)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> Metrics -> CORS
	httpMetrics := metrics.New(prometheus.DefaultRegisterer)
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Metrics(httpMetrics))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health and observability routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Initialize repository and service layers
	projectRepo := repository.NewProjectRepository(db)
	projectService := services.NewProjectService(projectRepo, log)
	buildingService := services.NewBuildingService(source, interpreter, log)

	// Initialize handlers
	buildingHandler := handlers.NewBuildingHandler(buildingService)
	projectHandler := handlers.NewProjectHandler(projectService)

	// Register API routes
	api := router.Group("/api")
	{
		api.GET("/info", healthHandler.Info)
		api.GET("/buildings", buildingHandler.List)
		api.POST("/query", buildingHandler.Query)
		api.POST("/projects", projectHandler.Save)
		api.GET("/projects/:username", projectHandler.ListByUser)
		api.GET("/project/:id", projectHandler.GetFilters)
		api.DELETE("/project/:id", projectHandler.Delete)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
