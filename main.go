package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/titik444/express-blog/internal/db"
	"github.com/titik444/express-blog/internal/di"
	"github.com/titik444/express-blog/internal/domain"
	"github.com/titik444/express-blog/internal/middleware"
	"github.com/titik444/express-blog/pkg/config"
	"github.com/titik444/express-blog/pkg/database"
	"github.com/titik444/express-blog/pkg/kafka"
	"github.com/titik444/express-blog/pkg/logger"
	pkgredis "github.com/titik444/express-blog/pkg/redis"
	"github.com/titik444/express-blog/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(&logger.Config{
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting blog API...")

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	} else if telemetryCfg.Enabled {
		appLog.Info(fmt.Sprintf("Telemetry initialized (collector: %s)", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	pg, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer pg.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	// Run migrations
	if err := db.Migrate(ctx, dbCfg.DSN()); err != nil {
		appLog.Fatal(fmt.Sprintf("Migration failed: %v", err))
	}

	// Initialize Redis (optional)
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(ctx, &pkgredis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
		}
		defer redisClient.Close()
		appLog.Info("Redis connected")
	}

	// Initialize Kafka producer (optional)
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer, err = kafka.NewProducer(ctx, &kafka.ProducerConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Kafka connection failed: %v", err))
		}
		defer producer.Close()
		appLog.Info("Kafka producer connected")
	}

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		Config:   cfg,
		DB:       pg,
		Redis:    redisClient,
		Producer: producer,
	})

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.App.Name))
	}

	registerRoutes(router, container, redisClient)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("Blog API listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}

func registerRoutes(router *gin.Engine, container *di.Container, redisClient *pkgredis.Client) {
	tokens := container.TokenService

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			authLimiter := middleware.RateLimiter(redisClient, middleware.DefaultAuthRateLimit())

			auth.POST("/register", authLimiter, container.AuthHandler.Register)
			auth.POST("/login", authLimiter, container.AuthHandler.Login)
			auth.POST("/refresh", container.AuthHandler.Refresh)
			auth.GET("/me", middleware.RequireAuth(tokens), container.AuthHandler.Me)
		}

		posts := v1.Group("/posts")
		{
			posts.GET("", middleware.OptionalAuth(tokens), container.PostHandler.List)
			posts.GET("/:slug", middleware.OptionalAuth(tokens), container.PostHandler.GetBySlug)
			posts.POST("", middleware.RequireAuth(tokens), container.PostHandler.Create)
			posts.PATCH("/:id", middleware.RequireAuth(tokens), container.PostHandler.Update)
			posts.DELETE("/:id", middleware.RequireAuth(tokens), container.PostHandler.Delete)
			posts.POST("/:id/like", middleware.RequireAuth(tokens), container.PostHandler.Like)
			posts.DELETE("/:id/like", middleware.RequireAuth(tokens), container.PostHandler.Unlike)
		}

		comments := v1.Group("/comments")
		{
			comments.GET("/:id", middleware.OptionalAuth(tokens), container.CommentHandler.GetByID)
			comments.POST("", middleware.RequireAuth(tokens), container.CommentHandler.Create)
			comments.PUT("/:id", middleware.RequireAuth(tokens), container.CommentHandler.Update)
			comments.DELETE("/:id", middleware.RequireAuth(tokens), container.CommentHandler.Delete)
			comments.POST("/:id/like", middleware.RequireAuth(tokens), container.CommentHandler.Like)
			comments.DELETE("/:id/like", middleware.RequireAuth(tokens), container.CommentHandler.Unlike)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", container.CategoryHandler.List)
			categories.GET("/:slug", container.CategoryHandler.GetBySlug)

			adminOnly := middleware.RequireAuth(tokens, domain.RoleAdmin)
			categories.POST("", adminOnly, container.CategoryHandler.Create)
			categories.PUT("/:id", adminOnly, container.CategoryHandler.Update)
			categories.DELETE("/:id", adminOnly, container.CategoryHandler.Delete)
		}
	}
}
