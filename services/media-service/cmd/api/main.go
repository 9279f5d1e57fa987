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

	authMiddleware "github.com/alaihsan/cendrawasih/libs/auth/middleware"
	authService "github.com/alaihsan/cendrawasih/libs/auth/service"
	"github.com/alaihsan/cendrawasih/libs/config"
	"github.com/alaihsan/cendrawasih/libs/logger"
	loggerMiddleware "github.com/alaihsan/cendrawasih/libs/logger/middleware"
	sharedMiddleware "github.com/alaihsan/cendrawasih/libs/middlewares"
	_ "github.com/alaihsan/cendrawasih/services/media-service/docs"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/compress"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/events"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/handlers"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/repositories"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/services"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/storage"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/tasks"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/transcode"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Cendrawasih Media API
// @version 1.0
// @description Lesson video and image compression
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8082
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Access token as "Bearer <token>"
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Validate media base path is set
	if cfg.Media.BasePath == "" {
		log.Fatalf("MEDIA_BASE_PATH is required")
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Cendrawasih Media Service",
		zap.Bool("async_transcode", cfg.Media.AsyncTranscode),
	)

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize JWT token generator (for auth middleware)
	tokenGenerator := authService.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize storage and media tools
	fileStorage := storage.NewLocalStorage(cfg.Media.BasePath)
	if err := fileStorage.EnsureDir(cfg.Media.UploadFolder(), cfg.Media.CompressedFolder()); err != nil {
		logger.Logger.Fatal("Failed to create media folders", zap.Error(err))
	}
	executor := transcode.ExecExecutor{}
	transcoder := transcode.NewTranscoder(executor, cfg.Media.FFmpegPath, cfg.Media.ToolTimeout, logger.Logger)
	prober := transcode.NewProber(executor, cfg.Media.FFprobePath, cfg.Media.ToolTimeout, logger.Logger)
	imageCompressor := compress.NewImageCompressor(logger.Logger)

	if err := transcoder.CheckAvailable(context.Background()); err != nil {
		logger.Logger.Warn("FFmpeg unavailable, video uploads will fail", zap.Error(err))
	}

	// Compression events
	var publisher services.EventPublisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger.Logger)
		defer producer.Close()
		publisher = producer
	}

	// Transcode queue (async mode only)
	var queue services.TranscodeQueue
	if cfg.Media.AsyncTranscode {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}

		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer asynqClient.Close()

		queue = tasks.NewDispatcher(asynqClient, tasks.TaskTimeout(cfg.Media.ToolTimeout))
	}

	// Initialize repositories
	lessonRepo := repositories.NewLessonRepository(db)

	// Initialize services
	uploadService := services.NewUploadService(fileStorage, transcoder, prober, imageCompressor, logger.Logger)
	lessonMediaService := services.NewLessonMediaService(
		lessonRepo,
		uploadService,
		queue,
		publisher,
		cfg.Media.UploadFolder(),
		cfg.Media.CompressedFolder(),
		tasks.TaskTimeout(cfg.Media.ToolTimeout),
		logger.Logger,
	)

	// Base URL for generating download URLs
	baseURL := cfg.Media.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}

	// Initialize handlers
	mediaHandler := handlers.NewMediaHandler(
		lessonMediaService,
		fileStorage,
		logger.Logger,
		baseURL,
		compress.ImageOptions{Quality: compress.QualityValue(cfg.Media.ImageQuality), MaxWidth: cfg.Media.MaxImageWidth},
	)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(sharedMiddleware.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(sharedMiddleware.RecoveryMiddleware(logger.Logger))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(sharedMiddleware.RequestSizeLimitMiddleware(cfg.Media.MaxUploadSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		mediaHandler.RegisterRoutes(r,
			authMiddleware.RoleMiddleware(tokenGenerator, authService.RoleTeacher),
			authMiddleware.AuthMiddleware(tokenGenerator),
		)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  5 * time.Minute, // large uploads
		WriteTimeout: tasks.TaskTimeout(cfg.Media.ToolTimeout),
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sqlx.DB) error {
	// Use service-specific migration table name to avoid conflicts with other services
	driver, err := mysql.WithInstance(db.DB, &mysql.Config{
		MigrationsTable: "media_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directories if running from cmd/api
		for _, candidate := range []string{"../migrations", "../../migrations"} {
			if _, err := os.Stat(candidate); err == nil {
				migrationPath = "file://" + candidate
				break
			}
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
