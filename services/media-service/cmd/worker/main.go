package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alaihsan/cendrawasih/libs/config"
	"github.com/alaihsan/cendrawasih/libs/logger"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/compress"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/events"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/repositories"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/services"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/storage"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/tasks"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/transcode"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	if cfg.Media.BasePath == "" {
		log.Fatalf("MEDIA_BASE_PATH is required")
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Media Service Worker")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Test Redis connection
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Media tools
	fileStorage := storage.NewLocalStorage(cfg.Media.BasePath)
	executor := transcode.ExecExecutor{}
	transcoder := transcode.NewTranscoder(executor, cfg.Media.FFmpegPath, cfg.Media.ToolTimeout, logger.Logger)
	prober := transcode.NewProber(executor, cfg.Media.FFprobePath, cfg.Media.ToolTimeout, logger.Logger)

	if err := transcoder.CheckAvailable(context.Background()); err != nil {
		logger.Logger.Warn("FFmpeg unavailable, queued videos will fail", zap.Error(err))
	}

	// Compression events
	var publisher services.EventPublisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger.Logger)
		defer producer.Close()
		publisher = producer
	}

	// Initialize services
	lessonRepo := repositories.NewLessonRepository(db)
	uploadService := services.NewUploadService(fileStorage, transcoder, prober, compress.NewImageCompressor(logger.Logger), logger.Logger)
	lessonMediaService := services.NewLessonMediaService(
		lessonRepo,
		uploadService,
		nil, // the worker transcodes in place
		publisher,
		cfg.Media.UploadFolder(),
		cfg.Media.CompressedFolder(),
		tasks.TaskTimeout(cfg.Media.ToolTimeout),
		logger.Logger,
	)

	// Create Asynq server
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			// ffmpeg already uses every core, so keep transcodes few
			Concurrency: 2,
			Queues: map[string]int{
				tasks.QueueTranscode: 1,
			},
		},
	)

	worker := NewWorker(logger.Logger, lessonMediaService)

	// Register task handlers
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeTranscodeVideo, worker.HandleTranscodeVideo)

	// Start worker
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Logger.Fatal("Failed to start worker", zap.Error(err))
		}
	}()

	logger.Logger.Info("Worker started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down worker...")
	srv.Shutdown()
	logger.Logger.Info("Worker exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
