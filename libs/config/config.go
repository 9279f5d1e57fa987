// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Logging  LoggingConfig
	JWT      JWTConfig
	Media    MediaConfig
	Kafka    KafkaConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the host:port pair of the Redis server
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// MediaConfig holds settings of the media compression pipeline
type MediaConfig struct {
	// BasePath is the root directory; originals go to BasePath/uploads and derivatives to BasePath/compressed.
	BasePath      string
	BaseURL       string
	ImageQuality  int
	MaxImageWidth int
	FFmpegPath    string
	FFprobePath   string
	// ToolTimeout bounds a single ffmpeg/ffprobe invocation.
	ToolTimeout    time.Duration
	MaxUploadSize  int64
	AsyncTranscode bool
}

// UploadFolder returns the directory for original uploads
func (c MediaConfig) UploadFolder() string {
	return c.BasePath + string(os.PathSeparator) + "uploads"
}

// CompressedFolder returns the directory for derivatives
func (c MediaConfig) CompressedFolder() string {
	return c.BasePath + string(os.PathSeparator) + "compressed"
}

// KafkaConfig holds settings for the compression events producer
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return nil, fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	// Server configuration
	serverPort, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = serverPort

	// Logging configuration
	cfg.Logging.Level = stringEnv("LOG_LEVEL", "info")

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret

	accessExpiry, err := durationEnv("JWT_ACCESS_TOKEN_EXPIRY", time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.JWT.AccessTokenExpiry = accessExpiry

	if err := loadMedia(cfg); err != nil {
		return nil, err
	}

	// Redis configuration (used by the transcode queue)
	cfg.Redis.Host = stringEnv("REDIS_HOST", "localhost")
	if cfg.Redis.Port, err = intEnv("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD") // optional
	if cfg.Redis.DB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}

	// Kafka configuration (optional, events are disabled without brokers)
	cfg.Kafka.Brokers = splitList(os.Getenv("KAFKA_BROKERS"))
	cfg.Kafka.Topic = stringEnv("MEDIA_EVENTS_TOPIC", "lesson-media-events")

	return cfg, nil
}

// loadMedia reads the MEDIA_* variables
func loadMedia(cfg *Config) error {
	var err error

	cfg.Media.BasePath = os.Getenv("MEDIA_BASE_PATH")
	cfg.Media.BaseURL = os.Getenv("MEDIA_BASE_URL")
	cfg.Media.FFmpegPath = stringEnv("MEDIA_FFMPEG_PATH", "ffmpeg")
	cfg.Media.FFprobePath = stringEnv("MEDIA_FFPROBE_PATH", "ffprobe")

	if cfg.Media.ImageQuality, err = intEnv("MEDIA_IMAGE_QUALITY", 85); err != nil {
		return err
	}
	if cfg.Media.ImageQuality < 0 || cfg.Media.ImageQuality > 100 {
		return fmt.Errorf("invalid MEDIA_IMAGE_QUALITY: must be between 0 and 100")
	}

	if cfg.Media.MaxImageWidth, err = intEnv("MEDIA_MAX_IMAGE_WIDTH", 1920); err != nil {
		return err
	}

	if cfg.Media.ToolTimeout, err = durationEnv("MEDIA_TOOL_TIMEOUT", 30*time.Minute); err != nil {
		return err
	}

	maxUpload, err := intEnv("MEDIA_MAX_UPLOAD_SIZE", 16*1024*1024)
	if err != nil {
		return err
	}
	cfg.Media.MaxUploadSize = int64(maxUpload)

	asyncStr := os.Getenv("MEDIA_ASYNC_TRANSCODE")
	if asyncStr != "" {
		cfg.Media.AsyncTranscode, err = strconv.ParseBool(asyncStr)
		if err != nil {
			return fmt.Errorf("invalid MEDIA_ASYNC_TRANSCODE: %w", err)
		}
	}

	return nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// splitList parses a comma-separated list, dropping blanks
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
