package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration for integration tests from TEST_* variables.
// An empty Config is returned when the test database is not configured; callers skip on it.
func LoadTestConfig() (*Config, error) {
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	cfg := &Config{}

	dbHost := os.Getenv("TEST_DB_HOST")
	if dbHost == "" {
		return cfg, nil
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("TEST_DB_PORT")
	if dbPortStr == "" {
		return cfg, nil
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	cfg.Database.User = os.Getenv("TEST_DB_USER")
	cfg.Database.Password = os.Getenv("TEST_DB_PASSWORD")
	cfg.Database.DBName = os.Getenv("TEST_DB_NAME")
	if cfg.Database.User == "" || cfg.Database.DBName == "" {
		return &Config{}, nil
	}

	cfg.Media.BasePath = os.Getenv("TEST_MEDIA_BASE_PATH")
	cfg.Media.FFmpegPath = stringEnv("TEST_MEDIA_FFMPEG_PATH", "ffmpeg")
	cfg.Media.FFprobePath = stringEnv("TEST_MEDIA_FFPROBE_PATH", "ffprobe")

	return cfg, nil
}

// Configured reports whether a database was configured
func (c *Config) Configured() bool {
	return c.Database.Host != ""
}
