package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Store     StoreConfig
	Image     ImageConfig
	Export    ExportConfig
	RabbitMQ  RabbitMQConfig
	Log       LogConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StoreConfig selects the key-value namespace that holds showcase records.
type StoreConfig struct {
	Backend    string // memory, redis or sqlite
	Namespace  string
	QuotaBytes int64 // 0 disables the quota
	ProbeBytes int
	SQLitePath string
}

// ImageConfig is the upload and transcoding policy.
type ImageConfig struct {
	MaxFileSize   int64
	AllowedTypes  []string
	MaxDimension  int
	MaxPixels     int64 // decoded width*height ceiling
	Quality       float64
	EncodeTimeout time.Duration
}

type ExportConfig struct {
	StaggerDelay time.Duration
}

type RabbitMQConfig struct {
	URL   string
	Queue string
}

type LogConfig struct {
	Level      string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	CreatePerMinute int
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

var DefaultAllowedTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/heic",
	"image/heif",
	"image/webp",
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDuration("READ_TIMEOUT", 60*time.Second),
			WriteTimeout:    getDuration("WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Store: StoreConfig{
			Backend:    strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
			Namespace:  getEnv("STORE_NAMESPACE", "showcase:"),
			QuotaBytes: getEnvAsInt64("STORE_QUOTA_BYTES", 5*1024*1024), // 5MB, browser origin default
			ProbeBytes: getEnvAsInt("STORE_PROBE_BYTES", 1024*1024),
			SQLitePath: getEnv("SQLITE_PATH", "showcase.db"),
		},
		Image: ImageConfig{
			MaxFileSize:   getEnvAsInt64("MAX_FILE_SIZE", 10*1024*1024), // 10MB
			AllowedTypes:  getEnvAsList("ALLOWED_TYPES", DefaultAllowedTypes),
			MaxDimension:  getEnvAsInt("MAX_DIMENSION", 1200),
			MaxPixels:     getEnvAsInt64("MAX_PIXELS", 50_000_000), // 50MP
			Quality:       getEnvAsFloat("IMAGE_QUALITY", 0.7),
			EncodeTimeout: getDuration("ENCODE_TIMEOUT", 30*time.Second),
		},
		Export: ExportConfig{
			StaggerDelay: getDuration("EXPORT_STAGGER_DELAY", 500*time.Millisecond),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   getEnv("RABBITMQ_URL", ""),
			Queue: getEnv("RABBITMQ_QUEUE", "showcase_events"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Path:       getEnv("LOG_PATH", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 7),
			Compress:   getEnvAsBool("LOG_COMPRESS", false),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		RateLimit: RateLimitConfig{
			CreatePerMinute: getEnvAsInt("RATE_LIMIT_CREATE_PER_MINUTE", 30),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.QuotaBytes < 0 {
		return fmt.Errorf("store quota must not be negative, got %d", c.Store.QuotaBytes)
	}
	if c.Store.ProbeBytes <= 0 {
		return fmt.Errorf("probe size must be positive, got %d", c.Store.ProbeBytes)
	}
	if c.Image.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.Image.MaxFileSize)
	}
	if len(c.Image.AllowedTypes) == 0 {
		return fmt.Errorf("at least one allowed image type is required")
	}
	if c.Image.MaxDimension <= 0 {
		return fmt.Errorf("max dimension must be positive, got %d", c.Image.MaxDimension)
	}
	if c.Image.MaxPixels <= 0 {
		return fmt.Errorf("max pixels must be positive, got %d", c.Image.MaxPixels)
	}
	if c.Image.Quality <= 0 || c.Image.Quality > 1 {
		return fmt.Errorf("image quality must be in (0, 1], got %v", c.Image.Quality)
	}
	if c.Image.EncodeTimeout <= 0 {
		return fmt.Errorf("encode timeout must be positive, got %s", c.Image.EncodeTimeout)
	}
	if c.Export.StaggerDelay < 0 {
		return fmt.Errorf("export stagger delay must not be negative, got %s", c.Export.StaggerDelay)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}

	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return defaultVal
	}
	return items
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
