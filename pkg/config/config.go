package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Model artifacts
	Model ModelConfig

	// Recommender tuning
	Recommender RecommenderConfig

	// API rate limiting
	RateLimit RateLimitConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ModelConfig holds paths and reload policy for the trained artifacts
// 학습 파이프라인(외부)이 생성한 아티팩트를 읽기만 함
type ModelConfig struct {
	Dir             string // base directory for artifact files
	GradePath       string // grade regression artifact (JSON)
	RecommenderPath string // recommender artifact (JSON)

	// Hot reload (atomic swap of the whole artifact set)
	ReloadEnabled  bool
	ReloadSchedule string // cron expression
}

// RecommenderConfig holds hybrid recommender tuning parameters
type RecommenderConfig struct {
	CFWeight  float64 // collaborative filtering weight
	CBWeight  float64 // content-based weight
	NeighborK int     // top-K similar students

	CacheTTL time.Duration // recommendation response cache TTL
}

// RateLimitConfig holds API rate limit parameters
type RateLimitConfig struct {
	Enabled bool
	RPS     float64 // global requests per second
	Burst   int

	// Per-client sliding window (Redis-backed)
	PerClientLimit  int
	PerClientWindow time.Duration
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "sage"),
			User:            getEnv("DB_USER", "sage"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// Model artifacts
		Model: ModelConfig{
			Dir:             getEnv("MODEL_DIR", "models"),
			GradePath:       getEnv("GRADE_MODEL_PATH", ""),
			RecommenderPath: getEnv("RECOMMENDER_MODEL_PATH", ""),
			ReloadEnabled:   getEnvAsBool("MODEL_RELOAD_ENABLED", false),
			ReloadSchedule:  getEnv("MODEL_RELOAD_SCHEDULE", "@every 10m"),
		},

		// Recommender
		Recommender: RecommenderConfig{
			CFWeight:  getEnvAsFloat("CF_WEIGHT", 0.6),
			CBWeight:  getEnvAsFloat("CB_WEIGHT", 0.4),
			NeighborK: getEnvAsInt("NEIGHBOR_K", 10),
			CacheTTL:  getEnvAsDuration("RECOMMENDATION_CACHE_TTL", "5m"),
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			Enabled:         getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RPS:             getEnvAsFloat("RATE_LIMIT_RPS", 50),
			Burst:           getEnvAsInt("RATE_LIMIT_BURST", 100),
			PerClientLimit:  getEnvAsInt("RATE_LIMIT_PER_CLIENT", 120),
			PerClientWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Default artifact paths live under MODEL_DIR
	if cfg.Model.GradePath == "" {
		cfg.Model.GradePath = filepath.Join(cfg.Model.Dir, "grade_model.json")
	}
	if cfg.Model.RecommenderPath == "" {
		cfg.Model.RecommenderPath = filepath.Join(cfg.Model.Dir, "recommender_model.json")
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Database URL is required
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	// Hybrid weights are not required to sum to 1, but must be non-negative
	if c.Recommender.CFWeight < 0 || c.Recommender.CBWeight < 0 {
		return fmt.Errorf("CF_WEIGHT and CB_WEIGHT must be non-negative")
	}

	if c.Recommender.NeighborK <= 0 {
		return fmt.Errorf("NEIGHBOR_K must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
