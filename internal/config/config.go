package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Pipeline (ops endpoints guarded by X-API-Key)
	PipelineAPIKey string

	// Bond reference lookup
	BondRefProvider  string // "static" or "http"
	BondRefBaseURL   string
	BondRefAPIKey    string
	BondRefTimeout   time.Duration
	BondRefRateLimit int

	// Matching policy
	HoldingScope string // "all" or "current"
	IssuerMatch  string // "exact" or "fuzzy"

	// Search history
	SearchHistoryLimit int

	// Password reset
	ResetCodeTTL time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "bondmatch"),
		DBPassword: getEnv("DB_PASSWORD", "bondmatch"),
		DBName:     getEnv("DB_NAME", "bondmatch"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		PipelineAPIKey: getEnv("PIPELINE_API_KEY", ""),

		BondRefProvider: strings.ToLower(getEnv("BONDREF_PROVIDER", "static")),
		BondRefBaseURL:  getEnv("BONDREF_BASE_URL", ""),
		BondRefAPIKey:   getEnv("BONDREF_API_KEY", ""),

		HoldingScope: strings.ToLower(getEnv("MATCH_HOLDING_SCOPE", "all")),
		IssuerMatch:  strings.ToLower(getEnv("MATCH_ISSUER_MATCH", "exact")),
	}

	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 24*time.Hour)
	config.BondRefTimeout = getDuration("BONDREF_TIMEOUT", 10*time.Second)
	config.ResetCodeTTL = getDuration("RESET_CODE_TTL", 15*time.Minute)
	config.BondRefRateLimit = getInt("BONDREF_RATE_LIMIT", 5)
	config.SearchHistoryLimit = getInt("SEARCH_HISTORY_LIMIT", 20)

	if config.HoldingScope != "all" && config.HoldingScope != "current" {
		log.Printf("Warning: invalid MATCH_HOLDING_SCOPE value '%s', falling back to all\n", config.HoldingScope)
		config.HoldingScope = "all"
	}
	if config.IssuerMatch != "exact" && config.IssuerMatch != "fuzzy" {
		log.Printf("Warning: invalid MATCH_ISSUER_MATCH value '%s', falling back to exact\n", config.IssuerMatch)
		config.IssuerMatch = "exact"
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}
