package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// MongoDB (document cache, saved trials)
	MongoURI      string
	MongoDatabase string

	// Neo4j (trial graph)
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Trial registry API
	RegistryBaseURL string
	RegistryTimeout time.Duration

	// Cache behavior
	CacheTTLDays    int
	DefaultPageSize int

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Logging and features
	LogLevel   string
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		MongoURI:      getEnv("MONGODB_URL", "mongodb://localhost:27017/"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "clinect"),

		Neo4jURI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", ""),

		RegistryBaseURL: getEnv("REGISTRY_API_BASE", "https://clinicaltrials.gov/api/v2"),
		RegistryTimeout: time.Duration(getEnvInt("REGISTRY_TIMEOUT_SECONDS", 10)) * time.Second,

		CacheTTLDays:    getEnvInt("CACHE_TTL_DAYS", 7),
		DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", 10),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "clinect-backend"),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.Neo4jPassword == "" {
			return fmt.Errorf("NEO4J_PASSWORD is required in production")
		}
	}
	if c.CacheTTLDays <= 0 {
		return fmt.Errorf("CACHE_TTL_DAYS must be positive")
	}
	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be positive")
	}

	return nil
}

// CacheTTL returns the cache expiration window as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLDays) * 24 * time.Hour
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
