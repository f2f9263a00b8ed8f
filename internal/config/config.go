package config

import (
	"fmt"  // Error wrapping
	"time" // TTL durations

	"github.com/caarlos0/env/v11" // Environment parsing into struct tags
	"github.com/joho/godotenv"    // For loading .env files
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the application configuration
type Config struct {
	AppPort        string        `env:"APP_PORT" envDefault:"8080"`             // Application port
	IsProd         bool          `env:"IS_PROD" envDefault:"false"`             // Is production environment
	DBDriver       string        `env:"DB_DRIVER" envDefault:"mysql"`           // mysql, postgres or sqlite
	DBUser         string        `env:"DB_USER"`                                // Database user
	DBPassword     string        `env:"DB_PASSWORD"`                            // Database password
	DBHost         string        `env:"DB_HOST" envDefault:"127.0.0.1"`         // Database host
	DBPort         string        `env:"DB_PORT" envDefault:"3306"`              // Database port
	DBName         string        `env:"DB_NAME" envDefault:"voucher_wallet"`    // Database name
	DBSSLMode      string        `env:"DB_SSLMODE" envDefault:"disable"`        // PostgreSQL sslmode
	SQLitePath     string        `env:"SQLITE_PATH" envDefault:"wallet.db"`     // SQLite database file
	JWTSecret      string        `env:"JWT_SECRET,notEmpty"`                    // JWT secret key
	RedisAddr      string        `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"` // Redis server address
	RedisPass      string        `env:"REDIS_PASS"`                             // Redis password
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`                // Redis database number
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"30s"`             // TTL for cached read models
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`       // TTL for stored idempotent responses
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`            // Logrus level
}

// LoadConfig loads configuration from the environment, reading .env first if present
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err) // Missing or malformed variable
	}
	switch cfg.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	switch c.DBDriver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
	case DriverSQLite:
		return c.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	default:
		// Database Source Name (DSN) for MySQL connection
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&loc=UTC"
	}
}
