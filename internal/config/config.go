package config

import (
	"fmt"
	"strings"
	"time"

	"hotel_platform_backend/pkg/utils"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds the runtime settings read from the environment.
type Config struct {
	Port  string
	Store string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBApplySchema  bool
	DBMaxOpenConns int

	JWTSecret string
	JWTTTL    time.Duration

	RedisURL        string
	CatalogCacheTTL time.Duration

	CORSAllowedOrigins []string

	LogLevel  string
	LogPretty bool

	SearchTimeout time.Duration

	// DemoPassword is given to the seeded accounts when STORE=memory.
	DemoPassword string
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		Port:  utils.Getenv("PORT", "8080"),
		Store: strings.ToLower(utils.Getenv("STORE", StorePostgres)),

		DBHost:         utils.Getenv("DB_HOST", "localhost"),
		DBPort:         utils.Getenv("DB_PORT", "5432"),
		DBUser:         utils.Getenv("DB_USER", "hotel_user"),
		DBPassword:     utils.Getenv("DB_PASSWORD", "hotel_password"),
		DBName:         utils.Getenv("DB_NAME", "hotel_platform_db"),
		DBSSLMode:      utils.Getenv("DB_SSLMODE", "disable"),
		DBApplySchema:  utils.GetenvBool("DB_APPLY_SCHEMA", false),
		DBMaxOpenConns: utils.GetenvInt("DB_MAX_OPEN_CONNS", 20),

		JWTSecret: utils.Getenv("JWT_SECRET", ""),
		JWTTTL:    utils.GetenvDuration("JWT_TTL", 12*time.Hour),

		RedisURL:        utils.Getenv("REDIS_URL", ""),
		CatalogCacheTTL: utils.GetenvDuration("CATALOG_CACHE_TTL", 30*time.Second),

		CORSAllowedOrigins: utils.SplitList(utils.Getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		LogLevel:  utils.Getenv("LOG_LEVEL", "info"),
		LogPretty: utils.GetenvBool("LOG_PRETTY", true),

		SearchTimeout: utils.GetenvDuration("SEARCH_TIMEOUT", 5*time.Second),

		DemoPassword: utils.Getenv("DEMO_PASSWORD", "demo-password"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE %q (want %q or %q)", c.Store, StorePostgres, StoreMemory)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.SearchTimeout <= 0 {
		return fmt.Errorf("SEARCH_TIMEOUT must be positive")
	}
	return nil
}

// DSN is the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
