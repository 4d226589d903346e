// internal/config/config.go

// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Store selects the record store: "postgres" or "memory".
	Store       string
	DatabaseURL string

	// RedisAddr empty disables the profile cache and event queue.
	RedisAddr       string
	RedisDB         int
	ProfileCacheTTL time.Duration
	EventsQueue     string

	DiscoverPageSize int
	MaxRetries       int
	StoreOpTimeout   time.Duration

	TokenExpireTime time.Duration
	// JWT key paths point at raw ed25519 keys. Both empty generates a key
	// pair at startup.
	JWTPrivateKeyPath string
	JWTPublicKeyPath  string

	LogLevel  string
	LogFormat string
}

// Load reads the configuration. DATABASE_URL wins over the individual
// POSTGRES_* and PG_* variables.
func Load() (*Config, error) {
	c := &Config{
		Port:             getEnv("PORT", "8080"),
		Store:            getEnv("STORE", "postgres"),
		DatabaseURL:      getEnv("DATABASE_URL", postgresURLFromParts()),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		ProfileCacheTTL:  getEnvDuration("PROFILE_CACHE_TTL", 5*time.Minute),
		EventsQueue:      getEnv("RELATIONSHIP_EVENTS_QUEUE", "relationship_events"),
		DiscoverPageSize: getEnvInt("DISCOVER_PAGE_SIZE", 10),
		MaxRetries:       getEnvInt("RELATIONSHIP_MAX_RETRIES", 5),
		StoreOpTimeout:   getEnvDuration("STORE_OP_TIMEOUT", 5*time.Second),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),

		JWTPrivateKeyPath: os.Getenv("JWT_PRIVATE_KEY_PATH"),
		JWTPublicKeyPath:  os.Getenv("JWT_PUBLIC_KEY_PATH"),
	}

	switch d := os.Getenv("TOKEN_EXPIRE_TIME"); d {
	case "", "0", "never":
	default:
		ttl, err := time.ParseDuration(d)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_EXPIRE_TIME %q: %w", d, err)
		}
		c.TokenExpireTime = ttl
	}

	if (c.JWTPrivateKeyPath == "") != (c.JWTPublicKeyPath == "") {
		return nil, fmt.Errorf("JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH must be set together")
	}
	if c.Store != "postgres" && c.Store != "memory" {
		return nil, fmt.Errorf("unknown STORE %q", c.Store)
	}
	if c.Store == "postgres" && c.DatabaseURL == "" {
		return nil, fmt.Errorf("STORE=postgres needs DATABASE_URL or PG_HOST")
	}
	return c, nil
}

func postgresURLFromParts() string {
	host := os.Getenv("PG_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		host,
		getEnv("PG_PORT", "5432"),
		os.Getenv("PG_DATABASE"),
	)
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
