// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "STORE", "DATABASE_URL", "PG_HOST", "PG_PORT", "PG_DATABASE", "POSTGRES_USER",
		"POSTGRES_PASSWORD", "REDIS_ADDR", "REDIS_DB", "PROFILE_CACHE_TTL", "RELATIONSHIP_EVENTS_QUEUE",
		"DISCOVER_PAGE_SIZE", "RELATIONSHIP_MAX_RETRIES", "STORE_OP_TIMEOUT", "TOKEN_EXPIRE_TIME",
		"LOG_LEVEL", "LOG_FORMAT", "JWT_PRIVATE_KEY_PATH", "JWT_PUBLIC_KEY_PATH",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE", "memory")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, 10, c.DiscoverPageSize)
	assert.Equal(t, 5, c.MaxRetries)
	assert.Equal(t, 5*time.Second, c.StoreOpTimeout)
	assert.Equal(t, 5*time.Minute, c.ProfileCacheTTL)
	assert.Equal(t, "relationship_events", c.EventsQueue)
	assert.Zero(t, c.TokenExpireTime)
	assert.Empty(t, c.RedisAddr)
}

func TestLoadPostgresFromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("PG_HOST", "db")
	t.Setenv("POSTGRES_USER", "app")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "social")
	t.Setenv("TOKEN_EXPIRE_TIME", "72h")
	t.Setenv("DISCOVER_PAGE_SIZE", "oops")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:secret@db:5432/social", c.DatabaseURL)
	assert.Equal(t, 72*time.Hour, c.TokenExpireTime)
	assert.Equal(t, 10, c.DiscoverPageSize, "unparsable values fall back to the default")
}

func TestLoadRejectsBadInput(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	assert.Error(t, err, "postgres without a database url")

	t.Setenv("STORE", "mongo")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("STORE", "memory")
	t.Setenv("TOKEN_EXPIRE_TIME", "soon")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadJWTKeyPaths(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE", "memory")

	c, err := Load()
	require.NoError(t, err)
	assert.Empty(t, c.JWTPrivateKeyPath)

	t.Setenv("JWT_PRIVATE_KEY_PATH", "/etc/keys/jwt.key")
	_, err = Load()
	assert.Error(t, err, "one path without the other")

	t.Setenv("JWT_PUBLIC_KEY_PATH", "/etc/keys/jwt.pub")
	c, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "/etc/keys/jwt.key", c.JWTPrivateKeyPath)
	assert.Equal(t, "/etc/keys/jwt.pub", c.JWTPublicKeyPath)
}

func TestNewLogger(t *testing.T) {
	c := &Config{LogLevel: "debug", LogFormat: "json"}
	l := c.NewLogger()
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	c = &Config{LogLevel: "chatty"}
	assert.Equal(t, logrus.InfoLevel, c.NewLogger().GetLevel())
}
