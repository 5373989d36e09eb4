package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("REFRESH_EXPIRE_DAYS", "")
	t.Setenv("REDIS_ADDR", "")

	cfg := LoadConfig()

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 7, cfg.JWT.RefreshExpireDays)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenExpiry())
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RotationWindow)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxPhotoBytes)
	assert.False(t, cfg.Redis.Enabled())
	assert.Zero(t, cfg.Storage.OrphanSweepInterval)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("REFRESH_EXPIRE_DAYS", "30")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "5m")
	t.Setenv("PROTECT_WRITES", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,,")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := LoadConfig()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.RefreshTokenExpiry())
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.True(t, cfg.Server.ProtectWrites)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Redis.Enabled())
}

func TestParseFallbacks(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 3, parseInt("three", 3))
	assert.Equal(t, 1.5, parseFloat("x", 1.5))
	assert.True(t, parseBool("maybe", true))
	assert.Empty(t, parseOrigins(""))
}
