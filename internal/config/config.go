package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	Server    ServerConfig
	CORS      CORSConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
}

type DatabaseConfig struct {
	Driver      string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	Path        string
	AutoMigrate bool
}

type JWTConfig struct {
	Secret            string
	Issuer            string
	Audience          string
	AccessTokenExpiry time.Duration
	// RefreshExpireDays is the lifetime of refresh tokens issued by register and login.
	RefreshExpireDays int
	// RotationWindow is the lifetime of refresh tokens issued by a refresh.
	RotationWindow time.Duration
}

type ServerConfig struct {
	Port            string
	GinMode         string
	ProtectWrites   bool
	ShutdownTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type StorageConfig struct {
	UploadDir           string
	MaxPhotoBytes       int64
	OrphanSweepInterval time.Duration
	OrphanMinAge        time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// RefreshTokenExpiry converts RefreshExpireDays into a duration.
func (j JWTConfig) RefreshTokenExpiry() time.Duration {
	return time.Duration(j.RefreshExpireDays) * 24 * time.Hour
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", "mysql"),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "3306"),
			User:        getEnv("DB_USER", "root"),
			Password:    getEnv("DB_PASSWORD", ""),
			Database:    getEnv("DB_NAME", "travel_journal"),
			Path:        getEnv("DB_PATH", "travel_journal.db"),
			AutoMigrate: parseBool(getEnv("DB_AUTO_MIGRATE", "true"), true),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "change-me-to-a-long-random-secret"),
			Issuer:            getEnv("JWT_ISSUER", "travel-journal"),
			Audience:          getEnv("JWT_AUDIENCE", "travel-journal-clients"),
			AccessTokenExpiry: parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshExpireDays: parseInt(getEnv("REFRESH_EXPIRE_DAYS", "7"), 7),
			RotationWindow:    7 * 24 * time.Hour,
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			GinMode:         getEnv("GIN_MODE", "debug"),
			ProtectWrites:   parseBool(getEnv("PROTECT_WRITES", "false"), false),
			ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Storage: StorageConfig{
			UploadDir:           getEnv("UPLOAD_DIR", "uploads"),
			MaxPhotoBytes:       int64(parseInt(getEnv("MAX_PHOTO_BYTES", "5242880"), 5*1024*1024)),
			OrphanSweepInterval: parseDuration(getEnv("ORPHAN_SWEEP_INTERVAL", "0s"), 0),
			OrphanMinAge:        parseDuration(getEnv("ORPHAN_MIN_AGE", "1h"), time.Hour),
		},
		RateLimit: RateLimitConfig{
			RPS:   parseFloat(getEnv("AUTH_RATE_LIMIT_RPS", "5"), 5),
			Burst: parseInt(getEnv("AUTH_RATE_LIMIT_BURST", "10"), 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
			TTL:      parseDuration(getEnv("CACHE_TTL", "1m"), time.Minute),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		slog.Warn("invalid duration in config, using default", "value", s, "default", fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		slog.Warn("invalid integer in config, using default", "value", s, "default", fallback)
		return fallback
	}
	return n
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		slog.Warn("invalid number in config, using default", "value", s, "default", fallback)
		return fallback
	}
	return f
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
