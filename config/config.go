package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver    string // mysql, postgres or sqlite
	DatabaseURL string

	RedisURL           string
	PermissionCacheTTL time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins []string

	UploadDir     string
	CloudinaryURL string

	AdminSeedEmail    string
	AdminSeedPassword string

	LogLevel  string
	LogFormat string
	LogFile   string

	ReconcileSchedule string
}

// Load reads the configuration from the environment. Call godotenv.Load first
// to pick up a .env file.
func Load() Config {
	return Config{
		Port:               envOrDefault("PORT", "8080"),
		GinMode:            envOrDefault("GIN_MODE", "release"),
		DBDriver:           strings.ToLower(envOrDefault("DB_DRIVER", "mysql")),
		DatabaseURL:        envOrDefault("MYSQL_URL", strings.TrimSpace(os.Getenv("DATABASE_URL"))),
		RedisURL:           strings.TrimSpace(os.Getenv("REDIS_URL")),
		PermissionCacheTTL: envDuration("PERMISSION_CACHE_TTL", 5*time.Minute),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTTTL:             envDuration("JWT_TTL", 12*time.Hour),
		CORSOrigins:        parseList(os.Getenv("CORS_ORIGINS"), "*"),
		UploadDir:          envOrDefault("UPLOAD_DIR", "uploads"),
		CloudinaryURL:      strings.TrimSpace(os.Getenv("CLOUDINARY_URL")),
		AdminSeedEmail:     envOrDefault("ADMIN_SEED_EMAIL", "admin@indianahotels.com"),
		AdminSeedPassword:  envOrDefault("ADMIN_SEED_PASSWORD", "admin123"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "console"),
		LogFile:            strings.TrimSpace(os.Getenv("LOG_FILE")),
		ReconcileSchedule:  envOrDefault("RECONCILE_SCHEDULE", "@every 5m"),
	}
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	// bare numbers are seconds
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func parseList(raw, def string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{def}
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return []string{def}
	}
	return out
}
