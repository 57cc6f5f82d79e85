package config

import (
	"os"
	"time"
)

// Config holds all runtime configuration, read once at startup and passed
// explicitly to the components that need it.
type Config struct {
	Port      string
	DBPath    string
	BaseURL   string
	LogLevel  string
	LogFormat string

	// JWT signing
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Object storage (S3-compatible; MinIO in development)
	S3Endpoint  string
	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	// Verification email (SES)
	SESRegion    string
	SESFromEmail string
	SESFromName  string
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		Port:      getEnv("PANTRY_PORT", "8080"),
		DBPath:    getEnv("PANTRY_DB_PATH", "pantry.db"),
		BaseURL:   getEnv("PANTRY_BASE_URL", "http://localhost:8080"),
		LogLevel:  getEnv("PANTRY_LOG_LEVEL", "info"),
		LogFormat: getEnv("PANTRY_LOG_FORMAT", "text"),

		SecretKey:       getEnv("PANTRY_SECRET_KEY", "change-me"),
		AccessTokenTTL:  getDuration("PANTRY_ACCESS_TOKEN_TTL", 150*time.Minute),
		RefreshTokenTTL: getDuration("PANTRY_REFRESH_TOKEN_TTL", 7*24*time.Hour),

		S3Endpoint:  os.Getenv("PANTRY_S3_ENDPOINT"),
		S3Bucket:    getEnv("PANTRY_S3_BUCKET", "pantry-media"),
		S3Region:    getEnv("PANTRY_S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("PANTRY_S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("PANTRY_S3_SECRET_KEY"),
		S3PublicURL: os.Getenv("PANTRY_S3_PUBLIC_URL"),

		SESRegion:    getEnv("PANTRY_SES_REGION", "us-east-1"),
		SESFromEmail: os.Getenv("PANTRY_SES_FROM_EMAIL"),
		SESFromName:  getEnv("PANTRY_SES_FROM_NAME", "Pantry"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
