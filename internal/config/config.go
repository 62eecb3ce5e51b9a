package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Server
	Port       string
	Env        string
	TrustProxy bool // take the client address from X-Forwarded-For / X-Real-IP

	// Record stores
	StoreDriver string // file, postgres
	DataDir     string
	DatabaseURL string

	// Chat event relay
	RedisURL string

	// Admin access
	APIKey       string
	PasswordMode string // plaintext, bcrypt
	CookieSecure bool

	// CORS
	AllowedOrigins []string

	// Media
	MediaDriver   string // local, s3
	MediaDir      string
	MediaBaseURL  string
	MaxImageBytes int64
	S3Endpoint    string
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string

	// Logging
	LogLevel string
	LogFile  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		TrustProxy: parseBool(getEnv("TRUST_PROXY", "false"), false),

		StoreDriver: getEnv("STORE_DRIVER", "file"),
		DataDir:     getEnv("DATA_DIR", "./data"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", ""),

		APIKey:       getEnv("API_KEY", ""),
		PasswordMode: getEnv("PASSWORD_MODE", "plaintext"),
		CookieSecure: parseBool(getEnv("COOKIE_SECURE", "false"), false),

		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		MediaDriver:   getEnv("MEDIA_DRIVER", "local"),
		MediaDir:      getEnv("MEDIA_DIR", "./data/media"),
		MediaBaseURL:  getEnv("MEDIA_BASE_URL", "/media"),
		MaxImageBytes: parseInt64(getEnv("MAX_IMAGE_BYTES", "10485760"), 10<<20),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3Region:      getEnv("S3_REGION", "eu-central-1"),
		S3Bucket:      getEnv("S3_BUCKET", "landesnetz-media"),
		S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:   getEnv("S3_SECRET_KEY", ""),

		LogLevel: getEnv("LOG_LEVEL", "debug"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseBool(s string, defaultValue bool) bool {
	value, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseInt64(s string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func parseStringSlice(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
