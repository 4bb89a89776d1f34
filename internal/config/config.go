package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	ServerPort  string
	Environment string

	// Session lifetimes; RememberTTL is used when the login request sets "remember".
	SessionTTL  time.Duration
	RememberTTL time.Duration

	// Uploads
	UploadDir         string
	MaxUploadMB       int
	AllowedExtensions map[string]bool

	// First-run superadmin seeding (optional)
	SuperadminEmail string
	AdminPassword   string

	// Outbound mail (contact form). Missing values disable the feature,
	// they never fail startup.
	MailgunAPIKey  string
	MailgunDomain  string
	MailgunBaseURL string
	MailTo         string

	// Rate limiting for auth endpoints
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration

	// Append-only security event journal
	AuditLogPath string
}

func Load() *Config {
	// Try to load .env file, but don't fail if it doesn't exist
	// (containers use environment variables directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "sports_club.db"
	}
	// Heroku-style postgres:// URLs are accepted as postgresql://
	if strings.HasPrefix(dbURL, "postgres://") {
		dbURL = "postgresql://" + strings.TrimPrefix(dbURL, "postgres://")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = ":8080"
	}

	cfg := &Config{
		DatabaseURL: dbURL,
		RedisURL:    os.Getenv("REDIS_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		ServerPort:  port,
		Environment: os.Getenv("ENVIRONMENT"),

		SessionTTL:  getEnvAsDuration("SESSION_TTL", "24h"),
		RememberTTL: getEnvAsDuration("REMEMBER_TTL", "720h"),

		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadMB:       getEnvAsInt("MAX_UPLOAD_MB", 15),
		AllowedExtensions: parseExtensions(getEnv("ALLOWED_UPLOAD_EXTENSIONS", "pdf,jpg,jpeg,png")),

		SuperadminEmail: os.Getenv("SUPERADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),

		MailgunAPIKey:  os.Getenv("MAILGUN_API_KEY"),
		MailgunDomain:  os.Getenv("MAILGUN_DOMAIN"),
		MailgunBaseURL: getEnv("MAILGUN_BASE_URL", "https://api.mailgun.net/v3"),
		MailTo:         os.Getenv("MAIL_TO"),

		RateLimitMaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 20),
		RateLimitWindow:      getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),

		AuditLogPath: getEnv("AUDIT_LOG_PATH", "./data/audit.log"),
	}

	return cfg
}

// MaxUploadBytes returns the upload ceiling in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// MailConfigured reports whether the contact-mail feature can be used.
func (c *Config) MailConfigured() bool {
	return c.MailgunAPIKey != "" && c.MailgunDomain != "" && c.MailTo != ""
}

func parseExtensions(list string) map[string]bool {
	exts := make(map[string]bool)
	for _, e := range strings.Split(list, ",") {
		e = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(e, ".")))
		if e != "" {
			exts[e] = true
		}
	}
	return exts
}

// getEnv retrieves environment variable with default value
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsDuration retrieves environment variable as duration with default value
func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	duration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %s", key, defaultVal)
		duration, _ = time.ParseDuration(defaultVal)
	}
	return duration
}
