package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Redis (session store)
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// SMS notifications
	Twilio TwilioConfig

	// Statement PDF export
	PDF PDFConfig

	// Optional archive of exported statements
	Archive ArchiveConfig
}

// TwilioConfig holds Twilio SMS credentials. SMS sending is best-effort and
// can be disabled outright for test environments.
type TwilioConfig struct {
	Enabled     bool
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

// PDFConfig holds settings for the headless-Chrome statement renderer
type PDFConfig struct {
	RemoteURL string // Optional: attach to a running Chrome instance
	NoSandbox bool   // Required when running as root in a container
	Timeout   time.Duration
}

// ArchiveConfig holds S3 settings for archiving exported statements
type ArchiveConfig struct {
	Enabled         bool
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	sessionTTLHours, err := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "24"))
	if err != nil || sessionTTLHours < 1 {
		return nil, fmt.Errorf("SESSION_TTL_HOURS must be a positive integer")
	}

	pdfTimeoutSecs, err := strconv.Atoi(getEnv("PDF_TIMEOUT_SECONDS", "30"))
	if err != nil || pdfTimeoutSecs < 1 {
		return nil, fmt.Errorf("PDF_TIMEOUT_SECONDS must be a positive integer")
	}

	cfg := &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SessionTTL:    time.Duration(sessionTTLHours) * time.Hour,
		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:           getEnv("ENV", "development"),
		Twilio: TwilioConfig{
			Enabled:     getEnvBool("SMS_ENABLED", false),
			AccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
			PhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		},
		PDF: PDFConfig{
			RemoteURL: getEnv("CHROME_REMOTE_URL", ""),
			NoSandbox: getEnvBool("CHROME_NO_SANDBOX", false),
			Timeout:   time.Duration(pdfTimeoutSecs) * time.Second,
		},
		Archive: ArchiveConfig{
			Enabled:         getEnvBool("STATEMENT_ARCHIVE_ENABLED", false),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "lendledger-statements"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}
	if c.Twilio.Enabled {
		if c.Twilio.AccountSID == "" || c.Twilio.AuthToken == "" || c.Twilio.PhoneNumber == "" {
			return fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER are required when SMS_ENABLED is true")
		}
	}
	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when STATEMENT_ARCHIVE_ENABLED is true")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
