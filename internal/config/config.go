package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	AllowedOrigins []string // CORS allowed origins

	OTPTTL           time.Duration
	RegisterTokenTTL time.Duration

	JWTSecret string
	JWTExpiry time.Duration
	JWTIssuer string

	SMTPHost     string
	SMTPPort     int
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	SMTPTLS      bool

	RedisURL          string
	QueueRedisURL     string // defaults to RedisURL
	QueueName         string
	QueueMaxRetry     int
	QueueBackoff      time.Duration
	WorkerConcurrency int
	WorkerEmbedded    bool

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	MailTemplateBucket string // optional; built-in templates are used when empty
	UserEventsTopicARN string // optional; events are not published when empty

	RateLimitRPS   float64
	RateLimitBurst int
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	redisURL := getEnv("REDIS_URL", "redis://localhost:6379/0")
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		OTPTTL:           getEnvSeconds("OTP_TTL_SECONDS", 120),
		RegisterTokenTTL: getEnvSeconds("REGISTER_TOKEN_TTL_SECONDS", 15*60),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: getEnvSeconds("JWT_EXPIRY_SECONDS", 3600),
		JWTIssuer: getEnv("JWT_ISSUER", "go-otp-auth"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 1025),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPTLS:      getEnvBool("SMTP_TLS", false),

		RedisURL:          redisURL,
		QueueRedisURL:     getEnv("QUEUE_REDIS_URL", redisURL),
		QueueName:         getEnv("QUEUE_NAME", "otp"),
		QueueMaxRetry:     getEnvInt("QUEUE_MAX_RETRY", 3),
		QueueBackoff:      getEnvSeconds("QUEUE_BACKOFF_SECONDS", 5),
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 5),
		WorkerEmbedded:    getEnvBool("WORKER_EMBEDDED", false),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users: getEnv("DYNAMO_TABLE_USERS", "users"),
		},

		MailTemplateBucket: getEnv("MAIL_TEMPLATE_BUCKET", ""),
		UserEventsTopicARN: getEnv("SNS_USER_EVENTS_TOPIC_ARN", ""),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
	}
}

// Validate reports configuration that would make the service unsafe or unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.OTPTTL <= 0 {
		errs = append(errs, errors.New("OTP_TTL_SECONDS must be positive"))
	}
	if c.RegisterTokenTTL <= 0 {
		errs = append(errs, errors.New("REGISTER_TOKEN_TTL_SECONDS must be positive"))
	}
	if c.JWTExpiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY_SECONDS must be positive"))
	}
	if c.WorkerConcurrency < 1 {
		errs = append(errs, errors.New("WORKER_CONCURRENCY must be at least 1"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}
