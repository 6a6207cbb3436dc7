package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	NATS       NATSConfig
	Storage    StorageConfig
	Recall     RecallConfig
	Zoom       ZoomConfig
	Whisper    WhisperConfig
	OpenRouter OpenRouterConfig
	Email      EmailConfig
	Pipeline   PipelineConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NATSConfig holds NATS/JetStream task queue configuration
type NATSConfig struct {
	URL        string
	StreamName string
	Durable    string
}

// StorageConfig holds MinIO object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// RecallConfig holds configuration for the Recall bot provider.
// BaseURLs is the ordered list of regional API endpoints; the first
// endpoint that answers authoritatively wins.
type RecallConfig struct {
	APIKey   string
	BaseURLs []string
}

// ZoomConfig holds configuration for the Zoom provider
type ZoomConfig struct {
	AccessToken               string
	WebhookSecretToken        string
	SkipSignatureVerification bool
}

// WhisperConfig holds configuration for the transcription engine
type WhisperConfig struct {
	BaseURL string
	Model   string
}

// OpenRouterConfig holds configuration for the summarization LLM
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// EmailConfig holds outbound email configuration
type EmailConfig struct {
	APIKey string
	From   string
}

// PipelineConfig holds worker pool and reconciliation tuning
type PipelineConfig struct {
	WorkerCount        int
	DedupeWindow       time.Duration
	DirectoryRetention time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "meetings"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		NATS: NATSConfig{
			URL:        getEnv("NATS_URL", "nats://localhost:4222"),
			StreamName: getEnv("NATS_STREAM", "TASKS"),
			Durable:    getEnv("NATS_DURABLE", "pipeline-workers"),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "meeting-audio"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
		Recall: RecallConfig{
			APIKey:   getEnv("RECALL_API_KEY", ""),
			BaseURLs: getEnvAsSlice("RECALL_BASE_URLS", recallDefaultBaseURLs()),
		},
		Zoom: ZoomConfig{
			AccessToken:               getEnv("ZOOM_ACCESS_TOKEN", ""),
			WebhookSecretToken:        getEnv("ZOOM_WEBHOOK_SECRET_TOKEN", ""),
			SkipSignatureVerification: getEnvAsBool("ZOOM_SKIP_SIGNATURE_VERIFICATION", false),
		},
		Whisper: WhisperConfig{
			BaseURL: getEnv("WHISPER_BASE_URL", "http://localhost:9300"),
			Model:   getEnv("WHISPER_MODEL", "base"),
		},
		OpenRouter: OpenRouterConfig{
			APIKey:  getEnv("OPENROUTER_API_KEY", ""),
			BaseURL: getEnv("OPENROUTER_API_URL", "https://openrouter.ai/api"),
			Model:   getEnv("OPENROUTER_MODEL", "openai/gpt-4.1"),
		},
		Email: EmailConfig{
			APIKey: getEnv("RESEND_API_KEY", ""),
			From:   getEnv("EMAIL_FROM", "meetings@example.com"),
		},
		Pipeline: PipelineConfig{
			WorkerCount:        getEnvAsInt("PIPELINE_WORKERS", 3),
			DedupeWindow:       getEnvAsDuration("WEBHOOK_DEDUPE_WINDOW", "10m"),
			DirectoryRetention: getEnvAsDuration("BOT_DIRECTORY_RETENTION", "168h"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Recall.APIKey == "" {
		return fmt.Errorf("RECALL_API_KEY is required")
	}
	if len(c.Recall.BaseURLs) == 0 {
		return fmt.Errorf("RECALL_BASE_URLS must list at least one endpoint")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func recallDefaultBaseURLs() []string {
	return []string{
		"https://us-east-1.recall.ai/api/v1",
		"https://us-west-2.recall.ai/api/v1",
		"https://eu-central-1.recall.ai/api/v1",
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
