package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Interview  InterviewConfig
	Retry      RetryConfig
	Transcript TranscriptConfig
	Questions  QuestionsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"mock_interview"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_ENABLED" default:"true"`
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string        `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	BankTTL  time.Duration `envconfig:"REDIS_BANK_TTL" default:"5m"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Enabled         bool          `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string        `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string        `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string        `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string        `envconfig:"STORAGE_BUCKET" default:"mock-interview"`
	UseSSL          bool          `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string        `envconfig:"STORAGE_PUBLIC_URL" default:""`
	PresignExpiry   time.Duration `envconfig:"STORAGE_PRESIGN_EXPIRY" default:"1h"`
}

// InterviewConfig holds the per-session timing policy
type InterviewConfig struct {
	IntroGapSeconds     int           `envconfig:"INTERVIEW_INTRO_GAP_SECONDS" default:"5"`
	AnswerWindowSeconds int           `envconfig:"INTERVIEW_ANSWER_WINDOW_SECONDS" default:"20"`
	PerWord             time.Duration `envconfig:"INTERVIEW_PER_WORD" default:"500ms"`
	FadeLead            time.Duration `envconfig:"INTERVIEW_FADE_LEAD" default:"1s"`
	FadeDuration        time.Duration `envconfig:"INTERVIEW_FADE_DURATION" default:"1s"`
	StallGrace          time.Duration `envconfig:"INTERVIEW_STALL_GRACE" default:"10s"`
	Language            string        `envconfig:"INTERVIEW_LANGUAGE" default:"en-US"`
	IdleTimeout         time.Duration `envconfig:"INTERVIEW_IDLE_TIMEOUT" default:"30m"`
}

// QuestionsConfig holds question bank configuration
type QuestionsConfig struct {
	MaxQuestions int    `envconfig:"QUESTIONS_MAX" default:"10"`
	RemoteURL    string `envconfig:"QUESTIONS_REMOTE_URL" default:""`
}

// RetryConfig bounds retries against the question provider and the archive
type RetryConfig struct {
	InitialInterval time.Duration `envconfig:"RETRY_INITIAL_INTERVAL" default:"500ms"`
	MaxInterval     time.Duration `envconfig:"RETRY_MAX_INTERVAL" default:"5s"`
	MaxElapsedTime  time.Duration `envconfig:"RETRY_MAX_ELAPSED" default:"30s"`
	MaxRetries      uint64        `envconfig:"RETRY_MAX_RETRIES" default:"5"`
}

// TranscriptConfig holds transcript archive configuration
type TranscriptConfig struct {
	Retention     time.Duration `envconfig:"TRANSCRIPT_RETENTION" default:"24h"`
	PurgeInterval time.Duration `envconfig:"TRANSCRIPT_PURGE_INTERVAL" default:"10m"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Interview.IntroGapSeconds < 0 {
		return fmt.Errorf("INTERVIEW_INTRO_GAP_SECONDS must not be negative")
	}
	if c.Interview.AnswerWindowSeconds <= 0 {
		return fmt.Errorf("INTERVIEW_ANSWER_WINDOW_SECONDS must be positive")
	}
	if c.Interview.PerWord <= 0 {
		return fmt.Errorf("INTERVIEW_PER_WORD must be positive")
	}
	if c.Interview.FadeDuration < time.Second || c.Interview.FadeDuration > 2*time.Second {
		return fmt.Errorf("INTERVIEW_FADE_DURATION must be between 1s and 2s")
	}
	if c.Interview.StallGrace < 0 {
		return fmt.Errorf("INTERVIEW_STALL_GRACE must not be negative")
	}
	if c.Questions.MaxQuestions <= 0 {
		return fmt.Errorf("QUESTIONS_MAX must be positive")
	}
	if c.Transcript.Retention <= 0 {
		return fmt.Errorf("TRANSCRIPT_RETENTION must be positive")
	}
	if c.Storage.Enabled && c.Storage.BucketName == "" {
		return fmt.Errorf("STORAGE_BUCKET is required when storage is enabled")
	}
	return nil
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
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
