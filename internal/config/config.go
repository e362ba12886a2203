package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// MySQL holds users, seeds, ledger, messages and notifications
	Database DatabaseConfig `json:"database"`

	// MongoDB GridFS holds chat images
	MongoDB MongoDBConfig `json:"mongodb"`

	// Redis relays realtime events between instances (optional)
	Redis RedisConfig `json:"redis"`

	Auth AuthConfig `json:"auth"`

	Seeds SeedConfig `json:"seeds"`

	Notification NotificationConfig `json:"notification"`

	Email EmailConfig `json:"email"`

	Billing BillingConfig `json:"billing"`

	Realtime RealtimeConfig `json:"realtime"`

	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host             string        `json:"host"`
	HTTPPort         string        `json:"http_port"`
	GRPCPort         string        `json:"grpc_port"`
	MediaServicePort string        `json:"media_service_port"`
	MediaBaseURL     string        `json:"media_base_url"`
	ReadTimeout      time.Duration `json:"read_timeout"`
	WriteTimeout     time.Duration `json:"write_timeout"`
	ShutdownTimeout  time.Duration `json:"shutdown_timeout"`
	Environment      string        `json:"environment"` // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
	AutoMigrate  bool   `json:"auto_migrate"`
}

type MongoDBConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
	Bucket   string `json:"bucket"`
}

// RedisConfig: empty URL keeps fanout inside the process
type RedisConfig struct {
	URL           string `json:"url"`
	ChannelPrefix string `json:"channel_prefix"`
}

type AuthConfig struct {
	JWTSecret string        `json:"-"`
	TokenTTL  time.Duration `json:"token_ttl"`
	Issuer    string        `json:"issuer"`
}

// SeedConfig holds the economy constants
type SeedConfig struct {
	InitialGrant        int           `json:"initial_grant"`
	LowBalanceThreshold int           `json:"low_balance_threshold"`
	LowBalanceCooldown  time.Duration `json:"low_balance_cooldown"`
	ImageMessageCost    int           `json:"image_message_cost"`
	MaxImageBytes       int64         `json:"max_image_bytes"`
}

// NotificationConfig contains notification system configuration
type NotificationConfig struct {
	Workers           int  `json:"workers"`             // Number of worker goroutines
	ChannelBufferSize int  `json:"channel_buffer_size"` // Channel buffer size
	Enabled           bool `json:"enabled"`
}

// EmailConfig points at an HTTP email API. Disabled means emails are only logged.
type EmailConfig struct {
	APIURL    string        `json:"api_url"`
	APIKey    string        `json:"-"`
	FromEmail string        `json:"from_email"`
	FromName  string        `json:"from_name"`
	Timeout   time.Duration `json:"timeout"`
	Enabled   bool          `json:"enabled"`
	AppURL    string        `json:"app_url"`
}

type BillingConfig struct {
	WebhookSecret string `json:"-"`
}

type RealtimeConfig struct {
	SubscriberBuffer int     `json:"subscriber_buffer"`
	TypingRate       float64 `json:"typing_rate"`
	TypingBurst      int     `json:"typing_burst"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:             getEnv("SERVER_HOST", "0.0.0.0"),
			HTTPPort:         getEnv("HTTP_PORT", "8000"),
			GRPCPort:         getEnv("GRPC_PORT", "7003"),
			MediaServicePort: getEnv("MEDIA_SERVER_PORT", "8080"),
			ReadTimeout:      getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:     getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout:  getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			Environment:      getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("MYSQL_HOST", "localhost"),
			Port:         getEnv("MYSQL_PORT", "3306"),
			Username:     getEnv("MYSQL_USERNAME", "seedling"),
			Password:     getEnv("MYSQL_PASSWORD", "seedling123"),
			DatabaseName: getEnv("MYSQL_DATABASE", "seedling"),
			MaxOpenConns: getEnvAsInt("MYSQL_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("MYSQL_MAX_IDLE_CONNS", 5),
			AutoMigrate:  getEnvAsBool("MYSQL_AUTO_MIGRATE", true),
		},
		MongoDB: MongoDBConfig{
			Host:     getEnv("MONGO_HOST", "localhost"),
			Port:     getEnv("MONGO_PORT", "27017"),
			Username: getEnv("MONGO_USERNAME", "admin"),
			Password: getEnv("MONGO_PASSWORD", "admin123"),
			Database: getEnv("MONGO_DATABASE", "seedling"),
			Bucket:   getEnv("MONGO_BUCKET", "chat_images"),
		},
		Redis: RedisConfig{
			URL:           getEnv("REDIS_URL", ""),
			ChannelPrefix: getEnv("REDIS_CHANNEL_PREFIX", "seedling"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "change-me"),
			TokenTTL:  getEnvAsDuration("JWT_TTL", 24*time.Hour),
			Issuer:    getEnv("JWT_ISSUER", "seedling"),
		},
		Seeds: SeedConfig{
			InitialGrant:        getEnvAsInt("SEEDS_INITIAL_GRANT", 5),
			LowBalanceThreshold: getEnvAsInt("SEEDS_LOW_BALANCE_THRESHOLD", 5),
			LowBalanceCooldown:  getEnvAsDuration("SEEDS_LOW_BALANCE_COOLDOWN", 24*time.Hour),
			ImageMessageCost:    getEnvAsInt("SEEDS_IMAGE_COST", 1),
			MaxImageBytes:       int64(getEnvAsInt("MAX_IMAGE_BYTES", 10<<20)),
		},
		Notification: NotificationConfig{
			Workers:           getEnvAsInt("NOTIF_WORKERS", 5),
			ChannelBufferSize: getEnvAsInt("NOTIF_BUFFER", 1000),
			Enabled:           getEnvAsBool("NOTIF_ENABLED", true),
		},
		Email: EmailConfig{
			APIURL:    getEnv("EMAIL_API_URL", ""),
			APIKey:    getEnv("EMAIL_API_KEY", ""),
			FromEmail: getEnv("FROM_EMAIL", "no-reply@seedling.app"),
			FromName:  getEnv("FROM_NAME", "Seedling"),
			Timeout:   getEnvAsDuration("EMAIL_TIMEOUT", 10*time.Second),
			Enabled:   getEnvAsBool("EMAIL_ENABLED", false),
			AppURL:    getEnv("APP_URL", "http://localhost:3000"),
		},
		Billing: BillingConfig{
			WebhookSecret: getEnv("BILLING_WEBHOOK_SECRET", ""),
		},
		Realtime: RealtimeConfig{
			SubscriberBuffer: getEnvAsInt("REALTIME_SUBSCRIBER_BUFFER", 64),
			TypingRate:       getEnvAsFloat("TYPING_RATE", 2),
			TypingBurst:      getEnvAsInt("TYPING_BURST", 4),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// media server url is derived from its port unless set explicitly
	cfg.Server.MediaBaseURL = getEnv("MEDIA_BASE_URL",
		fmt.Sprintf("http://localhost:%s/media", cfg.Server.MediaServicePort))

	return cfg
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) GetMongoURI() string {
	m := cfg.MongoDB
	if m.Username == "" || m.Password == "" {
		return fmt.Sprintf("mongodb://%s:%s/%s", m.Host, m.Port, m.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
		m.Username, m.Password, m.Host, m.Port, m.Database)
}

func (cfg *Config) IsProduction() bool {
	return strings.EqualFold(cfg.Server.Environment, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
