package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Auth   AuthConfig
	Store  StoreConfig
	Sync   SyncConfig
	Export ExportConfig
	S3     S3Config
	Email  EmailConfig
	CORS   CORSConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// AuthConfig holds device pairing and token settings.
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	TokenExpiry     time.Duration `mapstructure:"token_expiry"`
	Issuer          string        `mapstructure:"issuer"`
	PairingCodeHash string        `mapstructure:"pairing_code_hash"`
}

// StoreConfig holds the remote storefront REST API settings.
type StoreConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	ConsumerKey    string `mapstructure:"consumer_key"`
	ConsumerSecret string `mapstructure:"consumer_secret"`
	TimeoutSecs    int    `mapstructure:"timeout_secs"`
	PageSize       int    `mapstructure:"page_size"`
}

// SyncConfig holds order sync worker settings.
type SyncConfig struct {
	PollIntervalSecs int    `mapstructure:"poll_interval_secs"`
	Concurrency      int    `mapstructure:"concurrency"`
	LookbackHours    int    `mapstructure:"lookback_hours"`
	KeywordsFile     string `mapstructure:"keywords_file"`
}

// ExportConfig holds order export settings.
type ExportConfig struct {
	ArchiveToS3 bool `mapstructure:"archive_to_s3"`
}

// S3Config holds AWS S3 settings for export archiving.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// EmailConfig holds new-order notification settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	NotifyTo    string `mapstructure:"notify_to"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the TILLSYNC_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TILLSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "tillsync")
	v.SetDefault("db.password", "tillsync_secret")
	v.SetDefault("db.name", "tillsync_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.token_expiry", "720h")
	v.SetDefault("auth.issuer", "tillsync")
	v.SetDefault("auth.pairing_code_hash", "")

	// Storefront defaults
	v.SetDefault("store.base_url", "")
	v.SetDefault("store.consumer_key", "")
	v.SetDefault("store.consumer_secret", "")
	v.SetDefault("store.timeout_secs", 30)
	v.SetDefault("store.page_size", 50)

	// Sync defaults
	v.SetDefault("sync.poll_interval_secs", 30)
	v.SetDefault("sync.concurrency", 4)
	v.SetDefault("sync.lookback_hours", 24)
	v.SetDefault("sync.keywords_file", "")

	// Export defaults
	v.SetDefault("export.archive_to_s3", false)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "tillsync-exports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@tillsync.local")
	v.SetDefault("email.from_name", "TillSync")
	v.SetDefault("email.notify_to", "")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "TILLSYNC_SERVER_PORT",
		"server.read_timeout":     "TILLSYNC_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "TILLSYNC_SERVER_WRITE_TIMEOUT",
		"server.environment":      "TILLSYNC_SERVER_ENVIRONMENT",
		"db.host":                 "TILLSYNC_DB_HOST",
		"db.port":                 "TILLSYNC_DB_PORT",
		"db.user":                 "TILLSYNC_DB_USER",
		"db.password":             "TILLSYNC_DB_PASSWORD",
		"db.name":                 "TILLSYNC_DB_NAME",
		"db.sslmode":              "TILLSYNC_DB_SSLMODE",
		"db.max_open":             "TILLSYNC_DB_MAX_OPEN",
		"db.max_idle":             "TILLSYNC_DB_MAX_IDLE",
		"auth.jwt_secret":         "TILLSYNC_AUTH_JWT_SECRET",
		"auth.token_expiry":       "TILLSYNC_AUTH_TOKEN_EXPIRY",
		"auth.issuer":             "TILLSYNC_AUTH_ISSUER",
		"auth.pairing_code_hash":  "TILLSYNC_AUTH_PAIRING_CODE_HASH",
		"store.base_url":          "TILLSYNC_STORE_BASE_URL",
		"store.consumer_key":      "TILLSYNC_STORE_CONSUMER_KEY",
		"store.consumer_secret":   "TILLSYNC_STORE_CONSUMER_SECRET",
		"store.timeout_secs":      "TILLSYNC_STORE_TIMEOUT_SECS",
		"store.page_size":         "TILLSYNC_STORE_PAGE_SIZE",
		"sync.poll_interval_secs": "TILLSYNC_SYNC_POLL_INTERVAL_SECS",
		"sync.concurrency":        "TILLSYNC_SYNC_CONCURRENCY",
		"sync.lookback_hours":     "TILLSYNC_SYNC_LOOKBACK_HOURS",
		"sync.keywords_file":      "TILLSYNC_SYNC_KEYWORDS_FILE",
		"export.archive_to_s3":    "TILLSYNC_EXPORT_ARCHIVE_TO_S3",
		"s3.region":               "TILLSYNC_S3_REGION",
		"s3.bucket":               "TILLSYNC_S3_BUCKET",
		"s3.endpoint":             "TILLSYNC_S3_ENDPOINT",
		"s3.access_key":           "TILLSYNC_S3_ACCESS_KEY",
		"s3.secret_key":           "TILLSYNC_S3_SECRET_KEY",
		"s3.presign_expiry":       "TILLSYNC_S3_PRESIGN_EXPIRY",
		"email.provider":          "TILLSYNC_EMAIL_PROVIDER",
		"email.region":            "TILLSYNC_EMAIL_REGION",
		"email.from_address":      "TILLSYNC_EMAIL_FROM_ADDRESS",
		"email.from_name":         "TILLSYNC_EMAIL_FROM_NAME",
		"email.notify_to":         "TILLSYNC_EMAIL_NOTIFY_TO",
		"cors.allowed_origins":    "TILLSYNC_CORS_ALLOWED_ORIGINS",
		"log.level":               "TILLSYNC_LOG_LEVEL",
		"log.format":              "TILLSYNC_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TILLSYNC_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TILLSYNC_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Auth = AuthConfig{
		JWTSecret:       v.GetString("auth.jwt_secret"),
		TokenExpiry:     v.GetDuration("auth.token_expiry"),
		Issuer:          v.GetString("auth.issuer"),
		PairingCodeHash: v.GetString("auth.pairing_code_hash"),
	}
	cfg.Store = StoreConfig{
		BaseURL:        strings.TrimRight(v.GetString("store.base_url"), "/"),
		ConsumerKey:    v.GetString("store.consumer_key"),
		ConsumerSecret: v.GetString("store.consumer_secret"),
		TimeoutSecs:    v.GetInt("store.timeout_secs"),
		PageSize:       v.GetInt("store.page_size"),
	}
	cfg.Sync = SyncConfig{
		PollIntervalSecs: v.GetInt("sync.poll_interval_secs"),
		Concurrency:      v.GetInt("sync.concurrency"),
		LookbackHours:    v.GetInt("sync.lookback_hours"),
		KeywordsFile:     v.GetString("sync.keywords_file"),
	}
	cfg.Export = ExportConfig{
		ArchiveToS3: v.GetBool("export.archive_to_s3"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		NotifyTo:    v.GetString("email.notify_to"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
