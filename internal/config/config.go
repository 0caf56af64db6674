package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all the configuration for the application.
type Config struct {
	Env          string   `yaml:"env" env:"ENV" env-default:"production"`
	BaseURL      string   `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:8080"`
	TrustedHost  []string `yaml:"trusted_host" env:"TRUSTED_HOST" env-separator:","`
	AllowOrigins []string `yaml:"allow_origins" env:"ALLOW_ORIGINS" env-separator:"," env-default:"http://localhost:3000,http://localhost:8080"`

	HTTPServer `yaml:"http_server"`
	Database   `yaml:"database"`
	Auth       `yaml:"auth"`
	Redis      `yaml:"redis"`
	Email      `yaml:"email"`
	Features   `yaml:"features"`
	Callbacks  `yaml:"callbacks"`
	Tracing    `yaml:"tracing"`
	Links      `yaml:"links"`
}

// HTTPServer holds HTTP listener settings.
type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"0s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"30s"`
	RateLimit       int           `yaml:"rate_limit" env:"HTTP_RATE_LIMIT" env-default:"300"`
}

// Database holds PostgreSQL connection settings.
type Database struct {
	URL             string        `yaml:"url" env:"DATABASE_URL" env-required:"true"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DATABASE_MAX_IDLE_CONNS" env-default:"5"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS" env-default:"20"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DATABASE_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool          `yaml:"auto_migrate" env:"AUTO_MIGRATE" env-default:"true"`
	SeedData        bool          `yaml:"seed_data" env:"SEED_DATA" env-default:"false"`
	LogQueries      bool          `yaml:"log_queries" env:"DATABASE_LOG_QUERIES" env-default:"false"`
}

// Auth holds token and session settings.
type Auth struct {
	SecretKey       string        `yaml:"secret_key" env:"SECRET_KEY" env-required:"true"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" env-default:"120h"`
	ConfirmationTTL time.Duration `yaml:"confirmation_ttl" env:"CONFIRMATION_TTL" env-default:"72h"`
	Issuer          string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"futurama-api"`
	SessionCacheTTL time.Duration `yaml:"session_cache_ttl" env:"SESSION_CACHE_TTL" env-default:"1m"`
}

// Redis holds the optional callback broker connection.
type Redis struct {
	URL      string `yaml:"url" env:"REDIS_URL"`
	QueueKey string `yaml:"queue_key" env:"REDIS_QUEUE_KEY" env-default:"futurama:callbacks"`
}

// Email holds SMTP credentials.
type Email struct {
	Host     string `yaml:"host" env:"EMAIL_HOST"`
	Port     int    `yaml:"port" env:"EMAIL_PORT" env-default:"587"`
	User     string `yaml:"user" env:"EMAIL_HOST_USER"`
	Password string `yaml:"password" env:"EMAIL_HOST_PASSWORD"`
	From     string `yaml:"from" env:"EMAIL_FROM" env-default:"no-reply@futuramaapi.com"`
	FromName string `yaml:"from_name" env:"EMAIL_FROM_NAME" env-default:"Futurama API"`
	UseTLS   bool   `yaml:"use_tls" env:"EMAIL_USE_TLS" env-default:"true"`
}

// Features holds feature flags.
type Features struct {
	EnableHTTPSRedirect bool `yaml:"enable_https_redirect" env:"ENABLE_HTTPS_REDIRECT" env-default:"false"`
	SendEmails          bool `yaml:"send_emails" env:"SEND_EMAILS" env-default:"false"`
	ActivateUsers       bool `yaml:"activate_users" env:"ACTIVATE_USERS" env-default:"false"`
	AllowRegistration   bool `yaml:"allow_registration" env:"ALLOW_REGISTRATION" env-default:"true"`
	AllowUserDeletion   bool `yaml:"allow_user_deletion" env:"ALLOW_USER_DELETION" env-default:"false"`
}

// Callbacks holds webhook delivery settings.
type Callbacks struct {
	Workers     int           `yaml:"workers" env:"CALLBACK_WORKERS" env-default:"4"`
	BufferSize  int           `yaml:"buffer_size" env:"CALLBACK_BUFFER_SIZE" env-default:"1000"`
	MinDelay    time.Duration `yaml:"min_delay" env:"CALLBACK_MIN_DELAY" env-default:"5s"`
	MaxDelay    time.Duration `yaml:"max_delay" env:"CALLBACK_MAX_DELAY" env-default:"10s"`
	SendTimeout time.Duration `yaml:"send_timeout" env:"CALLBACK_SEND_TIMEOUT" env-default:"10s"`
}

// Tracing holds OpenTelemetry exporter settings.
type Tracing struct {
	Enabled     bool   `yaml:"enabled" env:"TRACE_ENABLED" env-default:"false"`
	Endpoint    string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4317"`
	ServiceName string `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"futurama-api"`
}

// Links holds URL shortener settings.
type Links struct {
	CodeLength int `yaml:"code_length" env:"LINK_CODE_LENGTH" env-default:"6"`
}

// MustLoad loads the application configuration.
func MustLoad() *Config {
	// Try to load .env file (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yml"
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
	} else {
		log.Println("Config file not found, using environment variables only")
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err)
		}
	}

	if cfg.Callbacks.MaxDelay < cfg.Callbacks.MinDelay {
		log.Fatalf("invalid callback delays: max %s is less than min %s", cfg.Callbacks.MaxDelay, cfg.Callbacks.MinDelay)
	}

	return &cfg
}
