package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Session     SessionConfig
	OAuth       OAuthConfig
	Upload      UploadConfig
	Journal     JournalConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
}

type HTTPConfig struct {
	Host          string
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	AllowedOrigin string
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// SessionConfig governs credential issuance. Secret has no default: its
// absence is a fatal configuration error surfaced by Load.
type SessionConfig struct {
	Secret   string
	Issuer   string
	Lifetime time.Duration
	StateTTL time.Duration
}

type OAuthConfig struct {
	Google ProviderCredentials
	GitHub ProviderCredentials
}

type ProviderCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type UploadConfig struct {
	MaxBytes    int64
	StorageRoot string
	URLPrefix   string
}

type JournalConfig struct {
	Path          string
	Retention     time.Duration
	SweepSchedule string
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

// ErrMissingSecret is returned when no signing secret is configured. The
// process must refuse to start rather than issue unverifiable credentials.
var ErrMissingSecret = errors.New("config: JWT_SECRET is required")

// Load reads configuration from environment variables (optionally .env)
// and applies documented defaults for everything except the signing secret.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "plataforma-freelancer"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:          getString("SERVER_HOST", "0.0.0.0"),
			Port:          getString("SERVER_PORT", "8080"),
			ReadTimeout:   getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:  getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:   getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			AllowedOrigin: getString("ALLOWED_ORIGIN", "*"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "freelancer_db"),
			User:            getString("DB_USER", "freelancer_user"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			Issuer:   getString("JWT_ISSUER", "plataforma-freelancer"),
			Lifetime: getDuration("SESSION_TTL", 72*time.Hour),
			StateTTL: getDuration("LOGIN_STATE_TTL", 10*time.Minute),
		},
		OAuth: OAuthConfig{
			Google: ProviderCredentials{
				ClientID:     os.Getenv("OAUTH_GOOGLE_CLIENT_ID"),
				ClientSecret: os.Getenv("OAUTH_GOOGLE_CLIENT_SECRET"),
				RedirectURL:  os.Getenv("OAUTH_GOOGLE_REDIRECT_URL"),
			},
			GitHub: ProviderCredentials{
				ClientID:     os.Getenv("OAUTH_GITHUB_CLIENT_ID"),
				ClientSecret: os.Getenv("OAUTH_GITHUB_CLIENT_SECRET"),
				RedirectURL:  os.Getenv("OAUTH_GITHUB_REDIRECT_URL"),
			},
		},
		Upload: UploadConfig{
			MaxBytes:    getInt64("MAX_UPLOAD_BYTES", 5<<20),
			StorageRoot: getString("STORAGE_ROOT", "./data/assets"),
			URLPrefix:   getString("ASSET_URL_PREFIX", "/assets"),
		},
		Journal: JournalConfig{
			Path:          getString("JOURNAL_PATH", "./data/divergences.db"),
			Retention:     getDuration("JOURNAL_RETENTION", 720*time.Hour),
			SweepSchedule: getString("JOURNAL_SWEEP_SCHEDULE", "@daily"),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 10*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
	}

	if cfg.Session.Secret == "" {
		return nil, ErrMissingSecret
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
