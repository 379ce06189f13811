package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Storage drivers understood by the persistence layer.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
	StorageDriverMemory   = "memory"
)

// AI providers understood by the classifier factory.
const (
	AIProviderOpenAI = "openai"
	AIProviderStatic = "static"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	SQLite   SQLiteConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	AI       AIConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	MaxListLimit          int
}

// StorageConfig selects the ticket/user store.
type StorageConfig struct {
	Driver        string
	RunMigrations bool
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// SQLiteConfig holds the local database file location.
type SQLiteConfig struct {
	Path string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr             string
	Password         string
	DB               int
	EventsChannel    string
	PublishTimeoutMS int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// AIConfig configures the classification provider.
type AIConfig struct {
	Provider       string
	APIKey         string
	Model          string
	BaseURL        string
	Temperature    float32
	TimeoutSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
// Values missing from the environment fall back to the YAML file named by
// APP_CONFIG_FILE, then to built-in defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	src := source{file: map[string]string{}}
	if path := os.Getenv("APP_CONFIG_FILE"); path != "" {
		file, err := readFile(path)
		if err != nil {
			return nil, err
		}
		src.file = file
	}

	redisDB, err := strconv.Atoi(src.get("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	temperature, err := strconv.ParseFloat(src.get("AI_TEMPERATURE", "0.3"), 32)
	if err != nil {
		return nil, fmt.Errorf("invalid AI_TEMPERATURE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  src.get("APP_NAME", "ticket-classifier"),
			Env:                   src.get("APP_ENV", "development"),
			Host:                  src.get("APP_HOST", "0.0.0.0"),
			Port:                  src.get("APP_PORT", "8080"),
			Version:               src.get("APP_VERSION", "dev"),
			RequestTimeoutSeconds: src.getInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			MaxListLimit:          src.getInt("TICKETS_MAX_LIST_LIMIT", 500),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(src.get("STORAGE_DRIVER", StorageDriverPostgres)),
			RunMigrations: src.getBool("STORAGE_RUN_MIGRATIONS", true),
		},
		Postgres: PostgresConfig{
			DSN:            src.get("POSTGRES_DSN", ""),
			MaxConns:       int32(src.getInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(src.getInt("POSTGRES_MIN_CONNS", 2)),
			ConnMaxIdleSec: int32(src.getInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(src.getInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		SQLite: SQLiteConfig{
			Path: src.get("SQLITE_PATH", "data/tickets.db"),
		},
		Redis: RedisConfig{
			Addr:             src.get("REDIS_ADDR", "127.0.0.1:6379"),
			Password:         src.get("REDIS_PASSWORD", ""),
			DB:               redisDB,
			EventsChannel:    src.get("REDIS_EVENTS_CHANNEL", "ticket-events"),
			PublishTimeoutMS: src.getInt("REDIS_PUBLISH_TIMEOUT_MS", 200),
		},
		Logger: LoggerConfig{
			Level:      src.get("LOG_LEVEL", "info"),
			File:       src.get("LOG_FILE", ""),
			MaxSizeMB:  src.getInt("LOG_FILE_MAX_SIZE_MB", 100),
			MaxBackups: src.getInt("LOG_FILE_MAX_BACKUPS", 5),
			MaxAgeDays: src.getInt("LOG_FILE_MAX_AGE_DAYS", 28),
		},
		Auth: AuthConfig{
			JWTSecret:             src.get("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: src.getInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            src.getInt("AUTH_BCRYPT_COST", 12),
		},
		AI: AIConfig{
			Provider:       strings.ToLower(src.get("AI_PROVIDER", AIProviderOpenAI)),
			APIKey:         src.get("OPENAI_API_KEY", ""),
			Model:          src.get("AI_MODEL", "gpt-4o-mini"),
			BaseURL:        src.get("AI_BASE_URL", ""),
			Temperature:    float32(temperature),
			TimeoutSeconds: src.getInt("AI_TIMEOUT_SECONDS", 20),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverSQLite, StorageDriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	switch c.AI.Provider {
	case AIProviderOpenAI, AIProviderStatic:
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q", c.AI.Provider)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout bounds a single provider call. Zero disables the bound.
func (a AIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// PublishTimeout bounds a single event publish. Non-positive values mean 200ms.
func (r RedisConfig) PublishTimeout() time.Duration {
	if r.PublishTimeoutMS <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(r.PublishTimeoutMS) * time.Millisecond
}

// readFile loads a flat YAML mapping of environment keys to values.
func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return values, nil
}

type source struct {
	file map[string]string
}

func (s source) get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if val, ok := s.file[key]; ok && val != "" {
		return val
	}
	return fallback
}

func (s source) getInt(key string, fallback int) int {
	val := s.get(key, "")
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func (s source) getBool(key string, fallback bool) bool {
	val := s.get(key, "")
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
