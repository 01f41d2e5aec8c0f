package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aliskhannn/korean-tutor-bot/internal/validate"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Progress storage backends.
const (
	BackendNone     = "none"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string      `mapstructure:"env" validate:"required"` // current application environment (local, dev, production etc)
	TelegramAPIToken string      `mapstructure:"-"`                       // Telegram API token loaded from environment
	Content          Content     `mapstructure:"content"`
	Storage          Storage     `mapstructure:"storage"`
	DB               DB          `mapstructure:"database"` // database configuration section
	Persistence      Persistence `mapstructure:"persistence"`
	Practice         Practice    `mapstructure:"practice"`
	Reminders        Reminders   `mapstructure:"reminders"`
}

// Content points to the read-only learning content.
type Content struct {
	VocabularyPath string `mapstructure:"vocabulary_path" validate:"required"`
	GrammarPath    string `mapstructure:"grammar_path"`
}

// Storage selects where learner progress is kept.
type Storage struct {
	Backend string `mapstructure:"backend" validate:"oneof=none file sqlite postgres"`
	// Dir holds one progress file per user for the file backend.
	Dir string `mapstructure:"dir" validate:"required_if=Backend file"`
	// SQLitePath is the database file of the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Backend sqlite"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                                // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections" validate:"min=1"` // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`                // maximum lifetime of a single connection
}

// Persistence sizes the background save queue.
type Persistence struct {
	QueueSize int           `mapstructure:"queue_size" validate:"min=1"`
	Workers   int           `mapstructure:"workers" validate:"min=1"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Practice sizes practice sessions.
type Practice struct {
	MinSessionSize    int `mapstructure:"min_session_size" validate:"min=1"`
	RandomSessionSize int `mapstructure:"random_session_size" validate:"min=1"`
}

// Reminders configures the review reminder job.
type Reminders struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"` // cron spec, evaluated in UTC
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// RequireTelegramToken fails when the bot token is not configured.
func (c *Config) RequireTelegramToken() error {
	if c.TelegramAPIToken == "" {
		return fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}
	return nil
}

// Load reads configuration from ./config and environment variables.
func Load() (*Config, error) {
	return LoadFrom("./config")
}

// LoadFrom reads config.yaml from the given directories, in order, and
// applies environment overrides.
func LoadFrom(paths ...string) (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("content.vocabulary_path", "content/vocabulary.json")
	v.SetDefault("content.grammar_path", "content/grammar.json")
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.dir", "data/progress")
	v.SetDefault("storage.sqlite_path", "data/tutor.db")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("persistence.queue_size", 256)
	v.SetDefault("persistence.workers", 2)
	v.SetDefault("persistence.timeout", "30s")
	v.SetDefault("practice.min_session_size", 10)
	v.SetDefault("practice.random_session_size", 20)
	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.schedule", "0 * * * *")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	if err := validate.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Storage.Backend == BackendPostgres && cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	return &cfg, nil
}
