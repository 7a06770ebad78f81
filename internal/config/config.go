package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Application environments.
const (
	EnvLocal      = "local"
	EnvDev        = "dev"
	EnvProduction = "production"
)

// Snapshot drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"` // current application environment (local, dev, production etc)
	TelegramAPIToken string   `mapstructure:"-"`   // Telegram API token loaded from environment
	API              API      `mapstructure:"api"`
	Snapshot         Snapshot `mapstructure:"snapshot"`
	DB               DB       `mapstructure:"database"`
	Quiz             Quiz     `mapstructure:"quiz"`
	Forum            Forum    `mapstructure:"forum"`
	Refresh          Refresh  `mapstructure:"refresh"`
	Workers          Workers  `mapstructure:"workers"`
}

// API describes the remote platform API.
type API struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Snapshot selects the local snapshot backend.
type Snapshot struct {
	Driver string `mapstructure:"driver"` // sqlite, postgres or memory
	Path   string `mapstructure:"path"`   // sqlite database file
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Quiz holds word quiz parameters.
type Quiz struct {
	BatchSize int      `mapstructure:"batch_size"` // words fetched per round
	Modules   []string `mapstructure:"modules"`    // catalog offered on the selection screen
}

type Forum struct {
	PersistQuote bool `mapstructure:"persist_quote"` // also PUT the quote to the backend on save
}

type Refresh struct {
	QuoteSchedule string `mapstructure:"quote_schedule"` // cron expression, empty disables
}

type Workers struct {
	Count int `mapstructure:"count"`
	Queue int `mapstructure:"queue"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine, real environment wins anyway.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("api.base_url", "API_BASE_URL")
	_ = v.BindEnv("snapshot.driver", "SNAPSHOT_DRIVER")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvLocal)
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("snapshot.driver", DriverSQLite)
	v.SetDefault("snapshot.path", "data/snapshot.db")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("quiz.batch_size", 20)
	v.SetDefault("quiz.modules", []string{"考研词汇", "雅思词汇"})
	v.SetDefault("forum.persist_quote", false)
	v.SetDefault("refresh.quote_schedule", "0 6 * * *")
	v.SetDefault("workers.count", 4)
	v.SetDefault("workers.queue", 64)
}

// decode unmarshals viper state into Config and checks driver-specific requirements.
func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	switch cfg.Snapshot.Driver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		cfg.DB.URL = v.GetString("database_url")
		if cfg.DB.URL == "" {
			return nil, ErrMissingEnvironmentVariables
		}
	default:
		return nil, fmt.Errorf("unknown snapshot driver: %s", cfg.Snapshot.Driver)
	}

	return &cfg, nil
}
