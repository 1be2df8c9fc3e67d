// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Data   DataConfig   `mapstructure:"data"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// DataConfig selects and configures the table source.
type DataConfig struct {
	// Source is "csv" or "postgres".
	Source string `mapstructure:"source"`
	// Dir is the dataset directory for the CSV source.
	Dir string `mapstructure:"dir"`
	// Postgres configures the database source.
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
}

// DSN returns the connection string for the configured database.
func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig loads configuration from config.yaml and environment
// variables. A missing config file is fine; defaults and the environment
// cover everything.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("$HOME/.insights/")
	v.AddConfigPath("/etc/insights/")

	v.SetEnvPrefix("INSIGHTS")
	v.AutomaticEnv()

	v.SetDefault("data.source", "csv")
	v.SetDefault("data.dir", "./data")
	v.SetDefault("data.postgres.host", "localhost")
	v.SetDefault("data.postgres.port", 5432)
	v.SetDefault("data.postgres.sslmode", "disable")
	v.SetDefault("data.postgres.max_open_conns", 10)
	v.SetDefault("data.postgres.max_idle_conns", 5)
	v.SetDefault("data.postgres.conn_max_lifetime", 10*time.Minute)
	v.SetDefault("data.postgres.query_timeout", 60*time.Second)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate ensures all required configuration is present and valid.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case "csv":
		if c.Data.Dir == "" {
			return errors.New("data.dir is required for the csv source")
		}
	case "postgres":
		if c.Data.Postgres.User == "" {
			return errors.New("data.postgres.user is required for the postgres source")
		}
		if c.Data.Postgres.Database == "" {
			return errors.New("data.postgres.database is required for the postgres source")
		}
	default:
		return fmt.Errorf("unknown data source %q (want csv or postgres)", c.Data.Source)
	}

	if c.Server.Addr == "" {
		return errors.New("server.addr cannot be empty")
	}

	return nil
}
