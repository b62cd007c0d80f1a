package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Logger   Logger   `mapstructure:"logger"`
	Remote   Remote   `mapstructure:"remote"`
	Journal  Journal  `mapstructure:"journal"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Remote holds the configuration for the remote journal feed.
type Remote struct {
	BaseURL        string  `mapstructure:"base_url"`
	Enabled        bool    `mapstructure:"enabled"`
	SyncInterval   int     `mapstructure:"sync_interval"` // seconds between sync cycles
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Journal holds the display defaults seeded into the settings store.
type Journal struct {
	Currency     string `mapstructure:"currency"` // "GBP" or "USD"
	Timezone     string `mapstructure:"timezone"`
	DefaultMonth string `mapstructure:"default_month"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.dsn", "journal.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("remote.sync_interval", 300)
	viper.SetDefault("remote.rate_limit", 5) // requests per second
	viper.SetDefault("remote.rate_limit_burst", 2)
	viper.SetDefault("journal.currency", "GBP")
	viper.SetDefault("journal.timezone", "Europe/London")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
