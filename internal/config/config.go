package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Relay    RelayConfig    `mapstructure:"relay"`
	Feedback FeedbackConfig `mapstructure:"feedback"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// RelayConfig controls the in-memory P2P file relay.
type RelayConfig struct {
	// MaxFileSize is the largest accepted upload payload in bytes.
	MaxFileSize int64 `mapstructure:"max_file_size"`
	// RequestTTL bounds how long a transfer request may stay unresolved
	// before it is auto-expired. Zero disables expiry.
	RequestTTL time.Duration `mapstructure:"request_ttl"`
}

// FeedbackConfig controls the shared mess-feedback counters.
type FeedbackConfig struct {
	// DailyQuota is the number of submissions allowed per identity per day.
	DailyQuota int `mapstructure:"daily_quota"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// --- Environment Variable Handling ---
	viper.AutomaticEnv()
	// Use replacer for nested keys e.g., server.address -> SERVER_ADDRESS,
	// relay.request_ttl -> RELAY_REQUEST_TTL
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// --- Set default values ---
	viper.SetDefault("server.address", ":5000")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "hostelhub")
	viper.SetDefault("jwt.expiration", "24h")
	viper.SetDefault("relay.max_file_size", 10*1024*1024) // 10 MiB
	viper.SetDefault("relay.request_ttl", "2m")
	viper.SetDefault("feedback.daily_quota", 3)

	// --- Read Config File ---
	err = viper.ReadInConfig()
	// If config file not found, continue (might rely solely on env vars).
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	// --- Unmarshal Config ---
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
