package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Storage struct {
		Driver string
		Path   string
	}
	Log struct {
		Level string
		File  string
	}
}

// Load reads configuration from environment variables and optional config files.
// BANK_STORAGE_DRIVER, BANK_STORAGE_PATH, BANK_LOG_LEVEL and BANK_LOG_FILE
// override the file values.
func Load() (Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	v.SetEnvPrefix("BANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage.driver", DriverJSON)
	v.SetDefault("storage.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "bank.log")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	switch cfg.Storage.Driver {
	case DriverJSON:
		if cfg.Storage.Path == "" {
			cfg.Storage.Path = "account.json"
		}
	case DriverSQLite:
		if cfg.Storage.Path == "" {
			cfg.Storage.Path = "account.db"
		}
	default:
		return Config{}, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	return cfg, nil
}

// loadDotEnv exports the keys of a dotenv file without overriding variables
// that are already set. A missing or unparsable file is ignored.
func loadDotEnv(path string) {
	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return
	}

	for _, key := range env.AllKeys() {
		name := strings.ToUpper(key)
		if _, exists := os.LookupEnv(name); !exists {
			_ = os.Setenv(name, env.GetString(key))
		}
	}
}
