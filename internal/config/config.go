package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Storage modes for the persistence adapter.
const (
	StorageDatabase = "database"
	StorageLocal    = "local"
)

type Config struct {
	HTTPAddr       string `yaml:"http_addr"`
	GinMode        string `yaml:"gin_mode"`
	LogLevel       string `yaml:"log_level"`
	SessionSecret  string `yaml:"session_secret"`
	StorageMode    string `yaml:"storage_mode"`
	LocalStorePath string `yaml:"local_store_path"`
	DBDriver       string `yaml:"db_driver"`
	DBHost         string `yaml:"db_host"`
	DBPort         string `yaml:"db_port"`
	DBUser         string `yaml:"db_user"`
	DBPassword     string `yaml:"db_password"`
	DBName         string `yaml:"db_name"`
}

// Load builds the configuration from defaults, then an optional YAML file
// (FLOWDESK_CONFIG), then environment variables. Later sources win.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:       ":8080",
		GinMode:        "debug",
		LogLevel:       "info",
		SessionSecret:  "default-secret-key-change-me",
		StorageMode:    StorageDatabase,
		LocalStorePath: "flowdesk.db",
		DBDriver:       "mysql",
		DBHost:         "localhost",
		DBPort:         "3306",
		DBUser:         "flowdesk",
		DBPassword:     "flowdesk",
		DBName:         "flowdesk",
	}

	if path := os.Getenv("FLOWDESK_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(&cfg.HTTPAddr, "HTTP_ADDR")
	applyEnv(&cfg.GinMode, "GIN_MODE")
	applyEnv(&cfg.LogLevel, "LOG_LEVEL")
	applyEnv(&cfg.SessionSecret, "SESSION_SECRET")
	applyEnv(&cfg.StorageMode, "STORAGE_MODE")
	applyEnv(&cfg.LocalStorePath, "LOCAL_STORE_PATH")
	applyEnv(&cfg.DBDriver, "DB_DRIVER")
	applyEnv(&cfg.DBHost, "DB_HOST")
	applyEnv(&cfg.DBPort, "DB_PORT")
	applyEnv(&cfg.DBUser, "DB_USER")
	applyEnv(&cfg.DBPassword, "DB_PASSWORD")
	applyEnv(&cfg.DBName, "DB_NAME")

	if cfg.StorageMode != StorageDatabase && cfg.StorageMode != StorageLocal {
		return nil, fmt.Errorf("unknown storage mode %q", cfg.StorageMode)
	}
	return cfg, nil
}

func applyEnv(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}
