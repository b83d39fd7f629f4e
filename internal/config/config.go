// Package config содержит логику чтения конфигурации терминала официанта.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress  = "localhost:8090"
	defaultAPIBaseURL  = "http://localhost:3333"
	defaultSessionFile = "santanapizzaria.json"
)

// Config содержит параметры конфигурации терминала официанта.
type Config struct {
	RunAddress           string `env:"RUN_ADDRESS"`
	APIBaseURL           string `env:"API_BASE_URL"`
	SessionFile          string `env:"SESSION_FILE"`
	StorageKey           string `env:"STORAGE_KEY"`
	DatabaseURI          string `env:"DATABASE_URI"`
	NotifyAMQPURL        string `env:"NOTIFY_AMQP_URL"`
	NotificationsEnabled bool   `env:"NOTIFICATIONS_ENABLED"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envCfg := *cfg
	_, envNotifications := os.LookupEnv("NOTIFICATIONS_ENABLED")

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for screen server")
	flag.StringVar(&cfg.APIBaseURL, "b", defaultAPIBaseURL, "remote order API base URL")
	flag.StringVar(&cfg.SessionFile, "s", defaultSessionFile, "session file path")
	flag.StringVar(&cfg.StorageKey, "k", "", "hex-encoded 32-byte key sealing the stored session")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI for session storage")
	flag.StringVar(&cfg.NotifyAMQPURL, "n", "", "AMQP broker URL for push notifications")
	flag.BoolVar(&cfg.NotificationsEnabled, "p", true, "allow push notifications")

	flag.Parse()

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	if envCfg.APIBaseURL != "" {
		cfg.APIBaseURL = envCfg.APIBaseURL
	}
	if envCfg.SessionFile != "" {
		cfg.SessionFile = envCfg.SessionFile
	}
	if envCfg.StorageKey != "" {
		cfg.StorageKey = envCfg.StorageKey
	}
	if envCfg.DatabaseURI != "" {
		cfg.DatabaseURI = envCfg.DatabaseURI
	}
	if envCfg.NotifyAMQPURL != "" {
		cfg.NotifyAMQPURL = envCfg.NotifyAMQPURL
	}
	if envNotifications {
		cfg.NotificationsEnabled = envCfg.NotificationsEnabled
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = defaultSessionFile
	}

	return cfg, nil
}
