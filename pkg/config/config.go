package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration
	DatabaseConnectRetryCount int
	DatabaseConnectRetryDelay time.Duration
	DatabaseDebug             bool
	DatabaseFilePath          string
	DatabaseMaxRetries        int
	Hostname                  string
	ServerHost                string
	ServerPort                int
}

const environmentENV = "ENVIRONMENT"

func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseMaxRetries:        5,
		Hostname:                  hostname,
		ServerPort:                6754,
	}

	switch os.Getenv(environmentENV) {
	case "development", "":
		loadDevelopmentConfig(cfg)
	case "test":
		loadTestConfig(cfg)
	case "production":
		loadProductionConfig(cfg)
	}

	return cfg, nil
}
