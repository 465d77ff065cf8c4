package config

import (
	"os"
	"strconv"
)

func loadProductionConfig(cfg *Config) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err == nil {
		cfg.ServerPort = port
	}

	cfg.DatabaseFilePath = "/data/booklet.sqlite"
	if path := os.Getenv("DATABASE_FILE_PATH"); path != "" {
		cfg.DatabaseFilePath = path
	}
	cfg.ServerHost = "0.0.0.0"
}
