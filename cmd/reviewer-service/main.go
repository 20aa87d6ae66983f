package main

import (
	"fmt"
	"os"

	"reviewer-service/internal/app"
	"reviewer-service/internal/config"
	"reviewer-service/internal/logger"

	"go.uber.org/zap"
)

func main() {
	bootLog, err := logger.NewLogger("reviewer-service", config.LoggerConfig{Level: "info", Encoding: "json"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		bootLog.Fatal("Failed to load config", zap.String("path", path), zap.Error(err))
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		bootLog.Fatal("Failed to initialize application", zap.Error(err))
	}

	if err := application.Run(); err != nil {
		bootLog.Fatal("Application stopped with error", zap.Error(err))
	}
}
