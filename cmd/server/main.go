package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"media-forensics/backend/internal/app"
	"media-forensics/backend/internal/config"
)

func main() {
	cfg, err := config.Load(os.Getenv("FORENSICS_CONFIG"))
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if err := cfg.Logging.Apply(); err != nil {
		logrus.Fatalf("configure logging: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		logrus.Fatalf("initialize: %v", err)
	}
	defer application.Close()

	if err := application.Serve(); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
