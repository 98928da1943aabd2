package app

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"media-forensics/backend/internal/analysis"
	"media-forensics/backend/internal/api"
	"media-forensics/backend/internal/config"
	"media-forensics/backend/internal/fetch"
	"media-forensics/backend/internal/indicators"
	"media-forensics/backend/internal/inference"
	"media-forensics/backend/internal/store"
)

// App holds the long-lived collaborators shared by the HTTP server and the CLI.
type App struct {
	Config     *config.Config
	DB         *store.Database
	Indicators *indicators.Service
	Analyzer   *analysis.Analyzer
}

// New opens the indicator store and builds the analyzers described by cfg.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	strategy, err := analysis.ParseStrategy(cfg.Video.Strategy)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.Storage.DBPath, cfg.Logging.Level != "debug" && cfg.Logging.Level != "trace")
	if err != nil {
		return nil, err
	}

	svc := indicators.NewService(db)
	count, err := svc.Load()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load indicators: %w", err)
	}
	logrus.WithField("stored_indicators", count).Info("indicator snapshot loaded")

	backend, err := inference.NewBackend(
		inference.Config{
			BaseURL: cfg.Inference.URL,
			Timeout: cfg.Inference.Timeout(),
		},
		inference.BreakerConfig{
			FailureThreshold: cfg.Inference.Breaker.FailureThreshold,
			OpenTimeout:      cfg.Inference.Breaker.OpenTimeout(),
			HalfOpenRequests: cfg.Inference.Breaker.HalfOpenRequests,
		},
		cfg.Inference.Disabled,
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("inference backend: %w", err)
	}

	fetcher := fetch.NewClient(fetch.Config{Timeout: cfg.Link.FetchTimeout()})
	analyzer := analysis.New(backend, fetcher, svc, analysis.Options{VideoStrategy: strategy})
	if strategy == analysis.StrategyFused && !backend.Enabled() {
		logrus.Warn("fused video strategy configured without an action classifier, using forensic scoring")
	}

	return &App{
		Config:     cfg,
		DB:         db,
		Indicators: svc,
		Analyzer:   analyzer,
	}, nil
}

// Router builds the HTTP router for the API server.
func (a *App) Router() (*gin.Engine, error) {
	server, err := api.NewServer(api.Config{
		Analyzer:       a.Analyzer,
		Indicators:     a.Indicators,
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		FetchTimeout:   a.Config.Link.FetchTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("create server: %w", err)
	}
	return server.Router()
}

// Serve runs the HTTP server until it exits.
func (a *App) Serve() error {
	router, err := a.Router()
	if err != nil {
		return err
	}
	addr := a.Config.Server.Addr()
	logrus.WithFields(logrus.Fields{
		"addr":              addr,
		"video_strategy":    a.Analyzer.Options().VideoStrategy,
		"inference_enabled": a.Analyzer.InferenceEnabled(),
	}).Info("starting media-forensics backend")
	return router.Run(addr)
}

// Close releases the indicator store.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
