package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "forensics.toml"

// Server contains HTTP listener settings.
type Server struct {
	Port           int      `toml:"port" validate:"min=1,max=65535"`
	AllowedOrigins []string `toml:"allowed_origins" validate:"dive,required"`
}

// Storage contains the indicator database location.
type Storage struct {
	DBPath string `toml:"db_path" validate:"required"`
}

// Breaker tunes the circuit breaker around the inference sidecar.
type Breaker struct {
	FailureThreshold   uint32 `toml:"failure_threshold" validate:"min=1"`
	OpenTimeoutSeconds int    `toml:"open_timeout_seconds" validate:"min=1"`
	HalfOpenRequests   uint32 `toml:"half_open_requests" validate:"min=1"`
}

// Inference contains the model sidecar connection settings.
type Inference struct {
	URL            string  `toml:"url" validate:"omitempty,url"`
	TimeoutSeconds int     `toml:"timeout_seconds" validate:"min=1,max=600"`
	Disabled       bool    `toml:"disabled"`
	Breaker        Breaker `toml:"breaker"`
}

// Link contains settings for the link fetcher.
type Link struct {
	FetchTimeoutSeconds int `toml:"fetch_timeout_seconds" validate:"min=1,max=120"`
}

// Video selects the video pipeline.
type Video struct {
	Strategy string `toml:"strategy" validate:"oneof=forensic fused"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level" validate:"oneof=trace debug info warn warning error"`
	Format string `toml:"format" validate:"oneof=text json"`
}

// Config encapsulates all configuration values for the forensics backend.
type Config struct {
	Server    Server    `toml:"server"`
	Storage   Storage   `toml:"storage"`
	Inference Inference `toml:"inference"`
	Link      Link      `toml:"link"`
	Video     Video     `toml:"video"`
	Logging   Logging   `toml:"logging"`
}

// Load builds the effective configuration: defaults, then the optional TOML file at path, then
// environment overrides. An explicit path must exist; an empty path falls back to
// DefaultConfigFile when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}
	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	path = strings.TrimSpace(path)
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return path, true, nil
	}

	info, err := os.Stat(DefaultConfigFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, nil
	}
	return DefaultConfigFile, true, nil
}

// Addr returns the listen address for the HTTP server.
func (s Server) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Timeout returns the per-request sidecar timeout.
func (i Inference) Timeout() time.Duration {
	return time.Duration(i.TimeoutSeconds) * time.Second
}

// OpenTimeout returns how long the breaker stays open before probing again.
func (b Breaker) OpenTimeout() time.Duration {
	return time.Duration(b.OpenTimeoutSeconds) * time.Second
}

// FetchTimeout returns the overall link fetch timeout.
func (l Link) FetchTimeout() time.Duration {
	return time.Duration(l.FetchTimeoutSeconds) * time.Second
}

// EnsureDirectories creates the directory holding the indicator database.
func (c *Config) EnsureDirectories() error {
	dir := filepath.Dir(c.Storage.DBPath)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory %q: %w", dir, err)
	}
	return nil
}
