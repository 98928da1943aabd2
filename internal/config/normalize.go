package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func (c *Config) applyEnv() error {
	if value, ok := lookup("PORT"); ok {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if value, ok := lookup("FORENSICS_DB_PATH"); ok {
		c.Storage.DBPath = value
	}
	if value, ok := lookup("INFERENCE_URL"); ok {
		c.Inference.URL = value
	}
	if value, ok := lookup("INFERENCE_TIMEOUT"); ok {
		seconds, err := parseSeconds(value)
		if err != nil {
			return fmt.Errorf("INFERENCE_TIMEOUT: %w", err)
		}
		c.Inference.TimeoutSeconds = seconds
	}
	if value, ok := lookup("DISABLE_INFERENCE"); ok {
		disabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("DISABLE_INFERENCE: %w", err)
		}
		c.Inference.Disabled = disabled
	}
	if value, ok := lookup("LINK_FETCH_TIMEOUT"); ok {
		seconds, err := parseSeconds(value)
		if err != nil {
			return fmt.Errorf("LINK_FETCH_TIMEOUT: %w", err)
		}
		c.Link.FetchTimeoutSeconds = seconds
	}
	if value, ok := lookup("VIDEO_STRATEGY"); ok {
		c.Video.Strategy = value
	}
	if value, ok := lookup("LOG_LEVEL"); ok {
		c.Logging.Level = value
	}
	if value, ok := lookup("LOG_FORMAT"); ok {
		c.Logging.Format = value
	}
	return nil
}

func (c *Config) normalize() {
	c.Storage.DBPath = strings.TrimSpace(c.Storage.DBPath)
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = defaultDBPath
	}
	c.Inference.URL = strings.TrimRight(strings.TrimSpace(c.Inference.URL), "/")

	origins := c.Server.AllowedOrigins[:0]
	for _, origin := range c.Server.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.Server.AllowedOrigins = origins

	c.Video.Strategy = strings.ToLower(strings.TrimSpace(c.Video.Strategy))
	if c.Video.Strategy == "" {
		c.Video.Strategy = defaultVideoStrategy
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}

func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// parseSeconds accepts either whole seconds ("45") or a Go duration ("1m30s").
func parseSeconds(value string) (int, error) {
	if seconds, err := strconv.Atoi(value); err == nil {
		return seconds, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	return int(d.Round(time.Second) / time.Second), nil
}
