package config

import "path/filepath"

const (
	defaultPort               = 2000
	defaultInferenceTimeout   = 60
	defaultBreakerFailures    = 5
	defaultBreakerOpenSeconds = 30
	defaultBreakerHalfOpen    = 1
	defaultLinkFetchTimeout   = 6
	defaultVideoStrategy      = "forensic"
	defaultLogLevel           = "info"
	defaultLogFormat          = "text"
)

var defaultDBPath = filepath.Join("data", "forensics.db")

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Server: Server{
			Port: defaultPort,
			AllowedOrigins: []string{
				"http://localhost:1000",
				"http://127.0.0.1:1000",
			},
		},
		Storage: Storage{DBPath: defaultDBPath},
		Inference: Inference{
			TimeoutSeconds: defaultInferenceTimeout,
			Breaker: Breaker{
				FailureThreshold:   defaultBreakerFailures,
				OpenTimeoutSeconds: defaultBreakerOpenSeconds,
				HalfOpenRequests:   defaultBreakerHalfOpen,
			},
		},
		Link:    Link{FetchTimeoutSeconds: defaultLinkFetchTimeout},
		Video:   Video{Strategy: defaultVideoStrategy},
		Logging: Logging{Level: defaultLogLevel, Format: defaultLogFormat},
	}
}
