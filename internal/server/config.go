package server

import (
	"time"

	"github.com/raysh454/paydash/internal/logging"
)

type Config struct {
	// ListenAddr is the HTTP listen address of the dashboard.
	ListenAddr string

	// AllowedOrigins feeds the CORS policy of the JSON API.
	AllowedOrigins []string

	// ReadTimeout bounds reading one request. WriteTimeout stays 0 so the
	// websocket stream is not cut.
	ReadTimeout time.Duration

	// SecureCookies marks the session cookie Secure, for HTTPS deployments.
	SecureCookies bool

	Logger logging.Logger
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:     ":8080",
		AllowedOrigins: []string{"*"},
		ReadTimeout:    15 * time.Second,
	}
}
