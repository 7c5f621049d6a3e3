package webclient

import "time"

type Client string

const (
	ClientNetHTTP Client = "nethttp"
)

// Config selects and tunes the outbound client backend.
type Config struct {
	Client Client

	// Timeout bounds a whole request including reading the body. Zero means 30s.
	Timeout time.Duration

	// UserAgent is sent on every request when set.
	UserAgent string
}

// DefaultConfig returns the net/http backend with a 30s timeout.
func DefaultConfig() Config {
	return Config{
		Client:    ClientNetHTTP,
		Timeout:   30 * time.Second,
		UserAgent: "paydash",
	}
}
