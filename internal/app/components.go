package app

import (
	"fmt"

	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/payments"
	"github.com/raysh454/paydash/internal/webclient"
)

// Components are the outbound dependencies built from a Config.
type Components struct {
	WebClient webclient.WebClient
	Payments  *payments.Client
}

// NewComponents builds the configured webclient backend and the payments client on top of it.
func NewComponents(cfg *Config, logger logging.Logger) (*Components, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	wc, err := webclient.NewWebClient(cfg.WebClient, logger)
	if err != nil {
		return nil, fmt.Errorf("new webclient: %w", err)
	}

	return &Components{
		WebClient: wc,
		Payments:  payments.NewClient(cfg.Payments, wc, logger),
	}, nil
}

// Close releases idle outbound connections.
func (c *Components) Close() error {
	if c == nil || c.WebClient == nil {
		return nil
	}
	if err := c.WebClient.Close(); err != nil {
		return fmt.Errorf("close webclient: %w", err)
	}
	return nil
}
