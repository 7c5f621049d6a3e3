package payments

import "strings"

const DefaultAPIBase = "http://localhost:8089/api/payments"

// Config holds the three base URLs of the payments service.
type Config struct {
	// APIBase serves /initiate and /to-mt101.
	APIBase string

	// HistoryBase serves /global, /validation and /transformation. Defaults to
	// APIBase + "/history".
	HistoryBase string

	// StatsBase serves /currencies. Defaults to APIBase + "/stats".
	StatsBase string
}

// DefaultConfig points at a payments service on localhost:8089.
func DefaultConfig() Config {
	return Config{APIBase: DefaultAPIBase}.Normalize()
}

// Normalize trims trailing slashes and derives missing bases from APIBase.
func (c Config) Normalize() Config {
	c.APIBase = strings.TrimRight(strings.TrimSpace(c.APIBase), "/")
	if c.APIBase == "" {
		c.APIBase = DefaultAPIBase
	}
	c.HistoryBase = strings.TrimRight(strings.TrimSpace(c.HistoryBase), "/")
	if c.HistoryBase == "" {
		c.HistoryBase = c.APIBase + "/history"
	}
	c.StatsBase = strings.TrimRight(strings.TrimSpace(c.StatsBase), "/")
	if c.StatsBase == "" {
		c.StatsBase = c.APIBase + "/stats"
	}
	return c
}
