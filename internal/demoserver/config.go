package demoserver

import "github.com/raysh454/paydash/internal/logging"

// Config holds configuration for the demo payments service.
type Config struct {
	// ListenAddr is the address the demo service listens on.
	ListenAddr string

	// DBPath is the SQLite file holding the operation log. Empty keeps it in memory.
	DBPath string

	// Seed is how many sample operations to insert into an empty log.
	Seed int

	Logger logging.Logger
}

// DefaultConfig returns a Config matching the dashboard's default API base.
func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8089",
		Seed:       40,
	}
}
