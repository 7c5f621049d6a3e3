package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// CLIArgs are the command-line arguments of the dashboard binary. Empty values mean
// "use the config file or environment".
type CLIArgs struct {
	// ConfigPath is an optional config file (yaml, json or toml).
	ConfigPath string

	// ListenAddr overrides the listen address.
	ListenAddr string

	// APIBase overrides the payments service base URL.
	APIBase string

	// LogLevel overrides the log level.
	LogLevel string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("paydash", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "Path to a config file")
		addr       = fs.String("addr", "", "HTTP listen address, e.g. :8080")
		apiBase    = fs.String("api-url", "", "Payments service base URL, e.g. http://localhost:8089/api/payments")
		logLevel   = fs.String("log-level", "", "Log level: debug|info|warn|error")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	return &CLIArgs{
		ConfigPath: strings.TrimSpace(*configPath),
		ListenAddr: strings.TrimSpace(*addr),
		APIBase:    strings.TrimSpace(*apiBase),
		LogLevel:   strings.TrimSpace(*logLevel),
		RawArgs:    args,
	}, nil
}

// DemoArgs are the command-line arguments of the stand-in payments service.
type DemoArgs struct {
	ListenAddr string
	DBPath     string
	Seed       int
}

// ParseDemoArgs parses the demoserver flags.
func ParseDemoArgs(args []string) (*DemoArgs, error) {
	fs := flag.NewFlagSet("demoserver", flag.ContinueOnError)
	var (
		addr   = fs.String("addr", ":8089", "HTTP listen address")
		dbPath = fs.String("db", "", "SQLite database path (empty for in-memory)")
		seed   = fs.Int("seed", 40, "Number of sample operations inserted into an empty store")
	)
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *seed < 0 {
		return nil, fmt.Errorf("-seed must not be negative")
	}
	return &DemoArgs{ListenAddr: *addr, DBPath: *dbPath, Seed: *seed}, nil
}
