package app

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/raysh454/paydash/internal/cli"
	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/payments"
)

// Application is the global runtime state container.
// It holds config, parsed CLI args and the core services that are shared
// across modules (orchestrator, outbound components, logger). Pass Application
// into modules that need access to the global state rather than using
// package-level variables.
type Application struct {
	Config *Config
	Args   *cli.CLIArgs

	Logger     logging.Logger
	Components *Components
	Orch       *Orchestrator
}

// ApplyArgs copies non-empty CLI overrides onto cfg.
func (c *Config) ApplyArgs(args *cli.CLIArgs) {
	if args == nil {
		return
	}
	if args.ListenAddr != "" {
		c.ListenAddr = args.ListenAddr
	}
	if args.LogLevel != "" {
		c.LogLevel = args.LogLevel
	}
	if args.APIBase != "" {
		// derived bases follow the new API base
		c.Payments = payments.Config{APIBase: args.APIBase}.Normalize()
	}
}

// NewApplication loads configuration for args and builds the components and the
// orchestrator. A nil logger gets a JSON stdout logger at the configured level.
func NewApplication(args *cli.CLIArgs, logger logging.Logger) (*Application, error) {
	if args == nil {
		args = &cli.CLIArgs{}
	}
	cfg, err := LoadConfig(args.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyArgs(args)

	if logger == nil {
		logger = logging.NewJSONLogger(os.Stdout, "paydash", logging.ParseLevel(cfg.LogLevel))
	}

	comps, err := NewComponents(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:     cfg,
		Args:       args,
		Logger:     logger,
		Components: comps,
		Orch:       NewOrchestrator(cfg, comps.Payments, logger),
	}, nil
}

// Start logs the effective configuration. Serving is left to the caller.
func (a *Application) Start() error {
	if a == nil {
		return errors.New("application is nil")
	}
	a.Logger.Info("application starting",
		logging.Field{Key: "listen_addr", Value: a.Config.ListenAddr},
		logging.Field{Key: "api_base", Value: a.Config.Payments.APIBase},
		logging.Field{Key: "history_base", Value: a.Config.Payments.HistoryBase})
	return nil
}

// Shutdown stops the orchestrator and releases outbound connections.
func (a *Application) Shutdown(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	a.Logger.Info("application shutdown initiated")

	done := make(chan struct{})
	go func() {
		defer close(done)
		if a.Orch != nil {
			a.Orch.Close()
		}
	}()

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		a.Logger.Warn("orchestrator shutdown timed out", logging.Err(shutdownCtx.Err()))
	}

	return a.Components.Close()
}
