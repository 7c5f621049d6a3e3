// Command paydash serves the payment operations dashboard in front of a payments
// service.
// Usage: go run . [-config paydash.yaml] [-addr :8080] [-api-url http://host/api/payments] [-log-level info]
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raysh454/paydash/internal/app"
	"github.com/raysh454/paydash/internal/cli"
	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/server"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "paydash:", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	args, err := cli.ParseArgs(argv)
	if err != nil {
		return err
	}

	application, err := app.NewApplication(args, nil)
	if err != nil {
		return err
	}
	if err := application.Start(); err != nil {
		return err
	}

	srv := server.NewServer(server.Config{
		ListenAddr:     application.Config.ListenAddr,
		AllowedOrigins: application.Config.AllowedOrigins,
		Logger:         application.Logger.With(logging.Field{Key: "component", Value: "server"}),
	}, application.Orch)
	httpSrv := srv.HTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		application.Logger.Info("dashboard listening", logging.Field{Key: "addr", Value: httpSrv.Addr})
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Close sessions first so open WebSocket streams end.
		srv.Close()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			application.Logger.Warn("http shutdown", logging.Err(err))
		}
		return application.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
