// Command demoserver starts a stand-in payments service for the dashboard.
// Usage: go run ./cmd/demoserver [-addr :8089] [-db payments.db] [-seed 40]
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

	"github.com/raysh454/paydash/internal/cli"
	"github.com/raysh454/paydash/internal/demoserver"
	"github.com/raysh454/paydash/internal/logging"
)

func main() {
	args, err := cli.ParseDemoArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "demoserver:", err)
		os.Exit(2)
	}

	logger := logging.NewJSONLogger(os.Stdout, "demoserver", logging.LevelInfo)
	ds, err := demoserver.NewDemoServer(demoserver.Config{
		ListenAddr: args.ListenAddr,
		DBPath:     args.DBPath,
		Seed:       args.Seed,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to start demo server", logging.Err(err))
		os.Exit(1)
	}
	defer ds.Close()

	httpSrv := ds.HTTPServer()
	go func() {
		logger.Info("payments stand-in listening",
			logging.Field{Key: "addr", Value: httpSrv.Addr},
			logging.Field{Key: "api_base", Value: "/api/payments"})
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", logging.Err(err))
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", logging.Err(err))
	}
}
