package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpAdapter "github.com/aretw0/travelsir/internal/adapters/http"
	"github.com/aretw0/travelsir/internal/logging"
)

// shutdownTimeout gives outstanding requests a deadline for completion.
const shutdownTimeout = 5 * time.Second

// ServeOptions holds the flags of the serve command.
type ServeOptions struct {
	Addr     string
	Check    bool
	MaxWeeks int
	LogLevel string
	JSONLogs bool
}

// Serve runs the HTTP API until ctx is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	logger := logging.NewWriter(os.Stderr, logging.ParseLevel(opts.LogLevel), opts.JSONLogs)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	serverOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(logger),
		httpAdapter.WithRegistry(reg),
		httpAdapter.WithAnomalyCheck(opts.Check),
	}
	if opts.MaxWeeks > 0 {
		serverOpts = append(serverOpts, httpAdapter.WithMaxWeeks(opts.MaxWeeks))
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           httpAdapter.NewHandler(serverOpts...),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return listenAndShutdown(ctx, srv, logger)
}

// listenAndShutdown serves until ctx ends, then shuts srv down gracefully.
func listenAndShutdown(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting travelsir server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return WrapExitError(ExitCommandError, "server error", err)

	case <-ctx.Done():
		logger.Info("Start shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return WrapExitError(ExitCommandError, "failed to stop server", err)
			}
		}
		logger.Info("travelsir server stopped gracefully")
		return nil
	}
}
