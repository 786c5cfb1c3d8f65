package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/travelsir/internal/logging"
	"github.com/aretw0/travelsir/pkg/config"
	"github.com/aretw0/travelsir/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from report output on Stdout).
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// ScenarioOptions selects the parameters a command works on.
type ScenarioOptions struct {
	// ConfigPath is a YAML or JSON scenario file; empty means the default scenario.
	ConfigPath string
	// Overrides are "key=value" assignments applied after loading.
	Overrides []string
}

// loadScenario reads the scenario and applies the overrides.
func loadScenario(opts ScenarioOptions) (config.Scenario, error) {
	sc, err := config.Load(opts.ConfigPath)
	if err != nil {
		if errors.Is(err, config.ErrInvalidScenario) {
			return sc, WrapExitError(ExitFailure, "invalid scenario", err)
		}
		return sc, WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	sc.Params, err = config.ApplyOverrides(sc.Params, opts.Overrides)
	if err != nil {
		return sc, WrapExitError(ExitCommandError, "invalid --set value", err)
	}
	return sc, nil
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// handleExecutionError maps run errors onto exit codes.
func handleExecutionError(err error) error {
	switch {
	case err == nil:
		return nil
	case isInterrupted(err):
		return nil // Exit 0 for interruptions
	case errors.Is(err, domain.ErrInvalidParameter):
		return WrapExitError(ExitFailure, "invalid parameters", err)
	case errors.Is(err, domain.ErrNumericAnomaly):
		return WrapExitError(ExitFailure, "run aborted", err)
	}
	return WrapExitError(ExitCommandError, "run failed", err)
}
