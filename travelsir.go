package travelsir

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/travelsir/internal/runtime"
	"github.com/aretw0/travelsir/pkg/domain"
)

// Simulator is the high-level entry point for the travelsir library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Simulator struct {
	runtime     *runtime.Engine
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	runtimeOpts []runtime.EngineOption
}

// Option defines a functional option for configuring the Simulator.
type Option func(*Simulator)

// WithLifecycleHooks registers observability hooks. OnStep doubles as a
// streaming per-step callback.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulator) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the simulator.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithAnomalyCheck enables the conservation and clamp checks.
// Anomalies are collected on the result; a non-positive tolerance selects
// the default relative tolerance.
func WithAnomalyCheck(tolerance float64) Option {
	return func(s *Simulator) {
		s.runtimeOpts = append(s.runtimeOpts, runtime.WithAnomalyCheck(tolerance))
	}
}

// WithClampEpsilon sets the clamp adjustment above which an anomaly is recorded.
func WithClampEpsilon(eps float64) Option {
	return func(s *Simulator) {
		s.runtimeOpts = append(s.runtimeOpts, runtime.WithClampEpsilon(eps))
	}
}

// WithStrict makes the first anomaly abort the run.
func WithStrict(strict bool) Option {
	return func(s *Simulator) {
		s.runtimeOpts = append(s.runtimeOpts, runtime.WithStrict(strict))
	}
}

// New initializes a new Simulator.
func New(opts ...Option) *Simulator {
	sim := &Simulator{}
	for _, opt := range opts {
		opt(sim)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if sim.logger == nil {
		sim.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(sim.hooks),
		runtime.WithLogger(sim.logger),
	}
	runtimeOpts = append(runtimeOpts, sim.runtimeOpts...)
	sim.runtime = runtime.NewEngine(runtimeOpts...)

	return sim
}

// Run produces the full time series of all twelve compartments.
func (s *Simulator) Run(ctx context.Context, p domain.Params) (*domain.Result, error) {
	return s.runtime.Run(ctx, p)
}

// Validate checks the parameters without running anything.
func (s *Simulator) Validate(p domain.Params) error {
	return runtime.Validate(p)
}

// Initialize returns the step-0 state for p.
func (s *Simulator) Initialize(p domain.Params) (domain.Snapshot, error) {
	return runtime.Initialize(p)
}

// Step advances prev by one time step without running a full horizon.
// p must be valid.
func (s *Simulator) Step(p domain.Params, prev domain.Snapshot) domain.Snapshot {
	return runtime.Step(p, prev)
}

// Run is a shortcut for New().Run(ctx, p).
func Run(ctx context.Context, p domain.Params) (*domain.Result, error) {
	return New().Run(ctx, p)
}
