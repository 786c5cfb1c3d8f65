package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/travelsir/pkg/domain"
)

const (
	// DefaultTolerance is the relative conservation drift tolerated by the anomaly check.
	DefaultTolerance = 1e-6
	// DefaultClampEpsilon is the largest clamp adjustment not reported as an anomaly.
	DefaultClampEpsilon = 1e-9

	// maxPrealloc bounds the snapshots reserved up front; longer runs grow
	// the result as they go.
	maxPrealloc = 1 << 16
)

// Engine is the horizon driver: it applies Step from t=1 to Weeks and
// accumulates the result. An Engine keeps no state between runs and may be
// shared by concurrent callers.
type Engine struct {
	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	check        bool
	strict       bool
	tolerance    float64
	clampEpsilon float64
	now          func() time.Time
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithAnomalyCheck enables the invariant check with the given relative
// conservation tolerance. A non-positive tolerance selects DefaultTolerance.
func WithAnomalyCheck(tolerance float64) EngineOption {
	return func(e *Engine) {
		e.check = true
		if tolerance > 0 {
			e.tolerance = tolerance
		}
	}
}

// WithClampEpsilon sets the clamp adjustment above which an anomaly is recorded.
func WithClampEpsilon(eps float64) EngineOption {
	return func(e *Engine) {
		if eps >= 0 {
			e.clampEpsilon = eps
		}
	}
}

// WithStrict aborts the run on the first anomaly. It implies the anomaly check.
func WithStrict(strict bool) EngineOption {
	return func(e *Engine) {
		e.strict = strict
		if strict {
			e.check = true
		}
	}
}

// WithClock overrides the source of event timestamps and run durations.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a new horizon driver.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		tolerance:    DefaultTolerance,
		clampEpsilon: DefaultClampEpsilon,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run validates p, builds the initial state and applies the step function
// exactly p.Weeks times.
//
// Invalid parameters are reported before the first step and no result is
// returned. The context is checked between steps; on cancellation Run
// returns the context error and no result. Anomalies are collected on the
// result unless the engine is strict, in which case the first one aborts
// the run with an error wrapping domain.ErrNumericAnomaly.
func (e *Engine) Run(ctx context.Context, p domain.Params) (*domain.Result, error) {
	if err := Validate(p); err != nil {
		e.logger.Debug("parameters rejected", "error", err)
		return nil, err
	}

	started := e.now()
	initial := initialState(p)
	res := &domain.Result{
		Params: p,
		Steps:  make([]domain.Snapshot, 0, min(p.Weeks, maxPrealloc)+1),
	}
	res.Steps = append(res.Steps, initial)

	e.logger.Debug("run started", "weeks", p.Weeks, "return", p.Return.Resolve(), "total", initial.GrandTotal())
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{EventBase: e.event(domain.EventRunStart), Params: p})
	}
	e.emitStep(ctx, initial)

	baseline := initial.GrandTotal()
	prev := initial
	for t := 1; t <= p.Weeks; t++ {
		if err := ctx.Err(); err != nil {
			e.logger.Debug("run cancelled", "step", t-1, "error", err)
			e.finish(ctx, p, len(res.Steps), started, err)
			return nil, err
		}

		next, clamps := advance(p, prev)
		res.Steps = append(res.Steps, next)
		e.emitStep(ctx, next)

		if e.check {
			for _, a := range e.inspect(baseline, next, clamps) {
				res.Anomalies = append(res.Anomalies, a)
				e.logger.Warn("numeric anomaly", "step", a.Step, "kind", a.Kind, "detail", a.String(), "magnitude", a.Magnitude)
				if e.hooks.OnAnomaly != nil {
					e.hooks.OnAnomaly(ctx, &domain.AnomalyEvent{EventBase: e.event(domain.EventAnomaly), Anomaly: a})
				}
				if e.strict {
					err := &domain.AnomalyError{Anomaly: a}
					e.finish(ctx, p, len(res.Steps), started, err)
					return nil, err
				}
			}
		}
		prev = next
	}

	e.logger.Debug("run finished", "steps", len(res.Steps), "anomalies", len(res.Anomalies))
	e.finish(ctx, p, len(res.Steps), started, nil)
	return res, nil
}

func (e *Engine) emitStep(ctx context.Context, s domain.Snapshot) {
	if e.hooks.OnStep != nil {
		e.hooks.OnStep(ctx, &domain.StepEvent{EventBase: e.event(domain.EventStep), Snapshot: s})
	}
}

func (e *Engine) finish(ctx context.Context, p domain.Params, steps int, started time.Time, err error) {
	if e.hooks.OnRunEnd != nil {
		ev := &domain.RunEvent{EventBase: e.event(domain.EventRunEnd), Params: p, Steps: steps, Err: err}
		ev.Duration = ev.Timestamp.Sub(started)
		e.hooks.OnRunEnd(ctx, ev)
	}
}

func (e *Engine) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: e.now(), Type: t}
}
