package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart EventType = "run_start"
	EventStep     EventType = "step"
	EventAnomaly  EventType = "anomaly"
	EventRunEnd   EventType = "run_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// RunEvent marks the start or the end of a run.
type RunEvent struct {
	EventBase
	Params Params `json:"params"`
	// Steps is the number of snapshots produced so far (0 on start).
	Steps int `json:"steps"`
	// Duration is the wall time of the run, set on RunEnd.
	Duration time.Duration `json:"duration,omitempty"`
	// Err is set on RunEnd when the run failed or was cancelled.
	Err error `json:"-"`
}

// StepEvent carries one freshly produced snapshot.
type StepEvent struct {
	EventBase
	Snapshot Snapshot `json:"snapshot"`
}

// AnomalyEvent carries an anomaly recorded by the invariant check.
type AnomalyEvent struct {
	EventBase
	Anomaly Anomaly `json:"anomaly"`
}

// LifecycleHooks defines callbacks for run observability.
// Every field is optional. Hooks run synchronously on the driver goroutine.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnStep     func(context.Context, *StepEvent)
	OnAnomaly  func(context.Context, *AnomalyEvent)
	OnRunEnd   func(context.Context, *RunEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: chain(h.OnRunStart, other.OnRunStart),
		OnStep:     chain(h.OnStep, other.OnStep),
		OnAnomaly:  chain(h.OnAnomaly, other.OnAnomaly),
		OnRunEnd:   chain(h.OnRunEnd, other.OnRunEnd),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
