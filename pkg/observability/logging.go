package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/travelsir/pkg/domain"
)

// LogHooks returns hooks that write run milestones to logger.
// Individual steps are logged at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start",
				"weeks", e.Params.Weeks,
				"na", e.Params.Na,
				"nb", e.Params.Nb,
				"return", string(e.Params.Return.Resolve()),
			)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			s := e.Snapshot
			logger.DebugContext(ctx, "step",
				"week", s.Step,
				"a_i", s.A.I,
				"b_i", s.B.I,
				"total", s.GrandTotal(),
			)
		},
		OnAnomaly: func(ctx context.Context, e *domain.AnomalyEvent) {
			logger.WarnContext(ctx, "anomaly", "detail", e.Anomaly.String())
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			if e.Err != nil {
				logger.InfoContext(ctx, "run_end", "steps", e.Steps, "status", Status(e.Err), "error", e.Err)
				return
			}
			logger.InfoContext(ctx, "run_end", "steps", e.Steps, "status", StatusCompleted, "duration", e.Duration)
		},
	}
}
