package runtime

import (
	"fmt"
	"math"

	"github.com/aretw0/travelsir/pkg/domain"
)

// inspect turns the clamp activity of one step and the drift of its grand
// total into anomalies.
func (e *Engine) inspect(baseline float64, s domain.Snapshot, clamps []clampEvent) []domain.Anomaly {
	var out []domain.Anomaly
	for _, c := range clamps {
		if c.amount <= e.clampEpsilon {
			continue
		}
		out = append(out, domain.Anomaly{
			Step:        s.Step,
			Kind:        domain.AnomalyClamp,
			Population:  c.population,
			Compartment: c.compartment,
			Magnitude:   c.amount,
			Message:     fmt.Sprintf("%s.%s clamped by %g", c.population, c.compartment, c.amount),
		})
	}

	total := s.GrandTotal()
	if drift := RelativeDrift(baseline, total); drift > e.tolerance {
		out = append(out, domain.Anomaly{
			Step:      s.Step,
			Kind:      domain.AnomalyConservation,
			Magnitude: drift,
			Message:   fmt.Sprintf("grand total %g differs from initial %g", total, baseline),
		})
	}
	return out
}

// RelativeDrift returns |total-baseline|/baseline, or |total| when the
// baseline is zero.
func RelativeDrift(baseline, total float64) float64 {
	if baseline == 0 {
		return math.Abs(total)
	}
	return math.Abs(total-baseline) / math.Abs(baseline)
}
