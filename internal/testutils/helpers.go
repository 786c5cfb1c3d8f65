package testutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/travelsir/pkg/domain"
)

// OriginalScenario returns the parameters the model was first explored with,
// over the given horizon.
func OriginalScenario(weeks int) domain.Params {
	return domain.Params{
		Na: 1000, Nb: 800,
		Ka: 0.002, Kb: 0.001,
		Ra: 0.1, Rb: 0.05,
		Mab: 0.05, Mba: 0.05,
		Dab: 3, Dba: 3,
		Weeks:         weeks,
		SeedFractionA: 0.01,
	}
}

// AssertInvariants checks what every complete run must satisfy: Weeks+1
// consecutive snapshots, no negative compartment, home groups within their
// nominal size and, under the cohort policy, a grand total equal to Na+Nb
// within the relative tolerance tol.
func AssertInvariants(t *testing.T, res *domain.Result, tol float64) {
	t.Helper()
	require.NotNil(t, res)
	p := res.Params
	require.Equal(t, p.Weeks+1, res.Len(), "snapshot count")

	const slack = 1e-9
	want := p.Capacity()
	for i, s := range res.Steps {
		require.Equal(t, i, s.Step, "step index")
		for j, v := range s.Values() {
			assert.False(t, math.IsNaN(v), "step %d value %d is NaN", i, j)
			assert.GreaterOrEqual(t, v, 0.0, "step %d value %d", i, j)
		}
		assert.LessOrEqual(t, s.A.Total(), p.Na*(1+slack)+slack, "step %d group A", i)
		assert.LessOrEqual(t, s.B.Total(), p.Nb*(1+slack)+slack, "step %d group B", i)

		if p.Return.Resolve() == domain.ReturnCohort {
			assert.InDelta(t, want, s.GrandTotal(), tol*math.Max(want, 1), "step %d total", i)
		}
	}
}
