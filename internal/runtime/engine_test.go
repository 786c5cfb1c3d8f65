package runtime_test

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/travelsir/internal/runtime"
	"github.com/aretw0/travelsir/internal/testutils"
	"github.com/aretw0/travelsir/pkg/domain"
)

func conservationScenario() domain.Params {
	return domain.Params{
		Weeks: 10,
		Na:    1000, Nb: 800,
		Ka: 0.002, Kb: 0.001,
		Ra: 0.1, Rb: 0.1,
		Mab: 0.05, Mba: 0.03,
		Dab: 2, Dba: 3,
		InfectedA: 10,
	}
}

// originalScenario mirrors the parameters the model was first explored with.
func originalScenario() domain.Params {
	return domain.Params{
		Weeks: 100,
		Na:    1000, Nb: 800,
		Ka: 0.002, Kb: 0.001,
		Ra: 0.1, Rb: 0.05,
		Mab: 0.05, Mba: 0.05,
		Dab: 3, Dba: 3,
		SeedFractionA: 0.01,
	}
}

func TestEngine_ConservationScenario(t *testing.T) {
	p := conservationScenario()
	res, err := runtime.NewEngine().Run(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, 11, res.Len())

	want := p.Na + p.Nb
	for _, s := range res.Steps {
		rel := math.Abs(s.GrandTotal()-want) / want
		assert.LessOrEqual(t, rel, 1e-6, "step %d total %v", s.Step, s.GrandTotal())
	}
}

func TestEngine_ConservationHoldsWhenIncidenceSaturates(t *testing.T) {
	// The epidemic in A burns through its susceptibles within the horizon.
	p := originalScenario()
	res, err := runtime.NewEngine(runtime.WithAnomalyCheck(1e-9)).Run(context.Background(), p)
	require.NoError(t, err)

	assert.Empty(t, res.Anomalies)
	assert.InDelta(t, 1800, res.Final().GrandTotal(), 1e-6)
	assert.Less(t, res.Final().A.S, 1.0)
}

func TestEngine_Determinism(t *testing.T) {
	eng := runtime.NewEngine()
	p := originalScenario()

	first, err := eng.Run(context.Background(), p)
	require.NoError(t, err)
	second, err := eng.Run(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_ExactlyWeeksApplications(t *testing.T) {
	for _, weeks := range []int{0, 1, 7, 52} {
		p := conservationScenario()
		p.Weeks = weeks

		res, err := runtime.NewEngine().Run(context.Background(), p)
		require.NoError(t, err)
		require.Equal(t, weeks+1, res.Len())
		for i, s := range res.Steps {
			assert.Equal(t, i, s.Step)
		}
	}
}

func TestEngine_InitialState(t *testing.T) {
	p := originalScenario()
	res, err := runtime.NewEngine().Run(context.Background(), p)
	require.NoError(t, err)

	initial := res.Initial()
	assert.Equal(t, domain.SIR{S: 990, I: 10}, initial.A)
	assert.Equal(t, domain.SIR{S: 800}, initial.B)
	assert.Equal(t, domain.SIR{}, initial.AInB)
	assert.Equal(t, domain.SIR{}, initial.BInA)
}

func TestEngine_InvariantsOverRandomParameters(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	eng := runtime.NewEngine()

	for i := 0; i < 200; i++ {
		p := domain.Params{
			Weeks: 60,
			Na:    rng.Float64() * 5000, Nb: rng.Float64() * 5000,
			Ka: rng.Float64(), Kb: rng.Float64(),
			Ra: rng.Float64(), Rb: rng.Float64(),
			Mab: rng.Float64(), Mba: rng.Float64(),
			Dab: 1 + rng.Intn(6), Dba: 1 + rng.Intn(6),
		}
		p.InfectedA = rng.Float64() * p.Na
		p.InfectedB = rng.Float64() * p.Nb
		if i%2 == 1 {
			p.Return = domain.ReturnNone
		}

		res, err := eng.Run(context.Background(), p)
		require.NoError(t, err, "run %d", i)
		testutils.AssertInvariants(t, res, 1e-9)
	}
}

func TestEngine_LargeTransmissionCoefficient(t *testing.T) {
	p := conservationScenario()
	p.Ka, p.Kb = 1.5, 4

	res, err := runtime.NewEngine().Run(context.Background(), p)
	require.NoError(t, err)
	testutils.AssertInvariants(t, res, 1e-9)
	// incidence saturates at once: A's home susceptibles are exhausted after one step
	assert.InDelta(t, 0, res.Steps[1].A.S, 1e-9)
}

// sirReference is the plain single-population SIR recurrence.
func sirReference(n, seed, k, rec float64, weeks int) []domain.SIR {
	out := []domain.SIR{{S: n - seed, I: seed}}
	for t := 1; t <= weeks; t++ {
		x := out[t-1]
		inf := k * x.S * x.I
		out = append(out, domain.SIR{S: x.S - inf, I: x.I + inf - rec*x.I, R: x.R + rec*x.I})
	}
	return out
}

func TestEngine_ZeroTravelReducesToIndependentSIR(t *testing.T) {
	p := domain.Params{
		Weeks: 80,
		Na:    500, Nb: 300,
		Ka: 0.0004, Kb: 0.001,
		Ra: 0.2, Rb: 0.1,
		Dab: 2, Dba: 4,
		InfectedA: 5, InfectedB: 3,
	}
	res, err := runtime.NewEngine().Run(context.Background(), p)
	require.NoError(t, err)

	refA := sirReference(p.Na, 5, p.Ka, p.Ra, p.Weeks)
	refB := sirReference(p.Nb, 3, p.Kb, p.Rb, p.Weeks)
	for i, s := range res.Steps {
		assert.Equal(t, domain.SIR{}, s.AInB, "step %d", i)
		assert.Equal(t, domain.SIR{}, s.BInA, "step %d", i)
		assert.InDelta(t, refA[i].S, s.A.S, 1e-9, "step %d", i)
		assert.InDelta(t, refA[i].I, s.A.I, 1e-9, "step %d", i)
		assert.InDelta(t, refA[i].R, s.A.R, 1e-9, "step %d", i)
		assert.InDelta(t, refB[i].S, s.B.S, 1e-9, "step %d", i)
		assert.InDelta(t, refB[i].I, s.B.I, 1e-9, "step %d", i)
		assert.InDelta(t, refB[i].R, s.B.R, 1e-9, "step %d", i)
	}
}

func TestEngine_ZeroInfection(t *testing.T) {
	t.Run("Without Travel", func(t *testing.T) {
		p := domain.Params{Weeks: 20, Na: 1000, Nb: 800, Ka: 0.5, Kb: 0.5, Ra: 0.1, Rb: 0.1, Dab: 1, Dba: 1}
		res, err := runtime.NewEngine().Run(context.Background(), p)
		require.NoError(t, err)

		for _, s := range res.Steps {
			assert.Equal(t, domain.SIR{S: 1000}, s.A)
			assert.Equal(t, domain.SIR{S: 800}, s.B)
			assert.Equal(t, domain.SIR{}, s.AInB)
			assert.Equal(t, domain.SIR{}, s.BInA)
		}
	})

	t.Run("With Travel", func(t *testing.T) {
		p := domain.Params{Weeks: 20, Na: 1000, Nb: 800, Ka: 0.5, Kb: 0.5, Ra: 0.1, Rb: 0.1, Mab: 0.2, Mba: 0.1, Dab: 2, Dba: 1}
		res, err := runtime.NewEngine().Run(context.Background(), p)
		require.NoError(t, err)

		moved := false
		for _, s := range res.Steps {
			for _, pop := range domain.Populations {
				x := s.Get(pop)
				assert.Zero(t, x.I, "step %d %s", s.Step, pop)
				assert.Zero(t, x.R, "step %d %s", s.Step, pop)
			}
			assert.InDelta(t, 1800, s.GrandTotal(), 1e-9)
			if s.AInB.S > 0 {
				moved = true
			}
		}
		assert.True(t, moved, "expected susceptibles to redistribute through travel")
	})
}

func TestEngine_InvalidParametersNeverRun(t *testing.T) {
	started := false
	eng := runtime.NewEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnRunStart: func(context.Context, *domain.RunEvent) { started = true },
	}))

	p := conservationScenario()
	p.Dab = 0
	p.Weeks = -1

	res, err := eng.Run(context.Background(), p)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	assert.ElementsMatch(t, []string{"dab", "weeks"}, fieldsOf(err))
	assert.False(t, started)
}

func TestEngine_Cancellation(t *testing.T) {
	t.Run("Cancelled Before Start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := runtime.NewEngine().Run(ctx, conservationScenario())
		assert.Nil(t, res)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Cancelled Between Steps", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var seen []int
		var end *domain.RunEvent
		eng := runtime.NewEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnStep: func(_ context.Context, e *domain.StepEvent) {
				seen = append(seen, e.Snapshot.Step)
				if e.Snapshot.Step == 2 {
					cancel()
				}
			},
			OnRunEnd: func(_ context.Context, e *domain.RunEvent) { end = e },
		}))

		res, err := eng.Run(ctx, conservationScenario())
		assert.Nil(t, res)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []int{0, 1, 2}, seen)
		require.NotNil(t, end)
		assert.Equal(t, 3, end.Steps)
		assert.ErrorIs(t, end.Err, context.Canceled)
	})
}

func TestEngine_UnboundedHorizonDoesNotPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var steps int
	eng := runtime.NewEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnStep: func(context.Context, *domain.StepEvent) {
			steps++
			if steps == 3 {
				cancel()
			}
		},
	}))

	p := conservationScenario()
	p.Weeks = math.MaxInt

	var (
		res *domain.Result
		err error
	)
	require.NotPanics(t, func() { res, err = eng.Run(ctx, p) })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
	assert.Equal(t, 3, steps)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	// each reading of the clock advances it by one second
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := 0
	clock := func() time.Time {
		now := base.Add(time.Duration(ticks) * time.Second)
		ticks++
		return now
	}

	var events []domain.EventType
	var streamed []domain.Snapshot
	var stamps []time.Time
	var end *domain.RunEvent
	hooks := domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			events = append(events, e.Type)
			stamps = append(stamps, e.Timestamp)
		},
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			events = append(events, e.Type)
			streamed = append(streamed, e.Snapshot)
			stamps = append(stamps, e.Timestamp)
		},
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			events = append(events, e.Type)
			stamps = append(stamps, e.Timestamp)
			end = e
		},
	}

	p := conservationScenario()
	p.Weeks = 3
	res, err := runtime.NewEngine(runtime.WithLifecycleHooks(hooks), runtime.WithClock(clock)).Run(context.Background(), p)
	require.NoError(t, err)

	require.NotNil(t, end)
	assert.NoError(t, end.Err)
	assert.Equal(t, 4, end.Steps)
	// the start of the run is the first reading; run_start, four steps and
	// run_end take the next six
	assert.Equal(t, 6*time.Second, end.Duration)
	require.Len(t, stamps, 6)
	for i, ts := range stamps {
		assert.Equal(t, base.Add(time.Duration(i+1)*time.Second), ts, "event %d", i)
	}

	assert.Equal(t, []domain.EventType{
		domain.EventRunStart,
		domain.EventStep, domain.EventStep, domain.EventStep, domain.EventStep,
		domain.EventRunEnd,
	}, events)
	assert.Equal(t, res.Steps, streamed)
}

func TestEngine_AnomalyCheck(t *testing.T) {
	t.Run("Cohort Policy Is Clean", func(t *testing.T) {
		res, err := runtime.NewEngine(runtime.WithAnomalyCheck(0)).Run(context.Background(), conservationScenario())
		require.NoError(t, err)
		assert.Empty(t, res.Anomalies)
	})

	t.Run("Legacy Policy Reports Drift", func(t *testing.T) {
		var reported []domain.Anomaly
		eng := runtime.NewEngine(
			runtime.WithAnomalyCheck(0),
			runtime.WithLifecycleHooks(domain.LifecycleHooks{
				OnAnomaly: func(_ context.Context, e *domain.AnomalyEvent) { reported = append(reported, e.Anomaly) },
			}),
		)
		p := originalScenario()
		p.Return = domain.ReturnNone

		res, err := eng.Run(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, p.Weeks+1, res.Len(), "anomalies must not truncate the result")
		require.NotEmpty(t, res.Anomalies)
		assert.Equal(t, res.Anomalies, reported)

		kinds := map[domain.AnomalyKind]bool{}
		for _, a := range res.Anomalies {
			kinds[a.Kind] = true
		}
		assert.True(t, kinds[domain.AnomalyConservation])
		assert.True(t, kinds[domain.AnomalyClamp])
	})

	t.Run("Disabled By Default", func(t *testing.T) {
		p := originalScenario()
		p.Return = domain.ReturnNone
		res, err := runtime.NewEngine().Run(context.Background(), p)
		require.NoError(t, err)
		assert.Empty(t, res.Anomalies)
	})

	t.Run("Strict Mode Aborts", func(t *testing.T) {
		p := originalScenario()
		p.Return = domain.ReturnNone

		res, err := runtime.NewEngine(runtime.WithStrict(true)).Run(context.Background(), p)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, domain.ErrNumericAnomaly)

		var anomalyErr *domain.AnomalyError
		require.ErrorAs(t, err, &anomalyErr)
		assert.Equal(t, 1, anomalyErr.Anomaly.Step)
	})
}

func TestRelativeDrift(t *testing.T) {
	assert.Equal(t, 0.0, runtime.RelativeDrift(1800, 1800))
	assert.InDelta(t, 0.01, runtime.RelativeDrift(100, 101), 1e-12)
	assert.InDelta(t, 0.01, runtime.RelativeDrift(100, 99), 1e-12)
	assert.Equal(t, 3.0, runtime.RelativeDrift(0, -3))
}
