/*
Package travelsir simulates an epidemic spreading across two population groups whose members temporarily travel to the other group.

It advances twelve coupled counters (Susceptible, Infected, Recovered for group A, group B, visitors from A residing in B, and visitors from B residing in A) in discrete time steps, applying each group's own SIR dynamics plus the flows created by travel.

# Concept

The numeric core is a pure state-transition function: given the snapshot at step t-1 and the model parameters, it returns the snapshot at step t. A horizon driver applies it Weeks times and hands the whole time series to the caller. Rendering, printing and serving are separate collaborators (see pkg/report, pkg/observability and cmd/travelsir) that consume the result or the per-step hooks.

# Key Features

  - Deterministic: identical parameters always produce an identical result.
  - Conservative: with the default cohort return policy the grand total Na+Nb is preserved at every step.
  - Bounded: compartments never go negative and a group never exceeds its nominal size.
  - Observable: lifecycle hooks stream every step, and an optional invariant check reports numeric anomalies.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/travelsir"
		"github.com/aretw0/travelsir/pkg/domain"
	)

	func main() {
		sim := travelsir.New(travelsir.WithAnomalyCheck(0))

		res, err := sim.Run(context.Background(), domain.Params{
			Na: 1000, Nb: 800,
			Ka: 0.002, Kb: 0.001,
			Ra: 0.1, Rb: 0.05,
			Mab: 0.05, Mba: 0.05,
			Dab: 3, Dba: 3,
			Weeks:         100,
			SeedFractionA: 0.01,
		})
		if err != nil {
			log.Fatal(err)
		}

		final := res.Final()
		fmt.Printf("week %d: A infected %.1f, B infected %.1f\n", final.Step, final.A.I, final.B.I)
	}
*/
package travelsir
