package domain

import (
	"encoding/json"
	"fmt"
)

// AnomalyKind categorizes invariant violations detected during a run.
type AnomalyKind string

const (
	// AnomalyConservation means the grand total drifted from its step-0 value.
	AnomalyConservation AnomalyKind = "conservation"
	// AnomalyClamp means a compartment had to be clamped by more than epsilon.
	AnomalyClamp AnomalyKind = "clamp"
)

// Anomaly is a reportable warning produced by the optional invariant check.
// Population and Compartment are only meaningful for clamp anomalies and are
// left out of the JSON form of conservation anomalies.
type Anomaly struct {
	Step        int         `json:"step"`
	Kind        AnomalyKind `json:"kind"`
	Population  Population  `json:"population"`
	Compartment Compartment `json:"compartment"`
	// Magnitude is the relative drift for conservation anomalies and the
	// absolute clamped amount for clamp anomalies.
	Magnitude float64 `json:"magnitude"`
	Message   string  `json:"message"`
}

// MarshalJSON omits the location of anomalies that concern the whole state.
func (a Anomaly) MarshalJSON() ([]byte, error) {
	out := struct {
		Step        int          `json:"step"`
		Kind        AnomalyKind  `json:"kind"`
		Population  *Population  `json:"population,omitempty"`
		Compartment *Compartment `json:"compartment,omitempty"`
		Magnitude   float64      `json:"magnitude"`
		Message     string       `json:"message"`
	}{Step: a.Step, Kind: a.Kind, Magnitude: a.Magnitude, Message: a.Message}
	if a.Kind == AnomalyClamp {
		out.Population, out.Compartment = &a.Population, &a.Compartment
	}
	return json.Marshal(out)
}

func (a Anomaly) String() string {
	if a.Kind == AnomalyConservation {
		return fmt.Sprintf("step %d: %s drift %.3g", a.Step, a.Kind, a.Magnitude)
	}
	return fmt.Sprintf("step %d: %s %s.%s by %.3g", a.Step, a.Kind, a.Population, a.Compartment, a.Magnitude)
}

// Result is the complete output of a run: Weeks+1 snapshots.
// It is owned by the caller once returned and never modified by the engine.
type Result struct {
	Params    Params     `json:"params"`
	Steps     []Snapshot `json:"steps"`
	Anomalies []Anomaly  `json:"anomalies,omitempty"`
}

// Len returns the number of snapshots (Weeks+1 for a complete run).
func (r *Result) Len() int {
	return len(r.Steps)
}

// Initial returns the step-0 snapshot.
func (r *Result) Initial() Snapshot {
	if len(r.Steps) == 0 {
		return Snapshot{}
	}
	return r.Steps[0]
}

// Final returns the last snapshot.
func (r *Result) Final() Snapshot {
	if len(r.Steps) == 0 {
		return Snapshot{}
	}
	return r.Steps[len(r.Steps)-1]
}

// Series returns the time series of one compartment of one population.
func (r *Result) Series(p Population, c Compartment) []float64 {
	out := make([]float64, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Value(p, c)
	}
	return out
}

// Totals returns the grand total at every step.
func (r *Result) Totals() []float64 {
	out := make([]float64, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.GrandTotal()
	}
	return out
}

// Weeks returns the step indices 0..Len()-1 as floats, for plotting.
func (r *Result) Weeks() []float64 {
	out := make([]float64, len(r.Steps))
	for i := range r.Steps {
		out[i] = float64(r.Steps[i].Step)
	}
	return out
}
