package domain

import "fmt"

// Compartment identifies a disease status.
type Compartment int

const (
	Susceptible Compartment = iota
	Infected
	Recovered
)

// Compartments lists every compartment in S, I, R order.
var Compartments = []Compartment{Susceptible, Infected, Recovered}

func (c Compartment) String() string {
	switch c {
	case Susceptible:
		return "S"
	case Infected:
		return "I"
	case Recovered:
		return "R"
	}
	return fmt.Sprintf("Compartment(%d)", int(c))
}

// MarshalText encodes the compartment as its lowercase letter.
func (c Compartment) MarshalText() ([]byte, error) {
	switch c {
	case Susceptible:
		return []byte("s"), nil
	case Infected:
		return []byte("i"), nil
	case Recovered:
		return []byte("r"), nil
	}
	return nil, fmt.Errorf("unknown compartment %d", int(c))
}

// Population identifies one of the four tracked sub-populations.
type Population int

const (
	GroupA Population = iota
	GroupB
	// VisitorsAInB are members of A temporarily residing in B.
	VisitorsAInB
	// VisitorsBInA are members of B temporarily residing in A.
	VisitorsBInA
)

// Populations lists every population in reporting order.
var Populations = []Population{GroupA, GroupB, VisitorsAInB, VisitorsBInA}

func (p Population) String() string {
	switch p {
	case GroupA:
		return "A"
	case GroupB:
		return "B"
	case VisitorsAInB:
		return "A in B"
	case VisitorsBInA:
		return "B in A"
	}
	return fmt.Sprintf("Population(%d)", int(p))
}

// Key returns a short identifier suitable for column names and metric labels.
func (p Population) Key() string {
	switch p {
	case GroupA:
		return "a"
	case GroupB:
		return "b"
	case VisitorsAInB:
		return "ab"
	case VisitorsBInA:
		return "ba"
	}
	return "unknown"
}

func (p Population) MarshalText() ([]byte, error) {
	if k := p.Key(); k != "unknown" {
		return []byte(k), nil
	}
	return nil, fmt.Errorf("unknown population %d", int(p))
}

// SIR is one Susceptible/Infected/Recovered triple.
type SIR struct {
	S float64 `json:"s"`
	I float64 `json:"i"`
	R float64 `json:"r"`
}

// Total returns S+I+R.
func (x SIR) Total() float64 {
	return x.S + x.I + x.R
}

// Get returns the value of a single compartment.
func (x SIR) Get(c Compartment) float64 {
	switch c {
	case Susceptible:
		return x.S
	case Infected:
		return x.I
	case Recovered:
		return x.R
	}
	return 0
}

// Snapshot holds the twelve compartment values at one time step.
// Snapshots are values: the step function never modifies its input.
type Snapshot struct {
	Step int `json:"step"`
	A    SIR `json:"a"`
	B    SIR `json:"b"`
	AInB SIR `json:"a_in_b"`
	BInA SIR `json:"b_in_a"`
}

// Get returns the triple for a population.
func (s Snapshot) Get(p Population) SIR {
	switch p {
	case GroupA:
		return s.A
	case GroupB:
		return s.B
	case VisitorsAInB:
		return s.AInB
	case VisitorsBInA:
		return s.BInA
	}
	return SIR{}
}

// Value returns a single compartment of a single population.
func (s Snapshot) Value(p Population, c Compartment) float64 {
	return s.Get(p).Get(c)
}

// Values returns the twelve values in population order, S, I, R within each.
func (s Snapshot) Values() []float64 {
	out := make([]float64, 0, len(Populations)*len(Compartments))
	for _, p := range Populations {
		x := s.Get(p)
		out = append(out, x.S, x.I, x.R)
	}
	return out
}

// GrandTotal sums all twelve compartments.
// It is a diagnostic over a single step and has no effect on the run.
func (s Snapshot) GrandTotal() float64 {
	return s.A.Total() + s.B.Total() + s.AInB.Total() + s.BInA.Total()
}
