package runtime

import (
	"github.com/aretw0/travelsir/pkg/domain"
)

// Step advances the full state by one time step.
//
// It is a pure function of the previous snapshot: every term is computed from
// prev before any value of the new snapshot is written, and prev is never
// modified. The caller is responsible for validating p beforehand.
func Step(p domain.Params, prev domain.Snapshot) domain.Snapshot {
	next, _ := advance(p, prev)
	return next
}

// clampEvent records a value that had to be pulled back into its range.
type clampEvent struct {
	population  domain.Population
	compartment domain.Compartment
	amount      float64
}

// bounder clamps values and remembers how much each clamp moved them.
type bounder struct {
	events []clampEvent
}

func (b *bounder) clamp(pop domain.Population, comp domain.Compartment, lo, hi, v float64) float64 {
	if hi < lo {
		hi = lo
	}
	c := v
	if c > hi {
		c = hi
	}
	if c < lo {
		c = lo
	}
	if c != v {
		amount := v - c
		if amount < 0 {
			amount = -amount
		}
		b.events = append(b.events, clampEvent{population: pop, compartment: comp, amount: amount})
	}
	return c
}

func (b *bounder) floor(pop domain.Population, comp domain.Compartment, v float64) float64 {
	if v >= 0 {
		return v
	}
	b.events = append(b.events, clampEvent{population: pop, compartment: comp, amount: -v})
	return 0
}

func advance(p domain.Params, prev domain.Snapshot) (domain.Snapshot, []clampEvent) {
	b := &bounder{}

	// 1. Flow terms. What leaves a group is exactly what enters the visitor
	// compartment it feeds.
	outA := travel(prev.A, p.Mab, p.Dab)
	outB := travel(prev.B, p.Mba, p.Dba)

	var inA, inB domain.SIR
	absorb := p.Return.Resolve() == domain.ReturnNone
	if absorb {
		inA, inB = outB, outA
	} else {
		inA, inB = prev.AInB, prev.BInA
	}

	next := domain.Snapshot{Step: prev.Step + 1}

	// 2. Local epidemic updates.
	if absorb {
		next.A = b.absorbing(domain.GroupA, prev.A, p.Na, p.Ka, p.Ra, inA, outA)
		next.B = b.absorbing(domain.GroupB, prev.B, p.Nb, p.Kb, p.Rb, inB, outB)
	} else {
		next.A = b.local(domain.GroupA, prev.A, p.Na, p.Ka, p.Ra, inA, outA)
		next.B = b.local(domain.GroupB, prev.B, p.Nb, p.Kb, p.Rb, inB, outB)
	}

	// 3. Visitors catch the disease from the host's infected pool and
	// recover at the host's rate.
	next.AInB = b.visitor(domain.VisitorsAInB, prev.AInB, outA, p.Kb, p.Rb, prev.B.I, !absorb)
	next.BInA = b.visitor(domain.VisitorsBInA, prev.BInA, outB, p.Ka, p.Ra, prev.A.I, !absorb)

	return next, b.events
}

// travel converts a travelling proportion into a per-step flow.
func travel(x domain.SIR, proportion float64, stay int) domain.SIR {
	rate := proportion / float64(stay)
	return domain.SIR{S: rate * x.S, I: rate * x.I, R: rate * x.R}
}

func (b *bounder) local(pop domain.Population, x domain.SIR, capacity, k, rec float64, in, out domain.SIR) domain.SIR {
	// Only members who did not leave this step can be infected or recover here.
	infections := min(k*x.S*x.I, max(0, x.S-out.S))
	recoveries := min(rec*x.I, max(0, x.I-out.I))

	s := b.clamp(pop, domain.Susceptible, 0, capacity, x.S-infections+in.S-out.S)
	r := x.R + recoveries + in.R - out.R
	i := b.clamp(pop, domain.Infected, 0, capacity-s-max(0, r), x.I+infections-recoveries+in.I-out.I)
	r = b.clamp(pop, domain.Recovered, 0, capacity-s-i, r)
	return domain.SIR{S: s, I: i, R: r}
}

// absorbing is the local update of the no-return model: plain bilinear
// incidence, I bounded before R is known, R taking what capacity is left.
// Overshoot is left to the clamps, which the anomaly check reports.
func (b *bounder) absorbing(pop domain.Population, x domain.SIR, capacity, k, rec float64, in, out domain.SIR) domain.SIR {
	infections := k * x.S * x.I
	recoveries := rec * x.I

	s := b.clamp(pop, domain.Susceptible, 0, capacity, x.S-infections+in.S-out.S)
	i := b.clamp(pop, domain.Infected, 0, capacity-s, x.I+infections-recoveries+in.I-out.I)
	r := b.clamp(pop, domain.Recovered, 0, capacity-s-i, x.R+recoveries+in.R-out.R)
	return domain.SIR{S: s, I: i, R: r}
}

// visitor updates a visitor compartment from this step's inflow. With limit
// set, infections cannot exceed the arriving susceptibles and recoveries the
// infected present.
func (b *bounder) visitor(pop domain.Population, v domain.SIR, in domain.SIR, hostK, hostRec, hostInfected float64, limit bool) domain.SIR {
	infections := hostK * v.S * hostInfected
	recoveries := hostRec * v.I
	if limit {
		infections = min(infections, in.S)
		recoveries = min(recoveries, in.I+infections)
	}

	return domain.SIR{
		S: b.floor(pop, domain.Susceptible, in.S-infections),
		I: b.floor(pop, domain.Infected, in.I+infections-recoveries),
		R: b.floor(pop, domain.Recovered, in.R+recoveries),
	}
}
