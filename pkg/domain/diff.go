package domain

// SnapshotDiff represents the change of every compartment between two steps.
// It is designed to be serialized to JSON for streaming consumers that only
// want increments.
type SnapshotDiff struct {
	// Step is the step of the newer snapshot.
	Step int `json:"step"`
	A    SIR `json:"a"`
	B    SIR `json:"b"`
	AInB SIR `json:"a_in_b"`
	BInA SIR `json:"b_in_a"`
}

// Diff calculates newer minus older for every compartment.
// If older is nil, the diff equals newer (initial load).
func Diff(older *Snapshot, newer Snapshot) SnapshotDiff {
	if older == nil {
		return SnapshotDiff{Step: newer.Step, A: newer.A, B: newer.B, AInB: newer.AInB, BInA: newer.BInA}
	}
	return SnapshotDiff{
		Step: newer.Step,
		A:    sub(newer.A, older.A),
		B:    sub(newer.B, older.B),
		AInB: sub(newer.AInB, older.AInB),
		BInA: sub(newer.BInA, older.BInA),
	}
}

// Get returns the delta triple for a population.
func (d SnapshotDiff) Get(p Population) SIR {
	return Snapshot{A: d.A, B: d.B, AInB: d.AInB, BInA: d.BInA}.Get(p)
}

// IsEmpty reports whether no compartment changed.
func (d SnapshotDiff) IsEmpty() bool {
	zero := SIR{}
	return d.A == zero && d.B == zero && d.AInB == zero && d.BInA == zero
}

func sub(a, b SIR) SIR {
	return SIR{S: a.S - b.S, I: a.I - b.I, R: a.R - b.R}
}
