package runtime

import "github.com/aretw0/travelsir/pkg/domain"

// Initialize validates p and builds the step-0 snapshot.
// Each group starts with its seed infected and everyone else susceptible;
// both visitor compartments start empty.
func Initialize(p domain.Params) (domain.Snapshot, error) {
	if err := Validate(p); err != nil {
		return domain.Snapshot{}, err
	}
	return initialState(p), nil
}

func initialState(p domain.Params) domain.Snapshot {
	seedA, seedB := p.SeedA(), p.SeedB()
	return domain.Snapshot{
		Step: 0,
		A:    domain.SIR{S: p.Na - seedA, I: seedA},
		B:    domain.SIR{S: p.Nb - seedB, I: seedB},
	}
}
