package domain

// ReturnPolicy selects how travellers flow back into their home group.
type ReturnPolicy string

const (
	// ReturnCohort sends the whole visitor cohort of step t-1 home at step t.
	// Visitor compartments hold one step's worth of travellers and the
	// grand total Na+Nb is conserved.
	ReturnCohort ReturnPolicy = "cohort"

	// ReturnNone models no return trip: the host group absorbs the
	// travellers arriving from the other group. Incidence and recoveries
	// are the plain bilinear terms with no flux limit, and I is bounded
	// before R. The grand total is not conserved under this policy.
	ReturnNone ReturnPolicy = "none"
)

// Valid reports whether the policy is known. The empty policy is valid and
// means ReturnCohort.
func (p ReturnPolicy) Valid() bool {
	switch p {
	case "", ReturnCohort, ReturnNone:
		return true
	}
	return false
}

// Resolve returns the effective policy.
func (p ReturnPolicy) Resolve() ReturnPolicy {
	if p == "" {
		return ReturnCohort
	}
	return p
}

// Params is the immutable model configuration.
type Params struct {
	// Na and Nb are the nominal group sizes.
	Na float64 `json:"na" yaml:"na" mapstructure:"na"`
	Nb float64 `json:"nb" yaml:"nb" mapstructure:"nb"`

	// Ka and Kb are the bilinear transmission coefficients of each group.
	Ka float64 `json:"ka" yaml:"ka" mapstructure:"ka"`
	Kb float64 `json:"kb" yaml:"kb" mapstructure:"kb"`

	// Ra and Rb are the per-step recovery rates.
	Ra float64 `json:"ra" yaml:"ra" mapstructure:"ra"`
	Rb float64 `json:"rb" yaml:"rb" mapstructure:"rb"`

	// Mab is the proportion of A travelling to B, Mba of B travelling to A.
	Mab float64 `json:"mab" yaml:"mab" mapstructure:"mab"`
	Mba float64 `json:"mba" yaml:"mba" mapstructure:"mba"`

	// Dab and Dba are the average stay durations in steps.
	Dab int `json:"dab" yaml:"dab" mapstructure:"dab"`
	Dba int `json:"dba" yaml:"dba" mapstructure:"dba"`

	// Weeks is the horizon: the number of step applications.
	Weeks int `json:"weeks" yaml:"weeks" mapstructure:"weeks"`

	// InfectedA and InfectedB are absolute initial infected counts.
	InfectedA float64 `json:"infected_a,omitempty" yaml:"infected_a,omitempty" mapstructure:"infected_a"`
	InfectedB float64 `json:"infected_b,omitempty" yaml:"infected_b,omitempty" mapstructure:"infected_b"`

	// SeedFractionA and SeedFractionB seed the groups with a fraction of
	// their size instead. A group may use a count or a fraction, not both.
	SeedFractionA float64 `json:"seed_fraction_a,omitempty" yaml:"seed_fraction_a,omitempty" mapstructure:"seed_fraction_a"`
	SeedFractionB float64 `json:"seed_fraction_b,omitempty" yaml:"seed_fraction_b,omitempty" mapstructure:"seed_fraction_b"`

	Return ReturnPolicy `json:"return,omitempty" yaml:"return,omitempty" mapstructure:"return"`
}

// SeedA returns the initial infected count of group A.
func (p Params) SeedA() float64 {
	if p.InfectedA > 0 {
		return p.InfectedA
	}
	return p.SeedFractionA * p.Na
}

// SeedB returns the initial infected count of group B.
func (p Params) SeedB() float64 {
	if p.InfectedB > 0 {
		return p.InfectedB
	}
	return p.SeedFractionB * p.Nb
}

// Capacity returns the combined nominal size Na+Nb.
func (p Params) Capacity() float64 {
	return p.Na + p.Nb
}
