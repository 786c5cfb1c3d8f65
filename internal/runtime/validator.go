package runtime

import (
	"math"

	"github.com/aretw0/travelsir/pkg/domain"
)

// Validate checks every parameter against its documented domain and reports
// all failures at once. The returned error matches domain.ErrInvalidParameter.
func Validate(p domain.Params) error {
	var errs []*domain.ParameterError
	fail := func(field, reason string, value any) {
		errs = append(errs, &domain.ParameterError{Field: field, Reason: reason, Value: value})
	}

	population := func(field string, v float64) {
		if !finite(v) {
			fail(field, "must be a finite number", v)
		} else if v < 0 {
			fail(field, "must not be negative", v)
		}
	}
	unit := func(field string, v float64) {
		if !finite(v) || v < 0 || v > 1 {
			fail(field, "must lie in [0, 1]", v)
		}
	}
	coefficient := func(field string, v float64) {
		if !finite(v) || v < 0 {
			fail(field, "must be a finite number >= 0", v)
		}
	}
	stay := func(field string, v int) {
		if v <= 0 {
			fail(field, "must be a positive number of steps", v)
		}
	}
	seed := func(group string, count, fraction, size float64) {
		countField, fractionField := "infected_"+group, "seed_fraction_"+group
		if !finite(count) || count < 0 {
			fail(countField, "must not be negative", count)
		} else if finite(size) && size >= 0 && count > size {
			fail(countField, "must not exceed the group size", count)
		}
		unit(fractionField, fraction)
		if count > 0 && fraction > 0 {
			fail(fractionField, "cannot be combined with "+countField, fraction)
		}
	}

	population("na", p.Na)
	population("nb", p.Nb)
	coefficient("ka", p.Ka)
	coefficient("kb", p.Kb)
	unit("ra", p.Ra)
	unit("rb", p.Rb)
	unit("mab", p.Mab)
	unit("mba", p.Mba)
	stay("dab", p.Dab)
	stay("dba", p.Dba)
	if p.Weeks < 0 {
		fail("weeks", "must not be negative", p.Weeks)
	}
	seed("a", p.InfectedA, p.SeedFractionA, p.Na)
	seed("b", p.InfectedB, p.SeedFractionB, p.Nb)
	if !p.Return.Valid() {
		fail("return", "must be one of cohort, none", string(p.Return))
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
