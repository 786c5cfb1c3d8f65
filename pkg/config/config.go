package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/travelsir/pkg/domain"
)

// ErrInvalidScenario is returned when a scenario document cannot be decoded.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a named parameter set, as stored in scenario files.
type Scenario struct {
	Name        string        `yaml:"name,omitempty" json:"name,omitempty"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Params      domain.Params `yaml:"params" json:"params"`
}

// scenarioFile is the raw on-disk form. Params stay untyped so that keys the
// file omits fall back to the defaults.
type scenarioFile struct {
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description" json:"description"`
	Params      map[string]any `yaml:"params" json:"params"`
}

// Default returns the scenario the model was first explored with.
func Default() Scenario {
	return Scenario{
		Name:        "default",
		Description: "Two groups of 1000 and 800 exchanging 5% of their members on three-week trips, A seeded at 1%.",
		Params: domain.Params{
			Na: 1000, Nb: 800,
			Ka: 0.002, Kb: 0.001,
			Ra: 0.1, Rb: 0.05,
			Mab: 0.05, Mba: 0.05,
			Dab: 3, Dba: 3,
			Weeks:         100,
			SeedFractionA: 0.01,
		},
	}
}

// Load reads a scenario file (YAML or JSON, chosen by extension).
// Missing parameters keep their default values. An empty path yields Default().
func Load(path string) (Scenario, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario: %w", err)
	}

	var raw scenarioFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Scenario{}, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidScenario, filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Scenario{}, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidScenario, filepath.Base(path), err)
		}
	}

	params, err := Decode(raw.Params)
	if err != nil {
		return Scenario{}, err
	}

	sc := Scenario{Name: raw.Name, Description: raw.Description, Params: params}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Decode merges loosely typed values onto the default parameters.
// It is used for scenario files and HTTP request bodies alike.
func Decode(raw map[string]any) (domain.Params, error) {
	return merge(Default().Params, raw)
}

// ApplyOverrides applies "key=value" assignments, as given on the command line,
// to p. Values are converted to the field's type; unknown keys are rejected.
func ApplyOverrides(p domain.Params, overrides []string) (domain.Params, error) {
	if len(overrides) == 0 {
		return p, nil
	}

	raw := make(map[string]any, len(overrides))
	for _, o := range overrides {
		key, value, ok := strings.Cut(o, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return p, fmt.Errorf("%w: override %q is not of the form key=value", ErrInvalidScenario, o)
		}
		raw[key] = strings.TrimSpace(value)
	}
	return merge(p, raw)
}

// Keys lists every parameter key accepted by Decode and ApplyOverrides.
func Keys() []string {
	var out map[string]any
	_ = mapstructure.Decode(domain.Params{}, &out)
	keys := make([]string, 0, len(out))
	for k := range out {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func merge(base domain.Params, raw map[string]any) (domain.Params, error) {
	if len(raw) == 0 {
		return base, nil
	}

	out := base
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &out,
	})
	if err != nil {
		return base, err
	}
	if err := dec.Decode(raw); err != nil {
		return base, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	// A group is seeded either by count or by fraction. Naming one form
	// replaces whatever the base used for that group.
	resolveSeed(raw, "infected_a", "seed_fraction_a", &out.InfectedA, &out.SeedFractionA)
	resolveSeed(raw, "infected_b", "seed_fraction_b", &out.InfectedB, &out.SeedFractionB)

	return out, nil
}

func resolveSeed(raw map[string]any, countKey, fractionKey string, count, fraction *float64) {
	_, hasCount := raw[countKey]
	_, hasFraction := raw[fractionKey]
	switch {
	case hasCount && !hasFraction:
		*fraction = 0
	case hasFraction && !hasCount:
		*count = 0
	}
}

// Marshal encodes a scenario as YAML, or JSON when format is "json".
func Marshal(sc Scenario, format string) ([]byte, error) {
	if strings.EqualFold(format, "json") {
		data, err := json.MarshalIndent(sc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return yaml.Marshal(sc)
}
