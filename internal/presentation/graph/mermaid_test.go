package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/travelsir/internal/presentation/graph"
	"github.com/aretw0/travelsir/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	params := domain.Params{Mab: 0.05, Dab: 3, Mba: 0.1, Dba: 2}
	legacy := params
	legacy.Return = domain.ReturnNone

	tests := []struct {
		name        string
		params      domain.Params
		overlay     *graph.Overlay
		contains    []string
		notContains []string
	}{
		{
			name:   "Compartments And Progression",
			params: params,
			contains: []string{
				"graph LR",
				"subgraph pop_ab[\"A in B\"]",
				"a_s[\"S\"]",
				"a_s -- \"Ka\" --> a_i",
				"b_i -- \"Rb\" --> b_r",
				// visitors catch the disease at the host's rates
				"ab_s -- \"Kb\" --> ab_i",
				"ba_i -- \"Ra\" --> ba_r",
			},
		},
		{
			name:   "Travel Rates",
			params: params,
			contains: []string{
				"a_s -. \"0.05/3\" .-> ab_s",
				"b_r -. \"0.1/2\" .-> ba_r",
			},
		},
		{
			name:        "Cohort Return",
			params:      params,
			contains:    []string{"ab_i -. \"return\" .-> a_i", "ba_s -. \"return\" .-> b_s"},
			notContains: []string{"absorbed"},
		},
		{
			name:        "Legacy Absorption",
			params:      legacy,
			contains:    []string{"b_s -. \"absorbed\" .-> a_s", "a_r -. \"absorbed\" .-> b_r"},
			notContains: []string{"\"return\""},
		},
		{
			name:   "Overlay",
			params: params,
			overlay: &graph.Overlay{Snapshot: domain.Snapshot{
				A: domain.SIR{S: 990, I: 10},
			}},
			contains: []string{
				"a_s[\"S <br/> 990.0\"]",
				"classDef infected",
				"class a_i infected;",
			},
			notContains: []string{"class b_i infected;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.params, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q\ngot:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(got, unwanted) {
					t.Errorf("expected output NOT to contain %q", unwanted)
				}
			}
		})
	}
}
