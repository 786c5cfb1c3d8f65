package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/travelsir/pkg/domain"
)

// Overlay contains a snapshot whose values are printed on the diagram.
type Overlay struct {
	Snapshot domain.Snapshot
}

// GenerateMermaid produces a Mermaid flowchart of the compartment model for p.
// Each population is a subgraph holding its S, I and R compartments:
// - Disease progression: solid arrows labelled with the governing rate
// - Travel: dotted arrows from a group to the visitor compartment it feeds
// - Return: dotted arrows back home, shaped by the return policy
// With an overlay, nodes carry the snapshot's values and infected
// compartments with a positive count are highlighted.
func GenerateMermaid(p domain.Params, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	type host struct {
		k, rec string
	}
	hosts := map[domain.Population]host{
		domain.GroupA:       {"Ka", "Ra"},
		domain.GroupB:       {"Kb", "Rb"},
		domain.VisitorsAInB: {"Kb", "Rb"},
		domain.VisitorsBInA: {"Ka", "Ra"},
	}

	for _, pop := range domain.Populations {
		h := hosts[pop]
		fmt.Fprintf(&sb, "    subgraph %s[\"%s\"]\n", subgraphID(pop), pop)
		for _, c := range domain.Compartments {
			label := c.String()
			if overlay != nil {
				label = fmt.Sprintf("%s <br/> %.1f", c, overlay.Snapshot.Value(pop, c))
			}
			fmt.Fprintf(&sb, "        %s[\"%s\"]\n", nodeID(pop, c), label)
		}
		fmt.Fprintf(&sb, "        %s -- \"%s\" --> %s\n", nodeID(pop, domain.Susceptible), h.k, nodeID(pop, domain.Infected))
		fmt.Fprintf(&sb, "        %s -- \"%s\" --> %s\n", nodeID(pop, domain.Infected), h.rec, nodeID(pop, domain.Recovered))
		sb.WriteString("    end\n")
	}

	travel := []struct {
		from, to domain.Population
		rate     string
	}{
		{domain.GroupA, domain.VisitorsAInB, fmt.Sprintf("%g/%d", p.Mab, p.Dab)},
		{domain.GroupB, domain.VisitorsBInA, fmt.Sprintf("%g/%d", p.Mba, p.Dba)},
	}
	for _, t := range travel {
		for _, c := range domain.Compartments {
			fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", nodeID(t.from, c), t.rate, nodeID(t.to, c))
		}
	}

	// Arrivals into each home group
	for _, c := range domain.Compartments {
		if p.Return.Resolve() == domain.ReturnNone {
			fmt.Fprintf(&sb, "    %s -. \"absorbed\" .-> %s\n", nodeID(domain.GroupB, c), nodeID(domain.GroupA, c))
			fmt.Fprintf(&sb, "    %s -. \"absorbed\" .-> %s\n", nodeID(domain.GroupA, c), nodeID(domain.GroupB, c))
			continue
		}
		fmt.Fprintf(&sb, "    %s -. \"return\" .-> %s\n", nodeID(domain.VisitorsAInB, c), nodeID(domain.GroupA, c))
		fmt.Fprintf(&sb, "    %s -. \"return\" .-> %s\n", nodeID(domain.VisitorsBInA, c), nodeID(domain.GroupB, c))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds
		sb.WriteString("    classDef infected fill:#fecaca,stroke:#b91c1c,stroke-width:2px,color:#000;\n")
		for _, pop := range domain.Populations {
			if overlay.Snapshot.Value(pop, domain.Infected) > 0 {
				fmt.Fprintf(&sb, "    class %s infected;\n", nodeID(pop, domain.Infected))
			}
		}
	}

	return sb.String()
}

func subgraphID(p domain.Population) string {
	return "pop_" + p.Key()
}

func nodeID(p domain.Population, c domain.Compartment) string {
	return p.Key() + "_" + strings.ToLower(c.String())
}
