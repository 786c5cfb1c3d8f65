package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/travelsir/pkg/domain"
)

// maxListedAnomalies caps the anomaly list of the Markdown digest.
const maxListedAnomalies = 10

// Markdown renders a human-readable digest of the run.
func Markdown(res *domain.Result) string {
	if res == nil || res.Len() == 0 {
		return "# Simulation\n\nNo steps were produced.\n"
	}
	sum := Summarize(res)
	p := res.Params

	var b strings.Builder
	fmt.Fprintf(&b, "# Simulation over %d weeks\n\n", sum.Weeks)
	fmt.Fprintf(&b, "Group A: **%g** people, transmission %g, recovery %g. ", p.Na, p.Ka, p.Ra)
	fmt.Fprintf(&b, "Group B: **%g** people, transmission %g, recovery %g.\n\n", p.Nb, p.Kb, p.Rb)
	fmt.Fprintf(&b, "Travel A→B %g%% for %d weeks, B→A %g%% for %d weeks, return policy `%s`.\n\n",
		p.Mab*100, p.Dab, p.Mba*100, p.Dba, sum.Policy)

	b.WriteString("## Infection peaks\n\n")
	b.WriteString("| Population | Peak infected | Week |\n|---|---:|---:|\n")
	for _, pk := range sum.Peaks {
		fmt.Fprintf(&b, "| %s | %.2f | %d |\n", pk.Population, pk.Value, pk.Week)
	}

	b.WriteString("\n## Final outcome\n\n")
	b.WriteString("| Group | Infected | Recovered | Attack rate |\n|---|---:|---:|---:|\n")
	for _, g := range sum.Groups {
		fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.1f%% |\n", g.Population, g.Infected, g.Recovered, g.AttackRate*100)
	}

	b.WriteString("\n## Conservation\n\n")
	fmt.Fprintf(&b, "Total population went from %.6g to %.6g (max relative drift %.2e).\n",
		sum.InitialTotal, sum.FinalTotal, sum.MaxDrift)

	if len(res.Anomalies) > 0 {
		fmt.Fprintf(&b, "\n## Anomalies (%d)\n\n", len(res.Anomalies))
		for i, a := range res.Anomalies {
			if i == maxListedAnomalies {
				fmt.Fprintf(&b, "- … and %d more\n", len(res.Anomalies)-maxListedAnomalies)
				break
			}
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}

	return b.String()
}
