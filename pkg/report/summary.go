package report

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/aretw0/travelsir/pkg/domain"
)

// Peak is the largest infected count a population reached.
type Peak struct {
	Population domain.Population `json:"population"`
	Value      float64           `json:"value"`
	Week       int               `json:"week"`
}

// GroupOutcome describes how a home group fared by the end of the run.
// Members abroad are counted with their home group.
type GroupOutcome struct {
	Population domain.Population `json:"population"`
	Size       float64           `json:"size"`
	Infected   float64           `json:"infected"`
	Recovered  float64           `json:"recovered"`
	// AttackRate is the share of the group that is or has been infected.
	AttackRate float64 `json:"attack_rate"`
}

// Summary condenses a run into a handful of headline figures.
type Summary struct {
	Weeks        int                 `json:"weeks"`
	Policy       domain.ReturnPolicy `json:"policy"`
	InitialTotal float64             `json:"initial_total"`
	FinalTotal   float64             `json:"final_total"`
	// MaxDrift is the largest relative deviation of the grand total from
	// its step-0 value.
	MaxDrift  float64        `json:"max_drift"`
	Peaks     []Peak         `json:"peaks"`
	Groups    []GroupOutcome `json:"groups"`
	Anomalies int            `json:"anomalies"`
}

// Summarize computes the summary of res. An empty result yields a zero Summary.
func Summarize(res *domain.Result) Summary {
	if res == nil || res.Len() == 0 {
		return Summary{}
	}

	initial, final := res.Initial(), res.Final()
	sum := Summary{
		Weeks:        final.Step,
		Policy:       res.Params.Return.Resolve(),
		InitialTotal: initial.GrandTotal(),
		FinalTotal:   final.GrandTotal(),
		MaxDrift:     maxDrift(res.Totals()),
		Anomalies:    len(res.Anomalies),
	}

	for _, p := range domain.Populations {
		series := res.Series(p, domain.Infected)
		idx := floats.MaxIdx(series)
		sum.Peaks = append(sum.Peaks, Peak{Population: p, Value: series[idx], Week: res.Steps[idx].Step})
	}

	sum.Groups = []GroupOutcome{
		outcome(domain.GroupA, res.Params.Na, final.A, final.AInB),
		outcome(domain.GroupB, res.Params.Nb, final.B, final.BInA),
	}
	return sum
}

func outcome(p domain.Population, size float64, home, abroad domain.SIR) GroupOutcome {
	o := GroupOutcome{
		Population: p,
		Size:       size,
		Infected:   home.I + abroad.I,
		Recovered:  home.R + abroad.R,
	}
	if size > 0 {
		o.AttackRate = (o.Infected + o.Recovered) / size
	}
	return o
}

func maxDrift(totals []float64) float64 {
	base := totals[0]
	dev := make([]float64, len(totals))
	copy(dev, totals)
	floats.AddConst(-base, dev)
	drift := floats.Norm(dev, math.Inf(1))
	if base == 0 {
		return drift
	}
	return drift / math.Abs(base)
}
