package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/travelsir/internal/runtime"
	"github.com/aretw0/travelsir/internal/testutils"
	"github.com/aretw0/travelsir/pkg/domain"
	"github.com/aretw0/travelsir/pkg/report"
)

func run(t *testing.T, p domain.Params, opts ...runtime.EngineOption) *domain.Result {
	t.Helper()
	res, err := runtime.NewEngine(opts...).Run(context.Background(), p)
	require.NoError(t, err)
	return res
}

// travelOnly has no infection at all, so every value stays an exact integer.
func travelOnly() domain.Params {
	return domain.Params{
		Na: 100, Nb: 50,
		Mab: 0.1, Mba: 0.2,
		Dab: 1, Dba: 1,
		Weeks: 2,
	}
}

func outbreak() domain.Params {
	return testutils.OriginalScenario(60)
}

func TestWriteCSV_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, run(t, travelOnly())))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".csv.golden"),
	)
	g.Assert(t, "travel_only", buf.Bytes())
}

func TestWriteCSV_Shape(t *testing.T) {
	var buf bytes.Buffer
	res := run(t, outbreak())
	require.NoError(t, report.WriteCSV(&buf, res))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	assert.Len(t, lines, res.Len()+1)
	for _, l := range lines {
		assert.Len(t, bytes.Split(l, []byte(",")), len(report.Columns()))
	}
	assert.Len(t, report.Columns(), 14)
}

func TestEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, report.WriteCSV(&buf, nil), report.ErrEmptyResult)
	assert.ErrorIs(t, report.WriteJSON(&buf, &domain.Result{}), report.ErrEmptyResult)
	assert.ErrorIs(t, report.RenderChart(&buf, nil, report.ChartOptions{}), report.ErrEmptyResult)
	assert.Equal(t, report.Summary{}, report.Summarize(nil))
	assert.Contains(t, report.Markdown(nil), "No steps")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, run(t, travelOnly())))

	var doc struct {
		Params  map[string]any   `json:"params"`
		Steps   []map[string]any `json:"steps"`
		Summary struct {
			Weeks  int    `json:"weeks"`
			Policy string `json:"policy"`
			Peaks  []struct {
				Population string `json:"population"`
			} `json:"peaks"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, 100.0, doc.Params["na"])
	require.Len(t, doc.Steps, 3)
	assert.Equal(t, map[string]any{"s": 9.0, "i": 0.0, "r": 0.0}, doc.Steps[2]["a_in_b"])
	assert.Equal(t, 2, doc.Summary.Weeks)
	assert.Equal(t, "cohort", doc.Summary.Policy)
	require.Len(t, doc.Summary.Peaks, 4)
	assert.Equal(t, "ab", doc.Summary.Peaks[2].Population)
}

func TestSummarize(t *testing.T) {
	res := run(t, outbreak())
	testutils.AssertInvariants(t, res, 1e-12)
	sum := report.Summarize(res)

	assert.Equal(t, 60, sum.Weeks)
	assert.Equal(t, domain.ReturnCohort, sum.Policy)
	assert.InDelta(t, 1800, sum.InitialTotal, 1e-9)
	assert.Less(t, sum.MaxDrift, 1e-9)
	assert.Zero(t, sum.Anomalies)

	require.Len(t, sum.Peaks, 4)
	for _, pk := range sum.Peaks {
		series := res.Series(pk.Population, domain.Infected)
		for _, v := range series {
			assert.LessOrEqual(t, v, pk.Value)
		}
		assert.Equal(t, pk.Value, series[pk.Week])
	}
	// the outbreak starts in A, so A peaks no later than B
	assert.LessOrEqual(t, sum.Peaks[0].Week, sum.Peaks[1].Week)

	require.Len(t, sum.Groups, 2)
	for _, g := range sum.Groups {
		assert.Greater(t, g.AttackRate, 0.0)
		assert.LessOrEqual(t, g.AttackRate, 1.0+1e-9)
	}
}

func TestSummarize_LegacyPolicyDrifts(t *testing.T) {
	p := outbreak()
	p.Return = domain.ReturnNone
	res := run(t, p, runtime.WithAnomalyCheck(0))

	sum := report.Summarize(res)
	assert.Equal(t, domain.ReturnNone, sum.Policy)
	assert.Greater(t, sum.MaxDrift, 1e-6)
	assert.Equal(t, len(res.Anomalies), sum.Anomalies)
}

func TestMarkdown(t *testing.T) {
	md := report.Markdown(run(t, outbreak()))

	assert.Contains(t, md, "# Simulation over 60 weeks")
	assert.Contains(t, md, "| A in B |")
	assert.Contains(t, md, "## Final outcome")
	assert.Contains(t, md, "return policy `cohort`")
	assert.NotContains(t, md, "## Anomalies")

	p := outbreak()
	p.Return = domain.ReturnNone
	md = report.Markdown(run(t, p, runtime.WithAnomalyCheck(0)))
	assert.Contains(t, md, "## Anomalies")
	assert.Contains(t, md, "more")
}

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	opts := report.ChartOptions{PanelWidth: 320, PanelHeight: 200}
	require.NoError(t, report.RenderChart(&buf, run(t, outbreak()), opts))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestRenderChart_SingleSnapshot(t *testing.T) {
	p := travelOnly()
	p.Weeks = 0

	var buf bytes.Buffer
	require.NoError(t, report.RenderChart(&buf, run(t, p), report.ChartOptions{}))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2*report.DefaultPanelWidth, cfg.Width)
}
