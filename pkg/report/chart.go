package report

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/aretw0/travelsir/pkg/domain"
)

// ChartOptions controls the size of the rendered figure.
type ChartOptions struct {
	// PanelWidth and PanelHeight are the pixel size of one of the four panels.
	PanelWidth  int
	PanelHeight int
}

const (
	DefaultPanelWidth  = 640
	DefaultPanelHeight = 400
)

var compartmentColors = map[domain.Compartment]drawing.Color{
	domain.Susceptible: chart.ColorBlue,
	domain.Infected:    chart.ColorRed,
	domain.Recovered:   chart.ColorGreen,
}

var compartmentNames = map[domain.Compartment]string{
	domain.Susceptible: "Susceptible",
	domain.Infected:    "Infected",
	domain.Recovered:   "Recovered",
}

// RenderChart draws a 2x2 PNG figure, one panel per population in the order
// A, B, A in B, B in A, each showing its S, I and R curves over the weeks.
func RenderChart(w io.Writer, res *domain.Result, opts ChartOptions) error {
	if res == nil || res.Len() == 0 {
		return ErrEmptyResult
	}
	if opts.PanelWidth <= 0 {
		opts.PanelWidth = DefaultPanelWidth
	}
	if opts.PanelHeight <= 0 {
		opts.PanelHeight = DefaultPanelHeight
	}

	canvas := image.NewRGBA(image.Rect(0, 0, 2*opts.PanelWidth, 2*opts.PanelHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for i, p := range domain.Populations {
		panel, err := renderPanel(res, p, opts)
		if err != nil {
			return fmt.Errorf("failed to render panel %q: %w", p, err)
		}
		offset := image.Pt((i%2)*opts.PanelWidth, (i/2)*opts.PanelHeight)
		draw.Draw(canvas, panel.Bounds().Sub(panel.Bounds().Min).Add(offset), panel, panel.Bounds().Min, draw.Src)
	}

	return png.Encode(w, canvas)
}

func renderPanel(res *domain.Result, p domain.Population, opts ChartOptions) (image.Image, error) {
	weeks := res.Weeks()
	xMax := max(weeks[len(weeks)-1], 1)
	yMax := 1.0

	series := make([]chart.Series, 0, len(domain.Compartments))
	for _, c := range domain.Compartments {
		values := res.Series(p, c)
		for _, v := range values {
			yMax = max(yMax, v)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    compartmentNames[c],
			XValues: weeks,
			YValues: values,
			Style: chart.Style{
				StrokeColor: compartmentColors[c],
				StrokeWidth: 2.0,
			},
		})
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Population %s", p),
		Width:  opts.PanelWidth,
		Height: opts.PanelHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Weeks",
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "Population",
			Range: &chart.ContinuousRange{Min: 0, Max: yMax * 1.05},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buffer := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return png.Decode(buffer)
}
