package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/aretw0/travelsir"
	"github.com/aretw0/travelsir/internal/presentation/tui"
	"github.com/aretw0/travelsir/pkg/domain"
	"github.com/aretw0/travelsir/pkg/observability"
	"github.com/aretw0/travelsir/pkg/report"
)

// Output formats accepted by Run.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Formats lists every output format.
var Formats = []string{FormatText, FormatJSON, FormatCSV, FormatMarkdown}

// RunOptions holds the flags of the run command.
type RunOptions struct {
	ScenarioOptions

	Format    string
	ChartPath string

	// Check enables the invariant check; Strict aborts on the first anomaly.
	Check     bool
	Strict    bool
	Tolerance float64

	Debug bool
	Quiet bool

	Stdout io.Writer
	Stderr io.Writer
}

// Run simulates the scenario and writes the report to Stdout.
func Run(ctx context.Context, opts RunOptions) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, Formats))
	}

	sc, err := loadScenario(opts.ScenarioOptions)
	if err != nil {
		return err
	}

	logger := createLogger(opts.Debug)
	simOpts := []travelsir.Option{travelsir.WithLogger(logger)}
	if opts.Debug {
		simOpts = append(simOpts, travelsir.WithLifecycleHooks(observability.LogHooks(logger)))
	}
	if opts.Check || opts.Strict {
		simOpts = append(simOpts, travelsir.WithAnomalyCheck(opts.Tolerance))
	}
	if opts.Strict {
		simOpts = append(simOpts, travelsir.WithStrict(true))
	}

	interactive := opts.Format == FormatText && !opts.Quiet && tui.IsTerminal(opts.Stdout)
	if interactive {
		tui.PrintBanner(opts.Stdout)
	}

	res, err := travelsir.New(simOpts...).Run(ctx, sc.Params)
	if err != nil {
		if isInterrupted(err) && !opts.Quiet {
			printSystemMessage(opts.Stderr, "Interrupted.")
		}
		return handleExecutionError(err)
	}

	if err := writeReport(opts.Stdout, opts.Format, res); err != nil {
		return WrapExitError(ExitCommandError, "failed to write report", err)
	}

	if opts.ChartPath != "" {
		if err := writeChart(opts.ChartPath, res); err != nil {
			return WrapExitError(ExitCommandError, "failed to write chart", err)
		}
		if !opts.Quiet {
			printSystemMessage(opts.Stderr, "Chart written to %s", opts.ChartPath)
		}
	}

	if opts.Format == FormatText && !opts.Quiet {
		sum := report.Summarize(res)
		fmt.Fprintln(opts.Stdout, tui.Status(sum.Anomalies == 0,
			"%s: %d weeks, %d anomalies, max drift %.2e", sc.Name, sum.Weeks, sum.Anomalies, sum.MaxDrift))
	}
	return nil
}

func writeReport(w io.Writer, format string, res *domain.Result) error {
	switch format {
	case FormatJSON:
		return report.WriteJSON(w, res)
	case FormatCSV:
		return report.WriteCSV(w, res)
	case FormatMarkdown:
		return tui.WriteMarkdown(w, report.Markdown(res))
	}
	return writeTable(w, res)
}

// writeTable prints one aligned row per week with the grand total.
func writeTable(w io.Writer, res *domain.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "week\tA.S\tA.I\tA.R\tB.S\tB.I\tB.R\tAinB.S\tAinB.I\tAinB.R\tBinA.S\tBinA.I\tBinA.R\ttotal\t")
	for _, s := range res.Steps {
		fmt.Fprintf(tw, "%d\t", s.Step)
		for _, v := range s.Values() {
			fmt.Fprintf(tw, "%.2f\t", v)
		}
		fmt.Fprintf(tw, "%.2f\t\n", s.GrandTotal())
	}
	return tw.Flush()
}

func writeChart(path string, res *domain.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.RenderChart(f, res, report.ChartOptions{}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func isValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
