package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/travelsir"
	"github.com/aretw0/travelsir/internal/presentation/graph"
)

// Diagram prints the Mermaid flowchart of the scenario's compartment model.
// A non-negative week runs the scenario and labels the diagram with that
// week's values.
func Diagram(ctx context.Context, opts ScenarioOptions, week int, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}
	sc, err := loadScenario(opts)
	if err != nil {
		return err
	}

	var overlay *graph.Overlay
	if week >= 0 {
		if week > sc.Params.Weeks {
			return NewExitError(ExitCommandError, fmt.Sprintf("week %d is beyond the horizon of %d weeks", week, sc.Params.Weeks))
		}
		res, err := travelsir.Run(ctx, sc.Params)
		if err != nil {
			return handleExecutionError(err)
		}
		overlay = &graph.Overlay{Snapshot: res.Steps[week]}
	}

	_, err = io.WriteString(w, graph.GenerateMermaid(sc.Params, overlay))
	return err
}
