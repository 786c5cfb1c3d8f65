package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/travelsir/internal/presentation/tui"
	"github.com/aretw0/travelsir/internal/runtime"
	"github.com/aretw0/travelsir/pkg/domain"
)

// Validate checks a scenario without running it and lists every problem.
func Validate(opts ScenarioOptions, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}
	sc, err := loadScenario(opts)
	if err != nil {
		return err
	}

	if err := runtime.Validate(sc.Params); err != nil {
		errs := domain.ParameterErrors(err)
		for _, pe := range errs {
			fmt.Fprintln(w, tui.Status(false, "%s", pe))
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(w, tui.Status(true, "Scenario %q is valid (%d weeks, %g + %g people, return policy %s)",
		sc.Name, sc.Params.Weeks, sc.Params.Na, sc.Params.Nb, sc.Params.Return.Resolve()))
	return nil
}
