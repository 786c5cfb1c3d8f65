package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/travelsir/pkg/config"
)

// InitScenario writes the default scenario to path, as JSON when the file
// extension is .json and YAML otherwise. Existing files are kept unless force
// is set.
func InitScenario(path string, force bool, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return NewExitError(ExitCommandError, fmt.Sprintf("%s already exists (use --force to overwrite)", path))
		} else if !errors.Is(err, fs.ErrNotExist) {
			return WrapExitError(ExitCommandError, "failed to inspect target", err)
		}
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	data, err := config.Marshal(config.Default(), format)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode scenario", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write scenario", err)
	}

	printSystemMessage(w, "Scenario written to %s", path)
	return nil
}
