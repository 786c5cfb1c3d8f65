package travelsir

import _ "embed"

// Version is the released version of the travelsir module.
//
//go:embed VERSION
var Version string
