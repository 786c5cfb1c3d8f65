package report

import (
	"encoding/json"
	"io"

	"github.com/aretw0/travelsir/pkg/domain"
)

// Document is the JSON form of a run: the result plus its summary.
type Document struct {
	*domain.Result
	Summary Summary `json:"summary"`
}

// WriteJSON writes the result and its summary as indented JSON.
func WriteJSON(w io.Writer, res *domain.Result) error {
	if res == nil || res.Len() == 0 {
		return ErrEmptyResult
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{Result: res, Summary: Summarize(res)})
}
