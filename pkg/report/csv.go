package report

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"

	"github.com/aretw0/travelsir/pkg/domain"
)

// ErrEmptyResult is returned when there is nothing to report.
var ErrEmptyResult = errors.New("result has no steps")

// Columns returns the CSV header: the step index, the twelve compartments in
// population order (a, b, ab, ba) and the grand total.
func Columns() []string {
	cols := []string{"week"}
	for _, p := range domain.Populations {
		for _, c := range []string{"s", "i", "r"} {
			cols = append(cols, p.Key()+"_"+c)
		}
	}
	return append(cols, "total")
}

// WriteCSV writes one row per step. Values use the shortest representation
// that round-trips.
func WriteCSV(w io.Writer, res *domain.Result) error {
	if res == nil || res.Len() == 0 {
		return ErrEmptyResult
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns()); err != nil {
		return err
	}

	row := make([]string, 0, 14)
	for _, s := range res.Steps {
		row = append(row[:0], strconv.Itoa(s.Step))
		for _, v := range s.Values() {
			row = append(row, formatFloat(v))
		}
		row = append(row, formatFloat(s.GrandTotal()))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
