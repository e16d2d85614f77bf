package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/gravsim/internal/experiment"
)

var csvHeader = []string{"tick", "time", "id", "x", "y", "z"}

// WriteCSV writes one row per body per sample.
func WriteCSV(w io.Writer, result *experiment.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	row := make([]string, len(csvHeader))
	for _, s := range result.Samples {
		for j, pos := range s.Positions {
			id := j
			if j < len(result.Bodies) {
				id = result.Bodies[j].ID
			}
			row[0] = strconv.FormatUint(s.Tick, 10)
			row[1] = f(s.Time)
			row[2] = strconv.Itoa(id)
			row[3], row[4], row[5] = f(pos[0]), f(pos[1]), f(pos[2])
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
