package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/nbody"
)

// ExportData is the JSON document written for one run.
type ExportData struct {
	G       float64               `json:"g"`
	Dt      float64               `json:"dt"`
	Floor   float64               `json:"floor"`
	Ticks   int                   `json:"ticks"`
	Bodies  []experiment.BodyInfo `json:"bodies"`
	Times   []float64             `json:"times"`
	States  [][][3]float64        `json:"states"`
	Energy  []float64             `json:"energy"`
	Metrics map[string]float64    `json:"metrics"`
	Errors  []string              `json:"errors,omitempty"`
}

func NewExportData(p nbody.Params, result *experiment.Result) ExportData {
	data := ExportData{
		G:       p.G,
		Dt:      p.Dt,
		Floor:   p.Floor,
		Ticks:   result.Ticks,
		Bodies:  result.Bodies,
		Times:   make([]float64, len(result.Samples)),
		States:  make([][][3]float64, len(result.Samples)),
		Energy:  result.EnergySeries(),
		Metrics: result.Metrics,
	}
	for i, s := range result.Samples {
		data.Times[i] = s.Time
		data.States[i] = make([][3]float64, len(s.Positions))
		for j, pos := range s.Positions {
			data.States[i][j] = pos
		}
	}
	for _, err := range result.Errors {
		data.Errors = append(data.Errors, err.Error())
	}
	return data
}

// WriteJSON writes the run as indented JSON.
func WriteJSON(w io.Writer, p nbody.Params, result *experiment.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(p, result))
}
