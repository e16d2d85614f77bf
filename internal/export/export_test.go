package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/nbody"
)

func sampleResult() *experiment.Result {
	return &experiment.Result{
		Bodies: []experiment.BodyInfo{
			{ID: 0, Mass: 1024, Level: 10, Color: "#000080"},
			{ID: 1, Mass: 2, Level: 1, Color: "#ff4000"},
		},
		Samples: []experiment.Sample{
			{Tick: 0, Time: 0, Positions: []mgl64.Vec3{{0, 0, 0}, {100, 0, 0}}, Energy: -2048000},
			{Tick: 10, Time: 0.01, Positions: []mgl64.Vec3{{0.1, 0, 0}, {90, 5, 0}}, Energy: -2048001},
		},
		Metrics: map[string]float64{"energy_drift": 1e-6},
		Ticks:   10,
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"tick", "time", "id", "x", "y", "z"}, rows[0])
	assert.Equal(t, []string{"10", "0.01", "1", "90", "5", "0"}, rows[4])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nbody.DefaultParams(), sampleResult()))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, 1e5, data.G)
	assert.Equal(t, 10, data.Ticks)
	assert.Equal(t, []float64{0, 0.01}, data.Times)
	assert.Equal(t, [3]float64{90, 5, 0}, data.States[1][1])
	assert.Equal(t, "#ff4000", data.Bodies[1].Color)
	assert.Len(t, data.Energy, 2)
	assert.Empty(t, data.Errors)
}

func TestTrajectorySVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TrajectorySVG(&buf, sampleResult(), 400, 300))

	svg := buf.String()
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Equal(t, 2, strings.Count(svg, "<path"))
	assert.Contains(t, svg, `stroke="#ff4000"`)
	assert.Contains(t, svg, `width="400"`)

	err := TrajectorySVG(&buf, &experiment.Result{}, 10, 10)
	assert.Error(t, err)
}
