package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/experiment"
)

// TrajectorySVG draws every body's sampled path projected on the XY plane,
// one polyline per body in its own colour.
func TrajectorySVG(w io.Writer, result *experiment.Result, width, height int) error {
	if len(result.Samples) == 0 {
		return fmt.Errorf("export: no samples to draw")
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range result.Samples {
		for _, p := range s.Positions {
			minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
			minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for b, info := range result.Bodies {
		color := info.Color
		if color == "" {
			color = "#00ff00"
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, color))
		first := true
		for _, s := range result.Samples {
			if b >= len(s.Positions) {
				continue
			}
			p := s.Positions[b]
			x := (p[0] - minX) / rangeX * float64(width)
			y := float64(height) - (p[1]-minY)/rangeY*float64(height)
			if first {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
				first = false
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
