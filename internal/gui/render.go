package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/scene"
)

func vec3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v[0]), float32(v[1]), float32(v[2]))
}

func color(c colorful.Color, alpha uint8) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.NewColor(r, g, b, alpha)
}

// drawSim draws every body as a sphere with its fading trail.
func (a *App) drawSim() {
	s := a.Scene.State()
	if s == nil {
		return
	}
	bg := colorful.Color{}

	rl.BeginMode3D(a.Camera)
	for _, b := range s.Bodies {
		v, ok := a.Scene.Visual(b.ID)
		if !ok {
			continue
		}
		a.renderTrail(v, bg)
		rl.DrawSphere(vec3(b.Position), float32(v.Radius), color(v.Color, 255))
	}
	rl.EndMode3D()
}

func (a *App) renderTrail(v *scene.Visual, bg colorful.Color) {
	pts := v.Trail.Points()
	n := len(pts)
	for i := 1; i < n; i++ {
		age := 1 - float64(i)/float64(n)
		rl.DrawLine3D(vec3(pts[i-1]), vec3(pts[i]), color(scene.Fade(v.Color, bg, 0.8*age), 255))
	}
}

// drawSliders draws the body count and one bar per mass level.
func (a *App) drawSliders(x, y int) {
	const (
		barW = 160
		barH = 10
		rowH = 22
	)
	bar := func(row int, label string, fraction float64, fill rl.Color, value string) {
		ty := y + row*rowH
		col := ColText
		if row == a.Selected {
			col = ColSelect
			a.drawText(">", x-14, ty, 16, ColSelect)
		}
		a.drawText(label, x, ty, 16, col)
		rl.DrawRectangle(int32(x+70), int32(ty+4), barW, barH, ColTextDim)
		rl.DrawRectangle(int32(x+70), int32(ty+4), int32(fraction*barW), barH, fill)
		a.drawText(value, x+80+barW, ty, 16, col)
	}

	s := a.Scene.State()
	bar(0, "bodies", float64(s.Len())/config.MaxBodies, ColAccent, fmt.Sprintf("%d", s.Len()))
	for i, sl := range a.Scene.Sliders() {
		fill := ColAccent
		if i < s.Len() {
			if v, ok := a.Scene.Visual(s.Bodies[i].ID); ok {
				fill = color(v.Color, 255)
			}
		}
		bar(i+1, fmt.Sprintf("m%d", i), sl.Level/config.MaxLevel, fill, fmt.Sprintf("%4.1f  %.4g", sl.Level, sl.Mass()))
	}
}

// DrawTelemetry plots total energy over recent frames.
func (a *App) DrawTelemetry(rectX, rectY int) {
	if len(a.Telemetry) < 2 {
		return
	}
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("E: %.4e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
