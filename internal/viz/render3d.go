package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gravsim/internal/scene"
)

const (
	minZoom = 0.25
	maxZoom = 8
)

// Projector maps world coordinates onto a canvas through the orbit camera.
// Zoom scales the normalised image around its centre.
type Projector struct {
	Camera scene.Orbit
	Zoom   float64
	Width  int // sub-pixels
	Height int
}

func NewProjector(c *Canvas, cam scene.Orbit, zoom float64) Projector {
	w, h := c.PixelSize()
	return Projector{Camera: cam, Zoom: zoom, Width: w, Height: h}
}

// Project returns the sub-pixel position and camera depth of p. ok is false
// for points behind the camera.
func (p Projector) Project(v mgl64.Vec3) (x, y int, depth float64, ok bool) {
	if p.Width == 0 || p.Height == 0 {
		return 0, 0, 0, false
	}
	aspect := float64(p.Width) / float64(p.Height)
	nx, ny, depth, ok := p.Camera.Project(v, aspect)
	if !ok {
		return 0, 0, depth, false
	}
	x = int(math.Round((nx*p.Zoom + 1) / 2 * float64(p.Width)))
	y = int(math.Round((1 - ny*p.Zoom) / 2 * float64(p.Height)))
	return x, y, depth, true
}

// Radius converts a world radius at depth to sub-pixels.
func (p Projector) Radius(r, depth float64) int {
	if depth <= 0 {
		return 0
	}
	f := 1 / math.Tan(mgl64.DegToRad(p.Camera.FOV)/2)
	px := r * f / depth * float64(p.Height) / 2 * p.Zoom
	return int(math.Min(px, float64(p.Height)))
}

// near reports whether a sub-pixel lies within one canvas size of the
// visible area. Lines to points further out are skipped.
func (p Projector) near(x, y int) bool {
	return x > -p.Width && x < 2*p.Width && y > -p.Height && y < 2*p.Height
}

type sprite struct {
	x, y, r int
	depth   float64
	color   string
}

// DrawScene paints trails, then bodies far to near.
func DrawScene(c *Canvas, sc *scene.Scene, zoom float64, theme Theme) {
	c.Clear()
	s := sc.State()
	if s == nil {
		return
	}
	p := NewProjector(c, sc.Camera(), zoom)
	bg := theme.backdrop()

	sprites := make([]sprite, 0, s.Len())
	for _, b := range s.Bodies {
		v, ok := sc.Visual(b.ID)
		if !ok {
			continue
		}
		drawTrail(c, p, v, bg)

		x, y, depth, ok := p.Project(b.Position)
		if !ok || !p.near(x, y) {
			continue
		}
		sprites = append(sprites, sprite{
			x:     x,
			y:     y,
			r:     p.Radius(v.Radius, depth),
			depth: depth,
			color: v.Color.Hex(),
		})
	}

	sort.Slice(sprites, func(i, j int) bool { return sprites[i].depth > sprites[j].depth })
	for _, sp := range sprites {
		c.FillCircle(sp.x, sp.y, sp.r, sp.color)
	}
}

func drawTrail(c *Canvas, p Projector, v *scene.Visual, bg colorful.Color) {
	pts := v.Trail.Points()
	n := len(pts)
	for i := 1; i < n; i++ {
		x0, y0, _, ok0 := p.Project(pts[i-1])
		x1, y1, _, ok1 := p.Project(pts[i])
		if !ok0 || !ok1 || !p.near(x0, y0) || !p.near(x1, y1) {
			continue
		}
		// oldest segments fade furthest toward the background
		age := 1 - float64(i)/float64(n)
		c.DrawLine(x0, y0, x1, y1, scene.Fade(v.Color, bg, 0.8*age).Hex())
	}
}

func clampZoom(z float64) float64 {
	return math.Max(minZoom, math.Min(maxZoom, z))
}
