package scene

import "github.com/go-gl/mathgl/mgl64"

// Trail keeps the most recent positions of one body.
type Trail struct {
	max    int
	points []mgl64.Vec3
}

func NewTrail(max int) *Trail {
	return &Trail{max: max, points: make([]mgl64.Vec3, 0, max)}
}

// Push appends p, dropping the oldest point once the trail is full.
func (t *Trail) Push(p mgl64.Vec3) {
	if t.max <= 0 {
		return
	}
	if len(t.points) == t.max {
		copy(t.points, t.points[1:])
		t.points = t.points[:t.max-1]
	}
	t.points = append(t.points, p)
}

// Points returns the trail oldest first. The slice is only valid until the
// next Push.
func (t *Trail) Points() []mgl64.Vec3 { return t.points }

func (t *Trail) Len() int { return len(t.points) }

func (t *Trail) Clear() { t.points = t.points[:0] }
