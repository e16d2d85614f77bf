package scene

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Jet is the body colour map, dark blue through red.
var Jet = []colorful.Color{
	mustHex("#000080"),
	mustHex("#0000bd"),
	mustHex("#0000fa"),
	mustHex("#0022ff"),
	mustHex("#0057ff"),
	mustHex("#008dff"),
	mustHex("#00c3ff"),
	mustHex("#0ff8e8"),
	mustHex("#3affbc"),
	mustHex("#66ff91"),
	mustHex("#91ff66"),
	mustHex("#bcff3a"),
	mustHex("#e8ff0f"),
	mustHex("#ffd500"),
	mustHex("#ffa400"),
	mustHex("#ff7200"),
	mustHex("#ff4000"),
	mustHex("#fa0e00"),
	mustHex("#bd0000"),
	mustHex("#800000"),
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// BodyColor picks the jet stop for body index i of n. Bodies are spread
// over the map with a stride of len(Jet)/n.
func BodyColor(i, n int) colorful.Color {
	if n <= 0 {
		return Jet[0]
	}
	stride := len(Jet) / n
	idx := i * stride
	if idx >= len(Jet) {
		idx = len(Jet) - 1
	}
	return Jet[idx]
}

// JetAt samples the colour map at t in [0, 1], blending neighbouring stops
// in Lab space.
func JetAt(t float64) colorful.Color {
	if t <= 0 {
		return Jet[0]
	}
	if t >= 1 {
		return Jet[len(Jet)-1]
	}
	pos := t * float64(len(Jet)-1)
	lo := int(pos)
	return Jet[lo].BlendLab(Jet[lo+1], pos-float64(lo))
}

// Fade blends c toward bg by t; trails use it to age older points.
func Fade(c, bg colorful.Color, t float64) colorful.Color {
	return c.BlendLab(bg, t).Clamped()
}
