package svgrender

import (
	"image/color"
	"math"
	"sort"
)

// Paint is what a fill or stroke is painted with: either a plain Color
// or a *Gradient. Consumers must match both variants exhaustively.
type Paint interface {
	isPaint()
}

// Color is an RGBA color with channels in [0, 1]. A is opacity.
// It implements image/color.Color.
type Color struct {
	R, G, B, A float64
}

func (Color) isPaint() {}

// RGBA implements color.Color, returning alpha-premultiplied channels.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(clamp01(c.A) * 0xffff)
	r = uint32(clamp01(c.R) * clamp01(c.A) * 0xffff)
	g = uint32(clamp01(c.G) * clamp01(c.A) * 0xffff)
	b = uint32(clamp01(c.B) * clamp01(c.A) * 0xffff)
	return
}

// WithOpacity returns the color with its alpha multiplied by opacity.
func (c Color) WithOpacity(opacity float64) Color {
	c.A *= clamp01(opacity)
	return c
}

// FromColor converts a standard color.Color.
func FromColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Color{}
	}
	// un-premultiply
	fa := float64(a) / 0xffff
	return Color{
		R: float64(r) / float64(a),
		G: float64(g) / float64(a),
		B: float64(b) / float64(a),
		A: fa,
	}
}

// Black is the default paint.
var Black = Color{A: 1}

// ColorStop is an (offset, color) pair of a gradient ramp. Offsets are
// in [0, 1] and non-decreasing by convention; enforcing that is the
// caller's responsibility.
type ColorStop struct {
	Offset float64
	Color  Color
}

// ColorMap maps symbolic color names to concrete colors, used by the
// document layer for color substitution before styles reach a backend.
type ColorMap map[string]Color

// GradientType selects between the two supported gradient geometries.
type GradientType uint8

const (
	LinearGradient GradientType = iota
	RadialGradient
)

func (t GradientType) String() string {
	switch t {
	case LinearGradient:
		return "LinearGradient"
	case RadialGradient:
		return "RadialGradient"
	default:
		return "<unknown GradientType>"
	}
}

// SpreadMethod describes how a gradient extends beyond its [0, 1]
// offset range.
type SpreadMethod uint8

const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

func (s SpreadMethod) String() string {
	switch s {
	case PadSpread:
		return "PadSpread"
	case ReflectSpread:
		return "ReflectSpread"
	case RepeatSpread:
		return "RepeatSpread"
	default:
		return "<unknown SpreadMethod>"
	}
}

// Gradient describes a linear or radial gradient paint server.
//
// Only the geometry fields of the active Type are meaningful; the other
// type's fields stay unset. Unset fields of the active geometry are
// absent, not zero: backends apply the usual SVG defaults (a radial
// focal point defaults to its center, for instance).
type Gradient struct {
	Type   GradientType
	Spread SpreadMethod
	Stops  []ColorStop

	// Linear geometry.
	X1, Y1, X2, Y2 Value

	// Radial geometry.
	CX, CY, FX, FY, R Value

	// Transform maps gradient-space coordinates before sampling. It may
	// be shared with other gradients; nil means identity.
	Transform Transform
}

func (*Gradient) isPaint() {}

// ColorAt samples the gradient ramp at offset t, honoring the spread
// method. With no stops it returns transparent; with one stop, that
// stop's color.
func (g *Gradient) ColorAt(t float64) Color {
	if len(g.Stops) == 0 {
		return Color{}
	}
	if len(g.Stops) == 1 {
		return g.Stops[0].Color
	}
	t = spreadOffset(t, g.Spread)
	stops := g.Stops
	i := sort.Search(len(stops), func(i int) bool { return stops[i].Offset >= t })
	if i == 0 {
		return stops[0].Color
	}
	if i == len(stops) {
		return stops[len(stops)-1].Color
	}
	lo, hi := stops[i-1], stops[i]
	if hi.Offset == lo.Offset {
		return lo.Color
	}
	return lerpColor(lo.Color, hi.Color, (t-lo.Offset)/(hi.Offset-lo.Offset))
}

// spreadOffset normalizes t to [0, 1] under the given spread method.
func spreadOffset(t float64, s SpreadMethod) float64 {
	switch s {
	case RepeatSpread:
		t -= math.Floor(t)
		if t < 0 {
			t++
		}
	case ReflectSpread:
		t = math.Abs(t)
		period := math.Floor(t)
		t -= period
		if int(period)%2 == 1 {
			t = 1 - t
		}
	default:
		t = clamp01(t)
	}
	return t
}

func lerpColor(c1, c2 Color, t float64) Color {
	return Color{
		R: c1.R + t*(c2.R-c1.R),
		G: c1.G + t*(c2.G-c1.G),
		B: c1.B + t*(c2.B-c1.B),
		A: c1.A + t*(c2.A-c1.A),
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
