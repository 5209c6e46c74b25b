package svgpath

import (
	"fmt"
	"strings"

	"github.com/bungeman/svg-native-viewer/svgrender"
)

// Point is a position in user space, y-down.
type Point struct {
	X, Y float64
}

// Operation is one recorded path command.
type Operation interface {
	transformed(m Matrix) Operation
}

// MoveTo starts a new subpath.
type MoveTo Point

// LineTo draws a line from the current point.
type LineTo Point

// CubicTo draws a cubic Bézier: two control points, then the end point.
type CubicTo [3]Point

// Close closes the current subpath.
type Close struct{}

func (op MoveTo) transformed(m Matrix) Operation {
	x, y := m.Apply(op.X, op.Y)
	return MoveTo{x, y}
}

func (op LineTo) transformed(m Matrix) Operation {
	x, y := m.Apply(op.X, op.Y)
	return LineTo{x, y}
}

func (op CubicTo) transformed(m Matrix) Operation {
	var out CubicTo
	for i, p := range op {
		x, y := m.Apply(p.X, p.Y)
		out[i] = Point{x, y}
	}
	return out
}

func (op Close) transformed(Matrix) Operation { return op }

// kappa scales a radius to the control-point distance of a circular
// quarter arc: 4*(sqrt(2)-1)/3.
const kappa = 0.5522847498307933

// Path records a sequence of subpaths built through the
// svgrender.Path interface. Backends replay the recorded operations
// into their drawing primitives.
//
// Degenerate shortcut shapes (zero or negative extents) record nothing,
// matching SVG's "render nothing" treatment of degenerate geometry.
type Path struct {
	ops   []Operation
	cur   Point
	start Point

	// reflection source for smooth cubics
	ctrl    Point
	hasCtrl bool
	open    bool
}

var _ svgrender.Path = (*Path)(nil)

// NewPath returns a new empty path.
func NewPath() *Path {
	return &Path{}
}

// Operations exposes the recorded commands for replay.
func (p *Path) Operations() []Operation { return p.ops }

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	out := *p
	out.ops = append([]Operation(nil), p.ops...)
	return &out
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.ops = append(p.ops, MoveTo{x, y})
	p.cur = Point{x, y}
	p.start = p.cur
	p.hasCtrl = false
	p.open = true
}

// LineTo appends a line segment to the current subpath.
func (p *Path) LineTo(x, y float64) {
	p.ensureSubpath()
	p.ops = append(p.ops, LineTo{x, y})
	p.cur = Point{x, y}
	p.hasCtrl = false
}

// CurveTo appends a cubic Bézier segment.
func (p *Path) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	p.ensureSubpath()
	p.ops = append(p.ops, CubicTo{{x1, y1}, {x2, y2}, {x3, y3}})
	p.cur = Point{x3, y3}
	p.ctrl = Point{x2, y2}
	p.hasCtrl = true
}

// CurveToV appends a smooth cubic Bézier segment, reflecting the
// previous cubic's second control point through the current point. With
// no preceding cubic the first control point is the current point.
func (p *Path) CurveToV(x2, y2, x3, y3 float64) {
	c1 := p.cur
	if p.hasCtrl {
		c1 = Point{2*p.cur.X - p.ctrl.X, 2*p.cur.Y - p.ctrl.Y}
	} else {
		svgrender.Logger().Debug("svgpath: CurveToV without a preceding curve segment")
	}
	p.CurveTo(c1.X, c1.Y, x2, y2, x3, y3)
}

// ClosePath closes the current subpath back to its start point.
func (p *Path) ClosePath() {
	if !p.open {
		return
	}
	p.ops = append(p.ops, Close{})
	p.cur = p.start
	p.hasCtrl = false
	p.open = false
}

// Rect traces a closed rectangle clockwise from the top-left corner.
func (p *Path) Rect(x, y, width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	p.MoveTo(x, y)
	p.LineTo(x+width, y)
	p.LineTo(x+width, y+height)
	p.LineTo(x, y+height)
	p.ClosePath()
}

// RoundedRect traces a closed rectangle with circular corners of radius
// cornerRadius, clockwise from (x+cornerRadius, y). A non-positive
// radius degenerates to Rect; an oversized radius is clamped to half
// the smaller extent.
func (p *Path) RoundedRect(x, y, width, height, cornerRadius float64) {
	if cornerRadius <= 0 {
		p.Rect(x, y, width, height)
		return
	}
	if width <= 0 || height <= 0 {
		return
	}
	r := cornerRadius
	if r > width/2 {
		r = width / 2
	}
	if r > height/2 {
		r = height / 2
	}
	k := r * kappa
	p.MoveTo(x+r, y)
	p.LineTo(x+width-r, y)
	p.CurveTo(x+width-r+k, y, x+width, y+r-k, x+width, y+r)
	p.LineTo(x+width, y+height-r)
	p.CurveTo(x+width, y+height-r+k, x+width-r+k, y+height, x+width-r, y+height)
	p.LineTo(x+r, y+height)
	p.CurveTo(x+r-k, y+height, x, y+height-r+k, x, y+height-r)
	p.LineTo(x, y+r)
	p.CurveTo(x, y+r-k, x+r-k, y, x+r, y)
	p.ClosePath()
}

// Ellipse traces a closed ellipse clockwise from (cx+rx, cy), using
// four cubic quarter arcs.
func (p *Path) Ellipse(cx, cy, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		return
	}
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(cx+rx, cy)
	p.CurveTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.CurveTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.CurveTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.CurveTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.ClosePath()
}

// ensureSubpath starts a subpath at the current point when a segment
// command arrives before any MoveTo.
func (p *Path) ensureSubpath() {
	if !p.open {
		p.MoveTo(p.cur.X, p.cur.Y)
	}
}

// String returns the path in SVG path-data syntax.
func (p *Path) String() string {
	chunks := make([]string, len(p.ops))
	for i, op := range p.ops {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = fmt.Sprintf("M%4.3f,%4.3f", op.X, op.Y)
		case LineTo:
			chunks[i] = fmt.Sprintf("L%4.3f,%4.3f", op.X, op.Y)
		case CubicTo:
			chunks[i] = fmt.Sprintf("C%4.3f,%4.3f,%4.3f,%4.3f,%4.3f,%4.3f",
				op[0].X, op[0].Y, op[1].X, op[1].Y, op[2].X, op[2].Y)
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}
