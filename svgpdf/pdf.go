// Package svgpdf implements a PDF backend for the svgrender contract,
// by wrapping github.com/jung-kurt/gofpdf.
//
// The caller owns the document: page setup, fonts and output stay its
// responsibility; the renderer only emits drawing content onto the
// current page.
package svgpdf

import (
	"github.com/jung-kurt/gofpdf"

	"github.com/bungeman/svg-native-viewer/svgpath"
	"github.com/bungeman/svg-native-viewer/svgrender"
)

var _ svgrender.Renderer = (*Renderer)(nil) // assert interface conformance

// flattenTol bounds the chord error when a clip path is reduced to a
// polygon, in document units.
const flattenTol = 0.2

// Renderer writes drawing calls to the given PDF document.
type Renderer struct {
	pdf   *gofpdf.Fpdf
	stack []state
	nimg  int
}

// state is one entry of the graphic-state stack. clips counts the
// gofpdf clip scopes the entry opened, to be closed on Restore.
type state struct {
	gs    svgpath.GraphicState
	clips int
}

// NewRenderer returns a renderer which will write to the given pdf.
func NewRenderer(pdf *gofpdf.Fpdf) *Renderer {
	return &Renderer{
		pdf:   pdf,
		stack: []state{{gs: svgpath.NewGraphicState()}},
	}
}

// CreatePath returns a new empty path.
func (rd *Renderer) CreatePath() svgrender.Path { return svgpath.NewPath() }

// CreateShape returns a new shape over a copy of the path's geometry.
func (rd *Renderer) CreateShape(path svgrender.Path, rule svgrender.WindingRule) svgrender.Shape {
	return svgpath.NewShape(path, rule)
}

// CreateTransform returns a new identity transform.
func (rd *Renderer) CreateTransform() svgrender.Transform { return svgpath.NewTransform() }

func (rd *Renderer) top() *state { return &rd.stack[len(rd.stack)-1] }

// Save pushes a graphic state composed with the incoming style and
// opens a clip scope for the style's clipping path, if any.
func (rd *Renderer) Save(style svgrender.GraphicStyle) {
	top := rd.top()
	next := state{gs: top.gs.Compose(style)}
	if style.ClippingPath != nil {
		next.clips = rd.beginClip(style.ClippingPath, next.gs.Matrix)
	}
	rd.stack = append(rd.stack, next)
}

// Restore pops the graphic-state stack, closing the clip scopes the
// popped entry opened. Restoring past the root state is a programmer
// error and panics.
func (rd *Renderer) Restore() {
	if len(rd.stack) == 1 {
		panic("svgpdf: Restore without matching Save")
	}
	st := rd.stack[len(rd.stack)-1]
	rd.stack = rd.stack[:len(rd.stack)-1]
	for i := 0; i < st.clips; i++ {
		rd.pdf.ClipEnd()
	}
}

// DrawPath paints the fill and then, on top of it, the stroke of the
// path, composing the call's style atop the current graphic state
// without pushing it.
func (rd *Renderer) DrawPath(path svgrender.Path, style svgrender.GraphicStyle, fill svgrender.FillStyle, stroke svgrender.StrokeStyle) {
	p, ok := path.(*svgpath.Path)
	if !ok || len(p.Operations()) == 0 {
		return
	}
	top := rd.top()
	eff := top.gs.Compose(style)
	if eff.Opacity <= 0 {
		return
	}
	clips := 0
	if style.ClippingPath != nil {
		clips = rd.beginClip(style.ClippingPath, eff.Matrix)
	}

	if fill.HasFill && fill.Paint != nil {
		switch paint := fill.Paint.(type) {
		case svgrender.Color:
			rd.pdf.SetFillColor(toInt255(paint.R), toInt255(paint.G), toInt255(paint.B))
			rd.pdf.SetAlpha(clamp01(fill.Opacity*eff.Opacity*paint.A), "")
			rd.writePath(p, eff.Matrix)
			if fill.FillRule == svgrender.NonZeroWinding {
				rd.pdf.DrawPath("f")
			} else {
				rd.pdf.DrawPath("f*")
			}
		case *svgrender.Gradient:
			rd.fillGradient(p, paint, eff.Matrix, clamp01(fill.Opacity*eff.Opacity))
		}
	}

	if stroke.HasStroke && stroke.Paint != nil && stroke.LineWidth > 0 {
		// Gradient strokes collapse to the ramp's start color; PDF
		// stroke paint is a plain color in this backend.
		var c svgrender.Color
		switch paint := stroke.Paint.(type) {
		case svgrender.Color:
			c = paint
		case *svgrender.Gradient:
			c = paint.ColorAt(0)
			svgrender.Logger().Warn("svgpdf: gradient stroke approximated by its start color")
		}
		scale := eff.Matrix.ScaleFactor()
		rd.pdf.SetDrawColor(toInt255(c.R), toInt255(c.G), toInt255(c.B))
		rd.pdf.SetAlpha(clamp01(stroke.Opacity*eff.Opacity*c.A), "")
		rd.pdf.SetLineWidth(stroke.LineWidth * scale)
		rd.pdf.SetLineCapStyle(capStyles[stroke.Cap])
		rd.pdf.SetLineJoinStyle(joinStyles[stroke.Join])
		if len(stroke.Dash.Dash) > 0 {
			dashes := make([]float64, len(stroke.Dash.Dash))
			for i, d := range stroke.Dash.Dash {
				dashes[i] = d * scale
			}
			rd.pdf.SetDashPattern(dashes, stroke.Dash.DashOffset*scale)
		}
		rd.writePath(p, eff.Matrix)
		rd.pdf.DrawPath("S")
		if len(stroke.Dash.Dash) > 0 {
			rd.pdf.SetDashPattern([]float64{}, 0)
		}
	}

	for i := 0; i < clips; i++ {
		rd.pdf.ClipEnd()
	}
}

var (
	capStyles = [...]string{
		svgrender.ButtCap:   "butt",
		svgrender.RoundCap:  "round",
		svgrender.SquareCap: "square",
	}

	joinStyles = [...]string{
		svgrender.MiterJoin: "miter",
		svgrender.RoundJoin: "round",
		svgrender.BevelJoin: "bevel",
	}
)

// writePath replays the recorded path into pdf path commands, applying
// the device transform point by point.
func (rd *Renderer) writePath(p *svgpath.Path, m svgpath.Matrix) {
	for _, op := range p.Operations() {
		switch op := op.(type) {
		case svgpath.MoveTo:
			rd.pdf.MoveTo(m.Apply(op.X, op.Y))
		case svgpath.LineTo:
			rd.pdf.LineTo(m.Apply(op.X, op.Y))
		case svgpath.CubicTo:
			cx0, cy0 := m.Apply(op[0].X, op[0].Y)
			cx1, cy1 := m.Apply(op[1].X, op[1].Y)
			x, y := m.Apply(op[2].X, op[2].Y)
			rd.pdf.CurveBezierCubicTo(cx0, cy0, cx1, cy1, x, y)
		case svgpath.Close:
			rd.pdf.ClosePath()
		}
	}
}

// fillGradient paints a gradient fill by clipping to the path and
// emitting a gofpdf gradient over its bounding box.
//
// gofpdf gradients are two-stop, so the ramp is collapsed to its end
// colors and per-stop alpha is dropped.
// TODO: emit a /Shading dictionary carrying the full stop list.
func (rd *Renderer) fillGradient(p *svgpath.Path, g *svgrender.Gradient, m svgpath.Matrix, alpha float64) {
	bx, by, bw, bh, ok := deviceBounds(p, m)
	if !ok || bw <= 0 || bh <= 0 {
		return
	}
	clips := rd.clipToPath(p, m)
	c0, c1 := g.ColorAt(0), g.ColorAt(1)
	gm := m.Mul(svgpath.MatrixOf(g.Transform))
	rd.pdf.SetAlpha(alpha, "")
	switch g.Type {
	case svgrender.LinearGradient:
		x1, y1 := gm.Apply(g.X1.Or(0), g.Y1.Or(0))
		x2, y2 := gm.Apply(g.X2.Or(0), g.Y2.Or(0))
		rd.pdf.LinearGradient(bx, by, bw, bh,
			toInt255(c0.R), toInt255(c0.G), toInt255(c0.B),
			toInt255(c1.R), toInt255(c1.G), toInt255(c1.B),
			(x1-bx)/bw, (y1-by)/bh, (x2-bx)/bw, (y2-by)/bh)
	case svgrender.RadialGradient:
		ucx, ucy := g.CX.Or(0), g.CY.Or(0)
		cx, cy := gm.Apply(ucx, ucy)
		fx, fy := gm.Apply(g.FX.Or(ucx), g.FY.Or(ucy))
		r := g.R.Or(0) * gm.ScaleFactor()
		side := bw
		if bh > side {
			side = bh
		}
		rd.pdf.RadialGradient(bx, by, bw, bh,
			toInt255(c0.R), toInt255(c0.G), toInt255(c0.B),
			toInt255(c1.R), toInt255(c1.G), toInt255(c1.B),
			(fx-bx)/bw, (fy-by)/bh, (cx-bx)/bw, (cy-by)/bh, r/side)
	}
	for i := 0; i < clips; i++ {
		rd.pdf.ClipEnd()
	}
}

// clipToPath opens a clip scope tracing the path. Single-subpath
// geometry clips to its flattened outline; anything richer falls back
// to the bounding box, since gofpdf only exposes rect and polygon clip
// primitives.
func (rd *Renderer) clipToPath(p *svgpath.Path, m svgpath.Matrix) int {
	subs := p.Flatten(m, flattenTol)
	if len(subs) == 1 && len(subs[0]) >= 3 {
		pts := make([]gofpdf.PointType, len(subs[0]))
		for i, pt := range subs[0] {
			pts[i] = gofpdf.PointType{X: pt.X, Y: pt.Y}
		}
		rd.pdf.ClipPolygon(pts, false)
		return 1
	}
	bx, by, bw, bh, ok := deviceBounds(p, m)
	if !ok {
		return 0
	}
	svgrender.Logger().Debug("svgpdf: multi-subpath clip approximated by bounding box")
	rd.pdf.ClipRect(bx, by, bw, bh, false)
	return 1
}

// beginClip opens clip scopes for a clip shape under the device
// transform and returns how many scopes were opened.
func (rd *Renderer) beginClip(shape svgrender.Shape, m svgpath.Matrix) int {
	s, ok := shape.(*svgpath.Shape)
	if !ok {
		svgrender.Logger().Debug("svgpdf: foreign Shape implementation ignored as clip")
		return 0
	}
	members := s.Members()
	if len(members) == 1 {
		return rd.clipToPath(members[0].Path, m)
	}
	// A multi-member clip is a union; clip scopes intersect, so the
	// union is approximated by the shape's overall bounding box.
	min, max, sok := s.Bounds()
	if !sok {
		return 0
	}
	bx, by, bw, bh := mapBox(m, min, max)
	if bw <= 0 || bh <= 0 {
		return 0
	}
	svgrender.Logger().Debug("svgpdf: multi-member clip approximated by bounding box")
	rd.pdf.ClipRect(bx, by, bw, bh, false)
	return 1
}

// deviceBounds maps the path's local bounding box into device space.
func deviceBounds(p *svgpath.Path, m svgpath.Matrix) (x, y, w, h float64, ok bool) {
	min, max, ok := p.Bounds()
	if !ok {
		return 0, 0, 0, 0, false
	}
	x, y, w, h = mapBox(m, min, max)
	return x, y, w, h, true
}

// mapBox maps an axis-aligned box through m and returns the bounding
// box of the mapped corners.
func mapBox(m svgpath.Matrix, min, max svgpath.Point) (x, y, w, h float64) {
	corners := [4][2]float64{{min.X, min.Y}, {max.X, min.Y}, {max.X, max.Y}, {min.X, max.Y}}
	x0, y0 := m.Apply(corners[0][0], corners[0][1])
	x1, y1 := x0, y0
	for _, c := range corners[1:] {
		cx, cy := m.Apply(c[0], c[1])
		if cx < x0 {
			x0 = cx
		}
		if cy < y0 {
			y0 = cy
		}
		if cx > x1 {
			x1 = cx
		}
		if cy > y1 {
			y1 = cy
		}
	}
	return x0, y0, x1 - x0, y1 - y0
}

func toInt255(v float64) int {
	return int(clamp01(v)*255 + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
