// Package svgraster implements a software rasterizer backend for the
// svgrender contract, by wrapping rasterx.
package svgraster

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/bungeman/svg-native-viewer/internal/b64img"
	"github.com/bungeman/svg-native-viewer/svgpath"
	"github.com/bungeman/svg-native-viewer/svgrender"
)

var _ svgrender.Renderer = (*Renderer)(nil) // assert interface conformance

// Renderer rasterizes drawing calls into an RGBA image.
type Renderer struct {
	img    *image.RGBA
	width  int
	height int
	stack  []state
}

// state is one entry of the graphic-state stack. clip is the alpha
// coverage of the effective clip region, nil when unclipped.
type state struct {
	gs   svgpath.GraphicState
	clip *image.Alpha
}

// NewRenderer returns a renderer drawing into a fresh RGBA image of the
// given pixel dimensions.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
		stack:  []state{{gs: svgpath.NewGraphicState()}},
	}
}

// Image returns the render target.
func (rd *Renderer) Image() *image.RGBA { return rd.img }

// CreatePath returns a new empty path.
func (rd *Renderer) CreatePath() svgrender.Path { return svgpath.NewPath() }

// CreateShape returns a new shape over a copy of the path's geometry.
func (rd *Renderer) CreateShape(path svgrender.Path, rule svgrender.WindingRule) svgrender.Shape {
	return svgpath.NewShape(path, rule)
}

// CreateTransform returns a new identity transform.
func (rd *Renderer) CreateTransform() svgrender.Transform { return svgpath.NewTransform() }

// CreateImageData decodes a base64 image payload.
func (rd *Renderer) CreateImageData(payload string) (svgrender.ImageData, error) {
	src, _, err := b64img.Decode(payload)
	if err != nil {
		return nil, err
	}
	return &imageData{src: src}, nil
}

func (rd *Renderer) top() *state { return &rd.stack[len(rd.stack)-1] }

// Save pushes a graphic state composed with the incoming style. A style
// clip is rasterized under the new effective transform and intersected
// with the current clip, so nested clips narrow monotonically.
func (rd *Renderer) Save(style svgrender.GraphicStyle) {
	top := rd.top()
	next := state{gs: top.gs.Compose(style), clip: top.clip}
	if style.ClippingPath != nil {
		next.clip = intersectMasks(top.clip, rd.shapeMask(style.ClippingPath, next.gs.Matrix))
	}
	rd.stack = append(rd.stack, next)
}

// Restore pops the graphic-state stack. Restoring past the root state
// is a programmer error and panics.
func (rd *Renderer) Restore() {
	if len(rd.stack) == 1 {
		panic("svgraster: Restore without matching Save")
	}
	rd.stack = rd.stack[:len(rd.stack)-1]
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
	eff := state{gs: top.gs.Compose(style), clip: top.clip}
	if style.ClippingPath != nil {
		eff.clip = intersectMasks(top.clip, rd.shapeMask(style.ClippingPath, eff.gs.Matrix))
	}
	if eff.gs.Opacity <= 0 {
		return
	}

	// Clipped drawing goes through a scratch layer composited under the
	// clip coverage.
	target := rd.img
	if eff.clip != nil {
		target = image.NewRGBA(rd.img.Bounds())
	}

	if fill.HasFill && fill.Paint != nil {
		filler := rasterx.NewFiller(rd.width, rd.height, rasterx.NewScannerGV(rd.width, rd.height, target, target.Bounds()))
		filler.SetWinding(fill.FillRule == svgrender.NonZeroWinding)
		replay(filler, p, eff.gs.Matrix)
		rd.setPaint(filler.Scanner, fill.Paint, fill.Opacity*eff.gs.Opacity, eff.gs.Matrix)
		filler.Draw()
	}

	if stroke.HasStroke && stroke.Paint != nil && stroke.LineWidth > 0 {
		dasher := rasterx.NewDasher(rd.width, rd.height, rasterx.NewScannerGV(rd.width, rd.height, target, target.Bounds()))
		scale := eff.gs.Matrix.ScaleFactor()
		var dashes []float64
		for _, d := range stroke.Dash.Dash {
			dashes = append(dashes, d*scale)
		}
		dasher.SetStroke(
			fToFixed(stroke.LineWidth*scale), fToFixed(stroke.MiterLimit),
			capToFunc[stroke.Cap], capToFunc[stroke.Cap], rasterx.FlatGap,
			joinToJoin[stroke.Join], dashes, stroke.Dash.DashOffset*scale,
		)
		replay(dasher, p, eff.gs.Matrix)
		rd.setPaint(dasher.Scanner, stroke.Paint, stroke.Opacity*eff.gs.Opacity, eff.gs.Matrix)
		dasher.Draw()
	}

	if eff.clip != nil {
		draw.DrawMask(rd.img, rd.img.Bounds(), target, image.Point{}, eff.clip, image.Point{}, draw.Over)
	}
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgrender.MiterJoin: rasterx.Miter,
		svgrender.RoundJoin: rasterx.Round,
		svgrender.BevelJoin: rasterx.Bevel,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgrender.ButtCap:   rasterx.ButtCap,
		svgrender.RoundCap:  rasterx.RoundCap,
		svgrender.SquareCap: rasterx.SquareCap,
	}

	spreadToSpread = [...]rasterx.SpreadMethod{
		svgrender.PadSpread:     rasterx.PadSpread,
		svgrender.ReflectSpread: rasterx.ReflectSpread,
		svgrender.RepeatSpread:  rasterx.RepeatSpread,
	}
)

// replay feeds the recorded path into a rasterx adder, applying the
// device transform point by point.
func replay(ad rasterx.Adder, p *svgpath.Path, m svgpath.Matrix) {
	for _, op := range p.Operations() {
		switch op := op.(type) {
		case svgpath.MoveTo:
			ad.Stop(false) // implicit close if currently in path
			ad.Start(trPoint(m, svgpath.Point(op)))
		case svgpath.LineTo:
			ad.Line(trPoint(m, svgpath.Point(op)))
		case svgpath.CubicTo:
			ad.CubeBezier(trPoint(m, op[0]), trPoint(m, op[1]), trPoint(m, op[2]))
		case svgpath.Close:
			ad.Stop(true)
		}
	}
	ad.Stop(false)
}

func trPoint(m svgpath.Matrix, p svgpath.Point) fixed.Point26_6 {
	x, y := m.Apply(p.X, p.Y)
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

func fToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// setPaint resolves a Paint into a scanner color: a plain color with
// the effective opacity applied, or a rasterx gradient color function.
func (rd *Renderer) setPaint(scanner rasterx.Scanner, paint svgrender.Paint, opacity float64, device svgpath.Matrix) {
	switch paint := paint.(type) {
	case svgrender.Color:
		scanner.SetColor(rasterx.ApplyOpacity(paint, opacity))
	case *svgrender.Gradient:
		if flat, ok := degenerateGradientColor(paint); ok {
			scanner.SetColor(rasterx.ApplyOpacity(flat, opacity))
			return
		}
		grad := toRasterxGradient(paint, device)
		scanner.SetColor(grad.GetColorFunction(opacity))
	}
}

// degenerateGradientColor handles gradient geometry that defines no
// usable axis: such gradients legally paint the last stop color.
func degenerateGradientColor(g *svgrender.Gradient) (svgrender.Color, bool) {
	if len(g.Stops) == 0 {
		return svgrender.Color{}, true
	}
	last := g.Stops[len(g.Stops)-1].Color
	if g.Type == svgrender.RadialGradient && g.R.Or(0) <= 0 {
		return last, true
	}
	if g.Type == svgrender.LinearGradient &&
		g.X1.Or(0) == g.X2.Or(0) && g.Y1.Or(0) == g.Y2.Or(0) {
		return last, true
	}
	return svgrender.Color{}, false
}

// toRasterxGradient converts a gradient into rasterx's representation,
// folding the device transform into the gradient-space matrix so the
// color function samples in device coordinates.
func toRasterxGradient(g *svgrender.Gradient, device svgpath.Matrix) rasterx.Gradient {
	var points [5]float64
	isRadial := g.Type == svgrender.RadialGradient
	if isRadial {
		cx, cy := g.CX.Or(0), g.CY.Or(0)
		points[0], points[1] = cx, cy
		points[2], points[3] = g.FX.Or(cx), g.FY.Or(cy)
		points[4] = g.R.Or(0)
	} else {
		points[0], points[1] = g.X1.Or(0), g.Y1.Or(0)
		points[2], points[3] = g.X2.Or(0), g.Y2.Or(0)
	}
	stops := make([]rasterx.GradStop, len(g.Stops))
	for i, s := range g.Stops {
		stops[i] = rasterx.GradStop{StopColor: s.Color, Offset: s.Offset, Opacity: 1}
	}
	m := device.Mul(svgpath.MatrixOf(g.Transform))
	return rasterx.Gradient{
		Points:   points,
		Stops:    stops,
		Matrix:   rasterx.Matrix2D{A: m.A, B: m.D, C: m.B, D: m.E, E: m.C, F: m.F},
		Spread:   spreadToSpread[g.Spread],
		Units:    rasterx.UserSpaceOnUse,
		IsRadial: isRadial,
	}
}

// shapeMask rasterizes a clip shape into an alpha coverage mask under
// the given device transform. Members accumulate onto the same scratch
// image, realizing the shape union.
func (rd *Renderer) shapeMask(shape svgrender.Shape, m svgpath.Matrix) *image.Alpha {
	s, ok := shape.(*svgpath.Shape)
	if !ok {
		svgrender.Logger().Debug("svgraster: foreign Shape implementation ignored as clip")
		return nil
	}
	scratch := image.NewRGBA(rd.img.Bounds())
	filler := rasterx.NewFiller(rd.width, rd.height, rasterx.NewScannerGV(rd.width, rd.height, scratch, scratch.Bounds()))
	for _, member := range s.Members() {
		filler.Clear()
		filler.SetWinding(member.Rule == svgrender.NonZeroWinding)
		replay(filler, member.Path, m)
		filler.SetColor(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
		filler.Draw()
	}
	mask := image.NewAlpha(scratch.Bounds())
	for i, n := 0, len(mask.Pix); i < n; i++ {
		mask.Pix[i] = scratch.Pix[i*4+3]
	}
	return mask
}

// intersectMasks multiplies two coverage masks; nil means unclipped.
func intersectMasks(a, b *image.Alpha) *image.Alpha {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := image.NewAlpha(a.Bounds())
	for i, n := 0, len(out.Pix); i < n; i++ {
		out.Pix[i] = uint8(uint16(a.Pix[i]) * uint16(b.Pix[i]) / 0xff)
	}
	return out
}
