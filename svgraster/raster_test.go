package svgraster

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"github.com/bungeman/svg-native-viewer/svgrender"
)

var (
	red  = svgrender.Color{R: 1, A: 1}
	blue = svgrender.Color{B: 1, A: 1}
)

func fillWith(paint svgrender.Paint) svgrender.FillStyle {
	fill := svgrender.DefaultFillStyle()
	fill.Paint = paint
	return fill
}

// countWhere reports how many pixels satisfy the predicate.
func countWhere(img *image.RGBA, pred func(r, g, b, a uint8) bool) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			if pred(img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]) {
				n++
			}
		}
	}
	return n
}

func isRed(r, g, b, a uint8) bool  { return r > 200 && b < 50 && a > 200 }
func isBlue(r, g, b, a uint8) bool { return b > 200 && r < 50 && a > 200 }
func isInk(r, g, b, a uint8) bool  { return a > 0 }

func TestFillRectCoverage(t *testing.T) {
	rd := NewRenderer(100, 100)
	p := rd.CreatePath()
	p.Rect(10, 10, 30, 20)
	rd.DrawPath(p, svgrender.DefaultGraphicStyle(), fillWith(red), svgrender.StrokeStyle{})

	got := countWhere(rd.Image(), isRed)
	if got < 570 || got > 630 {
		t.Errorf("filled %d red pixels, want about 600", got)
	}
}

func TestFillRespectsStyleTransform(t *testing.T) {
	rd := NewRenderer(100, 100)
	p := rd.CreatePath()
	p.Rect(0, 0, 10, 10)

	style := svgrender.DefaultGraphicStyle()
	tr := rd.CreateTransform()
	tr.Translate(50, 50)
	style.Transform = tr
	rd.DrawPath(p, style, fillWith(red), svgrender.StrokeStyle{})

	img := rd.Image()
	if !isRed(colorAt(img, 55, 55)) {
		t.Error("pixel inside the translated rect is not red")
	}
	if isInk(colorAt(img, 5, 5)) {
		t.Error("pixel at the untranslated position was painted")
	}
}

func colorAt(img *image.RGBA, x, y int) (r, g, b, a uint8) {
	i := img.PixOffset(x, y)
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]
}

func TestStrokePaintsOverFill(t *testing.T) {
	rd := NewRenderer(100, 100)
	p := rd.CreatePath()
	p.Rect(20, 20, 40, 40)

	stroke := svgrender.DefaultStrokeStyle()
	stroke.HasStroke = true
	stroke.LineWidth = 6
	stroke.Paint = blue
	rd.DrawPath(p, svgrender.DefaultGraphicStyle(), fillWith(red), stroke)

	img := rd.Image()
	if !isRed(colorAt(img, 40, 40)) {
		t.Error("center pixel is not red")
	}
	// the stroke straddles the outline, covering the fill underneath
	if !isBlue(colorAt(img, 20, 40)) {
		t.Error("outline pixel is not blue")
	}
}

func TestGroupOpacity(t *testing.T) {
	rd := NewRenderer(50, 50)
	style := svgrender.DefaultGraphicStyle()
	style.Opacity = 0.5
	rd.Save(style)

	p := rd.CreatePath()
	p.Rect(0, 0, 50, 50)
	rd.DrawPath(p, svgrender.DefaultGraphicStyle(), fillWith(red), svgrender.StrokeStyle{})
	rd.Restore()

	_, _, _, a := colorAt(rd.Image(), 25, 25)
	if a < 118 || a > 138 {
		t.Errorf("alpha = %d, want about 128", a)
	}
}

func TestClipIntersection(t *testing.T) {
	rd := NewRenderer(100, 100)

	clip1 := rd.CreatePath()
	clip1.Rect(0, 0, 50, 100)
	style1 := svgrender.DefaultGraphicStyle()
	style1.ClippingPath = rd.CreateShape(clip1, svgrender.NonZeroWinding)
	rd.Save(style1)

	clip2 := rd.CreatePath()
	clip2.Rect(25, 0, 50, 100)
	style2 := svgrender.DefaultGraphicStyle()
	style2.ClippingPath = rd.CreateShape(clip2, svgrender.NonZeroWinding)
	rd.Save(style2)

	p := rd.CreatePath()
	p.Rect(0, 0, 100, 100)
	rd.DrawPath(p, svgrender.DefaultGraphicStyle(), fillWith(red), svgrender.StrokeStyle{})
	rd.Restore()
	rd.Restore()

	// nested clips leave only x in [25, 50)
	got := countWhere(rd.Image(), isRed)
	if got < 2300 || got > 2700 {
		t.Errorf("filled %d pixels under nested clips, want about 2500", got)
	}
	if isInk(colorAt(rd.Image(), 10, 50)) {
		t.Error("pixel outside the clip intersection was painted")
	}
}

func TestClipShapeUnion(t *testing.T) {
	rd := NewRenderer(100, 100)

	p1 := rd.CreatePath()
	p1.Rect(0, 0, 20, 100)
	p2 := rd.CreatePath()
	p2.Rect(60, 0, 20, 100)
	clip := rd.CreateShape(p1, svgrender.NonZeroWinding)
	clip.Union(rd.CreateShape(p2, svgrender.NonZeroWinding))

	style := svgrender.DefaultGraphicStyle()
	style.ClippingPath = clip
	rd.Save(style)
	fullCanvas := rd.CreatePath()
	fullCanvas.Rect(0, 0, 100, 100)
	rd.DrawPath(fullCanvas, svgrender.DefaultGraphicStyle(), fillWith(red), svgrender.StrokeStyle{})
	rd.Restore()

	got := countWhere(rd.Image(), isRed)
	if got < 3800 || got > 4200 {
		t.Errorf("filled %d pixels under a union clip, want about 4000", got)
	}
	if isInk(colorAt(rd.Image(), 40, 50)) {
		t.Error("pixel between the clip members was painted")
	}
}

func TestClipShapeUnionIdempotent(t *testing.T) {
	// Unioning a shape with an identical copy must not change the
	// filled area: member coverage accumulates, it never doubles.
	fillThrough := func(clip svgrender.Shape) int {
		rd := NewRenderer(100, 100)
		style := svgrender.DefaultGraphicStyle()
		style.ClippingPath = clip
		rd.Save(style)
		p := rd.CreatePath()
		p.Rect(0, 0, 100, 100)
		rd.DrawPath(p, svgrender.DefaultGraphicStyle(), fillWith(red), svgrender.StrokeStyle{})
		rd.Restore()
		return countWhere(rd.Image(), isRed)
	}

	factory := NewRenderer(100, 100)
	p := factory.CreatePath()
	p.Rect(20, 20, 40, 40)

	single := fillThrough(factory.CreateShape(p, svgrender.NonZeroWinding))
	if single < 1500 || single > 1700 {
		t.Fatalf("single clip filled %d pixels, want about 1600", single)
	}

	union := factory.CreateShape(p, svgrender.NonZeroWinding)
	union.Union(factory.CreateShape(p, svgrender.NonZeroWinding))
	doubled := fillThrough(union)
	if diff := doubled - single; diff < -40 || diff > 40 {
		t.Errorf("identical-member union filled %d pixels, single shape filled %d", doubled, single)
	}
}

func TestEvenOddFill(t *testing.T) {
	rd := NewRenderer(100, 100)
	p := rd.CreatePath()
	p.Rect(10, 10, 80, 80)
	p.Rect(30, 30, 40, 40) // same direction; even-odd carves it out
	fill := fillWith(red)
	fill.FillRule = svgrender.EvenOddWinding
	rd.DrawPath(p, svgrender.DefaultGraphicStyle(), fill, svgrender.StrokeStyle{})

	img := rd.Image()
	if !isRed(colorAt(img, 15, 50)) {
		t.Error("ring pixel is not red")
	}
	if isInk(colorAt(img, 50, 50)) {
		t.Error("hole pixel was painted under even-odd")
	}
}

func TestLinearGradientFill(t *testing.T) {
	rd := NewRenderer(100, 100)
	p := rd.CreatePath()
	p.Rect(0, 0, 100, 100)

	grad := &svgrender.Gradient{
		Type: svgrender.LinearGradient,
		X1:   svgrender.Float(0), Y1: svgrender.Float(0),
		X2: svgrender.Float(100), Y2: svgrender.Float(0),
		Stops: []svgrender.ColorStop{
			{Offset: 0, Color: red},
			{Offset: 1, Color: blue},
		},
	}
	rd.DrawPath(p, svgrender.DefaultGraphicStyle(), fillWith(grad), svgrender.StrokeStyle{})

	img := rd.Image()
	if !isRed(colorAt(img, 2, 50)) {
		t.Error("left edge is not red")
	}
	if !isBlue(colorAt(img, 97, 50)) {
		t.Error("right edge is not blue")
	}
	r, _, b, _ := colorAt(img, 50, 50)
	if r < 80 || r > 175 || b < 80 || b > 175 {
		t.Errorf("middle pixel = (%d, _, %d), want a red/blue mix", r, b)
	}
}

func TestGradientSingularTransform(t *testing.T) {
	// A gradient transform that collapses space to a point must not
	// fault, and the renderer must stay usable afterwards.
	rd := NewRenderer(50, 50)
	p := rd.CreatePath()
	p.Rect(0, 0, 50, 50)

	tr := rd.CreateTransform()
	tr.Scale(0, 0)
	grad := &svgrender.Gradient{
		Type: svgrender.LinearGradient,
		X1:   svgrender.Float(0), Y1: svgrender.Float(0),
		X2: svgrender.Float(50), Y2: svgrender.Float(0),
		Stops: []svgrender.ColorStop{
			{Offset: 0, Color: red},
			{Offset: 1, Color: blue},
		},
		Transform: tr,
	}
	rd.DrawPath(p, svgrender.DefaultGraphicStyle(), fillWith(grad), svgrender.StrokeStyle{})

	solid := rd.CreatePath()
	solid.Rect(10, 10, 10, 10)
	rd.DrawPath(solid, svgrender.DefaultGraphicStyle(), fillWith(red), svgrender.StrokeStyle{})
	if !isRed(colorAt(rd.Image(), 15, 15)) {
		t.Error("renderer unusable after a singular gradient transform")
	}
}

func TestDegenerateGradientPaintsLastStop(t *testing.T) {
	rd := NewRenderer(50, 50)
	p := rd.CreatePath()
	p.Rect(0, 0, 50, 50)

	grad := &svgrender.Gradient{
		Type: svgrender.RadialGradient,
		CX:   svgrender.Float(25), CY: svgrender.Float(25),
		R: svgrender.Float(0),
		Stops: []svgrender.ColorStop{
			{Offset: 0, Color: red},
			{Offset: 1, Color: blue},
		},
	}
	rd.DrawPath(p, svgrender.DefaultGraphicStyle(), fillWith(grad), svgrender.StrokeStyle{})

	if !isBlue(colorAt(rd.Image(), 25, 25)) {
		t.Error("zero-radius radial did not paint the last stop color")
	}
}

func TestRestoreWithoutSavePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Restore on an empty stack did not panic")
		}
	}()
	NewRenderer(10, 10).Restore()
}

func testPNG(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff // red
		img.Pix[i+3] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("can't encode test image: %s", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDrawImageScales(t *testing.T) {
	rd := NewRenderer(20, 20)
	img, err := rd.CreateImageData(testPNG(t, 2, 2))
	if err != nil {
		t.Fatalf("CreateImageData: %s", err)
	}
	if img.Width() != 2 || img.Height() != 2 {
		t.Fatalf("dimensions = %g x %g, want 2 x 2", img.Width(), img.Height())
	}

	rd.DrawImage(img, svgrender.DefaultGraphicStyle(), svgrender.Rect{}, svgrender.NewRect(0, 0, 8, 8))

	out := rd.Image()
	if !isRed(colorAt(out, 4, 4)) {
		t.Error("pixel inside the scaled image is not red")
	}
	if isInk(colorAt(out, 15, 15)) {
		t.Error("pixel outside the fill area was painted")
	}
}

func TestDrawImageCrop(t *testing.T) {
	// paint only the right half of a half-red half-transparent image
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 2; x < 4; x++ {
			i := src.PixOffset(x, y)
			src.Pix[i] = 0xff
			src.Pix[i+3] = 0xff
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("can't encode test image: %s", err)
	}

	rd := NewRenderer(20, 20)
	img, err := rd.CreateImageData(base64.StdEncoding.EncodeToString(buf.Bytes()))
	if err != nil {
		t.Fatalf("CreateImageData: %s", err)
	}
	rd.DrawImage(img, svgrender.DefaultGraphicStyle(),
		svgrender.NewRect(2, 0, 2, 4), svgrender.NewRect(0, 0, 10, 10))

	if !isRed(colorAt(rd.Image(), 5, 5)) {
		t.Error("cropped region did not land on the fill area")
	}
}

func TestCreateImageDataErrors(t *testing.T) {
	rd := NewRenderer(10, 10)
	for _, payload := range []string{
		"@@@not-base64@@@",
		base64.StdEncoding.EncodeToString([]byte("not an image")),
	} {
		if _, err := rd.CreateImageData(payload); err == nil {
			t.Errorf("payload %q did not fail", payload)
		}
	}
}
