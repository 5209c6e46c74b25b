package svgrecord

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/bungeman/svg-native-viewer/svgpath"
	"github.com/bungeman/svg-native-viewer/svgraster"
	"github.com/bungeman/svg-native-viewer/svgrender"
)

func pngPayload(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("can't encode test image: %s", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestSaveRestoreBalance(t *testing.T) {
	rd := NewRenderer()

	tr := rd.CreateTransform()
	tr.Translate(10, 0)
	rd.Save(svgrender.GraphicStyle{Opacity: 0.5, Transform: tr})

	sc := rd.CreateTransform()
	sc.Scale(2, 2)
	rd.Save(svgrender.GraphicStyle{Opacity: 0.5, Transform: sc})

	if got := rd.Depth(); got != 2 {
		t.Errorf("Depth = %d, want 2", got)
	}
	if got := rd.CurrentOpacity(); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("CurrentOpacity = %g, want 0.25", got)
	}
	x, y := rd.CurrentTransform().Apply(1, 0)
	if math.Abs(x-12) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Errorf("effective transform maps (1,0) to (%g, %g), want (12, 0)", x, y)
	}

	rd.Restore()
	rd.Restore()
	if got := rd.Depth(); got != 0 {
		t.Errorf("Depth after matching restores = %d, want 0", got)
	}
	if got := rd.CurrentOpacity(); got != 1 {
		t.Errorf("CurrentOpacity after restores = %g, want 1", got)
	}
	if got := rd.CurrentTransform(); got != svgpath.Identity() {
		t.Errorf("CurrentTransform after restores = %v, want identity", got)
	}
}

func TestRestoreWithoutSavePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Restore on an empty stack did not panic")
		}
	}()
	NewRenderer().Restore()
}

func TestCommandSequence(t *testing.T) {
	rd := NewRenderer()
	p := rd.CreatePath()
	p.Rect(0, 0, 10, 10)

	img, err := rd.CreateImageData(pngPayload(t, 3, 2))
	if err != nil {
		t.Fatalf("CreateImageData: %s", err)
	}

	rd.Save(svgrender.DefaultGraphicStyle())
	rd.DrawPath(p, svgrender.DefaultGraphicStyle(), svgrender.DefaultFillStyle(), svgrender.DefaultStrokeStyle())
	rd.DrawImage(img, svgrender.DefaultGraphicStyle(), svgrender.Rect{}, svgrender.NewRect(0, 0, 3, 2))
	rd.Restore()

	want := []CommandType{CmdSave, CmdDrawPath, CmdDrawImage, CmdRestore}
	cmds := rd.Commands()
	if len(cmds) != len(want) {
		t.Fatalf("recorded %d commands, want %d", len(cmds), len(want))
	}
	for i, c := range cmds {
		if c.Type != want[i] {
			t.Errorf("command %d = %s, want %s", i, c.Type, want[i])
		}
	}

	draw := cmds[1]
	if draw.Path != p {
		t.Error("DrawPath did not record the path")
	}
	if !draw.Fill.HasFill || draw.Stroke.HasStroke {
		t.Errorf("recorded styles: fill %+v, stroke %+v", draw.Fill, draw.Stroke)
	}
	if got := cmds[2].FillArea.Width.Or(0); got != 3 {
		t.Errorf("recorded fill area width = %g, want 3", got)
	}
}

func TestReplay(t *testing.T) {
	rec := NewRenderer()
	p := rec.CreatePath()
	p.Rect(10, 10, 20, 20)

	style := svgrender.DefaultGraphicStyle()
	style.Opacity = 0.5
	rec.Save(style)
	fill := svgrender.DefaultFillStyle()
	fill.Paint = svgrender.Color{R: 1, A: 1}
	rec.DrawPath(p, svgrender.DefaultGraphicStyle(), fill, svgrender.DefaultStrokeStyle())
	rec.Restore()

	target := svgraster.NewRenderer(50, 50)
	rec.Replay(target)

	img := target.Image()
	i := img.PixOffset(20, 20)
	if r, a := img.Pix[i], img.Pix[i+3]; r < 100 || a < 100 || a > 160 {
		t.Errorf("replayed pixel = (r %d, a %d), want half-opaque red", r, a)
	}
	if a := img.Pix[img.PixOffset(5, 5)+3]; a != 0 {
		t.Error("replay painted outside the recorded rect")
	}
}

func TestCreateImageData(t *testing.T) {
	rd := NewRenderer()
	img, err := rd.CreateImageData(pngPayload(t, 3, 2))
	if err != nil {
		t.Fatalf("CreateImageData: %s", err)
	}
	if img.Width() != 3 || img.Height() != 2 {
		t.Errorf("dimensions = %g x %g, want 3 x 2", img.Width(), img.Height())
	}

	if _, err := rd.CreateImageData("not base64 at all!"); err == nil {
		t.Error("malformed payload did not fail")
	}
}
