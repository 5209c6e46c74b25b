package svgraster

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/bungeman/svg-native-viewer/svgpath"
	"github.com/bungeman/svg-native-viewer/svgrender"
)

// imageData holds a fully decoded image for compositing.
type imageData struct {
	src image.Image
}

var _ svgrender.ImageData = (*imageData)(nil)

func (d *imageData) Width() float64  { return float64(d.src.Bounds().Dx()) }
func (d *imageData) Height() float64 { return float64(d.src.Bounds().Dy()) }

// DrawImage maps the clipArea source region of the image onto the
// fillArea destination region under the effective graphic state. An
// unset clipArea means the whole image; a degenerate source or
// destination draws nothing.
func (rd *Renderer) DrawImage(img svgrender.ImageData, style svgrender.GraphicStyle, clipArea, fillArea svgrender.Rect) {
	d, ok := img.(*imageData)
	if !ok {
		svgrender.Logger().Debug("svgraster: foreign ImageData implementation ignored")
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

	b := d.src.Bounds()
	cx := clipArea.X.Or(0)
	cy := clipArea.Y.Or(0)
	cw := clipArea.Width.Or(float64(b.Dx()))
	ch := clipArea.Height.Or(float64(b.Dy()))
	fx := fillArea.X.Or(0)
	fy := fillArea.Y.Or(0)
	fw := fillArea.Width.Or(cw)
	fh := fillArea.Height.Or(ch)
	if cw <= 0 || ch <= 0 || fw <= 0 || fh <= 0 {
		return
	}

	srcRect := image.Rect(
		b.Min.X+int(math.Floor(cx)), b.Min.Y+int(math.Floor(cy)),
		b.Min.X+int(math.Ceil(cx+cw)), b.Min.Y+int(math.Ceil(cy+ch)),
	).Intersect(b)
	if srcRect.Empty() {
		return
	}

	// source space -> fill rect -> device
	m := eff.gs.Matrix.
		Mul(svgpath.Translation(fx, fy)).
		Mul(svgpath.Scaling(fw/cw, fh/ch)).
		Mul(svgpath.Translation(-cx, -cy))

	var opts *xdraw.Options
	if mask := compositeMask(eff.clip, eff.gs.Opacity); mask != nil {
		opts = &xdraw.Options{DstMask: mask}
	}
	xdraw.CatmullRom.Transform(rd.img, f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}, d.src, srcRect, xdraw.Over, opts)
}

// compositeMask folds the group opacity into the clip coverage. It
// returns nil when neither applies.
func compositeMask(clip *image.Alpha, opacity float64) image.Image {
	switch {
	case clip == nil && opacity >= 1:
		return nil
	case clip == nil:
		return image.NewUniform(color.Alpha{A: uint8(opacity*0xff + 0.5)})
	case opacity >= 1:
		return clip
	}
	out := image.NewAlpha(clip.Bounds())
	for i, n := 0, len(out.Pix); i < n; i++ {
		out.Pix[i] = uint8(float64(clip.Pix[i])*opacity + 0.5)
	}
	return out
}
