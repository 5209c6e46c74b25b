package svgpdf

import (
	"bytes"
	"fmt"
	"image"

	"github.com/jung-kurt/gofpdf"

	"github.com/bungeman/svg-native-viewer/internal/b64img"
	"github.com/bungeman/svg-native-viewer/svgpath"
	"github.com/bungeman/svg-native-viewer/svgrender"
)

// imageData is an image registered with the PDF document, ready to be
// placed by name.
type imageData struct {
	name   string
	opts   gofpdf.ImageOptions
	width  float64
	height float64
}

var _ svgrender.ImageData = (*imageData)(nil)

func (d *imageData) Width() float64  { return d.width }
func (d *imageData) Height() float64 { return d.height }

// pdfImageTypes maps image.DecodeConfig format names to the types
// gofpdf can embed.
var pdfImageTypes = map[string]string{
	"png":  "PNG",
	"jpeg": "JPG",
	"gif":  "GIF",
}

// CreateImageData decodes a base64 image payload and registers it with
// the document. Only PNG, JPEG and GIF can be embedded in a PDF stream.
func (rd *Renderer) CreateImageData(payload string) (svgrender.ImageData, error) {
	raw, err := b64img.DecodeBytes(payload)
	if err != nil {
		return nil, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("svgpdf: undecodable image payload: %w", err)
	}
	tp, ok := pdfImageTypes[format]
	if !ok {
		return nil, fmt.Errorf("svgpdf: image format %q not embeddable in PDF", format)
	}
	rd.nimg++
	d := &imageData{
		name:   fmt.Sprintf("svgimg%d", rd.nimg),
		opts:   gofpdf.ImageOptions{ImageType: tp, AllowNegativePosition: true},
		width:  float64(cfg.Width),
		height: float64(cfg.Height),
	}
	rd.pdf.RegisterImageOptionsReader(d.name, d.opts, bytes.NewReader(raw))
	if rd.pdf.Err() {
		return nil, fmt.Errorf("svgpdf: registering image: %w", rd.pdf.Error())
	}
	return d, nil
}

// DrawImage places the clipArea source region of the image onto the
// fillArea destination region. PDF image placement is axis aligned, so
// a rotating or shearing transform degrades to the bounding box of the
// mapped destination.
func (rd *Renderer) DrawImage(img svgrender.ImageData, style svgrender.GraphicStyle, clipArea, fillArea svgrender.Rect) {
	d, ok := img.(*imageData)
	if !ok {
		svgrender.Logger().Debug("svgpdf: foreign ImageData implementation ignored")
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

	cx := clipArea.X.Or(0)
	cy := clipArea.Y.Or(0)
	cw := clipArea.Width.Or(d.width)
	ch := clipArea.Height.Or(d.height)
	fx := fillArea.X.Or(0)
	fy := fillArea.Y.Or(0)
	fw := fillArea.Width.Or(cw)
	fh := fillArea.Height.Or(ch)
	if cw > 0 && ch > 0 && fw > 0 && fh > 0 {
		if eff.Matrix.B != 0 || eff.Matrix.D != 0 {
			svgrender.Logger().Warn("svgpdf: rotated image placement approximated by bounding box")
		}
		// The crop is emulated by clipping to the destination and
		// placing the whole image scaled so the cropped region lands
		// on the fill rect.
		sx, sy := fw/cw, fh/ch
		dx, dy, dw, dh := mapBox(eff.Matrix,
			svgpath.Point{X: fx, Y: fy}, svgpath.Point{X: fx + fw, Y: fy + fh})
		px, py, pw, ph := mapBox(eff.Matrix,
			svgpath.Point{X: fx - cx*sx, Y: fy - cy*sy},
			svgpath.Point{X: fx - cx*sx + d.width*sx, Y: fy - cy*sy + d.height*sy})

		rd.pdf.SetAlpha(clamp01(eff.Opacity), "")
		rd.pdf.ClipRect(dx, dy, dw, dh, false)
		rd.pdf.ImageOptions(d.name, px, py, pw, ph, false, d.opts, 0, "")
		rd.pdf.ClipEnd()
	}

	for i := 0; i < clips; i++ {
		rd.pdf.ClipEnd()
	}
}
