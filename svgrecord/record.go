// Package svgrecord implements a recording backend for the svgrender
// contract. It captures the drawing calls instead of painting, which
// makes it useful for tests and for replaying a scene onto another
// renderer later.
package svgrecord

import (
	"github.com/bungeman/svg-native-viewer/internal/b64img"
	"github.com/bungeman/svg-native-viewer/svgpath"
	"github.com/bungeman/svg-native-viewer/svgrender"
)

var _ svgrender.Renderer = (*Renderer)(nil) // assert interface conformance

// CommandType identifies a recorded drawing call.
type CommandType uint8

const (
	CmdSave CommandType = iota
	CmdRestore
	CmdDrawPath
	CmdDrawImage
)

var commandNames = [...]string{
	CmdSave:      "Save",
	CmdRestore:   "Restore",
	CmdDrawPath:  "DrawPath",
	CmdDrawImage: "DrawImage",
}

func (c CommandType) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "Unknown"
}

// Command is one recorded drawing call with the arguments that apply
// to its type.
type Command struct {
	Type     CommandType
	Path     svgrender.Path
	Style    svgrender.GraphicStyle
	Fill     svgrender.FillStyle
	Stroke   svgrender.StrokeStyle
	Image    svgrender.ImageData
	ClipArea svgrender.Rect
	FillArea svgrender.Rect
}

// imageData carries only the dimensions of the decoded payload.
type imageData struct {
	width  float64
	height float64
}

func (d *imageData) Width() float64  { return d.width }
func (d *imageData) Height() float64 { return d.height }

// Renderer records drawing calls while tracking the same graphic-state
// stack a painting backend would.
type Renderer struct {
	commands []Command
	stack    []svgpath.GraphicState
}

// NewRenderer returns an empty recorder.
func NewRenderer() *Renderer {
	return &Renderer{stack: []svgpath.GraphicState{svgpath.NewGraphicState()}}
}

// Commands returns the calls recorded so far, in order.
func (rd *Renderer) Commands() []Command { return rd.commands }

// Replay issues the recorded calls against another renderer, in order.
// Geometry replays as recorded. Image commands carry this recorder's
// ImageData, which a painting backend will not accept; re-create the
// images through the target's CreateImageData before replaying an
// image-bearing scene.
func (rd *Renderer) Replay(target svgrender.Renderer) {
	for _, c := range rd.commands {
		switch c.Type {
		case CmdSave:
			target.Save(c.Style)
		case CmdRestore:
			target.Restore()
		case CmdDrawPath:
			target.DrawPath(c.Path, c.Style, c.Fill, c.Stroke)
		case CmdDrawImage:
			target.DrawImage(c.Image, c.Style, c.ClipArea, c.FillArea)
		}
	}
}

// Depth returns how many Save calls are currently unmatched.
func (rd *Renderer) Depth() int { return len(rd.stack) - 1 }

// CurrentTransform returns the effective transform of the current
// graphic state.
func (rd *Renderer) CurrentTransform() svgpath.Matrix {
	return rd.stack[len(rd.stack)-1].Matrix
}

// CurrentOpacity returns the effective opacity of the current graphic
// state.
func (rd *Renderer) CurrentOpacity() float64 {
	return rd.stack[len(rd.stack)-1].Opacity
}

// CreatePath returns a new empty path.
func (rd *Renderer) CreatePath() svgrender.Path { return svgpath.NewPath() }

// CreateShape returns a new shape over a copy of the path's geometry.
func (rd *Renderer) CreateShape(path svgrender.Path, rule svgrender.WindingRule) svgrender.Shape {
	return svgpath.NewShape(path, rule)
}

// CreateTransform returns a new identity transform.
func (rd *Renderer) CreateTransform() svgrender.Transform { return svgpath.NewTransform() }

// CreateImageData decodes just the header of a base64 image payload,
// enough to answer Width and Height.
func (rd *Renderer) CreateImageData(payload string) (svgrender.ImageData, error) {
	cfg, _, err := b64img.DecodeConfig(payload)
	if err != nil {
		return nil, err
	}
	return &imageData{width: float64(cfg.Width), height: float64(cfg.Height)}, nil
}

// Save records the call and pushes the composed graphic state.
func (rd *Renderer) Save(style svgrender.GraphicStyle) {
	top := rd.stack[len(rd.stack)-1]
	rd.stack = append(rd.stack, top.Compose(style))
	rd.commands = append(rd.commands, Command{Type: CmdSave, Style: style})
}

// Restore records the call and pops the graphic-state stack. Restoring
// past the root state is a programmer error and panics.
func (rd *Renderer) Restore() {
	if len(rd.stack) == 1 {
		panic("svgrecord: Restore without matching Save")
	}
	rd.stack = rd.stack[:len(rd.stack)-1]
	rd.commands = append(rd.commands, Command{Type: CmdRestore})
}

// DrawPath records the call.
func (rd *Renderer) DrawPath(path svgrender.Path, style svgrender.GraphicStyle, fill svgrender.FillStyle, stroke svgrender.StrokeStyle) {
	rd.commands = append(rd.commands, Command{
		Type:   CmdDrawPath,
		Path:   path,
		Style:  style,
		Fill:   fill,
		Stroke: stroke,
	})
}

// DrawImage records the call.
func (rd *Renderer) DrawImage(img svgrender.ImageData, style svgrender.GraphicStyle, clipArea, fillArea svgrender.Rect) {
	rd.commands = append(rd.commands, Command{
		Type:     CmdDrawImage,
		Image:    img,
		Style:    style,
		ClipArea: clipArea,
		FillArea: fillArea,
	})
}
