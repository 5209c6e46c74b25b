// Package svgrender defines the backend contract used to draw SVG content.
// A document layer (parser, style cascade, layout) builds paths, shapes and
// transforms through a Renderer factory and issues immediate-mode drawing
// calls against it. Concrete backends own the device specific state;
// see for example svg-native-viewer/svgraster or svg-native-viewer/svgpdf.
//
// A Renderer and the entities it creates are not safe for concurrent use.
// Parallel rendering requires independent Renderer instances drawing to
// disjoint targets.
package svgrender

// Transform is a mutable 2D affine matrix with 6 coefficients.
//
// Every mutator post-multiplies onto the current state, so the most
// recently applied operation acts first in the local coordinate frame:
// Translate followed by Rotate composes a rotation about the translated
// origin. Backends must match this ordering exactly.
type Transform interface {
	// Set replaces the matrix with the given coefficients, in SVG
	// matrix(a b c d tx ty) order.
	Set(a, b, c, d, tx, ty float64)

	// Rotate post-multiplies a rotation of r radians.
	Rotate(r float64)

	// Translate post-multiplies a translation.
	Translate(tx, ty float64)

	// Scale post-multiplies a scale.
	Scale(sx, sy float64)

	// Concat post-multiplies the other transform onto this one.
	Concat(other Transform)
}

// Path accumulates one contour-set of subpaths.
//
// Coordinates are y-down; the shortcut shapes trace clockwise so that
// winding-rule evaluation matches standard SVG geometry. A Path is built
// incrementally and treated as immutable once handed to CreateShape or a
// drawing call.
type Path interface {
	// Rect traces a closed rectangle clockwise from its top-left corner.
	Rect(x, y, width, height float64)

	// RoundedRect traces a closed rectangle with circular corners of the
	// given radius, clockwise from (x+cornerRadius, y). A radius of zero
	// or less degenerates to Rect.
	RoundedRect(x, y, width, height, cornerRadius float64)

	// Ellipse traces a closed ellipse clockwise from (cx+rx, cy).
	Ellipse(cx, cy, rx, ry float64)

	// MoveTo starts a new subpath at the given point.
	MoveTo(x, y float64)

	// LineTo appends a line segment to the current subpath.
	LineTo(x, y float64)

	// CurveTo appends a cubic Bézier segment with two explicit control
	// points ending at (x3, y3).
	CurveTo(x1, y1, x2, y2, x3, y3 float64)

	// CurveToV appends a smooth cubic Bézier segment: the first control
	// point is the previous cubic's second control point reflected
	// through the current point. When no cubic precedes it, the first
	// control point degenerates to the current point.
	CurveToV(x2, y2, x3, y3 float64)

	// ClosePath connects the current point back to the subpath start and
	// marks the subpath closed.
	ClosePath()
}

// Shape combines one or more paths, each with its own winding rule, by
// union. Shapes are the unit used for clipping; the resulting fill region
// is the set union of the constituent paths' filled regions under their
// respective winding rules.
type Shape interface {
	// Transform applies the matrix to all contained geometry in place.
	Transform(t Transform)

	// Union adds the other shape's geometry to this one.
	Union(other Shape)
}

// ImageData exposes the logical pixel dimensions of a decoded image.
// The drawing layer never inspects pixel content.
type ImageData interface {
	Width() float64
	Height() float64
}

// Renderer is the drawing surface a backend implements.
//
// It is both the factory for Transform, Path, Shape and ImageData
// instances and the immediate-mode target of the drawing calls. The
// renderer maintains a stack of graphic states; Save pushes a state
// composed with the current top (transforms concatenate, opacities
// multiply, clips intersect) and Restore pops it. Restore without a
// matching Save is a caller contract violation and panics. A well formed
// drawing session leaves the stack balanced at the end.
type Renderer interface {
	// CreateImageData decodes a base64 image payload, with or without a
	// leading data: URI header. It fails when the payload cannot be
	// decoded into usable dimensions; the renderer session stays valid.
	CreateImageData(payload string) (ImageData, error)

	// CreatePath returns a new empty path.
	CreatePath() Path

	// CreateShape returns a new shape filled from the given path under
	// the given winding rule. The path's geometry is copied.
	CreateShape(path Path, rule WindingRule) Shape

	// CreateTransform returns a new identity transform.
	CreateTransform() Transform

	// Save pushes a graphic state composed from the current one and the
	// given style.
	Save(style GraphicStyle)

	// Restore pops the graphic state stack.
	Restore()

	// DrawPath composes the call's style atop the current graphic state
	// without pushing it, then paints the fill and, on top of it, the
	// stroke.
	DrawPath(path Path, style GraphicStyle, fill FillStyle, stroke StrokeStyle)

	// DrawImage maps the clipArea source region of the image onto the
	// fillArea destination region under the effective graphic state. An
	// unset clipArea means the whole image.
	DrawImage(image ImageData, style GraphicStyle, clipArea, fillArea Rect)
}
