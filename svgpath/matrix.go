// Package svgpath implements the concrete geometry consumed by the
// svg-native-viewer backends: affine matrices, recorded paths, shapes
// and graphic-state composition. All in-tree backends create their
// Transform, Path and Shape instances from this package.
package svgpath

import (
	"math"

	"github.com/bungeman/svg-native-viewer/svgrender"
)

// Matrix is a 2D affine transform in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//
// transforming x' = A*x + B*y + C, y' = D*x + E*y + F.
//
// The zero value is not the identity; use Identity or NewTransform.
// The pointer type implements svgrender.Transform with post-multiply
// semantics: the most recently applied operation acts first.
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

var _ svgrender.Transform = (*Matrix)(nil)

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translation returns a translation matrix.
func Translation(tx, ty float64) Matrix {
	return Matrix{A: 1, C: tx, E: 1, F: ty}
}

// Scaling returns a scale matrix.
func Scaling(sx, sy float64) Matrix {
	return Matrix{A: sx, E: sy}
}

// Rotation returns a rotation matrix for r radians.
func Rotation(r float64) Matrix {
	sin, cos := math.Sincos(r)
	return Matrix{A: cos, B: -sin, D: sin, E: cos}
}

// Mul returns m × o. Composition applies o first, then m.
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		A: m.A*o.A + m.B*o.D,
		B: m.A*o.B + m.B*o.E,
		C: m.A*o.C + m.B*o.F + m.C,
		D: m.D*o.A + m.E*o.D,
		E: m.D*o.B + m.E*o.E,
		F: m.D*o.C + m.E*o.F + m.F,
	}
}

// Apply transforms the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// Det returns the determinant of the linear part.
func (m Matrix) Det() float64 {
	return m.A*m.E - m.B*m.D
}

// Invert returns the inverse matrix, or the identity when m is not
// invertible.
func (m Matrix) Invert() Matrix {
	det := m.Det()
	if math.Abs(det) < 1e-12 {
		return Identity()
	}
	inv := 1 / det
	return Matrix{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.C*m.E) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.C*m.D - m.A*m.F) * inv,
	}
}

// ScaleFactor returns the average length scale of the matrix, used to
// scale stroke widths and dash lengths into device units.
func (m Matrix) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m.Det()))
}

// NewTransform returns a new identity transform.
func NewTransform() *Matrix {
	m := Identity()
	return &m
}

// Set replaces the matrix. Coefficients are in SVG
// matrix(a b c d tx ty) order: a and d scale, b and c skew, tx and ty
// translate.
func (m *Matrix) Set(a, b, c, d, tx, ty float64) {
	*m = Matrix{A: a, B: c, C: tx, D: b, E: d, F: ty}
}

// Rotate post-multiplies a rotation of r radians.
func (m *Matrix) Rotate(r float64) {
	*m = m.Mul(Rotation(r))
}

// Translate post-multiplies a translation.
func (m *Matrix) Translate(tx, ty float64) {
	*m = m.Mul(Translation(tx, ty))
}

// Scale post-multiplies a scale.
func (m *Matrix) Scale(sx, sy float64) {
	*m = m.Mul(Scaling(sx, sy))
}

// Concat post-multiplies the other transform onto this one.
func (m *Matrix) Concat(other svgrender.Transform) {
	*m = m.Mul(MatrixOf(other))
}

// MatrixOf extracts the matrix behind a svgrender.Transform. Transforms
// always originate from a renderer factory, so in practice they are
// *Matrix values; nil and foreign implementations read as identity.
func MatrixOf(t svgrender.Transform) Matrix {
	if t == nil {
		return Identity()
	}
	if m, ok := t.(*Matrix); ok {
		return *m
	}
	svgrender.Logger().Debug("svgpath: foreign Transform implementation treated as identity")
	return Identity()
}

// GraphicState is the accumulated transform and opacity of one entry of
// a renderer's save/restore stack. Clip state is backend specific and
// kept alongside by each backend.
type GraphicState struct {
	Matrix  Matrix
	Opacity float64
}

// NewGraphicState returns the root state: identity transform, unit
// opacity.
func NewGraphicState() GraphicState {
	return GraphicState{Matrix: Identity(), Opacity: 1}
}

// Compose returns the state produced by applying style under gs: the
// style transform concatenates onto the current matrix and the
// opacities multiply.
func (gs GraphicState) Compose(style svgrender.GraphicStyle) GraphicState {
	out := gs
	if style.Transform != nil {
		out.Matrix = gs.Matrix.Mul(MatrixOf(style.Transform))
	}
	out.Opacity *= style.Opacity
	return out
}
