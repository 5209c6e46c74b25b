package svgrender

// WindingRule decides which regions of self-intersecting or overlapping
// geometry count as inside for fill purposes.
type WindingRule uint8

const (
	NonZeroWinding WindingRule = iota
	EvenOddWinding
)

func (w WindingRule) String() string {
	switch w {
	case NonZeroWinding:
		return "NonZero"
	case EvenOddWinding:
		return "EvenOdd"
	default:
		return "<unknown WindingRule>"
	}
}

// LineCap defines how to draw caps on the ends of stroked lines.
type LineCap uint8

const (
	ButtCap LineCap = iota
	RoundCap
	SquareCap
)

func (c LineCap) String() string {
	switch c {
	case ButtCap:
		return "ButtCap"
	case RoundCap:
		return "RoundCap"
	case SquareCap:
		return "SquareCap"
	default:
		return "<unknown LineCap>"
	}
}

// LineJoin specifies how stroke segments bridge the gap at a join.
type LineJoin uint8

const (
	MiterJoin LineJoin = iota
	RoundJoin
	BevelJoin
)

func (j LineJoin) String() string {
	switch j {
	case MiterJoin:
		return "MiterJoin"
	case RoundJoin:
		return "RoundJoin"
	case BevelJoin:
		return "BevelJoin"
	default:
		return "<unknown LineJoin>"
	}
}

// DashOptions parametrizes stroke dashing.
type DashOptions struct {
	Dash       []float64 // dash/gap lengths; nil or empty for a solid stroke
	DashOffset float64   // starting offset into the dash pattern
}

// FillStyle describes how a path is filled. HasFill false disables
// filling regardless of the other fields.
type FillStyle struct {
	HasFill  bool
	FillRule WindingRule
	Opacity  float64
	Paint    Paint
}

// DefaultFillStyle returns the SVG initial fill: opaque black under the
// non-zero winding rule.
func DefaultFillStyle() FillStyle {
	return FillStyle{
		HasFill:  true,
		FillRule: NonZeroWinding,
		Opacity:  1,
		Paint:    Black,
	}
}

// StrokeStyle describes how a path outline is stroked. HasStroke false
// disables stroking regardless of the other fields.
type StrokeStyle struct {
	HasStroke  bool
	Opacity    float64
	LineWidth  float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
	Dash       DashOptions
	Paint      Paint
}

// DefaultStrokeStyle returns the SVG initial stroke: disabled, width 1,
// butt caps, miter joins with limit 4, opaque black.
func DefaultStrokeStyle() StrokeStyle {
	return StrokeStyle{
		Opacity:    1,
		LineWidth:  1,
		Cap:        ButtCap,
		Join:       MiterJoin,
		MiterLimit: 4,
		Paint:      Black,
	}
}

// GraphicStyle carries the compositing properties of a drawing
// operation or a saved graphic state.
//
// Transform and ClippingPath may be shared across many styles; both are
// read-only once handed into a drawing call. Use DefaultGraphicStyle to
// start from sane values: the zero value has opacity 0 and draws
// nothing.
type GraphicStyle struct {
	// Opacity multiplies the whole operation's output, in [0, 1].
	Opacity float64

	// Transform is applied before drawing; nil means identity.
	Transform Transform

	// ClippingPath restricts the visible output region; nil means none.
	ClippingPath Shape
}

// DefaultGraphicStyle returns a style with unit opacity and neither
// transform nor clip.
func DefaultGraphicStyle() GraphicStyle {
	return GraphicStyle{Opacity: 1}
}
