package svgrender

// Value is an optional float64. The zero value is unset, which is
// distinct from an explicit zero: a backend must never read an unset
// field as a number.
type Value struct {
	v   float64
	set bool
}

// Float returns a set Value.
func Float(v float64) Value {
	return Value{v: v, set: true}
}

// IsSet reports whether the value was provided.
func (v Value) IsSet() bool { return v.set }

// Get returns the value and whether it was provided.
func (v Value) Get() (float64, bool) { return v.v, v.set }

// Or returns the value, or def when unset.
func (v Value) Or(def float64) float64 {
	if v.set {
		return v.v
	}
	return def
}

// Rect is an axis-aligned rectangle whose fields each distinguish unset
// from zero. A fully unset rect means unbounded (for DrawImage's
// clipArea: the whole image); a set rect with zero area is degenerate
// and draws nothing.
type Rect struct {
	X, Y, Width, Height Value
}

// NewRect returns a rect with all four fields set.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: Float(x), Y: Float(y), Width: Float(width), Height: Float(height)}
}

// IsSet reports whether all four fields were provided.
func (r Rect) IsSet() bool {
	return r.X.IsSet() && r.Y.IsSet() && r.Width.IsSet() && r.Height.IsSet()
}
