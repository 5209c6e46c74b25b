package svgpath

import "math"

// maxFlattenSegments caps the subdivision of a single cubic.
const maxFlattenSegments = 64

// Flatten returns a polyline approximation of the path under the given
// transform, one point slice per subpath. Cubic segments are subdivided
// until chords deviate from the curve by no more than tol, which must
// be positive.
func (p *Path) Flatten(m Matrix, tol float64) [][]Point {
	var subpaths [][]Point
	var cur []Point
	var curPt Point

	flush := func() {
		if len(cur) > 1 {
			subpaths = append(subpaths, cur)
		}
		cur = nil
	}

	for _, op := range p.ops {
		switch op := op.(type) {
		case MoveTo:
			flush()
			x, y := m.Apply(op.X, op.Y)
			curPt = Point{x, y}
			cur = append(cur, curPt)
		case LineTo:
			x, y := m.Apply(op.X, op.Y)
			curPt = Point{x, y}
			cur = append(cur, curPt)
		case CubicTo:
			var c CubicTo
			for i, pt := range op {
				x, y := m.Apply(pt.X, pt.Y)
				c[i] = Point{x, y}
			}
			n := cubicSegments(curPt, c, tol)
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				cur = append(cur, Point{
					X: bezierCubic(curPt.X, c[0].X, c[1].X, c[2].X, t),
					Y: bezierCubic(curPt.Y, c[0].Y, c[1].Y, c[2].Y, t),
				})
			}
			curPt = c[2]
		case Close:
			if len(cur) > 0 {
				cur = append(cur, cur[0])
				curPt = cur[0]
			}
		}
	}
	flush()
	return subpaths
}

// cubicSegments picks a subdivision count from the control polygon
// length, a cheap upper bound on the curve length.
func cubicSegments(p0 Point, c CubicTo, tol float64) int {
	if tol <= 0 {
		tol = 0.25
	}
	d := dist(p0, c[0]) + dist(c[0], c[1]) + dist(c[1], c[2])
	n := int(math.Ceil(math.Sqrt(d / tol)))
	if n < 1 {
		n = 1
	}
	if n > maxFlattenSegments {
		n = maxFlattenSegments
	}
	return n
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
