package svgpath

import "math"

// Computes the bounding box of a path from the critical points of its
// segments, needed by backends that map gradient geometry onto a path
// extent.

// cubic polynomial
// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 - 3*p2 + 3*p1 - p0
// B = 3*p2 - 6*p1 + 3*p0
// C = 3*p1 - 3*p0
// D = p0
func bezierCubic(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		p0
}

// derivative of the cubic as at^2 + bt + c
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(d)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

type extent struct {
	min, max Point
	ok       bool
}

func (e *extent) add(p Point) {
	if !e.ok {
		e.min, e.max, e.ok = p, p, true
		return
	}
	e.min.X = math.Min(e.min.X, p.X)
	e.min.Y = math.Min(e.min.Y, p.Y)
	e.max.X = math.Max(e.max.X, p.X)
	e.max.Y = math.Max(e.max.Y, p.Y)
}

// addCubic extends the extent with the cubic from cur through op,
// evaluating at the endpoints and at every critical point of the
// derivative inside (0, 1).
func (e *extent) addCubic(cur Point, op CubicTo) {
	e.add(cur)
	e.add(op[2])

	aX, bX, cX := cubicDerivative(cur.X, op[0].X, op[1].X, op[2].X)
	aY, bY, cY := cubicDerivative(cur.Y, op[0].Y, op[1].Y, op[2].Y)
	for _, t := range append(quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)...) {
		if !(0 < t && t < 1) {
			continue
		}
		e.add(Point{
			X: bezierCubic(cur.X, op[0].X, op[1].X, op[2].X, t),
			Y: bezierCubic(cur.Y, op[0].Y, op[1].Y, op[2].Y, t),
		})
	}
}

// Bounds returns the tight bounding box of the path's segments. ok is
// false for a path with no drawing segments.
func (p *Path) Bounds() (min, max Point, ok bool) {
	var e extent
	var cur Point
	for _, op := range p.ops {
		switch op := op.(type) {
		case MoveTo:
			cur = Point(op)
		case LineTo:
			e.add(cur)
			e.add(Point(op))
			cur = Point(op)
		case CubicTo:
			e.addCubic(cur, op)
			cur = op[2]
		case Close:
			// closing segments never extend the box
		}
	}
	return e.min, e.max, e.ok
}
