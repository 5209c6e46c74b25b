package svgpath

import (
	"github.com/bungeman/svg-native-viewer/svgrender"
)

// Member is one (path, winding rule) constituent of a shape.
type Member struct {
	Path *Path
	Rule svgrender.WindingRule
}

// Shape combines one or more paths by union: its fill region is the set
// union of the members' filled regions under their respective winding
// rules. Backends realize the union by painting every member onto the
// same target.
//
// A shape owns deep copies of the geometry it was built from, so
// transforming a shape never mutates the paths or shapes it came from.
type Shape struct {
	members []Member
}

var _ svgrender.Shape = (*Shape)(nil)

// NewShape returns a shape filled from the given path under the given
// winding rule. The path's recorded operations are copied.
func NewShape(path svgrender.Path, rule svgrender.WindingRule) *Shape {
	s := &Shape{}
	if p := pathOf(path); p != nil {
		s.members = append(s.members, Member{Path: p.Clone(), Rule: rule})
	}
	return s
}

// Members exposes the shape's constituents for backends.
func (s *Shape) Members() []Member { return s.members }

// Transform applies the transform to all contained geometry in place.
func (s *Shape) Transform(t svgrender.Transform) {
	m := MatrixOf(t)
	for _, member := range s.members {
		ops := member.Path.ops
		for i, op := range ops {
			ops[i] = op.transformed(m)
		}
	}
}

// Union adds the other shape's geometry to this one.
func (s *Shape) Union(other svgrender.Shape) {
	o, ok := other.(*Shape)
	if !ok {
		svgrender.Logger().Debug("svgpath: foreign Shape implementation ignored in Union")
		return
	}
	for _, member := range o.members {
		s.members = append(s.members, Member{Path: member.Path.Clone(), Rule: member.Rule})
	}
}

// Bounds returns the bounding box over all members. ok is false for a
// shape with no geometry.
func (s *Shape) Bounds() (min, max Point, ok bool) {
	for _, member := range s.members {
		mn, mx, mok := member.Path.Bounds()
		if !mok {
			continue
		}
		if !ok {
			min, max, ok = mn, mx, true
			continue
		}
		if mn.X < min.X {
			min.X = mn.X
		}
		if mn.Y < min.Y {
			min.Y = mn.Y
		}
		if mx.X > max.X {
			max.X = mx.X
		}
		if mx.Y > max.Y {
			max.Y = mx.Y
		}
	}
	return min, max, ok
}

func pathOf(path svgrender.Path) *Path {
	if p, ok := path.(*Path); ok {
		return p
	}
	svgrender.Logger().Debug("svgpath: foreign Path implementation ignored")
	return nil
}
