// Package path builds and queries the differentiable geometric path: an
// ordered sequence of linear segments joined by circular blends.
package path

import "github.com/itohio/trajplan/x/math/trajectory/vectorn"

// MinAccuracy is the geometric degeneracy tolerance, kept distinct from a
// build's numerical epsilon (see trajtypes.TrajectoryOptions.Epsilon):
// it governs when two waypoints or directions are close enough to be
// treated as coincident or collinear, not how tightly the phase-plane
// integrator tracks the MVC.
const MinAccuracy = 1e-6

// Continuity classifies a PathSwitchingPoint.
type Continuity int

const (
	// Discontinuous marks a linear<->circular segment boundary, where only
	// position (not tangent or curvature) is guaranteed continuous.
	Discontinuous Continuity = iota
	// Continuous marks an intrinsic switching point strictly inside a
	// circular arc, where position, tangent and curvature are continuous.
	Continuous
)

// SwitchingPoint is a path-global feature position with its continuity
// class. Positions are strictly ordered within a Path.
type SwitchingPoint struct {
	Position   float64
	Continuity Continuity
}

type segmentKind int

const (
	kindLinear segmentKind = iota
	kindCircular
)

// Segment is a tagged-variant path piece: either a LinearSegment or a
// CircularSegment. A closed switch on Kind is used instead of dynamic
// dispatch, since the set of variants is fixed and small.
type Segment struct {
	kind        segmentKind
	startOffset float64
	length      float64 // = arcLength for circular segments

	// linear fields
	start, end, tangentLinear vectorn.Vector

	// circular fields
	center, x, yArc vectorn.Vector
	radius          float64
	arcLength       float64
	intrinsicSwPts  []float64
}

// StartOffset returns the segment's path-global start position.
func (s *Segment) StartOffset() float64 { return s.startOffset }

// EndOffset returns the segment's path-global end position.
func (s *Segment) EndOffset() float64 { return s.startOffset + s.length }

// Length returns the segment's arc length.
func (s *Segment) Length() float64 { return s.length }

// IsCircular reports whether the segment is a circular blend (including a
// zero-length placeholder).
func (s *Segment) IsCircular() bool { return s.kind == kindCircular }

// Position returns the segment-local position at local parameter u in
// [0, Length()].
func (s *Segment) Position(u float64) vectorn.Vector {
	switch s.kind {
	case kindLinear:
		return s.start.Add(s.tangentLinear.Scale(u))
	default:
		return s.circularPosition(u)
	}
}

// Tangent returns the unit tangent at local parameter u.
func (s *Segment) Tangent(u float64) vectorn.Vector {
	switch s.kind {
	case kindLinear:
		return s.tangentLinear
	default:
		return s.circularTangent(u)
	}
}

// Curvature returns the curvature vector at local parameter u.
func (s *Segment) Curvature(u float64) vectorn.Vector {
	switch s.kind {
	case kindLinear:
		return s.start.Zero()
	default:
		return s.circularCurvature(u)
	}
}

// IntrinsicSwitchingPoints returns the local positions, strictly inside
// (0, Length()), where this segment's own geometry changes the active MVC
// feature (only circular segments have any).
func (s *Segment) IntrinsicSwitchingPoints() []float64 {
	if s.kind != kindCircular {
		return nil
	}
	return s.intrinsicSwPts
}
