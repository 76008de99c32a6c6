package path

import (
	"sort"

	"github.com/itohio/trajplan/x/math/trajectory/trajtypes"
	"github.com/itohio/trajplan/x/math/trajectory/vectorn"
)

// Path is an ordered, immutable sequence of linear segments and circular
// blends with path-global bookkeeping. It is built once from waypoints and
// never mutated afterward.
type Path struct {
	segments   []*Segment
	length     float64
	switchPts  []SwitchingPoint
	dim        int
}

// Dim returns the dimension of the waypoints the Path was built from.
func (p *Path) Dim() int { return p.dim }

// Length returns the total path length.
func (p *Path) Length() float64 { return p.length }

// SwitchingPoints returns the path's merged, ascending switching-point
// list.
func (p *Path) SwitchingPoints() []SwitchingPoint { return p.switchPts }

// Segments exposes the ordered segment list (read-only by convention).
func (p *Path) Segments() []*Segment { return p.segments }

// Build assembles a Path from waypoints by inserting circular blends
// between linear pieces, following 4.2.
func Build(waypoints []vectorn.Vector, maxDeviation float64) (*Path, error) {
	if len(waypoints) < 2 {
		return nil, trajtypes.NewTooFewWaypoints("build_path")
	}
	dim := waypoints[0].Dim()
	for _, w := range waypoints {
		if w.Dim() != dim {
			return nil, trajtypes.NewDimensionMismatch("waypoints")
		}
	}
	if maxDeviation <= 0 {
		return nil, trajtypes.NewNonPositiveLimit("max_deviation")
	}

	var segments []*Segment

	if len(waypoints) == 2 {
		segments = append(segments, newLinearSegment(waypoints[0], waypoints[1], 0))
	} else {
		prevEnd := waypoints[0]
		for i := 1; i < len(waypoints)-1; i++ {
			p0, c, n := waypoints[i-1], waypoints[i], waypoints[i+1]
			arc := newCircularSegment(p0, c, n, maxDeviation, 0)
			blendStart := arc.Position(0)

			if prevEnd.Distance(blendStart) >= MinAccuracy {
				segments = append(segments, newLinearSegment(prevEnd, blendStart, 0))
			}
			segments = append(segments, arc)
			prevEnd = arc.Position(arc.Length())
		}
		last := waypoints[len(waypoints)-1]
		if prevEnd.Distance(last) >= MinAccuracy {
			segments = append(segments, newLinearSegment(prevEnd, last, 0))
		}
	}

	// Assign start offsets by running sum of lengths.
	offset := 0.0
	for _, seg := range segments {
		seg.startOffset = offset
		offset += seg.length
	}
	length := offset

	switchPts := buildSwitchingPoints(segments)

	return &Path{segments: segments, length: length, switchPts: switchPts, dim: dim}, nil
}

// buildSwitchingPoints merges the Discontinuous kind-change boundaries
// with each segment's intrinsic Continuous points. Zero-length segments
// (the placeholder blend emitted for a collinear waypoint triple) are
// transparent to the boundary check: they never introduce a kind change
// of their own, so a linear-placeholder-linear run collapses to zero
// Discontinuous points instead of two coincident ones.
func buildSwitchingPoints(segments []*Segment) []SwitchingPoint {
	var pts []SwitchingPoint
	var prevKind segmentKind
	havePrev := false
	for _, seg := range segments {
		if seg.length > 0 {
			if havePrev && prevKind != seg.kind {
				pts = append(pts, SwitchingPoint{Position: seg.startOffset, Continuity: Discontinuous})
			}
			prevKind = seg.kind
			havePrev = true
		}
		for _, u := range seg.IntrinsicSwitchingPoints() {
			pts = append(pts, SwitchingPoint{Position: seg.startOffset + u, Continuity: Continuous})
		}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].Position < pts[j].Position })
	return pts
}

// segmentAt returns the segment whose [start_offset, end_offset) contains
// s, clamping s to [0, length] and using the last segment at the exact
// endpoint.
func (p *Path) segmentAt(s float64) (*Segment, float64) {
	if s < 0 {
		s = 0
	}
	if s > p.length {
		s = p.length
	}
	n := len(p.segments)
	idx := sort.Search(n, func(i int) bool {
		return p.segments[i].EndOffset() > s || i == n-1
	})
	if idx >= n {
		idx = n - 1
	}
	seg := p.segments[idx]
	u := s - seg.startOffset
	if u < 0 {
		u = 0
	}
	if u > seg.length {
		u = seg.length
	}
	return seg, u
}

// Position returns the global position at path parameter s.
func (p *Path) Position(s float64) vectorn.Vector {
	seg, u := p.segmentAt(s)
	return seg.Position(u)
}

// Tangent returns the global unit tangent at path parameter s.
func (p *Path) Tangent(s float64) vectorn.Vector {
	seg, u := p.segmentAt(s)
	return seg.Tangent(u)
}

// Curvature returns the global curvature vector at path parameter s.
func (p *Path) Curvature(s float64) vectorn.Vector {
	seg, u := p.segmentAt(s)
	return seg.Curvature(u)
}

// NextDiscontinuity returns the position of the next Discontinuous
// switching point strictly after s, or -1 if there is none.
func (p *Path) NextDiscontinuity(s float64) float64 {
	for _, pt := range p.switchPts {
		if pt.Continuity == Discontinuous && pt.Position > s {
			return pt.Position
		}
	}
	return -1
}
