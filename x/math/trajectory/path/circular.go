package path

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/itohio/trajplan/x/math/trajectory/vectorn"
)

// placeholderSegment returns a zero-length circular blend anchored at c. It
// preserves differentiability bookkeeping for near-collinear or
// near-coincident waypoint triples without inserting a real arc.
func placeholderSegment(c vectorn.Vector, startOffset float64) *Segment {
	return &Segment{
		kind:        kindCircular,
		startOffset: startOffset,
		length:      0,
		center:      c.Clone(),
		x:           c.Zero(),
		yArc:        c.Zero(),
		radius:      0,
		arcLength:   0,
	}
}

// newCircularSegment builds the blend arc through the triple (p, c, n) that
// deviates from c by at most maxDeviation, following 4.1.
func newCircularSegment(p, c, n vectorn.Vector, maxDeviation, startOffset float64) *Segment {
	dPC := c.Sub(p)
	dCN := n.Sub(c)
	lenPC := dPC.Norm()
	lenCN := dCN.Norm()

	if floats.EqualWithinAbs(lenPC, 0, MinAccuracy) || floats.EqualWithinAbs(lenCN, 0, MinAccuracy) {
		return placeholderSegment(c, startOffset)
	}

	yhat := dPC.Scale(1 / lenPC)
	what := dCN.Scale(1 / lenCN)
	diff := yhat.Sub(what)
	if diff.NearZero(MinAccuracy) {
		return placeholderSegment(c, startOffset)
	}

	alpha := yhat.Angle(what)
	sinHalf := math.Sin(alpha / 2)
	cosHalf := math.Cos(alpha / 2)

	radiusLimit := maxDeviation * sinHalf / (1 - cosHalf)
	blendDist := math.Min(lenPC/2, math.Min(lenCN/2, radiusLimit))
	radius := blendDist / math.Tan(alpha/2)

	wMinusY := what.Sub(yhat)
	center := c.Add(wMinusY.Normalize().Scale(radius / cosHalf))

	touchPoint := c.Sub(yhat.Scale(blendDist))
	xhat := touchPoint.Sub(center).Normalize()
	yArc := yhat.Clone()

	arcLength := alpha * radius

	seg := &Segment{
		kind:        kindCircular,
		startOffset: startOffset,
		length:      arcLength,
		center:      center,
		x:           xhat,
		yArc:        yArc,
		radius:      radius,
		arcLength:   arcLength,
	}
	seg.intrinsicSwPts = seg.computeIntrinsicSwitchingPoints()
	return seg
}

func (s *Segment) circularPosition(u float64) vectorn.Vector {
	if s.radius == 0 {
		return s.center.Clone()
	}
	theta := u / s.radius
	return s.center.Add(s.x.Scale(math.Cos(theta)).Add(s.yArc.Scale(math.Sin(theta))).Scale(s.radius))
}

func (s *Segment) circularTangent(u float64) vectorn.Vector {
	if s.radius == 0 {
		return s.center.Zero()
	}
	theta := u / s.radius
	return s.x.Scale(-math.Sin(theta)).Add(s.yArc.Scale(math.Cos(theta)))
}

func (s *Segment) circularCurvature(u float64) vectorn.Vector {
	if s.radius == 0 {
		return s.center.Zero()
	}
	theta := u / s.radius
	dir := s.x.Scale(math.Cos(theta)).Add(s.yArc.Scale(math.Sin(theta)))
	return dir.Scale(-1 / s.radius)
}

func (s *Segment) computeIntrinsicSwitchingPoints() []float64 {
	var candidates []float64
	for k := 0; k < s.x.Dim(); k++ {
		phi := math.Atan2(s.yArc[k], s.x[k])
		if phi < 0 {
			phi += math.Pi
		}
		candidate := phi * s.radius
		if candidate > MinAccuracy && candidate < s.arcLength-MinAccuracy {
			candidates = append(candidates, candidate)
		}
	}
	sort.Float64s(candidates)
	return candidates
}
