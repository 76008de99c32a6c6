package path

import "github.com/itohio/trajplan/x/math/trajectory/vectorn"

// newLinearSegment builds the straight segment from start to end. The
// caller is responsible for skipping segments shorter than MinAccuracy.
func newLinearSegment(start, end vectorn.Vector, startOffset float64) *Segment {
	length := start.Distance(end)
	var tangent vectorn.Vector
	if length > 0 {
		tangent = end.Sub(start).Scale(1 / length)
	} else {
		tangent = start.Zero()
	}
	return &Segment{
		kind:          kindLinear,
		startOffset:   startOffset,
		length:        length,
		start:         start,
		end:           end,
		tangentLinear: tangent,
	}
}
