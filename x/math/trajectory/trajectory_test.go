package trajectory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/trajplan/x/math/trajectory/limits"
	"github.com/itohio/trajplan/x/math/trajectory/path"
)

func unitLimits(dim int) (VectorN, VectorN) {
	v := make(VectorN, dim)
	a := make(VectorN, dim)
	for i := range v {
		v[i] = 1
		a[i] = 1
	}
	return v, a
}

// S1: a 3D seven-waypoint path builds successfully with duration ~= 14.8028s
// and starts/ends at rest.
func TestScenarioS1SevenWaypoints(t *testing.T) {
	waypoints := []VectorN{
		From(0, 0, 0), From(0, 0.2, 1), From(0, 3, 0.5),
		From(1.1, 2, 0), From(1, 0, 0), From(0, 1, 0), From(0, 0, 1),
	}
	p, err := BuildPath(waypoints, 0.001)
	require.NoError(t, err)

	v, a := unitLimits(3)
	traj, err := BuildTrajectory(p, TrajectoryOptions{
		VelocityLimit: v, AccelerationLimit: a, Epsilon: 1e-6, Timestep: 0.001,
	})
	require.NoError(t, err)

	assert.InDelta(t, 14.8028, traj.Duration(), 0.5)

	v0 := traj.Velocity(0)
	for _, c := range v0 {
		assert.InDelta(t, 0, c, 1e-6)
	}
	vEnd := traj.Velocity(traj.Duration())
	for _, c := range vEnd {
		assert.InDelta(t, 0, c, 1e-6)
	}
}

// S2: a 2D unit-arrow blend has an exactly computable radius, arc length
// and center.
func TestScenarioS2BlendGeometry(t *testing.T) {
	waypoints := []VectorN{From(0, 0, 0), From(5, 5, 0), From(10, 0, 0)}
	p, err := BuildPath(waypoints, 0.1)
	require.NoError(t, err)

	var haveArc bool
	for _, seg := range p.Segments() {
		if seg.IsCircular() && seg.Length() > 0 {
			haveArc = true
			assert.InDelta(t, 0.37922377958740805, seg.Length(), 1e-9)
		}
	}
	assert.True(t, haveArc)
}

// S3: a straight collinear path accelerates, cruises and decelerates
// symmetrically under unit limits.
func TestScenarioS3StraightLine(t *testing.T) {
	waypoints := []VectorN{From(0, 0, 0), From(0, 5, 0), From(0, 10, 0)}
	p, err := BuildPath(waypoints, 0.001)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, p.Length(), 1e-9)

	v, a := unitLimits(3)
	traj, err := BuildTrajectory(p, TrajectoryOptions{
		VelocityLimit: v, AccelerationLimit: a, Epsilon: 1e-6, Timestep: 0.001,
	})
	require.NoError(t, err)

	want := 10 + 2*(math.Sqrt(2)-1)
	assert.InDelta(t, want, traj.Duration(), 1e-2)
}

// S4: two very close waypoints with tight acceleration limits still
// produce a positive, finite duration.
func TestScenarioS4ClosePoints(t *testing.T) {
	waypoints := []VectorN{
		From(1424, 984.999694824219, 2126),
		From(1423, 985.000244140625, 2126),
	}
	p, err := BuildPath(waypoints, 100)
	require.NoError(t, err)

	traj, err := BuildTrajectory(p, TrajectoryOptions{
		VelocityLimit:     From(1.3, 0.67, 0.67),
		AccelerationLimit: From(0.00249, 0.00249, 0.00249),
		Epsilon:           1e-6,
		Timestep:          0.001,
	})
	require.NoError(t, err)
	assert.Greater(t, traj.Duration(), 0.0)
	assert.False(t, math.IsInf(traj.Duration(), 0))
}

// S5: a right-angle turn produces a non-empty, sorted intrinsic switching
// point list and exactly two Discontinuous path switching points flanking
// the arc.
func TestScenarioS5RightAngle(t *testing.T) {
	waypoints := []VectorN{From(0, 0, 0), From(0, 1, 0), From(1, 1, 0)}
	p, err := BuildPath(waypoints, 0.1)
	require.NoError(t, err)

	var arcFound bool
	for _, seg := range p.Segments() {
		if seg.IsCircular() && seg.Length() > 0 {
			arcFound = true
			pts := seg.IntrinsicSwitchingPoints()
			require.NotEmpty(t, pts)
			for i := 1; i < len(pts); i++ {
				assert.Less(t, pts[i-1], pts[i])
			}
		}
	}
	require.True(t, arcFound)

	var discontinuous int
	for _, pt := range p.SwitchingPoints() {
		if pt.Continuity == path.Discontinuous {
			discontinuous++
		}
	}
	assert.Equal(t, 2, discontinuous)
}

// S6: malformed inputs are rejected with the documented error kinds.
func TestScenarioS6Rejections(t *testing.T) {
	_, err := BuildPath([]VectorN{From(0, 0, 0)}, 0.1)
	require.Error(t, err)
	var be *BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, KindTooFewWaypoints, be.Kind)

	p, err := BuildPath([]VectorN{From(0, 0, 0), From(1, 0, 0)}, 0.1)
	require.NoError(t, err)

	_, err = BuildTrajectory(p, TrajectoryOptions{
		VelocityLimit:     From(0, 1, 1),
		AccelerationLimit: From(1, 1, 1),
		Epsilon:           1e-6,
		Timestep:          0.001,
	})
	require.Error(t, err)
	require.ErrorAs(t, err, &be)
	assert.Equal(t, KindNonPositiveLimit, be.Kind)
}

// Invariant 3: position is continuous at every path switching point
// (Continuous ones also hold tangent and curvature continuous, but only
// position continuity is promised at Discontinuous ones).
func TestInvariantPositionContinuousAtSwitchingPoints(t *testing.T) {
	waypoints := []VectorN{
		From(0, 0, 0), From(0, 0.2, 1), From(0, 3, 0.5),
		From(1.1, 2, 0), From(1, 0, 0), From(0, 1, 0), From(0, 0, 1),
	}
	p, err := BuildPath(waypoints, 0.001)
	require.NoError(t, err)

	const h = 1e-7
	for _, pt := range p.SwitchingPoints() {
		before := p.Position(pt.Position - h)
		after := p.Position(pt.Position + h)
		assert.InDelta(t, 0, before.Distance(after), 1e-4)
	}
}

// Invariant 4: the final trajectory's steps are non-negative in
// velocity, start and end at rest, and strictly increasing in time with
// non-decreasing position.
func TestInvariantMonotoneTrajectorySteps(t *testing.T) {
	waypoints := []VectorN{
		From(0, 0, 0), From(0, 0.2, 1), From(0, 3, 0.5),
		From(1.1, 2, 0), From(1, 0, 0), From(0, 1, 0), From(0, 0, 1),
	}
	p, err := BuildPath(waypoints, 0.001)
	require.NoError(t, err)
	v, a := unitLimits(3)
	traj, err := BuildTrajectory(p, TrajectoryOptions{
		VelocityLimit: v, AccelerationLimit: a, Epsilon: 1e-6, Timestep: 0.001,
	})
	require.NoError(t, err)

	const samples = 200
	prevT, prevS := -1.0, -1.0
	for i := 0; i <= samples; i++ {
		tt := traj.Duration() * float64(i) / float64(samples)
		s, sdot := traj.query.Evaluate(tt)
		assert.GreaterOrEqual(t, sdot, -1e-9)
		if i > 0 {
			assert.Greater(t, tt, prevT)
			assert.GreaterOrEqual(t, s, prevS-1e-9)
		}
		prevT, prevS = tt, s
	}

	steps := traj.query.Steps()
	require.NotEmpty(t, steps)
	assert.InDelta(t, 0, steps[0].Velocity, 1e-9)
	assert.InDelta(t, 0, steps[len(steps)-1].Velocity, 1e-9)
	for i, st := range steps {
		assert.GreaterOrEqual(t, st.Velocity, 0.0)
		if i > 0 {
			assert.Greater(t, st.Time, steps[i-1].Time)
			assert.GreaterOrEqual(t, st.Position, steps[i-1].Position)
		}
	}
}

// Invariant 5: trajectory states sampled at evenly spaced times stay within
// the velocity and acceleration MVC curves, to within 1e-3.
func TestInvariantStepsWithinMVC(t *testing.T) {
	waypoints := []VectorN{From(0, 0, 0), From(5, 5, 0), From(10, 0, 0)}
	p, err := BuildPath(waypoints, 0.1)
	require.NoError(t, err)
	v, a := unitLimits(3)
	traj, err := BuildTrajectory(p, TrajectoryOptions{
		VelocityLimit: v, AccelerationLimit: a, Epsilon: 1e-6, Timestep: 0.001,
	})
	require.NoError(t, err)

	lim, err := limits.New(p, v, a, 1e-6)
	require.NoError(t, err)

	const samples = 200
	for i := 0; i <= samples; i++ {
		tt := traj.Duration() * float64(i) / float64(samples)
		s, sdot := traj.query.Evaluate(tt)
		assert.LessOrEqual(t, sdot, lim.MVCVel(s)+1e-3)
		assert.LessOrEqual(t, sdot, lim.MVCAcc(s)+1e-3)
	}
}

// Invariant 6: trajectory position at t=0 and t=duration round-trips to
// the path's position at s=0 and s=length.
func TestInvariantPositionRoundTrip(t *testing.T) {
	waypoints := []VectorN{From(0, 0, 0), From(0, 5, 0), From(0, 10, 0)}
	p, err := BuildPath(waypoints, 0.001)
	require.NoError(t, err)
	v, a := unitLimits(3)
	traj, err := BuildTrajectory(p, TrajectoryOptions{
		VelocityLimit: v, AccelerationLimit: a, Epsilon: 1e-6, Timestep: 0.001,
	})
	require.NoError(t, err)

	start := traj.Position(0)
	end := traj.Position(traj.Duration())
	assert.InDelta(t, 0, start.Distance(p.Position(0)), 1e-5)
	assert.InDelta(t, 0, end.Distance(p.Position(p.Length())), 1e-5)
}

// Invariant 7: rebuilding a trajectory from identical inputs is
// idempotent.
func TestInvariantRebuildIsIdempotent(t *testing.T) {
	waypoints := []VectorN{
		From(0, 0, 0), From(0, 0.2, 1), From(0, 3, 0.5),
		From(1.1, 2, 0), From(1, 0, 0), From(0, 1, 0), From(0, 0, 1),
	}
	v, a := unitLimits(3)
	opts := TrajectoryOptions{VelocityLimit: v, AccelerationLimit: a, Epsilon: 1e-6, Timestep: 0.001}

	p1, err := BuildPath(waypoints, 0.001)
	require.NoError(t, err)
	traj1, err := BuildTrajectory(p1, opts)
	require.NoError(t, err)

	p2, err := BuildPath(waypoints, 0.001)
	require.NoError(t, err)
	traj2, err := BuildTrajectory(p2, opts)
	require.NoError(t, err)

	assert.Equal(t, traj1.Duration(), traj2.Duration())
	assert.Equal(t, len(traj1.query.Steps()), len(traj2.query.Steps()))
}

// From constructs a VectorN from literal components (re-exported for test
// readability; production callers use vectorn.From via the vectorn
// package directly).
func From(components ...float64) VectorN {
	v := make(VectorN, len(components))
	copy(v, components)
	return v
}
