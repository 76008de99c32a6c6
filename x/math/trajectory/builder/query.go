package builder

import (
	"github.com/itohio/trajplan/x/math/trajectory/path"
	"github.com/itohio/trajplan/x/math/trajectory/trajtypes"
	"github.com/itohio/trajplan/x/math/trajectory/vectorn"
)

// Query evaluates a finished step list at arbitrary times, following 4.8.
// Its bracketing-index cache accelerates monotone scans and is private to
// each Query value, so concurrent readers never share a write (see the
// concurrency model).
type Query struct {
	path  *path.Path
	steps []trajtypes.TrajectoryStep

	cacheIdx int
}

// NewQuery wraps a finished, read-only step list for querying.
func NewQuery(p *path.Path, steps []trajtypes.TrajectoryStep) *Query {
	return &Query{path: p, steps: steps}
}

// Steps returns the underlying step list, for diagnostics and tests.
func (q *Query) Steps() []trajtypes.TrajectoryStep { return q.steps }

// Duration returns the trajectory's total time.
func (q *Query) Duration() float64 {
	if len(q.steps) == 0 {
		return 0
	}
	return q.steps[len(q.steps)-1].Time
}

func (q *Query) bracket(t float64) (trajtypes.TrajectoryStep, trajtypes.TrajectoryStep) {
	n := len(q.steps)
	if t < q.steps[q.cacheIdx].Time {
		q.cacheIdx = 0
	}
	i := q.cacheIdx
	for i < n-2 && q.steps[i+1].Time < t {
		i++
	}
	q.cacheIdx = i
	return q.steps[i], q.steps[i+1]
}

// Evaluate returns the path parameter and its derivative at time t,
// saturating at the endpoints for t outside [0, duration].
func (q *Query) Evaluate(t float64) (s, sdot float64) {
	if len(q.steps) == 0 {
		return 0, 0
	}
	if t <= 0 {
		first := q.steps[0]
		return first.Position, first.Velocity
	}
	duration := q.Duration()
	if t >= duration {
		last := q.steps[len(q.steps)-1]
		return last.Position, last.Velocity
	}

	prev, cur := q.bracket(t)
	dt := cur.Time - prev.Time
	if dt <= 0 {
		return prev.Position, prev.Velocity
	}

	a := 2 * (cur.Position - prev.Position - dt*prev.Velocity) / (dt * dt)
	tau := t - prev.Time
	s = prev.Position + tau*prev.Velocity + 0.5*tau*tau*a
	sdot = prev.Velocity + tau*a
	return s, sdot
}

// Position returns the global position at time t.
func (q *Query) Position(t float64) vectorn.Vector {
	s, _ := q.Evaluate(t)
	return q.path.Position(s)
}

// Velocity returns the global velocity vector at time t.
func (q *Query) Velocity(t float64) vectorn.Vector {
	s, sdot := q.Evaluate(t)
	return q.path.Tangent(s).Scale(sdot)
}
