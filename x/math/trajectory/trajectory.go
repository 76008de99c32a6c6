// Package trajectory is the public entry point for building and querying
// time-optimal motion trajectories: build_path and build_trajectory in,
// Trajectory.Duration/Position/Velocity out.
package trajectory

import (
	"github.com/itohio/trajplan/x/math/trajectory/builder"
	"github.com/itohio/trajplan/x/math/trajectory/limits"
	"github.com/itohio/trajplan/x/math/trajectory/path"
	"github.com/itohio/trajplan/x/math/trajectory/switching"
	"github.com/itohio/trajplan/x/math/trajectory/trajtypes"
	"github.com/itohio/trajplan/x/math/trajectory/vectorn"
)

// VectorN is the N-dimensional double-precision vector type shared across
// the public API.
type VectorN = vectorn.Vector

// Path is the differentiable geometric path built from waypoints.
type Path = path.Path

// TrajectoryOptions configures a trajectory build.
type TrajectoryOptions = trajtypes.TrajectoryOptions

// BuildError reports why a path or trajectory build failed.
type BuildError = trajtypes.BuildError

// Re-exported error kinds and sentinels for errors.Is/As callers.
const (
	KindTooFewWaypoints   = trajtypes.KindTooFewWaypoints
	KindDimensionMismatch = trajtypes.KindDimensionMismatch
	KindNonPositiveLimit  = trajtypes.KindNonPositiveLimit
	KindNegativeVelocity  = trajtypes.KindNegativeVelocity
	KindBackwardsMiss     = trajtypes.KindBackwardsMiss
	KindNumericDegeneracy = trajtypes.KindNumericDegeneracy
)

var (
	ErrTooFewWaypoints   = trajtypes.ErrTooFewWaypoints
	ErrDimensionMismatch = trajtypes.ErrDimensionMismatch
	ErrNonPositiveLimit  = trajtypes.ErrNonPositiveLimit
	ErrNegativeVelocity  = trajtypes.ErrNegativeVelocity
	ErrBackwardsMiss     = trajtypes.ErrBackwardsMiss
	ErrNumericDegeneracy = trajtypes.ErrNumericDegeneracy
)

// BuildPath assembles a differentiable path from waypoints by inserting
// circular blends of at most maxDeviation between linear segments.
func BuildPath(waypoints []VectorN, maxDeviation float64) (*Path, error) {
	return path.Build(waypoints, maxDeviation)
}

// Trajectory is a finished, time-parameterized motion profile over a Path.
type Trajectory struct {
	path  *path.Path
	query *builder.Query
}

// Duration returns the trajectory's total time.
func (t *Trajectory) Duration() float64 { return t.query.Duration() }

// Position returns the global position at time tt, saturating at the
// endpoints outside [0, duration].
func (t *Trajectory) Position(tt float64) VectorN { return t.query.Position(tt) }

// Velocity returns the global velocity vector at time tt.
func (t *Trajectory) Velocity(tt float64) VectorN { return t.query.Velocity(tt) }

// Path returns the geometric path this trajectory was built over.
func (t *Trajectory) Path() *Path { return t.path }

// BuildTrajectory runs phase-plane integration over p under options,
// optionally adjusted by opts, and returns a queryable Trajectory.
func BuildTrajectory(p *Path, options TrajectoryOptions, opts ...Option) (*Trajectory, error) {
	cfg := options
	for _, o := range opts {
		o(&cfg)
	}
	if err := cfg.Validate(p.Dim()); err != nil {
		return nil, err
	}

	lim, err := limits.New(p, cfg.VelocityLimit, cfg.AccelerationLimit, cfg.Epsilon)
	if err != nil {
		return nil, err
	}

	var finder *switching.Finder
	if cfg.Parallel {
		finder = switching.NewParallel(p, lim, cfg.Epsilon)
	} else {
		finder = switching.New(p, lim, cfg.Epsilon)
	}

	b := builder.New(p, lim, finder, cfg)
	steps, err := b.Build()
	if err != nil {
		return nil, err
	}

	return &Trajectory{path: p, query: builder.NewQuery(p, steps)}, nil
}
