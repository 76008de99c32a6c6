package trajectory

import "github.com/itohio/trajplan/x/math/trajectory/trajtypes"

// Option adjusts a TrajectoryOptions value before a build starts, in the
// functional-options style.
type Option func(*trajtypes.TrajectoryOptions)

// WithEpsilon overrides the numerical tolerance used throughout
// integration and bisection.
func WithEpsilon(epsilon float64) Option {
	return func(o *trajtypes.TrajectoryOptions) { o.Epsilon = epsilon }
}

// WithTimestep overrides the forward/backward integration step size.
func WithTimestep(timestep float64) Option {
	return func(o *trajtypes.TrajectoryOptions) { o.Timestep = timestep }
}

// WithParallelSwitchingPoints opts into computing the acceleration- and
// velocity-bounded switching-point candidates on separate goroutines.
func WithParallelSwitchingPoints(enabled bool) Option {
	return func(o *trajtypes.TrajectoryOptions) { o.Parallel = enabled }
}
