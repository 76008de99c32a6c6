// Package trajtypes holds the data types and error kinds shared between the
// path, limits, switching and builder packages, kept in a dedicated leaf
// package rather than letting every implementation package define its own
// copies.
package trajtypes

import (
	"errors"
	"fmt"

	"github.com/itohio/trajplan/x/math/trajectory/vectorn"
)

// Kind identifies the category of a BuildError.
type Kind int

const (
	KindUnknown Kind = iota
	KindTooFewWaypoints
	KindDimensionMismatch
	KindNonPositiveLimit
	KindNegativeVelocity
	KindBackwardsMiss
	KindNumericDegeneracy
)

func (k Kind) String() string {
	switch k {
	case KindTooFewWaypoints:
		return "TooFewWaypoints"
	case KindDimensionMismatch:
		return "DimensionMismatch"
	case KindNonPositiveLimit:
		return "NonPositiveLimit"
	case KindNegativeVelocity:
		return "NegativeVelocity"
	case KindBackwardsMiss:
		return "BackwardsMiss"
	case KindNumericDegeneracy:
		return "NumericDegeneracy"
	default:
		return "Unknown"
	}
}

var (
	// ErrTooFewWaypoints indicates fewer than two waypoints were supplied.
	ErrTooFewWaypoints = errors.New("trajectory: fewer than two waypoints")
	// ErrDimensionMismatch indicates waypoint, velocity-limit or
	// acceleration-limit dimensions disagree.
	ErrDimensionMismatch = errors.New("trajectory: dimension mismatch")
	// ErrNonPositiveLimit indicates a limit, max_deviation, epsilon or
	// timestep is not strictly positive.
	ErrNonPositiveLimit = errors.New("trajectory: non-positive limit")
	// ErrNegativeVelocity indicates phase-plane integration produced a
	// negative s-dot.
	ErrNegativeVelocity = errors.New("trajectory: negative velocity during integration")
	// ErrBackwardsMiss indicates backward integration walked off the start
	// of the trajectory without finding an intersection.
	ErrBackwardsMiss = errors.New("trajectory: backward integration missed start of trajectory")
	// ErrNumericDegeneracy indicates a guarded division would have divided
	// by zero.
	ErrNumericDegeneracy = errors.New("trajectory: numeric degeneracy")
)

// BuildError wraps a sentinel error with the Kind an errors.Is/As caller can
// switch on, plus the context under which it was raised.
type BuildError struct {
	Kind Kind
	err  error
}

func (e *BuildError) Error() string { return e.err.Error() }
func (e *BuildError) Unwrap() error { return e.err }

func newBuildError(kind Kind, sentinel error, context string) *BuildError {
	return &BuildError{Kind: kind, err: fmt.Errorf("%w: %s", sentinel, context)}
}

func NewTooFewWaypoints(context string) *BuildError {
	return newBuildError(KindTooFewWaypoints, ErrTooFewWaypoints, context)
}

func NewDimensionMismatch(context string) *BuildError {
	return newBuildError(KindDimensionMismatch, ErrDimensionMismatch, context)
}

func NewNonPositiveLimit(context string) *BuildError {
	return newBuildError(KindNonPositiveLimit, ErrNonPositiveLimit, context)
}

func NewNegativeVelocity(context string) *BuildError {
	return newBuildError(KindNegativeVelocity, ErrNegativeVelocity, context)
}

func NewBackwardsMiss(context string) *BuildError {
	return newBuildError(KindBackwardsMiss, ErrBackwardsMiss, context)
}

func NewNumericDegeneracy(context string) *BuildError {
	return newBuildError(KindNumericDegeneracy, ErrNumericDegeneracy, context)
}

// TrajectoryStep is one sample of the phase-plane curve (s, s-dot) with its
// assigned time.
type TrajectoryStep struct {
	Position float64 // path parameter s
	Velocity float64 // s-dot, >= 0
	Time     float64
}

// TrajectorySwitchingPoint anchors a restart of backward integration at an
// MVC feature.
type TrajectorySwitchingPoint struct {
	Step               TrajectoryStep
	BeforeAcceleration float64
	AfterAcceleration  float64
}

// TrajectoryOptions configures a single trajectory build. All fields are
// immutable for the duration of the build.
type TrajectoryOptions struct {
	VelocityLimit     vectorn.Vector
	AccelerationLimit vectorn.Vector
	Epsilon           float64
	Timestep          float64
	// Parallel opts into computing the acceleration- and velocity-bounded
	// switching-point candidates concurrently (see switching.Finder).
	Parallel bool
}

// Validate checks TrajectoryOptions against a waypoint dimension, returning
// the construction-time BuildError the options violate, if any.
func (o TrajectoryOptions) Validate(dim int) error {
	if o.VelocityLimit.Dim() != dim || o.AccelerationLimit.Dim() != dim {
		return NewDimensionMismatch("trajectory options vs. path dimension")
	}
	for i := 0; i < dim; i++ {
		if o.VelocityLimit[i] <= 0 {
			return NewNonPositiveLimit("velocity_limit")
		}
		if o.AccelerationLimit[i] <= 0 {
			return NewNonPositiveLimit("acceleration_limit")
		}
	}
	if o.Epsilon <= 0 {
		return NewNonPositiveLimit("epsilon")
	}
	if o.Timestep <= 0 {
		return NewNonPositiveLimit("timestep")
	}
	return nil
}
