// Package builder performs phase-plane forward/backward integration and
// exposes the resulting step list through Query, following 4.5-4.8.
package builder

import (
	"math"

	"github.com/itohio/trajplan/x/math/trajectory/limits"
	"github.com/itohio/trajplan/x/math/trajectory/path"
	"github.com/itohio/trajplan/x/math/trajectory/switching"
	"github.com/itohio/trajplan/x/math/trajectory/trajlog"
	"github.com/itohio/trajplan/x/math/trajectory/trajtypes"
)

// status signals what the forward-integration loop found.
type status int

const (
	endReached status = iota
	notEnd
)

// Builder drives the forward/backward integration that produces a
// trajectory's timed step list.
type Builder struct {
	path   *path.Path
	lim    *limits.Limits
	finder *switching.Finder
	opts   trajtypes.TrajectoryOptions
}

// New returns a Builder ready to produce a step list for p under opts.
func New(p *path.Path, lim *limits.Limits, finder *switching.Finder, opts trajtypes.TrajectoryOptions) *Builder {
	return &Builder{path: p, lim: lim, finder: finder, opts: opts}
}

// Build runs forward integration from rest at s=0, backward-splicing at
// every switching point the forward pass cannot clear, and finishes with a
// terminal backward pass from rest at the path's end.
func (b *Builder) Build() ([]trajtypes.TrajectoryStep, error) {
	steps := []trajtypes.TrajectoryStep{{Position: 0, Velocity: 0}}
	a := b.lim.AMax(0, 0)

	for {
		st, err := b.forwardIntegrate(&steps, a)
		if err != nil {
			return nil, err
		}
		if st == endReached {
			break
		}

		last := steps[len(steps)-1]
		sw, err := b.finder.NextSwitchingPoint(last.Position)
		if err != nil {
			return nil, err
		}
		if sw == nil {
			return nil, trajtypes.NewBackwardsMiss("no switching point found after forward overshoot")
		}

		segment, retain, err := b.backwardIntegrate(steps, sw)
		if err != nil {
			return nil, err
		}
		trajlog.Log.Debug().
			Float64("s", sw.Step.Position).
			Float64("sdot", sw.Step.Velocity).
			Int("back_splice_idx", retain).
			Msg("back_splice_idx")

		steps = append(append([]trajtypes.TrajectoryStep{}, steps[:retain]...), segment...)
		a = sw.AfterAcceleration
	}

	terminal := &trajtypes.TrajectorySwitchingPoint{
		Step:               trajtypes.TrajectoryStep{Position: b.path.Length(), Velocity: 0},
		BeforeAcceleration: b.lim.AMin(b.path.Length(), 0),
	}
	segment, retain, err := b.backwardIntegrate(steps, terminal)
	if err != nil {
		return nil, err
	}
	steps = append(append([]trajtypes.TrajectoryStep{}, steps[:retain]...), segment...)

	assignTimes(steps)
	return steps, nil
}

// forwardIntegrate advances steps in place using maximum acceleration,
// clipping at path discontinuities and the velocity MVC, and bisecting
// against the MVC (acceleration or velocity bound) on overshoot, following
// 4.5.
func (b *Builder) forwardIntegrate(steps *[]trajtypes.TrajectoryStep, a0 float64) (status, error) {
	dt := b.opts.Timestep

	last := (*steps)[len(*steps)-1]
	s, sdot, a := last.Position, last.Velocity, a0
	nextDisc := b.path.NextDiscontinuity(s)

	for {
		sOld, sdotOld := s, sdot
		sdot = sdot + dt*a
		s = s + dt*(sdotOld+sdot)/2

		if nextDisc >= 0 && sOld <= nextDisc && s > nextDisc {
			frac := (nextDisc - sOld) / (s - sOld)
			sdot = sdotOld + frac*(sdot-sdotOld)
			s = nextDisc
			nextDisc = b.path.NextDiscontinuity(s)
		}

		if s > b.path.Length() {
			*steps = append(*steps, trajtypes.TrajectoryStep{Position: s, Velocity: sdot})
			return endReached, nil
		}
		if sdot < 0 {
			return 0, trajtypes.NewNegativeVelocity("forward integration")
		}

		if sdot > b.lim.MVCVel(s) && b.lim.PhaseSlopeMin(sOld, b.lim.MVCVel(sOld)) <= b.lim.MVCVelPrime(sOld) {
			sdot = b.lim.MVCVel(s)
		}

		*steps = append(*steps, trajtypes.TrajectoryStep{Position: s, Velocity: sdot})
		a = b.lim.AMax(s, sdot)

		if sdot > b.lim.MVCAcc(s) || sdot > b.lim.MVCVel(s) {
			before := trajtypes.TrajectoryStep{Position: sOld, Velocity: sdotOld}
			after := trajtypes.TrajectoryStep{Position: s, Velocity: sdot}

			for after.Position-before.Position > b.opts.Epsilon {
				mid := midpoint(before, after)
				if mid.Velocity > b.lim.MVCVel(mid.Position) &&
					b.lim.PhaseSlopeMin(before.Position, b.lim.MVCVel(before.Position)) <= b.lim.MVCVelPrime(before.Position) {
					mid.Velocity = b.lim.MVCVel(mid.Position)
				}
				if mid.Velocity > b.lim.MVCAcc(mid.Position) || mid.Velocity > b.lim.MVCVel(mid.Position) {
					after = mid
				} else {
					before = mid
				}
			}

			(*steps)[len(*steps)-1] = before
			trajlog.Log.Debug().
				Float64("s", before.Position).
				Float64("sdot", before.Velocity).
				Msg("mvc_overshoot_bisect")

			if b.lim.MVCAcc(after.Position) < b.lim.MVCVel(after.Position) {
				if nextDisc >= 0 && nextDisc <= after.Position {
					trajlog.Log.Debug().Float64("s", before.Position).Float64("sdot", before.Velocity).Msg("forward_sw_point")
					return notEnd, nil
				}
				if b.lim.PhaseSlopeMax(before.Position, before.Velocity) > b.lim.MVCAccPrime(before.Position) {
					trajlog.Log.Debug().Float64("s", before.Position).Float64("sdot", before.Velocity).Msg("forward_sw_point")
					return notEnd, nil
				}
			} else if b.lim.PhaseSlopeMin(before.Position, before.Velocity) > b.lim.MVCVelPrime(before.Position) {
				trajlog.Log.Debug().Float64("s", before.Position).Float64("sdot", before.Velocity).Msg("forward_sw_point")
				return notEnd, nil
			}

			s, sdot = before.Position, before.Velocity
		}
	}
}

func midpoint(a, b trajtypes.TrajectoryStep) trajtypes.TrajectoryStep {
	return trajtypes.TrajectoryStep{
		Position: (a.Position + b.Position) / 2,
		Velocity: (a.Velocity + b.Velocity) / 2,
	}
}

// backwardIntegrate walks the current step list from end to start using
// minimum acceleration from sw, and splices in the reversed backward
// segment at the intersection with the forward trajectory, following 4.6.
// It returns the new segment (in forward order, ready to append) and the
// number of leading steps of the original list to retain.
func (b *Builder) backwardIntegrate(steps []trajtypes.TrajectoryStep, sw *trajtypes.TrajectorySwitchingPoint) ([]trajtypes.TrajectoryStep, int, error) {
	dt := b.opts.Timestep
	eps := b.opts.Epsilon

	s, sdot, a := sw.Step.Position, sw.Step.Velocity, sw.BeforeAcceleration
	var newSegment []trajtypes.TrajectoryStep
	sigma := 0.0
	newFirstS := s

	i := len(steps) - 1
	for i > 0 {
		if s < 0 {
			return nil, 0, trajtypes.NewBackwardsMiss("backward integration walked off start of trajectory")
		}

		if steps[i-1].Position > s {
			i--
			if i == 0 {
				break
			}
		} else {
			p := trajtypes.TrajectoryStep{Position: s, Velocity: sdot}
			sdotNext := sdot - dt*a
			sNext := s - dt*(sdotNext+p.Velocity)/2
			if sdotNext < 0 {
				return nil, 0, trajtypes.NewNegativeVelocity("backward integration")
			}
			sigma = (p.Velocity - sdotNext) / (p.Position - sNext)
			a = b.lim.AMin(sNext, sdotNext)
			s, sdot = sNext, sdotNext
			newSegment = append([]trajtypes.TrajectoryStep{p}, newSegment...)
			newFirstS = p.Position
		}
		start1, start2 := steps[i-1], steps[i]

		denom := start2.Position - start1.Position
		if denom == 0 {
			return nil, 0, trajtypes.NewNumericDegeneracy("backward intersection: degenerate forward pair")
		}
		sigmaFwd := (start2.Velocity - start1.Velocity) / denom
		if sigma == sigmaFwd {
			continue
		}

		sInt := (start1.Velocity - sdot + sigma*s - sigmaFwd*start1.Position) / (sigma - sigmaFwd)
		lower := math.Max(start1.Position, s) - eps
		upper := eps + math.Min(start2.Position, newFirstS)

		if sInt >= lower && sInt <= upper {
			sdotInt := start1.Velocity + sigmaFwd*(sInt-start1.Position)
			result := append([]trajtypes.TrajectoryStep{{Position: sInt, Velocity: sdotInt}}, newSegment...)
			trajlog.Log.Debug().Float64("s", sInt).Float64("sdot", sdotInt).Msg("backward_intersection")
			return result, i - 1, nil
		}
	}

	return nil, 0, trajtypes.NewBackwardsMiss("backward integration found no intersection with forward trajectory")
}

// assignTimes fills in Time for every step in order, following 4.7. An
// adjacent pair with zero combined velocity (only legal at the trailing
// pair) does not advance time, matching the resolved zero-velocity open
// question rather than dividing by zero.
func assignTimes(steps []trajtypes.TrajectoryStep) {
	if len(steps) == 0 {
		return
	}
	steps[0].Time = 0
	for i := 1; i < len(steps); i++ {
		meanV := (steps[i].Velocity + steps[i-1].Velocity) / 2
		if meanV > 0 {
			steps[i].Time = steps[i-1].Time + (steps[i].Position-steps[i-1].Position)/meanV
			continue
		}
		steps[i].Time = steps[i-1].Time
	}
}
