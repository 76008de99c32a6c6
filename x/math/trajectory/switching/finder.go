// Package switching finds the next acceleration-bounded or velocity-bounded
// switching point past a given path position, following 4.4.
package switching

import (
	"math"
	"sync"

	"github.com/itohio/trajplan/x/math/trajectory/limits"
	"github.com/itohio/trajplan/x/math/trajectory/path"
	"github.com/itohio/trajplan/x/math/trajectory/trajtypes"
)

const velocityScanStep = 0.01

// Finder enumerates acceleration- and velocity-bounded switching-point
// candidates and selects the earliest valid one past a given position.
type Finder struct {
	path     *path.Path
	lim      *limits.Limits
	epsilon  float64
	parallel bool
}

// New returns a Finder that evaluates the two candidate producers
// sequentially.
func New(p *path.Path, lim *limits.Limits, epsilon float64) *Finder {
	return &Finder{path: p, lim: lim, epsilon: epsilon}
}

// NewParallel returns a Finder that evaluates the acceleration- and
// velocity-bounded producers concurrently, joined with a WaitGroup before
// selection (see the concurrency model's opt-in parallel switching-point
// computation).
func NewParallel(p *path.Path, lim *limits.Limits, epsilon float64) *Finder {
	return &Finder{path: p, lim: lim, epsilon: epsilon, parallel: true}
}

// NextSwitchingPoint returns the earliest switching point strictly after
// s0 that is valid against the other MVC, or nil if none remains.
func (f *Finder) NextSwitchingPoint(s0 float64) (*trajtypes.TrajectorySwitchingPoint, error) {
	var accCand, velCand *trajtypes.TrajectorySwitchingPoint
	var accOK, velOK bool

	if f.parallel {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			accCand, accOK = f.nextAccelerationPoint(s0)
		}()
		go func() {
			defer wg.Done()
			velCand, velOK = f.nextVelocityPoint(s0)
		}()
		wg.Wait()
	} else {
		accCand, accOK = f.nextAccelerationPoint(s0)
		velCand, velOK = f.nextVelocityPoint(s0)
	}

	// Both producers already skip past any locally-matching candidate that
	// fails the other curve's validity check (see nextAccelerationPoint
	// and nextVelocityPoint), so accCand/velCand here are the earliest
	// candidates that are valid outright; picking the nearer of the two
	// is all that is left to do.
	switch {
	case accOK && velOK:
		if accCand.Step.Position <= velCand.Step.Position {
			return accCand, nil
		}
		return velCand, nil
	case accOK:
		return accCand, nil
	case velOK:
		return velCand, nil
	default:
		return nil, nil
	}
}

// nextAccelerationPoint scans every remaining path switching-point
// candidate in order and returns the first one that is both locally an
// acceleration-bounded feature and valid against the velocity MVC curve.
// A candidate that matches locally but fails that cross-check is skipped
// in place rather than causing the whole scan to give up, so a later,
// genuinely binding candidate is still found.
func (f *Finder) nextAccelerationPoint(s0 float64) (*trajtypes.TrajectorySwitchingPoint, bool) {
	eps := f.epsilon
	for _, pt := range f.path.SwitchingPoints() {
		if pt.Position <= s0 {
			continue
		}
		s := pt.Position

		if pt.Continuity == path.Discontinuous {
			vBefore := f.lim.MVCAcc(s - eps)
			vAfter := f.lim.MVCAcc(s + eps)
			sdot := math.Min(vBefore, vAfter)

			condBefore := vBefore > vAfter || f.lim.PhaseSlopeMin(s-eps, sdot) > f.lim.MVCAccPrime(s-2*eps)
			condAfter := vBefore < vAfter || f.lim.PhaseSlopeMax(s+eps, sdot) < f.lim.MVCAccPrime(s+2*eps)
			if condBefore && condAfter {
				cand := &trajtypes.TrajectorySwitchingPoint{
					Step:               trajtypes.TrajectoryStep{Position: s, Velocity: sdot},
					BeforeAcceleration: f.lim.AMin(s-eps, sdot),
					AfterAcceleration:  f.lim.AMax(s+eps, sdot),
				}
				if f.accValidAgainstVelocity(cand) {
					return cand, true
				}
			}
			continue
		}

		dBefore := f.lim.MVCAccPrime(s - eps)
		dAfter := f.lim.MVCAccPrime(s + eps)
		if dBefore < 0 && dAfter > 0 {
			sdot := f.lim.MVCAcc(s)
			cand := &trajtypes.TrajectorySwitchingPoint{
				Step:               trajtypes.TrajectoryStep{Position: s, Velocity: sdot},
				BeforeAcceleration: 0,
				AfterAcceleration:  0,
			}
			if f.accValidAgainstVelocity(cand) {
				return cand, true
			}
		}
	}
	return nil, false
}

func (f *Finder) velocityDiff(s float64) float64 {
	mvc := f.lim.MVCVel(s)
	return f.lim.PhaseSlopeMin(s, mvc) - f.lim.MVCVelPrime(s)
}

// nextVelocityPoint broad-phase scans for a sign change in velocityDiff,
// bisects it to tolerance, then checks the resulting candidate against
// the acceleration MVC curve directly. A candidate that is locally a
// velocity-bounded feature but exceeds the acceleration MVC is skipped,
// and the broad-phase scan resumes past it rather than giving up.
func (f *Finder) nextVelocityPoint(s0 float64) (*trajtypes.TrajectorySwitchingPoint, bool) {
	length := f.path.Length()
	eps := f.epsilon
	prevS := s0
	prevDiff := f.velocityDiff(prevS)

	for s := s0 + velocityScanStep; s <= length; s += velocityScanStep {
		diff := f.velocityDiff(s)
		if prevDiff >= 0 && diff <= 0 {
			left, right := prevS, s
			for right-left > eps {
				mid := (left + right) / 2
				if f.velocityDiff(mid) <= 0 {
					right = mid
				} else {
					left = mid
				}
			}
			sStar := right
			sdot := f.lim.MVCVel(sStar)
			if sdot <= f.lim.MVCAcc(sStar-eps)+eps && sdot <= f.lim.MVCAcc(sStar+eps)+eps {
				return &trajtypes.TrajectorySwitchingPoint{
					Step:               trajtypes.TrajectoryStep{Position: sStar, Velocity: sdot},
					BeforeAcceleration: f.lim.AMin(left, f.lim.MVCVel(left)),
					AfterAcceleration:  f.lim.AMax(sStar, sdot),
				}, true
			}
		}
		prevS, prevDiff = s, diff
	}
	return nil, false
}

func (f *Finder) accValidAgainstVelocity(p *trajtypes.TrajectorySwitchingPoint) bool {
	return p.Step.Velocity <= f.lim.MVCVel(p.Step.Position)+f.epsilon
}
