// Package limits computes the maximum-velocity curve and the signed
// acceleration bounds the phase-plane integrator walks against.
package limits

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/itohio/trajplan/x/math/trajectory/path"
	"github.com/itohio/trajplan/x/math/trajectory/trajtypes"
	"github.com/itohio/trajplan/x/math/trajectory/vectorn"
)

// Limits bundles a Path with per-axis velocity and acceleration bounds and
// exposes the MVC and its derivatives, following 4.3.
type Limits struct {
	path    *path.Path
	vMax    vectorn.Vector
	aMax    vectorn.Vector
	epsilon float64
}

// New validates vMax/aMax against p's dimension and returns a Limits.
func New(p *path.Path, vMax, aMax vectorn.Vector, epsilon float64) (*Limits, error) {
	if vMax.Dim() != p.Dim() || aMax.Dim() != p.Dim() {
		return nil, trajtypes.NewDimensionMismatch("velocity/acceleration limit vs. path dimension")
	}
	for i := 0; i < p.Dim(); i++ {
		if vMax[i] <= 0 || aMax[i] <= 0 {
			return nil, trajtypes.NewNonPositiveLimit("velocity/acceleration limit")
		}
	}
	if epsilon <= 0 {
		return nil, trajtypes.NewNonPositiveLimit("epsilon")
	}
	return &Limits{path: p, vMax: vMax, aMax: aMax, epsilon: epsilon}, nil
}

// MVCVel returns the velocity-bounded maximum-velocity curve at s.
func (l *Limits) MVCVel(s float64) float64 {
	t := l.path.Tangent(s)
	var candidates []float64
	for i := 0; i < t.Dim(); i++ {
		if t[i] == 0 {
			continue
		}
		candidates = append(candidates, l.vMax[i]/math.Abs(t[i]))
	}
	if len(candidates) == 0 {
		return math.Inf(1)
	}
	return floats.Min(candidates)
}

// MVCVelPrime returns d(MVC_vel)/ds at s.
func (l *Limits) MVCVelPrime(s float64) float64 {
	t := l.path.Tangent(s)
	k := l.path.Curvature(s)

	j := -1
	best := math.Inf(1)
	for i := 0; i < t.Dim(); i++ {
		if t[i] == 0 {
			continue
		}
		v := l.vMax[i] / math.Abs(t[i])
		if v < best {
			best = v
			j = i
		}
	}
	if j < 0 {
		return 0
	}
	return -l.vMax[j] * k[j] / (t[j] * math.Abs(t[j]))
}

// MVCAcc returns the acceleration-bounded maximum-velocity curve at s.
func (l *Limits) MVCAcc(s float64) float64 {
	t := l.path.Tangent(s)
	k := l.path.Curvature(s)
	n := t.Dim()

	var candidates []float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if t[i] == 0 || t[j] == 0 {
				continue
			}
			aij := k[i]/t[i] - k[j]/t[j]
			if aij == 0 {
				continue
			}
			val := math.Sqrt((l.aMax[i]/math.Abs(t[i]) + l.aMax[j]/math.Abs(t[j])) / math.Abs(aij))
			candidates = append(candidates, val)
		}
	}
	for i := 0; i < n; i++ {
		if t[i] == 0 && k[i] != 0 {
			candidates = append(candidates, math.Sqrt(l.aMax[i]/math.Abs(k[i])))
		}
	}
	if len(candidates) == 0 {
		return math.Inf(1)
	}
	return floats.Min(candidates)
}

// MVCAccPrime returns a symmetric finite-difference estimate of
// d(MVC_acc)/ds at s, using epsilon as the stencil half-width.
func (l *Limits) MVCAccPrime(s float64) float64 {
	eps := l.epsilon
	return (l.MVCAcc(s+eps) - l.MVCAcc(s-eps)) / (2 * eps)
}

// aBound computes the signed componentwise feasibility bound; sign is +1
// for A_max, -1 for A_min.
func (l *Limits) aBound(s, sdot, sign float64) float64 {
	t := l.path.Tangent(s)
	k := l.path.Curvature(s)

	best := math.Inf(1)
	for i := 0; i < t.Dim(); i++ {
		if t[i] == 0 {
			continue
		}
		b := l.aMax[i]/math.Abs(t[i]) - sign*k[i]*sdot*sdot/t[i]
		if b < best {
			best = b
		}
	}
	return sign * best
}

// AMin returns the minimum (most negative) feasible s-double-dot at (s, sdot).
func (l *Limits) AMin(s, sdot float64) float64 { return l.aBound(s, sdot, -1) }

// AMax returns the maximum feasible s-double-dot at (s, sdot).
func (l *Limits) AMax(s, sdot float64) float64 { return l.aBound(s, sdot, 1) }

// PhaseSlopeMin returns the phase-plane slope of the A_min curve at (s, sdot).
func (l *Limits) PhaseSlopeMin(s, sdot float64) float64 {
	if sdot == 0 {
		return 0
	}
	return l.AMin(s, sdot) / sdot
}

// PhaseSlopeMax returns the phase-plane slope of the A_max curve at (s, sdot).
func (l *Limits) PhaseSlopeMax(s, sdot float64) float64 {
	if sdot == 0 {
		return 0
	}
	return l.AMax(s, sdot) / sdot
}
