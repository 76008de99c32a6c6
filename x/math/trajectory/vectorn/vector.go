// Package vectorn implements N-dimensional real vector algebra for the
// trajectory engine. The dimension of a Vector is a runtime property of the
// waypoint set it was built from (2-8 in practice), so a single
// slice-backed type is used rather than a family of fixed-size array types.
package vectorn

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrDimensionMismatch is returned when two vectors participating in a
// binary operation have different dimensions.
var ErrDimensionMismatch = errors.New("vectorn: dimension mismatch")

// Vector is a dense, double-precision, N-dimensional vector. The zero value
// is a zero-dimensional vector; use New or From to allocate one of a given
// dimension.
type Vector []float64

// New allocates a zero vector of dimension n.
func New(n int) Vector {
	return make(Vector, n)
}

// From copies the given components into a new Vector.
func From(components ...float64) Vector {
	v := make(Vector, len(components))
	copy(v, components)
	return v
}

// Dim reports the vector's dimension.
func (v Vector) Dim() int { return len(v) }

// SameDim reports whether v and o share a dimension.
func (v Vector) SameDim(o Vector) bool { return len(v) == len(o) }

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

func (v Vector) must(o Vector) {
	if !v.SameDim(o) {
		panic(ErrDimensionMismatch)
	}
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	v.must(o)
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] + o[i]
	}
	return out
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	v.must(o)
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] - o[i]
	}
	return out
}

// Scale returns v * c.
func (v Vector) Scale(c float64) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] * c
	}
	return out
}

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) float64 {
	v.must(o)
	var sum float64
	for i := range v {
		sum += v[i] * o[i]
	}
	return sum
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Distance returns the Euclidean distance between v and o.
func (v Vector) Distance(o Vector) float64 { return v.Sub(o).Norm() }

// Normalize returns a unit vector in the direction of v. The zero vector
// normalizes to itself.
func (v Vector) Normalize() Vector {
	n := v.Norm()
	if n == 0 {
		return v.Clone()
	}
	return v.Scale(1 / n)
}

// Angle returns the angle in [0, pi] between v and o.
func (v Vector) Angle(o Vector) float64 {
	denom := v.Norm() * o.Norm()
	if denom == 0 {
		return 0
	}
	cos := v.Dot(o) / denom
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos)
}

// NearZero reports whether v's norm is within tol of zero, using a
// tolerance-aware comparison rather than a bare magnitude check.
func (v Vector) NearZero(tol float64) bool {
	return floats.EqualWithinAbs(v.Norm(), 0, tol)
}

// Zero returns a zero vector with the same dimension as v.
func (v Vector) Zero() Vector { return make(Vector, len(v)) }
