package limits

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/trajplan/x/math/trajectory/path"
	"github.com/itohio/trajplan/x/math/trajectory/vectorn"
)

func buildStraightPath(t *testing.T) *path.Path {
	t.Helper()
	wps := []vectorn.Vector{vectorn.From(0, 0, 0), vectorn.From(10, 0, 0)}
	p, err := path.Build(wps, 0.1)
	require.NoError(t, err)
	return p
}

func TestMVCVelOnStraightSegment(t *testing.T) {
	p := buildStraightPath(t)
	lim, err := New(p, vectorn.From(1, 1, 1), vectorn.From(1, 1, 1), 1e-6)
	require.NoError(t, err)

	// tangent is (1,0,0); only axis 0 participates, so MVC_vel = v_max[0].
	assert.InDelta(t, 1.0, lim.MVCVel(5), 1e-12)
}

func TestMVCAccInfiniteOnStraightSegment(t *testing.T) {
	p := buildStraightPath(t)
	lim, err := New(p, vectorn.From(1, 1, 1), vectorn.From(1, 1, 1), 1e-6)
	require.NoError(t, err)

	// curvature is zero everywhere on a straight segment, so no
	// acceleration constraint applies.
	assert.True(t, math.IsInf(lim.MVCAcc(5), 1))
}

func TestNewRejectsNonPositiveLimits(t *testing.T) {
	p := buildStraightPath(t)
	_, err := New(p, vectorn.From(0, 1, 1), vectorn.From(1, 1, 1), 1e-6)
	require.Error(t, err)
}

func TestNewRejectsDimensionMismatch(t *testing.T) {
	p := buildStraightPath(t)
	_, err := New(p, vectorn.From(1, 1), vectorn.From(1, 1, 1), 1e-6)
	require.Error(t, err)
}

func TestAMinAMaxSignConvention(t *testing.T) {
	p := buildStraightPath(t)
	lim, err := New(p, vectorn.From(1, 1, 1), vectorn.From(1, 1, 1), 1e-6)
	require.NoError(t, err)

	// zero curvature: A_max should equal a_max[0]/|t[0]| and A_min its
	// negation.
	assert.InDelta(t, 1.0, lim.AMax(5, 0.5), 1e-9)
	assert.InDelta(t, -1.0, lim.AMin(5, 0.5), 1e-9)
}
