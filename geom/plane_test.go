package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPlane(t *testing.T) {
	// counter-clockwise winding seen from above yields an upward normal
	p := NewPlane(Vector3f{0, 0, 0}, Vector3f{0, 0, 1}, Vector3f{1, 0, 1})

	require.True(t, p.Normal.EqualWithEpsilon(Vector3f{0, 1, 0}, 0.001))
	require.True(t, EqualWithEpsilon(p.SignedDistance(Vector3f{5, 3, 5}), 3, 0.001))
	require.True(t, EqualWithEpsilon(p.SignedDistance(Vector3f{5, -2, 5}), -2, 0.001))
}

func TestNewPlaneOffset(t *testing.T) {
	p := NewPlane(Vector3f{0, 7, 0}, Vector3f{0, 7, 1}, Vector3f{1, 7, 1})

	require.True(t, EqualWithEpsilon(p.SignedDistance(Vector3f{0, 7, 0}), 0, 0.001))
	require.True(t, EqualWithEpsilon(p.SignedDistance(Vector3f{100, 8, -40}), 1, 0.001))
}

func TestNewTriangle(t *testing.T) {
	tri := NewTriangle(Vector3f{0, 0, 0}, Vector3f{0, 0, 1}, Vector3f{1, 0, 1})
	require.True(t, tri.Normal.EqualWithEpsilon(Vector3f{0, 1, 0}, 0.001))
}
