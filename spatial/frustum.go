package spatial

import (
	"math"

	"github.com/veldtlabs/veldt/geom"
	"github.com/veldtlabs/veldt/models"
)

// Frustum is a reference implementation of the Camera capability built
// from a position, a view direction and horizontal/vertical fields of
// view. The side-plane set holds the four vertical-ish planes (left,
// right, near, far); the full set adds top and bottom.
type Frustum struct {
	position geom.Vector3f
	sides    [4]geom.Plane
	full     [6]geom.Plane
}

// NewFrustum builds a frustum looking from position along forward.
// hFovDeg and vFovDeg are full angles in degrees; near and far are
// distances along forward. up does not need to be exactly orthogonal to
// forward, only non-parallel.
func NewFrustum(position, forward, up geom.Vector3f, hFovDeg, vFovDeg, near, far float32) *Frustum {
	f := geom.Normalized(forward)
	right := geom.Normalized(geom.Cross(f, up))
	trueUp := geom.Cross(right, f)

	halfH := (float64)(hFovDeg) * math.Pi / 360
	halfV := (float64)(vFovDeg) * math.Pi / 360

	// angled planes pass through the camera position with inward
	// pointing normals
	angled := func(axis geom.Vector3f, half float64) geom.Plane {
		normal := geom.Add(geom.Mul(axis, (float32)(math.Cos(half))), geom.Mul(f, (float32)(math.Sin(half))))
		return geom.Plane{Normal: normal, D: -normal.Dot(position)}
	}
	left := angled(right, halfH)
	rightP := angled(geom.Mul(right, -1), halfH)
	bottom := angled(trueUp, halfV)
	top := angled(geom.Mul(trueUp, -1), halfV)

	nearPoint := geom.Add(position, geom.Mul(f, near))
	farPoint := geom.Add(position, geom.Mul(f, far))
	nearP := geom.Plane{Normal: f, D: -f.Dot(nearPoint)}
	back := geom.Mul(f, -1)
	farP := geom.Plane{Normal: back, D: -back.Dot(farPoint)}

	return &Frustum{
		position: position,
		sides:    [4]geom.Plane{left, rightP, nearP, farP},
		full:     [6]geom.Plane{left, rightP, nearP, farP, top, bottom},
	}
}

func (fr *Frustum) Position() geom.Vector3f {
	return fr.position
}

// ClassifySphere tests the sphere against the side planes only. Top and
// bottom stay out of this test; the callers' rectangles are unbounded in
// height.
func (fr *Frustum) ClassifySphere(center geom.Vector3f, radius float32) Visibility {
	result := VisibilityFullyInside
	for i := range fr.sides {
		d := fr.sides[i].SignedDistance(center)
		if d < -radius {
			return VisibilityOutside
		}
		if d < radius {
			result = VisibilityStraddling
		}
	}
	return result
}

// Sees runs the full six-plane test against the entity's bounding
// sphere.
func (fr *Frustum) Sees(e models.Entity) bool {
	bounds := e.Bounds()
	for i := range fr.full {
		if fr.full[i].SignedDistance(bounds.Center) < -bounds.Radius {
			return false
		}
	}
	return true
}
