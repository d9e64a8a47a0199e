package terrain

import (
	"github.com/veldtlabs/veldt/geom"
)

// boundsLagCompensation inflates the body radius to cover one frame of
// lag between the physics step and the bounds refresh.
const boundsLagCompensation = 1.1

// closingSpeedScale converts the per-frame plane-distance delta into the
// closing speed fed to the impulse curve.
const closingSpeedScale = 10

// Body is the consumed mobile-body capability: the collision funnel
// reads its bounds and tracked positions and delegates the exact narrow
// phase to the body's own mesh test. The returned bounce vector is added
// to the body's force accumulator by the caller.
type Body interface {
	Bounds() geom.Sphere
	CurrentPosition() geom.Vector3f
	PreviousPosition() geom.Vector3f
	FineCollisionTest(t *Tile) bool
}

// TestContact runs the rejection funnel between a terrain tile and a
// mobile body and returns the bounce vector on confirmed contact. The
// zero vector means no contact. Each stage is cheaper than the next:
// horizontal extent, height bound, plane distance, then the body's own
// fine mesh test.
func TestContact(t *Tile, b Body) geom.Vector3f {
	bounds := b.Bounds()
	radius := bounds.Radius * boundsLagCompensation
	center := bounds.Center

	if center.X+radius < t.rect.MinX || center.X-radius > t.rect.MaxX ||
		center.Z+radius < t.rect.MinZ || center.Z-radius > t.rect.MaxZ {
		return geom.Vector3f{}
	}

	if center.Y-radius > t.maxHeight {
		return geom.Vector3f{}
	}

	d0 := t.planes[0].SignedDistance(center)
	d1 := t.planes[1].SignedDistance(center)
	if d0 > radius && d1 > radius {
		return geom.Vector3f{}
	}

	if !b.FineCollisionTest(t) {
		return geom.Vector3f{}
	}

	// the facet closest to the body takes the contact
	facet := 0
	if d1 < d0 {
		facet = 1
	}

	prev := t.planes[facet].SignedDistance(b.PreviousPosition())
	cur := t.planes[facet].SignedDistance(b.CurrentPosition())
	closingSpeed := closingSpeedScale * (prev - cur)
	if closingSpeed < 0 {
		// receding motion never yields a negative impulse
		closingSpeed = 0
	}

	// the +1 floor guarantees a separating push even at zero closing
	// speed, preventing sustained interpenetration
	magnitude := closingSpeed*closingSpeed + 1

	instrumentContact()
	return geom.Mul(t.planes[facet].Normal, magnitude)
}
