package main

import (
	"math"
	"math/rand"

	"github.com/veldtlabs/veldt/geom"
	"github.com/veldtlabs/veldt/models"
	"github.com/veldtlabs/veldt/terrain"
)

// body is a demo mobile entity: it wanders the terrain, bounces off it
// and plays the part of the organism update phase this core treats as an
// external collaborator.
type body struct {
	placement models.Placement

	id       uint32
	position geom.Vector3f
	previous geom.Vector3f
	velocity geom.Vector3f
	force    geom.Vector3f
	radius   float32

	heading float32
	rng     *rand.Rand
}

func newBody(id uint32, position geom.Vector3f, radius float32, rng *rand.Rand) *body {
	return &body{
		id:       id,
		position: position,
		previous: position,
		radius:   radius,
		heading:  rng.Float32() * 2 * math.Pi,
		rng:      rng,
	}
}

func (b *body) Bounds() geom.Sphere {
	return geom.Sphere{Center: b.position, Radius: b.radius}
}

func (b *body) Category() models.Category {
	return models.CategoryBody
}

func (b *body) Placement() *models.Placement {
	return &b.placement
}

func (b *body) CurrentPosition() geom.Vector3f {
	return b.position
}

func (b *body) PreviousPosition() geom.Vector3f {
	return b.previous
}

// FineCollisionTest is the demo-grade narrow phase: the sphere is close
// enough to either face plane and its center projects inside the tile's
// horizontal extent.
func (b *body) FineCollisionTest(t *terrain.Tile) bool {
	corners := t.Corners()
	if b.position.X+b.radius < corners[0].X || b.position.X-b.radius > corners[3].X ||
		b.position.Z+b.radius < corners[0].Z || b.position.Z-b.radius > corners[3].Z {
		return false
	}
	for _, tri := range t.Triangles() {
		plane := geom.NewPlane(tri.A, tri.B, tri.C)
		d := plane.SignedDistance(b.position)
		if d <= b.radius {
			return true
		}
	}
	return false
}

// AddForce accumulates an impulse for the next step.
func (b *body) AddForce(f geom.Vector3f) {
	b.force.Add(f)
}

const (
	bodyGravity    = -9.8
	bodyWanderWalk = 4.0
	bodyDamping    = 0.98
)

// step advances the wander motion by dt seconds and keeps the body
// inside the world rectangle.
func (b *body) step(dt float32, bounds geom.Rect) {
	b.heading += (b.rng.Float32() - 0.5) * 0.6

	b.velocity.Add(geom.Mul(b.force, dt))
	b.force = geom.Vector3f{}
	b.velocity.Add(geom.Vector3f{Y: bodyGravity * dt})
	b.velocity = geom.Mul(b.velocity, bodyDamping)

	walk := geom.Vector3f{
		X: (float32)(math.Cos((float64)(b.heading))) * bodyWanderWalk,
		Z: (float32)(math.Sin((float64)(b.heading))) * bodyWanderWalk,
	}

	b.previous = b.position
	b.position.Add(geom.Mul(geom.Add(b.velocity, walk), dt))

	if !bounds.ContainsPoint(b.position.X, b.position.Z) {
		b.position.X = geom.Clamp(b.position.X, bounds.MinX, bounds.MaxX)
		b.position.Z = geom.Clamp(b.position.Z, bounds.MinZ, bounds.MaxZ)
		b.heading += math.Pi
	}
}
