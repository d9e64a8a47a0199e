package models

import (
	"github.com/veldtlabs/veldt/geom"
)

// Entity is the capability any object placed in the spatial index must
// expose. The index never owns entity lifetime: entities are registered
// at creation, their bounding sphere is refreshed by their owner as they
// move, and they are removed before destruction.
type Entity interface {
	// Bounds is the world-space bounding sphere, refreshed once per
	// update by the entity's owner.
	Bounds() geom.Sphere

	Category() Category

	// Placement is the per-entity record the index writes to: the
	// visibility flag, the cached squared camera distance and the node
	// back-references.
	Placement() *Placement
}

// Node is a spatial index node seen from the entity side. Entities keep
// back-references to the nodes holding them.
type Node interface {
	Rect() geom.Rect
	Level() int
}

// Placement is embedded in every entity record. The visible flag and the
// squared camera distance are settled by the culling pass before the
// render phase reads them; marking is idempotent since the fields live
// on the entity, not on the nodes holding it.
type Placement struct {
	visible      bool
	cameraDistSq float32
	nodes        []Node
}

func (p *Placement) Visible() bool {
	return p.visible
}

func (p *Placement) SetVisible(v bool) {
	p.visible = v
}

// CameraDistSq is the squared distance to the camera cached by the last
// culling pass. Used for LOD selection and depth-sort ordering.
func (p *Placement) CameraDistSq() float32 {
	return p.cameraDistSq
}

func (p *Placement) SetCameraDistSq(d float32) {
	p.cameraDistSq = d
}

// Registered reports whether the entity currently sits in at least one
// node list.
func (p *Placement) Registered() bool {
	return len(p.nodes) > 0
}

// Nodes returns the node back-references. The slice is owned by the
// placement and must not be mutated by callers.
func (p *Placement) Nodes() []Node {
	return p.nodes
}

// AttachNode registers a node back-reference. Called by the index only.
func (p *Placement) AttachNode(n Node) {
	p.nodes = append(p.nodes, n)
}

// DetachNode drops a node back-reference. A node that was never attached
// is a no-op.
func (p *Placement) DetachNode(n Node) {
	for i := range p.nodes {
		if p.nodes[i] == n {
			p.nodes[i] = p.nodes[len(p.nodes)-1]
			p.nodes = p.nodes[:len(p.nodes)-1]
			return
		}
	}
}
