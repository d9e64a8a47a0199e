package spatial

import (
	"github.com/veldtlabs/veldt/geom"
	"github.com/veldtlabs/veldt/models"
)

// Visibility is the tri-state classification of a node's enclosing
// circle against the camera's side planes.
type Visibility int

const (
	VisibilityOutside Visibility = iota
	VisibilityFullyInside
	VisibilityStraddling
)

// Camera is the consumed camera capability. The index never constructs
// cameras; the frame loop passes one into CullScene.
type Camera interface {
	// ClassifySphere classifies a sphere against the side planes only.
	// Top and bottom are deliberately excluded at this stage: a node's
	// rectangle is unbounded in height.
	ClassifySphere(center geom.Vector3f, radius float32) Visibility

	// Sees is the full frustum test, top and bottom planes included.
	Sees(e models.Entity) bool

	Position() geom.Vector3f
}

// CullScene settles the visible flag and cached camera distance of every
// registered entity for this frame. It must run after entity bounding
// spheres have been refreshed and before the render phase reads the
// flags. Entities are processed effectively once per frame regardless of
// how many nodes hold them, because the flag lives on the entity and
// repeated marking is idempotent.
func (idx *Index) CullScene(cam Camera) {
	// the root list is the canonical inventory; clear last frame's flags
	for c := 0; c < (int)(models.NumCategories); c++ {
		for _, e := range idx.root.lists[c] {
			e.Placement().SetVisible(false)
		}
	}

	// the root itself always straddles by definition, skip it
	if !idx.root.isLeaf() {
		for i := 0; i < 4; i++ {
			idx.root.children[i].cull(cam)
		}
	} else {
		idx.root.markVisible(cam)
	}

	instrumentCullPass(idx.countVisible())
}

func (n *Node) cull(cam Camera) {
	switch cam.ClassifySphere(n.center, n.radius) {
	case VisibilityOutside:
		// prune: nothing below this node is marked this frame

	case VisibilityFullyInside:
		// the node list is a superset of every descendant list, so
		// there is no need to recurse
		n.markVisible(cam)

	case VisibilityStraddling:
		if n.isLeaf() {
			n.markVisible(cam)
			return
		}
		for i := 0; i < 4; i++ {
			n.children[i].cull(cam)
		}
	}
}

// markVisible marks every entity registered directly in this node. A
// fully-inside node can still hold entities above or below the view
// volume, so every category except mobile bodies gets the full per-
// entity frustum test. Mobile bodies are always marked: their shadow
// projections must render even when the body itself is above or below
// the frustum.
func (n *Node) markVisible(cam Camera) {
	camPos := cam.Position()

	for c := 0; c < (int)(models.NumCategories); c++ {
		for _, e := range n.lists[c] {
			if (models.Category)(c) != models.CategoryBody && !cam.Sees(e) {
				continue
			}
			p := e.Placement()
			p.SetVisible(true)
			p.SetCameraDistSq(geom.DistSq(camPos, e.Bounds().Center))
		}
	}
}

func (idx *Index) countVisible() int {
	visible := 0
	for c := 0; c < (int)(models.NumCategories); c++ {
		for _, e := range idx.root.lists[c] {
			if e.Placement().Visible() {
				visible++
			}
		}
	}
	return visible
}
