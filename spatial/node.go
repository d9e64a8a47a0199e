package spatial

import (
	"math"

	"github.com/veldtlabs/veldt/geom"
	"github.com/veldtlabs/veldt/models"
)

// Node is one rectangle of the fixed-shape quadtree. The tree is built
// complete to the configured depth at startup and never restructured.
// Each node keeps one membership list per entity category; an entity is
// present in a node iff its bounding circle overlaps the node rectangle
// and the same test passed at every ancestor, so the lists are not a
// partition: a straddling entity shows up in several sibling subtrees,
// and the root list is the canonical inventory of live entities.
type Node struct {
	parent   *Node
	children [4]*Node
	level    int
	rect     geom.Rect
	center   geom.Vector3f
	radius   float32

	lists [models.NumCategories][]models.Entity
}

// newNode builds the subtree rooted at the given rectangle. maxLevel is
// the deepest level; nodes at maxLevel are leaves.
func newNode(parent *Node, rect geom.Rect, level, maxLevel int) *Node {
	center := rect.Center()
	hw := (float64)(rect.Width()) * 0.5
	hd := (float64)(rect.Depth()) * 0.5

	n := &Node{
		parent: parent,
		level:  level,
		rect:   rect,
		center: center,
		// distance center to corner, the enclosing circle used for the
		// coarse camera test
		radius: (float32)(math.Sqrt(hw*hw + hd*hd)),
	}

	if level < maxLevel {
		mx := (rect.MinX + rect.MaxX) * 0.5
		mz := (rect.MinZ + rect.MaxZ) * 0.5
		n.children[0] = newNode(n, geom.NewRect(rect.MinX, rect.MinZ, mx, mz), level+1, maxLevel)
		n.children[1] = newNode(n, geom.NewRect(mx, rect.MinZ, rect.MaxX, mz), level+1, maxLevel)
		n.children[2] = newNode(n, geom.NewRect(rect.MinX, mz, mx, rect.MaxZ), level+1, maxLevel)
		n.children[3] = newNode(n, geom.NewRect(mx, mz, rect.MaxX, rect.MaxZ), level+1, maxLevel)
	}

	return n
}

func (n *Node) Rect() geom.Rect {
	return n.rect
}

func (n *Node) Level() int {
	return n.level
}

func (n *Node) isLeaf() bool {
	return n.children[0] == nil
}

// insert appends the entity to this node's category list when its
// bounding circle overlaps the node rectangle, then attempts the same on
// all four children. The overlap test is the cheap circle-vs-rectangle
// test in the horizontal plane, not a precise 3D one.
func (n *Node) insert(e models.Entity) {
	if !e.Bounds().OverlapsRect(n.rect) {
		return
	}

	n.lists[e.Category()] = append(n.lists[e.Category()], e)
	e.Placement().AttachNode(n)

	if n.isLeaf() {
		return
	}
	for i := 0; i < 4; i++ {
		n.children[i].insert(e)
	}
}

// remove mirrors insert: if the entity sits in this node's list, the
// children are cleared first, then the entity is erased here and the
// back-reference dropped. An entity that was never registered is a
// no-op.
func (n *Node) remove(e models.Entity) {
	list := n.lists[e.Category()]
	index := -1
	for i := range list {
		if list[i] == e {
			index = i
			break
		}
	}
	if index < 0 {
		return
	}

	if !n.isLeaf() {
		for i := 0; i < 4; i++ {
			n.children[i].remove(e)
		}
	}

	list[index] = list[len(list)-1]
	list[len(list)-1] = nil
	n.lists[e.Category()] = list[:len(list)-1]
	e.Placement().DetachNode(n)
}

// holds reports membership by reference identity. Test helper and debug
// endpoint support.
func (n *Node) holds(e models.Entity) bool {
	for _, held := range n.lists[e.Category()] {
		if held == e {
			return true
		}
	}
	return false
}

// walk visits the whole subtree depth-first.
func (n *Node) walk(visit func(*Node)) {
	visit(n)
	if n.isLeaf() {
		return
	}
	for i := 0; i < 4; i++ {
		n.children[i].walk(visit)
	}
}
