package spatial

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/veldtlabs/veldt/featureflag"
	"github.com/veldtlabs/veldt/geom"
	"github.com/veldtlabs/veldt/models"
)

// LineOfSightFunc reports whether the straight segment between two world
// points is unobstructed. Supplied by the terrain.
type LineOfSightFunc func(p1, p2 geom.Vector3f) bool

// Index is the static quadtree spatial index over the world's horizontal
// plane. It is built once, to a fixed depth, and never rebalanced.
//
// The index is single-threaded and frame-synchronous: registration and
// removal must not be interleaved with an in-progress culling or range
// query pass, and the culling pass must fully complete before the render
// phase reads the entity flags.
type Index struct {
	root   *Node
	bounds geom.Rect
	depth  int

	lineOfSight LineOfSightFunc
	flags       featureflag.FeatureFlag
}

// Option configures an Index.
type Option func(*Index)

// WithLineOfSight wires the terrain's line-of-sight query into range
// queries that filter on visibility.
func WithLineOfSight(f LineOfSightFunc) Option {
	return func(idx *Index) {
		idx.lineOfSight = f
	}
}

// WithFlags sets the feature flags consulted by range queries.
func WithFlags(flags featureflag.FeatureFlag) Option {
	return func(idx *Index) {
		idx.flags = flags
	}
}

// NewIndex builds the complete tree for the given world bounds. depth is
// the number of levels including the root; a depth of 1 is a single
// node. The world rectangle must subdivide evenly down to the deepest
// level: each side divided by 2^(depth-1) must land on a whole number of
// world units.
func NewIndex(bounds geom.Rect, depth int, opts ...Option) (*Index, error) {
	if depth < 1 {
		return nil, errors.New("invalid tree depth").
			WithTag("depth", depth)
	}
	if bounds.Width() <= 0 || bounds.Depth() <= 0 {
		return nil, errors.New("invalid world bounds").
			WithTag("width", bounds.Width()).
			WithTag("depth", bounds.Depth())
	}

	leaves := 1 << (depth - 1)
	if !dividesEvenly(bounds.Width(), leaves) || !dividesEvenly(bounds.Depth(), leaves) {
		return nil, errors.New("world size is not evenly divisible by tree depth").
			WithTag("width", bounds.Width()).
			WithTag("depth", bounds.Depth()).
			WithTag("levels", depth)
	}

	idx := &Index{
		root:   newNode(nil, bounds, 0, depth-1),
		bounds: bounds,
		depth:  depth,
		flags:  featureflag.New(nil),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx, nil
}

// dividesEvenly requires leaves of a whole number of world units, so
// node boundaries land exactly on unit coordinates at every level.
func dividesEvenly(size float32, parts int) bool {
	per := (float64)(size) / (float64)(parts)
	return per > 0 && per == math.Trunc(per)
}

// Bounds returns the fixed world extent.
func (idx *Index) Bounds() geom.Rect {
	return idx.bounds
}

// Depth returns the configured level count, root included.
func (idx *Index) Depth() int {
	return idx.depth
}

// Insert registers the entity in every node whose rectangle its bounding
// circle overlaps, starting at the root. Double insertion is a no-op.
func (idx *Index) Insert(e models.Entity) {
	if e == nil || e.Placement().Registered() {
		return
	}
	idx.root.insert(e)
	if e.Placement().Registered() {
		instrumentEntityRegistered(e.Category())
	}
}

// Remove erases the entity from every node holding it. Removing an
// entity that was never registered is a no-op; the index tolerates
// collaborator bugs rather than failing the frame.
func (idx *Index) Remove(e models.Entity) {
	if e == nil || !e.Placement().Registered() {
		return
	}
	idx.root.remove(e)
	instrumentEntityRemoved(e.Category())
}

// Walk visits every node of the tree depth-first. Used by tests and the
// debug endpoint; not part of the per-frame hot path.
func (idx *Index) Walk(visit func(*Node)) {
	idx.root.walk(visit)
}

// Holds reports whether the given node list contains the entity.
func (idx *Index) Holds(n *Node, e models.Entity) bool {
	return n.holds(e)
}
