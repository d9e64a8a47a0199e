package spatial

import (
	"github.com/veldtlabs/veldt/featureflag"
	"github.com/veldtlabs/veldt/geom"
	"github.com/veldtlabs/veldt/models"
)

// RangeQuery filters a QueryRange pass. Categories selects the lists to
// scan; LineOfSightOnly additionally rejects candidates whose center is
// obstructed from the query point; Exclude drops a single entity,
// typically the sensing creature itself.
type RangeQuery struct {
	Categories      models.CategoryMask
	LineOfSightOnly bool
	Exclude         models.Entity
}

// QueryRange returns the entities whose bounding sphere intersects the
// sphere of the given radius centered at p. Coordinates outside the
// world are clamped, never fatal.
//
// The pass descends to the smallest node whose rectangle is guaranteed
// to hold every candidate: by the registration invariant, an entity
// overlapping the query box is registered in every node on the path down
// to it. Only that node's lists are scanned. When the query spans the
// map's center the smallest enclosing node is the root; scanning the
// root would touch every live entity, so the pass falls back to the four
// inner grandchildren when they jointly cover the query box, or to a
// single quadrant otherwise.
func (idx *Index) QueryRange(p geom.Vector3f, radius float32, q RangeQuery) []models.Entity {
	instrumentRangeQuery()

	if radius < 0 {
		radius = -radius
	}
	if q.LineOfSightOnly {
		idx.flags.IfSet(featureflag.FlagDisableLOSFilter, func() {
			q.LineOfSightOnly = false
		})
	}
	qrect := idx.bounds.ClampRect(geom.NewRect(p.X-radius, p.Z-radius, p.X+radius, p.Z+radius))
	qsphere := geom.Sphere{Center: p, Radius: radius}

	node := idx.root
descend:
	for !node.isLeaf() {
		for i := 0; i < 4; i++ {
			if node.children[i].rect.ContainsRect(qrect) {
				node = node.children[i]
				continue descend
			}
		}
		break
	}

	if node != idx.root || idx.root.isLeaf() {
		// entities appear at most once per node list, no dedup needed
		var out []models.Entity
		return node.collect(qsphere, q, idx.lineOfSight, nil, out)
	}

	if idx.flags.IsSet(featureflag.FlagStrictRootQuery) {
		return idx.queryRootStrict(qsphere, q)
	}
	return idx.queryRootCenter(qrect, qsphere, q)
}

// queryRootCenter is the conservative path inherited from the original
// solver: when the four grandchildren nearest the map center jointly
// cover the query box, scan only those four; otherwise scan the full
// quadrant under the query point.
func (idx *Index) queryRootCenter(qrect geom.Rect, qsphere geom.Sphere, q RangeQuery) []models.Entity {
	root := idx.root

	if !root.children[0].isLeaf() {
		inner := [4]*Node{
			root.children[0].children[3],
			root.children[1].children[2],
			root.children[2].children[1],
			root.children[3].children[0],
		}
		innerRect := geom.NewRect(
			inner[0].rect.MinX, inner[0].rect.MinZ,
			inner[3].rect.MaxX, inner[3].rect.MaxZ,
		)
		if innerRect.ContainsRect(qrect) {
			// an entity may be registered at more than one of the four,
			// dedup by identity
			seen := make(map[models.Entity]struct{})
			var out []models.Entity
			for i := 0; i < 4; i++ {
				out = inner[i].collect(qsphere, q, idx.lineOfSight, seen, out)
			}
			return out
		}
	}

	quadrant := root.children[0]
	for i := 1; i < 4; i++ {
		if root.children[i].rect.ContainsPoint(
			geom.Clamp(qsphere.Center.X, idx.bounds.MinX, idx.bounds.MaxX),
			geom.Clamp(qsphere.Center.Z, idx.bounds.MinZ, idx.bounds.MaxZ),
		) {
			quadrant = root.children[i]
		}
	}
	var out []models.Entity
	return quadrant.collect(qsphere, q, idx.lineOfSight, nil, out)
}

// queryRootStrict scans every quadrant whose rectangle the query circle
// overlaps. Always correct for queries spanning quadrant edges, at the
// cost of touching up to all four quadrant lists.
func (idx *Index) queryRootStrict(qsphere geom.Sphere, q RangeQuery) []models.Entity {
	seen := make(map[models.Entity]struct{})
	var out []models.Entity
	for i := 0; i < 4; i++ {
		child := idx.root.children[i]
		if !qsphere.OverlapsRect(child.rect) {
			continue
		}
		out = child.collect(qsphere, q, idx.lineOfSight, seen, out)
	}
	return out
}

// collect scans this node's lists and appends accepted candidates.
// Acceptance is the precise sphere-sphere test, stricter than the coarse
// rectangle test used for registration. seen may be nil when the caller
// scans a single node.
func (n *Node) collect(qsphere geom.Sphere, q RangeQuery, los LineOfSightFunc, seen map[models.Entity]struct{}, out []models.Entity) []models.Entity {
	for c := 0; c < (int)(models.NumCategories); c++ {
		if !q.Categories.Has((models.Category)(c)) {
			continue
		}
		for _, e := range n.lists[c] {
			if e == q.Exclude {
				continue
			}
			if seen != nil {
				if _, ok := seen[e]; ok {
					continue
				}
			}
			if !qsphere.Intersects(e.Bounds()) {
				continue
			}
			if q.LineOfSightOnly && los != nil && !los(qsphere.Center, e.Bounds().Center) {
				continue
			}
			if seen != nil {
				seen[e] = struct{}{}
			}
			out = append(out, e)
		}
	}
	return out
}
