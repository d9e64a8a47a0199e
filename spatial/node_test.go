package spatial

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/veldtlabs/veldt/geom"
	"github.com/veldtlabs/veldt/models"
)

// testEntity is the minimal index occupant used across the package
// tests.
type testEntity struct {
	placement models.Placement
	bounds    geom.Sphere
	category  models.Category
}

func newTestEntity(category models.Category, x, y, z, radius float32) *testEntity {
	return &testEntity{
		bounds:   geom.Sphere{Center: geom.Vector3f{X: x, Y: y, Z: z}, Radius: radius},
		category: category,
	}
}

func (e *testEntity) Bounds() geom.Sphere {
	return e.bounds
}

func (e *testEntity) Category() models.Category {
	return e.category
}

func (e *testEntity) Placement() *models.Placement {
	return &e.placement
}

func newTestIndex(t *testing.T, depth int, opts ...Option) *Index {
	t.Helper()
	idx, err := NewIndex(geom.NewRect(0, 0, 128, 128), depth, opts...)
	require.NoError(t, err)
	return idx
}

func countHolding(idx *Index, e models.Entity) int {
	count := 0
	idx.Walk(func(n *Node) {
		if idx.Holds(n, e) {
			count++
		}
	})
	return count
}

func TestNewIndex(t *testing.T) {
	t.Run("NewIndex: complete tree", func(t *testing.T) {
		idx := newTestIndex(t, 4)

		nodes := 0
		idx.Walk(func(*Node) { nodes++ })
		// sum of 4^i for i in [0,4)
		require.Equal(t, 1+4+16+64, nodes)
		require.Equal(t, 4, idx.Depth())
	})

	t.Run("NewIndex: invalid depth", func(t *testing.T) {
		_, err := NewIndex(geom.NewRect(0, 0, 128, 128), 0)
		require.Error(t, err)
	})

	t.Run("NewIndex: empty world", func(t *testing.T) {
		_, err := NewIndex(geom.NewRect(0, 0, 0, 128), 3)
		require.Error(t, err)
	})

	t.Run("NewIndex: world not divisible down to leaves", func(t *testing.T) {
		_, err := NewIndex(geom.NewRect(0, 0, 100, 100), 4)
		require.Error(t, err)
	})
}

func TestInsertRemoveSymmetry(t *testing.T) {
	idx := newTestIndex(t, 4)
	e := newTestEntity(models.CategoryBody, 40, 0, 40, 3)

	idx.Insert(e)
	require.True(t, e.Placement().Registered())
	require.True(t, countHolding(idx, e) > 0)

	idx.Remove(e)
	require.False(t, e.Placement().Registered())
	require.Equal(t, 0, countHolding(idx, e))
}

func TestInsertCompleteness(t *testing.T) {
	idx := newTestIndex(t, 4)
	// straddles the vertical center line, so it must appear in sibling
	// subtrees on both sides
	e := newTestEntity(models.CategoryScenery, 64, 0, 32, 5)
	idx.Insert(e)

	var check func(n *Node, ancestorsHold bool)
	check = func(n *Node, ancestorsHold bool) {
		expected := ancestorsHold && e.Bounds().OverlapsRect(n.Rect())
		require.Equal(t, expected, idx.Holds(n, e),
			"node level %d rect %+v", n.Level(), n.Rect())
		if n.isLeaf() {
			return
		}
		for i := 0; i < 4; i++ {
			check(n.children[i], expected)
		}
	}
	check(idx.root, true)
}

func TestInsertSingleLeaf(t *testing.T) {
	idx := newTestIndex(t, 4)
	// sphere entirely inside the deepest leaf [0,16)x[0,16)
	e := newTestEntity(models.CategoryBody, 8, 0, 8, 1)
	idx.Insert(e)

	// one node list per level: root, child, grandchild, leaf
	require.Equal(t, idx.Depth(), countHolding(idx, e))
	require.Equal(t, idx.Depth(), len(e.Placement().Nodes()))
}

func TestInsertNoOps(t *testing.T) {
	idx := newTestIndex(t, 3)
	e := newTestEntity(models.CategoryWater, 20, 0, 20, 2)

	t.Run("Insert: double insertion", func(t *testing.T) {
		idx.Insert(e)
		held := countHolding(idx, e)
		idx.Insert(e)
		require.Equal(t, held, countHolding(idx, e))
	})

	t.Run("Remove: never registered", func(t *testing.T) {
		ghost := newTestEntity(models.CategoryWater, 20, 0, 20, 2)
		idx.Remove(ghost)
		require.False(t, ghost.Placement().Registered())
	})

	t.Run("Insert: nil entity", func(t *testing.T) {
		idx.Insert(nil)
		idx.Remove(nil)
	})
}

func TestRootIsCanonicalInventory(t *testing.T) {
	idx := newTestIndex(t, 4)

	entities := []*testEntity{
		newTestEntity(models.CategoryBody, 10, 0, 10, 1),
		newTestEntity(models.CategoryTerrain, 100, 0, 100, 8),
		newTestEntity(models.CategoryScenery, 64, 0, 64, 2),
	}
	for _, e := range entities {
		idx.Insert(e)
	}

	for _, e := range entities {
		require.True(t, idx.Holds(idx.root, e))
	}

	info := idx.GetDebugInfo()
	require.Equal(t, 1, info.EntityCounts[models.CategoryBody])
	require.Equal(t, 1, info.EntityCounts[models.CategoryTerrain])
	require.Equal(t, 1, info.EntityCounts[models.CategoryScenery])
	require.Equal(t, 0, info.EntityCounts[models.CategoryWater])
	require.Equal(t, 1+4+16+64, info.NodeCount)
	require.Equal(t, 64, len(info.LeafOccupancy))
}
