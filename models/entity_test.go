package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/veldtlabs/veldt/geom"
)

type stubNode struct {
	rect  geom.Rect
	level int
}

func (n *stubNode) Rect() geom.Rect {
	return n.rect
}

func (n *stubNode) Level() int {
	return n.level
}

func TestPlacement(t *testing.T) {
	var p Placement

	require.False(t, p.Visible())
	require.False(t, p.Registered())

	t.Run("Placement: visibility and distance", func(t *testing.T) {
		p.SetVisible(true)
		p.SetCameraDistSq(42)
		require.True(t, p.Visible())
		require.Equal(t, (float32)(42), p.CameraDistSq())

		p.SetVisible(false)
		require.False(t, p.Visible())
	})

	t.Run("Placement: node back-references", func(t *testing.T) {
		a := &stubNode{level: 0}
		b := &stubNode{level: 1}

		p.AttachNode(a)
		p.AttachNode(b)
		require.True(t, p.Registered())
		require.Equal(t, 2, len(p.Nodes()))

		p.DetachNode(a)
		require.Equal(t, 1, len(p.Nodes()))

		// detaching an unknown node is a no-op
		p.DetachNode(a)
		require.Equal(t, 1, len(p.Nodes()))

		p.DetachNode(b)
		require.False(t, p.Registered())
	})
}

func TestCategoryMask(t *testing.T) {
	mask := MaskBody | MaskTerrain

	require.True(t, mask.Has(CategoryBody))
	require.True(t, mask.Has(CategoryTerrain))
	require.False(t, mask.Has(CategoryWater))
	require.False(t, mask.Has(CategoryScenery))

	for c := CategoryBody; c < NumCategories; c++ {
		require.True(t, MaskAll.Has(c))
	}
}

func TestCategoryString(t *testing.T) {
	require.Equal(t, "body", CategoryBody.String())
	require.Equal(t, "terrain", CategoryTerrain.String())
	require.Equal(t, "water", CategoryWater.String())
	require.Equal(t, "scenery", CategoryScenery.String())
}
