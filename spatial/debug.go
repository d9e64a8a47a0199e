package spatial

import (
	"github.com/veldtlabs/veldt/models"
)

// DebugInfo is a snapshot of the tree shape and occupancy, served by the
// admin debug endpoint.
type DebugInfo struct {
	Depth         int      `json:"depth"`
	NodeCount     int      `json:"node_count"`
	EntityCounts  []int    `json:"entity_counts"`
	LeafOccupancy []uint32 `json:"leaf_occupancy"`
}

// GetDebugInfo walks the tree and reports per-category entity counts at
// the root and the total membership count of every leaf.
func (idx *Index) GetDebugInfo() DebugInfo {
	info := DebugInfo{
		Depth:        idx.depth,
		EntityCounts: make([]int, models.NumCategories),
	}

	for c := 0; c < (int)(models.NumCategories); c++ {
		info.EntityCounts[c] = len(idx.root.lists[c])
	}

	idx.root.walk(func(n *Node) {
		info.NodeCount++
		if !n.isLeaf() {
			return
		}
		held := 0
		for c := 0; c < (int)(models.NumCategories); c++ {
			held += len(n.lists[c])
		}
		info.LeafOccupancy = append(info.LeafOccupancy, (uint32)(held))
	})

	return info
}
