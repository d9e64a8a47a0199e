package spatial

import (
	"sort"

	"github.com/veldtlabs/veldt/models"
)

// Batch is a reusable container collecting the frame's visible entities
// in camera-distance order for render submission. The backing slice is
// recycled across frames; Collect must not run concurrently with a
// culling pass.
type Batch struct {
	entities []models.Entity
}

// Collect gathers the entities of the selected categories marked visible
// by the last culling pass, sorted nearest-camera first. The returned
// slice is owned by the batch and valid until the next Collect.
func (b *Batch) Collect(idx *Index, categories models.CategoryMask) []models.Entity {
	b.entities = b.entities[:0]

	// the root list is the canonical inventory, one occurrence per entity
	for c := 0; c < (int)(models.NumCategories); c++ {
		if !categories.Has((models.Category)(c)) {
			continue
		}
		for _, e := range idx.root.lists[c] {
			if e.Placement().Visible() {
				b.entities = append(b.entities, e)
			}
		}
	}

	sort.Slice(b.entities, func(i, j int) bool {
		return b.entities[i].Placement().CameraDistSq() < b.entities[j].Placement().CameraDistSq()
	})
	return b.entities
}

// Len returns the size of the last collected batch.
func (b *Batch) Len() int {
	return len(b.entities)
}
