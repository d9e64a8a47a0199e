package models

// Category tags an entity with the membership list it belongs to inside
// the spatial index. Every index node keeps one list per category.
type Category int

const (
	// CategoryBody is a mobile body (creatures, anything that moves and
	// collides with the terrain).
	CategoryBody Category = iota

	// CategoryTerrain is a static terrain tile.
	CategoryTerrain

	// CategoryWater is a static water tile.
	CategoryWater

	// CategoryScenery is static decoration (plants, rocks, sprites).
	CategoryScenery

	NumCategories
)

func (c Category) String() string {
	switch c {
	case CategoryBody:
		return "body"
	case CategoryTerrain:
		return "terrain"
	case CategoryWater:
		return "water"
	case CategoryScenery:
		return "scenery"
	default:
		return "unknown"
	}
}

// CategoryMask selects a set of categories for range queries.
type CategoryMask uint8

const (
	MaskBody    CategoryMask = 1 << CategoryBody
	MaskTerrain CategoryMask = 1 << CategoryTerrain
	MaskWater   CategoryMask = 1 << CategoryWater
	MaskScenery CategoryMask = 1 << CategoryScenery
	MaskAll     CategoryMask = MaskBody | MaskTerrain | MaskWater | MaskScenery
)

func (m CategoryMask) Has(c Category) bool {
	return m&(1<<c) != 0
}
