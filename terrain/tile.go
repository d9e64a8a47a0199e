package terrain

import (
	"math"

	"github.com/veldtlabs/veldt/geom"
	"github.com/veldtlabs/veldt/models"
)

// Tile is one grid cell of the height field materialized as two world
// space triangles sharing the NW-SE diagonal. Tiles are created once at
// load time and immutable thereafter; the terrain is static.
type Tile struct {
	placement models.Placement

	corners   [4]geom.Vector3f // NW, NE, SW, SE
	triangles [2]geom.Triangle
	planes    [2]geom.Plane
	bounds    geom.Sphere
	rect      geom.Rect
	maxHeight float32
	texture   uint8
}

func newTile(hf *HeightField, cx, cz int) *Tile {
	nw, ne, sw, se := hf.cellCorners(cx, cz)
	triangles := hf.cellTriangles(cx, cz)

	maxHeight := nw.Y
	for _, h := range []float32{ne.Y, sw.Y, se.Y} {
		if h > maxHeight {
			maxHeight = h
		}
	}

	center := geom.Mul(geom.Add(geom.Add(nw, ne), geom.Add(sw, se)), 0.25)
	var radius float32
	for _, c := range []geom.Vector3f{nw, ne, sw, se} {
		d := geom.DistSq(center, c)
		if d > radius {
			radius = d
		}
	}
	radius = (float32)(math.Sqrt((float64)(radius)))

	return &Tile{
		corners:   [4]geom.Vector3f{nw, ne, sw, se},
		triangles: triangles,
		planes: [2]geom.Plane{
			geom.NewPlane(triangles[0].A, triangles[0].B, triangles[0].C),
			geom.NewPlane(triangles[1].A, triangles[1].B, triangles[1].C),
		},
		bounds:    geom.Sphere{Center: center, Radius: radius},
		rect:      geom.NewRect(nw.X, nw.Z, se.X, se.Z),
		maxHeight: maxHeight,
		texture:   hf.textures[cz*hf.cols+cx],
	}
}

// BuildTiles materializes one tile per grid cell.
func (hf *HeightField) BuildTiles() []*Tile {
	tiles := make([]*Tile, 0, (hf.cols-1)*(hf.rows-1))
	for cz := 0; cz < hf.rows-1; cz++ {
		for cx := 0; cx < hf.cols-1; cx++ {
			tiles = append(tiles, newTile(hf, cx, cz))
		}
	}
	return tiles
}

func (t *Tile) Bounds() geom.Sphere {
	return t.bounds
}

func (t *Tile) Category() models.Category {
	return models.CategoryTerrain
}

func (t *Tile) Placement() *models.Placement {
	return &t.placement
}

// Corners returns the tile corner positions in NW, NE, SW, SE order.
func (t *Tile) Corners() [4]geom.Vector3f {
	return t.corners
}

// Triangles returns the two faces; index 0 is the northeast half.
func (t *Tile) Triangles() [2]geom.Triangle {
	return t.triangles
}

func (t *Tile) TextureIndex() uint8 {
	return t.texture
}
