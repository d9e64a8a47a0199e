package terrain

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/veldtlabs/veldt/geom"
)

// HeightField is the immutable grid of terrain elevation samples. It is
// loaded once from already-decoded arrays supplied by the asset loader
// and lives for the process lifetime. cols × rows are vertex counts; the
// grid therefore holds (cols-1) × (rows-1) tiles. scaleX and scaleZ map
// grid steps to world units, with the origin fixed at the corner
// (0, 0).
type HeightField struct {
	cols     int
	rows     int
	scaleX   float32
	scaleZ   float32
	heights  []float32
	textures []uint8
}

// NewHeightField validates the decoded grids. heights must hold
// cols*rows samples; textures is addressed by the same dimensions and
// may be nil, in which case every tile gets texture index 0. Dimension
// or scale inconsistencies are fatal at load time: the simulation cannot
// start on a malformed terrain.
func NewHeightField(heights []float32, textures []uint8, cols, rows int, scaleX, scaleZ float32) (*HeightField, error) {
	if cols < 2 || rows < 2 {
		return nil, errors.New("height field needs at least 2x2 vertices").
			WithTag("cols", cols).
			WithTag("rows", rows)
	}
	if len(heights) != cols*rows {
		return nil, errors.New("height grid does not match declared dimensions").
			WithTag("cols", cols).
			WithTag("rows", rows).
			WithTag("samples", len(heights))
	}
	if textures != nil && len(textures) != cols*rows {
		return nil, errors.New("texture grid does not match height grid dimensions").
			WithTag("cols", cols).
			WithTag("rows", rows).
			WithTag("samples", len(textures))
	}
	if scaleX <= 0 || scaleZ <= 0 {
		return nil, errors.New("invalid grid-to-world scale").
			WithTag("scale_x", scaleX).
			WithTag("scale_z", scaleZ)
	}

	if textures == nil {
		textures = make([]uint8, cols*rows)
	}

	return &HeightField{
		cols:     cols,
		rows:     rows,
		scaleX:   scaleX,
		scaleZ:   scaleZ,
		heights:  heights,
		textures: textures,
	}, nil
}

// Bounds is the world rectangle the terrain covers.
func (hf *HeightField) Bounds() geom.Rect {
	return geom.NewRect(0, 0, (float32)(hf.cols-1)*hf.scaleX, (float32)(hf.rows-1)*hf.scaleZ)
}

func (hf *HeightField) Cols() int {
	return hf.cols
}

func (hf *HeightField) Rows() int {
	return hf.rows
}

// vertexHeight addresses the grid by integer vertex coordinates. Out of
// bounds reads as "no data", reported as the lowest representable
// height so extrapolated samples never block anything.
func (hf *HeightField) vertexHeight(cx, cz int) (float32, bool) {
	if cx < 0 || cx >= hf.cols || cz < 0 || cz >= hf.rows {
		return (float32)(math.Inf(-1)), false
	}
	return hf.heights[cz*hf.cols+cx], true
}

// cellAt locates the tile containing (x, z) and the fractional offsets
// inside it. Coordinates outside the terrain are clamped.
func (hf *HeightField) cellAt(x, z float32) (cx, cz int, dx, dz float32) {
	gx := geom.Clamp(x/hf.scaleX, 0, (float32)(hf.cols-1))
	gz := geom.Clamp(z/hf.scaleZ, 0, (float32)(hf.rows-1))

	cx = (int)(gx)
	cz = (int)(gz)
	if cx > hf.cols-2 {
		cx = hf.cols - 2
	}
	if cz > hf.rows-2 {
		cz = hf.rows - 2
	}
	return cx, cz, gx - (float32)(cx), gz - (float32)(cz)
}

// AltitudeAt bilinearly interpolates the four corner heights of the
// containing tile. Evaluated exactly at a grid vertex it degenerates to
// the stored sample.
func (hf *HeightField) AltitudeAt(x, z float32) float32 {
	cx, cz, dx, dz := hf.cellAt(x, z)

	nw, _ := hf.vertexHeight(cx, cz)
	ne, _ := hf.vertexHeight(cx+1, cz)
	sw, _ := hf.vertexHeight(cx, cz+1)
	se, _ := hf.vertexHeight(cx+1, cz+1)

	north := nw + (ne-nw)*dx
	south := sw + (se-sw)*dx
	return north + (south-north)*dz
}

// RoughAltitudeAt returns the highest of the containing tile's four
// corners, a conservative upper bound cheap enough for broad-phase
// rejection.
func (hf *HeightField) RoughAltitudeAt(x, z float32) float32 {
	cx, cz, _, _ := hf.cellAt(x, z)

	nw, _ := hf.vertexHeight(cx, cz)
	ne, _ := hf.vertexHeight(cx+1, cz)
	sw, _ := hf.vertexHeight(cx, cz+1)
	se, _ := hf.vertexHeight(cx+1, cz+1)

	max := nw
	if ne > max {
		max = ne
	}
	if sw > max {
		max = sw
	}
	if se > max {
		max = se
	}
	return max
}

// SlopeAt returns the face normal of the triangle under (x, z). The Y
// component measures steepness, the X/Z components give the downhill
// direction. The tile's two triangles share the NW-SE diagonal; the
// comparison dx + (1-dz) against 1 picks the side.
func (hf *HeightField) SlopeAt(x, z float32) geom.Vector3f {
	cx, cz, dx, dz := hf.cellAt(x, z)
	t := hf.cellTriangles(cx, cz)
	if dx+(1-dz) >= 1 {
		return t[0].Normal
	}
	return t[1].Normal
}

// TextureIndexAt returns the texture index of the containing tile.
func (hf *HeightField) TextureIndexAt(x, z float32) uint8 {
	cx, cz, _, _ := hf.cellAt(x, z)
	return hf.textures[cz*hf.cols+cx]
}

// cellTriangles materializes the cell's two triangles in world space.
// Triangle 0 is the northeast half (dx >= dz), triangle 1 the southwest
// half; the winding keeps both normals pointing up for level ground.
func (hf *HeightField) cellTriangles(cx, cz int) [2]geom.Triangle {
	nw, ne, sw, se := hf.cellCorners(cx, cz)
	return [2]geom.Triangle{
		geom.NewTriangle(nw, se, ne),
		geom.NewTriangle(nw, sw, se),
	}
}

func (hf *HeightField) cellCorners(cx, cz int) (nw, ne, sw, se geom.Vector3f) {
	x0 := (float32)(cx) * hf.scaleX
	x1 := (float32)(cx+1) * hf.scaleX
	z0 := (float32)(cz) * hf.scaleZ
	z1 := (float32)(cz+1) * hf.scaleZ

	hnw, _ := hf.vertexHeight(cx, cz)
	hne, _ := hf.vertexHeight(cx+1, cz)
	hsw, _ := hf.vertexHeight(cx, cz+1)
	hse, _ := hf.vertexHeight(cx+1, cz+1)

	nw = geom.Vector3f{X: x0, Y: hnw, Z: z0}
	ne = geom.Vector3f{X: x1, Y: hne, Z: z0}
	sw = geom.Vector3f{X: x0, Y: hsw, Z: z1}
	se = geom.Vector3f{X: x1, Y: hse, Z: z1}
	return nw, ne, sw, se
}

// InLineOfSight steps along the longer horizontal axis of the segment in
// increments sized so each tile is sampled at least once, comparing the
// straight-line-interpolated segment height against the nearest grid
// sample. Any sample exceeding the segment height blocks the line of
// sight. Samples outside the grid carry no data and never block.
func (hf *HeightField) InLineOfSight(p1, p2 geom.Vector3f) bool {
	dx := (float64)(p2.X - p1.X)
	dz := (float64)(p2.Z - p1.Z)

	steps := (int)(math.Max(math.Abs(dx)/(float64)(hf.scaleX), math.Abs(dz)/(float64)(hf.scaleZ))) + 1

	for i := 0; i <= steps; i++ {
		t := (float32)(i) / (float32)(steps)
		x := p1.X + (p2.X-p1.X)*t
		z := p1.Z + (p2.Z-p1.Z)*t
		segmentY := p1.Y + (p2.Y-p1.Y)*t

		sx := (int)(math.Round((float64)(x / hf.scaleX)))
		sz := (int)(math.Round((float64)(z / hf.scaleZ)))
		ground, ok := hf.vertexHeight(sx, sz)
		if !ok {
			continue
		}
		if ground > segmentY {
			return false
		}
	}
	return true
}
