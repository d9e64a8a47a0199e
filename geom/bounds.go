package geom

// Sphere is a world-space bounding sphere.
type Sphere struct {
	Center Vector3f
	Radius float32
}

// Intersects is the precise sphere-sphere overlap test.
func (s Sphere) Intersects(o Sphere) bool {
	r := s.Radius + o.Radius
	return DistSq(s.Center, o.Center) <= r*r
}

// OverlapsRect tests the sphere's horizontal-plane projection (a circle
// at X/Z) against an axis-aligned rectangle. The sphere's Y is ignored.
func (s Sphere) OverlapsRect(r Rect) bool {
	cx := Clamp(s.Center.X, r.MinX, r.MaxX)
	cz := Clamp(s.Center.Z, r.MinZ, r.MaxZ)
	dx := s.Center.X - cx
	dz := s.Center.Z - cz
	return dx*dx+dz*dz <= s.Radius*s.Radius
}

// Rect is an axis-aligned rectangle in the horizontal (X/Z) world plane.
type Rect struct {
	MinX float32
	MinZ float32
	MaxX float32
	MaxZ float32
}

func NewRect(minX, minZ, maxX, maxZ float32) Rect {
	return Rect{MinX: minX, MinZ: minZ, MaxX: maxX, MaxZ: maxZ}
}

func (r Rect) Width() float32 {
	return r.MaxX - r.MinX
}

func (r Rect) Depth() float32 {
	return r.MaxZ - r.MinZ
}

func (r Rect) Center() Vector3f {
	return Vector3f{(r.MinX + r.MaxX) * 0.5, 0, (r.MinZ + r.MaxZ) * 0.5}
}

func (r Rect) Intersects(o Rect) bool {
	return r.MinX < o.MaxX && r.MaxX > o.MinX && r.MinZ < o.MaxZ && r.MaxZ > o.MinZ
}

// ContainsRect reports whether o lies fully inside r, borders included.
func (r Rect) ContainsRect(o Rect) bool {
	return o.MinX >= r.MinX && o.MaxX <= r.MaxX && o.MinZ >= r.MinZ && o.MaxZ <= r.MaxZ
}

func (r Rect) ContainsPoint(x, z float32) bool {
	return x >= r.MinX && x <= r.MaxX && z >= r.MinZ && z <= r.MaxZ
}

// ClampRect clips o to r. Queries reaching outside the world are clamped,
// never rejected.
func (r Rect) ClampRect(o Rect) Rect {
	return Rect{
		MinX: Clamp(o.MinX, r.MinX, r.MaxX),
		MinZ: Clamp(o.MinZ, r.MinZ, r.MaxZ),
		MaxX: Clamp(o.MaxX, r.MinX, r.MaxX),
		MaxZ: Clamp(o.MaxZ, r.MinZ, r.MaxZ),
	}
}
