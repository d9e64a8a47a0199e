package geom

// Plane is the set of points p where Normal·p + D == 0. SignedDistance is
// positive on the side the normal points to.
type Plane struct {
	Normal Vector3f
	D      float32
}

// NewPlane builds the plane through a, b and c. The normal follows the
// winding a→b→c (counter-clockwise seen from the normal side).
func NewPlane(a, b, c Vector3f) Plane {
	normal := Normalized(Cross(Sub(b, a), Sub(c, a)))
	return Plane{
		Normal: normal,
		D:      -normal.Dot(a),
	}
}

func (p Plane) SignedDistance(v Vector3f) float32 {
	return p.Normal.Dot(v) + p.D
}

// Triangle keeps its corners and the face normal derived from them.
type Triangle struct {
	A, B, C Vector3f
	Normal  Vector3f
}

func NewTriangle(a, b, c Vector3f) Triangle {
	return Triangle{
		A:      a,
		B:      b,
		C:      c,
		Normal: Normalized(Cross(Sub(b, a), Sub(c, a))),
	}
}
