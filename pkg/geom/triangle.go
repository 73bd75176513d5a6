package geom

// Triangle3D is an immutable triangle with its unit face normal. The normal
// of a degenerate triangle is the zero vector.
type Triangle3D struct {
	V      [3]Vec3
	Normal Vec3
}

// NewTriangle3D builds a triangle and derives its normal as
// (v0−v2) × (v0−v1).
func NewTriangle3D(v0, v1, v2 Vec3) Triangle3D {
	n := v0.Sub(v2).Cross(v0.Sub(v1)).Normalized()
	return Triangle3D{V: [3]Vec3{v0, v1, v2}, Normal: n}
}

// Translate moves every vertex by d.
func (t Triangle3D) Translate(d Vec3) Triangle3D {
	return NewTriangle3D(t.V[0].Add(d), t.V[1].Add(d), t.V[2].Add(d))
}

// Scale multiplies every vertex by k.
func (t Triangle3D) Scale(k float64) Triangle3D {
	return NewTriangle3D(t.V[0].Mul(k), t.V[1].Mul(k), t.V[2].Mul(k))
}

// RotateX90 rotates the triangle a quarter turn about X.
func (t Triangle3D) RotateX90() Triangle3D {
	return NewTriangle3D(t.V[0].RotateX90(), t.V[1].RotateX90(), t.V[2].RotateX90())
}

// RotateZ rotates the triangle by angle radians about Z.
func (t Triangle3D) RotateZ(angle float64) Triangle3D {
	return NewTriangle3D(t.V[0].RotateZ(angle), t.V[1].RotateZ(angle), t.V[2].RotateZ(angle))
}

// Project maps each vertex through Vec3.Project.
func (t Triangle3D) Project(tr Transform, angle float64) Triangle2D {
	return Triangle2D{
		t.V[0].Project(tr, angle),
		t.V[1].Project(tr, angle),
		t.V[2].Project(tr, angle),
	}
}

// Triangle2D is a projected triangle.
type Triangle2D [3]Vec2

// SignedArea is positive for counter-clockwise winding in a y-up frame.
func (t Triangle2D) SignedArea() float64 {
	a := t[1].Sub(t[0])
	b := t[2].Sub(t[0])
	return (a.X*b.Y - a.Y*b.X) / 2
}
