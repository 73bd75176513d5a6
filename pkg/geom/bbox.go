package geom

import "math"

// BBox2 accumulates the bounds of inserted points. The zero value is not
// usable; start from NewBBox2.
type BBox2 struct {
	Min, Max Vec2
}

// NewBBox2 returns an empty box with (+∞, −∞) sentinels.
func NewBBox2() BBox2 {
	inf := math.Inf(1)
	return BBox2{Min: Vec2{inf, inf}, Max: Vec2{-inf, -inf}}
}

// IsEmpty reports whether no point has been inserted.
func (b BBox2) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// AddPoint grows b to include p.
func (b *BBox2) AddPoint(p Vec2) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// AddTriangle grows b to include every vertex of t.
func (b *BBox2) AddTriangle(t Triangle2D) {
	for _, p := range t {
		b.AddPoint(p)
	}
}

// AddMargin expands b by m on every side.
func (b *BBox2) AddMargin(m float64) {
	b.Min = b.Min.Sub(Vec2{m, m})
	b.Max = b.Max.Add(Vec2{m, m})
}

// Size returns the extent of b.
func (b BBox2) Size() Vec2 { return b.Max.Sub(b.Min) }

// Center returns the midpoint of b.
func (b BBox2) Center() Vec2 { return b.Min.Add(b.Max).Div(2) }

// BBox3 is the 3D counterpart of BBox2.
type BBox3 struct {
	Min, Max Vec3
}

// NewBBox3 returns an empty box with (+∞, −∞) sentinels.
func NewBBox3() BBox3 {
	inf := math.Inf(1)
	return BBox3{Min: Vec3{inf, inf, inf}, Max: Vec3{-inf, -inf, -inf}}
}

// IsEmpty reports whether no point has been inserted.
func (b BBox3) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// AddPoint grows b to include p.
func (b *BBox3) AddPoint(p Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// AddTriangle grows b to include every vertex of t.
func (b *BBox3) AddTriangle(t Triangle3D) {
	for _, p := range t.V {
		b.AddPoint(p)
	}
}

// AddMargin expands b by m on every side.
func (b *BBox3) AddMargin(m float64) {
	b.Min = b.Min.Sub(Vec3{m, m, m})
	b.Max = b.Max.Add(Vec3{m, m, m})
}

func (b BBox3) Size() Vec3   { return b.Max.Sub(b.Min) }
func (b BBox3) Center() Vec3 { return b.Min.Add(b.Max).Div(2) }
