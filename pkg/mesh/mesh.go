// Package mesh holds the triangle-list model consumed by the silhouette
// renderer, plus loaders for the JSON model format.
package mesh

import (
	"math"

	"github.com/chazu/lathser/pkg/geom"
	"github.com/samber/lo"
)

// Mesh is an ordered list of triangles. Whole-model operations return a new
// Mesh so a loaded model can be shared read-only between concurrent passes.
type Mesh struct {
	Triangles []geom.Triangle3D
	Name      string // source file or script name
}

// New returns a mesh over tris.
func New(tris []geom.Triangle3D) *Mesh {
	return &Mesh{Triangles: tris}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Triangles) == 0
}

func (m *Mesh) with(f func(geom.Triangle3D, int) geom.Triangle3D) *Mesh {
	return &Mesh{Triangles: lo.Map(m.Triangles, f), Name: m.Name}
}

// Translate moves every triangle by d.
func (m *Mesh) Translate(d geom.Vec3) *Mesh {
	return m.with(func(t geom.Triangle3D, _ int) geom.Triangle3D { return t.Translate(d) })
}

// Scale multiplies every vertex by k.
func (m *Mesh) Scale(k float64) *Mesh {
	return m.with(func(t geom.Triangle3D, _ int) geom.Triangle3D { return t.Scale(k) })
}

// RotateX90 rotates the model a quarter turn about X, n times. Models
// authored around Y need one turn to stand around Z.
func (m *Mesh) RotateX90(n int) *Mesh {
	n = ((n % 4) + 4) % 4
	return m.with(func(t geom.Triangle3D, _ int) geom.Triangle3D {
		for i := 0; i < n; i++ {
			t = t.RotateX90()
		}
		return t
	})
}

// BoundingBox returns the axis-aligned bounds of every vertex.
func (m *Mesh) BoundingBox() geom.BBox3 {
	b := geom.NewBBox3()
	for _, t := range m.Triangles {
		b.AddTriangle(t)
	}
	return b
}

// Centered returns the mesh moved so its bounding box is centered on the
// origin.
func (m *Mesh) Centered() *Mesh {
	if m.IsEmpty() {
		return &Mesh{Name: m.Name}
	}
	b := m.BoundingBox()
	return m.Translate(b.Center().Neg())
}

// FitScale returns the factor mapping model units to device units so the
// model's widest horizontal extent spans diameter. It returns 0 for a mesh
// with no horizontal extent.
func (m *Mesh) FitScale(diameter float64) float64 {
	if m.IsEmpty() {
		return 0
	}
	size := m.BoundingBox().Size()
	widest := math.Max(size.X, size.Y)
	if widest <= 0 {
		return 0
	}
	return diameter / widest
}
