package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/chazu/lathser/pkg/geom"
	"golang.org/x/image/vector"
)

// coverageThreshold is the minimum alpha coverage for a silhouette pixel.
const coverageThreshold = 0x80

// FillTriangles fills the union of tris with c. Triangles are accumulated
// with a common winding so overlaps saturate instead of cancelling, and a
// pixel is set when at least half of it is covered.
func (r *Raster) FillTriangles(tris []geom.Triangle2D, c color.RGBA) {
	w, h := r.Width(), r.Height()
	if len(tris) == 0 || w == 0 || h == 0 {
		return
	}

	z := vector.NewRasterizer(w, h)
	for _, t := range tris {
		if t.SignedArea() < 0 {
			t[1], t[2] = t[2], t[1]
		}
		addTriangle(z, t, geom.Vec2{})
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, a := range row {
			if a >= coverageThreshold {
				r.img.SetRGBA(x, y, c)
			}
		}
	}
}

// FillTriangle paints a single triangle with c, setting every pixel the
// triangle touches. Work is limited to the triangle's bounding box.
func (r *Raster) FillTriangle(t geom.Triangle2D, c color.RGBA) {
	b := geom.NewBBox2()
	b.AddTriangle(t)
	rect := image.Rect(
		int(math.Floor(b.Min.X)), int(math.Floor(b.Min.Y)),
		int(math.Ceil(b.Max.X)), int(math.Ceil(b.Max.Y)),
	).Intersect(r.img.Rect)
	if rect.Empty() {
		return
	}

	z := vector.NewRasterizer(rect.Dx(), rect.Dy())
	addTriangle(z, t, geom.V2(float64(rect.Min.X), float64(rect.Min.Y)))

	mask := image.NewAlpha(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			if mask.Pix[y*mask.Stride+x] > 0 {
				r.img.SetRGBA(rect.Min.X+x, rect.Min.Y+y, c)
			}
		}
	}
}

func addTriangle(z *vector.Rasterizer, t geom.Triangle2D, origin geom.Vec2) {
	p := func(i int) (float32, float32) {
		v := t[i].Sub(origin)
		return float32(v.X), float32(v.Y)
	}
	z.MoveTo(p(0))
	z.LineTo(p(1))
	z.LineTo(p(2))
	z.ClosePath()
}
