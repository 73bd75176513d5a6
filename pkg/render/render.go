// Package render projects a mesh at a rotation angle onto a raster, either
// as a binary silhouette or as a flat diffuse-lit surface.
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/chazu/lathser/pkg/geom"
	"github.com/chazu/lathser/pkg/logging"
	"github.com/chazu/lathser/pkg/mesh"
	"github.com/chazu/lathser/pkg/raster"
)

// MarginFraction is the share of the projected width added around the
// projected bounds on every side.
const MarginFraction = 0.1

// Frame is one rendered view of the model.
type Frame struct {
	Raster *raster.Raster
	// Fit maps projected model coordinates to raster pixels.
	Fit   geom.Transform
	Angle float64
}

// Fit computes the transform that fits the mesh, rotated by angle about Z
// and projected onto the (y, z) plane, into a width×height raster.
func Fit(m *mesh.Mesh, width, height int, angle float64) (geom.Transform, error) {
	if m == nil || m.IsEmpty() {
		return geom.Transform{}, fmt.Errorf("render: empty mesh: %w", geom.ErrDegenerate)
	}

	b := geom.NewBBox2()
	for _, t := range m.Triangles {
		b.AddTriangle(t.Project(geom.Identity, angle))
	}
	b.AddMargin(b.Size().X * MarginFraction)

	fit, err := geom.MapBBox(b, width, height)
	if err != nil {
		return geom.Transform{}, fmt.Errorf("render: angle %.4f: %w", angle, err)
	}
	return fit, nil
}

// Render draws m at angle onto a new width×height raster. With a nil light
// every triangle is filled with raster.Foreground as one silhouette.
// Otherwise triangles whose model-frame normal has positive x are culled
// and the rest are shaded by max(0, n·light) in gray. The normal is not
// rotated with the pass angle.
func Render(m *mesh.Mesh, width, height int, angle float64, light *geom.Vec3) (*Frame, error) {
	fit, err := Fit(m, width, height, angle)
	if err != nil {
		return nil, err
	}

	r := raster.New(width, height)
	if light == nil {
		tris := make([]geom.Triangle2D, len(m.Triangles))
		for i, t := range m.Triangles {
			tris[i] = t.Project(fit, angle)
		}
		r.FillTriangles(tris, raster.Foreground)
	} else {
		culled := 0
		l := *light
		for _, t := range m.Triangles {
			if t.Normal.X > 0 {
				culled++
				continue
			}
			r.FillTriangle(t.Project(fit, angle), Shade(t.Normal, l))
		}
		logging.Logger().Debug("lit render", "triangles", len(m.Triangles), "culled", culled)
	}

	return &Frame{Raster: r, Fit: fit, Angle: angle}, nil
}

// Shade returns the opaque gray for a face with normal n under light.
func Shade(n, light geom.Vec3) color.RGBA {
	d := math.Max(0, n.Dot(light))
	v := uint8(math.Min(255, math.Floor(d*255+0.5)))
	return color.RGBA{R: v, G: v, B: v, A: 0xff}
}
