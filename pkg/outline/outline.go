// Package outline recovers vector contours from a raster by collecting the
// grid edges between differently colored pixels and walking them into
// polylines.
package outline

import (
	"errors"
	"image/color"

	"github.com/chazu/lathser/pkg/geom"
	"github.com/chazu/lathser/pkg/logging"
	"github.com/chazu/lathser/pkg/raster"
)

// ErrNoContent is returned alongside empty Paths when a raster has no
// color boundaries at all. It is a warning: callers may continue.
var ErrNoContent = errors.New("outline: no content in raster")

// Edge separates two adjacent pixels of different color. Its endpoints are
// pixel-grid corners. Edges compare by endpoints only.
type Edge struct {
	A, B geom.Vec2
}

func sameRGB(a, b color.RGBA) bool {
	return a.R == b.R && a.G == b.G && a.B == b.B
}

// Edges scans r in row-major order and returns every boundary edge. Each
// pixel except those on the last row and column is compared with its right
// neighbor, then its lower neighbor. Alpha is ignored.
func Edges(r *raster.Raster) []Edge {
	var edges []Edge
	w, h := r.Width(), r.Height()
	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			p := r.At(x, y)
			fx, fy := float64(x), float64(y)
			if !sameRGB(p, r.At(x+1, y)) {
				edges = append(edges, Edge{geom.V2(fx+1, fy), geom.V2(fx+1, fy+1)})
			}
			if !sameRGB(p, r.At(x, y+1)) {
				edges = append(edges, Edge{geom.V2(fx, fy+1), geom.V2(fx+1, fy+1)})
			}
		}
	}
	return edges
}

// Trace walks the boundary edges of r into paths. Paths appear in
// discovery order and vertices in walk order; a clean silhouette yields one
// closed path per boundary loop. A raster without boundaries yields empty
// Paths and ErrNoContent.
func Trace(r *raster.Raster) (geom.Paths, error) {
	log := logging.Logger()

	edges := Edges(r)
	if len(edges) == 0 {
		log.Warn("no pixels in raster", "width", r.Width(), "height", r.Height())
		return geom.Paths{}, ErrNoContent
	}

	t := newTracer(edges)
	log.Debug("indexed edges", "edges", len(edges), "vertices", len(t.byVertex))

	paths := t.walk()
	log.Debug("traced paths",
		"paths", len(paths),
		"lengths", paths.Lengths(),
		"unused", t.remaining)
	return paths, nil
}
