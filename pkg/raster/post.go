package raster

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/samber/lo"
)

// ErrBaseNotFound is returned by AddBase when the raster holds no content
// to stand a base under.
var ErrBaseNotFound = errors.New("raster: base not found")

// KerfStep is the angular sampling step of AddKerf.
const KerfStep = math.Pi / 32

// lowestContentRow returns the largest y holding a non-background pixel,
// or -1 for a blank raster.
func (r *Raster) lowestContentRow() int {
	w := r.Width()
	for y := r.Height() - 1; y >= 0; y-- {
		for x := 0; x < w; x++ {
			if r.img.RGBAAt(x, y) != Background {
				return y
			}
		}
	}
	return -1
}

// AddBase fills every empty row below the lowest content row with c, so
// the silhouette stands on a plate reaching the bottom edge.
func (r *Raster) AddBase(c color.RGBA) error {
	y := r.lowestContentRow()
	if y < 0 {
		return ErrBaseNotFound
	}
	r.FillRect(image.Rect(0, y+1, r.Width(), r.Height()), c)
	return nil
}

// AddShade fills a vertical band width columns wide, centered on centerX,
// with c.
func (r *Raster) AddShade(centerX, width int, c color.RGBA) {
	if width <= 0 {
		return
	}
	x0 := centerX - width/2
	r.FillRect(image.Rect(x0, 0, x0+width, r.Height()), c)
}

// SetTopBand fills the top rows rows with c. rows is clamped to the
// raster height.
func (r *Raster) SetTopBand(rows int, c color.RGBA) {
	rows = min(max(rows, 0), r.Height())
	r.FillRect(image.Rect(0, 0, r.Width(), rows), c)
}

// kerfOffsets returns the distinct integer offsets on a circle of radius
// sampled every KerfStep, in sampling order.
func kerfOffsets(radius float64) []image.Point {
	steps := int(math.Round(2 * math.Pi / KerfStep))
	pts := lo.Times(steps, func(i int) image.Point {
		s, c := math.Sincos(float64(i) * KerfStep)
		return image.Pt(int(math.Round(radius*c)), int(math.Round(radius*s)))
	})
	return lo.Without(lo.Uniq(pts), image.Point{})
}

// AddKerf dilates the raster by compositing copies of itself shifted along
// a circle of the given radius, keeping the per-channel maximum. Features
// thinner than the sampling gaps can be missed at large radii.
func (r *Raster) AddKerf(radius float64) {
	offsets := kerfOffsets(radius)
	if len(offsets) == 0 {
		return
	}

	src := r.Clone().img
	dst := r.img
	w, h := r.Width(), r.Height()

	for _, off := range offsets {
		// dst(x, y) = max(dst(x, y), src(x-dx, y-dy))
		for y := max(0, off.Y); y < min(h, h+off.Y); y++ {
			x0 := max(0, off.X)
			x1 := min(w, w+off.X)
			if x0 >= x1 {
				break
			}
			d := dst.Pix[y*dst.Stride+x0*4 : y*dst.Stride+x1*4]
			sy := y - off.Y
			s := src.Pix[sy*src.Stride+(x0-off.X)*4 : sy*src.Stride+(x1-off.X)*4]
			for i := range d {
				if s[i] > d[i] {
					d[i] = s[i]
				}
			}
		}
	}
}
