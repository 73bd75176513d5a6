// Package raster provides the owned RGBA pixel surface that silhouettes are
// drawn onto, plus the post-processing applied before contour tracing.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
)

var (
	// Background is the empty-pixel color of a new raster.
	Background = color.RGBA{A: 0xff}
	// Foreground is the silhouette color.
	Foreground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Raster is a width×height RGBA surface. It is written by one pass and
// read-only afterwards.
type Raster struct {
	img *image.RGBA
}

// New returns a raster filled with Background.
func New(width, height int) *Raster {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	return &Raster{img: img}
}

func (r *Raster) Width() int  { return r.img.Rect.Dx() }
func (r *Raster) Height() int { return r.img.Rect.Dy() }

// Bounds returns the raster rectangle, always anchored at the origin.
func (r *Raster) Bounds() image.Rectangle { return r.img.Rect }

// At returns the pixel at (x, y).
func (r *Raster) At(x, y int) color.RGBA {
	return r.img.RGBAAt(x, y)
}

// Set writes the pixel at (x, y). Out-of-range writes are ignored.
func (r *Raster) Set(x, y int, c color.RGBA) {
	r.img.SetRGBA(x, y, c)
}

// Image exposes the raster as a read-only image for encoders.
func (r *Raster) Image() image.Image {
	return r.img
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	img := image.NewRGBA(r.img.Rect)
	copy(img.Pix, r.img.Pix)
	return &Raster{img: img}
}

// IsBlank reports whether every pixel equals Background.
func (r *Raster) IsBlank() bool {
	return r.lowestContentRow() < 0
}

// FillRect fills rect, clipped to the raster, with c.
func (r *Raster) FillRect(rect image.Rectangle, c color.RGBA) {
	draw.Draw(r.img, rect.Intersect(r.img.Rect), image.NewUniform(c), image.Point{}, draw.Src)
}

// WritePNG encodes the raster as PNG.
func (r *Raster) WritePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("raster: write png: %w", err)
	}
	return nil
}
