package geom

import (
	"errors"
	"fmt"
)

// ErrDegenerate reports geometry with no usable extent: an empty model or a
// projection whose bounds have zero area.
var ErrDegenerate = errors.New("geom: degenerate geometry")

// Transform is a uniform scale followed by a translation:
// p' = p·Scale + (OffX, OffY). Scale is never zero for a transform built by
// this package.
type Transform struct {
	Scale      float64
	OffX, OffY float64
}

// Identity is the transform that leaves points unchanged.
var Identity = Transform{Scale: 1}

// Apply maps p through t.
func (t Transform) Apply(p Vec2) Vec2 {
	return Vec2{p.X*t.Scale + t.OffX, p.Y*t.Scale + t.OffY}
}

// Invert returns the transform undoing t.
func (t Transform) Invert() Transform {
	return Transform{Scale: 1 / t.Scale, OffX: -t.OffX / t.Scale, OffY: -t.OffY / t.Scale}
}

// Scaled returns t followed by a uniform scale of k about the origin.
func (t Transform) Scaled(k float64) Transform {
	return Transform{Scale: t.Scale * k, OffX: t.OffX * k, OffY: t.OffY * k}
}

// Translated returns t followed by a shift of (dx, dy).
func (t Transform) Translated(dx, dy float64) Transform {
	return Transform{Scale: t.Scale, OffX: t.OffX + dx, OffY: t.OffY + dy}
}

// MapBBox returns the transform fitting b into a width×height surface. The
// limiting axis fills the surface exactly and the content is centered on
// the other.
func MapBBox(b BBox2, width, height int) (Transform, error) {
	if b.IsEmpty() {
		return Transform{}, fmt.Errorf("geom: map bbox: empty bounds: %w", ErrDegenerate)
	}
	size := b.Size()
	if size.X <= 0 || size.Y <= 0 || width <= 0 || height <= 0 {
		return Transform{}, fmt.Errorf("geom: map bbox: size %gx%g onto %dx%d: %w",
			size.X, size.Y, width, height, ErrDegenerate)
	}

	w, h := float64(width), float64(height)
	var scale float64
	if size.X/size.Y < w/h {
		scale = h / size.Y
	} else {
		scale = w / size.X
	}

	c := b.Center()
	return Transform{
		Scale: scale,
		OffX:  w/2 - c.X*scale,
		OffY:  h/2 - c.Y*scale,
	}, nil
}

// DeviceTransform composes the mapping from raster pixels back to device
// units: undo the fit, scale model units to device units, then place the
// result at (x, y) on the bed.
func DeviceTransform(fit Transform, scale, x, y float64) Transform {
	return fit.Invert().Scaled(scale).Translated(x, y)
}
