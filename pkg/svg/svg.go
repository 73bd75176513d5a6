// Package svg writes a job's cuts as an SVG vector proof for inspection in
// a drawing program. Rasters are not drawn.
package svg

import (
	"bufio"
	"fmt"
	"io"
	"math"

	svgo "github.com/ajstarks/svgo"
	"github.com/samber/lo"

	"github.com/chazu/lathser/pkg/geom"
	"github.com/chazu/lathser/pkg/job"
	"github.com/chazu/lathser/pkg/logging"
)

const (
	// DPI is points per inch in the document.
	DPI = 72

	// precision is the number of viewBox units per point.
	precision = 10

	// StrokeWidth is a hairline in points.
	StrokeWidth = 0.001

	Foreground = "black"
	Background = "white"
)

// Encode writes the cuts of j to w. The document covers the job's bed.
func Encode(w io.Writer, j *job.Job) error {
	if err := j.Validate(); err != nil {
		return fmt.Errorf("svg: %w", err)
	}

	bw := bufio.NewWriter(w)
	width := int(j.Params.BedWidth * DPI)
	height := int(j.Params.BedHeight * DPI)

	canvas := svgo.New(bw)
	canvas.Start(width, height,
		fmt.Sprintf(`viewBox="0 0 %d %d"`, width*precision, height*precision),
		`overflow="visible"`)
	canvas.Title(j.Title)
	canvas.Rect(0, 0, width*precision, height*precision, "fill:"+Background)

	stroke := fmt.Sprintf(`fill="none" stroke=%q stroke-width="%g"`, Foreground, StrokeWidth*precision)
	for _, c := range j.Cuts {
		if len(c.Path) == 0 {
			continue
		}
		xs, ys := points(c.Path)
		canvas.Polyline(xs, ys, stroke)
	}
	canvas.End()

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("svg: write: %w", err)
	}
	logging.Logger().Debug("encoded svg", "cuts", len(j.Cuts), "points", j.PointCount())
	return nil
}

// points converts p from inches to viewBox units.
func points(p geom.Path) ([]int, []int) {
	unit := func(v float64) int { return int(math.Round(v * DPI * precision)) }
	xs := lo.Map(p, func(v geom.Vec2, _ int) int { return unit(v.X) })
	ys := lo.Map(p, func(v geom.Vec2, _ int) int { return unit(v.Y) })
	return xs, ys
}
