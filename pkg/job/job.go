// Package job holds the device-independent description of a laser job: an
// ordered list of vector cuts and raster engravings plus bed settings.
// Coordinates are in inches.
package job

import (
	"errors"
	"image"

	"github.com/chazu/lathser/pkg/geom"
	"github.com/samber/lo"
)

// ErrNoTitle is returned by Validate for a job without a name.
var ErrNoTitle = errors.New("job: missing title")

// Cut is one vector path with its laser settings. Speed and power are
// percentages; frequency is in Hz.
type Cut struct {
	Path      geom.Path
	Speed     int
	Power     int
	Frequency int
}

// Raster is an image engraved with its top-left corner at (X, Y) inches.
type Raster struct {
	Image image.Image
	X, Y  float64
	Speed int
	Power int
}

// Params are the device settings shared by the whole job.
type Params struct {
	BedWidth      float64 // inches
	BedHeight     float64 // inches
	AirAssist     bool
	Autofocus     bool
	CenterEngrave bool
}

// DefaultParams matches a 32×20 inch bed with air assist on.
func DefaultParams() Params {
	return Params{
		BedWidth:  32,
		BedHeight: 20,
		AirAssist: true,
	}
}

// Job accumulates cuts and rasters in the order they should run.
type Job struct {
	Title   string
	Params  Params
	Cuts    []Cut
	Rasters []Raster
}

// New returns an empty job.
func New(title string, p Params) *Job {
	return &Job{Title: title, Params: p}
}

// AddCut appends c.
func (j *Job) AddCut(c Cut) {
	j.Cuts = append(j.Cuts, c)
}

// AddPaths appends one cut per path, all with the same settings. Paths
// with fewer than two vertices are skipped.
func (j *Job) AddPaths(ps geom.Paths, speed, power, frequency int) {
	for _, p := range ps {
		if len(p) < 2 {
			continue
		}
		j.AddCut(Cut{Path: p, Speed: speed, Power: power, Frequency: frequency})
	}
}

// AddRaster appends r.
func (j *Job) AddRaster(r Raster) {
	j.Rasters = append(j.Rasters, r)
}

func (j *Job) HasCuts() bool    { return len(j.Cuts) > 0 }
func (j *Job) HasRasters() bool { return len(j.Rasters) > 0 }

// IsEmpty reports whether the job would move the laser at all.
func (j *Job) IsEmpty() bool {
	return !j.HasCuts() && !j.HasRasters()
}

// PointCount returns the total number of cut vertices.
func (j *Job) PointCount() int {
	return lo.SumBy(j.Cuts, func(c Cut) int { return len(c.Path) })
}

// Bounds returns the extent of every cut vertex.
func (j *Job) Bounds() geom.BBox2 {
	b := geom.NewBBox2()
	for _, c := range j.Cuts {
		for _, v := range c.Path {
			b.AddPoint(v)
		}
	}
	return b
}

// Validate checks the job is complete enough to encode.
func (j *Job) Validate() error {
	if j.Title == "" {
		return ErrNoTitle
	}
	if j.Params.BedWidth <= 0 || j.Params.BedHeight <= 0 {
		return errors.New("job: bed size must be positive")
	}
	return nil
}
