// Package lathe turns a mesh into a cutting job. Each pass renders the
// model's silhouette at one angle, grows it into a cuttable outline and
// maps the traced paths onto the cutter bed.
package lathe

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/chazu/lathser/pkg/config"
	"github.com/chazu/lathser/pkg/geom"
	"github.com/chazu/lathser/pkg/job"
	"github.com/chazu/lathser/pkg/logging"
	"github.com/chazu/lathser/pkg/mesh"
	"github.com/chazu/lathser/pkg/outline"
	"github.com/chazu/lathser/pkg/raster"
	"github.com/chazu/lathser/pkg/render"
)

// PassError reports the pass that stopped a run.
type PassError struct {
	Pass  int
	Shade int
	Angle float64
	Err   error
}

func (e *PassError) Error() string {
	return fmt.Sprintf("lathe: %s: %v", Pass{e.Pass, e.Shade, e.Angle}, e.Err)
}

func (e *PassError) Unwrap() error { return e.Err }

// DumpFunc receives each pass's raster after base, shade and kerf are
// applied and before it is traced.
type DumpFunc func(p Pass, r *raster.Raster) error

// Option configures Run.
type Option func(*runner)

// WithDump installs a raster dump hook.
func WithDump(fn DumpFunc) Option {
	return func(r *runner) { r.dump = fn }
}

type runner struct {
	cfg   *config.Config
	model *mesh.Mesh
	scale float64 // inches per model unit
	dump  DumpFunc
}

// Run cuts m according to cfg. Passes run on up to cfg.Workers goroutines
// (0 means one per CPU); the job lists their cuts in pass order whatever
// the worker count. The first failing pass cancels the rest.
func Run(ctx context.Context, m *mesh.Mesh, cfg *config.Config, opts ...Option) (*job.Job, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if m.IsEmpty() {
		return nil, fmt.Errorf("lathe: empty model: %w", geom.ErrDegenerate)
	}

	centered := m.Centered()
	scale := centered.FitScale(cfg.ModelDiameter())
	if scale == 0 {
		return nil, fmt.Errorf("lathe: model has no cross-section: %w", geom.ErrDegenerate)
	}

	r := &runner{cfg: cfg, model: centered, scale: scale}
	for _, opt := range opts {
		opt(r)
	}

	passes := Plan(cfg.PassShades, cfg.Angles)
	results, err := r.runAll(ctx, passes)
	if err != nil {
		return nil, err
	}

	j := job.New(cfg.Title, cfg.Params())
	for _, paths := range results {
		j.AddPaths(paths, cfg.Cut.Speed, cfg.Cut.Power, cfg.Cut.Frequency)
	}

	logging.Logger().Info("job ready",
		"model", m.Name,
		"triangles", m.TriangleCount(),
		"passes", len(passes),
		"cuts", len(j.Cuts),
		"points", j.PointCount())
	return j, nil
}

func (r *runner) runAll(parent context.Context, passes []Pass) ([]geom.Paths, error) {
	workers := r.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(passes))

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	results := make([]geom.Paths, len(passes))
	errs := make([]error, len(passes))
	work := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for i := range work {
				p := passes[i]
				paths, err := r.pass(ctx, p)
				if err != nil {
					errs[i] = err
					cancel()
					continue
				}
				results[i] = paths
			}
		}()
	}

feed:
	for i := range passes {
		select {
		case work <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(work)
	wg.Wait()

	if err := parent.Err(); err != nil {
		return nil, fmt.Errorf("lathe: %w", err)
	}
	// lowest failing index; later passes may only have seen the cancel
	for i, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			p := passes[i]
			return nil, &PassError{Pass: p.Index, Shade: p.Shade, Angle: p.Angle, Err: err}
		}
	}
	return results, nil
}

func (r *runner) pass(ctx context.Context, p Pass) (geom.Paths, error) {
	log := logging.Logger().With("pass", p.Index, "shade", p.Shade)
	size := r.cfg.RenderSize

	frame, err := render.Render(r.model, size, size, p.Angle, nil)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := frame.Raster
	if err := img.AddBase(raster.Foreground); err != nil {
		return nil, err
	}
	img.AddShade(size/2, size*p.Shade/100, raster.Foreground)

	kerf := r.cfg.Kerf
	if p.Shade > 0 {
		kerf += r.cfg.RoughExtra
	}
	radius := kerf * frame.Fit.Scale / r.scale
	img.AddKerf(radius)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.dump != nil {
		if err := r.dump(p, img); err != nil {
			return nil, fmt.Errorf("dump: %w", err)
		}
	}

	paths, err := outline.Trace(img)
	if errors.Is(err, outline.ErrNoContent) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	paths = paths.Simplify(r.cfg.Epsilon)

	device := geom.DeviceTransform(frame.Fit, r.scale, r.cfg.FinalX(), r.cfg.FinalY())
	log.Debug("pass traced", "kerf_px", radius, "paths", len(paths), "points", paths.VertexCount())
	return paths.Transform(device), nil
}
