package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/lathser/pkg/config"
	"github.com/chazu/lathser/pkg/engine"
	"github.com/chazu/lathser/pkg/epilog"
	"github.com/chazu/lathser/pkg/job"
	"github.com/chazu/lathser/pkg/kernel/sdfx"
	"github.com/chazu/lathser/pkg/lathe"
	"github.com/chazu/lathser/pkg/logging"
	"github.com/chazu/lathser/pkg/mesh"
	"github.com/chazu/lathser/pkg/svg"
)

// Output formats.
const (
	FormatPRN = "prn"
	FormatSVG = "svg"
)

// ErrModelFormat is returned for a model path that is neither a JSON model
// nor a .lathe script.
var ErrModelFormat = errors.New("unsupported model format, expected .json or .lathe")

// ScriptError carries the evaluation errors of a model script.
type ScriptError struct {
	Path   string
	Errors []engine.EvalError
}

func (e *ScriptError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ev := range e.Errors {
		msgs[i] = ev.Error()
	}
	return fmt.Sprintf("%s: %s", e.Path, strings.Join(msgs, "; "))
}

// App ties model loading, the lathe pipeline and the output encoders
// together for one configuration.
type App struct {
	cfg    *config.Config
	engine *engine.Engine
}

// Options are per-run extras that do not belong in the rig config.
type Options struct {
	DumpDir string // write pass rasters here when set
	Engrave string // raster image to engrave alongside the cuts
}

// NewApp creates an App with an engine over the sdfx kernel.
func NewApp(cfg *config.Config) *App {
	return &App{
		cfg:    cfg,
		engine: engine.NewEngine(sdfx.NewWithCells(cfg.MeshCells)),
	}
}

// LoadModel reads a JSON model or evaluates a .lathe script.
func (a *App) LoadModel(path string) (*mesh.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return mesh.Load(path, a.cfg.Rotations)
	case ".lathe":
		return a.loadScript(path)
	}
	return nil, fmt.Errorf("%s: %w", path, ErrModelFormat)
}

func (a *App) loadScript(path string) (*mesh.Mesh, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	m, evalErrs, err := a.engine.Mesh(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		return nil, &ScriptError{Path: path, Errors: evalErrs}
	}
	if m.Name == "" {
		m.Name = filepath.Base(path)
	}
	return m.RotateX90(a.cfg.Rotations), nil
}

// Generate builds the job for the model at path.
func (a *App) Generate(ctx context.Context, path string, opts Options) (*job.Job, error) {
	m, err := a.LoadModel(path)
	if err != nil {
		return nil, err
	}

	var runOpts []lathe.Option
	if opts.DumpDir != "" {
		if err := os.MkdirAll(opts.DumpDir, 0755); err != nil {
			return nil, fmt.Errorf("dump dir: %w", err)
		}
		runOpts = append(runOpts, lathe.WithDump(lathe.DumpDir(opts.DumpDir)))
	}

	j, err := lathe.Run(ctx, m, a.cfg, runOpts...)
	if err != nil {
		return nil, err
	}

	if opts.Engrave != "" {
		img, err := loadImage(opts.Engrave)
		if err != nil {
			return nil, err
		}
		j.AddRaster(job.Raster{
			Image: img,
			X:     a.cfg.Engrave.X,
			Y:     a.cfg.Engrave.Y,
			Speed: a.cfg.Engrave.Speed,
			Power: a.cfg.Engrave.Power,
		})
	}
	return j, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("engrave: %w", err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("engrave: decode %s: %w", path, err)
	}
	logging.Logger().Debug("engrave image", "path", path, "format", format, "size", img.Bounds().Size())
	return img, nil
}

// Write encodes j to w in format.
func (a *App) Write(w io.Writer, j *job.Job, format string) error {
	switch format {
	case FormatPRN:
		return epilog.Encode(w, j, a.cfg.Variant)
	case FormatSVG:
		return svg.Encode(w, j)
	}
	return fmt.Errorf("unknown output format %q, expected %s or %s", format, FormatPRN, FormatSVG)
}

// WriteFile encodes j to path. A failed encoding leaves no file behind.
func (a *App) WriteFile(path string, j *job.Job, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.Write(f, j, format); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
