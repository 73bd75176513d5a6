// Command lathser turns a 3D model into a rotary laser-lathe job: a series
// of silhouette cuts around the rod, written as an Epilog print file or an
// SVG proof.
//
//	lathser [flags] model.json|model.lathe
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chazu/lathser/pkg/config"
	"github.com/chazu/lathser/pkg/epilog"
	"github.com/chazu/lathser/pkg/logging"
)

type flags struct {
	config    string
	output    string
	format    string
	variant   string
	title     string
	angles    int
	workers   int
	rotations int
	logLevel  string
	dump      string
	engrave   string
	watch     bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*flags, error) {
	f := &flags{}
	fs.StringVar(&f.config, "config", "", "rig config file (.yaml, .yml or .toml)")
	fs.StringVar(&f.output, "o", "", "output file (default: model name with the format's extension)")
	fs.StringVar(&f.format, "format", FormatPRN, "output format: prn | svg")
	fs.StringVar(&f.variant, "variant", "", "cutter firmware: fusion | mini")
	fs.StringVar(&f.title, "title", "", "job title shown on the cutter")
	fs.IntVar(&f.angles, "angles", 0, "number of cutting angles around the rod")
	fs.IntVar(&f.workers, "workers", -1, "concurrent passes (0 = one per CPU)")
	fs.IntVar(&f.rotations, "rotations", -1, "quarter turns about X applied on load")
	fs.StringVar(&f.logLevel, "log-level", "", "debug | info | warn | error")
	fs.StringVar(&f.dump, "dump", "", "directory for per-pass raster PNGs")
	fs.StringVar(&f.engrave, "engrave", "", "image to raster-engrave with the job")
	fs.BoolVar(&f.watch, "watch", false, "regenerate when the model or config changes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("expected one model file, got %d arguments", fs.NArg())
	}
	if f.format != FormatPRN && f.format != FormatSVG {
		return nil, fmt.Errorf("unknown format %q", f.format)
	}
	return f, nil
}

// loadConfig reads the config file, if any, and applies flag overrides.
func (f *flags) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		c, err := config.Load(f.config)
		if err != nil {
			return nil, err
		}
		cfg = c
	}

	if f.variant != "" {
		v, err := epilog.ParseVariant(f.variant)
		if err != nil {
			return nil, err
		}
		cfg.Variant = v
	}
	if f.title != "" {
		cfg.Title = f.title
	}
	if f.angles > 0 {
		cfg.Angles = f.angles
	}
	if f.workers >= 0 {
		cfg.Workers = f.workers
	}
	if f.rotations >= 0 {
		cfg.Rotations = f.rotations
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	return cfg, cfg.Validate()
}

func (f *flags) outputPath(model string) string {
	if f.output != "" {
		return f.output
	}
	return strings.TrimSuffix(model, filepath.Ext(model)) + "." + f.format
}

// generate runs the pipeline once and writes the output file.
func generate(ctx context.Context, f *flags, model string) error {
	cfg, err := f.loadConfig()
	if err != nil {
		return err
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	app := NewApp(cfg)
	j, err := app.Generate(ctx, model, Options{DumpDir: f.dump, Engrave: f.engrave})
	if err != nil {
		return err
	}

	out := f.outputPath(model)
	if err := app.WriteFile(out, j, f.format); err != nil {
		return err
	}
	logging.Logger().Info("wrote job", "path", out, "format", f.format, "cuts", len(j.Cuts))
	return nil
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lathser", flag.ContinueOnError)
	f, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	model := fs.Arg(0)

	if !f.watch {
		return generate(ctx, f, model)
	}

	watched := []string{model}
	if f.config != "" {
		watched = append(watched, f.config)
	}
	return watch(ctx, watched, func() error {
		return generate(ctx, f, model)
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		logging.Logger().Error("lathser failed", "err", err)
		stop()
		os.Exit(1)
	}
}
