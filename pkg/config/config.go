// Package config holds the knobs of a lathe run: rod and placement
// geometry, pass plan, rendering resolution, cut settings and output
// dialect. Files are YAML or TOML, chosen by extension.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/chazu/lathser/pkg/epilog"
	"github.com/chazu/lathser/pkg/job"
)

// ErrFormat is returned for a config path with an unknown extension.
var ErrFormat = errors.New("config: unsupported format, expected .yaml, .yml or .toml")

// Cut is the laser setting used for every vector cut.
type Cut struct {
	Speed     int `yaml:"speed" toml:"speed"`
	Power     int `yaml:"power" toml:"power"`
	Frequency int `yaml:"frequency" toml:"frequency"`
}

// Engrave is the laser setting for an optional raster image.
type Engrave struct {
	Speed int     `yaml:"speed" toml:"speed"`
	Power int     `yaml:"power" toml:"power"`
	X     float64 `yaml:"x" toml:"x"`
	Y     float64 `yaml:"y" toml:"y"`
}

// Bed is the cutter's work area in inches.
type Bed struct {
	Width         float64 `yaml:"width" toml:"width"`
	Height        float64 `yaml:"height" toml:"height"`
	AirAssist     bool    `yaml:"air_assist" toml:"air_assist"`
	Autofocus     bool    `yaml:"autofocus" toml:"autofocus"`
	CenterEngrave bool    `yaml:"center_engrave" toml:"center_engrave"`
}

type Config struct {
	Title   string         `yaml:"title" toml:"title"`
	Variant epilog.Variant `yaml:"variant" toml:"variant"`

	// Rod diameter in inches and the fraction of it left as margin.
	RodDiameter float64 `yaml:"rod_diameter" toml:"rod_diameter"`
	Margin      float64 `yaml:"margin" toml:"margin"`

	// The rig centers the rod at RodX, RodY. LaserOffset is where the
	// cutter's zero sits relative to the bed edge: negative when off the bed.
	RodX         float64 `yaml:"rod_x" toml:"rod_x"`
	RodY         float64 `yaml:"rod_y" toml:"rod_y"`
	LaserOffsetX float64 `yaml:"laser_offset_x" toml:"laser_offset_x"`
	LaserOffsetY float64 `yaml:"laser_offset_y" toml:"laser_offset_y"`

	// Kerf is the laser kerf radius; RoughExtra widens it on rough passes.
	Kerf       float64 `yaml:"kerf" toml:"kerf"`
	RoughExtra float64 `yaml:"rough_extra" toml:"rough_extra"`

	// PassShades are the percentages of rod width left standing on each
	// pass, outermost first. The last should be 0.
	PassShades []int `yaml:"pass_shades" toml:"pass_shades"`
	Angles     int   `yaml:"angles" toml:"angles"`

	RenderSize int     `yaml:"render_size" toml:"render_size"`
	Epsilon    float64 `yaml:"epsilon" toml:"epsilon"`

	// MeshCells is the marching-cubes resolution for model scripts.
	MeshCells int `yaml:"mesh_cells" toml:"mesh_cells"`

	// Rotations turns the model a quarter about X this many times on load.
	Rotations int `yaml:"rotations" toml:"rotations"`
	Workers   int `yaml:"workers" toml:"workers"`

	Cut     Cut     `yaml:"cut" toml:"cut"`
	Engrave Engrave `yaml:"engrave" toml:"engrave"`
	Bed     Bed     `yaml:"bed" toml:"bed"`

	LogLevel string `yaml:"log_level" toml:"log_level"`
}

// Default returns the stock rig setup.
func Default() *Config {
	return &Config{
		Title:        "lathser",
		Variant:      epilog.Fusion,
		RodDiameter:  0.8,
		Margin:       0.1,
		RodX:         1.25,
		RodY:         1,
		LaserOffsetX: -0.034,
		LaserOffsetY: 0.041,
		Kerf:         0.002,
		RoughExtra:   1.0 / 16,
		PassShades:   []int{80, 40, 0},
		Angles:       16,
		RenderSize:   1280,
		Epsilon:      1,
		MeshCells:    200,
		Workers:      runtime.NumCPU(),
		Cut:          Cut{Speed: 4, Power: 100, Frequency: 50},
		Engrave:      Engrave{Speed: 100, Power: 1},
		Bed: Bed{
			Width:     32,
			Height:    20,
			AirAssist: true,
		},
		LogLevel: "info",
	}
}

// ModelDiameter is the largest model cross-section that fits in the rod.
func (c *Config) ModelDiameter() float64 {
	return c.RodDiameter * (1 - c.Margin)
}

// FinalX and FinalY place the rod axis in cutter coordinates.
func (c *Config) FinalX() float64 { return c.RodX - c.LaserOffsetX }
func (c *Config) FinalY() float64 { return c.RodY - c.LaserOffsetY }

// Params converts the bed section into job parameters.
func (c *Config) Params() job.Params {
	return job.Params{
		BedWidth:      c.Bed.Width,
		BedHeight:     c.Bed.Height,
		AirAssist:     c.Bed.AirAssist,
		Autofocus:     c.Bed.Autofocus,
		CenterEngrave: c.Bed.CenterEngrave,
	}
}

// Validate reports the first setting that cannot produce a job.
func (c *Config) Validate() error {
	switch {
	case c.RodDiameter <= 0:
		return fmt.Errorf("config: rod_diameter must be positive, got %g", c.RodDiameter)
	case c.Margin < 0 || c.Margin >= 1:
		return fmt.Errorf("config: margin must be in [0, 1), got %g", c.Margin)
	case c.Kerf < 0 || c.RoughExtra < 0:
		return errors.New("config: kerf and rough_extra must not be negative")
	case len(c.PassShades) == 0:
		return errors.New("config: pass_shades is empty")
	case c.Angles <= 0:
		return fmt.Errorf("config: angles must be positive, got %d", c.Angles)
	case c.RenderSize <= 0:
		return fmt.Errorf("config: render_size must be positive, got %d", c.RenderSize)
	case c.MeshCells <= 0:
		return fmt.Errorf("config: mesh_cells must be positive, got %d", c.MeshCells)
	case c.Epsilon < 0:
		return fmt.Errorf("config: epsilon must not be negative, got %g", c.Epsilon)
	case c.Workers < 0:
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	case c.Bed.Width <= 0 || c.Bed.Height <= 0:
		return fmt.Errorf("config: bed %gx%g must be positive", c.Bed.Width, c.Bed.Height)
	}
	for _, s := range c.PassShades {
		if s < 0 || s > 100 {
			return fmt.Errorf("config: pass shade %d outside 0..100", s)
		}
	}
	if c.Variant != epilog.Fusion && c.Variant != epilog.Mini {
		return fmt.Errorf("config: unknown variant %v", c.Variant)
	}
	return nil
}

type codec struct {
	unmarshal func([]byte, any) error
	marshal   func(any) ([]byte, error)
}

func codecFor(path string) (codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return codec{yaml.Unmarshal, yaml.Marshal}, nil
	case ".toml":
		return codec{toml.Unmarshal, toml.Marshal}, nil
	}
	return codec{}, fmt.Errorf("%w: %q", ErrFormat, path)
}

// Load reads path over the defaults, so a file need only name what it
// changes, and validates the result.
func Load(path string) (*Config, error) {
	cc, err := codecFor(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load: %w", err)
	}
	c := Default()
	if err := cc.unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes c to path in the format its extension names.
func Save(path string, c *Config) error {
	cc, err := codecFor(path)
	if err != nil {
		return err
	}
	b, err := cc.marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("config: save: %w", err)
	}
	return nil
}
