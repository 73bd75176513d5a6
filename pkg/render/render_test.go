package render_test

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/chazu/lathser/pkg/geom"
	"github.com/chazu/lathser/pkg/logging"
	"github.com/chazu/lathser/pkg/mesh"
	"github.com/chazu/lathser/pkg/raster"
	"github.com/chazu/lathser/pkg/render"
)

func init() {
	logging.Discard()
}

// unitSquare is a unit square in the x=0 plane, facing -x.
func unitSquare() *mesh.Mesh {
	return mesh.New([]geom.Triangle3D{
		geom.NewTriangle3D(geom.V3(0, -0.5, -0.5), geom.V3(0, 0.5, -0.5), geom.V3(0, 0.5, 0.5)),
		geom.NewTriangle3D(geom.V3(0, -0.5, -0.5), geom.V3(0, 0.5, 0.5), geom.V3(0, -0.5, 0.5)),
	})
}

// flippedSquare is unitSquare wound the other way, facing +x.
func flippedSquare() *mesh.Mesh {
	return mesh.New([]geom.Triangle3D{
		geom.NewTriangle3D(geom.V3(0, -0.5, -0.5), geom.V3(0, 0.5, 0.5), geom.V3(0, 0.5, -0.5)),
		geom.NewTriangle3D(geom.V3(0, -0.5, -0.5), geom.V3(0, -0.5, 0.5), geom.V3(0, 0.5, 0.5)),
	})
}

func count(r *raster.Raster, c color.RGBA) int {
	n := 0
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			if r.At(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestFitUnitSquare(t *testing.T) {
	fit, err := render.Fit(unitSquare(), 120, 120, 0)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	// bounds 1.0 plus 10% margin per side -> 1.2 units over 120 pixels
	if math.Abs(fit.Scale-100) > 1e-9 {
		t.Errorf("scale = %v, want 100", fit.Scale)
	}
	lo := fit.Apply(geom.V2(-0.5, -0.5))
	hi := fit.Apply(geom.V2(0.5, 0.5))
	if math.Abs(lo.X-10) > 1e-9 || math.Abs(hi.Y-110) > 1e-9 {
		t.Errorf("square maps to %v..%v, want (10,10)..(110,110)", lo, hi)
	}
}

func TestRenderSilhouette(t *testing.T) {
	f, err := render.Render(unitSquare(), 120, 120, 0, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := count(f.Raster, raster.Foreground); got != 100*100 {
		t.Errorf("silhouette has %d pixels, want 10000", got)
	}
	if f.Raster.At(10, 10) != raster.Foreground || f.Raster.At(9, 10) != raster.Background {
		t.Error("silhouette edge misplaced")
	}
}

func TestRenderSilhouetteIgnoresFacing(t *testing.T) {
	// at half a turn the square faces away but still silhouettes
	f, err := render.Render(unitSquare(), 120, 120, math.Pi, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := count(f.Raster, raster.Foreground); got != 100*100 {
		t.Errorf("silhouette has %d pixels, want 10000", got)
	}
}

func TestRenderLit(t *testing.T) {
	light := geom.V3(-1, 0, 0)

	f, err := render.Render(unitSquare(), 120, 120, 0, &light)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if f.Raster.At(60, 60) != raster.Foreground {
		t.Errorf("lit center = %v, want full white", f.Raster.At(60, 60))
	}

	flipped, err := render.Render(flippedSquare(), 120, 120, 0, &light)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !flipped.Raster.IsBlank() {
		t.Error("triangles with +x normals were not culled")
	}
}

func TestRenderLitUsesModelFrameNormal(t *testing.T) {
	light := geom.V3(-1, 0, 0)
	tests := []struct {
		name   string
		m      *mesh.Mesh
		angle  float64
		drawn  bool
	}{
		// a half turn would flip a rotated normal; culling ignores it
		{"-x normal at half turn", unitSquare(), math.Pi, true},
		{"+x normal at half turn", flippedSquare(), math.Pi, false},
		{"+x normal at eighth turn", flippedSquare(), math.Pi / 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := render.Render(tt.m, 120, 120, tt.angle, &light)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			got := count(f.Raster, raster.Foreground)
			if tt.drawn && got < 100*100 {
				t.Errorf("drew %d full-white pixels, want the whole square", got)
			}
			if !tt.drawn && !f.Raster.IsBlank() {
				t.Errorf("drew %d full-white pixels, want none", got)
			}
		})
	}
}

func TestShade(t *testing.T) {
	tests := []struct {
		name string
		n    geom.Vec3
		want uint8
	}{
		{"facing light", geom.V3(0, 0, 1), 255},
		{"perpendicular", geom.V3(1, 0, 0), 0},
		{"away clamps to zero", geom.V3(0, 0, -1), 0},
		{"half rounds", geom.V3(0, math.Sqrt(3)/2, 0.5), 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render.Shade(tt.n, geom.V3(0, 0, 1))
			if got.R != tt.want || got.G != tt.want || got.B != tt.want || got.A != 0xff {
				t.Errorf("Shade = %v, want gray %d", got, tt.want)
			}
		})
	}
}

func TestRenderDegenerate(t *testing.T) {
	if _, err := render.Render(mesh.New(nil), 10, 10, 0, nil); !errors.Is(err, geom.ErrDegenerate) {
		t.Errorf("empty mesh: err = %v, want ErrDegenerate", err)
	}

	// a sliver along z projects to zero width
	line := mesh.New([]geom.Triangle3D{
		geom.NewTriangle3D(geom.V3(0, 0, 0), geom.V3(1, 0, 1), geom.V3(2, 0, 2)),
	})
	if _, err := render.Render(line, 10, 10, 0, nil); !errors.Is(err, geom.ErrDegenerate) {
		t.Errorf("zero-width projection: err = %v, want ErrDegenerate", err)
	}
}
