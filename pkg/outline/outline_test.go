package outline

import (
	"errors"
	"image"
	"reflect"
	"testing"

	"github.com/chazu/lathser/pkg/geom"
	"github.com/chazu/lathser/pkg/logging"
	"github.com/chazu/lathser/pkg/raster"
)

func init() {
	logging.Discard()
}

func filled(w, h int, rects ...image.Rectangle) *raster.Raster {
	r := raster.New(w, h)
	for _, rc := range rects {
		r.FillRect(rc, raster.Foreground)
	}
	return r
}

func TestEdgesSinglePixel(t *testing.T) {
	r := filled(4, 4, image.Rect(1, 1, 2, 2))
	got := Edges(r)
	want := []Edge{
		{geom.V2(1, 1), geom.V2(2, 1)}, // above (1,1)
		{geom.V2(1, 1), geom.V2(1, 2)}, // left of (1,1)
		{geom.V2(2, 1), geom.V2(2, 2)}, // right of (1,1)
		{geom.V2(1, 2), geom.V2(2, 2)}, // below (1,1)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Edges = %v, want %v", got, want)
	}
}

func TestEdgesIgnoreAlpha(t *testing.T) {
	r := raster.New(3, 3)
	c := raster.Background
	c.A = 0x10
	r.Set(1, 1, c)
	if got := Edges(r); len(got) != 0 {
		t.Errorf("alpha-only difference produced %d edges", len(got))
	}
}

func TestTraceSquare(t *testing.T) {
	r := filled(120, 120, image.Rect(10, 10, 110, 110))

	paths, err := Trace(r)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	if !paths[0].IsClosed() {
		t.Fatal("square outline is not closed")
	}
	if len(paths[0]) != 401 {
		t.Errorf("raw outline has %d vertices, want 401", len(paths[0]))
	}

	got := paths.Simplify(1)[0]
	want := geom.Path{
		geom.V2(10, 10), geom.V2(110, 10), geom.V2(110, 110), geom.V2(10, 110), geom.V2(10, 10),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("simplified outline = %v, want %v", got, want)
	}
}

func TestTraceTwoShapes(t *testing.T) {
	r := filled(20, 10, image.Rect(1, 1, 4, 4), image.Rect(10, 5, 15, 8))
	paths, err := Trace(r)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
	for i, p := range paths {
		if !p.IsClosed() {
			t.Errorf("path %d not closed", i)
		}
	}
	// discovery order follows the row-major scan
	if paths[0][0] != geom.V2(1, 1) {
		t.Errorf("first path starts at %v, want (1,1)", paths[0][0])
	}
}

func TestTraceOpenPathReverses(t *testing.T) {
	// content in the bottom-right corner: boundary edges stop at the
	// scan limits, leaving an open chain whose first edge is mid-chain
	r := filled(4, 4, image.Rect(2, 2, 4, 4))
	paths, err := Trace(r)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	want := geom.Paths{{geom.V2(3, 2), geom.V2(2, 2), geom.V2(2, 3)}}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Trace = %v, want %v", paths, want)
	}
}

func TestTraceBlank(t *testing.T) {
	paths, err := Trace(raster.New(5, 5))
	if !errors.Is(err, ErrNoContent) {
		t.Errorf("err = %v, want ErrNoContent", err)
	}
	if len(paths) != 0 {
		t.Errorf("got %d paths from a blank raster", len(paths))
	}
}

func TestTracerConsumesEveryEdgeOnce(t *testing.T) {
	r := raster.New(30, 30)
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			if (x*7+y*13)%5 == 0 || (x/6+y/6)%2 == 0 {
				r.Set(x, y, raster.Foreground)
			}
		}
	}

	edges := Edges(r)
	if len(edges) == 0 {
		t.Fatal("pattern produced no edges")
	}
	tr := newTracer(edges)
	paths := tr.walk()

	if tr.remaining != 0 {
		t.Errorf("%d edges left unconsumed", tr.remaining)
	}
	for i, used := range tr.used {
		if !used {
			t.Fatalf("edge %d not consumed", i)
		}
	}
	// each path holds its seed vertex plus one vertex per consumed edge
	if got, want := paths.VertexCount(), len(edges)+len(paths); got != want {
		t.Errorf("paths hold %d vertices, want %d", got, want)
	}
	// consecutive vertices are joined by a unit grid edge
	for _, p := range paths {
		for i := 1; i < len(p); i++ {
			if d := p[i].Sub(p[i-1]); d.Length() != 1 {
				t.Fatalf("step %v -> %v is not a grid edge", p[i-1], p[i])
			}
		}
	}
}
