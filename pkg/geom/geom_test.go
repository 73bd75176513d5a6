package geom

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < tol }

func nearVec2(a, b Vec2) bool { return near(a.X, b.X) && near(a.Y, b.Y) }

func TestTriangleNormal(t *testing.T) {
	tri := NewTriangle3D(V3(0, 0, 0), V3(1, 0, 0), V3(0, 1, 0))
	// (v0-v2) x (v0-v1) = (0,-1,0) x (-1,0,0) = (0,0,-1)
	if tri.Normal != V3(0, 0, -1) {
		t.Errorf("normal = %v, want (0,0,-1)", tri.Normal)
	}

	degenerate := NewTriangle3D(V3(1, 1, 1), V3(1, 1, 1), V3(2, 2, 2))
	if degenerate.Normal != (Vec3{}) {
		t.Errorf("degenerate normal = %v, want zero vector", degenerate.Normal)
	}
}

func TestRotateX90(t *testing.T) {
	got := V3(1, 2, 3).RotateX90()
	if got != V3(1, -3, 2) {
		t.Errorf("RotateX90 = %v, want (1,-3,2)", got)
	}
	v := V3(1, 2, 3)
	for i := 0; i < 4; i++ {
		v = v.RotateX90()
	}
	if v != V3(1, 2, 3) {
		t.Errorf("four quarter turns = %v, want identity", v)
	}
}

func TestProject(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec3
		angle float64
		want  Vec2
	}{
		{"no rotation drops x", V3(5, 2, 3), 0, V2(2, 3)},
		{"quarter turn maps x onto y", V3(1, 0, 7), math.Pi / 2, V2(1, 7)},
		{"half turn negates y", V3(0, 4, 1), math.Pi, V2(-4, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Project(Identity, tt.angle)
			if !nearVec2(got, tt.want) {
				t.Errorf("Project = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBBoxAccumulation(t *testing.T) {
	b := NewBBox2()
	if !b.IsEmpty() {
		t.Fatal("new box should be empty")
	}

	points := []Vec2{V2(3, -1), V2(-2, 4), V2(0, 0), V2(1, 1)}
	for _, p := range points {
		b.AddPoint(p)
	}
	if b.IsEmpty() {
		t.Fatal("box should not be empty after insertions")
	}
	if b.Min != V2(-2, -1) || b.Max != V2(3, 4) {
		t.Errorf("bounds = %v..%v, want (-2,-1)..(3,4)", b.Min, b.Max)
	}
	for _, p := range points {
		if p.X < b.Min.X || p.Y < b.Min.Y || p.X > b.Max.X || p.Y > b.Max.Y {
			t.Errorf("point %v outside bounds", p)
		}
	}

	b.AddMargin(0.5)
	if b.Min != V2(-2.5, -1.5) || b.Max != V2(3.5, 4.5) {
		t.Errorf("after margin = %v..%v", b.Min, b.Max)
	}
	if b.Size() != V2(6, 6) {
		t.Errorf("size = %v, want (6,6)", b.Size())
	}
	if b.Center() != V2(0.5, 1.5) {
		t.Errorf("center = %v, want (0.5,1.5)", b.Center())
	}
}

func TestBBox3(t *testing.T) {
	b := NewBBox3()
	b.AddTriangle(NewTriangle3D(V3(0, 0, 0), V3(2, 0, 0), V3(0, 4, -6)))
	if b.Size() != V3(2, 4, 6) {
		t.Errorf("size = %v, want (2,4,6)", b.Size())
	}
	if b.Center() != V3(1, 2, -3) {
		t.Errorf("center = %v, want (1,2,-3)", b.Center())
	}
}

func unitBox3() BBox3 {
	b := NewBBox3()
	b.AddPoint(V3(-1, -1, -1))
	b.AddPoint(V3(1, 1, 1))
	return b
}

func TestBBoxQueriesOnReturnedValues(t *testing.T) {
	if unitBox3().IsEmpty() || unitBox3().Size() != V3(2, 2, 2) || unitBox3().Center() != V3(0, 0, 0) {
		t.Errorf("unit box reports empty=%v size=%v center=%v",
			unitBox3().IsEmpty(), unitBox3().Size(), unitBox3().Center())
	}
	if !NewBBox2().IsEmpty() || !NewBBox3().IsEmpty() {
		t.Error("new boxes not empty")
	}
	if got := NewBBox2().Size(); got.X >= 0 {
		t.Errorf("empty box size = %v, want negative", got)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	transforms := []Transform{
		Identity,
		{Scale: 2, OffX: 3, OffY: -4},
		{Scale: 0.125, OffX: -7.5, OffY: 11},
		{Scale: -3, OffX: 1, OffY: 1},
	}
	points := []Vec2{V2(0, 0), V2(1, 2), V2(-13.25, 99)}

	for _, tr := range transforms {
		inv := tr.Invert()
		for _, p := range points {
			if got := inv.Apply(tr.Apply(p)); !nearVec2(got, p) {
				t.Errorf("%+v: invert(apply(%v)) = %v", tr, p, got)
			}
		}
	}
}

func TestTransformCompose(t *testing.T) {
	tr := Transform{Scale: 2, OffX: 1, OffY: 1}
	p := V2(3, 4)

	if got, want := tr.Scaled(10).Apply(p), tr.Apply(p).Mul(10); !nearVec2(got, want) {
		t.Errorf("Scaled = %v, want %v", got, want)
	}
	if got, want := tr.Translated(5, -5).Apply(p), tr.Apply(p).Add(V2(5, -5)); !nearVec2(got, want) {
		t.Errorf("Translated = %v, want %v", got, want)
	}
}

func TestMapBBox(t *testing.T) {
	tests := []struct {
		name      string
		min, max  Vec2
		w, h      int
		wantScale float64
	}{
		{"square into square", V2(0, 0), V2(10, 10), 100, 100, 10},
		{"tall limited by height", V2(-1, -4), V2(1, 4), 200, 100, 12.5},
		{"wide limited by width", V2(0, 0), V2(40, 5), 100, 100, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBBox2()
			b.AddPoint(tt.min)
			b.AddPoint(tt.max)

			tr, err := MapBBox(b, tt.w, tt.h)
			if err != nil {
				t.Fatalf("MapBBox: %v", err)
			}
			if !near(tr.Scale, tt.wantScale) {
				t.Errorf("scale = %v, want %v", tr.Scale, tt.wantScale)
			}

			center := V2(float64(tt.w)/2, float64(tt.h)/2)
			if got := tr.Apply(b.Center()); !nearVec2(got, center) {
				t.Errorf("center maps to %v, want %v", got, center)
			}

			lo, hi := tr.Apply(b.Min), tr.Apply(b.Max)
			if lo.X < -tol || lo.Y < -tol || hi.X > float64(tt.w)+tol || hi.Y > float64(tt.h)+tol {
				t.Errorf("mapped bounds %v..%v exceed %dx%d", lo, hi, tt.w, tt.h)
			}
			if !near(lo.X, 0) && !near(lo.Y, 0) {
				t.Errorf("limiting axis not filled: %v..%v", lo, hi)
			}
		})
	}
}

func TestMapBBoxDegenerate(t *testing.T) {
	empty := NewBBox2()
	if _, err := MapBBox(empty, 10, 10); !errors.Is(err, ErrDegenerate) {
		t.Errorf("empty bbox: err = %v, want ErrDegenerate", err)
	}

	flat := NewBBox2()
	flat.AddPoint(V2(0, 1))
	flat.AddPoint(V2(5, 1))
	if _, err := MapBBox(flat, 10, 10); !errors.Is(err, ErrDegenerate) {
		t.Errorf("zero-height bbox: err = %v, want ErrDegenerate", err)
	}
}

func TestDeviceTransform(t *testing.T) {
	fit := Transform{Scale: 50, OffX: 60, OffY: 60}
	dev := DeviceTransform(fit, 0.5, 1.25, 1)

	// pixel (60,60) is model origin, which lands at the placement point
	if got := dev.Apply(V2(60, 60)); !nearVec2(got, V2(1.25, 1)) {
		t.Errorf("origin maps to %v, want (1.25,1)", got)
	}
	// one model unit is 50 pixels, 0.5 device units
	if got := dev.Apply(V2(110, 60)); !nearVec2(got, V2(1.75, 1)) {
		t.Errorf("unit x maps to %v, want (1.75,1)", got)
	}
}
