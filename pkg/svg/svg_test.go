package svg_test

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/chazu/lathser/pkg/geom"
	"github.com/chazu/lathser/pkg/job"
	"github.com/chazu/lathser/pkg/svg"
)

type document struct {
	Width     int    `xml:"width,attr"`
	Height    int    `xml:"height,attr"`
	ViewBox   string `xml:"viewBox,attr"`
	Polylines []struct {
		Points string `xml:"points,attr"`
		Fill   string `xml:"fill,attr"`
		Stroke string `xml:"stroke,attr"`
	} `xml:"polyline"`
}

func TestEncode(t *testing.T) {
	j := job.New("proof", job.DefaultParams())
	j.AddPaths(geom.Paths{
		{geom.V2(1, 2), geom.V2(2, 2), geom.V2(2, 3)},
		{geom.V2(0.5, 0.5), geom.V2(0.55, 0.5)},
	}, 5, 100, 5000)

	var buf bytes.Buffer
	if err := svg.Encode(&buf, j); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var doc document
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not XML: %v\n%s", err, buf.String())
	}
	if doc.Width != 32*72 || doc.Height != 20*72 {
		t.Errorf("size = %dx%d, want %dx%d", doc.Width, doc.Height, 32*72, 20*72)
	}
	if doc.ViewBox != "0 0 23040 14400" {
		t.Errorf("viewBox = %q", doc.ViewBox)
	}
	if len(doc.Polylines) != 2 {
		t.Fatalf("got %d polylines, want 2", len(doc.Polylines))
	}

	tests := []struct {
		name string
		want string
	}{
		{"triangle", "720,1440 1440,1440 1440,2160"},
		{"short", "360,360 396,360"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := doc.Polylines[i]
			if got := strings.TrimSpace(p.Points); got != tt.want {
				t.Errorf("points = %q, want %q", got, tt.want)
			}
			if p.Fill != "none" || p.Stroke != svg.Foreground {
				t.Errorf("fill/stroke = %q/%q", p.Fill, p.Stroke)
			}
		})
	}
}

func TestEncodeUntitled(t *testing.T) {
	var buf bytes.Buffer
	err := svg.Encode(&buf, job.New("", job.DefaultParams()))
	if !errors.Is(err, job.ErrNoTitle) {
		t.Errorf("err = %v, want ErrNoTitle", err)
	}
	if buf.Len() != 0 {
		t.Error("output written for an invalid job")
	}
}
