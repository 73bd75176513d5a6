// Package epilog encodes a job.Job as an Epilog laser PRN stream: a PJL
// wrapper around PCL setup, TIFF-packed raster rows and HPGL vectors,
// followed by a fixed run of spaces and a model-specific trailer.
package epilog

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/chazu/lathser/pkg/geom"
	"github.com/chazu/lathser/pkg/job"
	"github.com/chazu/lathser/pkg/logging"
)

const (
	// DPI is the device resolution for positions and raster rows.
	DPI = 600

	// SpanPoints is the most vertices one HPGL pen-down run may carry.
	SpanPoints = 100

	// MaxContent is the largest job body, header through footer, the
	// encoder accepts.
	MaxContent = 1 << 20

	// DateStamp is the fixed job date the firmware is given.
	DateStamp = "20150311204531"

	padByte = ' '
)

// LimitError reports a job whose file would exceed the variant's
// MaxFileSize.
type LimitError struct {
	Size  int // padded file length
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("epilog: job file is %d bytes, exceeds limit %d", e.Size, e.Limit)
}

// Marshal encodes j for variant v.
func Marshal(j *job.Job, v Variant) ([]byte, error) {
	if err := j.Validate(); err != nil {
		return nil, fmt.Errorf("epilog: %w", err)
	}

	e := &encoder{v: v}
	e.header(j)
	for _, r := range j.Rasters {
		e.raster(r)
	}
	if j.HasCuts() {
		e.vectors(j.Cuts)
	}
	e.footer()

	if size := v.FileSize(e.buf.Len()); size > v.MaxFileSize() {
		return nil, &LimitError{Size: size, Limit: v.MaxFileSize()}
	}

	logging.Logger().Debug("encoded prn",
		"variant", v,
		"content", e.buf.Len(),
		"cuts", len(j.Cuts),
		"rasters", len(j.Rasters))

	e.buf.WriteString(strings.Repeat(string(padByte), v.Padding()))
	e.buf.WriteString(v.Trailer())
	return e.buf.Bytes(), nil
}

// Encode writes the encoding of j to w. Nothing is written if the job
// fails to encode.
func Encode(w io.Writer, j *job.Job, v Variant) error {
	b, err := Marshal(j, v)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("epilog: write: %w", err)
	}
	return nil
}

type encoder struct {
	buf bytes.Buffer
	v   Variant
}

func (e *encoder) printf(format string, args ...any) {
	fmt.Fprintf(&e.buf, format, args...)
}

func (e *encoder) write(s ...string) {
	for _, p := range s {
		e.buf.WriteString(p)
	}
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func inches(v float64) int {
	return int(v * DPI)
}

func (e *encoder) header(j *job.Job) {
	p := j.Params
	active := !j.IsEmpty()
	autofocus := autofocusOff
	if p.Autofocus {
		autofocus = autofocusOn
	}

	e.printf(pjlHeader, j.Title)

	if e.v == Fusion {
		e.printf(pclColorComponentOne, 1536)
		e.write(pclFusionSetup, pclDateStamp, pclFusionFlags)
	} else if active {
		e.printf(pclAutofocus, autofocus)
		e.printf(pclGlobalAirAssist, flag(p.AirAssist))
		e.printf(pclCenterEngrave, flag(p.CenterEngrave))
	}

	e.printf(pclOffsetX, 0)
	e.printf(pclOffsetY, 0)
	e.printf(pclPrintResolution, DPI)
	e.printf(pclPosX, 0)
	e.printf(pclPosY, 0)
	e.printf(pclResolution, DPI)
	e.printf(rOrientation, 0)

	if e.v == Fusion {
		e.printf(pclFusionRaster, 0)
	}

	e.printf(rPower, headerRasterPower)
	e.printf(rSpeed, headerRasterSpeed)

	if e.v == Fusion {
		e.printf(pclFusionRasterRes, 50)
		if active {
			e.printf(pclAutofocus, autofocus)
		}
	}

	airAssist := 0
	if p.AirAssist {
		airAssist = 2
	}
	e.printf(pclRasterAirAssist, airAssist)
	e.printf(rBedHeight, inches(p.BedHeight))
	e.printf(rBedWidth, inches(p.BedWidth))
	e.printf(rCompression, compressionTIF)
}

func (e *encoder) raster(r job.Raster) {
	b := r.Image.Bounds()
	stride := (b.Dx() + 7) / 8
	x0, y0 := inches(r.X), inches(r.Y)

	e.printf(rPower, r.Power)
	e.printf(rSpeed, r.Speed)
	e.printf(rDirection, 0)
	e.write(rStart)

	row := make([]byte, stride)
	for y := 0; y < b.Dy(); y++ {
		e.printf(pclPosY, y0+y)
		// every row starts at the image's left edge
		e.printf(pclPosX, x0)

		PackRow(row, r.Image, b.Min.Y+y)
		data := PackBits(row)

		unpacked := stride
		if y%2 == 1 {
			unpacked = -stride
		}
		e.printf(rRowUnpacked, unpacked)
		e.printf(rRowPacked, len(data))
		e.buf.Write(data)
	}

	e.write(rEnd)
}

// PackRow thresholds row y of img into dst, one bit per pixel, most
// significant bit first. A pixel is set when its straight (not
// alpha-premultiplied) red channel exceeds 128. dst must hold
// ceil(width/8) bytes.
func PackRow(dst []byte, img image.Image, y int) {
	b := img.Bounds()
	clear(dst)
	for x := 0; x < b.Dx(); x++ {
		c := color.NRGBAModel.Convert(img.At(b.Min.X+x, y)).(color.NRGBA)
		if c.R > 128 {
			dst[x/8] |= 0x80 >> (x % 8)
		}
	}
}

// PackBits wraps row as TIFF PackBits literal runs of at most 128 bytes,
// each prefixed by its length minus one, and pads the record to a multiple
// of 8 bytes with the no-op byte 0x80.
func PackBits(row []byte) []byte {
	out := make([]byte, 0, len(row)+len(row)/128+9)
	for len(row) > 0 {
		n := min(len(row), 128)
		out = append(out, byte(n-1))
		out = append(out, row[:n]...)
		row = row[n:]
	}
	if len(out) == 0 {
		out = append(out, 0x80)
	}
	for len(out)%8 != 0 {
		out = append(out, 0x80)
	}
	return out
}

func (e *encoder) vectors(cuts []job.Cut) {
	e.write(hpglStart, vInit, sep)
	freq := e.v.frequencyFormat()
	for _, c := range cuts {
		for _, span := range c.Path.Spans(SpanPoints) {
			e.printf(vPower, c.Power)
			e.write(sep)
			e.printf(vSpeed, c.Speed)
			e.write(sep)
			e.printf(freq, c.Frequency)
			e.write(sep, vUnknown1, sep, vUnknown2, sep, hpglLineType)

			e.write(hpglPenUp)
			e.point(span[0])
			e.write(sep)

			e.write(hpglPenDown)
			for i, p := range span[1:] {
				if i > 0 {
					e.write(",")
				}
				e.point(p)
			}
			e.write(sep)
		}
	}
	e.write(hpglEnd)
}

func (e *encoder) point(p geom.Vec2) {
	e.printf("%d,%d", inches(p.X), inches(p.Y))
}

func (e *encoder) footer() {
	e.write(hpglStart, hpglPenUp, pclReset, pjlFooter)
}
