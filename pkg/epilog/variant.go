package epilog

import (
	"fmt"
	"strings"
)

// Variant selects the firmware dialect.
type Variant int

const (
	Fusion Variant = iota
	Mini
)

// firmware holds the per-variant constants the printers expect verbatim.
type firmware struct {
	name      string
	trailer   string
	padding   int // spaces between the footer and the trailer
	frequency string
}

var firmwares = map[Variant]firmware{
	Fusion: {name: "fusion", trailer: "FusionKYMC", padding: 4090, frequency: "XR%02d"},
	Mini:   {name: "mini", trailer: "Mini]\n", padding: 4092, frequency: "XR%04d"},
}

func (v Variant) firmware() firmware {
	if f, ok := firmwares[v]; ok {
		return f
	}
	return firmwares[Fusion]
}

func (v Variant) String() string {
	if f, ok := firmwares[v]; ok {
		return f.name
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant accepts "fusion" or "mini", case-insensitively.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fusion":
		return Fusion, nil
	case "mini":
		return Mini, nil
	}
	return 0, fmt.Errorf("epilog: unknown variant %q, expected fusion or mini", s)
}

// Trailer is the magic string ending every file.
func (v Variant) Trailer() string { return v.firmware().trailer }

// Padding is the number of spaces written between the job and the trailer.
func (v Variant) Padding() int { return v.firmware().padding }

// FileSize is the length of a file whose job body is content bytes long.
func (v Variant) FileSize(content int) int {
	return content + v.Padding() + len(v.Trailer())
}

// MaxFileSize is the largest file the encoder produces for v.
func (v Variant) MaxFileSize() int {
	return v.FileSize(MaxContent)
}

// frequencyFormat is the HPGL pulse frequency command.
func (v Variant) frequencyFormat() string { return v.firmware().frequency }

// MarshalText lets a Variant sit directly in YAML and TOML config.
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(b []byte) error {
	p, err := ParseVariant(string(b))
	if err != nil {
		return err
	}
	*v = p
	return nil
}
