package lathe

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// Pass is one silhouette cut: the rod turned to Angle with Shade percent
// of its width left standing in the middle.
type Pass struct {
	Index int
	Shade int
	Angle float64
}

func (p Pass) String() string {
	return fmt.Sprintf("pass %d (%d%%, %.1f°)", p.Index, p.Shade, p.Angle*180/math.Pi)
}

// Angles returns n angles evenly spaced over a full turn, starting at 0.
func Angles(n int) []float64 {
	if n <= 0 {
		return nil
	}
	return lo.Times(n, func(i int) float64 {
		return float64(i) * 2 * math.Pi / float64(n)
	})
}

// Plan lists the passes in cutting order: every angle of the first shade,
// then every angle of the next.
func Plan(shades []int, angles int) []Pass {
	as := Angles(angles)
	passes := make([]Pass, 0, len(shades)*len(as))
	for _, s := range shades {
		for _, a := range as {
			passes = append(passes, Pass{Index: len(passes), Shade: s, Angle: a})
		}
	}
	return passes
}
