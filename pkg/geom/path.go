package geom

import (
	"math"

	"github.com/chazu/lathser/pkg/logging"
	"github.com/samber/lo"
)

// Path is an ordered polyline. It is closed when its first and last
// vertices are equal.
type Path []Vec2

// IsClosed reports whether p has at least two vertices and ends where it
// starts.
func (p Path) IsClosed() bool {
	return len(p) > 1 && p[0] == p[len(p)-1]
}

// Reverse returns a copy of p in reverse order.
func (p Path) Reverse() Path {
	return lo.Reverse(append(Path(nil), p...))
}

// Concat returns a new path holding p followed by o.
func (p Path) Concat(o Path) Path {
	out := make(Path, 0, len(p)+len(o))
	out = append(out, p...)
	return append(out, o...)
}

// Transform maps every vertex of p through t.
func (p Path) Transform(t Transform) Path {
	return lo.Map(p, func(v Vec2, _ int) Vec2 { return t.Apply(v) })
}

// Spans partitions p into consecutive runs of at most max vertices. The
// runs do not overlap.
func (p Path) Spans(max int) []Path {
	if max <= 0 || len(p) == 0 {
		return nil
	}
	return lo.Chunk(p, max)
}

// Simplify reduces p with the Douglas–Peucker algorithm. Vertices within
// eps of the baseline between the endpoints are dropped. When the path is
// closed the baseline is the single point p[0] and distances are radial.
// Endpoints are always kept; paths with fewer than three vertices are
// returned as a copy.
func (p Path) Simplify(eps float64) Path {
	if len(p) < 3 {
		return append(Path(nil), p...)
	}

	first, last := p[0], p[len(p)-1]
	dist := lineDistance(first, last)

	index, max := 0, 0.0
	for i := 1; i < len(p)-1; i++ {
		if d := dist(p[i]); d > max {
			index, max = i, d
		}
	}

	if max <= eps {
		return Path{first, last}
	}

	left := p[:index+1].Simplify(eps)
	right := p[index:].Simplify(eps)
	return left[:len(left)-1].Concat(right)
}

// lineDistance returns the distance function to the line through a and b,
// or to the point a when the two coincide.
func lineDistance(a, b Vec2) func(Vec2) float64 {
	if a == b {
		return func(v Vec2) float64 { return v.Distance(a) }
	}
	n := a.Sub(b).Perp().Normalized()
	return func(v Vec2) float64 { return math.Abs(v.Sub(a).Dot(n)) }
}

// Paths is an ordered collection of paths.
type Paths []Path

// Simplify applies Path.Simplify to each path.
func (ps Paths) Simplify(eps float64) Paths {
	out := Paths(lo.Map(ps, func(p Path, _ int) Path { return p.Simplify(eps) }))
	logging.Logger().Debug("simplified paths",
		"eps", eps,
		"before", ps.Lengths(),
		"after", out.Lengths())
	return out
}

// Transform maps every path through t.
func (ps Paths) Transform(t Transform) Paths {
	return lo.Map(ps, func(p Path, _ int) Path { return p.Transform(t) })
}

// Lengths returns the vertex count of each path.
func (ps Paths) Lengths() []int {
	return lo.Map(ps, func(p Path, _ int) int { return len(p) })
}

// VertexCount returns the total number of vertices across ps.
func (ps Paths) VertexCount() int {
	return lo.SumBy(ps, func(p Path) int { return len(p) })
}
