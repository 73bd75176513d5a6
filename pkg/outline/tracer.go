package outline

import "github.com/chazu/lathser/pkg/geom"

// tracer owns the consumption state of one walk. Edges are looked up by
// index so consumption never aliases through the adjacency lists.
type tracer struct {
	edges     []Edge
	used      []bool
	byVertex  map[geom.Vec2][]int
	remaining int
	next      int // no edge below this index is unused
}

func newTracer(edges []Edge) *tracer {
	t := &tracer{
		edges:     edges,
		used:      make([]bool, len(edges)),
		byVertex:  make(map[geom.Vec2][]int, len(edges)),
		remaining: len(edges),
	}
	for i, e := range edges {
		t.byVertex[e.A] = append(t.byVertex[e.A], i)
		t.byVertex[e.B] = append(t.byVertex[e.B], i)
	}
	return t
}

func (t *tracer) consume(i int) {
	if !t.used[i] {
		t.used[i] = true
		t.remaining--
	}
}

// adjacent returns the first unused edge touching v in insertion order.
func (t *tracer) adjacent(v geom.Vec2) (int, bool) {
	for _, i := range t.byVertex[v] {
		if !t.used[i] {
			return i, true
		}
	}
	return 0, false
}

func (t *tracer) firstUnused() int {
	for t.used[t.next] {
		t.next++
	}
	return t.next
}

// walk consumes every edge exactly once. Each loop iteration consumes one
// edge, so it terminates after len(edges) iterations.
func (t *tracer) walk() geom.Paths {
	var paths geom.Paths

	i := 0
	path := geom.Path{t.edges[i].A}
	v := t.edges[i].B
	for {
		t.consume(i)
		path = append(path, v)

		j, ok := t.adjacent(v)
		if !ok {
			if t.remaining == 0 {
				break
			}
			// Dead end on this side; try extending the other end.
			path = path.Reverse()
			v = path[len(path)-1]
			j, ok = t.adjacent(v)
		}

		if !ok {
			paths = append(paths, path)
			i = t.firstUnused()
			path = geom.Path{t.edges[i].A}
			v = t.edges[i].B
			continue
		}

		i = j
		if t.edges[j].A == v {
			v = t.edges[j].B
		} else {
			v = t.edges[j].A
		}
	}
	return append(paths, path)
}
