package supergrid

import (
	"fmt"
	"sort"
)

// Pair is one colliding entity pair reported by ProbeAll, with A < B.
type Pair struct {
	A, B ID
}

// Probe returns every live entity whose rectangle overlaps the bounds
// of id, excluding id itself. Results are sorted ascending.
func (g *Grid) Probe(id ID) ([]ID, error) {
	rec, ok := g.table.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	return g.probe(rec.rect, id, true), nil
}

// ProbeRegion returns every live entity whose rectangle overlaps r.
// The query rectangle need not belong to a live entity and nothing is
// excluded. Results are sorted ascending.
func (g *Grid) ProbeRegion(r Rect) []ID {
	return g.probe(r, 0, false)
}

// ProbeAll runs an exhaustive broad-phase pass and returns every
// overlapping pair exactly once, smaller id first, in lexicographic
// order. Calling it twice without a mutation in between yields the
// same result.
func (g *Grid) ProbeAll() []Pair {
	ids := g.table.ids()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var pairs []Pair
	for _, id := range ids {
		rec, _ := g.table.get(id)
		for _, other := range g.probe(rec.rect, id, true) {
			// The partner's own probe reports the mirrored pair; keep
			// only the smaller-id-first orientation.
			if other > id {
				pairs = append(pairs, Pair{A: id, B: other})
			}
		}
	}
	return pairs
}

// probe is the two-stage query engine: gather candidates from every
// bucket the query rectangle covers, collapse duplicates (an entity
// spanning several covered cells shows up once), then keep only the
// candidates passing the exact overlap test. Cell coverage is
// conservative so no true overlap is missed; the exact test removes the
// false positives cell granularity introduces.
func (g *Grid) probe(r Rect, exclude ID, hasExclude bool) []ID {
	span := g.idx.cover(r)
	seen := make(map[ID]struct{})
	var out []ID
	for row := span.r0; row <= span.r1; row++ {
		for col := span.c0; col <= span.c1; col++ {
			for _, id := range g.store.iter(g.idx.index(col, row)) {
				if hasExclude && id == exclude {
					continue
				}
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				rec, ok := g.table.get(id)
				if !ok {
					continue
				}
				if r.Overlaps(rec.rect) {
					out = append(out, id)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
