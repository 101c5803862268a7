package supergrid

import (
	"errors"
	"math/rand"
	"testing"
)

// checkInvariant verifies the core membership property: an id appears
// in a cell's bucket iff that cell is inside the entity's clamped
// coverage, and no dead id lingers anywhere.
func checkInvariant(t *testing.T, g *Grid) {
	t.Helper()
	for row := 0; row < g.idx.rows; row++ {
		for col := 0; col < g.idx.cols; col++ {
			bucket := g.store.iter(g.idx.index(col, row))
			seen := make(map[ID]bool, len(bucket))
			for _, id := range bucket {
				if seen[id] {
					t.Fatalf("cell (%d,%d): duplicate id %d in bucket", col, row, id)
				}
				seen[id] = true
				rec, ok := g.table.get(id)
				if !ok {
					t.Fatalf("cell (%d,%d): dead id %d in bucket", col, row, id)
				}
				if !rec.span.contains(col, row) {
					t.Fatalf("cell (%d,%d): id %d present outside its coverage", col, row, id)
				}
			}
			// Reverse direction: every covering entity is in the bucket
			for id, rec := range g.table.records {
				if rec.span.contains(col, row) && !seen[id] {
					t.Fatalf("cell (%d,%d): id %d covers cell but is missing from bucket", col, row, id)
				}
			}
		}
	}
}

// bucketState dumps bucket membership as cell->set for equality checks.
func bucketState(g *Grid) map[int]map[ID]bool {
	state := make(map[int]map[ID]bool)
	for i := range g.store.buckets {
		if len(g.store.buckets[i]) == 0 {
			continue
		}
		set := make(map[ID]bool, len(g.store.buckets[i]))
		for _, id := range g.store.buckets[i] {
			set[id] = true
		}
		state[i] = set
	}
	return state
}

func sameBucketState(a, b map[int]map[ID]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for idx, setA := range a {
		setB, ok := b[idx]
		if !ok || len(setA) != len(setB) {
			return false
		}
		for id := range setA {
			if !setB[id] {
				return false
			}
		}
	}
	return true
}

func randomRect(rng *rand.Rand, w, h, maxSide float64) Rect {
	x := rng.Float64() * w
	y := rng.Float64() * h
	return RectXYWH(x, y, rng.Float64()*maxSide, rng.Float64()*maxSide)
}

func TestNewInvalidConfig(t *testing.T) {
	cases := []struct{ w, h, size float64 }{
		{0, 100, 10},
		{100, 0, 10},
		{100, 100, 0},
		{-1, 100, 10},
		{100, -5, 10},
		{100, 100, -10},
	}
	for _, c := range cases {
		if _, err := New(c.w, c.h, c.size); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("New(%g,%g,%g): expected ErrInvalidConfig, got %v", c.w, c.h, c.size, err)
		}
	}
	if g, err := New(100, 100, 10); err != nil || g == nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestInsertDuplicate(t *testing.T) {
	g, _ := New(100, 100, 10)
	if err := g.Insert(1, RectXYWH(5, 5, 10, 10)); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := g.Insert(1, RectXYWH(50, 50, 10, 10))
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
	// Rejected insert must not disturb state
	checkInvariant(t, g)
	if r, _ := g.Rect(1); r.MinX != 5 {
		t.Error("rejected insert overwrote existing bounds")
	}
}

func TestUpdateRemoveProbeUnknown(t *testing.T) {
	g, _ := New(100, 100, 10)
	if err := g.Update(9, RectXYWH(0, 0, 5, 5)); !errors.Is(err, ErrUnknownID) {
		t.Errorf("Update: expected ErrUnknownID, got %v", err)
	}
	if err := g.Remove(9); !errors.Is(err, ErrUnknownID) {
		t.Errorf("Remove: expected ErrUnknownID, got %v", err)
	}
	if _, err := g.Probe(9); !errors.Is(err, ErrUnknownID) {
		t.Errorf("Probe: expected ErrUnknownID, got %v", err)
	}
}

func TestScenario(t *testing.T) {
	g, err := New(100, 100, 10)
	if err != nil {
		t.Fatal(err)
	}
	if g.Cols() != 10 || g.Rows() != 10 {
		t.Fatalf("expected 10x10 layout, got %dx%d", g.Cols(), g.Rows())
	}

	const a, b, c = 1, 2, 3
	g.Insert(a, Rect{5, 5, 15, 15})
	g.Insert(b, Rect{12, 12, 20, 20})
	g.Insert(c, Rect{50, 50, 60, 60})
	checkInvariant(t, g)

	pairs := g.ProbeAll()
	if len(pairs) != 1 || pairs[0] != (Pair{A: a, B: b}) {
		t.Fatalf("ProbeAll = %v, want [{1 2}]", pairs)
	}

	hits, err := g.Probe(a)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0] != b {
		t.Errorf("Probe(A) = %v, want [2]", hits)
	}
	hits, _ = g.Probe(c)
	if len(hits) != 0 {
		t.Errorf("Probe(C) = %v, want empty", hits)
	}
}

func TestScenarioUpdate(t *testing.T) {
	g, _ := New(100, 100, 10)
	const a, b, c = 1, 2, 3
	g.Insert(a, Rect{5, 5, 15, 15})
	g.Insert(b, Rect{12, 12, 20, 20})
	g.Insert(c, Rect{50, 50, 60, 60})

	if err := g.Update(b, Rect{70, 70, 80, 80}); err != nil {
		t.Fatal(err)
	}
	checkInvariant(t, g)

	if pairs := g.ProbeAll(); len(pairs) != 0 {
		t.Errorf("ProbeAll after move = %v, want empty", pairs)
	}

	// B's old cells must no longer list it
	span := g.idx.cover(Rect{12, 12, 20, 20})
	for row := span.r0; row <= span.r1; row++ {
		for col := span.c0; col <= span.c1; col++ {
			for _, id := range g.store.iter(g.idx.index(col, row)) {
				if id == b {
					t.Errorf("cell (%d,%d) still lists moved entity", col, row)
				}
			}
		}
	}
}

func TestRemoveAndReinsert(t *testing.T) {
	g, _ := New(100, 100, 10)
	const a = 1
	g.Insert(a, Rect{5, 5, 15, 15})
	if err := g.Remove(a); err != nil {
		t.Fatal(err)
	}

	// No bucket anywhere may still list the id
	for i := range g.store.buckets {
		for _, id := range g.store.buckets[i] {
			if id == a {
				t.Fatalf("bucket %d still lists removed id", i)
			}
		}
	}
	if g.Count() != 0 {
		t.Errorf("Count = %d after remove, want 0", g.Count())
	}

	// The id is reusable
	if err := g.Insert(a, RectXYWH(80, 80, 5, 5)); err != nil {
		t.Errorf("reinsert after remove failed: %v", err)
	}
	checkInvariant(t, g)
}

func TestInsertOutsideArena(t *testing.T) {
	g, _ := New(100, 100, 10)

	// Fully outside: clamped to the nearest edge cell, never dropped
	if err := g.Insert(1, RectXYWH(500, 500, 10, 10)); err != nil {
		t.Fatalf("out-of-arena insert rejected: %v", err)
	}
	if err := g.Insert(2, RectXYWH(-50, -50, 10, 10)); err != nil {
		t.Fatalf("negative insert rejected: %v", err)
	}
	checkInvariant(t, g)

	// Both remain probe-able through their true geometry
	if hits := g.ProbeRegion(RectXYWH(495, 495, 20, 20)); len(hits) != 1 || hits[0] != 1 {
		t.Errorf("probe of out-of-arena entity = %v, want [1]", hits)
	}
	if err := g.Remove(1); err != nil {
		t.Errorf("remove of clamped entity failed: %v", err)
	}
	checkInvariant(t, g)
}

func TestUpdateEquivalentToRemoveInsert(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	g1, _ := New(200, 200, 25)
	g2, _ := New(200, 200, 25)

	const n = 40
	for i := ID(0); i < n; i++ {
		r := randomRect(rng, 200, 200, 60)
		g1.Insert(i, r)
		g2.Insert(i, r)
	}

	for step := 0; step < 300; step++ {
		id := ID(rng.Intn(n))
		r := randomRect(rng, 240, 240, 60) // occasionally out of arena
		if err := g1.Update(id, r); err != nil {
			t.Fatal(err)
		}
		if err := g2.Remove(id); err != nil {
			t.Fatal(err)
		}
		if err := g2.Insert(id, r); err != nil {
			t.Fatal(err)
		}
		if !sameBucketState(bucketState(g1), bucketState(g2)) {
			t.Fatalf("step %d: update diverged from remove+insert for id %d", step, id)
		}
	}
	checkInvariant(t, g1)
}

func TestRandomizedInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g, _ := New(300, 150, 20)

	live := make(map[ID]bool)
	for step := 0; step < 500; step++ {
		id := ID(rng.Intn(60))
		switch {
		case !live[id]:
			if err := g.Insert(id, randomRect(rng, 320, 170, 50)); err != nil {
				t.Fatal(err)
			}
			live[id] = true
		case rng.Intn(3) == 0:
			if err := g.Remove(id); err != nil {
				t.Fatal(err)
			}
			delete(live, id)
		default:
			if err := g.Update(id, randomRect(rng, 320, 170, 50)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if g.Count() != len(live) {
		t.Errorf("Count = %d, want %d", g.Count(), len(live))
	}
	checkInvariant(t, g)
}

func TestClear(t *testing.T) {
	g, _ := New(100, 100, 10)
	for i := ID(0); i < 10; i++ {
		g.Insert(i, RectXYWH(float64(i)*8, float64(i)*8, 12, 12))
	}
	g.Clear()

	if g.Count() != 0 {
		t.Errorf("Count = %d after Clear, want 0", g.Count())
	}
	if pairs := g.ProbeAll(); len(pairs) != 0 {
		t.Errorf("ProbeAll after Clear = %v, want empty", pairs)
	}
	checkInvariant(t, g)

	// Grid stays usable after Clear
	if err := g.Insert(3, RectXYWH(10, 10, 5, 5)); err != nil {
		t.Errorf("insert after Clear failed: %v", err)
	}
	if hits := g.ProbeRegion(RectXYWH(8, 8, 10, 10)); len(hits) != 1 {
		t.Errorf("probe after Clear = %v, want one hit", hits)
	}
}
