// Command gridbench measures supergrid insert and probe throughput for
// a randomly generated entity population.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"supergrid"
)

func main() {
	width := flag.Float64("width", 4000, "arena width")
	height := flag.Float64("height", 4000, "arena height")
	cellSize := flag.Float64("cell-size", 64, "grid cell size")
	count := flag.Int("count", 10000, "number of entities")
	minSize := flag.Float64("min-size", 4, "minimum entity side length")
	maxSize := flag.Float64("max-size", 16, "maximum entity side length")
	seed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	dbPath := flag.String("db", "", "SQLite file to record results into (optional)")
	flag.Parse()

	if *count <= 0 {
		log.Fatalf("count must be positive, got %d", *count)
	}
	if *minSize > *maxSize {
		log.Fatalf("min-size %g exceeds max-size %g", *minSize, *maxSize)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	grid, err := supergrid.New(*width, *height, *cellSize)
	if err != nil {
		log.Fatalf("grid config: %v", err)
	}
	// Clearing a fresh grid must leave it usable
	grid.Clear()

	fmt.Println("Setup:")
	fmt.Printf("\tArena:          %gx%g\n", *width, *height)
	fmt.Printf("\tCell size:      %gx%g (%dx%d = %d cells)\n",
		*cellSize, *cellSize, grid.Cols(), grid.Rows(), grid.Cells())
	fmt.Printf("\tEntity count:   %d\n", *count)
	fmt.Printf("\tEntity size:    %g..%g\n", *minSize, *maxSize)
	fmt.Printf("\tSeed:           %d\n", *seed)

	insertElapsed := runInserts(grid, rng, *count, *width, *height, *minSize, *maxSize)
	fmt.Printf("Inserted %d entities in %v; average %v\n",
		*count, insertElapsed, insertElapsed/time.Duration(*count))

	start := time.Now()
	pairs := grid.ProbeAll()
	probeElapsed := time.Since(start)
	fmt.Printf("Probed %d entities in %v; average %v\n",
		*count, probeElapsed, probeElapsed/time.Duration(*count))
	fmt.Printf("Collisions: %d; average per entity: %.3f\n",
		len(pairs), float64(2*len(pairs))/float64(*count))

	if *dbPath != "" {
		store, err := OpenRunStore(*dbPath)
		if err != nil {
			log.Fatalf("open run store: %v", err)
		}
		defer store.Close()

		run := BenchRun{
			Width:    *width,
			Height:   *height,
			CellSize: *cellSize,
			Count:    *count,
			MinSize:  *minSize,
			MaxSize:  *maxSize,
			Seed:     *seed,
			InsertNs: insertElapsed.Nanoseconds(),
			ProbeNs:  probeElapsed.Nanoseconds(),
			Pairs:    len(pairs),
		}
		if err := store.RecordRun(run); err != nil {
			log.Fatalf("record run: %v", err)
		}
		log.Printf("Run recorded to %s", *dbPath)
	}
}

// runInserts fills the grid with count random rectangles and returns
// the elapsed wall time of the insert loop alone.
func runInserts(grid *supergrid.Grid, rng *rand.Rand, count int, width, height, minSize, maxSize float64) time.Duration {
	start := time.Now()
	for i := 0; i < count; i++ {
		x := rng.Float64() * width
		y := rng.Float64() * height
		w := minSize
		h := minSize
		if maxSize > minSize {
			w += rng.Float64() * (maxSize - minSize)
			h += rng.Float64() * (maxSize - minSize)
		}
		if err := grid.Insert(supergrid.ID(i), supergrid.RectXYWH(x, y, w, h)); err != nil {
			log.Fatalf("insert %d: %v", i, err)
		}
	}
	return time.Since(start)
}
