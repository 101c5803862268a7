// Command gridserver runs a live demo of the supergrid broad-phase:
// rectangles bounce around an arena, get reindexed every tick, and the
// resulting collision pairs are streamed to browser viewers.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supergrid"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	width := flag.Float64("width", 1200, "arena width")
	height := flag.Float64("height", 800, "arena height")
	cellSize := flag.Float64("cell-size", 50, "grid cell size")
	count := flag.Int("count", 150, "number of entities")
	seed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	adminPass := flag.String("admin-pass", "", "password for the /control endpoint (empty = disabled)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	grid, err := supergrid.New(*width, *height, *cellSize)
	if err != nil {
		log.Fatalf("grid config: %v", err)
	}

	auth, err := NewAuth(*adminPass)
	if err != nil {
		log.Fatalf("auth setup: %v", err)
	}
	if *adminPass == "" {
		log.Println("No admin password set; /control is disabled")
	}

	hub := NewHub()
	go hub.Run()

	sim := NewSimulation(grid, *count, *seed, hub)
	go sim.Run()

	mux := SetupRoutes(hub, sim, auth)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s", *addr)
		log.Printf("Arena %gx%g, %dx%d cells of %g, %d entities",
			*width, *height, grid.Cols(), grid.Rows(), *cellSize, sim.EntityCount())
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	sim.Stop()
	server.Close()
}
