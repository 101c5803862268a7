package main

import (
	"math/rand"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"supergrid"
)

const (
	TickRate       = 30 // simulation ticks per second
	BroadcastRate  = 15 // state broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

const (
	maxEntities   = 5000
	entityMinSide = 8.0
	entityMaxSide = 40.0
	speedRange    = 120.0 // max velocity component, units/s
)

// Sink receives encoded state frames for delivery to viewers.
type Sink interface {
	BroadcastState(data []byte)
}

// simEntity carries the per-entity payload the grid does not store:
// extents, velocity and collision state, keyed by the same id. The grid
// stays payload-agnostic; this table rides alongside it.
type simEntity struct {
	ID     supergrid.ID
	X, Y   float64 // min corner
	W, H   float64
	VX, VY float64
	Hit    bool
}

// Simulation bounces rectangles around the arena and reindexes them in
// a Grid every tick. It owns the single-writer lock the grid itself
// does not provide: the tick mutates under mu, snapshots read under it.
type Simulation struct {
	mu      sync.RWMutex
	grid    *supergrid.Grid
	ents    []simEntity
	rng     *rand.Rand
	tick    uint64
	paused  bool
	running bool
	stop    chan struct{}
	sink    Sink
}

// NewSimulation creates a simulation with count random entities.
func NewSimulation(grid *supergrid.Grid, count int, seed int64, sink Sink) *Simulation {
	s := &Simulation{
		grid: grid,
		rng:  rand.New(rand.NewSource(seed)),
		stop: make(chan struct{}),
		sink: sink,
	}
	s.populate(count)
	return s
}

// populate fills the grid with count fresh entities. Callers hold mu or
// have exclusive access.
func (s *Simulation) populate(count int) {
	if count > maxEntities {
		count = maxEntities
	}
	s.grid.Clear()
	s.ents = s.ents[:0]
	for i := 0; i < count; i++ {
		w := entityMinSide + s.rng.Float64()*(entityMaxSide-entityMinSide)
		h := entityMinSide + s.rng.Float64()*(entityMaxSide-entityMinSide)
		e := simEntity{
			ID: supergrid.ID(i),
			X:  s.rng.Float64() * (s.grid.Width() - w),
			Y:  s.rng.Float64() * (s.grid.Height() - h),
			W:  w,
			H:  h,
			VX: (s.rng.Float64()*2 - 1) * speedRange,
			VY: (s.rng.Float64()*2 - 1) * speedRange,
		}
		s.grid.Insert(e.ID, supergrid.RectXYWH(e.X, e.Y, e.W, e.H))
		s.ents = append(s.ents, e)
	}
}

// Run drives the tick loop until Stop is called.
func (s *Simulation) Run() {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.update()
		case <-s.stop:
			return
		}
	}
}

// Stop terminates the tick loop.
func (s *Simulation) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.running = false
		close(s.stop)
	}
}

// SetPaused pauses or resumes entity motion. State frames keep flowing
// so late-joining viewers still get a picture.
func (s *Simulation) SetPaused(paused bool) {
	s.mu.Lock()
	s.paused = paused
	s.mu.Unlock()
}

// Paused reports whether the simulation is paused.
func (s *Simulation) Paused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}

// Reset repopulates the arena with count fresh entities.
func (s *Simulation) Reset(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.populate(count)
}

// EntityCount returns the number of simulated entities.
func (s *Simulation) EntityCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ents)
}

// update runs one simulation tick.
func (s *Simulation) update() {
	s.mu.Lock()

	s.tick++
	if !s.paused {
		s.step(1.0 / float64(TickRate))
	}

	var frame []byte
	if s.tick%BroadcastEvery == 0 && s.sink != nil {
		frame = s.encodeState()
	}
	s.mu.Unlock()

	// Deliver outside the lock; the hub fans out to client buffers
	if frame != nil {
		s.sink.BroadcastState(frame)
	}
}

// step advances every entity and recomputes collision marks. Callers
// hold mu.
func (s *Simulation) step(dt float64) {
	w := s.grid.Width()
	h := s.grid.Height()

	for i := range s.ents {
		e := &s.ents[i]
		e.X += e.VX * dt
		e.Y += e.VY * dt

		// Bounce off arena walls
		if e.X < 0 {
			e.X = 0
			e.VX = -e.VX
		} else if e.X+e.W > w {
			e.X = w - e.W
			e.VX = -e.VX
		}
		if e.Y < 0 {
			e.Y = 0
			e.VY = -e.VY
		} else if e.Y+e.H > h {
			e.Y = h - e.H
			e.VY = -e.VY
		}

		s.grid.Update(e.ID, supergrid.RectXYWH(e.X, e.Y, e.W, e.H))
		e.Hit = false
	}

	for _, p := range s.grid.ProbeAll() {
		s.ents[int(p.A)].Hit = true
		s.ents[int(p.B)].Hit = true
	}
}

// encodeState builds the msgpack binary frame for the current tick.
// Callers hold mu (read access suffices).
func (s *Simulation) encodeState() []byte {
	state := ArenaState{
		Tick:     s.tick,
		Entities: make([]EntityState, 0, len(s.ents)),
	}
	for i := range s.ents {
		e := &s.ents[i]
		state.Entities = append(state.Entities, EntityState{
			ID:  uint32(e.ID),
			X:   e.X,
			Y:   e.Y,
			W:   e.W,
			H:   e.H,
			Hit: e.Hit,
		})
	}
	data, err := msgpack.Marshal(state)
	if err != nil {
		return nil
	}
	return data
}

// Info returns the static arena description sent to new viewers.
func (s *Simulation) Info() ArenaInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ArenaInfo{
		Width:    s.grid.Width(),
		Height:   s.grid.Height(),
		CellSize: s.grid.CellSize(),
		Cols:     s.grid.Cols(),
		Rows:     s.grid.Rows(),
		Count:    len(s.ents),
	}
}
