package main

// Server -> client message types (JSON envelopes). Per-tick state goes
// out as raw msgpack binary frames instead, see ArenaState.
const (
	MsgWelcome = "welcome"
	MsgPaused  = "paused"
	MsgResumed = "resumed"
	MsgReset   = "reset"
	MsgError   = "error"
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// ArenaInfo describes the fixed arena layout, sent once on connect
type ArenaInfo struct {
	Width    float64 `json:"w"`
	Height   float64 `json:"h"`
	CellSize float64 `json:"cs"`
	Cols     int     `json:"cols"`
	Rows     int     `json:"rows"`
	Count    int     `json:"n"`
}

// EntityState is one rectangle in a binary state frame
type EntityState struct {
	ID  uint32  `msgpack:"id"`
	X   float64 `msgpack:"x"`
	Y   float64 `msgpack:"y"`
	W   float64 `msgpack:"w"`
	H   float64 `msgpack:"h"`
	Hit bool    `msgpack:"c"` // currently colliding with something
}

// ArenaState is the full per-tick state broadcast, msgpack-encoded
type ArenaState struct {
	Tick     uint64        `msgpack:"t"`
	Entities []EntityState `msgpack:"e"`
}

// ResetInfo notifies viewers that the arena was repopulated
type ResetInfo struct {
	Count int `json:"n"`
}
