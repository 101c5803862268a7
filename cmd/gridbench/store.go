package main

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// BenchRun captures the parameters and results of one benchmark run.
type BenchRun struct {
	Width    float64
	Height   float64
	CellSize float64
	Count    int
	MinSize  float64
	MaxSize  float64
	Seed     int64
	InsertNs int64
	ProbeNs  int64
	Pairs    int
}

// RunStore persists benchmark runs to a SQLite database so results can
// be compared across cell-size choices and code changes.
type RunStore struct {
	conn *sql.DB
}

// OpenRunStore opens (or creates) the results database.
func OpenRunStore(path string) (*RunStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	s := &RunStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.conn.Close()
}

// migrate creates the runs table if it doesn't exist.
func (s *RunStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bench_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		width REAL NOT NULL,
		height REAL NOT NULL,
		cell_size REAL NOT NULL,
		entity_count INTEGER NOT NULL,
		min_size REAL NOT NULL,
		max_size REAL NOT NULL,
		seed INTEGER NOT NULL,
		insert_ns INTEGER NOT NULL,
		probe_ns INTEGER NOT NULL,
		pairs INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_bench_runs_cell_size ON bench_runs(cell_size);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// RecordRun inserts one run row.
func (s *RunStore) RecordRun(r BenchRun) error {
	_, err := s.conn.Exec(`
		INSERT INTO bench_runs (width, height, cell_size, entity_count, min_size, max_size, seed, insert_ns, probe_ns, pairs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Width, r.Height, r.CellSize, r.Count, r.MinSize, r.MaxSize, r.Seed, r.InsertNs, r.ProbeNs, r.Pairs,
	)
	return err
}

// RecentRuns returns the most recent runs, newest first.
func (s *RunStore) RecentRuns(limit int) ([]BenchRun, error) {
	rows, err := s.conn.Query(`
		SELECT width, height, cell_size, entity_count, min_size, max_size, seed, insert_ns, probe_ns, pairs
		FROM bench_runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BenchRun
	for rows.Next() {
		var r BenchRun
		if err := rows.Scan(&r.Width, &r.Height, &r.CellSize, &r.Count, &r.MinSize, &r.MaxSize, &r.Seed, &r.InsertNs, &r.ProbeNs, &r.Pairs); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// InsertAvg returns the average insert time per entity for this run.
func (r BenchRun) InsertAvg() time.Duration {
	if r.Count == 0 {
		return 0
	}
	return time.Duration(r.InsertNs / int64(r.Count))
}
