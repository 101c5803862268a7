package supergrid

// entityRecord caches the last-applied bounds and cell coverage of one
// live entity. The span is kept so remove never recomputes coverage and
// update can diff old against new cells.
type entityRecord struct {
	rect Rect
	span cellSpan
}

// entityTable owns the authoritative id-to-record mapping.
type entityTable struct {
	records map[ID]entityRecord
}

func newEntityTable() entityTable {
	return entityTable{records: make(map[ID]entityRecord)}
}

// set records the current bounds and coverage for id. An unknown id is
// treated as a first insertion; duplicate-insert rejection is the
// Grid's job.
func (t entityTable) set(id ID, r Rect, span cellSpan) {
	t.records[id] = entityRecord{rect: r, span: span}
}

func (t entityTable) get(id ID) (entityRecord, bool) {
	rec, ok := t.records[id]
	return rec, ok
}

func (t entityTable) delete(id ID) {
	delete(t.records, id)
}

func (t entityTable) len() int {
	return len(t.records)
}

// ids returns the live ids in map order.
func (t entityTable) ids() []ID {
	out := make([]ID, 0, len(t.records))
	for id := range t.records {
		out = append(out, id)
	}
	return out
}

func (t entityTable) clear() {
	for id := range t.records {
		delete(t.records, id)
	}
}
