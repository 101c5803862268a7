package supergrid

// bucketStore holds one id slice per cell, addressed by linear index.
// Buckets are small under a sensible cell-size choice, so membership
// checks are linear scans rather than per-cell sets.
type bucketStore struct {
	buckets [][]ID
}

func newBucketStore(cells int) *bucketStore {
	return &bucketStore{buckets: make([][]ID, cells)}
}

// add puts id into the bucket at idx. Adding an id already present is a
// no-op, which guards against double-insertion bugs upstream.
func (s *bucketStore) add(idx int, id ID) {
	for _, e := range s.buckets[idx] {
		if e == id {
			return
		}
	}
	s.buckets[idx] = append(s.buckets[idx], id)
}

// remove takes id out of the bucket at idx, swapping in the last
// element. Removing an absent id is a no-op: update/remove diffing may
// target a cell the id never occupied after clamping.
func (s *bucketStore) remove(idx int, id ID) {
	b := s.buckets[idx]
	for i, e := range b {
		if e == id {
			b[i] = b[len(b)-1]
			s.buckets[idx] = b[:len(b)-1]
			return
		}
	}
}

// iter returns the bucket contents at idx. The slice aliases internal
// storage and must not be held across mutations.
func (s *bucketStore) iter(idx int) []ID {
	return s.buckets[idx]
}

// clear empties every bucket, keeping allocated capacity.
func (s *bucketStore) clear() {
	for i := range s.buckets {
		s.buckets[i] = s.buckets[i][:0]
	}
}
