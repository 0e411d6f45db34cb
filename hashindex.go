package ecs

// HashIndex is an open-addressing table keyed by an externally
// supplied 32-bit code. It never computes a hash itself and never
// resolves collisions on insert, which lets one key map to several
// values (archetype/query interning scans every slot with a matching
// code and compares the real keys itself). Grown 2x when available
// space drops below a third of capacity, shrunk 0.5x when occupancy
// drops below a third.
type HashIndex[V any] struct {
	hashes    []uint32
	values    []V
	zeroCount int32
	skipCount int32
}

const (
	zeroCode        uint32 = 0x0
	skipCode        uint32 = 0xFFFFFFFF
	safeCode        uint32 = 0x1
	minIndexCapacity       = 16
)

func safeHash(h uint32) uint32 {
	if h == zeroCode || h == skipCode {
		return safeCode
	}
	return h
}

func (h *HashIndex[V]) available() int32 {
	return h.zeroCount + h.skipCount
}

// Len reports the number of entries actually stored.
func (h *HashIndex[V]) Len() int32 {
	return h.Cap() - h.available()
}

// Cap reports the current table capacity.
func (h *HashIndex[V]) Cap() int32 {
	return int32(len(h.hashes))
}

func (h *HashIndex[V]) ensureInit() {
	if h.hashes != nil {
		return
	}
	h.hashes = make([]uint32, minIndexCapacity)
	h.values = make([]V, minIndexCapacity)
	h.zeroCount = minIndexCapacity
}

// Add unconditionally inserts value under key_hash, growing the table
// first if needed.
func (h *HashIndex[V]) Add(keyHash uint32, value V) {
	h.ensureInit()
	sh := safeHash(keyHash)
	cap := uint32(len(h.hashes))
	for n := uint32(0); n != cap; n++ {
		i := (sh + n) & (cap - 1)
		switch h.hashes[i] {
		case zeroCode:
			h.hashes[i] = sh
			h.values[i] = value
			h.zeroCount--
			h.maybeGrow()
			return
		case skipCode:
			h.hashes[i] = sh
			h.values[i] = value
			h.skipCount--
			h.maybeGrow()
			return
		}
	}
	// Only reachable if Add is called against an un-initialized index,
	// which ensureInit already rules out.
	panic("ecs: hash index insert failed")
}

func (h *HashIndex[V]) maybeGrow() {
	if h.available() < h.Cap()/3 {
		h.resize(2 * h.Cap())
	}
}

func (h *HashIndex[V]) maybeShrink() {
	if h.Len() < h.Cap()/3 {
		h.resize(h.Cap() / 2)
	}
}

func (h *HashIndex[V]) resize(newCap int32) {
	if newCap < minIndexCapacity {
		newCap = minIndexCapacity
	}
	if newCap == h.Cap() {
		return
	}
	old := *h
	*h = HashIndex[V]{
		hashes:    make([]uint32, newCap),
		values:    make([]V, newCap),
		zeroCount: newCap,
	}
	for i, hh := range old.hashes {
		if hh != zeroCode && hh != skipCode {
			h.Add(hh, old.values[i])
		}
	}
}

// RemoveAt marks the slot at index as skipped, shrinking the table if
// occupancy has dropped low enough.
func (h *HashIndex[V]) RemoveAt(index int32) {
	h.hashes[index] = skipCode
	h.skipCount++
	h.maybeShrink()
}

// HashIndexScan walks every slot that could hold a given key_hash,
// in the Reset/Next shape the rest of this package's iterators use
// rather than a begin/end range pair.
type HashIndexScan[V any] struct {
	h    *HashIndex[V]
	hash uint32
	n    uint32
}

// Scan starts a scan for key_hash. Call Next to advance.
func (h *HashIndex[V]) Scan(keyHash uint32) HashIndexScan[V] {
	return HashIndexScan[V]{h: h, hash: safeHash(keyHash), n: ^uint32(0)}
}

// Next advances to the next matching slot, returning false once the
// probe sequence hits an empty slot or wraps the table.
func (s *HashIndexScan[V]) Next() bool {
	if s.h.hashes == nil {
		return false
	}
	cap := uint32(len(s.h.hashes))
	for {
		s.n++
		if s.n == cap {
			return false
		}
		idx := (s.hash + s.n) & (cap - 1)
		hh := s.h.hashes[idx]
		if hh == s.hash {
			return true
		}
		if hh == zeroCode {
			return false
		}
		// SKIP_CODE or a mismatched hash: keep probing.
	}
}

// Index returns the table slot the current match occupies.
func (s *HashIndexScan[V]) Index() int32 {
	cap := uint32(len(s.h.hashes))
	return int32((s.hash + s.n) & (cap - 1))
}

// Value returns the value at the current match.
func (s *HashIndexScan[V]) Value() V {
	return s.h.values[s.Index()]
}

// Remove deletes the current match from the index.
func (s *HashIndexScan[V]) Remove() {
	s.h.RemoveAt(s.Index())
}
