package cmap

import (
	"sync"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// unusedDarts is the dart allocator described in spec.md §4.2: a parallel
// boolean vector where slot 0 (the null dart) is never eligible for
// allocation or release.
type unusedDarts struct {
	mu    sync.RWMutex // guards len(slots) during extend; slot contents are TVars
	slots []*stm.TVar[bool]
}

func newUnusedDarts(nDarts int) *unusedDarts {
	u := &unusedDarts{slots: make([]*stm.TVar[bool], nDarts)}
	for i := range u.slots {
		u.slots[i] = stm.NewTVar(i != 0)
	}
	u.slots[0] = stm.NewTVar(false) // null dart slot: tracked, never "unused" for allocation purposes
	return u
}

func (u *unusedDarts) len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.slots)
}

// allocateUsed appends n slots marked used and returns the first new id.
func (u *unusedDarts) allocateUsed(n int) DartID {
	u.mu.Lock()
	defer u.mu.Unlock()
	first := DartID(len(u.slots))
	for i := 0; i < n; i++ {
		u.slots = append(u.slots, stm.NewTVar(false))
	}
	return first
}

// allocateUnused appends n slots marked unused.
func (u *unusedDarts) allocateUnused(n int) DartID {
	u.mu.Lock()
	defer u.mu.Unlock()
	first := DartID(len(u.slots))
	for i := 0; i < n; i++ {
		u.slots = append(u.slots, stm.NewTVar(true))
	}
	return first
}

// insertFree reuses the first unused slot, or allocates a new one if none
// is free.
func (u *unusedDarts) insertFree() DartID {
	u.mu.RLock()
	for i, s := range u.slots {
		if i == 0 {
			continue
		}
		if s.AtomicRead() {
			u.mu.RUnlock()
			stm.Atomically(func(t *stm.Transaction) { s.Write(t, false) })
			return DartID(i)
		}
	}
	u.mu.RUnlock()
	return u.allocateUsed(1)
}

// isUnused reports whether d is currently unused, via the atomic fast path.
func (u *unusedDarts) isUnused(d DartID) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.slots[d].AtomicRead()
}

func (u *unusedDarts) isUnusedTransac(t *stm.Transaction, d DartID) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.slots[d].Read(t)
}

// claim marks a previously-unused identifier as used.
func (u *unusedDarts) claim(t *stm.Transaction, d DartID) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	u.slots[d].Write(t, false)
}

// release transitions a dart from used to unused, returning true if it was
// already unused (a no-op second call, per spec.md §4.2).
func (u *unusedDarts) release(t *stm.Transaction, d DartID) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.slots[d].Replace(t, true)
}

// nUnused counts currently-unused darts via the atomic fast path.
func (u *unusedDarts) nUnused() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	n := 0
	for i, s := range u.slots {
		if i != 0 && s.AtomicRead() {
			n++
		}
	}
	return n
}

// reserveFrom returns k dart identifiers, first scanning the unused pool
// starting at start, then allocating fresh ones as needed. Every returned
// identifier is claimed (marked used) before this function returns.
func (u *unusedDarts) reserveFrom(start int, k int) []DartID {
	if k == 0 {
		return nil
	}
	ids := make([]DartID, 0, k)

	u.mu.Lock()
	if start < 1 {
		start = 1
	}
	for i := start; i < len(u.slots) && len(ids) < k; i++ {
		if u.slots[i].AtomicRead() {
			ids = append(ids, DartID(i))
		}
	}
	for i := 1; i < start && len(ids) < k; i++ {
		if u.slots[i].AtomicRead() {
			ids = append(ids, DartID(i))
		}
	}
	for len(ids) < k {
		first := DartID(len(u.slots))
		u.slots = append(u.slots, stm.NewTVar(true))
		ids = append(ids, first)
	}
	u.mu.Unlock()

	stm.Atomically(func(t *stm.Transaction) {
		for _, id := range ids {
			u.claim(t, id)
		}
	})
	return ids
}
