package cmap

import (
	"fmt"
	"sync"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// betaStore is the array-of-transactional-slots representation of
// β0..βD described in spec.md §4.3: for a map of dimension D it holds D+1
// rows, each a TVar[DartID] per dart.
type betaStore struct {
	mu       sync.RWMutex
	dim      int // D; there are dim+1 rows (β0..βD)
	nSlots   int
	cells    []*stm.TVar[DartID] // flat, row-major: cells[i*nSlots+d]
}

func newBetaStore(dim, nDarts int) *betaStore {
	b := &betaStore{dim: dim, nSlots: nDarts}
	b.cells = make([]*stm.TVar[DartID], (dim+1)*nDarts)
	for i := range b.cells {
		b.cells[i] = stm.NewTVar[DartID](NullDart)
	}
	return b
}

func (b *betaStore) checkIndex(i int) {
	if i < 0 || i > b.dim {
		panic(fmt.Sprintf("cmap: beta index %d out of range for dimension %d", i, b.dim))
	}
}

// extend appends n new dart slots (all β images null) to every row.
func (b *betaStore) extend(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := b.nSlots
	newSlots := old + n
	grown := make([]*stm.TVar[DartID], (b.dim+1)*newSlots)
	for i := 0; i <= b.dim; i++ {
		copy(grown[i*newSlots:i*newSlots+old], b.cells[i*old:(i+1)*old])
		for d := old; d < newSlots; d++ {
			grown[i*newSlots+d] = stm.NewTVar[DartID](NullDart)
		}
	}
	b.cells = grown
	b.nSlots = newSlots
}

func (b *betaStore) cell(i int, d DartID) *stm.TVar[DartID] {
	b.checkIndex(i)
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cells[i*b.nSlots+int(d)]
}

// Beta returns βi(d) transactionally.
func (b *betaStore) Beta(t *stm.Transaction, i int, d DartID) DartID {
	if d.IsNull() {
		return NullDart
	}
	return b.cell(i, d).Read(t)
}

// BetaAtomic reads βi(d) outside of a transaction (fast path).
func (b *betaStore) BetaAtomic(i int, d DartID) DartID {
	if d.IsNull() {
		return NullDart
	}
	return b.cell(i, d).AtomicRead()
}

func (b *betaStore) setBeta(t *stm.Transaction, i int, d, image DartID) {
	b.cell(i, d).Write(t, image)
}

func (b *betaStore) isIFree(t *stm.Transaction, i int, d DartID) bool {
	return b.Beta(t, i, d).IsNull()
}

// link links a and b via βi (i >= 1): requires both darts i-free, and for
// i==1 additionally requires b to be β0-free. After linking,
// βi(a) = b; for i >= 2 the involution βi(b) = a is also set; for i == 1,
// β0(b) = a is set to keep β0 the inverse of β1 (spec.md §4.3).
func (b *betaStore) link(t *stm.Transaction, i int, a, d DartID) error {
	b.checkIndex(i)
	if i < 1 {
		panic("cmap: link is only defined for i >= 1")
	}
	if !b.isIFree(t, i, a) {
		return &LinkError{Kind: NonFreeBase, I: i, A: a, B: d}
	}
	if !b.isIFree(t, i, d) {
		return &LinkError{Kind: NonFreeImage, I: i, A: a, B: d}
	}
	if i == 1 && !b.isIFree(t, 0, d) {
		return &LinkError{Kind: NonFreeImage, I: i, A: a, B: d}
	}
	b.setBeta(t, i, a, d)
	if i >= 2 {
		b.setBeta(t, i, d, a)
	} else {
		b.setBeta(t, 0, d, a)
	}
	return nil
}

// unlink is the inverse of link: it fails if a is already i-free.
func (b *betaStore) unlink(t *stm.Transaction, i int, a DartID) error {
	b.checkIndex(i)
	if i < 1 {
		panic("cmap: unlink is only defined for i >= 1")
	}
	image := b.Beta(t, i, a)
	if image.IsNull() {
		return &LinkError{Kind: AlreadyFree, I: i, A: a}
	}
	b.setBeta(t, i, a, NullDart)
	if i >= 2 {
		b.setBeta(t, i, image, NullDart)
	} else {
		b.setBeta(t, 0, image, NullDart)
	}
	return nil
}

// isFree reports whether d is i-free for every i.
func (b *betaStore) isFree(t *stm.Transaction, d DartID) bool {
	for i := 0; i <= b.dim; i++ {
		if !b.isIFree(t, i, d) {
			return false
		}
	}
	return true
}
