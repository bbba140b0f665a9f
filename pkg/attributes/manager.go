package attributes

import (
	"reflect"
	"sync"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cellid"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// Manager is the type-erased registry of attribute storages a map keeps
// alongside its topology (spec.md §4.6). Storages are partitioned by
// bind orbit the way the original design partitions them, plus a fifth
// bucket for Custom-bound attributes, keyed by reflect.Type so several
// attribute types can share a bucket without colliding.
type Manager struct {
	mu      sync.RWMutex
	icells  [4]map[reflect.Type]UnknownAttributeStorage // Vertex, Edge, Face, Volume
	others  map[reflect.Type]UnknownAttributeStorage     // Custom
	nCells  int                                           // current capacity every storage is extended to
}

// NewManager returns a manager with no registered storages, sized for n
// cells of each kind.
func NewManager(n int) *Manager {
	m := &Manager{others: make(map[reflect.Type]UnknownAttributeStorage), nCells: n}
	for i := range m.icells {
		m.icells[i] = make(map[reflect.Type]UnknownAttributeStorage)
	}
	return m
}

func bucketIndex(o cellid.BindOrbit) int {
	switch o {
	case cellid.Vertex:
		return 0
	case cellid.Edge:
		return 1
	case cellid.Face:
		return 2
	case cellid.Volume:
		return 3
	default:
		return -1
	}
}

func bucketFor[A Attribute[A]](m *Manager) map[reflect.Type]UnknownAttributeStorage {
	var zero A
	idx := bucketIndex(zero.BindOrbit())
	if idx < 0 {
		return m.others
	}
	return m.icells[idx]
}

// AddStorage registers a new storage for attribute type A, sized to the
// manager's current cell capacity. If a storage for A already exists, the
// existing one is kept and returned with added=false -- callers that care
// should log the conflict themselves (spec.md's original design emits a
// warning and keeps the first registration; this package stays silent to
// avoid an upward dependency on the logging stack).
func AddStorage[A Attribute[A]](m *Manager, capacity int) (store *SparseVec[A], added bool) {
	t := reflect.TypeOf((*A)(nil)).Elem()
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := bucketFor[A](m)
	if existing, ok := bucket[t]; ok {
		return existing.(*SparseVec[A]), false
	}
	n := capacity
	if n < m.nCells {
		n = m.nCells
	}
	s := NewSparseVec[A](n)
	bucket[t] = s
	return s, true
}

// GetStorage looks up the registered storage for attribute type A.
func GetStorage[A Attribute[A]](m *Manager) (*SparseVec[A], bool) {
	t := reflect.TypeOf((*A)(nil)).Elem()
	m.mu.RLock()
	defer m.mu.RUnlock()
	bucket := bucketFor[A](m)
	s, ok := bucket[t]
	if !ok {
		return nil, false
	}
	return s.(*SparseVec[A]), true
}

// RemoveStorage drops the registered storage for attribute type A.
func RemoveStorage[A Attribute[A]](m *Manager) {
	t := reflect.TypeOf((*A)(nil)).Elem()
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(bucketFor[A](m), t)
}

// ExtendStorages grows every registered storage by n entries, matching a
// dart-space extension of the map they belong to.
func (m *Manager) ExtendStorages(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nCells += n
	for _, bucket := range m.icells {
		for _, s := range bucket {
			s.Extend(n)
		}
	}
	for _, s := range m.others {
		s.Extend(n)
	}
}

// MergeAttributes runs Merge on every storage bound to orbit, fusing
// whatever is attached to l and r into out. It stops at the first error,
// mirroring the short-circuiting `?` of the reference design.
func (m *Manager) MergeAttributes(t *stm.Transaction, orbit cellid.BindOrbit, out, l, r cellid.DartID) error {
	m.mu.RLock()
	bucket := m.bucketForOrbit(orbit)
	storages := make([]UnknownAttributeStorage, 0, len(bucket))
	for _, s := range bucket {
		storages = append(storages, s)
	}
	m.mu.RUnlock()

	for _, s := range storages {
		if err := s.MergeDyn(t, out, l, r); err != nil {
			return err
		}
	}
	return nil
}

// SplitAttributes runs Split on every storage bound to orbit, pulling
// whatever is attached to in apart into outL and outR.
func (m *Manager) SplitAttributes(t *stm.Transaction, orbit cellid.BindOrbit, outL, outR, in cellid.DartID) error {
	m.mu.RLock()
	bucket := m.bucketForOrbit(orbit)
	storages := make([]UnknownAttributeStorage, 0, len(bucket))
	for _, s := range bucket {
		storages = append(storages, s)
	}
	m.mu.RUnlock()

	for _, s := range storages {
		if err := s.SplitDyn(t, outL, outR, in); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) bucketForOrbit(o cellid.BindOrbit) map[reflect.Type]UnknownAttributeStorage {
	idx := bucketIndex(o)
	if idx < 0 {
		return m.others
	}
	return m.icells[idx]
}
