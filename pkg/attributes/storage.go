package attributes

import (
	"reflect"
	"sync"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cellid"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// Attribute is the full contract a value type must satisfy to be stored in
// a SparseVec: it names its bind orbit and knows how to merge/split itself.
type Attribute[A any] interface {
	Updater[A]
	Bound
}

// slot is the optional-value representation backing each SparseVec entry.
// TVar has no notion of "unset", so absence is tracked explicitly.
type slot[A any] struct {
	some bool
	val  A
}

// SparseVec is the transactional, growable, optionally-populated storage
// for one attribute type bound to one i-cell kind (spec.md §4.5). It
// mirrors the original AttrSparseVec design: a flat TVar-backed vector
// indexed directly by cell identifier, entries starting unset.
type SparseVec[A Attribute[A]] struct {
	mu    sync.RWMutex
	slots []*stm.TVar[slot[A]]
}

// NewSparseVec allocates a storage with n initially-unset entries.
func NewSparseVec[A Attribute[A]](n int) *SparseVec[A] {
	s := &SparseVec[A]{slots: make([]*stm.TVar[slot[A]], n)}
	for i := range s.slots {
		s.slots[i] = stm.NewTVar(slot[A]{})
	}
	return s
}

// Extend appends n unset entries.
func (s *SparseVec[A]) Extend(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.slots = append(s.slots, stm.NewTVar(slot[A]{}))
	}
}

func (s *SparseVec[A]) tvar(id cellid.DartID) *stm.TVar[slot[A]] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[int(id)]
}

// Read returns the value bound to id, if any.
func (s *SparseVec[A]) Read(t *stm.Transaction, id cellid.DartID) (A, bool) {
	v := s.tvar(id).Read(t)
	return v.val, v.some
}

// Write sets the value bound to id, returning whatever was previously
// there.
func (s *SparseVec[A]) Write(t *stm.Transaction, id cellid.DartID, v A) (A, bool) {
	prior := s.tvar(id).Replace(t, slot[A]{some: true, val: v})
	return prior.val, prior.some
}

// Remove clears the value bound to id, returning whatever was there.
func (s *SparseVec[A]) Remove(t *stm.Transaction, id cellid.DartID) (A, bool) {
	prior := s.tvar(id).Replace(t, slot[A]{})
	return prior.val, prior.some
}

// Merge combines whatever is bound to l and r into out, consuming l and r
// (spec.md §4.5: the sew orchestration calls this after linking topology
// and recomputing the resulting cell identifier). The value type's
// optional IncompleteMerger/NoneMerger refinements cover the cases where
// one or both sides are unset; absent those refinements the merge fails
// with AttributeError{Kind: InsufficientData}.
func (s *SparseVec[A]) Merge(t *stm.Transaction, out, l, r cellid.DartID) error {
	lv, lok := s.Read(t, l)
	rv, rok := s.Read(t, r)
	s.Remove(t, l)
	s.Remove(t, r)

	var merged A
	var name string
	switch {
	case lok && rok:
		merged = lv.Merge(rv)
	case lok && !rok:
		im, ok := any(lv).(IncompleteMerger[A])
		if !ok {
			name = typeName[A]()
			return &AttributeError{Kind: InsufficientData, Op: "merge", TypeName: name}
		}
		merged = im.MergeIncomplete(lv)
	case !lok && rok:
		im, ok := any(rv).(IncompleteMerger[A])
		if !ok {
			name = typeName[A]()
			return &AttributeError{Kind: InsufficientData, Op: "merge", TypeName: name}
		}
		merged = im.MergeIncomplete(rv)
	default:
		var zero A
		nm, ok := any(zero).(NoneMerger[A])
		if !ok {
			name = typeName[A]()
			return &AttributeError{Kind: InsufficientData, Op: "merge", TypeName: name}
		}
		merged = nm.MergeFromNone()
	}
	s.Write(t, out, merged)
	return nil
}

// Split pulls the value bound to in apart into outL and outR, consuming
// in. If in carries no value, both sides are left unset.
func (s *SparseVec[A]) Split(t *stm.Transaction, outL, outR, in cellid.DartID) error {
	v, ok := s.Read(t, in)
	s.Remove(t, in)
	if !ok {
		return nil
	}
	l, r := v.Split()
	s.Write(t, outL, l)
	s.Write(t, outR, r)
	return nil
}

func typeName[A any]() string {
	var zero A
	return reflect.TypeOf(&zero).Elem().String()
}

// UnknownAttributeStorage is the type-erased facet of SparseVec[A] the
// manager needs in order to hold heterogeneous storages in one registry
// and drive merge/split without knowing the concrete attribute type
// (spec.md §9 design notes).
type UnknownAttributeStorage interface {
	Extend(n int)
	MergeDyn(t *stm.Transaction, out, l, r cellid.DartID) error
	SplitDyn(t *stm.Transaction, outL, outR, in cellid.DartID) error
	TypeName() string
}

func (s *SparseVec[A]) MergeDyn(t *stm.Transaction, out, l, r cellid.DartID) error {
	return s.Merge(t, out, l, r)
}

func (s *SparseVec[A]) SplitDyn(t *stm.Transaction, outL, outR, in cellid.DartID) error {
	return s.Split(t, outL, outR, in)
}

func (s *SparseVec[A]) TypeName() string { return typeName[A]() }

var _ UnknownAttributeStorage = (*SparseVec[dummyAttr])(nil)

// dummyAttr only exists to let the compiler check SparseVec's generic
// method set satisfies UnknownAttributeStorage above.
type dummyAttr struct{}

func (dummyAttr) Merge(dummyAttr) dummyAttr     { return dummyAttr{} }
func (dummyAttr) Split() (dummyAttr, dummyAttr) { return dummyAttr{}, dummyAttr{} }
func (dummyAttr) BindOrbit() cellid.BindOrbit   { return cellid.Custom }
