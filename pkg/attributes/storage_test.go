package attributes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cellid"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// label is a minimal Attribute implementation with no optional refinements,
// used to exercise the InsufficientData failure paths.
type label struct {
	name string
}

func (l label) Merge(other label) label { return label{name: l.name + "+" + other.name} }
func (l label) Split() (label, label)   { return l, l }
func (l label) BindOrbit() cellid.BindOrbit { return cellid.Vertex }

// richLabel additionally implements IncompleteMerger and NoneMerger, to
// exercise the one-sided and both-absent merge branches.
type richLabel struct {
	name string
}

func (l richLabel) Merge(other richLabel) richLabel {
	return richLabel{name: l.name + "+" + other.name}
}
func (l richLabel) Split() (richLabel, richLabel)       { return l, l }
func (l richLabel) BindOrbit() cellid.BindOrbit         { return cellid.Edge }
func (l richLabel) MergeIncomplete(present richLabel) richLabel {
	return richLabel{name: present.name + "+none"}
}
func (richLabel) MergeFromNone() richLabel { return richLabel{name: "none+none"} }

func TestSparseVecReadWriteRemove(t *testing.T) {
	s := NewSparseVec[label](4)

	stm.Atomically(func(tx *stm.Transaction) {
		_, ok := s.Read(tx, 1)
		assert.False(t, ok)

		prior, hadPrior := s.Write(tx, 1, label{name: "a"})
		assert.False(t, hadPrior)
		assert.Equal(t, label{}, prior)
	})

	stm.Atomically(func(tx *stm.Transaction) {
		v, ok := s.Read(tx, 1)
		require.True(t, ok)
		assert.Equal(t, "a", v.name)
	})

	stm.Atomically(func(tx *stm.Transaction) {
		prior, hadPrior := s.Remove(tx, 1)
		assert.True(t, hadPrior)
		assert.Equal(t, "a", prior.name)
	})

	stm.Atomically(func(tx *stm.Transaction) {
		_, ok := s.Read(tx, 1)
		assert.False(t, ok)
	})
}

func TestSparseVecExtendGrowsWithUnsetSlots(t *testing.T) {
	s := NewSparseVec[label](2)
	s.Extend(3)

	stm.Atomically(func(tx *stm.Transaction) {
		for id := cellid.DartID(0); id < 5; id++ {
			_, ok := s.Read(tx, id)
			assert.False(t, ok)
		}
	})
}

func TestSparseVecMergeBothPresent(t *testing.T) {
	s := NewSparseVec[label](4)
	stm.Atomically(func(tx *stm.Transaction) {
		s.Write(tx, 1, label{name: "l"})
		s.Write(tx, 2, label{name: "r"})
	})

	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		return s.Merge(tx, 3, 1, 2)
	}))

	stm.Atomically(func(tx *stm.Transaction) {
		_, ok := s.Read(tx, 1)
		assert.False(t, ok)
		_, ok = s.Read(tx, 2)
		assert.False(t, ok)
		v, ok := s.Read(tx, 3)
		require.True(t, ok)
		assert.Equal(t, "l+r", v.name)
	})
}

func TestSparseVecMergeOneSidedWithoutIncompleteMergerFails(t *testing.T) {
	s := NewSparseVec[label](4)
	stm.Atomically(func(tx *stm.Transaction) {
		s.Write(tx, 1, label{name: "l"})
	})

	err := stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		return s.Merge(tx, 3, 1, 2)
	})
	require.Error(t, err)
	var attrErr *AttributeError
	require.ErrorAs(t, err, &attrErr)
	assert.Equal(t, InsufficientData, attrErr.Kind)
	assert.Equal(t, "merge", attrErr.Op)
}

func TestSparseVecMergeBothAbsentWithoutNoneMergerFails(t *testing.T) {
	s := NewSparseVec[label](4)

	err := stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		return s.Merge(tx, 3, 1, 2)
	})
	require.Error(t, err)
	var attrErr *AttributeError
	require.ErrorAs(t, err, &attrErr)
	assert.Equal(t, InsufficientData, attrErr.Kind)
}

func TestSparseVecMergeOneSidedWithIncompleteMergerSucceeds(t *testing.T) {
	s := NewSparseVec[richLabel](4)
	stm.Atomically(func(tx *stm.Transaction) {
		s.Write(tx, 1, richLabel{name: "l"})
	})

	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		return s.Merge(tx, 3, 1, 2)
	}))

	stm.Atomically(func(tx *stm.Transaction) {
		v, ok := s.Read(tx, 3)
		require.True(t, ok)
		assert.Equal(t, "l+none", v.name)
	})
}

func TestSparseVecMergeBothAbsentWithNoneMergerSucceeds(t *testing.T) {
	s := NewSparseVec[richLabel](4)

	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		return s.Merge(tx, 3, 1, 2)
	}))

	stm.Atomically(func(tx *stm.Transaction) {
		v, ok := s.Read(tx, 3)
		require.True(t, ok)
		assert.Equal(t, "none+none", v.name)
	})
}

func TestSparseVecSplitDistributesToBothSides(t *testing.T) {
	s := NewSparseVec[label](4)
	stm.Atomically(func(tx *stm.Transaction) {
		s.Write(tx, 1, label{name: "whole"})
	})

	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		return s.Split(tx, 2, 3, 1)
	}))

	stm.Atomically(func(tx *stm.Transaction) {
		_, ok := s.Read(tx, 1)
		assert.False(t, ok)
		l, ok := s.Read(tx, 2)
		require.True(t, ok)
		assert.Equal(t, "whole", l.name)
		r, ok := s.Read(tx, 3)
		require.True(t, ok)
		assert.Equal(t, "whole", r.name)
	})
}

func TestSparseVecSplitOfUnsetLeavesBothSidesUnset(t *testing.T) {
	s := NewSparseVec[label](4)

	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		return s.Split(tx, 2, 3, 1)
	}))

	stm.Atomically(func(tx *stm.Transaction) {
		_, ok := s.Read(tx, 2)
		assert.False(t, ok)
		_, ok = s.Read(tx, 3)
		assert.False(t, ok)
	})
}
