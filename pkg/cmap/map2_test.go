package cmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/geometry"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

func TestNewMap2StartsWithAllDartsUnused(t *testing.T) {
	m := NewMap2[float64](4)
	assert.Equal(t, 5, m.NDarts()) // +1 for the null dart
	assert.Equal(t, 4, m.NUnusedDarts())
	for d := DartID(1); d <= 4; d++ {
		assert.True(t, m.IsUnused(d))
	}
}

func TestReserveDartsClaimsUnusedBeforeGrowing(t *testing.T) {
	m := NewMap2[float64](2)
	ids := m.ReserveDarts(2)
	assert.ElementsMatch(t, []DartID{1, 2}, ids)
	assert.Equal(t, 0, m.NUnusedDarts())

	more := m.ReserveDarts(1)
	require.Len(t, more, 1)
	assert.Equal(t, 4, m.NDarts()) // grew by one slot beyond the original 2+null
}

func TestRemoveFreeDartRejectsNonFreeDart(t *testing.T) {
	m := NewMap2[float64](2)
	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		return m.LinkBeta(tx, 1, 1, 2)
	}))

	err := m.RemoveFreeDart(1)
	require.Error(t, err)
	var relErr *DartReleaseError
	require.ErrorAs(t, err, &relErr)
	assert.Equal(t, DartID(1), relErr.Dart)
}

func TestLinkBetaRejectsNonFreeBase(t *testing.T) {
	m := NewMap2[float64](3)
	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		return m.LinkBeta(tx, 1, 1, 2)
	}))

	err := stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		return m.LinkBeta(tx, 1, 1, 3)
	})
	require.Error(t, err)
	var linkErr *LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, NonFreeBase, linkErr.Kind)
}

func TestUnlinkBetaRejectsAlreadyFreeDart(t *testing.T) {
	m := NewMap2[float64](2)
	err := stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		return m.UnlinkBeta(tx, 1, 1)
	})
	require.Error(t, err)
	var linkErr *LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, AlreadyFree, linkErr.Kind)
}

func TestOneSewDegradesToLinkWhenEdgeUndefined(t *testing.T) {
	m := NewMap2[float64](2)
	require.NoError(t, m.OneSew(1, 2))

	stm.Atomically(func(tx *stm.Transaction) {
		assert.Equal(t, DartID(2), m.BetaTransac(tx, 1, 1))
		assert.Equal(t, DartID(1), m.BetaTransac(tx, 0, 2))
	})
}

func TestOneSewMergesVertexAttributeWhenEdgeAlreadyDefined(t *testing.T) {
	m := NewMap2[float64](4)
	// Gives dart 1 a defined β2 image (dart 3), a pure-link 2-sew since
	// neither side has a β1 successor yet.
	require.NoError(t, m.TwoSew(1, 3))

	stm.Atomically(func(tx *stm.Transaction) {
		m.SetVertex(tx, 3, geometry.Vertex2[float64]{X: 2, Y: 2})
		m.SetVertex(tx, 2, geometry.Vertex2[float64]{X: 4, Y: 4})
	})

	require.NoError(t, m.OneSew(1, 2))

	stm.Atomically(func(tx *stm.Transaction) {
		vid := m.VertexID(tx, 2)
		v, ok := m.Vertex(tx, vid)
		require.True(t, ok)
		assert.Equal(t, geometry.Vertex2[float64]{X: 3, Y: 3}, v)
	})
}

func TestOneUnsewIsInverseOfOneSew(t *testing.T) {
	m := NewMap2[float64](2)
	require.NoError(t, m.OneSew(1, 2))
	require.NoError(t, m.OneUnsew(1))

	stm.Atomically(func(tx *stm.Transaction) {
		assert.True(t, m.BetaTransac(tx, 1, 1).IsNull())
		assert.True(t, m.BetaTransac(tx, 0, 2).IsNull())
	})
}

func TestTwoSewRejectsOrientationInversion(t *testing.T) {
	m := NewMap2[float64](4)
	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		if err := m.LinkBeta(tx, 1, 1, 2); err != nil {
			return err
		}
		return m.LinkBeta(tx, 1, 3, 4)
	}))
	stm.Atomically(func(tx *stm.Transaction) {
		m.SetVertex(tx, 1, geometry.Vertex2[float64]{X: 0, Y: 0})
		m.SetVertex(tx, 2, geometry.Vertex2[float64]{X: 1, Y: 0})
		m.SetVertex(tx, 3, geometry.Vertex2[float64]{X: 0, Y: 0})
		m.SetVertex(tx, 4, geometry.Vertex2[float64]{X: 1, Y: 0})
	})

	// Both edges run in the same direction, so pairing them would invert
	// the shared boundary's orientation.
	err := m.TwoSew(1, 3)
	require.Error(t, err)
	var sewErr *SewError
	require.ErrorAs(t, err, &sewErr)
	require.NotNil(t, sewErr.Geometry)
	assert.Equal(t, 2, sewErr.Geometry.I)
}

func TestTwoSewAcceptsOppositeOrientedEdges(t *testing.T) {
	m := NewMap2[float64](4)
	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		if err := m.LinkBeta(tx, 1, 1, 2); err != nil {
			return err
		}
		return m.LinkBeta(tx, 1, 4, 3)
	}))
	stm.Atomically(func(tx *stm.Transaction) {
		m.SetVertex(tx, 1, geometry.Vertex2[float64]{X: 0, Y: 0})
		m.SetVertex(tx, 2, geometry.Vertex2[float64]{X: 1, Y: 0})
		m.SetVertex(tx, 4, geometry.Vertex2[float64]{X: 1, Y: 0})
		m.SetVertex(tx, 3, geometry.Vertex2[float64]{X: 0, Y: 0})
	})

	require.NoError(t, m.TwoSew(1, 4))

	stm.Atomically(func(tx *stm.Transaction) {
		assert.Equal(t, DartID(4), m.BetaTransac(tx, 2, 1))
		assert.Equal(t, DartID(1), m.BetaTransac(tx, 2, 4))
	})
}

func TestSquareFaceHasOneFaceFourVerticesFourEdges(t *testing.T) {
	m := NewMap2[float64](4)
	m.ReserveDarts(4) // NewMap2's darts start unused; the cell iterators skip unused darts
	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		if err := m.LinkBeta(tx, 1, 1, 2); err != nil {
			return err
		}
		if err := m.LinkBeta(tx, 1, 2, 3); err != nil {
			return err
		}
		if err := m.LinkBeta(tx, 1, 3, 4); err != nil {
			return err
		}
		return m.LinkBeta(tx, 1, 4, 1)
	}))

	stats := m.Stats()
	assert.Equal(t, 1, stats.NFaces)
	assert.Equal(t, 4, stats.NVertices)
	assert.Equal(t, 4, stats.NEdges)
}
