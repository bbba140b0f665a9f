package cmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/geometry"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// threeTriangle builds a standalone triangular face (three darts in a β1
// cycle starting at first) with no β2/β3 links, for use as one side of a
// ThreeSew.
func threeTriangle(t *testing.T, m *Map3[float64], first DartID) {
	t.Helper()
	a, b, c := first, first+1, first+2
	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		if err := m.LinkBeta(tx, 1, a, b); err != nil {
			return err
		}
		if err := m.LinkBeta(tx, 1, b, c); err != nil {
			return err
		}
		return m.LinkBeta(tx, 1, c, a)
	}))
}

func TestThreeSewPairsMatchingFaceCyclesViaBeta3(t *testing.T) {
	m := NewMap3[float64](6)
	threeTriangle(t, m, 1)
	threeTriangle(t, m, 4)

	require.NoError(t, m.ThreeSew(1, 4))

	stm.Atomically(func(tx *stm.Transaction) {
		assert.Equal(t, DartID(4), m.BetaTransac(tx, 3, 1))
		assert.Equal(t, DartID(5), m.BetaTransac(tx, 3, 2))
		assert.Equal(t, DartID(6), m.BetaTransac(tx, 3, 3))
	})
}

func TestThreeSewRejectsMismatchedCycleLengths(t *testing.T) {
	m := NewMap3[float64](7)
	threeTriangle(t, m, 1)
	// A standalone 4-cycle: darts 4,5,6,7.
	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		if err := m.LinkBeta(tx, 1, 4, 5); err != nil {
			return err
		}
		if err := m.LinkBeta(tx, 1, 5, 6); err != nil {
			return err
		}
		if err := m.LinkBeta(tx, 1, 6, 7); err != nil {
			return err
		}
		return m.LinkBeta(tx, 1, 7, 4)
	}))

	err := m.ThreeSew(1, 4)
	require.Error(t, err)
	var sewErr *SewError
	require.ErrorAs(t, err, &sewErr)
	require.NotNil(t, sewErr.Geometry)
	assert.Equal(t, 3, sewErr.Geometry.I)
}

func TestThreeUnsewIsInverseOfThreeSew(t *testing.T) {
	m := NewMap3[float64](6)
	threeTriangle(t, m, 1)
	threeTriangle(t, m, 4)
	require.NoError(t, m.ThreeSew(1, 4))

	require.NoError(t, m.ThreeUnsew(1))

	stm.Atomically(func(tx *stm.Transaction) {
		assert.True(t, m.BetaTransac(tx, 3, 1).IsNull())
		assert.True(t, m.BetaTransac(tx, 3, 2).IsNull())
		assert.True(t, m.BetaTransac(tx, 3, 3).IsNull())
	})
}

func TestThreeSewWithVertexAttributesSetDoesNotError(t *testing.T) {
	m := NewMap3[float64](6)
	threeTriangle(t, m, 1)
	threeTriangle(t, m, 4)

	stm.Atomically(func(tx *stm.Transaction) {
		m.SetVertex(tx, 1, geometry.Vertex3[float64]{X: 0, Y: 0, Z: 0})
		m.SetVertex(tx, 2, geometry.Vertex3[float64]{X: 1, Y: 0, Z: 0})
		m.SetVertex(tx, 3, geometry.Vertex3[float64]{X: 0, Y: 1, Z: 0})
		// The second face is wound the other way, so its root edge 4->5
		// runs opposite to 1->2 and the orientation check accepts the sew.
		m.SetVertex(tx, 4, geometry.Vertex3[float64]{X: 1, Y: 0, Z: 1})
		m.SetVertex(tx, 5, geometry.Vertex3[float64]{X: 0, Y: 0, Z: 1})
		m.SetVertex(tx, 6, geometry.Vertex3[float64]{X: 0, Y: 1, Z: 1})
	})

	require.NoError(t, m.ThreeSew(1, 4))
}

func TestThreeUnsewRejectsAlreadyFreeFace(t *testing.T) {
	m := NewMap3[float64](3)
	threeTriangle(t, m, 1)

	err := m.ThreeUnsew(1)
	require.Error(t, err)
	var sewErr *SewError
	require.ErrorAs(t, err, &sewErr)
	require.NotNil(t, sewErr.Link)
	assert.Equal(t, AlreadyFree, sewErr.Link.Kind)
}
