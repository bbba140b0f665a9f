package cmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cellid"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/geometry"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// These scenario tests mirror the literal fixtures used to validate the
// engine's topological and attribute-merge behavior end to end, as opposed
// to map2_test.go/map3_test.go's narrower per-operation coverage.

func TestScenarioTriangleAssembly2D(t *testing.T) {
	m := NewMap2[float64](3)
	m.ReserveDarts(3) // NewMap2's darts start unused; the cell iterators skip unused darts
	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		if err := m.LinkBeta(tx, 1, 1, 2); err != nil {
			return err
		}
		if err := m.LinkBeta(tx, 1, 2, 3); err != nil {
			return err
		}
		return m.LinkBeta(tx, 1, 3, 1)
	}))
	stm.Atomically(func(tx *stm.Transaction) {
		m.SetVertex(tx, 1, geometry.Vertex2[float64]{X: 0, Y: 0})
		m.SetVertex(tx, 2, geometry.Vertex2[float64]{X: 1, Y: 0})
		m.SetVertex(tx, 3, geometry.Vertex2[float64]{X: 0, Y: 1})
	})

	assert.Equal(t, []DartID{1}, m.Faces())
	assert.ElementsMatch(t, []DartID{1, 2, 3}, m.Vertices())

	stm.Atomically(func(tx *stm.Transaction) {
		assert.Equal(t, []DartID{1, 2, 3}, m.FaceOrbit(tx, 1).Collect(tx))
	})
}

func TestScenarioSewingTwoTrianglesAveragesVertices2D(t *testing.T) {
	m := NewMap2[float64](6)
	m.ReserveDarts(6) // NewMap2's darts start unused; the cell iterators skip unused darts
	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		if err := m.LinkBeta(tx, 1, 1, 2); err != nil {
			return err
		}
		if err := m.LinkBeta(tx, 1, 2, 3); err != nil {
			return err
		}
		if err := m.LinkBeta(tx, 1, 3, 1); err != nil {
			return err
		}
		if err := m.LinkBeta(tx, 1, 4, 5); err != nil {
			return err
		}
		if err := m.LinkBeta(tx, 1, 5, 6); err != nil {
			return err
		}
		return m.LinkBeta(tx, 1, 6, 4)
	}))
	stm.Atomically(func(tx *stm.Transaction) {
		m.SetVertex(tx, 1, geometry.Vertex2[float64]{X: 0, Y: 0})
		m.SetVertex(tx, 2, geometry.Vertex2[float64]{X: 1, Y: 0})
		m.SetVertex(tx, 3, geometry.Vertex2[float64]{X: 0, Y: 1})
		m.SetVertex(tx, 4, geometry.Vertex2[float64]{X: 0, Y: 2})
		m.SetVertex(tx, 5, geometry.Vertex2[float64]{X: 2, Y: 0})
		m.SetVertex(tx, 6, geometry.Vertex2[float64]{X: 1, Y: 1})
	})

	require.NoError(t, m.TwoSew(2, 4))

	stm.Atomically(func(tx *stm.Transaction) {
		v2, ok := m.Vertex(tx, m.VertexID(tx, 2))
		require.True(t, ok)
		assert.Equal(t, geometry.Vertex2[float64]{X: 1.5, Y: 0}, v2)

		v3, ok := m.Vertex(tx, m.VertexID(tx, 3))
		require.True(t, ok)
		assert.Equal(t, geometry.Vertex2[float64]{X: 0, Y: 1.5}, v3)
	})

	assert.ElementsMatch(t, []DartID{1, 2, 3, 5, 6}, m.Edges())
}

func TestScenarioBadOrientationRejected2D(t *testing.T) {
	m := NewMap2[float64](4)
	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		if err := m.LinkBeta(tx, 1, 1, 2); err != nil {
			return err
		}
		return m.LinkBeta(tx, 1, 3, 4)
	}))
	stm.Atomically(func(tx *stm.Transaction) {
		// Both edges point "upward": 1->2 and 3->4 run in the same
		// direction, so pairing them would invert the shared boundary.
		m.SetVertex(tx, 1, geometry.Vertex2[float64]{X: 0, Y: 0})
		m.SetVertex(tx, 2, geometry.Vertex2[float64]{X: 0, Y: 1})
		m.SetVertex(tx, 3, geometry.Vertex2[float64]{X: 1, Y: 0})
		m.SetVertex(tx, 4, geometry.Vertex2[float64]{X: 1, Y: 1})
	})

	var betaBefore [3][5]DartID
	stm.Atomically(func(tx *stm.Transaction) {
		for i := 0; i <= 2; i++ {
			for d := DartID(1); d <= 4; d++ {
				betaBefore[i][d] = m.BetaTransac(tx, i, d)
			}
		}
	})

	err := m.TwoSew(1, 3)
	require.Error(t, err)
	var sewErr *SewError
	require.ErrorAs(t, err, &sewErr)
	require.NotNil(t, sewErr.Geometry)
	assert.Equal(t, BadGeometryError{I: 2, A: 1, B: 3}, *sewErr.Geometry)

	stm.Atomically(func(tx *stm.Transaction) {
		for i := 0; i <= 2; i++ {
			for d := DartID(1); d <= 4; d++ {
				assert.Equal(t, betaBefore[i][d], m.BetaTransac(tx, i, d))
			}
		}
		v1, _ := m.Vertex(tx, m.VertexID(tx, 1))
		assert.Equal(t, geometry.Vertex2[float64]{X: 0, Y: 0}, v1)
		v3, _ := m.Vertex(tx, m.VertexID(tx, 3))
		assert.Equal(t, geometry.Vertex2[float64]{X: 1, Y: 0}, v3)
	})
}

func TestScenarioReleaseRequiresFreeness(t *testing.T) {
	m := NewMap2[float64](2)
	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		return m.LinkBeta(tx, 1, 1, 2)
	}))

	err := m.RemoveFreeDart(1)
	require.Error(t, err)
	var relErr *DartReleaseError
	require.ErrorAs(t, err, &relErr)

	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		return m.UnlinkBeta(tx, 1, 1)
	}))
	require.NoError(t, m.RemoveFreeDart(1))
	assert.True(t, m.IsUnused(1))

	// Releasing an already-unused, already-free dart is idempotent.
	require.NoError(t, m.RemoveFreeDart(1))
}

// weight is a minimal integer attribute used only to exercise the manager's
// merge path directly, the way a user-registered attribute would.
type weight struct {
	n int
}

func (w weight) Merge(other weight) weight   { return weight{n: w.n + other.n} }
func (w weight) Split() (weight, weight)     { return w, w }
func (weight) BindOrbit() cellid.BindOrbit   { return cellid.Vertex }

func TestScenarioTransactionalMergeOfAttribute(t *testing.T) {
	m := NewMap2[float64](3)
	weights := AddAttribute2[float64, weight](m, 4)

	stm.Atomically(func(tx *stm.Transaction) {
		weights.Write(tx, 1, weight{n: 10})
		weights.Write(tx, 3, weight{n: 15})
	})

	require.NoError(t, stm.AtomicallyWithErr(func(tx *stm.Transaction) error {
		return m.core.attrs.MergeAttributes(tx, cellid.Vertex, 2, 1, 3)
	}))

	stm.Atomically(func(tx *stm.Transaction) {
		v, ok := weights.Read(tx, 2)
		require.True(t, ok)
		assert.Equal(t, 25, v.n)

		_, ok = weights.Read(tx, 1)
		assert.False(t, ok)
		_, ok = weights.Read(tx, 3)
		assert.False(t, ok)
	})
}

// TestScenarioThreeSewReducesFaceCountKeepsVolumesDistinct is a simplified
// stand-in for sewing two tetrahedra across a shared face: two standalone
// triangular faces (rather than full closed volumes) are 3-sewn, which is
// enough to exercise the two invariants the full scenario cares about. The
// shared boundary becomes a single face, and since the volume orbit's
// generator set never walks β3, the two volumes stay distinct identities
// throughout.
func TestScenarioThreeSewReducesFaceCountKeepsVolumesDistinct(t *testing.T) {
	m := NewMap3[float64](6)
	threeTriangle(t, m, 1)
	threeTriangle(t, m, 4)

	var faceID1Before, faceID4Before, volID1Before, volID4Before DartID
	stm.Atomically(func(tx *stm.Transaction) {
		faceID1Before = m.FaceID(tx, 1)
		faceID4Before = m.FaceID(tx, 4)
		volID1Before = m.VolumeID(tx, 1)
		volID4Before = m.VolumeID(tx, 4)
	})
	assert.NotEqual(t, faceID1Before, faceID4Before)
	assert.NotEqual(t, volID1Before, volID4Before)

	require.NoError(t, m.ThreeSew(1, 4))

	stm.Atomically(func(tx *stm.Transaction) {
		assert.Equal(t, m.FaceID(tx, 1), m.FaceID(tx, 4))
		assert.Equal(t, volID1Before, m.VolumeID(tx, 1))
		assert.Equal(t, volID4Before, m.VolumeID(tx, 4))
		assert.NotEqual(t, m.VolumeID(tx, 1), m.VolumeID(tx, 4))
	})
}
