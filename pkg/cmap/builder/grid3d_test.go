package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cmap"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

func TestHexGridDartCount(t *testing.T) {
	m, err := HexGrid[float64](GridSpec{NCells: []int{2, 2, 2}, LenPerCell: []float64{1, 1, 1}})
	require.NoError(t, err)

	assert.Equal(t, 24*2*2*2, m.NDarts()-1)
	assert.Equal(t, 0, m.NUnusedDarts())
	assert.Len(t, m.Volumes(), 8)
}

func TestHexGridEveryDartFullyLinked(t *testing.T) {
	m, err := HexGrid[float64](GridSpec{NCells: []int{2, 2, 2}, LenPerCell: []float64{1, 1, 1}})
	require.NoError(t, err)

	stm.Atomically(func(tx *stm.Transaction) {
		for d := 1; d < m.NDarts(); d++ {
			dart := cmap.DartID(d)
			assert.NotEqual(t, uint32(0), uint32(m.BetaTransac(tx, 1, dart)), "dart %d missing beta1", d)
			assert.NotEqual(t, uint32(0), uint32(m.BetaTransac(tx, 2, dart)), "dart %d missing beta2", d)
		}
	})
}

// Interior hex faces (shared between two cells) must carry a β3 link; the 6
// outer faces of the whole grid must stay 3-free.
func TestHexGridInteriorFacesAreThreeLinked(t *testing.T) {
	m, err := HexGrid[float64](GridSpec{NCells: []int{2, 1, 1}, LenPerCell: []float64{1, 1, 1}})
	require.NoError(t, err)

	linked, free := 0, 0
	stm.Atomically(func(tx *stm.Transaction) {
		for d := 1; d < m.NDarts(); d++ {
			dart := cmap.DartID(d)
			if m.BetaTransac(tx, 3, dart) == 0 {
				free++
			} else {
				linked++
			}
		}
	})
	assert.Equal(t, 8, linked) // the shared x=1 face has 4 darts on each side
	assert.Equal(t, 24*2-8, free)
}

func TestTetGridDartCountAndVolumes(t *testing.T) {
	m, err := TetGrid[float64](GridSpec{NCells: []int{2, 2, 1}, LenPerCell: []float64{1, 1, 1}})
	require.NoError(t, err)

	assert.Equal(t, 12*5*2*2*1, m.NDarts()-1)
	assert.Len(t, m.Volumes(), 5*2*2*1)
}

func TestTetGridEveryDartFullyLinked(t *testing.T) {
	m, err := TetGrid[float64](GridSpec{NCells: []int{2, 2, 2}, LenPerCell: []float64{1, 1, 1}})
	require.NoError(t, err)

	stm.Atomically(func(tx *stm.Transaction) {
		for d := 1; d < m.NDarts(); d++ {
			dart := cmap.DartID(d)
			assert.NotEqual(t, uint32(0), uint32(m.BetaTransac(tx, 1, dart)), "dart %d missing beta1", d)
			assert.NotEqual(t, uint32(0), uint32(m.BetaTransac(tx, 2, dart)), "dart %d missing beta2", d)
		}
	})
}

func TestGridRejects2DSpecIn3D(t *testing.T) {
	_, err := HexGrid[float64](GridSpec{NCells: []int{2, 2}, LenPerCell: []float64{1, 1}})
	require.Error(t, err)
}
