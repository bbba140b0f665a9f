package ioformat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cmap/builder"
)

func TestRoundTrip2D(t *testing.T) {
	m, err := builder.UnitGrid[float64](builder.GridSpec{NCells: []int{2, 2}, LenPerCell: []float64{1, 1}})
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, Write2(&buf, m))

	got, err := Read2[float64](strings.NewReader(buf.String()))
	require.NoError(t, err)

	assert.Equal(t, m.NDarts(), got.NDarts())
	assert.ElementsMatch(t, m.Faces(), got.Faces())
	assert.ElementsMatch(t, m.Vertices(), got.Vertices())
}

func TestParseRejectsUnknownHeader(t *testing.T) {
	_, err := Read2[float64](strings.NewReader("[bogus]\n1 2 3\n"))
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, UnknownHeader, e.Kind)
}

func TestParseRejectsDuplicateSection(t *testing.T) {
	content := "[meta]\nfmt 2 1\n[meta]\nfmt 2 1\n[betas]\n0 0\n0 0\n0 0\n"
	_, err := Read2[float64](strings.NewReader(content))
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, DuplicatedSection, e.Kind)
}

func TestParseRejectsMissingBetas(t *testing.T) {
	_, err := Read2[float64](strings.NewReader("[meta]\nfmt 2 1\n"))
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, MissingSection, e.Kind)
}

func TestParseRejectsBadMetaTokenCount(t *testing.T) {
	_, err := Read2[float64](strings.NewReader("[meta]\nfmt 2\n[betas]\n0\n0\n0\n"))
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, BadMetaData, e.Kind)
}

func TestParseIgnoresCommentsAndBlankLines(t *testing.T) {
	content := "# a comment\n[meta]\nfmt 2 1 # trailing comment\n\n[betas]\n0 0\n0 0\n0 0\n"
	m, err := Read2[float64](strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, 2, m.NDarts())
}
