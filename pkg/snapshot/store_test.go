package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAssignsIncrementingVersions(t *testing.T) {
	s := openTestStore(t)

	v1, err := s.Save("cube", 3, []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v1)

	v2, err := s.Save("cube", 3, []byte("second"))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), v2)
}

func TestLoadLatestDefaultsToHighestVersion(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Save("grid", 2, []byte("v1"))
	require.NoError(t, err)
	_, err = s.Save("grid", 2, []byte("v2"))
	require.NoError(t, err)

	rec, err := s.Load("grid", 0)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(rec.Data))
	assert.Equal(t, uint32(2), rec.Version)
}

func TestLoadSpecificVersion(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Save("grid", 2, []byte("v1"))
	require.NoError(t, err)
	_, err = s.Save("grid", 2, []byte("v2"))
	require.NoError(t, err)

	rec, err := s.Load("grid", 1)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(rec.Data))
}

func TestLoadUnknownNameReturnsNotFoundError(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Load("missing", 0)
	require.Error(t, err)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.Name)
}

func TestLoadUnknownVersionReturnsNotFoundError(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Save("grid", 2, []byte("v1"))
	require.NoError(t, err)

	_, err = s.Load("grid", 99)
	require.Error(t, err)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, uint32(99), nf.Version)
}

func TestHistoryListsAllVersionsWithoutPayload(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Save("grid", 2, []byte("abc"))
	require.NoError(t, err)
	_, err = s.Save("grid", 2, []byte("abcdef"))
	require.NoError(t, err)

	metas, err := s.History("grid")
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, 3, metas[0].Size)
	assert.Equal(t, 6, metas[1].Size)
}

func TestNamesListsEverySavedSnapshot(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Save("cube", 3, []byte("a"))
	require.NoError(t, err)
	_, err = s.Save("hex", 3, []byte("b"))
	require.NoError(t, err)

	names, err := s.Names()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cube", "hex"}, names)
}

func TestDeleteRemovesAllVersions(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Save("cube", 3, []byte("a"))
	require.NoError(t, err)

	require.NoError(t, s.Delete("cube"))

	_, err = s.Load("cube", 0)
	require.Error(t, err)
}

func TestDeleteUnknownNameReturnsNotFoundError(t *testing.T) {
	s := openTestStore(t)

	err := s.Delete("missing")
	require.Error(t, err)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}
