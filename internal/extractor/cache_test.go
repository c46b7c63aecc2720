package extractor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mldsl-tools/mldsl/internal/model"
)

func TestCachePath_AppendsSuffix(t *testing.T) {
	assert.Equal(t, "dump.txt.mcache", CachePath("dump.txt"))
}

func TestStoreAndLoadCached_RoundTrips(t *testing.T) {
	dumpPath := filepath.Join(t.TempDir(), "dump.txt")
	raw := []byte("# record\npath=a\n")
	records := []model.ActionRecord{{ID: "a|||||||", Path: "a"}}

	require.NoError(t, StoreCache(dumpPath, raw, records))

	got, ok := LoadCached(dumpPath, raw)
	require.True(t, ok)
	assert.Equal(t, records, got)
}

func TestLoadCached_MissingFileIsCacheMiss(t *testing.T) {
	dumpPath := filepath.Join(t.TempDir(), "dump.txt")
	_, ok := LoadCached(dumpPath, []byte("anything"))
	assert.False(t, ok)
}

func TestLoadCached_HashMismatchIsCacheMiss(t *testing.T) {
	dumpPath := filepath.Join(t.TempDir(), "dump.txt")
	require.NoError(t, StoreCache(dumpPath, []byte("original"), []model.ActionRecord{{ID: "a"}}))

	_, ok := LoadCached(dumpPath, []byte("different content"))
	assert.False(t, ok)
}
