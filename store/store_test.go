package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gopherindex/csindex/indexfile"
)

const fakeIndexerScript = `#!/bin/sh
idx="$CSEARCHINDEX"
if [ "$1" = "-list" ]; then
  if [ -f "$idx" ]; then cat "$idx"; fi
  exit 0
fi
for p in "$@"; do echo "$p" >> "$idx"; done
exit 0
`

const fakeSearcherScript = `#!/bin/sh
echo "/repo/a.txt:42:hello world"
echo "malformed"
echo "/repo/b.txt:notanumber:oops"
`

func writeFakeTool(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func newTestContext(t *testing.T, indexer, searcher string) *Context {
	t.Helper()
	storeDir := filepath.Join(t.TempDir(), "store")
	c, err := New(storeDir, nil, indexer, searcher)
	require.NoError(t, err)
	return c
}

func TestIndexAndPathsIndexed(t *testing.T) {
	toolDir := t.TempDir()
	indexer := writeFakeTool(t, toolDir, "cindex", fakeIndexerScript)
	c := newTestContext(t, indexer, "")

	ok, err := c.Index(context.Background(), "/repo/a.go")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.Index(context.Background(), "/repo/b.go")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := c.PathsIndexed(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"/repo/a.go", "/repo/b.go"}, got)
}

func TestIndexPathsGroupsByResolvedTarget(t *testing.T) {
	toolDir := t.TempDir()
	indexer := writeFakeTool(t, toolDir, "cindex", fakeIndexerScript)
	c := newTestContext(t, indexer, "")

	results, err := c.IndexPaths(context.Background(), []string{"/repo/a.go", "/repo/b.go"})
	require.NoError(t, err)
	require.Equal(t, []bool{true}, results) // DefaultResolver collapses both into one group
}

func TestIndicesAndClearIndices(t *testing.T) {
	c := newTestContext(t, "cindex", "csearch")
	require.NoError(t, os.WriteFile(filepath.Join(c.StoreDir, "index"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(c.StoreDir, "index~"), []byte("y"), 0o644))

	files, err := c.Indices()
	require.NoError(t, err)
	require.Len(t, files, 2)

	require.NoError(t, c.ClearIndices())
	files, err = c.Indices()
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestPrunePathsAcrossStore(t *testing.T) {
	c := newTestContext(t, "cindex", "csearch")

	ix := &indexfile.Index{
		Paths: []string{"/a"},
		Names: []string{"/a/x"},
		Postings: []indexfile.Posting{
			{Trigram: [3]byte{'a', 'b', 'c'}, Deltas: []uint32{1, 0}},
		},
	}
	path := filepath.Join(c.StoreDir, "index")
	require.NoError(t, indexfile.Encode(ix, path))

	require.NoError(t, c.PrunePaths([]string{"/a"}))

	got, err := indexfile.Decode(path)
	require.NoError(t, err)
	require.Empty(t, got.Paths)
	require.Empty(t, got.Names)
	require.Len(t, got.Postings, 1)
	require.True(t, got.Postings[0].IsSentinel())
}

func TestSearchParsesAndDropsMalformedLines(t *testing.T) {
	toolDir := t.TempDir()
	searcher := writeFakeTool(t, toolDir, "csearch", fakeSearcherScript)
	c := newTestContext(t, "", searcher)
	require.NoError(t, os.WriteFile(filepath.Join(c.StoreDir, "index"), []byte("x"), 0o644))

	results, err := c.Search(context.Background(), "hello", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, SearchResult{File: "/repo/a.txt", Line: 42, Text: "hello world"}, results[0])
}
