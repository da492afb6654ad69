package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gopherindex/csindex/store"
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
`

func writeFakeTool(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	toolDir := t.TempDir()
	indexer := writeFakeTool(t, toolDir, "cindex", fakeIndexerScript)
	searcher := writeFakeTool(t, toolDir, "csearch", fakeSearcherScript)

	storeCtx, err := store.New(filepath.Join(t.TempDir(), "store"), nil, indexer, searcher)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(storeCtx.StoreDir, "index"), []byte("x"), 0o644))

	return New(storeCtx, "", 0, nil)
}

func TestHandleIndexSinglePath(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/index", strings.NewReader(`{"path":"/repo/a.go"}`))
	rec := httptest.NewRecorder()

	s.handleIndex(rec, req)

	var resp envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.Success)
	require.Equal(t, true, resp.Data)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestHandleIndexMultiplePaths(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/index", strings.NewReader(`{"path":["/repo/a.go","/repo/b.go"]}`))
	rec := httptest.NewRecorder()

	s.handleIndex(rec, req)

	var resp envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.Success)
	require.Equal(t, true, resp.Data)
}

func TestHandleIndexBadBodyReturnsErrorEnvelope(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/index", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()

	s.handleIndex(rec, req)

	var resp envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.False(t, resp.Success)
	require.Equal(t, "unknown error", resp.Data)
}

func TestHandleSearch(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"pattern":"hello"}`))
	rec := httptest.NewRecorder()

	s.handleSearch(rec, req)

	var resp struct {
		Success bool        `json:"success"`
		Data    []searchHit `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	require.Equal(t, searchHit{File: "/repo/a.txt", Line: 42, Text: "hello world"}, resp.Data[0])
}
