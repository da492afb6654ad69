// Package store implements the Context & Index Store: a directory-backed
// collection of index files keyed by a caller-supplied resolver, exposing
// the top-level operations index/search/paths_indexed/clear_indices/
// prune_paths/prune_files.
//
// It wires dispatch.Dispatcher (for index/search, which shell out to the
// external indexer/searcher binaries) and indexfile (for the in-process
// prune operations) together behind one API.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gopherindex/csindex/dispatch"
)

const (
	// DefaultIndexerPath and DefaultSearcherPath are the conventional
	// names for the two external tools, resolved via $PATH.
	DefaultIndexerPath  = "cindex"
	DefaultSearcherPath = "csearch"
)

// Context is a store directory plus the policy for routing input paths to
// index files within it. A Context is safe for concurrent use: per-index
// mutation (prune) operations serialize on an internal mutex, and every
// external-process spawn serializes on the Dispatcher's own mutex.
type Context struct {
	StoreDir     string
	Resolver     IndexResolver
	IndexerPath  string
	SearcherPath string
	Logger       *slog.Logger

	dispatcher *dispatch.Dispatcher
	mu         sync.Mutex
}

// New creates (if absent) storeDir and returns a ready Context. A nil
// resolver defaults to DefaultResolver; empty binary paths default to
// "cindex"/"csearch" on $PATH.
func New(storeDir string, resolver IndexResolver, indexerPath, searcherPath string) (*Context, error) {
	if resolver == nil {
		resolver = DefaultResolver{}
	}
	if indexerPath == "" {
		indexerPath = DefaultIndexerPath
	}
	if searcherPath == "" {
		searcherPath = DefaultSearcherPath
	}
	if err := os.MkdirAll(storeDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create store dir %s: %w", storeDir, err)
	}
	return &Context{
		StoreDir:     storeDir,
		Resolver:     resolver,
		IndexerPath:  indexerPath,
		SearcherPath: searcherPath,
		Logger:       slog.Default(),
		dispatcher:   dispatch.New(),
	}, nil
}

// DefaultStoreDir returns the dedicated directory under the user's home
// used when a caller doesn't specify one.
func DefaultStoreDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("store: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".csindex"), nil
}

// Index dispatches the indexer against a single path, returning its
// success flag.
func (c *Context) Index(ctx context.Context, path string) (bool, error) {
	target, err := c.Resolver.Resolve(c, path)
	if err != nil {
		return false, err
	}
	res, err := c.dispatcher.Run(ctx, []string{c.IndexerPath, path}, target, 0, 0)
	if err != nil {
		return false, err
	}
	return res.Success, nil
}

// IndexPaths groups paths by resolved index file and dispatches one
// indexer invocation per group, returning one success flag per group in
// first-seen order. The caller is responsible for presenting paths in
// whatever order it wants reflected in the per-group result ordering; this
// method does not sort them.
func (c *Context) IndexPaths(ctx context.Context, paths []string) ([]bool, error) {
	groups := make(map[string][]string)
	var order []string
	for _, p := range paths {
		target, err := c.Resolver.Resolve(c, p)
		if err != nil {
			return nil, err
		}
		if _, ok := groups[target]; !ok {
			order = append(order, target)
		}
		groups[target] = append(groups[target], p)
	}

	results := make([]bool, len(order))
	for i, target := range order {
		argv := append([]string{c.IndexerPath}, groups[target]...)
		res, err := c.dispatcher.Run(ctx, argv, target, 0, 0)
		if err != nil {
			return nil, err
		}
		results[i] = res.Success
	}
	return results, nil
}

// PathsIndexed dispatches `indexer -list` against every index file in the
// store and returns the union of reported paths. It raises if any
// per-index invocation fails, rather than silently reporting a partial
// union.
func (c *Context) PathsIndexed(ctx context.Context) ([]string, error) {
	files, err := c.Indices()
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{})
	for _, f := range files {
		res, err := c.dispatcher.Run(ctx, []string{c.IndexerPath, "-list"}, f, 0, 0)
		if err != nil {
			return nil, err
		}
		if !res.Success {
			return nil, fmt.Errorf("store: %s -list against %s failed", c.IndexerPath, f)
		}
		for _, line := range res.Stdout {
			if p := strings.TrimSpace(string(line)); p != "" {
				set[p] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// Indices lists the absolute paths of every file in the store directory.
func (c *Context) Indices() ([]string, error) {
	entries, err := os.ReadDir(c.StoreDir)
	if err != nil {
		return nil, fmt.Errorf("store: read store dir %s: %w", c.StoreDir, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, filepath.Join(c.StoreDir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// ClearIndices removes every file in the store directory — the
// library-level analogue of `cindex -reset` applied to the whole store
// rather than a single file.
func (c *Context) ClearIndices() error {
	files, err := c.Indices()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return fmt.Errorf("store: remove %s: %w", f, err)
		}
	}
	return nil
}
