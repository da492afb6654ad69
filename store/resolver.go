package store

import "path/filepath"

// IndexResolver maps an input path to the index file that should hold it.
// Callers that want to shard indices by repository, by language, or by any
// other partition implement this instead of using DefaultResolver.
type IndexResolver interface {
	Resolve(ctx *Context, inputPath string) (string, error)
}

// DefaultResolver collapses every input into a single index file named
// "index" directly under the store directory. It generalizes the teacher's
// index.File(), which resolved a single fixed $CSEARCHINDEX/.csearchindex
// path with no notion of a pluggable strategy.
type DefaultResolver struct{}

// Resolve implements IndexResolver.
func (DefaultResolver) Resolve(ctx *Context, _ string) (string, error) {
	return filepath.Join(ctx.StoreDir, "index"), nil
}
