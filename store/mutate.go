package store

import "github.com/gopherindex/csindex/indexfile"

// PrunePaths opens every index file in the store, decodes it, applies
// indexfile.PrunePaths, and writes it back.
func (c *Context) PrunePaths(paths []string) error {
	return c.mutateEach(func(ix *indexfile.Index) {
		indexfile.PrunePaths(ix, paths)
	})
}

// PruneFiles opens every index file in the store and, within each one
// independently, removes whichever of names are actually present (names
// are matched by value; the name-index positions passed to the mutation
// engine are necessarily local to each index file).
func (c *Context) PruneFiles(names []string) error {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	return c.mutateEach(func(ix *indexfile.Index) {
		var matched []string
		var positions []int
		for i, n := range ix.Names {
			if want[n] {
				matched = append(matched, n)
				positions = append(positions, i)
			}
		}
		indexfile.PruneFiles(ix, matched, positions)
	})
}

func (c *Context) mutateEach(mutate func(*indexfile.Index)) error {
	files, err := c.Indices()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, f := range files {
		ix, err := indexfile.Decode(f)
		if err != nil {
			return err
		}
		mutate(ix)
		if err := indexfile.Encode(ix, f); err != nil {
			return err
		}
	}
	return nil
}
