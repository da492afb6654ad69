package indexfile

import "strings"

// PrunePaths removes every path in ix.Paths that is prefixed by any entry
// in paths (path-or-descendant, byte-exact startswith — note that this
// matches "/ab" against a prefix of "/a", not just proper path components),
// then cascades the removal through every name and posting that references
// a removed path.
//
// Idempotent on an empty paths argument.
func PrunePaths(ix *Index, paths []string) {
	if len(paths) == 0 {
		return
	}

	keptPaths := ix.Paths[:0:0]
	for _, p := range ix.Paths {
		if !hasAnyPrefix(p, paths) {
			keptPaths = append(keptPaths, p)
		}
	}
	ix.Paths = keptPaths

	var names []string
	var positions []int
	for i, n := range ix.Names {
		if hasAnyPrefix(n, paths) {
			names = append(names, n)
			positions = append(positions, i)
		}
	}
	PruneFiles(ix, names, positions)
}

// PruneFiles removes the given names (found at the given zero-based
// positions in ix.Names) from the index, remapping every posting's file-ID
// list and rebuilding the two secondary indices and trailer offsets. The
// result always ends with the sentinel posting, which is appended if the
// input had none.
//
// Idempotent on empty arguments.
func PruneFiles(ix *Index, names []string, positions []int) {
	if len(names) == 0 && len(positions) == 0 {
		return
	}

	initialCount := len(ix.Names)

	removeName := make(map[string]bool, len(names))
	for _, n := range names {
		removeName[n] = true
	}

	newNames := ix.Names[:0:0]
	for _, n := range ix.Names {
		if !removeName[n] {
			newNames = append(newNames, n)
		}
	}
	ix.Names = newNames

	removePos := make(map[int]bool, len(positions))
	for _, p := range positions {
		removePos[p] = true
	}
	oldToNew := make(map[int]int, initialCount)
	offset := 0
	for k := 0; k < initialCount; k++ {
		if removePos[k] {
			offset++
			continue
		}
		oldToNew[k] = k - offset
	}

	newPostings := make([]Posting, 0, len(ix.Postings))
	sawSentinel := false
	for _, p := range ix.Postings {
		if p.IsSentinel() {
			newPostings = append(newPostings, p)
			sawSentinel = true
			continue
		}
		var survivors []uint32
		for _, id := range p.FileIDs() {
			if newID, ok := oldToNew[int(id)]; ok {
				survivors = append(survivors, uint32(newID))
			}
		}
		if len(survivors) == 0 {
			continue
		}
		newPostings = append(newPostings, Posting{Trigram: p.Trigram, Deltas: DeltasFromIDs(survivors)})
	}
	if !sawSentinel {
		newPostings = append(newPostings, Posting{Trigram: sentinelTrigram, Deltas: []uint32{0}})
	}
	ix.Postings = newPostings

	RecomputeOffsets(ix)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
