package indexfile

import (
	"fmt"
	"sort"
)

// Validate checks ix's current in-memory state against the index format's
// invariants: sorted paths and names, offsets and secondary indices
// consistent with the sections they describe, every posting terminated by a
// zero delta, exactly one sentinel posting, and strictly increasing file IDs
// within each posting. It does not touch disk; callers that mutated ix
// directly should RecomputeOffsets first.
func Validate(ix *Index) error {
	if !sort.StringsAreSorted(ix.Paths) {
		return fmt.Errorf("indexfile: paths not sorted ascending")
	}
	if !sort.StringsAreSorted(ix.Names) {
		return fmt.Errorf("indexfile: names not sorted ascending")
	}

	check := &Index{Paths: ix.Paths, Names: ix.Names, Postings: ix.Postings}
	RecomputeOffsets(check)
	if check.Offsets != ix.Offsets {
		return fmt.Errorf("indexfile: offsets %v do not match recomputed %v", ix.Offsets, check.Offsets)
	}
	if len(check.NameIndex) != len(ix.NameIndex) {
		return fmt.Errorf("indexfile: name_index length mismatch")
	}
	for i := range check.NameIndex {
		if check.NameIndex[i] != ix.NameIndex[i] {
			return fmt.Errorf("indexfile: name_index[%d] mismatch", i)
		}
	}
	if len(check.PostingIndex) != len(ix.PostingIndex) {
		return fmt.Errorf("indexfile: posting_index length mismatch")
	}
	for i := range check.PostingIndex {
		if check.PostingIndex[i] != ix.PostingIndex[i] {
			return fmt.Errorf("indexfile: posting_index[%d] mismatch", i)
		}
	}

	sawSentinel := false
	for _, p := range ix.Postings {
		if len(p.Deltas) == 0 || p.Deltas[len(p.Deltas)-1] != 0 {
			return fmt.Errorf("indexfile: posting %x has no terminating zero delta", p.Trigram)
		}
		if p.IsSentinel() {
			if sawSentinel {
				return fmt.Errorf("indexfile: more than one sentinel posting")
			}
			sawSentinel = true
		}
		ids := p.FileIDs()
		for i := 1; i < len(ids); i++ {
			if ids[i] <= ids[i-1] {
				return fmt.Errorf("indexfile: posting %x file IDs not strictly increasing", p.Trigram)
			}
		}
	}
	if !sawSentinel {
		return fmt.Errorf("indexfile: missing sentinel posting")
	}
	return nil
}
