// Package indexfile implements the binary on-disk format used by the
// classic cindex/csearch trigram toolchain: an in-memory data model, a
// byte-exact codec to read and write it, and a mutation engine that prunes
// paths or files from an already-built index without re-indexing from
// scratch.
//
// The format is a handful of concatenated sections followed by a trailer
// of absolute offsets:
//
//	header(16) · paths · names · postings · name_index · posting_index · offsets(20) · trailer(16)
//
// Every multi-byte integer is big-endian; posting deltas are unsigned
// LEB128-style varints.
package indexfile

import "fmt"

// Magic is the literal 16-byte header every index file begins with.
const Magic = "csearch index 1\n"

// TrailerMagic is the literal 16-byte trailer every index file ends with.
const TrailerMagic = "\ncsearch trailr\n"

const (
	headerSize  = len(Magic)
	trailerSize = len(TrailerMagic)
	offsetsSize = 5 * 4
)

// sentinelTrigram terminates the Postings section. No other posting may
// carry it.
var sentinelTrigram = [3]byte{0xFF, 0xFF, 0xFF}

// Posting is a single trigram's file-ID list, stored as deltas against a
// virtual predecessor of -1. The final delta is always 0.
type Posting struct {
	Trigram [3]byte
	Deltas  []uint32
}

// IsSentinel reports whether p is the Postings-section terminator.
func (p Posting) IsSentinel() bool {
	return p.Trigram == sentinelTrigram
}

// FileIDs expands p's deltas into the file IDs they encode, per
// file_ids(p) = prefix_sums(p.deltas)[:len-1] - 1.
func (p Posting) FileIDs() []uint32 {
	if len(p.Deltas) <= 1 {
		return nil
	}
	ids := make([]uint32, 0, len(p.Deltas)-1)
	var sum uint64
	for _, d := range p.Deltas[:len(p.Deltas)-1] {
		sum += uint64(d)
		ids = append(ids, uint32(sum-1))
	}
	return ids
}

// DeltasFromIDs is the inverse of FileIDs: given a strictly increasing list
// of file IDs, it returns the delta-encoding, always ending in 0.
func DeltasFromIDs(ids []uint32) []uint32 {
	deltas := make([]uint32, 0, len(ids)+1)
	var prev int64 = -1
	for _, id := range ids {
		deltas = append(deltas, uint32(int64(id)-prev))
		prev = int64(id)
	}
	return append(deltas, 0)
}

// PostingIndexEntry is a secondary-index row enabling random access into
// the Postings section.
type PostingIndexEntry struct {
	Trigram   [3]byte
	FileCount uint32
	Offset    uint32
}

// Offsets holds the five absolute byte offsets stored in the trailer.
type Offsets struct {
	PathList         uint32
	NameList         uint32
	PostingList      uint32
	NameIndex        uint32
	PostingListIndex uint32
}

// Index is the full in-memory representation of an index file.
type Index struct {
	Paths        []string
	Names        []string
	Postings     []Posting
	NameIndex    []uint32
	PostingIndex []PostingIndexEntry
	Offsets      Offsets
}

// NewEmpty returns a minimal valid Index: no paths, no names, only the
// sentinel posting.
func NewEmpty() *Index {
	ix := &Index{
		Postings: []Posting{{Trigram: sentinelTrigram, Deltas: []uint32{0}}},
	}
	RecomputeOffsets(ix)
	return ix
}

func (o Offsets) String() string {
	return fmt.Sprintf("{path_list:%d name_list:%d posting_list:%d name_index:%d posting_list_index:%d}",
		o.PathList, o.NameList, o.PostingList, o.NameIndex, o.PostingListIndex)
}
