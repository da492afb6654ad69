package indexfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

// Decode reads the index file at path into an in-memory Index.
//
// Grounded on the teacher's index/read.go Open/slice/uint32/uvarint
// sequence, but operating over a fully materialized byte slice instead of
// an mmap — mutation requires the whole file in memory, so there is no
// benefit to lazy random access here.
func Decode(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("indexfile: read %s: %w", path, err)
	}
	return decodeBytes(path, data)
}

func decodeBytes(path string, data []byte) (*Index, error) {
	if len(data) < headerSize+trailerSize+offsetsSize {
		return nil, &CorruptIndexError{Path: path, Reason: "file too small"}
	}
	if string(data[:headerSize]) != Magic {
		return nil, &CorruptIndexError{Path: path, Reason: "bad header"}
	}
	trailerStart := len(data) - trailerSize
	if string(data[trailerStart:]) != TrailerMagic {
		return nil, &CorruptIndexError{Path: path, Reason: "bad trailer"}
	}

	offsetsStart := trailerStart - offsetsSize
	if offsetsStart < headerSize {
		return nil, &CorruptIndexError{Path: path, Reason: "truncated offsets"}
	}
	var raw [5]uint32
	for i := range raw {
		raw[i] = binary.BigEndian.Uint32(data[offsetsStart+4*i:])
	}
	offsets := Offsets{
		PathList:         raw[0],
		NameList:         raw[1],
		PostingList:      raw[2],
		NameIndex:        raw[3],
		PostingListIndex: raw[4],
	}

	if err := checkBounds(path, offsets, uint32(offsetsStart)); err != nil {
		return nil, err
	}

	paths := readStrings(data[offsets.PathList:offsets.NameList])
	names := readStrings(data[offsets.NameList:offsets.PostingList])

	postings, err := readPostings(path, data[offsets.PostingList:offsets.NameIndex])
	if err != nil {
		return nil, err
	}

	nameIndex := readUint32Array(data[offsets.NameIndex:offsets.PostingListIndex])

	postingIndex, err := readPostingIndex(path, data[offsets.PostingListIndex:offsetsStart])
	if err != nil {
		return nil, err
	}

	return &Index{
		Paths:        paths,
		Names:        names,
		Postings:     postings,
		NameIndex:    nameIndex,
		PostingIndex: postingIndex,
		Offsets:      offsets,
	}, nil
}

func checkBounds(path string, o Offsets, end uint32) error {
	if !(o.PathList <= o.NameList && o.NameList <= o.PostingList &&
		o.PostingList <= o.NameIndex && o.NameIndex <= o.PostingListIndex &&
		o.PostingListIndex <= end) {
		return &CorruptIndexError{Path: path, Reason: "offsets out of order"}
	}
	return nil
}

// readStrings splits a Strings-section payload on NUL bytes, dropping the
// empty entries produced by each entry's own terminator and by the
// section's final terminator byte.
func readStrings(b []byte) []string {
	parts := bytes.Split(b, []byte{0})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		out = append(out, string(p))
	}
	return out
}

// readPostings decodes the Postings section, stopping at the sentinel or
// at the end of the provided slice — whichever comes first. The slice
// bound, not the sentinel, is authoritative: a posting list whose
// sentinel is missing is still read in full.
func readPostings(path string, b []byte) ([]Posting, error) {
	var out []Posting
	pos := 0
	for pos < len(b) {
		if pos+3 > len(b) {
			return nil, &CorruptIndexError{Path: path, Reason: "truncated posting trigram"}
		}
		var tri [3]byte
		copy(tri[:], b[pos:pos+3])
		pos += 3

		var deltas []uint32
		for {
			v, n := binary.Uvarint(b[pos:])
			if n <= 0 {
				return nil, &CorruptIndexError{Path: path, Reason: "malformed varint in posting list"}
			}
			pos += n
			deltas = append(deltas, uint32(v))
			if v == 0 {
				break
			}
		}
		p := Posting{Trigram: tri, Deltas: deltas}
		out = append(out, p)
		if p.IsSentinel() {
			break
		}
	}
	return out, nil
}

func readUint32Array(b []byte) []uint32 {
	n := len(b) / 4
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = binary.BigEndian.Uint32(b[4*i:])
	}
	return out
}

const postingIndexEntrySize = 3 + 4 + 4

func readPostingIndex(path string, b []byte) ([]PostingIndexEntry, error) {
	if len(b)%postingIndexEntrySize != 0 {
		return nil, &CorruptIndexError{Path: path, Reason: "posting index size not a multiple of entry size"}
	}
	n := len(b) / postingIndexEntrySize
	out := make([]PostingIndexEntry, n)
	for i := 0; i < n; i++ {
		off := i * postingIndexEntrySize
		var tri [3]byte
		copy(tri[:], b[off:off+3])
		out[i] = PostingIndexEntry{
			Trigram:   tri,
			FileCount: binary.BigEndian.Uint32(b[off+3:]),
			Offset:    binary.BigEndian.Uint32(b[off+7:]),
		}
	}
	return out, nil
}
