package indexfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// Encode re-derives ix's offsets and secondary indices, then writes the
// complete on-disk representation to path in a single open, truncating any
// existing file.
//
// Section order and byte layout mirror the teacher's Writer.Flush in
// index/write.go, minus the temp-file/merge machinery that exists there only
// to build an index from scratch.
func Encode(ix *Index, path string) error {
	RecomputeOffsets(ix)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("indexfile: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(Magic); err != nil {
		return err
	}
	if err := writeStrings(w, ix.Paths); err != nil {
		return err
	}
	if err := writeStrings(w, ix.Names); err != nil {
		return err
	}
	if err := writePostings(w, ix.Postings); err != nil {
		return err
	}
	if err := writeUint32Array(w, ix.NameIndex); err != nil {
		return err
	}
	if err := writePostingIndex(w, ix.PostingIndex); err != nil {
		return err
	}
	for _, v := range []uint32{
		ix.Offsets.PathList,
		ix.Offsets.NameList,
		ix.Offsets.PostingList,
		ix.Offsets.NameIndex,
		ix.Offsets.PostingListIndex,
	} {
		if err := WriteUint32BE(w, v); err != nil {
			return err
		}
	}
	if _, err := w.WriteString(TrailerMagic); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("indexfile: write %s: %w", path, err)
	}
	return nil
}

func writeStrings(w *bufio.Writer, entries []string) error {
	for _, e := range entries {
		if _, err := w.WriteString(e); err != nil {
			return err
		}
		if err := w.WriteByte(0); err != nil {
			return err
		}
	}
	return w.WriteByte(0)
}

func writePostings(w *bufio.Writer, postings []Posting) error {
	for _, p := range postings {
		if _, err := w.Write(p.Trigram[:]); err != nil {
			return err
		}
		for _, d := range p.Deltas {
			if _, err := WriteVarint(w, d); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeUint32Array(w *bufio.Writer, entries []uint32) error {
	var buf [4]byte
	for _, v := range entries {
		binary.BigEndian.PutUint32(buf[:], v)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

func writePostingIndex(w *bufio.Writer, entries []PostingIndexEntry) error {
	var buf [4]byte
	for _, e := range entries {
		if _, err := w.Write(e.Trigram[:]); err != nil {
			return err
		}
		binary.BigEndian.PutUint32(buf[:], e.FileCount)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
		binary.BigEndian.PutUint32(buf[:], e.Offset)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeOffsets rebuilds ix.NameIndex, ix.PostingIndex, and ix.Offsets
// from ix.Paths, ix.Names, and ix.Postings. It is called automatically by
// Encode and by the mutation engine, and is otherwise safe to call any time
// the slices have been edited directly.
func RecomputeOffsets(ix *Index) {
	pathList := uint32(headerSize)

	nameList := pathList
	for _, p := range ix.Paths {
		nameList += uint32(len(p) + 1)
	}
	nameList++ // section terminator

	postingList := nameList
	nameIndex := make([]uint32, 0, len(ix.Names)+1)
	var cum uint32
	for _, n := range ix.Names {
		nameIndex = append(nameIndex, cum)
		cum += uint32(len(n) + 1)
		postingList += uint32(len(n) + 1)
	}
	nameIndex = append(nameIndex, cum)
	postingList++ // section terminator
	ix.NameIndex = nameIndex

	postingIndex := make([]PostingIndexEntry, 0, len(ix.Postings))
	var postingsLen uint32
	for _, p := range ix.Postings {
		fileCount := uint32(0)
		if len(p.Deltas) > 1 {
			fileCount = uint32(len(p.Deltas) - 1)
		}
		entryOffset := postingsLen
		entryLen := uint32(3)
		for _, d := range p.Deltas {
			entryLen += uint32(VarintSize(d))
		}
		if fileCount > 0 {
			postingIndex = append(postingIndex, PostingIndexEntry{
				Trigram:   p.Trigram,
				FileCount: fileCount,
				Offset:    entryOffset,
			})
		}
		postingsLen += entryLen
	}
	ix.PostingIndex = postingIndex

	nameIndexOff := postingList + postingsLen
	postingListIndexOff := nameIndexOff + 4*uint32(len(ix.Names)+1)

	ix.Offsets = Offsets{
		PathList:         pathList,
		NameList:         nameList,
		PostingList:      postingList,
		NameIndex:        nameIndexOff,
		PostingListIndex: postingListIndexOff,
	}
}
