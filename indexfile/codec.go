package indexfile

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadUint32BE reads exactly 4 bytes from r and returns the big-endian
// value they encode.
func ReadUint32BE(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// WriteUint32BE writes v to w as 4 big-endian bytes.
func WriteUint32BE(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadVarint reads an unsigned LEB128-style varint: 7-bit groups,
// low-to-high, continuation signaled by the high bit. At least one byte is
// consumed.
func ReadVarint(r io.ByteReader) (uint64, error) {
	var x uint64
	var shift uint
	for i := 0; ; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b < 0x80 {
			if shift >= 64 {
				return 0, fmt.Errorf("indexfile: varint overflow")
			}
			return x | uint64(b)<<shift, nil
		}
		x |= uint64(b&0x7f) << shift
		shift += 7
	}
}

// WriteVarint encodes v as an unsigned varint and writes it to w, returning
// the number of bytes written.
func WriteVarint(w io.Writer, v uint32) (int, error) {
	var buf [5]byte
	n := 0
	for v >= 0x80 {
		buf[n] = byte(v) | 0x80
		v >>= 7
		n++
	}
	buf[n] = byte(v)
	n++
	return w.Write(buf[:n])
}

// VarintSize returns the number of bytes WriteVarint would emit for v.
func VarintSize(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
