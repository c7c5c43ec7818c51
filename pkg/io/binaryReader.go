package io

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxArraySize is the maximum size of a byte slice or string which can be
// decoded.
const MaxArraySize = 0x1000000

// BinReader is a convenient wrapper around a byte slice and err object.
// Used to simplify error handling when reading into a struct with many fields.
type BinReader struct {
	data []byte
	pos  int
	Err  error
}

// NewBinReaderFromBuf makes a BinReader from byte buffer.
func NewBinReaderFromBuf(b []byte) *BinReader {
	return &BinReader{data: b}
}

// Len returns the number of unread bytes.
func (r *BinReader) Len() int {
	return len(r.data) - r.pos
}

// ReadU64LE reads a little-endian encoded uint64 value.
func (r *BinReader) ReadU64LE() uint64 {
	if r.Err == nil {
		if pos := r.pos; pos+8 <= len(r.data) {
			r.pos += 8
			return binary.LittleEndian.Uint64(r.data[pos:])
		}
		r.Err = io.ErrUnexpectedEOF
	}
	return 0
}

// ReadU32LE reads a little-endian encoded uint32 value.
func (r *BinReader) ReadU32LE() uint32 {
	if r.Err == nil {
		if pos := r.pos; pos+4 <= len(r.data) {
			r.pos += 4
			return binary.LittleEndian.Uint32(r.data[pos:])
		}
		r.Err = io.ErrUnexpectedEOF
	}
	return 0
}

// ReadU16LE reads a little-endian encoded uint16 value.
func (r *BinReader) ReadU16LE() uint16 {
	if r.Err == nil {
		if pos := r.pos; pos+2 <= len(r.data) {
			r.pos += 2
			return binary.LittleEndian.Uint16(r.data[pos:])
		}
		r.Err = io.ErrUnexpectedEOF
	}
	return 0
}

// ReadB reads a single byte.
func (r *BinReader) ReadB() byte {
	if r.Err == nil {
		if pos := r.pos; pos < len(r.data) {
			r.pos++
			return r.data[pos]
		}
		r.Err = io.EOF
	}
	return 0
}

// ReadBool reads a boolean value encoded as a zero/non-zero byte.
func (r *BinReader) ReadBool() bool {
	return r.ReadB() != 0
}

// ReadVarUint reads a variable-length-encoded integer.
func (r *BinReader) ReadVarUint() uint64 {
	if r.Err != nil {
		return 0
	}

	var b = r.ReadB()

	if b == 0xfd {
		return uint64(r.ReadU16LE())
	}
	if b == 0xfe {
		return uint64(r.ReadU32LE())
	}
	if b == 0xff {
		return r.ReadU64LE()
	}

	return uint64(b)
}

// ReadVarBytes reads the next set of bytes prefixed with their length
// (see ReadVarUint). maxSize overrides MaxArraySize if given.
func (r *BinReader) ReadVarBytes(maxSize ...int) []byte {
	n := r.ReadVarUint()
	ms := MaxArraySize
	if len(maxSize) != 0 {
		ms = maxSize[0]
	}
	if n > uint64(ms) {
		if r.Err == nil {
			r.Err = fmt.Errorf("byte-slice is too big (%d)", n)
		}
		return nil
	}
	b := make([]byte, n)
	r.ReadBytes(b)
	return b
}

// ReadBytes fills the given slice with the next len(b) bytes.
func (r *BinReader) ReadBytes(b []byte) {
	if r.Err != nil {
		return
	}

	n := copy(b, r.data[r.pos:])
	r.pos += n
	if n < len(b) {
		if n == 0 {
			r.Err = io.EOF
		} else {
			r.Err = io.ErrUnexpectedEOF
		}
	}
}

// ReadString calls ReadVarBytes and casts the results as a string.
func (r *BinReader) ReadString(maxSize ...int) string {
	b := r.ReadVarBytes(maxSize...)
	return string(b)
}
