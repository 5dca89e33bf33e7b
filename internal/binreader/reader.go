// Package binreader centralizes the offset-indexed reads every MDL/VVD/VTX
// table needs: a fixed-layout record at a byte offset, or a walk over
// count-many offsets spaced stride bytes apart. Every read is bounds
// checked here so the higher-level readers never touch r.data directly.
package binreader

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"srcmdl/internal/srcerr"
)

// Reader is a borrowed, read-only view over one file's bytes. It never
// retains the slice beyond the parse call that owns it and never mutates it.
type Reader struct {
	data []byte
}

// New wraps buf. The returned Reader borrows buf; the caller may release
// buf once parsing completes.
func New(buf []byte) *Reader {
	return &Reader{data: buf}
}

// Len returns the number of bytes available.
func (r *Reader) Len() int { return len(r.data) }

// bytesAt returns n bytes starting at offset, or Eof if that range doesn't
// fit. offset must be non-negative; a negative offset is treated as
// OutOfBounds since it can only arise from a corrupt pointer field.
func (r *Reader) bytesAt(offset int, n int) ([]byte, error) {
	if offset < 0 {
		return nil, srcerr.OutOfBounds("offset", int32(offset))
	}
	end := offset + n
	if end > len(r.data) || end < offset {
		return nil, srcerr.Eof(end - len(r.data))
	}
	return r.data[offset:end], nil
}

// ReadAt returns the n raw bytes at offset.
func (r *Reader) ReadAt(offset, n int) ([]byte, error) {
	return r.bytesAt(offset, n)
}

func (r *Reader) Int8At(offset int) (int8, error) {
	b, err := r.bytesAt(offset, 1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func (r *Reader) Uint8At(offset int) (uint8, error) {
	b, err := r.bytesAt(offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) Int16At(offset int) (int16, error) {
	b, err := r.bytesAt(offset, 2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

func (r *Reader) Uint16At(offset int) (uint16, error) {
	b, err := r.bytesAt(offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) Int32At(offset int) (int32, error) {
	b, err := r.bytesAt(offset, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (r *Reader) Uint32At(offset int) (uint32, error) {
	b, err := r.bytesAt(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) Float32At(offset int) (float32, error) {
	b, err := r.bytesAt(offset, 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func (r *Reader) Uint64At(offset int) (uint64, error) {
	b, err := r.bytesAt(offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// StringAt reads a NUL-terminated, UTF-8 string starting at offset.
//
// If fixed > 0 the string lives in a field of exactly fixed bytes: the NUL
// must appear within those bytes or the read fails with
// StringNotNullTerminated. If fixed == 0 the string is unbounded — it scans
// forward from offset to the first NUL byte or the end of the buffer,
// failing with StringNotNullTerminated if no NUL is found before EOF.
func (r *Reader) StringAt(offset int, fixed int) (string, error) {
	if fixed > 0 {
		b, err := r.bytesAt(offset, fixed)
		if err != nil {
			return "", err
		}
		nul := indexNul(b)
		if nul < 0 {
			return "", srcerr.StringNotNullTerminated("fixed string field")
		}
		return decodeUTF8(b[:nul])
	}

	if offset < 0 || offset > len(r.data) {
		return "", srcerr.OutOfBounds("string offset", int32(offset))
	}
	b := r.data[offset:]
	nul := indexNul(b)
	if nul < 0 {
		return "", srcerr.StringNotNullTerminated("string")
	}
	return decodeUTF8(b[:nul])
}

func indexNul(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}

func decodeUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", srcerr.StringNonUTF8("string contents")
	}
	return string(b), nil
}

// Offsets computes the count offsets of an index list: base, base+stride,
// base+2*stride, ... It performs no bounds checking itself — bounds are
// checked at the point each offset is dereferenced, where the record size
// is known. count < 0 yields an empty slice.
func Offsets(base int32, count int32, stride int32) []int32 {
	if count <= 0 {
		return nil
	}
	out := make([]int32, count)
	for i := int32(0); i < count; i++ {
		out[i] = base + i*stride
	}
	return out
}
