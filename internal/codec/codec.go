// Package codec implements spec.md §4.C's compressed scalar codecs: the
// packed 48-/64-bit quaternions, the 48-bit half-float vector, and the
// chained run-length value-pointer stream animated bone tracks are stored
// as. No example repo in the corpus carries a compressed-quaternion or
// half-float codec, so this is new code, written in the low-level
// bit-twiddling idiom the teacher's internal/crypto package uses (manual
// shifts and masks over raw byte/uint fields, no library) rather than any
// single file it's grounded on.
package codec

import (
	"math"

	"srcmdl/internal/binreader"
	"srcmdl/internal/mathutil"
	"srcmdl/internal/srcerr"
)

// HalfToFloat32 expands a IEEE-754 binary16 half float to a float32.
func HalfToFloat32(h uint16) float32 {
	sign := uint32(h>>15) & 0x1
	exp := uint32(h>>10) & 0x1F
	frac := uint32(h) & 0x3FF

	var bits uint32
	switch {
	case exp == 0 && frac == 0:
		bits = sign << 31
	case exp == 0:
		// Subnormal half: normalize by shifting the fraction left until
		// its implicit leading bit would be set, adjusting exp to match.
		for frac&0x400 == 0 {
			frac <<= 1
			exp--
		}
		exp++
		frac &= 0x3FF
		bits = (sign << 31) | ((exp + 112) << 23) | (frac << 13)
	case exp == 0x1F:
		bits = (sign << 31) | (0xFF << 23) | (frac << 13)
	default:
		bits = (sign << 31) | ((exp + 112) << 23) | (frac << 13)
	}
	return math.Float32frombits(bits)
}

// DecodeVector48 decodes three half floats into a Vector.
func DecodeVector48(b []byte) mathutil.Vector {
	x := HalfToFloat32(uint16(b[0]) | uint16(b[1])<<8)
	y := HalfToFloat32(uint16(b[2]) | uint16(b[3])<<8)
	z := HalfToFloat32(uint16(b[4]) | uint16(b[5])<<8)
	return mathutil.Vector{X: x, Y: y, Z: z}
}

// DecodeQuaternion48 decodes the packed 48-bit quaternion per spec.md §4.C.
func DecodeQuaternion48(b []byte) mathutil.Quaternion {
	xRaw := uint16(b[0]) | uint16(b[1])<<8
	yRaw := uint16(b[2]) | uint16(b[3])<<8
	zRaw := uint16(b[4]) | uint16(b[5])<<8

	x := (float32(xRaw) - 32768) / 32768
	y := (float32(yRaw) - 32768) / 32768
	z := (float32(zRaw&0x7FFF) - 16384) / 16384

	wSq := 1 - x*x - y*y - z*z
	if wSq < 0 {
		wSq = 0
	}
	w := float32(math.Sqrt(float64(wSq)))
	if zRaw&0x8000 != 0 {
		w = -w
	}
	return mathutil.Quaternion{X: x, Y: y, Z: z, W: w}.Normalize()
}

// DecodeQuaternion64 decodes the packed 64-bit quaternion per spec.md §4.C.
func DecodeQuaternion64(raw uint64) mathutil.Quaternion {
	extract := func(bitOffset uint) float32 {
		v := int32((raw >> bitOffset) & 0x1FFFFF)
		return (float32(v) - 1048576) / 1048576.5
	}
	x := extract(0)
	y := extract(21)
	z := extract(42)

	wSq := 1 - x*x - y*y - z*z
	if wSq < 0 {
		wSq = 0
	}
	w := float32(math.Sqrt(float64(wSq)))
	if raw&(1<<63) != 0 {
		w = -w
	}
	return mathutil.Quaternion{X: x, Y: y, Z: z, W: w}.Normalize()
}

// maxChainDepth bounds the half-table value stream walk against
// pathological (e.g. cyclic) chains, per spec.md §4.C's explicit warning
// that the lookup is "unbounded-depth in principle."
const maxChainDepth = 4096

// ValueAt walks the chained run-length value stream starting at
// startOffset within r, fetching the value for frame index k, per
// spec.md §4.C. A node with total == 0 short-circuits to 0. A chain
// longer than maxChainDepth, or one that revisits an offset (a cycle),
// fails with OutOfBounds rather than looping forever.
func ValueAt(r *binreader.Reader, startOffset int32, k int) (int16, error) {
	offset := startOffset
	visited := make(map[int32]struct{}, 8)

	for depth := 0; depth < maxChainDepth; depth++ {
		if _, seen := visited[offset]; seen {
			return 0, srcerr.OutOfBounds("value_stream_cycle", offset)
		}
		visited[offset] = struct{}{}

		valid, err := r.Uint8At(int(offset))
		if err != nil {
			return 0, err
		}
		total, err := r.Uint8At(int(offset) + 1)
		if err != nil {
			return 0, err
		}
		if total == 0 {
			return 0, nil
		}

		if k < int(total) {
			idx := k
			if idx > int(valid)-1 {
				idx = int(valid) - 1
			}
			if idx < 0 {
				return 0, nil
			}
			return r.Int16At(int(offset) + 2 + idx*2)
		}

		k -= int(total)
		offset = offset + 2*(int32(valid)+1)
	}
	return 0, srcerr.OutOfBounds("value_stream_depth", startOffset)
}
