package binreader

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"srcmdl/internal/srcerr"
)

func TestFixedReadsRoundTrip(t *testing.T) {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:], 0xFFFFFFF9) // int32(-7), two's complement
	binary.LittleEndian.PutUint32(buf[4:], 0xDEADBEEF)
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(3.5))
	binary.LittleEndian.PutUint16(buf[12:], 0xFFFE)
	buf[14] = 0x05

	r := New(buf)

	i32, err := r.Int32At(0)
	if err != nil || i32 != -7 {
		t.Fatalf("Int32At(0) = %d, %v, want -7, nil", i32, err)
	}
	u32, err := r.Uint32At(4)
	if err != nil || u32 != 0xDEADBEEF {
		t.Fatalf("Uint32At(4) = %x, %v", u32, err)
	}
	f32, err := r.Float32At(8)
	if err != nil || f32 != 3.5 {
		t.Fatalf("Float32At(8) = %v, %v", f32, err)
	}
	i16, err := r.Int16At(12)
	if err != nil || i16 != -2 {
		t.Fatalf("Int16At(12) = %d, %v, want -2", i16, err)
	}
	u8, err := r.Uint8At(14)
	if err != nil || u8 != 0x05 {
		t.Fatalf("Uint8At(14) = %d, %v", u8, err)
	}
}

func TestReadPastEndIsEofNotPanic(t *testing.T) {
	buf := make([]byte, 4)
	r := New(buf)

	if _, err := r.Int32At(2); !errors.Is(err, srcerr.ErrEof) {
		t.Fatalf("want ErrEof, got %v", err)
	}
	if _, err := r.ReadAt(10, 4); !errors.Is(err, srcerr.ErrEof) {
		t.Fatalf("want ErrEof, got %v", err)
	}
}

func TestNegativeOffsetIsOutOfBounds(t *testing.T) {
	r := New(make([]byte, 16))
	if _, err := r.Int32At(-4); !errors.Is(err, srcerr.ErrOutOfBounds) {
		t.Fatalf("want ErrOutOfBounds, got %v", err)
	}
}

func TestStringAtFixedRequiresTerminator(t *testing.T) {
	buf := []byte("abc\x00junk")
	r := New(buf)

	s, err := r.StringAt(0, 8)
	if err != nil || s != "abc" {
		t.Fatalf("StringAt = %q, %v, want abc, nil", s, err)
	}

	noTerm := []byte("abcdefgh")
	r2 := New(noTerm)
	if _, err := r2.StringAt(0, 8); !errors.Is(err, srcerr.ErrStringNotNullTerminated) {
		t.Fatalf("want ErrStringNotNullTerminated, got %v", err)
	}
}

func TestOffsetsBuildsIndexList(t *testing.T) {
	offsets := Offsets(100, 3, 16)
	want := []int32{100, 116, 132}
	if len(offsets) != len(want) {
		t.Fatalf("len = %d, want %d", len(offsets), len(want))
	}
	for i := range want {
		if offsets[i] != want[i] {
			t.Fatalf("offsets[%d] = %d, want %d", i, offsets[i], want[i])
		}
	}
}

func TestOffsetsZeroCountIsEmpty(t *testing.T) {
	if got := Offsets(0, 0, 16); got != nil {
		t.Fatalf("Offsets(0,0,16) = %v, want nil", got)
	}
	if got := Offsets(0, -1, 16); got != nil {
		t.Fatalf("Offsets(0,-1,16) = %v, want nil", got)
	}
}

// Any shorter prefix of a buffer must fail with Eof/OutOfBounds, never panic
// (spec.md §8 property 6).
func TestTruncatedPrefixNeverPanics(t *testing.T) {
	full := make([]byte, 64)
	for i := range full {
		full[i] = byte(i)
	}
	for n := 0; n <= len(full); n++ {
		prefix := full[:n]
		r := New(prefix)
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					t.Fatalf("panic at prefix len %d: %v", n, rec)
				}
			}()
			r.Int32At(40)
			r.Float32At(20)
			r.StringAt(0, 16)
			r.ReadAt(0, 64)
		}()
	}
}
