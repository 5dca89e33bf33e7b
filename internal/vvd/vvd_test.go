package vvd

import (
	"encoding/binary"
	"math"
	"testing"
)

func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

func putI32(buf []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(buf[off:], uint32(v))
}

func writeVertex(buf []byte, off int, x, y, z float32) {
	// weight[3] + bone[3] + boneCount already zeroed; only position matters
	// for these tests.
	putF32(buf, off+16, x)
	putF32(buf, off+20, y)
	putF32(buf, off+24, z)
}

// buildVvd constructs a minimal well-formed .vvd buffer with n vertices (no
// fixups) or with fixups if fixupRanges is non-nil.
func buildVvd(n int32, fixupRanges [][2]int32) []byte {
	vertexIndex := int32(headerSize)
	vertexBytes := int(n) * vertexStride
	tangentIndex := vertexIndex + int32(vertexBytes)
	tangentBytes := int(n) * 16

	fixupIndex := int32(0)
	fixupBytes := 0
	if fixupRanges != nil {
		fixupIndex = tangentIndex + int32(tangentBytes)
		fixupBytes = len(fixupRanges) * fixupStride
	}

	total := int(tangentIndex) + tangentBytes + fixupBytes
	buf := make([]byte, total)

	putI32(buf, 12, n) // lod_count
	putI32(buf, 16, n) // lod_vertex_count[0]
	putI32(buf, 56, vertexIndex)
	putI32(buf, 60, tangentIndex)

	for i := int32(0); i < n; i++ {
		off := int(vertexIndex) + int(i)*vertexStride
		writeVertex(buf, off, float32(i), float32(i)*2, float32(i)*3)
	}

	if fixupRanges != nil {
		putI32(buf, 48, int32(len(fixupRanges)))
		putI32(buf, 52, fixupIndex)
		for i, fx := range fixupRanges {
			off := int(fixupIndex) + i*fixupStride
			putI32(buf, off, 0) // lod
			putI32(buf, off+4, fx[0])
			putI32(buf, off+8, fx[1])
		}
	}

	return buf
}

func TestParseNoFixups(t *testing.T) {
	buf := buildVvd(4, nil)
	v, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(v.Vertices) != 4 || len(v.Tangents) != 4 {
		t.Fatalf("len(Vertices)=%d len(Tangents)=%d, want 4/4", len(v.Vertices), len(v.Tangents))
	}
	if v.Vertices[2].Position.X != 2 {
		t.Fatalf("Vertices[2].Position.X = %v, want 2", v.Vertices[2].Position.X)
	}
}

// spec.md §8 property 2: |vertices| == |tangents| == sum(fixup.vertex_count).
func TestParseWithFixups(t *testing.T) {
	buf := buildVvd(10, [][2]int32{{2, 3}, {7, 2}})
	v, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	wantLen := 3 + 2
	if len(v.Vertices) != wantLen || len(v.Tangents) != wantLen {
		t.Fatalf("len = %d/%d, want %d", len(v.Vertices), len(v.Tangents), wantLen)
	}
	if v.Vertices[0].Position.X != 2 || v.Vertices[3].Position.X != 7 {
		t.Fatalf("fixup reassembly wrong: %+v", v.Vertices)
	}
}

// spec.md §8 property 6: any truncated prefix fails cleanly, never panics.
func TestParseTruncatedNeverPanics(t *testing.T) {
	buf := buildVvd(4, [][2]int32{{1, 2}})
	for n := 0; n <= len(buf); n += 7 {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Parse panicked at prefix len %d: %v", n, r)
				}
			}()
			Parse(buf[:n])
		}()
	}
}
