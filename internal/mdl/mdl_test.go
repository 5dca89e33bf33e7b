package mdl

import (
	"encoding/binary"
	"testing"
)

func putI32(buf []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(buf[off:], uint32(v))
}

func putU32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:], v)
}

// buildMinimalMdl returns a well-formed buffer with a header and n bones,
// every other table left empty (count fields zero). Bone i's parent is
// i-1, name_index points at a guaranteed-zero byte so it decodes to "".
func buildMinimalMdl(n int32) []byte {
	buf := make([]byte, headerSize+int(n)*boneRecordSize)
	putI32(buf, 156, n)              // bone_count
	putI32(buf, 160, int32(headerSize)) // bone_offset

	for i := int32(0); i < n; i++ {
		off := headerSize + int(i)*boneRecordSize
		putI32(buf, off+0, 0) // name_index -> buf[0] is 0x00 ("")
		putI32(buf, off+4, i-1)
		for c := 0; c < 6; c++ {
			putI32(buf, off+8+c*4, -1)
		}
		putU32(buf, off+160, 0) // flags
		putI32(buf, off+164, 0) // proc_type = none
		putI32(buf, off+168, 0) // proc_index
	}
	return buf
}

// spec.md §8 property 1: every bone.parent in [-1, i-1].
func TestBoneParentInvariant(t *testing.T) {
	buf := buildMinimalMdl(5)
	m, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Bones) != 5 {
		t.Fatalf("len(Bones) = %d, want 5", len(m.Bones))
	}
	for i, b := range m.Bones {
		if b.Parent < -1 || b.Parent > int32(i-1) {
			t.Fatalf("bone %d parent = %d, violates [-1, %d]", i, b.Parent, i-1)
		}
	}
}

func TestUnknownProcTypeTolerates(t *testing.T) {
	buf := buildMinimalMdl(1)
	off := headerSize
	putI32(buf, off+164, 99) // unrecognized proc_type
	putI32(buf, off+168, 1)  // non-zero proc_index so the reader attempts a dispatch

	m, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Bones[0].Proc != nil {
		t.Fatalf("Proc = %+v, want nil for unknown proc_type", m.Bones[0].Proc)
	}
}

// spec.md §8 property 6: any truncated prefix fails cleanly, never panics.
func TestParseTruncatedNeverPanics(t *testing.T) {
	buf := buildMinimalMdl(3)
	for n := 0; n <= len(buf); n += 11 {
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

func TestMagicAndVersionAreNotEnforced(t *testing.T) {
	buf := buildMinimalMdl(0)
	putI32(buf, 0, 0x12345678) // garbage magic
	putI32(buf, 4, 1)          // garbage version

	m, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse should not reject bad magic/version, got: %v", err)
	}
	if m.Header.Magic != 0x12345678 {
		t.Fatalf("Header.Magic = %#x, want passthrough", m.Header.Magic)
	}
}
