// Package vvd parses the vertex-data file (spec.md §4.E): a raw per-LOD
// vertex array (plus parallel tangent array) and an optional fix-up table
// that reshuffles both into the canonical LOD-0 output sequence.
package vvd

import "srcmdl/internal/mathutil"

const (
	headerSize   = 64
	vertexStride = 48
	fixupStride  = 12

	requestedLod = 0
)

// BoneWeight is the skinning payload of one Vertex. Only the first
// min(BoneCount, 2) weight/bone pairs are semantically valid (spec.md §3).
type BoneWeight struct {
	Weight    [3]float32
	Bone      [3]uint8
	BoneCount uint8
}

// Vertex is one VVD record (spec.md §3/§6.1).
type Vertex struct {
	BoneWeights BoneWeight
	Position    mathutil.Vector
	Normal      mathutil.Vector
	UV          [2]float32
}

// Tangent is the parallel per-vertex tangent stream, xyz plus a
// handedness sign in w.
type Tangent struct {
	X, Y, Z, W float32
}

// Header mirrors the 64-byte VVD header (spec.md §6.1).
type Header struct {
	ID            int32
	Version       int32
	Checksum      [4]byte
	LodCount      int32
	LodVertexCount [8]int32
	FixupCount    int32
	FixupIndex    int32
	VertexIndex   int32
	TangentIndex  int32
}

// Vvd is the fully parsed vertex file: the post-fixup vertex and tangent
// sequences for LOD 0 (spec.md §4.E).
type Vvd struct {
	Header   Header
	Vertices []Vertex
	Tangents []Tangent
}
