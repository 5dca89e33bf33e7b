// Package vtx parses the hardware-optimized triangle-strip index file
// (spec.md §4.F): Vtx → BodyPart → Model → ModelLod → Mesh → StripGroup →
// Strip, keeping only LOD 0 of each model.
package vtx

const (
	headerSize          = 36
	bodyPartRecordSize  = 8
	modelRecordSize     = 8
	modelLodRecordSize  = 12
	meshRecordSize      = 9
	stripGroupRecordSize = 25
	stripRecordSize     = 27
	vertexRecordSize    = 9
	indexRecordSize     = 2
)

// StripFlag tags whether a Strip's index range is a triangle list or a
// triangle strip.
type StripFlag uint8

const (
	FlagTriList  StripFlag = 0x01
	FlagTriStrip StripFlag = 0x02
)

// Vertex is one 9-byte VtxVertex: an indirection record pointing back to
// the mesh's original VVD vertex id.
type Vertex struct {
	BoneWeightIndexes    [3]uint8
	BoneCount            uint8
	OriginalMeshVertexID uint16
	BoneID               [3]uint8
}

// Strip is a sub-range of a StripGroup's vertex/index arrays, tagged list
// or strip.
type Strip struct {
	IndexOffset  int32
	IndexCount   int32
	VertexOffset int32
	VertexCount  int32
	Flags        StripFlag
}

// IsTriStrip reports whether this Strip's index range must be expanded
// via the sliding-window winding-flip rule rather than consumed 3-at-a-time.
func (s Strip) IsTriStrip() bool {
	return s.Flags&FlagTriStrip != 0
}

// Triangles yields flat vertex indices (into the owning StripGroup's
// Indices array, 3 per triangle) per spec.md §4.F's expansion rules.
func (s Strip) Triangles() []int32 {
	if s.IsTriStrip() {
		return expandTriStrip(s.IndexOffset, s.IndexCount)
	}
	return expandTriList(s.IndexOffset, s.IndexCount)
}

func expandTriList(offset, count int32) []int32 {
	n := count / 3
	out := make([]int32, 0, n*3)
	for i := int32(0); i < n; i++ {
		base := offset + i*3
		out = append(out, base, base+1, base+2)
	}
	return out
}

// expandTriStrip implements the sliding-window-with-winding-flip rule: for
// i in [0, count-2), the i-th triangle reads (i, i+1, i+2) on even i and
// (i+1, i, i+2) on odd i, so consecutive triangles alternate winding
// (spec.md §8 property 8).
func expandTriStrip(offset, count int32) []int32 {
	if count < 2 {
		return nil
	}
	n := count - 2
	out := make([]int32, 0, n*3)
	for i := int32(0); i < n; i++ {
		var a, b, c int32
		if i&1 == 0 {
			a, b, c = i, i+1, i+2
		} else {
			a, b, c = i+1, i, i+2
		}
		out = append(out, offset+a, offset+b, offset+c)
	}
	return out
}

// StripGroup owns the three arrays a Strip indexes into.
type StripGroup struct {
	Vertices []Vertex
	Indices  []uint16
	Strips   []Strip
	Flags    uint8
}

// Mesh is one material-grouped set of strip groups.
type Mesh struct {
	StripGroups []StripGroup
	Flags       uint8
}

// ModelLod is one level of detail's meshes; only index 0 is retained by
// Parse.
type ModelLod struct {
	Meshes      []Mesh
	SwitchPoint float32
}

// Model is one BodyPart's visual variant, LOD 0 only.
type Model struct {
	Lod0 ModelLod
}

// BodyPart groups a set of Models.
type BodyPart struct {
	Models []Model
}

// Header mirrors the 36-byte VTX header (spec.md §6.1).
type Header struct {
	Version              int32
	VertexCacheSize      int32
	MaxBonesPerStrip     uint16
	MaxBonesPerTriangle  uint16
	MaxBonesPerVertex    int32
	Checksum             [4]byte
	LodCount             int32
	MaterialReplacementList int32
	BodyPartCount        int32
	BodyPartOffset       int32
}

// Vtx is the fully parsed triangle-index file.
type Vtx struct {
	Header    Header
	BodyParts []BodyPart
}
