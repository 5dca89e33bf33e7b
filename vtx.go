package srcmdl

import "srcmdl/internal/vtx"

// Vtx is the fully parsed hardware-optimized triangle-index file
// (spec.md §3/§4.F), LOD 0 only.
type Vtx = vtx.Vtx

type (
	VtxHeader    = vtx.Header
	VtxBodyPart  = vtx.BodyPart
	VtxModel     = vtx.Model
	VtxModelLod  = vtx.ModelLod
	VtxMesh      = vtx.Mesh
	StripGroup   = vtx.StripGroup
	Strip        = vtx.Strip
	StripFlag    = vtx.StripFlag
	VtxVertex    = vtx.Vertex
)

const (
	FlagTriList  = vtx.FlagTriList
	FlagTriStrip = vtx.FlagTriStrip
)

// ParseVTX parses a complete .dx90.vtx byte blob (spec.md §6.2 parse_vtx).
func ParseVTX(buf []byte) (*Vtx, error) {
	return vtx.Parse(buf)
}
