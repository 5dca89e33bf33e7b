package srcmdl

import (
	"os"

	"srcmdl/internal/mathutil"
	"srcmdl/internal/mdl"
	"srcmdl/internal/srcerr"
	"srcmdl/internal/vtx"
	"srcmdl/internal/vvd"
)

// Model joins a parsed Mdl/Vvd/Vtx trio into one queryable object (spec.md
// §4.G). It is a pure projection over its inputs: building a Model copies no
// data and performs no I/O.
type Model struct {
	Mdl *Mdl
	Vtx *Vtx
	Vvd *Vvd
}

// FromParts builds a Model from already-parsed files (spec.md §6.2
// Model::from_parts).
func FromParts(m *Mdl, t *Vtx, v *Vvd) *Model {
	return &Model{Mdl: m, Vtx: t, Vvd: v}
}

// FromPath reads "<p>", "<p>.dx90.vtx" and "<p>.vvd" and parses all three
// into a Model (spec.md §6.2 Model::from_path).
func FromPath(p string) (*Model, error) {
	mdlBytes, err := os.ReadFile(p)
	if err != nil {
		return nil, srcerr.IO(err)
	}
	vtxBytes, err := os.ReadFile(p + ".dx90.vtx")
	if err != nil {
		return nil, srcerr.IO(err)
	}
	vvdBytes, err := os.ReadFile(p + ".vvd")
	if err != nil {
		return nil, srcerr.IO(err)
	}

	m, err := mdl.Parse(mdlBytes)
	if err != nil {
		return nil, err
	}
	t, err := vtx.Parse(vtxBytes)
	if err != nil {
		return nil, err
	}
	v, err := vvd.Parse(vvdBytes)
	if err != nil {
		return nil, err
	}
	return FromParts(m, t, v), nil
}

// Vertices borrows the VVD-derived canonical vertex array.
func (m *Model) Vertices() []Vertex { return m.Vvd.Vertices }

// Tangents borrows the parallel tangent array.
func (m *Model) Tangents() []Tangent { return m.Vvd.Tangents }

// SkinFamily maps a mesh's material index to a texture index, for one skin
// family (spec.md §3 SkinTable).
type SkinFamily = []uint16

// SkinTables returns one SkinFamily view per family in the MDL skin table.
func (m *Model) SkinTables() []SkinFamily {
	out := make([]SkinFamily, len(m.Mdl.Skins.Families))
	for i, f := range m.Mdl.Skins.Families {
		out[i] = f
	}
	return out
}

// MeshView pairs one MDL mesh with its positionally-joined VTX mesh
// (spec.md §4.G meshes()).
type MeshView struct {
	BodyPartIndex int
	ModelIndex    int
	MeshIndex     int

	MdlMesh *MdlMesh
	VtxMesh *VtxMesh

	// VertexBase is the canonical VVD vertex index that VtxMesh's
	// original_mesh_vertex_id fields are relative to: the owning MDL
	// model's VertexOffset plus this mesh's own VertexOffset.
	VertexBase int32
}

type meshRef struct {
	bodyPartIndex, modelIndex, meshIndex int
	model                                *mdl.Model
	mesh                                 *mdl.Mesh
}

func flattenMdlMeshes(m *Mdl) []meshRef {
	var out []meshRef
	for bpi := range m.BodyParts {
		bp := &m.BodyParts[bpi]
		for modi := range bp.Models {
			model := &bp.Models[modi]
			for mi := range model.Meshes {
				out = append(out, meshRef{
					bodyPartIndex: bpi,
					modelIndex:    modi,
					meshIndex:     mi,
					model:         model,
					mesh:          &model.Meshes[mi],
				})
			}
		}
	}
	return out
}

func flattenVtxMeshes(t *Vtx) []*VtxMesh {
	var out []*VtxMesh
	for bpi := range t.BodyParts {
		bp := &t.BodyParts[bpi]
		for modi := range bp.Models {
			model := &bp.Models[modi]
			for mi := range model.Lod0.Meshes {
				out = append(out, &model.Lod0.Meshes[mi])
			}
		}
	}
	return out
}

// Meshes flattens MDL body-parts/models/meshes and VTX body-parts/models/
// LOD-0/meshes, in order, and zips them positionally (spec.md §4.G). If the
// two flattened sequences don't have equal length, the returned slice holds
// every mesh up to the shorter side and the error reports the first missing
// pair (spec.md §7: OutOfBounds{"mesh_join", i}, not the source's silent
// truncation).
func (m *Model) Meshes() ([]MeshView, error) {
	mdlFlat := flattenMdlMeshes(m.Mdl)
	vtxFlat := flattenVtxMeshes(m.Vtx)

	n := len(mdlFlat)
	if len(vtxFlat) < n {
		n = len(vtxFlat)
	}

	views := make([]MeshView, 0, n)
	for i := 0; i < n; i++ {
		ref := mdlFlat[i]
		views = append(views, MeshView{
			BodyPartIndex: ref.bodyPartIndex,
			ModelIndex:    ref.modelIndex,
			MeshIndex:     ref.meshIndex,
			MdlMesh:       ref.mesh,
			VtxMesh:       vtxFlat[i],
			VertexBase:    ref.model.VertexOffset + ref.mesh.VertexOffset,
		})
	}

	if len(mdlFlat) != len(vtxFlat) {
		return views, srcerr.OutOfBounds("mesh_join", int32(n))
	}
	return views, nil
}

// VertexStripIndices yields, per strip across every strip group of this
// mesh, the canonical vertex indices of its expanded triangle list: a VTX
// strip index selects a position in the group's index array, which selects
// a group vertex, whose original_mesh_vertex_id plus the mesh's VertexBase
// is the index into Model.Vertices() (spec.md §4.G vertex_strip_indices()).
func (mv MeshView) VertexStripIndices() ([][]int32, error) {
	var out [][]int32
	for _, sg := range mv.VtxMesh.StripGroups {
		for _, strip := range sg.Strips {
			positions := strip.Triangles()
			canon := make([]int32, 0, len(positions))
			for _, pos := range positions {
				if pos < 0 || int(pos) >= len(sg.Indices) {
					return out, srcerr.OutOfBounds("strip_index", pos)
				}
				vIdx := sg.Indices[pos]
				if int(vIdx) >= len(sg.Vertices) {
					return out, srcerr.OutOfBounds("strip_vertex", int32(vIdx))
				}
				v := sg.Vertices[vIdx]
				canon = append(canon, int32(v.OriginalMeshVertexID)+mv.VertexBase)
			}
			out = append(out, canon)
		}
	}
	return out, nil
}

// BoundingBox returns the componentwise min/max over every vertex position
// in the model (spec.md §4.G bounding_box(), §8 property 9).
func (m *Model) BoundingBox() (min, max Vector) {
	vs := m.Vvd.Vertices
	if len(vs) == 0 {
		return Vector{}, Vector{}
	}
	min, max = vs[0].Position, vs[0].Position
	for _, v := range vs[1:] {
		p := v.Position
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Z < min.Z {
			min.Z = p.Z
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
		if p.Z > max.Z {
			max.Z = p.Z
		}
	}
	return min, max
}

// VertexToWorldSpace applies each of min(bone_count, 2) bone pose_to_bone
// transforms to the vertex's position in sequence, returning the last
// result. This chains transforms rather than weight-blending them — it is
// mathematically wrong for standard linear-blend skinning, but matches the
// source's behavior and spec.md §9 requires preserving it as-is.
func (m *Model) VertexToWorldSpace(v Vertex) mathutil.Vector {
	n := int(v.BoneWeights.BoneCount)
	if n > 2 {
		n = 2
	}
	pos := v.Position
	for i := 0; i < n; i++ {
		boneIdx := int(v.BoneWeights.Bone[i])
		if boneIdx < 0 || boneIdx >= len(m.Mdl.Bones) {
			continue
		}
		pos = m.Mdl.Bones[boneIdx].PoseToBone.Transform(pos)
	}
	return pos
}

// ApplyAnimation is a stub for future proper skinned animation: it returns
// the vertex's rest position unchanged, matching the source's contract
// (spec.md §4.G apply_animation()).
func (m *Model) ApplyAnimation(a *Animation, v Vertex, frame int) mathutil.Vector {
	return v.Position
}
