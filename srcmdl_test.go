package srcmdl

import (
	"testing"

	"srcmdl/internal/mathutil"
	"srcmdl/internal/mdl"
	"srcmdl/internal/vtx"
	"srcmdl/internal/vvd"
)

func buildTestModel() *Model {
	xf0 := mathutil.Transform3x4{Rows: [3][4]float32{
		{1, 0, 0, 1},
		{0, 1, 0, 2},
		{0, 0, 1, 3},
	}}
	xf1 := mathutil.Transform3x4{Rows: [3][4]float32{
		{1, 0, 0, 10},
		{0, 1, 0, 20},
		{0, 0, 1, 30},
	}}

	m := &mdl.Mdl{
		Bones: []mdl.Bone{
			{PoseToBone: xf0},
			{PoseToBone: xf1},
		},
		BodyParts: []mdl.BodyPart{{
			Models: []mdl.Model{{
				VertexOffset: 0,
				Meshes:       []mdl.Mesh{{MaterialIndex: 0, VertexOffset: 0}},
			}},
		}},
		Skins: mdl.SkinTable{Families: [][]uint16{{0, 1}, {1, 0}}},
	}

	t1 := &vtx.Vtx{
		BodyParts: []vtx.BodyPart{{
			Models: []vtx.Model{{
				Lod0: vtx.ModelLod{
					Meshes: []vtx.Mesh{{
						StripGroups: []vtx.StripGroup{{
							Vertices: []vtx.Vertex{
								{OriginalMeshVertexID: 0},
								{OriginalMeshVertexID: 1},
								{OriginalMeshVertexID: 2},
								{OriginalMeshVertexID: 3},
							},
							Indices: []uint16{0, 1, 2, 3},
							Strips:  []vtx.Strip{{IndexOffset: 0, IndexCount: 4, Flags: vtx.FlagTriStrip}},
						}},
					}},
				},
			}},
		}},
	}

	v := &vvd.Vvd{
		Vertices: []vvd.Vertex{
			{Position: mathutil.Vector{X: 0, Y: 0, Z: 0}},
			{Position: mathutil.Vector{X: 1, Y: 0, Z: 0}},
			{Position: mathutil.Vector{X: 0, Y: 2, Z: 0}},
			{Position: mathutil.Vector{X: -1, Y: -2, Z: 5}},
		},
		Tangents: make([]vvd.Tangent, 4),
	}

	return FromParts(m, t1, v)
}

func TestMeshesJoinsPositionally(t *testing.T) {
	model := buildTestModel()
	meshes, err := model.Meshes()
	if err != nil {
		t.Fatalf("Meshes: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("len(Meshes()) = %d, want 1", len(meshes))
	}
}

// spec.md §8 property 8, composed through the assembler's strip-index join.
func TestVertexStripIndicesSeedExpansion(t *testing.T) {
	model := buildTestModel()
	meshes, err := model.Meshes()
	if err != nil {
		t.Fatalf("Meshes: %v", err)
	}
	strips, err := meshes[0].VertexStripIndices()
	if err != nil {
		t.Fatalf("VertexStripIndices: %v", err)
	}
	if len(strips) != 1 {
		t.Fatalf("len(strips) = %d, want 1", len(strips))
	}
	want := []int32{0, 1, 2, 2, 1, 3}
	got := strips[0]
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// spec.md §4.G precondition (S4): every yielded index is < len(Vertices()).
func TestVertexStripIndicesAreInBounds(t *testing.T) {
	model := buildTestModel()
	meshes, err := model.Meshes()
	if err != nil {
		t.Fatalf("Meshes: %v", err)
	}
	n := int32(len(model.Vertices()))
	for _, mv := range meshes {
		strips, err := mv.VertexStripIndices()
		if err != nil {
			t.Fatalf("VertexStripIndices: %v", err)
		}
		for _, strip := range strips {
			for _, idx := range strip {
				if idx < 0 || idx >= n {
					t.Fatalf("index %d out of bounds [0,%d)", idx, n)
				}
			}
		}
	}
}

// spec.md §8 property 9: bounding box contains every vertex componentwise.
func TestBoundingBoxContainsAllVertices(t *testing.T) {
	model := buildTestModel()
	min, max := model.BoundingBox()
	for _, v := range model.Vertices() {
		p := v.Position
		if p.X < min.X || p.X > max.X || p.Y < min.Y || p.Y > max.Y || p.Z < min.Z || p.Z > max.Z {
			t.Fatalf("vertex %+v outside box [%+v, %+v]", p, min, max)
		}
	}
}

// spec.md §9: skinning chains bone transforms sequentially rather than
// blending, applying min(bone_count, 2) of them.
func TestVertexToWorldSpaceChainsTransforms(t *testing.T) {
	model := buildTestModel()

	v1 := Vertex{BoneWeights: BoneWeight{BoneCount: 1, Bone: [3]uint8{0, 0, 0}}, Position: mathutil.Vector{X: 5, Y: 5, Z: 5}}
	want1 := model.Mdl.Bones[0].PoseToBone.Transform(v1.Position)
	got1 := model.VertexToWorldSpace(v1)
	if got1 != want1 {
		t.Fatalf("single-bone chain = %+v, want %+v", got1, want1)
	}

	v2 := Vertex{BoneWeights: BoneWeight{BoneCount: 3, Bone: [3]uint8{0, 1, 0}}, Position: mathutil.Vector{X: 5, Y: 5, Z: 5}}
	want2 := model.Mdl.Bones[1].PoseToBone.Transform(model.Mdl.Bones[0].PoseToBone.Transform(v2.Position))
	got2 := model.VertexToWorldSpace(v2)
	if got2 != want2 {
		t.Fatalf("two-bone chain = %+v, want %+v (bone_count clamped to 2)", got2, want2)
	}
}

func TestApplyAnimationIsIdentityStub(t *testing.T) {
	model := buildTestModel()
	v := Vertex{Position: mathutil.Vector{X: 1, Y: 2, Z: 3}}
	got := model.ApplyAnimation(nil, v, 5)
	if got != v.Position {
		t.Fatalf("ApplyAnimation = %+v, want %+v (identity)", got, v.Position)
	}
}

func TestSkinTablesPerFamily(t *testing.T) {
	model := buildTestModel()
	families := model.SkinTables()
	if len(families) != 2 {
		t.Fatalf("len(SkinTables()) = %d, want 2", len(families))
	}
	if families[0][1] != 1 || families[1][0] != 1 {
		t.Fatalf("families = %v", families)
	}
}

func TestMeshJoinMismatchReportsFirstMissingPair(t *testing.T) {
	m := &mdl.Mdl{
		BodyParts: []mdl.BodyPart{{
			Models: []mdl.Model{{Meshes: []mdl.Mesh{{}, {}}}},
		}},
	}
	emptyVtx := &vtx.Vtx{
		BodyParts: []vtx.BodyPart{{
			Models: []vtx.Model{{Lod0: vtx.ModelLod{Meshes: []vtx.Mesh{{}}}}},
		}},
	}
	model := FromParts(m, emptyVtx, &vvd.Vvd{})

	views, err := model.Meshes()
	if err == nil {
		t.Fatalf("Meshes() should report the mdl/vtx mesh-count mismatch")
	}
	if len(views) != 1 {
		t.Fatalf("len(views) = %d, want 1 (join stops at the shorter side)", len(views))
	}
}
