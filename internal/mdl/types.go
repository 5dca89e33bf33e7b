// Package mdl parses the primary Source-engine model definition file
// (.mdl) per spec.md §4.D: header, bones, body-parts→models→meshes,
// textures, skin table, pose params, attachments, hitboxes, and per-bone
// animation tracks. Grounded on the teacher's internal/bmd package (a
// comparable encrypted model format with its own flat-byte-blob,
// offset-indexed bones-and-meshes parser) for the overall Parse/reader
// shape, generalized onto srcmdl/internal/binreader's bounds-checked
// offset primitives instead of the teacher's ad hoc per-type reads.
package mdl

import "srcmdl/internal/mathutil"

const (
	Magic   = 0x54534449 // "IDST"
	Version = 48

	headerSize             = 408
	boneRecordSize         = 216
	boneControllerSize     = 56
	textureRecordSize      = 64
	textureDirEntrySize    = 4
	skinReferenceSize      = 2
	bodyPartRecordSize     = 16
	modelRecordSize        = 148
	meshRecordSize         = 116
	attachmentRecordSize   = 92
	hitboxRecordSize       = 64
	poseParamRecordSize    = 20
	animDescRecordSize     = 100
	animTrackHeaderSize    = 4
	vvdVertexStride        = 48
)

// Header mirrors the 408-byte MDL primary header (spec.md §6.1). The
// reader does not enforce Magic/Version itself (spec.md §4.D); callers
// inspect the returned header and decide.
type Header struct {
	Magic                 int32
	Version               int32
	Checksum              [4]byte
	Name                  string
	DataLength            int32
	EyePosition           mathutil.Vector
	IlluminationPosition  mathutil.Vector
	HullMin               mathutil.Vector
	HullMax               mathutil.Vector
	ViewBBMin             mathutil.Vector
	ViewBBMax             mathutil.Vector
	Flags                 uint32
	BoneCount             int32
	BoneOffset            int32
	BoneControllerCount   int32
	BoneControllerOffset  int32
	HitboxCount           int32
	HitboxOffset          int32
	LocalAnimationCount   int32
	LocalAnimationOffset  int32
	LocalSeqCount         int32
	LocalSeqOffset        int32
	ActivityListVersion   int32
	EventsIndexed         int32
	TextureCount          int32
	TextureOffset         int32
	TextureDirCount       int32
	TextureDirOffset      int32
	SkinReferenceCount    int32
	SkinFamilyCount       int32
	SkinReferenceOffset   int32
	BodyPartCount         int32
	BodyPartOffset        int32
	AttachmentCount       int32
	AttachmentOffset      int32
	LocalNodeCount        int32
	LocalNodeIndex        int32
	LocalNodeNameIndex    int32
	FlexDescCount         int32
	FlexDescIndex         int32
	FlexControllerCount   int32
	FlexControllerIndex   int32
	FlexRulesCount        int32
	FlexRulesIndex        int32
	IkChainCount          int32
	IkChainIndex          int32
	MouthsCount           int32
	MouthsIndex           int32
	LocalPoseParamCount   int32
	LocalPoseParamIndex   int32
	SurfacePropIndex      int32
	KeyValueIndex         int32
	KeyValueCount         int32
	IkLockCount           int32
	IkLockIndex           int32
	Mass                  float32
	Contents              int32
	IncludeModelCount     int32
	IncludeModelIndex     int32
	VirtualModel          int32
	AnimBlocksNameIndex   int32
	AnimBlocksCount       int32
	AnimBlocksIndex       int32
	AnimBlockModel        int32
	BoneTableNameIndex    int32
	VertexBase            int32
	OffsetBase            int32
	DirectionalDotProduct uint8
	RootLod               uint8
	NumAllowedRootLods    uint8
	VertAnimFixedScale    float32
	FlexControllerUICount int32
	FlexControllerUIIndex int32
	StudioHdr2Index       int32
}

// ProceduralRuleKind tags a Bone's optional procedural rule.
type ProceduralRuleKind int

const (
	ProcNone ProceduralRuleKind = iota
	ProcAxisInterp
	ProcQuaternionInterp
	ProcAimAtBone
	ProcAimAtAttachment
	ProcJiggle
)

// ProceduralRule is the sum-type payload referenced by Bone.Proc, selected
// by Bone.ProcType; unknown proc_type values are tolerated and leave
// Bone.Proc nil (spec.md §9). Exactly one of the pointer fields matching
// Kind is set.
type ProceduralRule struct {
	Kind ProceduralRuleKind

	AxisInterp *AxisInterpRule
	QuatInterp *QuaternionInterpRule
	AimAt      *AimAtRule // shared by ProcAimAtBone and ProcAimAtAttachment
	Jiggle     *JiggleRule
}

// AxisInterpRule drives a bone's position/rotation by interpolating six
// sampled poses (X+,X-,Y+,Y-,Z+,Z-) along the control bone's named axis.
type AxisInterpRule struct {
	ControlBone int32
	Axis        int32
	Pos         [6]mathutil.Vector
	Quat        [6]mathutil.Quaternion
}

// QuaternionInterpRule blends toward Pos/Quat as the control bone's
// orientation approaches Trigger, scaled by InverseTolerance.
type QuaternionInterpRule struct {
	InverseTolerance float32
	Trigger          mathutil.Quaternion
	Pos              mathutil.Vector
	Quat             mathutil.Quaternion
}

// AimAtRule orients a bone to point AimVector at the Aim bone/attachment,
// keeping UpVector as the roll reference.
type AimAtRule struct {
	Parent       int32
	Aim          int32
	AimVector    mathutil.Vector
	UpVector     mathutil.Vector
	BasePosition mathutil.Vector
}

// JiggleRule parameterizes a bone's secondary-motion physics simulation.
// Fields mirror the wire layout one-for-one; this package only decodes
// them, it does not simulate (spec.md §1 treats runtime physics as a
// rendering-side concern).
type JiggleRule struct {
	Flags      uint32
	Length     float32
	TipMass    float32

	YawStiffness   float32
	YawDamping     float32
	PitchStiffness float32
	PitchDamping   float32
	AlongStiffness float32
	AlongDamping   float32

	AngleLimit float32

	MinYaw      float32
	MaxYaw      float32
	YawFriction float32
	YawBound    float32

	MinPitch      float32
	MaxPitch      float32
	PitchFriction float32
	PitchBounce   float32

	BaseMass            float32
	BaseStiffness       float32
	BaseDamping         float32
	BaseMinLeft         float32
	BaseMaxLeft         float32
	BaseLeftFriction    float32
	BaseMinUp           float32
	BaseMaxUp           float32
	BaseUpFriction      float32
	BaseMinForward      float32
	BaseMaxForward      float32
	BaseForwardFriction float32

	BoingImpactSpeed float32
	BoingImpactAngle float32
	BoingDampingRate float32
	BoingFrequency   float32
	BoingAmplitude   float32
}

// Bone is one skeleton joint (spec.md §3).
type Bone struct {
	Name              string
	Parent            int32
	ControllerIndices [6]int32
	Pos               mathutil.Vector
	Quat              mathutil.Quaternion
	Rot               mathutil.RadianEuler
	PosScale          mathutil.Vector
	RotScale          mathutil.Vector
	PoseToBone        mathutil.Transform3x4
	QAlignment        mathutil.Quaternion
	Flags             uint32
	ProcType          int32
	Proc              *ProceduralRule
	PhysicsBone       int32
	SurfaceProp       string
	Contents          uint32
}

// BoneController maps a bone motion control input to a bone.
type BoneController struct {
	Bone      int32
	Type      uint32
	Start     float32
	End       float32
	RestIndex int32
}

// TextureInfo is one material reference (spec.md §3).
type TextureInfo struct {
	Name string
}

// SkinTable is the flat skin_reference_count×skin_family_count lookup
// (spec.md §3): Families[family][materialIndex] -> texture index.
type SkinTable struct {
	ReferenceCount int32
	FamilyCount    int32
	Families       [][]uint16 // len == FamilyCount, each len == ReferenceCount
}

// Lookup returns the texture index for (family, materialIndex).
func (s SkinTable) Lookup(family, materialIndex int) (uint16, bool) {
	if family < 0 || family >= len(s.Families) {
		return 0, false
	}
	row := s.Families[family]
	if materialIndex < 0 || materialIndex >= len(row) {
		return 0, false
	}
	return row[materialIndex], true
}

// Mesh is one material-grouped triangle range within a Model.
type Mesh struct {
	MaterialIndex int32
	VertexOffset  int32 // relative to the owning Model's VertexOffset
}

// Model is one visual variant within a BodyPart.
type Model struct {
	Name           string
	BoundingRadius float32
	VertexOffset   int32 // vertex index into the VVD array (already /48'd)
	Meshes         []Mesh
}

// BodyPart is a named group of mutually exclusive Models.
type BodyPart struct {
	Name   string
	Models []Model
}

// Attachment is a named, bone-relative transform (spec.md §3 supplement).
type Attachment struct {
	Name     string
	Flags    uint32
	Bone     int32
	Local    mathutil.Transform3x4
}

// Hitbox is one hit-test volume attached to a bone (spec.md §3 supplement).
type Hitbox struct {
	Bone     int32
	Group    int32
	Min      mathutil.Vector
	Max      mathutil.Vector
	Name     string
	Radius   float32
}

// HitboxSet is a named group of Hitboxes.
type HitboxSet struct {
	Name    string
	Hitboxes []Hitbox
}

// PoseParameter is a named animation blend parameter (spec.md §3 supplement).
type PoseParameter struct {
	Name  string
	Start float32
	End   float32
	Loop  float32
}

// Animation is one bone's rotation+position track within an
// AnimationDescription (spec.md §3).
type Animation struct {
	Bone  uint8
	Flags uint8

	// Rotation is either a single constant value (len 1) or one value per
	// frame (len == frameCount).
	rotation []mathutil.Quaternion
	// Position is either a single constant value (len 1) or one value per
	// frame.
	position []mathutil.Vector
}

// Rotation returns the bone's rotation at frame, clamping to the last
// frame for animated tracks and returning the single value for constant
// tracks (spec.md §4.D.anim).
func (a *Animation) Rotation(frame int) mathutil.Quaternion {
	return clampQuat(a.rotation, frame)
}

// Position returns the bone's position at frame, with the same clamping
// rule as Rotation.
func (a *Animation) Position(frame int) mathutil.Vector {
	return clampVec(a.position, frame)
}

func clampQuat(vs []mathutil.Quaternion, frame int) mathutil.Quaternion {
	if len(vs) == 0 {
		return mathutil.IdentityQuaternion
	}
	if frame < 0 {
		frame = 0
	}
	if frame >= len(vs) {
		frame = len(vs) - 1
	}
	return vs[frame]
}

func clampVec(vs []mathutil.Vector, frame int) mathutil.Vector {
	if len(vs) == 0 {
		return mathutil.Vector{}
	}
	if frame < 0 {
		frame = 0
	}
	if frame >= len(vs) {
		frame = len(vs) - 1
	}
	return vs[frame]
}

// AnimationDescription is a named sequence of per-bone Animation tracks.
type AnimationDescription struct {
	Name       string
	FPS        float32
	FrameCount int32
	Animations []Animation
}

// Mdl is the fully parsed primary model file.
type Mdl struct {
	Header        Header
	Bones         []Bone
	BoneControllers []BoneController
	Textures      []TextureInfo
	TextureDirs   []string
	Skins         SkinTable
	BodyParts     []BodyPart
	Attachments   []Attachment
	HitboxSets    []HitboxSet
	PoseParams    []PoseParameter
	SurfaceProp   string
	Animations    []AnimationDescription
}
