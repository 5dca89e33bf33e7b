package srcmdl

import "srcmdl/internal/mdl"

// Mdl is the fully parsed primary model file (spec.md §3/§4.D).
type Mdl = mdl.Mdl

type (
	Header               = mdl.Header
	Bone                 = mdl.Bone
	BoneController       = mdl.BoneController
	ProceduralRule       = mdl.ProceduralRule
	ProceduralRuleKind   = mdl.ProceduralRuleKind
	AxisInterpRule       = mdl.AxisInterpRule
	QuaternionInterpRule = mdl.QuaternionInterpRule
	AimAtRule            = mdl.AimAtRule
	JiggleRule           = mdl.JiggleRule
	TextureInfo          = mdl.TextureInfo
	SkinTable            = mdl.SkinTable
	BodyPart             = mdl.BodyPart
	MdlModel             = mdl.Model
	MdlMesh              = mdl.Mesh
	Attachment           = mdl.Attachment
	Hitbox               = mdl.Hitbox
	HitboxSet            = mdl.HitboxSet
	PoseParameter        = mdl.PoseParameter
	Animation            = mdl.Animation
	AnimationDescription = mdl.AnimationDescription
)

const (
	ProcNone             = mdl.ProcNone
	ProcAxisInterp       = mdl.ProcAxisInterp
	ProcQuaternionInterp = mdl.ProcQuaternionInterp
	ProcAimAtBone        = mdl.ProcAimAtBone
	ProcAimAtAttachment  = mdl.ProcAimAtAttachment
	ProcJiggle           = mdl.ProcJiggle
)

// ParseMDL parses a complete .mdl byte blob (spec.md §6.2 parse_mdl).
func ParseMDL(buf []byte) (*Mdl, error) {
	return mdl.Parse(buf)
}
