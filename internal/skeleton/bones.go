// Package skeleton computes bone world-space bind-pose matrices from a
// parsed Mdl's local bone transforms, chaining each bone through its parent.
package skeleton

import (
	"srcmdl/internal/mathutil"
	"srcmdl/internal/mdl"
)

// WorldMatrices returns, for each bone, the bind-pose transform from bone
// space into model space: the bone's local rotation/translation composed
// with its parent's world matrix. Root bones (parent < 0) use their local
// transform directly.
//
// This is independent of Bone.PoseToBone, which stores the inverse
// (model-to-bone) transform used for skinning in model.go's
// VertexToWorldSpace; WorldMatrices is the forward direction, useful for
// placing bone-relative data (attachments, hitboxes) in model space.
func WorldMatrices(bones []mdl.Bone) []mathutil.Mat4 {
	worlds := make([]mathutil.Mat4, len(bones))

	for i, bone := range bones {
		rot := mathutil.QuatToMat3(bone.Quat)
		local := mathutil.FromRotationTranslation(rot, bone.Pos)

		if bone.Parent >= 0 && int(bone.Parent) < i {
			worlds[i] = mathutil.Mat4Mul(worlds[bone.Parent], local)
		} else {
			worlds[i] = local
		}
	}

	return worlds
}

// AttachmentWorldPosition resolves an attachment's local offset through its
// owning bone's world matrix.
func AttachmentWorldPosition(worlds []mathutil.Mat4, a mdl.Attachment) mathutil.Vector {
	if a.Bone < 0 || int(a.Bone) >= len(worlds) {
		return a.Local.Translation()
	}
	return worlds[a.Bone].MulPointHomogeneous(a.Local.Translation())
}
