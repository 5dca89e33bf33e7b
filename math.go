package srcmdl

import "srcmdl/internal/mathutil"

type (
	Vector        = mathutil.Vector
	Quaternion    = mathutil.Quaternion
	RadianEuler   = mathutil.RadianEuler
	Transform3x4  = mathutil.Transform3x4
	Mat3          = mathutil.Mat3
	Mat4          = mathutil.Mat4
)

// IdentityQuaternion is the corrected true-identity default (spec.md §9).
var IdentityQuaternion = mathutil.IdentityQuaternion
