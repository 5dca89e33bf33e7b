package mathutil

// Mat3 is a 3×3 matrix stored row-major: [r0c0, r0c1, r0c2, r1c0, ...].
// Value type, grounded on the teacher's own mathutil.Mat3 but narrowed to
// float32 to match the wire format's scalars.
type Mat3 [9]float32

func Mat3Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// QuatToMat3 converts a unit quaternion to a rotation matrix.
func QuatToMat3(q Quaternion) Mat3 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}

// Mat4 is a 4×4 matrix stored row-major, used for the unswapped "into
// Matrix4" conversion referenced by spec.md §4.B/§9 — kept separate from
// Transform3x4.Transform's axis-swapped accessor so the two are never
// confused (see Transform3x4 doc comment).
type Mat4 [16]float32

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulPointHomogeneous transforms a point through the homogeneous (w=1)
// route per spec.md §4.B.
func (m Mat4) MulPointHomogeneous(v Vector) Vector {
	return Vector{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3],
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7],
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11],
	}
}

// FromRotationTranslation builds a 4×4 affine matrix from a 3×3 rotation
// and a translation, composed as rotation then translation: Mat4 = R * T.
// This is the specific composition order spec.md §4.B calls for when
// converting "into Matrix4" — it differs from the usual T*R point-transform
// convention and must not be "simplified" to it.
func FromRotationTranslation(r Mat3, t Vector) Mat4 {
	rot := Mat4{
		r[0], r[1], r[2], 0,
		r[3], r[4], r[5], 0,
		r[6], r[7], r[8], 0,
		0, 0, 0, 1,
	}
	trans := Mat4{
		1, 0, 0, t.X,
		0, 1, 0, t.Y,
		0, 0, 1, t.Z,
		0, 0, 0, 1,
	}
	return Mat4Mul(rot, trans)
}
