package mathutil

// Transform3x4 is a row-major 3-row × 4-column affine transform: rows 0..2
// each hold a rotation row plus a translation column.
type Transform3x4 struct {
	Rows [3][4]float32
}

// Rotation returns the upper 3×3 rotation block.
func (t Transform3x4) Rotation() Mat3 {
	return Mat3{
		t.Rows[0][0], t.Rows[0][1], t.Rows[0][2],
		t.Rows[1][0], t.Rows[1][1], t.Rows[1][2],
		t.Rows[2][0], t.Rows[2][1], t.Rows[2][2],
	}
}

// Translation returns the 4th column of each row.
func (t Transform3x4) Translation() Vector {
	return Vector{t.Rows[0][3], t.Rows[1][3], t.Rows[2][3]}
}

// Transform applies the format's Z-up→Y-up axis-swapped convention: the
// input is treated as (v.Y, v.Z, v.X), dotted against each row (including
// that row's translation column), then reassembled with row 1 feeding the
// output X, row 2 feeding output Y, and row 0 feeding output Z.
//
// spec.md §9 is explicit that this swap must not be "cleaned up": callers
// doing runtime mesh skinning rely on it, while glTF-export-style callers
// use the unswapped ToMat4 conversion instead.
func (t Transform3x4) Transform(v Vector) Vector {
	p := Vector{X: v.Y, Y: v.Z, Z: v.X}
	dot := func(row [4]float32) float32 {
		return row[0]*p.X + row[1]*p.Y + row[2]*p.Z + row[3]
	}
	return Vector{
		X: dot(t.Rows[1]),
		Y: dot(t.Rows[2]),
		Z: dot(t.Rows[0]),
	}
}

// ToMat4 converts to the unswapped 4×4 affine form, composed as
// rotation∘translation per FromRotationTranslation's doc comment.
func (t Transform3x4) ToMat4() Mat4 {
	return FromRotationTranslation(t.Rotation(), t.Translation())
}

// Compose builds a Transform3x4 from a rotation quaternion and a
// translation, used when constructing bone pose_to_bone-style transforms
// from parsed rest pos/quat fields.
func Compose(q Quaternion, t Vector) Transform3x4 {
	r := QuatToMat3(q)
	return Transform3x4{Rows: [3][4]float32{
		{r[0], r[1], r[2], t.X},
		{r[3], r[4], r[5], t.Y},
		{r[6], r[7], r[8], t.Z},
	}}
}
