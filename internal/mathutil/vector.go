// Package mathutil implements the math primitives spec.md §4.B calls for:
// Vector, Quaternion, RadianEuler and Transform3x4, plus the conversions
// between them. Quaternion composition (Hamilton product) and
// normalization are built on github.com/go-gl/mathgl/mgl32, the same
// library tbogdala-gombz and mmulet-pupapppupps use for bone/skinning
// math; matrix multiply and the format-specific semantics (axis swap,
// roll negation, the identity default quaternion) are hand-written
// because mathgl's own conventions don't match Valve's wire format.
package mathutil

// Vector is a plain 3-component vector, componentwise addition/scale.
type Vector struct {
	X, Y, Z float32
}

func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector) Scale(s float32) Vector {
	return Vector{v.X * s, v.Y * s, v.Z * s}
}

// Array returns the vector as [x,y,z]; conversion to/from [3]float32 is
// the identity per spec.md §3.
func (v Vector) Array() [3]float32 { return [3]float32{v.X, v.Y, v.Z} }

func VectorFromArray(a [3]float32) Vector { return Vector{a[0], a[1], a[2]} }
