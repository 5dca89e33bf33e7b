package mathutil

import mgl "github.com/go-gl/mathgl/mgl32"

// Quaternion is {x,y,z,w}. The source format's zero value is documented as
// (1,0,0,0) — a 180° rotation about X — which spec.md §9 flags as a likely
// bug. IdentityQuaternion below is the true identity (0,0,0,1) per that
// design note; callers that need the raw on-disk zero value construct it
// explicitly rather than relying on Go's zero Quaternion{}.
type Quaternion struct {
	X, Y, Z, W float32
}

// IdentityQuaternion is the corrected default per spec.md §9.
var IdentityQuaternion = Quaternion{0, 0, 0, 1}

func (q Quaternion) mgl() mgl.Quat {
	return mgl.Quat{W: q.W, V: mgl.Vec3{q.X, q.Y, q.Z}}
}

func quaternionFromMgl(q mgl.Quat) Quaternion {
	return Quaternion{q.V[0], q.V[1], q.V[2], q.W}
}

// Mul composes q∘o via the standard Hamilton product.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return quaternionFromMgl(q.mgl().Mul(o.mgl()))
}

// Normalize returns a unit quaternion; the zero quaternion maps to identity.
func (q Quaternion) Normalize() Quaternion {
	m := q.mgl()
	lenSq := m.W*m.W + m.V[0]*m.V[0] + m.V[1]*m.V[1] + m.V[2]*m.V[2]
	if lenSq < 1e-20 {
		return IdentityQuaternion
	}
	return quaternionFromMgl(m.Normalize())
}

func (q Quaternion) LengthSquared() float32 {
	return q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
}
