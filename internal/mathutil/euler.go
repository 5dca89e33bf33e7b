package mathutil

import "math"

// RadianEuler is {x (roll), y (pitch), z (yaw)} in radians.
type RadianEuler struct {
	X, Y, Z float32
}

// ToQuaternion converts using roll→pitch→yaw order with the roll angle
// negated, per spec.md §3 — this sign flip is load-bearing and must not be
// "corrected" away; it matches the wire format's convention, not a generic
// Euler-to-quaternion formula.
func (e RadianEuler) ToQuaternion() Quaternion {
	roll := -float64(e.X)
	pitch := float64(e.Y)
	yaw := float64(e.Z)

	sy, cy := math.Sincos(yaw * 0.5)
	sp, cp := math.Sincos(pitch * 0.5)
	sr, cr := math.Sincos(roll * 0.5)

	q := Quaternion{
		X: float32(sr*cp*cy - cr*sp*sy),
		Y: float32(cr*sp*cy + sr*cp*sy),
		Z: float32(cr*cp*sy - sr*sp*cy),
		W: float32(cr*cp*cy + sr*sp*sy),
	}
	return q.Normalize()
}

// ToRadianEuler is the inverse of ToQuaternion, stable away from the
// gimbal-lock poles (spec.md §8 property 7).
func (q Quaternion) ToRadianEuler() RadianEuler {
	x, y, z, w := float64(q.X), float64(q.Y), float64(q.Z), float64(q.W)

	sinrCosp := 2 * (w*x + y*z)
	cosrCosp := 1 - 2*(x*x+y*y)
	rollPrime := math.Atan2(sinrCosp, cosrCosp)

	sinp := 2 * (w*y - z*x)
	var pitch float64
	if math.Abs(sinp) >= 1 {
		pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		pitch = math.Asin(sinp)
	}

	sinyCosp := 2 * (w*z + x*y)
	cosyCosp := 1 - 2*(y*y+z*z)
	yaw := math.Atan2(sinyCosp, cosyCosp)

	return RadianEuler{X: float32(-rollPrime), Y: float32(pitch), Z: float32(yaw)}
}
