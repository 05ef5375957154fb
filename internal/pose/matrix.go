package pose

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Matrix4 is a 4x4 row-major homogeneous transform.
// Rotation occupies the top-left 3x3 block and translation elements 3, 7
// and 11. The bottom row is expected to be [0 0 0 1].
type Matrix4 [16]float64

// Matrix3 is a 3x3 row-major rotation matrix.
type Matrix3 [9]float64

// Identity4 returns the 4x4 identity transform.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Identity3 returns the 3x3 identity rotation.
func Identity3() Matrix3 {
	return Matrix3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// At returns the element at row r, column c.
func (m Matrix4) At(r, c int) float64 { return m[4*r+c] }

// At returns the element at row r, column c.
func (m Matrix3) At(r, c int) float64 { return m[3*r+c] }

// Trace returns m00 + m11 + m22.
func (m Matrix3) Trace() float64 { return m[0] + m[4] + m[8] }

// Transpose returns mᵀ. For a rotation this is also the inverse.
func (m Matrix3) Transpose() Matrix3 {
	return Matrix3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Mat returns a gonum view of a copy of m.
func (m Matrix3) Mat() *r3.Mat {
	vals := make([]float64, 9)
	copy(vals, m[:])
	return r3.NewMat(vals)
}

// Rotation returns the top-left 3x3 block.
func (m Matrix4) Rotation() Matrix3 {
	return Matrix3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Translation returns the top-right 3x1 column.
func (m Matrix4) Translation() r3.Vec {
	return r3.Vec{X: m[3], Y: m[7], Z: m[11]}
}

// FlipYZ negates columns 1 and 2 of the rotation block, flipping the
// camera Y and Z axes. Translation and the bottom row are untouched.
// The determinant of the rotation block is preserved.
func (m Matrix4) FlipYZ() Matrix4 {
	for r := 0; r < 3; r++ {
		m[4*r+1] = -m[4*r+1]
		m[4*r+2] = -m[4*r+2]
	}
	return m
}

// FromRotationTranslation assembles a rigid transform.
func FromRotationTranslation(R Matrix3, t r3.Vec) Matrix4 {
	return Matrix4{
		R[0], R[1], R[2], t.X,
		R[3], R[4], R[5], t.Y,
		R[6], R[7], R[8], t.Z,
		0, 0, 0, 1,
	}
}

// Inverse returns the inverse of a rigid transform: [Rᵀ | -Rᵀt].
// The result is only meaningful when the rotation block is orthonormal.
func (m Matrix4) Inverse() Matrix4 {
	rt := m.Rotation().Transpose()
	t := rt.Mat().MulVec(m.Translation())
	return FromRotationTranslation(rt, r3.Scale(-1, t))
}

// ApplyPose applies the transform T to point p.
func ApplyPose(p r3.Vec, T Matrix4) r3.Vec {
	return r3.Vec{
		X: T[0]*p.X + T[1]*p.Y + T[2]*p.Z + T[3],
		Y: T[4]*p.X + T[5]*p.Y + T[6]*p.Z + T[7],
		Z: T[8]*p.X + T[9]*p.Y + T[10]*p.Z + T[11],
	}
}

// CameraCenters returns the world-frame position of each camera.
func CameraCenters(poses []Matrix4) []r3.Vec {
	out := make([]r3.Vec, len(poses))
	for i, p := range poses {
		out[i] = p.Translation()
	}
	return out
}

// ForwardAxis returns the third column of the rotation block, the camera
// viewing direction in the vision convention.
func (m Matrix4) ForwardAxis() r3.Vec {
	return r3.Vec{X: m[2], Y: m[6], Z: m[10]}
}
