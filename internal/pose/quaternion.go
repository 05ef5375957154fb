package pose

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Quaternion is a rotation quaternion with Real=w, Imag=x, Jmag=y, Kmag=z.
type Quaternion = quat.Number

// DegenerateEpsilon bounds trace+1 (= 4w²) below which the trace branch of
// MatrixToQuaternion loses all precision. It corresponds to w ≈ 5e-5, a
// rotation within about 0.01 degrees of 180.
const DegenerateEpsilon = 1e-8

// MatrixToQuaternion converts a rotation matrix to a quaternion using the
// trace ("w-dominant") branch only:
//
//	w = sqrt(trace+1)/2
//	x = (m21-m12)/4w, y = (m02-m20)/4w, z = (m10-m01)/4w
//
// The result is not renormalised. For rotations near 180 degrees w
// approaches zero and x, y, z become Inf or NaN; no error is reported.
// Use IsDegenerate to detect such input or MatrixToQuaternionRobust to
// avoid it.
func MatrixToQuaternion(m Matrix3) Quaternion {
	w := math.Sqrt(m.Trace()+1) / 2
	return Quaternion{
		Real: w,
		Imag: (m.At(2, 1) - m.At(1, 2)) / (4 * w),
		Jmag: (m.At(0, 2) - m.At(2, 0)) / (4 * w),
		Kmag: (m.At(1, 0) - m.At(0, 1)) / (4 * w),
	}
}

// MatrixToQuaternionRobust converts a rotation matrix to a unit quaternion,
// choosing the branch with the largest of w², x², y², z² so the divisor is
// never small. The result is normalised with w >= 0.
func MatrixToQuaternionRobust(m Matrix3) Quaternion {
	m00, m01, m02 := m[0], m[1], m[2]
	m10, m11, m12 := m[3], m[4], m[5]
	m20, m21, m22 := m[6], m[7], m[8]

	var q Quaternion
	switch tr := m00 + m11 + m22; {
	case tr > 0:
		s := 2 * math.Sqrt(tr+1) // 4w
		q = Quaternion{Real: s / 4, Imag: (m21 - m12) / s, Jmag: (m02 - m20) / s, Kmag: (m10 - m01) / s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22) // 4x
		q = Quaternion{Real: (m21 - m12) / s, Imag: s / 4, Jmag: (m01 + m10) / s, Kmag: (m02 + m20) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22) // 4y
		q = Quaternion{Real: (m02 - m20) / s, Imag: (m01 + m10) / s, Jmag: s / 4, Kmag: (m12 + m21) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11) // 4z
		q = Quaternion{Real: (m10 - m01) / s, Imag: (m02 + m20) / s, Jmag: (m12 + m21) / s, Kmag: s / 4}
	}

	q = Normalize(q)
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	return q
}

// QuaternionToMatrix returns the rotation matrix for q. q is assumed to be
// unit norm; nothing is normalised or validated, and NaN or Inf components
// propagate into the result.
func QuaternionToMatrix(q Quaternion) Matrix3 {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return Matrix3{
		1 - 2*y*y - 2*z*z, 2*x*y - 2*z*w, 2*x*z + 2*y*w,
		2*x*y + 2*z*w, 1 - 2*x*x - 2*z*z, 2*y*z - 2*x*w,
		2*x*z - 2*y*w, 2*y*z + 2*x*w, 1 - 2*x*x - 2*y*y,
	}
}

// Normalize scales q to unit norm. The zero quaternion is returned as is.
func Normalize(q Quaternion) Quaternion {
	n := quat.Abs(q)
	if n == 0 {
		return q
	}
	return quat.Scale(1/n, q)
}

// IsDegenerate reports whether the trace branch is unreliable for m.
func IsDegenerate(m Matrix3) bool {
	return !(m.Trace()+1 > DegenerateEpsilon)
}

// IsFinite reports whether every component of q is finite.
func IsFinite(q Quaternion) bool {
	return !quat.IsNaN(q) && !quat.IsInf(q)
}

// RotationAngle returns the rotation angle of a unit quaternion in radians,
// in [0, π].
func RotationAngle(q Quaternion) float64 {
	v := math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	return 2 * math.Atan2(v, math.Abs(q.Real))
}

// ScalarFirst returns (w, x, y, z).
func ScalarFirst(q Quaternion) [4]float64 {
	return [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag}
}

// ScalarLast returns (x, y, z, w), the order scipy's Rotation.as_quat uses.
func ScalarLast(q Quaternion) [4]float64 {
	return [4]float64{q.Imag, q.Jmag, q.Kmag, q.Real}
}

// Method selects a matrix to quaternion conversion.
type Method string

const (
	// MethodTrace uses MatrixToQuaternion.
	MethodTrace Method = "trace"
	// MethodRobust uses MatrixToQuaternionRobust.
	MethodRobust Method = "robust"
)

// ParseMethod validates a method name.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodTrace, MethodRobust:
		return m, nil
	default:
		return "", fmt.Errorf("unknown conversion method %q (want %q or %q)", s, MethodTrace, MethodRobust)
	}
}

// Convert converts m with the given method. An unknown method falls back to
// MethodTrace.
func Convert(m Matrix3, method Method) Quaternion {
	if method == MethodRobust {
		return MatrixToQuaternionRobust(m)
	}
	return MatrixToQuaternion(m)
}
