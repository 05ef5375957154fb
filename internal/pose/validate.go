package pose

import (
	"fmt"
	"math"
)

// Tolerances for rotation and transform validity checks.
const (
	// MatrixValidationTolerance bounds |det-1| and each entry of RᵀR-I.
	MatrixValidationTolerance = 0.01
	// BottomRowTolerance bounds |T[15]-1|.
	BottomRowTolerance = 0.001
)

// PoseValidationResult contains the result of validating one pose.
type PoseValidationResult struct {
	Index  int
	Valid  bool
	Issues []string
}

// IsValidRotation reports whether m is a proper rotation: orthonormal with
// determinant ≈ 1, not a reflection.
func IsValidRotation(m Matrix3) bool {
	return len(rotationIssues(m)) == 0
}

// IsValidTransformMatrix checks if a 4x4 matrix is a valid rigid transform.
// A valid rigid transform has:
// 1. Orthonormal rotation submatrix (det ≈ 1)
// 2. Last row is [0 0 0 1]
func IsValidTransformMatrix(T Matrix4) bool {
	return len(transformIssues(T)) == 0
}

// ValidatePose checks a single pose and lists what is wrong with it.
func ValidatePose(index int, T Matrix4) PoseValidationResult {
	issues := transformIssues(T)
	return PoseValidationResult{
		Index:  index,
		Valid:  len(issues) == 0,
		Issues: issues,
	}
}

// ValidatePoses returns results for the poses that fail validation only.
func ValidatePoses(poses []Matrix4) []PoseValidationResult {
	var bad []PoseValidationResult
	for i, p := range poses {
		if r := ValidatePose(i, p); !r.Valid {
			bad = append(bad, r)
		}
	}
	return bad
}

func transformIssues(T Matrix4) []string {
	issues := make([]string, 0)
	for _, v := range T {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return append(issues, "matrix holds non-finite values")
		}
	}

	issues = append(issues, rotationIssues(T.Rotation())...)

	if T[12] != 0 || T[13] != 0 || T[14] != 0 || math.Abs(T[15]-1.0) > BottomRowTolerance {
		issues = append(issues, fmt.Sprintf("bottom row is [%g %g %g %g], want [0 0 0 1]", T[12], T[13], T[14], T[15]))
	}
	return issues
}

func rotationIssues(m Matrix3) []string {
	var issues []string

	det := m.Mat().Det()
	switch {
	case math.IsNaN(det):
		return append(issues, "rotation holds non-finite values")
	case det < 0:
		issues = append(issues, fmt.Sprintf("rotation is a reflection (det %.4f)", det))
	case math.Abs(det-1.0) > MatrixValidationTolerance:
		issues = append(issues, fmt.Sprintf("rotation determinant %.4f, want 1", det))
	}

	// RᵀR should be the identity.
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dot := m.At(0, i)*m.At(0, j) + m.At(1, i)*m.At(1, j) + m.At(2, i)*m.At(2, j)
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(dot-want) > MatrixValidationTolerance {
				return append(issues, "rotation columns are not orthonormal")
			}
		}
	}
	return issues
}
