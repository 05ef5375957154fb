package pose

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/posekit/internal/testutil"
)

func TestValidatePose_ValidIdentity(t *testing.T) {
	result := ValidatePose(0, Identity4())

	if !result.Valid {
		t.Errorf("expected valid pose, issues: %v", result.Issues)
	}
	if len(result.Issues) != 0 {
		t.Errorf("expected no issues, got %v", result.Issues)
	}
}

func TestValidatePose_FlippedIsStillValid(t *testing.T) {
	T := FromRotationTranslation(Matrix3(testutil.Rotation(1.0, r3.Vec{X: 1, Y: -1, Z: 2})), r3.Vec{X: 3})

	if !IsValidTransformMatrix(T.FlipYZ()) {
		t.Error("expected flipped rotation to remain a proper rotation")
	}
}

func TestValidatePose_InvalidRotation(t *testing.T) {
	tests := []struct {
		name string
		T    Matrix4
	}{
		{
			name: "scaled",
			T: Matrix4{
				2, 0, 0, 0, // Scale factor 2 makes det = 8
				0, 2, 0, 0,
				0, 0, 2, 0,
				0, 0, 0, 1,
			},
		},
		{
			name: "reflection",
			T: Matrix4{
				-1, 0, 0, 0,
				0, 1, 0, 0,
				0, 0, 1, 0,
				0, 0, 0, 1,
			},
		},
		{
			name: "sheared",
			T: Matrix4{
				1, 0.5, 0, 0, // det = 1 but columns not orthogonal
				0, 1, 0, 0,
				0, 0, 1, 0,
				0, 0, 0, 1,
			},
		},
		{
			name: "bad bottom row",
			T: Matrix4{
				1, 0, 0, 0,
				0, 1, 0, 0,
				0, 0, 1, 0,
				0, 1, 0, 1,
			},
		},
		{
			name: "non-finite",
			T: Matrix4{
				math.NaN(), 0, 0, 0,
				0, 1, 0, 0,
				0, 0, 1, 0,
				0, 0, 0, 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidatePose(7, tt.T)
			if result.Valid {
				t.Error("expected invalid pose")
			}
			if result.Index != 7 {
				t.Errorf("index = %d, want 7", result.Index)
			}
			if len(result.Issues) == 0 {
				t.Error("expected at least one issue")
			}
			if IsValidTransformMatrix(tt.T) {
				t.Error("IsValidTransformMatrix disagrees with ValidatePose")
			}
		})
	}
}

func TestIsValidRotation(t *testing.T) {
	if !IsValidRotation(Identity3()) {
		t.Error("identity should be a valid rotation")
	}
	if !IsValidRotation(Matrix3(testutil.Rotation(math.Pi, r3.Vec{Z: 1}))) {
		t.Error("half turn should be a valid rotation")
	}
	if IsValidRotation(Matrix3{1, 0, 0, 0, 1, 0, 0, 0, -1}) {
		t.Error("reflection should not be a valid rotation")
	}
	// within tolerance
	if !IsValidRotation(Matrix3{1.001, 0, 0, 0, 1, 0, 0, 0, 1}) {
		t.Error("small drift should be tolerated")
	}
}

func TestValidatePoses(t *testing.T) {
	poses := []Matrix4{
		Identity4(),
		{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 1},
		Identity4().FlipYZ(),
		{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 2},
	}

	bad := ValidatePoses(poses)
	if len(bad) != 2 {
		t.Fatalf("expected 2 invalid poses, got %d", len(bad))
	}
	if bad[0].Index != 1 || bad[1].Index != 3 {
		t.Errorf("unexpected indices %d, %d", bad[0].Index, bad[1].Index)
	}
	if len(ValidatePoses(nil)) != 0 {
		t.Error("expected no results for no poses")
	}
}
