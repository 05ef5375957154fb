// Package testutil provides shared test utilities and fixtures for the pose
// packages.
//
// It deliberately does not import internal/pose so that package can use it
// from its own tests. Matrices are exchanged as plain row-major arrays.
package testutil

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// IdentityLine is the identity pose in the pose file format.
const IdentityLine = "1 0 0 0 0 1 0 0 0 0 1 0 0 0 0 1"

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// WritePoseFile writes lines to a fresh file in a test temp dir and returns
// its path.
func WritePoseFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "poses.txt")
	data := strings.Join(lines, "\n")
	if len(lines) > 0 {
		data += "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write pose file: %v", err)
	}
	return path
}

// RandomAxis returns a uniformly distributed unit vector.
func RandomAxis(rng *rand.Rand) r3.Vec {
	for {
		v := r3.Vec{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1, Z: rng.Float64()*2 - 1}
		if n := r3.Norm(v); n > 1e-3 && n <= 1 {
			return r3.Unit(v)
		}
	}
}

// Rotation returns the row-major matrix of a rotation by angle radians
// about axis.
func Rotation(angle float64, axis r3.Vec) [9]float64 {
	m := r3.NewRotation(angle, axis).Mat()
	var out [9]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[3*r+c] = m.At(r, c)
		}
	}
	return out
}

// RandomRotation returns a rotation about a random axis with angle drawn
// uniformly from [0, maxAngle], along with the angle.
func RandomRotation(rng *rand.Rand, maxAngle float64) ([9]float64, float64) {
	angle := rng.Float64() * maxAngle
	return Rotation(angle, RandomAxis(rng)), angle
}

// Deg converts degrees to radians.
func Deg(d float64) float64 { return d * math.Pi / 180 }
