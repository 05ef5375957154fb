package testutil

import (
	"math"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	t.Parallel()
	AssertError(t, os.ErrNotExist)
}

func TestWritePoseFile(t *testing.T) {
	t.Parallel()

	path := WritePoseFile(t, IdentityLine, IdentityLine)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, IdentityLine+"\n"+IdentityLine+"\n", string(data))

	empty := WritePoseFile(t)
	data, err = os.ReadFile(empty)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRotation_QuarterTurnAboutZ(t *testing.T) {
	t.Parallel()

	m := Rotation(math.Pi/2, r3.Vec{Z: 1})
	want := [9]float64{
		0, -1, 0,
		1, 0, 0,
		0, 0, 1,
	}
	for i := range want {
		assert.InDelta(t, want[i], m[i], 1e-12, "element %d", i)
	}
}

func TestRandomRotation_Orthonormal(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		m, angle := RandomRotation(rng, Deg(150))
		assert.LessOrEqual(t, angle, Deg(150))

		det := r3.NewMat(m[:]).Det()
		assert.InDelta(t, 1.0, det, 1e-9)
	}
}

func TestRandomAxis_Unit(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 20; i++ {
		assert.InDelta(t, 1.0, r3.Norm(RandomAxis(rng)), 1e-12)
	}
}
