package vec

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0.49, 0},
		{0.5, 1},
		{1.2, 1},
		{-0.5, 0},
		{-0.51, -1},
		{-1.5, -1},
		{-2.7, -3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoundHalfUp(tc.in), "RoundHalfUp(%v)", tc.in)
	}
}

func TestBlockBelow(t *testing.T) {
	t.Run("Игрок стоит на блоке", func(t *testing.T) {
		pos := Vec3Float{X: 4.2, Y: 11.0, Z: -3.6}
		assert.Equal(t, Vec3{X: 4, Y: 10, Z: -4}, pos.BlockBelow())
	})

	t.Run("Половины округляются вверх", func(t *testing.T) {
		pos := Vec3Float{X: 0.5, Y: 1.5, Z: -0.5}
		assert.Equal(t, Vec3{X: 1, Y: 1, Z: 0}, pos.BlockBelow())
	})
}

func TestNormalizedAndHorizontal(t *testing.T) {
	v := Vec3Float{X: 3, Y: 7, Z: 4}
	h := v.Horizontal().Normalized()
	assert.InDelta(t, 0.6, h.X, 1e-9)
	assert.Equal(t, 0.0, h.Y)
	assert.InDelta(t, 0.8, h.Z, 1e-9)

	assert.True(t, Vec3Float{}.Normalized().IsZero(), "нулевой вектор остается нулевым")
}

func TestMglConversion(t *testing.T) {
	v := Vec3Float{X: 1, Y: -2, Z: 3.5}
	assert.Equal(t, mgl64.Vec3{1, -2, 3.5}, v.Mgl())
	assert.Equal(t, v, FromMgl(v.Mgl()))
}

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	assert.Equal(t, Vec3{X: 1, Y: 1, Z: 3}, a.Add(Down))
	assert.Equal(t, Vec3{}, a.Sub(a))
	assert.True(t, a.Equals(Vec3{X: 1, Y: 2, Z: 3}))
	assert.Equal(t, Vec3Float{X: 1, Y: 2, Z: 3}, a.ToFloat())
	assert.Equal(t, "(1, 2, 3)", a.String())
}
