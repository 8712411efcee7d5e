package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoiseDeterministicAndBounded(t *testing.T) {
	a := NewNoise(7)
	b := NewNoise(7)

	for i := 0; i < 50; i++ {
		x, y := float64(i)*0.13, float64(i)*0.07
		va := a.Noise2D(x, y)
		assert.Equal(t, va, b.Noise2D(x, y), "одинаковый сид должен давать одинаковый шум")
		assert.GreaterOrEqual(t, va, 0.0)
		assert.LessOrEqual(t, va, 1.0)
	}
	assert.Equal(t, int64(7), a.Seed())
}
