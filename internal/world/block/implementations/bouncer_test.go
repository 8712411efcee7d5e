package implementations

import (
	"testing"

	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBouncerImpulse(t *testing.T) {
	f := newFixture()
	e := &BouncerEffect{}
	ref, blockEnt := f.place(vec.Vec3{X: 0, Y: 10, Z: 0}, block.BouncerBlockID, block.SideFront)
	player := f.character(vec.Vec3Float{X: 0, Y: 11, Z: 0}, vec.Vec3Float{})

	cfg, ok := f.ctx.Entities.Bouncers.Get(blockEnt)
	require.True(t, ok)
	assert.Equal(t, 20.0, cfg.Force, "сила по умолчанию")

	e.OnStand(f.ctx, player, ref)
	e.OnStand(f.ctx, player, ref)

	require.Len(t, f.effects.impulses, 2, "батут не хранит состояния")
	assert.Equal(t, player, f.effects.impulses[0].id)
	assert.Equal(t, vec.Vec3Float{Y: 20}, f.effects.impulses[0].v)
}

func TestBouncerWithoutBlockEntity(t *testing.T) {
	f := newFixture()
	e := &BouncerEffect{}
	ref := block.Ref{Pos: vec.Vec3{X: 5}, ID: block.BouncerBlockID}
	player := f.character(vec.Vec3Float{X: 5, Y: 1}, vec.Vec3Float{})

	e.OnStand(f.ctx, player, ref)
	assert.Empty(t, f.effects.impulses)
}
