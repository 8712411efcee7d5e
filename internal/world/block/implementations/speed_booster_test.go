package implementations

import (
	"testing"

	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeedBoosterEnterAndLeave(t *testing.T) {
	f := newFixture()
	e := &SpeedBoosterEffect{}
	ref, _ := f.place(vec.Vec3{Y: 1}, block.SpeedBoosterBlockID, block.SideFront)
	player := f.character(vec.Vec3Float{Y: 1}, vec.Vec3Float{X: 0, Y: -3, Z: 0.5})

	e.OnEnter(f.ctx, player, ref)

	mv, ok := f.ctx.Entities.Movements.Get(player)
	require.True(t, ok)
	assert.Equal(t, 5.0, mv.SpeedMultiplier)

	require.Len(t, f.effects.impulses, 1)
	assertVecInDelta(t, vec.Vec3Float{Y: 6, Z: 64}, f.effects.impulses[0].v)

	e.OnEnterOther(f.ctx, player, f.world.BlockAt(vec.Vec3{Y: 2}))
	mv, _ = f.ctx.Entities.Movements.Get(player)
	assert.Equal(t, 1.0, mv.SpeedMultiplier)
}

func TestSpeedBoosterStandingStill(t *testing.T) {
	f := newFixture()
	e := &SpeedBoosterEffect{}
	ref, _ := f.place(vec.Vec3{}, block.SpeedBoosterBlockID, block.SideFront)
	player := f.character(vec.Vec3Float{}, vec.Vec3Float{})

	e.OnEnter(f.ctx, player, ref)
	require.Len(t, f.effects.impulses, 1)
	assert.Equal(t, vec.Vec3Float{Y: 6}, f.effects.impulses[0].v, "без движения остается только подъем")
}

func TestSpeedBoosterSkipsEntitiesWithoutMovement(t *testing.T) {
	f := newFixture()
	e := &SpeedBoosterEffect{}
	ref, _ := f.place(vec.Vec3{}, block.SpeedBoosterBlockID, block.SideFront)
	id := f.ctx.Entities.Create()

	e.OnEnter(f.ctx, id, ref)
	e.OnEnterOther(f.ctx, id, ref)
	assert.Empty(t, f.effects.impulses)
	assert.False(t, f.ctx.Entities.Movements.Has(id))
}
