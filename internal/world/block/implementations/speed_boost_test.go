package implementations

import (
	"testing"

	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoostDirectionVectors(t *testing.T) {
	moving := vec.Vec3Float{X: 3, Y: -9, Z: 4}
	assert.Equal(t, vec.Vec3Float{Z: 1}, BoostUp.Vector(moving))
	assert.Equal(t, vec.Vec3Float{X: -1}, BoostRight.Vector(moving))
	assert.Equal(t, vec.Vec3Float{Z: -1}, BoostDown.Vector(moving))
	assert.Equal(t, vec.Vec3Float{X: 1}, BoostLeft.Vector(moving))

	rel := BoostPlayerRelative.Vector(moving)
	assert.InDelta(t, 0.6, rel.X, 1e-9)
	assert.Equal(t, 0.0, rel.Y)
	assert.InDelta(t, 0.8, rel.Z, 1e-9)
}

func TestBoostDirectionCycle(t *testing.T) {
	assert.Equal(t, BoostRight, BoostUp.Next())
	assert.Equal(t, BoostDown, BoostRight.Next())
	assert.Equal(t, BoostLeft, BoostDown.Next())
	assert.Equal(t, BoostUp, BoostLeft.Next())
	assert.Equal(t, BoostUp, BoostPlayerRelative.Next())

	for start := BoostUp; start <= BoostLeft; start++ {
		d := start
		for i := 0; i < 4; i++ {
			d = d.Next()
		}
		assert.Equal(t, start, d, "четыре переключения возвращают исходное направление")
	}
}

func TestDirectionForSideMatchesFaceTable(t *testing.T) {
	assert.Equal(t, BoostUp, DirectionForSide(block.SideFront))
	assert.Equal(t, BoostRight, DirectionForSide(block.SideRight))
	assert.Equal(t, BoostDown, DirectionForSide(block.SideBack))
	assert.Equal(t, BoostLeft, DirectionForSide(block.SideLeft))
	assert.Equal(t, BoostPlayerRelative, DirectionForSide(block.SideTop))

	for d := BoostUp; d <= BoostLeft; d++ {
		side, ok := SideForDirection(d)
		require.True(t, ok)
		assert.Equal(t, d, DirectionForSide(side), "вариант блока и направление согласованы (%s)", d)
	}
	_, ok := SideForDirection(BoostPlayerRelative)
	assert.False(t, ok)

	table := FaceTable([4]block.Side{block.SideLeft, block.SideRight, block.SideFront, block.SideBack})
	assert.Equal(t, [4]block.Side{block.SideFront, block.SideRight, block.SideBack, block.SideLeft}, table)
}

func TestSpeedBoostStandImpulse(t *testing.T) {
	f := newFixture()
	e := &SpeedBoostEffect{}
	ref, blockEnt := f.place(vec.Vec3{}, block.SpeedBoostBlockID, block.SideFront)
	player := f.character(vec.Vec3Float{Y: 1}, vec.Vec3Float{X: 1})

	st, ok := f.ctx.Entities.SpeedBoosts.Get(blockEnt)
	require.True(t, ok)
	assert.Equal(t, int(BoostUp), st.Direction)
	assert.Equal(t, 2, st.SpeedIncrease)

	e.OnStand(f.ctx, player, ref)
	require.Len(t, f.effects.impulses, 1)
	assert.Equal(t, vec.Vec3Float{Z: 2}, f.effects.impulses[0].v)
}

func TestSpeedBoostPlayerRelative(t *testing.T) {
	f := newFixture()
	e := &SpeedBoostEffect{}
	ref, _ := f.place(vec.Vec3{}, block.SpeedBoostBlockID, block.SideTop)
	walker := f.character(vec.Vec3Float{Y: 1}, vec.Vec3Float{X: 3, Z: 4})
	idle := f.character(vec.Vec3Float{Y: 1}, vec.Vec3Float{Y: -2})

	e.OnStand(f.ctx, walker, ref)
	e.OnStand(f.ctx, idle, ref)

	require.Len(t, f.effects.impulses, 1, "без горизонтального движения импульса нет")
	assert.InDelta(t, 1.2, f.effects.impulses[0].v.X, 1e-9)
	assert.InDelta(t, 1.6, f.effects.impulses[0].v.Z, 1e-9)
}

func TestSpeedBoostZeroIncreaseSkipped(t *testing.T) {
	f := newFixture()
	f.ctx.Tuning.SpeedIncrease = 0
	e := &SpeedBoostEffect{}
	ref, _ := f.place(vec.Vec3{}, block.SpeedBoostBlockID, block.SideFront)
	player := f.character(vec.Vec3Float{Y: 1}, vec.Vec3Float{})

	e.OnStand(f.ctx, player, ref)
	assert.Empty(t, f.effects.impulses)
}

func TestSpeedBoostActivateCyclesAndRepaints(t *testing.T) {
	f := newFixture()
	e := &SpeedBoostEffect{}
	pos := vec.Vec3{X: 1}
	ref, blockEnt := f.place(pos, block.SpeedBoostBlockID, block.SideFront)
	player := f.character(vec.Vec3Float{}, vec.Vec3Float{})

	wantSides := []block.Side{block.SideRight, block.SideBack, block.SideLeft, block.SideFront}
	for i, want := range wantSides {
		e.OnActivate(f.ctx, player, f.world.BlockAt(pos), blockEnt)
		st, _ := f.ctx.Entities.SpeedBoosts.Get(blockEnt)
		assert.Equal(t, (i+1)%4, st.Direction)
		assert.Equal(t, want, f.world.BlockAt(pos).Facing)
	}
	assert.Equal(t, ref.ID, f.world.BlockAt(pos).ID)
}

func TestSpeedBoostActivateFromPlayerRelative(t *testing.T) {
	f := newFixture()
	e := &SpeedBoostEffect{}
	pos := vec.Vec3{}
	_, blockEnt := f.place(pos, block.SpeedBoostBlockID, block.SideBottom)
	player := f.character(vec.Vec3Float{}, vec.Vec3Float{})

	e.OnActivate(f.ctx, player, f.world.BlockAt(pos), blockEnt)
	st, _ := f.ctx.Entities.SpeedBoosts.Get(blockEnt)
	assert.Equal(t, int(BoostUp), st.Direction)
	assert.Equal(t, block.SideFront, f.world.BlockAt(pos).Facing)
}
