package implementations

import (
	"github.com/annel0/funnyblocks/internal/world/block"
	"github.com/annel0/funnyblocks/internal/world/entity"
)

// SpeedBoosterEffect увеличивает множитель скорости персонажа, пока он внутри блока,
// и подталкивает его вперед и вверх при входе.
type SpeedBoosterEffect struct{}

func (e *SpeedBoosterEffect) Name() string { return "SpeedBooster" }

func (e *SpeedBoosterEffect) Markers() []block.Marker {
	return []block.Marker{block.MarkerSpeedBooster}
}

func (e *SpeedBoosterEffect) OnPlace(c *block.Context, ref block.Ref, blockEnt entity.ID) {
	c.Entities.SpeedBoosters.Set(blockEnt, entity.SpeedBoosterBlock{SpeedMultiplier: c.Tuning.SpeedMultiplier})
}

func (e *SpeedBoosterEffect) OnEnter(c *block.Context, ent entity.ID, ref block.Ref) {
	blockEnt, ok := c.BlockEntity(ref)
	if !ok {
		return
	}
	cfg, ok := c.Entities.SpeedBoosters.Get(blockEnt)
	if !ok {
		return
	}

	var mv entity.CharacterMovement
	if !c.Entities.Movements.Update(ent, func(m *entity.CharacterMovement) {
		m.SpeedMultiplier = cfg.SpeedMultiplier
		mv = *m
	}) {
		return
	}

	impulse := mv.Velocity.Horizontal().Normalized().Mul(c.Tuning.BoosterImpulse)
	impulse.Y = c.Tuning.BoosterLift
	c.Effects.ApplyImpulse(ent, impulse)
	c.Metrics.Triggered(block.MarkerSpeedBooster.String())
}

// OnEnterOther возвращает обычный множитель скорости
func (e *SpeedBoosterEffect) OnEnterOther(c *block.Context, ent entity.ID, ref block.Ref) {
	c.Entities.Movements.Update(ent, func(m *entity.CharacterMovement) {
		m.SpeedMultiplier = 1.0
	})
}
