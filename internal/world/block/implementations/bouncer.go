package implementations

import (
	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/block"
	"github.com/annel0/funnyblocks/internal/world/entity"
)

// BouncerEffect подбрасывает персонажа, вставшего на батут
type BouncerEffect struct{}

func (e *BouncerEffect) Name() string { return "Bouncer" }

func (e *BouncerEffect) Markers() []block.Marker {
	return []block.Marker{block.MarkerBouncer}
}

func (e *BouncerEffect) OnPlace(c *block.Context, ref block.Ref, blockEnt entity.ID) {
	c.Entities.Bouncers.Set(blockEnt, entity.BouncerBlock{Force: c.Tuning.BouncerForce})
}

// OnStand выдает вертикальный импульс силы батута
func (e *BouncerEffect) OnStand(c *block.Context, ent entity.ID, ref block.Ref) {
	blockEnt, ok := c.BlockEntity(ref)
	if !ok {
		return
	}
	cfg, ok := c.Entities.Bouncers.Get(blockEnt)
	if !ok {
		return
	}
	c.Effects.ApplyImpulse(ent, vec.Vec3Float{Y: cfg.Force})
	c.Metrics.Triggered(block.MarkerBouncer.String())
}
