package implementations

import (
	"math"

	"github.com/annel0/funnyblocks/internal/logging"
	"github.com/annel0/funnyblocks/internal/world/block"
	"github.com/annel0/funnyblocks/internal/world/entity"
)

// BreakerEffect - блок, который начинает разрушаться после того, как на него встали.
// Пока блок существует, он получает урон раз в BreakInterval секунд.
type BreakerEffect struct{}

func (e *BreakerEffect) Name() string { return "Breaker" }

func (e *BreakerEffect) Markers() []block.Marker {
	return []block.Marker{block.MarkerBreaker}
}

func intervalMs(seconds float64) int64 {
	return int64(math.Floor(seconds * 1000))
}

func (e *BreakerEffect) OnPlace(c *block.Context, ref block.Ref, blockEnt entity.ID) {
	c.Entities.Breakers.Set(blockEnt, entity.BreakingState{BreakInterval: c.Tuning.BreakInterval})
}

// OnStand взводит таймер при первом касании. Повторные касания таймер не сдвигают.
func (e *BreakerEffect) OnStand(c *block.Context, ent entity.ID, ref block.Ref) {
	blockEnt, ok := c.BlockEntity(ref)
	if !ok {
		return
	}
	c.Entities.Breakers.Update(blockEnt, func(st *entity.BreakingState) {
		if st.Triggered {
			return
		}
		st.Triggered = true
		st.BreakTime = c.NowMs + intervalMs(st.BreakInterval)
		logging.Debug("Breaker %v взведен, урон в %d мс", ref.Pos, st.BreakTime)
		c.Metrics.Triggered(block.MarkerBreaker.String())
	})
}

// Update наносит урон взведенным блокам, у которых истек таймер, и взводит их заново
func (e *BreakerEffect) Update(c *block.Context) {
	for _, id := range c.Entities.Breakers.All() {
		due := false
		c.Entities.Breakers.Update(id, func(st *entity.BreakingState) {
			if !st.Triggered || c.NowMs < st.BreakTime {
				return
			}
			st.BreakTime = c.NowMs + intervalMs(st.BreakInterval)
			due = true
		})
		if !due {
			continue
		}
		c.Effects.ApplyDamage(id, c.Tuning.BreakDamage, block.DamagePhysical)
		c.Metrics.BreakDamage(c.Tuning.BreakDamage)
	}
}
