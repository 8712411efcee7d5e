package implementations

import (
	"github.com/annel0/funnyblocks/internal/logging"
	"github.com/annel0/funnyblocks/internal/portal"
	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/block"
	"github.com/annel0/funnyblocks/internal/world/entity"
)

// PortalEffect обслуживает синие и оранжевые порталы: активацию, разрушение и телепорт.
type PortalEffect struct{}

func (e *PortalEffect) Name() string { return "Portal" }

func (e *PortalEffect) Markers() []block.Marker {
	return []block.Marker{block.MarkerBluePortal, block.MarkerOrangePortal}
}

// ColorOf возвращает цвет портала по метке блока
func ColorOf(m block.Marker) (portal.Color, bool) {
	switch m {
	case block.MarkerBluePortal:
		return portal.Blue, true
	case block.MarkerOrangePortal:
		return portal.Orange, true
	}
	return portal.Blue, false
}

// activeMarkers хранит метку активности портала на его блок-сущности
type activeMarkers struct {
	c *block.Context
}

func (m activeMarkers) IsActive(pos vec.Vec3) bool {
	id, ok := m.c.World.BlockEntityAt(pos)
	return ok && m.c.Entities.ActivePortals.Has(id)
}

func (m activeMarkers) SetActive(pos vec.Vec3, active bool) {
	id, ok := m.c.World.BlockEntityAt(pos)
	if !ok {
		return
	}
	if active {
		m.c.Entities.ActivePortals.Set(id, entity.ActivePortal{})
	} else {
		m.c.Entities.ActivePortals.Remove(id)
	}
}

// ActiveMarkers возвращает метки активности порталов поверх блок-сущностей мира
func ActiveMarkers(c *block.Context) portal.Markers {
	return activeMarkers{c: c}
}

type terrain struct {
	w block.World
}

func (t terrain) IsPenetrable(pos vec.Vec3) bool {
	return t.w.IsPenetrable(t.w.BlockAt(pos))
}

func (e *PortalEffect) OnActivate(c *block.Context, instigator entity.ID, ref block.Ref, blockEnt entity.ID) {
	color, ok := ColorOf(c.World.MarkerOf(ref))
	if !ok {
		return
	}
	res := portal.Activate(c.Portals, activeMarkers{c: c}, color, ref.Pos)
	if res.Changed {
		logging.Info("🌀 %s портал активирован в %v, фаза %s", color, ref.Pos, c.Portals.Phase())
	}
	c.Effects.Notify(instigator, res.Message)
}

// OnDestroy очищает позицию цвета, только если разрушен активный портал
func (e *PortalEffect) OnDestroy(c *block.Context, ref block.Ref, blockEnt entity.ID) {
	if !c.Entities.ActivePortals.Has(blockEnt) {
		return
	}
	color, ok := ColorOf(c.World.MarkerOf(ref))
	if !ok {
		return
	}
	if portal.Destroy(c.Portals, color, ref.Pos) {
		logging.Info("🌀 %s портал разрушен в %v", color, ref.Pos)
	}
}

// OnMove телепортирует персонажа, вставшего на один из двух активных порталов.
// Проверка выполняется только при смене округленной позиции.
func (e *PortalEffect) OnMove(c *block.Context, ent entity.ID, pos vec.Vec3Float) {
	mv, ok := c.Entities.Movements.Get(ent)
	if !ok {
		return
	}

	cur := pos.Round()
	last, seen := c.Entities.LastVoxels.Get(ent)
	c.Entities.LastVoxels.Set(ent, entity.LastVoxel{Pos: cur})
	if !seen || last.Pos.Equals(cur) {
		return
	}

	dest, ok := portal.Destination(c.Portals, cur)
	if !ok {
		return
	}

	landing, ok := portal.FindLanding(terrain{w: c.World}, dest, mv.Height)
	if !ok {
		c.Effects.Notify(ent, portal.NoSpaceMessage)
		c.Metrics.TeleportFailed()
		return
	}
	c.Effects.Teleport(ent, landing)
	c.Metrics.Teleported()
}
