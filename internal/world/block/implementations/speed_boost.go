package implementations

import (
	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/block"
	"github.com/annel0/funnyblocks/internal/world/entity"
)

// BoostDirection - индекс направления ускоряющей плитки
type BoostDirection int

const (
	BoostUp BoostDirection = iota
	BoostRight
	BoostDown
	BoostLeft
	BoostPlayerRelative
)

func (d BoostDirection) String() string {
	switch d {
	case BoostUp:
		return "Up"
	case BoostRight:
		return "Right"
	case BoostDown:
		return "Down"
	case BoostLeft:
		return "Left"
	case BoostPlayerRelative:
		return "PlayerRelative"
	default:
		return "Unknown"
	}
}

// Next возвращает следующее направление в цикле 0→1→2→3→0. PlayerRelative переходит в 0.
func (d BoostDirection) Next() BoostDirection {
	n := d + 1
	if n > BoostLeft {
		return BoostUp
	}
	return n
}

// Vector возвращает единичный вектор направления. Для PlayerRelative это горизонтальное
// направление движения персонажа; без движения вектор нулевой.
func (d BoostDirection) Vector(moving vec.Vec3Float) vec.Vec3Float {
	switch d {
	case BoostUp:
		return vec.Vec3Float{Z: 1}
	case BoostRight:
		return vec.Vec3Float{X: -1}
	case BoostDown:
		return vec.Vec3Float{Z: -1}
	case BoostLeft:
		return vec.Vec3Float{X: 1}
	case BoostPlayerRelative:
		return moving.Horizontal().Normalized()
	default:
		return vec.Vec3Float{}
	}
}

// DirectionForSide выбирает начальное направление по варианту установленного блока
func DirectionForSide(s block.Side) BoostDirection {
	switch s {
	case block.SideFront:
		return BoostUp
	case block.SideRight:
		return BoostRight
	case block.SideBack:
		return BoostDown
	case block.SideLeft:
		return BoostLeft
	default:
		return BoostPlayerRelative
	}
}

// familyOrder - порядок вариантов в семействе блока: [left, right, front, back]
var familyOrder = [4]block.Side{block.SideLeft, block.SideRight, block.SideFront, block.SideBack}

// FaceTable переставляет варианты семейства так, что индекс совпадает с направлением:
// 0 ← family[2], 1 ← family[1], 2 ← family[3], 3 ← family[0].
func FaceTable(family [4]block.Side) [4]block.Side {
	return [4]block.Side{family[2], family[1], family[3], family[0]}
}

// SideForDirection возвращает видимый вариант блока для направления.
// PlayerRelative не имеет варианта.
func SideForDirection(d BoostDirection) (block.Side, bool) {
	if d < BoostUp || d > BoostLeft {
		return block.SideTop, false
	}
	return FaceTable(familyOrder)[d], true
}

// SpeedBoostEffect толкает персонажа по направлению плитки; взаимодействие поворачивает плитку.
type SpeedBoostEffect struct{}

func (e *SpeedBoostEffect) Name() string { return "SpeedBoost" }

func (e *SpeedBoostEffect) Markers() []block.Marker {
	return []block.Marker{block.MarkerSpeedBoost}
}

func (e *SpeedBoostEffect) OnPlace(c *block.Context, ref block.Ref, blockEnt entity.ID) {
	c.Entities.SpeedBoosts.Set(blockEnt, entity.SpeedBoostState{
		Direction:     int(DirectionForSide(ref.Facing)),
		SpeedIncrease: c.Tuning.SpeedIncrease,
	})
}

func (e *SpeedBoostEffect) OnStand(c *block.Context, ent entity.ID, ref block.Ref) {
	blockEnt, ok := c.BlockEntity(ref)
	if !ok {
		return
	}
	st, ok := c.Entities.SpeedBoosts.Get(blockEnt)
	if !ok || st.SpeedIncrease == 0 {
		return
	}
	mv, ok := c.Entities.Movements.Get(ent)
	if !ok {
		return
	}

	dir := BoostDirection(st.Direction).Vector(mv.Velocity)
	if dir.IsZero() {
		return
	}
	c.Effects.ApplyImpulse(ent, dir.Mul(float64(st.SpeedIncrease)))
	c.Metrics.Triggered(block.MarkerSpeedBoost.String())
}

// OnActivate переключает направление и перекрашивает блок
func (e *SpeedBoostEffect) OnActivate(c *block.Context, instigator entity.ID, ref block.Ref, blockEnt entity.ID) {
	var next BoostDirection
	ok := c.Entities.SpeedBoosts.Update(blockEnt, func(st *entity.SpeedBoostState) {
		next = BoostDirection(st.Direction).Next()
		st.Direction = int(next)
	})
	if !ok {
		return
	}
	if side, ok := SideForDirection(next); ok {
		c.World.SetFacing(ref.Pos, side)
	}
}
