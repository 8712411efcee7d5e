package world

import (
	"github.com/annel0/funnyblocks/internal/physics"
	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/block"
)

// Detector находит специальные блоки, с которыми соприкасается сущность
type Detector struct {
	world block.World
}

// NewDetector создаёт детектор поверх сетки блоков
func NewDetector(w block.World) *Detector {
	return &Detector{world: w}
}

// Beneath возвращает блок с меткой прямо под позицией. Сравнение идет по округленной позиции.
func (d *Detector) Beneath(pos vec.Vec3Float) (block.Ref, block.Marker, bool) {
	ref := d.world.BlockAt(pos.BlockBelow())
	m := d.world.MarkerOf(ref)
	if m == block.MarkerNone {
		return block.Ref{}, block.MarkerNone, false
	}
	return ref, m, true
}

// IsHeadLevel сообщает, что клетка со смещением relative находится на уровне головы
func IsHeadLevel(relative vec.Vec3, height float64) bool {
	return relative.Y == physics.NewColumnCollider(height).HeadOffset()
}

// EnterEvents строит события входа для смены клетки ног с oldFeet на newFeet: по одному на
// каждую клетку столбца, сверху вниз, так что клетка ног обрабатывается последней.
func EnterEvents(w block.World, ev MoveInputEvent, oldFeet, newFeet vec.Vec3, height float64) []EnterBlockEvent {
	collider := physics.NewColumnCollider(height)
	cells := collider.Cells()
	out := make([]EnterBlockEvent, 0, cells)
	for j := cells - 1; j >= 0; j-- {
		rel := vec.Vec3{Y: j}
		out = append(out, EnterBlockEvent{
			EntityID: ev.EntityID,
			OldBlock: w.BlockAt(oldFeet.Add(rel)),
			NewBlock: w.BlockAt(newFeet.Add(rel)),
			Relative: rel,
		})
	}
	return out
}
