package implementations

import (
	"math"

	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/block"
	"github.com/annel0/funnyblocks/internal/world/entity"
	"github.com/go-gl/mathgl/mgl64"
)

// AcceleratorEffect разгоняет персонажа, пока он находится внутри блока ускорителя.
type AcceleratorEffect struct{}

func (e *AcceleratorEffect) Name() string { return "Accelerator" }

func (e *AcceleratorEffect) Markers() []block.Marker {
	return []block.Marker{block.MarkerAccelerator}
}

// OnPlace записывает настройки ускорителя по умолчанию
func (e *AcceleratorEffect) OnPlace(c *block.Context, ref block.Ref, blockEnt entity.ID) {
	c.Entities.Accelerators.Set(blockEnt, entity.AcceleratorBlock{
		Velocity:             c.Tuning.AcceleratorVelocity,
		IgnoreBlockDirection: c.Tuning.AcceleratorIgnore,
	})
}

// OnEnter запоминает у персонажа скорость ускорителя, повернутую по направлению блока
func (e *AcceleratorEffect) OnEnter(c *block.Context, ent entity.ID, ref block.Ref) {
	blockEnt, ok := c.BlockEntity(ref)
	if !ok {
		return
	}
	cfg, ok := c.Entities.Accelerators.Get(blockEnt)
	if !ok {
		return
	}

	velocity := cfg.Velocity
	if !cfg.IgnoreBlockDirection {
		velocity = OrientVelocity(velocity, ref.Facing.Direction())
	}

	c.Entities.Accelerations.Set(ent, entity.Acceleration{
		Velocity:             velocity,
		IgnoreBlockDirection: cfg.IgnoreBlockDirection,
	})
	c.Metrics.Triggered(block.MarkerAccelerator.String())
}

// OnEnterOther снимает разгон при выходе из ускорителя
func (e *AcceleratorEffect) OnEnterOther(c *block.Context, ent entity.ID, ref block.Ref) {
	c.Entities.Accelerations.Remove(ent)
}

// Update каждый тик передает сохраненную скорость как импульс
func (e *AcceleratorEffect) Update(c *block.Context) {
	for _, id := range entity.Query(c.Entities.Accelerations, c.Entities.Locations) {
		acc, ok := c.Entities.Accelerations.Get(id)
		if !ok {
			continue
		}
		c.Effects.ApplyImpulse(id, acc.Velocity)
	}
}

// OrientVelocity поворачивает v вокруг оси Y на угол между каноническим передом (0,0,-1)
// и направлением блока dir в горизонтальной плоскости. При dir.X > 0 поворот обратный.
// Для верха и низа v возвращается без изменений.
func OrientVelocity(v vec.Vec3Float, dir vec.Vec3) vec.Vec3Float {
	// вертикальная грань не задает направления в плоскости
	if dir.X == 0 && dir.Z == 0 {
		return v
	}
	front := block.SideFront.Direction()
	dot := float64(front.X*dir.X + front.Z*dir.Z)
	dot = math.Max(-1, math.Min(1, dot))
	angle := math.Acos(dot)
	if angle == 0 {
		return v
	}

	q := mgl64.QuatRotate(angle, mgl64.Vec3{0, 1, 0})
	if dir.X > 0 {
		q = q.Inverse()
	}
	return vec.FromMgl(q.Rotate(v.Mgl()))
}
