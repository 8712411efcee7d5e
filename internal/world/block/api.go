package block

import (
	"github.com/annel0/funnyblocks/internal/config"
	"github.com/annel0/funnyblocks/internal/metrics"
	"github.com/annel0/funnyblocks/internal/portal"
	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/entity"
)

// DamagePhysical - тип урона разрушающегося блока
const DamagePhysical = "physical"

// World определяет интерфейс чтения сетки блоков и перекраски блоков.
type World interface {
	// BlockAt возвращает блок в позиции; пустая клетка - воздух.
	BlockAt(pos vec.Vec3) Ref

	IsPenetrable(ref Ref) bool

	MarkerOf(ref Ref) Marker

	// SetFacing меняет видимый вариант блока (перекраска), не пересоздавая блок-сущность.
	SetFacing(pos vec.Vec3, facing Side)

	// BlockEntityAt возвращает блок-сущность специального блока.
	BlockEntityAt(pos vec.Vec3) (entity.ID, bool)
}

// Effects определяет сервисы хоста, которыми пользуются поведения блоков.
type Effects interface {
	// ApplyImpulse мгновенно добавляет impulse к скорости персонажа.
	ApplyImpulse(id entity.ID, impulse vec.Vec3Float)

	// ApplyDamage наносит урон сущности (в том числе блок-сущности).
	ApplyDamage(id entity.ID, amount int, damageType string)

	// Teleport перемещает персонажа в точку dest.
	Teleport(id entity.ID, dest vec.Vec3Float)

	// Notify доставляет текстовое сообщение владельцу сущности.
	Notify(recipient entity.ID, message string)
}

// Context передается в обработчики поведений на время одного события или тика
type Context struct {
	World    World
	Effects  Effects
	Entities *entity.Manager
	Portals  *portal.PairState
	Tuning   config.BlocksConfig
	Metrics  *metrics.Collector
	NowMs    int64
}

// BlockEntity возвращает блок-сущность для ref
func (c *Context) BlockEntity(ref Ref) (entity.ID, bool) {
	return c.World.BlockEntityAt(ref.Pos)
}
