package block

import (
	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/entity"
)

// Effect - поведение специального блока. Одно поведение может обслуживать несколько меток.
// Возможности поведения объявляются дополнительными интерфейсами ниже.
type Effect interface {
	Name() string
	Markers() []Marker
}

// StandHandler вызывается, когда блок с меткой находится прямо под ногами персонажа
type StandHandler interface {
	OnStand(c *Context, ent entity.ID, ref Ref)
}

// EnterHandler получает события входа сущности в клетку.
// OnEnter - новая клетка несет метку поведения, OnEnterOther - любая другая клетка.
type EnterHandler interface {
	OnEnter(c *Context, ent entity.ID, ref Ref)
	OnEnterOther(c *Context, ent entity.ID, ref Ref)
}

// MoveObserver вызывается на каждом шаге движения персонажа
type MoveObserver interface {
	OnMove(c *Context, ent entity.ID, pos vec.Vec3Float)
}

// ActivateHandler обрабатывает взаимодействие игрока с блоком
type ActivateHandler interface {
	OnActivate(c *Context, instigator entity.ID, ref Ref, blockEnt entity.ID)
}

// PlaceHandler инициализирует блок-сущность при установке блока
type PlaceHandler interface {
	OnPlace(c *Context, ref Ref, blockEnt entity.ID)
}

// DestroyHandler вызывается перед удалением блока и его блок-сущности
type DestroyHandler interface {
	OnDestroy(c *Context, ref Ref, blockEnt entity.ID)
}

// Ticker выполняет периодическое обновление на каждом тике
type Ticker interface {
	Update(c *Context)
}
