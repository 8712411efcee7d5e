package world

import (
	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/block"
	"github.com/annel0/funnyblocks/internal/world/entity"
)

// EventType определяет тип события
type EventType uint8

const (
	EventTypeMoveInput  EventType = iota // Шаг движения персонажа
	EventTypeEnterBlock                  // Вход сущности в клетку
	EventTypeActivate                    // Взаимодействие с блоком
	EventTypePlace                       // Установка блока
	EventTypeDestroy                     // Разрушение блока
)

func (t EventType) String() string {
	switch t {
	case EventTypeMoveInput:
		return "MoveInput"
	case EventTypeEnterBlock:
		return "EnterBlock"
	case EventTypeActivate:
		return "Activate"
	case EventTypePlace:
		return "Place"
	case EventTypeDestroy:
		return "Destroy"
	default:
		return "Unknown"
	}
}

// Event представляет собой интерфейс для всех событий
type Event interface {
	GetType() EventType
}

// MoveInputEvent - новая позиция и скорость персонажа, посчитанные клиентом
type MoveInputEvent struct {
	EntityID entity.ID
	Position vec.Vec3Float
	Velocity vec.Vec3Float
}

// GetType возвращает тип события
func (e MoveInputEvent) GetType() EventType { return EventTypeMoveInput }

// EnterBlockEvent - сущность перешла из OldBlock в NewBlock.
// Relative - смещение клетки относительно ног сущности.
type EnterBlockEvent struct {
	EntityID entity.ID
	OldBlock block.Ref
	NewBlock block.Ref
	Relative vec.Vec3
}

// GetType возвращает тип события
func (e EnterBlockEvent) GetType() EventType { return EventTypeEnterBlock }

// ActivateEvent - игрок взаимодействует с блоком в позиции Target
type ActivateEvent struct {
	Instigator entity.ID
	Target     vec.Vec3
}

// GetType возвращает тип события
func (e ActivateEvent) GetType() EventType { return EventTypeActivate }

// PlaceEvent - установка блока
type PlaceEvent struct {
	Pos    vec.Vec3
	ID     block.BlockID
	Facing block.Side
}

// GetType возвращает тип события
func (e PlaceEvent) GetType() EventType { return EventTypePlace }

// DestroyEvent - разрушение блока. Reason попадает в событие шины.
type DestroyEvent struct {
	Pos    vec.Vec3
	Reason string
}

// GetType возвращает тип события
func (e DestroyEvent) GetType() EventType { return EventTypeDestroy }
