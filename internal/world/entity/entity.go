package entity

import (
	"github.com/annel0/funnyblocks/internal/vec"
)

// ID идентифицирует сущность: персонажа или блок-сущность специального блока
type ID uint64

// Location - мировая позиция сущности
type Location struct {
	Position vec.Vec3Float `json:"position"`
}

// CharacterMovement - кинематика персонажа
type CharacterMovement struct {
	Velocity        vec.Vec3Float `json:"velocity"`
	Height          float64       `json:"height"`
	SpeedMultiplier float64       `json:"speed_multiplier"`
}

// Acceleration хранится у персонажа, пока он находится внутри ускорителя.
// Velocity уже повернута по направлению блока.
type Acceleration struct {
	Velocity             vec.Vec3Float `json:"velocity"`
	IgnoreBlockDirection bool          `json:"ignore_block_direction"`
}

// LastVoxel - округленная позиция персонажа на предыдущем шаге движения
type LastVoxel struct {
	Pos vec.Vec3 `json:"pos"`
}

// BlockLocation - позиция блока, которому принадлежит блок-сущность
type BlockLocation struct {
	Pos vec.Vec3 `json:"pos"`
}

// AcceleratorBlock - настройки ускорителя
type AcceleratorBlock struct {
	Velocity             vec.Vec3Float `json:"velocity"`
	IgnoreBlockDirection bool          `json:"ignore_block_direction"`
}

// BouncerBlock - сила отскока батута
type BouncerBlock struct {
	Force float64 `json:"force"`
}

// BreakingState - таймер разрушающегося блока
type BreakingState struct {
	BreakInterval float64 `json:"break_interval"` // секунды
	BreakTime     int64   `json:"break_time"`     // мс игрового времени
	Triggered     bool    `json:"triggered"`
}

// SpeedBoostState - направление и величина ускоряющей плитки
type SpeedBoostState struct {
	Direction     int `json:"direction"`
	SpeedIncrease int `json:"speed_increase"`
}

// SpeedBoosterBlock - множитель скорости ускорителя бега
type SpeedBoosterBlock struct {
	SpeedMultiplier float64 `json:"speed_multiplier"`
}

// ActivePortal - метка активного портала
type ActivePortal struct{}

// Health - прочность блок-сущности
type Health struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}
