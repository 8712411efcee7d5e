// Package portal содержит автомат состояний пары порталов (синий/оранжевый)
// и поиск точки прибытия рядом с порталом назначения.
package portal

import (
	"github.com/annel0/funnyblocks/internal/vec"
)

// Color - цвет портала
type Color uint8

const (
	Blue Color = iota
	Orange
)

func (c Color) String() string {
	if c == Orange {
		return "Orange"
	}
	return "Blue"
}

// Other возвращает парный цвет
func (c Color) Other() Color {
	if c == Blue {
		return Orange
	}
	return Blue
}

// Phase - фаза пары порталов
type Phase uint8

const (
	Inactive Phase = iota
	BlueOnly
	OrangeOnly
	BothActive
)

func (p Phase) String() string {
	switch p {
	case BlueOnly:
		return "BlueOnly"
	case OrangeOnly:
		return "OrangeOnly"
	case BothActive:
		return "BothActive"
	default:
		return "Inactive"
	}
}

// PairState - единственное на мир состояние пары порталов. Сохраняется между перезапусками.
type PairState struct {
	Blue   *vec.Vec3 `json:"blue_portal_location,omitempty"`
	Orange *vec.Vec3 `json:"orange_portal_location,omitempty"`
}

// NewPairState создает состояние без активных порталов
func NewPairState() *PairState {
	return &PairState{}
}

// Location возвращает позицию активного портала указанного цвета
func (s *PairState) Location(c Color) (vec.Vec3, bool) {
	p := s.Blue
	if c == Orange {
		p = s.Orange
	}
	if p == nil {
		return vec.Vec3{}, false
	}
	return *p, true
}

func (s *PairState) set(c Color, p *vec.Vec3) {
	if c == Orange {
		s.Orange = p
	} else {
		s.Blue = p
	}
}

// Phase вычисляет фазу по наличию активных порталов
func (s *PairState) Phase() Phase {
	switch {
	case s.Blue != nil && s.Orange != nil:
		return BothActive
	case s.Blue != nil:
		return BlueOnly
	case s.Orange != nil:
		return OrangeOnly
	default:
		return Inactive
	}
}

// Clone возвращает независимую копию состояния
func (s *PairState) Clone() PairState {
	var out PairState
	if s.Blue != nil {
		out.Blue = s.Blue.Ptr()
	}
	if s.Orange != nil {
		out.Orange = s.Orange.Ptr()
	}
	return out
}

// Equal сравнивает состояния по значениям позиций
func (s PairState) Equal(other PairState) bool {
	return samePos(s.Blue, other.Blue) && samePos(s.Orange, other.Orange)
}

func samePos(a, b *vec.Vec3) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(*b)
}
