package portal

import (
	"github.com/annel0/funnyblocks/internal/vec"
)

// Markers хранит метки активности на блоках порталов
type Markers interface {
	IsActive(pos vec.Vec3) bool
	SetActive(pos vec.Vec3, active bool)
}

// Result - итог активации
type Result struct {
	Changed bool
	Message string
}

func pathwaySuffix(s *PairState, c Color) string {
	if _, ok := s.Location(c.Other()); ok {
		return "Jump on top to teleport!"
	}
	if c == Blue {
		return "Activate an Orange Portal to complete pathway."
	}
	return "Activate a Blue Portal to complete pathway."
}

// Activate обрабатывает взаимодействие с порталом цвета c в позиции pos.
// Уже активный портал только сообщает статус. Иначе предыдущий портал того же цвета
// деактивируется, новый помечается активным и его позиция записывается в состояние.
func Activate(s *PairState, m Markers, c Color, pos vec.Vec3) Result {
	if m.IsActive(pos) {
		return Result{Message: "This portal is already activated. " + pathwaySuffix(s, c)}
	}

	if prev, ok := s.Location(c); ok {
		m.SetActive(prev, false)
	}
	m.SetActive(pos, true)
	s.set(c, pos.Ptr())

	return Result{
		Changed: true,
		Message: "Activated " + c.String() + " Portal. " + pathwaySuffix(s, c),
	}
}

// Destroy очищает позицию цвета c, если уничтожен именно активный портал
func Destroy(s *PairState, c Color, pos vec.Vec3) bool {
	cur, ok := s.Location(c)
	if !ok || !cur.Equals(pos) {
		return false
	}
	s.set(c, nil)
	return true
}

// Destination возвращает позицию парного портала, если сущность стоит на одном из порталов
// и оба портала активны. standing - округленная позиция сущности.
func Destination(s *PairState, standing vec.Vec3) (vec.Vec3, bool) {
	if s.Phase() != BothActive {
		return vec.Vec3{}, false
	}
	below := standing.Add(vec.Down)
	switch {
	case below.Equals(*s.Blue):
		return *s.Orange, true
	case below.Equals(*s.Orange):
		return *s.Blue, true
	}
	return vec.Vec3{}, false
}

// Restore согласует загруженное состояние с миром: позиции, где больше нет портала
// нужного цвета, очищаются, остальные снова помечаются активными.
// Возвращает цвета, которые пришлось очистить.
func Restore(s *PairState, m Markers, isPortal func(c Color, pos vec.Vec3) bool) []Color {
	var cleared []Color
	for _, c := range []Color{Blue, Orange} {
		pos, ok := s.Location(c)
		if !ok {
			continue
		}
		if !isPortal(c, pos) {
			s.set(c, nil)
			cleared = append(cleared, c)
			continue
		}
		m.SetActive(pos, true)
	}
	return cleared
}
