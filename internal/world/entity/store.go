package entity

import (
	"sort"
	"sync"
)

// Queryable - хранилище, участвующее в пересечении Query
type Queryable interface {
	Has(id ID) bool
	All() []ID
	Count() int
}

type remover interface {
	Remove(id ID)
	Count() int
}

// Store - типизированная таблица компонентов (sparse set)
type Store[T any] struct {
	mu         sync.RWMutex
	components map[ID]T
	entities   []ID
}

// NewStore создает пустую таблицу компонентов типа T
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		components: make(map[ID]T),
		entities:   make([]ID, 0, 16),
	}
}

// Set добавляет или заменяет компонент сущности
func (s *Store[T]) Set(id ID, val T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.components[id]; !exists {
		s.entities = append(s.entities, id)
	}
	s.components[id] = val
}

// Get возвращает компонент сущности
func (s *Store[T]) Get(id ID) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.components[id]
	return val, ok
}

// Update изменяет компонент на месте. Возвращает false, если компонента нет.
func (s *Store[T]) Update(id ID, fn func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, ok := s.components[id]
	if !ok {
		return false
	}
	fn(&val)
	s.components[id] = val
	return true
}

// Remove удаляет компонент сущности
func (s *Store[T]) Remove(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.components[id]; !exists {
		return
	}
	delete(s.components, id)
	for i, e := range s.entities {
		if e == id {
			s.entities[i] = s.entities[len(s.entities)-1]
			s.entities = s.entities[:len(s.entities)-1]
			break
		}
	}
}

// Has проверяет наличие компонента
func (s *Store[T]) Has(id ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.components[id]
	return ok
}

// All возвращает сущности с этим компонентом по возрастанию ID
func (s *Store[T]) All() []ID {
	s.mu.RLock()
	result := make([]ID, len(s.entities))
	copy(result, s.entities)
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Count возвращает число сущностей с этим компонентом
func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Clear удаляет все компоненты
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components = make(map[ID]T)
	s.entities = make([]ID, 0, 16)
}

// Query возвращает сущности, имеющие компоненты во всех переданных таблицах, по возрастанию ID.
// Пересечение начинается с самой маленькой таблицы.
func Query(stores ...Queryable) []ID {
	if len(stores) == 0 {
		return []ID{}
	}

	ordered := make([]Queryable, len(stores))
	copy(ordered, stores)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Count() < ordered[j].Count() })

	candidates := ordered[0].All()
	for _, store := range ordered[1:] {
		n := 0
		for _, id := range candidates {
			if store.Has(id) {
				candidates[n] = id
				n++
			}
		}
		candidates = candidates[:n]
		if n == 0 {
			break
		}
	}
	return candidates
}
