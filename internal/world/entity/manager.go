package entity

import (
	"sync"
	"sync/atomic"
)

// Manager выдает идентификаторы сущностей и владеет всеми таблицами компонентов
type Manager struct {
	mu           sync.RWMutex
	alive        map[ID]struct{}
	nextEntityID uint64

	Locations     *Store[Location]
	Movements     *Store[CharacterMovement]
	Accelerations *Store[Acceleration]
	LastVoxels    *Store[LastVoxel]

	BlockLocations *Store[BlockLocation]
	Accelerators   *Store[AcceleratorBlock]
	Bouncers       *Store[BouncerBlock]
	Breakers       *Store[BreakingState]
	SpeedBoosts    *Store[SpeedBoostState]
	SpeedBoosters  *Store[SpeedBoosterBlock]
	ActivePortals  *Store[ActivePortal]
	Healths        *Store[Health]

	stores map[string]remover
}

// NewManager создаёт новый менеджер сущностей
func NewManager() *Manager {
	m := &Manager{
		alive:          make(map[ID]struct{}),
		Locations:      NewStore[Location](),
		Movements:      NewStore[CharacterMovement](),
		Accelerations:  NewStore[Acceleration](),
		LastVoxels:     NewStore[LastVoxel](),
		BlockLocations: NewStore[BlockLocation](),
		Accelerators:   NewStore[AcceleratorBlock](),
		Bouncers:       NewStore[BouncerBlock](),
		Breakers:       NewStore[BreakingState](),
		SpeedBoosts:    NewStore[SpeedBoostState](),
		SpeedBoosters:  NewStore[SpeedBoosterBlock](),
		ActivePortals:  NewStore[ActivePortal](),
		Healths:        NewStore[Health](),
	}
	m.stores = map[string]remover{
		"location":       m.Locations,
		"movement":       m.Movements,
		"acceleration":   m.Accelerations,
		"last_voxel":     m.LastVoxels,
		"block_location": m.BlockLocations,
		"accelerator":    m.Accelerators,
		"bouncer":        m.Bouncers,
		"breaking":       m.Breakers,
		"speed_boost":    m.SpeedBoosts,
		"speed_booster":  m.SpeedBoosters,
		"active_portal":  m.ActivePortals,
		"health":         m.Healths,
	}
	return m
}

// Create регистрирует новую сущность без компонентов
func (m *Manager) Create() ID {
	id := ID(atomic.AddUint64(&m.nextEntityID, 1))

	m.mu.Lock()
	m.alive[id] = struct{}{}
	m.mu.Unlock()
	return id
}

// Destroy удаляет сущность и все ее компоненты
func (m *Manager) Destroy(id ID) bool {
	m.mu.Lock()
	_, exists := m.alive[id]
	delete(m.alive, id)
	m.mu.Unlock()

	if !exists {
		return false
	}
	for _, store := range m.stores {
		store.Remove(id)
	}
	return true
}

// Exists проверяет, что сущность зарегистрирована
func (m *Manager) Exists(id ID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.alive[id]
	return ok
}

// Count возвращает число живых сущностей
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.alive)
}

// GetStats возвращает статистику по сущностям и таблицам компонентов
func (m *Manager) GetStats() map[string]interface{} {
	stats := make(map[string]interface{})
	stats["total_entities"] = m.Count()

	components := make(map[string]int, len(m.stores))
	for name, store := range m.stores {
		components[name] = store.Count()
	}
	stats["components"] = components
	return stats
}
