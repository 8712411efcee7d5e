package entity

import (
	"testing"

	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetGetRemove(t *testing.T) {
	s := NewStore[BouncerBlock]()

	s.Set(3, BouncerBlock{Force: 20})
	s.Set(1, BouncerBlock{Force: 5})
	s.Set(3, BouncerBlock{Force: 25})

	val, ok := s.Get(3)
	require.True(t, ok)
	assert.Equal(t, 25.0, val.Force, "повторный Set заменяет компонент")
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, []ID{1, 3}, s.All(), "All упорядочен по ID")

	s.Remove(1)
	assert.False(t, s.Has(1))
	assert.Equal(t, []ID{3}, s.All())

	s.Remove(42) // отсутствующий компонент
	assert.Equal(t, 1, s.Count())
}

func TestStoreUpdate(t *testing.T) {
	s := NewStore[BreakingState]()
	assert.False(t, s.Update(1, func(b *BreakingState) { b.Triggered = true }))

	s.Set(1, BreakingState{BreakInterval: 1})
	assert.True(t, s.Update(1, func(b *BreakingState) { b.Triggered = true }))

	val, _ := s.Get(1)
	assert.True(t, val.Triggered)
}

func TestQueryIntersection(t *testing.T) {
	m := NewManager()
	a := m.Create()
	b := m.Create()
	c := m.Create()

	for _, id := range []ID{a, b, c} {
		m.Locations.Set(id, Location{})
	}
	m.Movements.Set(c, CharacterMovement{Height: 1.8})
	m.Movements.Set(a, CharacterMovement{Height: 1.8})

	assert.Equal(t, []ID{a, c}, Query(m.Locations, m.Movements))
	assert.Empty(t, Query(m.Locations, m.Accelerations))
	assert.Empty(t, Query())
}

func TestManagerDestroyRemovesComponents(t *testing.T) {
	m := NewManager()
	id := m.Create()
	m.Locations.Set(id, Location{Position: vec.Vec3Float{Y: 3}})
	m.Healths.Set(id, Health{Current: 3, Max: 3})
	m.ActivePortals.Set(id, ActivePortal{})

	assert.True(t, m.Exists(id))
	assert.True(t, m.Destroy(id))
	assert.False(t, m.Destroy(id), "повторное удаление ничего не делает")

	assert.False(t, m.Exists(id))
	assert.False(t, m.Locations.Has(id))
	assert.False(t, m.Healths.Has(id))
	assert.False(t, m.ActivePortals.Has(id))
	assert.Equal(t, 0, m.Count())
}

func TestManagerIDsAreUnique(t *testing.T) {
	m := NewManager()
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := m.Create()
		assert.False(t, seen[id])
		seen[id] = true
	}

	stats := m.GetStats()
	assert.Equal(t, 100, stats["total_entities"])
}
