package world

import (
	"sort"
	"sync"

	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/block"
	"github.com/annel0/funnyblocks/internal/world/entity"
)

// Manager хранит сетку блоков и связи специальных блоков с их блок-сущностями.
// Пустая клетка считается воздухом.
type Manager struct {
	mu            sync.RWMutex
	blocks        map[vec.Vec3]block.Ref
	blockEntities map[vec.Vec3]entity.ID
	entities      *entity.Manager
}

// NewManager создаёт пустой мир поверх менеджера сущностей
func NewManager(entities *entity.Manager) *Manager {
	return &Manager{
		blocks:        make(map[vec.Vec3]block.Ref),
		blockEntities: make(map[vec.Vec3]entity.ID),
		entities:      entities,
	}
}

// Entities возвращает менеджер сущностей мира
func (w *Manager) Entities() *entity.Manager {
	return w.entities
}

// BlockAt возвращает блок в позиции
func (w *Manager) BlockAt(pos vec.Vec3) block.Ref {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if ref, ok := w.blocks[pos]; ok {
		return ref
	}
	return block.Ref{Pos: pos, ID: block.AirBlockID}
}

// IsPenetrable сообщает, может ли сущность находиться в клетке блока
func (w *Manager) IsPenetrable(ref block.Ref) bool {
	return ref.Definition().Penetrable
}

// MarkerOf возвращает метку поведения блока
func (w *Manager) MarkerOf(ref block.Ref) block.Marker {
	return ref.Definition().Marker
}

// SetFacing меняет видимый вариант существующего блока
func (w *Manager) SetFacing(pos vec.Vec3, facing block.Side) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ref, ok := w.blocks[pos]; ok {
		ref.Facing = facing
		w.blocks[pos] = ref
	}
}

// BlockEntityAt возвращает блок-сущность специального блока
func (w *Manager) BlockEntityAt(pos vec.Vec3) (entity.ID, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	id, ok := w.blockEntities[pos]
	return id, ok
}

// SetBlock записывает блок без вызова обработчиков поведения. Воздух удаляет блок.
func (w *Manager) SetBlock(pos vec.Vec3, id block.BlockID, facing block.Side) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if id == block.AirBlockID {
		delete(w.blocks, pos)
		return
	}
	w.blocks[pos] = block.Ref{Pos: pos, ID: id, Facing: facing}
}

// RemoveBlock удаляет блок и возвращает связанную блок-сущность, если она была
func (w *Manager) RemoveBlock(pos vec.Vec3) (entity.ID, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.blocks, pos)
	id, ok := w.blockEntities[pos]
	delete(w.blockEntities, pos)
	return id, ok
}

// BindBlockEntity связывает блок-сущность с позицией
func (w *Manager) BindBlockEntity(pos vec.Vec3, id entity.ID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.blockEntities[pos] = id
}

// SpecialBlocks возвращает все блоки с меткой поведения, упорядоченные по позиции
func (w *Manager) SpecialBlocks() []block.Ref {
	w.mu.RLock()
	out := make([]block.Ref, 0, len(w.blockEntities))
	for _, ref := range w.blocks {
		if ref.Definition().Marker != block.MarkerNone {
			out = append(out, ref)
		}
	}
	w.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return lessPos(out[i].Pos, out[j].Pos) })
	return out
}

// BlockCount возвращает число непустых клеток
func (w *Manager) BlockCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.blocks)
}

// SurfaceHeight возвращает Y первой пустой клетки над самым высоким блоком столбца
func (w *Manager) SurfaceHeight(x, z int) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	top := -1
	for pos := range w.blocks {
		if pos.X == x && pos.Z == z && pos.Y > top {
			top = pos.Y
		}
	}
	return top + 1
}

func lessPos(a, b vec.Vec3) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Z < b.Z
}
