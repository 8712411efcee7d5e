package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/annel0/funnyblocks/internal/portal"
)

// MemoryPortalRepo реализует PortalRepo в памяти.
// Используется для CI и локальной разработки без БД.
// ВНИМАНИЕ: Данные теряются при перезапуске сервера!
type MemoryPortalRepo struct {
	mu   sync.RWMutex
	data map[string]portal.PairState
}

// NewMemoryPortalRepo создает новый репозиторий в памяти
func NewMemoryPortalRepo() *MemoryPortalRepo {
	return &MemoryPortalRepo{
		data: make(map[string]portal.PairState),
	}
}

func (r *MemoryPortalRepo) Save(ctx context.Context, world string, state portal.PairState) error {
	if err := validateWorld(world); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[world] = state.Clone()
	return nil
}

func (r *MemoryPortalRepo) Load(ctx context.Context, world string) (portal.PairState, bool, error) {
	if err := validateWorld(world); err != nil {
		return portal.PairState{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return portal.PairState{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.data[world]
	if !ok {
		return portal.PairState{}, false, nil
	}
	return state.Clone(), true, nil
}

func (r *MemoryPortalRepo) Delete(ctx context.Context, world string) error {
	if err := validateWorld(world); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[world]; !ok {
		return fmt.Errorf("мир %s: %w", world, ErrStateNotFound)
	}
	delete(r.data, world)
	return nil
}

// Count возвращает количество сохраненных состояний (для отладки)
func (r *MemoryPortalRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

func (r *MemoryPortalRepo) Close() error { return nil }
