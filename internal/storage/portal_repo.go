// Package storage сохраняет состояние пары порталов между перезапусками сервера.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/annel0/funnyblocks/internal/config"
	"github.com/annel0/funnyblocks/internal/portal"
)

// ErrStateNotFound возвращается при удалении отсутствующего состояния
var ErrStateNotFound = errors.New("portal state not found")

// PortalRepo определяет интерфейс хранения состояния пары порталов.
// Состояние привязано к имени мира.
type PortalRepo interface {
	// Save сохраняет состояние, перезаписывая предыдущее.
	Save(ctx context.Context, world string, state portal.PairState) error

	// Load загружает состояние. found == false, если мир запускается впервые.
	Load(ctx context.Context, world string) (portal.PairState, bool, error)

	// Delete удаляет сохраненное состояние. Отсутствующее состояние - ErrStateNotFound.
	Delete(ctx context.Context, world string) error

	// Close освобождает соединения хранилища.
	Close() error
}

// Open создаёт репозиторий по имени драйвера из конфигурации
func Open(ctx context.Context, cfg config.StorageConfig) (PortalRepo, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryPortalRepo(), nil
	case "badger":
		return NewBadgerPortalRepo(cfg.Path)
	case "redis":
		return NewRedisPortalRepo(ctx, cfg.RedisURL)
	case "maria":
		return NewMariaPortalRepo(ctx, cfg.MariaDSN)
	default:
		return nil, fmt.Errorf("неизвестный драйвер хранилища %q", cfg.Driver)
	}
}

func portalKey(world string) string {
	return "portal:" + world
}

func validateWorld(world string) error {
	if world == "" {
		return errors.New("пустое имя мира")
	}
	return nil
}

func encodeState(state portal.PairState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации состояния порталов: %w", err)
	}
	return data, nil
}

func decodeState(data []byte) (portal.PairState, error) {
	var state portal.PairState
	if err := json.Unmarshal(data, &state); err != nil {
		return portal.PairState{}, fmt.Errorf("ошибка десериализации состояния порталов: %w", err)
	}
	return state, nil
}
