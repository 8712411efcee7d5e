package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/annel0/funnyblocks/internal/logging"
	"github.com/annel0/funnyblocks/internal/portal"
	"github.com/dgraph-io/badger/v3"
)

// BadgerPortalRepo хранит состояние порталов во встроенной BadgerDB.
// Ключ - portal:<мир>, значение - JSON состояния.
type BadgerPortalRepo struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
}

// NewBadgerPortalRepo открывает базу в каталоге dataPath/portals
func NewBadgerPortalRepo(dataPath string) (*BadgerPortalRepo, error) {
	dbPath := filepath.Join(dataPath, "portals")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	logging.GetStorageLogger().Info("💾 BadgerDB открыта: %s", dbPath)
	return &BadgerPortalRepo{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
	}, nil
}

func (r *BadgerPortalRepo) ready() error {
	if !r.isReady {
		return errors.New("хранилище не готово")
	}
	return nil
}

func (r *BadgerPortalRepo) Save(ctx context.Context, world string, state portal.PairState) error {
	if err := validateWorld(world); err != nil {
		return err
	}
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if err := r.ready(); err != nil {
		return err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(portalKey(world)), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения порталов мира %s: %w", world, err)
	}
	return nil
}

func (r *BadgerPortalRepo) Load(ctx context.Context, world string) (portal.PairState, bool, error) {
	if err := validateWorld(world); err != nil {
		return portal.PairState{}, false, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if err := r.ready(); err != nil {
		return portal.PairState{}, false, err
	}

	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(portalKey(world)))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return portal.PairState{}, false, nil
	}
	if err != nil {
		return portal.PairState{}, false, fmt.Errorf("ошибка загрузки порталов мира %s: %w", world, err)
	}

	state, err := decodeState(data)
	if err != nil {
		return portal.PairState{}, false, err
	}
	return state, true, nil
}

func (r *BadgerPortalRepo) Delete(ctx context.Context, world string) error {
	if err := validateWorld(world); err != nil {
		return err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if err := r.ready(); err != nil {
		return err
	}

	key := []byte(portalKey(world))
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("мир %s: %w", world, ErrStateNotFound)
			}
			return err
		}
		return txn.Delete(key)
	})
}

// Close закрывает хранилище
func (r *BadgerPortalRepo) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.isReady {
		return nil
	}
	r.isReady = false
	return r.db.Close()
}
