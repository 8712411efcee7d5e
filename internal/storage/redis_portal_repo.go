package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/annel0/funnyblocks/internal/logging"
	"github.com/annel0/funnyblocks/internal/portal"
	"github.com/go-redis/redis/v8"
)

// RedisPortalRepo хранит состояние порталов в Redis без срока жизни.
// Несколько серверов одного мира видят одно состояние.
type RedisPortalRepo struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisPortalRepo подключается к Redis по URL вида redis://[:pass@]host:port/db
func NewRedisPortalRepo(ctx context.Context, url string) (*RedisPortalRepo, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("некорректный адрес Redis: %w", err)
	}
	return newRedisPortalRepo(ctx, redis.NewClient(opts), "funnyblocks:")
}

func newRedisPortalRepo(ctx context.Context, client *redis.Client, prefix string) (*RedisPortalRepo, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logging.GetStorageLogger().Info("🔴 Connected to Redis at %s", client.Options().Addr)
	return &RedisPortalRepo{client: client, keyPrefix: prefix}, nil
}

func (r *RedisPortalRepo) key(world string) string {
	return r.keyPrefix + portalKey(world)
}

func (r *RedisPortalRepo) Save(ctx context.Context, world string, state portal.PairState) error {
	if err := validateWorld(world); err != nil {
		return err
	}
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(world), data, 0).Err(); err != nil {
		return fmt.Errorf("ошибка сохранения порталов мира %s в Redis: %w", world, err)
	}
	return nil
}

func (r *RedisPortalRepo) Load(ctx context.Context, world string) (portal.PairState, bool, error) {
	if err := validateWorld(world); err != nil {
		return portal.PairState{}, false, err
	}

	data, err := r.client.Get(ctx, r.key(world)).Bytes()
	if errors.Is(err, redis.Nil) {
		return portal.PairState{}, false, nil
	}
	if err != nil {
		return portal.PairState{}, false, fmt.Errorf("ошибка загрузки порталов мира %s из Redis: %w", world, err)
	}

	state, err := decodeState(data)
	if err != nil {
		return portal.PairState{}, false, err
	}
	return state, true, nil
}

func (r *RedisPortalRepo) Delete(ctx context.Context, world string) error {
	if err := validateWorld(world); err != nil {
		return err
	}
	n, err := r.client.Del(ctx, r.key(world)).Result()
	if err != nil {
		return fmt.Errorf("ошибка удаления порталов мира %s из Redis: %w", world, err)
	}
	if n == 0 {
		return fmt.Errorf("мир %s: %w", world, ErrStateNotFound)
	}
	return nil
}

// Close закрывает соединение с Redis
func (r *RedisPortalRepo) Close() error {
	return r.client.Close()
}
