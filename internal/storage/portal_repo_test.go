package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/annel0/funnyblocks/internal/config"
	"github.com/annel0/funnyblocks/internal/portal"
	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPortalRepo прогоняет общий сценарий для любой реализации PortalRepo
func testPortalRepo(t *testing.T, repo PortalRepo) {
	ctx := context.Background()
	blue := vec.Vec3{X: 1, Y: 2, Z: 3}
	orange := vec.Vec3{X: -4, Y: 5, Z: -6}

	t.Run("первый запуск", func(t *testing.T) {
		state, found, err := repo.Load(ctx, "fresh")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, portal.Inactive, state.Phase())
	})

	t.Run("сохранение и загрузка", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "w1", portal.PairState{Blue: blue.Ptr()}))

		state, found, err := repo.Load(ctx, "w1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, portal.BlueOnly, state.Phase())
		assert.Equal(t, blue, *state.Blue)
		assert.Nil(t, state.Orange)
	})

	t.Run("перезапись", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "w1", portal.PairState{Blue: blue.Ptr(), Orange: orange.Ptr()}))

		state, found, err := repo.Load(ctx, "w1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, portal.BothActive, state.Phase())
		assert.Equal(t, orange, *state.Orange)
	})

	t.Run("миры независимы", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "w2", portal.PairState{Orange: orange.Ptr()}))
		state, _, err := repo.Load(ctx, "w1")
		require.NoError(t, err)
		assert.Equal(t, portal.BothActive, state.Phase())
	})

	t.Run("удаление", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "w2"))
		_, found, err := repo.Load(ctx, "w2")
		require.NoError(t, err)
		assert.False(t, found)

		err = repo.Delete(ctx, "w2")
		assert.ErrorIs(t, err, ErrStateNotFound)
	})

	t.Run("пустое имя мира", func(t *testing.T) {
		assert.Error(t, repo.Save(ctx, "", portal.PairState{}))
		_, _, err := repo.Load(ctx, "")
		assert.Error(t, err)
	})
}

func TestMemoryPortalRepo(t *testing.T) {
	repo := NewMemoryPortalRepo()
	testPortalRepo(t, repo)
	assert.Equal(t, 1, repo.Count())

	t.Run("сохраненное состояние не связано с исходным", func(t *testing.T) {
		pos := vec.Vec3{X: 9}
		state := portal.PairState{Blue: &pos}
		require.NoError(t, repo.Save(context.Background(), "copy", state))
		pos.X = 100

		loaded, _, err := repo.Load(context.Background(), "copy")
		require.NoError(t, err)
		assert.Equal(t, 9, loaded.Blue.X)
	})

	t.Run("отмененный контекст", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, repo.Save(ctx, "w", portal.PairState{}), context.Canceled)
	})
}

func TestBadgerPortalRepo(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewBadgerPortalRepo(dir)
	require.NoError(t, err)
	testPortalRepo(t, repo)
	require.NoError(t, repo.Close())
	require.NoError(t, repo.Close(), "повторное закрытие безопасно")

	t.Run("закрытое хранилище", func(t *testing.T) {
		assert.Error(t, repo.Save(context.Background(), "w1", portal.PairState{}))
	})

	t.Run("данные переживают переоткрытие", func(t *testing.T) {
		reopened, err := NewBadgerPortalRepo(dir)
		require.NoError(t, err)
		defer reopened.Close()

		state, found, err := reopened.Load(context.Background(), "w1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, portal.BothActive, state.Phase())
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	repo, err := Open(ctx, config.StorageConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryPortalRepo{}, repo)

	dataDir := t.TempDir()
	repo, err = Open(ctx, config.StorageConfig{Driver: "badger", Path: dataDir})
	require.NoError(t, err)
	require.IsType(t, &BadgerPortalRepo{}, repo)
	assert.Equal(t, filepath.Join(dataDir, "portals"), repo.(*BadgerPortalRepo).dbPath, "один уровень portals")
	require.NoError(t, repo.Close())

	_, err = Open(ctx, config.StorageConfig{Driver: "mongo"})
	assert.Error(t, err)

	_, err = Open(ctx, config.StorageConfig{Driver: "redis", RedisURL: "http://localhost"})
	assert.Error(t, err, "неверная схема адреса Redis")
}

func TestMariaNullableColumns(t *testing.T) {
	x, y, z := nullable(nil)
	assert.False(t, x.Valid || y.Valid || z.Valid)
	assert.Nil(t, fromNullable(x, y, z))

	pos := vec.Vec3{X: 3, Y: -1, Z: 7}
	x, y, z = nullable(&pos)
	require.True(t, x.Valid && y.Valid && z.Valid)
	assert.Equal(t, &pos, fromNullable(x, y, z))

	assert.Nil(t, fromNullable(x, sql.NullInt64{}, z), "частично заполненная строка - портал не активен")
}
