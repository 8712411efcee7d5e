package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	t.Setenv("GAME_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 20.0, cfg.Blocks.BouncerForce)
	assert.Equal(t, 2, cfg.Blocks.SpeedIncrease)
	assert.Equal(t, 5.0, cfg.Blocks.SpeedMultiplier)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	data := `
server:
  tick_rate: 50
storage:
  driver: badger
  path: /tmp/portals
blocks:
  bouncer_force: 35
  accelerator_velocity: {x: 1, y: 0.5, z: 0}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Server.TickRate)
	assert.Equal(t, 20*time.Millisecond, cfg.Server.TickInterval())
	assert.Equal(t, "badger", cfg.Storage.Driver)
	assert.Equal(t, 35.0, cfg.Blocks.BouncerForce)
	assert.Equal(t, vec.Vec3Float{X: 1, Y: 0.5}, cfg.Blocks.AcceleratorVelocity)
	assert.Equal(t, 1.0, cfg.Blocks.BreakInterval, "незаданные поля сохраняют значения по умолчанию")
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world:\n  seed: 7\n"), 0o644))
	t.Setenv("GAME_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.World.Seed)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: redis\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err, "redis без адреса недопустим")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestPortEnvFallback(t *testing.T) {
	s := ServerConfig{}
	t.Setenv("GAME_REST_PORT", "9999")
	assert.Equal(t, 9999, s.GetRESTPort())

	s.RESTPort = 8080
	assert.Equal(t, 8080, s.GetRESTPort(), "значение из конфига приоритетнее")

	s.RESTPort = 0
	t.Setenv("GAME_REST_PORT", "not-a-port")
	assert.Equal(t, 8088, s.GetRESTPort())
}

func TestLoadIgnoresLegacyMetricsPort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	data := "server:\n  rest_port: 9000\n  metrics_port: 2112\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.GetRESTPort(), "метрики отдаются REST сервером на /metrics")
}

func TestDefaultStoragePathIsDataRoot(t *testing.T) {
	assert.Equal(t, "data", Default().Storage.Path, "badger сам добавляет каталог portals")
}
