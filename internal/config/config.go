package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/annel0/funnyblocks/internal/vec"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации сервера.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	World     WorldConfig     `yaml:"world"`
	Blocks    BlocksConfig    `yaml:"blocks"`
}

type ServerConfig struct {
	TickRate     int    `yaml:"tick_rate"` // тиков в секунду
	RESTPort     int    `yaml:"rest_port"`
	LogDir       string `yaml:"log_dir"` // пусто - только консоль
	LogLevel     string `yaml:"log_level"`
	AdminSecret  string `yaml:"admin_secret"` // base64, не короче 32 байт; пусто - случайный
	AutosaveSecs int    `yaml:"autosave_seconds"`

	// Operators - администраторы мира: имя -> bcrypt-хеш пароля
	Operators map[string]string `yaml:"operators"`
}

type StorageConfig struct {
	Driver   string `yaml:"driver"` // memory | badger | redis | maria
	Path     string `yaml:"path"`
	RedisURL string `yaml:"redis_url"`
	MariaDSN string `yaml:"maria_dsn"`
}

type EventBusConfig struct {
	URL       string `yaml:"url"` // пусто - in-memory шина
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type WorldConfig struct {
	Name string `yaml:"name"`
	Seed int64  `yaml:"seed"`
	Size int    `yaml:"size"` // сторона квадратной площадки в блоках
	Demo bool   `yaml:"demo"` // выставлять демонстрационную полосу специальных блоков
}

// BlocksConfig - значения по умолчанию, записываемые в блок-сущности при установке блоков
type BlocksConfig struct {
	AcceleratorVelocity vec.Vec3Float `yaml:"accelerator_velocity"`
	AcceleratorIgnore   bool          `yaml:"accelerator_ignore_direction"`
	BouncerForce        float64       `yaml:"bouncer_force"`
	BreakInterval       float64       `yaml:"break_interval_seconds"`
	BreakDamage         int           `yaml:"break_damage"`
	BlockHealth         int           `yaml:"block_health"`
	SpeedIncrease       int           `yaml:"speed_increase"`
	SpeedMultiplier     float64       `yaml:"speed_multiplier"`
	BoosterImpulse      float64       `yaml:"booster_impulse"`
	BoosterLift         float64       `yaml:"booster_lift"`
	CharacterHeight     float64       `yaml:"character_height"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			TickRate:     20,
			LogLevel:     "info",
			AutosaveSecs: 10,
		},
		Storage: StorageConfig{
			Driver: "memory",
			Path:   "data",
		},
		EventBus: EventBusConfig{
			Stream:    "FUNNYBLOCKS",
			Retention: 24,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "funnyblocks",
		},
		World: WorldConfig{
			Name: "default",
			Seed: 42,
			Size: 32,
			Demo: true,
		},
		Blocks: DefaultBlocks(),
	}
}

// DefaultBlocks возвращает настройки специальных блоков по умолчанию
func DefaultBlocks() BlocksConfig {
	return BlocksConfig{
		AcceleratorVelocity: vec.Vec3Float{Z: -1},
		BouncerForce:        20,
		BreakInterval:       1.0,
		BreakDamage:         1,
		BlockHealth:         3,
		SpeedIncrease:       2,
		SpeedMultiplier:     5,
		BoosterImpulse:      64,
		BoosterLift:         6,
		CharacterHeight:     1.8,
	}
}

// TickInterval возвращает длительность одного тика
func (s *ServerConfig) TickInterval() time.Duration {
	rate := s.TickRate
	if rate <= 0 {
		rate = 20
	}
	return time.Second / time.Duration(rate)
}

// AutosaveInterval возвращает период сохранения состояния порталов
func (s *ServerConfig) AutosaveInterval() time.Duration {
	if s.AutosaveSecs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.AutosaveSecs) * time.Second
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "GAME_REST_PORT", 8088)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	// Используем дефолтное значение
	return defaultPort
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "badger", "redis", "maria":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "redis" && c.Storage.RedisURL == "" {
		return fmt.Errorf("storage.redis_url is required for redis driver")
	}
	if c.Storage.Driver == "maria" && c.Storage.MariaDSN == "" {
		return fmt.Errorf("storage.maria_dsn is required for maria driver")
	}
	if c.Blocks.BreakInterval < 0 {
		return fmt.Errorf("blocks.break_interval_seconds must not be negative")
	}
	if c.Blocks.CharacterHeight <= 0 {
		return fmt.Errorf("blocks.character_height must be positive")
	}
	return nil
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV GAME_CONFIG, иначе возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("GAME_CONFIG")
		if path == "" {
			return cfg, nil // конфиг не задан - использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
