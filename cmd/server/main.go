package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/funnyblocks/internal/api"
	"github.com/annel0/funnyblocks/internal/auth"
	"github.com/annel0/funnyblocks/internal/config"
	"github.com/annel0/funnyblocks/internal/eventbus"
	"github.com/annel0/funnyblocks/internal/logging"
	"github.com/annel0/funnyblocks/internal/metrics"
	"github.com/annel0/funnyblocks/internal/observability"
	"github.com/annel0/funnyblocks/internal/storage"
	"github.com/annel0/funnyblocks/internal/world"
	"github.com/annel0/funnyblocks/internal/world/entity"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию $GAME_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	level, err := logging.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("❌ Ошибка конфигурации логирования: %v", err)
	}
	logging.Configure(cfg.Server.LogDir, level)
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	if err := run(cfg); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
	logging.Info("👋 Сервер успешно остановлен")
}

func run(cfg *config.Config) error {
	logging.Info("🎮 Запуск funnyblocks: мир %q, %d тиков/с", cfg.World.Name, cfg.Server.TickRate)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === ТЕЛЕМЕТРИЯ ===
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled)
	if err != nil {
		return fmt.Errorf("телеметрия: %w", err)
	}
	defer shutdownTelemetry(context.Background())

	// === ХРАНИЛИЩЕ ===
	repo, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("хранилище: %w", err)
	}
	defer repo.Close()
	logging.Info("💾 Хранилище порталов: %s", cfg.Storage.Driver)

	// === ШИНА СОБЫТИЙ ===
	bus, err := openBus(cfg.EventBus)
	if err != nil {
		return fmt.Errorf("шина событий: %w", err)
	}
	defer bus.Close()
	eventbus.Init(bus)
	if _, err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("логирование уведомлений недоступно: %v", err)
	}

	// === МЕТРИКИ ===
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	busMetrics := eventbus.NewMetricsExporter(bus, reg)
	busMetrics.Start()
	defer busMetrics.Stop()

	// === МИР ===
	w := world.NewManager(entity.NewManager())
	gen := world.NewGenerator(cfg.World)
	logging.Info("🌍 Сгенерировано %d блоков (сид %d, размер %d)", gen.Generate(w), cfg.World.Seed, gen.Size)

	sim := world.NewSimulation(world.Options{
		World:   w,
		Bus:     bus,
		Metrics: collector,
		Tuning:  cfg.Blocks,
		Source:  cfg.World.Name,
	})
	for _, ev := range gen.Showcase() {
		sim.Submit(ev)
	}
	sim.Tick(ctx, 0)

	if err := restorePortals(ctx, repo, sim, cfg.World.Name); err != nil {
		return err
	}

	// === REST API ===
	if cfg.Server.AdminSecret != "" {
		if err := auth.SetJWTSecret(cfg.Server.AdminSecret); err != nil {
			return fmt.Errorf("server.admin_secret: %w", err)
		}
	} else {
		logging.Warn("⚠️ server.admin_secret не задан, токены действуют до перезапуска")
	}

	rest := api.NewRestServer(api.Config{
		Port:       fmt.Sprintf(":%d", cfg.Server.GetRESTPort()),
		Simulation: sim,
		Operators:  auth.Operators(cfg.Server.Operators),
		WorldName:  cfg.World.Name,
		Registerer: reg,
		Gatherer:   reg,
	})
	restErr := make(chan error, 1)
	go func() { restErr <- rest.Start() }()

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   🌐 REST API: http://localhost:%d", cfg.Server.GetRESTPort())
	logging.Info("   ❤️  Health check: http://localhost:%d/health", cfg.Server.GetRESTPort())

	// === ИГРОВОЙ ЦИКЛ ===
	loopErr := tickLoop(ctx, cfg, sim, repo, restErr)

	// === GRACEFUL SHUTDOWN ===
	logging.Info("📡 Завершение работы...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rest.Stop(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}
	state, _ := sim.PortalState()
	if err := repo.Save(shutdownCtx, cfg.World.Name, state); err != nil {
		logging.Error("❌ Финальное сохранение порталов не удалось: %v", err)
	}
	return loopErr
}

func openBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	if cfg.URL == "" {
		logging.Info("📨 Шина событий: in-memory")
		return eventbus.NewMemoryBus(1024), nil
	}
	bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, time.Duration(cfg.Retention)*time.Hour)
	if err != nil {
		return nil, err
	}
	logging.Info("📨 Шина событий: JetStream %s, поток %s", cfg.URL, cfg.Stream)
	return bus, nil
}

// restorePortals загружает сохраненную пару порталов и согласует ее с блоками мира
func restorePortals(ctx context.Context, repo storage.PortalRepo, sim *world.Simulation, name string) error {
	state, found, err := repo.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("загрузка порталов: %w", err)
	}
	if !found {
		logging.Info("🌀 Сохраненных порталов нет, мир начинается с неактивной пары")
		return nil
	}

	cleared := sim.RestorePortals(state)
	restored, _ := sim.PortalState()
	logging.Info("🌀 Порталы восстановлены: фаза %s, сброшено %d", restored.Phase(), len(cleared))
	return nil
}

// tickLoop крутит симуляцию с фиксированной частотой и сохраняет порталы при изменении
func tickLoop(ctx context.Context, cfg *config.Config, sim *world.Simulation, repo storage.PortalRepo, restErr <-chan error) error {
	ticker := time.NewTicker(cfg.Server.TickInterval())
	defer ticker.Stop()
	autosave := time.NewTicker(cfg.Server.AutosaveInterval())
	defer autosave.Stop()

	start := time.Now()
	var savedVersion uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-restErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		case <-ticker.C:
			sim.Tick(ctx, time.Since(start).Milliseconds())
		case <-autosave.C:
			state, version := sim.PortalState()
			if version == savedVersion {
				continue
			}
			if err := repo.Save(ctx, cfg.World.Name, state); err != nil {
				logging.Error("❌ Автосохранение порталов: %v", err)
				continue
			}
			savedVersion = version
			logging.Debug("💾 Порталы сохранены (версия %d)", version)
		}
	}
}
