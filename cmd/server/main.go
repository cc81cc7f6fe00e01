package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/blockfall/internal/api"
	"github.com/annel0/blockfall/internal/config"
	"github.com/annel0/blockfall/internal/eventbus"
	"github.com/annel0/blockfall/internal/logging"
	"github.com/annel0/blockfall/internal/observability"
	"github.com/annel0/blockfall/internal/sim"
	"github.com/annel0/blockfall/internal/storage"
	"github.com/annel0/blockfall/internal/world"

	// Регистрация поведений блоков через init()
	_ "github.com/annel0/blockfall/internal/world/block/implementations"
)

func main() {
	configPath := flag.String("config", "", "Путь к YAML конфигурации")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🧱 Запуск Blockfall: воксельная симуляция с REST API...")

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("❌ Ошибка загрузки конфигурации: %v", err)
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	restPort := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	metricsPort := fmt.Sprintf(":%d", cfg.Server.GetMetricsPort())
	logging.Info("📡 Конфигурация: сид=%d, слоёв=%d, тик=%d Гц, REST=%s",
		cfg.World.Seed, len(cfg.World.LayerYs), cfg.Physics.TickRate, restPort)

	// === ТЕЛЕМЕТРИЯ ===
	ctx := context.Background()
	shutdownTelemetry, err := observability.InitTelemetry(ctx, "blockfall")
	if err != nil {
		// Коллектор недоступен: работаем без трассировки
		logging.Warn("OpenTelemetry недоступен: %v", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}

	// === МИР ===
	logging.Debug("Генерация мира...")
	store := world.NewStore(world.NewLayerRegistry(cfg.World.LayerYs))
	generator := world.NewGenerator(cfg.World.Seed, cfg.World.Size)
	generator.Generate(store, cfg.World.TreeCount, cfg.World.CoinCount)

	blocks, _, _ := store.Stats()
	logging.Info("🌍 Мир сгенерирован: блоков=%d, деревьев=%d, монет=%d",
		blocks, len(store.Trees()), len(store.Coins()))

	// === ПЕРСИСТЕНТНОСТЬ ===
	worldStorage, err := storage.NewWorldStorage(cfg.Storage.DataPath)
	if err != nil {
		logging.Error("❌ Ошибка открытия хранилища: %v", err)
		log.Fatalf("❌ Ошибка открытия хранилища: %v", err)
	}
	if err := worldStorage.LoadWorld(store); err != nil {
		logging.Error("❌ Ошибка восстановления мира: %v", err)
		log.Fatalf("❌ Ошибка восстановления мира: %v", err)
	}

	// === ШИНА СОБЫТИЙ ===
	var bus eventbus.EventBus
	if cfg.EventBus.URL != "" {
		jsBus, err := eventbus.NewJetStreamBus(cfg.EventBus.URL, cfg.EventBus.Stream,
			time.Duration(cfg.EventBus.Retention)*time.Hour)
		if err != nil {
			logging.Error("❌ Ошибка подключения к NATS: %v", err)
			log.Fatalf("❌ Ошибка подключения к NATS: %v", err)
		}
		defer jsBus.Close()
		bus = jsBus
		logging.Info("📨 Шина событий: NATS JetStream (%s)", cfg.EventBus.URL)
	} else {
		bus = eventbus.NewMemoryBus(1024)
		logging.Info("📨 Шина событий: in-memory")
	}
	eventbus.Init(bus)

	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("LoggingListener не запущен: %v", err)
	}
	busMetrics := eventbus.NewMetricsExporter(bus)
	busMetrics.StartHTTP(metricsPort)
	defer busMetrics.Stop()

	// === СИМУЛЯЦИЯ ===
	engine := sim.NewEngine(cfg, store, bus)

	if progress, found, err := worldStorage.LoadProgress(); err != nil {
		logging.Warn("Прогресс не загружен: %v", err)
	} else if found {
		engine.RestorePlayer(sim.PlayerSnapshot{
			Health:        progress.Health,
			MaxHealth:     progress.MaxHealth,
			AttackDamage:  progress.AttackDamage,
			Wood:          progress.Wood,
			Stone:         progress.Stone,
			Coins:         progress.Coins,
			DamageLevel:   progress.DamageLevel,
			HealthLevel:   progress.HealthLevel,
			SpeedLevel:    progress.SpeedLevel,
			EscapeCharges: progress.EscapeCharges,
		}, progress.Kills)
		logging.Info("💾 Прогресс восстановлен: убийств=%d", progress.Kills)
	}

	simCtx, stopSim := context.WithCancel(ctx)
	go engine.Run(simCtx)

	// Периодическое автосохранение
	saveInterval := time.Duration(cfg.Storage.SaveIntervalTicks/cfg.Physics.TickRate) * time.Second
	go func() {
		ticker := time.NewTicker(saveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-simCtx.Done():
				return
			case <-ticker.C:
				saveAll(worldStorage, store, engine)
			}
		}
	}()

	// === REST API ===
	restServer := api.NewRestServer(api.Config{Port: restPort, Engine: engine})
	go func() {
		if err := restServer.Start(); err != nil {
			logging.Error("❌ Ошибка REST API: %v", err)
		}
	}()

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   🌐 REST API: http://localhost%s", restPort)
	logging.Info("   📈 Метрики: http://localhost%s/metrics", metricsPort)
	logging.Info("   ❤️  Health check: http://localhost%s/health", restPort)
	logging.Info("💡 Примеры:")
	logging.Info("   curl http://localhost%s/api/status", restPort)
	logging.Info("   curl -X POST http://localhost%s/api/input/press -H 'Content-Type: application/json' -d '{\"action\":\"w\"}'", restPort)

	// Ждём сигнала завершения
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logging.Info("📡 Получен сигнал %v, завершение работы...", sig)

	// === GRACEFUL SHUTDOWN ===
	stopSim()
	saveAll(worldStorage, store, engine)

	if err := worldStorage.Close(); err != nil {
		logging.Error("❌ Ошибка закрытия хранилища: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logging.Warn("Ошибка остановки телеметрии: %v", err)
	}

	logging.Info("👋 Сервер успешно остановлен")
}

// saveAll сохраняет мир и прогресс игрока
func saveAll(ws *storage.WorldStorage, store *world.Store, engine *sim.Engine) {
	if err := ws.SaveWorld(store); err != nil {
		logging.Error("❌ Ошибка сохранения мира: %v", err)
		return
	}
	snap := engine.PlayerSnapshot()
	err := ws.SaveProgress(storage.Progress{
		Health:        snap.Health,
		MaxHealth:     snap.MaxHealth,
		AttackDamage:  snap.AttackDamage,
		Wood:          snap.Wood,
		Stone:         snap.Stone,
		Coins:         snap.Coins,
		DamageLevel:   snap.DamageLevel,
		HealthLevel:   snap.HealthLevel,
		SpeedLevel:    snap.SpeedLevel,
		EscapeCharges: snap.EscapeCharges,
		Kills:         engine.Kills(),
	})
	if err != nil {
		logging.Error("❌ Ошибка сохранения прогресса: %v", err)
		return
	}
	logging.Debug("💾 Автосохранение завершено (тик %d)", engine.Tick())
}
