package sim

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/annel0/blockfall/internal/config"
	"github.com/annel0/blockfall/internal/entity"
	"github.com/annel0/blockfall/internal/eventbus"
	"github.com/annel0/blockfall/internal/logging"
	"github.com/annel0/blockfall/internal/physics"
	"github.com/annel0/blockfall/internal/vec"
	"github.com/annel0/blockfall/internal/world"
)

// Экономика сессии. Ресурсы с блоков и деревьев тратятся
// на строительство, лечение и улучшения.
const (
	plankWoodCost     = 1   // Древесины за установленный блок
	coinPickupRadius  = 1.0 // Дистанция подбора монеты
	healCoinCost      = 1   // Монет за лечение
	healAmount        = 30  // Здоровья за лечение
	escapeCoinCost    = 1   // Монет за заряд побега из пустоты
	spawnMinPlayerGap = 8.0 // Монстр не появляется ближе к игроку
)

// Engine владеет всем изменяемым состоянием симуляции и продвигает
// его строго одним тиком за раз: игрок, затем монстры, затем монеты.
// Конкурентности внутри тика нет; RWMutex защищает снимки для REST.
type Engine struct {
	mu sync.RWMutex

	cfg      *config.Config
	store    *world.Store
	resolver *physics.Resolver
	kin      *entity.Kinetics
	mobs     *entity.MonsterController
	spawner  *entity.Spawner

	player        *entity.Player
	monsters      map[uint64]*entity.Monster
	nextMonsterID uint64

	input  *InputState
	bus    eventbus.EventBus
	rng    *rand.Rand
	logger *logging.Logger

	tick   uint64
	kills  uint64
	events []world.Event // Накопленные за текущий тик
}

// NewEngine собирает симуляцию над готовым хранилищем мира:
// создаёт резолвер, игрока в центре верхнего слоя и стражей монет.
func NewEngine(cfg *config.Config, store *world.Store, bus eventbus.EventBus) *Engine {
	resolver := physics.NewResolver(store, physics.Config{
		StepHeight: cfg.Physics.StepHeight,
		SkyBandY:   cfg.Physics.SkyBandY,
	})
	rng := rand.New(rand.NewSource(cfg.World.Seed * 7919))

	e := &Engine{
		cfg:           cfg,
		store:         store,
		resolver:      resolver,
		kin:           entity.NewKinetics(resolver, store, cfg.Physics),
		mobs:          entity.NewMonsterController(resolver, store, cfg.Physics, cfg.Spawn, rng),
		spawner:       entity.NewSpawner(cfg.Spawn),
		monsters:      make(map[uint64]*entity.Monster),
		nextMonsterID: 1,
		input:         NewInputState(),
		bus:           bus,
		rng:           rng,
		logger:        logging.GetSimLogger(),
	}

	e.player = entity.NewPlayer(e.spawnPoint(), cfg.Physics)
	e.player.Grounded = true
	e.player.EscapeCharges = 1
	e.spawnGuardians()

	e.logger.Info("Симуляция собрана: монет=%d, стражей=%d",
		len(store.Coins()), len(e.monsters))
	return e
}

// Input возвращает состояние ввода для внешних обработчиков
func (e *Engine) Input() *InputState {
	return e.input
}

// Store возвращает хранилище мира
func (e *Engine) Store() *world.Store {
	return e.store
}

// spawnPoint возвращает точку появления игрока: центр мира,
// на поверхности самого верхнего слоя.
func (e *Engine) spawnPoint() vec.Vec3Float {
	half := e.cfg.World.Size / 2
	col := vec.Vec2{X: half, Z: half}
	y := 1.0
	if gh, ok := e.store.GroundTop(col, 1e9); ok {
		y = gh
	}
	return vec.Vec3Float{X: float64(half) + 0.5, Y: y, Z: float64(half) + 0.5}
}

// spawnGuardians привязывает стражей к доле монет согласно конфигурации.
// Детерминированность даёт сид мира.
func (e *Engine) spawnGuardians() {
	coins := e.store.Coins()
	sort.Slice(coins, func(i, j int) bool { return coins[i].ID < coins[j].ID })

	for _, coin := range coins {
		if e.rng.Float64() >= e.cfg.World.GuardRatio {
			continue
		}
		pos := coin.Pos.Add(vec.Vec3Float{X: 1.5})
		if gh, ok := e.resolver.SnapHeight(pos.ToColumn(), pos.Y+2); ok {
			pos.Y = gh
		}
		m := entity.NewMonster(e.nextMonsterID, 1, pos, coin.ID)
		e.nextMonsterID++
		e.monsters[m.ID] = m
		e.store.AttachGuardian(coin.ID, m.ID)
	}
}

// Run крутит цикл тиков до отмены контекста
func (e *Engine) Run(ctx context.Context) {
	interval := time.Second / time.Duration(e.cfg.Physics.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.logger.Info("Цикл симуляции запущен: %d Гц", e.cfg.Physics.TickRate)
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Цикл симуляции остановлен на тике %d", e.Tick())
			return
		case <-ticker.C:
			e.Step()
		}
	}
}

// Tick возвращает номер последнего завершённого тика
func (e *Engine) Tick() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tick
}

// Kills возвращает суммарное число убитых монстров
func (e *Engine) Kills() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.kills
}

// Step продвигает симуляцию на один тик. Фиксированный порядок:
// игрок, монстры, подбор монет, спаун, таймеры эффектов, публикация
// событий. Смерть игрока замораживает симуляцию насовсем.
func (e *Engine) Step() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.player.Dead {
		return
	}
	e.tick++

	// Фаза игрока: движение, затем дискретные действия
	in, actions, pitch := e.input.Consume()
	e.player.Pitch = pitch
	if e.player.AttackCD > 0 {
		e.player.AttackCD--
	}
	e.kin.Step(e.player, in)
	for _, a := range actions {
		e.applyAction(a)
	}

	// Фаза монстров: стабильный порядок по ID
	ids := make([]uint64, 0, len(e.monsters))
	for id := range e.monsters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		m := e.monsters[id]
		dmg := e.mobs.Update(m, e.player)
		if dmg <= 0 {
			continue
		}
		died := e.player.Damage(dmg)
		e.emit(world.PlayerDamagedEvent{Damage: dmg, Health: e.player.Health})
		if died {
			e.emit(world.PlayerDiedEvent{Tick: e.tick})
			e.logger.Info("💀 Игрок погиб на тике %d (убийств: %d)", e.tick, e.kills)
			break
		}
	}

	// Фаза монет
	if !e.player.Dead {
		e.collectCoins()
	}

	// Спаун нового монстра
	if e.spawner.Tick(len(e.monsters), e.kills) {
		e.spawnMonster()
	}

	// Таймеры визуальных эффектов
	if e.player.EffectTicks > 0 {
		e.player.EffectTicks--
	}
	for _, m := range e.monsters {
		if m.EffectTicks > 0 {
			m.EffectTicks--
		}
	}

	e.publishEvents()
	e.observe()
}

// applyAction исполняет одно дискретное действие игрока.
// Неисполнимое действие — no-op без ошибки.
func (e *Engine) applyAction(a Action) {
	switch a {
	case ActionAttack:
		e.attack()
	case ActionMine:
		e.mine()
	case ActionBuild:
		e.build()
	case ActionHeal:
		e.buyHeal()
	}
}

// attack бьёт ближайшего монстра в радиусе атаки
func (e *Engine) attack() bool {
	if e.player.AttackCD > 0 {
		return false
	}

	var target *entity.Monster
	best := e.player.AttackRange
	center := e.player.Center()
	for _, m := range e.monsters {
		if d := center.DistanceTo(m.Center()); d <= best {
			best = d
			target = m
		}
	}
	if target == nil {
		return false
	}

	e.player.AttackCD = e.player.AttackCDTicks
	if !target.Hit(e.player.AttackDamage, e.cfg.Spawn.AggroTicks) {
		return true
	}

	delete(e.monsters, target.ID)
	e.kills++
	e.emit(world.MonsterKilledEvent{MonsterID: target.ID, Level: target.Level, Kills: e.kills})
	e.logger.Debug("Монстр %d (ур. %d) убит, всего убийств: %d", target.ID, target.Level, e.kills)
	return true
}

// collectCoins подбирает монеты рядом с игроком
func (e *Engine) collectCoins() {
	for _, c := range e.store.UncollectedCoins() {
		if e.player.Center().DistanceTo(c.Pos) > coinPickupRadius {
			continue
		}
		if !e.store.CollectCoin(c.ID) {
			continue
		}
		e.player.Coins++
		e.emit(world.CoinCollectedEvent{CoinID: c.ID, Pos: c.Pos})
	}
}

// spawnMonster создаёт бродягу на случайной поверхности, не ближе
// минимального зазора к игроку. Уровень растёт со счётчиком убийств.
func (e *Engine) spawnMonster() {
	layers := e.store.Layers().Layers()
	for attempt := 0; attempt < 8; attempt++ {
		x := e.rng.Intn(e.cfg.World.Size)
		z := e.rng.Intn(e.cfg.World.Size)
		layer := layers[e.rng.Intn(len(layers))]

		col := vec.Vec2{X: x, Z: z}
		gh, ok := e.store.GroundTop(col, float64(layer.OffsetY)+8)
		if !ok {
			continue
		}
		pos := vec.Vec3Float{X: float64(x) + 0.5, Y: gh, Z: float64(z) + 0.5}
		if pos.HorizontalDistanceTo(e.player.Position) < spawnMinPlayerGap {
			continue
		}

		level := entity.LevelForKills(e.kills, e.cfg.Spawn)
		m := entity.NewMonster(e.nextMonsterID, level, pos, 0)
		e.nextMonsterID++
		e.monsters[m.ID] = m
		e.emit(world.MonsterSpawnedEvent{MonsterID: m.ID, Level: m.Level, Pos: m.Position, Guardian: false})
		return
	}
}

// buyHeal тратит монету на восстановление здоровья
func (e *Engine) buyHeal() bool {
	if e.player.Dead || e.player.Coins < healCoinCost || e.player.Health >= e.player.MaxHealth {
		return false
	}
	e.player.Coins -= healCoinCost
	e.player.Heal(healAmount)
	e.emit(world.PlayerHealedEvent{Amount: healAmount, Health: e.player.Health})
	return true
}

// BuyDamageUpgrade покупает +5 к урону за камень. Цена растёт с уровнем.
func (e *Engine) BuyDamageUpgrade() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	cost := 10 * (e.player.DamageLevel + 1)
	if e.player.Dead || e.player.Stone < cost {
		return false
	}
	e.player.Stone -= cost
	e.player.DamageLevel++
	e.player.AttackDamage += 5
	return true
}

// BuyHealthUpgrade покупает +20 к максимуму здоровья за древесину
func (e *Engine) BuyHealthUpgrade() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	cost := 10 * (e.player.HealthLevel + 1)
	if e.player.Dead || e.player.Wood < cost {
		return false
	}
	e.player.Wood -= cost
	e.player.HealthLevel++
	e.player.MaxHealth += 20
	e.player.Heal(20)
	return true
}

// BuySpeedUpgrade покупает прирост скорости за монету
func (e *Engine) BuySpeedUpgrade() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.player.Dead || e.player.Coins < 1 {
		return false
	}
	e.player.Coins--
	e.player.SpeedLevel++
	return true
}

// BuyEscapeCharge покупает заряд побега из пустотной ловушки
func (e *Engine) BuyEscapeCharge() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.player.Dead || e.player.Coins < escapeCoinCost {
		return false
	}
	e.player.Coins -= escapeCoinCost
	e.player.EscapeCharges++
	return true
}

// emit откладывает событие до публикации в конце тика
func (e *Engine) emit(ev world.Event) {
	e.events = append(e.events, ev)
}

// publishEvents упаковывает накопленные события в конверты и отдаёт
// их шине. Смерть игрока уходит с критическим приоритетом.
func (e *Engine) publishEvents() {
	if len(e.events) == 0 {
		return
	}
	ctx := context.Background()
	for _, ev := range e.events {
		priority := 3
		if ev.Type() == world.EventPlayerDied {
			priority = 9
		}
		env := eventbus.NewEnvelope("sim", string(ev.Type()), priority, ev)
		var err error
		if e.bus != nil {
			err = e.bus.Publish(ctx, env)
		} else {
			err = eventbus.Publish(ctx, env)
		}
		if err != nil {
			e.logger.Warn("Событие %s не опубликовано: %v", ev.Type(), err)
		}
	}
	e.events = e.events[:0]
}
