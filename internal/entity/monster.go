package entity

import (
	"math"
	"math/rand"

	"github.com/annel0/blockfall/internal/config"
	"github.com/annel0/blockfall/internal/physics"
	"github.com/annel0/blockfall/internal/vec"
	"github.com/annel0/blockfall/internal/world"
)

// Имена режимов поведения монстра. Видны в REST API и событиях.
const (
	ModeRoam           = "roam"
	ModeGuardianPatrol = "guardian_patrol"
	ModeGuardianAggro  = "guardian_aggro"
)

const (
	monsterAttackRange = 1.75 // Дистанция атаки монстра по игроку
	monsterSnapClimb   = 1.25 // Допуск привязки к рельефу вверх от ног
	targetReachedDist  = 0.15 // Ближе этой дистанции цель считается достигнутой
)

// Monster — враждебный актёр. Бродяга преследует игрока напрямую;
// страж патрулирует свою монету и переходит в погоню по тревоге.
type Monster struct {
	Actor

	Level     int
	Health    int
	MaxHealth int
	Damage    int
	Speed     float64 // Блоков в секунду

	// GuardedCoin == 0 — обычный бродяга
	GuardedCoin uint64
	Anchor      vec.Vec3Float

	AttackCD  int // Остаток кулдауна атаки в тиках
	AggroLeft int // Остаток режима погони в тиках

	state        monsterState
	patrolTarget vec.Vec3Float
	hasPatrol    bool
}

// Mode возвращает имя текущего режима поведения
func (m *Monster) Mode() string {
	return m.state.Name()
}

// Guardian сообщает, привязан ли монстр к монете
func (m *Monster) Guardian() bool {
	return m.GuardedCoin != 0
}

// Hit наносит монстру урон. Возвращает true, если монстр погиб.
// Атакованный страж немедленно переходит в погоню.
func (m *Monster) Hit(amount int, aggroTicks int) bool {
	m.Health -= amount
	m.EffectTicks = 6
	if m.Guardian() {
		m.enterAggro(aggroTicks)
	}
	return m.Health <= 0
}

func (m *Monster) enterAggro(ticks int) {
	m.AggroLeft = ticks
	m.state = aggroState{}
}

// monsterState — режим поведения: выбирает цель движения
// и решает, каким будет режим на следующем тике.
type monsterState interface {
	Name() string
	Update(m *Monster, sc *stepContext) (target vec.Vec3Float, next monsterState)
}

// stepContext — окружение одного шага поведения
type stepContext struct {
	ctrl   *MonsterController
	player *Player
	coin   *world.Coin // Охраняемая монета; nil у бродяги
}

// roamState: прямое преследование игрока по всему миру
type roamState struct{}

func (roamState) Name() string { return ModeRoam }

func (roamState) Update(m *Monster, sc *stepContext) (vec.Vec3Float, monsterState) {
	return sc.player.Position, roamState{}
}

// patrolState: блуждание вокруг якорной монеты. Тревога поднимается,
// когда игрок подходит к монете, а страж находится рядом с ней.
type patrolState struct{}

func (patrolState) Name() string { return ModeGuardianPatrol }

func (patrolState) Update(m *Monster, sc *stepContext) (vec.Vec3Float, monsterState) {
	if sc.coin == nil || sc.coin.Collected {
		// Монеты больше нет: страж становится бродягой
		m.GuardedCoin = 0
		return sc.player.Position, roamState{}
	}
	m.Anchor = sc.coin.Pos

	// Погоня начинается, пока страж не дальше двойного радиуса охраны
	playerDist := sc.player.Position.HorizontalDistanceTo(m.Anchor)
	selfDist := m.Position.HorizontalDistanceTo(m.Anchor)
	if playerDist <= sc.ctrl.spawn.AlertRadius && selfDist <= sc.ctrl.spawn.GuardRadius*2 {
		m.enterAggro(sc.ctrl.spawn.AggroTicks)
		return sc.player.Position, m.state
	}

	// Очередная точка патруля выбирается внутри радиуса охраны
	if !m.hasPatrol || m.Position.HorizontalDistanceTo(m.patrolTarget) < targetReachedDist {
		m.patrolTarget = sc.ctrl.patrolPoint(m.Anchor)
		m.hasPatrol = true
	}
	return m.patrolTarget, patrolState{}
}

// aggroState: ограниченная по времени погоня за игроком
type aggroState struct{}

func (aggroState) Name() string { return ModeGuardianAggro }

func (aggroState) Update(m *Monster, sc *stepContext) (vec.Vec3Float, monsterState) {
	if sc.coin == nil || sc.coin.Collected {
		m.GuardedCoin = 0
		return sc.player.Position, roamState{}
	}

	m.AggroLeft--
	expired := m.AggroLeft <= 0
	lost := sc.player.Position.HorizontalDistanceTo(m.Anchor) > sc.ctrl.spawn.AlertRadius*2

	if expired || lost {
		// Возврат к якорю начинается в этом же тике
		m.hasPatrol = false
		return m.Anchor, patrolState{}
	}
	return sc.player.Position, aggroState{}
}

// MonsterController продвигает поведение и движение монстров.
// Монстры не используют разрешение коллизий игрока: позиция
// интегрируется напрямую и привязывается к рельефу запросом высоты.
type MonsterController struct {
	resolver *physics.Resolver
	store    *world.Store
	spawn    config.SpawnConfig
	rng      *rand.Rand
	dt       float64
}

// NewMonsterController создаёт контроллер монстров
func NewMonsterController(resolver *physics.Resolver, store *world.Store, phys config.PhysicsConfig, spawn config.SpawnConfig, rng *rand.Rand) *MonsterController {
	return &MonsterController{
		resolver: resolver,
		store:    store,
		spawn:    spawn,
		rng:      rng,
		dt:       1.0 / float64(phys.TickRate),
	}
}

// Update продвигает одного монстра на тик и возвращает урон,
// нанесённый игроку (0 — атаки не было).
func (c *MonsterController) Update(m *Monster, player *Player) int {
	if m.AttackCD > 0 {
		m.AttackCD--
	}

	// Пустота замораживает монстра полностью: ни движения, ни атак.
	// Зарядов побега у монстров нет.
	if c.store.VoidOverlapping(m.Box()) {
		m.VoidStuck = true
		m.Velocity = vec.Vec3Float{}
		return 0
	}
	m.VoidStuck = false

	sc := &stepContext{ctrl: c, player: player}
	if m.Guardian() {
		if coin, ok := c.store.Coin(m.GuardedCoin); ok {
			sc.coin = coin
		}
	}

	target, next := m.state.Update(m, sc)
	m.state = next

	c.moveToward(m, target)
	return c.tryAttack(m, player)
}

// moveToward интегрирует позицию к цели и привязывает монстра к рельефу.
// Привязка игнорирует правило шага: монстр свободно поднимается
// и спускается вместе с поверхностью.
func (c *MonsterController) moveToward(m *Monster, target vec.Vec3Float) {
	dx := target.X - m.Position.X
	dz := target.Z - m.Position.Z
	dist := math.Sqrt(dx*dx + dz*dz)
	if dist < targetReachedDist {
		return
	}

	step := m.Speed * c.dt
	if step > dist {
		step = dist
	}
	m.Position.X += dx / dist * step
	m.Position.Z += dz / dist * step

	if gh, ok := c.resolver.SnapHeight(m.Position.ToColumn(), m.Position.Y+monsterSnapClimb); ok {
		m.Position.Y = gh
		m.Grounded = true
	} else {
		m.Grounded = false
	}
}

// tryAttack атакует игрока при достаточной близости и готовом кулдауне
func (c *MonsterController) tryAttack(m *Monster, player *Player) int {
	if m.AttackCD > 0 || player.Dead {
		return 0
	}
	if m.Center().DistanceTo(player.Center()) > monsterAttackRange+m.HalfX {
		return 0
	}
	m.AttackCD = c.spawn.AggroTicks / 8
	if m.AttackCD < 10 {
		m.AttackCD = 10
	}
	return m.Damage
}

// patrolPoint выбирает случайную точку внутри радиуса охраны якоря
func (c *MonsterController) patrolPoint(anchor vec.Vec3Float) vec.Vec3Float {
	angle := c.rng.Float64() * 2 * math.Pi
	radius := c.rng.Float64() * c.spawn.GuardRadius
	return vec.Vec3Float{
		X: anchor.X + math.Cos(angle)*radius,
		Y: anchor.Y,
		Z: anchor.Z + math.Sin(angle)*radius,
	}
}
