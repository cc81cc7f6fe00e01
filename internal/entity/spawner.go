package entity

import (
	"github.com/annel0/blockfall/internal/config"
	"github.com/annel0/blockfall/internal/vec"
)

// Базовые характеристики монстра первого уровня.
// Каждый уровень добавляет фиксированный прирост.
const (
	baseMonsterHealth = 20
	baseMonsterDamage = 5
	baseMonsterSpeed  = 2.0
	baseMonsterHalf   = 0.35
	baseMonsterHeight = 1.2

	perLevelHealth = 10
	perLevelDamage = 2
	perLevelSpeed  = 0.25
	perLevelHalf   = 0.03
	perLevelHeight = 0.08
)

// LevelForKills возвращает уровень нового монстра по числу убийств.
// Функция монотонна и ограничена сверху потолком уровня.
func LevelForKills(kills uint64, cfg config.SpawnConfig) int {
	level := 1 + int(kills)/cfg.KillsPerLevel
	if level > cfg.LevelCap {
		level = cfg.LevelCap
	}
	return level
}

// SpawnInterval возвращает интервал спауна в тиках: сокращается
// с каждым убийством до нижней границы.
func SpawnInterval(kills uint64, cfg config.SpawnConfig) int {
	interval := cfg.BaseIntervalTicks - int(kills)*cfg.IntervalPerKill
	if interval < cfg.MinIntervalTicks {
		interval = cfg.MinIntervalTicks
	}
	return interval
}

// NewMonster создаёт монстра указанного уровня. Здоровье, урон,
// скорость и размер хитбокса растут с уровнем. Страж получает
// ненулевой GuardedCoin и стартует в режиме патруля.
func NewMonster(id uint64, level int, pos vec.Vec3Float, guardedCoin uint64) *Monster {
	if level < 1 {
		level = 1
	}
	bonus := level - 1

	m := &Monster{
		Actor: Actor{
			ID:       id,
			Position: pos,
			HalfX:    baseMonsterHalf + perLevelHalf*float64(bonus),
			HalfZ:    baseMonsterHalf + perLevelHalf*float64(bonus),
			Height:   baseMonsterHeight + perLevelHeight*float64(bonus),
		},
		Level:       level,
		Health:      baseMonsterHealth + perLevelHealth*bonus,
		MaxHealth:   baseMonsterHealth + perLevelHealth*bonus,
		Damage:      baseMonsterDamage + perLevelDamage*bonus,
		Speed:       baseMonsterSpeed + perLevelSpeed*float64(bonus),
		GuardedCoin: guardedCoin,
		Anchor:      pos,
	}

	if m.Guardian() {
		m.state = patrolState{}
	} else {
		m.state = roamState{}
	}
	return m
}

// Spawner отсчитывает тики до появления очередного монстра.
// Сам монстр создаётся движком: выбор позиции требует доступа к миру.
type Spawner struct {
	cfg       config.SpawnConfig
	untilNext int
}

// NewSpawner создаёт счётчик спауна со стартовым интервалом
func NewSpawner(cfg config.SpawnConfig) *Spawner {
	return &Spawner{cfg: cfg, untilNext: cfg.BaseIntervalTicks}
}

// Tick продвигает счётчик и сообщает, пора ли создавать монстра.
// Предел живых монстров замораживает счётчик на нуле: монстр
// появится в первый же тик после освобождения места.
func (s *Spawner) Tick(alive int, kills uint64) bool {
	if s.untilNext > 0 {
		s.untilNext--
	}
	if s.untilNext > 0 {
		return false
	}
	if alive >= s.cfg.MaxAlive {
		return false
	}
	s.untilNext = SpawnInterval(kills, s.cfg)
	return true
}
