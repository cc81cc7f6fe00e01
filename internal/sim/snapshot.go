package sim

import (
	"github.com/annel0/blockfall/internal/vec"
)

// PlayerSnapshot — снимок состояния игрока для REST и персистентности
type PlayerSnapshot struct {
	Position      vec.Vec3Float `json:"position"`
	Velocity      vec.Vec3Float `json:"velocity"`
	CameraPos     vec.Vec3Float `json:"camera_pos"`
	Yaw           float64       `json:"yaw"`
	Pitch         float64       `json:"pitch"`
	Grounded      bool          `json:"grounded"`
	VoidStuck     bool          `json:"void_stuck"`
	Dead          bool          `json:"dead"`
	Health        int           `json:"health"`
	MaxHealth     int           `json:"max_health"`
	AttackDamage  int           `json:"attack_damage"`
	Wood          int           `json:"wood"`
	Stone         int           `json:"stone"`
	Coins         int           `json:"coins"`
	DamageLevel   int           `json:"damage_level"`
	HealthLevel   int           `json:"health_level"`
	SpeedLevel    int           `json:"speed_level"`
	EscapeCharges int           `json:"escape_charges"`
	EffectTicks   int           `json:"effect_ticks"`
}

// MonsterSnapshot — снимок одного монстра
type MonsterSnapshot struct {
	ID          uint64        `json:"id"`
	Level       int           `json:"level"`
	Mode        string        `json:"mode"`
	Position    vec.Vec3Float `json:"position"`
	Health      int           `json:"health"`
	MaxHealth   int           `json:"max_health"`
	Guardian    bool          `json:"guardian"`
	GuardedCoin uint64        `json:"guarded_coin,omitempty"`
	VoidStuck   bool          `json:"void_stuck"`
	EffectTicks int           `json:"effect_ticks"`
}

// Snapshot — агрегированный снимок тика
type Snapshot struct {
	Tick     uint64            `json:"tick"`
	Kills    uint64            `json:"kills"`
	Player   PlayerSnapshot    `json:"player"`
	Monsters []MonsterSnapshot `json:"monsters"`
}

// PlayerSnapshot возвращает копию состояния игрока
func (e *Engine) PlayerSnapshot() PlayerSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.playerSnapshotLocked()
}

func (e *Engine) playerSnapshotLocked() PlayerSnapshot {
	p := e.player
	return PlayerSnapshot{
		Position:      p.Position,
		Velocity:      p.Velocity,
		CameraPos:     p.CameraPos,
		Yaw:           p.Yaw,
		Pitch:         p.Pitch,
		Grounded:      p.Grounded,
		VoidStuck:     p.VoidStuck,
		Dead:          p.Dead,
		Health:        p.Health,
		MaxHealth:     p.MaxHealth,
		AttackDamage:  p.AttackDamage,
		Wood:          p.Wood,
		Stone:         p.Stone,
		Coins:         p.Coins,
		DamageLevel:   p.DamageLevel,
		HealthLevel:   p.HealthLevel,
		SpeedLevel:    p.SpeedLevel,
		EscapeCharges: p.EscapeCharges,
		EffectTicks:   p.EffectTicks,
	}
}

// MonsterSnapshots возвращает копии всех живых монстров
func (e *Engine) MonsterSnapshots() []MonsterSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.monsterSnapshotsLocked()
}

func (e *Engine) monsterSnapshotsLocked() []MonsterSnapshot {
	result := make([]MonsterSnapshot, 0, len(e.monsters))
	for _, m := range e.monsters {
		result = append(result, MonsterSnapshot{
			ID:          m.ID,
			Level:       m.Level,
			Mode:        m.Mode(),
			Position:    m.Position,
			Health:      m.Health,
			MaxHealth:   m.MaxHealth,
			Guardian:    m.Guardian(),
			GuardedCoin: m.GuardedCoin,
			VoidStuck:   m.VoidStuck,
			EffectTicks: m.EffectTicks,
		})
	}
	return result
}

// Snapshot возвращает согласованный снимок всего тика
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{
		Tick:     e.tick,
		Kills:    e.kills,
		Player:   e.playerSnapshotLocked(),
		Monsters: e.monsterSnapshotsLocked(),
	}
}

// RestorePlayer применяет сохранённый прогресс к игроку.
// Вызывается один раз до старта цикла тиков.
func (e *Engine) RestorePlayer(snap PlayerSnapshot, kills uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.player
	p.Health = snap.Health
	p.MaxHealth = snap.MaxHealth
	p.AttackDamage = snap.AttackDamage
	p.Wood = snap.Wood
	p.Stone = snap.Stone
	p.Coins = snap.Coins
	p.DamageLevel = snap.DamageLevel
	p.HealthLevel = snap.HealthLevel
	p.SpeedLevel = snap.SpeedLevel
	p.EscapeCharges = snap.EscapeCharges
	e.kills = kills
}
