package entity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/blockfall/internal/config"
	"github.com/annel0/blockfall/internal/physics"
	"github.com/annel0/blockfall/internal/vec"
	"github.com/annel0/blockfall/internal/world"
	"github.com/annel0/blockfall/internal/world/block"
)

func testController(store *world.Store) (*MonsterController, *config.Config) {
	cfg := config.Default()
	resolver := physics.NewResolver(store, physics.Config{
		StepHeight: cfg.Physics.StepHeight,
		SkyBandY:   cfg.Physics.SkyBandY,
	})
	rng := rand.New(rand.NewSource(1))
	return NewMonsterController(resolver, store, cfg.Physics, cfg.Spawn, rng), cfg
}

func TestLevelForKills(t *testing.T) {
	cfg := config.Default().Spawn // 5 убийств на уровень, потолок 10

	assert.Equal(t, 1, LevelForKills(0, cfg))
	assert.Equal(t, 1, LevelForKills(4, cfg))
	assert.Equal(t, 2, LevelForKills(5, cfg))
	assert.Equal(t, 5, LevelForKills(20, cfg))

	// Потолок уровня
	assert.Equal(t, cfg.LevelCap, LevelForKills(10000, cfg))
}

func TestSpawnIntervalShrinks(t *testing.T) {
	cfg := config.Default().Spawn

	base := SpawnInterval(0, cfg)
	assert.Equal(t, cfg.BaseIntervalTicks, base)
	assert.Less(t, SpawnInterval(5, cfg), base, "Интервал сокращается с убийствами")

	// Нижняя граница
	assert.Equal(t, cfg.MinIntervalTicks, SpawnInterval(10000, cfg))
}

func TestMonsterStatsScaleWithLevel(t *testing.T) {
	weak := NewMonster(1, 1, vec.Vec3Float{}, 0)
	strong := NewMonster(2, 5, vec.Vec3Float{}, 0)

	assert.Greater(t, strong.Health, weak.Health)
	assert.Greater(t, strong.Damage, weak.Damage)
	assert.Greater(t, strong.Speed, weak.Speed)
	assert.Greater(t, strong.Height, weak.Height, "Размер хитбокса растёт с уровнем")
}

func TestRoamChasesPlayer(t *testing.T) {
	store := flatWorld(16)
	ctrl, cfg := testController(store)

	m := NewMonster(1, 1, vec.Vec3Float{X: 2.5, Y: 1, Z: 2.5}, 0)
	require.Equal(t, ModeRoam, m.Mode())

	player := NewPlayer(vec.Vec3Float{X: 10.5, Y: 1, Z: 2.5}, cfg.Physics)

	before := m.Position.HorizontalDistanceTo(player.Position)
	for i := 0; i < 30; i++ {
		ctrl.Update(m, player)
	}
	after := m.Position.HorizontalDistanceTo(player.Position)

	assert.Less(t, after, before, "Бродяга должен сближаться с игроком")
	assert.Equal(t, ModeRoam, m.Mode(), "Режим бродяги не меняется")
}

func TestMonsterSnapsToTerrain(t *testing.T) {
	store := flatWorld(16)
	// Ступень высотой в целый блок: игрокам нужен прыжок, монстру нет
	for x := 8; x < 16; x++ {
		for z := 0; z < 16; z++ {
			store.SetBlock(vec.Vec3{X: x, Y: 1, Z: z}, 0, block.StoneBlockID)
		}
	}
	ctrl, cfg := testController(store)

	m := NewMonster(1, 1, vec.Vec3Float{X: 6.5, Y: 1, Z: 4.5}, 0)
	player := NewPlayer(vec.Vec3Float{X: 12.5, Y: 2, Z: 4.5}, cfg.Physics)

	for i := 0; i < 120; i++ {
		ctrl.Update(m, player)
	}

	assert.Greater(t, m.Position.X, 8.0, "Монстр пересекает ступень")
	assert.InDelta(t, 2.0, m.Position.Y, 1e-6, "Привязка к рельефу поднимает монстра")
}

func TestGuardianAggroCycle(t *testing.T) {
	store := flatWorld(16)
	ctrl, cfg := testController(store)

	coin := store.AddCoin(vec.Vec3Float{X: 8.5, Y: 1.5, Z: 8.5})
	m := NewMonster(1, 1, vec.Vec3Float{X: 8.5, Y: 1, Z: 7.5}, coin.ID)
	store.AttachGuardian(coin.ID, m.ID)
	require.Equal(t, ModeGuardianPatrol, m.Mode())

	// Игрок далеко: страж патрулирует
	farPlayer := NewPlayer(vec.Vec3Float{X: 1.5, Y: 1, Z: 1.5}, cfg.Physics)
	ctrl.Update(m, farPlayer)
	assert.Equal(t, ModeGuardianPatrol, m.Mode())

	// Игрок у монеты, страж рядом: тревога
	nearPlayer := NewPlayer(vec.Vec3Float{X: 9.5, Y: 1, Z: 8.5}, cfg.Physics)
	ctrl.Update(m, nearPlayer)
	assert.Equal(t, ModeGuardianAggro, m.Mode())
	assert.Positive(t, m.AggroLeft)

	// Таймер истёк: возврат к патрулю
	m.AggroLeft = 1
	ctrl.Update(m, farPlayer)
	assert.Equal(t, ModeGuardianPatrol, m.Mode(), "Истёкшая тревога возвращает патруль")
}

func TestPatrolChasesWithinTwiceGuardRadius(t *testing.T) {
	store := flatWorld(24)
	ctrl, cfg := testController(store)

	// Страж между одинарным и двойным радиусом охраны (4 < 6 < 8)
	coin := store.AddCoin(vec.Vec3Float{X: 10.5, Y: 1.5, Z: 10.5})
	m := NewMonster(1, 1, vec.Vec3Float{X: 16.5, Y: 1, Z: 10.5}, coin.ID)
	store.AttachGuardian(coin.ID, m.ID)
	require.Greater(t, m.Position.HorizontalDistanceTo(coin.Pos), cfg.Spawn.GuardRadius)

	// Игрок внутри радиуса тревоги монеты
	player := NewPlayer(vec.Vec3Float{X: 18.0, Y: 1, Z: 10.5}, cfg.Physics)
	require.LessOrEqual(t, player.Position.HorizontalDistanceTo(coin.Pos), cfg.Spawn.AlertRadius)

	ctrl.Update(m, player)
	assert.Equal(t, ModeGuardianAggro, m.Mode(), "Тревога поднимается и за пределами радиуса охраны")

	before := m.Position.HorizontalDistanceTo(player.Position)
	for i := 0; i < 60; i++ {
		ctrl.Update(m, player)
	}
	after := m.Position.HorizontalDistanceTo(player.Position)
	assert.Less(t, after, before, "Страж сближается с игроком, а не дрейфует к точке патруля")
}

func TestGuardianReturnsMonotonically(t *testing.T) {
	store := flatWorld(32)
	ctrl, cfg := testController(store)

	coin := store.AddCoin(vec.Vec3Float{X: 10.5, Y: 1.5, Z: 10.5})
	m := NewMonster(1, 1, vec.Vec3Float{X: 16.5, Y: 1, Z: 10.5}, coin.ID)
	store.AttachGuardian(coin.ID, m.ID)
	m.Anchor = coin.Pos
	m.enterAggro(1)

	// Игрок далеко: погоня истекает, новых триггеров нет
	player := NewPlayer(vec.Vec3Float{X: 30.5, Y: 1, Z: 30.5}, cfg.Physics)
	ctrl.Update(m, player)
	require.Equal(t, ModeGuardianPatrol, m.Mode())

	// Возврат к якорю без осцилляций: дистанция не растёт,
	// пока страж не вернулся в радиус охраны
	prev := m.Position.HorizontalDistanceTo(m.Anchor)
	for i := 0; i < 90; i++ {
		ctrl.Update(m, player)
		d := m.Position.HorizontalDistanceTo(m.Anchor)
		assert.LessOrEqual(t, d, prev+1e-9, "Дистанция до якоря не должна расти (тик %d)", i)
		prev = d
		if d <= cfg.Spawn.GuardRadius {
			break
		}
	}
	assert.LessOrEqual(t, prev, cfg.Spawn.GuardRadius, "Страж возвращается в радиус охраны")
}

func TestGuardianAggroOnHit(t *testing.T) {
	store := flatWorld(16)
	coin := store.AddCoin(vec.Vec3Float{X: 8.5, Y: 1.5, Z: 8.5})
	m := NewMonster(1, 1, vec.Vec3Float{X: 8.5, Y: 1, Z: 7.5}, coin.ID)

	died := m.Hit(5, 240)
	assert.False(t, died)
	assert.Equal(t, ModeGuardianAggro, m.Mode(), "Атакованный страж переходит в погоню")
	assert.Equal(t, 240, m.AggroLeft)

	// Смертельный удар
	assert.True(t, m.Hit(1000, 240))
}

func TestGuardianBecomesRoamAfterCoinCollected(t *testing.T) {
	store := flatWorld(16)
	ctrl, cfg := testController(store)

	coin := store.AddCoin(vec.Vec3Float{X: 8.5, Y: 1.5, Z: 8.5})
	m := NewMonster(1, 1, vec.Vec3Float{X: 8.5, Y: 1, Z: 7.5}, coin.ID)
	store.CollectCoin(coin.ID)

	player := NewPlayer(vec.Vec3Float{X: 1.5, Y: 1, Z: 1.5}, cfg.Physics)
	ctrl.Update(m, player)

	assert.Equal(t, ModeRoam, m.Mode(), "Страж собранной монеты становится бродягой")
	assert.False(t, m.Guardian())
}

func TestMonsterVoidFreeze(t *testing.T) {
	store := flatWorld(16)
	store.BreakBlock(vec.Vec3{X: 5, Y: 0, Z: 5})
	ctrl, cfg := testController(store)

	m := NewMonster(1, 1, vec.Vec3Float{X: 5.5, Y: 0.5, Z: 5.5}, 0)
	player := NewPlayer(vec.Vec3Float{X: 10.5, Y: 1, Z: 5.5}, cfg.Physics)

	pos := m.Position
	dmg := ctrl.Update(m, player)

	assert.True(t, m.VoidStuck, "Пустота замораживает монстра")
	assert.Equal(t, pos, m.Position, "Замороженный монстр неподвижен")
	assert.Zero(t, dmg, "Замороженный монстр не атакует")
}

func TestMonsterAttacksInRange(t *testing.T) {
	store := flatWorld(16)
	ctrl, cfg := testController(store)

	m := NewMonster(1, 1, vec.Vec3Float{X: 5.5, Y: 1, Z: 5.5}, 0)
	player := NewPlayer(vec.Vec3Float{X: 5.9, Y: 1, Z: 5.5}, cfg.Physics)

	dmg := ctrl.Update(m, player)
	assert.Equal(t, m.Damage, dmg, "Монстр в упор наносит урон")
	assert.Positive(t, m.AttackCD)

	// Кулдаун не даёт атаковать каждый тик
	dmg = ctrl.Update(m, player)
	assert.Zero(t, dmg)
}
