package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/blockfall/internal/config"
	"github.com/annel0/blockfall/internal/entity"
	"github.com/annel0/blockfall/internal/eventbus"
	"github.com/annel0/blockfall/internal/vec"
	"github.com/annel0/blockfall/internal/world"
	"github.com/annel0/blockfall/internal/world/block"

	// Регистрация поведений блоков
	_ "github.com/annel0/blockfall/internal/world/block/implementations"
)

// flatStore строит плоскую площадку size x size с верхом опоры на высоте 1
func flatStore(size int) *world.Store {
	store := world.NewStore(world.NewLayerRegistry([]int{0}))
	for x := 0; x < size; x++ {
		for z := 0; z < size; z++ {
			store.SetBlock(vec.Vec3{X: x, Y: 0, Z: z}, 0, block.StoneBlockID)
		}
	}
	return store
}

func testEngine(size int) *Engine {
	cfg := config.Default()
	cfg.World.Size = size
	cfg.World.CoinCount = 0
	cfg.World.TreeCount = 0
	return NewEngine(cfg, flatStore(size), eventbus.NewMemoryBus(64))
}

func TestStepAdvancesTick(t *testing.T) {
	e := testEngine(8)

	require.Zero(t, e.Tick())
	e.Step()
	assert.Equal(t, uint64(1), e.Tick())

	// Игрок появился на поверхности в центре мира
	snap := e.PlayerSnapshot()
	assert.InDelta(t, 4.5, snap.Position.X, 1e-9)
	assert.InDelta(t, 1.0, snap.Position.Y, 1e-6)
	assert.True(t, snap.Grounded)
}

func TestCoinPickup(t *testing.T) {
	e := testEngine(8)
	coin := e.store.AddCoin(e.player.Center())

	e.Step()

	snap := e.PlayerSnapshot()
	assert.Equal(t, 1, snap.Coins, "Монета рядом с игроком подбирается")

	got, ok := e.store.Coin(coin.ID)
	require.True(t, ok)
	assert.True(t, got.Collected)

	// Повторный тик ничего не добавляет
	e.Step()
	assert.Equal(t, 1, e.PlayerSnapshot().Coins)
}

func TestAttackKillsMonster(t *testing.T) {
	e := testEngine(8)

	m := entity.NewMonster(99, 1, e.player.Position.Add(vec.Vec3Float{X: 1}), 0)
	m.Health = 5
	e.monsters[m.ID] = m

	e.input.Press(ActionAttack)
	e.Step()

	assert.Equal(t, uint64(1), e.Kills(), "Убийство увеличивает счётчик")
	assert.Empty(t, e.monsters, "Убитый монстр удаляется")
	assert.Positive(t, e.player.AttackCD, "Атака взводит кулдаун")
}

func TestAttackRespectsRange(t *testing.T) {
	e := testEngine(16)

	far := entity.NewMonster(99, 1, e.player.Position.Add(vec.Vec3Float{X: 6}), 0)
	far.Health = 5
	e.monsters[far.ID] = far

	e.input.Press(ActionAttack)
	e.Step()

	assert.Zero(t, e.Kills(), "Монстр вне дальности не получает урона")
	assert.Equal(t, 5, far.Health)
}

func TestPlayerDeathFreezesSimulation(t *testing.T) {
	e := testEngine(8)
	e.player.Health = 1

	// Монстр в упор убивает первым же ударом
	m := entity.NewMonster(99, 5, e.player.Position.Add(vec.Vec3Float{X: 0.5}), 0)
	e.monsters[m.ID] = m

	e.Step()
	require.True(t, e.player.Dead, "Смертельный удар завершает сессию")

	tick := e.Tick()
	e.Step()
	e.Step()
	assert.Equal(t, tick, e.Tick(), "После смерти симуляция заморожена")
}

func TestSpawnerCreatesMonster(t *testing.T) {
	e := testEngine(24)

	ticks := entity.SpawnInterval(0, e.cfg.Spawn)
	for i := 0; i <= ticks; i++ {
		e.Step()
	}

	assert.NotEmpty(t, e.monsters, "После стартового интервала появляется монстр")
	for _, m := range e.monsters {
		assert.GreaterOrEqual(t,
			m.Position.HorizontalDistanceTo(e.player.Position), spawnMinPlayerGap-1e-6,
			"Монстр не появляется вплотную к игроку")
	}
}

func TestHealAction(t *testing.T) {
	e := testEngine(8)
	e.player.Coins = 1
	e.player.Health = 50

	e.input.Press(ActionHeal)
	e.Step()

	snap := e.PlayerSnapshot()
	assert.Equal(t, 50+healAmount, snap.Health)
	assert.Zero(t, snap.Coins, "Лечение тратит монету")

	// Без монет лечение — no-op
	e.player.Health = 50
	e.input.Press(ActionHeal)
	e.Step()
	assert.Equal(t, 50, e.PlayerSnapshot().Health)
}

func TestUpgradePurchases(t *testing.T) {
	e := testEngine(8)

	// Урон за камень
	e.player.Stone = 10
	base := e.player.AttackDamage
	require.True(t, e.BuyDamageUpgrade())
	assert.Equal(t, base+5, e.player.AttackDamage)
	assert.Zero(t, e.player.Stone)
	assert.False(t, e.BuyDamageUpgrade(), "Без камня покупка отклоняется")

	// Здоровье за древесину
	e.player.Wood = 10
	maxBefore := e.player.MaxHealth
	require.True(t, e.BuyHealthUpgrade())
	assert.Equal(t, maxBefore+20, e.player.MaxHealth)

	// Заряд побега за монету
	e.player.Coins = 1
	charges := e.player.EscapeCharges
	require.True(t, e.BuyEscapeCharge())
	assert.Equal(t, charges+1, e.player.EscapeCharges)
	assert.False(t, e.BuyEscapeCharge())

	// Скорость за монету
	e.player.Coins = 1
	require.True(t, e.BuySpeedUpgrade())
	assert.Equal(t, 1, e.player.SpeedLevel)
}

func TestGuardiansSpawnForCoins(t *testing.T) {
	cfg := config.Default()
	cfg.World.Size = 16
	cfg.World.GuardRatio = 1.0 // Страж на каждую монету

	store := flatStore(16)
	coin := store.AddCoin(vec.Vec3Float{X: 3.5, Y: 1.5, Z: 3.5})

	e := NewEngine(cfg, store, eventbus.NewMemoryBus(64))

	require.Len(t, e.monsters, 1, "Монета получает стража")
	for _, m := range e.monsters {
		assert.True(t, m.Guardian())
		assert.Equal(t, coin.ID, m.GuardedCoin)
	}

	got, _ := store.Coin(coin.ID)
	assert.Len(t, got.Guardians, 1, "Страж привязан к монете")
}

func TestRestorePlayer(t *testing.T) {
	e := testEngine(8)

	e.RestorePlayer(PlayerSnapshot{
		Health: 70, MaxHealth: 120, AttackDamage: 25,
		Wood: 3, Stone: 4, Coins: 5, EscapeCharges: 2,
	}, 7)

	snap := e.PlayerSnapshot()
	assert.Equal(t, 70, snap.Health)
	assert.Equal(t, 120, snap.MaxHealth)
	assert.Equal(t, uint64(7), e.Kills())
}
