package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/blockfall/internal/config"
	"github.com/annel0/blockfall/internal/physics"
	"github.com/annel0/blockfall/internal/vec"
	"github.com/annel0/blockfall/internal/world"
	"github.com/annel0/blockfall/internal/world/block"

	// Регистрация поведений блоков
	_ "github.com/annel0/blockfall/internal/world/block/implementations"
)

// flatWorld строит плоскую площадку size x size с верхом опоры на высоте 1
func flatWorld(size int) *world.Store {
	store := world.NewStore(world.NewLayerRegistry([]int{0}))
	for x := 0; x < size; x++ {
		for z := 0; z < size; z++ {
			store.SetBlock(vec.Vec3{X: x, Y: 0, Z: z}, 0, block.StoneBlockID)
		}
	}
	return store
}

func testKinetics(store *world.Store) (*Kinetics, config.PhysicsConfig) {
	cfg := config.Default().Physics
	resolver := physics.NewResolver(store, physics.Config{
		StepHeight: cfg.StepHeight,
		SkyBandY:   cfg.SkyBandY,
	})
	return NewKinetics(resolver, store, cfg), cfg
}

func groundedPlayer(store *world.Store, cfg config.PhysicsConfig, x, z float64) *Player {
	p := NewPlayer(vec.Vec3Float{X: x, Y: 1, Z: z}, cfg)
	p.Grounded = true
	return p
}

func TestFallAndLand(t *testing.T) {
	store := flatWorld(8)
	k, cfg := testKinetics(store)

	p := NewPlayer(vec.Vec3Float{X: 4.5, Y: 6, Z: 4.5}, cfg)
	require.False(t, p.Grounded)

	// Свободное падение заканчивается приземлением на опору
	for i := 0; i < 300 && !p.Grounded; i++ {
		k.Step(p, MoveInput{})
	}

	require.True(t, p.Grounded, "Игрок должен приземлиться")
	assert.InDelta(t, 1.0, p.Position.Y, 1e-6, "Низ актёра на верхней грани опоры")
	assert.Zero(t, p.Velocity.Y)
}

func TestFrictionAlwaysApplies(t *testing.T) {
	store := flatWorld(8)
	k, cfg := testKinetics(store)

	p := groundedPlayer(store, cfg, 4.5, 4.5)
	p.Velocity.X = 3.0

	// Трение действует без ввода
	k.Step(p, MoveInput{})
	assert.Less(t, p.Velocity.X, 3.0, "Трение должно гасить скорость")
	assert.Greater(t, p.Velocity.X, 0.0)
}

func TestInputAcceleration(t *testing.T) {
	store := flatWorld(8)
	k, cfg := testKinetics(store)

	p := groundedPlayer(store, cfg, 4.5, 4.5)

	// Yaw 0 — вперёд вдоль +Z
	k.Step(p, MoveInput{Forward: true})
	assert.Greater(t, p.Velocity.Z, 0.0, "Движение вперёд набирает скорость по +Z")
	assert.InDelta(t, 0.0, p.Velocity.X, 1e-9)
}

func TestJumpGroundedOnly(t *testing.T) {
	store := flatWorld(8)
	k, cfg := testKinetics(store)

	// Прыжок в воздухе игнорируется
	airborne := NewPlayer(vec.Vec3Float{X: 4.5, Y: 5, Z: 4.5}, cfg)
	k.Step(airborne, MoveInput{Jump: JumpForward})
	assert.LessOrEqual(t, airborne.Velocity.Y, 0.0, "Прыжок без опоры не должен срабатывать")

	// Прыжок с опоры: горизонтальная скорость задана, вертикальная в 1.5 раза выше
	p := groundedPlayer(store, cfg, 4.5, 4.5)
	k.Step(p, MoveInput{Jump: JumpForward})
	assert.False(t, p.Grounded)
	assert.Greater(t, p.Velocity.Y, 0.0)
	assert.InDelta(t, cfg.JumpPower*1.5, p.Velocity.Y+cfg.Gravity/float64(cfg.TickRate), 0.5,
		"Вертикальная скорость прыжка в полтора раза выше горизонтальной")
}

func TestJumpDirections(t *testing.T) {
	store := flatWorld(8)
	k, cfg := testKinetics(store)

	// Yaw 0: вперёд +Z, вправо +X... ось прыжка следует за камерой
	cases := []struct {
		dir  JumpDirection
		sign vec.Vec3Float
	}{
		{JumpForward, vec.Vec3Float{Z: 1}},
		{JumpBack, vec.Vec3Float{Z: -1}},
		{JumpRight, vec.Vec3Float{X: 1}},
		{JumpLeft, vec.Vec3Float{X: -1}},
	}

	for _, tc := range cases {
		p := groundedPlayer(store, cfg, 4.5, 4.5)
		k.Step(p, MoveInput{Jump: tc.dir})
		if tc.sign.X != 0 {
			assert.InDelta(t, tc.sign.X*cfg.JumpPower, p.Velocity.X, 0.1)
		}
		if tc.sign.Z != 0 {
			assert.InDelta(t, tc.sign.Z*cfg.JumpPower, p.Velocity.Z, 0.1)
		}
	}
}

func TestWallBlocksHorizontal(t *testing.T) {
	store := flatWorld(8)
	// Стена в два блока высотой поперёк пути
	store.SetBlock(vec.Vec3{X: 5, Y: 1, Z: 4}, 0, block.StoneBlockID)
	store.SetBlock(vec.Vec3{X: 5, Y: 2, Z: 4}, 0, block.StoneBlockID)

	k, cfg := testKinetics(store)
	p := groundedPlayer(store, cfg, 4.5, 4.5)
	p.Yaw = 0

	// Бежим в стену вправо (+X при yaw 0 это Right)
	for i := 0; i < 60; i++ {
		k.Step(p, MoveInput{Right: true})
	}

	assert.Less(t, p.Position.X, 5.0-p.HalfX+0.1, "Стена должна останавливать движение")
	assert.InDelta(t, 1.0, p.Position.Y, 1e-6, "Игрок остаётся на земле")
}

func TestVoidTrapFreezesWithoutCharge(t *testing.T) {
	store := flatWorld(8)
	// Дыра прямо под игроком
	store.BreakBlock(vec.Vec3{X: 4, Y: 0, Z: 4})

	k, cfg := testKinetics(store)
	p := NewPlayer(vec.Vec3Float{X: 4.5, Y: 0.5, Z: 4.5}, cfg)
	p.Velocity = vec.Vec3Float{X: 2, Y: -1, Z: 2}
	p.EscapeCharges = 0

	k.Step(p, MoveInput{Forward: true})

	assert.True(t, p.VoidStuck, "Пересечение с пустотой должно захватывать")
	assert.Equal(t, vec.Vec3Float{}, p.Velocity, "Скорость обнуляется полностью")

	pos := p.Position
	k.Step(p, MoveInput{Forward: true})
	assert.Equal(t, pos, p.Position, "Захваченный игрок неподвижен")
}

func TestVoidTrapEscapeCharge(t *testing.T) {
	store := flatWorld(8)
	store.BreakBlock(vec.Vec3{X: 4, Y: 0, Z: 4})

	k, cfg := testKinetics(store)
	p := NewPlayer(vec.Vec3Float{X: 4.5, Y: 0.5, Z: 4.5}, cfg)
	p.EscapeCharges = 1

	// Без направленного ввода заряд не тратится
	k.Step(p, MoveInput{})
	assert.True(t, p.VoidStuck)
	assert.Equal(t, 1, p.EscapeCharges)

	// Направленный ввод тратит заряд и возвращает подвижность в том же тике
	k.Step(p, MoveInput{Forward: true})
	assert.False(t, p.VoidStuck)
	assert.Zero(t, p.EscapeCharges)
	assert.Greater(t, p.Velocity.Z, 0.0, "Движение возобновляется немедленно")
}

func TestSkyBandDescent(t *testing.T) {
	store := flatWorld(8)
	k, cfg := testKinetics(store)

	// Старт высоко в небесной зоне: коллизий нет, только падение
	p := NewPlayer(vec.Vec3Float{X: 4.5, Y: 30, Z: 4.5}, cfg)
	for i := 0; i < 600 && !p.Grounded; i++ {
		k.Step(p, MoveInput{})
	}

	require.True(t, p.Grounded, "Спуск из небесной зоны заканчивается приземлением")
	assert.InDelta(t, 1.0, p.Position.Y, 1e-6)
}

func TestDamageAndDeath(t *testing.T) {
	cfg := config.Default().Physics
	p := NewPlayer(vec.Vec3Float{}, cfg)

	assert.False(t, p.Damage(30))
	assert.Equal(t, cfg.PlayerHealth-30, p.Health)
	assert.Positive(t, p.EffectTicks, "Урон включает визуальный эффект")

	assert.True(t, p.Damage(1000), "Смертельный урон возвращает true")
	assert.True(t, p.Dead)
	assert.Zero(t, p.Health)

	// Урон и лечение мёртвого игрока — no-op
	assert.False(t, p.Damage(10))
	p.Heal(50)
	assert.Zero(t, p.Health)
}

func TestDeadPlayerDoesNotMove(t *testing.T) {
	store := flatWorld(8)
	k, cfg := testKinetics(store)

	p := groundedPlayer(store, cfg, 4.5, 4.5)
	p.Dead = true
	pos := p.Position

	k.Step(p, MoveInput{Forward: true, Jump: JumpForward})
	assert.Equal(t, pos, p.Position, "Мёртвый игрок не двигается")
}

func TestCameraFollows(t *testing.T) {
	store := flatWorld(8)
	k, cfg := testKinetics(store)

	p := groundedPlayer(store, cfg, 4.5, 4.5)
	k.Step(p, MoveInput{Yaw: 0})

	// Камера позади актёра (yaw 0 — взгляд вдоль +Z) и выше него
	assert.InDelta(t, p.Position.Z-cfg.CameraBack, p.CameraPos.Z, 1e-6)
	assert.InDelta(t, p.Position.Y+cfg.CameraHeight, p.CameraPos.Y, 1e-6)
}
