package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/blockfall/internal/vec"
	"github.com/annel0/blockfall/internal/world"
)

// Игрок стоит в (4.5, 1, 4.5) с yaw 0 (взгляд вдоль +Z).
// Наклон вниз направляет луч на поверхность перед ним.

func TestMineBreaksBlock(t *testing.T) {
	e := testEngine(8)
	e.player.Pitch = -0.8

	require.True(t, e.mine(), "Луч должен дойти до блока поверхности")

	// Первый блок на пути — (4, 0, 6): теперь это дыра
	cell := vec.Vec3{X: 4, Y: 0, Z: 6}
	assert.False(t, e.store.SolidAt(cell), "Добытый блок перестаёт быть опорой")
	b, ok := e.store.BlockAt(cell)
	require.True(t, ok)
	assert.Equal(t, world.BlockVoid, b.State)

	assert.Equal(t, 2, e.player.Stone, "Камень зачисляется с выпадения")
	assert.Zero(t, e.player.Wood)
}

func TestMineRefusesSupportingBlock(t *testing.T) {
	e := testEngine(8)
	// Взгляд почти вертикально вниз: луч упирается в блок под ногами
	e.player.Pitch = -maxPitch

	assert.False(t, e.mine(), "Опорный блок не добывается")

	cell := vec.Vec3{X: 4, Y: 0, Z: 4}
	assert.True(t, e.store.SolidAt(cell), "Блок под ногами остаётся на месте")
	assert.Zero(t, e.player.Stone)
}

func TestMineCutsTree(t *testing.T) {
	e := testEngine(8)
	tree := e.store.AddTree(vec.Vec3{X: 4, Y: 1, Z: 6}, 4)

	// Пологий наклон: луч входит в верхнюю ячейку ствола
	e.player.Pitch = -0.3
	require.True(t, e.mine())

	assert.Equal(t, 4, e.player.Wood, "Сруб зачисляет всю древесину дерева")
	_, ok := e.store.TreeAt(vec.Vec3{X: 4, Y: 1, Z: 6})
	assert.False(t, ok, "Срубленное дерево исчезает")
	_, ok = e.store.CutTree(tree.ID)
	assert.False(t, ok)
}

func TestBuildPlacesBlock(t *testing.T) {
	e := testEngine(8)
	e.player.Wood = 1
	e.player.Pitch = -0.8

	require.True(t, e.build(), "Блок встаёт в последнюю свободную ячейку перед опорой")

	cell := vec.Vec3{X: 4, Y: 1, Z: 6}
	require.True(t, e.store.SolidAt(cell))
	b, _ := e.store.BlockAt(cell)
	assert.Equal(t, world.BlockPlaced, b.State)
	assert.Zero(t, e.player.Wood, "Строительство тратит древесину")

	// Без древесины строительство — no-op
	assert.False(t, e.build())
}

func TestBuildRefusedNearSelf(t *testing.T) {
	e := testEngine(8)
	e.player.Wood = 1
	// Ячейка перед блоком под ногами попадает в запретную зону вокруг игрока
	e.player.Pitch = -maxPitch

	assert.False(t, e.build(), "Установка вплотную к игроку отклоняется")
	assert.Equal(t, 1, e.player.Wood, "Отказ не тратит древесину")
	assert.False(t, e.store.SolidAt(vec.Vec3{X: 4, Y: 1, Z: 4}))
}

func TestMineMissesInOpenAir(t *testing.T) {
	e := testEngine(8)
	// Взгляд вверх: на пути луча ничего нет
	e.player.Pitch = 0.5

	assert.False(t, e.mine(), "Промах — no-op без ошибки")
	assert.Zero(t, e.player.Stone)
}
