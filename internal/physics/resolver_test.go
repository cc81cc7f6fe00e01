package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/blockfall/internal/vec"
)

// gridSource — источник блоков для тестов: произвольные боксы,
// индексированные по колонкам.
type gridSource struct {
	boxes []AABB
}

// addCell добавляет единичный блок в ячейку сетки
func (g *gridSource) addCell(x, y, z int) {
	g.boxes = append(g.boxes, CellBox(vec.Vec3{X: x, Y: y, Z: z}))
}

// addBox добавляет произвольный бокс (для дробных высот опоры)
func (g *gridSource) addBox(b AABB) {
	g.boxes = append(g.boxes, b)
}

func (g *gridSource) SolidOverlapping(box AABB) []AABB {
	var result []AABB
	for _, b := range g.boxes {
		if b.Intersects(box) {
			result = append(result, b)
		}
	}
	return result
}

func (g *gridSource) GroundTop(col vec.Vec2, cap float64) (float64, bool) {
	best := math.Inf(-1)
	found := false
	for _, b := range g.boxes {
		if int(math.Floor((b.MinX+b.MaxX)/2)) != col.X || int(math.Floor((b.MinZ+b.MaxZ)/2)) != col.Z {
			continue
		}
		if b.MaxY <= cap && b.MaxY > best {
			best = b.MaxY
			found = true
		}
	}
	return best, found
}

func testResolver(src *gridSource) *Resolver {
	return NewResolver(src, Config{StepHeight: 0.55, SkyBandY: 20.0})
}

func TestGroundHeight(t *testing.T) {
	src := &gridSource{}
	src.addCell(0, 0, 0) // Верх на высоте 1

	r := testResolver(src)

	// Опора под точкой отсчёта находится
	gh, ok := r.GroundHeight(vec.Vec2{X: 0, Z: 0}, 5.0, false)
	require.True(t, ok, "Опора должна быть найдена")
	assert.InDelta(t, 1.0, gh, 1e-9)

	// Опора выше точки отсчёта не видна без допуска шага
	_, ok = r.GroundHeight(vec.Vec2{X: 0, Z: 0}, 0.5, false)
	assert.False(t, ok, "Опора выше точки отсчёта не должна находиться")

	// Допуск шага расширяет поиск вверх
	gh, ok = r.GroundHeight(vec.Vec2{X: 0, Z: 0}, 0.5, true)
	require.True(t, ok)
	assert.InDelta(t, 1.0, gh, 1e-9)

	// Пустая колонка — открытый воздух
	_, ok = r.GroundHeight(vec.Vec2{X: 5, Z: 5}, 10.0, false)
	assert.False(t, ok, "В пустой колонке опоры нет")
}

func TestHorizontalBlocked(t *testing.T) {
	src := &gridSource{}
	src.addCell(1, 0, 0) // Препятствие с верхом на высоте 1

	r := testResolver(src)

	// Актёр на земле (низ на 0): блок высотой 1 выше допуска шага
	low := AABB{MinX: 0.6, MaxX: 1.4, MinY: 0, MaxY: 1.8, MinZ: 0.1, MaxZ: 0.9}
	assert.True(t, r.HorizontalBlocked(low), "Блок выше допуска шага должен блокировать")

	// Актёр с низом на 0.5: перепад 0.5 в пределах шага 0.55
	stepped := AABB{MinX: 0.6, MaxX: 1.4, MinY: 0.5, MaxY: 2.3, MinZ: 0.1, MaxZ: 0.9}
	assert.False(t, r.HorizontalBlocked(stepped), "Перепад в пределах шага проходим")
}

func TestHorizontalBlockedSkyBand(t *testing.T) {
	src := &gridSource{}
	src.addCell(1, 40, 0) // Блок верхнего слоя, целиком в небесной зоне

	r := testResolver(src)

	box := AABB{MinX: 0.6, MaxX: 1.4, MinY: 40, MaxY: 41.8, MinZ: 0.1, MaxZ: 0.9}
	assert.False(t, r.HorizontalBlocked(box),
		"Блоки небесной зоны не участвуют в коллизиях")
}

func TestResolveVertical(t *testing.T) {
	src := &gridSource{}
	src.addCell(0, 0, 0) // Опора с верхом на 1
	src.addCell(0, 4, 0) // Потолок с низом на 4

	r := testResolver(src)

	// Падение: актёр проседает сквозь верх опоры и примагничивается
	oldBox := AABB{MinX: 0.1, MaxX: 0.9, MinY: 1.5, MaxY: 3.3, MinZ: 0.1, MaxZ: 0.9}
	newBox := AABB{MinX: 0.1, MaxX: 0.9, MinY: 0.7, MaxY: 2.5, MinZ: 0.1, MaxZ: 0.9}
	y, ceiling, landed := r.ResolveVertical(oldBox, newBox, -5.0)
	assert.False(t, ceiling)
	assert.True(t, landed, "Падение на опору должно приземлять")
	assert.InDelta(t, 1.0, y, 1e-9)

	// Подъём: голова входит в низ потолка
	oldBox = AABB{MinX: 0.1, MaxX: 0.9, MinY: 1.0, MaxY: 2.8, MinZ: 0.1, MaxZ: 0.9}
	newBox = AABB{MinX: 0.1, MaxX: 0.9, MinY: 2.5, MaxY: 4.3, MinZ: 0.1, MaxZ: 0.9}
	y, ceiling, landed = r.ResolveVertical(oldBox, newBox, 5.0)
	assert.True(t, ceiling, "Подъём в потолок должен останавливаться")
	assert.False(t, landed)
	assert.InDelta(t, 1.0, y, 1e-9, "Откат к позиции до перемещения")
}

func TestClimbDenied(t *testing.T) {
	src := &gridSource{}
	// Текущая колонка: опора на 1.0; соседняя: плита на 1.4 (в пределах шага)
	src.addCell(0, 0, 0)
	src.addBox(AABB{MinX: 1, MaxX: 2, MinY: 0, MaxY: 1.4, MinZ: 0, MaxZ: 1})

	r := testResolver(src)

	cur := vec.Vec2{X: 0, Z: 0}
	dst := vec.Vec2{X: 1, Z: 0}

	// Подъём горизонтальным движением запрещён даже в пределах шага
	assert.True(t, r.ClimbDenied(cur, dst, 1.0),
		"Подъём без прыжка должен быть запрещён")

	// Обратное направление — спуск, он разрешён
	assert.False(t, r.ClimbDenied(dst, cur, 1.4),
		"Спуск горизонтальным движением разрешён")

	// Равная высота проходима
	assert.False(t, r.ClimbDenied(cur, cur, 1.0))
}

func TestSnapHeightIgnoresStep(t *testing.T) {
	src := &gridSource{}
	src.addCell(0, 0, 0)
	src.addCell(1, 2, 0) // Перепад в два блока

	r := testResolver(src)

	// Привязка монстра видит опору выше допуска шага игрока
	gh, ok := r.SnapHeight(vec.Vec2{X: 1, Z: 0}, 2.0+1.25)
	require.True(t, ok)
	assert.InDelta(t, 3.0, gh, 1e-9, "Верх блока в пределах допуска привязки")

	// Вне допуска привязки опора не видна
	_, ok = r.SnapHeight(vec.Vec2{X: 1, Z: 0}, 2.5)
	assert.False(t, ok)
}

func TestInSkyBand(t *testing.T) {
	r := testResolver(&gridSource{})
	assert.False(t, r.InSkyBand(5.0))
	assert.False(t, r.InSkyBand(20.0))
	assert.True(t, r.InSkyBand(20.1))
}
