package world

import (
	"math/rand"

	"github.com/annel0/blockfall/internal/util"
	"github.com/annel0/blockfall/internal/vec"
	"github.com/annel0/blockfall/internal/world/block"
)

// Константы рельефа
const (
	surfaceAmplitude = 4    // Максимальный перепад поверхности слоя в блоках
	bedDepth         = 2    // Толщина каменного основания под поверхностью
	treeWoodMin      = 3    // Минимум древесины с дерева
	treeWoodMax      = 6    // Максимум древесины с дерева
	stoneNoiseGate   = 0.72 // Выше этого значения шума поверхность каменная
)

// Generator детерминированно строит слои мира, деревья и монеты
// по сиду. Каждый слой — квадрат size x size блоков на своём
// Y-смещении с плавным рельефом из шума Перлина.
type Generator struct {
	seed       int64
	size       int
	noiseScale float64
	noise      *util.Noise
}

// NewGenerator создаёт генератор мира с указанным сидом
func NewGenerator(seed int64, size int) *Generator {
	return &Generator{
		seed:       seed,
		size:       size,
		noiseScale: 0.05, // Настройка сглаженности ландшафта
		noise:      util.NewNoise(seed),
	}
}

// Generate заполняет хранилище блоками всех слоёв, деревьями и монетами.
// treeCount и coinCount задаются на слой.
func (g *Generator) Generate(store *Store, treeCount, coinCount int) {
	for _, layer := range store.Layers().Layers() {
		g.generateLayer(store, layer)
	}

	for _, layer := range store.Layers().Layers() {
		// Отдельный rng на слой: результат не зависит от порядка слоёв
		rng := rand.New(rand.NewSource(g.seed + int64(layer.ID)*31))
		g.scatterTrees(store, layer, treeCount, rng)
		g.scatterCoins(store, layer, coinCount, rng)
	}
}

// generateLayer строит рельеф одного слоя
func (g *Generator) generateLayer(store *Store, layer WorldLayer) {
	for x := 0; x < g.size; x++ {
		for z := 0; z < g.size; z++ {
			surface := g.surfaceHeight(layer, x, z)

			// Поверхностный блок: трава либо камень по второму шуму
			kind := block.GrassBlockID
			if g.noise.At2D(float64(x)*g.noiseScale*2+100, float64(z)*g.noiseScale*2+100) > stoneNoiseGate {
				kind = block.StoneBlockID
			}
			store.SetBlock(vec.Vec3{X: x, Y: surface - 1, Z: z}, layer.ID, kind)

			// Основание под поверхностью
			for y := surface - 1 - bedDepth; y < surface-1; y++ {
				if y < layer.OffsetY {
					continue
				}
				bedKind := block.DirtBlockID
				if y == surface-1-bedDepth {
					bedKind = block.StoneBlockID
				}
				store.SetBlock(vec.Vec3{X: x, Y: y, Z: z}, layer.ID, bedKind)
			}
		}
	}
}

// surfaceHeight возвращает Y верхней грани поверхности слоя в колонке
func (g *Generator) surfaceHeight(layer WorldLayer, x, z int) int {
	noiseX := float64(x)*g.noiseScale + float64(layer.ID)*1000
	noiseZ := float64(z) * g.noiseScale
	h := int(g.noise.At2D(noiseX, noiseZ) * float64(surfaceAmplitude))
	return layer.OffsetY + 1 + h
}

// scatterTrees расставляет деревья по поверхности слоя
func (g *Generator) scatterTrees(store *Store, layer WorldLayer, count int, rng *rand.Rand) {
	for i := 0; i < count; i++ {
		x := rng.Intn(g.size)
		z := rng.Intn(g.size)
		surface := g.surfaceHeight(layer, x, z)
		wood := treeWoodMin + rng.Intn(treeWoodMax-treeWoodMin+1)
		store.AddTree(vec.Vec3{X: x, Y: surface, Z: z}, wood)
	}
}

// scatterCoins расставляет монеты над поверхностью слоя
func (g *Generator) scatterCoins(store *Store, layer WorldLayer, count int, rng *rand.Rand) {
	for i := 0; i < count; i++ {
		x := rng.Intn(g.size)
		z := rng.Intn(g.size)
		surface := g.surfaceHeight(layer, x, z)
		pos := vec.Vec3Float{
			X: float64(x) + 0.5,
			Y: float64(surface) + 0.5,
			Z: float64(z) + 0.5,
		}
		store.AddCoin(pos)
	}
}
