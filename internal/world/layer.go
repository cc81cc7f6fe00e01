package world

import "sort"

// LayerID идентифицирует слой мира
type LayerID uint8

// WorldLayer описывает один слой: Y-смещение основания.
// Слои полностью упорядочены по высоте.
type WorldLayer struct {
	ID      LayerID
	OffsetY int
}

// LayerRegistry хранит слои мира, отсортированные по возрастанию высоты
type LayerRegistry struct {
	layers []WorldLayer
}

// NewLayerRegistry создаёт регистр слоёв из списка Y-смещений
func NewLayerRegistry(offsets []int) *LayerRegistry {
	sorted := make([]int, len(offsets))
	copy(sorted, offsets)
	sort.Ints(sorted)

	layers := make([]WorldLayer, 0, len(sorted))
	for i, off := range sorted {
		layers = append(layers, WorldLayer{ID: LayerID(i), OffsetY: off})
	}
	return &LayerRegistry{layers: layers}
}

// Layers возвращает слои в порядке возрастания высоты
func (r *LayerRegistry) Layers() []WorldLayer {
	return r.layers
}

// ByID возвращает слой по идентификатору
func (r *LayerRegistry) ByID(id LayerID) (WorldLayer, bool) {
	for _, l := range r.layers {
		if l.ID == id {
			return l, true
		}
	}
	return WorldLayer{}, false
}

// NearestBelow возвращает самый высокий слой, основание которого
// не выше указанной высоты. Используется для перенаправления запросов
// высоты из небесной зоны при падении между слоями.
func (r *LayerRegistry) NearestBelow(y float64) (WorldLayer, bool) {
	for i := len(r.layers) - 1; i >= 0; i-- {
		if float64(r.layers[i].OffsetY) <= y {
			return r.layers[i], true
		}
	}
	return WorldLayer{}, false
}
