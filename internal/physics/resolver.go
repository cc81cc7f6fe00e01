package physics

import (
	"github.com/annel0/blockfall/internal/vec"
)

const collisionEps = 1e-6

// BlockSource абстрагирует хранилище блоков для резолвера.
// Реализуется world.Store.
type BlockSource interface {
	// SolidOverlapping возвращает боксы Solid/Placed блоков,
	// пересекающих указанный бокс (Void-блоки исключены).
	SolidOverlapping(box AABB) []AABB

	// GroundTop возвращает высоту самой высокой опорной грани
	// в колонке, не превышающую cap.
	GroundTop(col vec.Vec2, cap float64) (float64, bool)
}

// Config содержит константы резолвера
type Config struct {
	StepHeight float64 // Максимальный перепад, проходимый без прыжка
	SkyBandY   float64 // Верхняя граница зоны коллизий
}

// Resolver разрешает контакты AABB актёров с сеткой блоков
// и отвечает на запросы высоты опоры.
type Resolver struct {
	blocks BlockSource
	cfg    Config
}

// NewResolver создаёт резолвер над указанным источником блоков
func NewResolver(blocks BlockSource, cfg Config) *Resolver {
	return &Resolver{blocks: blocks, cfg: cfg}
}

// Step возвращает настроенную высоту шага
func (r *Resolver) Step() float64 {
	return r.cfg.StepHeight
}

// InSkyBand сообщает, лежит ли высота в небесной зоне.
// Точки выше порога освобождены от всех коллизий: так актёр
// свободно падает между слоями мира.
func (r *Resolver) InSkyBand(y float64) bool {
	return y > r.cfg.SkyBandY
}

// solidNear возвращает боксы блоков вокруг, исключая блоки небесной зоны
func (r *Resolver) solidNear(box AABB) []AABB {
	all := r.blocks.SolidOverlapping(box)
	result := all[:0]
	for _, b := range all {
		if b.MinY >= r.cfg.SkyBandY {
			continue
		}
		result = append(result, b)
	}
	return result
}

// HorizontalBlocked проверяет бокс-кандидат после горизонтального сдвига.
// Препятствием считается блок, верх которого выше низа актёра более чем
// на высоту шага. Блок в пределах шага пропускает движение, но не
// поднимает актёра: новая опора подтверждается запросом высоты
// на следующем тике.
func (r *Resolver) HorizontalBlocked(box AABB) bool {
	for _, b := range r.solidNear(box) {
		if b.MaxY > box.MinY+r.cfg.StepHeight+collisionEps {
			return true
		}
	}
	return false
}

// ResolveVertical разрешает вертикальное перемещение от oldBox к newBox.
// Подъём в нижнюю грань блока гасит вертикальную скорость (потолок).
// Падение на блок, верх которого не выше низа актёра до перемещения,
// примагничивает актёра к опоре.
func (r *Resolver) ResolveVertical(oldBox, newBox AABB, velY float64) (adjustedY float64, hitCeiling, landed bool) {
	adjustedY = newBox.MinY

	if velY > 0 {
		for _, b := range r.solidNear(newBox) {
			if b.MinY >= oldBox.MaxY-collisionEps {
				// Удар головой: откат по Y
				return oldBox.MinY, true, false
			}
		}
		return adjustedY, false, false
	}

	landedTop := 0.0
	for _, b := range r.solidNear(newBox) {
		if b.MaxY <= oldBox.MinY+collisionEps && b.MaxY >= landedTop {
			landedTop = b.MaxY
			landed = true
		}
	}
	if landed {
		adjustedY = landedTop
	}
	return adjustedY, false, landed
}

// GroundHeight возвращает высоту опоры в колонке: самую высокую
// опорную грань, не превышающую referenceY (плюс высота шага при
// allowStepUp). ok=false — под точкой открытый воздух, актёр должен
// падать. Для referenceY в небесной зоне запрос естественно опускается
// к поверхности ближайшего нижнего слоя: колонка индексирована сквозь
// все слои мира.
func (r *Resolver) GroundHeight(col vec.Vec2, referenceY float64, allowStepUp bool) (float64, bool) {
	cap := referenceY + collisionEps
	if allowStepUp {
		cap = referenceY + r.cfg.StepHeight + collisionEps
	}
	return r.blocks.GroundTop(col, cap)
}

// SnapHeight возвращает высоту опоры без ограничений шага —
// упрощённая привязка к рельефу для монстров.
func (r *Resolver) SnapHeight(col vec.Vec2, maxY float64) (float64, bool) {
	return r.blocks.GroundTop(col, maxY)
}

// ClimbDenied реализует правило против эксплойта подъёма: заземлённый
// актёр не может горизонтальным движением достичь опоры строго выше
// текущей, даже в пределах высоты шага. Для подъёма требуется прыжок.
func (r *Resolver) ClimbDenied(curCol, dstCol vec.Vec2, referenceY float64) bool {
	cur, okCur := r.GroundHeight(curCol, referenceY, false)
	if !okCur {
		return false
	}
	dst, okDst := r.GroundHeight(dstCol, referenceY, true)
	if !okDst {
		return false
	}
	return dst > cur+collisionEps
}
