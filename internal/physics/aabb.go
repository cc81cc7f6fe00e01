package physics

import (
	"github.com/annel0/blockfall/internal/vec"
)

// AABB представляет осевыравненный параллелепипед в мировых координатах.
// Единственная форма коллизий в симуляции: вращения и меши не поддерживаются.
type AABB struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// BoxAt строит AABB актёра по позиции нижнего центра хитбокса
func BoxAt(pos vec.Vec3Float, halfX, halfZ, height float64) AABB {
	return AABB{
		MinX: pos.X - halfX,
		MinY: pos.Y,
		MinZ: pos.Z - halfZ,
		MaxX: pos.X + halfX,
		MaxY: pos.Y + height,
		MaxZ: pos.Z + halfZ,
	}
}

// CellBox возвращает AABB ячейки сетки блоков
func CellBox(cell vec.Vec3) AABB {
	return AABB{
		MinX: float64(cell.X),
		MinY: float64(cell.Y),
		MinZ: float64(cell.Z),
		MaxX: float64(cell.X) + 1,
		MaxY: float64(cell.Y) + 1,
		MaxZ: float64(cell.Z) + 1,
	}
}

// Intersects проверяет пересечение двух боксов
func (b AABB) Intersects(other AABB) bool {
	return b.MinX < other.MaxX && b.MaxX > other.MinX &&
		b.MinY < other.MaxY && b.MaxY > other.MinY &&
		b.MinZ < other.MaxZ && b.MaxZ > other.MinZ
}

// Contains проверяет, находится ли точка внутри бокса
func (b AABB) Contains(p vec.Vec3Float) bool {
	return p.X >= b.MinX && p.X < b.MaxX &&
		p.Y >= b.MinY && p.Y < b.MaxY &&
		p.Z >= b.MinZ && p.Z < b.MaxZ
}

// Translated возвращает бокс, смещённый на вектор
func (b AABB) Translated(d vec.Vec3Float) AABB {
	return AABB{
		MinX: b.MinX + d.X, MinY: b.MinY + d.Y, MinZ: b.MinZ + d.Z,
		MaxX: b.MaxX + d.X, MaxY: b.MaxY + d.Y, MaxZ: b.MaxZ + d.Z,
	}
}
