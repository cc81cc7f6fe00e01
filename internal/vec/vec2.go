package vec

import "math"

// Vec2 представляет координаты колонки мира (X, Z) в блоках.
// Используется как ключ для запросов высоты поверхности.
type Vec2 struct {
	X, Z int
}

// DistanceTo вычисляет расстояние до другой колонки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dz := float64(v.Z - other.Z)
	return math.Sqrt(dx*dx + dz*dz)
}
