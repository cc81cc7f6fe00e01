package vec

import "math"

// Vec3 представляет позицию ячейки сетки мира в блоках.
// Y — вертикальная ось (вверх), X/Z — горизонтальная плоскость.
type Vec3 struct {
	X int
	Y int
	Z int
}

// ToColumn возвращает координаты колонки, игнорируя высоту
func (v Vec3) ToColumn() Vec2 {
	return Vec2{X: v.X, Z: v.Z}
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// DistanceTo вычисляет расстояние до другой ячейки
func (v Vec3) DistanceTo(other Vec3) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	dz := float64(v.Z - other.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
