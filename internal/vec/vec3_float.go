package vec

import "math"

// Vec3Float представляет точную позицию в мире с субблоковой точностью.
// Используется для позиций и скоростей актёров.
type Vec3Float struct {
	X float64
	Y float64
	Z float64
}

// FromVec3 создает Vec3Float из центра ячейки сетки
func FromVec3(v Vec3) Vec3Float {
	return Vec3Float{X: float64(v.X) + 0.5, Y: float64(v.Y), Z: float64(v.Z) + 0.5}
}

// ToVec3 преобразует в координаты ячейки сетки.
// Floor, а не усечение: отрицательные координаты должны попадать
// в правильную ячейку.
func (v Vec3Float) ToVec3() Vec3 {
	return Vec3{
		X: int(math.Floor(v.X)),
		Y: int(math.Floor(v.Y)),
		Z: int(math.Floor(v.Z)),
	}
}

// ToColumn возвращает координаты колонки для запросов высоты
func (v Vec3Float) ToColumn() Vec2 {
	return Vec2{X: int(math.Floor(v.X)), Z: int(math.Floor(v.Z))}
}

// Add складывает два вектора
func (v Vec3Float) Add(other Vec3Float) Vec3Float {
	return Vec3Float{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub вычитает вектор
func (v Vec3Float) Sub(other Vec3Float) Vec3Float {
	return Vec3Float{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Mul умножает вектор на скаляр
func (v Vec3Float) Mul(scalar float64) Vec3Float {
	return Vec3Float{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar}
}

// Length возвращает длину вектора
func (v Vec3Float) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// HorizontalLength возвращает длину проекции на плоскость X/Z
func (v Vec3Float) HorizontalLength() float64 {
	return math.Sqrt(v.X*v.X + v.Z*v.Z)
}

// Normalized возвращает нормализованный вектор
func (v Vec3Float) Normalized() Vec3Float {
	length := v.Length()
	if length == 0 {
		return Vec3Float{}
	}
	return Vec3Float{X: v.X / length, Y: v.Y / length, Z: v.Z / length}
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec3Float) DistanceTo(other Vec3Float) float64 {
	return v.Sub(other).Length()
}

// HorizontalDistanceTo вычисляет расстояние в плоскости X/Z
func (v Vec3Float) HorizontalDistanceTo(other Vec3Float) float64 {
	dx := v.X - other.X
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dz*dz)
}
