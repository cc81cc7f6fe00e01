package util

import (
	"github.com/aquilax/go-perlin"
)

// Noise оборачивает генератор шума Перлина с фиксированным сидом.
// Экземплярный, а не глобальный: два мира с разными сидами
// не должны делить состояние.
type Noise struct {
	p *perlin.Perlin
}

// NewNoise создаёт генератор шума с указанным сидом
func NewNoise(seed int64) *Noise {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &Noise{p: perlin.NewPerlin(alpha, beta, n, seed)}
}

// At2D возвращает значение шума для координат, приведённое к диапазону [0, 1]
func (n *Noise) At2D(x, z float64) float64 {
	// Noise2D возвращает значение от -1 до 1
	return (n.p.Noise2D(x, z) + 1.0) / 2.0
}
