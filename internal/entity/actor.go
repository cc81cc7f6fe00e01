package entity

import (
	"github.com/annel0/blockfall/internal/physics"
	"github.com/annel0/blockfall/internal/vec"
)

// Actor содержит кинетическое состояние, общее для игрока и монстров.
// Position — нижний центр хитбокса; AABB выводится из полуразмеров.
type Actor struct {
	ID       uint64
	Position vec.Vec3Float
	Velocity vec.Vec3Float
	HalfX    float64
	HalfZ    float64
	Height   float64

	Grounded  bool
	VoidStuck bool

	// EffectTicks — тик-счётчик визуального эффекта (вспышка урона).
	// Декрементируется движком и читается презентацией; никаких
	// отложенных колбэков.
	EffectTicks int
}

// Box возвращает текущий AABB актёра
func (a *Actor) Box() physics.AABB {
	return physics.BoxAt(a.Position, a.HalfX, a.HalfZ, a.Height)
}

// BoxAt возвращает AABB актёра в указанной позиции
func (a *Actor) BoxAt(pos vec.Vec3Float) physics.AABB {
	return physics.BoxAt(pos, a.HalfX, a.HalfZ, a.Height)
}

// Column возвращает колонку мира под актёром
func (a *Actor) Column() vec.Vec2 {
	return a.Position.ToColumn()
}

// Center возвращает геометрический центр хитбокса
func (a *Actor) Center() vec.Vec3Float {
	return a.Position.Add(vec.Vec3Float{Y: a.Height / 2})
}
