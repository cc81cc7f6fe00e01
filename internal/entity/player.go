package entity

import (
	"math"

	"github.com/annel0/blockfall/internal/config"
	"github.com/annel0/blockfall/internal/physics"
	"github.com/annel0/blockfall/internal/vec"
	"github.com/annel0/blockfall/internal/world"
)

// JumpDirection — направление дискретного прыжка относительно камеры
type JumpDirection uint8

const (
	JumpNone JumpDirection = iota
	JumpForward
	JumpBack
	JumpLeft
	JumpRight
)

// MoveInput — намерение движения игрока на один тик.
// Собирается слоем ввода из удерживаемых действий и поворота камеры.
type MoveInput struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Jump    JumpDirection
	Yaw     float64 // Радианы; 0 — вдоль +Z
}

// HasDirection сообщает, содержит ли ввод хоть какое-то направленное намерение
func (in MoveInput) HasDirection() bool {
	return in.Forward || in.Back || in.Left || in.Right || in.Jump != JumpNone
}

// Player — состояние игрока: кинетика, здоровье, ресурсы и прокачка.
type Player struct {
	Actor

	Health    int
	MaxHealth int
	Dead      bool

	AttackDamage  int
	AttackRange   float64
	AttackCD      int // Остаток кулдауна атаки в тиках
	AttackCDTicks int

	// Ресурсы и экономика
	Wood  int
	Stone int
	Coins int

	// Уровни купленных улучшений
	DamageLevel int
	HealthLevel int
	SpeedLevel  int

	// Заряды побега из пустотной ловушки
	EscapeCharges int

	// Камера от третьего лица: позиция вычисляется из Yaw/Pitch
	Yaw       float64
	Pitch     float64
	CameraPos vec.Vec3Float

	// После траты заряда побега детектор ловушки молчит,
	// пока актёр не покинет пересечение с пустотой
	voidGrace bool
}

// NewPlayer создаёт игрока в указанной позиции с параметрами из конфигурации
func NewPlayer(pos vec.Vec3Float, cfg config.PhysicsConfig) *Player {
	return &Player{
		Actor: Actor{
			ID:       1,
			Position: pos,
			HalfX:    cfg.PlayerHalfX,
			HalfZ:    cfg.PlayerHalfZ,
			Height:   cfg.PlayerHeight,
		},
		Health:        cfg.PlayerHealth,
		MaxHealth:     cfg.PlayerHealth,
		AttackDamage:  cfg.AttackDamage,
		AttackRange:   cfg.AttackRange,
		AttackCDTicks: cfg.AttackCDTicks,
	}
}

// Damage наносит игроку урон и возвращает true, если игрок погиб.
// Урон по мёртвому игроку — no-op.
func (p *Player) Damage(amount int) bool {
	if p.Dead {
		return false
	}
	p.Health -= amount
	p.EffectTicks = 6
	if p.Health <= 0 {
		p.Health = 0
		p.Dead = true
		return true
	}
	return false
}

// Heal восстанавливает здоровье до максимума
func (p *Player) Heal(amount int) {
	if p.Dead {
		return
	}
	p.Health += amount
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
}

// MoveSpeedScale — множитель ускорения движения от уровня улучшения скорости
func (p *Player) MoveSpeedScale() float64 {
	return 1.0 + 0.15*float64(p.SpeedLevel)
}

// Kinetics — контроллер движения игрока: по одному детерминированному
// шагу за тик, без какой-либо собственной конкурентности.
type Kinetics struct {
	resolver *physics.Resolver
	store    *world.Store
	cfg      config.PhysicsConfig
	dt       float64
}

// NewKinetics создаёт контроллер движения над резолвером коллизий
func NewKinetics(resolver *physics.Resolver, store *world.Store, cfg config.PhysicsConfig) *Kinetics {
	return &Kinetics{
		resolver: resolver,
		store:    store,
		cfg:      cfg,
		dt:       1.0 / float64(cfg.TickRate),
	}
}

// Step продвигает кинетику игрока на один тик. Порядок фаз фиксирован:
// ловушка пустоты, ввод и трение, прыжок, гравитация, интеграция,
// разрешение коллизий по осям, фиксация позиции и камеры.
func (k *Kinetics) Step(p *Player, in MoveInput) {
	if p.Dead {
		return
	}

	p.Yaw = in.Yaw

	if !k.resolveVoidTrap(p, in) {
		// Застрял без заряда побега: скорость гасится полностью
		p.Velocity = vec.Vec3Float{}
		k.updateCamera(p)
		return
	}

	k.applyInput(p, in)
	k.applyJump(p, in)

	// Гравитация не действует на заземлённого актёра
	if !p.Grounded {
		p.Velocity.Y -= k.cfg.Gravity * k.dt
		if p.Velocity.Y < -k.cfg.MaxFallSpeed {
			p.Velocity.Y = -k.cfg.MaxFallSpeed
		}
	}

	// Полуявная интеграция: скорость уже обновлена
	candidate := p.Position.Add(p.Velocity.Mul(k.dt))

	if k.resolver.InSkyBand(p.Position.Y) || k.resolver.InSkyBand(candidate.Y) {
		k.stepSkyBand(p, candidate)
	} else {
		k.stepResolved(p, candidate)
	}

	k.updateCamera(p)
}

// resolveVoidTrap обновляет статус пустотной ловушки. Возвращает false,
// когда игрок обездвижен на этот тик.
func (k *Kinetics) resolveVoidTrap(p *Player, in MoveInput) bool {
	inVoid := k.store.VoidOverlapping(p.Box())
	if !inVoid {
		p.VoidStuck = false
		p.voidGrace = false
		return true
	}
	if p.voidGrace {
		return true
	}
	p.VoidStuck = true

	// Направленный ввод при наличии заряда тратит заряд
	// и возвращает подвижность в этом же тике
	if p.EscapeCharges > 0 && in.HasDirection() {
		p.EscapeCharges--
		p.VoidStuck = false
		p.voidGrace = true
		return true
	}
	return false
}

// applyInput накапливает ускорение от удерживаемых направлений
// относительно камеры и применяет трение. Трение действует всегда,
// независимо от заземления и ввода.
func (k *Kinetics) applyInput(p *Player, in MoveInput) {
	forwardX, forwardZ := math.Sin(in.Yaw), math.Cos(in.Yaw)
	rightX, rightZ := forwardZ, -forwardX

	var ax, az float64
	if in.Forward {
		ax += forwardX
		az += forwardZ
	}
	if in.Back {
		ax -= forwardX
		az -= forwardZ
	}
	if in.Right {
		ax += rightX
		az += rightZ
	}
	if in.Left {
		ax -= rightX
		az -= rightZ
	}

	if ax != 0 || az != 0 {
		length := math.Sqrt(ax*ax + az*az)
		accel := k.cfg.MoveAccel * p.MoveSpeedScale() * k.dt
		p.Velocity.X += ax / length * accel
		p.Velocity.Z += az / length * accel
	}

	p.Velocity.X *= k.cfg.Friction
	p.Velocity.Z *= k.cfg.Friction
}

// applyJump выполняет направленный прыжок. Прыжок возможен только
// с опоры; горизонтальная скорость задаётся, а не накапливается,
// вертикальная — в полтора раза больше горизонтальной.
func (k *Kinetics) applyJump(p *Player, in MoveInput) {
	if in.Jump == JumpNone || !p.Grounded {
		return
	}

	forwardX, forwardZ := math.Sin(in.Yaw), math.Cos(in.Yaw)
	rightX, rightZ := forwardZ, -forwardX

	var dx, dz float64
	switch in.Jump {
	case JumpForward:
		dx, dz = forwardX, forwardZ
	case JumpBack:
		dx, dz = -forwardX, -forwardZ
	case JumpLeft:
		dx, dz = -rightX, -rightZ
	case JumpRight:
		dx, dz = rightX, rightZ
	}

	p.Velocity.X = dx * k.cfg.JumpPower
	p.Velocity.Z = dz * k.cfg.JumpPower
	p.Velocity.Y = k.cfg.JumpPower * 1.5
	p.Grounded = false
}

// stepSkyBand — путь движения в небесной зоне: блоки не мешают,
// единственная проверка — достигнута ли опора нижележащего слоя.
func (k *Kinetics) stepSkyBand(p *Player, candidate vec.Vec3Float) {
	refY := p.Position.Y
	p.Position = candidate

	gh, ok := k.resolver.GroundHeight(candidate.ToColumn(), refY, false)
	if ok && p.Velocity.Y <= 0 && candidate.Y <= gh {
		p.Position.Y = gh
		p.Velocity.Y = 0
		p.Grounded = true
		return
	}
	p.Grounded = false
}

// stepResolved — путь движения с разрешением коллизий по осям X, Z, Y.
func (k *Kinetics) stepResolved(p *Player, candidate vec.Vec3Float) {
	pos := p.Position

	// Ось X
	next := vec.Vec3Float{X: candidate.X, Y: pos.Y, Z: pos.Z}
	if k.resolver.HorizontalBlocked(p.BoxAt(next)) {
		p.Velocity.X = 0
	} else {
		pos.X = candidate.X
	}

	// Ось Z
	next = vec.Vec3Float{X: pos.X, Y: pos.Y, Z: candidate.Z}
	if k.resolver.HorizontalBlocked(p.BoxAt(next)) {
		p.Velocity.Z = 0
	} else {
		pos.Z = candidate.Z
	}

	// Запрет подъёма горизонтальным движением: заземлённый актёр
	// не въезжает на более высокую опору без прыжка
	moved := pos.X != p.Position.X || pos.Z != p.Position.Z
	if moved && p.Grounded && k.resolver.ClimbDenied(p.Position.ToColumn(), pos.ToColumn(), p.Position.Y) {
		pos.X = p.Position.X
		pos.Z = p.Position.Z
		p.Velocity.X = 0
		p.Velocity.Z = 0
	}

	// Ось Y
	oldBox := p.BoxAt(pos)
	newBox := p.BoxAt(vec.Vec3Float{X: pos.X, Y: candidate.Y, Z: pos.Z})
	adjustedY, hitCeiling, landed := k.resolver.ResolveVertical(oldBox, newBox, p.Velocity.Y)

	switch {
	case hitCeiling:
		p.Velocity.Y = 0
		p.Grounded = false
	case landed:
		pos.Y = adjustedY
		p.Velocity.Y = 0
		p.Grounded = true
	default:
		pos.Y = adjustedY
		if p.Velocity.Y != 0 {
			p.Grounded = false
		}
	}

	// Заземлённый и неподвижный по Y актёр мог уехать с края опоры
	if p.Grounded && p.Velocity.Y == 0 {
		gh, ok := k.resolver.GroundHeight(pos.ToColumn(), pos.Y, false)
		if !ok || gh < pos.Y-1e-6 {
			p.Grounded = false
		}
	}

	p.Position = pos
}

// updateCamera пересчитывает позицию камеры от третьего лица:
// позади актёра по направлению взгляда и выше него.
func (k *Kinetics) updateCamera(p *Player) {
	forwardX, forwardZ := math.Sin(p.Yaw), math.Cos(p.Yaw)
	p.CameraPos = vec.Vec3Float{
		X: p.Position.X - forwardX*k.cfg.CameraBack,
		Y: p.Position.Y + k.cfg.CameraHeight,
		Z: p.Position.Z - forwardZ*k.cfg.CameraBack,
	}
}

// ViewDirection возвращает единичный вектор взгляда камеры
// с учётом наклона. Основа луча добычи и строительства.
func (p *Player) ViewDirection() vec.Vec3Float {
	cosPitch := math.Cos(p.Pitch)
	return vec.Vec3Float{
		X: math.Sin(p.Yaw) * cosPitch,
		Y: math.Sin(p.Pitch),
		Z: math.Cos(p.Yaw) * cosPitch,
	}
}

// EyePosition возвращает точку начала луча добычи
func (p *Player) EyePosition() vec.Vec3Float {
	return p.Position.Add(vec.Vec3Float{Y: p.Height * 0.9})
}
