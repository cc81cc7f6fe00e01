package sim

import (
	"math"
	"strings"
	"sync"

	"github.com/annel0/blockfall/internal/entity"
)

// Action — каноническое действие игрока. Слой ввода принимает
// строковые алиасы и сводит их к одному значению enum; остальная
// симуляция о строках не знает.
type Action uint8

const (
	ActionNone Action = iota
	ActionForward
	ActionBack
	ActionLeft
	ActionRight
	ActionJumpForward
	ActionJumpBack
	ActionJumpLeft
	ActionJumpRight
	ActionAttack
	ActionMine
	ActionBuild
	ActionHeal
)

var actionNames = map[Action]string{
	ActionNone:        "none",
	ActionForward:     "forward",
	ActionBack:        "back",
	ActionLeft:        "left",
	ActionRight:       "right",
	ActionJumpForward: "jump_forward",
	ActionJumpBack:    "jump_back",
	ActionJumpLeft:    "jump_left",
	ActionJumpRight:   "jump_right",
	ActionAttack:      "attack",
	ActionMine:        "mine",
	ActionBuild:       "build",
	ActionHeal:        "heal",
}

// actionAliases сводит исторические и клавишные имена к каноническим
var actionAliases = map[string]Action{
	"forward": ActionForward, "w": ActionForward, "up": ActionForward, "move_forward": ActionForward,
	"back": ActionBack, "s": ActionBack, "down": ActionBack, "backward": ActionBack, "move_back": ActionBack,
	"left": ActionLeft, "a": ActionLeft, "strafe_left": ActionLeft, "move_left": ActionLeft,
	"right": ActionRight, "d": ActionRight, "strafe_right": ActionRight, "move_right": ActionRight,
	"jump_forward": ActionJumpForward, "jump_w": ActionJumpForward, "leap_forward": ActionJumpForward,
	"jump_back": ActionJumpBack, "jump_s": ActionJumpBack, "leap_back": ActionJumpBack,
	"jump_left": ActionJumpLeft, "jump_a": ActionJumpLeft, "leap_left": ActionJumpLeft,
	"jump_right": ActionJumpRight, "jump_d": ActionJumpRight, "leap_right": ActionJumpRight,
	"attack": ActionAttack, "hit": ActionAttack, "swing": ActionAttack,
	"mine": ActionMine, "dig": ActionMine, "break": ActionMine,
	"build": ActionBuild, "place": ActionBuild, "put": ActionBuild,
	"heal": ActionHeal, "potion": ActionHeal,
}

// ParseAction разрешает строковый алиас в каноническое действие
func ParseAction(name string) (Action, bool) {
	a, ok := actionAliases[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

// String возвращает каноническое имя действия
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// oneShot сообщает, является ли действие дискретным (срабатывает
// один раз на нажатие), а не удерживаемым.
func (a Action) oneShot() bool {
	switch a {
	case ActionForward, ActionBack, ActionLeft, ActionRight:
		return false
	}
	return true
}

const maxPitch = math.Pi/2 - 0.05

// InputState накапливает ввод между тиками. Пишется из любых горутин
// (REST-обработчики), читается один раз за тик движком.
type InputState struct {
	mu      sync.Mutex
	held    map[Action]bool
	pending []Action
	yaw     float64
	pitch   float64
}

// NewInputState создаёт пустое состояние ввода
func NewInputState() *InputState {
	return &InputState{held: make(map[Action]bool)}
}

// Press регистрирует нажатие: удерживаемые действия ставят флаг,
// дискретные встают в очередь до ближайшего тика.
func (s *InputState) Press(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.oneShot() {
		s.pending = append(s.pending, a)
		return
	}
	s.held[a] = true
}

// Release снимает флаг удерживаемого действия
func (s *InputState) Release(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, a)
}

// Look применяет дельту поворота камеры. Наклон ограничен,
// чтобы луч взгляда не выворачивался через зенит.
func (s *InputState) Look(dYaw, dPitch float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.yaw += dYaw
	s.pitch += dPitch
	if s.pitch > maxPitch {
		s.pitch = maxPitch
	}
	if s.pitch < -maxPitch {
		s.pitch = -maxPitch
	}
}

// Consume снимает снимок ввода для одного тика: удерживаемые
// направления, первый отложенный прыжок и очередь дискретных действий.
// Очередь очищается.
func (s *InputState) Consume() (entity.MoveInput, []Action, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := entity.MoveInput{
		Forward: s.held[ActionForward],
		Back:    s.held[ActionBack],
		Left:    s.held[ActionLeft],
		Right:   s.held[ActionRight],
		Yaw:     s.yaw,
	}

	actions := make([]Action, 0, len(s.pending))
	for _, a := range s.pending {
		switch a {
		case ActionJumpForward:
			in.Jump = entity.JumpForward
		case ActionJumpBack:
			in.Jump = entity.JumpBack
		case ActionJumpLeft:
			in.Jump = entity.JumpLeft
		case ActionJumpRight:
			in.Jump = entity.JumpRight
		default:
			actions = append(actions, a)
		}
	}
	s.pending = s.pending[:0]

	return in, actions, s.pitch
}
