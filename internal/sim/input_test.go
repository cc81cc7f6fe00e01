package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/blockfall/internal/entity"
)

func TestParseActionAliases(t *testing.T) {
	cases := map[string]Action{
		"forward":      ActionForward,
		"w":            ActionForward,
		"move_forward": ActionForward,
		"  W  ":        ActionForward, // Регистр и пробелы не важны
		"dig":          ActionMine,
		"break":        ActionMine,
		"place":        ActionBuild,
		"swing":        ActionAttack,
		"jump_d":       ActionJumpRight,
		"potion":       ActionHeal,
	}
	for name, want := range cases {
		got, ok := ParseAction(name)
		require.True(t, ok, "Алиас %q должен разрешаться", name)
		assert.Equal(t, want, got, "Алиас %q", name)
	}

	_, ok := ParseAction("fly")
	assert.False(t, ok, "Неизвестный алиас отклоняется")
}

func TestHeldActionsPersist(t *testing.T) {
	s := NewInputState()
	s.Press(ActionForward)
	s.Press(ActionLeft)

	in, actions, _ := s.Consume()
	assert.True(t, in.Forward)
	assert.True(t, in.Left)
	assert.Empty(t, actions)

	// Удерживаемые направления переживают тик
	in, _, _ = s.Consume()
	assert.True(t, in.Forward, "Флаг держится до Release")

	s.Release(ActionForward)
	in, _, _ = s.Consume()
	assert.False(t, in.Forward)
	assert.True(t, in.Left)
}

func TestOneShotActionsQueue(t *testing.T) {
	s := NewInputState()
	s.Press(ActionMine)
	s.Press(ActionAttack)
	s.Press(ActionJumpLeft)

	in, actions, _ := s.Consume()
	assert.Equal(t, entity.JumpLeft, in.Jump, "Прыжок уходит в ввод движения")
	assert.Equal(t, []Action{ActionMine, ActionAttack}, actions,
		"Дискретные действия сохраняют порядок нажатий")

	// Очередь опустошена: второй тик ничего не получает
	in, actions, _ = s.Consume()
	assert.Equal(t, entity.JumpNone, in.Jump)
	assert.Empty(t, actions)
}

func TestLookClampsPitch(t *testing.T) {
	s := NewInputState()
	s.Look(1.5, 10.0)

	in, _, pitch := s.Consume()
	assert.InDelta(t, 1.5, in.Yaw, 1e-9)
	assert.InDelta(t, maxPitch, pitch, 1e-9, "Наклон ограничен сверху")

	s.Look(0, -100.0)
	_, _, pitch = s.Consume()
	assert.InDelta(t, -maxPitch, pitch, 1e-9, "Наклон ограничен снизу")

	// Yaw не ограничен: накапливается свободно
	s.Look(10.0, 0)
	in, _, _ = s.Consume()
	assert.InDelta(t, 11.5, in.Yaw, 1e-9)
}
