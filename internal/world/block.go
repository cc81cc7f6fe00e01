package world

import (
	"github.com/annel0/blockfall/internal/physics"
	"github.com/annel0/blockfall/internal/vec"
	"github.com/annel0/blockfall/internal/world/block"
)

// BlockState определяет состояние записи блока.
// Разрушение никогда не удаляет запись — блок переходит в Void
// и остаётся постоянной дырой, сохраняя стабильность индекса.
type BlockState uint8

const (
	BlockSolid  BlockState = iota // Сгенерирован миром
	BlockVoid                     // Разрушен, постоянная ловушка
	BlockPlaced                   // Построен игроком
)

// String возвращает строковое представление состояния
func (s BlockState) String() string {
	switch s {
	case BlockSolid:
		return "solid"
	case BlockVoid:
		return "void"
	case BlockPlaced:
		return "placed"
	default:
		return "unknown"
	}
}

// Block представляет запись блока: ячейка сетки, слой, тип и состояние
type Block struct {
	Pos   vec.Vec3
	Layer LayerID
	Kind  block.BlockID
	State BlockState
}

// Box возвращает AABB ячейки блока
func (b *Block) Box() physics.AABB {
	return physics.CellBox(b.Pos)
}

// Top возвращает высоту верхней грани блока
func (b *Block) Top() float64 {
	return float64(b.Pos.Y) + 1
}

// Collidable сообщает, участвует ли блок в коллизиях и запросах опоры.
// Void-блоки исключены всегда, независимо от поведения типа.
func (b *Block) Collidable() bool {
	if b.State == BlockVoid {
		return false
	}
	behavior, exists := block.Get(b.Kind)
	if !exists {
		return false
	}
	return behavior.Standable()
}
