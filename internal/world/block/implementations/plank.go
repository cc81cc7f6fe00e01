package implementations

import (
	"github.com/annel0/blockfall/internal/world/block"
)

// PlankBehavior реализует поведение построенного игроком блока
type PlankBehavior struct{}

// ID возвращает идентификатор блока
func (b *PlankBehavior) ID() block.BlockID {
	return block.PlankBlockID
}

// Name возвращает имя блока
func (b *PlankBehavior) Name() string {
	return "Plank"
}

// Standable возвращает true, построенный блок — полноценная опора
func (b *PlankBehavior) Standable() bool {
	return true
}

// Drop возвращает ресурс при разрушении
func (b *PlankBehavior) Drop() (block.Resource, int) {
	return block.ResourceWood, 1
}

func init() {
	block.Register(block.PlankBlockID, &PlankBehavior{})
}
