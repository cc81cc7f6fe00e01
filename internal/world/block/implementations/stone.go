package implementations

import (
	"github.com/annel0/blockfall/internal/world/block"
)

// StoneBehavior реализует поведение блока камня
type StoneBehavior struct{}

// ID возвращает идентификатор блока
func (b *StoneBehavior) ID() block.BlockID {
	return block.StoneBlockID
}

// Name возвращает имя блока
func (b *StoneBehavior) Name() string {
	return "Stone"
}

// Standable возвращает true, камень — опорный блок
func (b *StoneBehavior) Standable() bool {
	return true
}

// Drop возвращает ресурс при разрушении
func (b *StoneBehavior) Drop() (block.Resource, int) {
	return block.ResourceStone, 2
}

func init() {
	block.Register(block.StoneBlockID, &StoneBehavior{})
}
