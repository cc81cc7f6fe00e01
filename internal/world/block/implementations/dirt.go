package implementations

import (
	"github.com/annel0/blockfall/internal/world/block"
)

// DirtBehavior реализует поведение блока земли
type DirtBehavior struct{}

// ID возвращает идентификатор блока
func (b *DirtBehavior) ID() block.BlockID {
	return block.DirtBlockID
}

// Name возвращает имя блока
func (b *DirtBehavior) Name() string {
	return "Dirt"
}

// Standable возвращает true, земля — опорный блок
func (b *DirtBehavior) Standable() bool {
	return true
}

// Drop возвращает ресурс при разрушении
func (b *DirtBehavior) Drop() (block.Resource, int) {
	return block.ResourceStone, 1
}

func init() {
	block.Register(block.DirtBlockID, &DirtBehavior{})
}
