package implementations

import (
	"github.com/annel0/blockfall/internal/world/block"
)

// GrassBehavior реализует поведение травяного блока поверхности
type GrassBehavior struct{}

// ID возвращает идентификатор блока
func (b *GrassBehavior) ID() block.BlockID {
	return block.GrassBlockID
}

// Name возвращает имя блока
func (b *GrassBehavior) Name() string {
	return "Grass"
}

// Standable возвращает true, трава — опорный блок
func (b *GrassBehavior) Standable() bool {
	return true
}

// Drop возвращает ресурс при разрушении
func (b *GrassBehavior) Drop() (block.Resource, int) {
	return block.ResourceStone, 1
}

func init() {
	block.Register(block.GrassBlockID, &GrassBehavior{})
}
