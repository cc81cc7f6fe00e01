package sim

import (
	"math"

	"github.com/annel0/blockfall/internal/vec"
	"github.com/annel0/blockfall/internal/world"
	"github.com/annel0/blockfall/internal/world/block"
)

// mine марширует луч взгляда и разрушает первое препятствие:
// дерево срубается целиком, блок становится Void-дырой с выпадением
// ресурса. Опорный блок под ногами игрока защищён от добычи.
func (e *Engine) mine() bool {
	origin := e.player.EyePosition()
	dir := e.player.ViewDirection()
	step := e.cfg.Physics.RayStep

	var last vec.Vec3
	haveLast := false
	for t := step; t <= e.cfg.Physics.MineRange; t += step {
		cell := origin.Add(dir.Mul(t)).ToVec3()
		if haveLast && cell == last {
			continue
		}
		last, haveLast = cell, true

		if tree, ok := e.store.TreeAt(cell); ok {
			return e.cutTree(tree)
		}
		if e.store.SolidAt(cell) {
			return e.breakBlock(cell)
		}
	}
	return false
}

// cutTree срубает дерево и зачисляет древесину
func (e *Engine) cutTree(tree *world.Tree) bool {
	wood, ok := e.store.CutTree(tree.ID)
	if !ok {
		return false
	}
	e.player.Wood += wood
	e.emit(world.TreeCutEvent{TreeID: tree.ID, Pos: tree.Pos, Wood: wood})
	return true
}

// breakBlock разрушает блок и зачисляет выпавший ресурс
func (e *Engine) breakBlock(cell vec.Vec3) bool {
	if e.supportingCell(cell) {
		// Блок прямо под ногами не добывается
		return false
	}

	b, ok := e.store.BreakBlock(cell)
	if !ok {
		return false
	}

	if behavior, exists := block.Get(b.Kind); exists {
		resource, amount := behavior.Drop()
		switch resource {
		case block.ResourceWood:
			e.player.Wood += amount
		case block.ResourceStone:
			e.player.Stone += amount
		}
	}

	e.emit(world.BlockBrokenEvent{Pos: cell, Layer: b.Layer, Kind: uint16(b.Kind)})
	return true
}

// supportingCell сообщает, служит ли ячейка опорой заземлённого игрока
func (e *Engine) supportingCell(cell vec.Vec3) bool {
	if !e.player.Grounded {
		return false
	}
	if cell.ToColumn() != e.player.Column() {
		return false
	}
	return math.Abs(float64(cell.Y+1)-e.player.Position.Y) < 0.01
}

// build марширует луч взгляда до первого препятствия и ставит
// построенный блок в последнюю свободную ячейку перед ним; если
// препятствия нет, блок встаёт в конце луча. Стоит древесины.
// Установка вплотную к игроку запрещена хранилищем.
func (e *Engine) build() bool {
	if e.player.Wood < plankWoodCost {
		return false
	}

	origin := e.player.EyePosition()
	dir := e.player.ViewDirection()
	step := e.cfg.Physics.RayStep

	var prev vec.Vec3
	havePrev := false
	for t := step; t <= e.cfg.Physics.MineRange; t += step {
		cell := origin.Add(dir.Mul(t)).ToVec3()
		if e.store.SolidAt(cell) {
			if !havePrev {
				return false
			}
			return e.placeAt(prev)
		}
		prev, havePrev = cell, true
	}

	if !havePrev {
		return false
	}
	return e.placeAt(prev)
}

// placeAt ставит блок в ячейку и списывает древесину
func (e *Engine) placeAt(cell vec.Vec3) bool {
	b, ok := e.store.PlaceBlock(cell, block.PlankBlockID, e.player.Position, e.cfg.Physics.PlaceKeepOut)
	if !ok {
		return false
	}
	e.player.Wood -= plankWoodCost
	e.emit(world.BlockPlacedEvent{Pos: cell, Layer: b.Layer, Kind: uint16(b.Kind)})
	return true
}
