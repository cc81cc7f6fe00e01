package world

import (
	"math"
	"sync"

	"github.com/annel0/blockfall/internal/physics"
	"github.com/annel0/blockfall/internal/vec"
	"github.com/annel0/blockfall/internal/world/block"
)

// Store владеет всеми записями блоков мира, деревьями и монетами.
// Все мутации идут через единственный владелец тика (sim.Engine);
// RWMutex нужен только для конкурентных читателей (REST API).
type Store struct {
	mu      sync.RWMutex
	blocks  map[vec.Vec3]*Block
	columns map[vec.Vec2][]*Block // Отсортированы по возрастанию Y
	layers  *LayerRegistry

	trees     map[uint64]*Tree
	coins     map[uint64]*Coin
	nextTree  uint64
	nextCoin  uint64
	broken    uint64 // Счётчик разрушенных блоков
	placedCnt uint64 // Счётчик построенных блоков
}

// NewStore создаёт пустое хранилище мира с указанными слоями
func NewStore(layers *LayerRegistry) *Store {
	return &Store{
		blocks:   make(map[vec.Vec3]*Block),
		columns:  make(map[vec.Vec2][]*Block),
		layers:   layers,
		trees:    make(map[uint64]*Tree),
		coins:    make(map[uint64]*Coin),
		nextTree: 1,
		nextCoin: 1,
	}
}

// Layers возвращает регистр слоёв
func (s *Store) Layers() *LayerRegistry {
	return s.layers
}

// SetBlock создаёт или заменяет запись блока в состоянии Solid.
// Используется генератором мира.
func (s *Store) SetBlock(pos vec.Vec3, layer LayerID, kind block.BlockID) *Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, exists := s.blocks[pos]
	if exists {
		b.Kind = kind
		b.Layer = layer
		b.State = BlockSolid
		return b
	}

	b = &Block{Pos: pos, Layer: layer, Kind: kind, State: BlockSolid}
	s.blocks[pos] = b
	s.insertIntoColumn(b)
	return b
}

// BlockAt возвращает запись блока в ячейке (включая Void)
func (s *Store) BlockAt(pos vec.Vec3) (*Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, exists := s.blocks[pos]
	return b, exists
}

// SolidAt сообщает, занята ли ячейка опорным блоком
func (s *Store) SolidAt(pos vec.Vec3) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, exists := s.blocks[pos]
	return exists && b.Collidable()
}

// QueryOverlapping возвращает Solid/Placed блоки, пересекающие бокс.
// Void-блоки никогда не попадают в результат.
func (s *Store) QueryOverlapping(box physics.AABB) []*Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Block
	minX, maxX := int(math.Floor(box.MinX)), int(math.Ceil(box.MaxX))-1
	minY, maxY := int(math.Floor(box.MinY)), int(math.Ceil(box.MaxY))-1
	minZ, maxZ := int(math.Floor(box.MinZ)), int(math.Ceil(box.MaxZ))-1

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				b, exists := s.blocks[vec.Vec3{X: x, Y: y, Z: z}]
				if !exists || !b.Collidable() {
					continue
				}
				if b.Box().Intersects(box) {
					result = append(result, b)
				}
			}
		}
	}
	return result
}

// SolidOverlapping возвращает боксы опорных блоков, пересекающих бокс.
// Реализация physics.BlockSource.
func (s *Store) SolidOverlapping(box physics.AABB) []physics.AABB {
	blocks := s.QueryOverlapping(box)
	result := make([]physics.AABB, 0, len(blocks))
	for _, b := range blocks {
		result = append(result, b.Box())
	}
	return result
}

// VoidOverlapping сообщает, пересекает ли бокс хотя бы один Void-блок.
// Основа детектора пустотной ловушки.
func (s *Store) VoidOverlapping(box physics.AABB) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	minX, maxX := int(math.Floor(box.MinX)), int(math.Ceil(box.MaxX))-1
	minY, maxY := int(math.Floor(box.MinY)), int(math.Ceil(box.MaxY))-1
	minZ, maxZ := int(math.Floor(box.MinZ)), int(math.Ceil(box.MaxZ))-1

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				b, exists := s.blocks[vec.Vec3{X: x, Y: y, Z: z}]
				if exists && b.State == BlockVoid && b.Box().Intersects(box) {
					return true
				}
			}
		}
	}
	return false
}

// BreakBlock переводит Solid/Placed блок в состояние Void.
// Возвращает запись и true при успехе; no-op на уже разрушенном блоке.
func (s *Store) BreakBlock(pos vec.Vec3) (*Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, exists := s.blocks[pos]
	if !exists || b.State == BlockVoid {
		return nil, false
	}

	b.State = BlockVoid
	s.broken++
	return b, true
}

// PlaceBlock устанавливает построенный блок в ячейку.
// Отказ: ячейка занята Solid/Placed блоком либо находится ближе
// keepOut к позиции строящего актёра. Void-ячейка заполняется заново —
// результат отличим от сгенерированного блока только состоянием Placed.
func (s *Store) PlaceBlock(pos vec.Vec3, kind block.BlockID, origin vec.Vec3Float, keepOut float64) (*Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	center := vec.Vec3Float{X: float64(pos.X) + 0.5, Y: float64(pos.Y) + 0.5, Z: float64(pos.Z) + 0.5}
	if center.DistanceTo(origin.Add(vec.Vec3Float{Y: 0.9})) < keepOut {
		return nil, false
	}

	b, exists := s.blocks[pos]
	if exists {
		if b.State != BlockVoid {
			return nil, false
		}
		// Заполняем дыру заново
		b.Kind = kind
		b.State = BlockPlaced
		s.placedCnt++
		return b, true
	}

	layer, ok := s.layers.NearestBelow(float64(pos.Y))
	if !ok && len(s.layers.Layers()) > 0 {
		layer = s.layers.Layers()[0]
	}

	b = &Block{Pos: pos, Layer: layer.ID, Kind: kind, State: BlockPlaced}
	s.blocks[pos] = b
	s.insertIntoColumn(b)
	s.placedCnt++
	return b, true
}

// GroundTop возвращает высоту самой высокой опорной грани в колонке,
// не превышающую cap. ok=false — под точкой открытый воздух.
func (s *Store) GroundTop(col vec.Vec2, cap float64) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	column, exists := s.columns[col]
	if !exists {
		return 0, false
	}

	// Колонка отсортирована по возрастанию Y: идём сверху вниз
	for i := len(column) - 1; i >= 0; i-- {
		b := column[i]
		if !b.Collidable() {
			continue
		}
		if top := b.Top(); top <= cap {
			return top, true
		}
	}
	return 0, false
}

// Stats возвращает счётчики мутаций мира
func (s *Store) Stats() (blocks int, broken, placed uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blocks), s.broken, s.placedCnt
}

// ChangedBlocks возвращает все блоки, отличающиеся от сгенерированного
// состояния (Void-дыры и построенные блоки). Используется персистентностью.
func (s *Store) ChangedBlocks() []*Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Block
	for _, b := range s.blocks {
		if b.State != BlockSolid {
			result = append(result, b)
		}
	}
	return result
}

// insertIntoColumn вставляет блок в колонку с сохранением сортировки.
// Вызывается под write lock.
func (s *Store) insertIntoColumn(b *Block) {
	col := b.Pos.ToColumn()
	column := s.columns[col]

	idx := len(column)
	for i, other := range column {
		if other.Pos.Y > b.Pos.Y {
			idx = i
			break
		}
	}

	column = append(column, nil)
	copy(column[idx+1:], column[idx:])
	column[idx] = b
	s.columns[col] = column
}
