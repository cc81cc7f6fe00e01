package world

import (
	"github.com/annel0/blockfall/internal/vec"
)

// Tree представляет ресурсное дерево: срубается один раз,
// запись сохраняется с флагом Cut — тот же приём, что у Void-блоков.
type Tree struct {
	ID   uint64
	Pos  vec.Vec3 // Ячейка основания ствола
	Wood int      // Количество древесины при срубе
	Cut  bool
}

// AddTree регистрирует дерево в хранилище
func (s *Store) AddTree(pos vec.Vec3, wood int) *Tree {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &Tree{ID: s.nextTree, Pos: pos, Wood: wood}
	s.nextTree++
	s.trees[t.ID] = t
	return t
}

// TreeAt возвращает несрубленное дерево, занимающее ячейку ствола
// (две ячейки в высоту от основания).
func (s *Store) TreeAt(cell vec.Vec3) (*Tree, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.trees {
		if t.Cut {
			continue
		}
		if cell.X == t.Pos.X && cell.Z == t.Pos.Z && (cell.Y == t.Pos.Y || cell.Y == t.Pos.Y+1) {
			return t, true
		}
	}
	return nil, false
}

// CutTree срубает дерево и возвращает добытую древесину.
// No-op на уже срубленном дереве.
func (s *Store) CutTree(id uint64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.trees[id]
	if !exists || t.Cut {
		return 0, false
	}
	t.Cut = true
	return t.Wood, true
}

// Trees возвращает копию списка деревьев для презентации
func (s *Store) Trees() []Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Tree, 0, len(s.trees))
	for _, t := range s.trees {
		result = append(result, *t)
	}
	return result
}
