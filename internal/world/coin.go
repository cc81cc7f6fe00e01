package world

import (
	"github.com/annel0/blockfall/internal/vec"
)

// Coin представляет собираемую монету. Стражи ссылаются на монету
// по стабильному ID, а не по указателю: удаление монеты не оставляет
// висячих ссылок.
type Coin struct {
	ID        uint64
	Pos       vec.Vec3Float
	Collected bool
	Guardians []uint64 // ID монстров-стражей этой монеты
}

// AddCoin регистрирует монету в хранилище
func (s *Store) AddCoin(pos vec.Vec3Float) *Coin {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &Coin{ID: s.nextCoin, Pos: pos}
	s.nextCoin++
	s.coins[c.ID] = c
	return c
}

// Coin возвращает монету по ID
func (s *Store) Coin(id uint64) (*Coin, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, exists := s.coins[id]
	return c, exists
}

// AttachGuardian привязывает монстра-стража к монете
func (s *Store) AttachGuardian(coinID, monsterID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.coins[coinID]
	if !exists {
		return false
	}
	c.Guardians = append(c.Guardians, monsterID)
	return true
}

// CollectCoin помечает монету собранной. No-op на уже собранной.
func (s *Store) CollectCoin(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.coins[id]
	if !exists || c.Collected {
		return false
	}
	c.Collected = true
	return true
}

// Coins возвращает копию списка монет для презентации
func (s *Store) Coins() []Coin {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Coin, 0, len(s.coins))
	for _, c := range s.coins {
		cp := *c
		cp.Guardians = append([]uint64(nil), c.Guardians...)
		result = append(result, cp)
	}
	return result
}

// UncollectedCoins возвращает копии несобранных монет
func (s *Store) UncollectedCoins() []Coin {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Coin
	for _, c := range s.coins {
		if !c.Collected {
			result = append(result, *c)
		}
	}
	return result
}
