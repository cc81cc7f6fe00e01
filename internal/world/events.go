package world

import (
	"github.com/annel0/blockfall/internal/vec"
)

// EventType определяет тип дискретного события симуляции.
// Значения используются как subject-суффиксы шины событий.
type EventType string

const (
	EventBlockBroken   EventType = "block_broken"
	EventBlockPlaced   EventType = "block_placed"
	EventTreeCut       EventType = "tree_cut"
	EventCoinCollected EventType = "coin_collected"
	EventMonsterSpawn  EventType = "monster_spawned"
	EventMonsterKilled EventType = "monster_killed"
	EventPlayerDamaged EventType = "player_damaged"
	EventPlayerHealed  EventType = "player_healed"
	EventPlayerDied    EventType = "player_died"
)

// Event представляет собой интерфейс для всех событий симуляции
type Event interface {
	Type() EventType
}

// BlockBrokenEvent — блок разрушен и стал Void-дырой
type BlockBrokenEvent struct {
	Pos   vec.Vec3 `json:"pos"`
	Layer LayerID  `json:"layer"`
	Kind  uint16   `json:"kind"`
}

// Type возвращает тип события
func (e BlockBrokenEvent) Type() EventType { return EventBlockBroken }

// BlockPlacedEvent — игрок построил блок
type BlockPlacedEvent struct {
	Pos   vec.Vec3 `json:"pos"`
	Layer LayerID  `json:"layer"`
	Kind  uint16   `json:"kind"`
}

// Type возвращает тип события
func (e BlockPlacedEvent) Type() EventType { return EventBlockPlaced }

// TreeCutEvent — дерево срублено
type TreeCutEvent struct {
	TreeID uint64   `json:"tree_id"`
	Pos    vec.Vec3 `json:"pos"`
	Wood   int      `json:"wood"`
}

// Type возвращает тип события
func (e TreeCutEvent) Type() EventType { return EventTreeCut }

// CoinCollectedEvent — монета собрана игроком
type CoinCollectedEvent struct {
	CoinID uint64        `json:"coin_id"`
	Pos    vec.Vec3Float `json:"pos"`
}

// Type возвращает тип события
func (e CoinCollectedEvent) Type() EventType { return EventCoinCollected }

// MonsterSpawnedEvent — появился монстр
type MonsterSpawnedEvent struct {
	MonsterID uint64        `json:"monster_id"`
	Level     int           `json:"level"`
	Pos       vec.Vec3Float `json:"pos"`
	Guardian  bool          `json:"guardian"`
}

// Type возвращает тип события
func (e MonsterSpawnedEvent) Type() EventType { return EventMonsterSpawn }

// MonsterKilledEvent — монстр убит, счётчик убийств увеличен
type MonsterKilledEvent struct {
	MonsterID uint64 `json:"monster_id"`
	Level     int    `json:"level"`
	Kills     uint64 `json:"kills"` // Суммарные убийства после этого
}

// Type возвращает тип события
func (e MonsterKilledEvent) Type() EventType { return EventMonsterKilled }

// PlayerDamagedEvent — игрок получил урон
type PlayerDamagedEvent struct {
	Damage int `json:"damage"`
	Health int `json:"health"` // Оставшееся здоровье
}

// Type возвращает тип события
func (e PlayerDamagedEvent) Type() EventType { return EventPlayerDamaged }

// PlayerHealedEvent — игрок восстановил здоровье
type PlayerHealedEvent struct {
	Amount int `json:"amount"`
	Health int `json:"health"`
}

// Type возвращает тип события
func (e PlayerHealedEvent) Type() EventType { return EventPlayerHealed }

// PlayerDiedEvent — здоровье игрока достигло нуля, сессия завершена
type PlayerDiedEvent struct {
	Tick uint64 `json:"tick"`
}

// Type возвращает тип события
func (e PlayerDiedEvent) Type() EventType { return EventPlayerDied }
