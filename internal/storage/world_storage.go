package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"

	"github.com/annel0/blockfall/internal/logging"
	"github.com/annel0/blockfall/internal/vec"
	"github.com/annel0/blockfall/internal/world"
	"github.com/annel0/blockfall/internal/world/block"
)

// Ключи BadgerDB. Мир хранится одной сжатой дельтой: изменённых
// блоков на порядки меньше, чем сгенерированных.
const (
	keyBlockDeltas = "world:deltas"
	keyTrees       = "world:trees"
	keyCoins       = "world:coins"
	keyProgress    = "player:progress"
)

// WorldStorage — персистентность сессии поверх BadgerDB.
// Сохраняются только отличия от детерминированной генерации:
// дыры, построенные блоки, срубленные деревья, собранные монеты
// и прогресс игрока.
type WorldStorage struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// BlockDelta — одно отличие мира от сгенерированного состояния
type BlockDelta struct {
	Pos   vec.Vec3      `json:"pos"`
	Kind  block.BlockID `json:"kind"`
	State uint8         `json:"state"` // world.BlockState
}

// Progress — сохранённый прогресс игрока и сессии
type Progress struct {
	Health        int    `json:"health"`
	MaxHealth     int    `json:"max_health"`
	AttackDamage  int    `json:"attack_damage"`
	Wood          int    `json:"wood"`
	Stone         int    `json:"stone"`
	Coins         int    `json:"coins"`
	DamageLevel   int    `json:"damage_level"`
	HealthLevel   int    `json:"health_level"`
	SpeedLevel    int    `json:"speed_level"`
	EscapeCharges int    `json:"escape_charges"`
	Kills         uint64 `json:"kills"`
}

// NewWorldStorage открывает хранилище мира
func NewWorldStorage(dataPath string) (*WorldStorage, error) {
	dbPath := filepath.Join(dataPath, "world")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}

	return &WorldStorage{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
		enc:     enc,
		dec:     dec,
	}, nil
}

// Close закрывает хранилище данных
func (ws *WorldStorage) Close() error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	if !ws.isReady {
		return nil
	}
	ws.isReady = false
	ws.enc.Close()
	ws.dec.Close()
	return ws.db.Close()
}

// SaveWorld сохраняет все отличия мира от генерации одной записью.
// Дельта блоков сжимается zstd.
func (ws *WorldStorage) SaveWorld(store *world.Store) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	changed := store.ChangedBlocks()
	deltas := make([]BlockDelta, 0, len(changed))
	for _, b := range changed {
		deltas = append(deltas, BlockDelta{Pos: b.Pos, Kind: b.Kind, State: uint8(b.State)})
	}

	blockData, err := json.Marshal(deltas)
	if err != nil {
		return fmt.Errorf("ошибка сериализации дельты: %w", err)
	}
	compressed := ws.enc.EncodeAll(blockData, nil)

	var cutTrees []uint64
	for _, t := range store.Trees() {
		if t.Cut {
			cutTrees = append(cutTrees, t.ID)
		}
	}
	treeData, err := json.Marshal(cutTrees)
	if err != nil {
		return fmt.Errorf("ошибка сериализации деревьев: %w", err)
	}

	var collected []uint64
	for _, c := range store.Coins() {
		if c.Collected {
			collected = append(collected, c.ID)
		}
	}
	coinData, err := json.Marshal(collected)
	if err != nil {
		return fmt.Errorf("ошибка сериализации монет: %w", err)
	}

	err = ws.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(keyBlockDeltas), compressed); err != nil {
			return err
		}
		if err := txn.Set([]byte(keyTrees), treeData); err != nil {
			return err
		}
		return txn.Set([]byte(keyCoins), coinData)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	logging.Debug("Мир сохранён: дельт=%d, сжато %d→%d байт",
		len(deltas), len(blockData), len(compressed))
	return nil
}

// LoadWorld применяет сохранённые отличия к свежесгенерированному миру
func (ws *WorldStorage) LoadWorld(store *world.Store) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	compressed, found, err := ws.get(keyBlockDeltas)
	if err != nil {
		return err
	}
	if found {
		blockData, err := ws.dec.DecodeAll(compressed, nil)
		if err != nil {
			return fmt.Errorf("ошибка распаковки дельты: %w", err)
		}
		var deltas []BlockDelta
		if err := json.Unmarshal(blockData, &deltas); err != nil {
			return fmt.Errorf("ошибка десериализации дельты: %w", err)
		}
		for _, d := range deltas {
			ws.applyDelta(store, d)
		}
		logging.Debug("Мир восстановлен: дельт=%d", len(deltas))
	}

	treeData, found, err := ws.get(keyTrees)
	if err != nil {
		return err
	}
	if found {
		var cutTrees []uint64
		if err := json.Unmarshal(treeData, &cutTrees); err != nil {
			return fmt.Errorf("ошибка десериализации деревьев: %w", err)
		}
		for _, id := range cutTrees {
			store.CutTree(id)
		}
	}

	coinData, found, err := ws.get(keyCoins)
	if err != nil {
		return err
	}
	if found {
		var collected []uint64
		if err := json.Unmarshal(coinData, &collected); err != nil {
			return fmt.Errorf("ошибка десериализации монет: %w", err)
		}
		for _, id := range collected {
			store.CollectCoin(id)
		}
	}

	return nil
}

// applyDelta воспроизводит одно отличие поверх сгенерированного мира
func (ws *WorldStorage) applyDelta(store *world.Store, d BlockDelta) {
	switch world.BlockState(d.State) {
	case world.BlockVoid:
		store.BreakBlock(d.Pos)
	case world.BlockPlaced:
		// Ячейка могла заново сгенерироваться занятой: сначала дыра,
		// иначе установка откажет и построенный блок потеряется
		if b, ok := store.BlockAt(d.Pos); ok && b.State != world.BlockVoid {
			store.BreakBlock(d.Pos)
		}
		// keepOut=0: ограничение дистанции при восстановлении не действует
		store.PlaceBlock(d.Pos, d.Kind, vec.Vec3Float{X: -1e9}, 0)
	}
}

// SaveProgress сохраняет прогресс игрока
func (ws *WorldStorage) SaveProgress(p Progress) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("ошибка сериализации прогресса: %w", err)
	}
	return ws.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyProgress), data)
	})
}

// LoadProgress возвращает сохранённый прогресс игрока.
// found=false — сохранения ещё нет.
func (ws *WorldStorage) LoadProgress() (Progress, bool, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	var p Progress
	if !ws.isReady {
		return p, false, fmt.Errorf("хранилище не готово")
	}

	data, found, err := ws.get(keyProgress)
	if err != nil || !found {
		return p, false, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, false, fmt.Errorf("ошибка десериализации прогресса: %w", err)
	}
	return p, true, nil
}

// get читает значение ключа; found=false на отсутствующем ключе
func (ws *WorldStorage) get(key string) ([]byte, bool, error) {
	var data []byte
	err := ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}
	return data, true, nil
}
