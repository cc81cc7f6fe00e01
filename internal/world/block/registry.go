package block

var registry = make(map[BlockID]BlockBehavior)

// Register добавляет поведение блока в регистр
func Register(id BlockID, behavior BlockBehavior) {
	registry[id] = behavior
}

// Get возвращает поведение для указанного ID
func Get(id BlockID) (BlockBehavior, bool) {
	behavior, exists := registry[id]
	return behavior, exists
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	_, exists := registry[id]
	return exists
}

// BlockID представляет идентификатор типа блока
type BlockID uint16

// Константы ID блоков
const (
	// Базовые типы блоков поверхности
	GrassBlockID BlockID = iota // 0
	StoneBlockID                // 1
	DirtBlockID                 // 2

	// Строительные блоки (начиная со 100)
	PlankBlockID BlockID = 100 // Блок, устанавливаемый игроком
)
