package block

// Resource представляет вид ресурса, выпадающего при добыче
type Resource uint8

const (
	ResourceNone Resource = iota
	ResourceWood
	ResourceStone
)

// BlockBehavior определяет свойства типа блока
type BlockBehavior interface {
	ID() BlockID
	Name() string

	// Standable сообщает, служит ли блок опорой и препятствием.
	// Блоки в состоянии Void исключаются из запросов раньше,
	// до обращения к поведению.
	Standable() bool

	// Drop возвращает ресурс и количество, выдаваемые при разрушении
	Drop() (Resource, int)
}
