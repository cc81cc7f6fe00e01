package eventbus

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NewEnvelope собирает конверт события с UUID и текущим временем.
// payload сериализуется в JSON; ошибка сериализации доменных структур
// невозможна по построению, поэтому конверт уходит с пустой нагрузкой.
func NewEnvelope(source, eventType string, priority int, payload any) *Envelope {
	data, err := json.Marshal(payload)
	if err != nil {
		data = nil
	}
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Version:   1,
		Priority:  priority,
		Payload:   data,
	}
}
