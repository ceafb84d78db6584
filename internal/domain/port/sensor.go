package port

import "prawn-diagnosis/internal/domain/entity"

// SensorSource отдаёт лучшее доступное показание качества воды.
type SensorSource interface {
	// Current не блокируется на вводе-выводе.
	Current() entity.SensorReading
}
