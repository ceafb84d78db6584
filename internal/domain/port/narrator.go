package port

import (
	"context"

	"prawn-diagnosis/internal/domain/entity"
)

// NarrativeGenerator пишет экспертный анализ свободным текстом.
type NarrativeGenerator interface {
	// Generate возвращает текст анализа. detection может быть nil.
	Generate(ctx context.Context, q entity.QuestionnaireResponse, reading entity.SensorReading, detection *entity.DetectionResult) (string, error)
}
