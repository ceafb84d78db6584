package port

import (
	"context"

	"prawn-diagnosis/internal/domain/entity"
)

// ImageClassifier ищет болезни креветок на изображении.
type ImageClassifier interface {
	// Classify возвращает сводку найденного. Ноль находок это успешный
	// результат с пустым списком.
	Classify(ctx context.Context, imageData []byte, opts entity.ClassifyOptions) (*entity.DetectionResult, error)
}

// ImageNormalizer готовит изображение к классификации.
type ImageNormalizer interface {
	Normalize(imageData []byte) ([]byte, error)
}
