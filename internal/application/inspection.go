package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"prawn-diagnosis/internal/domain/entity"
	"prawn-diagnosis/internal/domain/port"
)

// ErrClassifierNotConfigured классификатор не подключён.
var ErrClassifierNotConfigured = errors.New("image classifier is not configured")

// InspectionService прогоняет изображение через нормализацию и
// классификатор болезней с таймаутом.
type InspectionService struct {
	classifier port.ImageClassifier
	normalizer port.ImageNormalizer
	timeout    time.Duration
	logger     zerolog.Logger
}

// NewInspectionService создаёт сервис; classifier и normalizer могут быть nil.
func NewInspectionService(classifier port.ImageClassifier, normalizer port.ImageNormalizer, timeout time.Duration, logger zerolog.Logger) *InspectionService {
	return &InspectionService{
		classifier: classifier,
		normalizer: normalizer,
		timeout:    timeout,
		logger:     logger,
	}
}

// Classify возвращает результат детекции или причину неудачи.
func (s *InspectionService) Classify(ctx context.Context, imageData []byte, opts entity.ClassifyOptions) (*entity.DetectionResult, error) {
	if s.classifier == nil {
		return nil, ErrClassifierNotConfigured
	}
	if len(imageData) == 0 {
		return nil, errors.New("empty image")
	}

	if s.normalizer != nil {
		normalized, err := s.normalizer.Normalize(imageData)
		if err != nil {
			s.logger.Warn().Err(err).Msg("image normalization failed, sending original")
		} else {
			imageData = normalized
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.classifier.Classify(ctx, imageData, opts)
	if err != nil {
		return nil, fmt.Errorf("classify image: %w", err)
	}
	if result == nil {
		return nil, errors.New("classify image: empty result")
	}
	return result, nil
}

// Inspect не падает: ошибка классификатора попадает в результат.
func (s *InspectionService) Inspect(ctx context.Context, imageData []byte, opts entity.ClassifyOptions) *entity.DetectionResult {
	result, err := s.Classify(ctx, imageData, opts)
	if err != nil {
		s.logger.Warn().Err(err).Msg("image analysis failed")
		return entity.FailedDetection(err)
	}
	return result
}
