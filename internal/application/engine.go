package app

import (
	"fmt"
	"strings"

	"prawn-diagnosis/internal/domain/entity"
)

const (
	// GoodThreshold минимальный балл для вердикта «всё хорошо».
	GoodThreshold = 7
	// PHMin и PHMax границы нормального pH включительно.
	PHMin = 7.0
	PHMax = 9.0

	RecommendationGood = "Overall conditions appear to be good. " +
		"Continue monitoring feeding and water parameters regularly."
	RecommendationAttention = "Some parameters may need attention. Verify feeding, check for possible disease signs, " +
		"and ensure water quality is within proper ranges."
)

// EngineConfig параметры правила оценки.
type EngineConfig struct {
	GoodThreshold int
	PHMin         float64
	PHMax         float64
}

// DefaultEngineConfig стандартные параметры оценки.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{GoodThreshold: GoodThreshold, PHMin: PHMin, PHMax: PHMax}
}

// DiagnosisEngine оценивает ответы анкеты и качество воды.
// Без состояния: одинаковые входы дают одинаковый вердикт.
type DiagnosisEngine struct {
	cfg EngineConfig
}

func NewDiagnosisEngine(cfg EngineConfig) *DiagnosisEngine {
	return &DiagnosisEngine{cfg: cfg}
}

// Evaluate выносит вердикт. detection может быть nil.
func (e *DiagnosisEngine) Evaluate(q entity.QuestionnaireResponse, reading entity.SensorReading, detection *entity.DetectionResult) entity.DiagnosisVerdict {
	score := e.Score(q, reading)
	good := score >= e.cfg.GoodThreshold

	recommendation := RecommendationAttention
	if good {
		recommendation = RecommendationGood
	}

	return entity.DiagnosisVerdict{
		Score:          score,
		Good:           good,
		Recommendation: recommendation,
		Findings:       NarrateDetection(detection),
	}
}

// Score считает ответы «да» и вычитает единицу, если pH вне нормы.
func (e *DiagnosisEngine) Score(q entity.QuestionnaireResponse, reading entity.SensorReading) int {
	score := q.YesCount()
	if !e.PHInRange(reading.PH) {
		score--
	}
	return score
}

// PHInRange проверяет, что pH в норме.
func (e *DiagnosisEngine) PHInRange(ph float64) bool {
	return ph >= e.cfg.PHMin && ph <= e.cfg.PHMax
}

// NarrateDetection описывает находки на изображении одной строкой.
func NarrateDetection(detection *entity.DetectionResult) string {
	if detection == nil {
		return ""
	}
	if len(detection.Conditions) == 0 {
		return fmt.Sprintf("%s (Conf. %.2f)", detection.Classification, detection.Confidence)
	}

	parts := make([]string, len(detection.Conditions))
	for i, cc := range detection.Conditions {
		parts[i] = fmt.Sprintf("%s (x%d)", cc.Label, cc.Count)
	}
	return strings.Join(parts, ", ")
}
