package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	// NoIssuesClassification классификатор ничего не нашёл.
	NoIssuesClassification = "No issues detected"
	// FailedClassification вызов классификатора не удался.
	FailedClassification = "Error analyzing image"
)

// ClassifyOptions параметры детектора, оба в процентах.
type ClassifyOptions struct {
	Confidence int // минимальная уверенность
	Overlap    int // допустимое перекрытие рамок
}

// DefaultClassifyOptions пороги, под которые настраивали модель.
var DefaultClassifyOptions = ClassifyOptions{Confidence: 40, Overlap: 30}

// Prediction одна находка на изображении.
type Prediction struct {
	Class      string  `json:"class"`      // метка болезни
	Confidence float64 `json:"confidence"` // 0..1
	X          float64 `json:"x"`          // центр рамки X, пиксели
	Y          float64 `json:"y"`          // центр рамки Y, пиксели
	Width      float64 `json:"width"`      // ширина рамки, пиксели
	Height     float64 `json:"height"`     // высота рамки, пиксели
}

// Bounds возвращает левый верхний угол рамки.
func (p Prediction) Bounds() (x, y float64) {
	return p.X - p.Width/2, p.Y - p.Height/2
}

// ConditionCount число находок одной болезни.
type ConditionCount struct {
	Label string
	Count int
}

// ConditionCounts счётчики в порядке первого появления; в JSON
// сериализуется объектом с ключами в том же порядке.
type ConditionCounts []ConditionCount

// Get возвращает счётчик для метки.
func (c ConditionCounts) Get(label string) (int, bool) {
	for _, cc := range c {
		if cc.Label == label {
			return cc.Count, true
		}
	}
	return 0, false
}

func (c ConditionCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cc := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cc.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(cc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *ConditionCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("condition counts: expected object, got %v", tok)
	}

	out := ConditionCounts{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("condition counts: %w", err)
		}
		out = append(out, ConditionCount{Label: keyTok.(string), Count: count})
	}
	*c = out
	return nil
}

// DetectionResult сводка классификатора по изображению.
// nil означает, что изображения не было.
type DetectionResult struct {
	Classification string          `json:"classification"`
	Confidence     float64         `json:"confidence"` // среднее по находкам, 0..1
	DetectedCount  int             `json:"detected_count"`
	Conditions     ConditionCounts `json:"disease_counts"`
	Details        []Prediction    `json:"details"`
	Error          string          `json:"error,omitempty"`
}

// SummarizePredictions сводит предсказания в DetectionResult.
// Основная болезнь самая частая, при равенстве первая встреченная.
func SummarizePredictions(predictions []Prediction) *DetectionResult {
	if len(predictions) == 0 {
		return &DetectionResult{
			Classification: NoIssuesClassification,
			Conditions:     ConditionCounts{},
			Details:        []Prediction{},
		}
	}

	counts := ConditionCounts{}
	index := make(map[string]int)
	var total float64
	for _, p := range predictions {
		total += p.Confidence
		if i, ok := index[p.Class]; ok {
			counts[i].Count++
			continue
		}
		index[p.Class] = len(counts)
		counts = append(counts, ConditionCount{Label: p.Class, Count: 1})
	}

	primary := counts[0]
	for _, cc := range counts[1:] {
		if cc.Count > primary.Count {
			primary = cc
		}
	}

	return &DetectionResult{
		Classification: "Detected: " + primary.Label,
		Confidence:     total / float64(len(predictions)),
		DetectedCount:  len(predictions),
		Conditions:     counts,
		Details:        predictions,
	}
}

// FailedDetection описывает сбой классификатора в виде результата.
func FailedDetection(err error) *DetectionResult {
	return &DetectionResult{
		Classification: FailedClassification,
		Conditions:     ConditionCounts{},
		Details:        []Prediction{},
		Error:          err.Error(),
	}
}
