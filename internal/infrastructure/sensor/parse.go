package sensor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"prawn-diagnosis/internal/domain/entity"
)

// ParseLine разбирает строку датчика вида "pH,TDS,temperature".
func ParseLine(line string) (entity.SensorReading, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 3 {
		return entity.SensorReading{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	var values [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return entity.SensorReading{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return entity.SensorReading{}, fmt.Errorf("field %d: not a finite number", i+1)
		}
		values[i] = v
	}

	return entity.SensorReading{PH: values[0], TDS: values[1], Temperature: values[2]}, nil
}
