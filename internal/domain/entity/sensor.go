package entity

// SensorReading один замер качества воды в пруду.
type SensorReading struct {
	PH          float64 `json:"pH"`          // кислотность
	TDS         float64 `json:"tds"`         // растворённые вещества, ppm
	Temperature float64 `json:"temperature"` // температура воды, °C
}

// FallbackReading отдаётся, пока датчик не прислал первую валидную строку.
var FallbackReading = SensorReading{
	PH:          8.1,
	TDS:         1200,
	Temperature: 28.5,
}
