package entity

// DiagnosisVerdict итог оценки по правилу.
type DiagnosisVerdict struct {
	Score          int    // ответы «да» минус штраф за pH, без обрезки
	Good           bool   // балл достиг порога
	Recommendation string // один из двух фиксированных текстов
	Findings       string // описание находок, пусто без изображения
}

// NarrativeUnavailable подставляется, если языковая модель не ответила.
const NarrativeUnavailable = "AI analysis unavailable. Please consult with an aquaculture specialist."
