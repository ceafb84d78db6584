package entity

// ReportTitle заголовок каждого отчёта.
const ReportTitle = "Prawn Diagnosis Report"

// SectionKind тип раздела отчёта.
type SectionKind string

const (
	SectionResponses SectionKind = "responses" // ответы анкеты
	SectionSensor    SectionKind = "sensor"    // показание датчика
	SectionImage     SectionKind = "image"     // находки классификатора
	SectionNarrative SectionKind = "narrative" // анализ языковой модели
	SectionDiagnosis SectionKind = "diagnosis" // рекомендация по правилу
	SectionNotice    SectionKind = "notice"    // резервное сообщение об ошибке
)

// Section раздел отчёта. Lines выводятся по одной в строке,
// Paragraphs переносятся и разделяются пустой строкой.
type Section struct {
	Kind       SectionKind
	Heading    string
	Lines      []string
	Paragraphs []string
}

// Report содержимое отчёта без привязки к формату.
type Report struct {
	Title    string
	Sections []Section
}

// Kinds возвращает типы разделов по порядку.
func (r Report) Kinds() []SectionKind {
	kinds := make([]SectionKind, len(r.Sections))
	for i, s := range r.Sections {
		kinds[i] = s.Kind
	}
	return kinds
}

// Section возвращает первый раздел указанного типа.
func (r Report) Section(kind SectionKind) (Section, bool) {
	for _, s := range r.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// FallbackReport рендерится, если полный отчёт собрать не удалось.
func FallbackReport() Report {
	return Report{
		Title: ReportTitle,
		Sections: []Section{{
			Kind:  SectionNotice,
			Lines: []string{"Error creating detailed report. Please try again or contact support."},
		}},
	}
}
