package app

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"prawn-diagnosis/internal/domain/entity"
	"prawn-diagnosis/internal/domain/port"
)

// ReportInput всё, что попадает в отчёт.
type ReportInput struct {
	Questionnaire entity.QuestionnaireResponse
	Reading       entity.SensorReading
	Detection     *entity.DetectionResult // nil, если изображения не было
	Narrative     string                  // пусто, если анализа нет
	Verdict       entity.DiagnosisVerdict
}

// ReportAssembler собирает содержимое отчёта и рендерит его.
type ReportAssembler struct {
	renderer port.ReportRenderer
	logger   zerolog.Logger
}

func NewReportAssembler(renderer port.ReportRenderer, logger zerolog.Logger) *ReportAssembler {
	return &ReportAssembler{renderer: renderer, logger: logger}
}

var blankLine = regexp.MustCompile(`\n[ \t\r]*\n`)

// Assemble собирает разделы в фиксированном порядке: ответы, датчик,
// изображение, анализ, рекомендация.
func (a *ReportAssembler) Assemble(in ReportInput) entity.Report {
	report := entity.Report{Title: entity.ReportTitle}

	responses := entity.Section{Kind: entity.SectionResponses, Heading: "User Responses:"}
	for _, item := range in.Questionnaire.Items() {
		responses.Lines = append(responses.Lines,
			fmt.Sprintf("%d) %s => %s", item.Number, item.Text, entity.YesNo(item.Value)))
	}
	report.Sections = append(report.Sections, responses)

	report.Sections = append(report.Sections, entity.Section{
		Kind:    entity.SectionSensor,
		Heading: "IoT Sensor Data:",
		Lines: []string{
			"pH: " + formatNumber(in.Reading.PH),
			"TDS: " + formatNumber(in.Reading.TDS) + " ppm",
			"Temperature: " + formatNumber(in.Reading.Temperature) + "°C",
		},
	})

	if in.Detection != nil {
		image := entity.Section{
			Kind:    entity.SectionImage,
			Heading: "ML Image Analysis:",
			Lines: []string{
				"Classification: " + in.Detection.Classification,
				fmt.Sprintf("Confidence: %.2f%%", in.Detection.Confidence*100),
			},
		}
		if len(in.Detection.Conditions) > 0 {
			image.Lines = append(image.Lines, "Detected issues:")
			for _, cc := range in.Detection.Conditions {
				image.Lines = append(image.Lines, fmt.Sprintf("- %s: %d", cc.Label, cc.Count))
			}
		}
		report.Sections = append(report.Sections, image)
	}

	if paragraphs := SplitParagraphs(in.Narrative); len(paragraphs) > 0 {
		report.Sections = append(report.Sections, entity.Section{
			Kind:       entity.SectionNarrative,
			Heading:    "AI Expert Analysis:",
			Paragraphs: paragraphs,
		})
	}

	diagnosis := entity.Section{Kind: entity.SectionDiagnosis, Heading: "Diagnosis / Recommendation:"}
	if in.Verdict.Findings != "" {
		diagnosis.Paragraphs = append(diagnosis.Paragraphs, in.Verdict.Findings)
	}
	diagnosis.Paragraphs = append(diagnosis.Paragraphs, in.Verdict.Recommendation)
	report.Sections = append(report.Sections, diagnosis)

	return report
}

// Render рендерит отчёт; если не вышло, отдаёт короткий отчёт с извинением.
func (a *ReportAssembler) Render(report entity.Report) ([]byte, error) {
	doc, err := a.renderer.Render(report)
	if err == nil {
		return doc, nil
	}
	a.logger.Warn().Err(err).Msg("detailed report failed, rendering fallback")

	doc, err = a.renderer.Render(entity.FallbackReport())
	if err != nil {
		return nil, fmt.Errorf("render fallback report: %w", err)
	}
	return doc, nil
}

// SplitParagraphs режет текст по пустым строкам, пустые абзацы выбрасывает.
func SplitParagraphs(text string) []string {
	var out []string
	for _, p := range blankLine.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
