package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"prawn-diagnosis/internal/domain/entity"
	"prawn-diagnosis/internal/domain/port"
)

// Placeholder заменяет символы, которых нет в базовых шрифтах PDF.
const Placeholder = '?'

const (
	fontFamily   = "Arial"
	titleSize    = 14
	bodySize     = 12
	headingLineH = 10
	bodyLineH    = 8
	sectionGap   = 5
)

// Renderer рисует отчёт в PDF формата A4.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render рисует отчёт. Паника внутри fpdf возвращается как ошибка.
func (r *Renderer) Render(report entity.Report) (doc []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("render report: %v", rec)
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Encode(report.Title), false)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "", titleSize)
	pdf.CellFormat(0, headingLineH, Encode(report.Title), "", 1, "C", false, 0, "")
	pdf.Ln(sectionGap)

	for _, section := range report.Sections {
		if section.Heading != "" {
			pdf.SetFont(fontFamily, "B", bodySize)
			pdf.CellFormat(0, headingLineH, Encode(section.Heading), "", 1, "L", false, 0, "")
		}

		pdf.SetFont(fontFamily, "", bodySize)
		for _, line := range section.Lines {
			pdf.CellFormat(0, bodyLineH, Encode(line), "", 1, "L", false, 0, "")
		}
		for i, paragraph := range section.Paragraphs {
			if i > 0 {
				pdf.Ln(bodyLineH)
			}
			pdf.MultiCell(0, bodyLineH, Encode(paragraph), "", "L", false)
		}
		pdf.Ln(sectionGap)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode переводит текст в Windows-1252 для базовых шрифтов,
// остальное заменяется на Placeholder.
func Encode(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte(Placeholder)
	}
	return b.String()
}

var _ port.ReportRenderer = (*Renderer)(nil)
