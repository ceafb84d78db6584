package port

import "prawn-diagnosis/internal/domain/entity"

// ReportRenderer превращает отчёт в документ.
type ReportRenderer interface {
	Render(report entity.Report) ([]byte, error)
}
