package port

import (
	"context"

	"prawn-diagnosis/internal/domain/entity"
)

// AlertNotifier доставляет отчёты, требующие внимания фермера.
type AlertNotifier interface {
	NotifyAttention(ctx context.Context, verdict entity.DiagnosisVerdict, document []byte) error
}
