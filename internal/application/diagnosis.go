package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"prawn-diagnosis/internal/domain/entity"
	"prawn-diagnosis/internal/domain/port"
)

const notifyTimeout = 30 * time.Second

// DiagnosisRequest анкета и необязательное изображение.
type DiagnosisRequest struct {
	Questionnaire entity.QuestionnaireResponse
	Image         []byte // nil, если изображение не загружали
}

// DiagnosisOutput результат диагностики.
type DiagnosisOutput struct {
	Reading   entity.SensorReading
	Detection *entity.DetectionResult
	Verdict   entity.DiagnosisVerdict
	Report    entity.Report
	Document  []byte
}

// DiagnosisService выполняет диагностику одного запроса.
type DiagnosisService struct {
	sensors   port.SensorSource
	inspector *InspectionService
	engine    *DiagnosisEngine
	narrator  port.NarrativeGenerator
	assembler *ReportAssembler
	notifier  port.AlertNotifier

	narrativeTimeout time.Duration
	logger           zerolog.Logger

	alerts sync.WaitGroup
}

// DiagnosisDeps зависимости DiagnosisService. Narrator и Notifier
// необязательны.
type DiagnosisDeps struct {
	Sensors          port.SensorSource
	Inspector        *InspectionService
	Engine           *DiagnosisEngine
	Narrator         port.NarrativeGenerator
	Assembler        *ReportAssembler
	Notifier         port.AlertNotifier
	NarrativeTimeout time.Duration
	Logger           zerolog.Logger
}

func NewDiagnosisService(deps DiagnosisDeps) *DiagnosisService {
	return &DiagnosisService{
		sensors:          deps.Sensors,
		inspector:        deps.Inspector,
		engine:           deps.Engine,
		narrator:         deps.Narrator,
		assembler:        deps.Assembler,
		notifier:         deps.Notifier,
		narrativeTimeout: deps.NarrativeTimeout,
		logger:           deps.Logger,
	}
}

// Diagnose оценивает запрос и рендерит отчёт. Сбой классификатора или
// модели урезает отчёт, но не ломает запрос.
func (s *DiagnosisService) Diagnose(ctx context.Context, req DiagnosisRequest) (*DiagnosisOutput, error) {
	logger := s.loggerFrom(ctx)
	reading := s.sensors.Current()

	var detection *entity.DetectionResult
	if len(req.Image) > 0 && s.inspector != nil {
		res, err := s.inspector.Classify(ctx, req.Image, entity.DefaultClassifyOptions)
		if err != nil {
			logger.Warn().Err(err).Msg("image analysis failed, continuing without it")
		} else {
			detection = res
		}
	}

	verdict := s.engine.Evaluate(req.Questionnaire, reading, detection)
	narrative := s.narrative(ctx, req.Questionnaire, reading, detection)

	report := s.assembler.Assemble(ReportInput{
		Questionnaire: req.Questionnaire,
		Reading:       reading,
		Detection:     detection,
		Narrative:     narrative,
		Verdict:       verdict,
	})
	doc, err := s.assembler.Render(report)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("score", verdict.Score).
		Bool("good", verdict.Good).
		Bool("image", detection != nil).
		Msg("diagnosis completed")

	if !verdict.Good {
		s.notify(ctx, verdict, doc)
	}

	return &DiagnosisOutput{
		Reading:   reading,
		Detection: detection,
		Verdict:   verdict,
		Report:    report,
		Document:  doc,
	}, nil
}

func (s *DiagnosisService) narrative(ctx context.Context, q entity.QuestionnaireResponse, reading entity.SensorReading, detection *entity.DetectionResult) string {
	if s.narrator == nil {
		return ""
	}
	if s.narrativeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.narrativeTimeout)
		defer cancel()
	}

	text, err := s.narrator.Generate(ctx, q, reading, detection)
	if err != nil {
		s.loggerFrom(ctx).Warn().Err(err).Msg("narrative generation failed")
		return entity.NarrativeUnavailable
	}
	return text
}

// notify отправляет оповещение в фоне, не задерживая ответ.
func (s *DiagnosisService) notify(ctx context.Context, verdict entity.DiagnosisVerdict, doc []byte) {
	if s.notifier == nil {
		return
	}
	logger := s.loggerFrom(ctx)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	s.alerts.Add(1)
	go func() {
		defer s.alerts.Done()
		defer cancel()
		if err := s.notifier.NotifyAttention(ctx, verdict, doc); err != nil {
			logger.Warn().Err(err).Msg("attention alert not delivered")
		}
	}()
}

// Shutdown ждёт отправки оповещений или отмены ctx.
func (s *DiagnosisService) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.alerts.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// loggerFrom берёт логгер запроса из контекста, если он есть.
func (s *DiagnosisService) loggerFrom(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}
