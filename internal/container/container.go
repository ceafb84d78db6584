package container

import (
	"time"

	"github.com/rs/zerolog"

	app "prawn-diagnosis/internal/application"
	"prawn-diagnosis/internal/domain/port"
)

type Container struct {
	DiagnosisService  *app.DiagnosisService
	InspectionService *app.InspectionService
	Sensors           port.SensorSource
}

// Deps адаптеры для сервисов приложения. Classifier, Normalizer,
// Narrator и Notifier могут быть nil.
type Deps struct {
	Sensors    port.SensorSource
	Classifier port.ImageClassifier
	Normalizer port.ImageNormalizer
	Narrator   port.NarrativeGenerator
	Renderer   port.ReportRenderer
	Notifier   port.AlertNotifier

	Engine            app.EngineConfig
	ClassifierTimeout time.Duration
	NarrativeTimeout  time.Duration
	Logger            zerolog.Logger
}

func New(deps Deps) *Container {
	inspectionService := app.NewInspectionService(deps.Classifier, deps.Normalizer, deps.ClassifierTimeout, deps.Logger)

	diagnosisService := app.NewDiagnosisService(app.DiagnosisDeps{
		Sensors:          deps.Sensors,
		Inspector:        inspectionService,
		Engine:           app.NewDiagnosisEngine(deps.Engine),
		Narrator:         deps.Narrator,
		Assembler:        app.NewReportAssembler(deps.Renderer, deps.Logger),
		Notifier:         deps.Notifier,
		NarrativeTimeout: deps.NarrativeTimeout,
		Logger:           deps.Logger,
	})

	return &Container{
		DiagnosisService:  diagnosisService,
		InspectionService: inspectionService,
		Sensors:           deps.Sensors,
	}
}
