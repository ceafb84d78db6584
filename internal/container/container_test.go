package container

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	app "prawn-diagnosis/internal/application"
	"prawn-diagnosis/internal/domain/entity"
	"prawn-diagnosis/internal/infrastructure/pdf"
	"prawn-diagnosis/internal/infrastructure/sensor"
)

func TestNew_WithoutOptionalAdapters(t *testing.T) {
	c := New(Deps{
		Sensors:  sensor.NewCache(),
		Renderer: pdf.NewRenderer(),
		Engine:   app.DefaultEngineConfig(),
		Logger:   zerolog.Nop(),
	})

	require.Equal(t, entity.FallbackReading, c.Sensors.Current())

	out, err := c.DiagnosisService.Diagnose(context.Background(), app.DiagnosisRequest{
		Questionnaire: entity.NewQuestionnaireResponse(true, true, true, true, true, true),
		Image:         []byte("ignored without a classifier"),
	})
	require.NoError(t, err)
	require.Nil(t, out.Detection)
	require.Equal(t, 7, out.Verdict.Score)
	require.True(t, out.Verdict.Good)
	require.True(t, bytes.HasPrefix(out.Document, []byte("%PDF-")))

	res := c.InspectionService.Inspect(context.Background(), []byte("img"), entity.DefaultClassifyOptions)
	require.Equal(t, entity.FailedClassification, res.Classification)
}
