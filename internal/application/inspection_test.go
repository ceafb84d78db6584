package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"prawn-diagnosis/internal/domain/entity"
)

func TestInspectionService_Classify(t *testing.T) {
	want := &entity.DetectionResult{Classification: "Detected: whitegut"}
	classifier := &fakeClassifier{result: want}
	svc := NewInspectionService(classifier, nil, time.Second, zerolog.Nop())

	got, err := svc.Classify(context.Background(), []byte("img"), entity.ClassifyOptions{Confidence: 50, Overlap: 20})
	require.NoError(t, err)
	require.Same(t, want, got)
	require.Equal(t, []entity.ClassifyOptions{{Confidence: 50, Overlap: 20}}, classifier.opts)
}

func TestInspectionService_UsesNormalizedImage(t *testing.T) {
	classifier := &fakeClassifier{result: &entity.DetectionResult{}}
	svc := NewInspectionService(classifier, fakeNormalizer{out: []byte("small")}, time.Second, zerolog.Nop())

	_, err := svc.Classify(context.Background(), []byte("large"), entity.DefaultClassifyOptions)
	require.NoError(t, err)
	require.Equal(t, []byte("small"), classifier.received[0])
}

func TestInspectionService_NormalizerFailureKeepsOriginal(t *testing.T) {
	classifier := &fakeClassifier{result: &entity.DetectionResult{}}
	svc := NewInspectionService(classifier, fakeNormalizer{err: errors.New("decode")}, time.Second, zerolog.Nop())

	_, err := svc.Classify(context.Background(), []byte("raw"), entity.DefaultClassifyOptions)
	require.NoError(t, err)
	require.Equal(t, []byte("raw"), classifier.received[0])
}

func TestInspectionService_NotConfigured(t *testing.T) {
	svc := NewInspectionService(nil, nil, time.Second, zerolog.Nop())
	_, err := svc.Classify(context.Background(), []byte("img"), entity.DefaultClassifyOptions)
	require.ErrorIs(t, err, ErrClassifierNotConfigured)
}

func TestInspectionService_InspectReportsFailureInResult(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("upstream 502")}
	svc := NewInspectionService(classifier, nil, time.Second, zerolog.Nop())

	res := svc.Inspect(context.Background(), []byte("img"), entity.DefaultClassifyOptions)
	require.Equal(t, entity.FailedClassification, res.Classification)
	require.Contains(t, res.Error, "upstream 502")
	require.Zero(t, res.Confidence)
}
