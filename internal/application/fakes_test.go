package app

import (
	"context"
	"errors"
	"sync"

	"prawn-diagnosis/internal/domain/entity"
)

type staticSensors struct {
	reading entity.SensorReading
}

func (s staticSensors) Current() entity.SensorReading { return s.reading }

type fakeClassifier struct {
	mu       sync.Mutex
	result   *entity.DetectionResult
	err      error
	received [][]byte
	opts     []entity.ClassifyOptions
}

func (c *fakeClassifier) Classify(ctx context.Context, imageData []byte, opts entity.ClassifyOptions) (*entity.DetectionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received = append(c.received, imageData)
	c.opts = append(c.opts, opts)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("classifier called without deadline")
	}
	return c.result, c.err
}

type fakeNormalizer struct {
	out []byte
	err error
}

func (n fakeNormalizer) Normalize([]byte) ([]byte, error) { return n.out, n.err }

type fakeNarrator struct {
	text      string
	err       error
	detection *entity.DetectionResult
	calls     int
}

func (n *fakeNarrator) Generate(_ context.Context, _ entity.QuestionnaireResponse, _ entity.SensorReading, detection *entity.DetectionResult) (string, error) {
	n.calls++
	n.detection = detection
	return n.text, n.err
}

type fakeNotifier struct {
	sent chan entity.DiagnosisVerdict
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan entity.DiagnosisVerdict, 1)}
}

func (n *fakeNotifier) NotifyAttention(_ context.Context, verdict entity.DiagnosisVerdict, _ []byte) error {
	n.sent <- verdict
	return nil
}
