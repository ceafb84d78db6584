package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"prawn-diagnosis/internal/domain/entity"
	"prawn-diagnosis/internal/domain/port"
)

const (
	DefaultRoboflowURL     = "https://detect.roboflow.com"
	DefaultRoboflowModel   = "shrimp-disease-detection"
	DefaultRoboflowVersion = 3

	maxErrorBody = 1 << 10
)

// RoboflowConfig адрес модели детекции в Roboflow.
type RoboflowConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Version int
}

// RoboflowClassifier ищет болезни креветок моделью Roboflow.
type RoboflowClassifier struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	version int
}

// NewRoboflowClassifier создаёт классификатор. При nil client берётся http.DefaultClient.
func NewRoboflowClassifier(cfg RoboflowConfig, client *http.Client) (*RoboflowClassifier, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("roboflow API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultRoboflowURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultRoboflowModel
	}
	if cfg.Version <= 0 {
		cfg.Version = DefaultRoboflowVersion
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &RoboflowClassifier{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		version: cfg.Version,
	}, nil
}

type roboflowResponse struct {
	Predictions []entity.Prediction `json:"predictions"`
}

// Classify отправляет изображение и сводит полученные предсказания.
func (c *RoboflowClassifier) Classify(ctx context.Context, imageData []byte, opts entity.ClassifyOptions) (*entity.DetectionResult, error) {
	body := base64.StdEncoding.EncodeToString(imageData)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(opts), strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build roboflow request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("roboflow request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("roboflow returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var decoded roboflowResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode roboflow response: %w", err)
	}

	return entity.SummarizePredictions(decoded.Predictions), nil
}

func (c *RoboflowClassifier) endpoint(opts entity.ClassifyOptions) string {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("confidence", strconv.Itoa(opts.Confidence))
	q.Set("overlap", strconv.Itoa(opts.Overlap))
	return fmt.Sprintf("%s/%s/%d?%s", c.baseURL, url.PathEscape(c.model), c.version, q.Encode())
}

var _ port.ImageClassifier = (*RoboflowClassifier)(nil)
