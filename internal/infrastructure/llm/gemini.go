package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"prawn-diagnosis/internal/domain/entity"
	"prawn-diagnosis/internal/domain/port"
)

// DefaultGeminiModel используется, если модель не задана.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig настройки клиента Gemini.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// contentGenerator часть клиента genai, которая нужна рассказчику.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiNarrator пишет экспертный анализ через Google Gemini.
type GeminiNarrator struct {
	models contentGenerator
	model  string
}

// NewGeminiNarrator создаёт клиента Gemini API.
func NewGeminiNarrator(ctx context.Context, cfg GeminiConfig) (*GeminiNarrator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return newGeminiNarrator(client.Models, cfg.Model), nil
}

func newGeminiNarrator(models contentGenerator, model string) *GeminiNarrator {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiNarrator{models: models, model: model}
}

// Generate запрашивает у модели анализ простым текстом.
func (n *GeminiNarrator) Generate(ctx context.Context, q entity.QuestionnaireResponse, reading entity.SensorReading, detection *entity.DetectionResult) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}

	result, err := n.models.GenerateContent(ctx, n.model, genai.Text(BuildPrompt(q, reading, detection)), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := cleanModelOutput(result.Text())
	if text == "" {
		return "", errors.New("gemini returned an empty analysis")
	}
	return text, nil
}

// cleanModelOutput убирает ``` и markdown-разметку из ответа модели.
func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```text")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.ReplaceAll(cleaned, "**", "")

	lines := strings.Split(cleaned, "\n")
	for i, line := range lines {
		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "#") {
			lines[i] = strings.TrimLeft(trimmed, "# ")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

var _ port.NarrativeGenerator = (*GeminiNarrator)(nil)
