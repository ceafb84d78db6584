package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"prawn-diagnosis/internal/domain/entity"
	"prawn-diagnosis/internal/domain/port"
)

const (
	msgStart = `👋 Hi! I am the prawn diagnosis assistant.

📸 Send me a photo of a prawn and I will look for disease signs.
🚨 Reports that need attention are delivered to this chat.

📋 Commands:
/sensor — current pond water readings
/help — usage`

	msgHelp = `ℹ️ How to use the bot:

1️⃣ Send a clear photo of a prawn
2️⃣ Wait for the analysis
3️⃣ Fill in the questionnaire in the web app for a full PDF report

📋 Commands:
/sensor — current pond water readings`

	msgSendPhoto       = "📸 Please send a photo of a prawn, or use /help."
	msgUnknownCommand  = "❓ Unknown command. Use /help."
	msgProcessing      = "⏳ Analysing the image..."
	msgProcessingError = "⚠️ Could not process the image. Please try another photo."

	reportFilename = "diagnosis_report.pdf"
)

// ImageInspector анализирует фото креветки; ошибка попадает в результат.
type ImageInspector interface {
	Inspect(ctx context.Context, imageData []byte, opts entity.ClassifyOptions) *entity.DetectionResult
}

// Bot представляет Telegram-бота: команды фермера и оповещения.
type Bot struct {
	api         *tgbotapi.BotAPI
	alertChatID int64
	sensors     port.SensorSource
	inspector   ImageInspector
	logger      zerolog.Logger
}

// Config зависимости бота. AlertChatID 0 отключает оповещения.
// Пустой APIEndpoint означает публичный Telegram API.
type Config struct {
	APIEndpoint string
	AlertChatID int64
	Sensors     port.SensorSource
	Inspector   ImageInspector
	Logger      zerolog.Logger
}

// NewBot создаёт нового бота и авторизуется в Telegram.
func NewBot(token string, cfg Config) (*Bot, error) {
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram authorize: %w", err)
	}
	return NewBotWithAPI(api, cfg), nil
}

// NewBotWithAPI создаёт бота поверх готового клиента.
func NewBotWithAPI(api *tgbotapi.BotAPI, cfg Config) *Bot {
	cfg.Logger.Info().Str("account", api.Self.UserName).Msg("telegram bot authorized")
	return &Bot{
		api:         api,
		alertChatID: cfg.AlertChatID,
		sensors:     cfg.Sensors,
		inspector:   cfg.Inspector,
		logger:      cfg.Logger,
	}
}

// SetInspector включает анализ фото. Вызывать до Run.
func (b *Bot) SetInspector(inspector ImageInspector) {
	b.inspector = inspector
}

// Run запускает основной цикл обработки сообщений.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// NotifyAttention отправляет отчёт в чат оповещений.
func (b *Bot) NotifyAttention(ctx context.Context, verdict entity.DiagnosisVerdict, document []byte) error {
	if b.alertChatID == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(b.alertChatID, tgbotapi.FileBytes{Name: reportFilename, Bytes: document})
	doc.Caption = alertCaption(verdict)
	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("send alert document: %w", err)
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, msgStart)
	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)
	case "sensor":
		b.sendMessage(msg.Chat.ID, sensorMessage(b.sensors.Current()))
	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	if b.inspector == nil {
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Максимальное разрешение идёт последним.
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.logger.Warn().Err(err).Msg("telegram photo download failed")
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	result := b.inspector.Inspect(ctx, imageData, entity.DefaultClassifyOptions)
	b.sendMessage(msg.Chat.ID, detectionMessage(result))
}

func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram send failed")
	}
}

func sensorMessage(r entity.SensorReading) string {
	return fmt.Sprintf("🌊 Pond water now:\npH: %g\nTDS: %g ppm\nTemperature: %g°C", r.PH, r.TDS, r.Temperature)
}

func detectionMessage(res *entity.DetectionResult) string {
	if res.Error != "" {
		return msgProcessingError
	}
	if len(res.Conditions) == 0 {
		return "✅ " + res.Classification + "."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔬 %s (confidence %.2f%%)\n", res.Classification, res.Confidence*100)
	for _, cc := range res.Conditions {
		fmt.Fprintf(&b, "- %s: %d\n", cc.Label, cc.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}

func alertCaption(v entity.DiagnosisVerdict) string {
	caption := fmt.Sprintf("🚨 Pond needs attention (score %d).\n%s", v.Score, v.Recommendation)
	if v.Findings != "" {
		caption += "\nImage findings: " + v.Findings
	}
	return caption
}

var _ port.AlertNotifier = (*Bot)(nil)
