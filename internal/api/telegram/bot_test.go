package telegram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"prawn-diagnosis/internal/domain/entity"
)

const testToken = "123:abc"

type sent struct {
	method string
	chatID string
	text   string
	file   string
}

type fakeTelegram struct {
	mu   sync.Mutex
	sent []sent
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	w.Header().Set("Content-Type", "application/json")

	if method == "getMe" {
		_, _ = io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"prawn","username":"prawn_bot"}}`)
		return
	}

	s := sent{method: method}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		_ = r.ParseMultipartForm(1 << 20)
		if fh, ok := r.MultipartForm.File["document"]; ok && len(fh) > 0 {
			s.file = fh[0].Filename
		}
	} else {
		_ = r.ParseForm()
	}
	s.chatID = r.FormValue("chat_id")
	s.text = r.FormValue("text") + r.FormValue("caption")

	f.mu.Lock()
	f.sent = append(f.sent, s)
	f.mu.Unlock()

	_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`)
}

func (f *fakeTelegram) messages() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sent(nil), f.sent...)
}

type fixedSensors struct{ r entity.SensorReading }

func (s fixedSensors) Current() entity.SensorReading { return s.r }

func newTestBot(t *testing.T, cfg Config) (*Bot, *fakeTelegram) {
	t.Helper()
	fake := &fakeTelegram{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	api, err := tgbotapi.NewBotAPIWithClient(testToken, srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)

	cfg.Logger = zerolog.Nop()
	return NewBotWithAPI(api, cfg), fake
}

func command(text string) *tgbotapi.Message {
	name := strings.Fields(text)[0]
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 42},
		From:     &tgbotapi.User{ID: 9},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func TestBot_NotifyAttention(t *testing.T) {
	bot, fake := newTestBot(t, Config{AlertChatID: 42})

	err := bot.NotifyAttention(context.Background(), entity.DiagnosisVerdict{
		Score:          4,
		Recommendation: "Some parameters may need attention.",
		Findings:       "whitegut (x2)",
	}, []byte("%PDF-1.3"))
	require.NoError(t, err)

	msgs := fake.messages()
	require.Len(t, msgs, 1)
	require.Equal(t, "sendDocument", msgs[0].method)
	require.Equal(t, "42", msgs[0].chatID)
	require.Equal(t, reportFilename, msgs[0].file)
	require.Contains(t, msgs[0].text, "score 4")
	require.Contains(t, msgs[0].text, "whitegut (x2)")
}

func TestBot_NotifyAttentionDisabled(t *testing.T) {
	bot, fake := newTestBot(t, Config{})
	require.NoError(t, bot.NotifyAttention(context.Background(), entity.DiagnosisVerdict{}, []byte("pdf")))
	require.Empty(t, fake.messages())
}

func TestBot_SensorCommand(t *testing.T) {
	bot, fake := newTestBot(t, Config{Sensors: fixedSensors{entity.FallbackReading}})

	bot.handleMessage(context.Background(), command("/sensor"))

	msgs := fake.messages()
	require.Len(t, msgs, 1)
	require.Equal(t, "sendMessage", msgs[0].method)
	require.Contains(t, msgs[0].text, "pH: 8.1")
	require.Contains(t, msgs[0].text, "TDS: 1200 ppm")
	require.Contains(t, msgs[0].text, "Temperature: 28.5°C")
}

func TestBot_UnknownCommandAndText(t *testing.T) {
	bot, fake := newTestBot(t, Config{})

	bot.handleMessage(context.Background(), command("/nope"))
	bot.handleMessage(context.Background(), &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 42}})

	msgs := fake.messages()
	require.Len(t, msgs, 2)
	require.Equal(t, msgUnknownCommand, msgs[0].text)
	require.Equal(t, msgSendPhoto, msgs[1].text)
}

func TestDetectionMessage(t *testing.T) {
	require.Equal(t, "✅ No issues detected.", detectionMessage(entity.SummarizePredictions(nil)))
	require.Equal(t, msgProcessingError, detectionMessage(&entity.DetectionResult{Error: "boom"}))

	msg := detectionMessage(&entity.DetectionResult{
		Classification: "Detected: whitegut",
		Confidence:     0.5,
		Conditions:     entity.ConditionCounts{{Label: "whitegut", Count: 2}, {Label: "blackspot", Count: 1}},
	})
	require.Equal(t, "🔬 Detected: whitegut (confidence 50.00%)\n- whitegut: 2\n- blackspot: 1", msg)
}
