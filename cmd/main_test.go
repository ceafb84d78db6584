package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"prawn-diagnosis/internal/api/telegram"
)

func telegramServer(t *testing.T, getMe string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, getMe)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/bot%s/%s"
}

func TestConnectTelegram(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		require.Nil(t, connectTelegram("", telegram.Config{}, zerolog.Nop()))
	})

	t.Run("rejected token keeps running without bot", func(t *testing.T) {
		endpoint := telegramServer(t, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
		bot := connectTelegram("123:bad", telegram.Config{APIEndpoint: endpoint, Logger: zerolog.Nop()}, zerolog.Nop())
		require.Nil(t, bot)
	})

	t.Run("unreachable api keeps running without bot", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		endpoint := srv.URL + "/bot%s/%s"
		srv.Close()

		bot := connectTelegram("123:abc", telegram.Config{APIEndpoint: endpoint, Logger: zerolog.Nop()}, zerolog.Nop())
		require.Nil(t, bot)
	})

	t.Run("authorized", func(t *testing.T) {
		endpoint := telegramServer(t, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"prawn","username":"prawn_bot"}}`)
		bot := connectTelegram("123:abc", telegram.Config{APIEndpoint: endpoint, Logger: zerolog.Nop()}, zerolog.Nop())
		require.NotNil(t, bot)
	})
}
