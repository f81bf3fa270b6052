package horde

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Arslanmonuahmad/tiplu/internal/config"
	"github.com/Arslanmonuahmad/tiplu/internal/models"
)

func testClient(t *testing.T, baseURL string, modelCount int) *Client {
	t.Helper()
	modelList := make([]string, 0, modelCount)
	for i := 0; i < modelCount; i++ {
		modelList = append(modelList, "koboldcpp/test-model")
	}
	cfg := config.Config{
		BotName:           "Lily",
		HordeAPIKey:       "test-key",
		HordeBaseURL:      baseURL,
		HordeModels:       modelList,
		HordePollInterval: time.Millisecond,
		HordePollAttempts: 3,
		RequestTimeout:    5 * time.Second,
	}
	return NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestChatReturnsGeneratedReply(t *testing.T) {
	var submitted generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("apikey"))
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v2/generate/text/async":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "req-1"})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/v2/generate/text/status/"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"done": true,
				"generations": []map[string]string{
					{"text": "Lily: Main bilkul theek hun baby, tum batao? 💕"},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, 1)
	user := &models.User{TelegramID: 1, ChatMood: models.MoodNormal}

	reply, fallback := client.Chat(context.Background(), "how are you?", user)
	require.False(t, fallback)
	require.Equal(t, "Main bilkul theek hun baby, tum batao? 💕", reply)

	require.Equal(t, 4096, submitted.Params.MaxContextLength)
	require.InDelta(t, 1.2, submitted.Params.RepPen, 0.001)
	// A question earns the longer token budget.
	require.Equal(t, 150, submitted.Params.MaxLength)
	require.Contains(t, submitted.Prompt, "User: how are you?")
	require.Contains(t, submitted.Prompt, "Lily:")
}

func TestChatFallsBackWhenAllModelsFault(t *testing.T) {
	submits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			submits++
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "req-x"})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"done": false, "faulted": true})
		}
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, 3)
	user := &models.User{TelegramID: 1, ChatMood: models.MoodErotic}

	reply, fallback := client.Chat(context.Background(), "hello", user)
	require.True(t, fallback)
	require.Contains(t, fallbackReplies, reply)
	require.Equal(t, 3, submits)
}

func TestChatRejectsOffPersonaReply(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			calls++
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "req-y"})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"done": true,
				"generations": []map[string]string{
					{"text": "I cannot respond to that request."},
				},
			})
		}
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, 2)
	user := &models.User{TelegramID: 1, ChatMood: models.MoodNormal}

	reply, fallback := client.Chat(context.Background(), "hello", user)
	require.True(t, fallback)
	require.Contains(t, fallbackReplies, reply)
	// Every model was tried before giving up.
	require.Equal(t, 2, calls)
}

func TestChatHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "req-z"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"done": false})
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reply, fallback := client.Chat(ctx, "hello", &models.User{TelegramID: 1})
	require.True(t, fallback)
	require.NotEmpty(t, reply)
}
