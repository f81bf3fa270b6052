package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"github.com/Arslanmonuahmad/tiplu/internal/config"
	"github.com/Arslanmonuahmad/tiplu/internal/media"
	"github.com/Arslanmonuahmad/tiplu/internal/models"
	"github.com/Arslanmonuahmad/tiplu/internal/repository"
	"github.com/Arslanmonuahmad/tiplu/internal/service"
)

type sentMessage struct {
	chatID string
	text   string
	markup string
	at     time.Time
}

// fakeTelegram emulates the Bot API endpoints the bot touches: getMe,
// getUpdates (one batch, then empty batches) and sendMessage.
type fakeTelegram struct {
	srv     *httptest.Server
	updates string

	mu     sync.Mutex
	sent   []sentMessage
	served int32
}

func newFakeTelegram(t *testing.T, updates string) *fakeTelegram {
	t.Helper()
	f := &fakeTelegram{updates: updates}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeTelegram) handle(w http.ResponseWriter, r *http.Request) {
	switch path.Base(r.URL.Path) {
	case "getMe":
		writeResult(w, `{"id":42,"is_bot":true,"first_name":"Lily","username":"lily_bot"}`)
	case "getUpdates":
		if atomic.CompareAndSwapInt32(&f.served, 0, 1) {
			writeResult(w, f.updates)
			return
		}
		time.Sleep(25 * time.Millisecond)
		writeResult(w, `[]`)
	case "sendMessage":
		_ = r.ParseForm()
		f.mu.Lock()
		f.sent = append(f.sent, sentMessage{
			chatID: r.FormValue("chat_id"),
			text:   r.FormValue("text"),
			markup: r.FormValue("reply_markup"),
			at:     time.Now(),
		})
		f.mu.Unlock()
		writeResult(w, `{"message_id":1,"date":1,"text":"ok","chat":{"id":1,"type":"private"}}`)
	default:
		writeResult(w, `true`)
	}
}

func writeResult(w http.ResponseWriter, result string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"ok":true,"result":%s}`, result)
}

func (f *fakeTelegram) api(t *testing.T) *tgbotapi.BotAPI {
	t.Helper()
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint("test-token", f.srv.URL+"/bot%s/%s")
	require.NoError(t, err)
	return api
}

func (f *fakeTelegram) firstReply(chatID string) (sentMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.sent {
		if m.chatID == chatID {
			return m, true
		}
	}
	return sentMessage{}, false
}

// stallingGenerator delays replies for one user and answers everyone
// else immediately.
type stallingGenerator struct {
	stallFor int64
	delay    time.Duration
}

func (g *stallingGenerator) Chat(ctx context.Context, userMessage string, user *models.User) (string, bool) {
	if user.TelegramID == g.stallFor {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
		}
	}
	return "Main theek hun baby! 💕", false
}

func testBotConfig() config.Config {
	return config.Config{
		BotName:          "Lily",
		StartingMessages: 10,
		StartingImages:   3,
		ChargeOnFallback: true,
		Tiers: [2]config.Tier{
			{Number: 1, Price: 99, Messages: 100, Images: 20},
			{Number: 2, Price: 199, Messages: 250, Images: 50},
		},
	}
}

func newTestBot(t *testing.T, cfg config.Config, fake *fakeTelegram, gen service.Generator) *Bot {
	t.Helper()
	store, err := repository.NewFileStore(t.TempDir())
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := service.NewUserService(cfg, store)
	payments := service.NewPaymentService(cfg, store)
	chat := service.NewChatService(cfg, store, gen)
	return NewBot(cfg, fake.api(t), log, users, payments, chat, media.NewLibrary(t.TempDir()), nil)
}

func runBot(t *testing.T, bot *Bot) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = bot.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func textUpdate(updateID int, userID int64, text string) string {
	return fmt.Sprintf(`{"update_id":%d,"message":{"message_id":%d,"from":{"id":%d,"is_bot":false,"first_name":"u"},"chat":{"id":%d,"type":"private"},"date":1,"text":%q}}`,
		updateID, updateID, userID, userID, text)
}

func TestRunHandlesChatsConcurrently(t *testing.T) {
	updates := "[" + textUpdate(1, 101, "kya kar rahi ho") + "," + textUpdate(2, 102, "kya kar rahi ho") + "]"
	fake := newFakeTelegram(t, updates)
	gen := &stallingGenerator{stallFor: 101, delay: 500 * time.Millisecond}
	bot := newTestBot(t, testBotConfig(), fake, gen)

	ctx := context.Background()
	for _, id := range []int64{101, 102} {
		_, _, err := bot.users.Ensure(ctx, id, "")
		require.NoError(t, err)
	}

	runBot(t, bot)

	var slow, quick sentMessage
	require.Eventually(t, func() bool {
		var okSlow, okQuick bool
		slow, okSlow = fake.firstReply("101")
		quick, okQuick = fake.firstReply("102")
		return okSlow && okQuick
	}, 3*time.Second, 10*time.Millisecond)

	// The unaffected chat must not wait out the stalled generation.
	require.Greater(t, slow.at.Sub(quick.at), 250*time.Millisecond)
}

func TestStartGateWithChannelIDOnly(t *testing.T) {
	start := `[{"update_id":1,"message":{"message_id":1,"from":{"id":201,"is_bot":false,"first_name":"u"},"chat":{"id":201,"type":"private"},"date":1,"text":"/start","entities":[{"type":"bot_command","offset":0,"length":6}]}}]`
	fake := newFakeTelegram(t, start)
	cfg := testBotConfig()
	cfg.SubscriptionChannelID = -1001234567890
	bot := newTestBot(t, cfg, fake, &stallingGenerator{})

	runBot(t, bot)

	var prompt sentMessage
	require.Eventually(t, func() bool {
		var ok bool
		prompt, ok = fake.firstReply("201")
		return ok
	}, 3*time.Second, 10*time.Millisecond)

	require.Contains(t, prompt.text, "join our channel")
	require.Contains(t, prompt.markup, "check_subscription")
	// Without a configured link there is no URL button to render.
	require.NotContains(t, prompt.markup, `"url"`)
}
