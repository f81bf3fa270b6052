package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Arslanmonuahmad/tiplu/internal/models"
)

type stubGenerator struct {
	reply    string
	fallback bool
	calls    int
}

func (g *stubGenerator) Chat(ctx context.Context, userMessage string, user *models.User) (string, bool) {
	g.calls++
	return g.reply, g.fallback
}

func TestSendChargesOneCredit(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(testConfig(), store)
	gen := &stubGenerator{reply: "Kya baat hai jaan! 💕"}
	chat := NewChatService(testConfig(), store, gen)
	ctx := context.Background()

	user, _, err := users.Ensure(ctx, 1, "")
	require.NoError(t, err)

	reply, err := chat.Send(ctx, user, "hi")
	require.NoError(t, err)
	require.Equal(t, "Kya baat hai jaan! 💕", reply)
	require.Equal(t, 9, user.MessagesLeft)

	got, err := users.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 9, got.MessagesLeft)
}

func TestSendOutOfCredits(t *testing.T) {
	store := newTestStore(t)
	gen := &stubGenerator{reply: "hello jaan"}
	chat := NewChatService(testConfig(), store, gen)

	user := &models.User{TelegramID: 2, MessagesLeft: 0}
	_, err := chat.Send(context.Background(), user, "hi")
	require.ErrorIs(t, err, ErrOutOfMessages)
	require.Zero(t, gen.calls)
}

func TestSendFallbackChargePolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("charged by default", func(t *testing.T) {
		store := newTestStore(t)
		users := NewUserService(testConfig(), store)
		chat := NewChatService(testConfig(), store, &stubGenerator{reply: "canned", fallback: true})

		user, _, err := users.Ensure(ctx, 3, "")
		require.NoError(t, err)
		_, err = chat.Send(ctx, user, "hi")
		require.NoError(t, err)

		got, err := users.Get(ctx, 3)
		require.NoError(t, err)
		require.Equal(t, 9, got.MessagesLeft)
	})

	t.Run("free when disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.ChargeOnFallback = false
		store := newTestStore(t)
		users := NewUserService(cfg, store)
		chat := NewChatService(cfg, store, &stubGenerator{reply: "canned", fallback: true})

		user, _, err := users.Ensure(ctx, 4, "")
		require.NoError(t, err)
		_, err = chat.Send(ctx, user, "hi")
		require.NoError(t, err)

		got, err := users.Get(ctx, 4)
		require.NoError(t, err)
		require.Equal(t, 10, got.MessagesLeft)
	})
}
