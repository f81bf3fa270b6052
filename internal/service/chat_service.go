package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Arslanmonuahmad/tiplu/internal/config"
	"github.com/Arslanmonuahmad/tiplu/internal/models"
	"github.com/Arslanmonuahmad/tiplu/internal/repository"
)

// ErrOutOfMessages means the user has no message credits left; callers should
// offer the referral and premium paths instead of a reply.
var ErrOutOfMessages = errors.New("no message credits left")

// Generator produces a chat reply. It never fails: when every provider model
// is exhausted it returns a canned reply and fallback=true.
type Generator interface {
	Chat(ctx context.Context, userMessage string, user *models.User) (reply string, fallback bool)
}

// ChatService meters free-text chat against the message ledger.
type ChatService struct {
	cfg   config.Config
	store repository.Store
	gen   Generator
}

func NewChatService(cfg config.Config, store repository.Store, gen Generator) *ChatService {
	return &ChatService{cfg: cfg, store: store, gen: gen}
}

// Send generates a reply for the user's message and charges one message
// credit. Fallback replies are only charged when CHARGE_ON_FALLBACK is set.
func (s *ChatService) Send(ctx context.Context, user *models.User, text string) (string, error) {
	if user.MessagesLeft <= 0 {
		return "", ErrOutOfMessages
	}

	reply, fallback := s.gen.Chat(ctx, text, user)

	if !fallback || s.cfg.ChargeOnFallback {
		if err := s.store.DecrementMessages(ctx, user.TelegramID); err != nil {
			return "", fmt.Errorf("charge message credit: %w", err)
		}
		if user.MessagesLeft > 0 {
			user.MessagesLeft--
		}
	}
	return reply, nil
}
