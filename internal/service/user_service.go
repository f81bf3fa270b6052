package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Arslanmonuahmad/tiplu/internal/config"
	"github.com/Arslanmonuahmad/tiplu/internal/models"
	"github.com/Arslanmonuahmad/tiplu/internal/repository"
)

// UserService owns the credit ledger and user lifecycle operations.
type UserService struct {
	cfg   config.Config
	store repository.Store
}

func NewUserService(cfg config.Config, store repository.Store) *UserService {
	return &UserService{cfg: cfg, store: store}
}

// Ensure returns the user record for telegramID, creating it with starting
// balances and a fresh referral code when absent. referredBy is only recorded
// at creation time.
func (s *UserService) Ensure(ctx context.Context, telegramID int64, referredBy string) (*models.User, bool, error) {
	user, err := s.store.GetUser(ctx, telegramID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	now := time.Now().UTC()
	newUser := &models.User{
		TelegramID:    telegramID,
		ReferralCode:  uuid.NewString()[:8],
		ReferredBy:    referredBy,
		ReferredUsers: make([]int64, 0),
		MessagesLeft:  s.cfg.StartingMessages,
		ImagesLeft:    s.cfg.StartingImages,
		PremiumStatus: models.PremiumFree,
		ChatMood:      models.MoodNormal,
		JoinedAt:      now,
		LastActive:    now,
	}
	if err := s.store.CreateUser(ctx, newUser); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a creation race; the existing record wins.
			user, err = s.store.GetUser(ctx, telegramID)
			if err != nil {
				return nil, false, fmt.Errorf("get user after duplicate: %w", err)
			}
			return user, false, nil
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return newUser, true, nil
}

func (s *UserService) Get(ctx context.Context, telegramID int64) (*models.User, error) {
	return s.store.GetUser(ctx, telegramID)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *UserService) Update(ctx context.Context, telegramID int64, upd repository.UserUpdate) (*models.User, error) {
	return s.store.UpdateUser(ctx, telegramID, upd)
}

func (s *UserService) Delete(ctx context.Context, telegramID int64) error {
	return s.store.DeleteUser(ctx, telegramID)
}

// DecrementMessages spends one message credit. At zero balance it is a no-op.
func (s *UserService) DecrementMessages(ctx context.Context, telegramID int64) error {
	return s.store.DecrementMessages(ctx, telegramID)
}

// DecrementImages spends one image credit. At zero balance it is a no-op.
func (s *UserService) DecrementImages(ctx context.Context, telegramID int64) error {
	return s.store.DecrementImages(ctx, telegramID)
}

// GrantReferralBonus credits the owner of code for inviting inviteeID.
// Unknown codes and repeat invitees report applied=false without error.
func (s *UserService) GrantReferralBonus(ctx context.Context, code string, inviteeID int64) (bool, error) {
	if code == "" {
		return false, nil
	}
	applied, err := s.store.GrantReferral(ctx, code, inviteeID, s.cfg.ReferralBonusMessages, s.cfg.ReferralBonusImages)
	if err != nil {
		return false, fmt.Errorf("grant referral: %w", err)
	}
	return applied, nil
}

func (s *UserService) MarkChannelJoined(ctx context.Context, telegramID int64) (*models.User, error) {
	joined := true
	return s.store.UpdateUser(ctx, telegramID, repository.UserUpdate{HasJoinedChannel: &joined})
}

func (s *UserService) SetMood(ctx context.Context, telegramID int64, mood models.ChatMood) (*models.User, error) {
	return s.store.UpdateUser(ctx, telegramID, repository.UserUpdate{ChatMood: &mood})
}

// Stats aggregates the dashboard counters over both collections.
func (s *UserService) Stats(ctx context.Context) (*models.Stats, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	payments, err := s.store.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	stats := &models.Stats{TotalUsers: len(users)}
	dayAgo := time.Now().Add(-24 * time.Hour)
	for _, user := range users {
		if user.LastActive.After(dayAgo) {
			stats.ActiveUsers++
		}
		if user.PremiumStatus == models.PremiumActive {
			stats.PremiumUsers++
		}
	}
	for _, payment := range payments {
		switch payment.Status {
		case models.PaymentPending:
			stats.PendingPayments++
		case models.PaymentApproved:
			stats.TotalRevenue += payment.Amount
		}
	}
	return stats, nil
}
