package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Arslanmonuahmad/tiplu/internal/models"
	"github.com/Arslanmonuahmad/tiplu/internal/repository"
)

func TestEnsureCreatesWithStartingBalances(t *testing.T) {
	svc := NewUserService(testConfig(), newTestStore(t))
	ctx := context.Background()

	user, created, err := svc.Ensure(ctx, 100, "")
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, 10, user.MessagesLeft)
	require.Equal(t, 3, user.ImagesLeft)
	require.Equal(t, models.MoodNormal, user.ChatMood)
	require.Equal(t, models.PremiumFree, user.PremiumStatus)
	require.Len(t, user.ReferralCode, 8)
	require.False(t, user.HasJoinedChannel)

	// Second /start finds the same record.
	again, created, err := svc.Ensure(ctx, 100, "other-code")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, user.ReferralCode, again.ReferralCode)
	require.Empty(t, again.ReferredBy)
}

func TestReferralBonusAppliedOncePerInvitee(t *testing.T) {
	svc := NewUserService(testConfig(), newTestStore(t))
	ctx := context.Background()

	referrer, _, err := svc.Ensure(ctx, 1, "")
	require.NoError(t, err)

	invitee, created, err := svc.Ensure(ctx, 2, referrer.ReferralCode)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, referrer.ReferralCode, invitee.ReferredBy)

	applied, err := svc.GrantReferralBonus(ctx, referrer.ReferralCode, invitee.TelegramID)
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = svc.GrantReferralBonus(ctx, referrer.ReferralCode, invitee.TelegramID)
	require.NoError(t, err)
	require.False(t, applied)

	applied, err = svc.GrantReferralBonus(ctx, "", 3)
	require.NoError(t, err)
	require.False(t, applied)

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 20, got.MessagesLeft)
	require.Equal(t, 5, got.ImagesLeft)
	require.Equal(t, []int64{2}, got.ReferredUsers)
}

func TestMarkChannelJoinedAndMood(t *testing.T) {
	svc := NewUserService(testConfig(), newTestStore(t))
	ctx := context.Background()

	_, _, err := svc.Ensure(ctx, 5, "")
	require.NoError(t, err)

	user, err := svc.MarkChannelJoined(ctx, 5)
	require.NoError(t, err)
	require.True(t, user.HasJoinedChannel)

	user, err = svc.SetMood(ctx, 5, models.MoodErotic)
	require.NoError(t, err)
	require.Equal(t, models.MoodErotic, user.ChatMood)
}

func TestStatsAggregation(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(testConfig(), store)
	payments := NewPaymentService(testConfig(), store)
	ctx := context.Background()

	active, _, err := users.Ensure(ctx, 1, "")
	require.NoError(t, err)
	_, _, err = users.Ensure(ctx, 2, "")
	require.NoError(t, err)

	// Push the second user's activity outside the 24h window.
	stale := time.Now().Add(-48 * time.Hour)
	_, err = store.UpdateUser(ctx, 2, repository.UserUpdate{LastActive: &stale})
	require.NoError(t, err)

	payment, _, err := payments.StartPurchase(ctx, active, 1)
	require.NoError(t, err)
	_, err = payments.Approve(ctx, payment.ID)
	require.NoError(t, err)

	pending, _, err := payments.StartPurchase(ctx, active, 2)
	require.NoError(t, err)
	_ = pending

	stats, err := users.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalUsers)
	require.Equal(t, 1, stats.ActiveUsers)
	require.Equal(t, 1, stats.PremiumUsers)
	require.Equal(t, 1, stats.PendingPayments)
	require.Equal(t, 99, stats.TotalRevenue)
}
