package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Arslanmonuahmad/tiplu/internal/models"
	"github.com/Arslanmonuahmad/tiplu/internal/repository"
)

func TestPurchaseLifecycle(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(testConfig(), store)
	payments := NewPaymentService(testConfig(), store)
	ctx := context.Background()

	user, _, err := users.Ensure(ctx, 10, "")
	require.NoError(t, err)

	payment, tier, err := payments.StartPurchase(ctx, user, 1)
	require.NoError(t, err)
	require.Equal(t, 1, tier.Number)
	require.Equal(t, 99, payment.Amount)
	require.Equal(t, models.PaymentPending, payment.Status)
	require.True(t, user.AwaitingUTR)
	require.False(t, user.AwaitingScreenshot)
	require.Equal(t, payment.ID, user.PendingPaymentID)

	payment, err = payments.SubmitUTR(ctx, user, " 112233445566 ")
	require.NoError(t, err)
	require.Equal(t, "112233445566", payment.UTRID)
	require.NotNil(t, payment.UTRDate)
	require.False(t, user.AwaitingUTR)
	require.True(t, user.AwaitingScreenshot)
	require.Equal(t, "112233445566", user.PendingUTR)

	payment, err = payments.AttachScreenshot(ctx, user, "https://cdn.example.com/shot.jpg")
	require.NoError(t, err)
	require.True(t, payment.ScreenshotReceived)
	require.NotNil(t, payment.ScreenshotDate)
	require.Equal(t, "https://cdn.example.com/shot.jpg", payment.ScreenshotURL)
	require.False(t, user.AwaitingScreenshot)
	require.Empty(t, user.PendingPaymentID)

	approved, err := payments.Approve(ctx, payment.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentApproved, approved.Status)

	credited, err := users.Get(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 110, credited.MessagesLeft)
	require.Equal(t, 23, credited.ImagesLeft)
	require.Equal(t, models.PremiumActive, credited.PremiumStatus)

	_, err = payments.Approve(ctx, payment.ID)
	require.ErrorIs(t, err, repository.ErrFinalized)
}

func TestSubmitUTRValidation(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(testConfig(), store)
	payments := NewPaymentService(testConfig(), store)
	ctx := context.Background()

	user, _, err := users.Ensure(ctx, 20, "")
	require.NoError(t, err)
	_, _, err = payments.StartPurchase(ctx, user, 2)
	require.NoError(t, err)

	cases := []struct {
		name string
		utr  string
	}{
		{"too short", "12345678901"},
		{"too long", "1234567890123"},
		{"letters", "12345678901a"},
		{"empty", ""},
		{"spaces inside", "123456 789012"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := payments.SubmitUTR(ctx, user, tc.utr)
			require.ErrorIs(t, err, ErrInvalidUTR)
			// Flow still waits for a valid UTR.
			require.True(t, user.AwaitingUTR)
			require.False(t, user.AwaitingScreenshot)
		})
	}

	_, err = payments.SubmitUTR(ctx, user, "123456789012")
	require.NoError(t, err)
	require.True(t, user.AwaitingScreenshot)
}

func TestPurchaseGuards(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(testConfig(), store)
	payments := NewPaymentService(testConfig(), store)
	ctx := context.Background()

	user, _, err := users.Ensure(ctx, 30, "")
	require.NoError(t, err)

	_, _, err = payments.StartPurchase(ctx, user, 9)
	require.ErrorIs(t, err, ErrUnknownTier)

	_, err = payments.SubmitUTR(ctx, user, "123456789012")
	require.ErrorIs(t, err, ErrNotAwaitingPayment)

	_, err = payments.AttachScreenshot(ctx, user, "")
	require.ErrorIs(t, err, ErrNotAwaitingPayment)
}

func TestRejectLeavesLedgerUntouched(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(testConfig(), store)
	payments := NewPaymentService(testConfig(), store)
	ctx := context.Background()

	user, _, err := users.Ensure(ctx, 40, "")
	require.NoError(t, err)

	payment, _, err := payments.StartPurchase(ctx, user, 1)
	require.NoError(t, err)

	rejected, err := payments.Reject(ctx, payment.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentRejected, rejected.Status)

	got, err := users.Get(ctx, 40)
	require.NoError(t, err)
	require.Equal(t, 10, got.MessagesLeft)
	require.Equal(t, models.PremiumFree, got.PremiumStatus)
}
