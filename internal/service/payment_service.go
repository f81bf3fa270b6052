package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Arslanmonuahmad/tiplu/internal/config"
	"github.com/Arslanmonuahmad/tiplu/internal/models"
	"github.com/Arslanmonuahmad/tiplu/internal/repository"
)

var (
	// ErrInvalidUTR marks a transaction reference that is not exactly twelve
	// decimal digits. The purchase state is left untouched.
	ErrInvalidUTR = errors.New("utr must be 12 digits")
	// ErrNotAwaitingPayment is returned when a UTR or screenshot arrives for
	// a user with no purchase in flight.
	ErrNotAwaitingPayment = errors.New("no payment awaiting this input")
	// ErrUnknownTier is returned for a tier number outside the configured set.
	ErrUnknownTier = errors.New("unknown tier")
)

var utrPattern = regexp.MustCompile(`^\d{12}$`)

// PaymentService drives a purchase from tier selection through UTR and
// screenshot submission to the operator's approve/reject decision.
type PaymentService struct {
	cfg   config.Config
	store repository.Store
}

func NewPaymentService(cfg config.Config, store repository.Store) *PaymentService {
	return &PaymentService{cfg: cfg, store: store}
}

// StartPurchase creates a pending payment for the tier and flags the user as
// awaiting a UTR. The next text from the user is read as the UTR candidate.
func (s *PaymentService) StartPurchase(ctx context.Context, user *models.User, tierNumber int) (*models.Payment, *config.Tier, error) {
	tier := s.cfg.Tier(tierNumber)
	if tier == nil {
		return nil, nil, ErrUnknownTier
	}

	payment := &models.Payment{
		ID:        uuid.NewString(),
		UserID:    user.TelegramID,
		Tier:      tier.Number,
		Amount:    tier.Price,
		Messages:  tier.Messages,
		Images:    tier.Images,
		Status:    models.PaymentPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, nil, fmt.Errorf("create payment: %w", err)
	}

	awaitingUTR := true
	awaitingShot := false
	updated, err := s.store.UpdateUser(ctx, user.TelegramID, repository.UserUpdate{
		AwaitingUTR:        &awaitingUTR,
		AwaitingScreenshot: &awaitingShot,
		PendingPaymentID:   &payment.ID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("flag user awaiting utr: %w", err)
	}
	*user = *updated
	return payment, tier, nil
}

// SubmitUTR interprets text as the transaction reference for the user's
// in-flight payment. Invalid input returns ErrInvalidUTR with no state change.
func (s *PaymentService) SubmitUTR(ctx context.Context, user *models.User, text string) (*models.Payment, error) {
	if !user.AwaitingUTR || user.PendingPaymentID == "" {
		return nil, ErrNotAwaitingPayment
	}
	utr := strings.TrimSpace(text)
	if !utrPattern.MatchString(utr) {
		return nil, ErrInvalidUTR
	}

	now := time.Now().UTC()
	payment, err := s.store.UpdatePayment(ctx, user.PendingPaymentID, repository.PaymentUpdate{
		UTRID:   &utr,
		UTRDate: &now,
	})
	if err != nil {
		return nil, fmt.Errorf("store utr: %w", err)
	}

	awaitingUTR := false
	awaitingShot := true
	updated, err := s.store.UpdateUser(ctx, user.TelegramID, repository.UserUpdate{
		AwaitingUTR:        &awaitingUTR,
		AwaitingScreenshot: &awaitingShot,
		PendingUTR:         &utr,
	})
	if err != nil {
		return nil, fmt.Errorf("flag user awaiting screenshot: %w", err)
	}
	*user = *updated
	return payment, nil
}

// AttachScreenshot records proof of payment and clears the user's in-flight
// flags. The payment stays pending until an operator decides.
func (s *PaymentService) AttachScreenshot(ctx context.Context, user *models.User, objectURL string) (*models.Payment, error) {
	if !user.AwaitingScreenshot || user.PendingPaymentID == "" {
		return nil, ErrNotAwaitingPayment
	}

	now := time.Now().UTC()
	received := true
	payment, err := s.store.UpdatePayment(ctx, user.PendingPaymentID, repository.PaymentUpdate{
		ScreenshotReceived: &received,
		ScreenshotDate:     &now,
		ScreenshotURL:      &objectURL,
	})
	if err != nil {
		return nil, fmt.Errorf("store screenshot: %w", err)
	}

	awaitingShot := false
	cleared := ""
	updated, err := s.store.UpdateUser(ctx, user.TelegramID, repository.UserUpdate{
		AwaitingScreenshot: &awaitingShot,
		PendingPaymentID:   &cleared,
	})
	if err != nil {
		return nil, fmt.Errorf("clear payment flags: %w", err)
	}
	*user = *updated
	return payment, nil
}

// Approve finalizes the payment and credits the owning user exactly once.
// repository.ErrFinalized is returned on a repeat decision, with no re-credit.
func (s *PaymentService) Approve(ctx context.Context, paymentID string) (*models.Payment, error) {
	return s.store.ApprovePayment(ctx, paymentID)
}

// Reject finalizes the payment without touching the ledger.
func (s *PaymentService) Reject(ctx context.Context, paymentID string) (*models.Payment, error) {
	return s.store.RejectPayment(ctx, paymentID)
}

func (s *PaymentService) Get(ctx context.Context, paymentID string) (*models.Payment, error) {
	return s.store.GetPayment(ctx, paymentID)
}

func (s *PaymentService) List(ctx context.Context) ([]*models.Payment, error) {
	return s.store.ListPayments(ctx)
}
