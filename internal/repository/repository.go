package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Arslanmonuahmad/tiplu/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when creating a record whose key already exists.
	ErrDuplicate = errors.New("record already exists")
	// ErrFinalized is returned when approving or rejecting a payment that
	// already left the pending state.
	ErrFinalized = errors.New("payment already finalized")
)

// UserUpdate is a typed partial update for a user record. Only set fields are
// merged; nil fields leave the stored value untouched.
type UserUpdate struct {
	MessagesLeft       *int
	ImagesLeft         *int
	PremiumStatus      *models.PremiumStatus
	TotalSpent         *int
	ChatMood           *models.ChatMood
	HasJoinedChannel   *bool
	AwaitingUTR        *bool
	AwaitingScreenshot *bool
	PendingPaymentID   *string
	PendingUTR         *string
	LastActive         *time.Time
}

// PaymentUpdate is a typed partial update for a payment record.
type PaymentUpdate struct {
	UTRID              *string
	UTRDate            *time.Time
	ScreenshotReceived *bool
	ScreenshotDate     *time.Time
	ScreenshotURL      *string
}

// Store is the durable record store for users and payments. All mutations are
// atomic per call: a reader never observes a partially applied update, and
// check-then-act operations (GrantReferral, ApprovePayment) perform their
// guard and their write as one unit.
type Store interface {
	GetUser(ctx context.Context, telegramID int64) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, telegramID int64, upd UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, telegramID int64) error
	ListUsers(ctx context.Context) ([]*models.User, error)

	// DecrementMessages and DecrementImages subtract one credit and refresh
	// lastActive. At zero balance they are no-ops, never errors.
	DecrementMessages(ctx context.Context, telegramID int64) error
	DecrementImages(ctx context.Context, telegramID int64) error

	// GrantReferral credits the owner of code for inviting inviteeID. It
	// reports false without error when the code is unknown or the invitee
	// was already counted; the membership check and the append are atomic.
	GrantReferral(ctx context.Context, code string, inviteeID int64, bonusMessages, bonusImages int) (bool, error)

	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
	UpdatePayment(ctx context.Context, id string, upd PaymentUpdate) (*models.Payment, error)
	ListPayments(ctx context.Context) ([]*models.Payment, error)

	// ApprovePayment transitions a pending payment to approved and credits
	// the owning user exactly once. A payment already approved or rejected
	// yields ErrFinalized and no ledger mutation.
	ApprovePayment(ctx context.Context, id string) (*models.Payment, error)
	// RejectPayment transitions a pending payment to rejected.
	RejectPayment(ctx context.Context, id string) (*models.Payment, error)
}
