package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Arslanmonuahmad/tiplu/internal/models"
)

// FileStore persists each collection as a single JSON document
// (users.json, payments.json). Every mutation rewrites the whole document
// behind one mutex, so writes are serialized and a reader never observes a
// partial record. Suits a single-process deployment; not meant to scale.
type FileStore struct {
	mu           sync.Mutex
	usersFile    string
	paymentsFile string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &FileStore{
		usersFile:    filepath.Join(dir, "users.json"),
		paymentsFile: filepath.Join(dir, "payments.json"),
	}
	for _, path := range []string{s.usersFile, s.paymentsFile} {
		if _, err := os.Stat(path); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("stat %s: %w", path, err)
			}
			if err := writeJSONFile(path, map[string]any{}); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *FileStore) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.readUsers()
	if err != nil {
		return nil, err
	}
	user, ok := users[userKey(telegramID)]
	if !ok {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *FileStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.readUsers()
	if err != nil {
		return err
	}
	key := userKey(user.TelegramID)
	if _, ok := users[key]; ok {
		return ErrDuplicate
	}
	if user.ReferredUsers == nil {
		user.ReferredUsers = make([]int64, 0)
	}
	users[key] = user
	return writeJSONFile(s.usersFile, users)
}

func (s *FileStore) UpdateUser(ctx context.Context, telegramID int64, upd UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.readUsers()
	if err != nil {
		return nil, err
	}
	user, ok := users[userKey(telegramID)]
	if !ok {
		return nil, ErrNotFound
	}

	if upd.MessagesLeft != nil {
		user.MessagesLeft = *upd.MessagesLeft
	}
	if upd.ImagesLeft != nil {
		user.ImagesLeft = *upd.ImagesLeft
	}
	if upd.PremiumStatus != nil {
		user.PremiumStatus = *upd.PremiumStatus
	}
	if upd.TotalSpent != nil {
		user.TotalSpent = *upd.TotalSpent
	}
	if upd.ChatMood != nil {
		user.ChatMood = *upd.ChatMood
	}
	if upd.HasJoinedChannel != nil {
		user.HasJoinedChannel = *upd.HasJoinedChannel
	}
	if upd.AwaitingUTR != nil {
		user.AwaitingUTR = *upd.AwaitingUTR
	}
	if upd.AwaitingScreenshot != nil {
		user.AwaitingScreenshot = *upd.AwaitingScreenshot
	}
	if upd.PendingPaymentID != nil {
		user.PendingPaymentID = *upd.PendingPaymentID
	}
	if upd.PendingUTR != nil {
		user.PendingUTR = *upd.PendingUTR
	}
	if upd.LastActive != nil {
		user.LastActive = *upd.LastActive
	}

	if err := writeJSONFile(s.usersFile, users); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *FileStore) DeleteUser(ctx context.Context, telegramID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.readUsers()
	if err != nil {
		return err
	}
	key := userKey(telegramID)
	if _, ok := users[key]; !ok {
		return ErrNotFound
	}
	delete(users, key)
	return writeJSONFile(s.usersFile, users)
}

func (s *FileStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.readUsers()
	if err != nil {
		return nil, err
	}
	out := make([]*models.User, 0, len(users))
	for _, user := range users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (s *FileStore) DecrementMessages(ctx context.Context, telegramID int64) error {
	return s.decrement(telegramID, func(u *models.User) *int { return &u.MessagesLeft })
}

func (s *FileStore) DecrementImages(ctx context.Context, telegramID int64) error {
	return s.decrement(telegramID, func(u *models.User) *int { return &u.ImagesLeft })
}

func (s *FileStore) decrement(telegramID int64, balance func(*models.User) *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.readUsers()
	if err != nil {
		return err
	}
	user, ok := users[userKey(telegramID)]
	if !ok {
		return nil
	}
	counter := balance(user)
	if *counter <= 0 {
		return nil
	}
	*counter--
	user.LastActive = time.Now().UTC()
	return writeJSONFile(s.usersFile, users)
}

func (s *FileStore) GrantReferral(ctx context.Context, code string, inviteeID int64, bonusMessages, bonusImages int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.readUsers()
	if err != nil {
		return false, err
	}

	var referrer *models.User
	for _, user := range users {
		if user.ReferralCode == code {
			referrer = user
			break
		}
	}
	if referrer == nil {
		return false, nil
	}
	for _, id := range referrer.ReferredUsers {
		if id == inviteeID {
			return false, nil
		}
	}

	referrer.ReferredUsers = append(referrer.ReferredUsers, inviteeID)
	referrer.MessagesLeft += bonusMessages
	referrer.ImagesLeft += bonusImages

	if err := writeJSONFile(s.usersFile, users); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payments, err := s.readPayments()
	if err != nil {
		return nil, err
	}
	payment, ok := payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return payment, nil
}

func (s *FileStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payments, err := s.readPayments()
	if err != nil {
		return err
	}
	if _, ok := payments[payment.ID]; ok {
		return ErrDuplicate
	}
	payments[payment.ID] = payment
	return writeJSONFile(s.paymentsFile, payments)
}

func (s *FileStore) UpdatePayment(ctx context.Context, id string, upd PaymentUpdate) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payments, err := s.readPayments()
	if err != nil {
		return nil, err
	}
	payment, ok := payments[id]
	if !ok {
		return nil, ErrNotFound
	}

	if upd.UTRID != nil {
		payment.UTRID = *upd.UTRID
	}
	if upd.UTRDate != nil {
		payment.UTRDate = upd.UTRDate
	}
	if upd.ScreenshotReceived != nil {
		payment.ScreenshotReceived = *upd.ScreenshotReceived
	}
	if upd.ScreenshotDate != nil {
		payment.ScreenshotDate = upd.ScreenshotDate
	}
	if upd.ScreenshotURL != nil {
		payment.ScreenshotURL = *upd.ScreenshotURL
	}

	if err := writeJSONFile(s.paymentsFile, payments); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *FileStore) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payments, err := s.readPayments()
	if err != nil {
		return nil, err
	}
	out := make([]*models.Payment, 0, len(payments))
	for _, payment := range payments {
		out = append(out, payment)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *FileStore) ApprovePayment(ctx context.Context, id string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payments, err := s.readPayments()
	if err != nil {
		return nil, err
	}
	payment, ok := payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	if payment.Status != models.PaymentPending {
		return nil, ErrFinalized
	}

	users, err := s.readUsers()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	payment.Status = models.PaymentApproved
	payment.ApprovedAt = &now

	// The payment is finalized on disk before the ledger credit. If the
	// credit write fails mid-approval, a retry sees ErrFinalized rather
	// than crediting the user twice.
	if err := writeJSONFile(s.paymentsFile, payments); err != nil {
		return nil, err
	}
	if user, ok := users[userKey(payment.UserID)]; ok {
		user.MessagesLeft += payment.Messages
		user.ImagesLeft += payment.Images
		user.PremiumStatus = models.PremiumActive
		user.TotalSpent += payment.Amount
		if err := writeJSONFile(s.usersFile, users); err != nil {
			return nil, err
		}
	}
	return payment, nil
}

func (s *FileStore) RejectPayment(ctx context.Context, id string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payments, err := s.readPayments()
	if err != nil {
		return nil, err
	}
	payment, ok := payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	if payment.Status != models.PaymentPending {
		return nil, ErrFinalized
	}
	now := time.Now().UTC()
	payment.Status = models.PaymentRejected
	payment.RejectedAt = &now
	if err := writeJSONFile(s.paymentsFile, payments); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *FileStore) readUsers() (map[string]*models.User, error) {
	users := make(map[string]*models.User)
	if err := readJSONFile(s.usersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *FileStore) readPayments() (map[string]*models.Payment, error) {
	payments := make(map[string]*models.Payment)
	if err := readJSONFile(s.paymentsFile, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func userKey(telegramID int64) string {
	return strconv.FormatInt(telegramID, 10)
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
