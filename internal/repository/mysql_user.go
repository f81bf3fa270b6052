package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/Arslanmonuahmad/tiplu/internal/models"
)

// MySQLStore implements Store over a MySQL connection. Row-level locking
// (SELECT ... FOR UPDATE) makes the referral grant and the payment approval
// safe under concurrent writers.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

const userColumns = `telegram_id, referral_code, COALESCE(referred_by, ''), messages_left, images_left, premium_status, total_spent, chat_mood, has_joined_channel, awaiting_utr, awaiting_screenshot, COALESCE(pending_payment_id, ''), COALESCE(pending_utr, ''), joined_at, last_active`

func (s *MySQLStore) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = ?`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, telegramID))
	if err != nil {
		return nil, err
	}
	if err := s.loadReferredUsers(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *MySQLStore) CreateUser(ctx context.Context, user *models.User) error {
	const query = `
INSERT INTO users (telegram_id, referral_code, referred_by, messages_left, images_left, premium_status, total_spent, chat_mood, has_joined_channel, joined_at, last_active)
VALUES (?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		user.TelegramID, user.ReferralCode, user.ReferredBy,
		user.MessagesLeft, user.ImagesLeft, string(user.PremiumStatus), user.TotalSpent,
		string(user.ChatMood), boolToInt(user.HasJoinedChannel), user.JoinedAt, user.LastActive)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *MySQLStore) UpdateUser(ctx context.Context, telegramID int64, upd UserUpdate) (*models.User, error) {
	sets := make([]string, 0, 11)
	args := make([]any, 0, 12)
	appendSet := func(clause string, value any) {
		sets = append(sets, clause)
		args = append(args, value)
	}

	if upd.MessagesLeft != nil {
		appendSet("messages_left = ?", *upd.MessagesLeft)
	}
	if upd.ImagesLeft != nil {
		appendSet("images_left = ?", *upd.ImagesLeft)
	}
	if upd.PremiumStatus != nil {
		appendSet("premium_status = ?", string(*upd.PremiumStatus))
	}
	if upd.TotalSpent != nil {
		appendSet("total_spent = ?", *upd.TotalSpent)
	}
	if upd.ChatMood != nil {
		appendSet("chat_mood = ?", string(*upd.ChatMood))
	}
	if upd.HasJoinedChannel != nil {
		appendSet("has_joined_channel = ?", boolToInt(*upd.HasJoinedChannel))
	}
	if upd.AwaitingUTR != nil {
		appendSet("awaiting_utr = ?", boolToInt(*upd.AwaitingUTR))
	}
	if upd.AwaitingScreenshot != nil {
		appendSet("awaiting_screenshot = ?", boolToInt(*upd.AwaitingScreenshot))
	}
	if upd.PendingPaymentID != nil {
		appendSet("pending_payment_id = NULLIF(?, '')", *upd.PendingPaymentID)
	}
	if upd.PendingUTR != nil {
		appendSet("pending_utr = NULLIF(?, '')", *upd.PendingUTR)
	}
	if upd.LastActive != nil {
		appendSet("last_active = ?", *upd.LastActive)
	}

	if len(sets) > 0 {
		query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE telegram_id = ?`
		args = append(args, telegramID)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("update user rows affected: %w", err)
		}
		// MySQL reports zero affected rows for both a missing key and a
		// no-change update, so confirm existence via the read below.
		_ = affected
	}

	return s.GetUser(ctx, telegramID)
}

func (s *MySQLStore) DeleteUser(ctx context.Context, telegramID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM referrals WHERE referrer_id = ?`, telegramID); err != nil {
		return fmt.Errorf("delete referrals: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE telegram_id = ?`, telegramID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY joined_at ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users rows: %w", err)
	}
	for _, user := range users {
		if err := s.loadReferredUsers(ctx, user); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (s *MySQLStore) DecrementMessages(ctx context.Context, telegramID int64) error {
	const query = `
UPDATE users SET messages_left = messages_left - 1, last_active = NOW()
WHERE telegram_id = ? AND messages_left > 0`
	if _, err := s.db.ExecContext(ctx, query, telegramID); err != nil {
		return fmt.Errorf("decrement messages: %w", err)
	}
	return nil
}

func (s *MySQLStore) DecrementImages(ctx context.Context, telegramID int64) error {
	const query = `
UPDATE users SET images_left = images_left - 1, last_active = NOW()
WHERE telegram_id = ? AND images_left > 0`
	if _, err := s.db.ExecContext(ctx, query, telegramID); err != nil {
		return fmt.Errorf("decrement images: %w", err)
	}
	return nil
}

func (s *MySQLStore) GrantReferral(ctx context.Context, code string, inviteeID int64, bonusMessages, bonusImages int) (bool, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var referrerID int64
	row := tx.QueryRowContext(ctx, `SELECT telegram_id FROM users WHERE referral_code = ? FOR UPDATE`, code)
	if err := row.Scan(&referrerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lock referrer: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO referrals (referrer_id, invitee_id) VALUES (?, ?)`, referrerID, inviteeID); err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert referral: %w", err)
	}

	const bonus = `
UPDATE users SET messages_left = messages_left + ?, images_left = images_left + ?
WHERE telegram_id = ?`
	if _, err := tx.ExecContext(ctx, bonus, bonusMessages, bonusImages, referrerID); err != nil {
		return false, fmt.Errorf("add referral bonus: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit referral tx: %w", err)
	}
	return true, nil
}

func (s *MySQLStore) loadReferredUsers(ctx context.Context, user *models.User) error {
	rows, err := s.db.QueryContext(ctx, `SELECT invitee_id FROM referrals WHERE referrer_id = ? ORDER BY created_at ASC`, user.TelegramID)
	if err != nil {
		return fmt.Errorf("load referrals: %w", err)
	}
	defer rows.Close()

	user.ReferredUsers = make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan referral: %w", err)
		}
		user.ReferredUsers = append(user.ReferredUsers, id)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var premium, mood string
	var joined, awaitingUTR, awaitingShot int
	err := row.Scan(
		&u.TelegramID, &u.ReferralCode, &u.ReferredBy, &u.MessagesLeft, &u.ImagesLeft,
		&premium, &u.TotalSpent, &mood, &joined, &awaitingUTR, &awaitingShot,
		&u.PendingPaymentID, &u.PendingUTR, &u.JoinedAt, &u.LastActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.PremiumStatus = models.PremiumStatus(premium)
	u.ChatMood = models.ChatMood(mood)
	u.HasJoinedChannel = joined != 0
	u.AwaitingUTR = awaitingUTR != 0
	u.AwaitingScreenshot = awaitingShot != 0
	return &u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
