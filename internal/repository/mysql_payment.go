package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Arslanmonuahmad/tiplu/internal/models"
)

const paymentColumns = `id, user_id, tier, amount, messages, images, status, COALESCE(utr_id, ''), utr_date, screenshot_received, screenshot_date, COALESCE(screenshot_url, ''), created_at, approved_at, rejected_at`

func (s *MySQLStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = ?`
	return scanPayment(s.db.QueryRowContext(ctx, query, id))
}

func (s *MySQLStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	const query = `
INSERT INTO payments (id, user_id, tier, amount, messages, images, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		payment.ID, payment.UserID, payment.Tier, payment.Amount,
		payment.Messages, payment.Images, string(payment.Status), payment.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (s *MySQLStore) UpdatePayment(ctx context.Context, id string, upd PaymentUpdate) (*models.Payment, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	appendSet := func(clause string, value any) {
		sets = append(sets, clause)
		args = append(args, value)
	}

	if upd.UTRID != nil {
		appendSet("utr_id = NULLIF(?, '')", *upd.UTRID)
	}
	if upd.UTRDate != nil {
		appendSet("utr_date = ?", *upd.UTRDate)
	}
	if upd.ScreenshotReceived != nil {
		appendSet("screenshot_received = ?", boolToInt(*upd.ScreenshotReceived))
	}
	if upd.ScreenshotDate != nil {
		appendSet("screenshot_date = ?", *upd.ScreenshotDate)
	}
	if upd.ScreenshotURL != nil {
		appendSet("screenshot_url = NULLIF(?, '')", *upd.ScreenshotURL)
	}

	if len(sets) > 0 {
		query := `UPDATE payments SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
		args = append(args, id)
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("update payment: %w", err)
		}
	}

	return s.GetPayment(ctx, id)
}

func (s *MySQLStore) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (s *MySQLStore) ApprovePayment(ctx context.Context, id string) (*models.Payment, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var status string
	var userID int64
	var messages, images, amount int
	row := tx.QueryRowContext(ctx, `SELECT status, user_id, messages, images, amount FROM payments WHERE id = ? FOR UPDATE`, id)
	if err := row.Scan(&status, &userID, &messages, &images, &amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock payment: %w", err)
	}
	if models.PaymentStatus(status) != models.PaymentPending {
		return nil, ErrFinalized
	}

	if _, err := tx.ExecContext(ctx, `UPDATE payments SET status = ?, approved_at = NOW() WHERE id = ?`, string(models.PaymentApproved), id); err != nil {
		return nil, fmt.Errorf("approve payment: %w", err)
	}

	const credit = `
UPDATE users SET messages_left = messages_left + ?, images_left = images_left + ?, premium_status = ?, total_spent = total_spent + ?
WHERE telegram_id = ?`
	if _, err := tx.ExecContext(ctx, credit, messages, images, string(models.PremiumActive), amount, userID); err != nil {
		return nil, fmt.Errorf("apply payment credit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit approve tx: %w", err)
	}
	return s.GetPayment(ctx, id)
}

func (s *MySQLStore) RejectPayment(ctx context.Context, id string) (*models.Payment, error) {
	const query = `UPDATE payments SET status = ?, rejected_at = NOW() WHERE id = ? AND status = ?`
	res, err := s.db.ExecContext(ctx, query, string(models.PaymentRejected), id, string(models.PaymentPending))
	if err != nil {
		return nil, fmt.Errorf("reject payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("reject rows affected: %w", err)
	}
	if affected == 0 {
		payment, getErr := s.GetPayment(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if payment.Status != models.PaymentPending {
			return nil, ErrFinalized
		}
		return nil, fmt.Errorf("reject payment: no rows updated")
	}
	return s.GetPayment(ctx, id)
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	var p models.Payment
	var status string
	var received int
	var utrDate, shotDate, approvedAt, rejectedAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.UserID, &p.Tier, &p.Amount, &p.Messages, &p.Images,
		&status, &p.UTRID, &utrDate, &received, &shotDate, &p.ScreenshotURL,
		&p.CreatedAt, &approvedAt, &rejectedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	p.Status = models.PaymentStatus(status)
	p.ScreenshotReceived = received != 0
	if utrDate.Valid {
		p.UTRDate = &utrDate.Time
	}
	if shotDate.Valid {
		p.ScreenshotDate = &shotDate.Time
	}
	if approvedAt.Valid {
		p.ApprovedAt = &approvedAt.Time
	}
	if rejectedAt.Valid {
		p.RejectedAt = &rejectedAt.Time
	}
	return &p, nil
}
