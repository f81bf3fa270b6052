package models

import "time"

type ChatMood string

const (
	MoodNormal ChatMood = "normal"
	MoodErotic ChatMood = "erotic"
)

type PremiumStatus string

const (
	PremiumFree   PremiumStatus = "free"
	PremiumActive PremiumStatus = "premium"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// User is one Telegram identity with its credit balances and payment-flow flags.
type User struct {
	TelegramID         int64         `json:"telegramId"`
	ReferralCode       string        `json:"referralCode"`
	ReferredBy         string        `json:"referredBy,omitempty"`
	ReferredUsers      []int64       `json:"referredUsers"`
	MessagesLeft       int           `json:"messagesLeft"`
	ImagesLeft         int           `json:"imagesLeft"`
	PremiumStatus      PremiumStatus `json:"premiumStatus"`
	TotalSpent         int           `json:"totalSpent"`
	ChatMood           ChatMood      `json:"chatMood"`
	HasJoinedChannel   bool          `json:"hasJoinedChannel"`
	AwaitingUTR        bool          `json:"awaitingUTR"`
	AwaitingScreenshot bool          `json:"awaitingScreenshot"`
	PendingPaymentID   string        `json:"pendingPaymentId,omitempty"`
	PendingUTR         string        `json:"pendingUTR,omitempty"`
	JoinedAt           time.Time     `json:"joinedAt"`
	LastActive         time.Time     `json:"lastActive"`
}

// Payment is one purchase attempt. Status is terminal once it leaves pending.
type Payment struct {
	ID                 string        `json:"id"`
	UserID             int64         `json:"userId"`
	Tier               int           `json:"tier"`
	Amount             int           `json:"amount"`
	Messages           int           `json:"messages"`
	Images             int           `json:"images"`
	Status             PaymentStatus `json:"status"`
	UTRID              string        `json:"utrId,omitempty"`
	UTRDate            *time.Time    `json:"utrDate,omitempty"`
	ScreenshotReceived bool          `json:"screenshotReceived"`
	ScreenshotDate     *time.Time    `json:"screenshotDate,omitempty"`
	ScreenshotURL      string        `json:"screenshotUrl,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	ApprovedAt         *time.Time    `json:"approvedAt,omitempty"`
	RejectedAt         *time.Time    `json:"rejectedAt,omitempty"`
}

// Stats is the aggregate view served to the admin dashboard.
type Stats struct {
	TotalUsers      int `json:"totalUsers"`
	ActiveUsers     int `json:"activeUsers"`
	PremiumUsers    int `json:"premiumUsers"`
	PendingPayments int `json:"pendingPayments"`
	TotalRevenue    int `json:"totalRevenue"`
}
