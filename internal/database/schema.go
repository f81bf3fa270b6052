package database

const schema = `
CREATE TABLE IF NOT EXISTS users (
    telegram_id BIGINT PRIMARY KEY,
    referral_code VARCHAR(16) NOT NULL UNIQUE,
    referred_by VARCHAR(16),
    messages_left INT NOT NULL DEFAULT 0,
    images_left INT NOT NULL DEFAULT 0,
    premium_status VARCHAR(16) NOT NULL DEFAULT 'free',
    total_spent INT NOT NULL DEFAULT 0,
    chat_mood VARCHAR(16) NOT NULL DEFAULT 'normal',
    has_joined_channel TINYINT(1) NOT NULL DEFAULT 0,
    awaiting_utr TINYINT(1) NOT NULL DEFAULT 0,
    awaiting_screenshot TINYINT(1) NOT NULL DEFAULT 0,
    pending_payment_id CHAR(36),
    pending_utr VARCHAR(16),
    joined_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_active TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS referrals (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    referrer_id BIGINT NOT NULL,
    invitee_id BIGINT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE KEY uniq_referrer_invitee (referrer_id, invitee_id),
    FOREIGN KEY (referrer_id) REFERENCES users(telegram_id)
);

CREATE TABLE IF NOT EXISTS payments (
    id CHAR(36) PRIMARY KEY,
    user_id BIGINT NOT NULL,
    tier INT NOT NULL,
    amount INT NOT NULL,
    messages INT NOT NULL,
    images INT NOT NULL,
    status VARCHAR(16) NOT NULL DEFAULT 'pending',
    utr_id VARCHAR(16),
    utr_date TIMESTAMP NULL,
    screenshot_received TINYINT(1) NOT NULL DEFAULT 0,
    screenshot_date TIMESTAMP NULL,
    screenshot_url TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    approved_at TIMESTAMP NULL,
    rejected_at TIMESTAMP NULL,
    FOREIGN KEY (user_id) REFERENCES users(telegram_id)
);
`
