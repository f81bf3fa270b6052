package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Tier is one purchasable bundle of message and image credits.
type Tier struct {
	Number   int
	Price    int
	Messages int
	Images   int
}

// Config aggregates runtime configuration for the bot and supporting services.
type Config struct {
	BotToken string
	BotName  string

	StorageDriver string
	MySQLDSN      string
	DataDir       string

	StartingMessages      int
	StartingImages        int
	ReferralBonusMessages int
	ReferralBonusImages   int

	Tiers [2]Tier
	UPIID string

	HordeAPIKey       string
	HordeBaseURL      string
	HordeModels       []string
	HordePollInterval time.Duration
	HordePollAttempts int
	RequestTimeout    time.Duration
	ChargeOnFallback  bool

	SubscriptionChannelURL      string
	SubscriptionChannelUsername string
	SubscriptionChannelID       int64

	ImagesDir string

	AdminListenAddr string
	AdminUsername   string
	AdminPassword   string
	SessionSecret   string

	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3PublicBaseURL string
	S3UsePathStyle  bool
	S3Prefix        string
}

var defaultHordeModels = []string{
	"koboldcpp/LLaMA2-13B-Tiefighter",
	"koboldcpp/Nous-Hermes-2-Mistral-7B-DPO",
	"koboldcpp/Mistral-7B-Instruct-v0.3",
	"koboldcpp/Llama-3-8B-Instruct",
	"koboldcpp/LLaMA2-13B-Psyfighter2",
}

// Load reads configuration from environment variables, applying sane defaults.
func Load() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		BotName:               getEnv("BOT_NAME", "Lily"),
		StorageDriver:         strings.ToLower(getEnv("STORAGE_DRIVER", "mysql")),
		DataDir:               getEnv("DATA_DIR", "data"),
		StartingMessages:      getInt("STARTING_MESSAGES", 10),
		StartingImages:        getInt("STARTING_IMAGES", 3),
		ReferralBonusMessages: getInt("REFERRAL_BONUS_MESSAGES", 10),
		ReferralBonusImages:   getInt("REFERRAL_BONUS_IMAGES", 2),
		UPIID:                 getEnv("UPI_ID", ""),
		HordeBaseURL:          getEnv("HORDE_BASE_URL", "https://aihorde.net"),
		HordeModels:           splitCSV(getEnv("HORDE_MODELS", "")),
		HordePollInterval:     time.Second * time.Duration(getInt("HORDE_POLL_INTERVAL_SECONDS", 3)),
		HordePollAttempts:     getInt("HORDE_POLL_ATTEMPTS", 40),
		RequestTimeout:        time.Second * time.Duration(getInt("HTTP_TIMEOUT_SECONDS", 30)),
		ChargeOnFallback:      getBool("CHARGE_ON_FALLBACK", true),

		SubscriptionChannelURL:      getEnv("SUBSCRIPTION_CHANNEL_URL", ""),
		SubscriptionChannelUsername: normalizeChannelUsername(getEnv("SUBSCRIPTION_CHANNEL_USERNAME", "")),
		SubscriptionChannelID:       getInt64("SUBSCRIPTION_CHANNEL_ID", 0),

		ImagesDir: getEnv("IMAGES_DIR", "images"),

		AdminListenAddr: getEnv("ADMIN_LISTEN_ADDR", ":3000"),
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "change-me"),

		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3Region:        os.Getenv("S3_REGION"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		S3UsePathStyle:  getBool("S3_USE_PATH_STYLE", false),
		S3Prefix:        getEnv("S3_PREFIX", "screenshots"),
	}

	cfg.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.MySQLDSN = os.Getenv("MYSQL_DSN")
	cfg.HordeAPIKey = os.Getenv("HORDE_API_KEY")
	cfg.SessionSecret = os.Getenv("SESSION_SECRET")

	cfg.Tiers = [2]Tier{
		{
			Number:   1,
			Price:    getInt("TIER_1_PRICE", 99),
			Messages: getInt("TIER_1_MESSAGES", 100),
			Images:   getInt("TIER_1_IMAGES", 20),
		},
		{
			Number:   2,
			Price:    getInt("TIER_2_PRICE", 199),
			Messages: getInt("TIER_2_MESSAGES", 250),
			Images:   getInt("TIER_2_IMAGES", 50),
		},
	}

	if len(cfg.HordeModels) == 0 {
		cfg.HordeModels = append([]string(nil), defaultHordeModels...)
	}

	if cfg.SubscriptionChannelUsername == "" && cfg.SubscriptionChannelURL != "" {
		if username := extractChannelUsername(cfg.SubscriptionChannelURL); username != "" {
			cfg.SubscriptionChannelUsername = username
		}
	}

	var missing []string
	if cfg.BotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if cfg.HordeAPIKey == "" {
		missing = append(missing, "HORDE_API_KEY")
	}
	if cfg.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if cfg.UPIID == "" {
		missing = append(missing, "UPI_ID")
	}
	switch cfg.StorageDriver {
	case "mysql":
		if cfg.MySQLDSN == "" {
			missing = append(missing, "MYSQL_DSN")
		}
	case "file":
	default:
		return Config{}, fmt.Errorf("unsupported STORAGE_DRIVER: %s", cfg.StorageDriver)
	}
	if cfg.S3Bucket != "" {
		if cfg.S3Region == "" {
			missing = append(missing, "S3_REGION")
		}
		if cfg.S3AccessKey == "" {
			missing = append(missing, "S3_ACCESS_KEY")
		}
		if cfg.S3SecretKey == "" {
			missing = append(missing, "S3_SECRET_KEY")
		}
		if cfg.S3PublicBaseURL == "" {
			missing = append(missing, "S3_PUBLIC_BASE_URL")
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %v", missing)
	}

	if !validateUPI(cfg.UPIID) {
		return Config{}, fmt.Errorf("UPI_ID %q is not a valid UPI identifier", cfg.UPIID)
	}

	return cfg, nil
}

// Tier returns the configured tier by number, or nil for an unknown number.
func (c Config) Tier(number int) *Tier {
	for i := range c.Tiers {
		if c.Tiers[i].Number == number {
			return &c.Tiers[i]
		}
	}
	return nil
}

// S3Configured reports whether screenshot uploads should go to object storage.
func (c Config) S3Configured() bool {
	return c.S3Bucket != ""
}

var upiPattern = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)

// validateUPI checks the conventional local@handle shape of a UPI id.
func validateUPI(id string) bool {
	return upiPattern.MatchString(id)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadEnvFile() error {
	candidates := []string{}
	if custom, ok := os.LookupEnv("CONFIG_ENV_PATH"); ok && custom != "" {
		candidates = append(candidates, custom)
	}
	candidates = append(candidates,
		filepath.Join("configs", ".env"),
		".env",
	)

	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("access env file %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}
		if err := godotenv.Overload(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}
	// Running purely on the ambient environment is fine.
	return nil
}

func normalizeChannelUsername(username string) string {
	username = strings.TrimSpace(username)
	username = strings.TrimPrefix(username, "@")
	return username
}

func extractChannelUsername(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		if parsed, err := url.Parse(raw); err == nil {
			path := strings.Trim(parsed.Path, "/")
			if path != "" {
				return normalizeChannelUsername(path)
			}
		}
	}
	if strings.HasPrefix(raw, "t.me/") {
		raw = strings.TrimPrefix(raw, "t.me/")
	}
	return normalizeChannelUsername(raw)
}
