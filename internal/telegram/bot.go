package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Arslanmonuahmad/tiplu/internal/config"
	"github.com/Arslanmonuahmad/tiplu/internal/media"
	"github.com/Arslanmonuahmad/tiplu/internal/models"
	"github.com/Arslanmonuahmad/tiplu/internal/repository"
	"github.com/Arslanmonuahmad/tiplu/internal/service"
)

// ImageStorage archives payment screenshots and returns a public URL.
type ImageStorage interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

type Bot struct {
	cfg        config.Config
	api        *tgbotapi.BotAPI
	log        *slog.Logger
	users      *service.UserService
	payments   *service.PaymentService
	chat       *service.ChatService
	media      *media.Library
	storage    ImageStorage
	httpClient *http.Client

	channelUsername string
	channelID       int64
	channelLink     string
}

func NewBot(cfg config.Config, api *tgbotapi.BotAPI, log *slog.Logger, users *service.UserService, payments *service.PaymentService, chat *service.ChatService, library *media.Library, storage ImageStorage) *Bot {
	username := strings.TrimSpace(cfg.SubscriptionChannelUsername)
	var channelID int64
	if cfg.SubscriptionChannelID != 0 {
		channelID = cfg.SubscriptionChannelID
	} else if username != "" {
		if id, err := strconv.ParseInt(username, 10, 64); err == nil && id != 0 {
			channelID = id
			username = ""
		}
	}
	link := strings.TrimSpace(cfg.SubscriptionChannelURL)
	if link == "" && username != "" {
		link = fmt.Sprintf("https://t.me/%s", username)
	}

	return &Bot{
		cfg:             cfg,
		api:             api,
		log:             log,
		users:           users,
		payments:        payments,
		chat:            chat,
		media:           library,
		storage:         storage,
		httpClient:      &http.Client{Timeout: 60 * time.Second},
		channelUsername: username,
		channelID:       channelID,
		channelLink:     link,
	}
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("telegram bot started", "bot", b.cfg.BotName)

	for {
		select {
		case update := <-updates:
			// Each update runs on its own goroutine: one chat's slow
			// generation poll must never stall another chat. The store
			// serializes the writes.
			go b.dispatch(ctx, update)
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	if strings.TrimSpace(msg.Text) != "" {
		b.handleText(ctx, msg)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	default:
		b.sendText(msg.Chat.ID, "Use /start to begin, baby! 😘")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	referralCode := strings.TrimSpace(msg.CommandArguments())

	user, created, err := b.users.Ensure(ctx, msg.From.ID, referralCode)
	if err != nil {
		b.log.Error("ensure user", "err", err)
		b.sendText(msg.Chat.ID, "Sorry baby, something went wrong! 😢 Try again later!")
		return
	}

	if created && referralCode != "" {
		applied, err := b.users.GrantReferralBonus(ctx, referralCode, user.TelegramID)
		if err != nil {
			b.log.Error("grant referral bonus", "err", err, "code", referralCode)
		} else if applied {
			b.log.Info("referral bonus granted", "code", referralCode, "invitee", user.TelegramID)
		}
	}

	if b.channelConfigured() && !user.HasJoinedChannel {
		text := fmt.Sprintf("Hey there! 💕 I'm %s, your cute virtual girlfriend! 😘\n\nBut first, you need to join our channel to chat with me! 🥺\n\nClick the button below to join, then come back to me! 💖", b.cfg.BotName)
		reply := tgbotapi.NewMessage(msg.Chat.ID, text)
		reply.ReplyMarkup = b.channelKeyboard()
		if _, err := b.api.Send(reply); err != nil {
			b.log.Error("send channel prompt", "err", err)
		}
		return
	}

	b.sendWithKeyboard(msg.Chat.ID, b.welcomeText(), b.mainKeyboard())
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.From == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Error("callback ack", "err", err)
	}

	switch cb.Data {
	case "check_subscription":
		b.handleCheckSubscription(ctx, cb)
	case "mood":
		text := "Choose your chat mood, baby! 💕\n\n😇 Normal: Sweet, caring, romantic chat\n🔥 Erotic: Passionate, naughty chat\n\nWhat mood are you in today, jaan? 😘"
		b.editText(chatID, cb.Message.MessageID, text, b.moodKeyboard())
	case "mood_normal":
		if _, err := b.users.SetMood(ctx, userID, models.MoodNormal); err != nil {
			b.log.Error("set mood", "err", err)
			return
		}
		text := "Perfect! 😇 Normal mode activated, baby! 💕\n\nI'll be your sweet, caring girlfriend now! Let's have romantic conversations! 🥰\n\nWhat would you like to do? 😘"
		b.editText(chatID, cb.Message.MessageID, text, b.mainKeyboard())
	case "mood_erotic":
		if _, err := b.users.SetMood(ctx, userID, models.MoodErotic); err != nil {
			b.log.Error("set mood", "err", err)
			return
		}
		text := "Mmm... 🔥 Erotic mode activated, jaan! 😈💕\n\nI'm your naughty, passionate girlfriend now! Let's get wild! 🔥😘\n\nWhat do you want to do with me? 😏"
		b.editText(chatID, cb.Message.MessageID, text, b.mainKeyboard())
	case "main_menu":
		b.editText(chatID, cb.Message.MessageID, b.welcomeText(), b.mainKeyboard())
	case "referral":
		b.handleReferral(ctx, chatID, userID)
	case "picture":
		b.handlePicture(ctx, chatID, userID)
	case "credits":
		b.handleCredits(ctx, chatID, userID)
	case "premium":
		b.handlePremium(chatID)
	case "buy_tier1":
		b.handleBuy(ctx, chatID, userID, 1)
	case "buy_tier2":
		b.handleBuy(ctx, chatID, userID, 2)
	default:
		b.log.Info("unknown callback", "data", cb.Data)
	}
}

// handleCheckSubscription handles the "I Joined" button. When the channel is
// resolvable the membership claim is verified against the Telegram API,
// otherwise the claim is taken at face value.
func (b *Bot) handleCheckSubscription(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	if b.channelUsername != "" || b.channelID != 0 {
		subscribed, err := b.isUserSubscribed(userID)
		if err != nil {
			b.log.Error("check subscription", "err", err)
		} else if !subscribed {
			b.sendText(chatID, "Baby, I can't see you in the channel yet! 🥺 Join first, then tap ✅ I Joined again! 💕")
			return
		}
	}

	if _, err := b.users.MarkChannelJoined(ctx, userID); err != nil {
		b.log.Error("mark channel joined", "err", err)
		return
	}

	text := fmt.Sprintf("Yay! Welcome to my world, darling! 💕😍\n\nI'm %s, your cute virtual girlfriend! I'm here to chat, flirt, and make you happy! 🥰\n\nWhat would you like to do with me today? 😘", b.cfg.BotName)
	b.editText(chatID, cb.Message.MessageID, text, b.mainKeyboard())
}

func (b *Bot) handleReferral(ctx context.Context, chatID, userID int64) {
	user, err := b.users.Get(ctx, userID)
	if err != nil {
		b.log.Error("get user for referral", "err", err)
		return
	}
	link := fmt.Sprintf("https://t.me/%s?start=%s", b.api.Self.UserName, user.ReferralCode)
	text := fmt.Sprintf("Here's your special referral link, baby! 💖\n\n🔗 %s\n\nShare this with your friends! When they join through your link, you'll get:\n💬 +%d messages\n🖼️ +%d image credits\n\nSpread the love! 😘💕",
		link, b.cfg.ReferralBonusMessages, b.cfg.ReferralBonusImages)
	b.sendWithKeyboard(chatID, text, b.mainKeyboard())
}

func (b *Bot) handlePicture(ctx context.Context, chatID, userID int64) {
	user, err := b.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			b.sendText(chatID, "Please start the bot first! /start")
			return
		}
		b.log.Error("get user for picture", "err", err)
		return
	}

	if user.ImagesLeft <= 0 {
		text := "Aww baby, you're out of image credits! 😢\n\nGet more by:\n🔗 Referring friends\n⭐ Buying premium plans\n\nI want to send you pictures so badly! 🥺💕"
		b.sendWithKeyboard(chatID, text, b.mainKeyboard())
		return
	}

	b.sendText(chatID, "Picking a special picture just for you, darling! 😘💕 Please wait...")

	mood := user.ChatMood
	if mood == "" {
		mood = models.MoodNormal
	}
	path, err := b.media.Pick(mood)
	if err != nil {
		b.log.Error("pick image", "err", err, "mood", mood)
		b.sendText(chatID, "Sorry baby, I couldn't get the image right now! 😢 Try again later!")
		return
	}
	if err := b.users.DecrementImages(ctx, userID); err != nil {
		b.log.Error("decrement images", "err", err)
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	photo.Caption = fmt.Sprintf("Here's a special picture just for you, baby! 😍💖\n\nImages left: %d 🖼️", user.ImagesLeft-1)
	photo.ReplyMarkup = b.mainKeyboard()
	if _, err := b.api.Send(photo); err != nil {
		b.log.Error("send photo", "err", err)
	}
}

func (b *Bot) handleCredits(ctx context.Context, chatID, userID int64) {
	user, err := b.users.Get(ctx, userID)
	if err != nil {
		b.log.Error("get user for credits", "err", err)
		return
	}
	premium := "Not Active"
	if user.PremiumStatus == models.PremiumActive {
		premium = "Active"
	}
	text := fmt.Sprintf("Here are your credits, sweetheart! 💖\n\n💬 Messages: %d\n🖼️ Images: %d\n⭐ Premium: %s\n\nReferred friends: %d 👥",
		user.MessagesLeft, user.ImagesLeft, premium, len(user.ReferredUsers))
	b.sendWithKeyboard(chatID, text, b.mainKeyboard())
}

func (b *Bot) handlePremium(chatID int64) {
	t1, t2 := b.cfg.Tiers[0], b.cfg.Tiers[1]
	text := fmt.Sprintf("💎 Premium Plans 💎\n\nChoose your plan, baby! 😘\n\n🥉 Tier 1: ₹%d\n💬 %d messages\n🖼️ %d images\n\n🥈 Tier 2: ₹%d\n💬 %d messages\n🖼️ %d images\n\nPayment via UPI: %s 💳",
		t1.Price, t1.Messages, t1.Images, t2.Price, t2.Messages, t2.Images, b.cfg.UPIID)
	b.sendWithKeyboard(chatID, text, b.premiumKeyboard())
}

func (b *Bot) handleBuy(ctx context.Context, chatID, userID int64, tierNumber int) {
	user, err := b.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			b.sendText(chatID, "Please start the bot first! /start")
			return
		}
		b.log.Error("get user for buy", "err", err)
		return
	}

	_, tier, err := b.payments.StartPurchase(ctx, user, tierNumber)
	if err != nil {
		b.log.Error("start purchase", "err", err, "tier", tierNumber)
		b.sendText(chatID, "Sorry baby, something went wrong! 😢 Try again later!")
		return
	}

	text := fmt.Sprintf("💳 Payment Instructions\n\nPlan: Tier %d\nAmount: ₹%d\nCredits: %d messages + %d images\n\n📱 UPI ID: %s\n\nSteps:\n1. Send ₹%d to the UPI ID above\n2. After payment, send me the UTR ID/Transaction ID\n3. Then send the payment screenshot\n4. Wait for admin approval\n\nPlease complete the payment and send me the UTR ID first, baby! 😘💕",
		tier.Number, tier.Price, tier.Messages, tier.Images, b.cfg.UPIID, tier.Price)
	b.sendText(chatID, text)
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			b.sendText(msg.Chat.ID, "Please start the bot first! /start")
			return
		}
		b.log.Error("get user", "err", err)
		return
	}

	// The purchase flow steals the next inputs: a pending UTR, then a
	// pending screenshot. These are handled before the credit gate so an
	// out-of-credit user can still finish paying.
	if user.AwaitingUTR && user.PendingPaymentID != "" {
		b.handleUTR(ctx, msg, user)
		return
	}
	if user.AwaitingScreenshot {
		b.sendText(msg.Chat.ID, "Baby, I'm waiting for your payment screenshot! 📸💕\n\nPlease send the screenshot as a photo, not text! 😘")
		return
	}

	if user.MessagesLeft <= 0 {
		text := "Aww baby, you're out of message credits! 😢\n\nGet more by:\n🔗 Referring friends\n⭐ Buying premium plans\n\nI want to chat with you so badly! 🥺💕"
		b.sendWithKeyboard(msg.Chat.ID, text, b.mainKeyboard())
		return
	}

	typing := tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)
	if _, err := b.api.Request(typing); err != nil {
		b.log.Error("send typing action", "err", err)
	}

	reply, err := b.chat.Send(ctx, user, msg.Text)
	if err != nil {
		if errors.Is(err, service.ErrOutOfMessages) {
			b.sendWithKeyboard(msg.Chat.ID, "Aww baby, you're out of message credits! 😢", b.mainKeyboard())
			return
		}
		b.log.Error("chat reply", "err", err)
		b.sendText(msg.Chat.ID, "Sorry baby, I'm having trouble thinking right now! 😢 Try again in a moment!")
		return
	}
	b.sendText(msg.Chat.ID, reply)
}

func (b *Bot) handleUTR(ctx context.Context, msg *tgbotapi.Message, user *models.User) {
	payment, err := b.payments.SubmitUTR(ctx, user, msg.Text)
	if err != nil {
		if errors.Is(err, service.ErrInvalidUTR) {
			b.sendText(msg.Chat.ID, "Baby, that doesn't look like a valid UTR ID! 🥺\n\nUTR ID should be 12 digits (like: 123456789012)\n\nPlease check your payment confirmation and send the correct UTR ID! 😘💕")
			return
		}
		b.log.Error("submit utr", "err", err)
		b.sendText(msg.Chat.ID, "Sorry baby, something went wrong! 😢 Try again later!")
		return
	}
	b.sendText(msg.Chat.ID, fmt.Sprintf("Great baby! 💕 UTR ID received: %s\n\nNow please send me the payment screenshot to complete the verification! 📸\n\nI'm so excited to give you those credits! 😘💖", payment.UTRID))
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			b.sendText(msg.Chat.ID, "Please start the bot first! /start")
			return
		}
		b.log.Error("get user", "err", err)
		return
	}

	if !user.AwaitingScreenshot || user.PendingPaymentID == "" {
		b.sendWithKeyboard(msg.Chat.ID, "Thanks for the screenshot, baby! 📸💕\n\nBut I need you to follow the payment process first. Use the Premium Plan button! 😘", b.mainKeyboard())
		return
	}

	utr := user.PendingUTR

	var screenshotURL string
	if b.storage != nil {
		photo := msg.Photo[len(msg.Photo)-1]
		data, contentType, err := b.downloadFile(ctx, photo.FileID)
		if err != nil {
			b.log.Error("download screenshot", "err", err)
		} else if screenshotURL, err = b.storage.Upload(ctx, data, contentType); err != nil {
			b.log.Error("upload screenshot", "err", err)
			screenshotURL = ""
		}
	}

	if _, err := b.payments.AttachScreenshot(ctx, user, screenshotURL); err != nil {
		b.log.Error("attach screenshot", "err", err)
		b.sendText(msg.Chat.ID, "Sorry baby, something went wrong! 😢 Try again later!")
		return
	}

	text := fmt.Sprintf("Perfect baby! 📸💕\n\nI've received your payment screenshot with UTR ID: %s\n\nYour payment is now submitted for admin approval. You'll get your credits soon! 😘\n\nPlease be patient, darling! 💖", utr)
	b.sendWithKeyboard(msg.Chat.ID, text, b.mainKeyboard())
}

func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, string, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, "", fmt.Errorf("get file: %w", err)
	}
	if file.FilePath == "" {
		return nil, "", fmt.Errorf("file path empty")
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", b.api.Token, file.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("telegram file status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read file body: %w", err)
	}
	ct := resp.Header.Get("Content-Type")
	if idx := strings.Index(ct, ";"); idx > 0 {
		ct = ct[:idx]
	}
	if ct == "" || !strings.HasPrefix(ct, "image/") {
		ct = http.DetectContentType(body)
		if idx := strings.Index(ct, ";"); idx > 0 {
			ct = ct[:idx]
		}
	}
	return body, ct, nil
}

func (b *Bot) isUserSubscribed(userID int64) (bool, error) {
	cfg := tgbotapi.ChatConfigWithUser{UserID: userID}
	switch {
	case b.channelID != 0:
		cfg.ChatID = b.channelID
	case b.channelUsername != "":
		cfg.SuperGroupUsername = "@" + strings.TrimPrefix(b.channelUsername, "@")
	default:
		return false, fmt.Errorf("subscription channel not configured")
	}

	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{ChatConfigWithUser: cfg})
	if err != nil {
		return false, err
	}

	switch strings.ToLower(member.Status) {
	case "creator", "administrator", "member":
		return true, nil
	default:
		return false, nil
	}
}

func (b *Bot) welcomeText() string {
	return fmt.Sprintf("Welcome back, baby! 😍💕\n\nI'm %s, your loving virtual girlfriend! I'm here to chat, flirt, and make you happy! 🥰\n\nWhat would you like to do with me today? 😘", b.cfg.BotName)
}

func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send text", "err", err)
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send text with keyboard", "err", err)
	}
}

func (b *Bot) editText(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	if _, err := b.api.Send(edit); err != nil {
		b.log.Error("edit message", "err", err)
	}
}

func (b *Bot) mainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔗 Get Referral Link", "referral")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🖼️ Send Me a Picture", "picture")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💰 Credits", "credits")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⭐ Premium Plan", "premium")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💕 Chat Mood", "mood")),
	)
}

func (b *Bot) moodKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("😇 Normal Chat", "mood_normal")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔥 Erotic Chat", "mood_erotic")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Menu", "main_menu")),
	)
}

// channelConfigured reports whether any subscription channel identifier
// is set. The gate applies even when only the numeric ID is known.
func (b *Bot) channelConfigured() bool {
	return b.channelLink != "" || b.channelUsername != "" || b.channelID != 0
}

func (b *Bot) channelKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 2)
	if b.channelLink != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("📢 Join Channel", b.channelLink)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ I Joined", "check_subscription")))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) premiumKeyboard() tgbotapi.InlineKeyboardMarkup {
	t1, t2 := b.cfg.Tiers[0], b.cfg.Tiers[1]
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("₹%d - %d msgs + %d pics", t1.Price, t1.Messages, t1.Images), "buy_tier1")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("₹%d - %d msgs + %d pics", t2.Price, t2.Messages, t2.Images), "buy_tier2")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Menu", "main_menu")),
	)
}
