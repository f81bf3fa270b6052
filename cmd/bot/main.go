package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Arslanmonuahmad/tiplu/internal/admin"
	"github.com/Arslanmonuahmad/tiplu/internal/config"
	"github.com/Arslanmonuahmad/tiplu/internal/database"
	"github.com/Arslanmonuahmad/tiplu/internal/horde"
	"github.com/Arslanmonuahmad/tiplu/internal/media"
	"github.com/Arslanmonuahmad/tiplu/internal/repository"
	"github.com/Arslanmonuahmad/tiplu/internal/service"
	"github.com/Arslanmonuahmad/tiplu/internal/storage"
	"github.com/Arslanmonuahmad/tiplu/internal/telegram"
	"github.com/Arslanmonuahmad/tiplu/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logr := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store repository.Store
	switch cfg.StorageDriver {
	case "mysql":
		db, err := database.Connect(cfg)
		if err != nil {
			log.Fatalf("database connect: %v", err)
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("database migrate: %v", err)
		}
		store = repository.NewMySQLStore(db)
	case "file":
		fileStore, err := repository.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("file store: %v", err)
		}
		store = fileStore
	default:
		log.Fatalf("unsupported storage driver: %s", cfg.StorageDriver)
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("telegram bot: %v", err)
	}

	hordeClient := horde.NewClient(cfg, logr)
	library := media.NewLibrary(cfg.ImagesDir)

	userService := service.NewUserService(cfg, store)
	paymentService := service.NewPaymentService(cfg, store)
	chatService := service.NewChatService(cfg, store, hordeClient)

	var uploader telegram.ImageStorage
	if cfg.S3Configured() {
		s3Uploader, err := storage.NewUploader(storage.Config{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			PublicBaseURL: cfg.S3PublicBaseURL,
			UsePathStyle:  cfg.S3UsePathStyle,
			Prefix:        cfg.S3Prefix,
		})
		if err != nil {
			log.Fatalf("storage uploader: %v", err)
		}
		uploader = s3Uploader
	}

	bot := telegram.NewBot(cfg, botAPI, logr, userService, paymentService, chatService, library, uploader)

	adminServer, err := admin.NewServer(cfg.AdminListenAddr, cfg.AdminUsername, cfg.AdminPassword, cfg.SessionSecret, logr, userService, paymentService)
	if err != nil {
		log.Fatalf("admin server: %v", err)
	}
	go func() {
		if err := adminServer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logr.Error("admin server stopped", "err", err)
		}
	}()

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logr.Error("bot stopped", "err", err)
	}
}
