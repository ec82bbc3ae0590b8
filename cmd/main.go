package main

import (
	"context"
	"fmt"

	"craftsmen_marketplace/internal/config"
	"craftsmen_marketplace/internal/entities"
	"craftsmen_marketplace/internal/infrastructure"
	"craftsmen_marketplace/internal/interfaces"
	httpapi "craftsmen_marketplace/internal/interfaces/http"
	"craftsmen_marketplace/internal/repository"
	"craftsmen_marketplace/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mau.fi/whatsmeow/types/events"
)

func main() {
	// Load .env file (optional in containers, env vars win)
	if err := godotenv.Load(); err != nil {
		fmt.Println("[MAIN] no .env file, using environment")
	}

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Connect to PostgreSQL (schema migrates on connect)
	pgClient, err := infrastructure.NewPostgresClient(cfg.DatabaseURL)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}
	defer pgClient.Close()

	// Initialize Repositories
	productRepo := repository.NewProductRepository(pgClient.Pool)
	userRepo := repository.NewUserRepository(pgClient.Pool)
	orderRepo := repository.NewOrderRepository(pgClient.Pool)
	socialRepo := repository.NewSocialPostRepository(pgClient.Pool)
	settingsRepo := repository.NewSettingsRepository(pgClient.Pool)

	// Auth
	authUsecase := usecases.NewAuthUsecase(userRepo, cfg.JWTSecret)
	if err := authUsecase.EnsureAdmin(ctx, "root", "root"); err != nil {
		fmt.Println("[MAIN] Warning: failed to ensure admin user:", err)
	}

	// AI client. The service runs without it, captions fall back to the
	// deterministic template.
	var aiClient interfaces.AIClient
	if gemini, err := infrastructure.NewGeminiClient(ctx, cfg.GeminiAPIKey); err != nil {
		fmt.Println("[MAIN] AI disabled:", err)
	} else {
		aiClient = gemini
	}

	captionService := usecases.NewCaptionService(aiClient)
	responder := usecases.NewResponder(captionService, cfg)

	// Platform publishers
	publishers := []interfaces.Publisher{
		infrastructure.NewFacebookClient(cfg.FacebookAccessToken, cfg.FacebookPageID),
		infrastructure.NewInstagramClient(cfg.InstagramUsername, cfg.InstagramPassword),
	}

	automation := usecases.NewAutomationService(captionService, responder, publishers, cfg)
	automation.Products = productRepo
	automation.SocialPosts = socialRepo
	automation.Hours = settingsRepo

	// Owner notifications via Telegram
	notifier := infrastructure.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramOwnerChatID)
	if notifier.Enabled() {
		automation.Notifier = notifier
	}

	// Image mirror (optional)
	var imageStore *infrastructure.ImageStore
	if cfg.MinioEndpoint != "" {
		imageStore, err = infrastructure.NewImageStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			fmt.Println("[MAIN] Warning: image mirror disabled:", err)
			imageStore = nil
		}
	}

	// Background comment monitor
	monitor := usecases.NewMonitorWorker(automation, socialRepo, cfg)
	go monitor.Start(ctx)
	defer monitor.Stop()

	// WhatsApp DM channel (optional)
	var waClient *infrastructure.WhatsAppClient
	if cfg.WhatsAppEnabled {
		waClient, err = infrastructure.NewWhatsAppClient(cfg.WhatsAppDBPath)
		if err != nil {
			fmt.Println("[MAIN] Warning: WhatsApp disabled:", err)
			waClient = nil
		} else {
			wireWhatsApp(waClient, automation)
			if err := waClient.Connect(); err != nil {
				fmt.Println("[MAIN] Warning: WhatsApp connect failed:", err)
			}
			defer waClient.Disconnect()
		}
	}

	// HTTP API
	r := gin.Default()
	middleware := httpapi.NewMiddleware(cfg.JWTSecret)
	handler := httpapi.NewHandler(automation, productRepo, orderRepo, socialRepo, imageStore, waClient, cfg)
	httpapi.SetupRoutes(r, handler, authUsecase, userRepo, middleware)

	fmt.Println("[MAIN] Server starting on port " + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		panic("Failed to start server: " + err.Error())
	}
}

// wireWhatsApp routes inbound WhatsApp messages through the DM automation
// and sends the reply back on the same chat.
func wireWhatsApp(wa *infrastructure.WhatsAppClient, automation *usecases.AutomationService) {
	wa.AddHandler(func(evt interface{}) {
		msgEvt, ok := evt.(*events.Message)
		if !ok {
			return
		}
		sender, name, content := wa.ParseMessage(msgEvt)
		if content == "" || msgEvt.Info.IsFromMe {
			return
		}

		outcome := automation.HandleDirectMessage(context.Background(), entities.Message{
			From:     sender,
			Content:  content,
			Platform: "whatsapp",
			Sender:   name,
		})
		if outcome.Reply == "" {
			return
		}

		wa.SendPresence(sender)
		if err := wa.SendMessage(sender, outcome.Reply); err != nil {
			fmt.Println("[MAIN] WhatsApp reply failed:", err)
		}
	})
}
