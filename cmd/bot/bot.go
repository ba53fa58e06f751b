package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"omnibot/config"
	"omnibot/db"
	"omnibot/handlers"
	"omnibot/services"
	"omnibot/services/agent"
	"omnibot/services/tools"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN environment variable is required")
	}

	model, err := buildModelClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize model client: %v", err)
	}

	registry := agent.NewRegistry()
	for _, tool := range buildTools(cfg) {
		if err := registry.Register(tool); err != nil {
			log.Fatalf("Failed to register tool: %v", err)
		}
	}

	var repo db.ConversationRepository
	if cfg.DatabaseURL != "" {
		postgresRepo, err := db.NewPostgresConversationRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize conversation database: %v", err)
		}
		defer postgresRepo.Close()
		repo = postgresRepo
	}

	sessions := services.NewSessionService(cfg.MaxHistoryTurns, cfg.SessionTTL, repo)
	agentService := agent.NewService(model, registry, cfg.MaxToolRounds, agent.DefaultRetryPolicy())

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}

	handler := handlers.NewTelegramHandler(bot, agentService, sessions, cfg.TaskTimeout)

	router := mux.NewRouter()
	handlers.NewStatusHandler(sessions, len(registry.List())).RegisterRoutes(router)

	go func() {
		addr := ":" + cfg.Port
		log.Printf("[INFO] Status server listening on %s", addr)
		if err := http.ListenAndServe(addr, router); err != nil {
			log.Printf("[ERROR] Status server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessions.StartSweeper(ctx, 10*time.Minute)

	log.Printf("[INFO] Bot @%s started with %d tools (%s provider)", bot.Self.UserName, len(registry.List()), cfg.ModelProvider)

	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Bot stopped: %v", err)
	}
	log.Printf("[INFO] Bot shut down")
}

func buildModelClient(cfg *config.Config) (agent.ModelClient, error) {
	switch cfg.ModelProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
		}
		return agent.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.ModelName)
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
		}
		return agent.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.ModelName), nil
	default:
		return nil, fmt.Errorf("unknown MODEL_PROVIDER %q (expected openai or anthropic)", cfg.ModelProvider)
	}
}

func buildTools(cfg *config.Config) []agent.Tool {
	return []agent.Tool{
		tools.NewWebSearchTool(cfg.BraveSearchAPIKey),
		tools.NewTokenPriceTool(cfg.PriceAPIURL),
		tools.NewNewsTool(),
		tools.NewCreateAccountTool(cfg.RelayerAPIURL),
		tools.NewGetAccountTool(cfg.RelayerAPIURL),
		tools.NewGetAccountDetailTool(cfg.RelayerAPIURL),
		tools.NewSwitchAccountTool(cfg.RelayerAPIURL),
		tools.NewCreateTokenTool(cfg.RelayerAPIURL),
		tools.NewCreateNftTool(cfg.RelayerAPIURL),
	}
}
