package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the bot reads from the environment.
type Config struct {
	TelegramBotToken string

	ModelProvider   string
	ModelName       string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	BraveSearchAPIKey string
	PriceAPIURL       string
	RelayerAPIURL     string

	DatabaseURL string
	Port        string

	MaxToolRounds   int
	MaxHistoryTurns int
	SessionTTL      time.Duration
	TaskTimeout     time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] No .env file found, using process environment")
	}

	return &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		ModelProvider:   envOr("MODEL_PROVIDER", "openai"),
		ModelName:       os.Getenv("MODEL_NAME"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),

		BraveSearchAPIKey: os.Getenv("BRAVE_SEARCH_API_KEY"),
		PriceAPIURL:       os.Getenv("API_URL"),
		RelayerAPIURL:     os.Getenv("API_RELAYER_URL"),

		DatabaseURL: os.Getenv("DB_URL"),
		Port:        envOr("PORT", "8080"),

		MaxToolRounds:   envInt("MAX_TOOL_ROUNDS", 5),
		MaxHistoryTurns: envInt("MAX_HISTORY_TURNS", 20),
		SessionTTL:      envDuration("SESSION_TTL", 2*time.Hour),
		TaskTimeout:     envDuration("TASK_TIMEOUT", 2*time.Minute),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[ERROR] Invalid value for %s: %q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[ERROR] Invalid value for %s: %q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}
