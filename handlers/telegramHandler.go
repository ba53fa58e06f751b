package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"omnibot/models"
	"omnibot/services/markdown"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const processingText = "⏳ Processing..."

const unavailableText = "Sorry, I'm temporarily unavailable. Please try again in a moment."

const helpText = `Available commands:
/start - Start the bot
/help - Show this help message

I am Omni Agent, your blockchain and cryptocurrency assistant. You can ask me about:

• Blockchain technology and concepts
• Cryptocurrencies and tokens
• DeFi (Decentralized Finance)
• NFTs and Web3
• Crypto markets and news
• Latest blockchain developments

Just send me a message with your blockchain-related question!`

// AgentService runs the dispatch loop for one user turn.
type AgentService interface {
	Respond(ctx context.Context, userID int64, history []models.AgentMessage) (string, []models.AgentMessage, error)
}

// SessionStore keeps one conversation transcript per chat.
type SessionStore interface {
	History(chatID int64) []models.AgentMessage
	Update(chatID int64, messages []models.AgentMessage)
	Reset(chatID int64)
}

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// TelegramHandler maps inbound chat messages onto dispatch loop
// invocations and relays the replies.
type TelegramHandler struct {
	api         telegramAPI
	agent       AgentService
	sessions    SessionStore
	taskTimeout time.Duration
}

func NewTelegramHandler(bot *tgbotapi.BotAPI, agent AgentService, sessions SessionStore, taskTimeout time.Duration) *TelegramHandler {
	if taskTimeout <= 0 {
		taskTimeout = 2 * time.Minute
	}
	return &TelegramHandler{
		api:         bot,
		agent:       agent,
		sessions:    sessions,
		taskTimeout: taskTimeout,
	}
}

// Run polls for updates until the context is cancelled. Each message is
// handled on its own goroutine so one slow dispatch never blocks other
// chats.
func (h *TelegramHandler) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := h.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			go h.handleMessage(ctx, update.Message)
		}
	}
}

func (h *TelegramHandler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		h.handleCommand(msg)
		return
	}

	chatID := msg.Chat.ID
	userID := senderID(msg)
	log.Printf("[INFO] Received message from user %d in chat %d: %s", userID, chatID, msg.Text)

	if resetRequested(msg.Text) {
		h.sessions.Reset(chatID)
	}

	if _, err := h.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Printf("[ERROR] Failed to send typing action: %v", err)
	}

	processing, processingErr := h.api.Send(tgbotapi.NewMessage(chatID, processingText))
	if processingErr != nil {
		log.Printf("[ERROR] Failed to send processing message: %v", processingErr)
	}

	taskCtx, cancel := context.WithTimeout(ctx, h.taskTimeout)
	defer cancel()

	history := append(h.sessions.History(chatID), models.AgentMessage{
		Role:    models.RoleUser,
		Content: msg.Text,
	})

	reply, updated, err := h.agent.Respond(taskCtx, userID, history)

	if processingErr == nil {
		if _, err := h.api.Request(tgbotapi.NewDeleteMessage(chatID, processing.MessageID)); err != nil {
			log.Printf("[ERROR] Failed to delete processing message: %v", err)
		}
	}

	if err != nil {
		log.Printf("[ERROR] Dispatch failed for chat %d: %v", chatID, err)
		h.sendPlain(chatID, unavailableText)
		return
	}

	h.sessions.Update(chatID, updated)
	h.sendReply(chatID, reply)
}

func (h *TelegramHandler) handleCommand(msg *tgbotapi.Message) {
	log.Printf("[INFO] Received command /%s in chat %d", msg.Command(), msg.Chat.ID)

	switch msg.Command() {
	case "start":
		h.sendPlain(msg.Chat.ID, greetingFor(senderFirstName(msg)))
	case "help":
		h.sendPlain(msg.Chat.ID, helpText)
	default:
		h.sendPlain(msg.Chat.ID, "Unknown command. Try /help for a list of what I can do.")
	}
}

// sendReply prefers Telegram HTML when the markdown formatter produced any
// formatting, falling back to plain text when Telegram rejects the markup.
func (h *TelegramHandler) sendReply(chatID int64, reply string) {
	formatted, isHTML := markdown.ToHTML(reply)

	if isHTML {
		out := tgbotapi.NewMessage(chatID, formatted)
		out.ParseMode = tgbotapi.ModeHTML
		out.DisableWebPagePreview = true
		if _, err := h.api.Send(out); err == nil {
			return
		} else {
			log.Printf("[ERROR] Failed to send HTML reply, retrying as plain text: %v", err)
		}
	}

	h.sendPlain(chatID, reply)
}

func (h *TelegramHandler) sendPlain(chatID int64, text string) {
	out := tgbotapi.NewMessage(chatID, text)
	out.DisableWebPagePreview = true
	if _, err := h.api.Send(out); err != nil {
		log.Printf("[ERROR] Failed to send message to chat %d: %v", chatID, err)
	}
}

func greetingFor(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`Hi %s!

I'm Omni Agent, your blockchain and cryptocurrency assistant.

Can I help you with anything?`, name)
}

// resetRequested reports whether the user asked to start the conversation
// over.
func resetRequested(text string) bool {
	lowered := strings.ToLower(text)
	return strings.Contains(lowered, "reset") || strings.Contains(lowered, "clear")
}

func senderID(msg *tgbotapi.Message) int64 {
	if msg.From == nil {
		return 0
	}
	return msg.From.ID
}

func senderFirstName(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return ""
	}
	return msg.From.FirstName
}
