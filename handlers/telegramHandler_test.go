package handlers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"omnibot/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeBotAPI struct {
	mu        sync.Mutex
	sent      []tgbotapi.Chattable
	requested []tgbotapi.Chattable
	sendErr   error
	nextID    int
}

func (f *fakeBotAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeBotAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBotAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (f *fakeBotAPI) StopReceivingUpdates() {}

func (f *fakeBotAPI) sentMessages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg)
		}
	}
	return out
}

func (f *fakeBotAPI) lastMessage(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	messages := f.sentMessages()
	if len(messages) == 0 {
		t.Fatal("no messages were sent")
	}
	return messages[len(messages)-1]
}

type fakeAgent struct {
	reply       string
	err         error
	gotUserID   int64
	gotHistory  []models.AgentMessage
	transcripts []models.AgentMessage
}

func (a *fakeAgent) Respond(ctx context.Context, userID int64, history []models.AgentMessage) (string, []models.AgentMessage, error) {
	a.gotUserID = userID
	a.gotHistory = history
	if a.err != nil {
		return "", history, a.err
	}
	a.transcripts = append(append([]models.AgentMessage{}, history...), models.AgentMessage{
		Role:    models.RoleAssistant,
		Content: a.reply,
	})
	return a.reply, a.transcripts, nil
}

type fakeSessions struct {
	history []models.AgentMessage
	updated map[int64][]models.AgentMessage
	resets  []int64
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{updated: make(map[int64][]models.AgentMessage)}
}

func (s *fakeSessions) History(chatID int64) []models.AgentMessage { return s.history }
func (s *fakeSessions) Update(chatID int64, messages []models.AgentMessage) {
	s.updated[chatID] = messages
}
func (s *fakeSessions) Reset(chatID int64) { s.resets = append(s.resets, chatID) }

func newTestHandler(api telegramAPI, agent AgentService, sessions SessionStore) *TelegramHandler {
	return &TelegramHandler{
		api:         api,
		agent:       agent,
		sessions:    sessions,
		taskTimeout: time.Second,
	}
}

func textMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: 7},
		From: &tgbotapi.User{ID: 9, FirstName: "Ada"},
	}
}

func commandMessage(cmd string) *tgbotapi.Message {
	msg := textMessage(cmd)
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	return msg
}

func TestHandleMessageSuccess(t *testing.T) {
	api := &fakeBotAPI{}
	agent := &fakeAgent{reply: "**ETH is $3000**"}
	sessions := newFakeSessions()
	handler := newTestHandler(api, agent, sessions)

	handler.handleMessage(context.Background(), textMessage("price of eth?"))

	if agent.gotUserID != 9 {
		t.Errorf("expected user ID 9, got %d", agent.gotUserID)
	}
	if len(agent.gotHistory) != 1 || agent.gotHistory[0].Content != "price of eth?" {
		t.Errorf("unexpected history passed to agent: %v", agent.gotHistory)
	}

	// The transcript from a successful dispatch is committed.
	if len(sessions.updated[7]) != 2 {
		t.Errorf("expected session update with 2 messages, got %v", sessions.updated[7])
	}

	// The formatted reply goes out as Telegram HTML.
	last := api.lastMessage(t)
	if last.Text != "<b>ETH is $3000</b>" {
		t.Errorf("unexpected reply text: %q", last.Text)
	}
	if last.ParseMode != tgbotapi.ModeHTML {
		t.Errorf("expected HTML parse mode, got %q", last.ParseMode)
	}
	if !last.DisableWebPagePreview {
		t.Error("expected web page previews to be disabled")
	}
}

func TestHandleMessageDeletesProcessingPlaceholder(t *testing.T) {
	api := &fakeBotAPI{}
	handler := newTestHandler(api, &fakeAgent{reply: "ok"}, newFakeSessions())

	handler.handleMessage(context.Background(), textMessage("hello"))

	messages := api.sentMessages()
	if len(messages) < 2 || messages[0].Text != processingText {
		t.Fatalf("expected the processing placeholder to be sent first, got %v", messages)
	}

	var deleted bool
	for _, c := range api.requested {
		if del, ok := c.(tgbotapi.DeleteMessageConfig); ok && del.MessageID == 1 {
			deleted = true
		}
	}
	if !deleted {
		t.Error("expected the processing placeholder to be deleted")
	}
}

func TestHandleMessageAgentError(t *testing.T) {
	api := &fakeBotAPI{}
	agent := &fakeAgent{err: errors.New("model call failed")}
	sessions := newFakeSessions()
	handler := newTestHandler(api, agent, sessions)

	handler.handleMessage(context.Background(), textMessage("hello"))

	if len(sessions.updated) != 0 {
		t.Errorf("failed dispatch must not commit the transcript, got %v", sessions.updated)
	}
	if last := api.lastMessage(t); last.Text != unavailableText {
		t.Errorf("expected unavailable notice, got %q", last.Text)
	}
}

func TestHandleMessageResetKeyword(t *testing.T) {
	sessions := newFakeSessions()
	handler := newTestHandler(&fakeBotAPI{}, &fakeAgent{reply: "fresh start"}, sessions)

	handler.handleMessage(context.Background(), textMessage("please reset our conversation"))

	if len(sessions.resets) != 1 || sessions.resets[0] != 7 {
		t.Errorf("expected one reset for chat 7, got %v", sessions.resets)
	}
}

func TestHandleCommands(t *testing.T) {
	tests := []struct {
		command string
		want    string
	}{
		{command: "/start", want: "Hi Ada!"},
		{command: "/help", want: "Available commands:"},
		{command: "/bogus", want: "Unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			api := &fakeBotAPI{}
			handler := newTestHandler(api, &fakeAgent{}, newFakeSessions())

			handler.handleMessage(context.Background(), commandMessage(tt.command))

			if last := api.lastMessage(t); !strings.Contains(last.Text, tt.want) {
				t.Errorf("expected reply containing %q, got %q", tt.want, last.Text)
			}
		})
	}
}

func TestResetRequested(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "please RESET the chat", want: true},
		{text: "clear everything", want: true},
		{text: "what is the price of eth", want: false},
	}

	for _, tt := range tests {
		if got := resetRequested(tt.text); got != tt.want {
			t.Errorf("resetRequested(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestGreetingFor(t *testing.T) {
	if got := greetingFor("Ada"); !strings.Contains(got, "Hi Ada!") {
		t.Errorf("unexpected greeting: %q", got)
	}
	if got := greetingFor("  "); !strings.Contains(got, "Hi there!") {
		t.Errorf("expected fallback greeting, got %q", got)
	}
}
