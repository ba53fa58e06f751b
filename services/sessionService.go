package services

import (
	"context"
	"log"
	"sync"
	"time"

	"omnibot/db"
	"omnibot/models"
)

// SessionService owns one Conversation per chat. Sessions are created on
// first message, capped to the most recent turns, and evicted after
// sitting idle longer than the configured TTL. When a repository is
// provided, new turns are also persisted as a transcript.
type SessionService struct {
	mu       sync.Mutex
	sessions map[int64]*models.Conversation
	maxTurns int
	ttl      time.Duration
	repo     db.ConversationRepository
	now      func() time.Time
}

func NewSessionService(maxTurns int, ttl time.Duration, repo db.ConversationRepository) *SessionService {
	if maxTurns <= 0 {
		maxTurns = 20
	}
	return &SessionService{
		sessions: make(map[int64]*models.Conversation),
		maxTurns: maxTurns,
		ttl:      ttl,
		repo:     repo,
		now:      time.Now,
	}
}

// History returns a copy of the chat's transcript. A chat without a live
// session gets one, warm-started from the repository when available.
func (s *SessionService) History(chatID int64) []models.AgentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.session(chatID)
	history := make([]models.AgentMessage, len(conv.Messages))
	copy(history, conv.Messages)
	return history
}

// Update replaces the chat's transcript with the extended one produced by
// a successful dispatch, persisting the newly appended turns.
func (s *SessionService) Update(chatID int64, messages []models.AgentMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.session(chatID)

	if s.repo != nil && len(messages) > len(conv.Messages) {
		appended := messages[len(conv.Messages):]
		if err := s.repo.AppendTurns(chatID, appended); err != nil {
			log.Printf("[ERROR] Failed to persist %d turn(s) for chat %d: %v", len(appended), chatID, err)
		}
	}

	if len(messages) > s.maxTurns {
		messages = messages[len(messages)-s.maxTurns:]
	}
	conv.Messages = make([]models.AgentMessage, len(messages))
	copy(conv.Messages, messages)
	conv.UpdatedAt = s.now()
}

// Reset drops the chat's in-memory transcript so the next message starts a
// fresh conversation.
func (s *SessionService) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, exists := s.sessions[chatID]; exists {
		conv.Messages = nil
		conv.UpdatedAt = s.now()
	}
	log.Printf("[INFO] Conversation history reset for chat %d", chatID)
}

// ActiveSessions reports how many chats currently hold a session.
func (s *SessionService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Evict removes sessions idle longer than the TTL and returns how many
// were dropped.
func (s *SessionService) Evict() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	evicted := 0
	for chatID, conv := range s.sessions {
		if conv.UpdatedAt.Before(cutoff) {
			delete(s.sessions, chatID)
			evicted++
		}
	}
	if evicted > 0 {
		log.Printf("[INFO] Evicted %d idle session(s)", evicted)
	}
	return evicted
}

// StartSweeper evicts idle sessions on the given interval until the
// context is cancelled.
func (s *SessionService) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Evict()
		}
	}
}

// session returns the live session for the chat, creating it on first use.
// Callers must hold the mutex.
func (s *SessionService) session(chatID int64) *models.Conversation {
	if conv, exists := s.sessions[chatID]; exists {
		return conv
	}

	conv := &models.Conversation{ChatID: chatID, UpdatedAt: s.now()}
	if s.repo != nil {
		turns, err := s.repo.RecentTurns(chatID, s.maxTurns)
		if err != nil {
			log.Printf("[ERROR] Failed to load recent turns for chat %d: %v", chatID, err)
		} else {
			conv.Messages = turns
		}
	}
	s.sessions[chatID] = conv
	return conv
}
