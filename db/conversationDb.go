package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"omnibot/models"

	_ "github.com/lib/pq"
)

type ConversationRepository interface {
	AppendTurns(chatID int64, turns []models.AgentMessage) error
	RecentTurns(chatID int64, limit int) ([]models.AgentMessage, error)
	Close() error
}

type PostgresConversationRepository struct {
	db *sql.DB
}

func NewPostgresConversationRepository(databaseURL string) (*PostgresConversationRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &PostgresConversationRepository{db: db}
	if err := repo.ensureSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *PostgresConversationRepository) ensureSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS conversation_turns (
			id BIGSERIAL PRIMARY KEY,
			chat_id BIGINT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			tool_calls JSONB,
			tool_results JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`

	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create conversation_turns table: %w", err)
	}

	index := `CREATE INDEX IF NOT EXISTS conversation_turns_chat_idx ON conversation_turns (chat_id, id)`
	if _, err := r.db.Exec(index); err != nil {
		return fmt.Errorf("failed to create conversation_turns index: %w", err)
	}
	return nil
}

func (r *PostgresConversationRepository) AppendTurns(chatID int64, turns []models.AgentMessage) error {
	if len(turns) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO conversation_turns (chat_id, role, content, tool_calls, tool_results)
		VALUES ($1, $2, $3, $4, $5)`

	for _, turn := range turns {
		toolCalls, err := nullableJSON(turn.ToolCalls)
		if err != nil {
			return fmt.Errorf("failed to encode tool calls: %w", err)
		}
		toolResults, err := nullableJSON(turn.ToolResults)
		if err != nil {
			return fmt.Errorf("failed to encode tool results: %w", err)
		}

		if _, err := tx.Exec(query, chatID, turn.Role, turn.Content, toolCalls, toolResults); err != nil {
			return fmt.Errorf("failed to insert conversation turn: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit conversation turns: %w", err)
	}
	return nil
}

func (r *PostgresConversationRepository) RecentTurns(chatID int64, limit int) ([]models.AgentMessage, error) {
	query := `
		SELECT role, content, tool_calls, tool_results
		FROM (
			SELECT id, role, content, tool_calls, tool_results
			FROM conversation_turns
			WHERE chat_id = $1
			ORDER BY id DESC
			LIMIT $2
		) recent
		ORDER BY id ASC`

	rows, err := r.db.Query(query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation turns: %w", err)
	}
	defer rows.Close()

	var turns []models.AgentMessage
	for rows.Next() {
		var turn models.AgentMessage
		var toolCalls, toolResults sql.NullString

		if err := rows.Scan(&turn.Role, &turn.Content, &toolCalls, &toolResults); err != nil {
			return nil, fmt.Errorf("failed to scan conversation turn: %w", err)
		}
		if toolCalls.Valid {
			if err := json.Unmarshal([]byte(toolCalls.String), &turn.ToolCalls); err != nil {
				return nil, fmt.Errorf("failed to decode tool calls: %w", err)
			}
		}
		if toolResults.Valid {
			if err := json.Unmarshal([]byte(toolResults.String), &turn.ToolResults); err != nil {
				return nil, fmt.Errorf("failed to decode tool results: %w", err)
			}
		}
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read conversation turns: %w", err)
	}
	return turns, nil
}

func (r *PostgresConversationRepository) Close() error {
	return r.db.Close()
}

func nullableJSON(v interface{}) (interface{}, error) {
	switch value := v.(type) {
	case []models.ToolCall:
		if len(value) == 0 {
			return nil, nil
		}
	case []models.ToolResult:
		if len(value) == 0 {
			return nil, nil
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}
