package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portfolio-chat/internal/logger"
	"portfolio-chat/internal/repository/db"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Maximum number of messages per conversation session. No renewal mechanism:
// visitors start a new session once the cap is reached.
const sessionMessageLimit = 50

// GetConversation retrieves a conversation by its session token
func (p *PostgresDB) GetConversation(sessionID string) (*db.Conversation, error) {
	var conv db.Conversation
	query := `
	SELECT session_id, started_at, last_activity, is_active, total_messages, ip_address, user_agent
	FROM conversations
	WHERE session_id = $1
	`

	err := p.conn.QueryRow(query, sessionID).Scan(&conv.SessionID, &conv.StartedAt, &conv.LastActivity,
		&conv.IsActive, &conv.TotalMessages, &conv.IPAddress, &conv.UserAgent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving conversation: %w", err)
	}

	return &conv, nil
}

// CreateConversation starts a new session, capturing client info at creation only
func (p *PostgresDB) CreateConversation(ipAddress, userAgent string) (*db.Conversation, error) {
	sessionID := uuid.New().String()

	var conv db.Conversation
	query := `
	INSERT INTO conversations (session_id, ip_address, user_agent)
	VALUES ($1, $2, $3)
	RETURNING session_id, started_at, last_activity, is_active, total_messages, ip_address, user_agent
	`

	err := p.conn.QueryRow(query, sessionID, ipAddress, userAgent).Scan(&conv.SessionID, &conv.StartedAt,
		&conv.LastActivity, &conv.IsActive, &conv.TotalMessages, &conv.IPAddress, &conv.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("error creating conversation: %w", err)
	}

	logger.Log.WithField("session_id", sessionID).Info("Created new conversation")
	return &conv, nil
}

// AppendTurn persists one user query and its AI response as a single atomic
// unit. The conversation row is locked for the duration of the transaction so
// order_in_session values cannot collide under concurrent double-submission.
func (p *PostgresDB) AppendTurn(sessionID, userContent string, ai db.AIMessageParams) (*db.Message, *db.Message, int, error) {
	tx, err := p.conn.Begin()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var totalMessages int
	err = tx.QueryRow(`SELECT total_messages FROM conversations WHERE session_id = $1 FOR UPDATE`, sessionID).Scan(&totalMessages)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, 0, db.ErrNotFound
	}
	if err != nil {
		return nil, nil, 0, fmt.Errorf("error locking conversation: %w", err)
	}

	if totalMessages >= sessionMessageLimit {
		return nil, nil, 0, db.ErrSessionLimitReached
	}

	var msgCount int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM messages WHERE session_id = $1`, sessionID).Scan(&msgCount); err != nil {
		return nil, nil, 0, fmt.Errorf("error counting messages: %w", err)
	}

	userMsg := &db.Message{
		ID:             uuid.New().String(),
		SessionID:      sessionID,
		MessageType:    db.MessageTypeUserQuery,
		Content:        userContent,
		OrderInSession: msgCount + 1,
	}

	err = tx.QueryRow(`
	INSERT INTO messages (id, session_id, message_type, content, order_in_session)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`, userMsg.ID, sessionID, userMsg.MessageType, userMsg.Content, userMsg.OrderInSession).Scan(&userMsg.Timestamp)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("error inserting user message: %w", err)
	}

	aiMsg := &db.Message{
		ID:             uuid.New().String(),
		SessionID:      sessionID,
		MessageType:    db.MessageTypeAIResponse,
		Content:        ai.Content,
		OrderInSession: msgCount + 2,
		ResponseTimeMs: &ai.ResponseTimeMs,
		TokenCount:     &ai.TokenCount,
		ResponseLength: ai.ResponseLength,
		SlideTitle:     ai.SlideTitle,
		SlideBody:      ai.SlideBody,
		SourceFAQID:    ai.SourceFAQID,
	}

	err = tx.QueryRow(`
	INSERT INTO messages (id, session_id, message_type, content, order_in_session, response_time_ms, token_count, response_length, slide_title, slide_body, source_faq_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING created_at
	`, aiMsg.ID, sessionID, aiMsg.MessageType, aiMsg.Content, aiMsg.OrderInSession,
		ai.ResponseTimeMs, ai.TokenCount, ai.ResponseLength, ai.SlideTitle, ai.SlideBody, ai.SourceFAQID).Scan(&aiMsg.Timestamp)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("error inserting AI message: %w", err)
	}

	newTotal := msgCount + 2
	if _, err := tx.Exec(`
	UPDATE conversations SET total_messages = $1, last_activity = CURRENT_TIMESTAMP WHERE session_id = $2
	`, newTotal, sessionID); err != nil {
		return nil, nil, 0, fmt.Errorf("error updating conversation stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, 0, fmt.Errorf("error committing turn: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"session_id":     sessionID,
		"total_messages": newTotal,
	}).Debug("Appended turn to conversation")

	return userMsg, aiMsg, newTotal, nil
}

const messageColumns = `id, session_id, message_type, content, created_at, order_in_session, response_time_ms, token_count, response_length, slide_title, slide_body, source_faq_id, audio_data, audio_generated_at, audio_generation_time_ms, word_timestamps`

func scanMessage(scanner interface{ Scan(...any) error }) (*db.Message, error) {
	var msg db.Message
	var timestamps []byte
	err := scanner.Scan(&msg.ID, &msg.SessionID, &msg.MessageType, &msg.Content, &msg.Timestamp,
		&msg.OrderInSession, &msg.ResponseTimeMs, &msg.TokenCount, &msg.ResponseLength,
		&msg.SlideTitle, &msg.SlideBody, &msg.SourceFAQID, &msg.AudioData,
		&msg.AudioGeneratedAt, &msg.AudioGenerationTimeMs, &timestamps)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(timestamps, &msg.WordTimestamps); err != nil {
		return nil, fmt.Errorf("error decoding word timestamps: %w", err)
	}
	return &msg, nil
}

// GetConversationMessages retrieves all messages in session order
func (p *PostgresDB) GetConversationMessages(sessionID string) ([]db.Message, error) {
	query := `
	SELECT ` + messageColumns + `
	FROM messages
	WHERE session_id = $1
	ORDER BY order_in_session ASC
	`

	rows, err := p.conn.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	var messages []db.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		messages = append(messages, *msg)
	}

	return messages, rows.Err()
}

// GetRecentUserMessages retrieves the content of the session's most recent
// user queries, newest first
func (p *PostgresDB) GetRecentUserMessages(sessionID string, limit int) ([]string, error) {
	query := `
	SELECT content
	FROM messages
	WHERE session_id = $1 AND message_type = $2
	ORDER BY order_in_session DESC
	LIMIT $3
	`

	rows, err := p.conn.Query(query, sessionID, db.MessageTypeUserQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent user messages: %w", err)
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("error scanning message content: %w", err)
		}
		contents = append(contents, content)
	}

	return contents, rows.Err()
}

// GetMessage retrieves a single message by id
func (p *PostgresDB) GetMessage(id string) (*db.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`

	msg, err := scanMessage(p.conn.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving message: %w", err)
	}
	return msg, nil
}

// SaveMessageAudio stores a voice clip and its estimated timings on a message
func (p *PostgresDB) SaveMessageAudio(messageID string, audio []byte, generationTimeMs int, timestamps []db.WordTimestamp) error {
	encoded, err := json.Marshal(timestamps)
	if err != nil {
		return fmt.Errorf("error encoding word timestamps: %w", err)
	}
	if timestamps == nil {
		encoded = []byte("[]")
	}

	query := `
	UPDATE messages
	SET audio_data = $1, audio_generated_at = $2, audio_generation_time_ms = $3, word_timestamps = $4
	WHERE id = $5
	`

	result, err := p.conn.Exec(query, audio, time.Now().UTC(), generationTimeMs, encoded, messageID)
	if err != nil {
		return fmt.Errorf("error saving message audio: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return db.ErrNotFound
	}

	logger.Log.WithFields(logrus.Fields{
		"message_id":         messageID,
		"audio_bytes":        len(audio),
		"generation_time_ms": generationTimeMs,
	}).Info("Saved message audio")
	return nil
}
