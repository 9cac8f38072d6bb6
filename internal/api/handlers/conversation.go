package handlers

import (
	"errors"
	"net/http"
	"time"

	"portfolio-chat/internal/logger"
	"portfolio-chat/internal/repository/db"
)

// MessageData is the serialized form of one conversation message
type MessageData struct {
	ID             string  `json:"id"`
	MessageType    string  `json:"message_type"`
	Content        string  `json:"content"`
	Timestamp      string  `json:"timestamp"`
	OrderInSession int     `json:"order_in_session"`
	ResponseTimeMs *int    `json:"response_time_ms,omitempty"`
	TokenCount     *int    `json:"token_count,omitempty"`
	ResponseLength string  `json:"response_length,omitempty"`
	SlideTitle     string  `json:"slide_title,omitempty"`
	SlideBody      string  `json:"slide_body,omitempty"`
	SourceFAQID    *string `json:"source_faq_id,omitempty"`
	AudioURL       string  `json:"audio_url,omitempty"`
}

type ConversationResponse struct {
	SessionID     string        `json:"session_id"`
	Messages      []MessageData `json:"messages"`
	TotalMessages int           `json:"total_messages"`
	StartedAt     string        `json:"started_at"`
	LastActivity  string        `json:"last_activity"`
}

// ConversationHandler returns the ordered message history for a session
func (h *Handlers) ConversationHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	conversation, err := h.db.GetConversation(sessionID)
	if errors.Is(err, db.ErrNotFound) {
		h.sendError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		logger.Log.WithError(err).Error("Error in conversation handler")
		h.sendError(w, http.StatusInternalServerError, "An error occurred fetching conversation history")
		return
	}

	messages, err := h.db.GetConversationMessages(sessionID)
	if err != nil {
		logger.Log.WithError(err).Error("Error fetching conversation messages")
		h.sendError(w, http.StatusInternalServerError, "An error occurred fetching conversation history")
		return
	}

	data := make([]MessageData, 0, len(messages))
	for _, msg := range messages {
		item := MessageData{
			ID:             msg.ID,
			MessageType:    msg.MessageType,
			Content:        msg.Content,
			Timestamp:      msg.Timestamp.Format(time.RFC3339),
			OrderInSession: msg.OrderInSession,
			ResponseTimeMs: msg.ResponseTimeMs,
			TokenCount:     msg.TokenCount,
			ResponseLength: msg.ResponseLength,
			SlideTitle:     msg.SlideTitle,
			SlideBody:      msg.SlideBody,
			SourceFAQID:    msg.SourceFAQID,
		}
		if msg.HasAudio() {
			item.AudioURL = h.messageAudioURL(msg.ID)
		}
		data = append(data, item)
	}

	h.sendJSON(w, http.StatusOK, ConversationResponse{
		SessionID:     conversation.SessionID,
		Messages:      data,
		TotalMessages: conversation.TotalMessages,
		StartedAt:     conversation.StartedAt.Format(time.RFC3339),
		LastActivity:  conversation.LastActivity.Format(time.RFC3339),
	})
}
