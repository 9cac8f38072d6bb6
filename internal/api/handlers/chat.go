package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"portfolio-chat/internal/logger"
	"portfolio-chat/internal/repository/db"
	chatService "portfolio-chat/internal/service/chat"
	"portfolio-chat/pkg/validation"

	"github.com/sirupsen/logrus"
)

// ChatRequest is the POST /api/chat payload
type ChatRequest struct {
	Query          string `json:"query"`
	SessionID      string `json:"session_id,omitempty"`
	ResponseLength string `json:"response_length,omitempty"` // short | medium | long
}

// ChatResponse is the POST /api/chat reply
type ChatResponse struct {
	Response      string   `json:"response"`
	Query         string   `json:"query"`
	SessionID     string   `json:"session_id"`
	MessageCount  int      `json:"message_count"`
	UserMessageID string   `json:"user_message_id"`
	AIMessageID   string   `json:"ai_message_id"`
	SlideTitle    string   `json:"slide_title"`
	SlideBody     string   `json:"slide_body"`
	SlideMedia    []string `json:"slide_media,omitempty"`
	SourceFAQID   *string  `json:"source_faq_id,omitempty"`
	Suggestions   []string `json:"suggestions"`
}

// ChatHandler processes one conversational turn
func (h *Handlers) ChatHandler(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	if !h.chatLimiter.Allow(r.Context(), ip) {
		h.sendError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please wait before sending another message.")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if req.Query == "" {
		h.sendError(w, http.StatusBadRequest, "Query is required")
		return
	}

	result, err := h.chatService.ProcessTurn(r.Context(), chatService.TurnRequest{
		Query:          req.Query,
		SessionID:      req.SessionID,
		ResponseLength: req.ResponseLength,
		IPAddress:      ip,
		UserAgent:      r.UserAgent(),
	})
	if err != nil {
		h.sendChatError(w, ip, err)
		return
	}

	h.sendJSON(w, http.StatusOK, ChatResponse{
		Response:      result.Response,
		Query:         result.Query,
		SessionID:     result.SessionID,
		MessageCount:  result.MessageCount,
		UserMessageID: result.UserMessageID,
		AIMessageID:   result.AIMessageID,
		SlideTitle:    result.SlideTitle,
		SlideBody:     result.SlideBody,
		SlideMedia:    result.SlideMedia,
		SourceFAQID:   result.SourceFAQID,
		Suggestions:   result.Suggestions,
	})
}

// sendChatError maps pipeline errors to status codes: moderation and
// duplicate rejections are 400 with the specific reason, admission limits
// are 429, everything else is a generic 500
func (h *Handlers) sendChatError(w http.ResponseWriter, ip string, err error) {
	switch {
	case errors.Is(err, db.ErrSessionLimitReached):
		h.sendError(w, http.StatusTooManyRequests, "Session message limit reached. Please start a new conversation.")
	case isValidationError(err):
		h.sendError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Log.WithError(err).WithFields(logrus.Fields{"ip": ip}).Error("Error in chat handler")
		h.sendError(w, http.StatusInternalServerError, "An error occurred processing your request")
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		validation.ErrTooShort, validation.ErrTooLong, validation.ErrSpecialChars,
		validation.ErrRepeatedChars, validation.ErrExcessiveCaps, validation.ErrProfanity,
		validation.ErrSpam, validation.ErrDuplicateMessage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
