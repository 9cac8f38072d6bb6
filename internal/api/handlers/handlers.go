package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"portfolio-chat/internal/config"
	"portfolio-chat/internal/logger"
	"portfolio-chat/internal/ratelimit"
	"portfolio-chat/internal/repository/db"
	chatService "portfolio-chat/internal/service/chat"
	voiceService "portfolio-chat/internal/service/voice"
)

// ErrorResponse is the uniform error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handlers wires the HTTP surface to the service layer
type Handlers struct {
	config       *config.AppConfig
	db           db.Database
	chatService  *chatService.ChatService
	voiceService *voiceService.VoiceService
	chatLimiter  *ratelimit.Limiter
	voiceLimiter *ratelimit.Limiter
}

// NewHandlers creates the handler set with its services and rate limiters
func NewHandlers(appConfig *config.AppConfig, database db.Database, store ratelimit.Store) *Handlers {
	return &Handlers{
		config:       appConfig,
		db:           database,
		chatService:  chatService.NewChatService(database, &appConfig.LLM),
		voiceService: voiceService.NewVoiceService(database, voiceService.NewElevenLabsProvider(&appConfig.Voice)),
		chatLimiter:  ratelimit.NewLimiter(store, "chat_rate", appConfig.RateLimit.ChatPerMinute, appConfig.RateLimit.Window),
		voiceLimiter: ratelimit.NewLimiter(store, "voice_rate", appConfig.RateLimit.VoicePerMinute, appConfig.RateLimit.Window),
	}
}

func (h *Handlers) sendJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("Error encoding response")
	}
}

func (h *Handlers) sendError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, ErrorResponse{Error: message})
}

// clientIP extracts the client address, preferring the first X-Forwarded-For hop
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// messageAudioURL builds the public URL for a message's stored audio
func (h *Handlers) messageAudioURL(messageID string) string {
	return h.config.Server.BaseURL + "/api/audio/message/" + messageID
}

// faqAudioURL builds the public URL for an FAQ's stored audio
func (h *Handlers) faqAudioURL(faqID string) string {
	return h.config.Server.BaseURL + "/api/audio/faq/" + faqID
}
