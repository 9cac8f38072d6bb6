package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"

	"portfolio-chat/internal/logger"
	"portfolio-chat/internal/repository/db"
	"portfolio-chat/internal/service/voice"
)

// VoiceRequest is the POST /api/voice/generate payload
type VoiceRequest struct {
	Text string `json:"text"`
}

// VoiceResponse carries base64 audio for direct playback
type VoiceResponse struct {
	Audio          string             `json:"audio"`
	WordTimestamps []db.WordTimestamp `json:"word_timestamps"`
}

// MessageAudioRequest is the POST /api/voice/generate-message payload
type MessageAudioRequest struct {
	MessageID string `json:"message_id"`
}

// MessageAudioResponse points at the persisted audio for a message
type MessageAudioResponse struct {
	MessageID        string             `json:"message_id"`
	AudioURL         string             `json:"audio_url"`
	WordTimestamps   []db.WordTimestamp `json:"word_timestamps"`
	GenerationTimeMs *int               `json:"generation_time_ms,omitempty"`
}

// GenerateVoiceHandler synthesizes arbitrary text and returns base64 audio
func (h *Handlers) GenerateVoiceHandler(w http.ResponseWriter, r *http.Request) {
	if !h.voiceLimiter.Allow(r.Context(), clientIP(r)) {
		h.sendError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please wait before generating more audio.")
		return
	}

	if !h.voiceService.IsConfigured() {
		h.sendError(w, http.StatusServiceUnavailable, "Voice service is not configured")
		return
	}

	var req VoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if req.Text == "" {
		h.sendError(w, http.StatusBadRequest, "Text is required")
		return
	}
	if utf8.RuneCountInString(req.Text) > 500 {
		h.sendError(w, http.StatusBadRequest, "Text too long (maximum 500 characters)")
		return
	}

	audio, timestamps, err := h.voiceService.GenerateAudio(r.Context(), req.Text)
	if err != nil {
		logger.Log.WithError(err).Error("Error generating voice audio")
		h.sendError(w, http.StatusInternalServerError, "An error occurred generating audio")
		return
	}

	h.sendJSON(w, http.StatusOK, VoiceResponse{
		Audio:          base64.StdEncoding.EncodeToString(audio),
		WordTimestamps: timestamps,
	})
}

// GenerateMessageAudioHandler synthesizes (or reuses) audio for a stored
// AI response message and persists it
func (h *Handlers) GenerateMessageAudioHandler(w http.ResponseWriter, r *http.Request) {
	if !h.voiceLimiter.Allow(r.Context(), clientIP(r)) {
		h.sendError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please wait before generating more audio.")
		return
	}

	if !h.voiceService.IsConfigured() {
		h.sendError(w, http.StatusServiceUnavailable, "Voice service is not configured")
		return
	}

	var req MessageAudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.MessageID == "" {
		h.sendError(w, http.StatusBadRequest, "message_id is required")
		return
	}

	message, err := h.voiceService.GenerateForMessage(r.Context(), req.MessageID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		h.sendError(w, http.StatusNotFound, "Message not found")
		return
	case errors.Is(err, voice.ErrNotAIResponse):
		h.sendError(w, http.StatusBadRequest, "Audio can only be generated for AI responses")
		return
	case err != nil:
		logger.Log.WithError(err).Error("Error generating message audio")
		h.sendError(w, http.StatusInternalServerError, "An error occurred generating audio")
		return
	}

	h.sendJSON(w, http.StatusOK, MessageAudioResponse{
		MessageID:        message.ID,
		AudioURL:         h.messageAudioURL(message.ID),
		WordTimestamps:   message.WordTimestamps,
		GenerationTimeMs: message.AudioGenerationTimeMs,
	})
}

// VoiceTestResponse reports provider connectivity and a sample of voices
type VoiceTestResponse struct {
	Status string        `json:"status"`
	Voices []voice.Voice `json:"voices,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// VoiceTestHandler checks TTS provider connectivity
func (h *Handlers) VoiceTestHandler(w http.ResponseWriter, r *http.Request) {
	if !h.voiceService.IsConfigured() {
		h.sendJSON(w, http.StatusServiceUnavailable, VoiceTestResponse{
			Status: "unconfigured",
			Error:  "Voice service is not configured",
		})
		return
	}

	provider := h.voiceService.Provider()
	if err := provider.TestConnection(r.Context()); err != nil {
		logger.Log.WithError(err).Warn("Voice provider connectivity check failed")
		h.sendJSON(w, http.StatusServiceUnavailable, VoiceTestResponse{
			Status: "error",
			Error:  err.Error(),
		})
		return
	}

	voices, err := provider.GetVoices(r.Context())
	if err != nil {
		logger.Log.WithError(err).Warn("Error fetching available voices")
	}
	if len(voices) > 5 {
		voices = voices[:5]
	}

	h.sendJSON(w, http.StatusOK, VoiceTestResponse{
		Status: "ok",
		Voices: voices,
	})
}

// MessageAudioFileHandler serves the stored audio bytes for a message
func (h *Handlers) MessageAudioFileHandler(w http.ResponseWriter, r *http.Request) {
	message, err := h.db.GetMessage(r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		h.sendError(w, http.StatusNotFound, "Message not found")
		return
	}
	if err != nil {
		logger.Log.WithError(err).Error("Error loading message audio")
		h.sendError(w, http.StatusInternalServerError, "An error occurred fetching audio")
		return
	}
	if !message.HasAudio() {
		h.sendError(w, http.StatusNotFound, "No audio for this message")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Write(message.AudioData)
}

// FAQAudioFileHandler serves the stored audio bytes for an FAQ
func (h *Handlers) FAQAudioFileHandler(w http.ResponseWriter, r *http.Request) {
	faq, err := h.db.GetFAQ(r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		h.sendError(w, http.StatusNotFound, "FAQ not found")
		return
	}
	if err != nil {
		logger.Log.WithError(err).Error("Error loading FAQ audio")
		h.sendError(w, http.StatusInternalServerError, "An error occurred fetching audio")
		return
	}
	if !faq.HasAudio() {
		h.sendError(w, http.StatusNotFound, "No audio for this FAQ")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Write(faq.AudioData)
}
