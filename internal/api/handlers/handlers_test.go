package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"portfolio-chat/internal/config"
	"portfolio-chat/internal/ratelimit"
	"portfolio-chat/internal/repository/db"
	"portfolio-chat/internal/service/voice"
	"portfolio-chat/internal/testutil"
)

func newTestHandlers(mockDB *testutil.MockDatabase) *Handlers {
	return &Handlers{
		config: &config.AppConfig{
			Server: config.ServerConfig{BaseURL: "http://localhost:8080"},
		},
		db: mockDB,
	}
}

func TestFeaturedQuestionsHandler(t *testing.T) {
	mockDB := &testutil.MockDatabase{}
	mockDB.GetFeaturedFAQsFunc = func() ([]db.FAQ, error) {
		return []db.FAQ{
			{ID: "faq-1", Question: "What projects have you worked on?", AudioData: []byte("mp3")},
			{ID: "faq-2", Question: "What are your skills?"},
		}, nil
	}

	h := newTestHandlers(mockDB)

	w := httptest.NewRecorder()
	h.FeaturedQuestionsHandler(w, httptest.NewRequest("GET", "/api/featured-questions", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp FeaturedQuestionsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Count != 2 {
		t.Errorf("Expected 2 questions, got %d", resp.Count)
	}
	if resp.Questions[0].Source != "faq" {
		t.Errorf("Expected source 'faq', got %q", resp.Questions[0].Source)
	}
	if resp.Questions[0].AudioURL != "http://localhost:8080/api/audio/faq/faq-1" {
		t.Errorf("Unexpected audio URL: %q", resp.Questions[0].AudioURL)
	}
	if resp.Questions[1].AudioURL != "" {
		t.Errorf("Expected no audio URL for FAQ without audio, got %q", resp.Questions[1].AudioURL)
	}
}

func TestFeaturedQuestionsHandler_Fallback(t *testing.T) {
	tests := []struct {
		name string
		fn   func() ([]db.FAQ, error)
	}{
		{"none featured", func() ([]db.FAQ, error) { return nil, nil }},
		{"lookup fails", func() ([]db.FAQ, error) { return nil, errors.New("db down") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := &testutil.MockDatabase{GetFeaturedFAQsFunc: tt.fn}
			h := newTestHandlers(mockDB)

			w := httptest.NewRecorder()
			h.FeaturedQuestionsHandler(w, httptest.NewRequest("GET", "/api/featured-questions", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp FeaturedQuestionsResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if resp.Count != 4 {
				t.Errorf("Expected 4 default questions, got %d", resp.Count)
			}
			for _, q := range resp.Questions {
				if q.Source != "default" {
					t.Errorf("Expected source 'default', got %q", q.Source)
				}
			}
		})
	}
}

func TestConversationHandler_NotFound(t *testing.T) {
	mockDB := &testutil.MockDatabase{}
	mockDB.GetConversationFunc = func(sessionID string) (*db.Conversation, error) {
		return nil, db.ErrNotFound
	}

	h := newTestHandlers(mockDB)

	r := httptest.NewRequest("GET", "/api/conversation/unknown", nil)
	r.SetPathValue("session_id", "unknown")
	w := httptest.NewRecorder()
	h.ConversationHandler(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestConversationHandler_ReturnsHistory(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mockDB := &testutil.MockDatabase{}
	mockDB.GetConversationFunc = func(sessionID string) (*db.Conversation, error) {
		return &db.Conversation{SessionID: sessionID, TotalMessages: 2, StartedAt: now, LastActivity: now}, nil
	}
	mockDB.GetConversationMessagesFunc = func(sessionID string) ([]db.Message, error) {
		return []db.Message{
			{ID: "m1", MessageType: db.MessageTypeUserQuery, Content: "hi there", OrderInSession: 1, Timestamp: now},
			{ID: "m2", MessageType: db.MessageTypeAIResponse, Content: "hello", OrderInSession: 2, Timestamp: now, AudioData: []byte("mp3")},
		}, nil
	}

	h := newTestHandlers(mockDB)

	r := httptest.NewRequest("GET", "/api/conversation/session-1", nil)
	r.SetPathValue("session_id", "session-1")
	w := httptest.NewRecorder()
	h.ConversationHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp ConversationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.SessionID != "session-1" || resp.TotalMessages != 2 {
		t.Errorf("Unexpected conversation meta: %+v", resp)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(resp.Messages))
	}
	if resp.Messages[0].AudioURL != "" {
		t.Errorf("Expected no audio URL on user message, got %q", resp.Messages[0].AudioURL)
	}
	if resp.Messages[1].AudioURL != "http://localhost:8080/api/audio/message/m2" {
		t.Errorf("Unexpected AI message audio URL: %q", resp.Messages[1].AudioURL)
	}
}

func TestMessageAudioFileHandler(t *testing.T) {
	mockDB := &testutil.MockDatabase{}
	mockDB.GetMessageFunc = func(id string) (*db.Message, error) {
		if id == "with-audio" {
			return &db.Message{ID: id, MessageType: db.MessageTypeAIResponse, AudioData: []byte("mp3-bytes")}, nil
		}
		if id == "no-audio" {
			return &db.Message{ID: id, MessageType: db.MessageTypeAIResponse}, nil
		}
		return nil, db.ErrNotFound
	}

	h := newTestHandlers(mockDB)

	r := httptest.NewRequest("GET", "/api/audio/message/with-audio", nil)
	r.SetPathValue("id", "with-audio")
	w := httptest.NewRecorder()
	h.MessageAudioFileHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Errorf("Expected audio/mpeg content type, got %q", ct)
	}
	if w.Body.String() != "mp3-bytes" {
		t.Errorf("Expected raw audio bytes, got %q", w.Body.String())
	}

	r = httptest.NewRequest("GET", "/api/audio/message/no-audio", nil)
	r.SetPathValue("id", "no-audio")
	w = httptest.NewRecorder()
	h.MessageAudioFileHandler(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for message without audio, got %d", w.Code)
	}

	r = httptest.NewRequest("GET", "/api/audio/message/missing", nil)
	r.SetPathValue("id", "missing")
	w = httptest.NewRecorder()
	h.MessageAudioFileHandler(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown message, got %d", w.Code)
	}
}

// stubTTSProvider satisfies voice.TTSProvider with canned audio
type stubTTSProvider struct{}

func (s *stubTTSProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return []byte("mp3-bytes"), nil
}

func (s *stubTTSProvider) GetVoices(ctx context.Context) ([]voice.Voice, error) {
	return nil, nil
}

func (s *stubTTSProvider) TestConnection(ctx context.Context) error { return nil }

func (s *stubTTSProvider) IsConfigured() bool { return true }

func newVoiceTestHandlers(mockDB *testutil.MockDatabase) *Handlers {
	h := newTestHandlers(mockDB)
	h.voiceService = voice.NewVoiceService(mockDB, &stubTTSProvider{})
	h.voiceLimiter = ratelimit.NewLimiter(ratelimit.NewMemoryStore(), "voice_rate", 100, time.Minute)
	return h
}

func TestGenerateVoiceHandler_TextLength(t *testing.T) {
	h := newVoiceTestHandlers(&testutil.MockDatabase{})

	// Over 500 characters is rejected
	body := fmt.Sprintf(`{"text": %q}`, strings.Repeat("a", 501))
	r := httptest.NewRequest("POST", "/api/voice/generate", strings.NewReader(body))
	r.RemoteAddr = "10.0.0.1:5000"
	w := httptest.NewRecorder()
	h.GenerateVoiceHandler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for 501-character text, got %d", w.Code)
	}

	// The limit counts characters, not bytes: accented text under 500
	// characters must synthesize even when its encoding exceeds 500 bytes
	text := strings.TrimSpace(strings.Repeat("très bien réalisé ", 27))
	if utf8.RuneCountInString(text) > 500 || len(text) <= 500 {
		t.Fatalf("Test setup error: %d runes, %d bytes", utf8.RuneCountInString(text), len(text))
	}

	body = fmt.Sprintf(`{"text": %q}`, text)
	r = httptest.NewRequest("POST", "/api/voice/generate", strings.NewReader(body))
	r.RemoteAddr = "10.0.0.1:5000"
	w = httptest.NewRecorder()
	h.GenerateVoiceHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for %d-character text, got %d: %s",
			utf8.RuneCountInString(text), w.Code, w.Body.String())
	}

	var resp VoiceResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Audio == "" {
		t.Error("Expected base64 audio in response")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5000"
	if ip := clientIP(r); ip != "10.0.0.1" {
		t.Errorf("Expected 10.0.0.1, got %q", ip)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if ip := clientIP(r); ip != "203.0.113.9" {
		t.Errorf("Expected first forwarded hop, got %q", ip)
	}
}
