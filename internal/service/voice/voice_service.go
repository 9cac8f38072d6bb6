package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-chat/internal/logger"
	"portfolio-chat/internal/repository/db"

	"github.com/sirupsen/logrus"
)

// ErrNotAIResponse is returned when audio is requested for a user message
var ErrNotAIResponse = errors.New("audio can only be generated for AI responses")

// Abbreviations expanded before synthesis for better pronunciation.
// Ordered: replacements run in sequence.
var ttsReplacements = []struct{ abbrev, full string }{
	{"e.g.", "for example"},
	{"i.e.", "that is"},
	{"etc.", "and so on"},
	{"vs.", "versus"},
	{"w/o", "without"},
	{"w/", "with"},
	{"API", "A P I"},
	{"URL", "U R L"},
	{"HTML", "H T M L"},
	{"CSS", "C S S"},
	{"JS", "JavaScript"},
	{"UI", "user interface"},
	{"UX", "user experience"},
}

// VoiceService generates voice audio for messages and FAQs, reusing FAQ
// audio when a reply exactly matches a curated answer
type VoiceService struct {
	db       db.Database
	provider TTSProvider
}

// NewVoiceService creates a new VoiceService over the given synthesis provider
func NewVoiceService(database db.Database, provider TTSProvider) *VoiceService {
	return &VoiceService{
		db:       database,
		provider: provider,
	}
}

// IsConfigured reports whether the synthesis provider has credentials
func (s *VoiceService) IsConfigured() bool {
	return s.provider.IsConfigured()
}

// Provider exposes the TTS provider for connectivity checks
func (s *VoiceService) Provider() TTSProvider {
	return s.provider
}

// GenerateAudio synthesizes cleaned text and returns the audio bytes with
// estimated word timings
func (s *VoiceService) GenerateAudio(ctx context.Context, text string) ([]byte, []db.WordTimestamp, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, fmt.Errorf("empty text provided for voice generation")
	}

	cleaned := CleanTextForTTS(text)
	audio, err := s.provider.Synthesize(ctx, cleaned)
	if err != nil {
		return nil, nil, fmt.Errorf("error synthesizing audio: %w", err)
	}

	return audio, EstimateWordTimestamps(cleaned), nil
}

// GenerateForMessage produces and persists audio for an AI response message.
// When the message's source FAQ already has audio, the FAQ's bytes and
// timestamps are copied onto the message without a synthesis call.
func (s *VoiceService) GenerateForMessage(ctx context.Context, messageID string) (*db.Message, error) {
	message, err := s.db.GetMessage(messageID)
	if err != nil {
		return nil, err
	}

	if message.MessageType != db.MessageTypeAIResponse {
		return nil, ErrNotAIResponse
	}

	// Audio already generated for this message
	if message.HasAudio() {
		logger.Log.WithField("message_id", messageID).Info("Audio already exists for message")
		return message, nil
	}

	if message.SourceFAQID != nil {
		if reused, err := s.reuseFAQAudio(message); err != nil {
			return nil, err
		} else if reused != nil {
			return reused, nil
		}
	}

	start := time.Now()
	audio, timestamps, err := s.GenerateAudio(ctx, message.Content)
	if err != nil {
		return nil, err
	}
	generationTimeMs := int(time.Since(start).Milliseconds())

	if err := s.db.SaveMessageAudio(messageID, audio, generationTimeMs, timestamps); err != nil {
		return nil, err
	}

	return s.db.GetMessage(messageID)
}

// reuseFAQAudio copies the source FAQ's audio onto the message when present.
// Returns nil with no error when the FAQ has no audio yet; the caller then
// synthesizes fresh for the message only (no FAQ back-fill).
func (s *VoiceService) reuseFAQAudio(message *db.Message) (*db.Message, error) {
	faq, err := s.db.GetFAQ(*message.SourceFAQID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !faq.HasAudio() {
		return nil, nil
	}

	generationTimeMs := 0
	if faq.AudioGenerationTimeMs != nil {
		generationTimeMs = *faq.AudioGenerationTimeMs
	}

	if err := s.db.SaveMessageAudio(message.ID, faq.AudioData, generationTimeMs, faq.WordTimestamps); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"message_id": message.ID,
		"faq_id":     faq.ID,
	}).Info("Reused FAQ audio for message")

	return s.db.GetMessage(message.ID)
}

// GenerateForFAQ produces and persists audio for an FAQ. This is the explicit
// post-creation step invoked by the seed command rather than a save hook, so
// failure handling and ordering stay visible in one place.
func (s *VoiceService) GenerateForFAQ(ctx context.Context, faqID string) error {
	faq, err := s.db.GetFAQ(faqID)
	if err != nil {
		return err
	}

	if faq.HasAudio() {
		logger.Log.WithField("faq_id", faqID).Info("Audio already exists for FAQ")
		return nil
	}

	start := time.Now()
	audio, timestamps, err := s.GenerateAudio(ctx, faq.Response)
	if err != nil {
		return err
	}
	generationTimeMs := int(time.Since(start).Milliseconds())

	return s.db.SaveFAQAudio(faqID, audio, generationTimeMs, timestamps)
}

// CleanTextForTTS prepares text for synthesis: collapse whitespace, strip
// markdown emphasis markers, expand abbreviations and guarantee terminal
// punctuation for natural speech cadence
func CleanTextForTTS(text string) string {
	cleaned := strings.Join(strings.Fields(text), " ")

	cleaned = strings.ReplaceAll(cleaned, "**", "")
	cleaned = strings.ReplaceAll(cleaned, "*", "")
	cleaned = strings.ReplaceAll(cleaned, "`", "")

	for _, r := range ttsReplacements {
		cleaned = strings.ReplaceAll(cleaned, r.abbrev, r.full)
	}

	if cleaned != "" && !strings.HasSuffix(cleaned, ".") && !strings.HasSuffix(cleaned, "!") && !strings.HasSuffix(cleaned, "?") {
		cleaned += "."
	}

	return cleaned
}
