package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"portfolio-chat/internal/config"
	"portfolio-chat/internal/logger"

	"github.com/sirupsen/logrus"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io/v1"

// Voice describes one available voice on the TTS provider
type Voice struct {
	VoiceID     string `json:"voice_id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// TTSProvider defines the interface for text-to-speech providers
type TTSProvider interface {
	// Synthesize renders text to raw audio bytes
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// GetVoices lists the voices available on the provider account
	GetVoices(ctx context.Context) ([]Voice, error)

	// TestConnection verifies the provider credentials
	TestConnection(ctx context.Context) error

	// IsConfigured reports whether the provider has credentials
	IsConfigured() bool
}

// ElevenLabsProvider implements TTSProvider using the ElevenLabs API
type ElevenLabsProvider struct {
	config *config.VoiceConfig
	client *http.Client
}

// NewElevenLabsProvider creates a new ElevenLabs provider with config
func NewElevenLabsProvider(voiceConfig *config.VoiceConfig) *ElevenLabsProvider {
	return &ElevenLabsProvider{
		config: voiceConfig,
		client: &http.Client{},
	}
}

// IsConfigured reports whether an API key and voice id are present
func (p *ElevenLabsProvider) IsConfigured() bool {
	return p.config.ElevenLabsAPIKey != "" && p.config.VoiceID != ""
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize renders text to audio with the fixed persona voice profile
func (p *ElevenLabsProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY not configured")
	}

	reqBody := synthesizeRequest{
		Text:    text,
		ModelID: p.config.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       0.8,
			SimilarityBoost: 0.8,
			Style:           0.3,
			UseSpeakerBoost: true,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", elevenLabsBaseURL, p.config.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", p.config.ElevenLabsAPIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading audio response: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("no audio data generated")
	}

	logger.Log.WithFields(logrus.Fields{
		"text_length": len(text),
		"audio_bytes": len(audio),
	}).Info("Generated audio with ElevenLabs")

	return audio, nil
}

type voicesResponse struct {
	Voices []Voice `json:"voices"`
}

// GetVoices lists the voices available on the provider account
func (p *ElevenLabsProvider) GetVoices(ctx context.Context) ([]Voice, error) {
	if p.config.ElevenLabsAPIKey == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, elevenLabsBaseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("xi-api-key", p.config.ElevenLabsAPIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("error decoding voices response: %w", err)
	}
	return decoded.Voices, nil
}

// TestConnection verifies the API key by fetching account info
func (p *ElevenLabsProvider) TestConnection(ctx context.Context) error {
	if p.config.ElevenLabsAPIKey == "" {
		return fmt.Errorf("ELEVENLABS_API_KEY not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, elevenLabsBaseURL+"/user", nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("xi-api-key", p.config.ElevenLabsAPIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	logger.Log.Info("ElevenLabs connection successful")
	return nil
}
