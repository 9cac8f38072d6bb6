package llm

import (
	"context"
	"fmt"
	"strings"

	"portfolio-chat/internal/config"
	"portfolio-chat/internal/logger"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// OpenAIProvider implements ChatProvider using the OpenAI chat-completion API
type OpenAIProvider struct {
	client *openai.Client
	config *config.LLMConfig
}

// NewOpenAIProvider creates a new OpenAI provider with config
func NewOpenAIProvider(llmConfig *config.LLMConfig) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(llmConfig.OpenAIAPIKey),
		config: llmConfig,
	}
}

// IsConfigured reports whether an API key is present
func (p *OpenAIProvider) IsConfigured() bool {
	return p.config.OpenAIAPIKey != ""
}

// Complete sends a single system + user exchange and returns the reply text
func (p *OpenAIProvider) Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float32) (string, error) {
	if !p.IsConfigured() {
		return "", fmt.Errorf("OPENAI_API_KEY not configured")
	}

	logger.Log.WithFields(logrus.Fields{
		"model":         p.config.Model,
		"max_tokens":    maxTokens,
		"temperature":   temperature,
		"prompt_length": len(systemPrompt),
	}).Info("Calling OpenAI API")

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("error calling chat completion API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	logger.Log.WithField("content_length", len(content)).Debug("Extracted content from response")
	return content, nil
}
