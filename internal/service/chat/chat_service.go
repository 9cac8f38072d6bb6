package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-chat/internal/config"
	"portfolio-chat/internal/logger"
	"portfolio-chat/internal/repository/db"
	"portfolio-chat/internal/service/llm"
	"portfolio-chat/internal/service/slide"
	"portfolio-chat/pkg/validation"

	"github.com/sirupsen/logrus"
)

// Fixed apologetic sentence returned in place of content when the provider fails
const apologyResponse = "I'm sorry, I'm having trouble processing your question right now. Could you please try again in a moment?"

// Fixed refusal sentence the model is instructed to emit when the portfolio
// context cannot answer the question
const refusalResponse = "Sorry, I don't have enough information in my portfolio to answer that question."

// Output-length budgets per response_length bucket
var tokenLimits = map[string]int{
	"short":  200,
	"medium": 300,
	"long":   400,
}

var lengthInstructions = map[string]string{
	"short":  "Keep responses very brief - 1-2 sentences maximum.",
	"medium": "Provide a moderate response - 2-4 sentences with key details.",
	"long":   "Give a comprehensive response with full details, examples, and context.",
}

// TurnRequest contains all the parameters needed to process a chat turn
type TurnRequest struct {
	Query          string
	SessionID      string
	ResponseLength string
	IPAddress      string
	UserAgent      string
}

// TurnResponse contains the result of a processed chat turn
type TurnResponse struct {
	Response      string
	Query         string
	SessionID     string
	MessageCount  int
	UserMessageID string
	AIMessageID   string
	SlideTitle    string
	SlideBody     string
	SlideMedia    []string
	SourceFAQID   *string
	Suggestions   []string
}

// ChatService orchestrates the conversational turn pipeline: moderation,
// session admission, context assembly, generation and persistence
type ChatService struct {
	db          db.Database
	llmProvider llm.ChatProvider
	slides      *slide.SlideService
	validator   *validation.MessageValidator
	persona     config.LLMConfig
}

// NewChatService creates a new ChatService
func NewChatService(database db.Database, llmConfig *config.LLMConfig) *ChatService {
	provider := llm.NewOpenAIProvider(llmConfig)
	return &ChatService{
		db:          database,
		llmProvider: provider,
		slides:      slide.NewSlideService(provider),
		validator:   validation.NewMessageValidator(),
		persona:     *llmConfig,
	}
}

// ProcessTurn runs one full conversational turn and persists both messages.
// Validation and admission errors are returned as-is so the handler can map
// them to status codes; provider failures are downgraded to soft fallbacks.
func (s *ChatService) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	query := strings.TrimSpace(req.Query)

	if err := s.validator.ValidateContent(query); err != nil {
		logger.Log.WithFields(logrus.Fields{"ip": req.IPAddress, "reason": err.Error()}).Warn("Rejected invalid message")
		return nil, err
	}

	conversation, err := s.getOrCreateConversation(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get/create conversation: %w", err)
	}

	// Session limits and repeat-message check apply only to existing sessions
	if conversation.TotalMessages > 0 {
		if conversation.TotalMessages >= 50 {
			return nil, db.ErrSessionLimitReached
		}

		recent, err := s.db.GetRecentUserMessages(conversation.SessionID, 3)
		if err != nil {
			return nil, fmt.Errorf("failed to load recent messages: %w", err)
		}
		if err := s.validator.ValidateNotDuplicate(query, recent); err != nil {
			logger.Log.WithField("ip", req.IPAddress).Warn("Suspicious pattern detected: repeated message")
			return nil, err
		}
	}

	projects, err := s.db.GetProjects()
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	faqs, err := s.db.GetActiveFAQs(contextFAQLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load FAQs: %w", err)
	}

	responseLength := req.ResponseLength
	if _, ok := tokenLimits[responseLength]; !ok {
		responseLength = "short"
	}

	// Generate the AI reply; provider failure yields the fixed apology
	start := time.Now()
	aiResponse := s.generateResponse(ctx, BuildContext(projects, faqs), query, responseLength)
	responseTimeMs := int(time.Since(start).Milliseconds())

	// Exact-match the reply against all active FAQ responses for audio reuse.
	// Intentionally no fuzzy matching, to avoid misattributing audio.
	sourceFAQID := s.findSourceFAQ(aiResponse)

	slideTitle, slideBody, slideMedia := s.slides.Generate(ctx, query, aiResponse, projects)

	suggestions := s.GenerateSuggestions(ctx, query, aiResponse)

	// Rough approximation: ~4 chars per token
	tokenCount := len(query+aiResponse) / 4

	userMsg, aiMsg, totalMessages, err := s.db.AppendTurn(conversation.SessionID, query, db.AIMessageParams{
		Content:        aiResponse,
		ResponseTimeMs: responseTimeMs,
		TokenCount:     tokenCount,
		ResponseLength: responseLength,
		SlideTitle:     slideTitle,
		SlideBody:      slideBody,
		SourceFAQID:    sourceFAQID,
	})
	if err != nil {
		if errors.Is(err, db.ErrSessionLimitReached) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to persist turn: %w", err)
	}

	return &TurnResponse{
		Response:      aiResponse,
		Query:         query,
		SessionID:     conversation.SessionID,
		MessageCount:  totalMessages,
		UserMessageID: userMsg.ID,
		AIMessageID:   aiMsg.ID,
		SlideTitle:    slideTitle,
		SlideBody:     slideBody,
		SlideMedia:    slideMedia,
		SourceFAQID:   sourceFAQID,
		Suggestions:   suggestions,
	}, nil
}

// getOrCreateConversation loads the session by token or starts a new one.
// An unrecognized token gets a fresh session rather than an error.
func (s *ChatService) getOrCreateConversation(req TurnRequest) (*db.Conversation, error) {
	if req.SessionID != "" {
		conversation, err := s.db.GetConversation(req.SessionID)
		if err == nil {
			return conversation, nil
		}
		if !errors.Is(err, db.ErrNotFound) {
			return nil, err
		}
		logger.Log.WithField("session_id", req.SessionID).Warn("Session not found, creating new conversation")
	}
	return s.db.CreateConversation(req.IPAddress, req.UserAgent)
}

// generateResponse builds the grounded system prompt and calls the provider.
// Any provider failure returns the fixed apology sentence, never an error.
func (s *ChatService) generateResponse(ctx context.Context, portfolioContext, userQuery, responseLength string) string {
	systemPrompt := s.buildSystemPrompt(portfolioContext, responseLength)

	response, err := s.llmProvider.Complete(ctx, systemPrompt, userQuery, tokenLimits[responseLength], 0.7)
	if err != nil {
		logger.Log.WithError(err).Error("Error generating LLM response")
		return apologyResponse
	}
	return response
}

func (s *ChatService) buildSystemPrompt(portfolioContext, responseLength string) string {
	return fmt.Sprintf(`You are %s, %s. You can ONLY answer questions based on the portfolio data provided below. Do not make up information or speculate.

PORTFOLIO CONTEXT:
%s

CRITICAL INSTRUCTIONS:
1. ONLY answer based on the portfolio data above - never invent or assume information
2. If the portfolio data doesn't contain information to answer a question, respond with: "%s"
3. Always speak in first person as %s
4. Focus on facts from the portfolio data only

Remember: Accuracy over helpfulness. If you don't have the specific information in the portfolio data, say so rather than guessing.

RESPONSE LENGTH: %s`,
		s.persona.PersonaName, s.persona.PersonaRole, portfolioContext,
		refusalResponse, s.persona.PersonaName, lengthInstructions[responseLength])
}

// findSourceFAQ returns the id of the active FAQ whose response exactly
// matches the reply after case folding and whitespace normalization, or nil
func (s *ChatService) findSourceFAQ(aiResponse string) *string {
	faqs, err := s.db.GetActiveFAQs(0)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to load FAQs for source matching")
		return nil
	}

	normalized := normalizeForMatch(aiResponse)
	for i := range faqs {
		if normalizeForMatch(faqs[i].Response) == normalized {
			logger.Log.WithField("faq_id", faqs[i].ID).Debug("Reply matches FAQ response")
			return &faqs[i].ID
		}
	}
	return nil
}

func normalizeForMatch(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
