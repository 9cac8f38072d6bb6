package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"portfolio-chat/internal/config"
	"portfolio-chat/internal/repository/db"
	"portfolio-chat/internal/service/slide"
	"portfolio-chat/internal/testutil"
	"portfolio-chat/pkg/validation"
)

func newTestService(mockDB *testutil.MockDatabase, provider *testutil.MockChatProvider) *ChatService {
	return &ChatService{
		db:          mockDB,
		llmProvider: provider,
		slides:      slide.NewSlideService(provider),
		validator:   validation.NewMessageValidator(),
		persona: config.LLMConfig{
			PersonaName: "Test Persona",
			PersonaRole: "a designer",
		},
	}
}

// newTurnMockDB wires the happy-path persistence mocks: a fresh conversation
// and an AppendTurn that assigns orders 1 and 2
func newTurnMockDB() *testutil.MockDatabase {
	mockDB := &testutil.MockDatabase{}

	mockDB.CreateConversationFunc = func(ipAddress, userAgent string) (*db.Conversation, error) {
		return &db.Conversation{SessionID: "session-1"}, nil
	}
	mockDB.GetProjectsFunc = func() ([]db.Project, error) {
		return []db.Project{{Title: "Checkout Redesign", Summary: "Mobile checkout work"}}, nil
	}
	mockDB.GetActiveFAQsFunc = func(limit int) ([]db.FAQ, error) {
		return nil, nil
	}
	mockDB.AppendTurnFunc = func(sessionID, userContent string, ai db.AIMessageParams) (*db.Message, *db.Message, int, error) {
		userMsg := &db.Message{ID: "user-msg", SessionID: sessionID, MessageType: db.MessageTypeUserQuery, Content: userContent, OrderInSession: 1}
		aiMsg := &db.Message{ID: "ai-msg", SessionID: sessionID, MessageType: db.MessageTypeAIResponse, Content: ai.Content, OrderInSession: 2}
		return userMsg, aiMsg, 2, nil
	}
	return mockDB
}

func TestProcessTurn_NewSession(t *testing.T) {
	mockDB := newTurnMockDB()

	var appendedQuery string
	var appendedParams db.AIMessageParams
	baseAppend := mockDB.AppendTurnFunc
	mockDB.AppendTurnFunc = func(sessionID, userContent string, ai db.AIMessageParams) (*db.Message, *db.Message, int, error) {
		appendedQuery = userContent
		appendedParams = ai
		return baseAppend(sessionID, userContent, ai)
	}

	provider := &testutil.MockChatProvider{}
	provider.CompleteFunc = func(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float32) (string, error) {
		return "I worked on a mobile checkout redesign.", nil
	}

	service := newTestService(mockDB, provider)

	result, err := service.ProcessTurn(context.Background(), TurnRequest{
		Query:     "  What projects have you worked on?  ",
		IPAddress: "1.2.3.4",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result.SessionID != "session-1" {
		t.Errorf("Expected session 'session-1', got %q", result.SessionID)
	}
	if result.Response != "I worked on a mobile checkout redesign." {
		t.Errorf("Unexpected response: %q", result.Response)
	}
	if result.MessageCount != 2 {
		t.Errorf("Expected message count 2, got %d", result.MessageCount)
	}
	if result.UserMessageID != "user-msg" || result.AIMessageID != "ai-msg" {
		t.Errorf("Expected both message ids, got user=%q ai=%q", result.UserMessageID, result.AIMessageID)
	}

	// Query is trimmed before persistence
	if appendedQuery != "What projects have you worked on?" {
		t.Errorf("Expected trimmed query persisted, got %q", appendedQuery)
	}
	if appendedParams.ResponseLength != "short" {
		t.Errorf("Expected default response length 'short', got %q", appendedParams.ResponseLength)
	}
	if appendedParams.SlideTitle == "" || appendedParams.SlideBody == "" {
		t.Error("Expected slide content on the persisted AI message")
	}
	if result.SlideTitle != "My Projects" {
		t.Errorf("Expected heuristic slide title 'My Projects', got %q", result.SlideTitle)
	}
	if len(result.Suggestions) == 0 {
		t.Error("Expected fallback suggestions")
	}
}

func TestProcessTurn_ValidationRejection(t *testing.T) {
	service := newTestService(&testutil.MockDatabase{}, &testutil.MockChatProvider{})

	_, err := service.ProcessTurn(context.Background(), TurnRequest{Query: "this is shit"})
	if !errors.Is(err, validation.ErrProfanity) {
		t.Errorf("Expected ErrProfanity, got: %v", err)
	}

	_, err = service.ProcessTurn(context.Background(), TurnRequest{Query: "hi"})
	if !errors.Is(err, validation.ErrTooShort) {
		t.Errorf("Expected ErrTooShort, got: %v", err)
	}
}

func TestProcessTurn_SessionLimit(t *testing.T) {
	mockDB := &testutil.MockDatabase{}
	mockDB.GetConversationFunc = func(sessionID string) (*db.Conversation, error) {
		return &db.Conversation{SessionID: sessionID, TotalMessages: 50}, nil
	}

	service := newTestService(mockDB, &testutil.MockChatProvider{})

	_, err := service.ProcessTurn(context.Background(), TurnRequest{
		Query:     "What are your skills?",
		SessionID: "full-session",
	})
	if !errors.Is(err, db.ErrSessionLimitReached) {
		t.Errorf("Expected ErrSessionLimitReached, got: %v", err)
	}
}

func TestProcessTurn_DuplicateMessage(t *testing.T) {
	mockDB := &testutil.MockDatabase{}
	mockDB.GetConversationFunc = func(sessionID string) (*db.Conversation, error) {
		return &db.Conversation{SessionID: sessionID, TotalMessages: 4}, nil
	}
	mockDB.GetRecentUserMessagesFunc = func(sessionID string, limit int) ([]string, error) {
		return []string{"What are your skills?"}, nil
	}

	service := newTestService(mockDB, &testutil.MockChatProvider{})

	_, err := service.ProcessTurn(context.Background(), TurnRequest{
		Query:     "what are your skills?",
		SessionID: "session-1",
	})
	if !errors.Is(err, validation.ErrDuplicateMessage) {
		t.Errorf("Expected ErrDuplicateMessage, got: %v", err)
	}
}

func TestProcessTurn_UnknownSessionCreatesNew(t *testing.T) {
	mockDB := newTurnMockDB()
	mockDB.GetConversationFunc = func(sessionID string) (*db.Conversation, error) {
		return nil, db.ErrNotFound
	}

	provider := &testutil.MockChatProvider{}
	provider.CompleteFunc = func(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float32) (string, error) {
		return "Here is an answer.", nil
	}

	service := newTestService(mockDB, provider)

	result, err := service.ProcessTurn(context.Background(), TurnRequest{
		Query:     "What projects have you worked on?",
		SessionID: "expired-token",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.SessionID != "session-1" {
		t.Errorf("Expected a fresh session, got %q", result.SessionID)
	}
}

func TestProcessTurn_ProviderFailureApologizes(t *testing.T) {
	mockDB := newTurnMockDB()

	provider := &testutil.MockChatProvider{}
	provider.CompleteFunc = func(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float32) (string, error) {
		return "", errors.New("provider down")
	}

	service := newTestService(mockDB, provider)

	result, err := service.ProcessTurn(context.Background(), TurnRequest{
		Query: "What projects have you worked on?",
	})
	if err != nil {
		t.Fatalf("Expected soft fallback, got error: %v", err)
	}
	if result.Response != apologyResponse {
		t.Errorf("Expected apology response, got: %q", result.Response)
	}
}

func TestProcessTurn_SourceFAQMatch(t *testing.T) {
	faqResponse := "I've worked on a range of design and development projects."

	mockDB := newTurnMockDB()
	mockDB.GetActiveFAQsFunc = func(limit int) ([]db.FAQ, error) {
		return []db.FAQ{{ID: "faq-1", Question: "What projects?", Response: faqResponse}}, nil
	}

	provider := &testutil.MockChatProvider{}
	calls := 0
	provider.CompleteFunc = func(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float32) (string, error) {
		calls++
		if calls == 1 {
			// Same text with different casing and spacing still matches
			return "  I'VE worked on a range of   design and development projects. ", nil
		}
		return "unstructured", nil
	}

	service := newTestService(mockDB, provider)

	result, err := service.ProcessTurn(context.Background(), TurnRequest{
		Query: "What projects have you worked on?",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.SourceFAQID == nil || *result.SourceFAQID != "faq-1" {
		t.Errorf("Expected source FAQ 'faq-1', got: %v", result.SourceFAQID)
	}
}

func TestProcessTurn_NoFuzzyFAQMatch(t *testing.T) {
	mockDB := newTurnMockDB()
	mockDB.GetActiveFAQsFunc = func(limit int) ([]db.FAQ, error) {
		return []db.FAQ{{ID: "faq-1", Response: "I've worked on many projects."}}, nil
	}

	provider := &testutil.MockChatProvider{}
	provider.CompleteFunc = func(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float32) (string, error) {
		return "I've worked on many projects, including a checkout redesign.", nil
	}

	service := newTestService(mockDB, provider)

	result, err := service.ProcessTurn(context.Background(), TurnRequest{
		Query: "What projects have you worked on?",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.SourceFAQID != nil {
		t.Errorf("Expected no FAQ attribution for a partial match, got: %v", *result.SourceFAQID)
	}
}

func TestProcessTurn_InvalidResponseLengthDefaults(t *testing.T) {
	mockDB := newTurnMockDB()

	var appendedParams db.AIMessageParams
	baseAppend := mockDB.AppendTurnFunc
	mockDB.AppendTurnFunc = func(sessionID, userContent string, ai db.AIMessageParams) (*db.Message, *db.Message, int, error) {
		appendedParams = ai
		return baseAppend(sessionID, userContent, ai)
	}

	provider := &testutil.MockChatProvider{}
	var requestedTokens int
	calls := 0
	provider.CompleteFunc = func(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float32) (string, error) {
		calls++
		if calls == 1 {
			requestedTokens = maxTokens
		}
		return "An answer.", nil
	}

	service := newTestService(mockDB, provider)

	_, err := service.ProcessTurn(context.Background(), TurnRequest{
		Query:          "What projects have you worked on?",
		ResponseLength: "gigantic",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if appendedParams.ResponseLength != "short" {
		t.Errorf("Expected invalid length to default to 'short', got %q", appendedParams.ResponseLength)
	}
	if requestedTokens != 200 {
		t.Errorf("Expected short token budget 200, got %d", requestedTokens)
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	service := newTestService(&testutil.MockDatabase{}, &testutil.MockChatProvider{})

	prompt := service.buildSystemPrompt("PROJECT: Checkout Redesign", "long")

	for _, fragment := range []string{
		"You are Test Persona, a designer",
		"PROJECT: Checkout Redesign",
		refusalResponse,
		lengthInstructions["long"],
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("Expected prompt to contain %q", fragment)
		}
	}
}
