package testutil

import (
	"context"
	"errors"

	"portfolio-chat/internal/repository/db"
)

// MockDatabase is a mock implementation of db.Database for testing
type MockDatabase struct {
	// Content mocks
	GetProjectsFunc     func() ([]db.Project, error)
	GetActiveFAQsFunc   func(limit int) ([]db.FAQ, error)
	GetFeaturedFAQsFunc func() ([]db.FAQ, error)
	GetFAQFunc          func(id string) (*db.FAQ, error)

	// Authoring mocks
	CreateProjectFunc   func(p *db.Project) error
	CreateCaseStudyFunc func(cs *db.CaseStudy) error
	CreateSectionFunc   func(s *db.Section) error
	CreateFAQFunc       func(f *db.FAQ) error
	SaveFAQAudioFunc    func(faqID string, audio []byte, generationTimeMs int, timestamps []db.WordTimestamp) error

	// Conversation mocks
	GetConversationFunc         func(sessionID string) (*db.Conversation, error)
	CreateConversationFunc      func(ipAddress, userAgent string) (*db.Conversation, error)
	AppendTurnFunc              func(sessionID, userContent string, ai db.AIMessageParams) (*db.Message, *db.Message, int, error)
	GetConversationMessagesFunc func(sessionID string) ([]db.Message, error)
	GetRecentUserMessagesFunc   func(sessionID string, limit int) ([]string, error)
	GetMessageFunc              func(id string) (*db.Message, error)
	SaveMessageAudioFunc        func(messageID string, audio []byte, generationTimeMs int, timestamps []db.WordTimestamp) error
}

// Content methods
func (m *MockDatabase) GetProjects() ([]db.Project, error) {
	if m.GetProjectsFunc != nil {
		return m.GetProjectsFunc()
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetActiveFAQs(limit int) ([]db.FAQ, error) {
	if m.GetActiveFAQsFunc != nil {
		return m.GetActiveFAQsFunc(limit)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetFeaturedFAQs() ([]db.FAQ, error) {
	if m.GetFeaturedFAQsFunc != nil {
		return m.GetFeaturedFAQsFunc()
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetFAQ(id string) (*db.FAQ, error) {
	if m.GetFAQFunc != nil {
		return m.GetFAQFunc(id)
	}
	return nil, errors.New("not implemented")
}

// Authoring methods
func (m *MockDatabase) CreateProject(p *db.Project) error {
	if m.CreateProjectFunc != nil {
		return m.CreateProjectFunc(p)
	}
	return errors.New("not implemented")
}

func (m *MockDatabase) CreateCaseStudy(cs *db.CaseStudy) error {
	if m.CreateCaseStudyFunc != nil {
		return m.CreateCaseStudyFunc(cs)
	}
	return errors.New("not implemented")
}

func (m *MockDatabase) CreateSection(s *db.Section) error {
	if m.CreateSectionFunc != nil {
		return m.CreateSectionFunc(s)
	}
	return errors.New("not implemented")
}

func (m *MockDatabase) CreateFAQ(f *db.FAQ) error {
	if m.CreateFAQFunc != nil {
		return m.CreateFAQFunc(f)
	}
	return errors.New("not implemented")
}

func (m *MockDatabase) SaveFAQAudio(faqID string, audio []byte, generationTimeMs int, timestamps []db.WordTimestamp) error {
	if m.SaveFAQAudioFunc != nil {
		return m.SaveFAQAudioFunc(faqID, audio, generationTimeMs, timestamps)
	}
	return errors.New("not implemented")
}

// Conversation methods
func (m *MockDatabase) GetConversation(sessionID string) (*db.Conversation, error) {
	if m.GetConversationFunc != nil {
		return m.GetConversationFunc(sessionID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) CreateConversation(ipAddress, userAgent string) (*db.Conversation, error) {
	if m.CreateConversationFunc != nil {
		return m.CreateConversationFunc(ipAddress, userAgent)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) AppendTurn(sessionID, userContent string, ai db.AIMessageParams) (*db.Message, *db.Message, int, error) {
	if m.AppendTurnFunc != nil {
		return m.AppendTurnFunc(sessionID, userContent, ai)
	}
	return nil, nil, 0, errors.New("not implemented")
}

func (m *MockDatabase) GetConversationMessages(sessionID string) ([]db.Message, error) {
	if m.GetConversationMessagesFunc != nil {
		return m.GetConversationMessagesFunc(sessionID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetRecentUserMessages(sessionID string, limit int) ([]string, error) {
	if m.GetRecentUserMessagesFunc != nil {
		return m.GetRecentUserMessagesFunc(sessionID, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetMessage(id string) (*db.Message, error) {
	if m.GetMessageFunc != nil {
		return m.GetMessageFunc(id)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) SaveMessageAudio(messageID string, audio []byte, generationTimeMs int, timestamps []db.WordTimestamp) error {
	if m.SaveMessageAudioFunc != nil {
		return m.SaveMessageAudioFunc(messageID, audio, generationTimeMs, timestamps)
	}
	return errors.New("not implemented")
}

func (m *MockDatabase) Close() error {
	return nil
}

// MockChatProvider is a mock implementation of llm.ChatProvider for testing
type MockChatProvider struct {
	CompleteFunc     func(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float32) (string, error)
	IsConfiguredFunc func() bool
}

func (m *MockChatProvider) Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float32) (string, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, userMessage, maxTokens, temperature)
	}
	return "", errors.New("not implemented")
}

func (m *MockChatProvider) IsConfigured() bool {
	if m.IsConfiguredFunc != nil {
		return m.IsConfiguredFunc()
	}
	return true
}
