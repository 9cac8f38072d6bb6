package db

import "errors"

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// ErrSessionLimitReached is returned when a conversation has hit its message cap
var ErrSessionLimitReached = errors.New("session message limit reached")

// Database defines the persistence operations used by the services
type Database interface {
	// Content store (read-only during a turn)
	GetProjects() ([]Project, error)
	GetActiveFAQs(limit int) ([]FAQ, error)
	GetFeaturedFAQs() ([]FAQ, error)
	GetFAQ(id string) (*FAQ, error)

	// Content authoring (seed command)
	CreateProject(p *Project) error
	CreateCaseStudy(cs *CaseStudy) error
	CreateSection(s *Section) error
	CreateFAQ(f *FAQ) error
	SaveFAQAudio(faqID string, audio []byte, generationTimeMs int, timestamps []WordTimestamp) error

	// Conversation ledger
	GetConversation(sessionID string) (*Conversation, error)
	CreateConversation(ipAddress, userAgent string) (*Conversation, error)
	AppendTurn(sessionID, userContent string, ai AIMessageParams) (*Message, *Message, int, error)
	GetConversationMessages(sessionID string) ([]Message, error)
	GetRecentUserMessages(sessionID string, limit int) ([]string, error)
	GetMessage(id string) (*Message, error)
	SaveMessageAudio(messageID string, audio []byte, generationTimeMs int, timestamps []WordTimestamp) error

	Close() error
}
