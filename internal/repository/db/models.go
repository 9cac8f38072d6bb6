package db

import "time"

// Project represents a portfolio project in the database
type Project struct {
	ID           string
	Title        string
	Slug         string
	Summary      string
	Description  string
	Role         string
	Timeline     string
	Technologies []string
	Featured     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// CaseStudy is nil when the project has no case study
	CaseStudy *CaseStudy
}

// CaseStudy represents the narrative attached to a project
type CaseStudy struct {
	ID               string
	ProjectID        string
	Category         string // design | development | product
	HeroImage        string
	ProblemStatement string
	SolutionOverview string
	ImpactMetrics    []ImpactMetric
	LessonsLearned   string
	NextSteps        string
	Sections         []Section
}

// ImpactMetric is a single measured outcome of a case study
type ImpactMetric struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

// Section represents an ordered segment of a case study
type Section struct {
	ID          string
	CaseStudyID string
	Title       string
	SectionType string // research | design | development | testing | results | reflection
	Content     string
	Order       int
	MediaURLs   []string
}

// FAQ represents a curated question/response pair with an optional cached
// voice clip. Audio, once generated, is treated as an immutable cache of
// Response; editing Response does not invalidate it.
type FAQ struct {
	ID                    string
	Question              string
	Response              string
	IsFeatured            bool
	IsActive              bool
	Priority              int
	AudioData             []byte
	AudioGeneratedAt      *time.Time
	AudioGenerationTimeMs *int
	WordTimestamps        []WordTimestamp
	CreatedAt             time.Time
}

// HasAudio reports whether a voice clip has been generated for this FAQ
func (f *FAQ) HasAudio() bool {
	return len(f.AudioData) > 0
}

// WordTimestamp is an estimated timing window for one spoken word
type WordTimestamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Conversation represents a visitor chat session identified by an opaque token
type Conversation struct {
	SessionID     string
	StartedAt     time.Time
	LastActivity  time.Time
	IsActive      bool
	TotalMessages int
	IPAddress     string
	UserAgent     string
}

// Message types
const (
	MessageTypeUserQuery  = "user_query"
	MessageTypeAIResponse = "ai_response"
)

// Message represents a single message in a conversation
type Message struct {
	ID             string
	SessionID      string
	MessageType    string
	Content        string
	Timestamp      time.Time
	OrderInSession int

	// AI response fields only
	ResponseTimeMs        *int
	TokenCount            *int
	ResponseLength        string
	SlideTitle            string
	SlideBody             string
	SourceFAQID           *string
	AudioData             []byte
	AudioGeneratedAt      *time.Time
	AudioGenerationTimeMs *int
	WordTimestamps        []WordTimestamp
}

// HasAudio reports whether a voice clip has been generated for this message
func (m *Message) HasAudio() bool {
	return len(m.AudioData) > 0
}

// AIMessageParams carries the generated reply and its metadata into a turn append
type AIMessageParams struct {
	Content        string
	ResponseTimeMs int
	TokenCount     int
	ResponseLength string
	SlideTitle     string
	SlideBody      string
	SourceFAQID    *string
}
