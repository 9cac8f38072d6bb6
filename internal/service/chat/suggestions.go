package chat

import (
	"context"
	"strings"

	"portfolio-chat/internal/logger"
)

const maxSuggestionLength = 80

// Static fallback suggestion sets keyed by topic bucket
var fallbackSuggestions = map[string][]string{
	"project": {
		"What technologies did you use in your projects?",
		"Which project are you most proud of?",
		"Can you tell me about a challenging project?",
	},
	"skill": {
		"What projects showcase these skills?",
		"How did you learn these technologies?",
		"What is your strongest technical skill?",
	},
	"design": {
		"How do you approach user research?",
		"What does your design process look like?",
		"Can you share a design project example?",
	},
	"default": {
		"What projects have you worked on?",
		"What are your main skills?",
		"Tell me about your experience",
	},
}

// Checked in order; first bucket with a keyword hit wins
var suggestionBuckets = []struct {
	name     string
	keywords []string
}{
	{"project", []string{"project", "portfolio", "built", "build", "work"}},
	{"skill", []string{"skill", "technology", "technologies", "tech", "tool", "language"}},
	{"design", []string{"design", "ux", "research", "process"}},
}

// GenerateSuggestions produces 2-3 follow-up questions for the exchange via a
// second provider call, falling back to a static keyword-bucket set on any
// failure or unusable output
func (s *ChatService) GenerateSuggestions(ctx context.Context, userQuery, aiResponse string) []string {
	prompt := `Based on this portfolio conversation:

Visitor asked: "` + userQuery + `"
You answered: "` + aiResponse + `"

Suggest 2-3 short follow-up questions the visitor might ask next about the portfolio.
Rules:
1. One question per line, no numbering or bullets
2. Each question must be under 80 characters
3. Each question must end with a question mark
4. Only ask about topics a portfolio could answer`

	raw, err := s.llmProvider.Complete(ctx, "You suggest concise follow-up questions for a portfolio chat.", prompt, 150, 0.7)
	if err != nil {
		logger.Log.WithError(err).Warn("Suggestion generation failed, using fallback")
		return fallbackSuggestionsFor(userQuery)
	}

	suggestions := parseSuggestions(raw)
	if len(suggestions) < 2 {
		logger.Log.WithField("parsed_count", len(suggestions)).Debug("Too few usable suggestions, using fallback")
		return fallbackSuggestionsFor(userQuery)
	}
	return suggestions
}

func parseSuggestions(raw string) []string {
	var suggestions []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789. ")
		line = strings.Trim(line, `"`)
		if line == "" || len(line) > maxSuggestionLength || !strings.HasSuffix(line, "?") {
			continue
		}
		suggestions = append(suggestions, line)
		if len(suggestions) == 3 {
			break
		}
	}
	return suggestions
}

func fallbackSuggestionsFor(userQuery string) []string {
	query := strings.ToLower(userQuery)
	for _, bucket := range suggestionBuckets {
		for _, keyword := range bucket.keywords {
			if strings.Contains(query, keyword) {
				return fallbackSuggestions[bucket.name]
			}
		}
	}
	return fallbackSuggestions["default"]
}
