package chat

import (
	"context"
	"testing"

	"portfolio-chat/internal/testutil"
)

func TestParseSuggestions(t *testing.T) {
	raw := `1. What technologies did you use?
- "Which project took the longest?"
This line has no question mark
3. An acceptable third question?
A fourth question that would be one too many?`

	suggestions := parseSuggestions(raw)

	if len(suggestions) != 3 {
		t.Fatalf("Expected 3 suggestions, got %d: %v", len(suggestions), suggestions)
	}
	if suggestions[0] != "What technologies did you use?" {
		t.Errorf("Expected numbering stripped, got %q", suggestions[0])
	}
	if suggestions[1] != "Which project took the longest?" {
		t.Errorf("Expected bullet and quotes stripped, got %q", suggestions[1])
	}
}

func TestParseSuggestions_DropsOverlongLines(t *testing.T) {
	raw := "Could you possibly go into a great deal more depth about every single one of your projects?\nShort one?"

	suggestions := parseSuggestions(raw)

	if len(suggestions) != 1 || suggestions[0] != "Short one?" {
		t.Errorf("Expected only the short question, got: %v", suggestions)
	}
}

func TestGenerateSuggestions_FallbackBuckets(t *testing.T) {
	provider := &testutil.MockChatProvider{}
	provider.CompleteFunc = func(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float32) (string, error) {
		return "no questions here", nil
	}
	service := newTestService(&testutil.MockDatabase{}, provider)

	tests := []struct {
		query    string
		expected string
	}{
		{"tell me about your projects", "project"},
		{"what technologies do you know", "skill"},
		{"how do you approach ux research", "design"},
		{"hello there", "default"},
	}

	for _, tt := range tests {
		got := service.GenerateSuggestions(context.Background(), tt.query, "an answer")
		want := fallbackSuggestions[tt.expected]
		if len(got) != len(want) || got[0] != want[0] {
			t.Errorf("Query %q: expected %s bucket %v, got %v", tt.query, tt.expected, want, got)
		}
	}
}
