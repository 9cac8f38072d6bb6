package slide

import (
	"context"
	"errors"
	"strings"
	"testing"

	"portfolio-chat/internal/repository/db"
	"portfolio-chat/internal/testutil"
)

func TestParseSlideContent(t *testing.T) {
	raw := `TITLE: My Design Process
BODY:
- Research first, always with real users
- Iterate through low-fidelity prototypes
- Validate with usability testing`

	title, bullets := parseSlideContent(raw)

	if title != "My Design Process" {
		t.Errorf("Expected title 'My Design Process', got %q", title)
	}
	if len(bullets) != 3 {
		t.Fatalf("Expected 3 bullets, got %d", len(bullets))
	}
	if bullets[0] != "Research first, always with real users" {
		t.Errorf("Unexpected first bullet: %q", bullets[0])
	}
}

func TestParseSlideContent_IgnoresNoise(t *testing.T) {
	raw := `Here is your slide:
TITLE: Skills Overview
Some commentary the model added.
BODY:
- Strong in Go and React
-
- Experienced with PostgreSQL`

	title, bullets := parseSlideContent(raw)

	if title != "Skills Overview" {
		t.Errorf("Expected title 'Skills Overview', got %q", title)
	}
	// Empty bullet lines are dropped
	if len(bullets) != 2 {
		t.Errorf("Expected 2 bullets, got %d: %v", len(bullets), bullets)
	}
}

func TestParseSlideContent_Malformed(t *testing.T) {
	title, bullets := parseSlideContent("just some freeform text with no structure")

	if title != "" || len(bullets) != 0 {
		t.Errorf("Expected empty parse for unstructured text, got title=%q bullets=%v", title, bullets)
	}
}

func TestExtractTitleFromQuery(t *testing.T) {
	tests := []struct {
		query    string
		expected string
	}{
		{"What projects have you worked on?", "My Projects"},
		{"what are your skills", "My Skills"},
		{"Tell me about your design process", "My Design Process"},
		{"what tools do you use?", "Tools & Technologies"},
		{"something unrelated", "Portfolio Information"},
	}

	for _, tt := range tests {
		if got := extractTitleFromQuery(tt.query); got != tt.expected {
			t.Errorf("Query %q: expected %q, got %q", tt.query, tt.expected, got)
		}
	}
}

func TestFallbackSlide(t *testing.T) {
	response := "I have worked on several large projects. My favorite was a checkout redesign for mobile. The results exceeded every target we set. OK."

	title, body := fallbackSlide("what projects have you worked on?", response)

	if title != "My Projects" {
		t.Errorf("Expected fallback title 'My Projects', got %q", title)
	}
	if !strings.Contains(body, "<ul class=\"slide-bullets\">") {
		t.Errorf("Expected HTML bullet list, got: %s", body)
	}
	// Leading filler like "I have" / "My" / "The" is stripped
	if strings.Contains(body, "<li>I have") || strings.Contains(body, "<li>My ") {
		t.Errorf("Expected leading filler stripped from bullets, got: %s", body)
	}
	// "OK" is too short to become a bullet
	if strings.Contains(body, "<li>OK</li>") {
		t.Errorf("Expected short sentence to be dropped, got: %s", body)
	}
}

func TestFallbackSlide_NoUsableSentences(t *testing.T) {
	_, body := fallbackSlide("hello", "Hi. Yes. No.")

	if !strings.Contains(body, "Key portfolio information") {
		t.Errorf("Expected canned bullets when nothing usable, got: %s", body)
	}
}

func TestFallbackSlide_OnlyFirstFourSentences(t *testing.T) {
	// A usable sentence past the first four does not become a bullet
	response := "Hi. Yes. No. Sure. A checkout redesign for mobile was my favorite project by far."

	_, body := fallbackSlide("hello", response)

	if strings.Contains(body, "checkout redesign") {
		t.Errorf("Expected fifth sentence to be ignored, got: %s", body)
	}
	if !strings.Contains(body, "Key portfolio information") {
		t.Errorf("Expected canned bullets when the first sentences are unusable, got: %s", body)
	}
}

func TestGenerate_ProviderFailureFallsBack(t *testing.T) {
	provider := &testutil.MockChatProvider{}
	provider.CompleteFunc = func(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float32) (string, error) {
		return "", errors.New("provider down")
	}

	service := NewSlideService(provider)

	title, body, media := service.Generate(context.Background(), "what are your skills?",
		"I am strongest in Go backend development. I also enjoy frontend work with React.", nil)

	if title != "My Skills" {
		t.Errorf("Expected heuristic title 'My Skills', got %q", title)
	}
	if !strings.Contains(body, "<li>") {
		t.Errorf("Expected heuristic bullets, got: %s", body)
	}
	if len(media) != 0 {
		t.Errorf("Expected no media without projects, got: %v", media)
	}
}

func TestGenerate_UsesProviderOutput(t *testing.T) {
	provider := &testutil.MockChatProvider{}
	provider.CompleteFunc = func(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float32) (string, error) {
		return "TITLE: Checkout Redesign\nBODY:\n- Cut steps from 7 to 3\n- Conversion up 23%", nil
	}

	service := NewSlideService(provider)

	title, body, _ := service.Generate(context.Background(), "tell me about the checkout project", "We redesigned it.", nil)

	if title != "Checkout Redesign" {
		t.Errorf("Expected provider title, got %q", title)
	}
	if !strings.Contains(body, "<li>Cut steps from 7 to 3</li>") {
		t.Errorf("Expected provider bullets rendered as HTML, got: %s", body)
	}
}

func TestExtractMediaURLs_MatchesProjectByTitle(t *testing.T) {
	projects := []db.Project{
		{
			Title:        "E-commerce Mobile App",
			Technologies: []string{"Figma", "React Native"},
			CaseStudy: &db.CaseStudy{
				HeroImage: "https://cdn.example.com/hero.png",
				Category:  "design",
				Sections: []db.Section{
					{SectionType: "design", MediaURLs: []string{"https://cdn.example.com/wireframe.png"}},
					{SectionType: "results", MediaURLs: []string{"https://cdn.example.com/metrics.png"}},
				},
			},
		},
	}

	media := ExtractMediaURLs("tell me about the e-commerce mobile app", "It went well.", projects)

	if len(media) == 0 {
		t.Fatal("Expected media for matched project, got none")
	}
	if media[0] != "https://cdn.example.com/hero.png" {
		t.Errorf("Expected hero image first, got %q", media[0])
	}
}

func TestExtractMediaURLs_NoMatch(t *testing.T) {
	projects := []db.Project{
		{Title: "Roadmap Tool", Technologies: []string{"Jira"}},
	}

	if media := ExtractMediaURLs("what is your favorite color?", "Blue.", projects); len(media) != 0 {
		t.Errorf("Expected no media for unmatched query, got: %v", media)
	}
}
