package slide

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"portfolio-chat/internal/logger"
	"portfolio-chat/internal/repository/db"
	"portfolio-chat/internal/service/llm"
)

// Ordered query-pattern to title table for the fallback path; first match wins
var titlePatterns = []struct {
	pattern *regexp.Regexp
	title   string
}{
	{regexp.MustCompile(`what projects.*work`), "My Projects"},
	{regexp.MustCompile(`what.*skills`), "My Skills"},
	{regexp.MustCompile(`tell me about.*experience`), "My Experience"},
	{regexp.MustCompile(`what.*background`), "My Background"},
	{regexp.MustCompile(`what.*education`), "My Education"},
	{regexp.MustCompile(`design process`), "My Design Process"},
	{regexp.MustCompile(`what.*tools`), "Tools & Technologies"},
	{regexp.MustCompile(`what.*achievements`), "Key Achievements"},
	{regexp.MustCompile(`what.*roles`), "Professional Roles"},
	{regexp.MustCompile(`what.*companies`), "Work Experience"},
}

var leadingFillerPattern = regexp.MustCompile(`(?i)^(I|I've|I have|My|The|A)\s+`)

// SlideService generates slide title and HTML body content from a chat exchange
type SlideService struct {
	llmProvider llm.ChatProvider
}

// NewSlideService creates a new SlideService
func NewSlideService(provider llm.ChatProvider) *SlideService {
	return &SlideService{llmProvider: provider}
}

// Generate produces a slide title, HTML bullet body and relevant media URLs
// for one exchange. Provider failures and malformed output fall back to a
// deterministic heuristic; Generate never fails.
func (s *SlideService) Generate(ctx context.Context, userQuery, aiResponse string, projects []db.Project) (string, string, []string) {
	title, body := s.generateContent(ctx, userQuery, aiResponse)
	media := ExtractMediaURLs(userQuery, aiResponse, projects)
	return title, body, media
}

func (s *SlideService) generateContent(ctx context.Context, userQuery, aiResponse string) (string, string) {
	raw, err := s.llmProvider.Complete(ctx,
		"You are a presentation expert. Generate concise, professional slide content.",
		buildSlidePrompt(userQuery, aiResponse), 300, 0.3)
	if err != nil {
		logger.Log.WithError(err).Warn("Slide generation failed, using heuristic fallback")
		return fallbackSlide(userQuery, aiResponse)
	}

	title, bullets := parseSlideContent(raw)
	if title == "" && len(bullets) == 0 {
		logger.Log.Debug("Malformed slide output, using heuristic fallback")
		return fallbackSlide(userQuery, aiResponse)
	}
	if title == "" {
		title = extractTitleFromQuery(userQuery)
	}
	if len(bullets) == 0 {
		_, body := fallbackSlide(userQuery, aiResponse)
		return title, body
	}
	return title, renderBulletsHTML(bullets)
}

func buildSlidePrompt(userQuery, aiResponse string) string {
	return fmt.Sprintf(`
Based on this conversation:

User Question: "%s"
AI Response: "%s"

Generate slide content in this exact format:

TITLE: [Create a concise, professional slide title (max 50 characters)]
BODY:
- [First key point from the response]
- [Second key point from the response]
- [Third key point from the response]
- [Fourth key point if applicable]

Rules:
1. Title should be clear and relevant to the user's question
2. Use 3-4 bullet points maximum
3. Each bullet should be 10-15 words
4. Focus on the most important information
5. Use professional, portfolio-appropriate language`, userQuery, aiResponse)
}

// parseSlideContent scans lines for the literal TITLE:/BODY:/- prefixes
func parseSlideContent(content string) (string, []string) {
	var title string
	var bullets []string

	inBody := false
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "TITLE:"):
			title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
		case strings.HasPrefix(line, "BODY:"):
			inBody = true
		case inBody && strings.HasPrefix(line, "-"):
			if bullet := strings.TrimSpace(line[1:]); bullet != "" {
				bullets = append(bullets, bullet)
			}
		}
	}
	return title, bullets
}

// fallbackSlide derives a slide deterministically when the provider fails:
// sentence-split the reply, keep mid-length sentences among the first four,
// strip leading filler
func fallbackSlide(userQuery, aiResponse string) (string, string) {
	title := extractTitleFromQuery(userQuery)

	sentences := strings.Split(aiResponse, ".")
	if len(sentences) > 4 {
		sentences = sentences[:4]
	}

	var bullets []string
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= 15 || len(sentence) >= 100 {
			continue
		}
		clean := strings.TrimSpace(leadingFillerPattern.ReplaceAllString(sentence, ""))
		if clean != "" {
			bullets = append(bullets, clean)
		}
	}

	if len(bullets) == 0 {
		bullets = []string{"Key portfolio information", "Professional experience highlights"}
	}

	return title, renderBulletsHTML(bullets)
}

func extractTitleFromQuery(query string) string {
	query = strings.ToLower(strings.TrimSpace(query))
	for _, entry := range titlePatterns {
		if entry.pattern.MatchString(query) {
			return entry.title
		}
	}
	return "Portfolio Information"
}

func renderBulletsHTML(bullets []string) string {
	var b strings.Builder
	b.WriteString("<ul class=\"slide-bullets\">\n")
	for _, bullet := range bullets {
		fmt.Fprintf(&b, "  <li>%s</li>\n", bullet)
	}
	b.WriteString("</ul>")
	return b.String()
}
