package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Profanity substrings that block a message unless explained by the whitelist
var profanityWords = []string{
	"damn", "hell", "crap", "stupid", "idiot", "moron", "dumb", "suck", "sucks",
	"hate", "kill", "die", "death", "murder", "assault", "attack", "violence",
	"spam", "scam", "fraud", "fake", "bot", "automated", "fuck", "shit", "bitch",
	"bastard", "ass", "asshole", "fag", "faggot", "cunt",
}

// Benign words whose presence explains a flagged substring
// (e.g. "skills" contains "kill", "assassin" contains "ass")
var acceptableWords = map[string]bool{
	"skills": true, "skilled": true, "skillful": true, "skillfully": true,
	"skillet": true, "skill": true,
	"classical": true, "glasses": true, "class": true, "massage": true,
	"assess": true, "assessment": true,
	"assassin": true, "assistance": true, "assistant": true,
	"passion": true, "passionate": true,
}

var (
	specialCharPattern = regexp.MustCompile(`[^a-zA-Z0-9\s.?!,'"]`)
	wordPattern        = regexp.MustCompile(`[a-zA-Z0-9_]+`)
)

// Validation errors with the reasons surfaced to the client
var (
	ErrTooShort          = errors.New("Message too short (minimum 3 characters)")
	ErrTooLong           = errors.New("Message too long (maximum 500 characters)")
	ErrSpecialChars      = errors.New("Message contains too many special characters")
	ErrRepeatedChars     = errors.New("Message contains excessive repeated characters")
	ErrExcessiveCaps     = errors.New("Message contains excessive capital letters")
	ErrProfanity         = errors.New("Message contains inappropriate content")
	ErrSpam              = errors.New("Message appears to be spam")
	ErrDuplicateMessage  = errors.New("Please avoid sending duplicate messages")
)

// MessageValidator validates visitor chat messages before they reach the
// generation pipeline. All checks are independent and short-circuit on the
// first failure.
type MessageValidator struct{}

// NewMessageValidator creates a new MessageValidator
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{}
}

// ValidateContent checks a raw message against length, character-noise,
// profanity and repetition heuristics. It has no side effects. All lengths
// and ratios count runes, not bytes, so multi-byte text is measured the
// same as ASCII.
func (v *MessageValidator) ValidateContent(message string) error {
	message = strings.TrimSpace(message)
	runeCount := utf8.RuneCountInString(message)

	if runeCount < 3 {
		return ErrTooShort
	}
	if runeCount > 500 {
		return ErrTooLong
	}

	// More than 30% characters outside the alphanumeric/punctuation set
	specialCount := len(specialCharPattern.FindAllString(message, -1))
	if float64(specialCount) > float64(runeCount)*0.3 {
		return ErrSpecialChars
	}

	// Any character repeated 5 or more times consecutively (like "aaaaaaa")
	if hasRepeatedRun(message, 5) {
		return ErrRepeatedChars
	}

	// More than 70% capital letters in messages over 10 characters
	if runeCount > 10 {
		capsCount := 0
		for _, r := range message {
			if unicode.IsUpper(r) {
				capsCount++
			}
		}
		if float64(capsCount)/float64(runeCount) > 0.7 {
			return ErrExcessiveCaps
		}
	}

	if containsProfanity(message) {
		return ErrProfanity
	}

	// Less than 50% unique words in messages over 3 words
	words := strings.Fields(message)
	if len(words) > 3 {
		unique := make(map[string]bool, len(words))
		for _, w := range words {
			unique[strings.ToLower(w)] = true
		}
		if float64(len(unique))/float64(len(words)) < 0.5 {
			return ErrSpam
		}
	}

	return nil
}

// ValidateNotDuplicate rejects a message identical to any of the session's
// recent user queries (trimmed, case-insensitive)
func (v *MessageValidator) ValidateNotDuplicate(message string, recentMessages []string) error {
	normalized := strings.ToLower(strings.TrimSpace(message))
	limit := len(recentMessages)
	if limit > 3 {
		limit = 3
	}
	for _, prev := range recentMessages[:limit] {
		if normalized == strings.ToLower(strings.TrimSpace(prev)) {
			return ErrDuplicateMessage
		}
	}
	return nil
}

func hasRepeatedRun(message string, threshold int) bool {
	var last rune
	run := 0
	for _, r := range message {
		if r == last {
			run++
			if run >= threshold {
				return true
			}
		} else {
			last = r
			run = 1
		}
	}
	return false
}

func containsProfanity(message string) bool {
	lower := strings.ToLower(message)

	// Whitelisted words actually present in the message
	var acceptableFound []string
	for _, word := range wordPattern.FindAllString(lower, -1) {
		if acceptableWords[word] {
			acceptableFound = append(acceptableFound, word)
		}
	}

	for _, profanity := range profanityWords {
		if !strings.Contains(lower, profanity) {
			continue
		}
		explained := false
		for _, acceptable := range acceptableFound {
			if strings.Contains(acceptable, profanity) {
				explained = true
				break
			}
		}
		if !explained {
			return true
		}
	}
	return false
}
