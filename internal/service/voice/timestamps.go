package voice

import (
	"regexp"
	"strings"

	"portfolio-chat/internal/repository/db"
)

// The TTS API does not return word-level timing, so it is estimated offline
// from average speech rate.
const (
	wordsPerMinute = 165.0
	baseWordSecs   = 60.0 / wordsPerMinute

	// Word duration scales with length relative to a typical 5-letter word,
	// capped so long words do not dominate
	typicalWordLen  = 5.0
	maxWordDuration = 1.5 * baseWordSecs

	sentencePauseSecs = 0.5
	clausePauseSecs   = 0.3
	bracketPauseSecs  = 0.1
)

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9']+|[.,!?;:()\[\]{}—–-]`)

// EstimateWordTimestamps estimates per-word timing windows for spoken text.
// Words advance the clock by a length-weighted duration; punctuation adds a
// fixed pause per class and emits no entry.
func EstimateWordTimestamps(text string) []db.WordTimestamp {
	var timestamps []db.WordTimestamp
	cursor := 0.0

	for _, token := range tokenPattern.FindAllString(text, -1) {
		if pause, ok := punctuationPause(token); ok {
			cursor += pause
			continue
		}

		duration := baseWordSecs * float64(len(token)) / typicalWordLen
		if duration > maxWordDuration {
			duration = maxWordDuration
		}

		timestamps = append(timestamps, db.WordTimestamp{
			Word:  token,
			Start: round3(cursor),
			End:   round3(cursor + duration),
		})
		cursor += duration
	}

	return timestamps
}

func punctuationPause(token string) (float64, bool) {
	switch {
	case strings.ContainsAny(token, ".!?"):
		return sentencePauseSecs, true
	case strings.ContainsAny(token, ",;:"):
		return clausePauseSecs, true
	case strings.ContainsAny(token, "()[]{}—–-"):
		return bracketPauseSecs, true
	}
	return 0, false
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
