package voice

import "testing"

func TestEstimateWordTimestamps_OneEntryPerWord(t *testing.T) {
	timestamps := EstimateWordTimestamps("I design and build products")

	if len(timestamps) != 5 {
		t.Fatalf("Expected 5 entries, got %d", len(timestamps))
	}

	expected := []string{"I", "design", "and", "build", "products"}
	for i, ts := range timestamps {
		if ts.Word != expected[i] {
			t.Errorf("Expected word %d to be %q, got %q", i, expected[i], ts.Word)
		}
	}
}

func TestEstimateWordTimestamps_Monotonic(t *testing.T) {
	timestamps := EstimateWordTimestamps("First sentence here. Second one, with a clause, follows!")

	prevStart := -1.0
	for _, ts := range timestamps {
		if ts.Start < prevStart {
			t.Errorf("Expected non-decreasing starts, got %f after %f", ts.Start, prevStart)
		}
		if ts.End < ts.Start {
			t.Errorf("Expected end >= start for %q, got start=%f end=%f", ts.Word, ts.Start, ts.End)
		}
		prevStart = ts.Start
	}
}

func TestEstimateWordTimestamps_PunctuationAddsPause(t *testing.T) {
	plain := EstimateWordTimestamps("one two")
	paused := EstimateWordTimestamps("one. two")

	if len(plain) != 2 || len(paused) != 2 {
		t.Fatalf("Expected 2 entries each, got %d and %d", len(plain), len(paused))
	}

	// Punctuation emits no entry but shifts the next word later
	if paused[1].Start <= plain[1].Start {
		t.Errorf("Expected sentence pause to delay second word: %f vs %f", paused[1].Start, plain[1].Start)
	}
}

func TestEstimateWordTimestamps_LongWordCapped(t *testing.T) {
	timestamps := EstimateWordTimestamps("internationalization")

	if len(timestamps) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(timestamps))
	}

	duration := timestamps[0].End - timestamps[0].Start
	if duration > maxWordDuration+0.001 {
		t.Errorf("Expected duration capped at %f, got %f", maxWordDuration, duration)
	}
}

func TestEstimateWordTimestamps_Empty(t *testing.T) {
	if timestamps := EstimateWordTimestamps(""); len(timestamps) != 0 {
		t.Errorf("Expected no entries for empty text, got %d", len(timestamps))
	}
}
