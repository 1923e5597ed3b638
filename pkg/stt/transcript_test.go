package stt

import "testing"

func foldEvents(events []TranscriptEvent) *Accumulator {
	acc := NewAccumulator()
	for _, ev := range events {
		acc.Apply(ev)
	}
	return acc
}

func TestAccumulatorReplacesGrowingHypothesis(t *testing.T) {
	events := []TranscriptEvent{
		{Transcript: "hel", IsFinal: false},
		{Transcript: "hello", IsFinal: false},
		{Transcript: "hello world", IsFinal: true},
		{IsLast: true},
	}
	acc := foldEvents(events)
	if got := acc.Snapshot().Transcript; got != "hello world" {
		t.Fatalf("expected %q, got %q", "hello world", got)
	}
	if !acc.Frozen() {
		t.Fatalf("expected accumulator frozen after is_last")
	}

	// The fold is pure: replaying the same sequence yields the same result.
	replay := foldEvents(events)
	if replay.Snapshot().Transcript != acc.Snapshot().Transcript {
		t.Fatalf("replay diverged: %q vs %q", replay.Snapshot().Transcript, acc.Snapshot().Transcript)
	}
}

func TestAccumulatorPartialVisibleWhileActive(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(TranscriptEvent{Transcript: "good mor", IsFinal: false})
	if got := acc.Running(); got != "good mor" {
		t.Fatalf("expected partial visible, got %q", got)
	}
	acc.Apply(TranscriptEvent{Transcript: "good morning", IsFinal: true})
	if got := acc.Running(); got != "good morning" {
		t.Fatalf("expected final to replace partial, got %q", got)
	}
}

func TestAccumulatorBareLastKeepsStableTranscript(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(TranscriptEvent{Transcript: "all done", IsFinal: true})
	acc.Apply(TranscriptEvent{IsLast: true})
	if got := acc.Snapshot().Transcript; got != "all done" {
		t.Fatalf("expected stable transcript preserved, got %q", got)
	}
}

func TestAccumulatorRejectsEventsAfterFreeze(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(TranscriptEvent{Transcript: "done", IsFinal: true, IsLast: true})
	if acc.Apply(TranscriptEvent{Transcript: "late", IsFinal: true}) {
		t.Fatalf("expected late event to be rejected")
	}
	if got := acc.Snapshot().Transcript; got != "done" {
		t.Fatalf("late event mutated frozen result: %q", got)
	}
}

func TestAccumulatorCapturesAnnotations(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(TranscriptEvent{
		Transcript:     "hi there",
		IsFinal:        true,
		IsLast:         true,
		FullTranscript: "hi there",
		Language:       "en",
		Languages:      []string{"en", "hi"},
		Words: []Word{
			{Word: "hi", Start: 0.1, End: 0.3, Confidence: 0.98, Speaker: "0"},
			{Word: "there", Start: 0.35, End: 0.6, Confidence: 0.95, Speaker: "0"},
		},
		Utterances: []Utterance{
			{Speaker: "0", Start: 0.1, End: 0.6, Text: "hi there"},
		},
		RedactedEntities: []string{"EMAIL"},
	})
	res := acc.Snapshot()
	if res.FullTranscript != "hi there" || res.Language != "en" {
		t.Fatalf("annotations not captured: %+v", res)
	}
	if len(res.Words) != 2 || len(res.Utterances) != 1 || len(res.RedactedEntities) != 1 {
		t.Fatalf("structured fields not captured: %+v", res)
	}
}
