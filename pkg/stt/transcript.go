package stt

import "sync"

// Accumulator reconciles partial and final transcript events into a running
// transcript. The fold is order-dependent: a non-final event replaces the
// current partial hypothesis (the recognizer resends the growing hypothesis
// for the active segment), a final event replaces the stable transcript and
// clears the partial, and a terminal event freezes the result. Replaying the
// same event sequence yields the same outcome.
type Accumulator struct {
	mu      sync.Mutex
	partial string
	stable  string
	frozen  bool
	result  Result
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Apply folds one event in arrival order. It returns false when the event
// arrived after the stream already ended, which callers should surface as a
// protocol anomaly rather than silently reconcile.
func (a *Accumulator) Apply(ev TranscriptEvent) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.frozen {
		return false
	}

	if ev.IsFinal {
		a.stable = ev.Transcript
		a.partial = ""
	} else if ev.Transcript != "" {
		a.partial = ev.Transcript
	}

	if ev.FullTranscript != "" {
		a.result.FullTranscript = ev.FullTranscript
	}
	if ev.Language != "" {
		a.result.Language = ev.Language
	}
	if len(ev.Languages) > 0 {
		a.result.Languages = ev.Languages
	}
	if len(ev.Words) > 0 {
		a.result.Words = ev.Words
	}
	if len(ev.Utterances) > 0 {
		a.result.Utterances = ev.Utterances
	}
	if len(ev.RedactedEntities) > 0 {
		a.result.RedactedEntities = ev.RedactedEntities
	}

	if ev.Terminal() {
		a.result.Transcript = a.running()
		a.frozen = true
	}
	return true
}

// Running returns the caller-visible running transcript: the active partial
// hypothesis when one exists, otherwise the latest stable transcript.
func (a *Accumulator) Running() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running()
}

func (a *Accumulator) running() string {
	if a.partial != "" {
		return a.partial
	}
	return a.stable
}

// Frozen reports whether a terminal event has been applied.
func (a *Accumulator) Frozen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frozen
}

// Snapshot returns the reconciled result so far. After the stream ends this
// is the session's final result.
func (a *Accumulator) Snapshot() Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.result
	if !a.frozen {
		out.Transcript = a.running()
	}
	return out
}
