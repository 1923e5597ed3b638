package stt

import (
	"encoding/json"
	"fmt"
)

// Speaker is a diarization label. The recognizer emits it as either a bare
// number or a string depending on the endpoint, so both are accepted.
type Speaker string

func (s *Speaker) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Speaker(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = Speaker(num.String())
		return nil
	}
	return fmt.Errorf("speaker: unsupported value %s", string(data))
}

// Word is one recognized word with timing, confidence and speaker attribution.
type Word struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
	Speaker    Speaker `json:"speaker,omitempty"`
}

// Utterance is one diarized speech segment.
type Utterance struct {
	Speaker Speaker `json:"speaker,omitempty"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
}

// TranscriptEvent is one message from the recognizer, immutable once
// received. IsFinal marks segment finality; IsLast terminates the stream.
// The two flags are orthogonal.
type TranscriptEvent struct {
	Type             string      `json:"type,omitempty"`
	Transcript       string      `json:"transcript,omitempty"`
	IsFinal          bool        `json:"is_final,omitempty"`
	IsLast           bool        `json:"is_last,omitempty"`
	FullTranscript   string      `json:"full_transcript,omitempty"`
	Language         string      `json:"language,omitempty"`
	Languages        []string    `json:"languages,omitempty"`
	Words            []Word      `json:"words,omitempty"`
	Utterances       []Utterance `json:"utterances,omitempty"`
	RedactedEntities []string    `json:"redacted_entities,omitempty"`
}

// Terminal reports whether this event ends the stream. A bare
// {"type":"end"} control echo is treated the same as is_last.
func (e TranscriptEvent) Terminal() bool {
	return e.IsLast || e.Type == "end"
}

// Result is the reconciled outcome of a session: the latest stable
// transcript plus whatever structured annotations the recognizer delivered.
type Result struct {
	Transcript       string
	FullTranscript   string
	Language         string
	Languages        []string
	Words            []Word
	Utterances       []Utterance
	RedactedEntities []string
}
