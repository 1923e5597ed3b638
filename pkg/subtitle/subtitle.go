package subtitle

import (
	"fmt"
	"strings"
	"time"

	"github.com/smallestai/waves-go/pkg/stt"
)

const (
	DefaultWordsPerSegment    = 10
	DefaultMaxSegmentDuration = 5 * time.Second
)

// Options control how word timestamps are grouped into subtitle segments.
type Options struct {
	WordsPerSegment    int
	MaxSegmentDuration time.Duration
}

func (o Options) withDefaults() Options {
	if o.WordsPerSegment <= 0 {
		o.WordsPerSegment = DefaultWordsPerSegment
	}
	if o.MaxSegmentDuration <= 0 {
		o.MaxSegmentDuration = DefaultMaxSegmentDuration
	}
	return o
}

// Segment is one timed subtitle cue.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Segments groups recognized words into cues, breaking on the word budget
// or the maximum cue duration, whichever comes first.
func Segments(words []stt.Word, opts Options) []Segment {
	opts = opts.withDefaults()
	maxDur := opts.MaxSegmentDuration.Seconds()

	var segments []Segment
	var current []stt.Word
	segmentStart := -1.0

	flush := func() {
		if len(current) == 0 {
			return
		}
		texts := make([]string, len(current))
		for i, w := range current {
			texts[i] = w.Word
		}
		segments = append(segments, Segment{
			Start: segmentStart,
			End:   current[len(current)-1].End,
			Text:  strings.Join(texts, " "),
		})
		current = nil
		segmentStart = -1.0
	}

	for _, w := range words {
		if segmentStart < 0 {
			segmentStart = w.Start
		}
		current = append(current, w)
		if len(current) >= opts.WordsPerSegment || w.End-segmentStart >= maxDur {
			flush()
		}
	}
	flush()
	return segments
}

// SRT renders segments as a SubRip file.
func SRT(segments []Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatTimeSRT(seg.Start), formatTimeSRT(seg.End))
		b.WriteString(seg.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// VTT renders segments as a WebVTT file.
func VTT(segments []Segment) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, seg := range segments {
		fmt.Fprintf(&b, "%s --> %s\n", formatTimeVTT(seg.Start), formatTimeVTT(seg.End))
		b.WriteString(seg.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// formatTimeSRT renders HH:MM:SS,mmm.
func formatTimeSRT(seconds float64) string {
	h, m, s, ms := splitTime(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// formatTimeVTT renders HH:MM:SS.mmm.
func formatTimeVTT(seconds float64) string {
	h, m, s, ms := splitTime(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func splitTime(seconds float64) (h, m, s, ms int) {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h = total / 3600
	m = (total % 3600) / 60
	s = total % 60
	ms = int((seconds - float64(total)) * 1000)
	return h, m, s, ms
}
