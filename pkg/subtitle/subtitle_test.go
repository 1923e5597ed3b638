package subtitle

import (
	"strings"
	"testing"
	"time"

	"github.com/smallestai/waves-go/pkg/stt"
)

func words(n int, wordDur, gap float64) []stt.Word {
	out := make([]stt.Word, n)
	t := 0.0
	for i := range out {
		out[i] = stt.Word{Word: "w", Start: t, End: t + wordDur}
		t += wordDur + gap
	}
	return out
}

func TestSegmentsBreakOnWordBudget(t *testing.T) {
	segs := Segments(words(25, 0.2, 0.05), Options{WordsPerSegment: 10})
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	if got := len(strings.Fields(segs[0].Text)); got != 10 {
		t.Fatalf("expected 10 words in first segment, got %d", got)
	}
	if got := len(strings.Fields(segs[2].Text)); got != 5 {
		t.Fatalf("expected 5 words in last segment, got %d", got)
	}
}

func TestSegmentsBreakOnDuration(t *testing.T) {
	// Words are 1.5s each, so a 3s cap breaks every other word.
	segs := Segments(words(4, 1.5, 0), Options{WordsPerSegment: 100, MaxSegmentDuration: 3 * time.Second})
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].End-segs[0].Start > 3.0 {
		t.Fatalf("segment exceeds duration cap: %+v", segs[0])
	}
}

func TestSRTFormat(t *testing.T) {
	segs := []Segment{
		{Start: 0.5, End: 2.25, Text: "hello world"},
		{Start: 3661.5, End: 3663.0, Text: "an hour later"},
	}
	out := SRT(segs)
	if !strings.Contains(out, "1\n00:00:00,500 --> 00:00:02,250\nhello world\n") {
		t.Fatalf("unexpected SRT output:\n%s", out)
	}
	if !strings.Contains(out, "2\n01:01:01,500 --> 01:01:03,000\nan hour later\n") {
		t.Fatalf("hour rollover wrong:\n%s", out)
	}
}

func TestVTTFormat(t *testing.T) {
	out := VTT([]Segment{{Start: 0, End: 1.1, Text: "hi"}})
	if !strings.HasPrefix(out, "WEBVTT\n\n") {
		t.Fatalf("missing WEBVTT header:\n%s", out)
	}
	if !strings.Contains(out, "00:00:00.000 --> 00:00:01.100\nhi\n") {
		t.Fatalf("unexpected VTT cue:\n%s", out)
	}
}

func TestSegmentsEmptyWords(t *testing.T) {
	if segs := Segments(nil, Options{}); len(segs) != 0 {
		t.Fatalf("expected no segments, got %d", len(segs))
	}
}
