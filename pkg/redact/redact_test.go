package redact

import (
	"strings"
	"testing"
)

func TestPIIMasksEmailAndPhone(t *testing.T) {
	in := "reach me at jane.doe@example.com or +1 555-123-4567 tomorrow"
	out := PII(in)
	if strings.Contains(out, "jane.doe@example.com") {
		t.Fatalf("email not redacted: %q", out)
	}
	if strings.Contains(out, "555-123-4567") {
		t.Fatalf("phone not redacted: %q", out)
	}
	if !strings.Contains(out, "[REDACTED_EMAIL]") || !strings.Contains(out, "[REDACTED_PHONE]") {
		t.Fatalf("expected redaction markers, got %q", out)
	}
}

func TestPIILeavesPlainTextAlone(t *testing.T) {
	in := "the quick brown fox"
	if out := PII(in); out != in {
		t.Fatalf("expected unchanged text, got %q", out)
	}
}

func TestPCIMasksCardNumbers(t *testing.T) {
	out := PCI("card number 4111 1111 1111 1111 please")
	if strings.Contains(out, "4111") {
		t.Fatalf("card number not redacted: %q", out)
	}
}
