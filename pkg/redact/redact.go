package redact

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phoneRe = regexp.MustCompile(`\b\+?\d[\d\s\-]{7,}\d\b`)
	cardRe  = regexp.MustCompile(`\b(?:\d[ \-]?){13,19}\b`)
)

// PII masks emails and phone numbers in transcript text before it is logged.
// The recognizer performs its own redaction server-side; this keeps client
// logs clean when the caller requested redact_pii.
func PII(in string) string {
	if strings.TrimSpace(in) == "" {
		return in
	}
	out := emailRe.ReplaceAllString(in, "[REDACTED_EMAIL]")
	out = phoneRe.ReplaceAllString(out, "[REDACTED_PHONE]")
	return out
}

// PCI masks card-number-shaped digit runs.
func PCI(in string) string {
	if strings.TrimSpace(in) == "" {
		return in
	}
	return cardRe.ReplaceAllString(in, "[REDACTED_CARD]")
}
