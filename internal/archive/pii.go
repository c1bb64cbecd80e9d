package archive

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
)

const previewRunes = 120

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)
)

// HashContact returns the hex-encoded SHA-256 of a lowercased, trimmed
// email or phone number.
func HashContact(value string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(value))))
	return fmt.Sprintf("%x", h)
}

// ScrubPII replaces emails with [EMAIL] and phone numbers with [PHONE].
func ScrubPII(text string) string {
	text = emailRe.ReplaceAllString(text, "[EMAIL]")
	text = phoneRe.ReplaceAllString(text, "[PHONE]")
	return text
}

// Preview returns a scrubbed single-line excerpt of a lead message.
func Preview(message string) string {
	text := strings.Join(strings.Fields(ScrubPII(message)), " ")
	runes := []rune(text)
	if len(runes) > previewRunes {
		return string(runes[:previewRunes]) + "..."
	}
	return text
}
