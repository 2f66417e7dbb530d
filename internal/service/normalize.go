package service

import (
	"regexp"
	"strings"
	"unicode"
)

// minLineLetters is the floor of alphabetic characters a non-blank line
// needs to survive normalization. Shorter lines are decorative noise:
// page numbers, bullet glyphs, rule lines.
const minLineLetters = 3

var (
	controlChars   = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	horizontalRuns = regexp.MustCompile(`[ \t]+`)
	newlineRuns    = regexp.MustCompile(`\n{3,}`)
)

// normalizeText cleans raw extracted document text for chunking. It
// strips control characters, unifies line endings, drops low-signal
// lines while keeping blank lines as paragraph separators, and collapses
// whitespace runs. The function is pure and idempotent.
func normalizeText(text string) string {
	if text == "" {
		return ""
	}

	text = controlChars.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || countLetters(line) >= minLineLetters {
			kept = append(kept, line)
		}
	}
	text = strings.Join(kept, "\n")

	text = horizontalRuns.ReplaceAllString(text, " ")
	text = newlineRuns.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
