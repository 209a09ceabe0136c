package helpers

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TruncateString truncates a string to at most maxLen bytes and adds an
// ellipsis if needed. The cut always lands on a rune boundary so the result
// stays valid UTF-8.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ""
	}
	cut := maxLen
	ellipsis := ""
	if maxLen > 3 {
		cut = maxLen - 3
		ellipsis = "..."
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}

// SanitizeCommitMessage removes any unwanted characters from a commit message
func SanitizeCommitMessage(message string) string {
	// Remove leading/trailing whitespace
	message = strings.TrimSpace(message)
	// Replace multiple newlines with a single newline
	message = strings.ReplaceAll(message, "\n\n\n", "\n\n")
	return message
}

// LowerFirst lower-cases the first letter of a string.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if !unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// TrimTrailingPeriod removes a single trailing period.
func TrimTrailingPeriod(s string) string {
	return strings.TrimSuffix(s, ".")
}

// WrapText wraps text at the given width, preserving existing line breaks.
// Words longer than the width are kept on their own line.
func WrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if len(line) <= width {
			out = append(out, line)
			continue
		}
		var current string
		for _, word := range strings.Fields(line) {
			switch {
			case current == "":
				current = word
			case len(current)+1+len(word) <= width:
				current += " " + word
			default:
				out = append(out, current)
				current = word
			}
		}
		if current != "" {
			out = append(out, current)
		}
	}
	return strings.Join(out, "\n")
}
