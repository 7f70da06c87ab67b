package normalize

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// CleanText collapses whitespace (including nbsp) and NFC-normalizes, so the
// same visible string always hashes and truncates the same way.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return norm.NFC.String(strings.TrimSpace(s))
}

// Truncate cuts s to at most max bytes without splitting a multi-byte rune.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// TruncateList cleans each entry and keeps entries until the aggregate byte
// budget runs out. The entry that crosses the budget is dropped whole rather
// than cut mid-item.
func TruncateList(items []string, maxAggregate int) []string {
	var out []string
	used := 0
	for _, it := range items {
		it = CleanText(it)
		if it == "" {
			continue
		}
		if used+len(it) > maxAggregate {
			break
		}
		used += len(it)
		out = append(out, it)
	}
	return out
}
