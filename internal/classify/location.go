package classify

import (
	"regexp"
	"strings"
)

var (
	reTrailingSuffix = regexp.MustCompile(`\s[-–—]\s*([^-–—]{1,50})$`)
	reBracketSpan    = regexp.MustCompile(`[(\[（【]([^)\]）】]{1,49})[)\]）】]`)
	reLocationLabel  = regexp.MustCompile(`(?i)(?:location|work location|地点|工作地点|坐标)\s*[:：]\s*([^\n\r<|,;，；。]{1,50})`)
	reRemoteRegion   = regexp.MustCompile(`(?i)\bremote\s*[-–—]\s*([\p{Han}A-Za-z][\p{Han}A-Za-z ,]{0,40})`)
	reRemotePrefix   = regexp.MustCompile(`(?i)^\s*remote\s*[-–—]`)
)

var remoteKeywords = []string{"remote", "远程", "在家办公", "居家办公", "wfh"}

// ExtractLocation resolves a display location from the existing location
// string, the title and the description, in that priority. First heuristic
// that yields something plausible wins; when nothing fires the existing
// value is kept untouched.
func ExtractLocation(title, description, existing string) string {
	sources := []string{existing, title, description}

	// (a) trailing "<title> - <location>" suffix. A leading "Remote -" is not
	// a title prefix; that shape belongs to heuristic (d) and keeps the
	// "Remote - <region>" form intact.
	for _, s := range sources {
		if reRemotePrefix.MatchString(s) {
			continue
		}
		if m := reTrailingSuffix.FindStringSubmatch(s); m != nil {
			if cand := strings.TrimSpace(m[1]); IsValidLocation(cand) {
				return cand
			}
		}
	}

	// (b) bracketed span under 50 chars, CJK brackets included
	for _, s := range sources {
		for _, m := range reBracketSpan.FindAllStringSubmatch(s, -1) {
			if cand := strings.TrimSpace(m[1]); IsValidLocation(cand) {
				return cand
			}
		}
	}

	// (c) explicit label
	for _, s := range sources {
		if m := reLocationLabel.FindStringSubmatch(s); m != nil {
			if cand := strings.TrimSpace(m[1]); cand != "" {
				return cand
			}
		}
	}

	// (d) "Remote - <region>"
	for _, s := range sources {
		if m := reRemoteRegion.FindStringSubmatch(s); m != nil {
			return "Remote - " + strings.TrimSpace(m[1])
		}
	}

	// (e) bare remote marker
	blob := strings.ToLower(existing + " " + title + " " + description)
	for _, kw := range remoteKeywords {
		if matchKeyword(blob, kw) {
			return "Remote"
		}
	}

	return existing
}

// IsRemoteText reports whether any remote-indicating keyword appears.
func IsRemoteText(texts ...string) bool {
	blob := strings.ToLower(strings.Join(texts, " "))
	for _, kw := range remoteKeywords {
		if matchKeyword(blob, kw) {
			return true
		}
	}
	return false
}
