package classify

import (
	"regexp"
	"strings"
)

// Salary heuristics, ordered by confidence. First pattern hit wins; when
// nothing matches the existing value is left alone.
var salaryPatterns = []*regexp.Regexp{
	// 25k-40k, 25K-40K·14薪, 2万-4万
	regexp.MustCompile(`\d[\d,.]*\s*[kK万]\s*[-~–—]\s*\d[\d,.]*\s*[kK万](?:\s*[·xX*]\s*\d{1,2}薪)?`),
	// $120,000 - $160,000 / USD 120k etc.
	regexp.MustCompile(`(?i)(?:[$¥€£]|usd|rmb|cny|eur|gbp|hkd|sgd)\s*\d[\d,.]*\s*[kKwW万]?(?:\s*[-~–—]\s*(?:[$¥€£])?\s*\d[\d,.]*\s*[kKwW万]?)?(?:\s*/\s*(?:year|yr|month|mo|hour|hr|年|月|时))?`),
	// 面议-style explicit markers
	regexp.MustCompile(`(?:薪资面议|面议)`),
}

// ExtractSalary scans the existing salary text, then title and description,
// for a recognizable salary expression. Never destructive: an existing value
// that already looks like a salary is kept, and no-match keeps existing.
func ExtractSalary(title, description, existing string) string {
	if existing != "" && looksLikeSalary(existing) {
		return existing
	}
	for _, text := range []string{existing, title, description} {
		for _, re := range salaryPatterns {
			if m := re.FindString(text); m != "" {
				return strings.TrimSpace(m)
			}
		}
	}
	return existing
}

func looksLikeSalary(s string) bool {
	for _, re := range salaryPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
