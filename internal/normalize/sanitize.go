package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	reScriptBlock = regexp.MustCompile(`(?is)<(script|style)\b[^>]*>.*?</\s*(script|style)\s*>`)
	reEventAttr   = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
)

// SanitizeHTML drops script/style subtrees and inline event-handler
// attributes from a free-text HTML fragment. Other markup is kept as-is:
// descriptions may legitimately carry lists and emphasis.
func SanitizeHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		// crude fallback, still safe
		s = reScriptBlock.ReplaceAllString(s, "")
		return reEventAttr.ReplaceAllString(s, "")
	}

	doc.Find("script, style, iframe").Remove()
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		for _, n := range sel.Nodes {
			for _, a := range n.Attr {
				if strings.HasPrefix(strings.ToLower(a.Key), "on") {
					sel.RemoveAttr(a.Key)
				}
			}
		}
		if href, ok := sel.Attr("href"); ok {
			if strings.HasPrefix(strings.ToLower(strings.TrimSpace(href)), "javascript:") {
				sel.RemoveAttr("href")
			}
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
