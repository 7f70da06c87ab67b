package query

import "strings"

// Bilingual synonym table used for free-text expansion and for the category
// reverse-map. Both directions are derived from this one table.
var synonyms = map[string][]string{
	"前端":   {"frontend", "front-end", "web developer"},
	"后端":   {"backend", "back-end", "server"},
	"全栈":   {"fullstack", "full-stack", "full stack"},
	"测试":   {"qa", "testing", "test engineer"},
	"运维":   {"devops", "sre", "ops"},
	"算法":   {"algorithm", "machine learning", "ml"},
	"数据":   {"data", "data engineer", "data analyst"},
	"产品":   {"product", "product manager", "pm"},
	"设计":   {"design", "designer", "ui", "ux"},
	"运营":   {"operations", "growth"},
	"市场":   {"marketing"},
	"销售":   {"sales"},
	"客服":   {"customer support", "customer success"},
	"人力资源": {"hr", "human resources", "recruiting"},
	"远程":   {"remote"},
	"实习":   {"intern", "internship"},
	"移动端":  {"mobile", "ios", "android"},
	"安全":   {"security"},
	"金融":   {"finance", "fintech"},
	"电商":   {"e-commerce", "ecommerce"},
	"游戏":   {"game", "gaming"},
	"教育":   {"education", "edtech"},
}

var reverseSynonyms = func() map[string][]string {
	rev := make(map[string][]string)
	for zh, en := range synonyms {
		for _, e := range en {
			rev[strings.ToLower(e)] = append(rev[strings.ToLower(e)], zh)
		}
	}
	return rev
}()

// ExpandTerm returns the term plus every synonym in both directions,
// lowercased and de-duplicated. The input term always comes first.
func ExpandTerm(term string) []string {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	low := strings.ToLower(term)
	out := []string{low}
	seen := map[string]bool{low: true}

	add := func(xs []string) {
		for _, x := range xs {
			x = strings.ToLower(x)
			if !seen[x] {
				seen[x] = true
				out = append(out, x)
			}
		}
	}
	add(synonyms[term])
	add(synonyms[low])
	add(reverseSynonyms[low])
	return out
}

// splitSubTokens breaks a compound filter value like "Testing/QA" or
// "测试、运维" into its delimiter-separated sub-tokens.
func splitSubTokens(v string) []string {
	parts := strings.FieldsFunc(v, func(r rune) bool {
		switch r {
		case '/', '／', '、', ',', '，', ';', '；', '|', '&':
			return true
		}
		return false
	})
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" && p != v {
			out = append(out, p)
		}
	}
	return out
}
