package enrich

import (
	"context"
	"net/url"
	"strings"

	"haigoo-engine/internal/domain"
)

// Directory is the company-lookup collaborator: it returns the active
// trusted companies used for fuzzy matching. Failures at lookup time just
// mean postings go unmatched.
type Directory interface {
	ActiveTrusted(ctx context.Context) ([]domain.Company, error)
}

// Matcher matches posting companies against a directory snapshot. Built once
// per ingestion batch.
type Matcher struct {
	companies []domain.Company
	byName    map[string]int
	byDomain  map[string]int
}

func NewMatcher(companies []domain.Company) *Matcher {
	m := &Matcher{
		companies: companies,
		byName:    make(map[string]int),
		byDomain:  make(map[string]int),
	}
	for i, c := range companies {
		if !c.Active {
			continue
		}
		if n := normalizeCompanyName(c.Name); n != "" {
			m.byName[n] = i
		}
		for _, u := range []string{c.Website, c.CareersPage} {
			if d := hostOf(u); d != "" {
				m.byDomain[d] = i
			}
		}
	}
	return m
}

// Match resolves a posting's company name and URL to a directory entry:
// normalized-name equality first, then name containment, then URL domain.
func (m *Matcher) Match(companyName, postingURL string) (domain.Company, bool) {
	name := normalizeCompanyName(companyName)
	if name != "" {
		if i, ok := m.byName[name]; ok {
			return m.companies[i], true
		}
		for i, c := range m.companies {
			if !c.Active {
				continue
			}
			cn := normalizeCompanyName(c.Name)
			if cn == "" {
				continue
			}
			if strings.Contains(name, cn) || strings.Contains(cn, name) {
				return m.companies[i], true
			}
		}
	}
	if d := hostOf(postingURL); d != "" {
		if i, ok := m.byDomain[d]; ok {
			return m.companies[i], true
		}
	}
	return domain.Company{}, false
}

var companySuffixes = []string{
	" inc", " inc.", " llc", " ltd", " ltd.", " co.", " corp", " corp.",
	" gmbh", " limited", "有限公司", "科技有限公司", "股份有限公司",
}

func normalizeCompanyName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, suf := range companySuffixes {
		s = strings.TrimSuffix(s, suf)
	}
	return strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
}

func hostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
