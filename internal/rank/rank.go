package rank

import (
	"sort"
	"strings"

	"haigoo-engine/internal/domain"
)

// matchPromoteThreshold is the personalized tier cut: postings at or above
// it are promoted ahead of everything else.
const matchPromoteThreshold = 80

type Options struct {
	// Sort is an explicit caller override. "recent" and "published_at_asc"
	// bypass all business ranking and skip the scatter pass.
	Sort string

	// SearchTerms switches ranking to relevance mode when non-empty.
	SearchTerms []string

	// MatchScore enables personalized mode when non-nil.
	MatchScore func(domain.JobPosting) int
}

// Order ranks a filtered set and applies the diversity pass. Input is never
// mutated; the returned slice holds the same records.
func Order(items []domain.JobPosting, opts Options) []domain.JobPosting {
	out := make([]domain.JobPosting, len(items))
	copy(out, items)

	switch {
	case opts.Sort == "recent":
		sortRecency(out, true)
		return out // strict chronological: no scatter
	case opts.Sort == "published_at_asc":
		sortRecency(out, false)
		return out
	case len(opts.SearchTerms) > 0:
		sortRelevance(out, opts.SearchTerms)
	case opts.MatchScore != nil:
		sortPersonalized(out, opts.MatchScore)
	default:
		sortDefault(out)
	}

	return Scatter(out)
}

func sortRecency(xs []domain.JobPosting, desc bool) {
	sort.SliceStable(xs, func(i, j int) bool {
		if desc {
			return xs[i].PublishedAt.After(xs[j].PublishedAt)
		}
		return xs[i].PublishedAt.Before(xs[j].PublishedAt)
	})
}

func sortRelevance(xs []domain.JobPosting, terms []string) {
	score := make(map[string]int, len(xs))
	for _, p := range xs {
		score[p.ID] = relevanceScore(p, terms)
	}
	sort.SliceStable(xs, func(i, j int) bool {
		si, sj := score[xs[i].ID], score[xs[j].ID]
		if si != sj {
			return si > sj
		}
		return xs[i].PublishedAt.After(xs[j].PublishedAt)
	})
}

// relevanceScore weights exact field matches above plain substring hits.
func relevanceScore(p domain.JobPosting, terms []string) int {
	title := strings.ToLower(p.Title)
	score := 0
	for _, t := range terms {
		t = strings.ToLower(t)
		switch {
		case title == t:
			score += 100
		case strings.Contains(title, t):
			score += 40
		}
		for _, tag := range p.Tags {
			if strings.EqualFold(tag, t) {
				score += 30
				break
			}
		}
		if strings.Contains(strings.ToLower(p.Company), t) {
			score += 25
		}
		if strings.Contains(strings.ToLower(p.Category), t) {
			score += 20
		}
		if strings.Contains(strings.ToLower(p.Location), t) {
			score += 15
		}
		if strings.Contains(strings.ToLower(p.Description), t) {
			score += 10
		}
	}
	return score
}

func sortPersonalized(xs []domain.JobPosting, matchScore func(domain.JobPosting) int) {
	tier := func(p domain.JobPosting) int {
		if matchScore(p) >= matchPromoteThreshold {
			return 1
		}
		return 0
	}
	sort.SliceStable(xs, func(i, j int) bool {
		ti, tj := tier(xs[i]), tier(xs[j])
		if ti != tj {
			return ti > tj
		}
		if xs[i].IsFeatured != xs[j].IsFeatured {
			return xs[i].IsFeatured
		}
		return xs[i].PublishedAt.After(xs[j].PublishedAt)
	})
}

// sortDefault: featured > referral-eligible > trusted > recency.
func sortDefault(xs []domain.JobPosting) {
	weight := func(p domain.JobPosting) int {
		w := 0
		if p.IsFeatured {
			w += 4
		}
		if p.CanRefer {
			w += 2
		}
		if p.IsTrusted {
			w++
		}
		return w
	}
	sort.SliceStable(xs, func(i, j int) bool {
		wi, wj := weight(xs[i]), weight(xs[j])
		if wi != wj {
			return wi > wj
		}
		return xs[i].PublishedAt.After(xs[j].PublishedAt)
	})
}
