package classify

import (
	"strings"

	"haigoo-engine/internal/domain"
)

// EnrichPosting is the deterministic heuristic path: location extraction,
// region mapping, salary scan, timezone. Also the fallback whenever the
// external classifier is unavailable or times out.
func EnrichPosting(p *domain.JobPosting) {
	p.Location = ExtractLocation(p.Title, p.Description, p.Location)
	p.Region = ClassifyRegion(p.Location)
	p.Salary = ExtractSalary(p.Title, p.Description, p.Salary)
	p.Timezone = DeriveTimezone(p.Location, p.Region)
	if !p.IsRemote && IsRemoteText(p.Location, p.Title) {
		p.IsRemote = true
	}
}

// ApplyEnrichment merges an external classification result into the posting,
// field by field, then reruns the deterministic mapping so region/timezone
// stay consistent with whatever location won.
func ApplyEnrichment(p *domain.JobPosting, e Enrichment) {
	if e.Location != "" {
		p.Location = e.Location
	}
	if e.Salary != "" && !looksLikeSalary(p.Salary) {
		p.Salary = e.Salary
	}
	if e.Category != "" && p.Category == "" {
		p.Category = e.Category
	}
	for _, t := range e.Tags {
		if t == "" || containsFold(p.Tags, t) {
			continue
		}
		p.Tags = append(p.Tags, t)
	}
	EnrichPosting(p)
}

func containsFold(xs []string, want string) bool {
	for _, x := range xs {
		if strings.EqualFold(x, want) {
			return true
		}
	}
	return false
}
