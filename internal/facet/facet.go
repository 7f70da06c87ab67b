package facet

import (
	"context"
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"haigoo-engine/internal/domain"
)

// locationTop caps the location facet to the most frequent values.
const locationTop = 20

type fieldSpec struct {
	name  string
	limit int
	value func(*domain.JobPosting) string
}

var fields = []fieldSpec{
	{"category", 0, func(p *domain.JobPosting) string { return p.Category }},
	{"industry", 0, func(p *domain.JobPosting) string { return p.Industry }},
	{"jobType", 0, func(p *domain.JobPosting) string { return p.JobType }},
	{"location", locationTop, func(p *domain.JobPosting) string { return p.Location }},
	{"region", 0, func(p *domain.JobPosting) string { return string(p.Region) }},
	{"timezone", 0, func(p *domain.JobPosting) string { return p.Timezone }},
}

// Compute builds value→count facets over the full filtered set, one goroutine
// per field. A failing field degrades to an empty list for that field only;
// the order fields finish in never changes the result.
func Compute(ctx context.Context, items []domain.JobPosting) map[string][]domain.FacetEntry {
	out := make(map[string][]domain.FacetEntry, len(fields))
	var mu sync.Mutex

	g, _ := errgroup.WithContext(ctx)
	for _, f := range fields {
		f := f
		g.Go(func() error {
			entries := countValues(items, f)
			mu.Lock()
			out[f.name] = entries
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func countValues(items []domain.JobPosting, f fieldSpec) (entries []domain.FacetEntry) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[facet] %s failed: %v", f.name, r)
			entries = []domain.FacetEntry{}
		}
	}()

	counts := make(map[string]int)
	for i := range items {
		v := f.value(&items[i])
		if v == "" {
			continue
		}
		counts[v]++
	}

	entries = make([]domain.FacetEntry, 0, len(counts))
	for v, n := range counts {
		entries = append(entries, domain.FacetEntry{Value: v, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Value < entries[j].Value
	})
	if f.limit > 0 && len(entries) > f.limit {
		entries = entries[:f.limit]
	}
	return entries
}
