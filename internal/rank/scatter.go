package rank

import (
	"strings"

	"haigoo-engine/internal/domain"
)

// Scatter window sizes. A company may appear once per companyWindow entries,
// a job type at most typeWindowMax times per typeWindow entries once the
// output is typeWindowMin entries deep. Adjacent entries never share a
// company unless the list leaves no alternative.
const (
	companyWindow = 16
	typeWindow    = 8
	typeWindowMax = 3
	typeWindowMin = 4
)

// Scatter reorders a ranked list so same-company and same-type runs break
// up. Entries that cannot be placed under the window constraints go to a
// per-company backlog and come back round-robin with only the windows
// relaxed; whatever still cannot be placed is appended in original relative
// order. No record is ever dropped, and the pass runs in time proportional
// to the list size.
func Scatter(items []domain.JobPosting) []domain.JobPosting {
	if len(items) < 3 {
		return items
	}

	out := make([]domain.JobPosting, 0, len(items))
	backlog := make(map[string][]domain.JobPosting)
	var backlogOrder []string

	defer1 := func(p domain.JobPosting) {
		key := strings.ToLower(p.Company)
		if _, ok := backlog[key]; !ok {
			backlogOrder = append(backlogOrder, key)
		}
		backlog[key] = append(backlog[key], p)
	}

	for _, p := range items {
		if canFollow(out, p, false) {
			out = append(out, p)
		} else {
			defer1(p)
		}
	}

	// Round-robin reinsertion across backlogged companies. The stuck
	// counter aborts once it exceeds twice the remaining backlog, which
	// bounds the loop even when nothing is placeable.
	remaining := 0
	for _, q := range backlog {
		remaining += len(q)
	}
	stuck := 0
	for remaining > 0 && stuck <= 2*remaining {
		progressed := false
		for _, key := range backlogOrder {
			q := backlog[key]
			if len(q) == 0 {
				continue
			}
			p := q[0]
			if canFollow(out, p, false) || canFollow(out, p, true) {
				out = append(out, p)
				backlog[key] = q[1:]
				remaining--
				stuck = 0
				progressed = true
			} else {
				stuck++
				if stuck > 2*remaining {
					break
				}
			}
		}
		if !progressed {
			break
		}
	}

	if remaining > 0 {
		// Last resort: append leftovers in their original relative order.
		// Constraints may break here, records may not.
		for _, p := range items {
			key := strings.ToLower(p.Company)
			q := backlog[key]
			if len(q) > 0 && samePosting(q[0], p) {
				out = append(out, p)
				backlog[key] = q[1:]
			}
		}
	}

	return out
}

func samePosting(a, b domain.JobPosting) bool {
	return a.ID == b.ID && a.URL == b.URL
}

// canFollow checks whether p may be appended to out. relax drops the window
// constraints but never the adjacency rule.
func canFollow(out []domain.JobPosting, p domain.JobPosting, relax bool) bool {
	n := len(out)
	if n > 0 && sameCompany(out[n-1], p) {
		return false
	}
	if relax {
		return true
	}

	for i := max(0, n-(companyWindow-1)); i < n; i++ {
		if sameCompany(out[i], p) {
			return false
		}
	}

	if n >= typeWindowMin-1 && p.JobType != "" {
		cnt := 0
		for i := max(0, n-(typeWindow-1)); i < n; i++ {
			if strings.EqualFold(out[i].JobType, p.JobType) {
				cnt++
			}
		}
		if cnt >= typeWindowMax {
			return false
		}
	}
	return true
}

func sameCompany(a, b domain.JobPosting) bool {
	return strings.EqualFold(a.Company, b.Company)
}
