package dedup

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"

	"haigoo-engine/internal/domain"
)

// Key computes the stable identity of a posting. An externally supplied id
// wins outright; otherwise the key hashes the query-stripped link, the
// lowercased title and the lowercased source. Same inputs, same key, every
// run.
func Key(p domain.JobPosting) string {
	if id := strings.TrimSpace(p.ID); id != "" && !strings.HasPrefix(id, "id:") {
		return "id:" + id
	}
	if strings.HasPrefix(p.ID, "id:") {
		return p.ID
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(CanonicalLink(p.URL)))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(strings.ToLower(p.Title)))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(strings.ToLower(p.Source)))
	return fmt.Sprintf("%016x", h.Sum64())
}

// CanonicalLink normalizes a posting URL for identity purposes: lowercase
// scheme and host, no fragment, no query string at all. Query params carry
// tracking noise that would fork identities across ingestion runs.
func CanonicalLink(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawQuery = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

func completeness(p domain.JobPosting) int {
	return len(p.Description) + len(p.Tags)
}

// Choose picks the winner between two records with the same key: higher
// completeness, then newer updatedAt, then a (the earlier-seen record).
// Strict total order so batches resolve the same way no matter the input
// order.
func Choose(a, b domain.JobPosting) domain.JobPosting {
	sa, sb := completeness(a), completeness(b)
	if sb > sa {
		return b
	}
	if sa > sb {
		return a
	}
	if b.UpdatedAt.After(a.UpdatedAt) {
		return b
	}
	return a
}

// Resolve applies the same comparison to an upsert conflict against an
// already-persisted record. Identity fields stay with the stored row, a
// manual edit is never clobbered by a re-scrape, and this is deliberately
// not last-write-wins.
func Resolve(existing, incoming domain.JobPosting) domain.JobPosting {
	if existing.IsManuallyEdited {
		return existing
	}
	winner := Choose(existing, incoming)
	winner.ID = existing.ID
	winner.CreatedAt = existing.CreatedAt
	if winner.TranslatedAt == nil && existing.TranslatedAt != nil {
		winner.Translations = existing.Translations
		winner.IsTranslated = existing.IsTranslated
		winner.TranslatedAt = existing.TranslatedAt
	}
	return winner
}

// ResolveBatch collapses one ingestion batch by dedup key. Output keeps
// first-seen key order; every posting comes back with its ID set to the key.
func ResolveBatch(batch []domain.JobPosting) []domain.JobPosting {
	byKey := make(map[string]domain.JobPosting, len(batch))
	var order []string

	for _, p := range batch {
		k := Key(p)
		p.ID = k
		cur, seen := byKey[k]
		if !seen {
			byKey[k] = p
			order = append(order, k)
			continue
		}
		byKey[k] = Choose(cur, p)
	}

	out := make([]domain.JobPosting, 0, len(order))
	for _, k := range order {
		out = append(out, byKey[k])
	}
	return out
}
