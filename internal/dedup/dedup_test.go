package dedup

import (
	"strings"
	"testing"
	"time"

	"haigoo-engine/internal/domain"
)

func posting(title, url, source string) domain.JobPosting {
	return domain.JobPosting{Title: title, URL: url, Source: source}
}

func TestKeyExternalIDWins(t *testing.T) {
	p := posting("Engineer", "https://a.example/1", "feed")
	p.ID = "ext-42"
	if got := Key(p); got != "id:ext-42" {
		t.Errorf("Key = %q, want id:ext-42", got)
	}
	// Re-keying an already keyed record is a no-op.
	p.ID = Key(p)
	if got := Key(p); got != "id:ext-42" {
		t.Errorf("second Key = %q, want id:ext-42", got)
	}
}

func TestKeyIgnoresTrackingNoise(t *testing.T) {
	a := posting("Engineer", "https://jobs.example/p/1?utm_source=rss&ref=x", "feed")
	b := posting("engineer", "HTTPS://JOBS.EXAMPLE/p/1/#apply", "Feed")
	if Key(a) != Key(b) {
		t.Errorf("keys differ: %q vs %q", Key(a), Key(b))
	}
	c := posting("Engineer", "https://jobs.example/p/2", "feed")
	if Key(a) == Key(c) {
		t.Error("distinct paths collapsed to one key")
	}
}

func TestCanonicalLink(t *testing.T) {
	tests := []struct{ in, want string }{
		{"HTTPS://Jobs.Example/Path/?q=1#frag", "https://jobs.example/Path"},
		{"https://a.example/x/", "https://a.example/x"},
		{"", ""},
		{"://bad", "://bad"},
	}
	for _, tt := range tests {
		if got := CanonicalLink(tt.in); got != tt.want {
			t.Errorf("CanonicalLink(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestChoosePrefersCompleteness(t *testing.T) {
	short := posting("Engineer", "https://a.example/1", "feed")
	short.Description = strings.Repeat("x", 50)
	long := posting("Engineer", "https://a.example/1", "feed")
	long.Description = strings.Repeat("x", 200)

	if got := Choose(short, long); got.Description != long.Description {
		t.Error("longer description should win")
	}
	if got := Choose(long, short); got.Description != long.Description {
		t.Error("winner must not depend on argument order")
	}
}

func TestChooseTieBreaksOnUpdatedAt(t *testing.T) {
	older := posting("Engineer", "https://a.example/1", "feed")
	older.UpdatedAt = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	newer := older
	newer.UpdatedAt = older.UpdatedAt.Add(time.Hour)
	newer.Location = "Remote"

	if got := Choose(older, newer); got.Location != "Remote" {
		t.Error("newer record should win the tie")
	}
}

func TestResolveManualEditAlwaysWins(t *testing.T) {
	existing := posting("Engineer", "https://a.example/1", "feed")
	existing.ID = "k1"
	existing.IsManuallyEdited = true
	existing.Title = "Curated Title"

	incoming := existing
	incoming.IsManuallyEdited = false
	incoming.Title = "Scraped Title"
	incoming.Description = strings.Repeat("x", 500)

	got := Resolve(existing, incoming)
	if got.Title != "Curated Title" {
		t.Errorf("manual edit clobbered: %q", got.Title)
	}
}

func TestResolveKeepsIdentityAndTranslations(t *testing.T) {
	at := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	existing := posting("Engineer", "https://a.example/1", "feed")
	existing.ID = "k1"
	existing.CreatedAt = at
	existing.Translations = map[string]string{"description": "翻译"}
	existing.IsTranslated = true
	existing.TranslatedAt = &at

	incoming := posting("Engineer", "https://a.example/1", "feed")
	incoming.ID = "other"
	incoming.Description = strings.Repeat("x", 100)

	got := Resolve(existing, incoming)
	if got.ID != "k1" || !got.CreatedAt.Equal(at) {
		t.Error("identity fields must stay with the stored row")
	}
	if !got.IsTranslated || got.Translations["description"] != "翻译" {
		t.Error("existing translation lost on resolve")
	}
}

func TestResolveBatchDeterministicAcrossOrders(t *testing.T) {
	a := posting("Engineer", "https://a.example/1", "feed")
	a.Description = strings.Repeat("x", 50)
	b := a
	b.Description = strings.Repeat("y", 200)
	c := posting("Designer", "https://a.example/2", "feed")
	c.Description = strings.Repeat("z", 60)

	out1 := ResolveBatch([]domain.JobPosting{a, b, c})
	out2 := ResolveBatch([]domain.JobPosting{c, b, a})

	if len(out1) != 2 || len(out2) != 2 {
		t.Fatalf("want 2 winners, got %d and %d", len(out1), len(out2))
	}
	find := func(xs []domain.JobPosting, title string) domain.JobPosting {
		for _, p := range xs {
			if p.Title == title {
				return p
			}
		}
		t.Fatalf("no %q in %v", title, xs)
		return domain.JobPosting{}
	}
	w1, w2 := find(out1, "Engineer"), find(out2, "Engineer")
	if w1.Description != w2.Description || w1.ID != w2.ID {
		t.Error("winner differs between input orders")
	}
	if w1.Description != strings.Repeat("y", 200) {
		t.Error("more complete duplicate should have won")
	}
}

func TestResolveBatchKeepsFirstSeenOrderAndSetsIDs(t *testing.T) {
	a := posting("A", "https://a.example/1", "s")
	b := posting("B", "https://a.example/2", "s")
	out := ResolveBatch([]domain.JobPosting{a, b, a})
	if len(out) != 2 || out[0].Title != "A" || out[1].Title != "B" {
		t.Fatalf("order broken: %v", out)
	}
	for _, p := range out {
		if p.ID == "" {
			t.Error("winner came back without its key as ID")
		}
	}
}
