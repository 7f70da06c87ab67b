package normalize

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"haigoo-engine/internal/domain"
)

var now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func validRaw() domain.RawPosting {
	return domain.RawPosting{
		Title:       "Backend Engineer",
		Company:     "Acme",
		URL:         "https://acme.example/jobs/1",
		Description: strings.Repeat("Build and run distributed systems. ", 4),
		SourceType:  "rss",
	}
}

func TestNormalizeDefaults(t *testing.T) {
	p, ok := Normalize(validRaw(), now)
	if !ok {
		t.Fatal("expected valid posting")
	}
	if p.Status != domain.StatusActive {
		t.Errorf("status = %q, want active", p.Status)
	}
	if p.JobType != "full-time" {
		t.Errorf("jobType = %q, want full-time", p.JobType)
	}
	if p.Region != domain.RegionUnclassified {
		t.Errorf("region = %q, want unclassified", p.Region)
	}
	if !p.IsApproved {
		t.Error("missing approved flag should default to true")
	}
	if !p.PublishedAt.Equal(now) {
		t.Errorf("publishedAt = %v, want now", p.PublishedAt)
	}
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*domain.RawPosting)
	}{
		{"missing title", func(r *domain.RawPosting) { r.Title = "  " }},
		{"missing company", func(r *domain.RawPosting) { r.Company = "" }},
		{"missing url", func(r *domain.RawPosting) { r.URL = "" }},
		{"relative url", func(r *domain.RawPosting) { r.URL = "/jobs/1" }},
		{"ftp url", func(r *domain.RawPosting) { r.URL = "ftp://acme.example/jobs/1" }},
		{"short third-party description", func(r *domain.RawPosting) { r.Description = "short" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mut(&raw)
			if _, ok := Normalize(raw, now); ok {
				t.Error("expected rejection")
			}
		})
	}
}

func TestNormalizeShortDescriptionOKForOfficial(t *testing.T) {
	raw := validRaw()
	raw.SourceType = "official"
	raw.Description = "short"
	p, ok := Normalize(raw, now)
	if !ok {
		t.Fatal("official source should pass the description bar")
	}
	if !p.IsTrusted {
		t.Error("official source should be trusted")
	}
}

func TestNormalizeThirdPartyNeverTrusted(t *testing.T) {
	raw := validRaw()
	raw.SourceType = "scraped"
	p, ok := Normalize(raw, now)
	if !ok {
		t.Fatal("expected valid posting")
	}
	if p.IsTrusted || p.CanRefer {
		t.Error("third-party posting must not be trusted or referral-eligible")
	}
}

func TestParseSourceType(t *testing.T) {
	tests := []struct {
		in   string
		want domain.SourceType
	}{
		{"referral", domain.SourceClubReferral},
		{"club_referral", domain.SourceClubReferral},
		{"Official", domain.SourceOfficial},
		{"trusted", domain.SourceOfficial},
		{"rss", domain.SourceThirdParty},
		{"", domain.SourceThirdParty},
		{"whatever", domain.SourceThirdParty},
	}
	for _, tt := range tests {
		if got := ParseSourceType(tt.in); got != tt.want {
			t.Errorf("ParseSourceType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateNeverSplitsRune(t *testing.T) {
	s := strings.Repeat("软件工程师", 100) // 15 bytes per repetition
	for max := 1; max < 40; max++ {
		got := Truncate(s, max)
		if len(got) > max {
			t.Fatalf("Truncate(max=%d) returned %d bytes", max, len(got))
		}
		if !utf8.ValidString(got) {
			t.Fatalf("Truncate(max=%d) split a rune: %q", max, got)
		}
	}
}

func TestTruncateListAggregateBudget(t *testing.T) {
	got := TruncateList([]string{"aaaa", "bbbb", "cccc"}, 10)
	want := []string{"aaaa", "bbbb"} // "cccc" would cross the budget
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("TruncateList = %v, want %v", got, want)
	}
}

func TestCleanText(t *testing.T) {
	in := "  Senior  Engineer \t\n Remote  "
	if got := CleanText(in); got != "Senior Engineer Remote" {
		t.Errorf("CleanText = %q", got)
	}
}

func TestSanitizeHTML(t *testing.T) {
	in := `<div onclick="steal()">Great role<script>alert(1)</script><a href="javascript:x()">apply</a></div>`
	got := SanitizeHTML(in)
	if strings.Contains(got, "script") || strings.Contains(got, "alert") {
		t.Errorf("script survived: %q", got)
	}
	if strings.Contains(got, "onclick") || strings.Contains(got, "javascript:") {
		t.Errorf("active attribute survived: %q", got)
	}
	if !strings.Contains(got, "Great role") {
		t.Errorf("content lost: %q", got)
	}
}
