package enrich

import (
	"testing"
	"time"

	"haigoo-engine/internal/domain"
)

func directory() []domain.Company {
	return []domain.Company{
		{ID: "acme", Name: "Acme Inc.", Website: "https://www.acme.example", Industry: "Software", Active: true, Trusted: true},
		{ID: "bytedance", Name: "字节跳动科技有限公司", Active: true},
		{ID: "gone", Name: "Defunct Ltd", Active: false},
	}
}

func TestMatcherExactName(t *testing.T) {
	m := NewMatcher(directory())
	c, ok := m.Match("ACME", "")
	if !ok || c.ID != "acme" {
		t.Fatalf("Match = %+v %v", c, ok)
	}
}

func TestMatcherSuffixStripped(t *testing.T) {
	m := NewMatcher(directory())
	if c, ok := m.Match("acme inc.", ""); !ok || c.ID != "acme" {
		t.Fatalf("suffix form missed: %+v %v", c, ok)
	}
	if c, ok := m.Match("字节跳动", ""); !ok || c.ID != "bytedance" {
		t.Fatalf("CJK suffix form missed: %+v %v", c, ok)
	}
}

func TestMatcherByDomain(t *testing.T) {
	m := NewMatcher(directory())
	c, ok := m.Match("Totally Different Name", "https://acme.example/jobs/42")
	if !ok || c.ID != "acme" {
		t.Fatalf("domain match failed: %+v %v", c, ok)
	}
}

func TestMatcherIgnoresInactive(t *testing.T) {
	m := NewMatcher(directory())
	if _, ok := m.Match("Defunct", ""); ok {
		t.Error("inactive company must never match")
	}
}

func TestMatcherNoMatch(t *testing.T) {
	m := NewMatcher(directory())
	if _, ok := m.Match("Unknown Startup", "https://other.example"); ok {
		t.Error("unexpected match")
	}
}

func TestApplyTranslation(t *testing.T) {
	updated := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	p := domain.JobPosting{Description: "hello", UpdatedAt: updated}

	if ApplyTranslation(&p, nil, updated.Add(time.Hour)) {
		t.Error("empty translation map must be a no-op")
	}

	if !ApplyTranslation(&p, map[string]string{"description": "你好"}, updated.Add(time.Hour)) {
		t.Fatal("first translation refused")
	}
	if !p.IsTranslated || p.Translations["description"] != "你好" {
		t.Fatalf("translation not applied: %+v", p)
	}

	// The stored translation is newer than the description; a second write
	// must be refused.
	if ApplyTranslation(&p, map[string]string{"description": "older"}, updated.Add(2*time.Hour)) {
		t.Error("newer existing translation overwritten")
	}

	// After the posting itself changes, a fresh translation goes through.
	p.UpdatedAt = updated.Add(3 * time.Hour)
	if !ApplyTranslation(&p, map[string]string{"description": "更新"}, updated.Add(4*time.Hour)) {
		t.Error("translation refused after posting update")
	}
	if p.Translations["description"] != "更新" {
		t.Errorf("translations = %v", p.Translations)
	}
}
