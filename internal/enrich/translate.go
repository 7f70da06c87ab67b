package enrich

import (
	"time"

	"haigoo-engine/internal/domain"
)

// ApplyTranslation attaches a translation produced on explicit request.
// It refuses to overwrite an existing translation that is newer than the
// description's last change; returns false when the write was skipped.
func ApplyTranslation(p *domain.JobPosting, translations map[string]string, at time.Time) bool {
	if len(translations) == 0 {
		return false
	}
	if p.TranslatedAt != nil && p.TranslatedAt.After(p.UpdatedAt) {
		return false
	}
	if p.Translations == nil {
		p.Translations = make(map[string]string, len(translations))
	}
	for k, v := range translations {
		p.Translations[k] = v
	}
	p.IsTranslated = true
	t := at.UTC()
	p.TranslatedAt = &t
	return true
}
