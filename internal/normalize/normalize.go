package normalize

import (
	"net/url"
	"strings"
	"time"

	"haigoo-engine/internal/domain"
)

// minimum plain-text description length before a third-party record is worth
// keeping; curated and official feeds get a pass.
const minThirdPartyDescription = 40

// Normalize coerces one raw candidate into a canonical JobPosting. It is a
// pure function: no I/O, no clock reads beyond the now argument. ok=false
// means the record failed the quality bar and should be counted as rejected.
func Normalize(raw domain.RawPosting, now time.Time) (domain.JobPosting, bool) {
	p := domain.JobPosting{
		ID:              strings.TrimSpace(raw.ID),
		Title:           Truncate(CleanText(raw.Title), domain.MaxTitleBytes),
		Company:         Truncate(CleanText(raw.Company), domain.MaxCompanyBytes),
		Location:        Truncate(CleanText(raw.Location), domain.MaxLocationBytes),
		Description:     Truncate(SanitizeHTML(strings.TrimSpace(raw.Description)), domain.MaxDescriptionBytes),
		URL:             Truncate(strings.TrimSpace(raw.URL), domain.MaxURLBytes),
		Salary:          Truncate(CleanText(raw.Salary), domain.MaxSalaryBytes),
		Category:        CleanText(raw.Category),
		JobType:         strings.ToLower(CleanText(raw.JobType)),
		ExperienceLevel: CleanText(raw.ExperienceLevel),
		Source:          CleanText(raw.Source),
		SourceType:      ParseSourceType(raw.SourceType),
		Status:          strings.ToLower(CleanText(raw.Status)),
		Tags:            TruncateList(raw.Tags, domain.MaxTagsBytes),
		Requirements:    TruncateList(raw.Requirements, domain.MaxRequirementsBytes),
		Benefits:        TruncateList(raw.Benefits, domain.MaxBenefitsBytes),
		IsRemote:        raw.IsRemote,
		IsFeatured:      raw.IsFeatured,
		Region:          domain.RegionUnclassified,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if raw.PublishedAt != nil && !raw.PublishedAt.IsZero() {
		p.PublishedAt = raw.PublishedAt.UTC()
	} else {
		p.PublishedAt = now
	}

	if p.Status == "" {
		p.Status = domain.StatusActive
	}
	if p.JobType == "" {
		p.JobType = "full-time"
	}

	p.IsApproved = true
	if raw.Approved != nil {
		p.IsApproved = *raw.Approved
	}

	switch p.SourceType {
	case domain.SourceClubReferral:
		p.CanRefer = true
	case domain.SourceOfficial:
		p.IsTrusted = true
	case domain.SourceThirdParty:
		// enforced again at write time, but never let it in here either
		p.IsTrusted = false
		p.CanRefer = false
	}

	if !valid(p) {
		return domain.JobPosting{}, false
	}
	return p, true
}

// ParseSourceType folds the loose inbound tags into the canonical enum.
func ParseSourceType(s string) domain.SourceType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "club-referral", "club_referral", "referral":
		return domain.SourceClubReferral
	case "official", "trusted", "company":
		return domain.SourceOfficial
	default:
		// rss, third-party, scraped, empty, anything unknown
		return domain.SourceThirdParty
	}
}

func valid(p domain.JobPosting) bool {
	if p.Title == "" || p.Company == "" || p.URL == "" {
		return false
	}
	u, err := url.Parse(p.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	if p.SourceType == domain.SourceThirdParty && len(p.Description) < minThirdPartyDescription {
		return false
	}
	return true
}
