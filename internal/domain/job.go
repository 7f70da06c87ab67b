package domain

import "time"

type Region string

const (
	RegionDomestic     Region = "domestic"
	RegionOverseas     Region = "overseas"
	RegionGlobal       Region = "global"
	RegionBoth         Region = "both"
	RegionUnclassified Region = "unclassified"
)

func (r Region) Valid() bool {
	switch r {
	case RegionDomestic, RegionOverseas, RegionGlobal, RegionBoth, RegionUnclassified:
		return true
	}
	return false
}

type SourceType string

const (
	SourceClubReferral SourceType = "club-referral"
	SourceOfficial     SourceType = "official"
	SourceThirdParty   SourceType = "third-party"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Byte caps per field. Oversized values are truncated, never rejected.
const (
	MaxTitleBytes        = 500
	MaxCompanyBytes      = 200
	MaxLocationBytes     = 200
	MaxDescriptionBytes  = 50000
	MaxURLBytes          = 2000
	MaxSalaryBytes       = 200
	MaxTagsBytes         = 1000  // aggregate over the whole list
	MaxRequirementsBytes = 10000 // aggregate
	MaxBenefitsBytes     = 10000 // aggregate
)

// JobPosting is the canonical record every component downstream of the
// normalizer sees. riskRating / haigooComment / hiddenFields are member-only
// and get stripped for unprivileged reads.
type JobPosting struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`

	PublishedAt time.Time `json:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Source     string     `json:"source"`
	SourceType SourceType `json:"sourceType"`

	Status          string `json:"status"`
	Category        string `json:"category,omitempty"`
	Industry        string `json:"industry,omitempty"`
	JobType         string `json:"jobType"`
	ExperienceLevel string `json:"experienceLevel,omitempty"`
	Salary          string `json:"salary,omitempty"`
	Region          Region `json:"region"`
	Timezone        string `json:"timezone,omitempty"`

	Tags         []string `json:"tags,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Benefits     []string `json:"benefits,omitempty"`

	IsRemote         bool `json:"isRemote"`
	IsTrusted        bool `json:"isTrusted"`
	CanRefer         bool `json:"canRefer"`
	IsFeatured       bool `json:"isFeatured"`
	IsApproved       bool `json:"isApproved"`
	IsManuallyEdited bool `json:"isManuallyEdited"`

	CompanyID string `json:"companyId,omitempty"`

	Translations map[string]string `json:"translations,omitempty"`
	IsTranslated bool              `json:"isTranslated,omitempty"`
	TranslatedAt *time.Time        `json:"translatedAt,omitempty"`

	RiskRating    string   `json:"riskRating,omitempty"`
	HaigooComment string   `json:"haigooComment,omitempty"`
	HiddenFields  []string `json:"hiddenFields,omitempty"`
}

// StripMemberFields clears everything an anonymous caller must not see.
func (p *JobPosting) StripMemberFields() {
	p.RiskRating = ""
	p.HaigooComment = ""
	p.HiddenFields = nil
}

// RawPosting is the loose shape source adapters hand to ingestion. Everything
// is optional; the normalizer decides what survives.
type RawPosting struct {
	ID              string     `json:"id,omitempty"`
	Title           string     `json:"title"`
	Company         string     `json:"company"`
	Location        string     `json:"location,omitempty"`
	Description     string     `json:"description,omitempty"`
	URL             string     `json:"url"`
	Salary          string     `json:"salary,omitempty"`
	Category        string     `json:"category,omitempty"`
	JobType         string     `json:"jobType,omitempty"`
	ExperienceLevel string     `json:"experienceLevel,omitempty"`
	Source          string     `json:"source,omitempty"`
	SourceType      string     `json:"sourceType,omitempty"`
	Status          string     `json:"status,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	Requirements    []string   `json:"requirements,omitempty"`
	Benefits        []string   `json:"benefits,omitempty"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	IsRemote        bool       `json:"isRemote,omitempty"`
	IsFeatured      bool       `json:"isFeatured,omitempty"`
	Approved        *bool      `json:"approved,omitempty"`
}

type FacetEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}
