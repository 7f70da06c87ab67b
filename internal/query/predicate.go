package query

import (
	"strings"

	"haigoo-engine/internal/domain"
)

// Field names the filterable columns of a posting. Store adapters map them
// onto whatever physical columns they use; the in-memory evaluation below is
// the reference semantics both must agree with.
type Field string

const (
	FieldTitle       Field = "title"
	FieldCompany     Field = "company"
	FieldLocation    Field = "location"
	FieldDescription Field = "description"
	FieldCategory    Field = "category"
	FieldIndustry    Field = "industry"
	FieldJobType     Field = "jobType"
	FieldExperience  Field = "experienceLevel"
	FieldSalary      Field = "salary"
	FieldRegion      Field = "region"
	FieldSource      Field = "source"
	FieldSourceType  Field = "sourceType"
	FieldTags        Field = "tags"
	FieldStatus      Field = "status"

	FieldApproved Field = "isApproved"
	FieldRemote   Field = "isRemote"
	FieldTrusted  Field = "isTrusted"
	FieldCanRefer Field = "canRefer"
	FieldFeatured Field = "isFeatured"
)

// Pred is a side-effect-free predicate over a posting. The same compiled
// tree serves the page fetch and the facet pass, so both always agree on
// eligibility.
type Pred interface {
	Match(p *domain.JobPosting) bool
}

type And []Pred

func (a And) Match(p *domain.JobPosting) bool {
	for _, c := range a {
		if !c.Match(p) {
			return false
		}
	}
	return true
}

type Or []Pred

func (o Or) Match(p *domain.JobPosting) bool {
	for _, c := range o {
		if c.Match(p) {
			return true
		}
	}
	return false
}

// Eq is case-insensitive equality on a text field. For the tags field it
// means "any tag equals".
type Eq struct {
	Field Field
	Value string
}

func (e Eq) Match(p *domain.JobPosting) bool {
	if e.Field == FieldTags {
		for _, t := range p.Tags {
			if strings.EqualFold(t, e.Value) {
				return true
			}
		}
		return false
	}
	return strings.EqualFold(textField(p, e.Field), e.Value)
}

// Contains is case-insensitive substring containment; for tags, "any tag
// contains".
type Contains struct {
	Field Field
	Value string
}

func (c Contains) Match(p *domain.JobPosting) bool {
	needle := strings.ToLower(c.Value)
	if c.Field == FieldTags {
		for _, t := range p.Tags {
			if strings.Contains(strings.ToLower(t), needle) {
				return true
			}
		}
		return false
	}
	return strings.Contains(strings.ToLower(textField(p, c.Field)), needle)
}

// Is tests a boolean field.
type Is struct {
	Field Field
	Value bool
}

func (i Is) Match(p *domain.JobPosting) bool {
	var v bool
	switch i.Field {
	case FieldApproved:
		v = p.IsApproved
	case FieldRemote:
		v = p.IsRemote
	case FieldTrusted:
		v = p.IsTrusted
	case FieldCanRefer:
		v = p.CanRefer
	case FieldFeatured:
		v = p.IsFeatured
	}
	return v == i.Value
}

// True matches everything; the compiler emits it for an empty filter set.
type True struct{}

func (True) Match(*domain.JobPosting) bool { return true }

func textField(p *domain.JobPosting, f Field) string {
	switch f {
	case FieldTitle:
		return p.Title
	case FieldCompany:
		return p.Company
	case FieldLocation:
		return p.Location
	case FieldDescription:
		return p.Description
	case FieldCategory:
		return p.Category
	case FieldIndustry:
		return p.Industry
	case FieldJobType:
		return p.JobType
	case FieldExperience:
		return p.ExperienceLevel
	case FieldSalary:
		return p.Salary
	case FieldRegion:
		return string(p.Region)
	case FieldSource:
		return p.Source
	case FieldSourceType:
		return string(p.SourceType)
	case FieldStatus:
		return p.Status
	}
	return ""
}
