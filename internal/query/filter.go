package query

import (
	"strings"

	"haigoo-engine/internal/domain"
)

// FilterRequest is the structured filter surface. Every field is optional;
// values within a field OR together, fields AND together.
type FilterRequest struct {
	Search      string   `json:"search,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Industries  []string `json:"industries,omitempty"`
	JobTypes    []string `json:"jobTypes,omitempty"`
	Locations   []string `json:"locations,omitempty"`
	Regions     []string `json:"regions,omitempty"`
	Sources     []string `json:"sources,omitempty"`
	SourceTypes []string `json:"sourceTypes,omitempty"`
	Remote      *bool    `json:"remote,omitempty"`
	Trusted     *bool    `json:"trusted,omitempty"`
	Featured    *bool    `json:"featured,omitempty"`
	CanRefer    *bool    `json:"canRefer,omitempty"`
}

// Compiled is a reusable, side-effect-free query: the predicate drives both
// the page fetch and the facet pass, the search terms feed relevance
// ranking.
type Compiled struct {
	Pred        Pred
	SearchTerms []string
}

// searchFields are the weighted fields a free-text term is matched against.
var searchFields = []Field{
	FieldTitle, FieldCompany, FieldDescription, FieldLocation,
	FieldCategory, FieldTags, FieldIndustry, FieldSourceType,
}

// Compile turns a filter request into a predicate tree. Malformed values
// (blank, unknown enum members) drop their clause instead of failing the
// query. Unless privileged, an approved-only clause is prepended and cannot
// be overridden by anything else in the request.
func Compile(req FilterRequest, privileged bool) Compiled {
	var clauses And

	if !privileged {
		clauses = append(clauses, Is{Field: FieldApproved, Value: true})
	}

	var terms []string
	if s := strings.TrimSpace(req.Search); s != "" {
		terms = ExpandTerm(s)
		var search Or
		for _, t := range terms {
			for _, f := range searchFields {
				search = append(search, Contains{Field: f, Value: t})
			}
		}
		clauses = append(clauses, search)
	}

	if c := textClause(FieldCategory, req.Categories); c != nil {
		clauses = append(clauses, c)
	}
	if c := textClause(FieldIndustry, req.Industries); c != nil {
		clauses = append(clauses, c)
	}
	if c := textClause(FieldJobType, req.JobTypes); c != nil {
		clauses = append(clauses, c)
	}
	if c := textClause(FieldLocation, req.Locations); c != nil {
		clauses = append(clauses, c)
	}
	if c := regionClause(req.Regions); c != nil {
		clauses = append(clauses, c)
	}
	if c := exactClause(FieldSource, req.Sources); c != nil {
		clauses = append(clauses, c)
	}
	if c := sourceTypeClause(req.SourceTypes); c != nil {
		clauses = append(clauses, c)
	}

	for _, b := range []struct {
		f Field
		v *bool
	}{
		{FieldRemote, req.Remote},
		{FieldTrusted, req.Trusted},
		{FieldFeatured, req.Featured},
		{FieldCanRefer, req.CanRefer},
	} {
		if b.v != nil {
			clauses = append(clauses, Is{Field: b.f, Value: *b.v})
		}
	}

	if len(clauses) == 0 {
		return Compiled{Pred: True{}, SearchTerms: terms}
	}
	return Compiled{Pred: clauses, SearchTerms: terms}
}

// textClause builds the OR clause for one taxonomy field: exact match,
// substring containment, delimiter-split sub-tokens, and the bilingual
// reverse map all count as hits.
func textClause(f Field, values []string) Pred {
	var or Or
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		or = append(or, Eq{Field: f, Value: v}, Contains{Field: f, Value: v})
		for _, tok := range splitSubTokens(v) {
			or = append(or, Contains{Field: f, Value: tok})
		}
		for _, syn := range ExpandTerm(v)[1:] {
			or = append(or, Contains{Field: f, Value: syn})
		}
	}
	if len(or) == 0 {
		return nil
	}
	return or
}

func exactClause(f Field, values []string) Pred {
	var or Or
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		or = append(or, Eq{Field: f, Value: v})
	}
	if len(or) == 0 {
		return nil
	}
	return or
}

// regionClause: a posting classified "both" satisfies a domestic-only or an
// overseas-only request. That asymmetry is intentional and load-bearing for
// the catalog UI; do not "fix" it.
func regionClause(values []string) Pred {
	var or Or
	for _, v := range values {
		r := domain.Region(strings.ToLower(strings.TrimSpace(v)))
		if !r.Valid() {
			continue // malformed value: ignore the clause
		}
		or = append(or, Eq{Field: FieldRegion, Value: string(r)})
		if r == domain.RegionDomestic || r == domain.RegionOverseas {
			or = append(or, Eq{Field: FieldRegion, Value: string(domain.RegionBoth)})
		}
	}
	if len(or) == 0 {
		return nil
	}
	return or
}

func sourceTypeClause(values []string) Pred {
	var or Or
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		switch v {
		case "rss", "scraped":
			v = string(domain.SourceThirdParty)
		case "trusted":
			v = string(domain.SourceOfficial)
		}
		or = append(or, Eq{Field: FieldSourceType, Value: v})
	}
	if len(or) == 0 {
		return nil
	}
	return or
}
