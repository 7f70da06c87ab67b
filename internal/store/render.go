package store

import (
	"fmt"
	"strings"

	"haigoo-engine/internal/query"
)

// renderPred turns a compiled predicate tree into a SQL WHERE fragment plus
// its parameter list. The tree is storage-agnostic; this is the single place
// it meets SQLite.
func renderPred(p query.Pred) (string, []any) {
	switch n := p.(type) {
	case query.True:
		return "1=1", nil

	case query.And:
		if len(n) == 0 {
			return "1=1", nil
		}
		var parts []string
		var args []any
		for _, c := range n {
			s, a := renderPred(c)
			parts = append(parts, s)
			args = append(args, a...)
		}
		return "(" + strings.Join(parts, " AND ") + ")", args

	case query.Or:
		if len(n) == 0 {
			return "1=0", nil
		}
		var parts []string
		var args []any
		for _, c := range n {
			s, a := renderPred(c)
			parts = append(parts, s)
			args = append(args, a...)
		}
		return "(" + strings.Join(parts, " OR ") + ")", args

	case query.Eq:
		if n.Field == query.FieldTags {
			// tags are a JSON text array; exact element match keeps the
			// surrounding quotes
			return `instr(lower(tags), ?) > 0`, []any{`"` + strings.ToLower(n.Value) + `"`}
		}
		return fmt.Sprintf("lower(%s) = lower(?)", columnFor(n.Field)), []any{n.Value}

	case query.Contains:
		return fmt.Sprintf("instr(lower(%s), lower(?)) > 0", columnFor(n.Field)), []any{n.Value}

	case query.Is:
		v := 0
		if n.Value {
			v = 1
		}
		return fmt.Sprintf("%s = ?", columnFor(n.Field)), []any{v}
	}

	// unknown node: match nothing rather than everything
	return "1=0", nil
}

func columnFor(f query.Field) string {
	switch f {
	case query.FieldTitle:
		return "title"
	case query.FieldCompany:
		return "company"
	case query.FieldLocation:
		return "location"
	case query.FieldDescription:
		return "description"
	case query.FieldCategory:
		return "category"
	case query.FieldIndustry:
		return "industry"
	case query.FieldJobType:
		return "job_type"
	case query.FieldExperience:
		return "experience_level"
	case query.FieldSalary:
		return "salary"
	case query.FieldRegion:
		return "region"
	case query.FieldSource:
		return "source"
	case query.FieldSourceType:
		return "source_type"
	case query.FieldTags:
		return "tags"
	case query.FieldStatus:
		return "status"
	case query.FieldApproved:
		return "is_approved"
	case query.FieldRemote:
		return "is_remote"
	case query.FieldTrusted:
		return "is_trusted"
	case query.FieldCanRefer:
		return "can_refer"
	case query.FieldFeatured:
		return "is_featured"
	}
	return "''"
}
