package store

import (
	"strings"
	"testing"

	"haigoo-engine/internal/query"
)

func TestRenderPred(t *testing.T) {
	tests := []struct {
		name     string
		pred     query.Pred
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "true",
			pred:    query.True{},
			wantSQL: "1=1",
		},
		{
			name:     "eq",
			pred:     query.Eq{Field: query.FieldRegion, Value: "domestic"},
			wantSQL:  "lower(region) = lower(?)",
			wantArgs: []any{"domestic"},
		},
		{
			name:     "contains",
			pred:     query.Contains{Field: query.FieldTitle, Value: "engineer"},
			wantSQL:  "instr(lower(title), lower(?)) > 0",
			wantArgs: []any{"engineer"},
		},
		{
			name:     "tags element keeps json quotes",
			pred:     query.Eq{Field: query.FieldTags, Value: "Go"},
			wantSQL:  `instr(lower(tags), ?) > 0`,
			wantArgs: []any{`"go"`},
		},
		{
			name:     "is true",
			pred:     query.Is{Field: query.FieldApproved, Value: true},
			wantSQL:  "is_approved = ?",
			wantArgs: []any{1},
		},
		{
			name:     "is false",
			pred:     query.Is{Field: query.FieldRemote, Value: false},
			wantSQL:  "is_remote = ?",
			wantArgs: []any{0},
		},
		{
			name: "and of or",
			pred: query.And{
				query.Is{Field: query.FieldApproved, Value: true},
				query.Or{
					query.Eq{Field: query.FieldRegion, Value: "domestic"},
					query.Eq{Field: query.FieldRegion, Value: "both"},
				},
			},
			wantSQL:  "(is_approved = ? AND (lower(region) = lower(?) OR lower(region) = lower(?)))",
			wantArgs: []any{1, "domestic", "both"},
		},
		{
			name:    "empty or matches nothing",
			pred:    query.Or{},
			wantSQL: "1=0",
		},
		{
			name:    "empty and matches everything",
			pred:    query.And{},
			wantSQL: "1=1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := renderPred(tt.pred)
			if sql != tt.wantSQL {
				t.Errorf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("arg[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

// Every predicate the filter compiler can emit must render to something,
// never panic, and parameterize all user input.
func TestRenderCompiledFilter(t *testing.T) {
	yes := true
	c := query.Compile(query.FilterRequest{
		Search:      "测试",
		Categories:  []string{"Testing/QA"},
		Regions:     []string{"domestic"},
		SourceTypes: []string{"rss"},
		Remote:      &yes,
	}, false)

	sql, args := renderPred(c.Pred)
	if sql == "" || len(args) == 0 {
		t.Fatalf("render produced %q / %v", sql, args)
	}
	if strings.Contains(sql, "测试") {
		t.Error("user input leaked into the SQL text")
	}
}
