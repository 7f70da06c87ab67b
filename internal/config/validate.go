package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus everything worth
// telling the operator about.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Cleanup.Sources = trimList(out.Cleanup.Sources)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Ingest.RetentionDays < 0 {
		res.addErr("ingest.retention_days must be >= 0")
	}
	if out.Ingest.RetentionDays == 0 {
		out.Ingest.RetentionDays = 30
	}
	if out.Ingest.BatchConcurrency == 0 {
		out.Ingest.BatchConcurrency = 5
	}
	if out.Ingest.BatchConcurrency > 32 {
		res.addWarn("ingest.batch_concurrency is very high (%d); the classifier endpoint may throttle you.", out.Ingest.BatchConcurrency)
	}
	if out.Ingest.ClassifyTimeoutSeconds == 0 {
		out.Ingest.ClassifyTimeoutSeconds = 8
	}

	if out.Classifier.Enabled {
		if strings.TrimSpace(out.Classifier.BaseURL) == "" {
			res.addErr("classifier.base_url is required when classifier.enabled=true")
		}
		if strings.TrimSpace(out.Classifier.KeyringAccount) == "" {
			res.addWarn("classifier.keyring_account is empty; calls go out unauthenticated.")
		}
		if out.Classifier.RequestsPerSecond <= 0 {
			out.Classifier.RequestsPerSecond = 2
		}
	}

	if s := strings.TrimSpace(out.Cleanup.Schedule); s != "" {
		if _, err := cron.ParseStandard(s); err != nil {
			res.addErr("cleanup.schedule is not a valid cron expression: %v", err)
		}
	}
	if out.Cleanup.Days < 0 {
		res.addErr("cleanup.days must be >= 0")
	}

	if out.Query.DefaultPageSize == 0 {
		out.Query.DefaultPageSize = 20
	}
	if out.Query.MaxPageSize == 0 {
		out.Query.MaxPageSize = 100
	}
	if out.Query.DefaultPageSize > out.Query.MaxPageSize {
		res.addWarn("query.default_page_size (%d) exceeds max_page_size (%d)", out.Query.DefaultPageSize, out.Query.MaxPageSize)
	}

	for i, c := range out.Companies {
		if strings.TrimSpace(c.Name) == "" {
			res.addErr("companies[%d].name is required", i)
		}
	}

	return out, res
}
