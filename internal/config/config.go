package config

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"

	"haigoo-engine/internal/domain"
)

type CompanyEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Website     string `yaml:"website"`
	CareersPage string `yaml:"careers_page"`
	Industry    string `yaml:"industry"`
	Trusted     bool   `yaml:"trusted"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Ingest struct {
		RetentionDays          int `yaml:"retention_days"`
		BatchConcurrency       int `yaml:"batch_concurrency"`
		ClassifyTimeoutSeconds int `yaml:"classify_timeout_seconds"`
	} `yaml:"ingest"`

	Classifier struct {
		Enabled           bool    `yaml:"enabled"`
		BaseURL           string  `yaml:"base_url"`
		KeyringAccount    string  `yaml:"keyring_account"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"classifier"`

	Cleanup struct {
		Schedule string   `yaml:"schedule"` // cron expression, e.g. "0 3 * * *"
		Days     int      `yaml:"days"`
		Sources  []string `yaml:"sources"`
	} `yaml:"cleanup"`

	Query struct {
		DefaultPageSize int `yaml:"default_page_size"`
		MaxPageSize     int `yaml:"max_page_size"`
	} `yaml:"query"`

	Companies []CompanyEntry `yaml:"companies"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// StaticDirectory exposes the configured trusted companies as the company
// lookup collaborator the catalog consumes.
type StaticDirectory struct {
	Entries []CompanyEntry
}

func (d StaticDirectory) ActiveTrusted(context.Context) ([]domain.Company, error) {
	out := make([]domain.Company, 0, len(d.Entries))
	for _, e := range d.Entries {
		out = append(out, domain.Company{
			ID:          e.ID,
			Name:        e.Name,
			Website:     e.Website,
			CareersPage: e.CareersPage,
			Industry:    e.Industry,
			Active:      true,
			Trusted:     e.Trusted,
		})
	}
	return out, nil
}
