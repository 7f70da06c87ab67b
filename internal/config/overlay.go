package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type companiesFile struct {
	Companies []CompanyEntry `yaml:"companies"`
}

// OverlayCompanies lets operators maintain the trusted-company directory in
// a separate companies.yml next to the main config. A missing file is fine;
// a present one replaces the inline list.
func OverlayCompanies(cfg *Config, companiesPath string) error {
	b, err := os.ReadFile(companiesPath)
	if err != nil {
		// Missing companies file should not kill startup
		return nil
	}

	var cf companiesFile
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return err
	}

	if len(cf.Companies) > 0 {
		cfg.Companies = cf.Companies
	}
	return nil
}
