package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeAndValidateFillsDefaults(t *testing.T) {
	var cfg Config
	cfg.App.Port = 38600

	out, vr := NormalizeAndValidate(cfg)
	if !vr.OK() {
		t.Fatalf("unexpected errors: %v", vr.Errors)
	}
	if out.Ingest.RetentionDays != 30 || out.Ingest.BatchConcurrency != 5 {
		t.Errorf("ingest defaults not filled: %+v", out.Ingest)
	}
	if out.Query.DefaultPageSize != 20 || out.Query.MaxPageSize != 100 {
		t.Errorf("query defaults not filled: %+v", out.Query)
	}
}

func TestNormalizeAndValidateRejects(t *testing.T) {
	var cfg Config
	cfg.App.Port = 0
	if _, vr := NormalizeAndValidate(cfg); vr.OK() {
		t.Error("port 0 should be an error")
	}

	cfg.App.Port = 38600
	cfg.Cleanup.Schedule = "not a cron line"
	if _, vr := NormalizeAndValidate(cfg); vr.OK() {
		t.Error("bad cron schedule should be an error")
	}

	cfg.Cleanup.Schedule = "0 3 * * *"
	cfg.Classifier.Enabled = true
	if _, vr := NormalizeAndValidate(cfg); vr.OK() {
		t.Error("enabled classifier without base_url should be an error")
	}
}

func TestEnsureUserConfigWritesBuiltinDefault(t *testing.T) {
	dir := t.TempDir()
	path, err := EnsureUserConfig(dir, filepath.Join(dir, "no-such-default.yml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Port != 38600 {
		t.Errorf("builtin default port = %d", cfg.App.Port)
	}

	// Second call must keep the existing file untouched.
	if err := os.WriteFile(path, []byte("app:\n  port: 40000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := EnsureUserConfig(dir, filepath.Join(dir, "no-such-default.yml")); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Port != 40000 {
		t.Error("existing user config overwritten")
	}
}

func TestOverlayCompanies(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Companies: []CompanyEntry{{ID: "inline", Name: "Inline"}}}

	// Missing overlay file keeps the inline list.
	if err := OverlayCompanies(&cfg, filepath.Join(dir, "companies.yml")); err != nil {
		t.Fatal(err)
	}
	if len(cfg.Companies) != 1 || cfg.Companies[0].ID != "inline" {
		t.Fatalf("inline list lost: %+v", cfg.Companies)
	}

	overlay := filepath.Join(dir, "companies.yml")
	data := "companies:\n  - id: acme\n    name: Acme\n    trusted: true\n"
	if err := os.WriteFile(overlay, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := OverlayCompanies(&cfg, overlay); err != nil {
		t.Fatal(err)
	}
	if len(cfg.Companies) != 1 || cfg.Companies[0].ID != "acme" {
		t.Fatalf("overlay not applied: %+v", cfg.Companies)
	}
}
