package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// EnsureUserConfig makes sure a writable config exists in the data dir,
// seeding it from the shipped default on first run. When no default file is
// shipped either, a minimal built-in one is written so the engine can boot.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	src, err := os.Open(defaultPath)
	if errors.Is(err, os.ErrNotExist) {
		if werr := os.WriteFile(userPath, []byte(builtinDefault), 0o644); werr != nil {
			return "", werr
		}
		return userPath, nil
	}
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return userPath, nil
}

const builtinDefault = `app:
  port: 38600
  data_dir: .

ingest:
  retention_days: 30
  batch_concurrency: 5
  classify_timeout_seconds: 8

classifier:
  enabled: false
  base_url: ""
  keyring_account: ""
  requests_per_second: 2

cleanup:
  schedule: "0 3 * * *"
  days: 30
  sources: []

query:
  default_page_size: 20
  max_page_size: 100

companies: []
`
