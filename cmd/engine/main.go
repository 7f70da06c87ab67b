package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"

	"haigoo-engine/internal/catalog"
	"haigoo-engine/internal/classify"
	"haigoo-engine/internal/config"
	"haigoo-engine/internal/events"
	"haigoo-engine/internal/httpapi"
	"haigoo-engine/internal/secrets"
	"haigoo-engine/internal/store"
)

func main() {
	// Engine data dir: use env if provided, else local folder.
	dataDir := os.Getenv("HAIGOO_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir. A second instance would race the SQLite WAL
	// and the config save path.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("data dir lock failed: %v", err)
	}
	if !locked {
		log.Fatalf("another engine instance already holds %s", dataDir)
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		normalized, vr := config.NormalizeAndValidate(cfg)
		for _, w := range vr.Warnings {
			log.Printf("[config] warning: %s", w)
		}
		if !vr.OK() {
			return cfg, fmt.Errorf("invalid config: %s", vr.Errors[0])
		}
		if err := config.OverlayCompanies(&normalized, filepath.Join(dataDir, "companies.yml")); err != nil {
			return normalized, fmt.Errorf("companies overlay: %w", err)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "haigoo.db")
	st, err := store.OpenSQLite(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	hub := events.NewHub()

	svc := catalog.New(st, catalog.Options{
		RetentionDays:    cfg.Ingest.RetentionDays,
		BatchConcurrency: cfg.Ingest.BatchConcurrency,
		ClassifyTimeout:  time.Duration(cfg.Ingest.ClassifyTimeoutSeconds) * time.Second,
		DefaultPageSize:  cfg.Query.DefaultPageSize,
		MaxPageSize:      cfg.Query.MaxPageSize,
	})
	svc.Hub = hub
	svc.Companies = config.StaticDirectory{Entries: cfg.Companies}

	if cfg.Classifier.Enabled {
		key, err := secrets.GetClassifierKey(cfg.Classifier.KeyringAccount)
		if err != nil {
			log.Printf("[classify] no API key in keyring, falling back to heuristics: %v", err)
		} else {
			svc.Enricher = classify.NewHTTPEnricher(cfg.Classifier.BaseURL, key, cfg.Classifier.RequestsPerSecond)
			log.Printf("[classify] external classifier enabled base_url=%s", cfg.Classifier.BaseURL)
		}
	}

	var ingestStatus atomic.Value
	ingestStatus.Store(httpapi.IngestStatus{})

	memberToken := os.Getenv("HAIGOO_MEMBER_TOKEN")

	deps := httpapi.Deps{
		Engine:       svc,
		Hub:          hub,
		CfgVal:       &cfgVal,
		IngestStatus: &ingestStatus,
		UserCfgPath:  userCfgPath,
		LoadCfg:      loadCfg,
		Authorize:    memberAuth(memberToken),
		Checkpoint:   st.Checkpoint,
	}
	mux := httpapi.NewMux(deps)

	// Scheduled cleanup
	cr := cron.New()
	if sched := cfg.Cleanup.Schedule; sched != "" {
		_, err := cr.AddFunc(sched, func() {
			cur := cfgVal.Load().(config.Config)
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := svc.Cleanup(ctx, cur.Cleanup.Days, cur.Cleanup.Sources); err != nil {
				log.Printf("[cleanup] scheduled run failed: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("cleanup schedule %q: %v", sched, err)
		}
		cr.Start()
		defer cr.Stop()
	}

	port := cfg.App.Port
	addr := net.JoinHostPort("127.0.0.1", fmt.Sprint(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	srv := &http.Server{
		Handler:           httpapi.Chain(mux, httpapi.RequestID, httpapi.Recover, httpapi.AccessLog, httpapi.Cors),
		ReadHeaderTimeout: 5 * time.Second,
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))

	log.Printf("engine listening on http://%s (db=%s)", addr, dbPath)
	fmt.Printf("SHUTDOWN_TOKEN=%s\n", token)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// memberAuth resolves member-tier access from a shared token. An empty
// token means no caller is privileged, so member-only fields stay hidden.
func memberAuth(token string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		if token == "" {
			return false
		}
		return tokenEqual(r.Header.Get("X-Member-Token"), token)
	}
}
