package catalog

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"haigoo-engine/internal/classify"
	"haigoo-engine/internal/dedup"
	"haigoo-engine/internal/domain"
	"haigoo-engine/internal/enrich"
	"haigoo-engine/internal/events"
	"haigoo-engine/internal/facet"
	"haigoo-engine/internal/normalize"
	"haigoo-engine/internal/query"
	"haigoo-engine/internal/rank"
	"haigoo-engine/internal/store"
)

type IngestMode string

const (
	ModeReplace IngestMode = "replace"
	ModeUpsert  IngestMode = "upsert"
)

type IngestOptions struct {
	Mode IngestMode
	// BypassRetention lets a correction pass write records older than the
	// retention window.
	BypassRetention bool
}

type Options struct {
	RetentionDays    int           // default 30
	BatchConcurrency int           // default 5
	ClassifyTimeout  time.Duration // per external classify call, default 8s
	DefaultPageSize  int           // default 20
	MaxPageSize      int           // default 100
}

func (o Options) withDefaults() Options {
	if o.RetentionDays <= 0 {
		o.RetentionDays = 30
	}
	if o.BatchConcurrency <= 0 {
		o.BatchConcurrency = 5
	}
	if o.ClassifyTimeout <= 0 {
		o.ClassifyTimeout = 8 * time.Second
	}
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = 20
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = 100
	}
	return o
}

// Service owns the catalog pipeline: normalize -> classify -> dedupe ->
// store on the way in, compile -> fetch -> rank -> facet on the way out.
// Enricher, Companies and Hub are optional collaborators.
type Service struct {
	Store     store.Store
	Enricher  classify.Enricher
	Companies enrich.Directory
	Hub       *events.Hub
	Opts      Options

	now func() time.Time
}

func New(st store.Store, opts Options) *Service {
	return &Service{Store: st, Opts: opts.withDefaults(), now: time.Now}
}

// Ingest runs one batch through the pipeline. Validation drops and
// retention-window drops are counted in rejected; they never error. A store
// failure is atomic and retryable: either the whole surviving batch landed
// or nothing did.
func (s *Service) Ingest(ctx context.Context, raws []domain.RawPosting, opt IngestOptions) (accepted, rejected int, err error) {
	now := s.now().UTC()
	matcher := s.loadMatcher(ctx)

	normalized := make([]domain.JobPosting, len(raws))
	ok := make([]bool, len(raws))
	var dropped int64

	// Normalize and classify candidates independently, a few at a time.
	// The slow path here is the external classification call; each one is
	// clamped by ClassifyTimeout and falls back to the regex pass.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Opts.BatchConcurrency)
	for i := range raws {
		i := i
		g.Go(func() error {
			p, pass := normalize.Normalize(raws[i], now)
			if !pass {
				atomic.AddInt64(&dropped, 1)
				return nil
			}
			s.classifyOne(gctx, &p)
			if matcher != nil {
				if c, matched := matcher.Match(p.Company, p.URL); matched {
					p.CompanyID = c.ID
					if p.Industry == "" {
						p.Industry = c.Industry
					}
					if c.Trusted && p.SourceType != domain.SourceThirdParty {
						p.IsTrusted = true
					}
				}
			}
			normalized[i], ok[i] = p, true
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	cutoff := now.AddDate(0, 0, -s.Opts.RetentionDays)
	batch := make([]domain.JobPosting, 0, len(raws))
	for i := range raws {
		if !ok[i] {
			continue
		}
		p := normalized[i]
		if !opt.BypassRetention && p.PublishedAt.Before(cutoff) && !p.IsManuallyEdited {
			dropped++
			continue
		}
		batch = append(batch, p)
	}

	winners := dedup.ResolveBatch(batch)
	for i := range winners {
		applyWriteInvariants(&winners[i])
	}

	switch opt.Mode {
	case ModeReplace:
		if err := s.Store.ReplaceAll(ctx, winners); err != nil {
			return 0, 0, fmt.Errorf("ingest replace: %w", err)
		}
	default:
		if _, err := s.Store.UpsertBatch(ctx, winners, dedup.Resolve); err != nil {
			return 0, 0, fmt.Errorf("ingest upsert: %w", err)
		}
	}

	accepted, rejected = len(winners), int(dropped)
	log.Printf("[ingest] mode=%s in=%d accepted=%d rejected=%d", opt.Mode, len(raws), accepted, rejected)
	s.publish("ingest_completed", map[string]any{"accepted": accepted, "rejected": rejected})
	return accepted, rejected, nil
}

func (s *Service) classifyOne(ctx context.Context, p *domain.JobPosting) {
	if s.Enricher == nil {
		classify.EnrichPosting(p)
		return
	}
	cctx, cancel := context.WithTimeout(ctx, s.Opts.ClassifyTimeout)
	defer cancel()
	enr, err := s.Enricher.Classify(cctx, p.Title, p.Description)
	if err != nil {
		log.Printf("[classify] fallback title=%q err=%v", p.Title, err)
		classify.EnrichPosting(p)
		return
	}
	classify.ApplyEnrichment(p, enr)
}

func (s *Service) loadMatcher(ctx context.Context) *enrich.Matcher {
	if s.Companies == nil {
		return nil
	}
	companies, err := s.Companies.ActiveTrusted(ctx)
	if err != nil {
		log.Printf("[ingest] company directory unavailable: %v", err)
		return nil
	}
	return enrich.NewMatcher(companies)
}

// applyWriteInvariants is the last gate before persistence; classification
// results never get to relax it.
func applyWriteInvariants(p *domain.JobPosting) {
	if p.SourceType == domain.SourceThirdParty {
		p.IsTrusted = false
		p.CanRefer = false
	}
	if !p.Region.Valid() {
		p.Region = domain.RegionUnclassified
	}
}

type QueryResult struct {
	Items  []domain.JobPosting            `json:"items"`
	Total  int                            `json:"total"`
	Facets map[string][]domain.FacetEntry `json:"facets"`
}

// Query compiles the filter once and uses it for both the page and the
// facet counts, so the two always agree on which records are eligible.
func (s *Service) Query(ctx context.Context, req query.FilterRequest, page, pageSize int, sort string, privileged bool) (QueryResult, error) {
	compiled := query.Compile(req, privileged)

	matched, err := s.Store.Select(ctx, compiled.Pred)
	if err != nil {
		return QueryResult{}, fmt.Errorf("query: %w", err)
	}

	ranked := rank.Order(matched, rank.Options{Sort: sort, SearchTerms: compiled.SearchTerms})
	facets := facet.Compute(ctx, matched)

	if pageSize <= 0 {
		pageSize = s.Opts.DefaultPageSize
	}
	if pageSize > s.Opts.MaxPageSize {
		pageSize = s.Opts.MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	from := (page - 1) * pageSize
	if from > len(ranked) {
		from = len(ranked)
	}
	to := from + pageSize
	if to > len(ranked) {
		to = len(ranked)
	}

	items := make([]domain.JobPosting, to-from)
	copy(items, ranked[from:to])
	if !privileged {
		for i := range items {
			items[i].StripMemberFields()
		}
	}

	return QueryResult{Items: items, Total: len(ranked), Facets: facets}, nil
}

// Cleanup drops postings published before the cutoff. Manually edited
// records always survive; a non-empty allowlist restricts deletion to those
// sources.
func (s *Service) Cleanup(ctx context.Context, days int, sourceAllowlist []string) (int, error) {
	if days <= 0 {
		days = s.Opts.RetentionDays
	}
	cutoff := s.now().UTC().AddDate(0, 0, -days)
	n, err := s.Store.DeleteOlderThan(ctx, cutoff, sourceAllowlist)
	if err != nil {
		return 0, fmt.Errorf("cleanup: %w", err)
	}
	log.Printf("[cleanup] days=%d sources=%d deleted=%d", days, len(sourceAllowlist), n)
	s.publish("cleanup_completed", map[string]any{"deleted": n})
	return int(n), nil
}

// Translate applies a translation to one posting on explicit request. It
// never overwrites a translation newer than the description's last change;
// applied=false means the existing translation won.
func (s *Service) Translate(ctx context.Context, id string, translations map[string]string) (bool, error) {
	p, found, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("translate: %w", err)
	}
	if !found {
		return false, fmt.Errorf("translate: posting %s not found", id)
	}
	if !enrich.ApplyTranslation(&p, translations, s.now().UTC()) {
		return false, nil
	}
	if _, err := s.Store.UpsertBatch(ctx, []domain.JobPosting{p},
		func(_, incoming domain.JobPosting) domain.JobPosting { return incoming },
	); err != nil {
		return false, fmt.Errorf("translate save: %w", err)
	}
	return true, nil
}

func (s *Service) publish(typ string, data map[string]any) {
	if s.Hub == nil {
		return
	}
	s.Hub.Publish(events.MakeEvent("", typ, 1, data))
}
