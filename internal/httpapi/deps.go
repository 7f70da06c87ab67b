package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"

	"haigoo-engine/internal/catalog"
	"haigoo-engine/internal/config"
	"haigoo-engine/internal/domain"
	"haigoo-engine/internal/events"
	"haigoo-engine/internal/query"
)

// Engine is the catalog surface the handlers need; injected so tests can
// swap in a stub.
type Engine interface {
	Ingest(ctx context.Context, raws []domain.RawPosting, opt catalog.IngestOptions) (accepted, rejected int, err error)
	Query(ctx context.Context, req query.FilterRequest, page, pageSize int, sort string, privileged bool) (catalog.QueryResult, error)
	Cleanup(ctx context.Context, days int, sources []string) (int, error)
	Translate(ctx context.Context, id string, translations map[string]string) (bool, error)
}

type Deps struct {
	Engine Engine

	Hub *events.Hub

	// Atomic stores
	CfgVal       *atomic.Value // stores config.Config
	IngestStatus *atomic.Value // stores httpapi.IngestStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Authorize resolves whether the request comes from a privileged
	// caller. The auth policy itself lives outside the engine; handlers
	// only consume the resolved bool.
	Authorize func(*http.Request) bool

	// Checkpoint flushes the durable store's WAL; nil when running on the
	// in-memory store.
	Checkpoint func(ctx context.Context) error
}

func (d Deps) privileged(r *http.Request) bool {
	return d.Authorize != nil && d.Authorize(r)
}
