package store

import (
	"context"
	"errors"
	"time"

	"haigoo-engine/internal/domain"
	"haigoo-engine/internal/query"
)

// ErrUnavailable marks persistence failures the caller may retry. Batch
// writes are atomic: on error nothing of the batch is visible to readers.
var ErrUnavailable = errors.New("store unavailable")

// ResolveFunc decides an upsert conflict between a persisted record and an
// incoming one with the same id.
type ResolveFunc func(existing, incoming domain.JobPosting) domain.JobPosting

// Store is the abstract queryable catalog. Two implementations ship: the
// SQLite adapter and an in-memory stub for tests and single-process runs.
type Store interface {
	// Select returns every posting matching the predicate, in stable order.
	Select(ctx context.Context, pred query.Pred) ([]domain.JobPosting, error)

	// UpsertBatch writes a batch in one transaction, applying resolve to
	// each id collision with a persisted record.
	UpsertBatch(ctx context.Context, batch []domain.JobPosting, resolve ResolveFunc) (int, error)

	// ReplaceAll clears the catalog and inserts the batch inside a single
	// transaction boundary.
	ReplaceAll(ctx context.Context, batch []domain.JobPosting) error

	// GetByID fetches one posting; ok=false when absent.
	GetByID(ctx context.Context, id string) (domain.JobPosting, bool, error)

	// DeleteByID removes one posting.
	DeleteByID(ctx context.Context, id string) error

	// DeleteOlderThan removes postings published before cutoff, always
	// keeping manually edited ones. A non-empty sources list narrows
	// eligibility to those origins.
	DeleteOlderThan(ctx context.Context, cutoff time.Time, sources []string) (int64, error)

	Close() error
}
