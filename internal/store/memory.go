package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"haigoo-engine/internal/domain"
	"haigoo-engine/internal/query"
)

// Memory is the in-memory Store used by tests and one-off runs. Insertion
// order is preserved so Select stays deterministic.
type Memory struct {
	mu    sync.RWMutex
	byID  map[string]domain.JobPosting
	order []string
}

func NewMemory() *Memory {
	return &Memory{byID: make(map[string]domain.JobPosting)}
}

func (m *Memory) Select(_ context.Context, pred query.Pred) ([]domain.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.JobPosting
	for _, id := range m.order {
		p := m.byID[id]
		if pred.Match(&p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) UpsertBatch(_ context.Context, batch []domain.JobPosting, resolve ResolveFunc) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range batch {
		if existing, ok := m.byID[p.ID]; ok {
			m.byID[p.ID] = resolve(existing, p)
			continue
		}
		m.byID[p.ID] = p
		m.order = append(m.order, p.ID)
	}
	return len(batch), nil
}

func (m *Memory) ReplaceAll(_ context.Context, batch []domain.JobPosting) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byID = make(map[string]domain.JobPosting, len(batch))
	m.order = m.order[:0]
	for _, p := range batch {
		if _, dup := m.byID[p.ID]; !dup {
			m.order = append(m.order, p.ID)
		}
		m.byID[p.ID] = p
	}
	return nil
}

func (m *Memory) GetByID(_ context.Context, id string) (domain.JobPosting, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byID[id]
	return p, ok, nil
}

func (m *Memory) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return nil
	}
	delete(m.byID, id)
	for i, x := range m.order {
		if x == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) DeleteOlderThan(_ context.Context, cutoff time.Time, sources []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := func(src string) bool {
		if len(sources) == 0 {
			return true
		}
		for _, s := range sources {
			if strings.EqualFold(s, src) {
				return true
			}
		}
		return false
	}

	var deleted int64
	kept := m.order[:0]
	for _, id := range m.order {
		p := m.byID[id]
		if p.PublishedAt.Before(cutoff) && !p.IsManuallyEdited && allowed(p.Source) {
			delete(m.byID, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept
	return deleted, nil
}

func (m *Memory) Close() error { return nil }
