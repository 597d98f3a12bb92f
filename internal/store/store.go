// Package store persists provenance records describing the data sets a run
// consumed.
package store

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agenthands/ppimap/internal/core/model"
	ppierrors "github.com/agenthands/ppimap/internal/errors"
)

// ProvenanceStore looks up and records provenance. AddOrGetExisting is
// keyed on name, url, category and biological entity: when a matching
// record exists it is returned unchanged, otherwise p is stored and
// returned with its new ID.
type ProvenanceStore interface {
	GetByID(ctx context.Context, id int64) (*model.Provenance, error)
	GetByName(ctx context.Context, name string) ([]model.Provenance, error)
	AddOrGetExisting(ctx context.Context, p model.Provenance) (*model.Provenance, error)
	Close() error
}

func validate(p model.Provenance) error {
	if strings.TrimSpace(p.Name) == "" {
		return ppierrors.NewValidationError("name", p.Name, "provenance name is required")
	}
	return nil
}

func notFound(id int64) error {
	return ppierrors.NewNotFoundError("provenance", strconv.FormatInt(id, 10))
}

// MemoryStore keeps provenance in memory. It backs the server when no
// database is configured.
type MemoryStore struct {
	mu      sync.Mutex
	records []model.Provenance
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*model.Provenance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, notFound(id)
}

func (m *MemoryStore) GetByName(ctx context.Context, name string) ([]model.Provenance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Provenance{}
	for _, r := range m.records {
		if r.Name == name {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) AddOrGetExisting(ctx context.Context, p model.Provenance) (*model.Provenance, error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.SameSource(p) {
			out := r
			return &out, nil
		}
	}
	p.ID = int64(len(m.records) + 1)
	p.CreatedAt = m.now().UTC()
	m.records = append(m.records, p)
	return &p, nil
}

func (m *MemoryStore) Close() error { return nil }
