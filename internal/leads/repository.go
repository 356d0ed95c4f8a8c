package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage. Save performs exactly
// one insert and never deduplicates.
type Repository interface {
	Save(ctx context.Context, lead *Lead) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
}

// InMemoryRepository keeps leads in a map; used for local runs and tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
	order []string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
	}
}

// Save stores a copy of lead with a fresh id and timestamp.
func (r *InMemoryRepository) Save(ctx context.Context, lead *Lead) (*Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	stored := *lead
	stored.ID = uuid.New().String()
	stored.Processed = false
	stored.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	r.leads[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	r.mu.Unlock()

	out := stored
	return &out, nil
}

// GetByID retrieves a lead by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	out := *lead
	return &out, nil
}

// All returns stored leads in insertion order.
func (r *InMemoryRepository) All() []*Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Lead, 0, len(r.order))
	for _, id := range r.order {
		l := *r.leads[id]
		out = append(out, &l)
	}
	return out
}
