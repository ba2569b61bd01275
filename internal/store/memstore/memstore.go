// Package memstore provides an in-process implementation of store.Gateway,
// used for local runs (STORE_DRIVER=memory) and tests.
package memstore

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cadena-service/internal/model"
	"cadena-service/internal/store"
)

var _ store.Gateway = (*Store)(nil)

// Store keeps chains in memory. Record IDs are ObjectID hex strings so slugs
// look the same as with the MongoDB backend.
type Store struct {
	mu     sync.RWMutex
	chains map[string]*model.Chain
	order  []string
}

// New creates an empty Store
func New() *Store {
	return &Store{chains: make(map[string]*model.Chain)}
}

// Insert stores a copy of chain under a new ObjectID
func (s *Store) Insert(ctx context.Context, chain *model.Chain) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := primitive.NewObjectID().Hex()

	s.mu.Lock()
	defer s.mu.Unlock()

	c := clone(chain)
	c.ID = id
	s.chains[id] = c
	s.order = append(s.order, id)
	return id, nil
}

// FindBySlug returns a copy of the chain with the given slug
func (s *Store) FindBySlug(ctx context.Context, slug string) (*model.Chain, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c := s.bySlug(slug); c != nil {
		return clone(c), nil
	}
	return nil, store.ErrNotFound
}

// Find returns copies of the matching chains in insertion order
func (s *Store) Find(ctx context.Context, filter model.ChainFilter) ([]model.Chain, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	chains := make([]model.Chain, 0, len(s.order))
	for _, id := range s.order {
		c := s.chains[id]
		if filter.Active != nil && c.Active != *filter.Active {
			continue
		}
		chains = append(chains, *clone(c))
	}
	return chains, nil
}

// SetSlug stamps the slug on the record with the given ID
func (s *Store) SetSlug(ctx context.Context, id, slug string) (*model.Chain, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chains[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.Slug = slug
	return clone(c), nil
}

// SetActive flips the active flag of the chain with the given slug
func (s *Store) SetActive(ctx context.Context, slug string, active bool) (*model.Chain, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.bySlug(slug)
	if c == nil {
		return nil, store.ErrNotFound
	}
	c.Active = active
	return clone(c), nil
}

// DeleteByID removes the record with the given ID
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chains[id]; !ok {
		return nil
	}
	delete(s.chains, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op
func (s *Store) Close(context.Context) error {
	return nil
}

// Len returns the number of stored chains
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chains)
}

// bySlug must be called with the lock held. An empty slug never matches so
// records still waiting for their slug stay invisible to lookups.
func (s *Store) bySlug(slug string) *model.Chain {
	if slug == "" {
		return nil
	}
	for _, id := range s.order {
		if c := s.chains[id]; c.Slug == slug {
			return c
		}
	}
	return nil
}

func clone(c *model.Chain) *model.Chain {
	out := *c
	out.Participants = append([]model.Participant(nil), c.Participants...)
	return &out
}
