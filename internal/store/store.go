// Package store defines the record store gateway for chains.
package store

import (
	"context"
	"errors"

	"cadena-service/internal/model"
)

// ErrNotFound is returned when no chain matches the lookup
var ErrNotFound = errors.New("chain not found")

// Gateway is the record store for chains. Backends assign the record ID on
// insert; the slug is stamped afterwards through SetSlug.
type Gateway interface {
	// Insert persists the chain and returns the store-assigned record ID.
	Insert(ctx context.Context, chain *model.Chain) (string, error)

	// FindBySlug returns the chain with the given slug or ErrNotFound.
	FindBySlug(ctx context.Context, slug string) (*model.Chain, error)

	// Find returns every chain matching the filter, in insertion order.
	Find(ctx context.Context, filter model.ChainFilter) ([]model.Chain, error)

	// SetSlug atomically sets the slug of the record with the given ID and
	// returns the updated chain, or ErrNotFound.
	SetSlug(ctx context.Context, id, slug string) (*model.Chain, error)

	// SetActive atomically sets the active flag of the chain with the given
	// slug and returns the updated chain, or ErrNotFound.
	SetActive(ctx context.Context, slug string, active bool) (*model.Chain, error)

	// DeleteByID removes the record with the given ID. Deleting a missing
	// record is not an error.
	DeleteByID(ctx context.Context, id string) error

	// Ping checks the store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}
