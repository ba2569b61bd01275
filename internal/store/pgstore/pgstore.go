// Package pgstore implements store.Gateway on PostgreSQL with gorm.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cadena-service/internal/model"
	"cadena-service/internal/store"
	"cadena-service/prometheus"
)

var _ store.Gateway = (*Store)(nil)

// Store is a store.Gateway over the cadenas table
type Store struct {
	db *gorm.DB
}

// New wraps an open gorm connection. ChainRow must already be migrated.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Insert adds the chain and returns its generated UUID
func (s *Store) Insert(ctx context.Context, chain *model.Chain) (string, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	row := newRow(chain)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return "", fmt.Errorf("failed to insert chain: %w", err)
	}
	return row.ID, nil
}

// FindBySlug returns the chain with the given slug
func (s *Store) FindBySlug(ctx context.Context, slug string) (*model.Chain, error) {
	defer prometheus.TrackDBOperation("find_one")(time.Now())

	if slug == "" {
		return nil, store.ErrNotFound
	}

	var row ChainRow
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find chain: %w", err)
	}
	return row.toModel(), nil
}

// Find returns the chains matching the filter in creation order
func (s *Store) Find(ctx context.Context, filter model.ChainFilter) ([]model.Chain, error) {
	defer prometheus.TrackDBOperation("find")(time.Now())

	query := s.db.WithContext(ctx).Order("created_at, id")
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	var rows []ChainRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list chains: %w", err)
	}

	chains := make([]model.Chain, 0, len(rows))
	for i := range rows {
		chains = append(chains, *rows[i].toModel())
	}
	return chains, nil
}

// SetSlug stamps the slug on the record with the given ID
func (s *Store) SetSlug(ctx context.Context, id, slug string) (*model.Chain, error) {
	defer prometheus.TrackDBOperation("set_slug")(time.Now())
	return s.updateReturning(ctx, "id = ?", id, "slug", slug)
}

// SetActive sets the active flag of the chain with the given slug
func (s *Store) SetActive(ctx context.Context, slug string, active bool) (*model.Chain, error) {
	defer prometheus.TrackDBOperation("set_active")(time.Now())

	if slug == "" {
		return nil, store.ErrNotFound
	}
	return s.updateReturning(ctx, "slug = ?", slug, "active", active)
}

// DeleteByID removes the record with the given ID
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&ChainRow{}).Error; err != nil {
		return fmt.Errorf("failed to delete chain %s: %w", id, err)
	}
	return nil
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool
func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// updateReturning runs a single UPDATE ... RETURNING so the read of the
// updated row is atomic with the write.
func (s *Store) updateReturning(ctx context.Context, where string, arg interface{}, column string, value interface{}) (*model.Chain, error) {
	var rows []ChainRow
	res := s.db.WithContext(ctx).
		Model(&rows).
		Clauses(clause.Returning{}).
		Where(where, arg).
		Update(column, value)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update chain %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 || len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return rows[0].toModel(), nil
}
