// Package chain implements creation, lookup and disabling of payment chains.
//
// Creation runs Validate, Normalize and then the Assigner, which inserts the
// chain and stamps a slug derived from the title and the store-assigned ID.
package chain

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"cadena-service/internal/model"
	"cadena-service/internal/store"
	"cadena-service/pkg/config"
	"cadena-service/pkg/logger"
	"cadena-service/prometheus"
)

// Service exposes the chain operations over a record store
type Service struct {
	store    store.Gateway
	assigner *Assigner
}

// NewService creates a Service on the given store
func NewService(gw store.Gateway, cfg config.ChainConfig) *Service {
	return &Service{
		store:    gw,
		assigner: NewAssigner(gw, cfg.FinalizeRetries, cfg.FinalizeBackoff),
	}
}

// Create validates and normalizes the raw payload, then stores the chain with
// its final slug. Nothing is written when the payload is rejected.
func (s *Service) Create(ctx context.Context, raw map[string]interface{}) (*model.Chain, error) {
	log := logger.FromContext(ctx)

	draft, err := s.prepare(raw)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			prometheus.RecordValidationFailure(string(verr.Kind))
			prometheus.RecordChainOperation("create", "invalid")
			log.Info("Chain payload rejected",
				zap.String("kind", string(verr.Kind)),
				zap.String("field", verr.Field))
		}
		return nil, err
	}

	chain, err := s.assigner.Assign(ctx, draft)
	if err != nil {
		prometheus.RecordChainOperation("create", "error")
		return nil, err
	}

	prometheus.RecordChainOperation("create", "ok")
	log.Info("Chain created",
		zap.String("chain_id", chain.ID),
		zap.String("slug", chain.Slug),
		zap.Int("participants", len(chain.Participants)))
	return chain, nil
}

// Get returns the chain with the given slug or store.ErrNotFound
func (s *Service) Get(ctx context.Context, slug string) (*model.Chain, error) {
	chain, err := s.store.FindBySlug(ctx, slug)
	prometheus.RecordChainOperation("get", outcome(err))
	return chain, err
}

// List returns the chains matching the filter
func (s *Service) List(ctx context.Context, filter model.ChainFilter) ([]model.Chain, error) {
	chains, err := s.store.Find(ctx, filter)
	prometheus.RecordChainOperation("list", outcome(err))
	return chains, err
}

// Disable marks the chain inactive. Disabling an inactive chain succeeds.
func (s *Service) Disable(ctx context.Context, slug string) (*model.Chain, error) {
	chain, err := s.store.SetActive(ctx, slug, false)
	prometheus.RecordChainOperation("disable", outcome(err))
	if err == nil {
		logger.FromContext(ctx).Info("Chain disabled", zap.String("slug", slug))
	}
	return chain, err
}

// Ping checks the underlying store
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) prepare(raw map[string]interface{}) (*Draft, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}
	return Normalize(raw)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
