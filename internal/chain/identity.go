package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cadena-service/internal/model"
	"cadena-service/internal/store"
	"cadena-service/pkg/logger"
	"cadena-service/prometheus"
)

const compensateTimeout = 5 * time.Second

// Slug joins the slug base with the last four characters of the record ID
func Slug(base, id string) string {
	suffix := id
	if len(id) > 4 {
		suffix = id[len(id)-4:]
	}
	return base + "_" + suffix
}

// Assigner stores a draft and then stamps its final slug, which depends on the
// ID the store generated for it.
type Assigner struct {
	store   store.Gateway
	retries int
	backoff time.Duration
}

// NewAssigner returns an Assigner that tries the slug update up to retries
// times, waiting backoff between attempts.
func NewAssigner(gw store.Gateway, retries int, backoff time.Duration) *Assigner {
	if retries < 1 {
		retries = 1
	}
	return &Assigner{store: gw, retries: retries, backoff: backoff}
}

// Assign inserts the draft and finalizes its slug. When the slug cannot be
// stamped the inserted record is deleted and ErrFinalizeFailed is returned.
func (a *Assigner) Assign(ctx context.Context, d *Draft) (*model.Chain, error) {
	log := logger.FromContext(ctx)

	pending := d.Chain
	pending.Slug = ""
	pending.ID = ""

	id, err := a.store.Insert(ctx, &pending)
	if err != nil {
		return nil, err
	}

	slug := Slug(d.SlugBase, id)
	chain, err := a.finalize(ctx, id, slug)
	if err == nil {
		return chain, nil
	}

	log.Error("Slug finalize failed, removing inserted chain",
		zap.String("chain_id", id),
		zap.String("slug", slug),
		zap.Error(err))
	prometheus.RecordSlugFinalize("compensated")

	// the request context may already be done; the cleanup still has to run
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()
	if delErr := a.store.DeleteByID(cleanupCtx, id); delErr != nil {
		log.Error("Failed to remove orphaned chain",
			zap.String("chain_id", id),
			zap.Error(delErr))
		return nil, fmt.Errorf("%w: %v (orphaned record %s: %v)", ErrFinalizeFailed, err, id, delErr)
	}

	return nil, fmt.Errorf("%w: %v", ErrFinalizeFailed, err)
}

func (a *Assigner) finalize(ctx context.Context, id, slug string) (*model.Chain, error) {
	log := logger.FromContext(ctx)

	var lastErr error
	for attempt := 1; attempt <= a.retries; attempt++ {
		chain, err := a.store.SetSlug(ctx, id, slug)
		if err == nil {
			if attempt > 1 {
				prometheus.RecordSlugFinalize("retried")
			} else {
				prometheus.RecordSlugFinalize("ok")
			}
			return chain, nil
		}
		lastErr = err

		log.Warn("Slug finalize attempt failed",
			zap.String("chain_id", id),
			zap.Int("attempt", attempt),
			zap.Error(err))

		// a vanished record will not come back
		if errors.Is(err, store.ErrNotFound) || attempt == a.retries {
			break
		}

		timer := time.NewTimer(a.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}
