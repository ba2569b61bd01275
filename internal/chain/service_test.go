package chain

import (
	"context"
	"errors"
	"testing"
	"time"

	"cadena-service/internal/model"
	"cadena-service/internal/store"
	"cadena-service/internal/store/memstore"
	"cadena-service/pkg/config"
)

func newTestService() (*Service, *memstore.Store) {
	s := memstore.New()
	return NewService(s, config.ChainConfig{FinalizeRetries: 3, FinalizeBackoff: time.Millisecond}), s
}

func TestCreateRejectsBeforeAnyWrite(t *testing.T) {
	svc, s := newTestService()
	ctx := context.Background()

	bad := []map[string]interface{}{
		func() map[string]interface{} { p := validPayload(); delete(p, "titulo"); return p }(),
		func() map[string]interface{} { p := validPayload(); p["fecha_fin"] = "2024-12-01"; return p }(),
		func() map[string]interface{} { p := validPayload(); p["titulo"] = "cadena?"; return p }(),
		func() map[string]interface{} { p := validPayload(); p["participantes"] = []interface{}{}; return p }(),
	}
	for i, p := range bad {
		if _, err := svc.Create(ctx, p); err == nil {
			t.Errorf("payload %d should be rejected", i)
		}
	}
	if s.Len() != 0 {
		t.Errorf("rejected payloads must not reach the store, got %d records", s.Len())
	}
}

func TestCreateGetDisable(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validPayload())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Slug != Slug("cadena_test", created.ID) {
		t.Errorf("slug %q not derived from id %q", created.Slug, created.ID)
	}
	if len(created.Participants) != 1 || !created.Active {
		t.Errorf("unexpected created chain %+v", created)
	}

	got, err := svc.Get(ctx, created.Slug)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("Get returned %s, want %s", got.ID, created.ID)
	}

	for i := 0; i < 2; i++ {
		disabled, err := svc.Disable(ctx, created.Slug)
		if err != nil {
			t.Fatalf("Disable #%d failed: %v", i+1, err)
		}
		if disabled.Active {
			t.Errorf("Disable #%d left chain active", i+1)
		}
	}
}

func TestGetAndDisableNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Get(ctx, "nope_0000"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Disable(ctx, "nope_0000"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Disable: expected ErrNotFound, got %v", err)
	}
}

func TestListFiltersByActive(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, _ := svc.Create(ctx, validPayload())
	if _, err := svc.Create(ctx, validPayload()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Disable(ctx, first.Slug); err != nil {
		t.Fatalf("Disable failed: %v", err)
	}

	active := true
	chains, err := svc.List(ctx, model.ChainFilter{Active: &active})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(chains) != 1 || !chains[0].Active {
		t.Errorf("expected one active chain, got %+v", chains)
	}

	all, _ := svc.List(ctx, model.ChainFilter{})
	if len(all) != 2 {
		t.Errorf("expected 2 chains without filter, got %d", len(all))
	}
}
