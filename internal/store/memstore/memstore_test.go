package memstore

import (
	"context"
	"errors"
	"testing"

	"cadena-service/internal/model"
	"cadena-service/internal/store"
)

func TestInsertAssignsHexID(t *testing.T) {
	s := New()
	id, err := s.Insert(context.Background(), &model.Chain{Title: "a"})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if len(id) != 24 {
		t.Errorf("expected 24-char ObjectID hex, got %q", id)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 record, got %d", s.Len())
	}
}

func TestSlugLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, _ := s.Insert(ctx, &model.Chain{Title: "a", Active: true})

	if _, err := s.FindBySlug(ctx, ""); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("empty slug should not match, got %v", err)
	}

	updated, err := s.SetSlug(ctx, id, "a_1234")
	if err != nil {
		t.Fatalf("SetSlug failed: %v", err)
	}
	if updated.Slug != "a_1234" || updated.ID != id {
		t.Errorf("unexpected updated chain: %+v", updated)
	}

	disabled, err := s.SetActive(ctx, "a_1234", false)
	if err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if disabled.Active {
		t.Error("expected chain to be inactive")
	}

	if _, err := s.SetSlug(ctx, "missing", "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindFiltersAndCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Insert(ctx, &model.Chain{Title: "on", Active: true, Participants: []model.Participant{{Name: "Ana"}}})
	s.Insert(ctx, &model.Chain{Title: "off", Active: false})

	active := true
	chains, err := s.Find(ctx, model.ChainFilter{Active: &active})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(chains) != 1 || chains[0].Title != "on" {
		t.Fatalf("expected only the active chain, got %+v", chains)
	}

	chains[0].Participants[0].Name = "changed"
	again, _ := s.Find(ctx, model.ChainFilter{Active: &active})
	if again[0].Participants[0].Name != "Ana" {
		t.Error("Find must return copies")
	}

	all, _ := s.Find(ctx, model.ChainFilter{})
	if len(all) != 2 || all[0].Title != "on" || all[1].Title != "off" {
		t.Errorf("expected both chains in insertion order, got %+v", all)
	}
}

func TestDeleteByID(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, _ := s.Insert(ctx, &model.Chain{Title: "a"})

	if err := s.DeleteByID(ctx, id); err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if err := s.DeleteByID(ctx, id); err != nil {
		t.Fatalf("second DeleteByID should be a no-op, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}
