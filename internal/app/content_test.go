package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"palmnazi/internal/app"
	"palmnazi/internal/domain"
)

func TestContent_HeroIsOldestAndCached(t *testing.T) {
	repo := &fakeContent{items: []domain.Content{
		{ID: "c2", Header: "Second", Subheader: "b", CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "c1", Header: "First", Subheader: "a", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}}
	cache := &fakeCache{}
	q := app.NewQueryService(newFakeProps(), repo, cache, time.Minute)
	svc := app.NewContentService(repo, q)
	ctx := context.Background()

	h, err := svc.Hero(ctx)
	if err != nil || h.ID != "c1" {
		t.Fatalf("hero = %+v (%v)", h, err)
	}
	repo.items[1].Header = "changed behind the cache"
	if h, _ := svc.Hero(ctx); h.Header != "First" {
		t.Fatalf("expected cached hero, got %q", h.Header)
	}

	upd := domain.Content{ID: "c1", Header: "Welcome", Subheader: "to the coast"}
	got, err := svc.Update(ctx, upd)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.CreatedAt.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("created at not preserved: %v", got.CreatedAt)
	}
	if h, _ := svc.Hero(ctx); h.Header != "Welcome" {
		t.Fatalf("hero not invalidated on update, got %q", h.Header)
	}
}

func TestContent_NoHero(t *testing.T) {
	repo := &fakeContent{}
	svc := app.NewContentService(repo, app.NewQueryService(newFakeProps(), repo, nil, time.Minute))
	if _, err := svc.Hero(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContent_CreateDelete(t *testing.T) {
	repo := &fakeContent{}
	cache := &fakeCache{}
	svc := app.NewContentService(repo, app.NewQueryService(newFakeProps(), repo, cache, time.Minute))
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.Content{Header: "Only header"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	c, err := svc.Create(ctx, domain.Content{Header: "Stay by the sea", Subheader: "Book direct"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(cache.dels) != 2 {
		t.Fatalf("hero should be invalidated on every write, dels=%v", cache.dels)
	}
	if _, err := svc.Update(ctx, domain.Content{ID: "gone", Header: "h", Subheader: "s"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
