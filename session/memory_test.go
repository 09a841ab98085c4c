package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_PutGetRevoke(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := Record{
		ID:        "sess-1",
		Email:     "alice@co.com",
		Role:      "ADMIN",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := s.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != "alice@co.com" || got.Role != "ADMIN" {
		t.Fatalf("unexpected record: %+v", got)
	}

	if err := s.Revoke(ctx, "sess-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "sess-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after revoke, got %v", err)
	}
}

func TestMemoryStore_ExpiredIsGone(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := Record{ID: "sess-2", Email: "bob@co.com", ExpiresAt: time.Now().Add(-time.Minute)}
	if err := s.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "sess-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired session, got %v", err)
	}
}

func TestMemoryStore_RevokeUnknownIsNoError(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Revoke(context.Background(), "ghost"); err != nil {
		t.Fatal(err)
	}
}
