// Package session tracks active sessions so that logout revokes a session
// token before its JWT expiry. Two backends exist: an in-process map for
// single-instance deployments and a Valkey client for shared deployments.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session id is unknown, expired or revoked.
var ErrNotFound = errors.New("session not found")

// Record is one active session.
type Record struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is the active-session registry.
type Store interface {
	// Put registers a session until its expiry.
	Put(ctx context.Context, rec Record) error
	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)
	// Revoke removes id; revoking an unknown id is not an error.
	Revoke(ctx context.Context, id string) error
}
