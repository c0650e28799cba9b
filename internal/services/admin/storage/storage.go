package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a client has no stored token.
var ErrNotFound = errors.New("token not found")

// TokenStore persists one session token per client identifier.
type TokenStore interface {
	GetToken(ctx context.Context, clientID string) (string, error)
	PutToken(ctx context.Context, clientID string, token string) error
	DeleteToken(ctx context.Context, clientID string) error
}

// Store is a composite interface for session storage concerns.
type Store interface {
	TokenStore
	Close() error
}
