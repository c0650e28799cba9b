// Package memory provides a process-local token store.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/louisbranch/libraryadmin/internal/services/admin/storage"
)

// Store keeps tokens in a map guarded by a mutex. Tokens do not survive restarts.
type Store struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// New returns an empty store.
func New() *Store {
	return &Store{tokens: make(map[string]string)}
}

// GetToken returns the token stored for clientID.
func (s *Store) GetToken(ctx context.Context, clientID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil {
		return "", fmt.Errorf("storage is not configured")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[clientID]
	if !ok {
		return "", storage.ErrNotFound
	}
	return token, nil
}

// PutToken stores token for clientID, replacing any previous value.
func (s *Store) PutToken(ctx context.Context, clientID string, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(clientID) == "" {
		return fmt.Errorf("client id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[clientID] = token
	return nil
}

// DeleteToken removes the token for clientID. Deleting a missing token is not an error.
func (s *Store) DeleteToken(ctx context.Context, clientID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("storage is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, clientID)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

var _ storage.Store = (*Store)(nil)
