// Package session exposes the operator's session token through a small
// get/set/clear interface.
//
// The navigation guard only ever reads the token. Sign-in and sign-out write it.
// HTTP handlers obtain a per-request TokenStore from a Binder, so the same
// guard code runs against cookies, server-side backends, or an in-memory slot
// in tests.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// TokenKey is the fixed identifier the session token is stored under.
const TokenKey = "userToken"

// TokenReader reads the current session token. An empty token means signed out.
type TokenReader interface {
	Token(ctx context.Context) (string, error)
}

// TokenStore reads and writes the current session token.
type TokenStore interface {
	TokenReader
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// ErrEmptyToken is returned when storing a blank token.
var ErrEmptyToken = errors.New("session token is empty")

// HasToken reports whether reader currently holds a non-empty token.
// A whitespace-only token counts as absent.
func HasToken(ctx context.Context, reader TokenReader) (bool, error) {
	if reader == nil {
		return false, nil
	}
	token, err := reader.Token(ctx)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(token) != "", nil
}

// Memory is a single token slot. The zero value is ready to use.
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory returns a slot holding token.
func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Token(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *Memory) SetToken(_ context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) ClearToken(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

var _ TokenStore = (*Memory)(nil)
