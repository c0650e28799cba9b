package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/louisbranch/libraryadmin/internal/services/admin/routepath"
	"github.com/louisbranch/libraryadmin/internal/services/admin/storage"
)

// ClientCookieName identifies a browser client for server-side token backends.
const ClientCookieName = "admin_client"

// cookieMaxAge keeps token and client cookies for a year; tokens carry no expiry.
const cookieMaxAge = 365 * 24 * time.Hour

// Binder produces the token store for one HTTP exchange.
type Binder interface {
	Bind(w http.ResponseWriter, r *http.Request) TokenStore
}

// CookieBinder keeps the token itself in an HttpOnly cookie named TokenKey.
type CookieBinder struct {
	Secure bool
}

// Bind returns a cookie-backed token store for the exchange.
func (b CookieBinder) Bind(w http.ResponseWriter, r *http.Request) TokenStore {
	return &cookieTokens{w: w, r: r, secure: b.Secure}
}

type cookieTokens struct {
	w       http.ResponseWriter
	r       *http.Request
	secure  bool
	written *string
}

func (c *cookieTokens) Token(context.Context) (string, error) {
	if c.written != nil {
		return *c.written, nil
	}
	if c.r == nil {
		return "", nil
	}
	cookie, err := c.r.Cookie(TokenKey)
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(cookie.Value), nil
}

func (c *cookieTokens) SetToken(_ context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}
	if c.w == nil {
		return fmt.Errorf("response writer is required")
	}
	http.SetCookie(c.w, newCookie(TokenKey, token, c.secure))
	c.written = &token
	return nil
}

func (c *cookieTokens) ClearToken(context.Context) error {
	if c.w == nil {
		return fmt.Errorf("response writer is required")
	}
	http.SetCookie(c.w, expiredCookie(TokenKey, c.secure))
	empty := ""
	c.written = &empty
	return nil
}

// StoreBinder keeps the token in a server-side backend keyed by a client cookie.
type StoreBinder struct {
	Store  storage.TokenStore
	Secure bool
	// NewClientID defaults to random UUIDs.
	NewClientID func() string
}

// Bind returns a backend-backed token store for the exchange.
func (b StoreBinder) Bind(w http.ResponseWriter, r *http.Request) TokenStore {
	newID := b.NewClientID
	if newID == nil {
		newID = uuid.NewString
	}
	return &storeTokens{store: b.Store, w: w, r: r, secure: b.Secure, newID: newID}
}

type storeTokens struct {
	store  storage.TokenStore
	w      http.ResponseWriter
	r      *http.Request
	secure bool
	newID  func() string
	id     string
}

func (s *storeTokens) clientID() string {
	if s.id != "" {
		return s.id
	}
	if s.r == nil {
		return ""
	}
	cookie, err := s.r.Cookie(ClientCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

func (s *storeTokens) Token(ctx context.Context) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("token store is not configured")
	}
	id := s.clientID()
	if id == "" {
		return "", nil
	}
	token, err := s.store.GetToken(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session token: %w", err)
	}
	return token, nil
}

func (s *storeTokens) SetToken(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}
	if s.store == nil {
		return fmt.Errorf("token store is not configured")
	}
	if s.w == nil {
		return fmt.Errorf("response writer is required")
	}
	id := s.clientID()
	if id == "" {
		id = s.newID()
	}
	if err := s.store.PutToken(ctx, id, token); err != nil {
		return fmt.Errorf("write session token: %w", err)
	}
	s.id = id
	http.SetCookie(s.w, newCookie(ClientCookieName, id, s.secure))
	return nil
}

func (s *storeTokens) ClearToken(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("token store is not configured")
	}
	id := s.clientID()
	if id == "" {
		return nil
	}
	if err := s.store.DeleteToken(ctx, id); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}

func newCookie(name, value string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     routepath.Root,
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredCookie(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     routepath.Root,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
