// Package redis provides a Redis-backed token store shared across dashboard replicas.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/libraryadmin/internal/services/admin/storage"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces token keys.
const DefaultKeyPrefix = "library-admin:token:"

// Options configures a Store.
type Options struct {
	// KeyPrefix defaults to DefaultKeyPrefix.
	KeyPrefix string
	// TTL expires idle tokens; zero keeps them until deleted.
	TTL time.Duration
}

// Store keeps tokens in Redis under "<prefix><clientID>".
type Store struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// New wraps an existing Redis client.
func New(client goredis.UniversalClient, opts Options) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if opts.TTL < 0 {
		return nil, fmt.Errorf("token ttl must not be negative")
	}
	prefix := opts.KeyPrefix
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix, ttl: opts.TTL}, nil
}

// Dial connects to addr and verifies the connection with PING.
func Dial(ctx context.Context, addr, password string, db int, opts Options) (*Store, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	store, err := New(client, opts)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return store, nil
}

// GetToken returns the token stored for clientID.
func (s *Store) GetToken(ctx context.Context, clientID string) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("storage is not configured")
	}
	token, err := s.client.Get(ctx, s.key(clientID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get session token: %w", err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, s.key(clientID), s.ttl).Err(); err != nil {
			return "", fmt.Errorf("refresh session token ttl: %w", err)
		}
	}
	return token, nil
}

// PutToken stores token for clientID.
func (s *Store) PutToken(ctx context.Context, clientID string, token string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(clientID) == "" {
		return fmt.Errorf("client id is required")
	}
	if err := s.client.Set(ctx, s.key(clientID), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("put session token: %w", err)
	}
	return nil
}

// DeleteToken removes the token for clientID. Deleting a missing token is not an error.
func (s *Store) DeleteToken(ctx context.Context, clientID string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := s.client.Del(ctx, s.key(clientID)).Err(); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Store) key(clientID string) string {
	return s.prefix + clientID
}

var _ storage.Store = (*Store)(nil)
