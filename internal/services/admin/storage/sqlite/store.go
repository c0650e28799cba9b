package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/libraryadmin/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/libraryadmin/internal/services/admin/storage"
	"github.com/louisbranch/libraryadmin/internal/services/admin/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

// Store provides a SQLite-backed token store.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens a SQLite store at the provided path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{
		sqlDB: sqlDB,
		now:   func() time.Time { return time.Now().UTC() },
	}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetToken returns the token stored for clientID.
func (s *Store) GetToken(ctx context.Context, clientID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", fmt.Errorf("storage is not configured")
	}

	var token string
	row := s.sqlDB.QueryRowContext(ctx, "SELECT token FROM session_tokens WHERE client_id = ?", clientID)
	if err := row.Scan(&token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("get session token: %w", err)
	}
	return token, nil
}

// PutToken upserts the token for clientID.
func (s *Store) PutToken(ctx context.Context, clientID string, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(clientID) == "" {
		return fmt.Errorf("client id is required")
	}

	now := s.now().Format(timeFormat)
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO session_tokens (client_id, token, created_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(client_id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`,
		clientID, token, now, now,
	)
	if err != nil {
		return fmt.Errorf("put session token: %w", err)
	}
	return nil
}

// DeleteToken removes the token for clientID. Deleting a missing token is not an error.
func (s *Store) DeleteToken(ctx context.Context, clientID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM session_tokens WHERE client_id = ?", clientID); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	return nil
}

var _ storage.Store = (*Store)(nil)
