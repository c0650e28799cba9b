package sqlitemigrate

import (
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyMigrationsRecordsApplied(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);")},
		"README.md":      &fstest.MapFile{Data: []byte("not a migration")},
	}
	if err := ApplyMigrations(db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected 1 migration row, got %d", rows)
	}
	if !tableExists(t, db, "items") {
		t.Fatal("expected applied table to exist")
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);")},
	}
	for i := 0; i < 2; i++ {
		if err := ApplyMigrations(db, migrations, ""); err != nil {
			t.Fatalf("apply migrations run %d: %v", i, err)
		}
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected single migration row after replay, got %d", rows)
	}
}

func TestApplyMigrationsRunsInNameOrder(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"002_index.sql":  &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE INDEX items_name ON items(name);")},
		"001_create.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY, name TEXT);")},
	}
	if err := ApplyMigrations(db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 2 {
		t.Fatalf("expected 2 migration rows, got %d", rows)
	}
}

func TestApplyMigrationsFromSubdirectory(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"sql/001_create.sql": &fstest.MapFile{Data: []byte("CREATE TABLE items(id TEXT PRIMARY KEY);")},
	}
	if err := ApplyMigrations(db, migrations, "sql"); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	var name string
	if err := db.QueryRow("SELECT name FROM schema_migrations").Scan(&name); err != nil {
		t.Fatalf("scan migration name: %v", err)
	}
	if name != "sql/001_create.sql" {
		t.Fatalf("name = %q, want %q", name, "sql/001_create.sql")
	}
}

func TestApplyMigrationsDoesNotRecordFailedMigration(t *testing.T) {
	db := openInMemoryDB(t)

	bad := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREAT table things(id INT);")},
	}
	if err := ApplyMigrations(db, bad, ""); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 0 {
		t.Fatalf("expected failed migration to stay unrecorded, got %d rows", rows)
	}
}

func TestApplyMigrationsRequiresInputs(t *testing.T) {
	if err := ApplyMigrations(nil, fstest.MapFS{}, ""); err == nil {
		t.Fatal("expected error for nil db")
	}
	if err := ApplyMigrations(openInMemoryDB(t), nil, ""); err == nil {
		t.Fatal("expected error for nil fs")
	}
}

func TestExtractUpMigration(t *testing.T) {
	tests := map[string]string{
		"CREATE TABLE a(id INT);":                                         "CREATE TABLE a(id INT);",
		"-- +migrate Up\nCREATE TABLE a(id INT);":                         "\nCREATE TABLE a(id INT);",
		"-- +migrate Up\nCREATE TABLE a(id INT);\n-- +migrate Down\nDROP": "\nCREATE TABLE a(id INT);\n",
	}
	for input, want := range tests {
		if got := ExtractUpMigration(input); got != want {
			t.Fatalf("ExtractUpMigration(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestIsAlreadyExistsError(t *testing.T) {
	if IsAlreadyExistsError(nil) {
		t.Fatal("nil error should not match")
	}
	if !IsAlreadyExistsError(errors.New("table items already exists")) {
		t.Fatal("expected already exists match")
	}
	if !IsAlreadyExistsError(errors.New("duplicate column name: title")) {
		t.Fatal("expected duplicate column match")
	}
	if IsAlreadyExistsError(errors.New("syntax error")) {
		t.Fatal("syntax error should not match")
	}
}

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func queryInt64(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow(query).Scan(&value); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		t.Fatalf("check table %s: %v", name, err)
	}
	return true
}
