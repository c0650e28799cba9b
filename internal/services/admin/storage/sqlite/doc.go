// Package sqlite provides SQLite-backed session token persistence.
//
// Tokens live in their own database file so the dashboard can be restarted
// without signing every operator out.
package sqlite
