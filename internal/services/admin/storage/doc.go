// Package storage defines persistence contracts for server-side session tokens.
//
// Backends key one opaque token per browser client. Handlers reach them only
// through the session package, so page code never depends on a concrete store.
package storage
